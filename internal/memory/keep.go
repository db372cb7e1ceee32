// Package memory is the memory keep: a list of captured notes, newest first.
package memory

import (
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/kalambet/solaces/internal/docs"
)

// Keep stores captured memory items.
type Keep struct {
	kv     docs.KV
	now    func() time.Time
	newID  func() string
	logger *slog.Logger

	mu sync.Mutex
}

// NewKeep creates a Keep over kv.
func NewKeep(kv docs.KV) *Keep {
	return &Keep{
		kv:     kv,
		now:    time.Now,
		newID:  uuid.NewString,
		logger: slog.Default(),
	}
}

// List returns the stored items, newest first.
func (k *Keep) List() []docs.MemoryItem {
	return docs.LoadMemory(k.kv)
}

// Capture stores a new item at the front of the list. Blank title and
// blank body together is a no-op and reports false.
func (k *Keep) Capture(title, body, tag string) (docs.MemoryItem, bool, error) {
	title, body, tag = strings.TrimSpace(title), strings.TrimSpace(body), strings.TrimSpace(tag)
	if title == "" && body == "" {
		return docs.MemoryItem{}, false, nil
	}
	if title == "" {
		title = docs.UntitledMemory
	}
	item := docs.MemoryItem{
		ID:        k.newID(),
		Title:     title,
		Body:      body,
		Tag:       tag,
		CreatedAt: k.now().UTC(),
	}

	k.mu.Lock()
	defer k.mu.Unlock()

	items := docs.LoadMemory(k.kv)
	next := make([]docs.MemoryItem, 0, len(items)+1)
	next = append(next, item)
	next = append(next, items...)
	if err := docs.SaveMemory(k.kv, next); err != nil {
		k.logger.Warn("persisting memory failed", "error", err)
		return item, true, err
	}
	return item, true, nil
}

// Delete removes the item with id. Unknown ids are a no-op and report false.
func (k *Keep) Delete(id string) (bool, error) {
	k.mu.Lock()
	defer k.mu.Unlock()

	items := docs.LoadMemory(k.kv)
	next := make([]docs.MemoryItem, 0, len(items))
	for _, it := range items {
		if it.ID != id {
			next = append(next, it)
		}
	}
	if len(next) == len(items) {
		return false, nil
	}
	return true, docs.SaveMemory(k.kv, next)
}
