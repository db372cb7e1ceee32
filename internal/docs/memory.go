package docs

import (
	"strings"
	"time"
)

// UntitledMemory is the title given to captures without one.
const UntitledMemory = "(untitled)"

// MemoryItem is a captured note.
type MemoryItem struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Body      string    `json:"body"`
	Tag       string    `json:"tag"`
	CreatedAt time.Time `json:"createdAt"`
}

// DecodeMemory returns the stored notes, most recent first.
func DecodeMemory(raw string) []MemoryItem {
	if strings.TrimSpace(raw) == "" {
		return []MemoryItem{}
	}
	arr, err := parseArray([]byte(raw))
	if err != nil {
		return []MemoryItem{}
	}
	items := make([]MemoryItem, 0, len(arr))
	eachObject(arr, func(o object) {
		id, ok := o.str("id")
		if !ok || id == "" {
			return
		}
		item := MemoryItem{
			ID:    id,
			Title: o.strOr("title", UntitledMemory),
			Body:  o.strOr("body", ""),
			Tag:   o.strOr("tag", ""),
		}
		if ts, ok := o.str("createdAt"); ok {
			if t, err := time.Parse(time.RFC3339Nano, ts); err == nil {
				item.CreatedAt = t
			}
		}
		items = append(items, item)
	})
	return items
}

// LoadMemory reads the notes list from kv.
func LoadMemory(kv KV) []MemoryItem {
	raw, ok := read(kv, MemoryKey)
	if !ok {
		return []MemoryItem{}
	}
	return DecodeMemory(raw)
}

// SaveMemory overwrites the stored notes list.
func SaveMemory(kv KV, items []MemoryItem) error {
	if items == nil {
		items = []MemoryItem{}
	}
	return write(kv, MemoryKey, items)
}
