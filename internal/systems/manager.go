// Package systems manages the systems atlas: named profiles, each an
// ordered list of tracked dependencies with a health status and notes.
package systems

import (
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/kalambet/solaces/internal/docs"
)

// Scope selects which profiles AddSystem writes into.
type Scope string

const (
	ScopeAll     Scope = "all"
	ScopeCurrent Scope = "current"
)

// ParseScope validates s. An empty string means ScopeAll.
func ParseScope(s string) (Scope, error) {
	switch Scope(strings.ToLower(strings.TrimSpace(s))) {
	case "", ScopeAll:
		return ScopeAll, nil
	case ScopeCurrent:
		return ScopeCurrent, nil
	default:
		return "", fmt.Errorf("unknown scope %q (want all or current)", s)
	}
}

// ErrInvalidStatus is returned when a patch carries an unknown status.
var ErrInvalidStatus = errors.New("invalid status")

// Patch is a partial update of a system. Nil fields are left unchanged.
type Patch struct {
	Name   *string            `json:"name,omitempty"`
	Status *docs.SystemStatus `json:"status,omitempty"`
	Notes  *string            `json:"notes,omitempty"`
}

// Clock abstracts time for testability.
type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }

// Manager reads and writes the systems document. Every operation loads
// the latest stored state, applies its change and writes it back.
type Manager struct {
	kv     docs.KV
	clock  Clock
	logger *slog.Logger

	mu sync.Mutex
}

// NewManager creates a Manager over kv.
func NewManager(kv docs.KV) *Manager {
	return NewManagerWithClock(kv, realClock{})
}

// NewManagerWithClock creates a Manager with a custom clock (for testing).
func NewManagerWithClock(kv docs.KV, clock Clock) *Manager {
	return &Manager{kv: kv, clock: clock, logger: slog.Default()}
}

// State returns the current systems document.
func (m *Manager) State() docs.SystemsState {
	m.mu.Lock()
	defer m.mu.Unlock()
	return docs.LoadSystems(m.kv)
}

// SetActiveProfile switches the active profile. Unknown ids are a no-op
// and report false.
func (m *Manager) SetActiveProfile(id string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s := docs.LoadSystems(m.kv)
	found := false
	for _, p := range s.Profiles {
		if p.ID == id {
			found = true
			break
		}
	}
	if !found {
		return false, nil
	}
	s.ActiveProfileID = id
	return true, m.save(s)
}

// UpdateSystem patches a system in the active profile. Reports false when
// the active profile has no system with that id.
func (m *Manager) UpdateSystem(id string, patch Patch) (docs.SystemItem, bool, error) {
	if patch.Status != nil && !patch.Status.Valid() {
		return docs.SystemItem{}, false, fmt.Errorf("%w %q", ErrInvalidStatus, *patch.Status)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	s := docs.LoadSystems(m.kv)
	active, ok := s.Active()
	if !ok {
		return docs.SystemItem{}, false, nil
	}
	for pi := range s.Profiles {
		if s.Profiles[pi].ID != active.ID {
			continue
		}
		for si := range s.Profiles[pi].Systems {
			sys := &s.Profiles[pi].Systems[si]
			if sys.ID != id {
				continue
			}
			if patch.Name != nil {
				sys.Name = *patch.Name
			}
			if patch.Status != nil {
				sys.Status = *patch.Status
			}
			if patch.Notes != nil {
				sys.Notes = *patch.Notes
			}
			return *sys, true, m.save(s)
		}
	}
	return docs.SystemItem{}, false, nil
}

// AddSystem appends a new system with status unknown to every profile, or
// only the active one. A blank name is a no-op and reports false.
func (m *Manager) AddSystem(name string, scope Scope) (docs.SystemItem, bool, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return docs.SystemItem{}, false, nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	item := docs.SystemItem{
		ID:     NewSystemID(name, m.clock.Now()),
		Name:   name,
		Status: docs.SystemUnknown,
	}

	s := docs.LoadSystems(m.kv)
	active, _ := s.Active()
	for i := range s.Profiles {
		if scope == ScopeAll || s.Profiles[i].ID == active.ID {
			s.Profiles[i].Systems = append(s.Profiles[i].Systems, item)
		}
	}
	return item, true, m.save(s)
}

// RemoveSystem deletes a system from every profile. Reports false when no
// profile contained it.
func (m *Manager) RemoveSystem(id string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s := docs.LoadSystems(m.kv)
	removed := false
	for i := range s.Profiles {
		kept := s.Profiles[i].Systems[:0]
		for _, sys := range s.Profiles[i].Systems {
			if sys.ID == id {
				removed = true
				continue
			}
			kept = append(kept, sys)
		}
		s.Profiles[i].Systems = kept
	}
	if !removed {
		return false, nil
	}
	return true, m.save(s)
}

func (m *Manager) save(s docs.SystemsState) error {
	if err := docs.SaveSystems(m.kv, s); err != nil {
		m.logger.Warn("persisting systems failed", "error", err)
		return err
	}
	return nil
}

var (
	spaceRun = regexp.MustCompile(`\s+`)
	nonSlug  = regexp.MustCompile(`[^a-z0-9-]`)
)

// NewSystemID derives a system id from its display name and t: the slug of
// the name followed by the millisecond timestamp in hex.
func NewSystemID(name string, t time.Time) string {
	base := nonSlug.ReplaceAllString(spaceRun.ReplaceAllString(strings.ToLower(name), "-"), "")
	if base == "" {
		base = "system"
	}
	return base + "-" + strconv.FormatInt(t.UnixMilli(), 16)
}
