// Package briefing holds the daily command briefing: a focus line, a state
// word, three priorities, signals and boundaries.
package briefing

import (
	"errors"
	"fmt"
	"sync"

	"github.com/kalambet/solaces/internal/docs"
)

// Board reads and edits the stored briefing.
type Board struct {
	kv docs.KV
	mu sync.Mutex
}

// NewBoard creates a Board over kv.
func NewBoard(kv docs.KV) *Board {
	return &Board{kv: kv}
}

// Get returns the current briefing.
func (b *Board) Get() docs.Briefing {
	return docs.LoadBriefing(b.kv)
}

// ErrPriorityRange is returned for a priority slot outside the board.
var ErrPriorityRange = errors.New("priority index out of range")

// Update is a partial edit. Nil fields are left unchanged; Priorities maps
// a slot index to its new text.
type Update struct {
	Focus      *string        `json:"focus,omitempty"`
	StateWord  *string        `json:"stateWord,omitempty"`
	Priorities map[int]string `json:"priorities,omitempty"`
	Signals    *string        `json:"signals,omitempty"`
	Boundaries *string        `json:"boundaries,omitempty"`
}

// Apply validates u, writes it over the stored briefing and returns the result.
func (b *Board) Apply(u Update) (docs.Briefing, error) {
	for i := range u.Priorities {
		if i < 0 || i >= docs.PriorityCount {
			return docs.Briefing{}, fmt.Errorf("%w: %d (want 0..%d)", ErrPriorityRange, i, docs.PriorityCount-1)
		}
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	cur := docs.LoadBriefing(b.kv)
	if u.Focus != nil {
		cur.Focus = *u.Focus
	}
	if u.StateWord != nil {
		cur.StateWord = docs.TruncateStateWord(*u.StateWord)
	}
	for i, v := range u.Priorities {
		cur.Priorities[i] = v
	}
	if u.Signals != nil {
		cur.Signals = *u.Signals
	}
	if u.Boundaries != nil {
		cur.Boundaries = *u.Boundaries
	}
	if err := docs.SaveBriefing(b.kv, cur); err != nil {
		return cur, err
	}
	return cur, nil
}

// SetFocus sets the focus line.
func (b *Board) SetFocus(v string) (docs.Briefing, error) {
	return b.Apply(Update{Focus: &v})
}

// SetStateWord sets the state word, cut to docs.MaxStateWord runes.
func (b *Board) SetStateWord(v string) (docs.Briefing, error) {
	return b.Apply(Update{StateWord: &v})
}

// SetPriority sets priority slot i (0..2).
func (b *Board) SetPriority(i int, v string) (docs.Briefing, error) {
	return b.Apply(Update{Priorities: map[int]string{i: v}})
}

// SetSignals sets the signals text.
func (b *Board) SetSignals(v string) (docs.Briefing, error) {
	return b.Apply(Update{Signals: &v})
}

// SetBoundaries sets the boundaries text.
func (b *Board) SetBoundaries(v string) (docs.Briefing, error) {
	return b.Apply(Update{Boundaries: &v})
}
