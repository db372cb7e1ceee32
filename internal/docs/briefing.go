package docs

import (
	"encoding/json"
	"strings"
)

const (
	// PriorityCount is the fixed number of priority slots.
	PriorityCount = 3
	// MaxStateWord bounds the state word, in runes.
	MaxStateWord = 32
)

// Briefing is the daily command briefing.
type Briefing struct {
	Focus      string   `json:"focus"`
	StateWord  string   `json:"stateWord"`
	Priorities []string `json:"priorities"`
	Signals    string   `json:"signals"`
	Boundaries string   `json:"boundaries"`
}

// DefaultBriefing has every field blank and three empty priorities.
func DefaultBriefing() Briefing {
	return Briefing{Priorities: make([]string, PriorityCount)}
}

// TruncateStateWord cuts s to MaxStateWord runes.
func TruncateStateWord(s string) string {
	r := []rune(s)
	if len(r) > MaxStateWord {
		return string(r[:MaxStateWord])
	}
	return s
}

// DecodeBriefing merges the stored fields over the default briefing.
func DecodeBriefing(raw string) Briefing {
	b := DefaultBriefing()
	o, err := parseObject([]byte(raw))
	if err != nil {
		return b
	}
	b.Focus = o.strOr("focus", "")
	b.StateWord = TruncateStateWord(o.strOr("stateWord", ""))
	b.Signals = o.strOr("signals", "")
	b.Boundaries = o.strOr("boundaries", "")
	if rawP, ok := o["priorities"]; ok {
		if arr, err := parseArray(rawP); err == nil {
			for i := 0; i < PriorityCount && i < len(arr); i++ {
				var s string
				if json.Unmarshal(arr[i], &s) == nil {
					b.Priorities[i] = s
				}
			}
		}
	}
	return b
}

// LoadBriefing reads the briefing from kv.
func LoadBriefing(kv KV) Briefing {
	raw, ok := read(kv, BriefingKey)
	if !ok {
		return DefaultBriefing()
	}
	return DecodeBriefing(raw)
}

// SaveBriefing normalizes b and overwrites the stored briefing.
func SaveBriefing(kv KV, b Briefing) error {
	p := make([]string, PriorityCount)
	copy(p, b.Priorities)
	b.Priorities = p
	b.StateWord = TruncateStateWord(b.StateWord)
	return write(kv, BriefingKey, b)
}

// IsBlank reports whether nothing has been written into b.
func (b Briefing) IsBlank() bool {
	for _, p := range b.Priorities {
		if strings.TrimSpace(p) != "" {
			return false
		}
	}
	return strings.TrimSpace(b.Focus+b.StateWord+b.Signals+b.Boundaries) == ""
}
