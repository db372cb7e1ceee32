// Package oracle is the daily reflection journal: one entry per calendar
// day with signal, friction and alignment notes.
package oracle

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/kalambet/solaces/internal/docs"
)

// TimelineDays is how many days Recent looks back, today included.
const TimelineDays = 7

var stillnessPrompts = []string{
	"What did stillness reveal today that motion would have blurred out of view?",
	"Where did you choose comprehension over control?",
	"Which question has quietly repeated itself in the back of your mind?",
	"What tension is asking to be observed, not solved?",
	"Where could you subtract instead of add?",
}

const dailyPassage = "To see clearly is to move slowly. The world will try to hurry you into " +
	"choices that aren’t yours. Pause until the shape of things becomes simple again."

// Dated is an entry together with its calendar day.
type Dated struct {
	Date  string           `json:"date"`
	Entry docs.OracleEntry `json:"entry"`
}

// Journal reads and writes daily oracle entries.
type Journal struct {
	kv     docs.KV
	logger *slog.Logger

	mu sync.Mutex
}

// NewJournal creates a Journal over kv.
func NewJournal(kv docs.KV) *Journal {
	return &Journal{kv: kv, logger: slog.Default()}
}

// Entry returns the entry for date (YYYY-MM-DD). Days never written are empty.
func (j *Journal) Entry(date string) (docs.OracleEntry, error) {
	key, err := docs.OracleKeyForDate(date)
	if err != nil {
		return docs.OracleEntry{}, err
	}
	return docs.LoadOracle(j.kv, key), nil
}

// UpdateField sets one field of date's entry, creating the entry on the
// first edit, and returns the updated entry.
func (j *Journal) UpdateField(date string, field docs.OracleField, value string) (docs.OracleEntry, error) {
	key, err := docs.OracleKeyForDate(date)
	if err != nil {
		return docs.OracleEntry{}, err
	}

	j.mu.Lock()
	defer j.mu.Unlock()

	next := docs.LoadOracle(j.kv, key).With(field, value)
	if err := docs.SaveOracle(j.kv, key, next); err != nil {
		j.logger.Warn("persisting oracle entry failed", "date", date, "error", err)
		return next, err
	}
	return next, nil
}

// Recent returns the entries with content among the last days days ending
// at today, most recent first.
func (j *Journal) Recent(today time.Time, days int) []Dated {
	var out []Dated
	for i := 0; i < days; i++ {
		d := today.AddDate(0, 0, -i)
		e := docs.LoadOracle(j.kv, docs.OracleKey(d))
		if e.HasContent() {
			out = append(out, Dated{Date: d.Format(docs.DateLayout), Entry: e})
		}
	}
	return out
}

// DailyPrompt picks the reflection prompt for the calendar day of t.
func DailyPrompt(t time.Time) string {
	i := (t.Year() + int(t.Month()) - 1 + t.Day()) % len(stillnessPrompts)
	return stillnessPrompts[i]
}

// DailyPassage is the fixed reading shown above the journal.
func DailyPassage() string {
	return dailyPassage
}

// ShiftDay moves a YYYY-MM-DD date by delta days.
func ShiftDay(date string, delta int) (string, error) {
	t, err := time.Parse(docs.DateLayout, date)
	if err != nil {
		return "", fmt.Errorf("invalid date %q: %w", date, err)
	}
	return t.AddDate(0, 0, delta).Format(docs.DateLayout), nil
}

// DateLabel renders a YYYY-MM-DD date as "Mon, Jan 2, 2006".
func DateLabel(date string) string {
	t, err := time.Parse(docs.DateLayout, date)
	if err != nil {
		return date
	}
	return t.Format("Mon, Jan 2, 2006")
}

// Today is the date string of t in t's location.
func Today(t time.Time) string {
	return t.Format(docs.DateLayout)
}
