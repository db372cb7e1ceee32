package docs

import (
	"strings"
	"time"
)

// MaxLogEntries bounds the persisted command log.
const MaxLogEntries = 50

// LogStatus is the outcome recorded for a command.
type LogStatus string

const (
	StatusSuccess LogStatus = "success"
	StatusError   LogStatus = "error"
)

// isoMillis matches the millisecond ISO-8601 form used in log entry ids.
const isoMillis = "2006-01-02T15:04:05.000Z07:00"

// CommandLogEntry is an immutable record of an attempted action.
type CommandLogEntry struct {
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	Label     string    `json:"label"`
	Status    LogStatus `json:"status"`
	Detail    string    `json:"detail,omitempty"`
}

// LogEntryID composes an entry id from its timestamp and subject.
func LogEntryID(ts time.Time, subject string) string {
	return ts.UTC().Format(isoMillis) + "-" + subject
}

// AppendLog returns a new list with entry first, keeping at most
// MaxLogEntries entries. The input slice is not modified.
func AppendLog(entries []CommandLogEntry, entry CommandLogEntry) []CommandLogEntry {
	n := len(entries) + 1
	if n > MaxLogEntries {
		n = MaxLogEntries
	}
	next := make([]CommandLogEntry, 0, n)
	next = append(next, entry)
	for _, e := range entries {
		if len(next) == n {
			break
		}
		next = append(next, e)
	}
	return next
}

// DecodeLog returns the stored log, most recent first. Anything that is not
// an array decodes to an empty log.
func DecodeLog(raw string) []CommandLogEntry {
	if strings.TrimSpace(raw) == "" {
		return []CommandLogEntry{}
	}
	arr, err := parseArray([]byte(raw))
	if err != nil {
		return []CommandLogEntry{}
	}
	entries := make([]CommandLogEntry, 0, len(arr))
	eachObject(arr, func(o object) {
		if len(entries) == MaxLogEntries {
			return
		}
		id, ok := o.str("id")
		if !ok || id == "" {
			return
		}
		e := CommandLogEntry{
			ID:     id,
			Label:  o.strOr("label", ""),
			Status: StatusError,
			Detail: o.strOr("detail", ""),
		}
		if s, _ := o.str("status"); LogStatus(s) == StatusSuccess {
			e.Status = StatusSuccess
		}
		if ts, ok := o.str("timestamp"); ok {
			if t, err := time.Parse(time.RFC3339Nano, ts); err == nil {
				e.Timestamp = t
			}
		}
		entries = append(entries, e)
	})
	return entries
}

// LoadLog reads the command log from kv.
func LoadLog(kv KV) []CommandLogEntry {
	raw, ok := read(kv, LogKey)
	if !ok {
		return []CommandLogEntry{}
	}
	return DecodeLog(raw)
}

// SaveLog overwrites the stored command log.
func SaveLog(kv KV, entries []CommandLogEntry) error {
	if entries == nil {
		entries = []CommandLogEntry{}
	}
	return write(kv, LogKey, entries)
}
