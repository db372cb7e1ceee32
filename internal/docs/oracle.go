package docs

import (
	"fmt"
	"strings"
	"time"
)

// DateLayout is the calendar-day form used in oracle keys.
const DateLayout = "2006-01-02"

// OracleField names one of the three reflection fields of a daily entry.
type OracleField string

const (
	FieldSignal    OracleField = "signal"
	FieldFriction  OracleField = "friction"
	FieldAlignment OracleField = "alignment"
)

// ParseOracleField validates s as a field name.
func ParseOracleField(s string) (OracleField, error) {
	switch f := OracleField(strings.ToLower(strings.TrimSpace(s))); f {
	case FieldSignal, FieldFriction, FieldAlignment:
		return f, nil
	default:
		return "", fmt.Errorf("unknown oracle field %q", s)
	}
}

// OracleEntry is one day's reflection.
type OracleEntry struct {
	Signal    string `json:"signal"`
	Friction  string `json:"friction"`
	Alignment string `json:"alignment"`
}

// HasContent reports whether any field holds non-whitespace text.
func (e OracleEntry) HasContent() bool {
	return strings.TrimSpace(e.Signal) != "" ||
		strings.TrimSpace(e.Friction) != "" ||
		strings.TrimSpace(e.Alignment) != ""
}

// With returns a copy of e with field set to value.
func (e OracleEntry) With(field OracleField, value string) OracleEntry {
	switch field {
	case FieldSignal:
		e.Signal = value
	case FieldFriction:
		e.Friction = value
	case FieldAlignment:
		e.Alignment = value
	}
	return e
}

// OracleKey returns the store key for the calendar day of t in t's location.
func OracleKey(t time.Time) string {
	return OraclePrefix + t.Format(DateLayout)
}

// OracleKeyForDate returns the store key for a YYYY-MM-DD date string.
func OracleKeyForDate(date string) (string, error) {
	if _, err := time.Parse(DateLayout, date); err != nil {
		return "", fmt.Errorf("invalid date %q: %w", date, err)
	}
	return OraclePrefix + date, nil
}

// DecodeOracle returns the stored entry; any malformed input yields an
// empty entry.
func DecodeOracle(raw string) OracleEntry {
	o, err := parseObject([]byte(raw))
	if err != nil {
		return OracleEntry{}
	}
	return OracleEntry{
		Signal:    o.strOr("signal", ""),
		Friction:  o.strOr("friction", ""),
		Alignment: o.strOr("alignment", ""),
	}
}

// LoadOracle reads the entry stored under key.
func LoadOracle(kv KV, key string) OracleEntry {
	raw, ok := read(kv, key)
	if !ok {
		return OracleEntry{}
	}
	return DecodeOracle(raw)
}

// SaveOracle overwrites the entry stored under key.
func SaveOracle(kv KV, key string, e OracleEntry) error {
	return write(kv, key, e)
}
