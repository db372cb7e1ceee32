// Package docs holds the typed documents persisted by the control panel and
// the codecs that read and write them.
//
// Every reader in this package is total: an absent store, a missing key,
// malformed JSON, or a document of the wrong shape all decode to the
// document's default value. Partially valid documents are normalized field
// by field so a single bad element never discards the whole document.
package docs

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
)

// KV is the storage port every document codec reads and writes through.
// Implemented by storage.Store, storage.RedisStore and storage.Memory.
// A nil KV is valid and behaves like an empty, read-only store.
type KV interface {
	Get(key string) (string, bool, error)
	Set(key, value string) error
}

// Store keys. Each key is owned by exactly one feature.
const (
	DevicesKey   = "astra.devices.v1"
	LogKey       = "astra.log.v1"
	SystemsKey   = "solaces.systems.profiles.v2"
	OraclePrefix = "solaces.oracle.daily:"
	MemoryKey    = "solaces.memory.v1"
	BriefingKey  = "solaces.briefing.v1"
)

// Prefixes lists the key namespaces owned by the application.
var Prefixes = []string{"astra.", "solaces."}

// read fetches the raw text for key. Store faults are logged and reported
// as absent.
func read(kv KV, key string) (string, bool) {
	if kv == nil {
		return "", false
	}
	raw, ok, err := kv.Get(key)
	if err != nil {
		slog.Warn("reading document failed, using default", "key", key, "error", err)
		return "", false
	}
	if !ok || strings.TrimSpace(raw) == "" {
		return "", false
	}
	return raw, true
}

// write serializes v and stores it under key. A nil store is a no-op.
func write(kv KV, key string, v any) error {
	if kv == nil {
		return nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encoding %s: %w", key, err)
	}
	if err := kv.Set(key, string(b)); err != nil {
		return fmt.Errorf("writing %s: %w", key, err)
	}
	return nil
}

// object is a loosely decoded JSON object whose fields are read through the
// typed accessors below.
type object map[string]json.RawMessage

func parseObject(data []byte) (object, error) {
	var o object
	if err := json.Unmarshal(data, &o); err != nil {
		return nil, err
	}
	if o == nil {
		return nil, fmt.Errorf("expected object, got null")
	}
	return o, nil
}

func parseArray(data []byte) ([]json.RawMessage, error) {
	var arr []json.RawMessage
	if err := json.Unmarshal(data, &arr); err != nil {
		return nil, err
	}
	if arr == nil {
		return nil, fmt.Errorf("expected array, got null")
	}
	return arr, nil
}

// str returns the string field named key. Non-string values, null
// included, report false.
func (o object) str(key string) (string, bool) {
	raw, ok := o[key]
	if !ok || isNull(raw) {
		return "", false
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", false
	}
	return s, true
}

func (o object) strOr(key, fallback string) string {
	if s, ok := o.str(key); ok {
		return s
	}
	return fallback
}

func (o object) boolean(key string) (bool, bool) {
	raw, ok := o[key]
	if !ok || isNull(raw) {
		return false, false
	}
	var b bool
	if err := json.Unmarshal(raw, &b); err != nil {
		return false, false
	}
	return b, true
}

func isNull(raw json.RawMessage) bool {
	return strings.TrimSpace(string(raw)) == "null"
}

// eachObject calls fn for every element of arr that is a JSON object.
func eachObject(arr []json.RawMessage, fn func(object)) {
	for _, raw := range arr {
		o, err := parseObject(raw)
		if err != nil {
			continue
		}
		fn(o)
	}
}
