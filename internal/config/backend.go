package config

// ConfigBackend is the persistent store written by `solaces config set`.
// Durations are stored as strings and parsed on load.
type ConfigBackend interface {
	GetString(key string) (val string, ok bool, err error)
	GetInt(key string) (val int, ok bool, err error)
	SetString(key, val string) error
	SetInt(key string, val int) error
	Delete(key string) error
	// Location names where values are kept, e.g. a file path.
	Location() string
}
