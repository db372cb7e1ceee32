package docs

import (
	"fmt"
	"strings"
)

// SystemStatus is the health mark of a tracked system.
type SystemStatus string

const (
	SystemOK      SystemStatus = "ok"
	SystemWatch   SystemStatus = "watch"
	SystemIssue   SystemStatus = "issue"
	SystemOffline SystemStatus = "offline"
	SystemUnknown SystemStatus = "unknown"
)

// StatusImportance orders statuses from most to least urgent.
var StatusImportance = []SystemStatus{SystemIssue, SystemWatch, SystemOffline, SystemOK, SystemUnknown}

// ParseSystemStatus maps s onto a known status; anything else is SystemUnknown.
func ParseSystemStatus(s string) SystemStatus {
	switch st := SystemStatus(strings.ToLower(strings.TrimSpace(s))); st {
	case SystemOK, SystemWatch, SystemIssue, SystemOffline:
		return st
	default:
		return SystemUnknown
	}
}

// Valid reports whether s is one of the five known statuses.
func (s SystemStatus) Valid() bool {
	switch s {
	case SystemOK, SystemWatch, SystemIssue, SystemOffline, SystemUnknown:
		return true
	}
	return false
}

// Label is the display form of the status.
func (s SystemStatus) Label() string {
	switch s {
	case SystemOK:
		return "OK"
	case SystemWatch:
		return "Watch"
	case SystemIssue:
		return "Issue"
	case SystemOffline:
		return "Offline"
	default:
		return "Unknown"
	}
}

// SystemItem is a tracked dependency.
type SystemItem struct {
	ID     string       `json:"id"`
	Name   string       `json:"name"`
	Status SystemStatus `json:"status"`
	Notes  string       `json:"notes"`
}

// Profile is a named, ordered collection of systems.
type Profile struct {
	ID      string       `json:"id"`
	Name    string       `json:"name"`
	Systems []SystemItem `json:"systems"`
}

// SystemsState is the whole systems document: every profile plus the
// currently active one.
type SystemsState struct {
	ActiveProfileID string    `json:"activeProfileId"`
	Profiles        []Profile `json:"profiles"`
}

// Active returns the active profile, falling back to the first one.
func (s SystemsState) Active() (Profile, bool) {
	for _, p := range s.Profiles {
		if p.ID == s.ActiveProfileID {
			return p, true
		}
	}
	if len(s.Profiles) > 0 {
		return s.Profiles[0], true
	}
	return Profile{}, false
}

func defaultSystems() []SystemItem {
	return []SystemItem{
		{ID: "email", Name: "Email / Communication", Status: SystemUnknown},
		{ID: "tickets", Name: "Ticketing / Helpdesk", Status: SystemUnknown},
		{ID: "monitoring", Name: "Monitoring / Alerts", Status: SystemUnknown},
		{ID: "automation", Name: "Automation / Scripts", Status: SystemUnknown},
		{ID: "self", Name: "Self (internal system)", Status: SystemUnknown},
	}
}

// DefaultSystemsState seeds three profiles with the same starter systems.
func DefaultSystemsState() SystemsState {
	return SystemsState{
		ActiveProfileID: "general",
		Profiles: []Profile{
			{ID: "general", Name: "General", Systems: defaultSystems()},
			{ID: "workday", Name: "Workday", Systems: defaultSystems()},
			{ID: "oncall", Name: "On-call", Systems: defaultSystems()},
		},
	}
}

// ParseSystems decodes a systems document. It fails when data is not an
// object with a "profiles" array or when no usable profile survives
// normalization.
func ParseSystems(data []byte) (SystemsState, error) {
	o, err := parseObject(data)
	if err != nil {
		return SystemsState{}, err
	}
	rawProfiles, ok := o["profiles"]
	if !ok {
		return SystemsState{}, fmt.Errorf("missing profiles")
	}
	arr, err := parseArray(rawProfiles)
	if err != nil {
		return SystemsState{}, fmt.Errorf("profiles: %w", err)
	}

	var state SystemsState
	eachObject(arr, func(po object) {
		if p, ok := normalizeProfile(po); ok {
			state.Profiles = append(state.Profiles, p)
		}
	})
	if len(state.Profiles) == 0 {
		return SystemsState{}, fmt.Errorf("no profiles")
	}

	state.ActiveProfileID = o.strOr("activeProfileId", "")
	active, _ := state.Active()
	state.ActiveProfileID = active.ID
	return state, nil
}

func normalizeProfile(o object) (Profile, bool) {
	id, ok := o.str("id")
	if !ok || id == "" {
		return Profile{}, false
	}
	p := Profile{ID: id, Name: o.strOr("name", id), Systems: []SystemItem{}}
	if raw, ok := o["systems"]; ok {
		if arr, err := parseArray(raw); err == nil {
			eachObject(arr, func(so object) {
				if s, ok := normalizeSystem(so); ok {
					p.Systems = append(p.Systems, s)
				}
			})
		}
	}
	return p, true
}

func normalizeSystem(o object) (SystemItem, bool) {
	id, ok := o.str("id")
	if !ok || id == "" {
		return SystemItem{}, false
	}
	return SystemItem{
		ID:     id,
		Name:   o.strOr("name", id),
		Status: ParseSystemStatus(o.strOr("status", "")),
		Notes:  o.strOr("notes", ""),
	}, true
}

// DecodeSystems returns the stored systems document or the seeded default.
func DecodeSystems(raw string) SystemsState {
	if strings.TrimSpace(raw) == "" {
		return DefaultSystemsState()
	}
	s, err := ParseSystems([]byte(raw))
	if err != nil {
		return DefaultSystemsState()
	}
	return s
}

// LoadSystems reads the systems document from kv.
func LoadSystems(kv KV) SystemsState {
	raw, ok := read(kv, SystemsKey)
	if !ok {
		return DefaultSystemsState()
	}
	return DecodeSystems(raw)
}

// LookupSystems is like LoadSystems but reports false instead of falling
// back to the seeded default.
func LookupSystems(kv KV) (SystemsState, bool) {
	raw, ok := read(kv, SystemsKey)
	if !ok {
		return SystemsState{}, false
	}
	s, err := ParseSystems([]byte(raw))
	if err != nil {
		return SystemsState{}, false
	}
	return s, true
}

// SaveSystems overwrites the stored systems document.
func SaveSystems(kv KV, s SystemsState) error {
	return write(kv, SystemsKey, s)
}
