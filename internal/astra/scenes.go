package astra

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/kalambet/solaces/internal/docs"
)

// Scene is a named preset that sets several devices at once.
type Scene struct {
	ID    string `yaml:"id" json:"id"`
	Label string `yaml:"label" json:"label"`
	// All, when set, is the target state for every device before rules apply.
	All   *bool  `yaml:"all,omitempty" json:"all,omitempty"`
	Rules []Rule `yaml:"rules" json:"rules"`
}

// Rule targets devices by id or by kind. The first matching rule wins.
type Rule struct {
	DeviceID string `yaml:"device_id,omitempty" json:"deviceId,omitempty"`
	Kind     string `yaml:"kind,omitempty" json:"kind,omitempty"`
	On       bool   `yaml:"on" json:"on"`
}

func (r Rule) matches(d docs.Device) bool {
	if r.DeviceID != "" {
		return r.DeviceID == d.ID
	}
	return docs.ParseKind(r.Kind) == d.Kind
}

// Apply returns a new device list with the scene's targets applied.
func (s Scene) Apply(devices []docs.Device) []docs.Device {
	out := docs.CloneDevices(devices)
	for i := range out {
		if s.All != nil {
			out[i].IsOn = *s.All
		}
		for _, r := range s.Rules {
			if r.matches(out[i]) {
				out[i].IsOn = r.On
				break
			}
		}
	}
	return out
}

// SceneBook is an ordered, id-indexed set of scenes.
type SceneBook struct {
	scenes []Scene
	byID   map[string]int
}

// NewSceneBook validates scenes and indexes them by id.
func NewSceneBook(scenes []Scene) (*SceneBook, error) {
	b := &SceneBook{byID: make(map[string]int, len(scenes))}
	for i, s := range scenes {
		if s.ID == "" {
			return nil, fmt.Errorf("scene %d: missing id", i)
		}
		if _, dup := b.byID[s.ID]; dup {
			return nil, fmt.Errorf("scene %q: duplicate id", s.ID)
		}
		for j, r := range s.Rules {
			if (r.DeviceID == "") == (r.Kind == "") {
				return nil, fmt.Errorf("scene %q rule %d: exactly one of device_id or kind is required", s.ID, j)
			}
		}
		if s.Label == "" {
			s.Label = s.ID
		}
		b.byID[s.ID] = len(b.scenes)
		b.scenes = append(b.scenes, s)
	}
	return b, nil
}

// Lookup returns the scene with the given id.
func (b *SceneBook) Lookup(id string) (Scene, bool) {
	if b == nil {
		return Scene{}, false
	}
	i, ok := b.byID[id]
	if !ok {
		return Scene{}, false
	}
	return b.scenes[i], true
}

// List returns the scenes in file order.
func (b *SceneBook) List() []Scene {
	if b == nil {
		return nil
	}
	out := make([]Scene, len(b.scenes))
	copy(out, b.scenes)
	return out
}

type sceneFile struct {
	Scenes []Scene `yaml:"scenes"`
}

// LoadScenes reads a YAML scenes file. An empty path yields the built-in scenes.
func LoadScenes(path string) (*SceneBook, error) {
	if path == "" {
		return NewSceneBook(DefaultScenes())
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading scenes %s: %w", path, err)
	}
	return ParseScenes(data)
}

// ParseScenes decodes a YAML scenes document.
func ParseScenes(data []byte) (*SceneBook, error) {
	var f sceneFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing scenes: %w", err)
	}
	return NewSceneBook(f.Scenes)
}

// DefaultScenes are the presets shipped with the control panel.
func DefaultScenes() []Scene {
	off := false
	return []Scene{
		{
			ID:    "focus",
			Label: "Focus (desk lights ON, ambient OFF, TV OFF)",
			Rules: []Rule{
				{DeviceID: "desk-lights", On: true},
				{DeviceID: "ambient-lights", On: false},
				{Kind: string(docs.KindTV), On: false},
			},
		},
		{
			ID:    "evening",
			Label: "Evening calm (ambient ON, desk OFF, TV ON)",
			Rules: []Rule{
				{DeviceID: "desk-lights", On: false},
				{DeviceID: "ambient-lights", On: true},
				{Kind: string(docs.KindTV), On: true},
			},
		},
		{
			ID:    "sleep",
			Label: "Sleep (all devices OFF)",
			All:   &off,
		},
	}
}
