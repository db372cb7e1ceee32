package docs

import (
	"strings"
)

// DeviceKind classifies a controllable home entity.
type DeviceKind string

const (
	KindTV     DeviceKind = "tv"
	KindLights DeviceKind = "lights"
	KindAudio  DeviceKind = "audio"
	KindDoor   DeviceKind = "door"
	KindOther  DeviceKind = "other"
)

// ParseKind maps s onto a known kind; anything unrecognized is KindOther.
func ParseKind(s string) DeviceKind {
	switch k := DeviceKind(strings.ToLower(strings.TrimSpace(s))); k {
	case KindTV, KindLights, KindAudio, KindDoor:
		return k
	default:
		return KindOther
	}
}

// Device is a controllable home entity as shown on the Astra page.
type Device struct {
	ID       string     `json:"id"`
	Name     string     `json:"name"`
	Location string     `json:"location"`
	Kind     DeviceKind `json:"kind"`
	IsOn     bool       `json:"isOn"`
}

// StatusText is the badge shown for the device. Doors read as locked/unlocked.
func (d Device) StatusText() string {
	if d.Kind == KindDoor {
		if d.IsOn {
			return "LOCKED"
		}
		return "UNLOCKED"
	}
	if d.IsOn {
		return "ON"
	}
	return "OFF"
}

// DefaultDevices is the seed list used before the gateway has ever answered.
func DefaultDevices() []Device {
	return []Device{
		{ID: "primary-tv", Name: "Primary Screen", Location: "Living room", Kind: KindTV},
		{ID: "ambient-lights", Name: "Ambient Lights", Location: "Common areas", Kind: KindLights},
		{ID: "desk-lights", Name: "Desk Lights", Location: "Work corner", Kind: KindLights},
		{ID: "media-audio", Name: "Media Audio", Location: "Living room", Kind: KindAudio},
	}
}

// ParseDevices decodes a JSON array of device records. The on/off flag is
// accepted as either "isOn" or "is_on". Elements without an id are dropped.
// It fails only when data is not a JSON array.
func ParseDevices(data []byte) ([]Device, error) {
	arr, err := parseArray(data)
	if err != nil {
		return nil, err
	}
	devices := make([]Device, 0, len(arr))
	eachObject(arr, func(o object) {
		d, ok := normalizeDevice(o)
		if ok {
			devices = append(devices, d)
		}
	})
	return devices, nil
}

func normalizeDevice(o object) (Device, bool) {
	id, ok := o.str("id")
	if !ok || id == "" {
		return Device{}, false
	}
	d := Device{
		ID:       id,
		Name:     o.strOr("name", id),
		Location: o.strOr("location", ""),
		Kind:     ParseKind(o.strOr("kind", "")),
	}
	if on, ok := o.boolean("is_on"); ok {
		d.IsOn = on
	} else if on, ok := o.boolean("isOn"); ok {
		d.IsOn = on
	}
	return d, true
}

// DecodeDevices returns the stored device list, or the seed list when raw
// is empty or not an array.
func DecodeDevices(raw string) []Device {
	if strings.TrimSpace(raw) == "" {
		return DefaultDevices()
	}
	devices, err := ParseDevices([]byte(raw))
	if err != nil {
		return DefaultDevices()
	}
	return devices
}

// LoadDevices reads the device list from kv.
func LoadDevices(kv KV) []Device {
	raw, ok := read(kv, DevicesKey)
	if !ok {
		return DefaultDevices()
	}
	return DecodeDevices(raw)
}

// SaveDevices overwrites the stored device list.
func SaveDevices(kv KV, devices []Device) error {
	if devices == nil {
		devices = []Device{}
	}
	return write(kv, DevicesKey, devices)
}

// CloneDevices returns a copy of devices that shares no backing array.
func CloneDevices(devices []Device) []Device {
	out := make([]Device, len(devices))
	copy(out, devices)
	return out
}
