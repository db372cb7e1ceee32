// Package astra implements the optimistic home-device dispatcher: local
// state changes immediately and is persisted, the gateway is told
// afterwards, and every attempt lands in a bounded command log.
package astra

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/kalambet/solaces/internal/docs"
	"github.com/kalambet/solaces/internal/gateway"
)

// Errors returned by the Roku operations.
var (
	ErrUnknownDevice = errors.New("unknown device")
	ErrNotTV         = errors.New("device is not a tv")
	ErrInvalidButton = errors.New("unknown remote button")
)

// Gateway is the remote side of the dispatcher.
// Implemented by gateway.Client.
type Gateway interface {
	SendCommand(ctx context.Context, deviceID string, on bool) error
	ActivateScene(ctx context.Context, sceneID string) error
	RokuApps(ctx context.Context, deviceID string) ([]gateway.RokuApp, error)
	RokuLaunch(ctx context.Context, deviceID, appID string) error
	RokuRemote(ctx context.Context, deviceID, button string) error
}

// Clock abstracts time for testability.
type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }

// RokuPanel is the ephemeral remote state of one Roku device.
type RokuPanel struct {
	Apps     []gateway.RokuApp `json:"apps"`
	Selected string            `json:"selected"`
	Busy     bool              `json:"busy"`
}

// Controller owns the in-memory device list and command log.
type Controller struct {
	kv     docs.KV
	gw     Gateway
	scenes *SceneBook
	clock  Clock
	logger *slog.Logger

	mu      sync.Mutex
	devices []docs.Device
	log     []docs.CommandLogEntry
	roku    map[string]*RokuPanel
}

// NewController loads the cached devices and log from kv.
func NewController(kv docs.KV, gw Gateway, scenes *SceneBook) *Controller {
	return NewControllerWithClock(kv, gw, scenes, realClock{})
}

// NewControllerWithClock creates a Controller with a custom clock (for testing).
func NewControllerWithClock(kv docs.KV, gw Gateway, scenes *SceneBook, clock Clock) *Controller {
	if scenes == nil {
		scenes, _ = NewSceneBook(DefaultScenes())
	}
	return &Controller{
		kv:      kv,
		gw:      gw,
		scenes:  scenes,
		clock:   clock,
		logger:  slog.Default(),
		devices: docs.LoadDevices(kv),
		log:     docs.LoadLog(kv),
		roku:    make(map[string]*RokuPanel),
	}
}

// Devices returns a snapshot of the device list.
func (c *Controller) Devices() []docs.Device {
	c.mu.Lock()
	defer c.mu.Unlock()
	return docs.CloneDevices(c.devices)
}

// Log returns a snapshot of the command log, most recent first.
func (c *Controller) Log() []docs.CommandLogEntry {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]docs.CommandLogEntry, len(c.log))
	copy(out, c.log)
	return out
}

// Scenes returns the configured scenes.
func (c *Controller) Scenes() []Scene {
	return c.scenes.List()
}

// ToggleDevice flips a device optimistically, then tells the gateway and
// logs the outcome. The local change is kept even when the gateway fails.
// Unknown ids are a no-op and report false.
func (c *Controller) ToggleDevice(ctx context.Context, id string) (Result, bool) {
	ts := c.clock.Now().UTC()

	c.mu.Lock()
	idx := c.indexLocked(id)
	if idx < 0 {
		c.mu.Unlock()
		return Result{}, false
	}
	device := c.devices[idx]
	target := !device.IsOn
	next := docs.CloneDevices(c.devices)
	next[idx].IsOn = target
	c.setDevicesLocked(next)
	c.mu.Unlock()

	res := resultOf(c.gw.SendCommand(ctx, id, target))
	if res.Err != nil {
		c.logger.Warn("device command failed", "device", id, "error", res.Err)
	}

	c.appendLog(docs.CommandLogEntry{
		ID:        docs.LogEntryID(ts, id),
		Timestamp: ts,
		Label:     toggleLabel(device, target),
		Status:    res.Status,
		Detail:    res.Detail(),
	})
	return res, true
}

func toggleLabel(d docs.Device, on bool) string {
	verb := "Turn OFF"
	if on {
		verb = "Turn ON"
	}
	return fmt.Sprintf("%s · %s (%s)", verb, d.Name, d.Location)
}

// ActivateScene applies a scene locally, notifies the gateway best-effort
// and logs the activation. Scene activations are always logged as success.
// An unknown scene changes no device but is still sent and logged.
func (c *Controller) ActivateScene(ctx context.Context, sceneID string) Result {
	ts := c.clock.Now().UTC()
	label := "Scene: " + sceneID

	if scene, ok := c.scenes.Lookup(sceneID); ok {
		label = "Scene: " + scene.Label
		c.mu.Lock()
		c.setDevicesLocked(scene.Apply(c.devices))
		c.mu.Unlock()
	}

	if err := c.gw.ActivateScene(ctx, sceneID); err != nil {
		c.logger.Warn("scene notification failed", "scene", sceneID, "error", err)
	}

	res := Ok()
	c.appendLog(docs.CommandLogEntry{
		ID:        docs.LogEntryID(ts, "scene-"+sceneID),
		Timestamp: ts,
		Label:     label,
		Status:    res.Status,
	})
	return res
}

// ClearLog empties the command log.
func (c *Controller) ClearLog() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.log = []docs.CommandLogEntry{}
	return docs.SaveLog(c.kv, c.log)
}

// Reload replaces the in-memory devices and log with what the store holds,
// or the defaults when it holds nothing.
func (c *Controller) Reload() {
	devices := docs.LoadDevices(c.kv)
	log := docs.LoadLog(c.kv)
	c.mu.Lock()
	defer c.mu.Unlock()
	c.devices = devices
	c.log = log
	c.roku = make(map[string]*RokuPanel)
}

// Locked runs fn while holding the controller lock. The refresh loop uses
// it to make its cancellation check and its state change atomic.
func (c *Controller) Locked(fn func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fn()
}

// ReplaceDevicesLocked swaps in a copy of devices and persists it. The
// caller must be inside Locked.
func (c *Controller) ReplaceDevicesLocked(devices []docs.Device) {
	c.setDevicesLocked(docs.CloneDevices(devices))
}

// RestoreCachedLocked reloads the device list from the store, falling back
// to the defaults. The caller must be inside Locked.
func (c *Controller) RestoreCachedLocked() {
	c.devices = docs.LoadDevices(c.kv)
}

func (c *Controller) indexLocked(id string) int {
	for i, d := range c.devices {
		if d.ID == id {
			return i
		}
	}
	return -1
}

func (c *Controller) setDevicesLocked(devices []docs.Device) {
	c.devices = devices
	if err := docs.SaveDevices(c.kv, devices); err != nil {
		c.logger.Warn("persisting devices failed", "error", err)
	}
}

// appendLog prepends entry to the latest log and persists it.
func (c *Controller) appendLog(entry docs.CommandLogEntry) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.log = docs.AppendLog(c.log, entry)
	if err := docs.SaveLog(c.kv, c.log); err != nil {
		c.logger.Warn("persisting command log failed", "error", err)
	}
}
