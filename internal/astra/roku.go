package astra

import (
	"context"
	"fmt"

	"github.com/kalambet/solaces/internal/docs"
	"github.com/kalambet/solaces/internal/gateway"
)

// RokuPanel returns the remote state of a device, or false when no apps
// have been fetched for it yet.
func (c *Controller) RokuPanel(deviceID string) (RokuPanel, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	p, ok := c.roku[deviceID]
	if !ok {
		return RokuPanel{}, false
	}
	return clonePanel(p), true
}

// RokuApps fetches the apps installed on a TV and caches them. The first
// app becomes the selection when nothing is selected yet.
func (c *Controller) RokuApps(ctx context.Context, deviceID string) (RokuPanel, error) {
	if err := c.requireTV(deviceID); err != nil {
		return RokuPanel{}, err
	}
	apps, err := c.gw.RokuApps(ctx, deviceID)
	if err != nil {
		c.logger.Warn("loading roku apps failed", "device", deviceID, "error", err)
		return RokuPanel{}, fmt.Errorf("loading roku apps: %w", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	p := c.panelLocked(deviceID)
	p.Apps = apps
	if p.Selected == "" && len(apps) > 0 {
		p.Selected = apps[0].ID
	}
	return clonePanel(p), nil
}

// SelectRokuApp sets the app that LaunchRokuApp starts.
func (c *Controller) SelectRokuApp(deviceID, appID string) error {
	if err := c.requireTV(deviceID); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.panelLocked(deviceID).Selected = appID
	return nil
}

// LaunchRokuApp starts the selected app. Without a selection it is a no-op
// and reports false.
func (c *Controller) LaunchRokuApp(ctx context.Context, deviceID string) (bool, error) {
	if err := c.requireTV(deviceID); err != nil {
		return false, err
	}

	c.mu.Lock()
	p := c.panelLocked(deviceID)
	appID := p.Selected
	if appID == "" {
		c.mu.Unlock()
		return false, nil
	}
	p.Busy = true
	c.mu.Unlock()

	err := c.gw.RokuLaunch(ctx, deviceID, appID)

	c.mu.Lock()
	p.Busy = false
	c.mu.Unlock()

	if err != nil {
		c.logger.Warn("launching roku app failed", "device", deviceID, "app", appID, "error", err)
		return true, fmt.Errorf("launching %s: %w", appID, err)
	}
	return true, nil
}

// RokuRemote presses a remote button.
func (c *Controller) RokuRemote(ctx context.Context, deviceID, button string) error {
	if !gateway.ValidButton(button) {
		return fmt.Errorf("%w: %q", ErrInvalidButton, button)
	}
	if err := c.requireTV(deviceID); err != nil {
		return err
	}
	if err := c.gw.RokuRemote(ctx, deviceID, button); err != nil {
		c.logger.Warn("roku remote failed", "device", deviceID, "button", button, "error", err)
		return fmt.Errorf("roku remote: %w", err)
	}
	return nil
}

func (c *Controller) requireTV(deviceID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	idx := c.indexLocked(deviceID)
	if idx < 0 {
		return fmt.Errorf("%w: %s", ErrUnknownDevice, deviceID)
	}
	if c.devices[idx].Kind != docs.KindTV {
		return fmt.Errorf("%w: %s", ErrNotTV, deviceID)
	}
	return nil
}

func (c *Controller) panelLocked(deviceID string) *RokuPanel {
	p, ok := c.roku[deviceID]
	if !ok {
		p = &RokuPanel{}
		c.roku[deviceID] = p
	}
	return p
}

func clonePanel(p *RokuPanel) RokuPanel {
	cp := *p
	cp.Apps = make([]gateway.RokuApp, len(p.Apps))
	copy(cp.Apps, p.Apps)
	return cp
}
