// Package gateway is the client for the home-automation gateway that owns
// the real device state.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/kalambet/solaces/internal/docs"
)

const (
	DefaultBaseURL   = "https://astra-gw.solaces.me/api/astra"
	DefaultKeyHeader = "x-astra-key"
	defaultTimeout   = 10 * time.Second
	maxErrorBody     = 4 << 10
)

// RemoteButtons is the accepted Roku remote vocabulary.
var RemoteButtons = []string{"home", "back", "play_pause", "up", "down", "left", "right", "select"}

// ValidButton reports whether b is part of RemoteButtons.
func ValidButton(b string) bool {
	for _, x := range RemoteButtons {
		if x == b {
			return true
		}
	}
	return false
}

// RokuApp is an installed streaming app.
type RokuApp struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// StatusError is returned when the gateway answers with a non-2xx status.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("HTTP %d", e.Code)
}

// Options configures a Client. Zero values select the defaults.
type Options struct {
	BaseURL    string
	APIKey     string
	KeyHeader  string
	Timeout    time.Duration
	HTTPClient *http.Client
}

// Client talks to the gateway's JSON API.
type Client struct {
	baseURL    string
	apiKey     string
	keyHeader  string
	httpClient *http.Client
}

// New creates a gateway client.
func New(opts Options) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(opts.BaseURL, "/"),
		apiKey:     opts.APIKey,
		keyHeader:  opts.KeyHeader,
		httpClient: opts.HTTPClient,
	}
	if c.baseURL == "" {
		c.baseURL = DefaultBaseURL
	}
	if c.keyHeader == "" {
		c.keyHeader = DefaultKeyHeader
	}
	if c.httpClient == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = defaultTimeout
		}
		c.httpClient = &http.Client{Timeout: timeout}
	}
	return c
}

// NewClientWithBaseURL creates a client pointing at a custom base URL (for testing).
func NewClientWithBaseURL(apiKey, baseURL string) *Client {
	return New(Options{BaseURL: baseURL, APIKey: apiKey})
}

// BaseURL returns the gateway root the client sends requests to.
func (c *Client) BaseURL() string { return c.baseURL }

// ListDevices fetches the authoritative device list.
func (c *Client) ListDevices(ctx context.Context) ([]docs.Device, error) {
	body, err := c.do(ctx, http.MethodGet, "/devices", nil)
	if err != nil {
		return nil, err
	}
	devices, err := docs.ParseDevices(body)
	if err != nil {
		return nil, fmt.Errorf("decoding devices: %w", err)
	}
	return devices, nil
}

type commandRequest struct {
	DeviceID string `json:"device_id"`
	Action   string `json:"action"`
}

// SendCommand asks the gateway to switch a device on or off. The command
// only counts as delivered when the gateway answers 2xx with a JSON body.
func (c *Client) SendCommand(ctx context.Context, deviceID string, on bool) error {
	action := "off"
	if on {
		action = "on"
	}
	body, err := c.do(ctx, http.MethodPost, "/device/command", commandRequest{DeviceID: deviceID, Action: action})
	if err != nil {
		return err
	}
	if !json.Valid(body) {
		return fmt.Errorf("invalid JSON response")
	}
	return nil
}

// ActivateScene notifies the gateway that a scene was applied.
func (c *Client) ActivateScene(ctx context.Context, sceneID string) error {
	_, err := c.do(ctx, http.MethodPost, "/scene/activate", map[string]string{"scene_id": sceneID})
	return err
}

// RokuApps lists the apps installed on a Roku device.
func (c *Client) RokuApps(ctx context.Context, deviceID string) ([]RokuApp, error) {
	body, err := c.do(ctx, http.MethodGet, "/roku/apps?device_id="+url.QueryEscape(deviceID), nil)
	if err != nil {
		return nil, err
	}
	var apps []RokuApp
	if err := json.Unmarshal(body, &apps); err != nil {
		return nil, fmt.Errorf("decoding roku apps: %w", err)
	}
	if apps == nil {
		return []RokuApp{}, nil
	}
	return apps, nil
}

// RokuLaunch starts an app on a Roku device.
func (c *Client) RokuLaunch(ctx context.Context, deviceID, appID string) error {
	_, err := c.do(ctx, http.MethodPost, "/roku/launch", map[string]string{"device_id": deviceID, "app_id": appID})
	return err
}

// RokuRemote presses a remote button on a Roku device.
func (c *Client) RokuRemote(ctx context.Context, deviceID, button string) error {
	if !ValidButton(button) {
		return fmt.Errorf("unknown remote button %q", button)
	}
	_, err := c.do(ctx, http.MethodPost, "/roku/remote", map[string]string{"device_id": deviceID, "button": button})
	return err
}

func (c *Client) do(ctx context.Context, method, path string, payload any) ([]byte, error) {
	var reqBody io.Reader
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("marshaling request: %w", err)
		}
		reqBody = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	c.setHeaders(req, payload != nil)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("requesting %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, &StatusError{Code: resp.StatusCode, Body: string(b)}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}
	return body, nil
}

func (c *Client) setHeaders(req *http.Request, hasBody bool) {
	if hasBody {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set(c.keyHeader, c.apiKey)
	}
}
