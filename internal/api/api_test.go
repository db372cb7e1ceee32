package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/kalambet/solaces/internal/astra"
	"github.com/kalambet/solaces/internal/briefing"
	"github.com/kalambet/solaces/internal/docs"
	"github.com/kalambet/solaces/internal/gateway"
	"github.com/kalambet/solaces/internal/memory"
	"github.com/kalambet/solaces/internal/oracle"
	"github.com/kalambet/solaces/internal/proxy"
	"github.com/kalambet/solaces/internal/refresh"
	"github.com/kalambet/solaces/internal/storage"
	"github.com/kalambet/solaces/internal/systems"
)

const testToken = "test-token-12345"

var testTime = time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC)

type fixedClock struct{ t time.Time }

func (c fixedClock) Now() time.Time { return c.t }

// --- mocks ---

type mockGateway struct {
	mu       sync.Mutex
	err      error
	commands []string
	scenes   []string
	apps     []gateway.RokuApp
	launched []string
	buttons  []string
}

func (m *mockGateway) SendCommand(_ context.Context, deviceID string, on bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	action := "off"
	if on {
		action = "on"
	}
	m.commands = append(m.commands, deviceID+":"+action)
	return m.err
}

func (m *mockGateway) ActivateScene(_ context.Context, sceneID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.scenes = append(m.scenes, sceneID)
	return m.err
}

func (m *mockGateway) RokuApps(_ context.Context, _ string) ([]gateway.RokuApp, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.apps, nil
}

func (m *mockGateway) RokuLaunch(_ context.Context, _, appID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.launched = append(m.launched, appID)
	return m.err
}

func (m *mockGateway) RokuRemote(_ context.Context, _, button string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.buttons = append(m.buttons, button)
	return m.err
}

type mockRefresher struct {
	status refresh.Status
	err    error
	calls  int
}

func (m *mockRefresher) Status() refresh.Status { return m.status }

func (m *mockRefresher) RefreshNow(context.Context) error {
	m.calls++
	return m.err
}

// --- helpers ---

type testEnv struct {
	store *storage.Store
	gw    *mockGateway
	deps  Deps
}

func newTestDeps(t *testing.T, token string) *testEnv {
	t.Helper()
	store, err := storage.Open(":memory:")
	if err != nil {
		t.Fatalf("Open(:memory:) failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	gw := &mockGateway{}
	return &testEnv{
		store: store,
		gw:    gw,
		deps: Deps{
			Controller: astra.NewControllerWithClock(store, gw, nil, fixedClock{testTime}),
			Systems:    systems.NewManagerWithClock(store, fixedClock{testTime}),
			Journal:    oracle.NewJournal(store),
			Keep:       memory.NewKeep(store),
			Board:      briefing.NewBoard(store),
			Store:      store,
			Token:      token,
			OracleHost: "oracle.solaces.me",
			Now:        func() time.Time { return testTime },
		},
	}
}

func setupAppHandler(t *testing.T, token string) (http.Handler, *testEnv) {
	t.Helper()
	env := newTestDeps(t, token)
	return NewHandler(env.deps), env
}

func authReq(method, url, body, token string) *http.Request {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, url, reader)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req
}

func serve(h http.Handler, req *http.Request) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func decodeJSON(t *testing.T, rr *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.NewDecoder(rr.Body).Decode(v); err != nil {
		t.Fatalf("decoding response: %v; body = %s", err, rr.Body.String())
	}
}

func errorType(t *testing.T, rr *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Error struct {
			Type string `json:"type"`
		} `json:"error"`
	}
	decodeJSON(t, rr, &body)
	return body.Error.Type
}

// --- auth and routing ---

func TestHealth_NoAuth(t *testing.T) {
	h, _ := setupAppHandler(t, testToken)
	rr := serve(h, httptest.NewRequest(http.MethodGet, "/health", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), `"ok"`) {
		t.Errorf("body = %s", rr.Body.String())
	}
}

func TestAuth_Rejects(t *testing.T) {
	h, _ := setupAppHandler(t, testToken)

	for name, token := range map[string]string{"missing": "", "wrong": "nope"} {
		t.Run(name, func(t *testing.T) {
			rr := serve(h, authReq(http.MethodGet, "/devices", "", token))
			if rr.Code != http.StatusUnauthorized {
				t.Fatalf("status = %d, want 401", rr.Code)
			}
			if got := errorType(t, rr); got != "authentication_error" {
				t.Errorf("error type = %q", got)
			}
		})
	}
}

func TestAuth_EmptyConfiguredTokenRejectsAll(t *testing.T) {
	h, _ := setupAppHandler(t, "")
	req := httptest.NewRequest(http.MethodGet, "/devices", nil)
	req.Header.Set("Authorization", "Bearer ")
	if rr := serve(h, req); rr.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rr.Code)
	}
}

func TestOracleRedirect(t *testing.T) {
	h, _ := setupAppHandler(t, testToken)

	req := httptest.NewRequest(http.MethodGet, "/?ref=home", nil)
	req.Host = "oracle.solaces.me"
	rr := serve(h, req)
	if rr.Code != http.StatusTemporaryRedirect {
		t.Fatalf("status = %d, want 307", rr.Code)
	}
	if loc := rr.Header().Get("Location"); loc != "/oracle?ref=home" {
		t.Errorf("Location = %q", loc)
	}

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Host = "ORACLE.solaces.me:8443"
	if rr := serve(h, req); rr.Code != http.StatusTemporaryRedirect {
		t.Errorf("mixed-case host with port: status = %d, want 307", rr.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Host = "solaces.me"
	if rr := serve(h, req); rr.Code == http.StatusTemporaryRedirect {
		t.Error("other hosts must not be redirected")
	}

	req = httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Host = "oracle.solaces.me"
	if rr := serve(h, req); rr.Code != http.StatusOK {
		t.Errorf("non-root path: status = %d, want 200", rr.Code)
	}
}

func TestOracleRedirect_UnicodeHost(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })
	h := OracleRedirect("orákulum.example")(next)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Host = "xn--orkulum-iwa.example"
	if rr := serve(h, req); rr.Code != http.StatusTemporaryRedirect {
		t.Errorf("punycode host: status = %d, want 307", rr.Code)
	}
}

func TestOracleRedirect_Disabled(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusTeapot) })
	h := OracleRedirect("")(next)
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Host = "oracle.solaces.me"
	if rr := serve(h, req); rr.Code != http.StatusTeapot {
		t.Errorf("status = %d, want passthrough", rr.Code)
	}
}

func TestProxyMount_NoAuth(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("x-astra-key") != "secret" {
			w.WriteHeader(http.StatusForbidden)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[{"id":"primary-tv"}]`))
	}))
	defer upstream.Close()

	p, err := proxy.NewHandler(proxy.Options{BaseURL: upstream.URL, KeyHeader: "x-astra-key", APIKey: "secret"})
	if err != nil {
		t.Fatalf("NewHandler: %v", err)
	}
	env := newTestDeps(t, testToken)
	env.deps.Proxy = p
	h := NewHandler(env.deps)

	rr := serve(h, httptest.NewRequest(http.MethodGet, "/api/astra/devices", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d; body = %s", rr.Code, rr.Body.String())
	}
	if !strings.Contains(rr.Body.String(), "primary-tv") {
		t.Errorf("body = %s", rr.Body.String())
	}
}

// --- devices ---

func TestListDevices_Defaults(t *testing.T) {
	h, _ := setupAppHandler(t, testToken)
	rr := serve(h, authReq(http.MethodGet, "/devices", "", testToken))
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
	var resp devicesResponse
	decodeJSON(t, rr, &resp)
	if len(resp.Devices) != 4 {
		t.Fatalf("devices = %d, want 4", len(resp.Devices))
	}
	if resp.Devices[0].ID != "primary-tv" || resp.Devices[0].StatusText != "OFF" {
		t.Errorf("first device = %+v", resp.Devices[0])
	}
	if resp.Loading || resp.LoadError != "" || resp.LastRefresh != nil {
		t.Errorf("status without a loop = %+v", resp)
	}
}

func TestListDevices_ReportsRefreshStatus(t *testing.T) {
	env := newTestDeps(t, testToken)
	env.deps.Refresh = &mockRefresher{status: refresh.Status{LoadError: "HTTP 503", LastRefresh: testTime}}
	h := NewHandler(env.deps)

	var resp devicesResponse
	decodeJSON(t, serve(h, authReq(http.MethodGet, "/devices", "", testToken)), &resp)
	if resp.LoadError != "HTTP 503" {
		t.Errorf("loadError = %q", resp.LoadError)
	}
	if resp.LastRefresh == nil || !resp.LastRefresh.Equal(testTime) {
		t.Errorf("lastRefresh = %v", resp.LastRefresh)
	}
}

func TestRefreshDevices(t *testing.T) {
	h, _ := setupAppHandler(t, testToken)
	if rr := serve(h, authReq(http.MethodPost, "/devices/refresh", "", testToken)); rr.Code != http.StatusServiceUnavailable {
		t.Errorf("without loop: status = %d, want 503", rr.Code)
	}

	env := newTestDeps(t, testToken)
	ref := &mockRefresher{}
	env.deps.Refresh = ref
	h = NewHandler(env.deps)
	if rr := serve(h, authReq(http.MethodPost, "/devices/refresh", "", testToken)); rr.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rr.Code)
	}
	if ref.calls != 1 {
		t.Errorf("RefreshNow calls = %d", ref.calls)
	}

	ref.err = errors.New("HTTP 500")
	rr := serve(h, authReq(http.MethodPost, "/devices/refresh", "", testToken))
	if rr.Code != http.StatusBadGateway {
		t.Errorf("failing refresh: status = %d, want 502", rr.Code)
	}
}

func TestToggleDevice(t *testing.T) {
	h, env := setupAppHandler(t, testToken)

	rr := serve(h, authReq(http.MethodPost, "/devices/desk-lights/toggle", "", testToken))
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d; body = %s", rr.Code, rr.Body.String())
	}
	var resp commandResponse
	decodeJSON(t, rr, &resp)
	if resp.Status != docs.StatusSuccess {
		t.Errorf("status = %q", resp.Status)
	}
	for _, d := range resp.Devices {
		if d.ID == "desk-lights" && (!d.IsOn || d.StatusText != "ON") {
			t.Errorf("desk-lights = %+v, want on", d)
		}
	}
	if len(env.gw.commands) != 1 || env.gw.commands[0] != "desk-lights:on" {
		t.Errorf("commands = %v", env.gw.commands)
	}

	var log []docs.CommandLogEntry
	decodeJSON(t, serve(h, authReq(http.MethodGet, "/log", "", testToken)), &log)
	if len(log) != 1 || log[0].Label != "Turn ON · Desk Lights (Work corner)" {
		t.Errorf("log = %+v", log)
	}
}

func TestToggleDevice_GatewayFailureKeepsLocalChange(t *testing.T) {
	h, env := setupAppHandler(t, testToken)
	env.gw.err = &gateway.StatusError{Code: 500}

	var resp commandResponse
	decodeJSON(t, serve(h, authReq(http.MethodPost, "/devices/media-audio/toggle", "", testToken)), &resp)
	if resp.Status != docs.StatusError || resp.Detail != "HTTP 500" {
		t.Errorf("resp = %+v", resp)
	}
	for _, d := range resp.Devices {
		if d.ID == "media-audio" && !d.IsOn {
			t.Error("optimistic change was rolled back")
		}
	}
}

func TestToggleDevice_Unknown(t *testing.T) {
	h, env := setupAppHandler(t, testToken)
	rr := serve(h, authReq(http.MethodPost, "/devices/nope/toggle", "", testToken))
	if rr.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rr.Code)
	}
	if len(env.gw.commands) != 0 {
		t.Errorf("commands = %v, want none", env.gw.commands)
	}
}

func TestActivateScene(t *testing.T) {
	h, env := setupAppHandler(t, testToken)
	serve(h, authReq(http.MethodPost, "/devices/desk-lights/toggle", "", testToken))

	rr := serve(h, authReq(http.MethodPost, "/scenes/sleep/activate", "", testToken))
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
	var resp commandResponse
	decodeJSON(t, rr, &resp)
	for _, d := range resp.Devices {
		if d.IsOn {
			t.Errorf("%s still on after sleep", d.ID)
		}
	}
	if len(env.gw.scenes) != 1 || env.gw.scenes[0] != "sleep" {
		t.Errorf("scenes = %v", env.gw.scenes)
	}
}

func TestListScenes(t *testing.T) {
	h, _ := setupAppHandler(t, testToken)
	var scenes []astra.Scene
	decodeJSON(t, serve(h, authReq(http.MethodGet, "/scenes", "", testToken)), &scenes)
	if len(scenes) != 3 || scenes[0].ID != "focus" {
		t.Errorf("scenes = %+v", scenes)
	}
}

func TestClearLog(t *testing.T) {
	h, _ := setupAppHandler(t, testToken)
	serve(h, authReq(http.MethodPost, "/scenes/focus/activate", "", testToken))

	if rr := serve(h, authReq(http.MethodDelete, "/log", "", testToken)); rr.Code != http.StatusNoContent {
		t.Fatalf("status = %d, want 204", rr.Code)
	}
	var log []docs.CommandLogEntry
	decodeJSON(t, serve(h, authReq(http.MethodGet, "/log", "", testToken)), &log)
	if len(log) != 0 {
		t.Errorf("log = %+v, want empty", log)
	}
}

// --- roku ---

func TestRoku(t *testing.T) {
	h, env := setupAppHandler(t, testToken)
	env.gw.apps = []gateway.RokuApp{{ID: "12", Name: "Netflix"}, {ID: "13", Name: "Prime"}}

	var panel astra.RokuPanel
	decodeJSON(t, serve(h, authReq(http.MethodGet, "/devices/primary-tv/roku/apps", "", testToken)), &panel)
	if len(panel.Apps) != 2 || panel.Selected != "12" {
		t.Fatalf("panel = %+v", panel)
	}

	rr := serve(h, authReq(http.MethodPut, "/devices/primary-tv/roku/selection", `{"app_id":"13"}`, testToken))
	if rr.Code != http.StatusOK {
		t.Fatalf("select: status = %d", rr.Code)
	}
	decodeJSON(t, rr, &panel)
	if panel.Selected != "13" {
		t.Errorf("selected = %q", panel.Selected)
	}

	var launch map[string]bool
	decodeJSON(t, serve(h, authReq(http.MethodPost, "/devices/primary-tv/roku/launch", "", testToken)), &launch)
	if !launch["launched"] || len(env.gw.launched) != 1 || env.gw.launched[0] != "13" {
		t.Errorf("launch = %v, launched = %v", launch, env.gw.launched)
	}

	if rr := serve(h, authReq(http.MethodPost, "/devices/primary-tv/roku/remote", `{"button":"home"}`, testToken)); rr.Code != http.StatusNoContent {
		t.Errorf("remote: status = %d, want 204", rr.Code)
	}
}

func TestRoku_Errors(t *testing.T) {
	h, env := setupAppHandler(t, testToken)

	tests := []struct {
		name   string
		method string
		url    string
		body   string
		want   int
	}{
		{"unknown device", http.MethodGet, "/devices/nope/roku/apps", "", http.StatusNotFound},
		{"not a tv", http.MethodGet, "/devices/desk-lights/roku/apps", "", http.StatusBadRequest},
		{"bad button", http.MethodPost, "/devices/primary-tv/roku/remote", `{"button":"eject"}`, http.StatusBadRequest},
		{"missing app", http.MethodPut, "/devices/primary-tv/roku/selection", `{}`, http.StatusBadRequest},
		{"empty body", http.MethodPost, "/devices/primary-tv/roku/remote", "", http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := serve(h, authReq(tt.method, tt.url, tt.body, testToken))
			if rr.Code != tt.want {
				t.Errorf("status = %d, want %d; body = %s", rr.Code, tt.want, rr.Body.String())
			}
		})
	}

	env.gw.err = errors.New("connection refused")
	rr := serve(h, authReq(http.MethodGet, "/devices/primary-tv/roku/apps", "", testToken))
	if rr.Code != http.StatusBadGateway {
		t.Errorf("gateway down: status = %d, want 502", rr.Code)
	}
}
