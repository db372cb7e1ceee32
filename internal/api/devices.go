package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/kalambet/solaces/internal/astra"
	"github.com/kalambet/solaces/internal/docs"
	"github.com/kalambet/solaces/internal/refresh"
)

type deviceView struct {
	docs.Device
	StatusText string `json:"statusText"`
}

type devicesResponse struct {
	Devices     []deviceView `json:"devices"`
	Loading     bool         `json:"loading"`
	LoadError   string       `json:"loadError,omitempty"`
	LastRefresh *time.Time   `json:"lastRefresh,omitempty"`
}

type commandResponse struct {
	Status  docs.LogStatus `json:"status"`
	Detail  string         `json:"detail,omitempty"`
	Devices []deviceView   `json:"devices"`
}

func viewDevices(devices []docs.Device) []deviceView {
	out := make([]deviceView, len(devices))
	for i, d := range devices {
		out[i] = deviceView{Device: d, StatusText: d.StatusText()}
	}
	return out
}

func devicesPayload(deps Deps) devicesResponse {
	var st refresh.Status
	if deps.Refresh != nil {
		st = deps.Refresh.Status()
	}
	resp := devicesResponse{
		Devices:   viewDevices(deps.Controller.Devices()),
		Loading:   st.Loading,
		LoadError: st.LoadError,
	}
	if !st.LastRefresh.IsZero() {
		t := st.LastRefresh
		resp.LastRefresh = &t
	}
	return resp
}

func handleListDevices(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, devicesPayload(deps))
	}
}

func handleRefreshDevices(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if deps.Refresh == nil {
			httpError(w, http.StatusServiceUnavailable, "unavailable_error", "device refresh is not running")
			return
		}
		if err := deps.Refresh.RefreshNow(r.Context()); err != nil {
			httpError(w, http.StatusBadGateway, "bad_gateway", "refreshing devices: %v", err)
			return
		}
		writeJSON(w, http.StatusOK, devicesPayload(deps))
	}
}

func handleToggleDevice(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		res, ok := deps.Controller.ToggleDevice(r.Context(), id)
		if !ok {
			httpError(w, http.StatusNotFound, "not_found", "device %q not found", id)
			return
		}
		writeJSON(w, http.StatusOK, commandResponse{
			Status:  res.Status,
			Detail:  res.Detail(),
			Devices: viewDevices(deps.Controller.Devices()),
		})
	}
}

func handleListScenes(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, deps.Controller.Scenes())
	}
}

func handleActivateScene(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		res := deps.Controller.ActivateScene(r.Context(), chi.URLParam(r, "id"))
		writeJSON(w, http.StatusOK, commandResponse{
			Status:  res.Status,
			Devices: viewDevices(deps.Controller.Devices()),
		})
	}
}

func handleGetLog(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, deps.Controller.Log())
	}
}

func handleClearLog(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := deps.Controller.ClearLog(); err != nil {
			storageError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func rokuError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, astra.ErrUnknownDevice):
		httpError(w, http.StatusNotFound, "not_found", "%v", err)
	case errors.Is(err, astra.ErrNotTV), errors.Is(err, astra.ErrInvalidButton):
		httpError(w, http.StatusBadRequest, "invalid_request_error", "%v", err)
	default:
		httpError(w, http.StatusBadGateway, "bad_gateway", "%v", err)
	}
}

func handleRokuApps(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		panel, err := deps.Controller.RokuApps(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			rokuError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, panel)
	}
}

func handleRokuSelect(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			AppID string `json:"app_id"`
		}
		if !decodeBody(w, r, &req) {
			return
		}
		if req.AppID == "" {
			httpError(w, http.StatusBadRequest, "invalid_request_error", "app_id is required")
			return
		}
		id := chi.URLParam(r, "id")
		if err := deps.Controller.SelectRokuApp(id, req.AppID); err != nil {
			rokuError(w, err)
			return
		}
		panel, _ := deps.Controller.RokuPanel(id)
		writeJSON(w, http.StatusOK, panel)
	}
}

func handleRokuLaunch(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		launched, err := deps.Controller.LaunchRokuApp(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			rokuError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]bool{"launched": launched})
	}
}

func handleRokuRemote(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Button string `json:"button"`
		}
		if !decodeBody(w, r, &req) {
			return
		}
		if err := deps.Controller.RokuRemote(r.Context(), chi.URLParam(r, "id"), req.Button); err != nil {
			rokuError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
