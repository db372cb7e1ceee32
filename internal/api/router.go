package api

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/kalambet/solaces/internal/astra"
	"github.com/kalambet/solaces/internal/briefing"
	"github.com/kalambet/solaces/internal/docs"
	"github.com/kalambet/solaces/internal/memory"
	"github.com/kalambet/solaces/internal/oracle"
	"github.com/kalambet/solaces/internal/proxy"
	"github.com/kalambet/solaces/internal/refresh"
	"github.com/kalambet/solaces/internal/systems"
)

// Store is the key-value store behind the pages, plus the enumeration the
// data purge needs.
type Store interface {
	docs.KV
	Keys(prefix string) ([]string, error)
	Delete(key string) error
}

// DeviceRefresher exposes the running refresh loop.
type DeviceRefresher interface {
	Status() refresh.Status
	RefreshNow(ctx context.Context) error
}

// Deps holds everything the dashboard API serves.
type Deps struct {
	Controller *astra.Controller
	Refresh    DeviceRefresher // optional; devices report as loaded when nil
	Systems    *systems.Manager
	Journal    *oracle.Journal
	Keep       *memory.Keep
	Board      *briefing.Board
	Store      Store

	Proxy       http.Handler // optional; mounted without auth
	ProxyPrefix string       // defaults to proxy.DefaultPrefix

	Token      string
	OracleHost string
	Now        func() time.Time
}

func (d Deps) now() time.Time {
	if d.Now != nil {
		return d.Now()
	}
	return time.Now()
}

// NewHandler builds the dashboard router.
func NewHandler(deps Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(OracleRedirect(deps.OracleHost))

	r.Get("/health", handleHealth)

	if deps.Proxy != nil {
		prefix := deps.ProxyPrefix
		if prefix == "" {
			prefix = proxy.DefaultPrefix
		}
		r.Handle(strings.TrimSuffix(prefix, "/")+"/*", deps.Proxy)
	}

	r.Group(func(r chi.Router) {
		r.Use(BearerAuth(deps.Token))

		r.Get("/devices", handleListDevices(deps))
		r.Post("/devices/refresh", handleRefreshDevices(deps))
		r.Post("/devices/{id}/toggle", handleToggleDevice(deps))
		r.Get("/devices/{id}/roku/apps", handleRokuApps(deps))
		r.Put("/devices/{id}/roku/selection", handleRokuSelect(deps))
		r.Post("/devices/{id}/roku/launch", handleRokuLaunch(deps))
		r.Post("/devices/{id}/roku/remote", handleRokuRemote(deps))
		r.Get("/scenes", handleListScenes(deps))
		r.Post("/scenes/{id}/activate", handleActivateScene(deps))
		r.Get("/log", handleGetLog(deps))
		r.Delete("/log", handleClearLog(deps))

		r.Get("/systems", handleGetSystems(deps))
		r.Put("/systems/active", handleSetActiveProfile(deps))
		r.Post("/systems", handleAddSystem(deps))
		r.Patch("/systems/{id}", handleUpdateSystem(deps))
		r.Delete("/systems/{id}", handleRemoveSystem(deps))

		r.Get("/oracle", handleOracleOverview(deps))
		r.Get("/oracle/{date}", handleGetOracle(deps))
		r.Patch("/oracle/{date}", handlePatchOracle(deps))

		r.Get("/memory", handleListMemory(deps))
		r.Post("/memory", handleCaptureMemory(deps))
		r.Delete("/memory/{id}", handleDeleteMemory(deps))

		r.Get("/briefing", handleGetBriefing(deps))
		r.Patch("/briefing", handlePatchBriefing(deps))

		r.Get("/synthesis", handleSynthesis(deps))

		r.Delete("/data", handlePurgeData(deps))
	})

	return r
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}
