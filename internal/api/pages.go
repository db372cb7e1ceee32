package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/kalambet/solaces/internal/briefing"
	"github.com/kalambet/solaces/internal/docs"
	"github.com/kalambet/solaces/internal/oracle"
	"github.com/kalambet/solaces/internal/synthesis"
	"github.com/kalambet/solaces/internal/systems"
)

// --- systems ---

func handleGetSystems(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, deps.Systems.State())
	}
}

func handleSetActiveProfile(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			ProfileID string `json:"profile_id"`
		}
		if !decodeBody(w, r, &req) {
			return
		}
		found, err := deps.Systems.SetActiveProfile(req.ProfileID)
		if err != nil {
			storageError(w, err)
			return
		}
		if !found {
			httpError(w, http.StatusNotFound, "not_found", "profile %q not found", req.ProfileID)
			return
		}
		writeJSON(w, http.StatusOK, deps.Systems.State())
	}
}

func handleAddSystem(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Name  string `json:"name"`
			Scope string `json:"scope"`
		}
		if !decodeBody(w, r, &req) {
			return
		}
		scope, err := systems.ParseScope(req.Scope)
		if err != nil {
			httpError(w, http.StatusBadRequest, "invalid_request_error", "%v", err)
			return
		}
		item, ok, err := deps.Systems.AddSystem(req.Name, scope)
		if err != nil {
			storageError(w, err)
			return
		}
		if !ok {
			httpError(w, http.StatusBadRequest, "invalid_request_error", "name is required")
			return
		}
		writeJSON(w, http.StatusCreated, item)
	}
}

func handleUpdateSystem(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var patch systems.Patch
		if !decodeBody(w, r, &patch) {
			return
		}
		id := chi.URLParam(r, "id")
		item, found, err := deps.Systems.UpdateSystem(id, patch)
		if errors.Is(err, systems.ErrInvalidStatus) {
			httpError(w, http.StatusBadRequest, "invalid_request_error", "%v", err)
			return
		}
		if err != nil {
			storageError(w, err)
			return
		}
		if !found {
			httpError(w, http.StatusNotFound, "not_found", "system %q not in the active profile", id)
			return
		}
		writeJSON(w, http.StatusOK, item)
	}
}

func handleRemoveSystem(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		removed, err := deps.Systems.RemoveSystem(id)
		if err != nil {
			storageError(w, err)
			return
		}
		if !removed {
			httpError(w, http.StatusNotFound, "not_found", "system %q not found", id)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// --- oracle ---

type oracleOverview struct {
	Today     string           `json:"today"`
	DateLabel string           `json:"dateLabel"`
	Prompt    string           `json:"prompt"`
	Passage   string           `json:"passage"`
	Entry     docs.OracleEntry `json:"entry"`
	Recent    []oracle.Dated   `json:"recent"`
}

type oracleDay struct {
	Date      string           `json:"date"`
	DateLabel string           `json:"dateLabel"`
	Previous  string           `json:"previous"`
	Next      string           `json:"next"`
	Entry     docs.OracleEntry `json:"entry"`
}

func handleOracleOverview(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		now := deps.now()
		today := oracle.Today(now)
		entry, err := deps.Journal.Entry(today)
		if err != nil {
			storageError(w, err)
			return
		}
		recent := deps.Journal.Recent(now, oracle.TimelineDays)
		if recent == nil {
			recent = []oracle.Dated{}
		}
		writeJSON(w, http.StatusOK, oracleOverview{
			Today:     today,
			DateLabel: oracle.DateLabel(today),
			Prompt:    oracle.DailyPrompt(now),
			Passage:   oracle.DailyPassage(),
			Entry:     entry,
			Recent:    recent,
		})
	}
}

func oracleDayOf(date string, entry docs.OracleEntry) oracleDay {
	prev, _ := oracle.ShiftDay(date, -1)
	next, _ := oracle.ShiftDay(date, 1)
	return oracleDay{Date: date, DateLabel: oracle.DateLabel(date), Previous: prev, Next: next, Entry: entry}
}

func handleGetOracle(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		date := chi.URLParam(r, "date")
		entry, err := deps.Journal.Entry(date)
		if err != nil {
			httpError(w, http.StatusBadRequest, "invalid_request_error", "%v", err)
			return
		}
		writeJSON(w, http.StatusOK, oracleDayOf(date, entry))
	}
}

func handlePatchOracle(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		date := chi.URLParam(r, "date")
		if _, err := docs.OracleKeyForDate(date); err != nil {
			httpError(w, http.StatusBadRequest, "invalid_request_error", "%v", err)
			return
		}
		var req struct {
			Field string `json:"field"`
			Value string `json:"value"`
		}
		if !decodeBody(w, r, &req) {
			return
		}
		field, err := docs.ParseOracleField(req.Field)
		if err != nil {
			httpError(w, http.StatusBadRequest, "invalid_request_error", "%v", err)
			return
		}
		entry, err := deps.Journal.UpdateField(date, field, req.Value)
		if err != nil {
			storageError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, oracleDayOf(date, entry))
	}
}

// --- memory ---

func handleListMemory(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, deps.Keep.List())
	}
}

func handleCaptureMemory(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Title string `json:"title"`
			Body  string `json:"body"`
			Tag   string `json:"tag"`
		}
		if !decodeBody(w, r, &req) {
			return
		}
		item, ok, err := deps.Keep.Capture(req.Title, req.Body, req.Tag)
		if err != nil {
			storageError(w, err)
			return
		}
		if !ok {
			httpError(w, http.StatusBadRequest, "invalid_request_error", "title or body is required")
			return
		}
		writeJSON(w, http.StatusCreated, item)
	}
}

func handleDeleteMemory(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		removed, err := deps.Keep.Delete(id)
		if err != nil {
			storageError(w, err)
			return
		}
		if !removed {
			httpError(w, http.StatusNotFound, "not_found", "memory item %q not found", id)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// --- briefing ---

func handleGetBriefing(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, deps.Board.Get())
	}
}

func handlePatchBriefing(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var u briefing.Update
		if !decodeBody(w, r, &u) {
			return
		}
		b, err := deps.Board.Apply(u)
		if errors.Is(err, briefing.ErrPriorityRange) {
			httpError(w, http.StatusBadRequest, "invalid_request_error", "%v", err)
			return
		}
		if err != nil {
			storageError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, b)
	}
}

// --- synthesis ---

func handleSynthesis(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		v, ok := synthesis.Build(deps.Store, deps.now())
		if !ok {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		if r.URL.Query().Get("format") == "text" || strings.HasPrefix(r.Header.Get("Accept"), "text/plain") {
			w.Header().Set("Content-Type", "text/plain; charset=utf-8")
			synthesis.Render(w, v)
			return
		}
		writeJSON(w, http.StatusOK, v)
	}
}

// --- data ---

func handlePurgeData(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		// Partial purges still leave the controller matching the store.
		defer deps.Controller.Reload()

		deleted := 0
		for _, prefix := range docs.Prefixes {
			keys, err := deps.Store.Keys(prefix)
			if err != nil {
				storageError(w, err)
				return
			}
			for _, k := range keys {
				if err := deps.Store.Delete(k); err != nil {
					storageError(w, err)
					return
				}
				deleted++
			}
		}
		writeJSON(w, http.StatusOK, map[string]int{"deleted": deleted})
	}
}
