package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/platefeed/palate/internal/aggregator"
	"github.com/platefeed/palate/internal/persona"
	"github.com/platefeed/palate/internal/profile"
	"github.com/platefeed/palate/internal/signal"
	"github.com/platefeed/palate/internal/store"
)

// #region handlers

// SignalRecorder is the aggregator surface the API depends on.
type SignalRecorder interface {
	RecordSignal(ctx context.Context, userID string, kind signal.Kind, contentID string, tags []string) (aggregator.Result, error)
}

// ProfileReader reads stored profiles for display.
type ProfileReader interface {
	GetProfile(ctx context.Context, userID string) (profile.TasteProfile, error)
}

// Handlers holds the HTTP handlers and their collaborators.
type Handlers struct {
	recorder SignalRecorder
	profiles ProfileReader
	logger   zerolog.Logger
}

// NewHandlers wires the handler set.
func NewHandlers(recorder SignalRecorder, profiles ProfileReader, logger zerolog.Logger) *Handlers {
	return &Handlers{
		recorder: recorder,
		profiles: profiles,
		logger:   logger.With().Str("component", "api").Logger(),
	}
}

// #endregion handlers

// #region wire-types

// signalRequest is the POST body for signal intake.
type signalRequest struct {
	Kind      string   `json:"kind"`
	ContentID string   `json:"contentId"`
	Tags      []string `json:"tags"`
}

// profileResponse is the wire shape of a taste profile.
type profileResponse struct {
	UserID                  string             `json:"userId"`
	CuisineScores           map[string]float64 `json:"cuisineScores"`
	FlavorScores            map[string]float64 `json:"flavorScores"`
	ContentPreferenceScores map[string]float64 `json:"contentPreferenceScores"`
	MealPatternFlags        map[string]bool    `json:"mealPatternFlags"`
	DominantDimension       string             `json:"dominantDimension"`
	PersonaID               string             `json:"personaId"`
	LastUpdated             string             `json:"lastUpdated"`
	SignalCount             int64              `json:"signalCount"`
}

type recordResponse struct {
	Profile        profileResponse `json:"profile"`
	Created        bool            `json:"created"`
	DimensionsHit  []string        `json:"dimensionsHit"`
	PersonaChanged bool            `json:"personaChanged"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func toProfileResponse(p profile.TasteProfile) profileResponse {
	return profileResponse{
		UserID:                  p.UserID,
		CuisineScores:           p.CuisineScores,
		FlavorScores:            p.FlavorScores,
		ContentPreferenceScores: p.ContentPreferenceScores,
		MealPatternFlags:        p.MealPatternFlags,
		DominantDimension:       p.DominantDimension,
		PersonaID:               p.PersonaID,
		LastUpdated:             p.LastUpdated.Format(time.RFC3339Nano),
		SignalCount:             p.SignalCount,
	}
}

// #endregion wire-types

// #region record-signal

// RecordSignal handles POST /v1/users/{userID}/signals.
func (h *Handlers) RecordSignal(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")

	var req signalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "malformed request body")
		return
	}

	kind, err := signal.ParseKind(req.Kind)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	res, err := h.recorder.RecordSignal(r.Context(), userID, kind, req.ContentID, req.Tags)
	switch {
	case errors.Is(err, signal.ErrUnknownKind):
		writeError(w, http.StatusBadRequest, err.Error())
		return
	case err != nil:
		h.logger.Error().Err(err).Str("user_id", userID).Msg("signal aggregation failed")
		writeError(w, http.StatusInternalServerError, "signal could not be recorded")
		return
	}

	writeJSON(w, http.StatusOK, recordResponse{
		Profile:        toProfileResponse(res.Profile),
		Created:        res.Created,
		DimensionsHit:  res.DimensionsHit,
		PersonaChanged: res.PersonaChanged,
	})
}

// #endregion record-signal

// #region get-profile

// GetProfile handles GET /v1/users/{userID}/profile.
func (h *Handlers) GetProfile(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")

	p, err := h.profiles.GetProfile(r.Context(), userID)
	switch {
	case errors.Is(err, store.ErrProfileNotFound):
		writeError(w, http.StatusNotFound, "no profile yet for this user")
		return
	case err != nil:
		h.logger.Error().Err(err).Str("user_id", userID).Msg("profile read failed")
		writeError(w, http.StatusInternalServerError, "profile could not be read")
		return
	}

	writeJSON(w, http.StatusOK, toProfileResponse(p))
}

// #endregion get-profile

// #region personas

// GetPersona handles GET /v1/personas/{personaID}. Unknown ids resolve to
// the default persona, never 404.
func (h *Handlers) GetPersona(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "personaID")
	writeJSON(w, http.StatusOK, persona.Describe(persona.ID(id)))
}

// ListPersonas handles GET /v1/personas.
func (h *Handlers) ListPersonas(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, persona.Catalog())
}

// #endregion personas

// #region health

// Health handles GET /healthz.
func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// #endregion health

// #region json-helpers

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

// #endregion json-helpers
