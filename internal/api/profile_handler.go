package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/leettrack/backend/internal/domain/user"
	"github.com/leettrack/backend/internal/recommend"
)

// ── Request / Response types ────────────────────────────────────────────────

type UpdateWeightsRequest struct {
	Weights   map[string]float64 `json:"weights" validate:"required"`
	Normalize bool               `json:"normalize"`
}

func (r *UpdateWeightsRequest) Validate() error {
	for k := range r.Weights {
		if !recommend.Strategy(k).IsValid() {
			return errors.New("unknown strategy: " + k)
		}
	}
	return nil
}

type UpdatePreferencesRequest struct {
	Theme string `json:"theme" validate:"required,oneof=light dark system"`
}

type PreferencesResponse struct {
	Theme string `json:"theme"`
}

type ProfileResponse struct {
	UserID      string              `json:"user_id"`
	Weights     map[string]float64  `json:"weights"`
	Preferences PreferencesResponse `json:"preferences"`
	UpdatedAt   time.Time           `json:"updated_at"`
}

func toWeightTable(m map[string]float64) recommend.WeightTable {
	w := make(recommend.WeightTable, len(m))
	for k, v := range m {
		w[recommend.Strategy(k)] = v
	}
	return w
}

func fromWeightTable(w recommend.WeightTable) map[string]float64 {
	m := make(map[string]float64, len(w))
	for k, v := range w {
		m[string(k)] = v
	}
	return m
}

func toProfileResponse(p *user.Profile) ProfileResponse {
	return ProfileResponse{
		UserID:      p.UserID,
		Weights:     fromWeightTable(p.Weights),
		Preferences: PreferencesResponse{Theme: string(p.Preferences.Theme)},
		UpdatedAt:   p.UpdatedAt,
	}
}

// ── Handlers ────────────────────────────────────────────────────────────────

// getProfile godoc
// @Summary      Get a user's profile
// @Tags         profiles
// @Produce      json
// @Param        userID  path  string  true  "User ID"
// @Success      200  {object}  ProfileResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /users/{userID}/profile [get]
func (h *Handler) getProfile(w http.ResponseWriter, r *http.Request) {
	p, err := h.profiles.EnsureProfile(r.Context(), r.PathValue("userID"))
	if h.handleStoreError(w, err, "user") {
		return
	}
	respondJSON(w, http.StatusOK, toProfileResponse(p))
}

// updateWeights godoc
// @Summary      Replace a user's strategy weights
// @Tags         profiles
// @Accept       json
// @Produce      json
// @Param        userID  path  string  true  "User ID"
// @Param        body  body  UpdateWeightsRequest  true  "Weights"
// @Success      200  {object}  ProfileResponse
// @Failure      400  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /users/{userID}/profile/weights [put]
func (h *Handler) updateWeights(w http.ResponseWriter, r *http.Request) {
	var req UpdateWeightsRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	p, err := h.profiles.UpdateWeights(r.Context(), r.PathValue("userID"), toWeightTable(req.Weights), req.Normalize)
	if h.handleStoreError(w, err, "user") {
		return
	}
	respondJSON(w, http.StatusOK, toProfileResponse(p))
}

// resetWeights godoc
// @Summary      Reset a user's weights to the defaults
// @Tags         profiles
// @Produce      json
// @Param        userID  path  string  true  "User ID"
// @Success      200  {object}  ProfileResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /users/{userID}/profile/weights [delete]
func (h *Handler) resetWeights(w http.ResponseWriter, r *http.Request) {
	p, err := h.profiles.ResetWeights(r.Context(), r.PathValue("userID"))
	if h.handleStoreError(w, err, "user") {
		return
	}
	respondJSON(w, http.StatusOK, toProfileResponse(p))
}

// updatePreferences godoc
// @Summary      Update a user's preferences
// @Tags         profiles
// @Accept       json
// @Produce      json
// @Param        userID  path  string  true  "User ID"
// @Param        body  body  UpdatePreferencesRequest  true  "Preferences"
// @Success      200  {object}  ProfileResponse
// @Failure      400  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /users/{userID}/profile/preferences [put]
func (h *Handler) updatePreferences(w http.ResponseWriter, r *http.Request) {
	var req UpdatePreferencesRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	p, err := h.profiles.UpdateTheme(r.Context(), r.PathValue("userID"), user.Theme(req.Theme))
	if h.handleStoreError(w, err, "user") {
		return
	}
	respondJSON(w, http.StatusOK, toProfileResponse(p))
}
