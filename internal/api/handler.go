// internal/api/handler.go
package api

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/goccy/go-json"

	"github.com/leettrack/backend/internal/recommend"
	"github.com/leettrack/backend/internal/service"
	"github.com/leettrack/backend/internal/store"
)

// maxBodyBytes caps request bodies; imports are the largest payloads.
const maxBodyBytes = 4 << 20

// Limits bounds the recommendation count a client may ask for.
type Limits struct {
	DefaultRecommendations int
	MaxRecommendations     int
}

// Deps bundles everything the handlers need.
type Deps struct {
	Store           store.Store
	Profiles        *service.ProfileService
	History         *service.HistoryService
	Stats           *service.StatsService
	Recommendations *service.RecommendationService
	Limits          Limits
	Logger          *slog.Logger
}

// Handler holds all dependencies needed by HTTP handlers.
// Instead of relying on package-level globals, every handler method
// receives its dependencies through this struct.
type Handler struct {
	store           store.Store
	profiles        *service.ProfileService
	history         *service.HistoryService
	stats           *service.StatsService
	recommendations *service.RecommendationService
	limits          Limits
	logger          *slog.Logger
}

// NewHandler creates a Handler with the given dependencies.
func NewHandler(d Deps) *Handler {
	return &Handler{
		store:           d.Store,
		profiles:        d.Profiles,
		history:         d.History,
		stats:           d.Stats,
		recommendations: d.Recommendations,
		limits:          d.Limits,
		logger:          d.Logger,
	}
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// validatable is implemented by request types with checks that struct tags
// cannot express.
type validatable interface {
	Validate() error
}

type ErrorResponse struct {
	Error string `json:"error"`
}

// respondJSON writes a JSON response with the given status code.
func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func respondError(w http.ResponseWriter, status int, msg string) {
	respondJSON(w, status, ErrorResponse{Error: msg})
}

// decodeJSON reads the body into v. It writes a 400 and returns false on
// malformed input.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	body := http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(body).Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			respondError(w, http.StatusBadRequest, "request body is required")
			return false
		}
		respondError(w, http.StatusBadRequest, "invalid json")
		return false
	}
	return true
}

// decodeAndValidate decodes the body, runs struct tag validation, then the
// request's own Validate method when it has one.
func decodeAndValidate(w http.ResponseWriter, r *http.Request, v any) bool {
	if !decodeJSON(w, r, v) {
		return false
	}
	if err := validate.Struct(v); err != nil {
		respondError(w, http.StatusBadRequest, validationMessage(err))
		return false
	}
	if vv, ok := v.(validatable); ok {
		if err := vv.Validate(); err != nil {
			respondError(w, http.StatusBadRequest, err.Error())
			return false
		}
	}
	return true
}

func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return err.Error()
	}
	fe := verrs[0]
	switch fe.Tag() {
	case "required":
		return fe.Field() + " is required"
	case "oneof":
		return fe.Field() + " must be one of: " + fe.Param()
	case "email":
		return fe.Field() + " must be a valid email address"
	default:
		return fe.Field() + " failed " + fe.Tag() + " validation"
	}
}

// handleStoreError checks for common store and domain errors and writes the
// appropriate HTTP response. Returns true if an error was handled (caller
// should return).
func (h *Handler) handleStoreError(w http.ResponseWriter, err error, entity string) bool {
	if err == nil {
		return false
	}
	switch {
	case errors.Is(err, store.ErrNotFound):
		respondError(w, http.StatusNotFound, entity+" not found")
	case errors.Is(err, store.ErrConflict):
		respondError(w, http.StatusConflict, entity+" already exists")
	case errors.Is(err, store.ErrStale):
		respondError(w, http.StatusConflict, entity+" was modified concurrently, retry the request")
	case errors.Is(err, recommend.ErrInvalidWeights), errors.Is(err, recommend.ErrInvalidArgument):
		respondError(w, http.StatusBadRequest, err.Error())
	default:
		h.logger.Error("store error", "error", err, "entity", entity)
		respondError(w, http.StatusInternalServerError, "internal error")
	}
	return true
}

// queryInt parses an optional integer query parameter.
func queryInt(r *http.Request, key string, fallback int) (int, error) {
	v := r.URL.Query().Get(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, errors.New(key + " must be an integer")
	}
	return n, nil
}
