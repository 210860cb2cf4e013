package api

import (
	"net/http"
	"time"

	"github.com/leettrack/backend/internal/domain/solvehistory"
	"github.com/leettrack/backend/internal/service"
)

// ── Request / Response types ────────────────────────────────────────────────

type RecordSolveRequest struct {
	QuestionID       string     `json:"question_id" validate:"required"`
	Solved           bool       `json:"solved"`
	TimeSpentSeconds int        `json:"time_spent_seconds" validate:"gte=0"`
	Notes            string     `json:"notes" validate:"max=2000"`
	AttemptedAt      *time.Time `json:"attempted_at,omitempty"`
}

type SolveResponse struct {
	ID               string    `json:"id"`
	QuestionID       string    `json:"question_id"`
	Solved           bool      `json:"solved"`
	TimeSpentSeconds int       `json:"time_spent_seconds"`
	Notes            string    `json:"notes,omitempty"`
	AttemptedAt      time.Time `json:"attempted_at"`
}

func toSolveResponse(a solvehistory.Attempt) SolveResponse {
	return SolveResponse{
		ID:               a.ID,
		QuestionID:       a.QuestionID,
		Solved:           a.Solved,
		TimeSpentSeconds: int(a.TimeSpent / time.Second),
		Notes:            a.Notes,
		AttemptedAt:      a.AttemptedAt,
	}
}

// ── Handlers ────────────────────────────────────────────────────────────────

// recordSolve godoc
// @Summary      Record a solve attempt
// @Tags         solves
// @Accept       json
// @Produce      json
// @Param        userID  path  string  true  "User ID"
// @Param        body  body  RecordSolveRequest  true  "Attempt"
// @Success      201  {object}  SolveResponse
// @Failure      400  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /users/{userID}/solves [post]
func (h *Handler) recordSolve(w http.ResponseWriter, r *http.Request) {
	var req RecordSolveRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	in := service.AttemptInput{
		QuestionID: req.QuestionID,
		Solved:     req.Solved,
		TimeSpent:  time.Duration(req.TimeSpentSeconds) * time.Second,
		Notes:      req.Notes,
	}
	if req.AttemptedAt != nil {
		in.AttemptedAt = *req.AttemptedAt
	}

	a, err := h.history.RecordAttempt(r.Context(), r.PathValue("userID"), in)
	if h.handleStoreError(w, err, "user or question") {
		return
	}

	respondJSON(w, http.StatusCreated, toSolveResponse(*a))
}

// listSolves godoc
// @Summary      List solve attempts, newest first
// @Tags         solves
// @Produce      json
// @Param        userID  path  string  true  "User ID"
// @Param        limit  query  int  false  "Maximum attempts returned"
// @Success      200  {array}  SolveResponse
// @Failure      400  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /users/{userID}/solves [get]
func (h *Handler) listSolves(w http.ResponseWriter, r *http.Request) {
	limit, err := queryInt(r, "limit", 0)
	if err != nil || limit < 0 {
		respondError(w, http.StatusBadRequest, "limit must be a non-negative integer")
		return
	}

	attempts, err := h.history.ListAttempts(r.Context(), r.PathValue("userID"), limit)
	if h.handleStoreError(w, err, "user") {
		return
	}

	response := make([]SolveResponse, len(attempts))
	for i, a := range attempts {
		response[i] = toSolveResponse(a)
	}
	respondJSON(w, http.StatusOK, response)
}
