package api

import (
	"fmt"
	"net/http"

	"github.com/leettrack/backend/internal/recommend"
	"github.com/leettrack/backend/internal/service"
)

// ── Request / Response types ────────────────────────────────────────────────

type PlanResponse struct {
	Distribution map[string]int `json:"distribution"`
	Total        int            `json:"total"`
	Target       int            `json:"target"`
}

type RecommendedQuestion struct {
	QuestionResponse
	Strategy string `json:"strategy"`
	Reason   string `json:"reason"`
}

type RecommendationResponse struct {
	UserID             string                `json:"user_id"`
	SuccessRate        float64               `json:"success_rate"`
	AttemptsConsidered int                   `json:"attempts_considered"`
	Adjusted           bool                  `json:"adjusted"`
	Weights            map[string]float64    `json:"weights"`
	Plan               PlanResponse          `json:"plan"`
	Questions          []RecommendedQuestion `json:"questions"`
}

type PlanPreviewRequest struct {
	Count int `json:"count" validate:"gte=0"`
	// Weights defaults to the configured defaults when omitted.
	Weights map[string]float64 `json:"weights,omitempty"`
	// SuccessRate, when set, runs the weight adjustment before planning.
	SuccessRate *float64 `json:"success_rate,omitempty" validate:"omitempty,gte=0,lte=1"`
}

func (r *PlanPreviewRequest) Validate() error {
	for k := range r.Weights {
		if !recommend.Strategy(k).IsValid() {
			return fmt.Errorf("unknown strategy: %s", k)
		}
	}
	return nil
}

type PlanPreviewResponse struct {
	Weights map[string]float64 `json:"weights"`
	Plan    PlanResponse       `json:"plan"`
}

func toPlanResponse(p recommend.DistributionPlan) PlanResponse {
	dist := make(map[string]int, len(p.Distribution))
	for s, n := range p.Distribution {
		dist[string(s)] = n
	}
	return PlanResponse{Distribution: dist, Total: p.Total, Target: p.Target}
}

func toRecommendationResponse(rec *service.Recommendation) RecommendationResponse {
	questions := make([]RecommendedQuestion, len(rec.Questions))
	for i, p := range rec.Questions {
		questions[i] = RecommendedQuestion{
			QuestionResponse: toQuestionResponse(p.Question),
			Strategy:         string(p.Strategy),
			Reason:           p.Reason,
		}
	}
	return RecommendationResponse{
		UserID:             rec.UserID,
		SuccessRate:        rec.SuccessRate,
		AttemptsConsidered: rec.AttemptsConsidered,
		Adjusted:           rec.Adjusted,
		Weights:            fromWeightTable(rec.Weights),
		Plan:               toPlanResponse(rec.Plan),
		Questions:          questions,
	}
}

// ── Handlers ────────────────────────────────────────────────────────────────

// getRecommendations godoc
// @Summary      Recommend questions to practise next
// @Description  Not side-effect free: when recent success is low the adjusted
// @Description  strategy weights are saved to the user's profile, so the next
// @Description  call starts from them. Do not cache the response.
// @Tags         recommendations
// @Produce      json
// @Param        userID  path  string  true  "User ID"
// @Param        count  query  int  false  "Number of questions"
// @Success      200  {object}  RecommendationResponse
// @Failure      400  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Failure      409  {object}  ErrorResponse
// @Router       /users/{userID}/recommendations [get]
func (h *Handler) getRecommendations(w http.ResponseWriter, r *http.Request) {
	count, err := queryInt(r, "count", h.limits.DefaultRecommendations)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if count < 0 || (h.limits.MaxRecommendations > 0 && count > h.limits.MaxRecommendations) {
		respondError(w, http.StatusBadRequest,
			fmt.Sprintf("count must be between 0 and %d", h.limits.MaxRecommendations))
		return
	}

	rec, err := h.recommendations.Recommend(r.Context(), r.PathValue("userID"), count)
	if h.handleStoreError(w, err, "user") {
		return
	}
	w.Header().Set("Cache-Control", "no-store")
	respondJSON(w, http.StatusOK, toRecommendationResponse(rec))
}

// previewPlan godoc
// @Summary      Preview a distribution plan
// @Tags         recommendations
// @Accept       json
// @Produce      json
// @Param        body  body  PlanPreviewRequest  true  "Plan input"
// @Success      200  {object}  PlanPreviewResponse
// @Failure      400  {object}  ErrorResponse
// @Router       /recommendations/plan [post]
func (h *Handler) previewPlan(w http.ResponseWriter, r *http.Request) {
	var req PlanPreviewRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	if h.limits.MaxRecommendations > 0 && req.Count > h.limits.MaxRecommendations {
		respondError(w, http.StatusBadRequest,
			fmt.Sprintf("count must be between 0 and %d", h.limits.MaxRecommendations))
		return
	}

	weights := h.profiles.Defaults()
	if req.Weights != nil {
		weights = toWeightTable(req.Weights)
		if err := weights.Validate(); err != nil {
			respondError(w, http.StatusBadRequest, err.Error())
			return
		}
	}
	if req.SuccessRate != nil {
		weights = recommend.Adjust(weights, *req.SuccessRate)
	}

	plan, err := recommend.Plan(req.Count, weights)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	respondJSON(w, http.StatusOK, PlanPreviewResponse{
		Weights: fromWeightTable(weights),
		Plan:    toPlanResponse(plan),
	})
}
