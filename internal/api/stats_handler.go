package api

import (
	"net/http"

	"github.com/leettrack/backend/internal/service"
)

type BreakdownResponse struct {
	Name        string  `json:"name"`
	Attempts    int     `json:"attempts"`
	Solved      int     `json:"solved"`
	SuccessRate float64 `json:"success_rate"`
}

type UserStatsResponse struct {
	UserID             string              `json:"user_id"`
	TotalAttempts      int                 `json:"total_attempts"`
	SolvedAttempts     int                 `json:"solved_attempts"`
	QuestionsAttempted int                 `json:"questions_attempted"`
	QuestionsSolved    int                 `json:"questions_solved"`
	RecentSuccessRate  float64             `json:"recent_success_rate"`
	RecentAttempts     int                 `json:"recent_attempts"`
	Topics             []BreakdownResponse `json:"topics"`
	Difficulties       []BreakdownResponse `json:"difficulties"`
}

func toUserStatsResponse(s *service.UserStats) UserStatsResponse {
	resp := UserStatsResponse{
		UserID:             s.UserID,
		TotalAttempts:      s.TotalAttempts,
		SolvedAttempts:     s.SolvedAttempts,
		QuestionsAttempted: s.QuestionsAttempted,
		QuestionsSolved:    s.QuestionsSolved,
		RecentSuccessRate:  s.RecentSuccessRate,
		RecentAttempts:     s.RecentAttempts,
		Topics:             make([]BreakdownResponse, len(s.Topics)),
		Difficulties:       make([]BreakdownResponse, len(s.Difficulties)),
	}
	for i, t := range s.Topics {
		resp.Topics[i] = BreakdownResponse{t.Topic, t.Attempts, t.Solved, t.SuccessRate}
	}
	for i, d := range s.Difficulties {
		resp.Difficulties[i] = BreakdownResponse{string(d.Difficulty), d.Attempts, d.Solved, d.SuccessRate}
	}
	return resp
}

// getUserStats godoc
// @Summary      Get practice statistics
// @Tags         stats
// @Produce      json
// @Param        userID  path  string  true  "User ID"
// @Success      200  {object}  UserStatsResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /users/{userID}/stats [get]
func (h *Handler) getUserStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.stats.UserStats(r.Context(), r.PathValue("userID"))
	if h.handleStoreError(w, err, "user") {
		return
	}
	respondJSON(w, http.StatusOK, toUserStatsResponse(stats))
}
