package api

import (
	"net/http"
	"time"

	"github.com/leettrack/backend/internal/domain/question"
	"github.com/leettrack/backend/internal/store"
)

// ── Request / Response types ────────────────────────────────────────────────

type CreateQuestionRequest struct {
	Title      string   `json:"title" validate:"required,max=200"`
	Difficulty string   `json:"difficulty" validate:"required"`
	Topics     []string `json:"topics" validate:"dive,max=50"`
	URL        *string  `json:"url,omitempty" validate:"omitempty,url"`
}

type QuestionResponse struct {
	ID         string    `json:"id"`
	Title      string    `json:"title"`
	Slug       string    `json:"slug"`
	Difficulty string    `json:"difficulty"`
	Topics     []string  `json:"topics"`
	URL        *string   `json:"url,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

func toQuestionResponse(q *question.Question) QuestionResponse {
	topics := q.Topics
	if topics == nil {
		topics = []string{}
	}
	return QuestionResponse{
		ID:         q.ID,
		Title:      q.Title,
		Slug:       q.Slug,
		Difficulty: string(q.Difficulty),
		Topics:     topics,
		URL:        q.URL,
		CreatedAt:  q.CreatedAt,
	}
}

// ── Handlers ────────────────────────────────────────────────────────────────

// createQuestion godoc
// @Summary      Add a question to the catalogue
// @Tags         questions
// @Accept       json
// @Produce      json
// @Param        body  body  CreateQuestionRequest  true  "Question"
// @Success      201  {object}  QuestionResponse
// @Failure      400  {object}  ErrorResponse
// @Failure      409  {object}  ErrorResponse
// @Router       /questions [post]
func (h *Handler) createQuestion(w http.ResponseWriter, r *http.Request) {
	var req CreateQuestionRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	difficulty, err := question.ParseDifficulty(req.Difficulty)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	q, err := question.New(req.Title, difficulty, req.Topics)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	q.SetURL(req.URL)

	if h.handleStoreError(w, h.store.SaveQuestion(r.Context(), q), "question") {
		return
	}

	respondJSON(w, http.StatusCreated, toQuestionResponse(q))
}

// listQuestions godoc
// @Summary      List questions
// @Tags         questions
// @Produce      json
// @Param        difficulty  query  string  false  "easy, medium or hard"
// @Param        topic  query  string  false  "Topic tag"
// @Success      200  {array}  QuestionResponse
// @Failure      400  {object}  ErrorResponse
// @Router       /questions [get]
func (h *Handler) listQuestions(w http.ResponseWriter, r *http.Request) {
	var filter store.QuestionFilter
	if d := r.URL.Query().Get("difficulty"); d != "" {
		difficulty, err := question.ParseDifficulty(d)
		if err != nil {
			respondError(w, http.StatusBadRequest, err.Error())
			return
		}
		filter.Difficulty = difficulty
	}
	filter.Topic = r.URL.Query().Get("topic")

	questions, err := h.store.ListQuestions(r.Context(), filter)
	if h.handleStoreError(w, err, "questions") {
		return
	}

	response := make([]QuestionResponse, len(questions))
	for i, q := range questions {
		response[i] = toQuestionResponse(q)
	}
	respondJSON(w, http.StatusOK, response)
}

// getQuestion godoc
// @Summary      Get a question
// @Tags         questions
// @Produce      json
// @Param        questionID  path  string  true  "Question ID"
// @Success      200  {object}  QuestionResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /questions/{questionID} [get]
func (h *Handler) getQuestion(w http.ResponseWriter, r *http.Request) {
	q, err := h.store.GetQuestion(r.Context(), r.PathValue("questionID"))
	if h.handleStoreError(w, err, "question") {
		return
	}
	respondJSON(w, http.StatusOK, toQuestionResponse(q))
}

// deleteQuestion godoc
// @Summary      Delete a question
// @Tags         questions
// @Param        questionID  path  string  true  "Question ID"
// @Success      204
// @Failure      404  {object}  ErrorResponse
// @Router       /questions/{questionID} [delete]
func (h *Handler) deleteQuestion(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	questionID := r.PathValue("questionID")

	if h.handleStoreError(w, h.store.DeleteQuestion(ctx, questionID), "question") {
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
