package api

import (
	"net/http"
	"time"

	"github.com/goccy/go-json"

	"github.com/leettrack/backend/internal/seed"
	"github.com/leettrack/backend/internal/store"
)

// ExportVersion tags the catalogue export format.
const ExportVersion = "1.0"

// ── Request / Response types ────────────────────────────────────────────────

type ExportQuestion struct {
	Title      string   `json:"title"`
	Difficulty string   `json:"difficulty"`
	Topics     []string `json:"topics"`
	URL        *string  `json:"url,omitempty"`
}

type ExportData struct {
	Version    string           `json:"version"`
	ExportedAt string           `json:"exported_at"`
	Questions  []ExportQuestion `json:"questions"`
}

type ImportResult struct {
	QuestionsCreated int `json:"questions_created"`
	QuestionsSkipped int `json:"questions_skipped"`
	QuestionsInvalid int `json:"questions_invalid"`
}

// ── Handlers ────────────────────────────────────────────────────────────────

// exportQuestions godoc
// @Summary      Export the question catalogue
// @Tags         catalogue
// @Produce      json
// @Success      200  {object}  ExportData
// @Router       /export [get]
func (h *Handler) exportQuestions(w http.ResponseWriter, r *http.Request) {
	questions, err := h.store.ListQuestions(r.Context(), store.QuestionFilter{})
	if err != nil {
		h.logger.Error("failed to load questions", "error", err)
		respondError(w, http.StatusInternalServerError, "failed to load questions")
		return
	}

	exportData := ExportData{
		Version:    ExportVersion,
		ExportedAt: time.Now().UTC().Format(time.RFC3339),
		Questions:  make([]ExportQuestion, len(questions)),
	}
	for i, q := range questions {
		exportData.Questions[i] = ExportQuestion{
			Title:      q.Title,
			Difficulty: string(q.Difficulty),
			Topics:     q.Topics,
			URL:        q.URL,
		}
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", "attachment; filename=leettrack-export.json")
	json.NewEncoder(w).Encode(exportData)
}

// importQuestions godoc
// @Summary      Import a question catalogue
// @Tags         catalogue
// @Accept       json
// @Produce      json
// @Param        body  body  ExportData  true  "Export file"
// @Success      201  {object}  ImportResult
// @Failure      400  {object}  ErrorResponse
// @Router       /import [post]
//
// Questions whose slug already exists are skipped.
func (h *Handler) importQuestions(w http.ResponseWriter, r *http.Request) {
	var importData ExportData
	if !decodeJSON(w, r, &importData) {
		return
	}

	specs := make([]seed.QuestionSpec, len(importData.Questions))
	for i, eq := range importData.Questions {
		specs[i] = seed.QuestionSpec{
			Title:      eq.Title,
			Difficulty: eq.Difficulty,
			Topics:     eq.Topics,
			URL:        eq.URL,
		}
	}

	res, err := seed.Import(r.Context(), h.store, specs, h.logger)
	if err != nil {
		h.logger.Error("import failed", "error", err)
		respondError(w, http.StatusInternalServerError, "failed to save question")
		return
	}

	respondJSON(w, http.StatusCreated, ImportResult{
		QuestionsCreated: res.Created,
		QuestionsSkipped: res.Skipped,
		QuestionsInvalid: res.Invalid,
	})
}
