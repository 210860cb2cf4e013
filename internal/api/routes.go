// internal/api/routes.go
package api

import "net/http"

func RegisterRoutes(mux *http.ServeMux, h *Handler) {
	// Users
	mux.HandleFunc("POST /users", h.createUser)
	mux.HandleFunc("GET /users", h.listUsers)
	mux.HandleFunc("GET /users/{userID}", h.getUser)
	mux.HandleFunc("DELETE /users/{userID}", h.deleteUser)

	// Profiles
	mux.HandleFunc("GET /users/{userID}/profile", h.getProfile)
	mux.HandleFunc("PUT /users/{userID}/profile/weights", h.updateWeights)
	mux.HandleFunc("DELETE /users/{userID}/profile/weights", h.resetWeights)
	mux.HandleFunc("PUT /users/{userID}/profile/preferences", h.updatePreferences)

	// Questions
	mux.HandleFunc("POST /questions", h.createQuestion)
	mux.HandleFunc("GET /questions", h.listQuestions)
	mux.HandleFunc("GET /questions/{questionID}", h.getQuestion)
	mux.HandleFunc("DELETE /questions/{questionID}", h.deleteQuestion)

	// Solve history & stats
	mux.HandleFunc("POST /users/{userID}/solves", h.recordSolve)
	mux.HandleFunc("GET /users/{userID}/solves", h.listSolves)
	mux.HandleFunc("GET /users/{userID}/stats", h.getUserStats)

	// Recommendations
	mux.HandleFunc("GET /users/{userID}/recommendations", h.getRecommendations)
	mux.HandleFunc("POST /recommendations/plan", h.previewPlan)

	// Catalogue export / import
	mux.HandleFunc("GET /export", h.exportQuestions)
	mux.HandleFunc("POST /import", h.importQuestions)
}
