package api

import (
	"net/http"
	"time"

	"github.com/leettrack/backend/internal/domain/user"
)

// ── Request / Response types ────────────────────────────────────────────────

type CreateUserRequest struct {
	Email       string `json:"email" validate:"required,email"`
	DisplayName string `json:"display_name" validate:"max=80"`
}

type UserResponse struct {
	ID          string    `json:"id"`
	Email       string    `json:"email"`
	DisplayName string    `json:"display_name"`
	CreatedAt   time.Time `json:"created_at"`
}

func toUserResponse(u *user.User) UserResponse {
	return UserResponse{
		ID:          u.ID,
		Email:       u.Email,
		DisplayName: u.DisplayName,
		CreatedAt:   u.CreatedAt,
	}
}

// ── Handlers ────────────────────────────────────────────────────────────────

// createUser godoc
// @Summary      Create a user
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        body  body  CreateUserRequest  true  "User"
// @Success      201  {object}  UserResponse
// @Failure      400  {object}  ErrorResponse
// @Failure      409  {object}  ErrorResponse
// @Router       /users [post]
func (h *Handler) createUser(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req CreateUserRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	u, err := user.New(req.Email, req.DisplayName)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	if h.handleStoreError(w, h.store.SaveUser(ctx, u), "user") {
		return
	}

	if _, err := h.profiles.EnsureProfile(ctx, u.ID); err != nil {
		h.logger.Error("failed to create profile", "user_id", u.ID, "error", err)
	}

	respondJSON(w, http.StatusCreated, toUserResponse(u))
}

// listUsers godoc
// @Summary      List users
// @Tags         users
// @Produce      json
// @Success      200  {array}  UserResponse
// @Router       /users [get]
func (h *Handler) listUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.store.ListUsers(r.Context())
	if h.handleStoreError(w, err, "users") {
		return
	}

	response := make([]UserResponse, len(users))
	for i, u := range users {
		response[i] = toUserResponse(u)
	}
	respondJSON(w, http.StatusOK, response)
}

// getUser godoc
// @Summary      Get a user
// @Tags         users
// @Produce      json
// @Param        userID  path  string  true  "User ID"
// @Success      200  {object}  UserResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /users/{userID} [get]
func (h *Handler) getUser(w http.ResponseWriter, r *http.Request) {
	u, err := h.store.GetUser(r.Context(), r.PathValue("userID"))
	if h.handleStoreError(w, err, "user") {
		return
	}
	respondJSON(w, http.StatusOK, toUserResponse(u))
}

// deleteUser godoc
// @Summary      Delete a user and their history
// @Tags         users
// @Param        userID  path  string  true  "User ID"
// @Success      204
// @Failure      404  {object}  ErrorResponse
// @Router       /users/{userID} [delete]
func (h *Handler) deleteUser(w http.ResponseWriter, r *http.Request) {
	if h.handleStoreError(w, h.store.DeleteUser(r.Context(), r.PathValue("userID")), "user") {
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
