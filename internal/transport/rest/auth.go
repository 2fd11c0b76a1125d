package rest

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	authservice "github.com/avoronkov/portfolio-backend/internal/service/auth"
)

type authService interface {
	SignIn(ctx context.Context, email, password string) (*authservice.SignInResult, error)
}

type AuthHandler struct {
	auth authService
	log  *slog.Logger
}

func NewAuthHandler(auth authService, log *slog.Logger) *AuthHandler {
	return &AuthHandler{
		auth: auth,
		log:  log.With("handler", "auth"),
	}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token   string `json:"token"`
	AdminID string `json:"admin_id"`
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := h.auth.SignIn(r.Context(), req.Email, req.Password)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, loginResponse{
		Token:   result.Token,
		AdminID: result.AdminID.String(),
	})
}
