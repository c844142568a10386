package api

import (
	"net/http"
	"time"

	"github.com/ViktorMash/resource-booking-system/internal/domain"
)

type loginRequest struct {
	Login    string `json:"login"`
	Password string `json:"password"`
}

type loginResponse struct {
	AccessToken string    `json:"access_token"`
	TokenType   string    `json:"token_type"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// login verifies credentials and returns a bearer token.
func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, h.logger, err)
		return
	}
	if req.Login == "" || req.Password == "" {
		writeError(w, h.logger, domain.ErrValidation("login and password are required"))
		return
	}

	u, err := h.users.Authenticate(r.Context(), req.Login, req.Password)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	token, expiresAt, err := h.tokens.Issue(u)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, loginResponse{
		AccessToken: token,
		TokenType:   "bearer",
		ExpiresAt:   expiresAt,
	})
}

type createUserRequest struct {
	Email       string `json:"email"`
	Username    string `json:"username"`
	Password    string `json:"password"`
	IsSuperuser bool   `json:"is_superuser,omitempty"`
}

// setup creates the initial superuser on an empty store. Once any user
// exists the underlying service demands a superuser caller, which this
// unauthenticated route cannot supply.
func (h *Handler) setup(w http.ResponseWriter, r *http.Request) {
	var req createUserRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, h.logger, err)
		return
	}
	u, err := h.users.Create(r.Context(), &domain.CreateUserRequest{
		Email:    req.Email,
		Username: req.Username,
		Password: req.Password,
	})
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, userToAPI(*u))
}
