package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/steptzi/api/internal/core/domain"
	"github.com/steptzi/api/internal/core/ports"
)

type AuthHandler struct {
	auth ports.AuthService
}

func NewAuthHandler(auth ports.AuthService) *AuthHandler {
	return &AuthHandler{auth: auth}
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type resetPasswordRequest struct {
	NewPassword     string `json:"new_password"`
	ConfirmPassword string `json:"confirm_password"`
}

type messageResponse struct {
	Message string `json:"message"`
}

// Register godoc
// @Summary      Registers a new user
// @Description  Creates the account and sends a verification mail to the given address
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body ports.RegisterInput true "Registration data"
// @Success      201 {object} domain.User
// @Failure      400
// @Failure      409
// @Router       /auth/register [post]
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var input ports.RegisterInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	user, err := h.auth.Register(r.Context(), input)
	if err != nil {
		if errors.Is(err, domain.ErrPasswordMismatch) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if errors.Is(err, domain.ErrUsernameTaken) || errors.Is(err, domain.ErrEmailTaken) {
			http.Error(w, err.Error(), http.StatusConflict)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	// Mail dispatch is fire-and-forget; a failed lookup here cannot happen
	// for a user that was just created.
	_ = h.auth.SendVerificationMail(r.Context(), user.Email)

	writeJSON(w, http.StatusCreated, user)
}

// Login godoc
// @Summary      Logs a user in
// @Description  Returns an access and a refresh token for valid credentials
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body loginRequest true "Credentials"
// @Success      200 {object} domain.TokenPair
// @Failure      401
// @Router       /auth/login [post]
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	pair, err := h.auth.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCredentials) {
			http.Error(w, err.Error(), http.StatusUnauthorized)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, pair)
}

// Refresh godoc
// @Summary      Rotates a refresh token
// @Description  Redeems the refresh token and returns a new access/refresh pair. The old token is single-use.
// @Tags         auth
// @Produce      json
// @Param        token query string true "Refresh token"
// @Success      200 {object} domain.TokenPair
// @Failure      401
// @Router       /auth/refresh [get]
func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if token == "" {
		http.Error(w, "missing token", http.StatusBadRequest)
		return
	}

	pair, err := h.auth.Refresh(r.Context(), token)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidToken) || errors.Is(err, domain.ErrTokenUsed) {
			http.Error(w, err.Error(), http.StatusUnauthorized)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, pair)
}

// SendVerification godoc
// @Summary      Sends a verification mail
// @Tags         auth
// @Produce      json
// @Param        email query string true "Account email"
// @Success      200 {object} messageResponse
// @Failure      404
// @Failure      409
// @Router       /auth/email-verify [get]
func (h *AuthHandler) SendVerification(w http.ResponseWriter, r *http.Request) {
	email := r.URL.Query().Get("email")
	if email == "" {
		http.Error(w, "missing email", http.StatusBadRequest)
		return
	}

	if err := h.auth.SendVerificationMail(r.Context(), email); err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		if errors.Is(err, domain.ErrAlreadyVerified) {
			http.Error(w, err.Error(), http.StatusConflict)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, messageResponse{Message: "verification email sent"})
}

// ConfirmVerification godoc
// @Summary      Verifies an email address
// @Tags         auth
// @Produce      json
// @Param        token query string true "Verification token"
// @Success      200 {object} messageResponse
// @Failure      401
// @Failure      409
// @Router       /auth/email-verify/confirm [get]
func (h *AuthHandler) ConfirmVerification(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if token == "" {
		http.Error(w, "missing token", http.StatusBadRequest)
		return
	}

	if _, err := h.auth.VerifyEmail(r.Context(), token); err != nil {
		if errors.Is(err, domain.ErrInvalidToken) || errors.Is(err, domain.ErrTokenUsed) {
			http.Error(w, err.Error(), http.StatusUnauthorized)
			return
		}
		if errors.Is(err, domain.ErrAlreadyVerified) {
			http.Error(w, err.Error(), http.StatusConflict)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, messageResponse{Message: "email verified"})
}

// SendReset godoc
// @Summary      Sends a password-reset mail
// @Tags         auth
// @Produce      json
// @Param        email query string true "Account email"
// @Success      200 {object} messageResponse
// @Failure      404
// @Router       /auth/reset-password [get]
func (h *AuthHandler) SendReset(w http.ResponseWriter, r *http.Request) {
	email := r.URL.Query().Get("email")
	if email == "" {
		http.Error(w, "missing email", http.StatusBadRequest)
		return
	}

	if err := h.auth.SendResetPasswordMail(r.Context(), email); err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, messageResponse{Message: "reset password email sent"})
}

// ConfirmReset godoc
// @Summary      Resets the password
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        token query string true "Reset token"
// @Param        request body resetPasswordRequest true "New password"
// @Success      200 {object} messageResponse
// @Failure      400
// @Failure      401
// @Router       /auth/reset-password/confirm [post]
func (h *AuthHandler) ConfirmReset(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if token == "" {
		http.Error(w, "missing token", http.StatusBadRequest)
		return
	}

	var req resetPasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	if _, err := h.auth.ResetPassword(r.Context(), token, req.NewPassword, req.ConfirmPassword); err != nil {
		if errors.Is(err, domain.ErrPasswordMismatch) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if errors.Is(err, domain.ErrInvalidToken) || errors.Is(err, domain.ErrTokenUsed) {
			http.Error(w, err.Error(), http.StatusUnauthorized)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, messageResponse{Message: "password reset"})
}
