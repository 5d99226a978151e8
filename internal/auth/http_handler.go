package auth

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"bookcatalog/internal/httpx"
	"bookcatalog/internal/logging"
	"bookcatalog/internal/user"
)

type HTTPHandler struct {
	service *Service
}

func NewHTTPHandler(service *Service) *HTTPHandler {
	return &HTTPHandler{service: service}
}

type signupReq struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// TokenResponse follows the OAuth2 password grant shape, so it is written
// without the envelope.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// Signup handles POST /auth/signup
// @Summary Register a new user
// @Description Create an account with an email and a strong password
// @Tags auth
// @Accept json
// @Produce json
// @Param request body signupReq true "Signup request"
// @Success 201 {object} httpx.SuccessResponse
// @Failure 400 {object} httpx.ErrorResponse
// @Failure 409 {object} httpx.ErrorResponse
// @Failure 500 {object} httpx.ErrorResponse
// @Router /auth/signup [post]
func (h *HTTPHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req signupReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.JSONError(w, r, http.StatusBadRequest, "BAD_REQUEST", "Invalid request body", nil)
		return
	}
	req.Email = strings.TrimSpace(req.Email)

	if details := httpx.ValidateStruct(req); len(details) > 0 {
		httpx.JSONError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid input", details)
		return
	}

	u, err := h.service.Signup(r.Context(), req.Email, req.Password)
	if err != nil {
		var pwErr *PasswordError
		switch {
		case errors.As(err, &pwErr):
			details := make([]httpx.ErrorDetail, 0, len(pwErr.Problems))
			for _, p := range pwErr.Problems {
				details = append(details, httpx.ErrorDetail{Field: "password", Message: p})
			}
			httpx.JSONError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid input", details)
		case errors.Is(err, user.ErrAlreadyExists):
			httpx.JSONError(w, r, http.StatusConflict, "ALREADY_EXISTS", "Email already registered", nil)
		default:
			logging.FromContext(r.Context()).Error("signup failed", "error", err)
			httpx.InternalError(w, r)
		}
		return
	}

	httpx.JSONSuccessCreated(w, r, u)
}

// Token handles POST /auth/token with form fields username and password.
// @Summary Issue an access token
// @Description OAuth2 password grant; username is the account email
// @Tags auth
// @Accept x-www-form-urlencoded
// @Produce json
// @Param username formData string true "Email"
// @Param password formData string true "Password"
// @Success 200 {object} TokenResponse
// @Failure 400 {object} httpx.ErrorResponse
// @Failure 401 {object} httpx.ErrorResponse
// @Failure 500 {object} httpx.ErrorResponse
// @Router /auth/token [post]
func (h *HTTPHandler) Token(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		httpx.JSONError(w, r, http.StatusBadRequest, "BAD_REQUEST", "Invalid form body", nil)
		return
	}
	username := strings.TrimSpace(r.PostForm.Get("username"))
	password := r.PostForm.Get("password")

	var details []httpx.ErrorDetail
	if username == "" {
		details = append(details, httpx.ErrorDetail{Field: "username", Message: "username is required"})
	}
	if password == "" {
		details = append(details, httpx.ErrorDetail{Field: "password", Message: "password is required"})
	}
	if len(details) > 0 {
		httpx.JSONError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid input", details)
		return
	}

	token, err := h.service.Login(r.Context(), username, password)
	if err != nil {
		if errors.Is(err, ErrUnauthorized) {
			w.Header().Set("WWW-Authenticate", "Bearer")
			httpx.JSONError(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "Invalid email or password", nil)
			return
		}
		logging.FromContext(r.Context()).Error("login failed", "error", err)
		httpx.InternalError(w, r)
		return
	}

	w.Header().Set("Cache-Control", "no-store")
	httpx.JSON(w, http.StatusOK, TokenResponse{AccessToken: token, TokenType: "bearer"})
}

// Me handles GET /auth/me
// @Summary Get current user
// @Tags auth
// @Produce json
// @Security Bearer
// @Success 200 {object} httpx.SuccessResponse
// @Failure 401 {object} httpx.ErrorResponse
// @Failure 500 {object} httpx.ErrorResponse
// @Router /auth/me [get]
func (h *HTTPHandler) Me(w http.ResponseWriter, r *http.Request) {
	userID, ok := httpx.UserIDFrom(r)
	if !ok {
		httpx.JSONError(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "Unauthorized", nil)
		return
	}

	u, err := h.service.Me(r.Context(), userID)
	if err != nil {
		if errors.Is(err, ErrUnauthorized) {
			httpx.JSONError(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "Unauthorized", nil)
			return
		}
		logging.FromContext(r.Context()).Error("load current user", "error", err)
		httpx.InternalError(w, r)
		return
	}

	httpx.JSONSuccess(w, r, u, nil)
}
