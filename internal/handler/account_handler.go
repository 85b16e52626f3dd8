package handler

import (
	"encoding/json"
	"net/http"

	"storefront/internal/auth"
	"storefront/internal/model"
	"storefront/internal/service"

	"github.com/rs/zerolog"
)

// AccountHandler handles registration, login and logout.
type AccountHandler struct {
	service service.AccountService
	tokens  *auth.Manager
	logger  zerolog.Logger
}

// NewAccountHandler creates a new account handler.
func NewAccountHandler(service service.AccountService, tokens *auth.Manager, logger zerolog.Logger) *AccountHandler {
	return &AccountHandler{
		service: service,
		tokens:  tokens,
		logger:  logger.With().Str("handler", "account").Logger(),
	}
}

type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Register handles POST /api/account/register requests.
func (h *AccountHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", h.logger)
		return
	}

	user, err := h.service.Register(r.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		writeDomainError(w, err, h.logger)
		return
	}

	h.startSession(w, auth.SchemeCustomer, user)
	writeJSON(w, http.StatusCreated, user)
}

// Login handles POST /api/account/login requests.
func (h *AccountHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", h.logger)
		return
	}

	user, err := h.service.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeDomainError(w, err, h.logger)
		return
	}

	h.startSession(w, auth.SchemeCustomer, user)
	writeJSON(w, http.StatusOK, user)
}

// Logout handles POST /api/account/logout requests.
func (h *AccountHandler) Logout(w http.ResponseWriter, r *http.Request) {
	clearSession(w, auth.SchemeCustomer)
	writeJSON(w, http.StatusOK, StatusResponse{Success: true})
}

// BackofficeLogin handles POST /api/backoffice/login requests.
func (h *AccountHandler) BackofficeLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", h.logger)
		return
	}

	user, err := h.service.BackofficeLogin(r.Context(), req.Email, req.Password)
	if err != nil {
		writeDomainError(w, err, h.logger)
		return
	}

	h.startSession(w, auth.SchemeBackoffice, user)
	writeJSON(w, http.StatusOK, user)
}

// BackofficeLogout handles POST /api/backoffice/logout requests.
func (h *AccountHandler) BackofficeLogout(w http.ResponseWriter, r *http.Request) {
	clearSession(w, auth.SchemeBackoffice)
	writeJSON(w, http.StatusOK, StatusResponse{Success: true})
}

func (h *AccountHandler) startSession(w http.ResponseWriter, scheme auth.Scheme, user *model.User) {
	token, err := h.tokens.Issue(scheme, user.ID, user.Role)
	if err != nil {
		h.logger.Error().Err(err).Str("user_id", user.ID.String()).Msg("failed to mint session token")
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     scheme.CookieName(),
		Value:    token,
		Path:     "/",
		MaxAge:   int(h.tokens.TTL().Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func clearSession(w http.ResponseWriter, scheme auth.Scheme) {
	http.SetCookie(w, &http.Cookie{
		Name:     scheme.CookieName(),
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}
