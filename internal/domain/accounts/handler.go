package accounts

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"dogfarm/internal/domain/session"
	"dogfarm/internal/middleware"
	"dogfarm/internal/ports/auth"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service, roles *session.Registry) {
	r.Route("/auth", func(ar chi.Router) {
		ar.Post("/signup", signUpHandler(svc))
		ar.Post("/signin", signInHandler(svc))
		ar.Post("/signout", signOutHandler(svc))
		ar.Get("/session", sessionHandler(roles))
	})
}

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type sessionResponse struct {
	Token     string    `json:"token"`
	UserID    string    `json:"user_id"`
	Email     string    `json:"email"`
	ExpiresAt time.Time `json:"expires_at"`
}

type whoamiResponse struct {
	Authenticated   bool   `json:"authenticated"`
	UserID          string `json:"user_id,omitempty"`
	Email           string `json:"email,omitempty"`
	IsAdministrator bool   `json:"is_administrator"`
}

// @Summary Iniciar sesión
// @Tags auth
// @Accept json
// @Produce json
// @Success 200 {object} accounts.sessionResponse
// @Failure 401 {string} string "Invalid email or password"
// @Router /auth/signin [post]
func signInHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req credentialsRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		s, err := svc.SignIn(r.Context(), req.Email, req.Password)
		if err != nil {
			writeAuthError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toSessionResponse(s))
	}
}

// @Summary Crear cuenta
// @Tags auth
// @Accept json
// @Produce json
// @Success 201 {object} accounts.sessionResponse
// @Failure 409 {string} string "already registered"
// @Router /auth/signup [post]
func signUpHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req credentialsRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		s, err := svc.SignUp(r.Context(), req.Email, req.Password)
		if err != nil {
			writeAuthError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, toSessionResponse(s))
	}
}

// @Summary Cerrar sesión
// @Tags auth
// @Success 204
// @Router /auth/signout [post]
func signOutHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.Token) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		if err := svc.SignOut(r.Context(), claims.Token); err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// sessionHandler devuelve la identidad actual y el flag admin derivado.
// Sin claims responde anónimo, nunca error.
//
// @Summary Sesión actual
// @Tags auth
// @Produce json
// @Success 200 {object} accounts.whoamiResponse
// @Router /auth/session [get]
func sessionHandler(roles *session.Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			writeJSON(w, http.StatusOK, whoamiResponse{Authenticated: false})
			return
		}

		writeJSON(w, http.StatusOK, whoamiResponse{
			Authenticated:   true,
			UserID:          claims.UserID,
			Email:           claims.Email,
			IsAdministrator: roles.IsAdministrator(r.Context(), claims),
		})
	}
}

// writeAuthError mapea errores del proveedor a los mensajes amigables
// fijos que muestra la UI.
func writeAuthError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrInvalidEmail), errors.Is(err, ErrWeakPassword):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, auth.ErrInvalidCredentials):
		http.Error(w, "Invalid email or password", http.StatusUnauthorized)
	case errors.Is(err, auth.ErrEmailTaken):
		http.Error(w, "This email is already registered. Please sign in instead.", http.StatusConflict)
	default:
		http.Error(w, "auth service unavailable, try again", http.StatusBadGateway)
	}
}

func toSessionResponse(s auth.Session) sessionResponse {
	return sessionResponse{
		Token:     s.Token,
		UserID:    s.UserID,
		Email:     s.Email,
		ExpiresAt: s.ExpiresAt,
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
