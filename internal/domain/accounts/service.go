package accounts

import (
	"context"
	"errors"
	"strings"

	"dogfarm/internal/ports/auth"
)

// Reglas del formulario original: email válido, password de 6+ caracteres.
var (
	ErrInvalidEmail = errors.New("please enter a valid email")
	ErrWeakPassword = errors.New("password must be at least 6 characters")
)

const minPasswordLen = 6

type Service struct {
	provider auth.Provider
}

func NewService(provider auth.Provider) *Service {
	return &Service{provider: provider}
}

// SignIn valida la forma de las credenciales antes de tocar el proveedor.
func (s *Service) SignIn(ctx context.Context, email, password string) (auth.Session, error) {
	if err := validateCredentials(email, password); err != nil {
		return auth.Session{}, err
	}
	return s.provider.SignIn(ctx, strings.TrimSpace(email), password)
}

func (s *Service) SignUp(ctx context.Context, email, password string) (auth.Session, error) {
	if err := validateCredentials(email, password); err != nil {
		return auth.Session{}, err
	}
	return s.provider.SignUp(ctx, strings.TrimSpace(email), password)
}

func (s *Service) SignOut(ctx context.Context, token string) error {
	if strings.TrimSpace(token) == "" {
		return auth.ErrNoSession
	}
	return s.provider.SignOut(ctx, token)
}

func validateCredentials(email, password string) error {
	if !validEmail(email) {
		return ErrInvalidEmail
	}
	if len(password) < minPasswordLen {
		return ErrWeakPassword
	}
	return nil
}

func validEmail(s string) bool {
	s = strings.TrimSpace(s)
	at := strings.Index(s, "@")
	if at <= 0 || at != strings.LastIndex(s, "@") {
		return false
	}
	domain := s[at+1:]
	dot := strings.LastIndex(domain, ".")
	if dot <= 0 || dot == len(domain)-1 {
		return false
	}
	return !strings.ContainsAny(s, " \t\n")
}
