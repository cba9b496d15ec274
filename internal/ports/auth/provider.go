package auth

import (
	"context"
	"errors"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmailTaken         = errors.New("email already registered")
	ErrNoSession          = errors.New("no session")
)

// Provider es el servicio de identidad consumido por la app.
// Puede ser el adapter in-memory (dev/tests) o el hosted (cloudauth).
type Provider interface {
	SignIn(ctx context.Context, email, password string) (Session, error)
	SignUp(ctx context.Context, email, password string) (Session, error)
	SignOut(ctx context.Context, token string) error

	// GetSession resuelve el token a una sesión vigente o ErrNoSession.
	GetSession(ctx context.Context, token string) (Session, error)

	// SessionChanges registra un callback para cambios de sesión.
	// Devuelve la función de unsubscribe.
	SessionChanges(fn func(Event)) (unsubscribe func())

	// IsAdmin consulta la tabla de autorización por user id.
	IsAdmin(ctx context.Context, userID string) (bool, error)
}
