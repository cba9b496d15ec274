package auth

import "time"

// Claims representa la identidad extraída del token de sesión.
type Claims struct {
	UserID string
	Email  string
	Token  string
}

// Session representa una sesión autenticada emitida por el proveedor.
type Session struct {
	Token     string
	UserID    string
	Email     string
	ExpiresAt time.Time
}

// Event notifica un cambio de sesión.
// Session == nil significa sign-out (o expiración) del token.
type Event struct {
	Token   string
	Session *Session
}
