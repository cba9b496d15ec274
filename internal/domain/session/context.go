package session

import (
	"context"
	"errors"
	"sync"

	"dogfarm/internal/platform/logger"
	"dogfarm/internal/ports/auth"
)

// State es el estado de la máquina de sesión para un token.
type State int

const (
	// StateUnknown: aún no llegó el primer snapshot del proveedor.
	StateUnknown State = iota
	StateAnonymous
	StateAuthenticated
)

func (s State) String() string {
	switch s {
	case StateAnonymous:
		return "anonymous"
	case StateAuthenticated:
		return "authenticated"
	default:
		return "unknown"
	}
}

// Context sigue la identidad y el rol admin de un token de sesión.
//
// Transiciones: Unknown -> Anonymous | Authenticated con el primer snapshot;
// Authenticated pasa de rol pendiente a rol resuelto cuando termina el
// lookup; sign-out o teardown vuelven a Unknown.
//
// Invariante de seguridad: IsAdministrator solo es true en
// Authenticated con rol resuelto en true. Unknown, Anonymous y
// rol-pendiente se tratan igual que false (default-deny).
type Context struct {
	provider auth.Provider
	log      logger.Logger
	token    string

	mu           sync.Mutex
	state        State
	identity     *auth.Session
	roleResolved bool
	admin        bool
}

func newContext(provider auth.Provider, log logger.Logger, token string) *Context {
	return &Context{
		provider: provider,
		log:      log,
		token:    token,
		state:    StateUnknown,
	}
}

// ensure fuerza el primer snapshot si el estado sigue en Unknown.
func (c *Context) ensure(ctx context.Context) {
	c.mu.Lock()
	unknown := c.state == StateUnknown
	c.mu.Unlock()
	if !unknown {
		return
	}

	s, err := c.provider.GetSession(ctx, c.token)
	if err != nil {
		if !errors.Is(err, auth.ErrNoSession) {
			c.log.Warn("session lookup failed", map[string]any{"error": err.Error()})
		}
		c.applySnapshot(ctx, nil)
		return
	}
	c.applySnapshot(ctx, &s)
}

// applySnapshot aplica un snapshot del proveedor. Con identidad presente,
// el rol arranca conservadoramente en false y recién flipea cuando el
// lookup resuelve. Si el lookup falla, queda en false y se loguea; el
// error no llega a la capa de vista.
func (c *Context) applySnapshot(ctx context.Context, s *auth.Session) {
	c.mu.Lock()
	if s == nil {
		c.state = StateAnonymous
		c.identity = nil
		c.roleResolved = false
		c.admin = false
		c.mu.Unlock()
		return
	}

	c.state = StateAuthenticated
	c.identity = s
	c.roleResolved = false
	c.admin = false
	userID := s.UserID
	c.mu.Unlock()

	ok, err := c.provider.IsAdmin(ctx, userID)

	c.mu.Lock()
	defer c.mu.Unlock()
	// el snapshot pudo cambiar mientras corría el lookup
	if c.state != StateAuthenticated || c.identity == nil || c.identity.UserID != userID {
		return
	}
	c.roleResolved = true
	if err != nil {
		c.log.Warn("admin role lookup failed, defaulting to non-admin", map[string]any{
			"user_id": userID,
			"error":   err.Error(),
		})
		c.admin = false
		return
	}
	c.admin = ok
}

// reset vuelve a Unknown (sign-out o teardown del proveedor).
func (c *Context) reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state = StateUnknown
	c.identity = nil
	c.roleResolved = false
	c.admin = false
}

func (c *Context) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

func (c *Context) Identity() (auth.Session, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != StateAuthenticated || c.identity == nil {
		return auth.Session{}, false
	}
	return *c.identity, true
}

func (c *Context) IsAdministrator() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state == StateAuthenticated && c.roleResolved && c.admin
}
