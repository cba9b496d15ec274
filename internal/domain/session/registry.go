package session

import (
	"context"
	"strings"
	"sync"

	"dogfarm/internal/platform/logger"
	"dogfarm/internal/ports/auth"
)

// Registry mantiene un Context por token y lo alimenta con los eventos de
// cambio de sesión del proveedor. Se construye una vez en el router y se
// pasa explícito a los handlers que necesitan gatear por admin; no hay
// singleton escondido.
type Registry struct {
	provider    auth.Provider
	log         logger.Logger
	unsubscribe func()

	mu      sync.Mutex
	byToken map[string]*Context
}

func NewRegistry(provider auth.Provider, log logger.Logger) *Registry {
	r := &Registry{
		provider: provider,
		log:      log,
		byToken:  make(map[string]*Context),
	}
	if provider != nil {
		r.unsubscribe = provider.SessionChanges(r.onEvent)
	}
	return r
}

func (r *Registry) onEvent(ev auth.Event) {
	r.mu.Lock()
	c, ok := r.byToken[ev.Token]
	if ev.Session == nil {
		delete(r.byToken, ev.Token)
	}
	r.mu.Unlock()

	if !ok {
		return
	}
	if ev.Session == nil {
		// sign-out: el contexto vuelve a Unknown y pierde el rol ya mismo
		c.reset()
		return
	}
	c.applySnapshot(context.Background(), ev.Session)
}

func (r *Registry) contextFor(token string) *Context {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.byToken[token]
	if !ok {
		c = newContext(r.provider, r.log, token)
		r.byToken[token] = c
	}
	return c
}

// IsAdministrator decide si el portador del token es admin. Default-deny:
// sin proveedor, sin token o con rol pendiente la respuesta es false.
func (r *Registry) IsAdministrator(ctx context.Context, claims auth.Claims) bool {
	if r == nil || r.provider == nil {
		return false
	}
	if strings.TrimSpace(claims.Token) == "" || strings.TrimSpace(claims.UserID) == "" {
		return false
	}

	c := r.contextFor(claims.Token)
	c.ensure(ctx)
	return c.IsAdministrator()
}

// Close corta la suscripción al proveedor y desarma todos los contextos.
func (r *Registry) Close() {
	if r.unsubscribe != nil {
		r.unsubscribe()
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	for token, c := range r.byToken {
		c.reset()
		delete(r.byToken, token)
	}
}
