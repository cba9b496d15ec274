package session

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"dogfarm/internal/platform/logger"
	"dogfarm/internal/ports/auth"
)

// fakeProvider es un proveedor de identidad controlable por el test.
type fakeProvider struct {
	mu       sync.Mutex
	sessions map[string]auth.Session
	admins   map[string]bool
	adminErr error
	subs     []func(auth.Event)
}

func newFakeProvider() *fakeProvider {
	return &fakeProvider{
		sessions: map[string]auth.Session{},
		admins:   map[string]bool{},
	}
}

func (p *fakeProvider) SignIn(ctx context.Context, email, password string) (auth.Session, error) {
	return auth.Session{}, errors.New("not used")
}

func (p *fakeProvider) SignUp(ctx context.Context, email, password string) (auth.Session, error) {
	return auth.Session{}, errors.New("not used")
}

func (p *fakeProvider) SignOut(ctx context.Context, token string) error {
	p.mu.Lock()
	delete(p.sessions, token)
	p.mu.Unlock()
	p.emit(auth.Event{Token: token, Session: nil})
	return nil
}

func (p *fakeProvider) GetSession(ctx context.Context, token string) (auth.Session, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	s, ok := p.sessions[token]
	if !ok {
		return auth.Session{}, auth.ErrNoSession
	}
	return s, nil
}

func (p *fakeProvider) SessionChanges(fn func(auth.Event)) func() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.subs = append(p.subs, fn)
	return func() {}
}

func (p *fakeProvider) IsAdmin(ctx context.Context, userID string) (bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.adminErr != nil {
		return false, p.adminErr
	}
	return p.admins[userID], nil
}

func (p *fakeProvider) emit(ev auth.Event) {
	p.mu.Lock()
	subs := append([]func(auth.Event){}, p.subs...)
	p.mu.Unlock()
	for _, fn := range subs {
		fn(ev)
	}
}

func (p *fakeProvider) addSession(token, userID string, admin bool) auth.Claims {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.sessions[token] = auth.Session{
		Token:     token,
		UserID:    userID,
		Email:     userID + "@example.com",
		ExpiresAt: time.Now().Add(time.Hour),
	}
	if admin {
		p.admins[userID] = true
	}
	return auth.Claims{UserID: userID, Email: userID + "@example.com", Token: token}
}

// -------------------------
// Tests
// -------------------------

func TestRegistry_DefaultDeny(t *testing.T) {
	ctx := context.Background()

	// sin proveedor
	var nilReg *Registry
	if nilReg.IsAdministrator(ctx, auth.Claims{UserID: "u", Token: "t"}) {
		t.Fatalf("nil registry must deny")
	}
	reg := NewRegistry(nil, logger.NewNop())
	if reg.IsAdministrator(ctx, auth.Claims{UserID: "u", Token: "t"}) {
		t.Fatalf("registry without provider must deny")
	}

	// claims incompletos
	provider := newFakeProvider()
	reg = NewRegistry(provider, logger.NewNop())
	defer reg.Close()
	if reg.IsAdministrator(ctx, auth.Claims{UserID: "u"}) {
		t.Fatalf("claims without token must deny")
	}
	if reg.IsAdministrator(ctx, auth.Claims{Token: "t"}) {
		t.Fatalf("claims without user id must deny")
	}
}

func TestRegistry_UnknownToken_Denies(t *testing.T) {
	provider := newFakeProvider()
	reg := NewRegistry(provider, logger.NewNop())
	defer reg.Close()

	got := reg.IsAdministrator(context.Background(), auth.Claims{UserID: "u-1", Token: "ghost"})
	if got {
		t.Fatalf("token without session must deny")
	}
}

func TestRegistry_ResolvesAdminRole(t *testing.T) {
	provider := newFakeProvider()
	reg := NewRegistry(provider, logger.NewNop())
	defer reg.Close()

	adminClaims := provider.addSession("tok-admin", "u-admin", true)
	plainClaims := provider.addSession("tok-plain", "u-plain", false)

	if !reg.IsAdministrator(context.Background(), adminClaims) {
		t.Fatalf("expected admin to be recognized")
	}
	if reg.IsAdministrator(context.Background(), plainClaims) {
		t.Fatalf("expected non-admin to be denied")
	}
}

func TestRegistry_RoleLookupFailure_Denies(t *testing.T) {
	provider := newFakeProvider()
	provider.adminErr = errors.New("roles service down")

	reg := NewRegistry(provider, logger.NewNop())
	defer reg.Close()

	claims := provider.addSession("tok-1", "u-1", true)
	if reg.IsAdministrator(context.Background(), claims) {
		t.Fatalf("failed role lookup must deny, never error out")
	}
}

func TestRegistry_SignOutDropsAdminImmediately(t *testing.T) {
	provider := newFakeProvider()
	reg := NewRegistry(provider, logger.NewNop())
	defer reg.Close()

	claims := provider.addSession("tok-admin", "u-admin", true)
	if !reg.IsAdministrator(context.Background(), claims) {
		t.Fatalf("expected admin before sign-out")
	}

	if err := provider.SignOut(context.Background(), claims.Token); err != nil {
		t.Fatalf("SignOut error: %v", err)
	}
	if reg.IsAdministrator(context.Background(), claims) {
		t.Fatalf("expected admin flag dropped right after sign-out")
	}
}

func TestRegistry_SignInEventResolvesNewSession(t *testing.T) {
	provider := newFakeProvider()
	reg := NewRegistry(provider, logger.NewNop())
	defer reg.Close()

	// primer acceso con token desconocido deja el contexto en Anonymous
	claims := auth.Claims{UserID: "u-admin", Token: "tok-admin"}
	if reg.IsAdministrator(context.Background(), claims) {
		t.Fatalf("expected deny before the session exists")
	}

	// llega la sesión y el evento del proveedor re-sincroniza el contexto
	claims = provider.addSession("tok-admin", "u-admin", true)
	s := auth.Session{Token: "tok-admin", UserID: "u-admin", ExpiresAt: time.Now().Add(time.Hour)}
	provider.emit(auth.Event{Token: "tok-admin", Session: &s})

	if !reg.IsAdministrator(context.Background(), claims) {
		t.Fatalf("expected admin after session event")
	}
}

func TestContext_StateMachine(t *testing.T) {
	provider := newFakeProvider()
	c := newContext(provider, logger.NewNop(), "tok-1")

	if c.State() != StateUnknown {
		t.Fatalf("expected Unknown before first snapshot")
	}
	if c.IsAdministrator() {
		t.Fatalf("Unknown must deny")
	}

	// snapshot anónimo
	c.ensure(context.Background())
	if c.State() != StateAnonymous {
		t.Fatalf("expected Anonymous for missing session, got %s", c.State())
	}
	if _, ok := c.Identity(); ok {
		t.Fatalf("anonymous context must not expose an identity")
	}

	// reset y snapshot autenticado
	c.reset()
	provider.addSession("tok-1", "u-1", true)
	c.ensure(context.Background())
	if c.State() != StateAuthenticated {
		t.Fatalf("expected Authenticated, got %s", c.State())
	}
	id, ok := c.Identity()
	if !ok || id.UserID != "u-1" {
		t.Fatalf("expected identity u-1, got %+v ok=%v", id, ok)
	}
	if !c.IsAdministrator() {
		t.Fatalf("expected resolved admin role")
	}

	// teardown
	c.reset()
	if c.State() != StateUnknown || c.IsAdministrator() {
		t.Fatalf("reset must return to Unknown and deny")
	}
}
