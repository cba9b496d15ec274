package memory

import (
	"context"
	"strings"
	"sync"
	"time"

	"dogfarm/internal/ports/auth"

	"github.com/google/uuid"
)

const sessionTTL = 24 * time.Hour

type userRecord struct {
	id       string
	email    string
	password string
}

// Provider es el proveedor de identidad in-memory para dev y tests.
// Arranca con el admin por defecto del sitio.
type Provider struct {
	mu       sync.Mutex
	byEmail  map[string]userRecord
	sessions map[string]auth.Session
	admins   map[string]bool

	subs    map[int]func(auth.Event)
	nextSub int

	now func() time.Time
}

func NewProvider() *Provider {
	p := &Provider{
		byEmail:  make(map[string]userRecord),
		sessions: make(map[string]auth.Session),
		admins:   make(map[string]bool),
		subs:     make(map[int]func(auth.Event)),
		now:      time.Now,
	}
	// cuenta admin por defecto (misma que mostraba la página de login)
	p.SeedUser("admin@dogfarm.com", "admin123", true)
	return p
}

// SeedUser da de alta un usuario directo, sin pasar por SignUp.
func (p *Provider) SeedUser(email, password string, admin bool) string {
	p.mu.Lock()
	defer p.mu.Unlock()

	id := uuid.NewString()
	p.byEmail[normalizeEmail(email)] = userRecord{
		id:       id,
		email:    strings.TrimSpace(email),
		password: password,
	}
	if admin {
		p.admins[id] = true
	}
	return id
}

func (p *Provider) SignIn(ctx context.Context, email, password string) (auth.Session, error) {
	p.mu.Lock()
	u, ok := p.byEmail[normalizeEmail(email)]
	if !ok || u.password != password {
		p.mu.Unlock()
		return auth.Session{}, auth.ErrInvalidCredentials
	}
	s := p.newSessionLocked(u)
	p.mu.Unlock()

	p.publish(auth.Event{Token: s.Token, Session: &s})
	return s, nil
}

func (p *Provider) SignUp(ctx context.Context, email, password string) (auth.Session, error) {
	p.mu.Lock()
	key := normalizeEmail(email)
	if _, exists := p.byEmail[key]; exists {
		p.mu.Unlock()
		return auth.Session{}, auth.ErrEmailTaken
	}

	u := userRecord{
		id:       uuid.NewString(),
		email:    strings.TrimSpace(email),
		password: password,
	}
	p.byEmail[key] = u
	s := p.newSessionLocked(u)
	p.mu.Unlock()

	p.publish(auth.Event{Token: s.Token, Session: &s})
	return s, nil
}

// SignOut es idempotente: un token desconocido no es error.
func (p *Provider) SignOut(ctx context.Context, token string) error {
	p.mu.Lock()
	_, existed := p.sessions[token]
	delete(p.sessions, token)
	p.mu.Unlock()

	if existed {
		p.publish(auth.Event{Token: token, Session: nil})
	}
	return nil
}

func (p *Provider) GetSession(ctx context.Context, token string) (auth.Session, error) {
	p.mu.Lock()
	s, ok := p.sessions[token]
	expired := ok && p.now().After(s.ExpiresAt)
	if expired {
		delete(p.sessions, token)
	}
	p.mu.Unlock()

	if !ok {
		return auth.Session{}, auth.ErrNoSession
	}
	if expired {
		p.publish(auth.Event{Token: token, Session: nil})
		return auth.Session{}, auth.ErrNoSession
	}
	return s, nil
}

func (p *Provider) SessionChanges(fn func(auth.Event)) func() {
	p.mu.Lock()
	defer p.mu.Unlock()

	id := p.nextSub
	p.nextSub++
	p.subs[id] = fn

	return func() {
		p.mu.Lock()
		defer p.mu.Unlock()
		delete(p.subs, id)
	}
}

func (p *Provider) IsAdmin(ctx context.Context, userID string) (bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.admins[userID], nil
}

func (p *Provider) newSessionLocked(u userRecord) auth.Session {
	s := auth.Session{
		Token:     uuid.NewString(),
		UserID:    u.id,
		Email:     u.email,
		ExpiresAt: p.now().Add(sessionTTL),
	}
	p.sessions[s.Token] = s
	return s
}

// publish notifica fuera del lock para no bloquear a los suscriptores.
func (p *Provider) publish(ev auth.Event) {
	p.mu.Lock()
	fns := make([]func(auth.Event), 0, len(p.subs))
	for _, fn := range p.subs {
		fns = append(fns, fn)
	}
	p.mu.Unlock()

	for _, fn := range fns {
		fn(ev)
	}
}

func normalizeEmail(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
