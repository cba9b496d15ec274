package cloudauth

import (
	"context"
	"sync"

	"dogfarm/internal/ports/auth"
)

// Provider implementa auth.Provider contra el servicio de identidad hosted.
//
// El upstream no pushea cambios de sesión hacia este proceso, así que los
// eventos se emiten localmente para los sign-in/sign-out que pasan por acá.
// Alcanza para invalidar contextos de sesión propios; sesiones revocadas
// desde afuera se detectan recién al fallar GetSession.
type Provider struct {
	client *Client

	mu      sync.Mutex
	subs    map[int]func(auth.Event)
	nextSub int
}

func NewProvider(client *Client) *Provider {
	return &Provider{
		client: client,
		subs:   make(map[int]func(auth.Event)),
	}
}

func (p *Provider) SignIn(ctx context.Context, email, password string) (auth.Session, error) {
	s, err := p.client.SignIn(ctx, email, password)
	if err != nil {
		return auth.Session{}, err
	}
	p.publish(auth.Event{Token: s.Token, Session: &s})
	return s, nil
}

func (p *Provider) SignUp(ctx context.Context, email, password string) (auth.Session, error) {
	s, err := p.client.SignUp(ctx, email, password)
	if err != nil {
		return auth.Session{}, err
	}
	p.publish(auth.Event{Token: s.Token, Session: &s})
	return s, nil
}

func (p *Provider) SignOut(ctx context.Context, token string) error {
	if err := p.client.SignOut(ctx, token); err != nil {
		return err
	}
	p.publish(auth.Event{Token: token, Session: nil})
	return nil
}

func (p *Provider) GetSession(ctx context.Context, token string) (auth.Session, error) {
	return p.client.GetSession(ctx, token)
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
	return p.client.IsAdmin(ctx, userID)
}

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
