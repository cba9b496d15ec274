package cloudauth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"dogfarm/internal/platform/httpclient"
	"dogfarm/internal/ports/auth"
)

var (
	ErrNotConfigured = errors.New("cloudauth client not configured")
	ErrUpstream      = errors.New("cloudauth upstream error")
)

// Config del cliente contra el servicio de identidad hosted.
// BaseURL y APIKey vienen de env en quien lo instancie.
type Config struct {
	BaseURL string
	APIKey  string

	// Header de la API key. Vacío => "X-Api-Key".
	APIKeyHeader string

	Timeout time.Duration
}

type Client struct {
	http         *httpclient.Client
	apiKey       string
	apiKeyHeader string
}

func NewClient(cfg Config) (*Client, error) {
	h := strings.TrimSpace(cfg.APIKeyHeader)
	if h == "" {
		h = "X-Api-Key"
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}

	hc, err := httpclient.NewWithBaseURL(strings.TrimSpace(cfg.BaseURL), timeout)
	if err != nil {
		return nil, err
	}

	return &Client{
		http:         hc,
		apiKey:       strings.TrimSpace(cfg.APIKey),
		apiKeyHeader: h,
	}, nil
}

func (c *Client) IsConfigured() bool {
	return c != nil && c.http != nil && c.http.BaseURL != "" && c.apiKey != ""
}

type sessionPayload struct {
	Token     string    `json:"token"`
	UserID    string    `json:"user_id"`
	Email     string    `json:"email"`
	ExpiresAt time.Time `json:"expires_at"`
}

func (c *Client) SignIn(ctx context.Context, email, password string) (auth.Session, error) {
	var out sessionPayload
	err := c.do(ctx, http.MethodPost, "/v1/auth/signin", "", map[string]string{
		"email":    email,
		"password": password,
	}, &out)
	if err != nil {
		if statusIs(err, http.StatusUnauthorized, http.StatusForbidden) {
			return auth.Session{}, auth.ErrInvalidCredentials
		}
		return auth.Session{}, err
	}
	return toSession(out)
}

func (c *Client) SignUp(ctx context.Context, email, password string) (auth.Session, error) {
	var out sessionPayload
	err := c.do(ctx, http.MethodPost, "/v1/auth/signup", "", map[string]string{
		"email":    email,
		"password": password,
	}, &out)
	if err != nil {
		if statusIs(err, http.StatusConflict) {
			return auth.Session{}, auth.ErrEmailTaken
		}
		return auth.Session{}, err
	}
	return toSession(out)
}

func (c *Client) SignOut(ctx context.Context, token string) error {
	err := c.do(ctx, http.MethodPost, "/v1/auth/signout", token, nil, nil)
	if err != nil && statusIs(err, http.StatusUnauthorized, http.StatusNotFound) {
		// token ya inválido en el upstream; sign-out es idempotente
		return nil
	}
	return err
}

func (c *Client) GetSession(ctx context.Context, token string) (auth.Session, error) {
	var out sessionPayload
	err := c.do(ctx, http.MethodGet, "/v1/auth/session", token, nil, &out)
	if err != nil {
		if statusIs(err, http.StatusUnauthorized, http.StatusForbidden, http.StatusNotFound) {
			return auth.Session{}, auth.ErrNoSession
		}
		return auth.Session{}, err
	}
	return toSession(out)
}

func (c *Client) IsAdmin(ctx context.Context, userID string) (bool, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return false, errors.New("userID required")
	}

	var out struct {
		IsAdmin bool `json:"is_admin"`
	}
	if err := c.do(ctx, http.MethodGet, "/v1/roles/"+userID, "", nil, &out); err != nil {
		if statusIs(err, http.StatusNotFound) {
			// sin fila en la tabla de roles => no admin, no error
			return false, nil
		}
		return false, err
	}
	return out.IsAdmin, nil
}

func (c *Client) do(ctx context.Context, method, path, bearer string, in, out any) error {
	if !c.IsConfigured() {
		return ErrNotConfigured
	}

	headers := map[string]string{c.apiKeyHeader: c.apiKey}
	if bearer != "" {
		headers["Authorization"] = "Bearer " + bearer
	}

	if err := c.http.DoJSON(ctx, method, path, headers, in, out); err != nil {
		var herr *httpclient.HTTPError
		if errors.As(err, &herr) {
			return err
		}
		return fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	return nil
}

func statusIs(err error, statuses ...int) bool {
	var herr *httpclient.HTTPError
	if !errors.As(err, &herr) {
		return false
	}
	for _, s := range statuses {
		if herr.StatusCode == s {
			return true
		}
	}
	return false
}

func toSession(p sessionPayload) (auth.Session, error) {
	if strings.TrimSpace(p.UserID) == "" || strings.TrimSpace(p.Token) == "" {
		return auth.Session{}, fmt.Errorf("%w: response missing token or user_id", ErrUpstream)
	}
	return auth.Session{
		Token:     p.Token,
		UserID:    p.UserID,
		Email:     strings.TrimSpace(p.Email),
		ExpiresAt: p.ExpiresAt,
	}, nil
}
