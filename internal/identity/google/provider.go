// Package google implements the identity provider backed by Google OAuth 2.0.
package google

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/rs/zerolog"
	"golang.org/x/oauth2"
	googleoauth "golang.org/x/oauth2/google"

	"github.com/adanyl0v/go-planner/internal/models"
)

const defaultUserInfoURL = "https://www.googleapis.com/oauth2/v3/userinfo"

var (
	ErrEmptyCode    = errors.New("empty authorization code")
	ErrEmptySubject = errors.New("userinfo has no subject")
)

type Config struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
}

type Provider struct {
	logger      zerolog.Logger
	oauth       *oauth2.Config
	userInfoURL string
}

type Option func(p *Provider)

// WithEndpoint overrides the OAuth endpoints and the userinfo URL.
func WithEndpoint(endpoint oauth2.Endpoint, userInfoURL string) Option {
	return func(p *Provider) {
		p.oauth.Endpoint = endpoint
		p.userInfoURL = userInfoURL
	}
}

func New(logger zerolog.Logger, cfg Config, opts ...Option) *Provider {
	p := &Provider{
		logger: logger,
		oauth: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Scopes:       []string{"openid", "profile", "email"},
			Endpoint:     googleoauth.Endpoint,
		},
		userInfoURL: defaultUserInfoURL,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *Provider) AuthCodeURL(state string) string {
	return p.oauth.AuthCodeURL(state, oauth2.AccessTypeOnline)
}

type userInfo struct {
	Subject string `json:"sub"`
	Email   string `json:"email"`
	Name    string `json:"name"`
	Picture string `json:"picture"`
}

func (p *Provider) Exchange(ctx context.Context, code string) (*models.Profile, error) {
	if code == "" {
		return nil, ErrEmptyCode
	}

	token, err := p.oauth.Exchange(ctx, code)
	if err != nil {
		p.logger.Error().
			Err(err).
			Msg("failed to exchange code for token")
		return nil, fmt.Errorf("failed to exchange code: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.userInfoURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build userinfo request: %w", err)
	}

	resp, err := p.oauth.Client(ctx, token).Do(req)
	if err != nil {
		p.logger.Error().
			Err(err).
			Msg("failed to fetch userinfo")
		return nil, fmt.Errorf("failed to fetch userinfo: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		p.logger.Error().
			Int("status", resp.StatusCode).
			Str("body", string(body)).
			Msg("unexpected userinfo response")
		return nil, fmt.Errorf("userinfo returned status %d", resp.StatusCode)
	}

	var info userInfo
	err = json.NewDecoder(resp.Body).Decode(&info)
	if err != nil {
		return nil, fmt.Errorf("failed to decode userinfo: %w", err)
	}
	if info.Subject == "" {
		return nil, ErrEmptySubject
	}

	p.logger.Debug().
		Str("google_id", info.Subject).
		Msg("fetched userinfo")
	return &models.Profile{
		Subject: info.Subject,
		Email:   info.Email,
		Name:    info.Name,
		Picture: info.Picture,
	}, nil
}
