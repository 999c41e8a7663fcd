package calendar

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	gcalendar "google.golang.org/api/calendar/v3"
)

// Scopes requested by every credential variant.
var Scopes = []string{gcalendar.CalendarScope}

// CredentialProvider yields the token source used by the calendar client.
// A provider is selected once at startup.
type CredentialProvider interface {
	Name() string
	TokenSource(ctx context.Context) (oauth2.TokenSource, error)
}

// ServiceAccountProvider authenticates with a service-account JSON key.
type ServiceAccountProvider struct {
	KeyJSON []byte
	// Subject is the user to impersonate with domain-wide delegation.
	Subject string
	// EmailHint, when set, must be contained in the key's client_email.
	EmailHint string
}

func (p *ServiceAccountProvider) Name() string { return "service_account" }

func (p *ServiceAccountProvider) TokenSource(ctx context.Context) (oauth2.TokenSource, error) {
	if len(p.KeyJSON) == 0 {
		return nil, &AuthError{Source: p.Name(), Err: errors.New("empty service account key")}
	}
	var key struct {
		Type        string `json:"type"`
		ClientEmail string `json:"client_email"`
	}
	if err := json.Unmarshal(p.KeyJSON, &key); err != nil {
		return nil, &AuthError{Source: p.Name(), Err: fmt.Errorf("decode key: %w", err)}
	}
	if key.Type != "service_account" {
		return nil, &AuthError{Source: p.Name(), Err: fmt.Errorf("key type %q is not service_account", key.Type)}
	}
	if p.EmailHint != "" && !strings.Contains(key.ClientEmail, p.EmailHint) {
		return nil, &AuthError{Source: p.Name(), Err: fmt.Errorf("unexpected service account %q", key.ClientEmail)}
	}

	cfg, err := google.JWTConfigFromJSON(p.KeyJSON, Scopes...)
	if err != nil {
		return nil, &AuthError{Source: p.Name(), Err: err}
	}
	cfg.Subject = p.Subject
	return cfg.TokenSource(ctx), nil
}

// OAuthRefreshableProvider mints access tokens from a long-lived refresh token.
type OAuthRefreshableProvider struct {
	ClientID     string
	ClientSecret string
	RefreshToken string
	Endpoint     oauth2.Endpoint
	MaxAttempts  int
	Backoff      time.Duration
}

func (p *OAuthRefreshableProvider) Name() string { return "oauth" }

func (p *OAuthRefreshableProvider) config() *oauth2.Config {
	endpoint := p.Endpoint
	if endpoint.TokenURL == "" {
		endpoint = google.Endpoint
	}
	return &oauth2.Config{
		ClientID:     p.ClientID,
		ClientSecret: p.ClientSecret,
		Endpoint:     endpoint,
		Scopes:       Scopes,
	}
}

// TokenSource refreshes once up front so a revoked refresh token fails at
// startup rather than on the first booking.
func (p *OAuthRefreshableProvider) TokenSource(ctx context.Context) (oauth2.TokenSource, error) {
	if p.ClientID == "" || p.RefreshToken == "" {
		return nil, &AuthError{Source: p.Name(), Err: errors.New("client id and refresh token are required")}
	}
	ts := p.config().TokenSource(ctx, &oauth2.Token{RefreshToken: p.RefreshToken})
	tok, err := refreshWithRetry(ctx, ts, p.MaxAttempts, p.Backoff)
	if err != nil {
		return nil, &AuthError{Source: p.Name(), Err: err}
	}
	return oauth2.ReuseTokenSource(tok, ts), nil
}

func refreshWithRetry(ctx context.Context, ts oauth2.TokenSource, attempts int, backoff time.Duration) (*oauth2.Token, error) {
	if attempts <= 0 {
		attempts = 3
	}
	if backoff <= 0 {
		backoff = time.Second
	}
	var lastErr error
	for i := 0; i < attempts; i++ {
		tok, err := ts.Token()
		if err == nil {
			return tok, nil
		}
		lastErr = err
		if i == attempts-1 {
			break
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(backoff << uint(i)):
		}
	}
	return nil, fmt.Errorf("refresh failed after %d attempts: %w", attempts, lastErr)
}

// StaticFileProvider uses a token stored on disk by an earlier consent flow.
// Refreshed tokens are written back to the same file.
type StaticFileProvider struct {
	Path string
	// ClientSecretsJSON is an OAuth client file ("installed" or "web"). When
	// empty, ClientID and ClientSecret are used.
	ClientSecretsJSON []byte
	ClientID          string
	ClientSecret      string
	Cipher            TokenCipher
	Logger            *zap.Logger
}

func (p *StaticFileProvider) Name() string { return "token_file" }

func (p *StaticFileProvider) config() (*oauth2.Config, error) {
	if len(p.ClientSecretsJSON) > 0 {
		return google.ConfigFromJSON(p.ClientSecretsJSON, Scopes...)
	}
	return &oauth2.Config{
		ClientID:     p.ClientID,
		ClientSecret: p.ClientSecret,
		Endpoint:     google.Endpoint,
		Scopes:       Scopes,
	}, nil
}

func (p *StaticFileProvider) TokenSource(ctx context.Context) (oauth2.TokenSource, error) {
	tok, err := ReadTokenFile(p.Path, p.Cipher)
	if err != nil {
		return nil, &AuthError{Source: p.Name(), Err: err}
	}
	if tok.RefreshToken == "" {
		if !tok.Valid() {
			return nil, &AuthError{Source: p.Name(), Err: errors.New("stored token expired and has no refresh token")}
		}
		return oauth2.StaticTokenSource(tok), nil
	}

	cfg, err := p.config()
	if err != nil {
		return nil, &AuthError{Source: p.Name(), Err: err}
	}
	logger := p.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	persisting := &persistingTokenSource{
		base:   cfg.TokenSource(ctx, tok),
		path:   p.Path,
		cipher: p.Cipher,
		last:   tok.AccessToken,
		onErr: func(err error) {
			logger.Warn("StaticFileProvider: failed to persist refreshed token", zap.Error(err))
		},
	}
	return oauth2.ReuseTokenSource(nil, persisting), nil
}

// CredentialOptions mirrors the credential settings of config.Config.
type CredentialOptions struct {
	Source            string // auto, service_account, oauth, token_file
	CredentialsBase64 string
	CredentialsFile   string
	EmailHint         string
	Impersonate       string
	ClientID          string
	ClientSecret      string
	RefreshToken      string
	TokenFile         string
	Cipher            TokenCipher
	Logger            *zap.Logger
}

// NewCredentialProvider picks the provider variant. In auto mode the order is
// service-account key (env, then file), refresh token, stored token file.
func NewCredentialProvider(opts CredentialOptions) (CredentialProvider, error) {
	keyJSON, err := loadCredentialsJSON(opts)
	if err != nil {
		return nil, &AuthError{Source: "credentials", Err: err}
	}
	keyType := credentialsType(keyJSON)

	serviceAccount := func() CredentialProvider {
		return &ServiceAccountProvider{KeyJSON: keyJSON, Subject: opts.Impersonate, EmailHint: opts.EmailHint}
	}
	refreshable := func() CredentialProvider {
		return &OAuthRefreshableProvider{ClientID: opts.ClientID, ClientSecret: opts.ClientSecret, RefreshToken: opts.RefreshToken}
	}
	tokenFile := func() CredentialProvider {
		p := &StaticFileProvider{
			Path:         opts.TokenFile,
			ClientID:     opts.ClientID,
			ClientSecret: opts.ClientSecret,
			Cipher:       opts.Cipher,
			Logger:       opts.Logger,
		}
		if keyType == "installed" || keyType == "web" {
			p.ClientSecretsJSON = keyJSON
		}
		return p
	}

	switch opts.Source {
	case "service_account":
		if keyType != "service_account" {
			return nil, &AuthError{Source: "service_account", Err: errors.New("no service account key configured")}
		}
		return serviceAccount(), nil
	case "oauth":
		return refreshable(), nil
	case "token_file":
		return tokenFile(), nil
	case "", "auto":
	default:
		return nil, &AuthError{Source: opts.Source, Err: errors.New("unknown credential source")}
	}

	switch {
	case keyType == "service_account":
		return serviceAccount(), nil
	case opts.RefreshToken != "" && opts.ClientID != "":
		return refreshable(), nil
	case opts.TokenFile != "" && fileExists(opts.TokenFile):
		return tokenFile(), nil
	}
	return nil, &AuthError{Source: "auto", Err: errors.New("no calendar credentials configured")}
}

func loadCredentialsJSON(opts CredentialOptions) ([]byte, error) {
	if opts.CredentialsBase64 != "" {
		data, err := base64.StdEncoding.DecodeString(strings.TrimSpace(opts.CredentialsBase64))
		if err != nil {
			return nil, fmt.Errorf("decode GOOGLE_CREDENTIALS: %w", err)
		}
		return data, nil
	}
	if opts.CredentialsFile != "" && fileExists(opts.CredentialsFile) {
		return os.ReadFile(opts.CredentialsFile)
	}
	return nil, nil
}

// credentialsType returns "service_account", "installed", "web" or "".
func credentialsType(data []byte) string {
	if len(data) == 0 {
		return ""
	}
	var probe struct {
		Type      string          `json:"type"`
		Installed json.RawMessage `json:"installed"`
		Web       json.RawMessage `json:"web"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return ""
	}
	switch {
	case probe.Type != "":
		return probe.Type
	case len(probe.Installed) > 0:
		return "installed"
	case len(probe.Web) > 0:
		return "web"
	}
	return ""
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
