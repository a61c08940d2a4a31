// Package hosted implements the identity provider contract against a hosted
// authentication service speaking the GoTrue/PostgREST REST dialect.
package hosted

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sirtec-dev/portal-backend/internal/provider"
)

type Provider struct {
	provider.Broadcaster

	baseURL    string
	apiKey     string
	httpClient *http.Client
}

func init() {
	provider.RegisterProvider(provider.ProviderHosted, func(cfg provider.Config) (provider.IdentityProvider, error) {
		return NewClient(cfg.HostedURL, cfg.HostedKey), nil
	})
}

// NewClient creates a client for the hosted auth service.
func NewClient(baseURL, apiKey string) *Provider {
	return &Provider{
		baseURL: baseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

func (p *Provider) Name() string { return "hosted" }

// emit logs the transition and fans it out to subscribers.
func (p *Provider) emit(ev provider.Event) {
	provider.LogEvent(p.Name(), ev)
	p.Emit(ev)
}

func (p *Provider) HealthCheck(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, "GET", p.baseURL+"/auth/v1/health", nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("apikey", p.apiKey)

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("health check request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("health check failed: status %d", resp.StatusCode)
	}
	return nil
}

func (p *Provider) CurrentSession(ctx context.Context, token string) (*provider.Session, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", p.baseURL+"/auth/v1/user", nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	p.setHeaders(req, token)

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("current session request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		// The hosted service revoked or expired the token; push the
		// transition like any other sign-out.
		p.emit(provider.Event{Type: provider.EventSignedOut, Token: token})
		return nil, nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, readAPIError(resp)
	}

	var user hostedUser
	if err := json.NewDecoder(resp.Body).Decode(&user); err != nil {
		return nil, fmt.Errorf("decode user: %w", err)
	}

	return &provider.Session{Token: token, UserID: user.ID}, nil
}

func (p *Provider) SignInWithPassword(ctx context.Context, email, password string) (*provider.Session, error) {
	body, _ := json.Marshal(map[string]string{"email": email, "password": password})

	req, err := http.NewRequestWithContext(ctx, "POST",
		p.baseURL+"/auth/v1/token?grant_type=password", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	p.setHeaders(req, "")

	provider.LogRequest(p.Name(), "sign-in", email)
	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("sign-in request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, readAPIError(resp)
	}

	var tok tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&tok); err != nil {
		return nil, fmt.Errorf("decode token: %w", err)
	}

	session := &provider.Session{
		Token:     tok.AccessToken,
		UserID:    tok.User.ID,
		ExpiresAt: time.Now().Add(time.Duration(tok.ExpiresIn) * time.Second),
	}
	p.emit(provider.Event{Type: provider.EventSignedIn, Token: session.Token, UserID: session.UserID, ExpiresAt: session.ExpiresAt})
	return session, nil
}

func (p *Provider) SignUp(ctx context.Context, email, password string, meta provider.ProfileMeta) (*provider.User, error) {
	payload := signUpRequest{
		Email:    email,
		Password: password,
		Data: map[string]interface{}{
			"name":         meta.Name,
			"birth_date":   meta.BirthDate,
			"registration": meta.Registration,
			"position":     meta.Position,
			"unit":         meta.Unit,
		},
	}
	body, _ := json.Marshal(payload)

	req, err := http.NewRequestWithContext(ctx, "POST", p.baseURL+"/auth/v1/signup", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	p.setHeaders(req, "")

	provider.LogRequest(p.Name(), "sign-up", email)
	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("sign-up request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		apiErr := readAPIError(resp)
		if apiErr.Error() == provider.ErrAlreadyRegistered.Error() {
			return nil, provider.ErrAlreadyRegistered
		}
		return nil, apiErr
	}

	var user hostedUser
	if err := json.NewDecoder(resp.Body).Decode(&user); err != nil {
		return nil, fmt.Errorf("decode user: %w", err)
	}

	return &provider.User{
		ID:        user.ID,
		Email:     user.Email,
		Confirmed: user.ConfirmedAt != "",
	}, nil
}

func (p *Provider) SignOut(ctx context.Context, token string) error {
	req, err := http.NewRequestWithContext(ctx, "POST", p.baseURL+"/auth/v1/logout", nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	p.setHeaders(req, token)

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("sign-out request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNoContent && resp.StatusCode != http.StatusOK {
		return readAPIError(resp)
	}

	p.emit(provider.Event{Type: provider.EventSignedOut, Token: token})
	return nil
}

func (p *Provider) FetchProfile(ctx context.Context, userID string) (*provider.Profile, error) {
	url := fmt.Sprintf("%s/rest/v1/profiles?id=eq.%s&select=*", p.baseURL, userID)
	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	p.setHeaders(req, p.apiKey)
	// Exactly one row expected; the data API enforces it with this media type.
	req.Header.Set("Accept", "application/vnd.pgrst.object+json")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("profile request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound || resp.StatusCode == http.StatusNotAcceptable {
		return nil, provider.ErrProfileNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return nil, readAPIError(resp)
	}

	var profile provider.Profile
	if err := json.NewDecoder(resp.Body).Decode(&profile); err != nil {
		return nil, fmt.Errorf("decode profile: %w", err)
	}
	return &profile, nil
}

func (p *Provider) ConfirmSignUp(ctx context.Context, token string) error {
	// The hosted service confirms accounts through its own emailed link.
	return provider.ErrConfirmUnsupported
}

func (p *Provider) setHeaders(req *http.Request, bearer string) {
	req.Header.Set("apikey", p.apiKey)
	req.Header.Set("Content-Type", "application/json")
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
}

// readAPIError turns an error response into an error whose text is shown to
// the user verbatim.
func readAPIError(resp *http.Response) error {
	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<16))
	if err != nil {
		return fmt.Errorf("request failed: status %d", resp.StatusCode)
	}

	var body apiError
	if err := json.Unmarshal(raw, &body); err == nil && body.text() != "" {
		return errors.New(body.text())
	}
	return fmt.Errorf("request failed: status %d", resp.StatusCode)
}
