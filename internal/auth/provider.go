// package auth implements the client side of the identity boundary:
// the identity provider, the session store, and the authenticated
// request wrapper used by every service that talks to the tracker API.
package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/duskfall/gamedex/internal/shared"
	"golang.org/x/oauth2"
)

// Identity is an opaque handle for a signed-in user.
type Identity interface {
	// Email returns the account email the identity was issued for.
	Email() string

	// Credential returns a fresh short-lived bearer token, minting a new
	// one through the provider when the held token has expired.
	Credential(ctx context.Context) (string, error)
}

// Provider defines the identity provider boundary.
//
// Implementations notify subscribers whenever the signed-in identity
// changes; a new subscriber immediately receives the current state.
type Provider interface {
	// SignIn exchanges email/password for a signed-in identity.
	SignIn(ctx context.Context, email, password string) (Identity, error)

	// SignUp registers a new account and signs it in.
	SignUp(ctx context.Context, email, password string) (Identity, error)

	// SignOut clears the current identity and notifies subscribers.
	SignOut(ctx context.Context) error

	// OnChange registers a listener for identity changes. The listener is
	// invoked immediately with the current identity (nil when signed out)
	// and again after every change. Returns an unsubscribe func.
	OnChange(fn func(Identity)) (unsubscribe func())
}

// restIdentity implements [Identity] for [RESTProvider] sessions.
type restIdentity struct {
	uid      string
	email    string
	provider *RESTProvider
	token    *oauth2.Token
}

func (i *restIdentity) Email() string { return i.email }

func (i *restIdentity) Credential(ctx context.Context) (string, error) {
	if i.provider == nil {
		return "", shared.ErrNotAuthenticated
	}
	return i.provider.credential(ctx, i)
}

// persistedSession is the on-disk session layout.
type persistedSession struct {
	UID          string    `json:"uid"`
	Email        string    `json:"email"`
	IDToken      string    `json:"id_token"`
	RefreshToken string    `json:"refresh_token"`
	Expiry       time.Time `json:"expiry"`
}

// RESTProvider implements [Provider] against a Firebase-style identity
// toolkit REST API. The signed-in session persists to a JSON file so
// subsequent CLI invocations restore it without re-prompting.
type RESTProvider struct {
	baseURL     string
	apiKey      string
	tokenURL    string
	sessionFile string
	httpClient  *http.Client

	mu       sync.Mutex
	identity *restIdentity
	subs     map[int]func(Identity)
	nextSub  int

	// dispatchMu serializes change notifications so one is fully
	// processed before the next is delivered.
	dispatchMu sync.Mutex
}

// NewRESTProvider creates a provider for the identity toolkit endpoints in cfg.
func NewRESTProvider(cfg shared.IdentityConfig, client *http.Client) *RESTProvider {
	if client == nil {
		client = http.DefaultClient
	}

	return &RESTProvider{
		baseURL:     cfg.BaseURL,
		apiKey:      cfg.APIKey,
		tokenURL:    cfg.TokenURL,
		sessionFile: shared.ExpandHome(cfg.SessionFile),
		httpClient:  client,
		subs:        map[int]func(Identity){},
	}
}

// Configured reports whether the provider has the endpoints and key it needs.
func (p *RESTProvider) Configured() bool {
	return p.baseURL != "" && p.apiKey != ""
}

// Start restores a persisted session, if any, and notifies subscribers.
//
// Restore failures resolve to signed-out; the caller never sees an error
// because anonymous browsing of public views must stay possible.
func (p *RESTProvider) Start() {
	identity := p.restore()

	p.mu.Lock()
	p.identity = identity
	p.mu.Unlock()

	p.notify()
}

func (p *RESTProvider) restore() *restIdentity {
	if p.sessionFile == "" {
		return nil
	}

	data, err := os.ReadFile(p.sessionFile)
	if err != nil {
		return nil
	}

	var sess persistedSession
	if err := json.Unmarshal(data, &sess); err != nil || sess.RefreshToken == "" {
		return nil
	}

	return &restIdentity{
		uid:      sess.UID,
		email:    sess.Email,
		provider: p,
		token: &oauth2.Token{
			AccessToken:  sess.IDToken,
			RefreshToken: sess.RefreshToken,
			Expiry:       sess.Expiry,
			TokenType:    "Bearer",
		},
	}
}

// accountsResponse is the identity toolkit response for sign-in and sign-up.
type accountsResponse struct {
	LocalID      string `json:"localId"`
	Email        string `json:"email"`
	IDToken      string `json:"idToken"`
	RefreshToken string `json:"refreshToken"`
	ExpiresIn    string `json:"expiresIn"`
	Error        *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// SignIn exchanges email/password for an identity via accounts:signInWithPassword.
func (p *RESTProvider) SignIn(ctx context.Context, email, password string) (Identity, error) {
	return p.account(ctx, "accounts:signInWithPassword", email, password)
}

// SignUp registers a new account via accounts:signUp and signs it in.
func (p *RESTProvider) SignUp(ctx context.Context, email, password string) (Identity, error) {
	return p.account(ctx, "accounts:signUp", email, password)
}

func (p *RESTProvider) account(ctx context.Context, endpoint, email, password string) (Identity, error) {
	if !p.Configured() {
		return nil, fmt.Errorf("%w: identity provider not configured", shared.ErrMissingConfig)
	}

	payload, err := json.Marshal(map[string]any{
		"email":             email,
		"password":          password,
		"returnSecureToken": true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	endpointURL := fmt.Sprintf("%s/%s?key=%s", p.baseURL, endpoint, url.QueryEscape(p.apiKey))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpointURL, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	var acct accountsResponse
	if err := json.Unmarshal(body, &acct); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg := ""
		if acct.Error != nil {
			msg = acct.Error.Message
		}
		return nil, mapAccountError(msg, resp.StatusCode)
	}

	identity := &restIdentity{
		uid:      acct.LocalID,
		email:    acct.Email,
		provider: p,
		token: &oauth2.Token{
			AccessToken:  acct.IDToken,
			RefreshToken: acct.RefreshToken,
			Expiry:       expiryFrom(acct.ExpiresIn),
			TokenType:    "Bearer",
		},
	}

	p.mu.Lock()
	p.identity = identity
	p.persistLocked()
	p.mu.Unlock()

	p.notify()

	return identity, nil
}

// mapAccountError converts identity toolkit error codes into sentinel errors.
func mapAccountError(code string, status int) error {
	switch {
	case code == "EMAIL_NOT_FOUND" || code == "INVALID_PASSWORD" || code == "INVALID_LOGIN_CREDENTIALS" || code == "USER_DISABLED":
		return shared.ErrInvalidCredentials
	case code == "EMAIL_EXISTS":
		return shared.ErrEmailInUse
	case strings.HasPrefix(code, "WEAK_PASSWORD"):
		return shared.ErrWeakPassword
	case code == "":
		return fmt.Errorf("%w: status %d", shared.ErrAuthFailed, status)
	}
	return fmt.Errorf("%w: %s", shared.ErrAuthFailed, code)
}

func expiryFrom(expiresIn string) time.Time {
	secs, err := strconv.Atoi(expiresIn)
	if err != nil || secs <= 0 {
		secs = 3600
	}
	return time.Now().Add(time.Duration(secs) * time.Second)
}

// SignOut clears the current identity, removes the persisted session, and
// notifies subscribers with a nil identity.
func (p *RESTProvider) SignOut(ctx context.Context) error {
	p.mu.Lock()
	p.identity = nil
	if p.sessionFile != "" {
		os.Remove(p.sessionFile)
	}
	p.mu.Unlock()

	p.notify()

	return nil
}

// OnChange registers fn for identity change notifications.
//
// fn is invoked synchronously with the current identity before OnChange
// returns, mirroring the provider's auth-state-changed contract.
func (p *RESTProvider) OnChange(fn func(Identity)) func() {
	p.mu.Lock()
	id := p.nextSub
	p.nextSub++
	p.subs[id] = fn
	identity := p.identity
	p.mu.Unlock()

	p.dispatchMu.Lock()
	fn(asIdentity(identity))
	p.dispatchMu.Unlock()

	return func() {
		p.mu.Lock()
		delete(p.subs, id)
		p.mu.Unlock()
	}
}

// asIdentity keeps a nil *restIdentity from becoming a non-nil interface.
func asIdentity(i *restIdentity) Identity {
	if i == nil {
		return nil
	}
	return i
}

// notify delivers the current identity to every subscriber. Dispatch runs
// outside the state lock so a subscriber may call back into the provider.
func (p *RESTProvider) notify() {
	p.mu.Lock()
	identity := p.identity
	subs := make([]func(Identity), 0, len(p.subs))
	for _, fn := range p.subs {
		subs = append(subs, fn)
	}
	p.mu.Unlock()

	p.dispatchMu.Lock()
	defer p.dispatchMu.Unlock()
	for _, fn := range subs {
		fn(asIdentity(identity))
	}
}

// tokenResponse is the secure-token endpoint response.
type tokenResponse struct {
	IDToken      string `json:"id_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    string `json:"expires_in"`
	UserID       string `json:"user_id"`
}

// credential returns the identity's bearer token, refreshing it through the
// secure-token endpoint when expired.
func (p *RESTProvider) credential(ctx context.Context, identity *restIdentity) (string, error) {
	p.mu.Lock()
	token := identity.token
	p.mu.Unlock()

	if token == nil {
		return "", shared.ErrNotAuthenticated
	}
	if token.Valid() {
		return token.AccessToken, nil
	}
	if token.RefreshToken == "" {
		return "", shared.ErrNoRefreshToken
	}

	form := url.Values{}
	form.Set("grant_type", "refresh_token")
	form.Set("refresh_token", token.RefreshToken)

	endpointURL := fmt.Sprintf("%s?key=%s", p.tokenURL, url.QueryEscape(p.apiKey))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpointURL, bytes.NewBufferString(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", shared.ErrRefreshFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("%w: status %d, body: %s", shared.ErrRefreshFailed, resp.StatusCode, string(body))
	}

	var tr tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&tr); err != nil {
		return "", fmt.Errorf("failed to decode token response: %w", err)
	}

	fresh := &oauth2.Token{
		AccessToken:  tr.IDToken,
		RefreshToken: tr.RefreshToken,
		Expiry:       expiryFrom(tr.ExpiresIn),
		TokenType:    "Bearer",
	}
	if fresh.RefreshToken == "" {
		fresh.RefreshToken = token.RefreshToken
	}

	p.mu.Lock()
	identity.token = fresh
	if p.identity == identity {
		p.persistLocked()
	}
	p.mu.Unlock()

	return fresh.AccessToken, nil
}

// persistLocked writes the current session to disk. Caller holds p.mu.
func (p *RESTProvider) persistLocked() {
	if p.sessionFile == "" || p.identity == nil || p.identity.token == nil {
		return
	}

	sess := persistedSession{
		UID:          p.identity.uid,
		Email:        p.identity.email,
		IDToken:      p.identity.token.AccessToken,
		RefreshToken: p.identity.token.RefreshToken,
		Expiry:       p.identity.token.Expiry,
	}

	data, err := json.MarshalIndent(sess, "", "  ")
	if err != nil {
		return
	}

	if err := os.MkdirAll(filepath.Dir(p.sessionFile), 0755); err != nil {
		return
	}
	os.WriteFile(p.sessionFile, data, 0600)
}
