package auth

import (
	"net/http"
	"sync"
	"time"
)

// TokenTTL bounds how long a minted credential is reused. Deliberately
// shorter than the provider's own token lifetime so a revoked session
// stops being honored within this window.
const TokenTTL = 5 * time.Minute

// cachedToken is the process-wide credential cache entry.
type cachedToken struct {
	value     string
	expiresAt time.Time
}

// Client attaches a bearer credential to outgoing requests, reusing a
// cached credential while it is fresh. Requests without a signed-in
// identity proceed anonymously; public endpoints accept them.
//
// The wrapper never retries and never refreshes on a 401: refresh is
// purely time-driven, and authorization failures propagate to the caller.
type Client struct {
	session    *Session
	httpClient *http.Client
	ttl        time.Duration
	now        func() time.Time

	mu     sync.Mutex
	cached *cachedToken
}

// NewClient creates an authenticated request wrapper over the session.
//
// A nil httpClient falls back to [http.DefaultClient]. The cache drops
// whenever the session reports a signed-out state, so no credential
// outlives the identity that minted it.
func NewClient(session *Session, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	c := &Client{
		session:    session,
		httpClient: httpClient,
		ttl:        TokenTTL,
		now:        time.Now,
	}

	if session != nil {
		session.Watch(func(snap Snapshot) {
			if snap.Identity == nil {
				c.mu.Lock()
				c.cached = nil
				c.mu.Unlock()
			}
		})
	}

	return c
}

// Do issues the request with a bearer Authorization header when a
// credential is available, and returns the response unmodified.
//
// Credential fetch failures surface as the request's error; the request
// is not sent in that case.
func (c *Client) Do(req *http.Request) (*http.Response, error) {
	token, err := c.credential(req)
	if err != nil {
		return nil, err
	}

	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	return c.httpClient.Do(req)
}

// credential returns the cached token while fresh, minting a replacement
// from the signed-in identity otherwise. An anonymous session yields an
// empty token and no error.
//
// The lock is held across the mint, so concurrent expired-cache callers
// wait for a single fetch instead of each minting their own.
func (c *Client) credential(req *http.Request) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.cached != nil && c.now().Before(c.cached.expiresAt) {
		return c.cached.value, nil
	}

	if c.session == nil {
		return "", nil
	}

	snap := c.session.Read()
	if snap.Identity == nil {
		c.cached = nil
		return "", nil
	}

	value, err := snap.Identity.Credential(req.Context())
	if err != nil {
		return "", err
	}

	c.cached = &cachedToken{value: value, expiresAt: c.now().Add(c.ttl)}
	return value, nil
}
