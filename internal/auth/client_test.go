package auth

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

// signedInSession builds a resolved session holding the given identity.
func signedInSession(identity Identity) (*Session, *fakeProvider) {
	session := NewSession()
	provider := &fakeProvider{}
	session.Subscribe(provider)
	provider.emit(identity)
	return session, provider
}

func TestClient(t *testing.T) {
	t.Run("Attaches Bearer Header", func(t *testing.T) {
		var gotAuth string
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotAuth = r.Header.Get("Authorization")
			w.WriteHeader(http.StatusOK)
		}))
		defer server.Close()

		identity := &fakeIdentity{email: "user@example.com", token: "tok-1"}
		session, _ := signedInSession(identity)
		client := NewClient(session, nil)

		req, _ := http.NewRequest(http.MethodGet, server.URL, nil)
		resp, err := client.Do(req)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		resp.Body.Close()

		if gotAuth != "Bearer tok-1" {
			t.Errorf("expected 'Bearer tok-1' header, got %q", gotAuth)
		}
	})

	t.Run("Anonymous Request Has No Header", func(t *testing.T) {
		var gotAuth string
		var sawHeader bool
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotAuth = r.Header.Get("Authorization")
			_, sawHeader = r.Header["Authorization"]
			w.WriteHeader(http.StatusOK)
		}))
		defer server.Close()

		session, _ := signedInSession(nil)
		client := NewClient(session, nil)

		req, _ := http.NewRequest(http.MethodGet, server.URL, nil)
		resp, err := client.Do(req)
		if err != nil {
			t.Fatalf("expected anonymous request to proceed, got %v", err)
		}
		resp.Body.Close()

		if sawHeader || gotAuth != "" {
			t.Errorf("expected no Authorization header, got %q", gotAuth)
		}
	})

	t.Run("Token Cache", func(t *testing.T) {
		t.Run("Reuses Within TTL", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusOK)
			}))
			defer server.Close()

			identity := &fakeIdentity{email: "user@example.com", token: "tok-1"}
			session, _ := signedInSession(identity)
			client := NewClient(session, nil)

			now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
			client.now = func() time.Time { return now }

			for i := 0; i < 3; i++ {
				req, _ := http.NewRequest(http.MethodGet, server.URL, nil)
				resp, err := client.Do(req)
				if err != nil {
					t.Fatalf("request %d failed: %v", i, err)
				}
				resp.Body.Close()
				now = now.Add(time.Minute) // still inside the 5 minute TTL
			}

			if identity.Mints() != 1 {
				t.Errorf("expected exactly 1 credential mint inside TTL, got %d", identity.Mints())
			}
		})

		t.Run("Mints Once After Expiry", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusOK)
			}))
			defer server.Close()

			identity := &fakeIdentity{email: "user@example.com", token: "tok-1"}
			session, _ := signedInSession(identity)
			client := NewClient(session, nil)

			now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
			client.now = func() time.Time { return now }

			send := func() {
				t.Helper()
				req, _ := http.NewRequest(http.MethodGet, server.URL, nil)
				resp, err := client.Do(req)
				if err != nil {
					t.Fatalf("request failed: %v", err)
				}
				resp.Body.Close()
			}

			send() // T=0, mint
			now = now.Add(4*time.Minute + 59*time.Second)
			send() // T=4m59s, cached
			now = now.Add(2 * time.Second)
			send() // T=5m01s, expired, mint again

			if identity.Mints() != 2 {
				t.Errorf("expected 2 mints across the TTL boundary, got %d", identity.Mints())
			}
		})

		t.Run("Dropped On Sign Out", func(t *testing.T) {
			var gotAuth string
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				gotAuth = r.Header.Get("Authorization")
				w.WriteHeader(http.StatusOK)
			}))
			defer server.Close()

			identity := &fakeIdentity{email: "user@example.com", token: "tok-1"}
			session, provider := signedInSession(identity)
			client := NewClient(session, nil)

			req, _ := http.NewRequest(http.MethodGet, server.URL, nil)
			resp, err := client.Do(req)
			if err != nil {
				t.Fatalf("request failed: %v", err)
			}
			resp.Body.Close()

			provider.emit(nil)

			req, _ = http.NewRequest(http.MethodGet, server.URL, nil)
			resp, err = client.Do(req)
			if err != nil {
				t.Fatalf("request after sign-out failed: %v", err)
			}
			resp.Body.Close()

			if gotAuth != "" {
				t.Errorf("expected no header after sign-out, got %q", gotAuth)
			}
		})
	})

	t.Run("Credential Fetch Failure Surfaces", func(t *testing.T) {
		identity := &fakeIdentity{email: "user@example.com", err: errors.New("mint failed")}
		session, _ := signedInSession(identity)
		client := NewClient(session, nil)

		req, _ := http.NewRequest(http.MethodGet, "http://example.com", nil)
		_, err := client.Do(req)

		if err == nil {
			t.Fatal("expected credential fetch error to surface")
		}
	})

	t.Run("Response Passed Through Unmodified", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("X-Custom", "value")
			w.WriteHeader(http.StatusTeapot)
		}))
		defer server.Close()

		session, _ := signedInSession(nil)
		client := NewClient(session, nil)

		req, _ := http.NewRequest(http.MethodGet, server.URL, nil)
		resp, err := client.Do(req)
		if err != nil {
			t.Fatalf("expected non-2xx to pass through, got error %v", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusTeapot {
			t.Errorf("expected status 418 passed through, got %d", resp.StatusCode)
		}
		if resp.Header.Get("X-Custom") != "value" {
			t.Error("expected response headers passed through")
		}
	})

	t.Run("Nil Session Proceeds Anonymously", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		}))
		defer server.Close()

		client := NewClient(nil, nil)

		req, _ := http.NewRequest(http.MethodGet, server.URL, nil)
		resp, err := client.Do(req)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		resp.Body.Close()
	})
}
