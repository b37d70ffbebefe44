package auth

import (
	"sync"
)

// Snapshot is a consistent view of the session state.
//
// Resolved is false only during the initial window before the provider has
// reported at least once; it never reverts to false.
type Snapshot struct {
	Identity Identity
	Resolved bool
}

// SignedIn reports whether the snapshot carries an identity.
func (s Snapshot) SignedIn() bool {
	return s.Identity != nil
}

// Session is the single source of truth for "who is signed in".
//
// The only writer is the provider change callback registered through
// Subscribe; everything else reads snapshots or watches for changes.
type Session struct {
	mu       sync.Mutex
	identity Identity
	resolved bool
	watchers map[int]func(Snapshot)
	nextID   int
}

// NewSession creates an unresolved, signed-out session.
func NewSession() *Session {
	return &Session{watchers: map[int]func(Snapshot){}}
}

// Subscribe registers the session's single listener with the provider's
// change stream and returns an unsubscribe func for teardown.
//
// A nil provider resolves the session immediately to signed-out so
// consumers are never stuck waiting on a provider that will not answer.
func (s *Session) Subscribe(provider Provider) func() {
	if provider == nil {
		s.apply(nil)
		return func() {}
	}

	return provider.OnChange(s.apply)
}

// Read returns the current snapshot. Never blocks, never touches the network.
func (s *Session) Read() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Snapshot{Identity: s.identity, Resolved: s.resolved}
}

// Watch registers fn to receive every committed snapshot, starting with the
// current one. Returns an unsubscribe func.
func (s *Session) Watch(fn func(Snapshot)) func() {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.watchers[id] = fn
	snap := Snapshot{Identity: s.identity, Resolved: s.resolved}
	s.mu.Unlock()

	fn(snap)

	return func() {
		s.mu.Lock()
		delete(s.watchers, id)
		s.mu.Unlock()
	}
}

// apply commits a provider notification: the identity is replaced wholesale
// and resolved flips to true, exactly once, on the first notification.
func (s *Session) apply(identity Identity) {
	s.mu.Lock()
	s.identity = identity
	s.resolved = true
	snap := Snapshot{Identity: s.identity, Resolved: true}
	watchers := make([]func(Snapshot), 0, len(s.watchers))
	for _, fn := range s.watchers {
		watchers = append(watchers, fn)
	}
	s.mu.Unlock()

	for _, fn := range watchers {
		fn(snap)
	}
}
