package chathub

// Session is the per-identity record. It is keyed by the stable identity,
// never by a connection handle: handles come and go across reconnects, the
// session persists until an idle timer retires it.
type Session struct {
	UserID string

	// RoomID is the room this identity is currently bound to, "" when none.
	RoomID string

	// Generation increments on every rebind or teardown. Scheduled timers
	// carry the generation current at schedule time and must no-op when it
	// no longer matches, which makes stale fires harmless without ever
	// having to reach a live timer handle to cancel it.
	Generation uint64
}

// NewSession creates a fresh session for the identity.
func NewSession(userID string) *Session {
	return &Session{UserID: userID}
}

// Bump invalidates every timer scheduled against the previous generation
// and returns the new one.
func (s *Session) Bump() uint64 {
	s.Generation++
	return s.Generation
}
