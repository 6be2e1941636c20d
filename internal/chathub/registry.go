package chathub

// Registry maps a stable identity to the single connection handle currently
// considered live for it. It is owned by the hub goroutine and therefore
// needs no locking; nothing outside the hub touches it.
type Registry struct {
	clients map[string]Client
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{clients: make(map[string]Client)}
}

// Bind makes c the current handle for its identity and returns the handle
// it superseded, if any. The caller must close the superseded handle so it
// can never mutate state again.
func (r *Registry) Bind(c Client) Client {
	userID := c.GetUserID()
	old := r.clients[userID]
	r.clients[userID] = c
	if old == c {
		return nil
	}
	return old
}

// Unbind removes the identity's entry, but only if c is still its current
// handle. It reports whether anything was removed; an Unbind for a
// superseded handle is a no-op.
func (r *Registry) Unbind(userID string, c Client) bool {
	if cur, ok := r.clients[userID]; !ok || cur != c {
		return false
	}
	delete(r.clients, userID)
	return true
}

// Get returns the current handle for an identity.
func (r *Registry) Get(userID string) (Client, bool) {
	c, ok := r.clients[userID]
	return c, ok
}

// IsLive reports whether the identity has a current connection handle.
func (r *Registry) IsLive(userID string) bool {
	_, ok := r.clients[userID]
	return ok
}

// Count returns the number of connected identities.
func (r *Registry) Count() int {
	return len(r.clients)
}
