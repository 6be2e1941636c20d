package chathub

import "pairgo/backend/internal/models"

// Client is the interface for any type of connection handle. It abstracts
// the underlying transport, allowing the hub to manage different client
// types uniformly (the production implementation is WebSocketClient; tests
// use an in-memory double).
//
// A Client is a connection handle, not an identity: the same user id may be
// served by many Client values over time, but the hub considers at most one
// of them current. A superseded handle is closed and must never reach hub
// state again.
type Client interface {
	// GetUserID returns the stable identity this connection authenticated as.
	GetUserID() string

	// GetSendChannel returns the channel the hub writes outbound events to.
	GetSendChannel() chan<- models.ServerEvent

	// Run starts the client's read and write pumps.
	Run()

	// Close shuts the client down and releases its send channel. It is safe
	// to call more than once.
	Close()
}
