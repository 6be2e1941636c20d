package chathub

import "time"

// RoomState is the lifecycle state of a pairing.
type RoomState int

const (
	// RoomActive means both members are connected.
	RoomActive RoomState = iota
	// RoomDegraded means one member disconnected and a grace timer is
	// running; the room survives until it fires or the member returns.
	RoomDegraded
	// RoomClosed is terminal. A closed room is removed from the room table
	// immediately; the constant exists so in-flight references can detect
	// the transition.
	RoomClosed
)

func (s RoomState) String() string {
	switch s {
	case RoomActive:
		return "active"
	case RoomDegraded:
		return "degraded"
	case RoomClosed:
		return "closed"
	}
	return "unknown"
}

// Room is one active pairing: exactly two distinct member identities and a
// lifecycle state. A room never holds the same identity twice.
type Room struct {
	ID        string
	Members   [2]string
	State     RoomState
	CreatedAt time.Time
}

// Has reports whether the identity is a member of the room.
func (r *Room) Has(userID string) bool {
	return r.Members[0] == userID || r.Members[1] == userID
}

// Other returns the peer of the given member, or "" for a non-member.
func (r *Room) Other(userID string) string {
	switch userID {
	case r.Members[0]:
		return r.Members[1]
	case r.Members[1]:
		return r.Members[0]
	}
	return ""
}
