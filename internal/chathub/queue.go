package chathub

// Queue holds identities waiting for a partner, in arrival order. Like the
// Registry it is owned by the hub goroutine; no locking.
//
// Entries can go stale between enqueue and dequeue (the user disconnected,
// or got a room through some other path). DequeueNextValid discards such
// entries lazily, so the occasional stale entry costs one skip rather than
// a scan on every disconnect.
type Queue struct {
	order   []string
	members map[string]struct{}
}

// NewQueue creates an empty queue.
func NewQueue() *Queue {
	return &Queue{members: make(map[string]struct{})}
}

// Enqueue appends the identity. It reports false, without modifying the
// queue, when the identity is already waiting.
func (q *Queue) Enqueue(userID string) bool {
	if _, ok := q.members[userID]; ok {
		return false
	}
	q.order = append(q.order, userID)
	q.members[userID] = struct{}{}
	return true
}

// Remove drops the identity from the queue, reporting whether it was there.
func (q *Queue) Remove(userID string) bool {
	if _, ok := q.members[userID]; !ok {
		return false
	}
	delete(q.members, userID)
	for i, id := range q.order {
		if id == userID {
			q.order = append(q.order[:i], q.order[i+1:]...)
			break
		}
	}
	return true
}

// Contains reports whether the identity is waiting.
func (q *Queue) Contains(userID string) bool {
	_, ok := q.members[userID]
	return ok
}

// Len returns the number of waiting identities.
func (q *Queue) Len() int {
	return len(q.order)
}

// DequeueNextValid pops entries from the front until one passes the valid
// check, discarding the ones that do not. Entries equal to caller are
// discarded too: nobody gets matched with themselves. Returns "" when the
// queue runs out of candidates.
func (q *Queue) DequeueNextValid(caller string, valid func(userID string) bool) string {
	for len(q.order) > 0 {
		userID := q.order[0]
		q.order = q.order[1:]
		delete(q.members, userID)

		if userID == caller {
			continue
		}
		if !valid(userID) {
			continue
		}
		return userID
	}
	return ""
}

// Prune removes every entry failing the valid check and returns how many
// were dropped. Used by the periodic reaper sweep.
func (q *Queue) Prune(valid func(userID string) bool) int {
	kept := q.order[:0]
	dropped := 0
	for _, userID := range q.order {
		if valid(userID) {
			kept = append(kept, userID)
			continue
		}
		delete(q.members, userID)
		dropped++
	}
	q.order = kept
	return dropped
}
