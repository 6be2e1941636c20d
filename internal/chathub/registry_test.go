package chathub_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"pairgo/backend/internal/chathub"
)

func TestRegistryBindAndSupersede(t *testing.T) {
	r := chathub.NewRegistry()
	c1 := newMockClient("user_a")
	c2 := newMockClient("user_a")

	assert.Nil(t, r.Bind(c1))
	assert.True(t, r.IsLive("user_a"))

	old := r.Bind(c2)
	assert.Same(t, c1, old, "binding a new handle returns the superseded one")

	cur, ok := r.Get("user_a")
	assert.True(t, ok)
	assert.Same(t, c2, cur)
	assert.Equal(t, 1, r.Count())
}

func TestRegistryUnbindStaleHandleIsNoOp(t *testing.T) {
	r := chathub.NewRegistry()
	c1 := newMockClient("user_a")
	c2 := newMockClient("user_a")

	r.Bind(c1)
	r.Bind(c2)

	assert.False(t, r.Unbind("user_a", c1), "stale handle must not unbind the live one")
	assert.True(t, r.IsLive("user_a"))

	assert.True(t, r.Unbind("user_a", c2))
	assert.False(t, r.IsLive("user_a"))
	assert.Equal(t, 0, r.Count())
}

func TestRegistryRebindSameHandle(t *testing.T) {
	r := chathub.NewRegistry()
	c := newMockClient("user_a")

	r.Bind(c)
	assert.Nil(t, r.Bind(c), "rebinding the current handle supersedes nothing")
	assert.Equal(t, 1, r.Count())
}
