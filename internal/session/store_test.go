package session

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSession(t *testing.T, owner uuid.UUID) *Session {
	t.Helper()
	sess, err := New(owner, seqSettings(), makeBatch(3), 3)
	require.NoError(t, err)
	return sess
}

func TestStorePutAndGet(t *testing.T) {
	store := NewStore(time.Hour)
	owner := uuid.New()
	sess := newTestSession(t, owner)

	gen := store.Begin(owner)
	require.NoError(t, store.Put(owner, gen, sess))

	got, err := store.Get(sess.ID())
	require.NoError(t, err)
	assert.Same(t, sess, got)

	_, err = store.Get(uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStoreStalePutSuperseded(t *testing.T) {
	store := NewStore(time.Hour)
	owner := uuid.New()

	slowGen := store.Begin(owner)

	// A second initialization begins while the first is still fetching.
	fastGen := store.Begin(owner)
	fast := newTestSession(t, owner)
	require.NoError(t, store.Put(owner, fastGen, fast))

	slow := newTestSession(t, owner)
	err := store.Put(owner, slowGen, slow)
	assert.ErrorIs(t, err, ErrSuperseded)

	// The newer session is untouched.
	got, err := store.Get(fast.ID())
	require.NoError(t, err)
	assert.Same(t, fast, got)

	_, err = store.Get(slow.ID())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStoreReplacesOwnerSession(t *testing.T) {
	store := NewStore(time.Hour)
	owner := uuid.New()

	first := newTestSession(t, owner)
	require.NoError(t, store.Put(owner, store.Begin(owner), first))

	second := newTestSession(t, owner)
	require.NoError(t, store.Put(owner, store.Begin(owner), second))

	_, err := store.Get(first.ID())
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, 1, store.Len())
}

func TestStoreDelete(t *testing.T) {
	store := NewStore(time.Hour)
	owner := uuid.New()
	sess := newTestSession(t, owner)
	require.NoError(t, store.Put(owner, store.Begin(owner), sess))

	store.Delete(sess.ID())
	_, err := store.Get(sess.ID())
	assert.ErrorIs(t, err, ErrNotFound)

	// Deleting again is a no-op.
	store.Delete(sess.ID())
}

func TestStoreSweep(t *testing.T) {
	store := NewStore(time.Hour)
	owner := uuid.New()
	sess := newTestSession(t, owner)
	require.NoError(t, store.Put(owner, store.Begin(owner), sess))

	assert.Equal(t, 0, store.Sweep(time.Now()))
	assert.Equal(t, 1, store.Len())

	removed := store.Sweep(time.Now().Add(2 * time.Hour))
	assert.Equal(t, 1, removed)
	assert.Equal(t, 0, store.Len())
}
