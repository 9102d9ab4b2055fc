package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stock_terrain/internal/feature/terrain/domain/camera"
)

func TestRegistry_CreateAndGet(t *testing.T) {
	t.Parallel()

	r := NewRegistry(flatBuilder(200), camera.Default(), 0)
	v, err := r.Create("alice")
	require.NoError(t, err)
	assert.NotEmpty(t, v.ID())
	assert.Equal(t, "alice", v.Owner())
	assert.Equal(t, 1, r.Len())

	got, err := r.Get(v.ID(), "alice")
	require.NoError(t, err)
	assert.Same(t, v, got)

	_, err = r.Get(v.ID(), "bob")
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = r.Get("missing", "alice")
	assert.ErrorIs(t, err, ErrViewerNotFound)
}

func TestRegistry_UniqueIDs(t *testing.T) {
	t.Parallel()

	r := NewRegistry(flatBuilder(200), camera.Default(), 0)
	seen := map[string]bool{}
	for i := 0; i < 20; i++ {
		v, err := r.Create("alice")
		require.NoError(t, err)
		assert.False(t, seen[v.ID()], "duplicate id %s", v.ID())
		seen[v.ID()] = true
	}
}

func TestRegistry_MaxViewers(t *testing.T) {
	t.Parallel()

	r := NewRegistry(flatBuilder(200), camera.Default(), 2)
	_, err := r.Create("alice")
	require.NoError(t, err)
	_, err = r.Create("bob")
	require.NoError(t, err)

	_, err = r.Create("carol")
	assert.ErrorIs(t, err, ErrTooManyViewers)
}

func TestRegistry_DeleteReleasesGeometry(t *testing.T) {
	t.Parallel()

	r := NewRegistry(flatBuilder(200), camera.Default(), 0)
	a, err := r.Create("alice")
	require.NoError(t, err)
	b, err := r.Create("bob")
	require.NoError(t, err)

	_, err = a.Load(context.Background(), Request{Symbol: "AAPL", Year: 2024})
	require.NoError(t, err)
	_, err = b.Load(context.Background(), Request{Synthetic: true, Seed: 1, Size: 8})
	require.NoError(t, err)
	assert.Equal(t, 2, r.Tracker().Live())

	assert.ErrorIs(t, r.Delete(a.ID(), "bob"), ErrForbidden)
	require.NoError(t, r.Delete(a.ID(), "alice"))
	assert.Equal(t, 1, r.Tracker().Live())
	assert.Equal(t, 1, r.Len())

	_, err = r.Get(a.ID(), "alice")
	assert.ErrorIs(t, err, ErrViewerNotFound)

	r.CloseAll()
	assert.Zero(t, r.Len())
	assert.Zero(t, r.Tracker().Live())
}
