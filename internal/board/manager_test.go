package board

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/glassboard-labs/glassboard/internal/perm"
	"github.com/glassboard-labs/glassboard/internal/testutil"
	"github.com/glassboard-labs/glassboard/pkg/core"
)

func TestManager_Session(t *testing.T) {
	store := newFakeStore()
	seedDashboard(store)
	m := NewManager(store, perm.AllowAll{}, core.GridColumns, testutil.NewTestLogger(t))
	ctx := context.Background()

	s1, err := m.Session(ctx, "d1")
	require.NoError(t, err)

	s2, err := m.Session(ctx, "d1")
	require.NoError(t, err)
	assert.Same(t, s1, s2, "sessions are cached per dashboard")

	m.Evict("d1")
	s3, err := m.Session(ctx, "d1")
	require.NoError(t, err)
	assert.NotSame(t, s1, s3, "eviction forces a reload")
}

func TestManager_Session_NotFound(t *testing.T) {
	m := NewManager(newFakeStore(), perm.AllowAll{}, core.GridColumns, testutil.NewTestLogger(t))

	_, err := m.Session(context.Background(), "missing")
	assert.ErrorIs(t, err, core.ErrNotFound)
}

func TestManager_GridColumns(t *testing.T) {
	store := newFakeStore()

	m := NewManager(store, perm.AllowAll{}, 8, testutil.NewTestLogger(t))
	assert.Equal(t, 8, m.Grid().Columns(), "configured width reaches the layout model")

	m = NewManager(store, perm.AllowAll{}, 0, testutil.NewTestLogger(t))
	assert.Equal(t, core.GridColumns, m.Grid().Columns(), "zero falls back to the default")
}
