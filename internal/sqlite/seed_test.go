// Unit tests for reference-data seeding on attach.
package sqlite

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/orderdesk/pkg/types"
)

func TestSeedStatesOnAttach(t *testing.T) {
	b := NewBackend()
	config := types.Config{
		Backend:    types.BackendSQLite,
		DataDir:    t.TempDir(),
		SeedStates: true,
	}
	require.NoError(t, b.Attach(config))
	t.Cleanup(func() { b.Detach() })
	ctx := context.Background()

	states, err := b.States().List(ctx)
	require.NoError(t, err)
	assert.Len(t, states, 51, "fifty states plus DC")

	or, err := b.States().Get(ctx, "OR")
	require.NoError(t, err)
	assert.Equal(t, "Oregon", or.StateName)
	assert.Equal(t, int64(1), or.RowVersion)
}

func TestSeedStatesIdempotent(t *testing.T) {
	dataDir := t.TempDir()
	config := types.Config{
		Backend:    types.BackendSQLite,
		DataDir:    dataDir,
		SeedStates: true,
	}
	ctx := context.Background()

	b := NewBackend()
	require.NoError(t, b.Attach(config))

	// Mutate a seeded row, then re-attach: the seed must not run again and
	// must not clobber the edit.
	or, err := b.States().Get(ctx, "OR")
	require.NoError(t, err)
	or.StateName = "State of Oregon"
	require.NoError(t, b.States().Update(ctx, "OR", or))
	require.NoError(t, b.Detach())

	require.NoError(t, b.Attach(config))
	t.Cleanup(func() { b.Detach() })

	states, err := b.States().List(ctx)
	require.NoError(t, err)
	assert.Len(t, states, 51)

	or, err = b.States().Get(ctx, "OR")
	require.NoError(t, err)
	assert.Equal(t, "State of Oregon", or.StateName)
	assert.Equal(t, int64(2), or.RowVersion)
}

func TestSeedStatesDisabled(t *testing.T) {
	b := setupBackend(t)

	states, err := b.States().List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, states)
}
