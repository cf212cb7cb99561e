package cache

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/post91/feudbox/feud"
)

func testStore(t *testing.T) *Store {
	t.Helper()

	store, err := Open(filepath.Join(t.TempDir(), "cache.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	return store
}

func TestStoreRoundtrip(t *testing.T) {
	store := testStore(t)

	game := feud.Game{
		TeamOne:      feud.Team{Name: "A", Points: 120},
		TeamTwo:      feud.Team{Name: "B", Points: 80},
		TotalRounds:  5,
		RoundsPlayed: 2,
	}

	require.NoError(t, store.Set(RoleJudge, KeyGame, game))

	var got feud.Game
	require.NoError(t, store.Get(RoleJudge, KeyGame, &got))
	assert.Equal(t, game, got)
}

func TestStoreOverwrite(t *testing.T) {
	store := testStore(t)

	require.NoError(t, store.Set(RoleHost, KeyQuestion, feud.Question{Text: "first"}))
	require.NoError(t, store.Set(RoleHost, KeyQuestion, feud.Question{Text: "second"}))

	var got feud.Question
	require.NoError(t, store.Get(RoleHost, KeyQuestion, &got))
	assert.Equal(t, "second", got.Text)
}

func TestStoreRolesAreIsolated(t *testing.T) {
	store := testStore(t)

	require.NoError(t, store.Set(RoleJudge, KeyGame, feud.Game{TotalRounds: 3}))

	assert.True(t, store.Has(RoleJudge, KeyGame))
	assert.False(t, store.Has(RoleHost, KeyGame))

	var got feud.Game
	assert.ErrorIs(t, store.Get(RoleHost, KeyGame, &got), ErrNotFound)
}

func TestStoreDelete(t *testing.T) {
	store := testStore(t)

	// Deleting a missing entry is fine.
	require.NoError(t, store.Delete(RoleJudge, KeyGame))

	require.NoError(t, store.Set(RoleJudge, KeyGame, feud.Game{TotalRounds: 3}))
	require.NoError(t, store.Delete(RoleJudge, KeyGame))

	assert.False(t, store.Has(RoleJudge, KeyGame))
}
