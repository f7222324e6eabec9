package services

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ewaste-realm/server/persistence"
)

func TestGetOrCreatePlayer(t *testing.T) {
	db := newTestStore(t)
	ws, err := NewWorldService(newTestLevelManager(t, db), 4, 3)
	require.NoError(t, err)
	ps := NewPlayerService(ws, db, 6)

	_, err = ps.GetOrCreatePlayer("")
	assert.Error(t, err)

	p, err := ps.GetOrCreatePlayer("ana")
	require.NoError(t, err)
	assert.NotEmpty(t, p.ID)
	assert.Equal(t, 6.0, p.Speed)
	assert.Equal(t, ws.OverworldID(), p.LevelID)

	again, err := ps.GetOrCreatePlayer("ana")
	require.NoError(t, err)
	assert.Equal(t, p.ID, again.ID)

	stored, err := db.LoadPlayerByUsername("ana")
	require.NoError(t, err)
	assert.Equal(t, p.ID, stored.ID)
}

func TestPlayerServiceSaveAndReload(t *testing.T) {
	db := newTestStore(t)
	ws, err := NewWorldService(newTestLevelManager(t, db), 4, 3)
	require.NoError(t, err)
	ps := NewPlayerService(ws, db, 0)

	p, err := ps.GetOrCreatePlayer("ana")
	require.NoError(t, err)
	_, err = ws.EnterWorkshop(p.ID)
	require.NoError(t, err)

	require.NoError(t, ps.Logout(p.ID))
	_, err = ps.GetPlayer(p.ID)
	assert.True(t, errors.Is(err, ErrPlayerNotFound))

	stored, err := db.LoadPlayer(p.ID)
	require.NoError(t, err)
	assert.Equal(t, WorkshopLevelID, stored.LevelID)
	assert.Equal(t, 400.0, stored.X)

	// Logging back in restores the saved player, still in the workshop.
	back, err := ps.GetOrCreatePlayer("ana")
	require.NoError(t, err)
	assert.Equal(t, p.ID, back.ID)
	assert.Equal(t, WorkshopLevelID, back.LevelID)
}

func TestSavePlayerUnknown(t *testing.T) {
	db := newTestStore(t)
	ws, err := NewWorldService(newTestLevelManager(t, db), 4, 3)
	require.NoError(t, err)
	ps := NewPlayerService(ws, db, 0)

	err = ps.SavePlayer("ghost")
	assert.True(t, errors.Is(err, ErrPlayerNotFound))
	_, err = db.LoadPlayer("ghost")
	assert.True(t, errors.Is(err, persistence.ErrNotFound))
}
