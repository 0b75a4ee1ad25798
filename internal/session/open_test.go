package session

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/peterkuimelis/organattack/internal/config"
	"github.com/peterkuimelis/organattack/internal/game"
)

func TestOpenFromConfig(t *testing.T) {
	cfg := config.Config{
		CardsFile:       "../../data/cards.yaml",
		DBPath:          ":memory:",
		HandLimit:       5,
		StartingHand:    5,
		OrgansPerPlayer: 6,
		Seed:            21,
	}
	s, err := Open(cfg, nil, nil)
	require.NoError(t, err)

	assert.Greater(t, s.Catalog().Len(), game.DefaultCatalog().Len(), "shipped catalog is loaded")

	sum, err := s.Start([]string{"Ann", "Bo", "Cy"})
	require.NoError(t, err)
	for _, p := range sum.Players {
		assert.Len(t, p.Organs, 6)
		assert.Equal(t, 5, p.HandSize)
	}

	meta, err := s.Save(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, "Turn 1", meta.Name)

	require.NoError(t, s.Close())
	_, err = s.Summary()
	assert.ErrorIs(t, err, ErrNoGame)
}

func TestOpenMissingCardsFile(t *testing.T) {
	cfg := config.Config{CardsFile: "does/not/exist.yaml", HandLimit: 5, OrgansPerPlayer: 6}
	s, err := Open(cfg, nil, nil)
	require.NoError(t, err)
	defer s.Close()

	assert.Equal(t, game.DefaultCatalog().Len(), s.Catalog().Len())
	_, err = s.ListSaves(context.Background())
	assert.ErrorIs(t, err, ErrNoStore, "no database configured")
}
