package session

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/peterkuimelis/organattack/internal/game"
	"github.com/peterkuimelis/organattack/internal/log"
	"github.com/peterkuimelis/organattack/internal/storage"
)

func newTestSession(t *testing.T, withStore bool) *Session {
	t.Helper()
	opts := Options{
		Game:      game.Config{Seed: 11},
		EventSink: func() log.EventLogger { return log.NewMemoryLogger() },
	}
	if withStore {
		st, err := storage.New(":memory:", nil)
		require.NoError(t, err)
		t.Cleanup(func() { st.Close() })
		opts.Store = st
	}
	s := New(opts)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestNoGame(t *testing.T) {
	s := newTestSession(t, false)

	_, err := s.Summary()
	assert.ErrorIs(t, err, ErrNoGame)
	_, err = s.Advance()
	assert.ErrorIs(t, err, ErrNoGame)
	_, _, err = s.Play(game.Intent{Player: "Ann", CardID: "attack_001"})
	assert.ErrorIs(t, err, ErrNoGame)
	_, err = s.Save(context.Background(), "x")
	assert.ErrorIs(t, err, ErrNoStore)
}

func TestStartAndAdvance(t *testing.T) {
	s := newTestSession(t, false)

	sum, err := s.Start([]string{"Ann", "Bo"})
	require.NoError(t, err)
	assert.Equal(t, "Draw", sum.Phase)
	assert.Len(t, sum.Players, 2)
	firstID := s.ID()
	assert.NotEmpty(t, firstID)

	sum, err = s.Advance()
	require.NoError(t, err)
	assert.Equal(t, "Play", sum.Phase)

	hand, err := s.Hand(sum.CurrentPlayer)
	require.NoError(t, err)
	assert.Len(t, hand, game.DefaultStartingHand+1)

	_, err = s.Start([]string{"Ann"})
	require.Error(t, err)
	assert.Equal(t, firstID, s.ID(), "failed start keeps the running game")

	sum, err = s.Start([]string{"Cy", "Di"})
	require.NoError(t, err)
	assert.Equal(t, "Draw", sum.Phase)
	assert.NotEqual(t, firstID, s.ID(), "new game gets a new id")
}

func TestEventsSince(t *testing.T) {
	s := newTestSession(t, false)
	_, err := s.Start([]string{"Ann", "Bo"})
	require.NoError(t, err)

	all, err := s.Events(0)
	require.NoError(t, err)
	require.NotEmpty(t, all)

	last := all[len(all)-1].Seq
	_, err = s.Advance()
	require.NoError(t, err)

	fresh, err := s.Events(last)
	require.NoError(t, err)
	require.NotEmpty(t, fresh)
	for _, ev := range fresh {
		assert.Greater(t, ev.Seq, last)
	}
}

func TestRejectedPlayDoesNotPublish(t *testing.T) {
	s := newTestSession(t, false)
	_, err := s.Start([]string{"Ann", "Bo"})
	require.NoError(t, err)

	ch, stop := s.Watch()
	defer stop()

	_, _, err = s.Play(game.Intent{Player: "Ann", CardID: "no_such_card"})
	require.Error(t, err)
	var verr *game.ValidationError
	assert.True(t, errors.As(err, &verr))

	select {
	case <-ch:
		t.Fatal("rejected play should not notify watchers")
	default:
	}

	_, err = s.Advance()
	require.NoError(t, err)
	sum := <-ch
	assert.Equal(t, "Play", sum.Phase)
}

func TestWatchKeepsNewest(t *testing.T) {
	s := newTestSession(t, false)
	ch, stop := s.Watch()

	_, err := s.Start([]string{"Ann", "Bo"})
	require.NoError(t, err)
	_, err = s.Advance()
	require.NoError(t, err)

	sum := <-ch
	assert.Equal(t, "Play", sum.Phase)

	stop()
	stop()
	_, ok := <-ch
	assert.False(t, ok, "channel closed after stop")
}

func TestSaveLoadRoundTrip(t *testing.T) {
	s := newTestSession(t, true)
	ctx := context.Background()

	_, err := s.Start([]string{"Ann", "Bo"})
	require.NoError(t, err)
	saved, err := s.Advance()
	require.NoError(t, err)

	meta, err := s.Save(ctx, "checkpoint")
	require.NoError(t, err)
	assert.Equal(t, "checkpoint", meta.Name)

	_, err = s.Advance()
	require.NoError(t, err)

	got, err := s.Load(ctx, meta.ID)
	require.NoError(t, err)
	assert.Equal(t, saved, got)

	saves, err := s.ListSaves(ctx)
	require.NoError(t, err)
	require.Len(t, saves, 1)

	require.NoError(t, s.DeleteSave(ctx, meta.ID))
	assert.ErrorIs(t, s.DeleteSave(ctx, meta.ID), storage.ErrNotFound)
}

func TestLoadFailureKeepsGame(t *testing.T) {
	s := newTestSession(t, true)
	_, err := s.Start([]string{"Ann", "Bo"})
	require.NoError(t, err)
	before, err := s.Summary()
	require.NoError(t, err)
	id := s.ID()

	_, err = s.Load(context.Background(), "missing")
	require.ErrorIs(t, err, storage.ErrNotFound)

	after, err := s.Summary()
	require.NoError(t, err)
	assert.Equal(t, before, after)
	assert.Equal(t, id, s.ID())
}

func TestConcurrentCalls(t *testing.T) {
	s := newTestSession(t, false)
	_, err := s.Start([]string{"Ann", "Bo"})
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 20; j++ {
				if _, err := s.Summary(); err != nil {
					t.Errorf("summary: %v", err)
					return
				}
				// Advance may legitimately refuse (hand over limit, game over).
				_, _ = s.Advance()
			}
		}()
	}
	wg.Wait()

	sum, err := s.Summary()
	require.NoError(t, err)
	assert.GreaterOrEqual(t, sum.Turn, 1)
}
