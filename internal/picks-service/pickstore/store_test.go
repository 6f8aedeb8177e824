package pickstore

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/radieske/picks-bet-platform/internal/picks-service/domain"
	"github.com/radieske/picks-bet-platform/pkg/contracts/documents"
)

// fakeRemote simula o document store em memória, com falha injetável
type fakeRemote struct {
	docs    map[string][]documents.Pick
	failSav bool
	saves   int
}

func newFakeRemote() *fakeRemote {
	return &fakeRemote{docs: make(map[string][]documents.Pick)}
}

func (f *fakeRemote) LoadPicks(_ context.Context, userID string) ([]documents.Pick, error) {
	return append([]documents.Pick(nil), f.docs[userID]...), nil
}

func (f *fakeRemote) SavePicks(_ context.Context, userID string, picks []documents.Pick) error {
	if f.failSav {
		return errors.New("store down")
	}
	f.saves++
	f.docs[userID] = append([]documents.Pick(nil), picks...)
	return nil
}

func pick(name string, threshold float64) documents.Pick {
	return documents.Pick{
		ID:        domain.DerivePickID(name, threshold, "2025-03-02"),
		Player:    name,
		Threshold: threshold,
		GameDate:  "2025-03-02",
	}
}

func TestAddAndList(t *testing.T) {
	store := New(zap.NewNop(), newFakeRemote())
	ctx := context.Background()

	require.NoError(t, store.Add(ctx, "u1", pick("LeBron James", 25.5)))
	require.NoError(t, store.Add(ctx, "u1", pick("Stephen Curry", 29.5)))

	picks, err := store.List(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, picks, 2)
	// ordem de inserção preservada
	assert.Equal(t, "LeBron James", picks[0].Player)
	assert.Equal(t, "Stephen Curry", picks[1].Player)
}

func TestAddDuplicate(t *testing.T) {
	store := New(zap.NewNop(), newFakeRemote())
	ctx := context.Background()

	require.NoError(t, store.Add(ctx, "u1", pick("LeBron James", 25.5)))
	err := store.Add(ctx, "u1", pick("LeBron James", 25.5))
	assert.ErrorIs(t, err, domain.ErrDuplicatePick)

	picks, _ := store.List(ctx, "u1")
	assert.Len(t, picks, 1)
}

func TestAddCapacity(t *testing.T) {
	store := New(zap.NewNop(), newFakeRemote())
	ctx := context.Background()

	for i := 0; i < domain.MaxPicks; i++ {
		name := fmt.Sprintf("Player %d", i)
		require.NoError(t, store.Add(ctx, "u1", pick(name, 20.5)))
	}

	err := store.Add(ctx, "u1", pick("One Too Many", 30.5))
	assert.ErrorIs(t, err, domain.ErrCapacityExceeded)

	picks, _ := store.List(ctx, "u1")
	assert.Len(t, picks, domain.MaxPicks)
}

func TestAddRollbackOnRemoteFailure(t *testing.T) {
	remote := newFakeRemote()
	store := New(zap.NewNop(), remote)
	ctx := context.Background()

	require.NoError(t, store.Add(ctx, "u1", pick("LeBron James", 25.5)))

	remote.failSav = true
	err := store.Add(ctx, "u1", pick("Stephen Curry", 29.5))
	require.ErrorIs(t, err, domain.ErrRemoteUnavailable)

	// a inserção otimista foi revertida
	picks, listErr := store.List(ctx, "u1")
	require.NoError(t, listErr)
	require.Len(t, picks, 1)
	assert.Equal(t, "LeBron James", picks[0].Player)
}

func TestRemoveIdempotent(t *testing.T) {
	remote := newFakeRemote()
	store := New(zap.NewNop(), remote)
	ctx := context.Background()

	require.NoError(t, store.Add(ctx, "u1", pick("LeBron James", 25.5)))
	savesBefore := remote.saves

	// id inexistente: sucesso silencioso, sem escrita remota
	require.NoError(t, store.Remove(ctx, "u1", "nobody_1.5_2025-03-02"))
	assert.Equal(t, savesBefore, remote.saves)

	require.NoError(t, store.Remove(ctx, "u1", pick("LeBron James", 25.5).ID))
	picks, _ := store.List(ctx, "u1")
	assert.Empty(t, picks)

	// remover de novo continua sendo sucesso
	require.NoError(t, store.Remove(ctx, "u1", pick("LeBron James", 25.5).ID))
}

func TestRemoveBatchLeavesOthers(t *testing.T) {
	store := New(zap.NewNop(), newFakeRemote())
	ctx := context.Background()

	a := pick("LeBron James", 25.5)
	b := pick("Stephen Curry", 29.5)
	c := pick("Nikola Jokic", 24.5)
	require.NoError(t, store.Add(ctx, "u1", a))
	require.NoError(t, store.Add(ctx, "u1", b))
	require.NoError(t, store.Add(ctx, "u1", c))

	require.NoError(t, store.RemoveBatch(ctx, "u1", []string{a.ID, c.ID}))

	picks, err := store.List(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, picks, 1)
	assert.Equal(t, b.ID, picks[0].ID)
}

func TestClear(t *testing.T) {
	remote := newFakeRemote()
	store := New(zap.NewNop(), remote)
	ctx := context.Background()

	require.NoError(t, store.Add(ctx, "u1", pick("LeBron James", 25.5)))
	require.NoError(t, store.Clear(ctx, "u1"))

	picks, err := store.List(ctx, "u1")
	require.NoError(t, err)
	assert.Empty(t, picks)
	assert.Empty(t, remote.docs["u1"])
}

func TestSessionLoadsFromRemote(t *testing.T) {
	remote := newFakeRemote()
	remote.docs["u1"] = []documents.Pick{pick("LeBron James", 25.5)}
	store := New(zap.NewNop(), remote)

	picks, err := store.List(context.Background(), "u1")
	require.NoError(t, err)
	require.Len(t, picks, 1)
	assert.Equal(t, "LeBron James", picks[0].Player)
}
