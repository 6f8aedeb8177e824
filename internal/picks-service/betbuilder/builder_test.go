package betbuilder

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/radieske/picks-bet-platform/internal/picks-service/domain"
	"github.com/radieske/picks-bet-platform/internal/picks-service/pickstore"
	"github.com/radieske/picks-bet-platform/pkg/contracts/documents"
)

type fakeRemote struct {
	docs map[string][]documents.Pick
}

func (f *fakeRemote) LoadPicks(_ context.Context, userID string) ([]documents.Pick, error) {
	return append([]documents.Pick(nil), f.docs[userID]...), nil
}

func (f *fakeRemote) SavePicks(_ context.Context, userID string, picks []documents.Pick) error {
	f.docs[userID] = append([]documents.Pick(nil), picks...)
	return nil
}

type fakeLedger struct {
	created []*documents.BetDocument
	fail    bool
}

func (f *fakeLedger) CreateActive(_ context.Context, bet *documents.BetDocument) (string, error) {
	if f.fail {
		return "", errors.New("ledger down")
	}
	bet.ID = "bet-1"
	f.created = append(f.created, bet)
	return bet.ID, nil
}

func pick(name string, threshold float64) documents.Pick {
	return documents.Pick{
		ID:             domain.DerivePickID(name, threshold, "2025-03-02"),
		Player:         name,
		Threshold:      threshold,
		Recommendation: documents.RecommendationOver,
		GameDate:       "2025-03-02",
	}
}

func setup(t *testing.T, picks ...documents.Pick) (*Builder, *pickstore.Store, *fakeLedger) {
	t.Helper()
	remote := &fakeRemote{docs: map[string][]documents.Pick{"u1": picks}}
	store := pickstore.New(zap.NewNop(), remote)
	led := &fakeLedger{}
	return New(zap.NewNop(), store, led), store, led
}

func TestBuildBet(t *testing.T) {
	a := pick("LeBron James", 25.5)
	b := pick("Stephen Curry", 29.5)
	c := pick("Nikola Jokic", 24.5)
	builder, store, led := setup(t, a, b, c)
	ctx := context.Background()

	betID, err := builder.BuildBet(ctx, "u1", BuildInput{
		BetAmount:       10,
		SelectedPickIDs: []string{a.ID, b.ID},
		Platform:        documents.PlatformPrizePicks,
		BetType:         documents.BetTypePowerPlay,
		GameDate:        "2025-03-02",
	})
	require.NoError(t, err)
	assert.Equal(t, "bet-1", betID)

	require.Len(t, led.created, 1)
	bet := led.created[0]
	assert.Equal(t, documents.BetStatusActive, bet.Status)
	assert.Equal(t, 10.0, bet.BetAmount)
	assert.Equal(t, 30.0, bet.PotentialWinnings, "prêmio derivado pelo esquema 3x")
	require.Len(t, bet.Picks, 2)
	assert.Equal(t, "LeBron James", bet.Picks[0].PlayerName)

	// só os picks agrupados saem do store; o restante fica
	remaining, err := store.List(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, remaining, 1)
	assert.Equal(t, c.ID, remaining[0].ID)
}

func TestBuildBetExplicitWinnings(t *testing.T) {
	a := pick("LeBron James", 25.5)
	b := pick("Stephen Curry", 29.5)
	builder, _, led := setup(t, a, b)

	_, err := builder.BuildBet(context.Background(), "u1", BuildInput{
		BetAmount:         10,
		PotentialWinnings: 55,
		SelectedPickIDs:   []string{a.ID, b.ID},
		Platform:          documents.PlatformUnderdog,
		BetType:           documents.BetTypeFlexPlay,
	})
	require.NoError(t, err)
	assert.Equal(t, 55.0, led.created[0].PotentialWinnings)
}

func TestBuildBetInsufficientPicks(t *testing.T) {
	a := pick("LeBron James", 25.5)
	builder, store, led := setup(t, a)
	ctx := context.Background()

	_, err := builder.BuildBet(ctx, "u1", BuildInput{
		BetAmount:       10,
		SelectedPickIDs: []string{a.ID},
		Platform:        documents.PlatformPrizePicks,
	})
	assert.ErrorIs(t, err, domain.ErrInsufficientPicks)
	assert.Empty(t, led.created)

	// nada foi limpo
	remaining, _ := store.List(ctx, "u1")
	assert.Len(t, remaining, 1)
}

func TestBuildBetSelectionIgnoresUnknownIDs(t *testing.T) {
	a := pick("LeBron James", 25.5)
	builder, _, _ := setup(t, a)

	// dois ids selecionados, mas só um existe no store
	_, err := builder.BuildBet(context.Background(), "u1", BuildInput{
		BetAmount:       10,
		SelectedPickIDs: []string{a.ID, "ghost_9.5_2025-03-02"},
		Platform:        documents.PlatformPrizePicks,
	})
	assert.ErrorIs(t, err, domain.ErrInsufficientPicks)
}

func TestBuildBetInvalidAmount(t *testing.T) {
	a := pick("LeBron James", 25.5)
	b := pick("Stephen Curry", 29.5)
	builder, _, _ := setup(t, a, b)

	_, err := builder.BuildBet(context.Background(), "u1", BuildInput{
		BetAmount:       0,
		SelectedPickIDs: []string{a.ID, b.ID},
		Platform:        documents.PlatformPrizePicks,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidAmount)
}

func TestBuildBetOtherPlatformRequiresName(t *testing.T) {
	a := pick("LeBron James", 25.5)
	b := pick("Stephen Curry", 29.5)
	builder, _, _ := setup(t, a, b)

	_, err := builder.BuildBet(context.Background(), "u1", BuildInput{
		BetAmount:       10,
		SelectedPickIDs: []string{a.ID, b.ID},
		Platform:        documents.PlatformOther,
	})
	assert.ErrorIs(t, err, domain.ErrMissingPlatformName)
}

func TestBuildBetLedgerFailureKeepsPicks(t *testing.T) {
	a := pick("LeBron James", 25.5)
	b := pick("Stephen Curry", 29.5)
	builder, store, led := setup(t, a, b)
	led.fail = true
	ctx := context.Background()

	_, err := builder.BuildBet(ctx, "u1", BuildInput{
		BetAmount:       10,
		SelectedPickIDs: []string{a.ID, b.ID},
		Platform:        documents.PlatformPrizePicks,
	})
	require.Error(t, err)

	// write-then-clear: sem confirmação do ledger, nenhum pick é removido
	remaining, listErr := store.List(ctx, "u1")
	require.NoError(t, listErr)
	assert.Len(t, remaining, 2)
}
