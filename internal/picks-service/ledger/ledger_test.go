package ledger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/radieske/picks-bet-platform/internal/picks-service/domain"
	"github.com/radieske/picks-bet-platform/pkg/contracts/documents"
	"github.com/radieske/picks-bet-platform/pkg/contracts/events"
)

// fakeRepo guarda apostas em memória, chaveadas por userID/betID
type fakeRepo struct {
	bets map[string]*documents.BetDocument
	seq  int
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{bets: make(map[string]*documents.BetDocument)}
}

func key(userID, betID string) string { return userID + "/" + betID }

func (f *fakeRepo) InsertActive(_ context.Context, b *documents.BetDocument) (string, error) {
	f.seq++
	b.ID = "bet-" + string(rune('0'+f.seq))
	cp := *b
	f.bets[key(b.UserID, b.ID)] = &cp
	return b.ID, nil
}

func (f *fakeRepo) GetActive(_ context.Context, userID, betID string) (*documents.BetDocument, error) {
	b, ok := f.bets[key(userID, betID)]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *b
	return &cp, nil
}

func (f *fakeRepo) UpdateActive(_ context.Context, b *documents.BetDocument) error {
	if _, ok := f.bets[key(b.UserID, b.ID)]; !ok {
		return domain.ErrNotFound
	}
	cp := *b
	f.bets[key(b.UserID, b.ID)] = &cp
	return nil
}

func (f *fakeRepo) DeleteActive(_ context.Context, userID, betID string) (bool, error) {
	if _, ok := f.bets[key(userID, betID)]; !ok {
		return false, nil
	}
	delete(f.bets, key(userID, betID))
	return true, nil
}

func (f *fakeRepo) ListActive(_ context.Context, userID string) ([]documents.BetDocument, error) {
	var out []documents.BetDocument
	for _, b := range f.bets {
		if b.UserID == userID {
			out = append(out, *b)
		}
	}
	return out, nil
}

type fakePublisher struct {
	published []events.BetStatusChanged
}

func (f *fakePublisher) PublishBetStatusChanged(_ context.Context, ev events.BetStatusChanged) error {
	f.published = append(f.published, ev)
	return nil
}

func seedBet(t *testing.T, repo *fakeRepo, userID string) string {
	t.Helper()
	id, err := repo.InsertActive(context.Background(), &documents.BetDocument{
		UserID:            userID,
		BetAmount:         10,
		PotentialWinnings: 30,
		BettingPlatform:   documents.PlatformPrizePicks,
		BetType:           documents.BetTypePowerPlay,
		Status:            documents.BetStatusActive,
		Picks: []documents.PickSnapshot{
			{PlayerID: "lebron_james_25.5", PlayerName: "LeBron James", Threshold: 25.5},
			{PlayerID: "stephen_curry_29.5", PlayerName: "Stephen Curry", Threshold: 29.5},
		},
	})
	require.NoError(t, err)
	return id
}

func TestCancelBetIdempotent(t *testing.T) {
	repo := newFakeRepo()
	led := New(zap.NewNop(), repo, &fakePublisher{})
	ctx := context.Background()

	id := seedBet(t, repo, "u1")
	require.NoError(t, led.CancelBet(ctx, "u1", id))

	// cancelar de novo (id já inexistente) é sucesso silencioso
	require.NoError(t, led.CancelBet(ctx, "u1", id))
	require.NoError(t, led.CancelBet(ctx, "u1", "never-existed"))

	bets, _ := led.ListActiveBets(ctx, "u1")
	assert.Empty(t, bets)
}

func TestUpdateBetRederivesWinnings(t *testing.T) {
	repo := newFakeRepo()
	led := New(zap.NewNop(), repo, &fakePublisher{})
	ctx := context.Background()
	id := seedBet(t, repo, "u1")

	amount := 20.0
	bet, err := led.UpdateBet(ctx, "u1", id, BetUpdate{BetAmount: &amount})
	require.NoError(t, err)
	assert.Equal(t, 20.0, bet.BetAmount)
	assert.Equal(t, 60.0, bet.PotentialWinnings, "prêmio re-derivado pelo esquema 3x")

	// prêmio explícito prevalece
	amount = 30.0
	winnings := 100.0
	bet, err = led.UpdateBet(ctx, "u1", id, BetUpdate{BetAmount: &amount, PotentialWinnings: &winnings})
	require.NoError(t, err)
	assert.Equal(t, 100.0, bet.PotentialWinnings)
}

func TestUpdateBetEmptyPickSet(t *testing.T) {
	repo := newFakeRepo()
	led := New(zap.NewNop(), repo, &fakePublisher{})
	id := seedBet(t, repo, "u1")

	_, err := led.UpdateBet(context.Background(), "u1", id, BetUpdate{Picks: []documents.PickSnapshot{}})
	assert.ErrorIs(t, err, domain.ErrEmptyPickSet)

	// nil mantém o conjunto atual
	bet, err := led.UpdateBet(context.Background(), "u1", id, BetUpdate{})
	require.NoError(t, err)
	assert.Len(t, bet.Picks, 2)
}

func TestUpdateBetPicksMustBeSubset(t *testing.T) {
	repo := newFakeRepo()
	led := New(zap.NewNop(), repo, &fakePublisher{})
	ctx := context.Background()
	id := seedBet(t, repo, "u1")

	// pick que nunca fez parte da aposta é rejeitado sem mutação
	_, err := led.UpdateBet(ctx, "u1", id, BetUpdate{Picks: []documents.PickSnapshot{
		{PlayerID: "nikola_jokic_24.5", PlayerName: "Nikola Jokic", Threshold: 24.5},
	}})
	assert.ErrorIs(t, err, domain.ErrUnknownPick)

	unchanged, err := repo.GetActive(ctx, "u1", id)
	require.NoError(t, err)
	assert.Len(t, unchanged.Picks, 2)

	// subconjunto válido mantém os snapshots originais, não os do chamador
	bet, err := led.UpdateBet(ctx, "u1", id, BetUpdate{Picks: []documents.PickSnapshot{
		{PlayerID: "lebron_james_25.5", PlayerName: "alterado", Threshold: 99},
	}})
	require.NoError(t, err)
	require.Len(t, bet.Picks, 1)
	assert.Equal(t, "LeBron James", bet.Picks[0].PlayerName)
	assert.Equal(t, 25.5, bet.Picks[0].Threshold)
}

func TestUpdateBetValidations(t *testing.T) {
	repo := newFakeRepo()
	led := New(zap.NewNop(), repo, &fakePublisher{})
	ctx := context.Background()
	id := seedBet(t, repo, "u1")

	bad := -1.0
	_, err := led.UpdateBet(ctx, "u1", id, BetUpdate{BetAmount: &bad})
	assert.ErrorIs(t, err, domain.ErrInvalidAmount)

	other := documents.PlatformOther
	_, err = led.UpdateBet(ctx, "u1", id, BetUpdate{Platform: &other})
	assert.ErrorIs(t, err, domain.ErrMissingPlatformName)

	name := "Bet365"
	_, err = led.UpdateBet(ctx, "u1", id, BetUpdate{Platform: &other, PlatformName: &name})
	assert.NoError(t, err)

	_, err = led.UpdateBet(ctx, "u1", "missing", BetUpdate{})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestSetStatusPublishesBeforeAfter(t *testing.T) {
	repo := newFakeRepo()
	pub := &fakePublisher{}
	led := New(zap.NewNop(), repo, pub)
	ctx := context.Background()
	id := seedBet(t, repo, "u1")

	bet, err := led.SetStatus(ctx, "u1", id, documents.BetStatusWon, 30)
	require.NoError(t, err)
	assert.Equal(t, documents.BetStatusWon, bet.Status)
	assert.Equal(t, 30.0, bet.Winnings)

	require.Len(t, pub.published, 1)
	ev := pub.published[0]
	assert.Equal(t, id, ev.BetID)
	assert.Equal(t, documents.BetStatusActive, ev.Before.Status)
	assert.Equal(t, documents.BetStatusWon, ev.After.Status)
}
