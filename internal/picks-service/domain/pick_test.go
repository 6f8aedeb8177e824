package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/radieske/picks-bet-platform/pkg/contracts/documents"
)

func TestDerivePickID(t *testing.T) {
	assert.Equal(t, "lebron_james_25.5_2025-03-02", DerivePickID("LeBron James", 25.5, "2025-03-02"))
	assert.Equal(t, "lebron_james_25.5", DerivePickID("LeBron James", 25.5, ""))

	// espaços extras e caixa alta não mudam o id
	assert.Equal(t,
		DerivePickID("LeBron James", 25.5, "2025-03-02"),
		DerivePickID("  lebron   JAMES ", 25.5, "2025-03-02"),
	)

	// threshold inteiro não ganha casa decimal
	assert.Equal(t, "nikola_jokic_24_2025-03-02", DerivePickID("Nikola Jokic", 24, "2025-03-02"))
}

func TestDerivePlayerID(t *testing.T) {
	assert.Equal(t, "stephen_curry_29.5", DerivePlayerID("Stephen Curry", 29.5))
}

func TestPickFromRecord(t *testing.T) {
	rec := documents.PlayerRecord{
		Name:           "Jayson Tatum",
		Team:           "BOS",
		Opponent:       "LAL",
		Threshold:      27.5,
		Recommendation: documents.RecommendationUnder,
		GameID:         "GAME_001",
		GameDate:       "2025-03-02",
	}

	p := PickFromRecord(rec)
	assert.Equal(t, "jayson_tatum_27.5_2025-03-02", p.ID)
	assert.Equal(t, "Jayson Tatum", p.Player)
	assert.Equal(t, "BOS", p.Team)
	assert.Equal(t, 27.5, p.Threshold)
	assert.Equal(t, documents.RecommendationUnder, p.Recommendation)
}

func TestSnapshotPick(t *testing.T) {
	p := documents.Pick{
		ID:             "lebron_james_25.5_2025-03-02",
		Player:         "LeBron James",
		Team:           "LAL",
		Threshold:      25.5,
		Recommendation: documents.RecommendationOver,
		GameID:         "GAME_001",
		GameDate:       "2025-03-02",
	}

	snap := SnapshotPick(p)
	assert.Equal(t, p.ID, snap.PlayerID)
	assert.Equal(t, p.Player, snap.PlayerName)
	assert.Equal(t, p.Threshold, snap.Threshold)
	assert.Empty(t, snap.Result, "snapshot nasce sem resultado")
	assert.Nil(t, snap.ActualPoints)

	// sem id no pick, o playerId é sintetizado
	p.ID = ""
	snap = SnapshotPick(p)
	assert.Equal(t, "lebron_james_25.5", snap.PlayerID)
}
