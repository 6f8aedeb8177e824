package archiver

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/radieske/picks-bet-platform/pkg/contracts/documents"
)

func bet(status string) *documents.BetDocument {
	return &documents.BetDocument{ID: "bet-1", UserID: "u1", Status: status}
}

func player(gameStatus string) *documents.PlayerRecord {
	return &documents.PlayerRecord{PlayerID: "lebron_james_25.5", Threshold: 25.5, GameStatus: gameStatus}
}

func TestShouldArchiveBet(t *testing.T) {
	// transição para terminal dispara
	assert.True(t, ShouldArchiveBet(bet(documents.BetStatusActive), bet(documents.BetStatusWon)))
	assert.True(t, ShouldArchiveBet(bet(documents.BetStatusActive), bet(documents.BetStatusLost)))
	assert.True(t, ShouldArchiveBet(bet(documents.BetStatusActive), bet(documents.BetStatusPartialWin)))
	assert.True(t, ShouldArchiveBet(bet(documents.BetStatusActive), bet(documents.BetStatusCompleted)))

	// edit mantendo Active não dispara
	assert.False(t, ShouldArchiveBet(bet(documents.BetStatusActive), bet(documents.BetStatusActive)))

	// status que não mudou não dispara, mesmo terminal
	assert.False(t, ShouldArchiveBet(bet(documents.BetStatusWon), bet(documents.BetStatusWon)))

	// criação e deleção (um dos lados nil) não disparam
	assert.False(t, ShouldArchiveBet(nil, bet(documents.BetStatusWon)))
	assert.False(t, ShouldArchiveBet(bet(documents.BetStatusActive), nil))
}

func TestShouldArchivePlayer(t *testing.T) {
	assert.True(t, ShouldArchivePlayer(player(documents.GameStatusScheduled), player(documents.GameStatusConcluded)))
	assert.True(t, ShouldArchivePlayer(player(documents.GameStatusLive), player(documents.GameStatusConcluded)))

	assert.False(t, ShouldArchivePlayer(player(documents.GameStatusScheduled), player(documents.GameStatusLive)))
	assert.False(t, ShouldArchivePlayer(player(documents.GameStatusConcluded), player(documents.GameStatusConcluded)))
	assert.False(t, ShouldArchivePlayer(nil, player(documents.GameStatusConcluded)))
	assert.False(t, ShouldArchivePlayer(player(documents.GameStatusLive), nil))
}
