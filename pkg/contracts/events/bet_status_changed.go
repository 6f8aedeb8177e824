package events

import (
	"time"

	"github.com/radieske/picks-bet-platform/pkg/contracts/documents"
)

// Evento publicado quando o status de uma aposta ativa muda.
// Carrega o documento completo antes e depois da mudança; a decisão de
// arquivamento é uma função pura do par (before, after).
type BetStatusChanged struct {
	UserID string                 `json:"user_id"`
	BetID  string                 `json:"bet_id"`
	Before *documents.BetDocument `json:"before"`
	After  *documents.BetDocument `json:"after"`
	Ts     time.Time              `json:"ts"`
}
