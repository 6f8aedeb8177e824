package events

import (
	"time"

	"github.com/radieske/picks-bet-platform/pkg/contracts/documents"
)

// Evento publicado quando o gameStatus de um registro de análise muda.
// Emitido pelo analysis-ingest a partir do feed do produtor de análises.
type PlayerStatusChanged struct {
	PlayerID  string                  `json:"player_id"`
	Threshold float64                 `json:"threshold"`
	Before    *documents.PlayerRecord `json:"before"`
	After     *documents.PlayerRecord `json:"after"`
	Ts        time.Time               `json:"ts"`
}
