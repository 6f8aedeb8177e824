package repo

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/radieske/picks-bet-platform/pkg/contracts/documents"
)

// Postgres implementa as operações de realocação do arquivador.
// Escrita de destino idempotente + delete de origem tolerante a ausência:
// é isso que permite re-executar qualquer passo de arquivamento.
type Postgres struct{ db *sql.DB }

func NewPostgres(db *sql.DB) *Postgres { return &Postgres{db: db} }

// CopyBetToHistory grava o documento liquidado no histórico, mantendo o
// mesmo id da entrada ativa. ON CONFLICT DO NOTHING: o histórico é
// append-only e a primeira escrita vence.
func (p *Postgres) CopyBetToHistory(ctx context.Context, b *documents.BetDocument) error {
	raw, err := json.Marshal(b.Picks)
	if err != nil {
		return err
	}
	_, err = p.db.ExecContext(ctx, `
		INSERT INTO bet_history
		  (id,user_id,bet_amount,potential_winnings,platform,platform_name,bet_type,status,game_date,picks,winnings,created_at,settled_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)
		ON CONFLICT (id) DO NOTHING`,
		b.ID, b.UserID, b.BetAmount, b.PotentialWinnings, b.BettingPlatform, b.PlatformName,
		b.BetType, b.Status, b.GameDate, raw, b.Winnings, b.CreatedAt, b.SettledAt,
	)
	return err
}

// DeleteActiveBet remove a entrada do ledger; ausência é no-op
func (p *Postgres) DeleteActiveBet(ctx context.Context, userID, betID string) error {
	_, err := p.db.ExecContext(ctx,
		`DELETE FROM active_bets WHERE user_id=$1 AND id=$2`, userID, betID)
	return err
}

// CopyPlayerToConcluded grava o registro na partição concluída; sobrescrever
// um destino idêntico é seguro
func (p *Postgres) CopyPlayerToConcluded(ctx context.Context, rec *documents.PlayerRecord) error {
	raw, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	_, err = p.db.ExecContext(ctx, `
		INSERT INTO processed_players (partition, player_id, threshold, doc, updated_at)
		VALUES ($1,$2,$3,$4,NOW())
		ON CONFLICT (partition, player_id, threshold) DO UPDATE SET doc=EXCLUDED.doc, updated_at=NOW()`,
		documents.PartitionConcluded, rec.PlayerID, rec.Threshold, raw,
	)
	return err
}

// DeleteActivePlayer remove o registro da partição ativa; ausência é no-op
func (p *Postgres) DeleteActivePlayer(ctx context.Context, playerID string, threshold float64) error {
	_, err := p.db.ExecContext(ctx, `
		DELETE FROM processed_players
		WHERE partition=$1 AND player_id=$2 AND threshold=$3`,
		documents.PartitionActive, playerID, threshold,
	)
	return err
}
