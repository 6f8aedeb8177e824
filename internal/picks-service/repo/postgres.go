package repo

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/radieske/picks-bet-platform/internal/picks-service/domain"
	"github.com/radieske/picks-bet-platform/pkg/contracts/documents"
)

// Postgres implementa a persistência de picks, ledger ativo, histórico e
// leitura dos registros de análise
type Postgres struct{ db *sql.DB }

// NewPostgres retorna uma instância do repositório
func NewPostgres(db *sql.DB) *Postgres { return &Postgres{db: db} }

// ===== picks (users/{userId}/picks) =====

// LoadPicks lê o documento de picks do usuário; ausência equivale a vazio
func (p *Postgres) LoadPicks(ctx context.Context, userID string) ([]documents.Pick, error) {
	var raw []byte
	err := p.db.QueryRowContext(ctx,
		`SELECT picks FROM user_picks WHERE user_id=$1`, userID,
	).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return []documents.Pick{}, nil
	}
	if err != nil {
		return nil, err
	}

	var picks []documents.Pick
	if err := json.Unmarshal(raw, &picks); err != nil {
		return nil, fmt.Errorf("decode picks: %w", err)
	}
	return picks, nil
}

// SavePicks grava o documento inteiro (last-write-wins por usuário)
func (p *Postgres) SavePicks(ctx context.Context, userID string, picks []documents.Pick) error {
	raw, err := json.Marshal(picks)
	if err != nil {
		return err
	}
	_, err = p.db.ExecContext(ctx, `
		INSERT INTO user_picks (user_id, picks, updated_at)
		VALUES ($1,$2,NOW())
		ON CONFLICT (user_id) DO UPDATE SET picks=EXCLUDED.picks, updated_at=NOW()`,
		userID, raw,
	)
	return err
}

// ===== ledger ativo (users/{userId}/activeBets/{betId}) =====

// InsertActive insere uma nova aposta e retorna o id atribuído
func (p *Postgres) InsertActive(ctx context.Context, b *documents.BetDocument) (string, error) {
	id := uuid.NewString()
	raw, err := json.Marshal(b.Picks)
	if err != nil {
		return "", err
	}
	_, err = p.db.ExecContext(ctx, `
		INSERT INTO active_bets
		  (id,user_id,bet_amount,potential_winnings,platform,platform_name,bet_type,status,game_date,picks,winnings,created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)`,
		id, b.UserID, b.BetAmount, b.PotentialWinnings, b.BettingPlatform, b.PlatformName,
		b.BetType, b.Status, b.GameDate, raw, b.Winnings, b.CreatedAt,
	)
	if err != nil {
		return "", err
	}
	b.ID = id
	return id, nil
}

// GetActive carrega uma aposta ativa pelo par (userID, betID)
func (p *Postgres) GetActive(ctx context.Context, userID, betID string) (*documents.BetDocument, error) {
	row := p.db.QueryRowContext(ctx, `
		SELECT id,user_id,bet_amount,potential_winnings,platform,platform_name,bet_type,status,game_date,picks,winnings,created_at
		FROM active_bets WHERE user_id=$1 AND id=$2`, userID, betID)

	bet, err := scanBet(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	return bet, err
}

// UpdateActive regrava os campos mutáveis de uma aposta ativa
func (p *Postgres) UpdateActive(ctx context.Context, b *documents.BetDocument) error {
	raw, err := json.Marshal(b.Picks)
	if err != nil {
		return err
	}
	res, err := p.db.ExecContext(ctx, `
		UPDATE active_bets SET
		  bet_amount=$1, potential_winnings=$2, platform=$3, platform_name=$4,
		  bet_type=$5, status=$6, picks=$7, winnings=$8, updated_at=NOW()
		WHERE user_id=$9 AND id=$10`,
		b.BetAmount, b.PotentialWinnings, b.BettingPlatform, b.PlatformName,
		b.BetType, b.Status, raw, b.Winnings, b.UserID, b.ID,
	)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// DeleteActive remove a entrada do ledger; retorna se algo foi removido
func (p *Postgres) DeleteActive(ctx context.Context, userID, betID string) (bool, error) {
	res, err := p.db.ExecContext(ctx,
		`DELETE FROM active_bets WHERE user_id=$1 AND id=$2`, userID, betID)
	if err != nil {
		return false, err
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

// ListActive retorna as apostas ativas do usuário, mais recentes primeiro
func (p *Postgres) ListActive(ctx context.Context, userID string) ([]documents.BetDocument, error) {
	rows, err := p.db.QueryContext(ctx, `
		SELECT id,user_id,bet_amount,potential_winnings,platform,platform_name,bet_type,status,game_date,picks,winnings,created_at
		FROM active_bets WHERE user_id=$1 ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []documents.BetDocument
	for rows.Next() {
		bet, err := scanBet(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *bet)
	}
	return out, rows.Err()
}

// ListUserIDs enumera usuários com apostas ativas, para o sweep periódico
func (p *Postgres) ListUserIDs(ctx context.Context) ([]string, error) {
	rows, err := p.db.QueryContext(ctx, `SELECT DISTINCT user_id FROM active_bets`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// ===== histórico (users/{userId}/betHistory/{betId}, append-only) =====

// ListHistory retorna as apostas concluídas do usuário, read-only
func (p *Postgres) ListHistory(ctx context.Context, userID string) ([]documents.BetDocument, error) {
	rows, err := p.db.QueryContext(ctx, `
		SELECT id,user_id,bet_amount,potential_winnings,platform,platform_name,bet_type,status,game_date,picks,winnings,created_at,settled_at
		FROM bet_history WHERE user_id=$1 ORDER BY settled_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []documents.BetDocument
	for rows.Next() {
		var b documents.BetDocument
		var raw []byte
		if err := rows.Scan(&b.ID, &b.UserID, &b.BetAmount, &b.PotentialWinnings,
			&b.BettingPlatform, &b.PlatformName, &b.BetType, &b.Status, &b.GameDate,
			&raw, &b.Winnings, &b.CreatedAt, &b.SettledAt); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(raw, &b.Picks); err != nil {
			return nil, fmt.Errorf("decode history picks: %w", err)
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

// ===== registros de análise (processedPlayers/{partition}/...) =====

// GetPlayerRecord busca um registro de análise em uma partição
func (p *Postgres) GetPlayerRecord(ctx context.Context, partition, playerID string, threshold float64) (*documents.PlayerRecord, error) {
	var raw []byte
	err := p.db.QueryRowContext(ctx, `
		SELECT doc FROM processed_players
		WHERE partition=$1 AND player_id=$2 AND threshold=$3`,
		partition, playerID, threshold,
	).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	var rec documents.PlayerRecord
	if err := json.Unmarshal(raw, &rec); err != nil {
		return nil, fmt.Errorf("decode player record: %w", err)
	}
	return &rec, nil
}

// ListPlayerRecords lista os registros de uma partição (ex: "active")
func (p *Postgres) ListPlayerRecords(ctx context.Context, partition string) ([]documents.PlayerRecord, error) {
	rows, err := p.db.QueryContext(ctx,
		`SELECT doc FROM processed_players WHERE partition=$1 ORDER BY player_id`, partition)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []documents.PlayerRecord
	for rows.Next() {
		var raw []byte
		if err := rows.Scan(&raw); err != nil {
			return nil, err
		}
		var rec documents.PlayerRecord
		if err := json.Unmarshal(raw, &rec); err != nil {
			return nil, fmt.Errorf("decode player record: %w", err)
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

type scanner interface{ Scan(dest ...any) error }

func scanBet(s scanner) (*documents.BetDocument, error) {
	var b documents.BetDocument
	var raw []byte
	if err := s.Scan(&b.ID, &b.UserID, &b.BetAmount, &b.PotentialWinnings,
		&b.BettingPlatform, &b.PlatformName, &b.BetType, &b.Status, &b.GameDate,
		&raw, &b.Winnings, &b.CreatedAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(raw, &b.Picks); err != nil {
		return nil, fmt.Errorf("decode picks: %w", err)
	}
	return &b, nil
}
