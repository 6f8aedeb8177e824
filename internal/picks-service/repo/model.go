package repo

import (
	"context"
	"database/sql"
)

// Schema mínimo do core. Espelha o layout lógico do document store:
// users/{userId}/picks, users/{userId}/activeBets/{betId},
// users/{userId}/betHistory/{betId} e as duas partições de
// processedPlayers. O histórico usa o mesmo id da entrada ativa, então a
// migração é no máximo uma.
const schema = `
CREATE TABLE IF NOT EXISTS user_picks (
	user_id    TEXT PRIMARY KEY,
	picks      JSONB NOT NULL DEFAULT '[]',
	updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS active_bets (
	id                 TEXT PRIMARY KEY,
	user_id            TEXT NOT NULL,
	bet_amount         DOUBLE PRECISION NOT NULL,
	potential_winnings DOUBLE PRECISION NOT NULL,
	platform           TEXT NOT NULL,
	platform_name      TEXT NOT NULL DEFAULT '',
	bet_type           TEXT NOT NULL,
	status             TEXT NOT NULL,
	game_date          TEXT NOT NULL,
	picks              JSONB NOT NULL,
	winnings           DOUBLE PRECISION NOT NULL DEFAULT 0,
	created_at         TIMESTAMPTZ NOT NULL,
	updated_at         TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS active_bets_user_idx ON active_bets (user_id);

CREATE TABLE IF NOT EXISTS bet_history (
	id                 TEXT PRIMARY KEY,
	user_id            TEXT NOT NULL,
	bet_amount         DOUBLE PRECISION NOT NULL,
	potential_winnings DOUBLE PRECISION NOT NULL,
	platform           TEXT NOT NULL,
	platform_name      TEXT NOT NULL DEFAULT '',
	bet_type           TEXT NOT NULL,
	status             TEXT NOT NULL,
	game_date          TEXT NOT NULL,
	picks              JSONB NOT NULL,
	winnings           DOUBLE PRECISION NOT NULL DEFAULT 0,
	created_at         TIMESTAMPTZ NOT NULL,
	settled_at         TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS bet_history_user_idx ON bet_history (user_id);

CREATE TABLE IF NOT EXISTS processed_players (
	partition  TEXT NOT NULL,
	player_id  TEXT NOT NULL,
	threshold  DOUBLE PRECISION NOT NULL,
	doc        JSONB NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	PRIMARY KEY (partition, player_id, threshold)
);
`

// EnsureSchema cria as tabelas quando ainda não existem.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, schema)
	return err
}
