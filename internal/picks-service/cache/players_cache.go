package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/radieske/picks-bet-platform/pkg/contracts/documents"
)

// PlayersCache encapsula o cache Redis dos registros de análise ativos.
// A verificação de existência no addPick bate primeiro aqui; o Postgres é o
// fallback quando a chave não está no cache.
type PlayersCache struct {
	Client *redis.Client
	TTL    time.Duration
}

// NewPlayersCache cria o cache com TTL configurável
func NewPlayersCache(c *redis.Client, ttl time.Duration) *PlayersCache {
	return &PlayersCache{Client: c, TTL: ttl}
}

// key gera a chave Redis de um registro jogador/threshold ativo
func key(playerID string, threshold float64) string {
	return fmt.Sprintf("players:active:%s:%s", playerID, strconv.FormatFloat(threshold, 'f', -1, 64))
}

// Get busca um registro no cache; (nil, nil) quando ausente
func (c *PlayersCache) Get(ctx context.Context, playerID string, threshold float64) (*documents.PlayerRecord, error) {
	raw, err := c.Client.Get(ctx, key(playerID, threshold)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var rec documents.PlayerRecord
	if err := json.Unmarshal(raw, &rec); err != nil {
		return nil, err
	}
	return &rec, nil
}

// Set armazena um registro com o TTL do cache
func (c *PlayersCache) Set(ctx context.Context, rec documents.PlayerRecord) error {
	b, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	return c.Client.Set(ctx, key(rec.PlayerID, rec.Threshold), b, c.TTL).Err()
}

// Invalidate remove um registro do cache (usado quando a partição muda)
func (c *PlayersCache) Invalidate(ctx context.Context, playerID string, threshold float64) error {
	return c.Client.Del(ctx, key(playerID, threshold)).Err()
}
