package archiver

import (
	"context"
	"encoding/json"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/radieske/picks-bet-platform/pkg/contracts/events"
)

const (
	retries      = 3
	retryBackoff = 300 * time.Millisecond
)

// Reader é o subconjunto de kafka.Reader que os processors consomem.
type Reader interface {
	ReadMessage(ctx context.Context) (kafka.Message, error)
}

// DeadLetter recebe mensagens que não puderam ser processadas: payloads
// indecifráveis e realocações que esgotaram os retries.
type DeadLetter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
}

// BetProcessor consome eventos bet_status_changed e aplica a decisão de
// arquivamento. Mensagens que falham após os retries vão para a DLQ.
// Callbacks de métricas podem ser usadas para monitoramento de cada etapa.
type BetProcessor struct {
	Log       *zap.Logger
	Reader    Reader
	Relocator *Relocator
	DLQ       DeadLetter // opcional

	OnConsumed func()       // métricas (counter++)
	OnArchived func()       // métricas
	OnError    func(string) // métricas por fase
}

// Run inicia o loop principal de consumo
func (p *BetProcessor) Run(ctx context.Context) error {
	for {
		m, err := p.Reader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err() // encerra se o contexto for cancelado
			}
			p.Log.Warn("kafka read failed", zap.Error(err))
			fire(p.OnError, "read")
			time.Sleep(500 * time.Millisecond)
			continue
		}
		fire0(p.OnConsumed)

		var ev events.BetStatusChanged
		if err := json.Unmarshal(m.Value, &ev); err != nil {
			p.Log.Warn("invalid message", zap.Error(err))
			fire(p.OnError, "decode")
			deadLetter(ctx, p.DLQ, m)
			continue
		}

		moved, err := withRetry(ctx, func() (bool, error) {
			return p.Relocator.ArchiveBet(ctx, ev.Before, ev.After)
		})
		if err != nil {
			p.Log.Error("bet archival failed", zap.String("bet_id", ev.BetID), zap.Error(err))
			fire(p.OnError, "archive")
			deadLetter(ctx, p.DLQ, m)
			continue
		}
		if moved {
			fire0(p.OnArchived)
		}
	}
}

// PlayerProcessor consome eventos player_status_changed e realoca registros
// de análise entre as partições active/concluded.
type PlayerProcessor struct {
	Log       *zap.Logger
	Reader    Reader
	Relocator *Relocator
	DLQ       DeadLetter

	OnConsumed func()
	OnArchived func()
	OnError    func(string)
}

func (p *PlayerProcessor) Run(ctx context.Context) error {
	for {
		m, err := p.Reader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			p.Log.Warn("kafka read failed", zap.Error(err))
			fire(p.OnError, "read")
			time.Sleep(500 * time.Millisecond)
			continue
		}
		fire0(p.OnConsumed)

		var ev events.PlayerStatusChanged
		if err := json.Unmarshal(m.Value, &ev); err != nil {
			p.Log.Warn("invalid message", zap.Error(err))
			fire(p.OnError, "decode")
			deadLetter(ctx, p.DLQ, m)
			continue
		}

		moved, err := withRetry(ctx, func() (bool, error) {
			return p.Relocator.ArchivePlayer(ctx, ev.Before, ev.After)
		})
		if err != nil {
			p.Log.Error("player archival failed", zap.String("player_id", ev.PlayerID), zap.Error(err))
			fire(p.OnError, "archive")
			deadLetter(ctx, p.DLQ, m)
			continue
		}
		if moved {
			fire0(p.OnArchived)
		}
	}
}

// deadLetter encaminha o payload original (chave inclusa) para a DLQ
func deadLetter(ctx context.Context, dlq DeadLetter, m kafka.Message) {
	if dlq == nil {
		return
	}
	_ = dlq.WriteMessages(ctx, kafka.Message{
		Key:   m.Key,
		Value: m.Value,
		Time:  time.Now(),
	})
}

// withRetry tenta a realocação com backoff linear antes de desistir
func withRetry(ctx context.Context, fn func() (bool, error)) (bool, error) {
	moved, err := fn()
	for i := 0; err != nil && i < retries; i++ {
		select {
		case <-ctx.Done():
			return false, ctx.Err()
		case <-time.After(time.Duration(i+1) * retryBackoff):
		}
		moved, err = fn()
	}
	return moved, err
}

func fire0(f func()) {
	if f != nil {
		f()
	}
}

func fire(f func(string), phase string) {
	if f != nil {
		f(phase)
	}
}
