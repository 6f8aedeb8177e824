package archiver

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/radieske/picks-bet-platform/pkg/contracts/documents"
)

// Store são as operações de realocação no document store. As escritas de
// destino são upserts idempotentes e os deletes de origem são no-op quando
// o documento já se foi, então repetir uma realocação é seguro.
type Store interface {
	CopyBetToHistory(ctx context.Context, bet *documents.BetDocument) error
	DeleteActiveBet(ctx context.Context, userID, betID string) error
	CopyPlayerToConcluded(ctx context.Context, rec *documents.PlayerRecord) error
	DeleteActivePlayer(ctx context.Context, playerID string, threshold float64) error
}

// Relocator executa a realocação write-then-delete. A ordem é obrigatória:
// se o delete falhar depois da cópia, o registro existe em dois lugares
// (duplicado, não perdido) e a próxima passada idempotente resolve; a ordem
// inversa arriscaria perda silenciosa e não é permitida.
type Relocator struct {
	Log   *zap.Logger
	Store Store
}

func NewRelocator(log *zap.Logger, store Store) *Relocator {
	return &Relocator{Log: log, Store: store}
}

// ArchiveBet aplica a decisão sobre o par (before, after) e, quando
// positiva, move a aposta para o histórico. Retorna se houve realocação.
func (r *Relocator) ArchiveBet(ctx context.Context, before, after *documents.BetDocument) (bool, error) {
	if !ShouldArchiveBet(before, after) {
		return false, nil
	}
	if err := r.RelocateBet(ctx, after); err != nil {
		return false, err
	}
	return true, nil
}

// RelocateBet move a aposta para o histórico incondicionalmente, sem comparar
// status. É o caminho do sweep: uma entrada do ledger com status já terminal
// (liquidação registrada mas evento perdido) também precisa sair daqui.
func (r *Relocator) RelocateBet(ctx context.Context, bet *documents.BetDocument) error {
	archived := *bet
	if archived.SettledAt == nil {
		now := time.Now().UTC()
		archived.SettledAt = &now
	}

	if err := r.Store.CopyBetToHistory(ctx, &archived); err != nil {
		return fmt.Errorf("copy bet to history: %w", err)
	}
	if err := r.Store.DeleteActiveBet(ctx, archived.UserID, archived.ID); err != nil {
		// duplicação tolerada; a re-execução do mesmo passo se cura sozinha
		r.Log.Warn("history written but ledger delete failed",
			zap.String("user_id", archived.UserID),
			zap.String("bet_id", archived.ID),
			zap.Error(err),
		)
		return nil
	}

	r.Log.Info("bet archived",
		zap.String("user_id", archived.UserID),
		zap.String("bet_id", archived.ID),
		zap.String("status", archived.Status),
	)
	return nil
}

// ArchivePlayer move um registro de análise da partição ativa para a
// concluída, com a mesma garantia de ordem do ArchiveBet.
func (r *Relocator) ArchivePlayer(ctx context.Context, before, after *documents.PlayerRecord) (bool, error) {
	if !ShouldArchivePlayer(before, after) {
		return false, nil
	}

	if err := r.Store.CopyPlayerToConcluded(ctx, after); err != nil {
		return false, fmt.Errorf("copy player to concluded: %w", err)
	}
	if err := r.Store.DeleteActivePlayer(ctx, after.PlayerID, after.Threshold); err != nil {
		r.Log.Warn("concluded written but active delete failed",
			zap.String("player_id", after.PlayerID),
			zap.Float64("threshold", after.Threshold),
			zap.Error(err),
		)
		return true, nil
	}

	r.Log.Info("player record archived",
		zap.String("player_id", after.PlayerID),
		zap.Float64("threshold", after.Threshold),
	)
	return true, nil
}
