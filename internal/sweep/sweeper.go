package sweep

import (
	"context"

	"go.uber.org/zap"

	"github.com/radieske/picks-bet-platform/internal/archiver"
	"github.com/radieske/picks-bet-platform/internal/sweep/results"
	"github.com/radieske/picks-bet-platform/pkg/contracts/documents"
)

// Repo são as operações do ledger ativo usadas pela varredura.
type Repo interface {
	ListUserIDs(ctx context.Context) ([]string, error)
	ListActive(ctx context.Context, userID string) ([]documents.BetDocument, error)
	UpdateActive(ctx context.Context, b *documents.BetDocument) error
}

// Resolver busca o desfecho de um jogador junto ao backend de resultados.
type Resolver interface {
	PlayerResult(ctx context.Context, gameID, playerName string) (*results.PlayerResult, error)
}

// Sweeper é a rede de segurança da liquidação: varre o ledger ativo inteiro
// em intervalos fixos e resolve qualquer aposta que os eventos tenham
// perdido. Cada passada é idempotente — uma aposta liquidada sai do ledger,
// então a próxima varredura simplesmente não a encontra.
type Sweeper struct {
	Log       *zap.Logger
	Repo      Repo
	Results   Resolver
	Relocator *archiver.Relocator

	OnSwept   func()       // métricas: apostas examinadas
	OnSettled func()       // métricas: apostas liquidadas
	OnError   func(string) // métricas por fase
}

// SweepAll varre todos os usuários com apostas ativas. Falhas em um usuário
// não interrompem os demais.
func (s *Sweeper) SweepAll(ctx context.Context) error {
	users, err := s.Repo.ListUserIDs(ctx)
	if err != nil {
		s.fireErr("list_users")
		return err
	}

	for _, userID := range users {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err := s.sweepUser(ctx, userID); err != nil {
			s.Log.Warn("user sweep failed", zap.String("user_id", userID), zap.Error(err))
			s.fireErr("sweep_user")
		}
	}
	return nil
}

func (s *Sweeper) sweepUser(ctx context.Context, userID string) error {
	bets, err := s.Repo.ListActive(ctx, userID)
	if err != nil {
		return err
	}

	for i := range bets {
		if err := s.sweepBet(ctx, &bets[i]); err != nil {
			s.Log.Warn("bet sweep failed",
				zap.String("user_id", userID),
				zap.String("bet_id", bets[i].ID),
				zap.Error(err),
			)
			s.fireErr("sweep_bet")
		}
	}
	return nil
}

// sweepBet resolve os picks pendentes de uma aposta. Se todos os jogos
// concluíram, a aposta é graduada e realocada para o histórico; se apenas
// parte concluiu, os resultados parciais são persistidos e a aposta segue
// ativa até a próxima passada.
func (s *Sweeper) sweepBet(ctx context.Context, bet *documents.BetDocument) error {
	if s.OnSwept != nil {
		s.OnSwept()
	}

	// status já terminal encalhado no ledger (liquidação registrada, evento
	// perdido): não há o que re-graduar, só terminar a realocação
	if documents.IsTerminalStatus(bet.Status) {
		if err := s.Relocator.RelocateBet(ctx, bet); err != nil {
			return err
		}
		if s.OnSettled != nil {
			s.OnSettled()
		}
		return nil
	}

	allFinal := true
	changed := false

	for i := range bet.Picks {
		p := &bet.Picks[i]
		if p.Result != "" && p.ActualPoints != nil {
			continue // já resolvido em passada anterior
		}

		res, err := s.Results.PlayerResult(ctx, p.GameID, p.PlayerName)
		if err != nil {
			// backend fora do ar não trava a varredura; tenta de novo depois
			s.Log.Warn("result lookup failed",
				zap.String("player", p.PlayerName),
				zap.String("game_id", p.GameID),
				zap.Error(err),
			)
			s.fireErr("lookup")
			allFinal = false
			continue
		}

		if res.Status != results.StatusFinal || res.Points == nil {
			allFinal = false
			if p.GameStatus != res.Status {
				p.GameStatus = res.Status
				changed = true
			}
			continue
		}

		p.GameStatus = results.StatusFinal
		p.ActualPoints = res.Points
		p.Result = GradePick(*p, *res.Points)
		changed = true
	}

	if !allFinal {
		if changed {
			return s.Repo.UpdateActive(ctx, bet)
		}
		return nil
	}

	status, winnings := GradeBet(bet.BetType, bet.Picks, bet.PotentialWinnings)
	bet.Status = status
	bet.Winnings = winnings

	if err := s.Relocator.RelocateBet(ctx, bet); err != nil {
		return err
	}
	if s.OnSettled != nil {
		s.OnSettled()
	}
	return nil
}

func (s *Sweeper) fireErr(phase string) {
	if s.OnError != nil {
		s.OnError(phase)
	}
}
