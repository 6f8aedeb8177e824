package ledger

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/radieske/picks-bet-platform/internal/picks-service/domain"
	"github.com/radieske/picks-bet-platform/pkg/contracts/documents"
	"github.com/radieske/picks-bet-platform/pkg/contracts/events"
)

// Repo é a persistência do ledger de apostas ativas.
type Repo interface {
	InsertActive(ctx context.Context, bet *documents.BetDocument) (string, error)
	GetActive(ctx context.Context, userID, betID string) (*documents.BetDocument, error)
	UpdateActive(ctx context.Context, bet *documents.BetDocument) error
	DeleteActive(ctx context.Context, userID, betID string) (bool, error)
	ListActive(ctx context.Context, userID string) ([]documents.BetDocument, error)
}

// Publisher emite eventos de mudança de status para o runtime de triggers.
type Publisher interface {
	PublishBetStatusChanged(ctx context.Context, ev events.BetStatusChanged) error
}

// BetUpdate é a atualização parcial permitida em uma aposta ativa.
// Campos nil permanecem como estão. Picks == nil mantém o conjunto atual;
// um slice vazio é rejeitado com ErrEmptyPickSet. Editar picks é escolher um
// subconjunto dos snapshots existentes, nunca introduzir picks novos.
type BetUpdate struct {
	BetAmount         *float64
	PotentialWinnings *float64
	Platform          *string
	PlatformName      *string
	BetType           *string
	Picks             []documents.PickSnapshot
}

// Ledger guarda apostas feitas cujo desfecho ainda não é conhecido.
// Editar é uma auto-transição (continua Active); cancelar apaga o documento
// sem deixar registro histórico — "retirada" é diferente de "liquidada".
type Ledger struct {
	log  *zap.Logger
	repo Repo
	publ Publisher
}

func New(log *zap.Logger, repo Repo, publ Publisher) *Ledger {
	return &Ledger{log: log, repo: repo, publ: publ}
}

// CreateActive persiste uma nova aposta com status Active e retorna o id
// atribuído pelo store.
func (l *Ledger) CreateActive(ctx context.Context, bet *documents.BetDocument) (string, error) {
	return l.repo.InsertActive(ctx, bet)
}

// CancelBet apaga a entrada do ledger incondicionalmente. Cancelar um id que
// não existe mais é sucesso silencioso (a UI pode correr com o arquivador).
func (l *Ledger) CancelBet(ctx context.Context, userID, betID string) error {
	deleted, err := l.repo.DeleteActive(ctx, userID, betID)
	if err != nil {
		return err
	}
	if !deleted {
		l.log.Debug("cancel on missing bet, ignoring",
			zap.String("user_id", userID),
			zap.String("bet_id", betID),
		)
	}
	return nil
}

// UpdateBet aplica uma atualização parcial em uma aposta ativa. Atualizar uma
// aposta inexistente é erro (diferente do cancel). Quando o valor muda e o
// chamador não informa o prêmio, ele é re-derivado pelo esquema 3x.
func (l *Ledger) UpdateBet(ctx context.Context, userID, betID string, upd BetUpdate) (*documents.BetDocument, error) {
	bet, err := l.repo.GetActive(ctx, userID, betID)
	if err != nil {
		return nil, err
	}

	if upd.Picks != nil && len(upd.Picks) == 0 {
		return nil, domain.ErrEmptyPickSet
	}

	// a edição de picks só escolhe um subconjunto dos snapshots já na aposta;
	// os snapshots originais prevalecem sobre o que o chamador enviou
	var subset []documents.PickSnapshot
	if upd.Picks != nil {
		current := make(map[string]documents.PickSnapshot, len(bet.Picks))
		for _, p := range bet.Picks {
			current[p.PlayerID] = p
		}
		keep := make(map[string]struct{}, len(upd.Picks))
		for _, p := range upd.Picks {
			if _, ok := current[p.PlayerID]; !ok {
				return nil, domain.ErrUnknownPick
			}
			keep[p.PlayerID] = struct{}{}
		}
		for _, p := range bet.Picks {
			if _, ok := keep[p.PlayerID]; ok {
				subset = append(subset, p)
			}
		}
	}

	if upd.BetAmount != nil {
		if *upd.BetAmount <= 0 {
			return nil, domain.ErrInvalidAmount
		}
		bet.BetAmount = *upd.BetAmount
		if upd.PotentialWinnings == nil {
			bet.PotentialWinnings = domain.DefaultPotentialWinnings(bet.BetAmount)
		}
	}
	if upd.PotentialWinnings != nil {
		bet.PotentialWinnings = *upd.PotentialWinnings
	}
	if upd.Platform != nil {
		if *upd.Platform == documents.PlatformOther {
			name := bet.PlatformName
			if upd.PlatformName != nil {
				name = *upd.PlatformName
			}
			if name == "" {
				return nil, domain.ErrMissingPlatformName
			}
		}
		bet.BettingPlatform = *upd.Platform
	}
	if upd.PlatformName != nil {
		bet.PlatformName = *upd.PlatformName
	}
	if upd.BetType != nil {
		bet.BetType = *upd.BetType
	}
	if upd.Picks != nil {
		bet.Picks = subset
	}

	if err := l.repo.UpdateActive(ctx, bet); err != nil {
		return nil, err
	}
	return bet, nil
}

// SetStatus registra um sinal externo de liquidação: muda o status da aposta
// e publica o par (before, after) para o consumidor de arquivamento decidir.
// A realocação em si acontece no settlement-archiver, não aqui.
func (l *Ledger) SetStatus(ctx context.Context, userID, betID, status string, winnings float64) (*documents.BetDocument, error) {
	bet, err := l.repo.GetActive(ctx, userID, betID)
	if err != nil {
		return nil, err
	}

	before := *bet
	bet.Status = status
	bet.Winnings = winnings
	if err := l.repo.UpdateActive(ctx, bet); err != nil {
		return nil, err
	}

	ev := events.BetStatusChanged{
		UserID: userID,
		BetID:  betID,
		Before: &before,
		After:  bet,
		Ts:     time.Now().UTC(),
	}
	if err := l.publ.PublishBetStatusChanged(ctx, ev); err != nil {
		// o sweep periódico é o catch-up idempotente quando o evento se perde
		l.log.Warn("bet status event publish failed",
			zap.String("bet_id", betID),
			zap.Error(err),
		)
	}
	return bet, nil
}

// ListActiveBets retorna as apostas não-terminais do usuário, cada uma com o
// snapshot completo de picks.
func (l *Ledger) ListActiveBets(ctx context.Context, userID string) ([]documents.BetDocument, error) {
	return l.repo.ListActive(ctx, userID)
}

// IsNotFound reporta se o erro é a ausência da aposta.
func IsNotFound(err error) bool {
	return errors.Is(err, domain.ErrNotFound)
}
