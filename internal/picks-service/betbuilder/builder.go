package betbuilder

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/radieske/picks-bet-platform/internal/picks-service/domain"
	"github.com/radieske/picks-bet-platform/internal/picks-service/pickstore"
	"github.com/radieske/picks-bet-platform/pkg/contracts/documents"
)

// Ledger é a escrita no ledger de apostas ativas que o builder depende.
type Ledger interface {
	CreateActive(ctx context.Context, bet *documents.BetDocument) (string, error)
}

// BuildInput agrupa os parâmetros de criação de uma aposta.
type BuildInput struct {
	BetAmount         float64
	PotentialWinnings float64 // 0 => derivado pelo esquema 3x
	SelectedPickIDs   []string
	Platform          string
	PlatformName      string // obrigatório quando Platform == "Other"
	BetType           string
	GameDate          string // vazio => hoje
}

// Builder valida um subconjunto de picks + parâmetros de aposta e os
// converte em um snapshot imutável no ledger ativo.
type Builder struct {
	log    *zap.Logger
	picks  *pickstore.Store
	ledger Ledger
	now    func() time.Time
}

func New(log *zap.Logger, picks *pickstore.Store, ledger Ledger) *Builder {
	return &Builder{log: log, picks: picks, ledger: ledger, now: time.Now}
}

// BuildBet executa o fluxo de criação:
//  1. valida seleção, valor e plataforma — nenhuma escrita remota antes disso
//  2. congela os picks selecionados em cópias imutáveis
//  3. persiste a aposta com status Active
//  4. só depois da confirmação do ledger remove os picks agrupados
//
// Se a escrita no ledger falhar, nada é limpo: o pick store fica intocado e
// repetir a chamada com os mesmos ids é seguro.
func (b *Builder) BuildBet(ctx context.Context, userID string, in BuildInput) (string, error) {
	current, err := b.picks.List(ctx, userID)
	if err != nil {
		return "", err
	}

	selected := make(map[string]struct{}, len(in.SelectedPickIDs))
	for _, id := range in.SelectedPickIDs {
		selected[id] = struct{}{}
	}

	var chosen []documents.Pick
	for _, p := range current {
		if _, ok := selected[p.ID]; ok {
			chosen = append(chosen, p)
		}
	}

	if err := domain.ValidateNewBet(in.BetAmount, in.Platform, in.PlatformName, len(chosen)); err != nil {
		return "", err
	}

	winnings := in.PotentialWinnings
	if winnings <= 0 {
		winnings = domain.DefaultPotentialWinnings(in.BetAmount)
	}
	gameDate := in.GameDate
	if gameDate == "" {
		gameDate = b.now().UTC().Format("2006-01-02")
	}

	snapshots := make([]documents.PickSnapshot, 0, len(chosen))
	bundledIDs := make([]string, 0, len(chosen))
	for _, p := range chosen {
		snapshots = append(snapshots, domain.SnapshotPick(p))
		bundledIDs = append(bundledIDs, p.ID)
	}

	bet := &documents.BetDocument{
		UserID:            userID,
		BetAmount:         in.BetAmount,
		PotentialWinnings: winnings,
		BettingPlatform:   in.Platform,
		PlatformName:      in.PlatformName,
		BetType:           in.BetType,
		Status:            documents.BetStatusActive,
		GameDate:          gameDate,
		Picks:             snapshots,
		CreatedAt:         b.now().UTC(),
	}

	betID, err := b.ledger.CreateActive(ctx, bet)
	if err != nil {
		return "", err
	}

	// write-then-clear: a limpeza só acontece com o ledger confirmado.
	// Se a limpeza falhar, a aposta já existe; os picks remanescentes são
	// removíveis pelo usuário e não comprometem a aposta criada.
	if err := b.picks.RemoveBatch(ctx, userID, bundledIDs); err != nil {
		b.log.Warn("bet created but pick cleanup failed",
			zap.String("user_id", userID),
			zap.String("bet_id", betID),
			zap.Error(err),
		)
	}

	return betID, nil
}
