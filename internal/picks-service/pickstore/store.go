package pickstore

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/radieske/picks-bet-platform/internal/picks-service/domain"
	"github.com/radieske/picks-bet-platform/pkg/contracts/documents"
)

// Remote é o substrato de persistência do documento de picks do usuário
// (users/{userId}/picks). Escritas são last-write-wins por usuário.
type Remote interface {
	LoadPicks(ctx context.Context, userID string) ([]documents.Pick, error)
	SavePicks(ctx context.Context, userID string, picks []documents.Pick) error
}

// Store mantém as seleções candidatas de cada usuário na sessão corrente.
// O padrão é local-first, remote-confirmed: a mutação é aplicada na cópia
// local e persistida; se a escrita remota falhar, o estado local volta ao
// anterior e o erro sobe para o chamador (sem retry automático).
type Store struct {
	log    *zap.Logger
	remote Remote

	mu       sync.Mutex
	sessions map[string][]documents.Pick
}

func New(log *zap.Logger, remote Remote) *Store {
	return &Store{
		log:      log,
		remote:   remote,
		sessions: make(map[string][]documents.Pick),
	}
}

// session retorna a cópia local de picks do usuário, carregando do remoto
// na primeira chamada da sessão. Deve ser chamado com o mutex em posse.
func (s *Store) session(ctx context.Context, userID string) ([]documents.Pick, error) {
	if picks, ok := s.sessions[userID]; ok {
		return picks, nil
	}
	picks, err := s.remote.LoadPicks(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrRemoteUnavailable, err)
	}
	s.sessions[userID] = picks
	return picks, nil
}

// Add insere um pick na sessão do usuário. Falha com ErrCapacityExceeded se
// o usuário já segura MaxPicks, e com ErrDuplicatePick se um pick com o
// mesmo id derivado já existe. A inserção otimista é revertida se a escrita
// remota não for confirmada.
func (s *Store) Add(ctx context.Context, userID string, pick documents.Pick) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	picks, err := s.session(ctx, userID)
	if err != nil {
		return err
	}
	if len(picks) >= domain.MaxPicks {
		return domain.ErrCapacityExceeded
	}
	for _, p := range picks {
		if p.ID == pick.ID {
			return domain.ErrDuplicatePick
		}
	}

	updated := append(append([]documents.Pick(nil), picks...), pick)
	if err := s.remote.SavePicks(ctx, userID, updated); err != nil {
		// rollback: a sessão continua apontando para o slice anterior
		s.log.Warn("pick save failed, rolling back",
			zap.String("user_id", userID),
			zap.String("pick_id", pick.ID),
			zap.Error(err),
		)
		return fmt.Errorf("%w: %v", domain.ErrRemoteUnavailable, err)
	}

	s.sessions[userID] = updated
	return nil
}

// Remove tira um pick da sessão. Remover um id inexistente é sucesso
// silencioso, não erro: a UI pode disparar remoções concorrentes.
func (s *Store) Remove(ctx context.Context, userID, pickID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	picks, err := s.session(ctx, userID)
	if err != nil {
		return err
	}

	updated := make([]documents.Pick, 0, len(picks))
	for _, p := range picks {
		if p.ID != pickID {
			updated = append(updated, p)
		}
	}
	if len(updated) == len(picks) {
		return nil // no-op idempotente
	}

	if err := s.remote.SavePicks(ctx, userID, updated); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrRemoteUnavailable, err)
	}
	s.sessions[userID] = updated
	return nil
}

// RemoveBatch tira de uma vez o subconjunto de picks agrupado em uma aposta.
// Chamado pelo bet builder somente após a escrita no ledger ser confirmada;
// picks não selecionados permanecem intocados.
func (s *Store) RemoveBatch(ctx context.Context, userID string, pickIDs []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	picks, err := s.session(ctx, userID)
	if err != nil {
		return err
	}

	drop := make(map[string]struct{}, len(pickIDs))
	for _, id := range pickIDs {
		drop[id] = struct{}{}
	}

	updated := make([]documents.Pick, 0, len(picks))
	for _, p := range picks {
		if _, ok := drop[p.ID]; !ok {
			updated = append(updated, p)
		}
	}
	if len(updated) == len(picks) {
		return nil
	}

	if err := s.remote.SavePicks(ctx, userID, updated); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrRemoteUnavailable, err)
	}
	s.sessions[userID] = updated
	return nil
}

// Clear esvazia o conjunto de picks do usuário.
func (s *Store) Clear(ctx context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.session(ctx, userID); err != nil {
		return err
	}

	if err := s.remote.SavePicks(ctx, userID, []documents.Pick{}); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrRemoteUnavailable, err)
	}
	s.sessions[userID] = []documents.Pick{}
	return nil
}

// List retorna os picks em ordem de inserção. A ordem importa para exibição,
// não para correção.
func (s *Store) List(ctx context.Context, userID string) ([]documents.Pick, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	picks, err := s.session(ctx, userID)
	if err != nil {
		return nil, err
	}
	out := make([]documents.Pick, len(picks))
	copy(out, picks)
	return out, nil
}
