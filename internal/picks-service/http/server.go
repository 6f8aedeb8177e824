package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/radieske/picks-bet-platform/internal/picks-service/betbuilder"
	"github.com/radieske/picks-bet-platform/internal/picks-service/cache"
	"github.com/radieske/picks-bet-platform/internal/picks-service/domain"
	"github.com/radieske/picks-bet-platform/internal/picks-service/dto"
	"github.com/radieske/picks-bet-platform/internal/picks-service/ledger"
	"github.com/radieske/picks-bet-platform/internal/picks-service/pickstore"
	"github.com/radieske/picks-bet-platform/internal/picks-service/repo"
	"github.com/radieske/picks-bet-platform/pkg/contracts/documents"
)

type Server struct {
	log     *zap.Logger
	picks   *pickstore.Store
	builder *betbuilder.Builder
	ledger  *ledger.Ledger
	repo    *repo.Postgres
	players *cache.PlayersCache
}

func NewServer(log *zap.Logger, picks *pickstore.Store, b *betbuilder.Builder, l *ledger.Ledger, r *repo.Postgres, pc *cache.PlayersCache) *Server {
	return &Server{log: log, picks: picks, builder: b, ledger: l, repo: r, players: pc}
}

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Route("/v1/users/{userID}", func(r chi.Router) {
		r.Get("/picks", s.listPicks)
		r.Post("/picks", s.addPick)
		r.Delete("/picks/{pickID}", s.removePick)

		r.Get("/bets", s.listActiveBets)
		r.Post("/bets", s.buildBet)
		r.Patch("/bets/{betID}", s.updateBet)
		r.Delete("/bets/{betID}", s.cancelBet)
		r.Post("/bets/{betID}/status", s.setBetStatus)

		r.Get("/history", s.listHistory)
	})
	return r
}

func (s *Server) listPicks(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	picks, err := s.picks.List(r.Context(), userID)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.PicksResponse{Picks: picks})
}

func (s *Server) addPick(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	var req dto.AddPickRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad json", http.StatusBadRequest)
		return
	}
	if req.Player == "" || req.Threshold <= 0 {
		http.Error(w, "player and threshold required", http.StatusBadRequest)
		return
	}

	// O pick precisa referenciar um registro de análise ainda ativo.
	playerID := domain.DerivePlayerID(req.Player, req.Threshold)
	rec, err := s.lookupActivePlayer(r, playerID, req.Threshold)
	if err != nil {
		s.writeError(w, err)
		return
	}

	pick := domain.PickFromRecord(*rec)
	// valores do request prevalecem quando o registro não os carrega
	if pick.GameDate == "" {
		pick.GameDate = req.GameDate
		pick.ID = domain.DerivePickID(rec.Name, rec.Threshold, req.GameDate)
	}

	if err := s.picks.Add(r.Context(), userID, pick); err != nil {
		s.writeError(w, err)
		return
	}

	picks, err := s.picks.List(r.Context(), userID)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, dto.PicksResponse{Picks: picks})
}

// lookupActivePlayer resolve o registro de análise na partição ativa,
// cache primeiro, Postgres como fallback
func (s *Server) lookupActivePlayer(r *http.Request, playerID string, threshold float64) (*documents.PlayerRecord, error) {
	if rec, err := s.players.Get(r.Context(), playerID, threshold); err == nil && rec != nil {
		return rec, nil
	} else if err != nil {
		s.log.Warn("players cache read failed", zap.Error(err))
	}

	rec, err := s.repo.GetPlayerRecord(r.Context(), documents.PartitionActive, playerID, threshold)
	if err != nil {
		return nil, err
	}
	if err := s.players.Set(r.Context(), *rec); err != nil {
		s.log.Warn("players cache write failed", zap.Error(err))
	}
	return rec, nil
}

func (s *Server) removePick(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	pickID := chi.URLParam(r, "pickID")

	if err := s.picks.Remove(r.Context(), userID, pickID); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) buildBet(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	var req dto.BuildBetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad json", http.StatusBadRequest)
		return
	}

	betID, err := s.builder.BuildBet(r.Context(), userID, betbuilder.BuildInput{
		BetAmount:         req.BetAmount,
		PotentialWinnings: req.PotentialWinnings,
		SelectedPickIDs:   req.SelectedPickIDs,
		Platform:          req.BettingPlatform,
		PlatformName:      req.PlatformName,
		BetType:           req.BetType,
		GameDate:          req.GameDate,
	})
	if err != nil {
		s.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.BuildBetResponse{
		BetID:  betID,
		Status: documents.BetStatusActive,
	})
}

func (s *Server) listActiveBets(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	bets, err := s.ledger.ListActiveBets(r.Context(), userID)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.BetsResponse{Bets: bets})
}

func (s *Server) updateBet(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	betID := chi.URLParam(r, "betID")

	var req dto.UpdateBetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad json", http.StatusBadRequest)
		return
	}

	upd := ledger.BetUpdate{
		BetAmount:         req.BetAmount,
		PotentialWinnings: req.PotentialWinnings,
		Platform:          req.BettingPlatform,
		PlatformName:      req.PlatformName,
		BetType:           req.BetType,
	}
	if req.Picks != nil {
		upd.Picks = make([]documents.PickSnapshot, 0, len(req.Picks))
		for _, p := range req.Picks {
			upd.Picks = append(upd.Picks, documents.PickSnapshot{
				PlayerID:       p.PlayerID,
				PlayerName:     p.PlayerName,
				PlayerTeam:     p.PlayerTeam,
				Opponent:       p.Opponent,
				Threshold:      p.Threshold,
				Recommendation: p.Recommendation,
				PhotoURL:       p.PhotoURL,
				GameID:         p.GameID,
				GameDate:       p.GameDate,
				GameTime:       p.GameTime,
			})
		}
	}

	bet, err := s.ledger.UpdateBet(r.Context(), userID, betID, upd)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, bet)
}

func (s *Server) cancelBet(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	betID := chi.URLParam(r, "betID")

	// cancelar aposta já inexistente é sucesso silencioso
	if err := s.ledger.CancelBet(r.Context(), userID, betID); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) setBetStatus(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	betID := chi.URLParam(r, "betID")

	var req dto.SetStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad json", http.StatusBadRequest)
		return
	}
	if !documents.IsTerminalStatus(req.Status) {
		http.Error(w, "status must be terminal", http.StatusBadRequest)
		return
	}

	bet, err := s.ledger.SetStatus(r.Context(), userID, betID, req.Status, req.Winnings)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, bet)
}

func (s *Server) listHistory(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	bets, err := s.repo.ListHistory(r.Context(), userID)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.BetsResponse{Bets: bets})
}

// writeError mapeia a taxonomia de erros do domínio para códigos HTTP
func (s *Server) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrCapacityExceeded),
		errors.Is(err, domain.ErrDuplicatePick):
		writeJSON(w, http.StatusConflict, dto.ErrorResponse{Error: err.Error()})
	case errors.Is(err, domain.ErrInsufficientPicks),
		errors.Is(err, domain.ErrInvalidAmount),
		errors.Is(err, domain.ErrMissingPlatformName),
		errors.Is(err, domain.ErrEmptyPickSet),
		errors.Is(err, domain.ErrUnknownPick):
		writeJSON(w, http.StatusUnprocessableEntity, dto.ErrorResponse{Error: err.Error()})
	case errors.Is(err, domain.ErrNotFound):
		writeJSON(w, http.StatusNotFound, dto.ErrorResponse{Error: "not found"})
	case errors.Is(err, domain.ErrRemoteUnavailable):
		writeJSON(w, http.StatusBadGateway, dto.ErrorResponse{Error: err.Error()})
	default:
		s.log.Error("internal error", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Error: "internal error"})
	}
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}
