package main

import (
	"encoding/json"
	"fmt"
	"math/rand"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/radieske/picks-bet-platform/internal/picks-service/domain"
	"github.com/radieske/picks-bet-platform/internal/shared/config"
	"github.com/radieske/picks-bet-platform/internal/shared/logger"
	"github.com/radieske/picks-bet-platform/internal/sweep/results"
	"github.com/radieske/picks-bet-platform/pkg/contracts/documents"
	"github.com/radieske/picks-bet-platform/pkg/contracts/events"
)

var (
	upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     func(r *http.Request) bool { return true },
	}

	// Catálogo fixo de jogadores simulados para o ciclo de jogos
	playerCatalog = []documents.PlayerRecord{
		{Name: "LeBron James", Team: "LAL", Opponent: "BOS", Threshold: 25.5, Recommendation: documents.RecommendationOver, GameID: "GAME_001", GameTime: "19:30"},
		{Name: "Jayson Tatum", Team: "BOS", Opponent: "LAL", Threshold: 27.5, Recommendation: documents.RecommendationUnder, GameID: "GAME_001", GameTime: "19:30"},
		{Name: "Stephen Curry", Team: "GSW", Opponent: "DEN", Threshold: 29.5, Recommendation: documents.RecommendationOver, GameID: "GAME_002", GameTime: "22:00"},
		{Name: "Nikola Jokic", Team: "DEN", Opponent: "GSW", Threshold: 24.5, Recommendation: documents.RecommendationUnder, GameID: "GAME_002", GameTime: "22:00"},
	}

	// Métricas Prometheus para monitoramento de conexões e mensagens
	wsConnections = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "results_ws_connections",
		Help: "Clientes WebSocket conectados",
	})
	wsMessagesSent = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "results_ws_messages_sent_total",
		Help: "Total de mensagens WS enviadas",
	})
	lookupsServed = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "results_player_lookups_total",
		Help: "Consultas de resultado atendidas",
	})
)

// Representa uma conexão de cliente WebSocket
type clientConn struct {
	id   string
	conn *websocket.Conn
}

// Estrutura responsável por gerenciar os clientes conectados via WebSocket
// e realizar broadcast de mensagens para todos eles.
type hub struct {
	mu      sync.RWMutex
	clients map[string]*clientConn
	log     *zap.Logger
}

func newHub(log *zap.Logger) *hub {
	return &hub{
		clients: make(map[string]*clientConn),
		log:     log,
	}
}

func (h *hub) add(c *clientConn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[c.id] = c
	wsConnections.Inc()
	h.log.Info("ws client connected", zap.String("client_id", c.id))
}

func (h *hub) remove(id string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[id]; ok {
		delete(h.clients, id)
		wsConnections.Dec()
		h.log.Info("ws client disconnected", zap.String("client_id", id))
	}
}

// Envia uma mensagem para todos os clientes conectados
func (h *hub) broadcast(v any) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	msg, _ := json.Marshal(v)
	for id, c := range h.clients {
		c.conn.SetWriteDeadline(time.Now().Add(2 * time.Second))
		if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			h.log.Warn("ws write failed", zap.String("client_id", id), zap.Error(err))
			_ = c.conn.Close()
		} else {
			wsMessagesSent.Inc()
		}
	}
}

// world mantém o estado simulado: cada jogo avança
// Scheduled -> Live -> Concluded e, ao concluir, ganha pontos finais por
// jogador. Depois de um ciclo completo os jogos reiniciam em uma nova data.
type world struct {
	mu      sync.RWMutex
	records map[string]*documents.PlayerRecord // playerID -> registro corrente
	points  map[string]int                     // playerID -> pontos finais
	byGame  map[string][]string                // gameID -> playerIDs
	status  map[string]string                  // gameID -> gameStatus
	log     *zap.Logger
}

func newWorld(log *zap.Logger) *world {
	w := &world{
		records: make(map[string]*documents.PlayerRecord),
		points:  make(map[string]int),
		byGame:  make(map[string][]string),
		status:  make(map[string]string),
		log:     log,
	}
	w.reset()
	return w
}

// reset reinicia todos os jogos como agendados para a data de hoje
func (w *world) reset() {
	w.mu.Lock()
	defer w.mu.Unlock()

	today := time.Now().UTC().Format("2006-01-02")
	w.points = make(map[string]int)
	w.byGame = make(map[string][]string)

	for i := range playerCatalog {
		rec := playerCatalog[i]
		rec.GameDate = today
		rec.GameStatus = documents.GameStatusScheduled
		rec.PlayerID = domain.DerivePlayerID(rec.Name, rec.Threshold)
		w.records[rec.PlayerID] = &rec
		w.byGame[rec.GameID] = append(w.byGame[rec.GameID], rec.PlayerID)
		w.status[rec.GameID] = documents.GameStatusScheduled
	}
}

// advance move um jogo aleatório para o próximo status e retorna as
// transições de jogador geradas (before, after).
func (w *world) advance() []events.PlayerStatusChanged {
	w.mu.Lock()
	defer w.mu.Unlock()

	gameIDs := make([]string, 0, len(w.status))
	for id, st := range w.status {
		if st != documents.GameStatusConcluded {
			gameIDs = append(gameIDs, id)
		}
	}
	if len(gameIDs) == 0 {
		// todos concluídos: próximo tick reinicia o ciclo
		return nil
	}
	gameID := gameIDs[rand.Intn(len(gameIDs))]

	next := documents.GameStatusLive
	if w.status[gameID] == documents.GameStatusLive {
		next = documents.GameStatusConcluded
	}
	w.status[gameID] = next

	var changes []events.PlayerStatusChanged
	for _, pid := range w.byGame[gameID] {
		rec := w.records[pid]
		before := *rec
		rec.GameStatus = next
		if next == documents.GameStatusConcluded {
			// pontos finais em torno do threshold, pra cair HIT ou MISS
			w.points[pid] = int(rec.Threshold) + rand.Intn(11) - 5
		}
		after := *rec
		changes = append(changes, events.PlayerStatusChanged{
			PlayerID:  pid,
			Threshold: rec.Threshold,
			Before:    &before,
			After:     &after,
			Ts:        time.Now().UTC(),
		})
	}
	w.log.Info("game advanced", zap.String("game_id", gameID), zap.String("status", next))
	return changes
}

// allConcluded indica se o ciclo terminou
func (w *world) allConcluded() bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	for _, st := range w.status {
		if st != documents.GameStatusConcluded {
			return false
		}
	}
	return true
}

// lookup resolve o resultado de um jogador em um jogo
func (w *world) lookup(gameID, playerName string) *results.PlayerResult {
	w.mu.RLock()
	defer w.mu.RUnlock()

	for pid, rec := range w.records {
		if rec.GameID != gameID || rec.Name != playerName {
			continue
		}
		out := &results.PlayerResult{
			PlayerName: playerName,
			GameID:     gameID,
			Status:     wireStatus(rec.GameStatus),
		}
		if rec.GameStatus == documents.GameStatusConcluded {
			pts := w.points[pid]
			out.Points = &pts
		}
		return out
	}
	return nil
}

// wireStatus traduz o status interno para o vocabulário do endpoint de
// resultados ("Concluded" sai como "Final")
func wireStatus(gameStatus string) string {
	if gameStatus == documents.GameStatusConcluded {
		return results.StatusFinal
	}
	return gameStatus
}

type lookupReq struct {
	GameID     string `json:"gameId"`
	PlayerName string `json:"playerName"`
}

func main() {
	cfg := config.Load()
	log, err := logger.New(cfg.ServiceName, cfg.Env)
	if err != nil {
		panic(err)
	}
	defer log.Sync()
	rand.Seed(time.Now().UnixNano())

	prometheus.MustRegister(wsConnections, wsMessagesSent, lookupsServed)

	h := newHub(log)
	w := newWorld(log)

	// Avança o mundo simulado e transmite as transições a cada 20 segundos
	go func() {
		ticker := time.NewTicker(20 * time.Second)
		defer ticker.Stop()
		for range ticker.C {
			if w.allConcluded() {
				log.Info("cycle finished, resetting games")
				w.reset()
				continue
			}
			for _, change := range w.advance() {
				h.broadcast(change)
			}
		}
	}()

	// ==== MUX PÚBLICO (HTTP principal): /ws e /results/player
	appMux := http.NewServeMux()

	appMux.HandleFunc("/ws", func(rw http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(rw, r, nil)
		if err != nil {
			log.Warn("ws upgrade failed", zap.Error(err))
			return
		}
		id := fmt.Sprintf("%d", time.Now().UnixNano())
		c := &clientConn{id: id, conn: conn}
		h.add(c)

		// Goroutine para manter a conexão viva e remover cliente ao desconectar
		go func() {
			defer func() {
				h.remove(id)
				_ = conn.Close()
			}()
			_ = conn.SetReadDeadline(time.Time{})
			for {
				if _, _, err := conn.ReadMessage(); err != nil {
					return
				}
			}
		}()
	})

	appMux.HandleFunc("/results/player", func(rw http.ResponseWriter, r *http.Request) {
		defer r.Body.Close()

		var req lookupReq
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(rw, "bad request", http.StatusBadRequest)
			return
		}

		res := w.lookup(req.GameID, req.PlayerName)
		if res == nil {
			http.Error(rw, "player not found", http.StatusNotFound)
			return
		}
		lookupsServed.Inc()

		rw.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(rw).Encode(res)
	})

	// ==== MUX DE MÉTRICAS (/healthz, /metrics)
	metricsMux := http.NewServeMux()
	metricsMux.HandleFunc("/healthz", func(rw http.ResponseWriter, r *http.Request) {
		rw.WriteHeader(http.StatusOK)
		_, _ = rw.Write([]byte("ok"))
	})
	metricsMux.Handle("/metrics", promhttp.Handler())

	go func() {
		metricsAddr := fmt.Sprintf(":%s", cfg.MetricsPort)
		log.Info("results simulator (metrics) running",
			zap.String("addr", metricsAddr),
			zap.String("paths", "/healthz,/metrics"),
		)
		if err := http.ListenAndServe(metricsAddr, metricsMux); err != nil {
			log.Fatal("metrics server error", zap.Error(err))
		}
	}()

	publicAddr := fmt.Sprintf(":%s", cfg.HTTPPort)
	log.Info("results simulator (public) running",
		zap.String("addr", publicAddr),
		zap.String("paths", "/ws,/results/player"),
	)
	if err := http.ListenAndServe(publicAddr, appMux); err != nil {
		log.Fatal("public server error", zap.Error(err))
	}
}
