package main

import (
	"context"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/radieske/picks-bet-platform/internal/archiver"
	arepo "github.com/radieske/picks-bet-platform/internal/archiver/repo"
	"github.com/radieske/picks-bet-platform/internal/shared/config"
	"github.com/radieske/picks-bet-platform/internal/shared/db"
	skafka "github.com/radieske/picks-bet-platform/internal/shared/kafka"
	"github.com/radieske/picks-bet-platform/internal/shared/logger"
)

func main() {
	cfg := config.Load()
	log, err := logger.New(cfg.ServiceName, cfg.Env)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	// Postgres (destino das realocações)
	pg, err := db.ConnectPostgres(cfg.PostgresDSN)
	if err != nil {
		log.Fatal("postgres connect", zap.Error(err))
	}
	defer pg.Close()

	store := arepo.NewPostgres(pg)
	relocator := archiver.NewRelocator(log, store)

	// Consumers dos dois fluxos de mudança, cada um com sua DLQ
	betReader := skafka.NewReader(cfg.KafkaBrokers, cfg.TopicBetStatusChanged, "settlement-archiver")
	defer betReader.Close()
	playerReader := skafka.NewReader(cfg.KafkaBrokers, cfg.TopicPlayerStatusChanged, "settlement-archiver")
	defer playerReader.Close()

	betDLQ := skafka.NewWriter(cfg.KafkaBrokers, cfg.TopicBetStatusChangedDLQ)
	defer betDLQ.Close()
	playerDLQ := skafka.NewWriter(cfg.KafkaBrokers, cfg.TopicPlayerStatusChangedDLQ)
	defer playerDLQ.Close()

	// Métricas Prometheus do processamento
	consumed := prometheus.NewCounterVec(prometheus.CounterOpts{Name: "archiver_messages_consumed_total", Help: "mensagens consumidas"}, []string{"stream"})
	archived := prometheus.NewCounterVec(prometheus.CounterOpts{Name: "archiver_relocations_total", Help: "realocações concluídas"}, []string{"stream"})
	errorsBy := prometheus.NewCounterVec(prometheus.CounterOpts{Name: "archiver_errors_total", Help: "erros por estágio"}, []string{"stream", "stage"})
	prometheus.MustRegister(consumed, archived, errorsBy)

	betProc := &archiver.BetProcessor{
		Log:        log,
		Reader:     betReader,
		Relocator:  relocator,
		DLQ:        betDLQ,
		OnConsumed: func() { consumed.WithLabelValues("bets").Inc() },
		OnArchived: func() { archived.WithLabelValues("bets").Inc() },
		OnError:    func(stage string) { errorsBy.WithLabelValues("bets", stage).Inc() },
	}
	playerProc := &archiver.PlayerProcessor{
		Log:        log,
		Reader:     playerReader,
		Relocator:  relocator,
		DLQ:        playerDLQ,
		OnConsumed: func() { consumed.WithLabelValues("players").Inc() },
		OnArchived: func() { archived.WithLabelValues("players").Inc() },
		OnError:    func(stage string) { errorsBy.WithLabelValues("players", stage).Inc() },
	}

	// Servidor HTTP para métricas e health check
	go func() {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.Handler())
		mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
			if err := pg.PingContext(r.Context()); err != nil {
				http.Error(w, "pg", http.StatusServiceUnavailable)
				return
			}
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte("ok"))
		})
		addr := fmt.Sprintf(":%s", cfg.MetricsPort)
		log.Info("metrics/health listening", zap.String("addr", addr))
		_ = http.ListenAndServe(addr, mux)
	}()

	// Sinalização para shutdown gracioso (SIGINT/SIGTERM)
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	log.Info("settlement-archiver started")

	errCh := make(chan error, 2)
	go func() { errCh <- betProc.Run(ctx) }()
	go func() { errCh <- playerProc.Run(ctx) }()

	if err := <-errCh; err != nil && ctx.Err() == nil {
		log.Fatal("processor stopped with error", zap.Error(err))
	}
	log.Info("settlement-archiver stopped")
}
