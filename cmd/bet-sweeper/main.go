package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/radieske/picks-bet-platform/internal/archiver"
	arepo "github.com/radieske/picks-bet-platform/internal/archiver/repo"
	prepo "github.com/radieske/picks-bet-platform/internal/picks-service/repo"
	"github.com/radieske/picks-bet-platform/internal/shared/config"
	"github.com/radieske/picks-bet-platform/internal/shared/db"
	"github.com/radieske/picks-bet-platform/internal/shared/logger"
	"github.com/radieske/picks-bet-platform/internal/shared/metrics"
	"github.com/radieske/picks-bet-platform/internal/sweep"
	"github.com/radieske/picks-bet-platform/internal/sweep/results"
)

func main() {
	cfg := config.Load()
	log, err := logger.New(cfg.ServiceName, cfg.Env)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	pg, err := db.ConnectPostgres(cfg.PostgresDSN)
	if err != nil {
		log.Fatal("postgres connect", zap.Error(err))
	}
	defer pg.Close()

	// Métricas Prometheus da varredura
	swept := prometheus.NewCounter(prometheus.CounterOpts{Name: "sweeper_bets_examined_total", Help: "apostas examinadas"})
	settled := prometheus.NewCounter(prometheus.CounterOpts{Name: "sweeper_bets_settled_total", Help: "apostas liquidadas e arquivadas"})
	errorsBy := prometheus.NewCounterVec(prometheus.CounterOpts{Name: "sweeper_errors_total", Help: "erros por estágio"}, []string{"stage"})
	lastRun := prometheus.NewGauge(prometheus.GaugeOpts{Name: "sweeper_last_run_timestamp", Help: "timestamp unix da última varredura"})
	prometheus.MustRegister(swept, settled, errorsBy, lastRun)

	sweeper := &sweep.Sweeper{
		Log:       log,
		Repo:      prepo.NewPostgres(pg),
		Results:   results.New(cfg.ResultsBaseURL),
		Relocator: archiver.NewRelocator(log, arepo.NewPostgres(pg)),
		OnSwept:   func() { swept.Inc() },
		OnSettled: func() { settled.Inc() },
		OnError:   func(stage string) { errorsBy.WithLabelValues(stage).Inc() },
	}

	// Servidor de métricas e health check
	log.Info("metrics/health listening", zap.String("addr", fmt.Sprintf(":%s", cfg.MetricsPort)))
	metrics.StartMetricsServer(cfg.MetricsPort, func(ctx context.Context) error {
		return pg.PingContext(ctx)
	})

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	log.Info("bet-sweeper started", zap.Duration("interval", cfg.SweepInterval))

	// Uma passada imediata na subida, depois o intervalo fixo
	runSweep(ctx, log, sweeper, lastRun)

	ticker := time.NewTicker(cfg.SweepInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			log.Info("bet-sweeper stopped")
			return
		case <-ticker.C:
			runSweep(ctx, log, sweeper, lastRun)
		}
	}
}

func runSweep(ctx context.Context, log *zap.Logger, s *sweep.Sweeper, lastRun prometheus.Gauge) {
	start := time.Now()
	if err := s.SweepAll(ctx); err != nil && ctx.Err() == nil {
		log.Error("sweep failed", zap.Error(err))
		return
	}
	lastRun.SetToCurrentTime()
	log.Info("sweep finished", zap.Duration("took", time.Since(start)))
}
