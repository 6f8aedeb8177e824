package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/radieske/picks-bet-platform/internal/picks-service/betbuilder"
	pcache "github.com/radieske/picks-bet-platform/internal/picks-service/cache"
	phttp "github.com/radieske/picks-bet-platform/internal/picks-service/http"
	"github.com/radieske/picks-bet-platform/internal/picks-service/ledger"
	"github.com/radieske/picks-bet-platform/internal/picks-service/pickstore"
	kpub "github.com/radieske/picks-bet-platform/internal/picks-service/producer"
	"github.com/radieske/picks-bet-platform/internal/picks-service/repo"
	sharedcache "github.com/radieske/picks-bet-platform/internal/shared/cache"
	"github.com/radieske/picks-bet-platform/internal/shared/config"
	"github.com/radieske/picks-bet-platform/internal/shared/db"
	skafka "github.com/radieske/picks-bet-platform/internal/shared/kafka"
	"github.com/radieske/picks-bet-platform/internal/shared/logger"
)

func main() {
	cfg := config.Load()
	log, _ := logger.New(cfg.ServiceName, cfg.Env)
	defer log.Sync()

	// Postgres
	pg, err := db.ConnectPostgres(cfg.PostgresDSN)
	if err != nil {
		log.Fatal("pg", zap.Error(err))
	}
	defer pg.Close()

	if err := repo.EnsureSchema(context.Background(), pg); err != nil {
		log.Fatal("schema", zap.Error(err))
	}

	// Redis (cache dos registros de análise ativos)
	rdb, err := sharedcache.ConnectRedis(cfg.RedisAddr)
	if err != nil {
		log.Fatal("redis", zap.Error(err))
	}
	defer rdb.Close()

	// Kafka writer (topic bet_status_changed)
	writer := skafka.NewWriter(cfg.KafkaBrokers, cfg.TopicBetStatusChanged)
	defer writer.Close()

	// deps
	repository := repo.NewPostgres(pg)
	players := pcache.NewPlayersCache(rdb, 60*time.Second)
	publ := kpub.NewKafkaPublisher(writer, cfg.TopicBetStatusChanged)

	picks := pickstore.New(log, repository)
	led := ledger.New(log, repository, publ)
	builder := betbuilder.New(log, picks, led)

	// HTTP público
	api := phttp.NewServer(log, picks, builder, led, repository, players)
	apiSrv := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.HTTPPort),
		Handler: api.Router(),
	}

	// metrics/health
	metricsMux := http.NewServeMux()
	metricsMux.Handle("/metrics", promhttp.Handler())
	metricsMux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		if err := pg.PingContext(r.Context()); err != nil {
			http.Error(w, "pg", http.StatusServiceUnavailable)
			return
		}
		if err := rdb.Ping(r.Context()).Err(); err != nil {
			http.Error(w, "redis", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	go func() {
		addr := fmt.Sprintf(":%s", cfg.MetricsPort)
		log.Info("metrics/health", zap.String("addr", addr))
		_ = http.ListenAndServe(addr, metricsMux)
	}()

	log.Info("picks-service listening", zap.String("addr", fmt.Sprintf(":%s", cfg.HTTPPort)))
	if err := apiSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal("api", zap.Error(err))
	}
}
