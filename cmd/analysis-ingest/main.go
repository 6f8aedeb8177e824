package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/radieske/picks-bet-platform/internal/analysis-ingest/publisher"
	"github.com/radieske/picks-bet-platform/internal/analysis-ingest/service"
	"github.com/radieske/picks-bet-platform/internal/shared/config"
	"github.com/radieske/picks-bet-platform/internal/shared/logger"
	"github.com/radieske/picks-bet-platform/internal/shared/metrics"
)

func main() {
	cfg := config.Load()
	log, err := logger.New(cfg.ServiceName, cfg.Env)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	log.Info("Kafka brokers", zap.String("brokers", cfg.KafkaBrokers))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Kafka Publisher
	pub := publisher.NewKafkaPublisher(
		strings.Split(cfg.KafkaBrokers, ","),
		cfg.TopicPlayerStatusChanged,
		log,
	)
	defer pub.Close()

	// WS Client
	wsClient := &service.WSClient{
		URL:       cfg.AnalysisFeedURL,
		Log:       log,
		Publisher: pub,
	}
	go wsClient.Start(ctx)

	// Metrics e health
	log.Info("metrics/health listening", zap.String("addr", fmt.Sprintf(":%s", cfg.MetricsPort)))
	metrics.StartMetricsServer(cfg.MetricsPort, func(context.Context) error { return nil })

	// graceful shutdown
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	log.Info("shutdown signal received")
	cancel()
	time.Sleep(2 * time.Second)
}
