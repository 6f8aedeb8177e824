package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/radieske/picks-bet-platform/internal/analysis-ingest/publisher"
	"github.com/radieske/picks-bet-platform/pkg/contracts/events"
)

// WSClient consome o feed WebSocket do pipeline de análise e republica as
// mudanças de status de jogador em um tópico Kafka.
type WSClient struct {
	URL       string                    // URL do endpoint WebSocket do feed de análise
	Log       *zap.Logger               // Logger estruturado
	Publisher *publisher.KafkaPublisher // Publisher Kafka das mudanças
}

// Start inicia o loop de conexão e escuta do WebSocket.
// Em caso de desconexão, tenta reconectar automaticamente com backoff.
func (c *WSClient) Start(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			c.Log.Info("context canceled, stopping WS client")
			return
		default:
			if err := c.connectAndListen(ctx); err != nil {
				c.Log.Warn("connection closed", zap.Error(err))
				time.Sleep(3 * time.Second) // Aguarda antes de tentar reconectar
			}
		}
	}
}

// connectAndListen estabelece a conexão WebSocket e processa mensagens recebidas.
// Cada mensagem é desserializada e publicada no Kafka.
func (c *WSClient) connectAndListen(ctx context.Context) error {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, c.URL, nil)
	if err != nil {
		return err
	}
	defer conn.Close()
	c.Log.Info("connected to analysis feed WS", zap.String("url", c.URL))

	for {
		_, message, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsCloseError(err, websocket.CloseNormalClosure) || errors.Is(err, context.Canceled) {
				return nil
			}
			c.Log.Error("read message failed", zap.Error(err))
			return err
		}

		var change events.PlayerStatusChanged
		if err := json.Unmarshal(message, &change); err != nil {
			c.Log.Warn("invalid message", zap.Error(err))
			continue
		}
		if change.PlayerID == "" {
			c.Log.Warn("message without player id, skipping")
			continue
		}

		// Publica a mudança recebida no Kafka
		if err := c.Publisher.Publish(ctx, change); err != nil {
			c.Log.Error("failed to publish to Kafka", zap.Error(err))
		}
	}
}
