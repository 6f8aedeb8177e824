package results

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// Status de jogo reportados pelo backend de resultados.
const (
	StatusScheduled = "Scheduled"
	StatusLive      = "Live"
	StatusFinal     = "Final"
)

// PlayerResult é o desfecho individual de um jogador em um jogo.
// Points só é preenchido quando Status == Final.
type PlayerResult struct {
	PlayerName string `json:"playerName"`
	GameID     string `json:"gameId"`
	Status     string `json:"status"`
	Points     *int   `json:"points,omitempty"`
}

type lookupRequest struct {
	GameID     string `json:"gameId"`
	PlayerName string `json:"playerName"`
}

// Client consulta o backend estatístico externo por resultados finais.
type Client struct {
	BaseURL string
	HTTP    *http.Client
}

func New(base string) *Client {
	return &Client{
		BaseURL: base,
		HTTP:    &http.Client{Timeout: 5 * time.Second},
	}
}

// PlayerResult busca os pontos de um jogador em um jogo específico
func (c *Client) PlayerResult(ctx context.Context, gameID, playerName string) (*PlayerResult, error) {
	body, _ := json.Marshal(lookupRequest{GameID: gameID, PlayerName: playerName})
	req, _ := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/results/player", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	res, err := c.HTTP.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()
	if res.StatusCode >= 300 {
		return nil, fmt.Errorf("results http %d", res.StatusCode)
	}

	var out PlayerResult
	if err := json.NewDecoder(res.Body).Decode(&out); err != nil {
		return nil, err
	}
	return &out, nil
}
