package dto

// AddPickRequest é o aceite de uma análise de jogador como seleção candidata.
// O id do pick é derivado no servidor (nome + threshold + data do jogo).
type AddPickRequest struct {
	Player         string  `json:"player"`
	Team           string  `json:"team"`
	Opponent       string  `json:"opponent"`
	Threshold      float64 `json:"threshold"`
	Recommendation string  `json:"recommendation"` // "OVER" | "UNDER"
	PhotoURL       string  `json:"photoUrl,omitempty"`
	GameID         string  `json:"gameId,omitempty"`
	GameDate       string  `json:"gameDate"`
	GameTime       string  `json:"gameTime,omitempty"`
}

type BuildBetRequest struct {
	BetAmount         float64  `json:"betAmount"`
	PotentialWinnings float64  `json:"potentialWinnings,omitempty"` // 0 => esquema 3x
	SelectedPickIDs   []string `json:"selectedPickIds"`
	BettingPlatform   string   `json:"bettingPlatform"` // PrizePicks | Underdog | Other
	PlatformName      string   `json:"platformName,omitempty"`
	BetType           string   `json:"betType"` // ex: "Power Play"
	GameDate          string   `json:"gameDate,omitempty"`
}

// UpdateBetRequest é a atualização parcial de uma aposta ativa.
// Campos omitidos permanecem como estão.
type UpdateBetRequest struct {
	BetAmount         *float64       `json:"betAmount,omitempty"`
	PotentialWinnings *float64       `json:"potentialWinnings,omitempty"`
	BettingPlatform   *string        `json:"bettingPlatform,omitempty"`
	PlatformName      *string        `json:"platformName,omitempty"`
	BetType           *string        `json:"betType,omitempty"`
	Picks             []PickSnapshot `json:"picks,omitempty"`
}

// PickSnapshot espelha o snapshot embutido nas apostas para entrada/saída.
type PickSnapshot struct {
	PlayerID       string  `json:"playerId"`
	PlayerName     string  `json:"playerName"`
	PlayerTeam     string  `json:"playerTeam,omitempty"`
	Opponent       string  `json:"opponent,omitempty"`
	Threshold      float64 `json:"threshold"`
	Recommendation string  `json:"recommendation"`
	PhotoURL       string  `json:"photoUrl,omitempty"`
	GameID         string  `json:"gameId,omitempty"`
	GameDate       string  `json:"gameDate,omitempty"`
	GameTime       string  `json:"gameTime,omitempty"`
}

// SetStatusRequest registra o sinal externo de liquidação de uma aposta.
type SetStatusRequest struct {
	Status   string  `json:"status"` // Won | Lost | Completed | Partial Win
	Winnings float64 `json:"winnings,omitempty"`
}
