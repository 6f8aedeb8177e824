package documents

// Pick é uma seleção candidata ainda não vinculada a uma aposta.
// O ID é derivado deterministicamente de nome + threshold + data do jogo,
// então o mesmo pick lógico sempre colide com ele mesmo.
type Pick struct {
	ID             string  `json:"id"`
	Player         string  `json:"player"`
	Team           string  `json:"team"`
	Opponent       string  `json:"opponent"`
	Threshold      float64 `json:"threshold"`
	Recommendation string  `json:"recommendation"` // "OVER" | "UNDER"
	PhotoURL       string  `json:"photoUrl,omitempty"`
	GameID         string  `json:"gameId,omitempty"`
	GameDate       string  `json:"gameDate"` // "2006-01-02"
	GameTime       string  `json:"gameTime,omitempty"`
}

// PickSnapshot é a cópia imutável de um Pick embutida em uma aposta.
// Cópia, não referência: mutações posteriores do pick store não afetam
// apostas já feitas. Os campos de resultado são preenchidos pelo sweep.
type PickSnapshot struct {
	PlayerID       string  `json:"playerId"`
	PlayerName     string  `json:"playerName"`
	PlayerTeam     string  `json:"playerTeam"`
	Opponent       string  `json:"opponent"`
	Threshold      float64 `json:"threshold"`
	Recommendation string  `json:"recommendation"`
	PhotoURL       string  `json:"photoUrl,omitempty"`
	GameID         string  `json:"gameId,omitempty"`
	GameDate       string  `json:"gameDate,omitempty"`
	GameTime       string  `json:"gameTime,omitempty"`

	// Resultado individual, quando o jogo conclui
	ActualPoints *int   `json:"actualPoints,omitempty"`
	Result       string `json:"result,omitempty"` // "HIT" | "MISS"
	GameStatus   string `json:"gameStatus,omitempty"`
}

const (
	RecommendationOver  = "OVER"
	RecommendationUnder = "UNDER"

	PickResultHit  = "HIT"
	PickResultMiss = "MISS"
)
