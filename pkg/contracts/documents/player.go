package documents

// Status de jogo de um registro de análise.
const (
	GameStatusScheduled = "Scheduled"
	GameStatusLive      = "Live"
	GameStatusConcluded = "Concluded"
)

// Partições lógicas dos registros de análise processados.
const (
	PartitionActive    = "active"
	PartitionConcluded = "concluded"
)

// PlayerRecord é o registro de análise jogador/threshold produzido pelo
// backend estatístico. O core nunca cria esses registros; apenas observa
// transições de GameStatus e realoca entre as partições active/concluded.
type PlayerRecord struct {
	PlayerID       string  `json:"playerId"`
	Name           string  `json:"name"`
	Team           string  `json:"team"`
	Opponent       string  `json:"opponent"`
	Threshold      float64 `json:"threshold"`
	Recommendation string  `json:"recommendation"`
	PhotoURL       string  `json:"photoUrl,omitempty"`
	GameID         string  `json:"gameId,omitempty"`
	GameDate       string  `json:"gameDate"`
	GameTime       string  `json:"gameTime,omitempty"`
	GameStatus     string  `json:"gameStatus"`
}
