package documents

import "time"

// Status de uma aposta. Active é o único estado não-terminal; editar mantém
// Active, cancelar remove o documento sem deixar histórico.
const (
	BetStatusActive     = "Active"
	BetStatusWon        = "Won"
	BetStatusLost       = "Lost"
	BetStatusCompleted  = "Completed"
	BetStatusPartialWin = "Partial Win"
)

// Plataformas e tipos de aposta suportados.
const (
	PlatformPrizePicks = "PrizePicks"
	PlatformUnderdog   = "Underdog"
	PlatformOther      = "Other"

	BetTypePowerPlay = "Power Play"
	BetTypeFlexPlay  = "FlexPlay"
	BetTypeStandard  = "Standard"
	BetTypeFlex      = "Flex"
)

// BetDocument é o documento de aposta persistido no ledger ativo e, após a
// liquidação, no histórico (mesmo id nos dois lugares).
type BetDocument struct {
	ID                string         `json:"id"`
	UserID            string         `json:"userId"`
	BetAmount         float64        `json:"betAmount"`
	PotentialWinnings float64        `json:"potentialWinnings"`
	BettingPlatform   string         `json:"bettingPlatform"`
	PlatformName      string         `json:"platformName,omitempty"` // obrigatório quando platform = "Other"
	BetType           string         `json:"betType"`
	Status            string         `json:"status"`
	GameDate          string         `json:"gameDate"`
	Picks             []PickSnapshot `json:"picks"`
	Winnings          float64        `json:"winnings,omitempty"`
	CreatedAt         time.Time      `json:"createdAt"`
	SettledAt         *time.Time     `json:"settledAt,omitempty"`
}

// IsTerminalStatus indica se o status encerra o ciclo de vida da aposta.
func IsTerminalStatus(status string) bool {
	switch status {
	case BetStatusWon, BetStatusLost, BetStatusCompleted, BetStatusPartialWin:
		return true
	}
	return false
}

// IsFlexType indica tipos de aposta com pagamento parcial (qualquer pick
// acertando paga uma fração), em oposição ao "tudo ou nada" do Power Play.
func IsFlexType(betType string) bool {
	return betType == BetTypeFlexPlay || betType == BetTypeFlex
}
