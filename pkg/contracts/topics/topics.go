package topics

const (
	// Mudanças de status em apostas ativas (before/after)
	BetStatusChanged = "bet_status_changed"

	// Mudanças de gameStatus em registros de análise de jogadores
	PlayerStatusChanged = "player_status_changed"

	// DLQs
	BetStatusChangedDLQ    = "bet_status_changed_dlq"
	PlayerStatusChangedDLQ = "player_status_changed_dlq"
)
