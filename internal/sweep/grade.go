package sweep

import (
	"github.com/radieske/picks-bet-platform/pkg/contracts/documents"
)

// GradePick compara os pontos reais com o threshold da recomendação.
// Empate exato não acerta nem OVER nem UNDER (thresholds usam .5 justamente
// para evitar o caso).
func GradePick(p documents.PickSnapshot, points int) string {
	fp := float64(points)
	switch p.Recommendation {
	case documents.RecommendationOver:
		if fp > p.Threshold {
			return documents.PickResultHit
		}
	case documents.RecommendationUnder:
		if fp < p.Threshold {
			return documents.PickResultHit
		}
	}
	return documents.PickResultMiss
}

// GradeBet decide o status final e os ganhos de uma aposta cujos picks já
// têm resultado individual. Tudo acertado paga integral; em tipos flex,
// qualquer acerto paga uma fração proporcional; o resto perde.
func GradeBet(betType string, picks []documents.PickSnapshot, potentialWinnings float64) (string, float64) {
	hits := 0
	for _, p := range picks {
		if p.Result == documents.PickResultHit {
			hits++
		}
	}

	switch {
	case hits == len(picks):
		return documents.BetStatusWon, potentialWinnings
	case hits > 0 && documents.IsFlexType(betType):
		return documents.BetStatusPartialWin, potentialWinnings / float64(len(picks))
	default:
		return documents.BetStatusLost, 0
	}
}
