package domain

import (
	"github.com/radieske/picks-bet-platform/pkg/contracts/documents"
)

// DefaultWinningsMultiplier é o esquema "3x" aplicado quando o chamador não
// informa potentialWinnings.
const DefaultWinningsMultiplier = 3.0

// DefaultPotentialWinnings deriva o prêmio potencial a partir do valor da
// aposta. É uma função pura do betAmount; o chamador pode sobrescrever.
func DefaultPotentialWinnings(betAmount float64) float64 {
	return betAmount * DefaultWinningsMultiplier
}

// ValidateNewBet aplica as validações de criação de aposta, antes de
// qualquer escrita remota.
func ValidateNewBet(betAmount float64, platform, platformName string, pickCount int) error {
	if pickCount < 2 {
		return ErrInsufficientPicks
	}
	if betAmount <= 0 {
		return ErrInvalidAmount
	}
	if platform == documents.PlatformOther && platformName == "" {
		return ErrMissingPlatformName
	}
	return nil
}
