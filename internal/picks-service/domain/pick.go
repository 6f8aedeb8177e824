package domain

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/radieske/picks-bet-platform/pkg/contracts/documents"
)

// MaxPicks limita quantos picks um usuário pode segurar ao mesmo tempo.
const MaxPicks = 6

var spaces = regexp.MustCompile(`\s+`)

// DerivePickID gera o id determinístico de um pick a partir de nome,
// threshold e data do jogo. O mesmo pick lógico sempre produz o mesmo id,
// então adições duplicadas colidem sem precisar de lock.
// Ex: "LeBron James", 25.5, "2025-03-02" -> "lebron_james_25.5_2025-03-02"
func DerivePickID(playerName string, threshold float64, gameDate string) string {
	slug := spaces.ReplaceAllString(strings.ToLower(strings.TrimSpace(playerName)), "_")
	t := strconv.FormatFloat(threshold, 'f', -1, 64)
	if gameDate == "" {
		return fmt.Sprintf("%s_%s", slug, t)
	}
	return fmt.Sprintf("%s_%s_%s", slug, t, gameDate)
}

// DerivePlayerID gera o identificador sintetizado de um jogador/threshold,
// usado como chave nos snapshots e na partição de registros de análise.
func DerivePlayerID(playerName string, threshold float64) string {
	slug := spaces.ReplaceAllString(strings.ToLower(strings.TrimSpace(playerName)), "_")
	return fmt.Sprintf("%s_%s", slug, strconv.FormatFloat(threshold, 'f', -1, 64))
}

// PickFromRecord monta um Pick a partir de um registro de análise aceito
// pelo usuário.
func PickFromRecord(rec documents.PlayerRecord) documents.Pick {
	return documents.Pick{
		ID:             DerivePickID(rec.Name, rec.Threshold, rec.GameDate),
		Player:         rec.Name,
		Team:           rec.Team,
		Opponent:       rec.Opponent,
		Threshold:      rec.Threshold,
		Recommendation: rec.Recommendation,
		PhotoURL:       rec.PhotoURL,
		GameID:         rec.GameID,
		GameDate:       rec.GameDate,
		GameTime:       rec.GameTime,
	}
}

// SnapshotPick congela um pick em uma cópia imutável para compor uma aposta.
// O playerId é sintetizado a partir de nome+threshold quando ausente.
func SnapshotPick(p documents.Pick) documents.PickSnapshot {
	playerID := p.ID
	if playerID == "" {
		playerID = DerivePlayerID(p.Player, p.Threshold)
	}
	return documents.PickSnapshot{
		PlayerID:       playerID,
		PlayerName:     p.Player,
		PlayerTeam:     p.Team,
		Opponent:       p.Opponent,
		Threshold:      p.Threshold,
		Recommendation: p.Recommendation,
		PhotoURL:       p.PhotoURL,
		GameID:         p.GameID,
		GameDate:       p.GameDate,
		GameTime:       p.GameTime,
	}
}
