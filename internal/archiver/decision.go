package archiver

import (
	"github.com/radieske/picks-bet-platform/pkg/contracts/documents"
)

// As decisões de arquivamento são funções puras do par (before, after),
// desacopladas do mecanismo de entrega dos eventos. Quem consome fila,
// quem varre o ledger e quem testa chamam exatamente o mesmo código.

// ShouldArchiveBet decide se uma mudança em uma aposta ativa exige
// realocação para o histórico: o status precisa ter mudado E o novo status
// precisa ser terminal. Escritas que mantêm o status (edits) são no-op.
func ShouldArchiveBet(before, after *documents.BetDocument) bool {
	if before == nil || after == nil {
		return false
	}
	return before.Status != after.Status && documents.IsTerminalStatus(after.Status)
}

// ShouldArchivePlayer decide se um registro de análise deve migrar da
// partição ativa para a concluída: apenas na transição para "Concluded".
func ShouldArchivePlayer(before, after *documents.PlayerRecord) bool {
	if before == nil || after == nil {
		return false
	}
	return before.GameStatus != documents.GameStatusConcluded &&
		after.GameStatus == documents.GameStatusConcluded
}
