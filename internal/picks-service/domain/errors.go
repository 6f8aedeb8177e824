package domain

import "errors"

// Erros de validação são detectados antes de qualquer chamada remota e
// retornados de forma síncrona; nenhum estado parcial é criado.
var (
	ErrCapacityExceeded    = errors.New("pick store at capacity")
	ErrDuplicatePick       = errors.New("pick already in store")
	ErrInsufficientPicks   = errors.New("bet requires at least 2 picks")
	ErrInvalidAmount       = errors.New("bet amount must be positive")
	ErrMissingPlatformName = errors.New("platform name required for Other")
	ErrEmptyPickSet        = errors.New("bet cannot be left without picks")
	ErrUnknownPick         = errors.New("pick is not part of the bet")
	ErrNotFound            = errors.New("not found")

	// ErrRemoteUnavailable embrulha falhas do document store remoto; o
	// estado local já foi revertido quando ele é retornado.
	ErrRemoteUnavailable = errors.New("remote store unavailable")
)
