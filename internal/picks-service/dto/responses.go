package dto

import "github.com/radieske/picks-bet-platform/pkg/contracts/documents"

type PicksResponse struct {
	Picks []documents.Pick `json:"picks"`
}

type BuildBetResponse struct {
	BetID  string `json:"betId"`
	Status string `json:"status"` // "Active"
}

type BetsResponse struct {
	Bets []documents.BetDocument `json:"bets"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
