package models

import "github.com/api-sage/timelock-savings/src/internal/domain"

type LockOptionResponse struct {
	Option uint8  `json:"option"`
	Blocks uint64 `json:"blocks"`
	Label  string `json:"label"`
}

func NewLockOptionResponses(options []domain.LockOptionInfo) []LockOptionResponse {
	out := make([]LockOptionResponse, 0, len(options))
	for _, o := range options {
		out = append(out, LockOptionResponse{Option: uint8(o.Option), Blocks: o.Blocks, Label: o.Label})
	}
	return out
}

type ClockResponse struct {
	BlockHeight uint64 `json:"blockHeight"`
}

type HealthResponse struct {
	Status string `json:"status"`
}
