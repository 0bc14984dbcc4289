package interfaces

import (
	"context"

	"crypto-trading-bot/internal/types"
)

type Engine interface {
	RunCycle(ctx context.Context) []types.StepResult
}
