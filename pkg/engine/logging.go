package engine

import (
	"context"

	"github.com/shopspring/decimal"
)

// EngineOption configures an Engine instance.
type EngineOption func(*Engine)

// MutationLogger receives a callback for every store mutation the engine
// commits. Emission is informational and must never influence processing
// outcomes.
type MutationLogger interface {
	LogMutation(ctx context.Context, event MutationEvent)
}

// MutationEvent describes one committed store mutation. Amount is set for
// transaction mutations; Available and Held carry the balances after an
// account update.
type MutationEvent struct {
	Mutation  string
	ClientID  ClientID
	TxID      TxID
	Amount    decimal.Decimal
	Available decimal.Decimal
	Held      decimal.Decimal
}

// WithMutationLogger wires a logger that receives callbacks for every
// committed store mutation.
func WithMutationLogger(logger MutationLogger) EngineOption {
	return func(engine *Engine) {
		engine.logger = logger
	}
}
