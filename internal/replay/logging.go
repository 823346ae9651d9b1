package replay

import (
	"context"

	"github.com/MarkoPoloResearchLab/payments/pkg/engine"
	"go.uber.org/zap"
)

// MutationZapLogger forwards engine mutation events to a zap logger.
type MutationZapLogger struct {
	logger *zap.Logger
}

// NewMutationZapLogger wraps a zap logger as an engine.MutationLogger.
func NewMutationZapLogger(logger *zap.Logger) *MutationZapLogger {
	return &MutationZapLogger{logger: logger}
}

// LogMutation writes one informational entry per committed store mutation.
func (mutationLogger *MutationZapLogger) LogMutation(_ context.Context, event engine.MutationEvent) {
	mutationLogger.logger.Info("store mutation",
		zap.String("mutation", event.Mutation),
		zap.Uint16("client", uint16(event.ClientID)),
		zap.Uint32("tx", uint32(event.TxID)),
		zap.String("amount", event.Amount.String()),
		zap.String("available", event.Available.String()),
		zap.String("held", event.Held.String()),
	)
}

// CombineMutationLoggers fans each event out to every given sink in order.
func CombineMutationLoggers(loggers ...engine.MutationLogger) engine.MutationLogger {
	return multiMutationLogger(loggers)
}

type multiMutationLogger []engine.MutationLogger

func (loggers multiMutationLogger) LogMutation(ctx context.Context, event engine.MutationEvent) {
	for _, logger := range loggers {
		if logger != nil {
			logger.LogMutation(ctx, event)
		}
	}
}
