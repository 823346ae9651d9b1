package replay

import (
	"context"
	"errors"
	"io"

	"github.com/MarkoPoloResearchLab/payments/pkg/engine"
	"go.uber.org/zap"
)

// Run feeds every record from the reader into the engine, strictly in input
// order. A rejected record is reported to the logger and the stream advances;
// only input errors and context cancellation stop the run.
func Run(ctx context.Context, replayEngine *engine.Engine, reader *Reader, logger *zap.Logger) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		record, err := reader.Next()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
		if err := replayEngine.Process(ctx, record); err != nil {
			logger.Warn("record rejected",
				zap.String("kind", record.Kind().String()),
				zap.Uint16("client", uint16(record.ClientID())),
				zap.Uint32("tx", uint32(record.TxID())),
				zap.Error(err),
			)
		}
	}
}
