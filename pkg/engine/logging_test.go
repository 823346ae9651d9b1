package engine

import (
	"context"
	"testing"
)

type recorderLogger struct {
	events []MutationEvent
}

func (logger *recorderLogger) LogMutation(_ context.Context, event MutationEvent) {
	logger.events = append(logger.events, event)
}

func TestDepositEmitsTransactionAndAccountMutations(test *testing.T) {
	test.Parallel()
	logger := &recorderLogger{}
	replayEngine := NewEngine(WithMutationLogger(logger))

	mustProcess(test, replayEngine, NewDeposit(2, 1, mustDecimal(test, "10.00")))

	if len(logger.events) != 2 {
		test.Fatalf("expected 2 mutation events, got %d", len(logger.events))
	}
	if logger.events[0].Mutation != mutationTransactionRecorded {
		test.Fatalf("expected %s first, got %s", mutationTransactionRecorded, logger.events[0].Mutation)
	}
	if logger.events[1].Mutation != mutationAccountUpdated {
		test.Fatalf("expected %s second, got %s", mutationAccountUpdated, logger.events[1].Mutation)
	}
	if !logger.events[1].Available.Equal(mustDecimal(test, "10.00")) {
		test.Fatalf("expected available 10.00 in event, got %s", logger.events[1].Available)
	}
}

func TestChargebackEmitsAccountLockedMutation(test *testing.T) {
	test.Parallel()
	logger := &recorderLogger{}
	replayEngine := NewEngine(WithMutationLogger(logger))

	mustProcess(test, replayEngine, NewDeposit(2, 1, mustDecimal(test, "10.00")))
	mustProcess(test, replayEngine, NewDispute(2, 1))
	mustProcess(test, replayEngine, NewChargeback(2, 1))

	last := logger.events[len(logger.events)-1]
	if last.Mutation != mutationAccountLocked {
		test.Fatalf("expected %s last, got %s", mutationAccountLocked, last.Mutation)
	}
	if last.ClientID != 2 || last.TxID != 1 {
		test.Fatalf("unexpected event identifiers: %+v", last)
	}
}

func TestRejectedRecordEmitsNoMutations(test *testing.T) {
	test.Parallel()
	logger := &recorderLogger{}
	replayEngine := NewEngine(WithMutationLogger(logger))

	if err := replayEngine.Process(context.Background(), NewWithdrawal(1, 1, mustDecimal(test, "5.00"))); err == nil {
		test.Fatalf("expected withdrawal on unknown account to fail")
	}
	if len(logger.events) != 0 {
		test.Fatalf("expected no mutation events, got %d", len(logger.events))
	}
}

func TestEngineWithoutLoggerStillProcesses(test *testing.T) {
	test.Parallel()
	replayEngine := NewEngine(nil)
	mustProcess(test, replayEngine, NewDeposit(1, 1, mustDecimal(test, "1.00")))
}
