package engine

import (
	"errors"
	"testing"
)

func TestTransactionLedgerInsertRejectsReuse(test *testing.T) {
	test.Parallel()
	ledger := newTransactionLedger()

	if err := ledger.insert(1, mustDecimal(test, "5.00")); err != nil {
		test.Fatalf("insert: %v", err)
	}
	if err := ledger.insert(1, mustDecimal(test, "7.00")); !errors.Is(err, errTransactionExists) {
		test.Fatalf("expected errTransactionExists, got %v", err)
	}

	transaction, found := ledger.lookup(1)
	if !found {
		test.Fatalf("expected transaction 1")
	}
	if !transaction.Amount.Equal(mustDecimal(test, "5.00")) {
		test.Fatalf("expected original amount preserved, got %s", transaction.Amount)
	}
}

func TestTransactionLedgerDisputeFlagLifecycle(test *testing.T) {
	test.Parallel()
	ledger := newTransactionLedger()

	if err := ledger.insert(1, mustDecimal(test, "5.00")); err != nil {
		test.Fatalf("insert: %v", err)
	}
	ledger.markDisputed(1)
	transaction, _ := ledger.lookup(1)
	if !transaction.Disputed {
		test.Fatalf("expected disputed flag set")
	}
	ledger.markResolved(1)
	transaction, _ = ledger.lookup(1)
	if transaction.Disputed {
		test.Fatalf("expected disputed flag cleared")
	}
	// markResolved on an undisputed transaction is a safe no-op.
	ledger.markResolved(1)
	if _, found := ledger.lookup(1); !found {
		test.Fatalf("expected transaction to remain recorded")
	}
}

func TestAccountLedgerLookupMissesUnknownClient(test *testing.T) {
	test.Parallel()
	ledger := newAccountLedger()
	if _, found := ledger.lookup(1); found {
		test.Fatalf("expected no account for unknown client")
	}
}

func TestLockRegistryIsIdempotent(test *testing.T) {
	test.Parallel()
	registry := newLockRegistry()
	if registry.isLocked(1) {
		test.Fatalf("expected client unlocked initially")
	}
	registry.lock(1)
	registry.lock(1)
	if !registry.isLocked(1) {
		test.Fatalf("expected client locked")
	}
	if registry.isLocked(2) {
		test.Fatalf("expected other client unlocked")
	}
}
