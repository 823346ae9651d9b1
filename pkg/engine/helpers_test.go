package engine

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
)

func mustDecimal(test *testing.T, raw string) decimal.Decimal {
	test.Helper()
	value, err := decimal.NewFromString(raw)
	if err != nil {
		test.Fatalf("decimal %q: %v", raw, err)
	}
	return value
}

func mustProcess(test *testing.T, replayEngine *Engine, record Record) {
	test.Helper()
	if err := replayEngine.Process(context.Background(), record); err != nil {
		test.Fatalf("process %s (client %d, tx %d): %v", record.Kind(), record.ClientID(), record.TxID(), err)
	}
}

func mustAccount(test *testing.T, replayEngine *Engine, clientID ClientID) Account {
	test.Helper()
	for candidateID, account := range replayEngine.Accounts() {
		if candidateID == clientID {
			return account
		}
	}
	test.Fatalf("account %d not found", clientID)
	return Account{}
}

func assertBalances(test *testing.T, account Account, available string, held string) {
	test.Helper()
	if !account.Available.Equal(mustDecimal(test, available)) {
		test.Fatalf("expected available %s, got %s", available, account.Available)
	}
	if !account.Held.Equal(mustDecimal(test, held)) {
		test.Fatalf("expected held %s, got %s", held, account.Held)
	}
}
