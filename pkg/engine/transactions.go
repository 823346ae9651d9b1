package engine

import "github.com/shopspring/decimal"

// transactionLedger records each accepted deposit and withdrawal amount by
// TxID and tracks which of them are currently under dispute.
type transactionLedger struct {
	amounts  map[TxID]decimal.Decimal
	disputed map[TxID]struct{}
}

func newTransactionLedger() *transactionLedger {
	return &transactionLedger{
		amounts:  make(map[TxID]decimal.Decimal),
		disputed: make(map[TxID]struct{}),
	}
}

func (ledger *transactionLedger) lookup(txID TxID) (StoredTransaction, bool) {
	amount, found := ledger.amounts[txID]
	if !found {
		return StoredTransaction{}, false
	}
	_, underDispute := ledger.disputed[txID]
	return StoredTransaction{Amount: amount, Disputed: underDispute}, true
}

func (ledger *transactionLedger) insert(txID TxID, amount decimal.Decimal) error {
	if _, exists := ledger.amounts[txID]; exists {
		return errTransactionExists
	}
	ledger.amounts[txID] = amount
	return nil
}

func (ledger *transactionLedger) markDisputed(txID TxID) {
	ledger.disputed[txID] = struct{}{}
}

// markResolved clears the dispute flag only when it is currently set, so a
// defensive call on an undisputed transaction is a no-op.
func (ledger *transactionLedger) markResolved(txID TxID) {
	if _, underDispute := ledger.disputed[txID]; underDispute {
		delete(ledger.disputed, txID)
	}
}
