package engine

import (
	"iter"
	"maps"
)

// accountLedger keys available and held balances by client. Accounts come
// into being lazily on first deposit; every other operation requires one to
// exist already.
type accountLedger struct {
	accounts map[ClientID]Account
}

func newAccountLedger() *accountLedger {
	return &accountLedger{accounts: make(map[ClientID]Account)}
}

func (ledger *accountLedger) lookup(clientID ClientID) (Account, bool) {
	account, found := ledger.accounts[clientID]
	return account, found
}

func (ledger *accountLedger) upsert(clientID ClientID, account Account) {
	ledger.accounts[clientID] = account
}

// all yields every account in no particular order.
func (ledger *accountLedger) all() iter.Seq2[ClientID, Account] {
	return maps.All(ledger.accounts)
}
