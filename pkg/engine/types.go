package engine

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// ClientID identifies an account owner. The input format carries it as an
// unsigned 16-bit value.
type ClientID uint16

// TxID identifies a deposit or withdrawal. A TxID is unique across the whole
// stream; dispute records reference an earlier TxID rather than minting one.
type TxID uint32

// RecordKind enumerates transaction record kinds.
type RecordKind string

const (
	KindDeposit    RecordKind = "deposit"
	KindWithdrawal RecordKind = "withdrawal"
	KindDispute    RecordKind = "dispute"
	KindResolve    RecordKind = "resolve"
	KindChargeback RecordKind = "chargeback"
)

// String returns the lowercase kind name.
func (kind RecordKind) String() string {
	return string(kind)
}

// ParseRecordKind parses a record kind name, case-insensitively.
func ParseRecordKind(raw string) (RecordKind, error) {
	kind := RecordKind(strings.ToLower(strings.TrimSpace(raw)))
	switch kind {
	case KindDeposit, KindWithdrawal, KindDispute, KindResolve, KindChargeback:
		return kind, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidRecordKind, raw)
	}
}

// Record is one transaction record from the stream. Only deposits and
// withdrawals carry an amount; the kind-specific constructors keep that shape.
type Record struct {
	kind      RecordKind
	clientID  ClientID
	txID      TxID
	amount    decimal.Decimal
	hasAmount bool
}

// NewDeposit builds a deposit record.
func NewDeposit(clientID ClientID, txID TxID, amount decimal.Decimal) Record {
	return Record{kind: KindDeposit, clientID: clientID, txID: txID, amount: amount, hasAmount: true}
}

// NewWithdrawal builds a withdrawal record.
func NewWithdrawal(clientID ClientID, txID TxID, amount decimal.Decimal) Record {
	return Record{kind: KindWithdrawal, clientID: clientID, txID: txID, amount: amount, hasAmount: true}
}

// NewDispute builds a dispute record referencing an earlier transaction.
func NewDispute(clientID ClientID, txID TxID) Record {
	return Record{kind: KindDispute, clientID: clientID, txID: txID}
}

// NewResolve builds a resolve record referencing a disputed transaction.
func NewResolve(clientID ClientID, txID TxID) Record {
	return Record{kind: KindResolve, clientID: clientID, txID: txID}
}

// NewChargeback builds a chargeback record referencing a disputed transaction.
func NewChargeback(clientID ClientID, txID TxID) Record {
	return Record{kind: KindChargeback, clientID: clientID, txID: txID}
}

// NewRecord builds a record from loosely typed input, as decoded from a file.
// A nil amount on a deposit or withdrawal is representable here and is
// rejected by Process with ErrAmountNotSpecified; an amount on any other kind
// is ignored.
func NewRecord(kind RecordKind, clientID ClientID, txID TxID, amount *decimal.Decimal) Record {
	record := Record{kind: kind, clientID: clientID, txID: txID}
	if amount != nil {
		record.amount = *amount
		record.hasAmount = true
	}
	return record
}

// Kind returns the record kind.
func (record Record) Kind() RecordKind {
	return record.kind
}

// ClientID returns the account owner the record targets.
func (record Record) ClientID() ClientID {
	return record.clientID
}

// TxID returns the transaction identifier the record carries or references.
func (record Record) TxID() TxID {
	return record.txID
}

// Amount returns the monetary amount and whether one is present.
func (record Record) Amount() (decimal.Decimal, bool) {
	return record.amount, record.hasAmount
}

// Account holds the two stored balances for one client. The total is derived,
// never stored.
type Account struct {
	Available decimal.Decimal
	Held      decimal.Decimal
}

// Total returns available plus held at full precision.
func (account Account) Total() decimal.Decimal {
	return account.Available.Add(account.Held)
}

// StoredTransaction is a recorded deposit or withdrawal amount plus its
// dispute flag. The amount is immutable once recorded; the record outlives a
// chargeback so the TxID stays consumed.
type StoredTransaction struct {
	Amount   decimal.Decimal
	Disputed bool
}
