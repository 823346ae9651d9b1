package engine

import (
	"context"
	"iter"
)

// Engine replays transaction records against client accounts. It owns its
// three stores outright; nothing outside the Engine reads or mutates them
// while it is processing.
type Engine struct {
	transactions *transactionLedger
	accounts     *accountLedger
	locks        *lockRegistry
	logger       MutationLogger
}

// NewEngine returns an Engine with empty stores.
func NewEngine(options ...EngineOption) *Engine {
	replayEngine := &Engine{
		transactions: newTransactionLedger(),
		accounts:     newAccountLedger(),
		locks:        newLockRegistry(),
	}
	for _, option := range options {
		if option != nil {
			option(replayEngine)
		}
	}
	return replayEngine
}

// Process applies a single record. Every precondition is validated before any
// store is touched, so a rejected record leaves all state exactly as it was.
// Records for a locked client are rejected outright, whatever their kind.
func (engine *Engine) Process(ctx context.Context, record Record) error {
	if engine.locks.isLocked(record.clientID) {
		return WrapError(record.kind.String(), subjectAccount, codeLocked, ErrAccountLocked)
	}
	switch record.kind {
	case KindDeposit:
		return engine.processDeposit(ctx, record)
	case KindWithdrawal:
		return engine.processWithdrawal(ctx, record)
	case KindDispute:
		return engine.processDispute(ctx, record)
	case KindResolve:
		return engine.processResolve(ctx, record)
	case KindChargeback:
		return engine.processChargeback(ctx, record)
	default:
		return WrapError(record.kind.String(), subjectRecord, codeInvalidKind, ErrInvalidRecordKind)
	}
}

func (engine *Engine) processDeposit(ctx context.Context, record Record) error {
	amount, hasAmount := record.Amount()
	if !hasAmount {
		return WrapError(KindDeposit.String(), subjectRecord, codeAmountMissing, ErrAmountNotSpecified)
	}
	if err := engine.transactions.insert(record.txID, amount); err != nil {
		return WrapError(KindDeposit.String(), subjectTransaction, codeDuplicate, ErrDuplicateTransaction)
	}
	engine.logMutation(ctx, MutationEvent{
		Mutation: mutationTransactionRecorded,
		ClientID: record.clientID,
		TxID:     record.txID,
		Amount:   amount,
	})
	account, _ := engine.accounts.lookup(record.clientID)
	account.Available = account.Available.Add(amount)
	engine.saveAccount(ctx, record.clientID, account)
	return nil
}

func (engine *Engine) processWithdrawal(ctx context.Context, record Record) error {
	amount, hasAmount := record.Amount()
	if !hasAmount {
		return WrapError(KindWithdrawal.String(), subjectRecord, codeAmountMissing, ErrAmountNotSpecified)
	}
	if _, exists := engine.transactions.lookup(record.txID); exists {
		return WrapError(KindWithdrawal.String(), subjectTransaction, codeDuplicate, ErrDuplicateTransaction)
	}
	account, found := engine.accounts.lookup(record.clientID)
	if !found {
		return WrapError(KindWithdrawal.String(), subjectAccount, codeNotFound, ErrAccountNotFound)
	}
	if account.Available.LessThan(amount) {
		return WrapError(KindWithdrawal.String(), subjectAccount, codeInsufficientFunds, ErrInsufficientFunds)
	}
	if err := engine.transactions.insert(record.txID, amount); err != nil {
		return WrapError(KindWithdrawal.String(), subjectTransaction, codeDuplicate, ErrDuplicateTransaction)
	}
	engine.logMutation(ctx, MutationEvent{
		Mutation: mutationTransactionRecorded,
		ClientID: record.clientID,
		TxID:     record.txID,
		Amount:   amount,
	})
	account.Available = account.Available.Sub(amount)
	engine.saveAccount(ctx, record.clientID, account)
	return nil
}

func (engine *Engine) processDispute(ctx context.Context, record Record) error {
	transaction, found := engine.transactions.lookup(record.txID)
	if !found {
		return WrapError(KindDispute.String(), subjectTransaction, codeNotFound, ErrTransactionNotFound)
	}
	if transaction.Disputed {
		return WrapError(KindDispute.String(), subjectTransaction, codeAlreadyDisputed, ErrTransactionAlreadyDisputed)
	}
	account, found := engine.accounts.lookup(record.clientID)
	if !found {
		return WrapError(KindDispute.String(), subjectAccount, codeNotFound, ErrAccountNotFound)
	}
	// The held adjustment uses the stored amount, not any current balance,
	// so a later resolve or chargeback reverses it exactly.
	account.Held = account.Held.Add(transaction.Amount)
	account.Available = account.Available.Sub(transaction.Amount)
	engine.saveAccount(ctx, record.clientID, account)
	engine.transactions.markDisputed(record.txID)
	engine.logMutation(ctx, MutationEvent{
		Mutation: mutationTransactionDisputed,
		ClientID: record.clientID,
		TxID:     record.txID,
		Amount:   transaction.Amount,
	})
	return nil
}

func (engine *Engine) processResolve(ctx context.Context, record Record) error {
	transaction, found := engine.transactions.lookup(record.txID)
	if !found || !transaction.Disputed {
		return WrapError(KindResolve.String(), subjectTransaction, codeNotDisputed, ErrTransactionNotDisputed)
	}
	account, found := engine.accounts.lookup(record.clientID)
	if !found {
		return WrapError(KindResolve.String(), subjectAccount, codeNotFound, ErrAccountNotFound)
	}
	account.Held = account.Held.Sub(transaction.Amount)
	account.Available = account.Available.Add(transaction.Amount)
	engine.saveAccount(ctx, record.clientID, account)
	engine.transactions.markResolved(record.txID)
	engine.logMutation(ctx, MutationEvent{
		Mutation: mutationTransactionResolved,
		ClientID: record.clientID,
		TxID:     record.txID,
		Amount:   transaction.Amount,
	})
	return nil
}

func (engine *Engine) processChargeback(ctx context.Context, record Record) error {
	transaction, found := engine.transactions.lookup(record.txID)
	if !found || !transaction.Disputed {
		return WrapError(KindChargeback.String(), subjectTransaction, codeNotDisputed, ErrTransactionNotDisputed)
	}
	account, found := engine.accounts.lookup(record.clientID)
	if !found {
		return WrapError(KindChargeback.String(), subjectAccount, codeNotFound, ErrAccountNotFound)
	}
	account.Held = account.Held.Sub(transaction.Amount)
	engine.saveAccount(ctx, record.clientID, account)
	engine.locks.lock(record.clientID)
	engine.logMutation(ctx, MutationEvent{
		Mutation: mutationAccountLocked,
		ClientID: record.clientID,
		TxID:     record.txID,
		Amount:   transaction.Amount,
	})
	return nil
}

// Accounts yields every known account with its client identifier. The order
// is not significant; consumers that need determinism sort the pairs
// themselves.
func (engine *Engine) Accounts() iter.Seq2[ClientID, Account] {
	return engine.accounts.all()
}

// IsLocked reports whether a chargeback has frozen the client.
func (engine *Engine) IsLocked(clientID ClientID) bool {
	return engine.locks.isLocked(clientID)
}

func (engine *Engine) saveAccount(ctx context.Context, clientID ClientID, account Account) {
	engine.accounts.upsert(clientID, account)
	engine.logMutation(ctx, MutationEvent{
		Mutation:  mutationAccountUpdated,
		ClientID:  clientID,
		Available: account.Available,
		Held:      account.Held,
	})
}

func (engine *Engine) logMutation(ctx context.Context, event MutationEvent) {
	if engine.logger == nil {
		return
	}
	engine.logger.LogMutation(ctx, event)
}
