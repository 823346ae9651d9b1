package engine

const (
	subjectRecord      = "record"
	subjectAccount     = "account"
	subjectTransaction = "transaction"

	codeLocked            = "locked"
	codeNotFound          = "not_found"
	codeDuplicate         = "duplicate"
	codeInsufficientFunds = "insufficient_funds"
	codeAlreadyDisputed   = "already_disputed"
	codeNotDisputed       = "not_disputed"
	codeAmountMissing     = "amount_missing"
	codeInvalidKind       = "invalid_kind"

	mutationTransactionRecorded = "transaction_recorded"
	mutationTransactionDisputed = "transaction_disputed"
	mutationTransactionResolved = "transaction_resolved"
	mutationAccountUpdated      = "account_updated"
	mutationAccountLocked       = "account_locked"
)
