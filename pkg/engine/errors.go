package engine

import (
	"errors"
	"fmt"
)

// Domain-level error values returned by Process. Every one is scoped to the
// single offending record; none is fatal to a run.
var (
	ErrAccountNotFound            = errors.New("account not found")
	ErrAccountLocked              = errors.New("account locked")
	ErrInsufficientFunds          = errors.New("insufficient funds")
	ErrDuplicateTransaction       = errors.New("duplicate transaction")
	ErrTransactionAlreadyDisputed = errors.New("transaction already disputed")
	ErrTransactionNotFound        = errors.New("transaction not found")
	ErrTransactionNotDisputed     = errors.New("transaction not disputed")
	ErrAmountNotSpecified         = errors.New("amount not specified")
	ErrInvalidRecordKind          = errors.New("invalid record kind")
)

var errTransactionExists = errors.New("transaction already recorded")

// OperationError wraps a failure with a stable operation code.
type OperationError struct {
	operation string
	subject   string
	code      string
	err       error
}

// Error returns the formatted error message.
func (operationError OperationError) Error() string {
	return fmt.Sprintf("%s.%s.%s: %v", operationError.operation, operationError.subject, operationError.code, operationError.err)
}

// Unwrap returns the underlying error.
func (operationError OperationError) Unwrap() error {
	return operationError.err
}

// Operation returns the operation segment.
func (operationError OperationError) Operation() string {
	return operationError.operation
}

// Subject returns the subject segment.
func (operationError OperationError) Subject() string {
	return operationError.subject
}

// Code returns the stable error code segment.
func (operationError OperationError) Code() string {
	return operationError.code
}

// WrapError wraps an error with operation, subject, and code metadata.
func WrapError(operation string, subject string, code string, err error) error {
	if err == nil {
		return nil
	}
	return OperationError{
		operation: operation,
		subject:   subject,
		code:      code,
		err:       err,
	}
}
