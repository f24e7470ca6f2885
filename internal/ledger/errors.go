package ledger

import "fmt"

// ServiceError represents a business logic error with a code
type ServiceError struct {
	Err     error
	Message string
	Code    string
}

func (e *ServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the underlying error for errors.Is/As support
func (e *ServiceError) Unwrap() error {
	return e.Err
}

// Common error codes
const (
	ErrCodeInvalidAmount       = "invalid_amount"
	ErrCodeAccountNotFound     = "account_not_found"
	ErrCodeTransactionNotFound = "transaction_not_found"
	ErrCodeAccessDenied        = "access_denied"
	ErrCodeInsufficientFunds   = "insufficient_funds"
	ErrCodeSelfTransfer        = "self_transfer_not_allowed"
	ErrCodeValidation          = "validation_error"
	ErrCodePersistence         = "persistence_error"
	ErrCodeOperationFailed     = "operation_failed"
)
