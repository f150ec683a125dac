package fault

import (
	"errors"
	"fmt"
)

// Kind classifies a failure for propagation policy: validation and
// authorization failures are permanent, dependency failures are retryable.
type Kind int

const (
	KindUnknown Kind = iota
	KindValidation
	KindAuthorization
	KindNotFound
	KindConflict
	KindDependency
)

// Machine-readable error codes surfaced to API clients.
const (
	CodeInvalidAmount          = "INVALID_AMOUNT"
	CodeInvalidTerms           = "INVALID_TERMS"
	CodeOverAllocation         = "OVER_ALLOCATION"
	CodeSelfInvitation         = "SELF_INVITATION"
	CodeDuplicateLender        = "DUPLICATE_LENDER"
	CodeBatchTooLarge          = "BATCH_TOO_LARGE"
	CodeLoanNotFound           = "LOAN_NOT_FOUND"
	CodeLoanNotPending         = "LOAN_NOT_PENDING"
	CodeNotOwner               = "NOT_OWNER"
	CodeNotBorrower            = "NOT_BORROWER"
	CodeInvitationNotFound     = "INVITATION_NOT_FOUND"
	CodeAlreadyResponded       = "ALREADY_RESPONDED"
	CodeInvalidACHDetails      = "INVALID_ACH_DETAILS"
	CodeParticipantNotAccepted = "PARTICIPANT_NOT_ACCEPTED"
	CodeParticipantNotFound    = "PARTICIPANT_NOT_FOUND"
	CodePaymentNotFound        = "PAYMENT_NOT_FOUND"
	CodeAlreadyResolved        = "ALREADY_RESOLVED"
	CodeOverPayment            = "OVER_PAYMENT"
	CodeReceiptNotFound        = "RECEIPT_NOT_FOUND"
	CodeInvalidInput           = "VALIDATION_ERROR"
	CodeUnauthenticated        = "UNAUTHENTICATED"
	CodeForbidden              = "AUTHORIZATION_ERROR"
	CodeDependency             = "DEPENDENCY_ERROR"
)

// Error carries the kind, a stable machine code, and a human-readable message.
type Error struct {
	Kind    Kind
	Code    string
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

func Validation(code, format string, args ...any) *Error {
	return &Error{Kind: KindValidation, Code: code, Message: fmt.Sprintf(format, args...)}
}

func Authorization(code, format string, args ...any) *Error {
	return &Error{Kind: KindAuthorization, Code: code, Message: fmt.Sprintf(format, args...)}
}

func NotFound(code, format string, args ...any) *Error {
	return &Error{Kind: KindNotFound, Code: code, Message: fmt.Sprintf(format, args...)}
}

func Conflict(code, format string, args ...any) *Error {
	return &Error{Kind: KindConflict, Code: code, Message: fmt.Sprintf(format, args...)}
}

// Dependency wraps a store or capability failure so callers can retry.
func Dependency(op string, err error) *Error {
	return &Error{Kind: KindDependency, Code: CodeDependency, Message: op + " failed", Err: err}
}

// KindOf extracts the Kind from err, or KindUnknown for foreign errors.
func KindOf(err error) Kind {
	var fe *Error
	if errors.As(err, &fe) {
		return fe.Kind
	}
	return KindUnknown
}

// CodeOf extracts the machine code from err, or CodeDependency for foreign errors.
func CodeOf(err error) string {
	var fe *Error
	if errors.As(err, &fe) {
		return fe.Code
	}
	return CodeDependency
}

// MessageOf extracts the human-readable message from err.
func MessageOf(err error) string {
	var fe *Error
	if errors.As(err, &fe) {
		return fe.Message
	}
	return "internal error"
}
