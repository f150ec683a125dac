package payment

import (
	"context"
	"time"
)

type Repository interface {
	Create(ctx context.Context, p *Payment) error
	GetByPaymentID(ctx context.Context, paymentID string) (*Payment, error)
	ListByLoan(ctx context.Context, loanID uint64) ([]Payment, error)
	ListByLoanAndLender(ctx context.Context, loanID uint64, lenderID string) ([]Payment, error)

	// Approve and Reject are conditional PENDING-guarded transitions; they
	// return false when the payment was already resolved, so a concurrent
	// second resolution can never double-credit a participant.
	Approve(ctx context.Context, id uint64, at time.Time, by, notes string) (bool, error)
	Reject(ctx context.Context, id uint64, at time.Time, by, reason string) (bool, error)
}
