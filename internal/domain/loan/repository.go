package loan

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

type Repository interface {
	Create(ctx context.Context, l *Loan) error
	GetByLoanID(ctx context.Context, loanID string) (*Loan, error)
	// GetByLoanIDForUpdate locks the loan row for the duration of the
	// surrounding transaction; capacity checks and funding increments
	// happen under this lock.
	GetByLoanIDForUpdate(ctx context.Context, loanID string) (*Loan, error)
	GetByID(ctx context.Context, id uint64) (*Loan, error)
	Save(ctx context.Context, l *Loan) error
	ListByBorrower(ctx context.Context, borrowerID string) ([]Loan, error)
}

type ParticipantRepository interface {
	Create(ctx context.Context, p *Participant) error
	GetByID(ctx context.Context, id uint64) (*Participant, error)
	// GetByIDForUpdate locks the participant row for the duration of the
	// surrounding transaction; balance arithmetic happens under this lock
	// so two payment resolutions on one participant serialize.
	GetByIDForUpdate(ctx context.Context, id uint64) (*Participant, error)
	ListByLoan(ctx context.Context, loanID uint64) ([]Participant, error)
	// GetForLender matches by resolved lender id or, before resolution,
	// by the invited email.
	GetForLender(ctx context.Context, loanID uint64, userID, email string) (*Participant, error)
	ListPendingForLender(ctx context.Context, userID, email string) ([]Participant, error)

	// MarkAccepted and MarkDeclined are conditional PENDING-guarded
	// transitions; they return false when the row was already responded.
	MarkAccepted(ctx context.Context, id uint64, lenderID, lenderName string, at time.Time, ach ACHDetails) (bool, error)
	MarkDeclined(ctx context.Context, id uint64, lenderID string, at time.Time) (bool, error)

	// ApplyPayment overwrites the derived balance fields after a payment
	// approval; callers compute the new values inside the same transaction
	// that resolves the payment.
	ApplyPayment(ctx context.Context, id uint64, totalPaid, remaining decimal.Decimal) error

	// ResolveLender fills the null lender_id on every participant row
	// carrying the email, in place, and returns the number of rows updated.
	ResolveLender(ctx context.Context, email, userID, name string) (int64, error)
}
