package participantmock

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	domain "lendcore/internal/domain/loan"
)

var _ domain.ParticipantRepository = (*Repo)(nil)

// Repo is a function-backed mock that satisfies domain.ParticipantRepository.
type Repo struct {
	CreateFn               func(ctx context.Context, p *domain.Participant) error
	GetByIDFn              func(ctx context.Context, id uint64) (*domain.Participant, error)
	GetByIDForUpdateFn     func(ctx context.Context, id uint64) (*domain.Participant, error)
	ListByLoanFn           func(ctx context.Context, loanID uint64) ([]domain.Participant, error)
	GetForLenderFn         func(ctx context.Context, loanID uint64, userID, email string) (*domain.Participant, error)
	ListPendingForLenderFn func(ctx context.Context, userID, email string) ([]domain.Participant, error)
	MarkAcceptedFn         func(ctx context.Context, id uint64, lenderID, lenderName string, at time.Time, ach domain.ACHDetails) (bool, error)
	MarkDeclinedFn         func(ctx context.Context, id uint64, lenderID string, at time.Time) (bool, error)
	ApplyPaymentFn         func(ctx context.Context, id uint64, totalPaid, remaining decimal.Decimal) error
	ResolveLenderFn        func(ctx context.Context, email, userID, name string) (int64, error)
}

func (m *Repo) Create(ctx context.Context, p *domain.Participant) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, p)
	}
	return nil
}
func (m *Repo) GetByID(ctx context.Context, id uint64) (*domain.Participant, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}
	return nil, context.Canceled
}
func (m *Repo) GetByIDForUpdate(ctx context.Context, id uint64) (*domain.Participant, error) {
	if m.GetByIDForUpdateFn != nil {
		return m.GetByIDForUpdateFn(ctx, id)
	}
	return nil, context.Canceled
}
func (m *Repo) ListByLoan(ctx context.Context, loanID uint64) ([]domain.Participant, error) {
	if m.ListByLoanFn != nil {
		return m.ListByLoanFn(ctx, loanID)
	}
	return nil, nil
}
func (m *Repo) GetForLender(ctx context.Context, loanID uint64, userID, email string) (*domain.Participant, error) {
	if m.GetForLenderFn != nil {
		return m.GetForLenderFn(ctx, loanID, userID, email)
	}
	return nil, context.Canceled
}
func (m *Repo) ListPendingForLender(ctx context.Context, userID, email string) ([]domain.Participant, error) {
	if m.ListPendingForLenderFn != nil {
		return m.ListPendingForLenderFn(ctx, userID, email)
	}
	return nil, nil
}
func (m *Repo) MarkAccepted(ctx context.Context, id uint64, lenderID, lenderName string, at time.Time, ach domain.ACHDetails) (bool, error) {
	if m.MarkAcceptedFn != nil {
		return m.MarkAcceptedFn(ctx, id, lenderID, lenderName, at, ach)
	}
	return false, context.Canceled
}
func (m *Repo) MarkDeclined(ctx context.Context, id uint64, lenderID string, at time.Time) (bool, error) {
	if m.MarkDeclinedFn != nil {
		return m.MarkDeclinedFn(ctx, id, lenderID, at)
	}
	return false, context.Canceled
}
func (m *Repo) ApplyPayment(ctx context.Context, id uint64, totalPaid, remaining decimal.Decimal) error {
	if m.ApplyPaymentFn != nil {
		return m.ApplyPaymentFn(ctx, id, totalPaid, remaining)
	}
	return nil
}
func (m *Repo) ResolveLender(ctx context.Context, email, userID, name string) (int64, error) {
	if m.ResolveLenderFn != nil {
		return m.ResolveLenderFn(ctx, email, userID, name)
	}
	return 0, nil
}
