package paymentmock

import (
	"context"
	"time"

	domain "lendcore/internal/domain/payment"
)

var _ domain.Repository = (*Repo)(nil)

// Repo is a function-backed mock that satisfies domain.Repository.
type Repo struct {
	CreateFn              func(ctx context.Context, p *domain.Payment) error
	GetByPaymentIDFn      func(ctx context.Context, paymentID string) (*domain.Payment, error)
	ListByLoanFn          func(ctx context.Context, loanID uint64) ([]domain.Payment, error)
	ListByLoanAndLenderFn func(ctx context.Context, loanID uint64, lenderID string) ([]domain.Payment, error)
	ApproveFn             func(ctx context.Context, id uint64, at time.Time, by, notes string) (bool, error)
	RejectFn              func(ctx context.Context, id uint64, at time.Time, by, reason string) (bool, error)
}

func (m *Repo) Create(ctx context.Context, p *domain.Payment) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, p)
	}
	return nil
}
func (m *Repo) GetByPaymentID(ctx context.Context, paymentID string) (*domain.Payment, error) {
	if m.GetByPaymentIDFn != nil {
		return m.GetByPaymentIDFn(ctx, paymentID)
	}
	return nil, context.Canceled
}
func (m *Repo) ListByLoan(ctx context.Context, loanID uint64) ([]domain.Payment, error) {
	if m.ListByLoanFn != nil {
		return m.ListByLoanFn(ctx, loanID)
	}
	return nil, nil
}
func (m *Repo) ListByLoanAndLender(ctx context.Context, loanID uint64, lenderID string) ([]domain.Payment, error) {
	if m.ListByLoanAndLenderFn != nil {
		return m.ListByLoanAndLenderFn(ctx, loanID, lenderID)
	}
	return nil, nil
}
func (m *Repo) Approve(ctx context.Context, id uint64, at time.Time, by, notes string) (bool, error) {
	if m.ApproveFn != nil {
		return m.ApproveFn(ctx, id, at, by, notes)
	}
	return false, context.Canceled
}
func (m *Repo) Reject(ctx context.Context, id uint64, at time.Time, by, reason string) (bool, error) {
	if m.RejectFn != nil {
		return m.RejectFn(ctx, id, at, by, reason)
	}
	return false, context.Canceled
}
