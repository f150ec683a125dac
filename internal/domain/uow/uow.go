package uow

import (
	"context"

	"lendcore/internal/domain/loan"
	"lendcore/internal/domain/payment"
)

type Repos struct {
	Loans        loan.Repository
	Participants loan.ParticipantRepository
	Payments     payment.Repository
}

type UnitOfWork interface {
	// plain tx
	WithinTx(ctx context.Context, fn func(r Repos) error) error
	// convenience: lock the loan row first, then pass it in; every funding
	// mutation and capacity check runs under this lock
	WithinLoanTx(ctx context.Context, loanID string, fn func(r Repos, l *loan.Loan) error) error
}
