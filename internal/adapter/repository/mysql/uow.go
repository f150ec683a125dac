package mysql

import (
	"context"

	"gorm.io/gorm"

	loanDomain "lendcore/internal/domain/loan"
	"lendcore/internal/domain/uow"
)

// GormUoW runs callbacks inside a single gorm transaction, handing the
// callback repositories bound to that transaction.
type GormUoW struct{ db *gorm.DB }

func NewGormUoW(db *gorm.DB) *GormUoW { return &GormUoW{db: db} }

func (u *GormUoW) repos(tx *gorm.DB) uow.Repos {
	return uow.Repos{
		Loans:        NewLoanRepository(tx),
		Participants: NewParticipantRepository(tx),
		Payments:     NewPaymentRepository(tx),
	}
}

func (u *GormUoW) WithinTx(ctx context.Context, fn func(r uow.Repos) error) error {
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(u.repos(tx))
	})
}

// WithinLoanTx locks the loan row before running fn so that funding
// arithmetic on the same loan serializes.
func (u *GormUoW) WithinLoanTx(ctx context.Context, loanID string, fn func(r uow.Repos, l *loanDomain.Loan) error) error {
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		r := u.repos(tx)
		l, err := r.Loans.GetByLoanIDForUpdate(ctx, loanID)
		if err != nil {
			return err
		}
		return fn(r, l)
	})
}
