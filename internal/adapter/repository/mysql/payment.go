package mysql

import (
	"context"
	"time"

	"gorm.io/gorm"

	paymentDomain "lendcore/internal/domain/payment"
)

type PaymentRepository struct{ db *gorm.DB }

func NewPaymentRepository(db *gorm.DB) *PaymentRepository { return &PaymentRepository{db: db} }

func (r *PaymentRepository) Create(ctx context.Context, p *paymentDomain.Payment) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *PaymentRepository) GetByPaymentID(ctx context.Context, paymentID string) (*paymentDomain.Payment, error) {
	var out paymentDomain.Payment
	res := r.db.WithContext(ctx).Where("payment_id = ?", paymentID).First(&out)
	return &out, res.Error
}

func (r *PaymentRepository) ListByLoan(ctx context.Context, loanID uint64) ([]paymentDomain.Payment, error) {
	var out []paymentDomain.Payment
	res := r.db.WithContext(ctx).
		Where("loan_id = ?", loanID).
		Order("created_at DESC, id DESC").
		Find(&out)
	return out, res.Error
}

func (r *PaymentRepository) ListByLoanAndLender(ctx context.Context, loanID uint64, lenderID string) ([]paymentDomain.Payment, error) {
	var out []paymentDomain.Payment
	res := r.db.WithContext(ctx).
		Where("loan_id = ? AND lender_id = ?", loanID, lenderID).
		Order("created_at DESC, id DESC").
		Find(&out)
	return out, res.Error
}

// Approve is guarded on status = PENDING so a second resolution attempt
// reports false instead of double-crediting.
func (r *PaymentRepository) Approve(ctx context.Context, id uint64, at time.Time, by, notes string) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&paymentDomain.Payment{}).
		Where("id = ? AND status = ?", id, paymentDomain.StatusPending).
		Updates(map[string]any{
			"status":         paymentDomain.StatusApproved,
			"approved_at":    at,
			"approved_by":    by,
			"approval_notes": notes,
		})
	return res.RowsAffected > 0, res.Error
}

func (r *PaymentRepository) Reject(ctx context.Context, id uint64, at time.Time, by, reason string) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&paymentDomain.Payment{}).
		Where("id = ? AND status = ?", id, paymentDomain.StatusPending).
		Updates(map[string]any{
			"status":           paymentDomain.StatusRejected,
			"rejected_at":      at,
			"rejected_by":      by,
			"rejection_reason": reason,
		})
	return res.RowsAffected > 0, res.Error
}
