package mysql

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	loanDomain "lendcore/internal/domain/loan"
)

type ParticipantRepository struct{ db *gorm.DB }

func NewParticipantRepository(db *gorm.DB) *ParticipantRepository {
	return &ParticipantRepository{db: db}
}

func (r *ParticipantRepository) Create(ctx context.Context, p *loanDomain.Participant) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *ParticipantRepository) GetByID(ctx context.Context, id uint64) (*loanDomain.Participant, error) {
	var out loanDomain.Participant
	res := r.db.WithContext(ctx).Where("id = ?", id).First(&out)
	return &out, res.Error
}

func (r *ParticipantRepository) GetByIDForUpdate(ctx context.Context, id uint64) (*loanDomain.Participant, error) {
	var out loanDomain.Participant
	res := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).
		First(&out)
	return &out, res.Error
}

func (r *ParticipantRepository) ListByLoan(ctx context.Context, loanID uint64) ([]loanDomain.Participant, error) {
	var out []loanDomain.Participant
	res := r.db.WithContext(ctx).
		Where("loan_id = ?", loanID).
		Order("invited_at ASC, id ASC").
		Find(&out)
	return out, res.Error
}

func (r *ParticipantRepository) GetForLender(ctx context.Context, loanID uint64, userID, email string) (*loanDomain.Participant, error) {
	var out loanDomain.Participant
	res := r.db.WithContext(ctx).
		Where("loan_id = ? AND (lender_id = ? OR (lender_id IS NULL AND lender_email = ?))", loanID, userID, email).
		First(&out)
	return &out, res.Error
}

func (r *ParticipantRepository) ListPendingForLender(ctx context.Context, userID, email string) ([]loanDomain.Participant, error) {
	var out []loanDomain.Participant
	res := r.db.WithContext(ctx).
		Where("status = ? AND (lender_id = ? OR (lender_id IS NULL AND lender_email = ?))",
			loanDomain.ParticipantPending, userID, email).
		Order("invited_at DESC, id DESC").
		Find(&out)
	return out, res.Error
}

// MarkAccepted is guarded on status = PENDING; RowsAffected tells the caller
// whether this attempt won the transition.
func (r *ParticipantRepository) MarkAccepted(ctx context.Context, id uint64, lenderID, lenderName string, at time.Time, ach loanDomain.ACHDetails) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&loanDomain.Participant{}).
		Where("id = ? AND status = ?", id, loanDomain.ParticipantPending).
		Updates(map[string]any{
			"status":                   loanDomain.ParticipantAccepted,
			"responded_at":             at,
			"lender_id":                lenderID,
			"lender_name":              lenderName,
			"ach_bank_name":            ach.BankName,
			"ach_account_type":         ach.AccountType,
			"ach_routing_number":       ach.RoutingNumber,
			"ach_account_number":       ach.AccountNumber,
			"ach_special_instructions": ach.SpecialInstructions,
		})
	return res.RowsAffected > 0, res.Error
}

func (r *ParticipantRepository) MarkDeclined(ctx context.Context, id uint64, lenderID string, at time.Time) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&loanDomain.Participant{}).
		Where("id = ? AND status = ?", id, loanDomain.ParticipantPending).
		Updates(map[string]any{
			"status":       loanDomain.ParticipantDeclined,
			"responded_at": at,
			"lender_id":    lenderID,
		})
	return res.RowsAffected > 0, res.Error
}

func (r *ParticipantRepository) ApplyPayment(ctx context.Context, id uint64, totalPaid, remaining decimal.Decimal) error {
	return r.db.WithContext(ctx).
		Model(&loanDomain.Participant{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"total_paid":        totalPaid,
			"remaining_balance": remaining,
		}).Error
}

// ResolveLender fills the null lender_id in place for every invitation
// addressed to the email; the row itself never moves.
func (r *ParticipantRepository) ResolveLender(ctx context.Context, email, userID, name string) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&loanDomain.Participant{}).
		Where("lender_email = ? AND lender_id IS NULL", email).
		Updates(map[string]any{
			"lender_id":   userID,
			"lender_name": name,
		})
	return res.RowsAffected, res.Error
}
