package loan

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"lendcore/internal/domain/terms"
)

type Status string

const (
	StatusPending   Status = "PENDING"
	StatusActive    Status = "ACTIVE"
	StatusCompleted Status = "COMPLETED"
)

type Loan struct {
	ID            uint64 `gorm:"primaryKey;column:id" json:"-"`
	LoanID        string `gorm:"size:36;uniqueIndex:ux_loans_loan_id_active" json:"loan_id"`
	BorrowerID    string `gorm:"size:36;index:idx_loans_borrower_active" json:"borrower_id"`
	BorrowerEmail string `gorm:"size:255" json:"-"`
	LoanName      string `gorm:"size:100" json:"loan_name"`

	Amount       decimal.Decimal `gorm:"type:decimal(18,2)" json:"amount"`
	InterestRate decimal.Decimal `gorm:"type:decimal(6,2)" json:"interest_rate"`
	Purpose      string          `gorm:"size:100" json:"purpose"`
	Description  string          `gorm:"type:text" json:"description"`

	StartDate        time.Time       `gorm:"type:date" json:"start_date"`
	PaymentFrequency terms.Frequency `gorm:"size:16" json:"payment_frequency"`
	TermLength       int             `json:"term_length"`
	MaturityDate     time.Time       `gorm:"type:date" json:"maturity_date"`
	TotalPayments    int             `json:"total_payments"`

	Status Status `gorm:"size:16;default:'PENDING'" json:"status"`

	// TotalFunded sums ACCEPTED contributions; TotalInvited sums all
	// non-declined contributions. Both are maintained inside the loan
	// transaction, never recomputed from a stale read.
	TotalFunded  decimal.Decimal `gorm:"type:decimal(18,2)" json:"total_funded"`
	TotalInvited decimal.Decimal `gorm:"type:decimal(18,2)" json:"total_invited"`

	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Loan) TableName() string { return "loans" }

// Remaining is the capacity still open for invitations.
func (l *Loan) Remaining() decimal.Decimal { return l.Amount.Sub(l.TotalInvited) }

// FullyFunded reports whether accepted contributions cover the principal.
func (l *Loan) FullyFunded() bool { return l.TotalFunded.GreaterThanOrEqual(l.Amount) }
