package payment

import (
	"time"

	"github.com/shopspring/decimal"
)

type Status string

const (
	StatusPending  Status = "PENDING"
	StatusApproved Status = "APPROVED"
	StatusRejected Status = "REJECTED"
)

// Payment is a single borrower-submitted repayment event against one
// participant. Once APPROVED or REJECTED it is terminal.
type Payment struct {
	ID        uint64 `gorm:"primaryKey;column:id" json:"-"`
	PaymentID string `gorm:"size:36;uniqueIndex:ux_payments_payment_id" json:"payment_id"`

	LoanID        uint64 `gorm:"not null;index" json:"-"`
	ParticipantID uint64 `gorm:"not null;index" json:"-"`
	LoanUID       string `gorm:"size:36;index" json:"loan_id"`
	BorrowerID    string `gorm:"size:36" json:"borrower_id"`
	LenderID      string `gorm:"size:36;index" json:"lender_id"`

	Amount      decimal.Decimal `gorm:"type:decimal(18,2)" json:"amount"`
	PaymentDate time.Time       `gorm:"type:date" json:"payment_date"`
	Notes       string          `gorm:"size:1000" json:"notes,omitempty"`
	ReceiptKey  string          `gorm:"size:512" json:"receipt_key,omitempty"`

	Status Status `gorm:"size:16;default:'PENDING'" json:"status"`

	ApprovedAt    *time.Time `json:"approved_at,omitempty"`
	ApprovedBy    string     `gorm:"size:36" json:"approved_by,omitempty"`
	ApprovalNotes string     `gorm:"size:1000" json:"approval_notes,omitempty"`

	RejectedAt      *time.Time `json:"rejected_at,omitempty"`
	RejectedBy      string     `gorm:"size:36" json:"rejected_by,omitempty"`
	RejectionReason string     `gorm:"size:1000" json:"rejection_reason,omitempty"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"-"`
}

func (Payment) TableName() string { return "payments" }

// Resolved reports whether the payment reached a terminal state.
func (p *Payment) Resolved() bool { return p.Status != StatusPending }
