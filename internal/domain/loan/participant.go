package loan

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type ParticipantStatus string

const (
	ParticipantPending  ParticipantStatus = "PENDING"
	ParticipantAccepted ParticipantStatus = "ACCEPTED"
	ParticipantDeclined ParticipantStatus = "DECLINED"
)

// ACHDetails is the lender's payout account, attached on acceptance.
// Account numbers never appear in logs.
type ACHDetails struct {
	BankName            string `gorm:"size:100" json:"bank_name"`
	AccountType         string `gorm:"size:16" json:"account_type"` // checking | savings
	RoutingNumber       string `gorm:"size:9" json:"routing_number"`
	AccountNumber       string `gorm:"size:20" json:"account_number"`
	SpecialInstructions string `gorm:"size:500" json:"special_instructions,omitempty"`
}

// Participant is the relationship record between a loan and one invited
// lender. Its slot is immutable from invitation time: when the invited email
// later registers, only the nullable LenderID field is filled in, the row
// never moves.
type Participant struct {
	ID            uint64 `gorm:"primaryKey;column:id" json:"-"`
	ParticipantID string `gorm:"size:36;uniqueIndex:ux_participants_pid" json:"participant_id"`
	LoanID        uint64 `gorm:"not null;index:ix_participants_loan_email" json:"-"`

	// No unique key on (loan_id, lender_email): a declined slot may be
	// re-invited as a fresh row. Duplicate protection for live slots runs
	// inside the loan-locked transaction.
	LenderEmail string  `gorm:"size:255;index:ix_participants_loan_email" json:"lender_email"`
	LenderID    *string `gorm:"size:36;index" json:"lender_id"`
	LenderName  string  `gorm:"size:100" json:"lender_name"`

	ContributionAmount decimal.Decimal `gorm:"type:decimal(18,2)" json:"contribution_amount"`

	Status      ParticipantStatus `gorm:"size:16;default:'PENDING'" json:"status"`
	InvitedAt   time.Time         `json:"invited_at"`
	RespondedAt *time.Time        `json:"responded_at"`

	ACH ACHDetails `gorm:"embedded;embeddedPrefix:ach_" json:"-"`

	// TotalPaid accumulates APPROVED payments only; RemainingBalance is
	// always recomputed as contribution minus total paid.
	TotalPaid        decimal.Decimal `gorm:"type:decimal(18,2)" json:"total_paid"`
	RemainingBalance decimal.Decimal `gorm:"type:decimal(18,2)" json:"remaining_balance"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"-"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"-"`
}

func (Participant) TableName() string { return "participants" }

// Resolved reports whether the invited email has registered as a user.
func (p *Participant) Resolved() bool { return p.LenderID != nil && *p.LenderID != "" }

// OwnedBy reports whether the participant belongs to the given caller,
// matching the resolved lender id or, before resolution, the invited email.
func (p *Participant) OwnedBy(userID, email string) bool {
	if p.Resolved() {
		return *p.LenderID == userID
	}
	return strings.EqualFold(p.LenderEmail, email)
}

func (p *Participant) HasACH() bool { return p.ACH.RoutingNumber != "" }
