package funding

import (
	"time"
)

type LenderInvite struct {
	Email              string  `json:"email"`
	ContributionAmount float64 `json:"contribution_amount"`
}

type MaturityTermsInput struct {
	StartDate        string `json:"start_date"` // YYYY-MM-DD
	PaymentFrequency string `json:"payment_frequency"`
	TermLength       int    `json:"term_length"` // months
}

type CreateLoanInput struct {
	LoanName      string             `json:"loan_name"`
	Amount        float64            `json:"amount"`
	InterestRate  float64            `json:"interest_rate"`
	MaturityTerms MaturityTermsInput `json:"maturity_terms"`
	Purpose       string             `json:"purpose"`
	Description   string             `json:"description"`
	Lenders       []LenderInvite     `json:"lenders"`
}

type ACHInput struct {
	BankName            string `json:"bank_name"`
	AccountType         string `json:"account_type"`
	RoutingNumber       string `json:"routing_number"`
	AccountNumber       string `json:"account_number"`
	SpecialInstructions string `json:"special_instructions"`
}

type ResolveLenderInput struct {
	Email  string `json:"email"`
	UserID string `json:"user_id"`
	Name   string `json:"name"`
}

// ---- DTOs ----

type MaturityTermsDTO struct {
	StartDate        string `json:"start_date"`
	PaymentFrequency string `json:"payment_frequency"`
	TermLength       int    `json:"term_length"`
	MaturityDate     string `json:"maturity_date"`
	TotalPayments    int    `json:"total_payments"`
}

type LoanDTO struct {
	LoanID        string           `json:"loan_id"`
	LoanName      string           `json:"loan_name"`
	BorrowerID    string           `json:"borrower_id"`
	Amount        float64          `json:"amount"`
	InterestRate  float64          `json:"interest_rate"`
	MaturityTerms MaturityTermsDTO `json:"maturity_terms"`
	Purpose       string           `json:"purpose"`
	Description   string           `json:"description"`
	Status        string           `json:"status"`
	TotalFunded   float64          `json:"total_funded"`
	TotalInvited  float64          `json:"total_invited"`
	CreatedAt     time.Time        `json:"created_at"`
	LendersAdded  int              `json:"lenders_added"`
}

type AddLendersResult struct {
	LoanID         string  `json:"loan_id"`
	LendersAdded   int     `json:"lenders_added"`
	TotalInvited   float64 `json:"total_invited"`
	Remaining      float64 `json:"remaining"`
	IsFullyInvited bool    `json:"is_fully_invited"`
}

type RespondResult struct {
	LoanID             string     `json:"loan_id"`
	Status             string     `json:"status"`
	LoanStatus         string     `json:"loan_status"`
	ContributionAmount float64    `json:"contribution_amount"`
	RespondedAt        *time.Time `json:"responded_at"`
}

type FundingProgress struct {
	Amount      float64 `json:"amount"`
	TotalFunded float64 `json:"total_funded"`
	Percentage  float64 `json:"percentage"`
	Remaining   float64 `json:"remaining"`
}

type PaymentEstimate struct {
	PaymentAmount  float64 `json:"payment_amount"`
	TotalInterest  float64 `json:"total_interest"`
	TotalRepayment float64 `json:"total_repayment"`
}

type ACHDetailsDTO struct {
	BankName            string `json:"bank_name"`
	AccountType         string `json:"account_type"`
	RoutingNumber       string `json:"routing_number"`
	AccountNumber       string `json:"account_number"`
	SpecialInstructions string `json:"special_instructions,omitempty"`
}

// ParticipantView is the borrower-facing projection of one participant.
type ParticipantView struct {
	ParticipantID      string           `json:"participant_id"`
	LenderID           *string          `json:"lender_id"`
	LenderName         string           `json:"lender_name"`
	LenderEmail        string           `json:"lender_email"`
	ContributionAmount float64          `json:"contribution_amount"`
	Status             string           `json:"status"`
	InvitedAt          time.Time        `json:"invited_at"`
	RespondedAt        *time.Time       `json:"responded_at"`
	TotalPaid          float64          `json:"total_paid"`
	RemainingBalance   float64          `json:"remaining_balance"`
	ACHDetails         *ACHDetailsDTO   `json:"ach_details,omitempty"`
	Estimate           *PaymentEstimate `json:"payment_estimate,omitempty"`
}

// ParticipationView is the lender-facing projection of their own slot; it
// never exposes other lenders.
type ParticipationView struct {
	ParticipantID      string           `json:"participant_id"`
	ContributionAmount float64          `json:"contribution_amount"`
	Status             string           `json:"status"`
	InvitedAt          time.Time        `json:"invited_at"`
	RespondedAt        *time.Time       `json:"responded_at"`
	TotalPaid          float64          `json:"total_paid"`
	RemainingBalance   float64          `json:"remaining_balance"`
	Estimate           *PaymentEstimate `json:"payment_estimate,omitempty"`
}

type BorrowerPaymentDetails struct {
	TotalPaymentAmount float64  `json:"total_payment_amount"`
	PaymentFrequency   string   `json:"payment_frequency"`
	TotalPayments      int      `json:"total_payments"`
	PaymentDates       []string `json:"payment_dates"`
}

type LoanView struct {
	LoanID          string            `json:"loan_id"`
	LoanName        string            `json:"loan_name"`
	BorrowerID      string            `json:"borrower_id"`
	Amount          float64           `json:"amount"`
	InterestRate    float64           `json:"interest_rate"`
	MaturityTerms   MaturityTermsDTO  `json:"maturity_terms"`
	Purpose         string            `json:"purpose"`
	Description     string            `json:"description"`
	Status          string            `json:"status"`
	TotalFunded     float64           `json:"total_funded"`
	CreatedAt       time.Time         `json:"created_at"`
	FundingProgress FundingProgress   `json:"funding_progress"`
	// Role-scoped: borrowers get Participants (+ payment details), lenders
	// get only their own UserParticipation.
	Participants           []ParticipantView       `json:"participants"`
	UserParticipation      *ParticipationView      `json:"user_participation,omitempty"`
	BorrowerPaymentDetails *BorrowerPaymentDetails `json:"borrower_payment_details,omitempty"`
}

type LoanSummary struct {
	LoanID               string            `json:"loan_id"`
	LoanName             string            `json:"loan_name"`
	Amount               float64           `json:"amount"`
	InterestRate         float64           `json:"interest_rate"`
	Status               string            `json:"status"`
	Purpose              string            `json:"purpose"`
	TotalFunded          float64           `json:"total_funded"`
	TotalInvited         float64           `json:"total_invited"`
	CreatedAt            time.Time         `json:"created_at"`
	ParticipantCount     int               `json:"participant_count"`
	AcceptedParticipants int               `json:"accepted_participants"`
	FundingProgress      FundingProgress   `json:"funding_progress"`
	Participants         []ParticipantView `json:"participants"`
}

type LenderInvestment struct {
	LoanID   string  `json:"loan_id"`
	LoanName string  `json:"loan_name"`
	Amount   float64 `json:"amount"`
	APR      float64 `json:"apr"`
	Status   string  `json:"status"`
}

type LenderStats struct {
	InvestmentCount   int     `json:"investment_count"`
	TotalInvested     float64 `json:"total_invested"`
	AverageInvestment float64 `json:"average_investment"`
	AverageAPR        float64 `json:"average_apr"`
}

// LenderSearchResult is one previously accepted lender of the borrower,
// aggregated across that borrower's loans.
type LenderSearchResult struct {
	LenderID       string            `json:"lender_id"`
	Name           string            `json:"name"`
	Email          string            `json:"email"`
	Stats          LenderStats       `json:"stats"`
	LastInvestment *LenderInvestment `json:"last_investment,omitempty"`
}

type InvitationView struct {
	LoanID             string           `json:"loan_id"`
	LoanName           string           `json:"loan_name"`
	LoanAmount         float64          `json:"loan_amount"`
	LoanPurpose        string           `json:"loan_purpose"`
	LoanDescription    string           `json:"loan_description"`
	InterestRate       float64          `json:"interest_rate"`
	MaturityTerms      MaturityTermsDTO `json:"maturity_terms"`
	ContributionAmount float64          `json:"contribution_amount"`
	InvitedAt          time.Time        `json:"invited_at"`
	LoanStatus         string           `json:"loan_status"`
	FundingProgress    FundingProgress  `json:"funding_progress"`
	Estimate           *PaymentEstimate `json:"payment_estimate,omitempty"`
}
