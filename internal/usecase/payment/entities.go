package payment

import "time"

type SubmitPaymentInput struct {
	LoanID      string  `json:"loan_id"`
	LenderID    string  `json:"lender_id"`
	Amount      float64 `json:"amount"`
	PaymentDate string  `json:"payment_date"` // YYYY-MM-DD
	Notes       string  `json:"notes"`
	ReceiptKey  string  `json:"receipt_key"`
}

type UploadURLInput struct {
	LoanID   string `json:"loan_id"`
	LenderID string `json:"lender_id"`
	FileName string `json:"file_name"`
	FileType string `json:"file_type"`
}

type PaymentDTO struct {
	PaymentID   string    `json:"payment_id"`
	LoanID      string    `json:"loan_id"`
	BorrowerID  string    `json:"borrower_id"`
	LenderID    string    `json:"lender_id"`
	Amount      float64   `json:"amount"`
	PaymentDate string    `json:"payment_date"`
	Notes       string    `json:"notes,omitempty"`
	ReceiptKey  string    `json:"receipt_key,omitempty"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`

	ApprovedAt    *time.Time `json:"approved_at,omitempty"`
	ApprovalNotes string     `json:"approval_notes,omitempty"`

	RejectedAt      *time.Time `json:"rejected_at,omitempty"`
	RejectionReason string     `json:"rejection_reason,omitempty"`
}

type ResolveResult struct {
	PaymentID        string  `json:"payment_id"`
	Status           string  `json:"status"`
	TotalPaid        float64 `json:"total_paid"`
	RemainingBalance float64 `json:"remaining_balance"`
}

type UploadURLResult struct {
	UploadURL string    `json:"upload_url"`
	FileKey   string    `json:"file_key"`
	PaymentID string    `json:"payment_id"`
	ExpiresAt time.Time `json:"expires_at"`
}

type ReceiptURLResult struct {
	URL       string    `json:"url"`
	ExpiresAt time.Time `json:"expires_at"`
}
