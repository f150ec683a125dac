package payment

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"lendcore/internal/domain/auth"
	"lendcore/internal/domain/blob"
	"lendcore/internal/domain/fault"
	domainloan "lendcore/internal/domain/loan"
	"lendcore/internal/domain/notify"
	domain "lendcore/internal/domain/payment"
	"lendcore/internal/domain/uow"
	"lendcore/pkg/id"
)

const (
	uploadURLTTL  = 15 * time.Minute
	receiptURLTTL = time.Hour
)

var allowedReceiptTypes = map[string]bool{
	"application/pdf": true,
	"image/jpeg":      true,
	"image/png":       true,
}

type Usecase struct {
	loans        domainloan.Repository
	participants domainloan.ParticipantRepository
	payments     domain.Repository
	uow          uow.UnitOfWork
	blobs        blob.Store
	notifier     notify.Notifier
	log          *logrus.Logger
}

func NewUsecase(loans domainloan.Repository, participants domainloan.ParticipantRepository, payments domain.Repository, tx uow.UnitOfWork, blobs blob.Store, n notify.Notifier, log *logrus.Logger) *Usecase {
	if n == nil {
		n = notify.Discard{}
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Usecase{loans: loans, participants: participants, payments: payments, uow: tx, blobs: blobs, notifier: n, log: log}
}

func dto(p *domain.Payment) *PaymentDTO {
	return &PaymentDTO{
		PaymentID:       p.PaymentID,
		LoanID:          p.LoanUID,
		BorrowerID:      p.BorrowerID,
		LenderID:        p.LenderID,
		Amount:          p.Amount.InexactFloat64(),
		PaymentDate:     p.PaymentDate.Format("2006-01-02"),
		Notes:           p.Notes,
		ReceiptKey:      p.ReceiptKey,
		Status:          string(p.Status),
		CreatedAt:       p.CreatedAt,
		ApprovedAt:      p.ApprovedAt,
		ApprovalNotes:   p.ApprovalNotes,
		RejectedAt:      p.RejectedAt,
		RejectionReason: p.RejectionReason,
	}
}

func (u *Usecase) loadLoan(ctx context.Context, loanID string) (*domainloan.Loan, error) {
	l, err := u.loans.GetByLoanID(ctx, loanID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fault.NotFound(fault.CodeLoanNotFound, "loan %s not found", loanID)
		}
		return nil, fault.Dependency("load loan", err)
	}
	return l, nil
}

func (u *Usecase) loadPayment(ctx context.Context, paymentID string) (*domain.Payment, error) {
	p, err := u.payments.GetByPaymentID(ctx, paymentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fault.NotFound(fault.CodePaymentNotFound, "payment %s not found", paymentID)
		}
		return nil, fault.Dependency("load payment", err)
	}
	return p, nil
}

// Submit records a borrower repayment against one accepted participant. The
// amount is deliberately not capped to the remaining balance here: the lender
// decides fit-to-balance at approval time.
func (u *Usecase) Submit(ctx context.Context, p auth.Principal, in SubmitPaymentInput) (*PaymentDTO, error) {
	if in.Amount <= 0 {
		return nil, fault.Validation(fault.CodeInvalidAmount, "amount must be greater than 0")
	}
	payDate, err := time.Parse("2006-01-02", in.PaymentDate)
	if err != nil {
		return nil, fault.Validation(fault.CodeInvalidInput, "invalid payment date, use YYYY-MM-DD")
	}

	l, err := u.loadLoan(ctx, in.LoanID)
	if err != nil {
		return nil, err
	}
	if l.BorrowerID != p.UserID {
		return nil, fault.Authorization(fault.CodeNotBorrower, "only the borrower can submit payments")
	}

	part, err := u.participants.GetForLender(ctx, l.ID, in.LenderID, "")
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fault.NotFound(fault.CodeParticipantNotFound, "lender not found for this loan")
		}
		return nil, fault.Dependency("load participant", err)
	}
	if part.Status != domainloan.ParticipantAccepted {
		return nil, fault.Conflict(fault.CodeParticipantNotAccepted, "lender must have accepted the loan")
	}

	amount := decimal.NewFromFloat(in.Amount).Round(2)
	if amount.GreaterThan(part.RemainingBalance) {
		u.log.WithFields(logrus.Fields{"loan_id": in.LoanID, "lender_id": in.LenderID}).
			Warn("payment submitted above remaining balance")
	}

	pay := &domain.Payment{
		PaymentID:     id.New(),
		LoanID:        l.ID,
		ParticipantID: part.ID,
		LoanUID:       l.LoanID,
		BorrowerID:    p.UserID,
		LenderID:      in.LenderID,
		Amount:        amount,
		PaymentDate:   payDate,
		Notes:         strings.TrimSpace(in.Notes),
		ReceiptKey:    in.ReceiptKey,
		Status:        domain.StatusPending,
	}
	if err := u.payments.Create(ctx, pay); err != nil {
		return nil, fault.Dependency("create payment", err)
	}

	u.log.WithFields(logrus.Fields{"payment_id": pay.PaymentID, "loan_id": in.LoanID, "borrower_id": p.UserID}).
		Info("payment submitted")
	u.notifier.Notify(ctx, notify.Event{Type: notify.EventPaymentSubmitted, LoanID: in.LoanID, Actor: p.UserID})
	return dto(pay), nil
}

// Approve resolves a PENDING payment and credits the participant's running
// balance. The transition is conditional on the current status, so two
// concurrent approvals can never double-credit; an approval that would push
// total_paid past the contribution is rejected rather than clamped.
func (u *Usecase) Approve(ctx context.Context, p auth.Principal, paymentID, notes string) (*ResolveResult, error) {
	pay, err := u.loadPayment(ctx, paymentID)
	if err != nil {
		return nil, err
	}
	if pay.LenderID != p.UserID {
		return nil, fault.Authorization(fault.CodeNotOwner, "only the lender can approve this payment")
	}
	if pay.Resolved() {
		return nil, fault.Conflict(fault.CodeAlreadyResolved, "payment is already %s", strings.ToLower(string(pay.Status)))
	}

	var result *ResolveResult
	err = u.uow.WithinTx(ctx, func(r uow.Repos) error {
		// Locked read: a concurrent approval of another payment on the
		// same participant must see this one's credit, not a stale
		// snapshot, or the balance write below would lose it.
		part, err := r.Participants.GetByIDForUpdate(ctx, pay.ParticipantID)
		if err != nil {
			return fault.Dependency("load participant", err)
		}

		newTotal := part.TotalPaid.Add(pay.Amount)
		if newTotal.GreaterThan(part.ContributionAmount) {
			excess := newTotal.Sub(part.ContributionAmount)
			return fault.Conflict(fault.CodeOverPayment, "approval would exceed the remaining balance by $%s", excess.StringFixed(2))
		}

		now := time.Now().UTC()
		ok, err := r.Payments.Approve(ctx, pay.ID, now, p.UserID, strings.TrimSpace(notes))
		if err != nil {
			return fault.Dependency("approve payment", err)
		}
		if !ok {
			return fault.Conflict(fault.CodeAlreadyResolved, "payment is already resolved")
		}

		remaining := part.ContributionAmount.Sub(newTotal)
		if err := r.Participants.ApplyPayment(ctx, part.ID, newTotal, remaining); err != nil {
			return fault.Dependency("apply payment", err)
		}

		result = &ResolveResult{
			PaymentID:        pay.PaymentID,
			Status:           string(domain.StatusApproved),
			TotalPaid:        newTotal.InexactFloat64(),
			RemainingBalance: remaining.InexactFloat64(),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	u.log.WithFields(logrus.Fields{"payment_id": paymentID, "lender_id": p.UserID}).Info("payment approved")
	u.notifier.Notify(ctx, notify.Event{Type: notify.EventPaymentResolved, LoanID: pay.LoanUID, Actor: p.UserID})
	return result, nil
}

// Reject resolves a PENDING payment without touching any balance.
func (u *Usecase) Reject(ctx context.Context, p auth.Principal, paymentID, reason string) (*ResolveResult, error) {
	if strings.TrimSpace(reason) == "" {
		return nil, fault.Validation(fault.CodeInvalidInput, "rejection reason is required")
	}
	pay, err := u.loadPayment(ctx, paymentID)
	if err != nil {
		return nil, err
	}
	if pay.LenderID != p.UserID {
		return nil, fault.Authorization(fault.CodeNotOwner, "only the lender can reject this payment")
	}
	if pay.Resolved() {
		return nil, fault.Conflict(fault.CodeAlreadyResolved, "payment is already %s", strings.ToLower(string(pay.Status)))
	}

	ok, err := u.payments.Reject(ctx, pay.ID, time.Now().UTC(), p.UserID, strings.TrimSpace(reason))
	if err != nil {
		return nil, fault.Dependency("reject payment", err)
	}
	if !ok {
		return nil, fault.Conflict(fault.CodeAlreadyResolved, "payment is already resolved")
	}

	u.log.WithFields(logrus.Fields{"payment_id": paymentID, "lender_id": p.UserID}).Info("payment rejected")
	u.notifier.Notify(ctx, notify.Event{Type: notify.EventPaymentResolved, LoanID: pay.LoanUID, Actor: p.UserID})
	return &ResolveResult{PaymentID: pay.PaymentID, Status: string(domain.StatusRejected)}, nil
}

// List returns the payments on a loan visible to the caller: every payment
// for the borrower, only the caller's own for a lender.
func (u *Usecase) List(ctx context.Context, p auth.Principal, loanID string) ([]PaymentDTO, error) {
	l, err := u.loadLoan(ctx, loanID)
	if err != nil {
		return nil, err
	}

	var rows []domain.Payment
	switch {
	case l.BorrowerID == p.UserID:
		rows, err = u.payments.ListByLoan(ctx, l.ID)
	default:
		if _, perr := u.participants.GetForLender(ctx, l.ID, p.UserID, p.Email); perr != nil {
			if errors.Is(perr, gorm.ErrRecordNotFound) {
				return nil, fault.Authorization(fault.CodeForbidden, "not authorized to view payments for this loan")
			}
			return nil, fault.Dependency("load participant", perr)
		}
		rows, err = u.payments.ListByLoanAndLender(ctx, l.ID, p.UserID)
	}
	if err != nil {
		return nil, fault.Dependency("list payments", err)
	}

	out := make([]PaymentDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *dto(&rows[i]))
	}
	return out, nil
}

// Get returns one payment to its borrower or its owning lender.
func (u *Usecase) Get(ctx context.Context, p auth.Principal, paymentID string) (*PaymentDTO, error) {
	pay, err := u.loadPayment(ctx, paymentID)
	if err != nil {
		return nil, err
	}
	if p.UserID != pay.BorrowerID && p.UserID != pay.LenderID {
		return nil, fault.Authorization(fault.CodeForbidden, "not authorized to view this payment")
	}
	return dto(pay), nil
}

// UploadURL hands the borrower a short-lived signed PUT URL for a receipt.
// The generated key pre-allocates the payment id the receipt will attach to.
func (u *Usecase) UploadURL(ctx context.Context, p auth.Principal, in UploadURLInput) (*UploadURLResult, error) {
	if in.FileName == "" || in.FileType == "" {
		return nil, fault.Validation(fault.CodeInvalidInput, "file_name and file_type are required")
	}
	if !allowedReceiptTypes[in.FileType] {
		return nil, fault.Validation(fault.CodeInvalidInput, "invalid file type, allowed: PDF, JPG, PNG")
	}

	l, err := u.loadLoan(ctx, in.LoanID)
	if err != nil {
		return nil, err
	}
	if l.BorrowerID != p.UserID {
		return nil, fault.Authorization(fault.CodeNotBorrower, "only the borrower can upload receipts")
	}

	paymentID := id.New()
	safeName := strings.NewReplacer("/", "_", "\\", "_").Replace(in.FileName)
	key := in.LoanID + "/" + in.LenderID + "/" + paymentID + "/" + safeName

	url, expires, err := u.blobs.SignedPutURL(ctx, key, in.FileType, uploadURLTTL)
	if err != nil {
		return nil, fault.Dependency("sign upload url", err)
	}
	return &UploadURLResult{UploadURL: url, FileKey: key, PaymentID: paymentID, ExpiresAt: expires}, nil
}

// ReceiptURL hands the borrower or the owning lender a short-lived signed
// GET URL for the payment's receipt.
func (u *Usecase) ReceiptURL(ctx context.Context, p auth.Principal, paymentID string) (*ReceiptURLResult, error) {
	pay, err := u.loadPayment(ctx, paymentID)
	if err != nil {
		return nil, err
	}
	if p.UserID != pay.BorrowerID && p.UserID != pay.LenderID {
		return nil, fault.Authorization(fault.CodeForbidden, "not authorized to view this receipt")
	}
	if pay.ReceiptKey == "" {
		return nil, fault.NotFound(fault.CodeReceiptNotFound, "no receipt uploaded for this payment")
	}

	url, expires, err := u.blobs.SignedGetURL(ctx, pay.ReceiptKey, receiptURLTTL)
	if err != nil {
		return nil, fault.Dependency("sign receipt url", err)
	}
	return &ReceiptURLResult{URL: url, ExpiresAt: expires}, nil
}
