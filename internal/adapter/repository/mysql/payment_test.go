package mysql

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	paymentDomain "lendcore/internal/domain/payment"
	"lendcore/pkg/id"
)

func seedPayment(t *testing.T, db *gorm.DB, loanID, participantID uint64, lenderID string, amount int64) *paymentDomain.Payment {
	t.Helper()
	p := &paymentDomain.Payment{
		PaymentID:     id.New(),
		LoanID:        loanID,
		ParticipantID: participantID,
		LoanUID:       "LN-" + id.New(),
		BorrowerID:    "user-b",
		LenderID:      lenderID,
		Amount:        decimal.NewFromInt(amount),
		PaymentDate:   time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC),
		Status:        paymentDomain.StatusPending,
	}
	if err := NewPaymentRepository(db).Create(context.Background(), p); err != nil {
		t.Fatalf("seed payment: %v", err)
	}
	return p
}

func TestPayment_CreateAndGetByPaymentID(t *testing.T) {
	db := openTestDB(t)
	repo := NewPaymentRepository(db)

	l := seedLoan(t, db, "user-b")
	part := seedParticipant(t, db, l.ID, "lender@x.test", 4_000)
	p := seedPayment(t, db, l.ID, part.ID, "user-l", 500)

	got, err := repo.GetByPaymentID(context.Background(), p.PaymentID)
	if err != nil {
		t.Fatalf("GetByPaymentID: %v", err)
	}
	if got.ID != p.ID || got.Status != paymentDomain.StatusPending {
		t.Errorf("unexpected payment: %+v", got)
	}
	if !got.Amount.Equal(decimal.NewFromInt(500)) {
		t.Errorf("amount round-trip: %s", got.Amount)
	}
}

func TestPayment_Approve_OnlyOnce(t *testing.T) {
	db := openTestDB(t)
	repo := NewPaymentRepository(db)
	ctx := context.Background()

	l := seedLoan(t, db, "user-b")
	part := seedParticipant(t, db, l.ID, "lender@x.test", 4_000)
	p := seedPayment(t, db, l.ID, part.ID, "user-l", 500)
	at := time.Now().UTC()

	won, err := repo.Approve(ctx, p.ID, at, "user-l", "looks good")
	if err != nil || !won {
		t.Fatalf("Approve: won=%v err=%v", won, err)
	}

	got, err := repo.GetByPaymentID(ctx, p.PaymentID)
	if err != nil {
		t.Fatalf("GetByPaymentID: %v", err)
	}
	if got.Status != paymentDomain.StatusApproved {
		t.Errorf("status = %s, want APPROVED", got.Status)
	}
	if got.ApprovedAt == nil || got.ApprovedBy != "user-l" || got.ApprovalNotes != "looks good" {
		t.Errorf("approval fields not recorded: %+v", got)
	}

	// Terminal: a second approve and a late reject both lose.
	won, err = repo.Approve(ctx, p.ID, at, "user-l", "")
	if err != nil || won {
		t.Errorf("second Approve: won=%v err=%v", won, err)
	}
	won, err = repo.Reject(ctx, p.ID, at, "user-l", "changed my mind")
	if err != nil || won {
		t.Errorf("Reject after Approve: won=%v err=%v", won, err)
	}
}

func TestPayment_Reject_OnlyOnce(t *testing.T) {
	db := openTestDB(t)
	repo := NewPaymentRepository(db)
	ctx := context.Background()

	l := seedLoan(t, db, "user-b")
	part := seedParticipant(t, db, l.ID, "lender@x.test", 4_000)
	p := seedPayment(t, db, l.ID, part.ID, "user-l", 500)
	at := time.Now().UTC()

	won, err := repo.Reject(ctx, p.ID, at, "user-l", "wrong amount")
	if err != nil || !won {
		t.Fatalf("Reject: won=%v err=%v", won, err)
	}

	got, err := repo.GetByPaymentID(ctx, p.PaymentID)
	if err != nil {
		t.Fatalf("GetByPaymentID: %v", err)
	}
	if got.Status != paymentDomain.StatusRejected {
		t.Errorf("status = %s, want REJECTED", got.Status)
	}
	if got.RejectedAt == nil || got.RejectionReason != "wrong amount" {
		t.Errorf("rejection fields not recorded: %+v", got)
	}

	won, err = repo.Reject(ctx, p.ID, at, "user-l", "again")
	if err != nil || won {
		t.Errorf("second Reject: won=%v err=%v", won, err)
	}
}

func TestPayment_ListByLoanAndLender(t *testing.T) {
	db := openTestDB(t)
	repo := NewPaymentRepository(db)
	ctx := context.Background()

	l := seedLoan(t, db, "user-b")
	p1 := seedParticipant(t, db, l.ID, "one@x.test", 4_000)
	p2 := seedParticipant(t, db, l.ID, "two@x.test", 6_000)

	a := seedPayment(t, db, l.ID, p1.ID, "user-l1", 500)
	b := seedPayment(t, db, l.ID, p2.ID, "user-l2", 700)
	c := seedPayment(t, db, l.ID, p1.ID, "user-l1", 300)

	all, err := repo.ListByLoan(ctx, l.ID)
	if err != nil {
		t.Fatalf("ListByLoan: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("len = %d, want 3", len(all))
	}
	// Newest first; seeds share a timestamp so the id tiebreak decides.
	if all[0].ID != c.ID || all[2].ID != a.ID {
		t.Errorf("order wrong: %d, %d, %d", all[0].ID, all[1].ID, all[2].ID)
	}

	mine, err := repo.ListByLoanAndLender(ctx, l.ID, "user-l1")
	if err != nil {
		t.Fatalf("ListByLoanAndLender: %v", err)
	}
	if len(mine) != 2 {
		t.Fatalf("len = %d, want 2", len(mine))
	}
	for _, p := range mine {
		if p.LenderID != "user-l1" {
			t.Errorf("leaked payment for %s", p.LenderID)
		}
	}
	if mine[0].ID == b.ID || mine[1].ID == b.ID {
		t.Errorf("other lender's payment leaked")
	}
}
