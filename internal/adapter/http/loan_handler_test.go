package http

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"testing"
	"time"

	"gorm.io/gorm"

	loanDomain "lendcore/internal/domain/loan"
	"lendcore/internal/testutil/loanmock"
	"lendcore/internal/testutil/participantmock"
	"lendcore/internal/testutil/paymentmock"
	"lendcore/internal/usecase/funding"
)

func newLoanHandler(loans *loanmock.Repo, parts *participantmock.Repo) *LoanHandler {
	uc := funding.NewUsecase(loans, parts, passthrough(loans, parts, &paymentmock.Repo{}), nil, discardLog())
	return NewLoanHandler(uc)
}

func createLoanBody() string {
	start := time.Now().UTC().AddDate(0, 1, 0).Format("2006-01-02")
	return fmt.Sprintf(`{
		"loan_name": "Truck",
		"amount": 10000,
		"interest_rate": 12,
		"maturity_terms": {"start_date": %q, "payment_frequency": "Monthly", "term_length": 12},
		"purpose": "equipment",
		"lenders": [{"email": "l1@x.test", "contribution_amount": 4000}]
	}`, start)
}

func TestCreateLoan_Created(t *testing.T) {
	e := newEcho()
	loans := &loanmock.Repo{
		CreateFn: func(ctx context.Context, l *loanDomain.Loan) error {
			l.ID = 1
			return nil
		},
	}
	h := newLoanHandler(loans, &participantmock.Repo{})

	c, rec := jsonCtx(e, http.MethodPost, "/loans", createLoanBody(), &borrower)
	if err := h.CreateLoan(c); err != nil {
		t.Fatalf("CreateLoan: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	body := rec.Body.String()
	if !strings.Contains(body, `"loan_id"`) || !strings.Contains(body, "PENDING") {
		t.Errorf("unexpected body: %s", body)
	}
	if !strings.Contains(body, `"lenders_added":1`) {
		t.Errorf("lenders_added missing: %s", body)
	}
}

func TestCreateLoan_MissingPrincipal(t *testing.T) {
	e := newEcho()
	h := newLoanHandler(&loanmock.Repo{}, &participantmock.Repo{})

	c, rec := jsonCtx(e, http.MethodPost, "/loans", createLoanBody(), nil)
	if err := h.CreateLoan(c); err != nil {
		t.Fatalf("CreateLoan: %v", err)
	}
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestCreateLoan_MalformedBody(t *testing.T) {
	e := newEcho()
	h := newLoanHandler(&loanmock.Repo{}, &participantmock.Repo{})

	c, rec := jsonCtx(e, http.MethodPost, "/loans", "{not json", &borrower)
	if err := h.CreateLoan(c); err != nil {
		t.Fatalf("CreateLoan: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestCreateLoan_ValidationDetails(t *testing.T) {
	e := newEcho()
	h := newLoanHandler(&loanmock.Repo{}, &participantmock.Repo{})

	body := strings.Replace(createLoanBody(), `"amount": 10000`, `"amount": 500`, 1)
	c, rec := jsonCtx(e, http.MethodPost, "/loans", body, &borrower)
	if err := h.CreateLoan(c); err != nil {
		t.Fatalf("CreateLoan: %v", err)
	}
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), "Amount") {
		t.Errorf("details missing offending field: %s", rec.Body.String())
	}
}

func TestGetLoan_NotFound(t *testing.T) {
	e := newEcho()
	loans := &loanmock.Repo{
		GetByLoanIDFn: func(ctx context.Context, loanID string) (*loanDomain.Loan, error) {
			return nil, gorm.ErrRecordNotFound
		},
	}
	h := newLoanHandler(loans, &participantmock.Repo{})

	c, rec := jsonCtx(e, http.MethodGet, "/loans/LN-404", "", &borrower)
	c.SetPath("/loans/:loan_id")
	c.SetParamNames("loan_id")
	c.SetParamValues("LN-404")
	if err := h.GetLoan(c); err != nil {
		t.Fatalf("GetLoan: %v", err)
	}
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), "LOAN_NOT_FOUND") {
		t.Errorf("missing machine code: %s", rec.Body.String())
	}
}

func TestMyLoans_EmptyIsOkay(t *testing.T) {
	e := newEcho()
	loans := &loanmock.Repo{
		ListByBorrowerFn: func(ctx context.Context, borrowerID string) ([]loanDomain.Loan, error) {
			return nil, nil
		},
	}
	h := newLoanHandler(loans, &participantmock.Repo{})

	c, rec := jsonCtx(e, http.MethodGet, "/loans", "", &borrower)
	if err := h.MyLoans(c); err != nil {
		t.Fatalf("MyLoans: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"total":0`) {
		t.Errorf("unexpected body: %s", rec.Body.String())
	}
}

func TestAddLenders_EmptyBatchRejected(t *testing.T) {
	e := newEcho()
	h := newLoanHandler(&loanmock.Repo{}, &participantmock.Repo{})

	c, rec := jsonCtx(e, http.MethodPost, "/loans/LN-1/lenders", `{"lenders": []}`, &borrower)
	c.SetPath("/loans/:loan_id/lenders")
	c.SetParamNames("loan_id")
	c.SetParamValues("LN-1")
	if err := h.AddLenders(c); err != nil {
		t.Fatalf("AddLenders: %v", err)
	}
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
}

func TestAddLenders_ConflictMapsTo409(t *testing.T) {
	e := newEcho()
	l := pendingLoanRow()
	loans := &loanmock.Repo{
		GetByLoanIDFn: func(ctx context.Context, loanID string) (*loanDomain.Loan, error) { return l, nil },
		SaveFn:        func(ctx context.Context, saved *loanDomain.Loan) error { return nil },
	}
	parts := &participantmock.Repo{
		ListByLoanFn: func(ctx context.Context, loanID uint64) ([]loanDomain.Participant, error) {
			return []loanDomain.Participant{*pendingInviteRow()}, nil
		},
	}
	h := newLoanHandler(loans, parts)

	// Over-invites: 4000 already out, 8000 more against a 10000 loan.
	body := `{"lenders": [{"email": "l9@x.test", "contribution_amount": 8000}]}`
	c, rec := jsonCtx(e, http.MethodPost, "/loans/LN-1/lenders", body, &borrower)
	c.SetPath("/loans/:loan_id/lenders")
	c.SetParamNames("loan_id")
	c.SetParamValues("LN-1")
	if err := h.AddLenders(c); err != nil {
		t.Fatalf("AddLenders: %v", err)
	}
	if rec.Code != http.StatusConflict {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), "OVER_ALLOCATION") {
		t.Errorf("missing machine code: %s", rec.Body.String())
	}
}
