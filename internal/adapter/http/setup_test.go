package http

import (
	"io"
	"net/http/httptest"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"lendcore/internal/adapter/middleware"
	"lendcore/internal/domain/auth"
	loanDomain "lendcore/internal/domain/loan"
	"lendcore/internal/domain/uow"
	"lendcore/internal/testutil/loanmock"
	"lendcore/internal/testutil/participantmock"
	"lendcore/internal/testutil/paymentmock"
	"lendcore/internal/testutil/uowmock"
)

var (
	borrower = auth.Principal{UserID: "user-b", Email: "borrower@x.test", Name: "Bo Rrower", Roles: []string{auth.RoleBorrower}}
	lender   = auth.Principal{UserID: "user-l", Email: "lender@x.test", Name: "Len Der", Roles: []string{auth.RoleLender}}
)

func discardLog() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func newEcho() *echo.Echo {
	e := echo.New()
	e.Validator = NewValidator()
	return e
}

// jsonCtx builds an echo context carrying a JSON body and, unless p is nil,
// an authenticated principal.
func jsonCtx(e *echo.Echo, method, target, body string, p *auth.Principal) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if p != nil {
		middleware.SetPrincipal(c, *p)
	}
	return c, rec
}

func passthrough(loans *loanmock.Repo, parts *participantmock.Repo, pays *paymentmock.Repo) *uowmock.UoW {
	return uowmock.Passthrough(uow.Repos{Loans: loans, Participants: parts, Payments: pays})
}

func pendingLoanRow() *loanDomain.Loan {
	return &loanDomain.Loan{
		ID:               1,
		LoanID:           "LN-1",
		BorrowerID:       borrower.UserID,
		BorrowerEmail:    borrower.Email,
		LoanName:         "Truck",
		Amount:           decimal.NewFromInt(10_000),
		InterestRate:     decimal.NewFromInt(12),
		Purpose:          "equipment",
		StartDate:        time.Date(2027, 1, 1, 0, 0, 0, 0, time.UTC),
		PaymentFrequency: "Monthly",
		TermLength:       12,
		MaturityDate:     time.Date(2028, 1, 1, 0, 0, 0, 0, time.UTC),
		TotalPayments:    12,
		Status:           loanDomain.StatusPending,
		TotalFunded:      decimal.Zero,
		TotalInvited:     decimal.NewFromInt(4_000),
	}
}

func pendingInviteRow() *loanDomain.Participant {
	return &loanDomain.Participant{
		ID:                 11,
		ParticipantID:      "PT-11",
		LoanID:             1,
		LenderEmail:        lender.Email,
		ContributionAmount: decimal.NewFromInt(4_000),
		Status:             loanDomain.ParticipantPending,
		InvitedAt:          time.Now().UTC(),
		TotalPaid:          decimal.Zero,
		RemainingBalance:   decimal.NewFromInt(4_000),
	}
}
