package funding

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"

	"lendcore/internal/domain/fault"
	"lendcore/internal/domain/loan"
	"lendcore/internal/testutil/loanmock"
	"lendcore/internal/testutil/participantmock"
	"lendcore/internal/testutil/uowmock"
)

func accepted(id, loanPK uint64, lenderID, name, email string, amount int64) loan.Participant {
	lid := lenderID
	return loan.Participant{
		ID:                 id,
		ParticipantID:      "PT-" + name,
		LoanID:             loanPK,
		LenderID:           &lid,
		LenderName:         name,
		LenderEmail:        email,
		ContributionAmount: decimal.NewFromInt(amount),
		Status:             loan.ParticipantAccepted,
	}
}

// searchFixture: two borrower loans, newest first, with a repeat lender on
// both and a second lender on the older one.
func searchFixture(t *testing.T) *Usecase {
	t.Helper()
	newest := loan.Loan{ID: 2, LoanID: "LN-2", BorrowerID: borrower.UserID, LoanName: "Solar",
		InterestRate: decimal.NewFromInt(10), Status: loan.StatusActive}
	oldest := loan.Loan{ID: 1, LoanID: "LN-1", BorrowerID: borrower.UserID, LoanName: "Truck",
		InterestRate: decimal.NewFromInt(14), Status: loan.StatusCompleted}

	unresolved := loan.Participant{
		ID: 9, LoanID: 1, LenderEmail: "ghost@x.test",
		ContributionAmount: decimal.NewFromInt(500),
		Status:             loan.ParticipantAccepted,
	}
	declined := loan.Participant{
		ID: 8, LoanID: 1, LenderEmail: "no@x.test",
		ContributionAmount: decimal.NewFromInt(700),
		Status:             loan.ParticipantDeclined,
	}

	byLoan := map[uint64][]loan.Participant{
		2: {accepted(1, 2, "user-l", "Len Der", "lender@x.test", 2_000)},
		1: {
			accepted(2, 1, "user-l", "Len Der", "lender@x.test", 4_000),
			accepted(3, 1, "user-m", "Marta", "marta@x.test", 1_000),
			declined,
			unresolved,
		},
	}

	loans := &loanmock.Repo{
		ListByBorrowerFn: func(_ context.Context, borrowerID string) ([]loan.Loan, error) {
			if borrowerID != borrower.UserID {
				return nil, nil
			}
			return []loan.Loan{newest, oldest}, nil
		},
	}
	parts := &participantmock.Repo{
		ListByLoanFn: func(_ context.Context, loanID uint64) ([]loan.Participant, error) {
			return byLoan[loanID], nil
		},
	}
	return NewUsecase(loans, parts, uowmock.New(), nil, nil)
}

func TestSearchLenders_GroupsAndAggregates(t *testing.T) {
	uc := searchFixture(t)

	out, err := uc.SearchLenders(context.Background(), borrower, "")
	if err != nil {
		t.Fatalf("SearchLenders err: %v", err)
	}
	if len(out) != 2 {
		t.Fatalf("len = %d, want 2 (declined and unregistered excluded)", len(out))
	}

	repeat := out[0]
	if repeat.LenderID != "user-l" || repeat.Email != "lender@x.test" {
		t.Fatalf("unexpected first lender: %+v", repeat)
	}
	if repeat.Stats.InvestmentCount != 2 || repeat.Stats.TotalInvested != 6_000 {
		t.Errorf("stats: %+v", repeat.Stats)
	}
	if repeat.Stats.AverageInvestment != 3_000 || repeat.Stats.AverageAPR != 12 {
		t.Errorf("averages: %+v", repeat.Stats)
	}
	if repeat.LastInvestment == nil || repeat.LastInvestment.LoanID != "LN-2" {
		t.Errorf("last investment must come from the newest loan: %+v", repeat.LastInvestment)
	}

	single := out[1]
	if single.LenderID != "user-m" || single.Stats.InvestmentCount != 1 || single.Stats.TotalInvested != 1_000 {
		t.Errorf("second lender: %+v", single)
	}
	if single.LastInvestment == nil || single.LastInvestment.LoanName != "Truck" {
		t.Errorf("second lender last investment: %+v", single.LastInvestment)
	}
}

func TestSearchLenders_QueryFiltersNameAndEmail(t *testing.T) {
	uc := searchFixture(t)

	out, err := uc.SearchLenders(context.Background(), borrower, " MARTA ")
	if err != nil {
		t.Fatalf("SearchLenders err: %v", err)
	}
	if len(out) != 1 || out[0].LenderID != "user-m" {
		t.Fatalf("filter by name: %+v", out)
	}

	out, err = uc.SearchLenders(context.Background(), borrower, "lender@x")
	if err != nil {
		t.Fatalf("SearchLenders err: %v", err)
	}
	if len(out) != 1 || out[0].LenderID != "user-l" {
		t.Fatalf("filter by email: %+v", out)
	}

	out, err = uc.SearchLenders(context.Background(), borrower, "nobody")
	if err != nil || len(out) != 0 {
		t.Fatalf("no-match query: %v %+v", err, out)
	}
}

func TestSearchLenders_BorrowerRoleRequired(t *testing.T) {
	uc := searchFixture(t)
	_, err := uc.SearchLenders(context.Background(), lender, "")
	wantCode(t, err, fault.CodeForbidden)
}
