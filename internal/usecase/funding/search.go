package funding

import (
	"context"
	"strings"

	"github.com/shopspring/decimal"

	"lendcore/internal/domain/auth"
	"lendcore/internal/domain/fault"
	"lendcore/internal/domain/loan"
)

// SearchLenders returns the borrower's previously accepted lenders with
// aggregate investment stats, optionally filtered by a name or email
// substring. Only the caller's own loans are consulted, and invitations
// whose email never registered are excluded.
func (u *Usecase) SearchLenders(ctx context.Context, p auth.Principal, query string) ([]LenderSearchResult, error) {
	if !p.HasRole(auth.RoleBorrower) {
		return nil, fault.Authorization(fault.CodeForbidden, "borrower role required")
	}
	q := strings.ToLower(strings.TrimSpace(query))

	loans, err := u.loans.ListByBorrower(ctx, p.UserID)
	if err != nil {
		return nil, fault.Dependency("list loans", err)
	}

	type agg struct {
		res    LenderSearchResult
		total  decimal.Decimal
		aprSum decimal.Decimal
	}
	byLender := map[string]*agg{}
	var order []string

	// Loans arrive newest-first, so the first investment seen per lender
	// is their most recent one.
	for i := range loans {
		l := &loans[i]
		parts, err := u.participants.ListByLoan(ctx, l.ID)
		if err != nil {
			return nil, fault.Dependency("list participants", err)
		}
		for j := range parts {
			part := &parts[j]
			if part.Status != loan.ParticipantAccepted || !part.Resolved() {
				continue
			}
			a, ok := byLender[*part.LenderID]
			if !ok {
				a = &agg{res: LenderSearchResult{
					LenderID: *part.LenderID,
					Name:     part.LenderName,
					Email:    part.LenderEmail,
				}}
				byLender[*part.LenderID] = a
				order = append(order, *part.LenderID)
			}
			if a.res.LastInvestment == nil {
				a.res.LastInvestment = &LenderInvestment{
					LoanID:   l.LoanID,
					LoanName: l.LoanName,
					Amount:   part.ContributionAmount.InexactFloat64(),
					APR:      l.InterestRate.InexactFloat64(),
					Status:   string(l.Status),
				}
			}
			a.res.Stats.InvestmentCount++
			a.total = a.total.Add(part.ContributionAmount)
			a.aprSum = a.aprSum.Add(l.InterestRate)
		}
	}

	out := make([]LenderSearchResult, 0, len(byLender))
	for _, id := range order {
		a := byLender[id]
		if q != "" &&
			!strings.Contains(strings.ToLower(a.res.Name), q) &&
			!strings.Contains(strings.ToLower(a.res.Email), q) {
			continue
		}
		n := decimal.NewFromInt(int64(a.res.Stats.InvestmentCount))
		a.res.Stats.TotalInvested = a.total.InexactFloat64()
		a.res.Stats.AverageInvestment = a.total.Div(n).Round(2).InexactFloat64()
		a.res.Stats.AverageAPR = a.aprSum.Div(n).Round(2).InexactFloat64()
		out = append(out, a.res)
	}
	return out, nil
}
