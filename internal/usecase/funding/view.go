package funding

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"lendcore/internal/domain/auth"
	"lendcore/internal/domain/fault"
	"lendcore/internal/domain/loan"
	"lendcore/internal/domain/terms"
)

var hundred = decimal.NewFromInt(100)

func termsDTO(l *loan.Loan) MaturityTermsDTO {
	return MaturityTermsDTO{
		StartDate:        l.StartDate.Format("2006-01-02"),
		PaymentFrequency: string(l.PaymentFrequency),
		TermLength:       l.TermLength,
		MaturityDate:     l.MaturityDate.Format("2006-01-02"),
		TotalPayments:    l.TotalPayments,
	}
}

func loanDTO(l *loan.Loan) *LoanDTO {
	return &LoanDTO{
		LoanID:        l.LoanID,
		LoanName:      l.LoanName,
		BorrowerID:    l.BorrowerID,
		Amount:        l.Amount.InexactFloat64(),
		InterestRate:  l.InterestRate.InexactFloat64(),
		MaturityTerms: termsDTO(l),
		Purpose:       l.Purpose,
		Description:   l.Description,
		Status:        string(l.Status),
		TotalFunded:   l.TotalFunded.InexactFloat64(),
		TotalInvited:  l.TotalInvited.InexactFloat64(),
		CreatedAt:     l.CreatedAt,
	}
}

func progress(l *loan.Loan) FundingProgress {
	pct := 0.0
	if l.Amount.Sign() > 0 {
		p, _ := l.TotalFunded.Div(l.Amount).Mul(hundred).Round(2).Float64()
		pct = p
	}
	return FundingProgress{
		Amount:      l.Amount.InexactFloat64(),
		TotalFunded: l.TotalFunded.InexactFloat64(),
		Percentage:  pct,
		Remaining:   l.Amount.Sub(l.TotalFunded).InexactFloat64(),
	}
}

// estimate computes the informational repayment estimate for one
// contribution; a nil result means the terms could not be priced.
func estimate(l *loan.Loan, part *loan.Participant) *PaymentEstimate {
	lp, err := terms.PaymentFor(part.ContributionAmount, l.InterestRate, l.TotalPayments, l.PaymentFrequency)
	if err != nil {
		return nil
	}
	return &PaymentEstimate{
		PaymentAmount:  lp.PaymentAmount.InexactFloat64(),
		TotalInterest:  lp.TotalInterest.InexactFloat64(),
		TotalRepayment: lp.TotalRepayment.InexactFloat64(),
	}
}

func participantView(l *loan.Loan, part *loan.Participant, includeACH bool) ParticipantView {
	v := ParticipantView{
		ParticipantID:      part.ParticipantID,
		LenderID:           part.LenderID,
		LenderName:         part.LenderName,
		LenderEmail:        part.LenderEmail,
		ContributionAmount: part.ContributionAmount.InexactFloat64(),
		Status:             string(part.Status),
		InvitedAt:          part.InvitedAt,
		RespondedAt:        part.RespondedAt,
		TotalPaid:          part.TotalPaid.InexactFloat64(),
		RemainingBalance:   part.RemainingBalance.InexactFloat64(),
		Estimate:           estimate(l, part),
	}
	if includeACH && part.Status == loan.ParticipantAccepted && part.HasACH() {
		v.ACHDetails = &ACHDetailsDTO{
			BankName:            part.ACH.BankName,
			AccountType:         part.ACH.AccountType,
			RoutingNumber:       part.ACH.RoutingNumber,
			AccountNumber:       part.ACH.AccountNumber,
			SpecialInstructions: part.ACH.SpecialInstructions,
		}
	}
	return v
}

// GetLoanView returns the role-scoped projection of one loan: the borrower
// sees every participant, a lender sees only their own slot plus aggregate
// progress. One canonical record, two authorized views.
func (u *Usecase) GetLoanView(ctx context.Context, p auth.Principal, loanID string) (*LoanView, error) {
	l, err := u.loans.GetByLoanID(ctx, loanID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fault.NotFound(fault.CodeLoanNotFound, "loan %s not found", loanID)
		}
		return nil, fault.Dependency("load loan", err)
	}
	parts, err := u.participants.ListByLoan(ctx, l.ID)
	if err != nil {
		return nil, fault.Dependency("list participants", err)
	}

	view := &LoanView{
		LoanID:          l.LoanID,
		LoanName:        l.LoanName,
		BorrowerID:      l.BorrowerID,
		Amount:          l.Amount.InexactFloat64(),
		InterestRate:    l.InterestRate.InexactFloat64(),
		MaturityTerms:   termsDTO(l),
		Purpose:         l.Purpose,
		Description:     l.Description,
		Status:          string(l.Status),
		TotalFunded:     l.TotalFunded.InexactFloat64(),
		CreatedAt:       l.CreatedAt,
		FundingProgress: progress(l),
		Participants:    []ParticipantView{},
	}

	if l.BorrowerID == p.UserID {
		total := 0.0
		dates := make([]string, 0, l.TotalPayments)
		if computed, err := terms.Compute(terms.Terms{StartDate: l.StartDate, Frequency: l.PaymentFrequency, TermLength: l.TermLength}); err == nil {
			for _, d := range computed.Schedule {
				dates = append(dates, d.Format("2006-01-02"))
			}
		}
		for i := range parts {
			pv := participantView(l, &parts[i], true)
			view.Participants = append(view.Participants, pv)
			if parts[i].Status == loan.ParticipantAccepted && pv.Estimate != nil {
				total += pv.Estimate.PaymentAmount
			}
		}
		view.BorrowerPaymentDetails = &BorrowerPaymentDetails{
			TotalPaymentAmount: total,
			PaymentFrequency:   string(l.PaymentFrequency),
			TotalPayments:      l.TotalPayments,
			PaymentDates:       dates,
		}
		return view, nil
	}

	for i := range parts {
		if !parts[i].OwnedBy(p.UserID, p.Email) {
			continue
		}
		part := &parts[i]
		view.UserParticipation = &ParticipationView{
			ParticipantID:      part.ParticipantID,
			ContributionAmount: part.ContributionAmount.InexactFloat64(),
			Status:             string(part.Status),
			InvitedAt:          part.InvitedAt,
			RespondedAt:        part.RespondedAt,
			TotalPaid:          part.TotalPaid.InexactFloat64(),
			RemainingBalance:   part.RemainingBalance.InexactFloat64(),
			Estimate:           estimate(l, part),
		}
		return view, nil
	}
	return nil, fault.Authorization(fault.CodeForbidden, "access denied to this loan")
}

// MyLoans returns the borrower's portfolio, newest first.
func (u *Usecase) MyLoans(ctx context.Context, p auth.Principal) ([]LoanSummary, error) {
	if !p.HasRole(auth.RoleBorrower) {
		return nil, fault.Authorization(fault.CodeForbidden, "borrower role required")
	}
	loans, err := u.loans.ListByBorrower(ctx, p.UserID)
	if err != nil {
		return nil, fault.Dependency("list loans", err)
	}

	out := make([]LoanSummary, 0, len(loans))
	for i := range loans {
		l := &loans[i]
		parts, err := u.participants.ListByLoan(ctx, l.ID)
		if err != nil {
			return nil, fault.Dependency("list participants", err)
		}
		accepted := 0
		views := make([]ParticipantView, 0, len(parts))
		for j := range parts {
			if parts[j].Status == loan.ParticipantAccepted {
				accepted++
			}
			views = append(views, participantView(l, &parts[j], false))
		}
		out = append(out, LoanSummary{
			LoanID:               l.LoanID,
			LoanName:             l.LoanName,
			Amount:               l.Amount.InexactFloat64(),
			InterestRate:         l.InterestRate.InexactFloat64(),
			Status:               string(l.Status),
			Purpose:              l.Purpose,
			TotalFunded:          l.TotalFunded.InexactFloat64(),
			TotalInvited:         l.TotalInvited.InexactFloat64(),
			CreatedAt:            l.CreatedAt,
			ParticipantCount:     len(parts),
			AcceptedParticipants: accepted,
			FundingProgress:      progress(l),
			Participants:         views,
		})
	}
	return out, nil
}

// PendingInvitations returns the caller's open invitations enriched with
// loan terms and an informational repayment estimate.
func (u *Usecase) PendingInvitations(ctx context.Context, p auth.Principal) ([]InvitationView, error) {
	if !p.HasRole(auth.RoleLender) {
		return nil, fault.Authorization(fault.CodeForbidden, "lender role required")
	}
	parts, err := u.participants.ListPendingForLender(ctx, p.UserID, p.Email)
	if err != nil {
		return nil, fault.Dependency("list invitations", err)
	}

	out := make([]InvitationView, 0, len(parts))
	for i := range parts {
		part := &parts[i]
		l, err := u.loans.GetByID(ctx, part.LoanID)
		if err != nil {
			// Orphaned participant rows are skipped, not fatal.
			u.log.WithFields(logrus.Fields{"participant_id": part.ParticipantID}).Warn("invitation without loan")
			continue
		}
		out = append(out, InvitationView{
			LoanID:             l.LoanID,
			LoanName:           l.LoanName,
			LoanAmount:         l.Amount.InexactFloat64(),
			LoanPurpose:        l.Purpose,
			LoanDescription:    l.Description,
			InterestRate:       l.InterestRate.InexactFloat64(),
			MaturityTerms:      termsDTO(l),
			ContributionAmount: part.ContributionAmount.InexactFloat64(),
			InvitedAt:          part.InvitedAt,
			LoanStatus:         string(l.Status),
			FundingProgress:    progress(l),
			Estimate:           estimate(l, part),
		})
	}
	return out, nil
}
