package funding

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"lendcore/internal/domain/auth"
	"lendcore/internal/domain/fault"
	"lendcore/internal/domain/loan"
	"lendcore/internal/domain/notify"
	"lendcore/internal/domain/terms"
	"lendcore/internal/domain/uow"
	"lendcore/pkg/id"
)

const (
	maxLenderBatch = 20
	minLoanAmount  = 1_000
	maxLoanAmount  = 1_000_000
	maxRatePct     = 50
)

var reEmail = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

type Usecase struct {
	loans        loan.Repository
	participants loan.ParticipantRepository
	uow          uow.UnitOfWork
	notifier     notify.Notifier
	log          *logrus.Logger
}

func NewUsecase(loans loan.Repository, participants loan.ParticipantRepository, tx uow.UnitOfWork, n notify.Notifier, log *logrus.Logger) *Usecase {
	if n == nil {
		n = notify.Discard{}
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Usecase{loans: loans, participants: participants, uow: tx, notifier: n, log: log}
}

func money(v float64) decimal.Decimal { return decimal.NewFromFloat(v).Round(2) }

// validateInvites checks one invitation batch against the borrower identity
// and itself. It returns the batch sum.
func validateInvites(borrowerEmail string, invites []LenderInvite) (decimal.Decimal, error) {
	sum := decimal.Zero
	seen := make(map[string]bool, len(invites))
	for _, inv := range invites {
		email := strings.ToLower(strings.TrimSpace(inv.Email))
		if !reEmail.MatchString(email) {
			return decimal.Zero, fault.Validation(fault.CodeInvalidInput, "invalid lender email %q", inv.Email)
		}
		if email == strings.ToLower(borrowerEmail) {
			return decimal.Zero, fault.Validation(fault.CodeSelfInvitation, "you cannot invite yourself as a lender to your own loan")
		}
		if seen[email] {
			return decimal.Zero, fault.Conflict(fault.CodeDuplicateLender, "lender %s appears more than once in this batch", email)
		}
		seen[email] = true
		if inv.ContributionAmount <= 0 {
			return decimal.Zero, fault.Validation(fault.CodeInvalidAmount, "contribution amount must be greater than 0")
		}
		sum = sum.Add(money(inv.ContributionAmount))
	}
	return sum, nil
}

func (u *Usecase) parseTerms(in MaturityTermsInput) (terms.Terms, terms.Computed, error) {
	start, err := time.Parse("2006-01-02", in.StartDate)
	if err != nil {
		return terms.Terms{}, terms.Computed{}, fault.Validation(fault.CodeInvalidTerms, "invalid start date, use YYYY-MM-DD")
	}
	today := time.Now().UTC().Truncate(24 * time.Hour)
	if start.Before(today) {
		return terms.Terms{}, terms.Computed{}, fault.Validation(fault.CodeInvalidTerms, "start date cannot be in the past")
	}
	t := terms.Terms{StartDate: start, Frequency: terms.Frequency(in.PaymentFrequency), TermLength: in.TermLength}
	computed, err := terms.Compute(t)
	if err != nil {
		return terms.Terms{}, terms.Computed{}, fault.Validation(fault.CodeInvalidTerms, "%s", err.Error())
	}
	return t, computed, nil
}

// CreateLoan creates a PENDING loan with zero or more initial lender
// invitations. Initial contributions may not exceed the principal; the loan
// only activates later once accepted contributions cover it in full.
func (u *Usecase) CreateLoan(ctx context.Context, p auth.Principal, in CreateLoanInput) (*LoanDTO, error) {
	if !p.HasRole(auth.RoleBorrower) {
		return nil, fault.Authorization(fault.CodeForbidden, "borrower role required")
	}
	if in.Amount < minLoanAmount || in.Amount > maxLoanAmount {
		return nil, fault.Validation(fault.CodeInvalidAmount, "loan amount must be between $%d and $%d", minLoanAmount, maxLoanAmount)
	}
	if in.InterestRate <= 0 || in.InterestRate > maxRatePct {
		return nil, fault.Validation(fault.CodeInvalidAmount, "interest rate must be between 0 and %d percent", maxRatePct)
	}
	if strings.TrimSpace(in.LoanName) == "" || strings.TrimSpace(in.Purpose) == "" {
		return nil, fault.Validation(fault.CodeInvalidInput, "loan name and purpose are required")
	}
	if len(in.Lenders) > maxLenderBatch {
		return nil, fault.Validation(fault.CodeBatchTooLarge, "at most %d lenders per request", maxLenderBatch)
	}

	t, computed, err := u.parseTerms(in.MaturityTerms)
	if err != nil {
		return nil, err
	}

	amount := money(in.Amount)
	invitedSum, err := validateInvites(p.Email, in.Lenders)
	if err != nil {
		return nil, err
	}
	if invitedSum.GreaterThan(amount) {
		excess := invitedSum.Sub(amount)
		return nil, fault.Conflict(fault.CodeOverAllocation, "requested invitations exceed loan amount by $%s", excess.StringFixed(2))
	}

	now := time.Now().UTC()
	l := &loan.Loan{
		LoanID:           id.New(),
		BorrowerID:       p.UserID,
		BorrowerEmail:    strings.ToLower(p.Email),
		LoanName:         strings.TrimSpace(in.LoanName),
		Amount:           amount,
		InterestRate:     money(in.InterestRate),
		Purpose:          strings.TrimSpace(in.Purpose),
		Description:      strings.TrimSpace(in.Description),
		StartDate:        t.StartDate,
		PaymentFrequency: t.Frequency,
		TermLength:       t.TermLength,
		MaturityDate:     computed.MaturityDate,
		TotalPayments:    computed.TotalPayments,
		Status:           loan.StatusPending,
		TotalFunded:      decimal.Zero,
		TotalInvited:     invitedSum,
	}

	err = u.uow.WithinTx(ctx, func(r uow.Repos) error {
		if err := r.Loans.Create(ctx, l); err != nil {
			return fault.Dependency("create loan", err)
		}
		for _, inv := range in.Lenders {
			part := newParticipant(l.ID, inv, now)
			if err := r.Participants.Create(ctx, part); err != nil {
				return fault.Dependency("create participant", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	u.log.WithFields(logrus.Fields{"loan_id": l.LoanID, "borrower_id": p.UserID, "lenders": len(in.Lenders)}).
		Info("loan created")
	u.notifier.Notify(ctx, notify.Event{Type: notify.EventLoanCreated, LoanID: l.LoanID, Actor: p.UserID})

	dto := loanDTO(l)
	dto.LendersAdded = len(in.Lenders)
	return dto, nil
}

func newParticipant(loanPK uint64, inv LenderInvite, now time.Time) *loan.Participant {
	contribution := money(inv.ContributionAmount)
	return &loan.Participant{
		ParticipantID:      id.New(),
		LoanID:             loanPK,
		LenderEmail:        strings.ToLower(strings.TrimSpace(inv.Email)),
		ContributionAmount: contribution,
		Status:             loan.ParticipantPending,
		InvitedAt:          now,
		TotalPaid:          decimal.Zero,
		RemainingBalance:   contribution,
	}
}

// AddLenders invites an additional batch of lenders to a PENDING loan. The
// capacity check and the inserts share one loan-locked transaction, so the
// batch either fully applies or fully fails.
func (u *Usecase) AddLenders(ctx context.Context, p auth.Principal, loanID string, invites []LenderInvite) (*AddLendersResult, error) {
	if len(invites) == 0 {
		return nil, fault.Validation(fault.CodeInvalidInput, "no lenders provided")
	}
	if len(invites) > maxLenderBatch {
		return nil, fault.Validation(fault.CodeBatchTooLarge, "at most %d lenders per request", maxLenderBatch)
	}

	batchSum, err := validateInvites(p.Email, invites)
	if err != nil {
		return nil, err
	}

	var result *AddLendersResult
	err = u.uow.WithinLoanTx(ctx, loanID, func(r uow.Repos, l *loan.Loan) error {
		if l.BorrowerID != p.UserID {
			return fault.Authorization(fault.CodeNotOwner, "only the loan creator can add lenders")
		}
		if l.Status != loan.StatusPending {
			return fault.Conflict(fault.CodeLoanNotPending, "cannot add lenders to a %s loan", l.Status)
		}

		existing, err := r.Participants.ListByLoan(ctx, l.ID)
		if err != nil {
			return fault.Dependency("list participants", err)
		}
		for _, inv := range invites {
			email := strings.ToLower(strings.TrimSpace(inv.Email))
			for i := range existing {
				if existing[i].LenderEmail == email && existing[i].Status != loan.ParticipantDeclined {
					return fault.Conflict(fault.CodeDuplicateLender, "lender %s is already invited to this loan", email)
				}
			}
		}

		newTotal := l.TotalInvited.Add(batchSum)
		if newTotal.GreaterThan(l.Amount) {
			excess := newTotal.Sub(l.Amount)
			return fault.Conflict(fault.CodeOverAllocation, "requested invitations exceed loan amount by $%s", excess.StringFixed(2))
		}

		now := time.Now().UTC()
		for _, inv := range invites {
			if err := r.Participants.Create(ctx, newParticipant(l.ID, inv, now)); err != nil {
				return fault.Dependency("create participant", err)
			}
		}

		l.TotalInvited = newTotal
		if err := r.Loans.Save(ctx, l); err != nil {
			return fault.Dependency("save loan", err)
		}

		result = &AddLendersResult{
			LoanID:         l.LoanID,
			LendersAdded:   len(invites),
			TotalInvited:   newTotal.InexactFloat64(),
			Remaining:      l.Amount.Sub(newTotal).InexactFloat64(),
			IsFullyInvited: newTotal.Equal(l.Amount),
		}
		return nil
	})
	if err != nil {
		return nil, mapLoanErr(err, loanID)
	}

	u.log.WithFields(logrus.Fields{"loan_id": loanID, "borrower_id": p.UserID, "lenders_added": result.LendersAdded}).
		Info("lenders added")
	u.notifier.Notify(ctx, notify.Event{Type: notify.EventLendersInvited, LoanID: loanID, Actor: p.UserID})
	return result, nil
}

func validateACH(in *ACHInput) (loan.ACHDetails, error) {
	if in == nil {
		return loan.ACHDetails{}, fault.Validation(fault.CodeInvalidACHDetails, "ach details are required to accept")
	}
	if strings.TrimSpace(in.BankName) == "" {
		return loan.ACHDetails{}, fault.Validation(fault.CodeInvalidACHDetails, "bank name is required")
	}
	if in.AccountType != "checking" && in.AccountType != "savings" {
		return loan.ACHDetails{}, fault.Validation(fault.CodeInvalidACHDetails, "account type must be checking or savings")
	}
	if !regexp.MustCompile(`^\d{9}$`).MatchString(in.RoutingNumber) {
		return loan.ACHDetails{}, fault.Validation(fault.CodeInvalidACHDetails, "routing number must be 9 digits")
	}
	if !regexp.MustCompile(`^\d{4,20}$`).MatchString(in.AccountNumber) {
		return loan.ACHDetails{}, fault.Validation(fault.CodeInvalidACHDetails, "account number must be 4-20 digits")
	}
	return loan.ACHDetails{
		BankName:            strings.TrimSpace(in.BankName),
		AccountType:         in.AccountType,
		RoutingNumber:       in.RoutingNumber,
		AccountNumber:       in.AccountNumber,
		SpecialInstructions: strings.TrimSpace(in.SpecialInstructions),
	}, nil
}

// RespondToInvitation applies the lender's accept or decline. Acceptance
// requires ACH details, credits the loan's funded total, and activates the
// loan once funded in full. Declining returns the contribution to the
// invitable pool. Both transitions are guarded on the PENDING status.
func (u *Usecase) RespondToInvitation(ctx context.Context, p auth.Principal, loanID string, accept bool, achIn *ACHInput) (*RespondResult, error) {
	if !p.HasRole(auth.RoleLender) {
		return nil, fault.Authorization(fault.CodeForbidden, "lender role required")
	}

	var ach loan.ACHDetails
	if accept {
		var err error
		if ach, err = validateACH(achIn); err != nil {
			return nil, err
		}
	}

	var result *RespondResult
	err := u.uow.WithinLoanTx(ctx, loanID, func(r uow.Repos, l *loan.Loan) error {
		part, err := r.Participants.GetForLender(ctx, l.ID, p.UserID, p.Email)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fault.NotFound(fault.CodeInvitationNotFound, "no invitation for this loan")
			}
			return fault.Dependency("load participant", err)
		}
		if part.Status != loan.ParticipantPending {
			return fault.Conflict(fault.CodeAlreadyResponded, "invitation already %s", strings.ToLower(string(part.Status)))
		}

		now := time.Now().UTC()
		if accept {
			if l.Status != loan.StatusPending {
				return fault.Conflict(fault.CodeLoanNotPending, "loan is no longer accepting new lenders")
			}
			ok, err := r.Participants.MarkAccepted(ctx, part.ID, p.UserID, p.Name, now, ach)
			if err != nil {
				return fault.Dependency("accept invitation", err)
			}
			if !ok {
				return fault.Conflict(fault.CodeAlreadyResponded, "invitation already responded")
			}
			l.TotalFunded = l.TotalFunded.Add(part.ContributionAmount)
			if l.FullyFunded() {
				l.Status = loan.StatusActive
			}
		} else {
			ok, err := r.Participants.MarkDeclined(ctx, part.ID, p.UserID, now)
			if err != nil {
				return fault.Dependency("decline invitation", err)
			}
			if !ok {
				return fault.Conflict(fault.CodeAlreadyResponded, "invitation already responded")
			}
			// Declined capacity reopens for future invitations.
			l.TotalInvited = l.TotalInvited.Sub(part.ContributionAmount)
		}
		if err := r.Loans.Save(ctx, l); err != nil {
			return fault.Dependency("save loan", err)
		}

		status := loan.ParticipantAccepted
		if !accept {
			status = loan.ParticipantDeclined
		}
		result = &RespondResult{
			LoanID:             l.LoanID,
			Status:             string(status),
			LoanStatus:         string(l.Status),
			ContributionAmount: part.ContributionAmount.InexactFloat64(),
			RespondedAt:        &now,
		}
		return nil
	})
	if err != nil {
		return nil, mapLoanErr(err, loanID)
	}

	u.log.WithFields(logrus.Fields{"loan_id": loanID, "lender_id": p.UserID, "accepted": accept, "loan_status": result.LoanStatus}).
		Info("invitation answered")
	u.notifier.Notify(ctx, notify.Event{Type: notify.EventInvitationAnswer, LoanID: loanID, Actor: p.UserID})
	if result.LoanStatus == string(loan.StatusActive) {
		u.notifier.Notify(ctx, notify.Event{Type: notify.EventLoanActivated, LoanID: loanID})
	}
	return result, nil
}

// ResolveLender fills the null lender_id on every invitation addressed to the
// email, called by the identity boundary when that email registers. The
// update is a single in-place write; no row is ever deleted or recreated.
func (u *Usecase) ResolveLender(ctx context.Context, in ResolveLenderInput) (int64, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if !reEmail.MatchString(email) || in.UserID == "" {
		return 0, fault.Validation(fault.CodeInvalidInput, "email and user_id are required")
	}
	n, err := u.participants.ResolveLender(ctx, email, in.UserID, in.Name)
	if err != nil {
		return 0, fault.Dependency("resolve lender", err)
	}
	if n > 0 {
		u.log.WithFields(logrus.Fields{"lender_id": in.UserID, "resolved": n}).Info("lender invitations resolved")
	}
	return n, nil
}

// mapLoanErr translates a missing-loan record error from the unit of work
// into the NOT_FOUND fault; everything already classified passes through.
func mapLoanErr(err error, loanID string) error {
	if fault.KindOf(err) != fault.KindUnknown {
		return err
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fault.NotFound(fault.CodeLoanNotFound, "loan %s not found", loanID)
	}
	return fault.Dependency("loan transaction", err)
}
