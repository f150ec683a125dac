package terms

import (
	"errors"
	"math"
	"time"

	"github.com/shopspring/decimal"
)

// Frequency is how often repayments fall due.
type Frequency string

const (
	Weekly    Frequency = "Weekly"
	BiWeekly  Frequency = "Bi-Weekly"
	Monthly   Frequency = "Monthly"
	Quarterly Frequency = "Quarterly"
	Annually  Frequency = "Annually"
)

var periodsPerYear = map[Frequency]int{
	Weekly:    52,
	BiWeekly:  26,
	Monthly:   12,
	Quarterly: 4,
	Annually:  1,
}

func (f Frequency) Valid() bool {
	_, ok := periodsPerYear[f]
	return ok
}

// PeriodsPerYear returns 0 for an unknown frequency.
func PeriodsPerYear(f Frequency) int { return periodsPerYear[f] }

var (
	ErrInvalidFrequency = errors.New("invalid payment frequency")
	ErrInvalidTermLen   = errors.New("term length must be between 1 and 60 months")
)

// Terms are the borrower-chosen maturity terms of a loan.
type Terms struct {
	StartDate time.Time
	Frequency Frequency
	// TermLength is the loan duration in months.
	TermLength int
}

// Computed holds the loan-level values derived from Terms; they are the same
// for every lender on the loan.
type Computed struct {
	MaturityDate  time.Time
	TotalPayments int
	Schedule      []time.Time
}

// Compute derives the maturity date, the total payment count, and the due-date
// schedule from the maturity terms.
func Compute(t Terms) (Computed, error) {
	if !t.Frequency.Valid() {
		return Computed{}, ErrInvalidFrequency
	}
	if t.TermLength < 1 || t.TermLength > 60 {
		return Computed{}, ErrInvalidTermLen
	}

	total := int(math.Round(float64(periodsPerYear[t.Frequency]) * float64(t.TermLength) / 12.0))
	if total < 1 {
		total = 1
	}
	return Computed{
		MaturityDate:  t.StartDate.AddDate(0, t.TermLength, 0),
		TotalPayments: total,
		Schedule:      schedule(t.StartDate, t.Frequency, total),
	}, nil
}

func schedule(start time.Time, f Frequency, total int) []time.Time {
	out := make([]time.Time, 0, total)
	cur := start
	for i := 0; i < total; i++ {
		out = append(out, cur)
		switch f {
		case Weekly:
			cur = cur.AddDate(0, 0, 7)
		case BiWeekly:
			cur = cur.AddDate(0, 0, 14)
		case Monthly:
			cur = cur.AddDate(0, 1, 0)
		case Quarterly:
			cur = cur.AddDate(0, 3, 0)
		case Annually:
			cur = cur.AddDate(1, 0, 0)
		}
	}
	return out
}

// LenderPayment is a per-lender repayment estimate derived from that lender's
// contribution. Informational only; the signed agreement governs.
type LenderPayment struct {
	PaymentAmount  decimal.Decimal
	TotalInterest  decimal.Decimal
	TotalRepayment decimal.Decimal
}

// PaymentFor computes the periodic payment for one lender using the standard
// amortization formula PMT = P * r(1+r)^n / ((1+r)^n - 1), with annualRatePct
// given as a percentage (8.5 means 8.5%). A zero rate falls back to straight
// division of principal.
func PaymentFor(contribution decimal.Decimal, annualRatePct decimal.Decimal, totalPayments int, f Frequency) (LenderPayment, error) {
	if !f.Valid() {
		return LenderPayment{}, ErrInvalidFrequency
	}
	if totalPayments < 1 {
		return LenderPayment{}, errors.New("total payments must be positive")
	}
	if contribution.Sign() <= 0 {
		return LenderPayment{}, errors.New("contribution must be positive")
	}

	principal := contribution.InexactFloat64()
	rate := annualRatePct.InexactFloat64() / 100.0 / float64(periodsPerYear[f])

	var pmt float64
	if rate == 0 {
		pmt = principal / float64(totalPayments)
	} else {
		growth := math.Pow(1+rate, float64(totalPayments))
		pmt = principal * (rate * growth) / (growth - 1)
	}

	payment := decimal.NewFromFloat(pmt).Round(2)
	totalRepay := payment.Mul(decimal.NewFromInt(int64(totalPayments)))
	return LenderPayment{
		PaymentAmount:  payment,
		TotalInterest:  totalRepay.Sub(contribution),
		TotalRepayment: totalRepay,
	}, nil
}
