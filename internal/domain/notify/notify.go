package notify

import "context"

// Event types emitted by the core. Delivery is fire-and-forget; a failed
// notification never rolls back the mutation that produced it.
const (
	EventLoanCreated      = "loan.created"
	EventLendersInvited   = "loan.lenders_invited"
	EventInvitationAnswer = "invitation.answered"
	EventLoanActivated    = "loan.activated"
	EventPaymentSubmitted = "payment.submitted"
	EventPaymentResolved  = "payment.resolved"
)

type Event struct {
	Type   string
	LoanID string
	Actor  string
	Detail map[string]string
}

type Notifier interface {
	Notify(ctx context.Context, e Event)
}

// Discard is the default Notifier when none is wired.
type Discard struct{}

func (Discard) Notify(context.Context, Event) {}
