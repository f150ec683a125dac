package notify

import (
	"context"

	"github.com/sirupsen/logrus"

	"lendcore/internal/domain/notify"
)

// LogNotifier emits domain events as structured log lines. It stands in for
// an outbound email/webhook dispatcher in deployments without one.
type LogNotifier struct {
	log *logrus.Logger
}

func NewLogNotifier(log *logrus.Logger) *LogNotifier {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &LogNotifier{log: log}
}

// Only these detail keys reach a log line; anything else an event carries
// (payload fields, ACH numbers among them) is dropped.
var loggableDetail = map[string]bool{
	"status":      true,
	"loan_status": true,
	"count":       true,
	"amount":      true,
	"reason":      true,
}

func (n *LogNotifier) Notify(_ context.Context, e notify.Event) {
	fields := logrus.Fields{
		"event":   e.Type,
		"loan_id": e.LoanID,
		"actor":   e.Actor,
	}
	for k, v := range e.Detail {
		if loggableDetail[k] {
			fields["detail_"+k] = v
		}
	}
	n.log.WithFields(fields).Info("domain event")
}
