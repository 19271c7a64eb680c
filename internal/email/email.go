package email

import (
	"context"
	"fmt"

	"skywings/internal/kafka"
	"skywings/pkg/logger"
)

// Sender stands in for a real mail provider. It renders the message and logs
// it; delivery failures never feed back into booking state.
type Sender struct {
	logger logger.Client
}

func NewSender(log logger.Client) *Sender {
	return &Sender{logger: log}
}

func (s *Sender) Send(ctx context.Context, event kafka.BookingEvent) error {
	if event.Email == "" {
		s.logger.Warn("no recipient for notification",
			logger.Field{Key: "type", Value: event.Type},
			logger.Field{Key: "reference", Value: event.Reference},
		)
		return nil
	}

	s.logger.Info("send email",
		logger.Field{Key: "to", Value: event.Email},
		logger.Field{Key: "subject", Value: subjectFor(event)},
		logger.Field{Key: "reference", Value: event.Reference},
	)
	return nil
}

func subjectFor(event kafka.BookingEvent) string {
	switch event.Type {
	case kafka.EventBookingCancelled:
		return fmt.Sprintf("Your SkyWings booking %s has been cancelled", event.Reference)
	case kafka.EventConfirmationResend, kafka.EventBookingCreated:
		return fmt.Sprintf("Your SkyWings booking %s (%s-%s) is confirmed", event.Reference, event.From, event.To)
	}
	return "SkyWings booking update for " + event.Reference
}
