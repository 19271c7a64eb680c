package booking

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"skywings/internal/domain"
	"skywings/internal/kafka"
	"skywings/internal/repository"
	"skywings/pkg/logger"
)

type BookingUseCase interface {
	Create(ctx context.Context, input CreateInput) (*domain.Booking, error)
	Get(ctx context.Context, reference string) (*domain.Booking, error)
	Cancel(ctx context.Context, reference, reason string) (*domain.Booking, error)
	AmendPassengers(ctx context.Context, reference string, passengers []domain.Passenger) (*domain.Booking, error)
	ResendConfirmation(ctx context.Context, reference string) (string, error)
	List(ctx context.Context, filter repository.ListFilter) ([]domain.Booking, error)
	SearchByPassenger(ctx context.Context, q repository.PassengerQuery) ([]domain.Booking, error)
}

// OfferResolver is the only coupling to the offer cache: bookings can be
// created while the offer is still resolvable, and never after.
type OfferResolver interface {
	ResolveOffer(ctx context.Context, id string) (*domain.FlightOffer, error)
}

type Producer interface {
	Publish(ctx context.Context, topic, key string, value interface{}) error
}

// PaymentIntent is accepted and shape-checked but never settled. Card number
// and CVV are masked away before anything is stored or logged.
type PaymentIntent struct {
	CardNumber string `json:"card_number"`
	CardHolder string `json:"card_holder"`
	Expiry     string `json:"expiry"`
	CVV        string `json:"cvv"`
}

type CreateInput struct {
	OfferID    string             `json:"offer_id"`
	Passengers []domain.Passenger `json:"passengers"`
	Payment    PaymentIntent      `json:"payment"`
}

type BookingService struct {
	bookings           repository.BookingRepository
	offers             OfferResolver
	producer           Producer
	logger             logger.Client
	notificationsTopic string
	referenceAttempts  int
	listLimit          int
}

type BookingServiceOption func(*BookingService)

func WithNotificationsTopic(topic string) BookingServiceOption {
	return func(s *BookingService) {
		s.notificationsTopic = topic
	}
}

func WithReferenceAttempts(attempts int) BookingServiceOption {
	return func(s *BookingService) {
		if attempts > 0 {
			s.referenceAttempts = attempts
		}
	}
}

func WithListLimit(limit int) BookingServiceOption {
	return func(s *BookingService) {
		if limit > 0 {
			s.listLimit = limit
		}
	}
}

func NewBookingService(
	bookings repository.BookingRepository,
	offers OfferResolver,
	producer Producer,
	log logger.Client,
	opts ...BookingServiceOption,
) *BookingService {
	service := &BookingService{
		bookings:          bookings,
		offers:            offers,
		producer:          producer,
		logger:            log,
		referenceAttempts: 5,
	}
	for _, opt := range opts {
		opt(service)
	}
	return service
}

func (s *BookingService) Create(ctx context.Context, input CreateInput) (*domain.Booking, error) {
	if input.OfferID == "" {
		return nil, domain.Validationf("offer id is required")
	}
	if err := validatePassengers(input.Passengers); err != nil {
		return nil, err
	}
	payment, err := maskPayment(input.Payment)
	if err != nil {
		return nil, err
	}

	offer, err := s.offers.ResolveOffer(ctx, input.OfferID)
	if err != nil {
		return nil, err
	}
	if offer == nil {
		// The offer aged out of the cache: booking against a stale price is
		// not allowed, the client has to search again.
		return nil, domain.E(domain.CodeOfferNotFound, "flight offer not found or expired")
	}

	booking := &domain.Booking{
		Status: domain.BookingStatusConfirmed,
		Flight: domain.FlightSnapshot{
			From:         offer.From,
			To:           offer.To,
			Departure:    offer.Departure,
			Arrival:      offer.Arrival,
			Airline:      offer.Airline,
			FlightNumber: offer.FlightNumber,
		},
		Passengers: input.Passengers,
		TotalPrice: offer.Price * float64(len(input.Passengers)),
		Currency:   offer.Currency,
		Payment:    payment,
	}

	// The six-digit reference space collides; regenerate under the unique
	// index until an insert lands or the attempt budget runs out.
	for attempt := 0; ; attempt++ {
		booking.Reference = domain.NewReference()
		err := s.bookings.Insert(ctx, booking)
		if err == nil {
			break
		}
		if !domain.IsCode(err, domain.CodeConflict) {
			return nil, err
		}
		if attempt+1 >= s.referenceAttempts {
			return nil, domain.E(domain.CodeConflict, "could not allocate a unique booking reference")
		}
		s.logger.Warn("booking reference collision, regenerating",
			logger.Field{Key: "reference", Value: booking.Reference.String()},
		)
	}

	s.publish(ctx, kafka.EventBookingCreated, booking)
	return booking, nil
}

func (s *BookingService) Get(ctx context.Context, reference string) (*domain.Booking, error) {
	ref, err := domain.ParseReference(reference)
	if err != nil {
		return nil, err
	}
	return s.bookings.GetByReference(ctx, ref)
}

func (s *BookingService) Cancel(ctx context.Context, reference, reason string) (*domain.Booking, error) {
	if strings.TrimSpace(reason) == "" {
		return nil, domain.Validationf("cancellation reason is required")
	}
	ref, err := domain.ParseReference(reference)
	if err != nil {
		return nil, err
	}

	cancelled, err := s.bookings.Cancel(ctx, ref, reason)
	if err != nil {
		return nil, err
	}

	s.publish(ctx, kafka.EventBookingCancelled, cancelled)
	return cancelled, nil
}

func (s *BookingService) AmendPassengers(ctx context.Context, reference string, passengers []domain.Passenger) (*domain.Booking, error) {
	ref, err := domain.ParseReference(reference)
	if err != nil {
		return nil, err
	}
	if err := validatePassengers(passengers); err != nil {
		return nil, err
	}
	return s.bookings.ReplacePassengers(ctx, ref, passengers)
}

// ResendConfirmation re-dispatches the confirmation mail to the primary
// passenger. The booking itself is read-only here; dispatch failures are
// logged and swallowed.
func (s *BookingService) ResendConfirmation(ctx context.Context, reference string) (string, error) {
	ref, err := domain.ParseReference(reference)
	if err != nil {
		return "", err
	}

	booking, err := s.bookings.GetByReference(ctx, ref)
	if err != nil {
		return "", err
	}

	sentTo := booking.Primary().Email
	if sentTo == "" {
		return "", domain.Validationf("primary passenger has no email on file")
	}

	s.publish(ctx, kafka.EventConfirmationResend, booking)
	return sentTo, nil
}

func (s *BookingService) List(ctx context.Context, filter repository.ListFilter) ([]domain.Booking, error) {
	if filter.Limit <= 0 && s.listLimit > 0 {
		filter.Limit = s.listLimit
	}
	return s.bookings.List(ctx, filter)
}

func (s *BookingService) SearchByPassenger(ctx context.Context, q repository.PassengerQuery) ([]domain.Booking, error) {
	return s.bookings.SearchByPassenger(ctx, q)
}

func (s *BookingService) publish(ctx context.Context, eventType string, booking *domain.Booking) {
	if s.producer == nil || s.notificationsTopic == "" {
		return
	}
	event := kafka.BookingEvent{
		EventID:    uuid.NewString(),
		Type:       eventType,
		Reference:  booking.Reference.String(),
		From:       booking.Flight.From,
		To:         booking.Flight.To,
		Email:      booking.Primary().Email,
		Status:     string(booking.Status),
		TotalPrice: booking.TotalPrice,
		Currency:   booking.Currency,
		OccurredAt: time.Now(),
	}
	if err := s.producer.Publish(ctx, s.notificationsTopic, event.Reference, event); err != nil {
		s.logger.Error("failed to publish notification",
			logger.Field{Key: "type", Value: eventType},
			logger.Field{Key: "reference", Value: event.Reference},
			logger.Field{Key: "err", Value: err},
		)
	}
}

func validatePassengers(passengers []domain.Passenger) error {
	if len(passengers) == 0 {
		return domain.Validationf("at least one passenger is required")
	}
	for i, p := range passengers {
		if strings.TrimSpace(p.FirstName) == "" {
			return domain.Validationf("passenger %d: first name is required", i+1)
		}
		if strings.TrimSpace(p.LastName) == "" {
			return domain.Validationf("passenger %d: last name is required", i+1)
		}
	}
	return nil
}

// maskPayment shape-checks the intent and keeps only what is safe to persist:
// the holder name and the last four card digits.
func maskPayment(p PaymentIntent) (*domain.PaymentRecord, error) {
	digits := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, p.CardNumber)

	if len(digits) < 13 || len(digits) > 19 {
		return nil, domain.Validationf("card number must contain 13 to 19 digits")
	}
	if strings.TrimSpace(p.CardHolder) == "" {
		return nil, domain.Validationf("card holder is required")
	}
	if strings.TrimSpace(p.Expiry) == "" {
		return nil, domain.Validationf("card expiry is required")
	}
	if n := len(p.CVV); n < 3 || n > 4 {
		return nil, domain.Validationf("cvv must contain 3 or 4 digits")
	}
	for _, r := range p.CVV {
		if r < '0' || r > '9' {
			return nil, domain.Validationf("cvv must contain 3 or 4 digits")
		}
	}

	return &domain.PaymentRecord{
		CardHolder: p.CardHolder,
		CardLast4:  digits[len(digits)-4:],
	}, nil
}

var _ BookingUseCase = (*BookingService)(nil)
