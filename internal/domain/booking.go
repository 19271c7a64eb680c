package domain

import "time"

type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "PENDING"
	BookingStatusConfirmed BookingStatus = "CONFIRMED"
	BookingStatusCancelled BookingStatus = "CANCELLED"
)

// Cancellable reports whether a booking in this status may still transition
// to CANCELLED. The transition is one-way.
func (s BookingStatus) Cancellable() bool {
	switch s {
	case BookingStatusPending, BookingStatusConfirmed:
		return true
	case BookingStatusCancelled:
		return false
	}
	return false
}

// FlightSnapshot is the copy of the offer's route, timing and airline taken at
// booking time. It is deliberately not a reference to the offer: the offer is
// evicted from the cache after its TTL, the booking outlives it.
type FlightSnapshot struct {
	From         string    `json:"from"`
	To           string    `json:"to"`
	Departure    time.Time `json:"departure"`
	Arrival      time.Time `json:"arrival"`
	Airline      string    `json:"airline"`
	FlightNumber string    `json:"flight_number"`
}

type Passenger struct {
	FirstName   string     `json:"first_name"`
	LastName    string     `json:"last_name"`
	Email       string     `json:"email,omitempty"`
	Phone       string     `json:"phone,omitempty"`
	Gender      string     `json:"gender,omitempty"`
	DateOfBirth *time.Time `json:"date_of_birth,omitempty"`
}

// PaymentRecord is what survives of the payment intent after masking. The full
// card number and CVV never reach storage or logs.
type PaymentRecord struct {
	CardHolder string `json:"card_holder"`
	CardLast4  string `json:"card_last4"`
}

type Booking struct {
	ID                 int64
	Reference          Reference
	Status             BookingStatus
	CreatedAt          time.Time
	CancelledAt        *time.Time
	CancellationReason string
	Flight             FlightSnapshot
	Passengers         []Passenger
	TotalPrice         float64
	Currency           string
	Payment            *PaymentRecord
}

// Primary returns the first passenger, whose contact fields are used for
// notifications. Bookings always carry at least one passenger.
func (b *Booking) Primary() Passenger {
	if len(b.Passengers) == 0 {
		return Passenger{}
	}
	return b.Passengers[0]
}
