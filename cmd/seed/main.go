package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"skywings/config"
	"skywings/internal/domain"
	"skywings/internal/repository"
)

// Seeds a handful of demo bookings so the admin console has something to show
// on a fresh database. Running it twice is a no-op.
func main() {
	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config.yaml"
	}

	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	ctx := context.Background()

	pool, err := pgxpool.New(ctx, cfg.Database.DSN())
	if err != nil {
		log.Fatalf("connect postgres: %v", err)
	}
	defer pool.Close()

	repo := repository.NewBookingRepository(pool)

	count, err := repo.Count(ctx)
	if err != nil {
		log.Fatalf("count bookings: %v", err)
	}
	if count > 0 {
		log.Printf("bookings table already has %d rows, nothing to do", count)
		return
	}

	for _, b := range demoBookings() {
		if err := repo.Insert(ctx, b); err != nil {
			log.Fatalf("insert %s: %v", b.Reference, err)
		}
		log.Printf("seeded %s (%s -> %s)", b.Reference, b.Flight.From, b.Flight.To)
	}

	// one cancelled booking so the console filters have all statuses to show
	if _, err := repo.Cancel(ctx, "SKY185612", "schedule change"); err != nil {
		log.Fatalf("cancel SKY185612: %v", err)
	}
	log.Printf("cancelled SKY185612")
}

func demoBookings() []*domain.Booking {
	day := func(offset int, hour int) time.Time {
		return time.Now().AddDate(0, 0, offset).Truncate(time.Hour).Add(time.Duration(hour) * time.Hour)
	}

	return []*domain.Booking{
		{
			Reference: "SKY123456",
			Status:    domain.BookingStatusConfirmed,
			Flight: domain.FlightSnapshot{
				From:         "JFK",
				To:           "LAX",
				Departure:    day(7, 8),
				Arrival:      day(7, 14),
				Airline:      "DL",
				FlightNumber: "DL100",
			},
			Passengers: []domain.Passenger{
				{FirstName: "John", LastName: "Doe", Email: "john.doe@example.com", Phone: "+1-555-0100"},
			},
			TotalPrice: 312.40,
			Currency:   "USD",
			Payment:    &domain.PaymentRecord{CardHolder: "John Doe", CardLast4: "1111"},
		},
		{
			Reference: "SKY789012",
			Status:    domain.BookingStatusConfirmed,
			Flight: domain.FlightSnapshot{
				From:         "LHR",
				To:           "CDG",
				Departure:    day(14, 9),
				Arrival:      day(14, 11),
				Airline:      "BA",
				FlightNumber: "BA304",
			},
			Passengers: []domain.Passenger{
				{FirstName: "Alice", LastName: "Smith", Email: "alice.smith@example.com"},
				{FirstName: "Bob", LastName: "Smith", Email: "bob.smith@example.com"},
			},
			TotalPrice: 256.80,
			Currency:   "EUR",
			Payment:    &domain.PaymentRecord{CardHolder: "Alice Smith", CardLast4: "4242"},
		},
		{
			Reference: "SKY185612",
			Status:    domain.BookingStatusConfirmed,
			Flight: domain.FlightSnapshot{
				From:         "SFO",
				To:           "SEA",
				Departure:    day(3, 16),
				Arrival:      day(3, 18),
				Airline:      "AS",
				FlightNumber: "AS1021",
			},
			Passengers: []domain.Passenger{
				{FirstName: "Carol", LastName: "Jones", Email: "carol.jones@example.com"},
			},
			TotalPrice: 129.00,
			Currency:   "USD",
			Payment:    &domain.PaymentRecord{CardHolder: "Carol Jones", CardLast4: "0005"},
		},
	}
}
