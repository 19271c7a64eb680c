package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"skywings/internal/domain"
)

const uniqueViolation = "23505"

// ListFilter combines optional admin filters with logical AND. Empty fields
// are ignored. DepartureDate is a YYYY-MM-DD day, matched as a range over the
// snapshot departure.
type ListFilter struct {
	Status            string
	Origin            string
	Destination       string
	DepartureDate     string
	PassengerEmail    string
	PassengerLastName string
	Limit             int
}

// PassengerQuery matches any of its non-empty fields (logical OR).
type PassengerQuery struct {
	Email    string
	LastName string
	Phone    string
}

type BookingRepository interface {
	Insert(ctx context.Context, booking *domain.Booking) error
	GetByReference(ctx context.Context, ref domain.Reference) (*domain.Booking, error)
	List(ctx context.Context, filter ListFilter) ([]domain.Booking, error)
	SearchByPassenger(ctx context.Context, q PassengerQuery) ([]domain.Booking, error)
	Cancel(ctx context.Context, ref domain.Reference, reason string) (*domain.Booking, error)
	ReplacePassengers(ctx context.Context, ref domain.Reference, passengers []domain.Passenger) (*domain.Booking, error)
	Count(ctx context.Context) (int64, error)
}

type PGBookingRepository struct {
	db *pgxpool.Pool
}

func NewBookingRepository(db *pgxpool.Pool) BookingRepository {
	return &PGBookingRepository{db: db}
}

const bookingColumns = `id, reference, status, created_at, cancelled_at, cancellation_reason, flight, passengers, total_price, currency, payment`

func (r *PGBookingRepository) Insert(ctx context.Context, booking *domain.Booking) error {
	flight, err := json.Marshal(booking.Flight)
	if err != nil {
		return err
	}
	passengers, err := json.Marshal(booking.Passengers)
	if err != nil {
		return err
	}
	var payment []byte
	if booking.Payment != nil {
		if payment, err = json.Marshal(booking.Payment); err != nil {
			return err
		}
	}

	err = r.db.QueryRow(ctx, `INSERT INTO bookings (reference, status, flight, passengers, total_price, currency, payment, cancellation_reason)
		VALUES ($1, $2, $3, $4, $5, $6, $7, '')
		RETURNING id, created_at`,
		booking.Reference, booking.Status, flight, passengers, booking.TotalPrice, booking.Currency, payment).
		Scan(&booking.ID, &booking.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return domain.E(domain.CodeConflict, "booking reference already exists")
		}
		return err
	}
	return nil
}

func (r *PGBookingRepository) GetByReference(ctx context.Context, ref domain.Reference) (*domain.Booking, error) {
	row := r.db.QueryRow(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE reference=$1`, ref)
	b, err := scanBooking(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.NotFoundf("booking %s not found", ref)
		}
		return nil, err
	}
	return b, nil
}

func (r *PGBookingRepository) List(ctx context.Context, filter ListFilter) ([]domain.Booking, error) {
	where := make([]string, 0, 6)
	args := make([]any, 0, 7)

	add := func(cond string, arg any) {
		args = append(args, arg)
		where = append(where, fmt.Sprintf(cond, len(args)))
	}

	if filter.Status != "" {
		add("status = $%d", filter.Status)
	}
	if filter.Origin != "" {
		add("flight->>'from' = $%d", filter.Origin)
	}
	if filter.Destination != "" {
		add("flight->>'to' = $%d", filter.Destination)
	}
	if filter.DepartureDate != "" {
		day, err := time.Parse("2006-01-02", filter.DepartureDate)
		if err != nil {
			return nil, domain.Validationf("invalid departure date %q", filter.DepartureDate)
		}
		add("(flight->>'departure')::timestamptz >= $%d", day)
		add("(flight->>'departure')::timestamptz < $%d", day.AddDate(0, 0, 1))
	}
	if filter.PassengerEmail != "" {
		add("passengers @> $%d::jsonb", containsJSON("email", filter.PassengerEmail))
	}
	if filter.PassengerLastName != "" {
		add("passengers @> $%d::jsonb", containsJSON("last_name", filter.PassengerLastName))
	}

	limit := filter.Limit
	if limit <= 0 || limit > 100 {
		limit = 100
	}

	query := `SELECT ` + bookingColumns + ` FROM bookings`
	for i, cond := range where {
		if i == 0 {
			query += " WHERE " + cond
		} else {
			query += " AND " + cond
		}
	}
	query += " ORDER BY created_at DESC LIMIT " + strconv.Itoa(limit)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectBookings(rows)
}

func (r *PGBookingRepository) SearchByPassenger(ctx context.Context, q PassengerQuery) ([]domain.Booking, error) {
	conds := make([]string, 0, 3)
	args := make([]any, 0, 3)

	add := func(field, value string) {
		args = append(args, containsJSON(field, value))
		conds = append(conds, fmt.Sprintf("passengers @> $%d::jsonb", len(args)))
	}

	if q.Email != "" {
		add("email", q.Email)
	}
	if q.LastName != "" {
		add("last_name", q.LastName)
	}
	if q.Phone != "" {
		add("phone", q.Phone)
	}
	if len(conds) == 0 {
		return nil, domain.Validationf("at least one search parameter is required")
	}

	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE ` + conds[0]
	for _, cond := range conds[1:] {
		query += " OR " + cond
	}
	query += " ORDER BY created_at DESC LIMIT 10"

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectBookings(rows)
}

// Cancel is a conditional update: it only touches rows that are still
// cancellable, so two concurrent cancellations resolve to exactly one winner.
// The losing caller gets ALREADY_CANCELLED, distinct from NOT_FOUND.
func (r *PGBookingRepository) Cancel(ctx context.Context, ref domain.Reference, reason string) (*domain.Booking, error) {
	row := r.db.QueryRow(ctx, `UPDATE bookings
		SET status=$1, cancelled_at=now(), cancellation_reason=$2
		WHERE reference=$3 AND status <> $1
		RETURNING `+bookingColumns, domain.BookingStatusCancelled, reason, ref)
	b, err := scanBooking(row)
	if err == nil {
		return b, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}

	// Zero rows: either the booking does not exist or it lost the race.
	current, err := r.GetByReference(ctx, ref)
	if err != nil {
		return nil, err
	}
	if current.Status == domain.BookingStatusCancelled {
		return nil, domain.E(domain.CodeAlreadyCancelled, "booking is already cancelled")
	}
	return nil, domain.NotFoundf("booking %s cannot be cancelled", ref)
}

// ReplacePassengers swaps the whole passenger list. Cancelled bookings are
// immutable, so the update carries the same status guard as Cancel.
func (r *PGBookingRepository) ReplacePassengers(ctx context.Context, ref domain.Reference, passengers []domain.Passenger) (*domain.Booking, error) {
	payload, err := json.Marshal(passengers)
	if err != nil {
		return nil, err
	}

	row := r.db.QueryRow(ctx, `UPDATE bookings
		SET passengers=$1
		WHERE reference=$2 AND status <> $3
		RETURNING `+bookingColumns, payload, ref, domain.BookingStatusCancelled)
	b, err := scanBooking(row)
	if err == nil {
		return b, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}

	current, err := r.GetByReference(ctx, ref)
	if err != nil {
		return nil, err
	}
	if current.Status == domain.BookingStatusCancelled {
		return nil, domain.E(domain.CodeAlreadyCancelled, "cancelled bookings cannot be amended")
	}
	return nil, domain.NotFoundf("booking %s not found", ref)
}

func (r *PGBookingRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.QueryRow(ctx, `SELECT count(*) FROM bookings`).Scan(&n)
	return n, err
}

// containsJSON builds the jsonb containment literal [{"field":"value"}] used
// to hit the GIN index on passengers.
func containsJSON(field, value string) string {
	payload, _ := json.Marshal([]map[string]string{{field: value}})
	return string(payload)
}

func scanBooking(row pgx.Row) (*domain.Booking, error) {
	var (
		b          domain.Booking
		flight     []byte
		passengers []byte
		payment    []byte
	)
	if err := row.Scan(&b.ID, &b.Reference, &b.Status, &b.CreatedAt, &b.CancelledAt, &b.CancellationReason,
		&flight, &passengers, &b.TotalPrice, &b.Currency, &payment); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(flight, &b.Flight); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(passengers, &b.Passengers); err != nil {
		return nil, err
	}
	if len(payment) > 0 {
		b.Payment = &domain.PaymentRecord{}
		if err := json.Unmarshal(payment, b.Payment); err != nil {
			return nil, err
		}
	}
	return &b, nil
}

func collectBookings(rows pgx.Rows) ([]domain.Booking, error) {
	bookings := make([]domain.Booking, 0)
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		bookings = append(bookings, *b)
	}
	return bookings, rows.Err()
}

var _ BookingRepository = (*PGBookingRepository)(nil)
