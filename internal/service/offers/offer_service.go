package offers

import (
	"context"
	"regexp"
	"sort"
	"strings"

	"skywings/internal/domain"
	"skywings/pkg/logger"
)

// SearchQuery is the normalized search input. Origin and Destination are IATA
// codes, dates are YYYY-MM-DD.
type SearchQuery struct {
	Origin      string `json:"origin"`
	Destination string `json:"destination"`
	Date        string `json:"date"`
	ReturnDate  string `json:"return_date,omitempty"`
	Passengers  int    `json:"passengers"`
	TravelClass string `json:"travel_class,omitempty"`
	Airline     string `json:"airline,omitempty"`
	DirectOnly  bool   `json:"direct_only,omitempty"`
}

// SearchResult distinguishes the three flavours of "nothing to show": no
// flights at all, none for the requested airline, none reaching the exact
// destination. Message is set only when Offers is empty.
type SearchResult struct {
	Offers  []domain.FlightOffer `json:"offers"`
	Message string               `json:"message,omitempty"`
}

type Provider interface {
	SearchOffers(ctx context.Context, q SearchQuery) ([]domain.FlightOffer, error)
}

type OfferCache interface {
	PutOffers(ctx context.Context, offers []domain.FlightOffer) error
	GetOffers(ctx context.Context) ([]domain.FlightOffer, error)
	ResolveOffer(ctx context.Context, id string) (*domain.FlightOffer, error)
}

type OfferUseCase interface {
	Search(ctx context.Context, q SearchQuery) (*SearchResult, error)
	GetOffer(ctx context.Context, id string) (*domain.FlightOffer, error)
}

type OfferService struct {
	provider Provider
	cache    OfferCache
	logger   logger.Client
}

func NewOfferService(provider Provider, cache OfferCache, log logger.Client) *OfferService {
	return &OfferService{provider: provider, cache: cache, logger: log}
}

var iataPattern = regexp.MustCompile(`^[A-Z]{3}$`)

func (s *OfferService) Search(ctx context.Context, q SearchQuery) (*SearchResult, error) {
	q.Origin = strings.ToUpper(strings.TrimSpace(q.Origin))
	q.Destination = strings.ToUpper(strings.TrimSpace(q.Destination))
	q.Airline = strings.ToUpper(strings.TrimSpace(q.Airline))

	if !iataPattern.MatchString(q.Origin) {
		return nil, domain.Validationf("origin must be a 3-letter IATA code, got %q", q.Origin)
	}
	if !iataPattern.MatchString(q.Destination) {
		return nil, domain.Validationf("destination must be a 3-letter IATA code, got %q", q.Destination)
	}
	if q.Date == "" {
		return nil, domain.Validationf("departure date is required")
	}
	if q.Passengers <= 0 {
		q.Passengers = 1
	}

	fetched, err := s.provider.SearchOffers(ctx, q)
	if err != nil {
		return nil, err
	}
	if len(fetched) == 0 {
		return &SearchResult{Message: "No flights found"}, nil
	}

	normalized := normalize(fetched)

	// The full set is cached before any airline/destination filtering so a
	// later offer lookup can resolve ids the filters hid from this response.
	if err := s.cache.PutOffers(ctx, normalized); err != nil {
		s.logger.Error("failed to cache offers", logger.Field{Key: "err", Value: err})
	}

	offers := normalized
	if q.Airline != "" {
		offers = filterByAirline(offers, q.Airline)
		if len(offers) == 0 {
			return &SearchResult{Message: "No flights found for airline: " + q.Airline}, nil
		}
	}

	offers = filterByFinalDestination(offers, q.Destination)
	if len(offers) == 0 {
		return &SearchResult{Message: "No flights found with the requested final destination"}, nil
	}

	// Stable: equal prices keep the provider-assigned order.
	sort.SliceStable(offers, func(i, j int) bool {
		return offers[i].Price < offers[j].Price
	})

	return &SearchResult{Offers: offers}, nil
}

func (s *OfferService) GetOffer(ctx context.Context, id string) (*domain.FlightOffer, error) {
	offer, err := s.cache.ResolveOffer(ctx, id)
	if err != nil {
		return nil, err
	}
	if offer == nil {
		return nil, domain.E(domain.CodeOfferNotFound, "flight offer not found or no longer available")
	}
	return offer, nil
}

// normalize recomputes the derived fields from the segment list: stop count,
// route endpoints. Duration stays as the provider reported it.
func normalize(offers []domain.FlightOffer) []domain.FlightOffer {
	out := make([]domain.FlightOffer, 0, len(offers))
	for _, o := range offers {
		if len(o.Segments) > 0 {
			first := o.Segments[0]
			last := o.Segments[len(o.Segments)-1]
			o.From = first.From
			o.To = last.To
			o.Departure = first.Departure
			o.Arrival = last.Arrival
			o.Stops = len(o.Segments) - 1
		}
		out = append(out, o)
	}
	return out
}

func filterByAirline(offers []domain.FlightOffer, airline string) []domain.FlightOffer {
	filtered := make([]domain.FlightOffer, 0, len(offers))
	for _, o := range offers {
		if strings.EqualFold(o.Airline, airline) {
			filtered = append(filtered, o)
		}
	}
	return filtered
}

// filterByFinalDestination drops interline itineraries that land at a
// co-terminal airport with a different code than the one requested.
func filterByFinalDestination(offers []domain.FlightOffer, destination string) []domain.FlightOffer {
	filtered := make([]domain.FlightOffer, 0, len(offers))
	for _, o := range offers {
		if len(o.Segments) == 0 {
			continue
		}
		if o.Segments[len(o.Segments)-1].To == destination {
			filtered = append(filtered, o)
		}
	}
	return filtered
}

var _ OfferUseCase = (*OfferService)(nil)
