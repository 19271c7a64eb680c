package amadeus

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"skywings/config"
	"skywings/internal/domain"
	"skywings/internal/service/offers"
	"skywings/pkg/logger"
)

const tokenJSON = `{"access_token":"test-token","expires_in":1799}`

const searchJSON = `{
	"data": [
		{
			"id": "1",
			"itineraries": [
				{
					"duration": "PT8H15M",
					"segments": [
						{
							"departure": {"iataCode": "JFK", "at": "2026-10-01T08:30:00"},
							"arrival": {"iataCode": "ATL", "at": "2026-10-01T11:00:00"},
							"carrierCode": "DL",
							"number": "401",
							"duration": "PT2H30M"
						},
						{
							"departure": {"iataCode": "ATL", "at": "2026-10-01T12:15:00"},
							"arrival": {"iataCode": "LAX", "at": "2026-10-01T14:45:00"},
							"carrierCode": "DL",
							"number": "955",
							"duration": "PT4H30M"
						}
					]
				}
			],
			"price": {"total": "312.40", "currency": "USD"},
			"validatingAirlineCodes": ["DL"],
			"travelerPricings": [
				{"fareDetailsBySegment": [{"cabin": "ECONOMY"}]}
			]
		},
		{
			"id": "2",
			"itineraries": [],
			"price": {"total": "100.00", "currency": "USD"}
		}
	]
}`

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client := NewClient(server.Client(), config.AmadeusConfig{
		BaseURL:      server.URL,
		ClientID:     "id",
		ClientSecret: "secret",
	}, logger.NewZeroLog("test"))
	client.backoff = time.Millisecond
	return client
}

func query() offers.SearchQuery {
	return offers.SearchQuery{Origin: "JFK", Destination: "LAX", Date: "2026-10-01", Passengers: 2}
}

func TestClient_SearchOffers_MapsResponse(t *testing.T) {
	var searchRequests atomic.Int32

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case tokenPath:
			assert.Equal(t, http.MethodPost, r.Method)
			w.Write([]byte(tokenJSON))
		case searchPath:
			searchRequests.Add(1)
			assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))
			assert.Equal(t, "JFK", r.URL.Query().Get("originLocationCode"))
			assert.Equal(t, "LAX", r.URL.Query().Get("destinationLocationCode"))
			assert.Equal(t, "2026-10-01", r.URL.Query().Get("departureDate"))
			assert.Equal(t, "2", r.URL.Query().Get("adults"))
			assert.Equal(t, "20", r.URL.Query().Get("max"))
			w.Write([]byte(searchJSON))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	})

	found, err := client.SearchOffers(context.Background(), query())

	assert.NoError(t, err)
	assert.Equal(t, int32(1), searchRequests.Load())
	// the offer without itineraries is dropped
	assert.Len(t, found, 1)

	got := found[0]
	assert.Equal(t, "1", got.ID)
	assert.Equal(t, 312.40, got.Price)
	assert.Equal(t, "USD", got.Currency)
	assert.Equal(t, "DL", got.Airline)
	assert.Equal(t, "DL401", got.FlightNumber)
	assert.Equal(t, "ECONOMY", got.TravelClass)
	assert.Equal(t, "PT8H15M", got.Duration)
	assert.Len(t, got.Segments, 2)
	assert.Equal(t, "JFK", got.Segments[0].From)
	assert.Equal(t, "LAX", got.Segments[1].To)
	assert.Equal(t, time.Date(2026, 10, 1, 8, 30, 0, 0, time.UTC), got.Segments[0].Departure)
}

func TestClient_SearchOffers_OptionalParams(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case tokenPath:
			w.Write([]byte(tokenJSON))
		case searchPath:
			assert.Equal(t, "BUSINESS", r.URL.Query().Get("travelClass"))
			assert.Equal(t, "2026-10-08", r.URL.Query().Get("returnDate"))
			assert.Equal(t, "true", r.URL.Query().Get("nonStop"))
			w.Write([]byte(`{"data": []}`))
		}
	})

	q := query()
	q.TravelClass = "BUSINESS"
	q.ReturnDate = "2026-10-08"
	q.DirectOnly = true

	found, err := client.SearchOffers(context.Background(), q)

	assert.NoError(t, err)
	assert.Empty(t, found)
}

func TestClient_SearchOffers_RetriesOnRateLimit(t *testing.T) {
	var attempts atomic.Int32

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case tokenPath:
			w.Write([]byte(tokenJSON))
		case searchPath:
			if attempts.Add(1) < 3 {
				w.WriteHeader(http.StatusTooManyRequests)
				return
			}
			w.Write([]byte(searchJSON))
		}
	})

	found, err := client.SearchOffers(context.Background(), query())

	assert.NoError(t, err)
	assert.Len(t, found, 1)
	assert.Equal(t, int32(3), attempts.Load())
}

func TestClient_SearchOffers_RateLimitExhausted(t *testing.T) {
	var attempts atomic.Int32

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case tokenPath:
			w.Write([]byte(tokenJSON))
		case searchPath:
			attempts.Add(1)
			w.WriteHeader(http.StatusTooManyRequests)
		}
	})

	found, err := client.SearchOffers(context.Background(), query())

	assert.Error(t, err)
	assert.Nil(t, found)
	assert.True(t, domain.IsCode(err, domain.CodeUpstream))
	assert.Contains(t, err.Error(), "max retries reached")
	assert.Equal(t, int32(3), attempts.Load())
}

func TestClient_SearchOffers_ServerErrorIsNotRetried(t *testing.T) {
	var attempts atomic.Int32

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case tokenPath:
			w.Write([]byte(tokenJSON))
		case searchPath:
			attempts.Add(1)
			w.WriteHeader(http.StatusInternalServerError)
		}
	})

	found, err := client.SearchOffers(context.Background(), query())

	assert.Error(t, err)
	assert.Nil(t, found)
	assert.True(t, domain.IsCode(err, domain.CodeUpstream))
	assert.Contains(t, err.Error(), "status 500")
	assert.Equal(t, int32(1), attempts.Load())
}

func TestClient_TokenIsCachedAcrossSearches(t *testing.T) {
	var tokenRequests atomic.Int32

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case tokenPath:
			tokenRequests.Add(1)
			w.Write([]byte(tokenJSON))
		case searchPath:
			w.Write([]byte(`{"data": []}`))
		}
	})

	ctx := context.Background()
	_, err := client.SearchOffers(ctx, query())
	assert.NoError(t, err)
	_, err = client.SearchOffers(ctx, query())
	assert.NoError(t, err)

	assert.Equal(t, int32(1), tokenRequests.Load())
}

func TestClient_TokenEndpointFailure(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})

	found, err := client.SearchOffers(context.Background(), query())

	assert.Error(t, err)
	assert.Nil(t, found)
	assert.True(t, domain.IsCode(err, domain.CodeUpstream))
	assert.Contains(t, err.Error(), "status 401")
}
