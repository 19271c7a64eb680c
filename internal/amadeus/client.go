package amadeus

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"skywings/config"
	"skywings/internal/domain"
	"skywings/internal/service/offers"
	"skywings/pkg/logger"
)

const (
	tokenPath  = "/v1/security/oauth2/token"
	searchPath = "/v2/shopping/flight-offers"
	maxResults = 20

	maxAttempts    = 3
	initialBackoff = 2 * time.Second
)

// Client talks to the Amadeus flight-offers API. Rate-limit responses (429)
// are retried with exponential backoff; any other transport or API failure
// surfaces immediately as an upstream error.
type Client struct {
	httpClient   *http.Client
	baseURL      string
	clientID     string
	clientSecret string
	logger       logger.Client

	backoff time.Duration

	mu          sync.Mutex
	accessToken string
	tokenExpiry time.Time
}

func NewClient(httpClient *http.Client, cfg config.AmadeusConfig, log logger.Client) *Client {
	return &Client{
		httpClient:   httpClient,
		baseURL:      strings.TrimRight(cfg.BaseURL, "/"),
		clientID:     cfg.ClientID,
		clientSecret: cfg.ClientSecret,
		logger:       log,
		backoff:      initialBackoff,
	}
}

func (c *Client) SearchOffers(ctx context.Context, q offers.SearchQuery) ([]domain.FlightOffer, error) {
	token, err := c.token(ctx)
	if err != nil {
		return nil, err
	}

	params := url.Values{}
	params.Set("originLocationCode", q.Origin)
	params.Set("destinationLocationCode", q.Destination)
	params.Set("departureDate", q.Date)
	params.Set("adults", strconv.Itoa(q.Passengers))
	params.Set("max", strconv.Itoa(maxResults))
	if q.TravelClass != "" {
		params.Set("travelClass", q.TravelClass)
	}
	if q.ReturnDate != "" {
		params.Set("returnDate", q.ReturnDate)
	}
	if q.DirectOnly {
		params.Set("nonStop", "true")
	}

	reqURL := c.baseURL + searchPath + "?" + params.Encode()

	body, err := c.getWithRetry(ctx, reqURL, token)
	if err != nil {
		return nil, err
	}

	var resp searchResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, domain.Upstreamf("malformed provider response: %v", err)
	}

	return mapOffers(resp, q.TravelClass), nil
}

// getWithRetry performs the GET, retrying only on 429 with doubling delays.
func (c *Client) getWithRetry(ctx context.Context, reqURL, token string) ([]byte, error) {
	delay := c.backoff
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
		if err != nil {
			return nil, domain.Upstreamf("build provider request: %v", err)
		}
		req.Header.Set("Authorization", "Bearer "+token)

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return nil, domain.Upstreamf("provider request failed: %v", err)
		}

		body, readErr := io.ReadAll(resp.Body)
		resp.Body.Close()

		if resp.StatusCode == http.StatusTooManyRequests {
			c.logger.Warn("provider rate limit hit",
				logger.Field{Key: "attempt", Value: attempt},
				logger.Field{Key: "delay", Value: delay.String()},
			)
			if attempt == maxAttempts {
				break
			}
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return nil, domain.Upstreamf("provider request cancelled: %v", ctx.Err())
			}
			delay *= 2
			continue
		}

		if resp.StatusCode != http.StatusOK {
			return nil, domain.Upstreamf("provider returned status %d", resp.StatusCode)
		}
		if readErr != nil {
			return nil, domain.Upstreamf("read provider response: %v", readErr)
		}
		return body, nil
	}
	return nil, domain.Upstreamf("provider rate limit: max retries reached")
}

// token returns a cached OAuth token, fetching a fresh one when the previous
// is within a minute of expiry.
func (c *Client) token(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.accessToken != "" && time.Until(c.tokenExpiry) > time.Minute {
		return c.accessToken, nil
	}

	form := url.Values{}
	form.Set("grant_type", "client_credentials")
	form.Set("client_id", c.clientID)
	form.Set("client_secret", c.clientSecret)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+tokenPath, strings.NewReader(form.Encode()))
	if err != nil {
		return "", domain.Upstreamf("build token request: %v", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", domain.Upstreamf("token request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", domain.Upstreamf("token endpoint returned status %d", resp.StatusCode)
	}

	var tr tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&tr); err != nil {
		return "", domain.Upstreamf("malformed token response: %v", err)
	}

	c.accessToken = tr.AccessToken
	c.tokenExpiry = time.Now().Add(time.Duration(tr.ExpiresIn) * time.Second)
	return c.accessToken, nil
}

func mapOffers(resp searchResponse, travelClass string) []domain.FlightOffer {
	mapped := make([]domain.FlightOffer, 0, len(resp.Data))
	for _, offer := range resp.Data {
		if len(offer.Itineraries) == 0 || len(offer.Itineraries[0].Segments) == 0 {
			continue
		}
		itinerary := offer.Itineraries[0]

		segments := make([]domain.Segment, 0, len(itinerary.Segments))
		for _, seg := range itinerary.Segments {
			segments = append(segments, domain.Segment{
				From:         seg.Departure.IATACode,
				To:           seg.Arrival.IATACode,
				Departure:    parseTime(seg.Departure.At),
				Arrival:      parseTime(seg.Arrival.At),
				Airline:      seg.CarrierCode,
				FlightNumber: seg.CarrierCode + seg.Number,
				Duration:     seg.Duration,
			})
		}

		first := itinerary.Segments[0]
		airline := first.CarrierCode
		if len(offer.ValidatingAirlineCodes) > 0 {
			airline = offer.ValidatingAirlineCodes[0]
		}

		cabin := travelClass
		if len(offer.TravelerPricings) > 0 && len(offer.TravelerPricings[0].FareDetailsBySegment) > 0 {
			cabin = offer.TravelerPricings[0].FareDetailsBySegment[0].Cabin
		}

		price, err := strconv.ParseFloat(offer.Price.Total, 64)
		if err != nil {
			continue
		}

		mapped = append(mapped, domain.FlightOffer{
			ID:           offer.ID,
			Price:        price,
			Currency:     offer.Price.Currency,
			Airline:      airline,
			FlightNumber: first.CarrierCode + first.Number,
			TravelClass:  cabin,
			Duration:     itinerary.Duration,
			Segments:     segments,
		})
	}
	return mapped
}

// parseTime handles Amadeus local datetimes, which omit the zone offset.
func parseTime(s string) time.Time {
	if t, err := time.Parse("2006-01-02T15:04:05", s); err == nil {
		return t
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}
	}
	return t
}

var _ offers.Provider = (*Client)(nil)
