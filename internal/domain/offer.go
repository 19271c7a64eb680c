package domain

import "time"

// FlightOffer is a priced itinerary returned by the provider. Offers are
// ephemeral: they live in the offer cache for a bounded TTL and are never
// mutated. A booking snapshots what it needs from the offer at creation time.
type FlightOffer struct {
	ID           string    `json:"id"`
	From         string    `json:"from"`
	To           string    `json:"to"`
	Departure    time.Time `json:"departure"`
	Arrival      time.Time `json:"arrival"`
	Price        float64   `json:"price"`
	Currency     string    `json:"currency"`
	Airline      string    `json:"airline"`
	FlightNumber string    `json:"flight_number"`
	TravelClass  string    `json:"travel_class"`
	Stops        int       `json:"stops"`
	Duration     string    `json:"duration"` // ISO-8601, as reported by the provider
	Segments     []Segment `json:"segments"`
}

// Segment is one flown leg of an offer, ordered chronologically within its
// parent.
type Segment struct {
	From         string    `json:"from"`
	To           string    `json:"to"`
	Departure    time.Time `json:"departure"`
	Arrival      time.Time `json:"arrival"`
	Airline      string    `json:"airline"`
	FlightNumber string    `json:"flight_number"`
	Duration     string    `json:"duration"`
}
