package amadeus

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int    `json:"expires_in"`
}

type searchResponse struct {
	Data []offerData `json:"data"`
}

type offerData struct {
	ID                     string            `json:"id"`
	Itineraries            []itineraryData   `json:"itineraries"`
	Price                  priceData         `json:"price"`
	ValidatingAirlineCodes []string          `json:"validatingAirlineCodes"`
	TravelerPricings       []travelerPricing `json:"travelerPricings"`
}

type itineraryData struct {
	Duration string        `json:"duration"`
	Segments []segmentData `json:"segments"`
}

type segmentData struct {
	Departure   endpointData `json:"departure"`
	Arrival     endpointData `json:"arrival"`
	CarrierCode string       `json:"carrierCode"`
	Number      string       `json:"number"`
	Duration    string       `json:"duration"`
}

type endpointData struct {
	IATACode string `json:"iataCode"`
	At       string `json:"at"`
}

type priceData struct {
	Total    string `json:"total"`
	Currency string `json:"currency"`
}

type travelerPricing struct {
	FareDetailsBySegment []fareDetails `json:"fareDetailsBySegment"`
}

type fareDetails struct {
	Cabin string `json:"cabin"`
}
