package models

type SearchMetadata struct {
	SessionID          string   `json:"sessionId"`
	TotalResults       int      `json:"totalResults"`
	UnfilteredResults  int      `json:"unfilteredResults"`
	ActiveFilters      int      `json:"activeFilters"`
	ProvidersQueried   int      `json:"providersQueried"`
	ProvidersSucceeded int      `json:"providersSucceeded"`
	ProvidersFailed    int      `json:"providersFailed"`
	FailedProviders    []string `json:"failedProviders,omitempty"`
	SearchTimeMs       int64    `json:"searchTimeMs"`
	CacheHit           bool     `json:"cacheHit"`
}

type SearchCriteria struct {
	Origin        string      `json:"origin"`
	Destination   string      `json:"destination"`
	DepartureDate string      `json:"departureDate"`
	ReturnDate    *string     `json:"returnDate,omitempty"`
	TripType      string      `json:"tripType"`
	Adults        int         `json:"adults"`
	CabinClass    string      `json:"cabinClass"`
	Filters       FilterState `json:"filters"`
	SortBy        string      `json:"sortBy"`
}

type SearchResponse struct {
	SearchCriteria SearchCriteria `json:"searchCriteria"`
	Metadata       SearchMetadata `json:"metadata"`
	Airlines       []Carrier      `json:"airlines"`
	Itineraries    []Itinerary    `json:"itineraries"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Code    int    `json:"code"`
}
