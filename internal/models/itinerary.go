package models

import "time"

type Carrier struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	LogoURL string `json:"logoUrl"`
}

type Carriers struct {
	Marketing []Carrier `json:"marketing"`
}

type Place struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	DisplayCode string `json:"displayCode"`
	City        string `json:"city,omitempty"`
}

type Segment struct {
	ID                string    `json:"id"`
	Origin            Place     `json:"origin"`
	Destination       Place     `json:"destination"`
	Departure         time.Time `json:"departure"`
	Arrival           time.Time `json:"arrival"`
	DurationInMinutes int       `json:"durationInMinutes"`
	FlightNumber      string    `json:"flightNumber"`
	MarketingCarrier  Carrier   `json:"marketingCarrier"`
	OperatingCarrier  Carrier   `json:"operatingCarrier"`
}

type Leg struct {
	ID                string    `json:"id"`
	Origin            Place     `json:"origin"`
	Destination       Place     `json:"destination"`
	Departure         time.Time `json:"departure"`
	Arrival           time.Time `json:"arrival"`
	DurationInMinutes int       `json:"durationInMinutes"`
	StopCount         int       `json:"stopCount"`
	Carriers          Carriers  `json:"carriers"`
	Segments          []Segment `json:"segments,omitempty"`
}

type Price struct {
	Raw       float64 `json:"raw"`
	Formatted string  `json:"formatted"`
}

// Sustainability carries emissions data. EmissionCategory is informational;
// filtering derives its own category from TotalEmissions.
type Sustainability struct {
	TotalEmissions     float64 `json:"totalEmissions"`
	EmissionPercentage float64 `json:"emissionPercentage"`
	EmissionCategory   string  `json:"emissionCategory"`
}

// Itinerary is one priced option: a single outbound leg, or outbound plus return.
type Itinerary struct {
	ID                 string          `json:"id"`
	Price              Price           `json:"price"`
	Legs               []Leg           `json:"legs"`
	SustainabilityData *Sustainability `json:"sustainabilityData,omitempty"`
	Tags               []string        `json:"tags,omitempty"`
}

// FirstLeg returns the outbound leg. ok is false when the itinerary has no legs.
func (it Itinerary) FirstLeg() (Leg, bool) {
	if len(it.Legs) == 0 {
		return Leg{}, false
	}
	return it.Legs[0], true
}

func (it Itinerary) TotalEmissions() float64 {
	if it.SustainabilityData == nil {
		return 0
	}
	return it.SustainabilityData.TotalEmissions
}
