package models

import (
	"strings"
	"time"
)

const DateLayout = "2006-01-02"

const (
	TripOneWay    = "oneway"
	TripRoundTrip = "roundtrip"
)

type SearchRequest struct {
	Origin        string       `json:"origin"`
	OriginName    string       `json:"originName,omitempty"`
	Destination   string       `json:"destination"`
	DestName      string       `json:"destinationName,omitempty"`
	DepartureDate string       `json:"departureDate"`
	ReturnDate    *string      `json:"returnDate,omitempty"`
	TripType      string       `json:"tripType,omitempty"`
	Adults        int          `json:"adults"`
	Children      int          `json:"children,omitempty"`
	Infants       int          `json:"infants,omitempty"`
	CabinClass    string       `json:"cabinClass"`
	Filters       *FilterState `json:"filters,omitempty"`
	SortBy        string       `json:"sortBy,omitempty"`
}

func (r *SearchRequest) IsRoundTrip() bool {
	return r.ReturnDate != nil && *r.ReturnDate != ""
}

func (r *SearchRequest) Validate() error {
	if strings.TrimSpace(r.Origin) == "" {
		return ErrMissingOrigin
	}
	if strings.TrimSpace(r.Destination) == "" {
		return ErrMissingDestination
	}
	if r.DepartureDate == "" {
		return ErrMissingDepartureDate
	}
	if _, err := time.Parse(DateLayout, r.DepartureDate); err != nil {
		return ErrInvalidDate
	}
	if r.IsRoundTrip() {
		if _, err := time.Parse(DateLayout, *r.ReturnDate); err != nil {
			return ErrInvalidDate
		}
	}
	if r.Adults <= 0 {
		r.Adults = 1
	}
	if r.Children < 0 {
		r.Children = 0
	}
	if r.Infants < 0 {
		r.Infants = 0
	}
	if r.CabinClass == "" {
		r.CabinClass = "economy"
	}
	if r.IsRoundTrip() {
		r.TripType = TripRoundTrip
	} else {
		r.TripType = TripOneWay
	}
	if r.SortBy == "" {
		r.SortBy = "best"
	}
	return nil
}

type ValidationError string

func (e ValidationError) Error() string {
	return string(e)
}

const (
	ErrMissingOrigin        ValidationError = "origin is required"
	ErrMissingDestination   ValidationError = "destination is required"
	ErrMissingDepartureDate ValidationError = "departureDate is required"
	ErrInvalidDate          ValidationError = "dates must be formatted as YYYY-MM-DD"
)
