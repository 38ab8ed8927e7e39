package providers

import (
	"strings"

	"github.com/dharmasatrya/flightfinder/internal/models"
)

const logoBaseURL = "https://logos.skyscnr.com/images/airlines/favicon/"

func carrier(id, name string) models.Carrier {
	return models.Carrier{ID: id, Name: name, LogoURL: logoBaseURL + id + ".png"}
}

var (
	IndianCarriers = []models.Carrier{
		carrier("AI", "Air India"),
		carrier("IX", "Air India Express"),
		carrier("6E", "IndiGo"),
		carrier("SG", "SpiceJet"),
		carrier("UK", "Vistara"),
		carrier("G8", "GoAir"),
		carrier("I5", "AirAsia India"),
	}

	EuropeanCarriers = []models.Carrier{
		carrier("EI", "Aer Lingus"),
		carrier("BA", "British Airways"),
		carrier("LH", "Lufthansa"),
		carrier("AF", "Air France"),
	}

	AmericanCarriers = []models.Carrier{
		carrier("DL", "Delta"),
		carrier("AA", "American Airlines"),
		carrier("UA", "United Airlines"),
	}
)

// Carriers priced at a premium.
var premiumCarriers = map[string]bool{
	"AI": true,
	"BA": true,
}

type Airport struct {
	Code string
	Name string
	City string
}

var airports = map[string]Airport{
	"BBI": {Code: "BBI", Name: "Bhubaneswar", City: "Bhubaneswar"},
	"BLR": {Code: "BLR", Name: "Bengaluru", City: "Bengaluru"},
	"DEL": {Code: "DEL", Name: "Delhi", City: "Delhi"},
	"BOM": {Code: "BOM", Name: "Mumbai", City: "Mumbai"},
	"JFK": {Code: "JFK", Name: "John F. Kennedy", City: "New York"},
	"LAX": {Code: "LAX", Name: "Los Angeles Intl", City: "Los Angeles"},
	"LHR": {Code: "LHR", Name: "London Heathrow", City: "London"},
	"CDG": {Code: "CDG", Name: "Charles de Gaulle", City: "Paris"},
	"DUB": {Code: "DUB", Name: "Dublin Airport", City: "Dublin"},
	"FRA": {Code: "FRA", Name: "Frankfurt", City: "Frankfurt"},
	"MAA": {Code: "MAA", Name: "Chennai", City: "Chennai"},
	"CCU": {Code: "CCU", Name: "Kolkata", City: "Kolkata"},
	"HYD": {Code: "HYD", Name: "Hyderabad", City: "Hyderabad"},
	"PNQ": {Code: "PNQ", Name: "Pune", City: "Pune"},
	"GOI": {Code: "GOI", Name: "Goa", City: "Goa"},
}

// LookupAirport resolves a user-supplied code. City-level sky ids carry a
// trailing "A" (e.g. "DELA"), which is stripped. Unknown codes get a
// synthetic entry; an empty code falls back to Bengaluru.
func LookupAirport(code string) Airport {
	clean := strings.ToUpper(strings.TrimSpace(code))
	if len(clean) > 3 {
		clean = strings.TrimSuffix(clean, "A")
	}

	if a, ok := airports[clean]; ok {
		return a
	}

	if clean == "" {
		return airports["BLR"]
	}

	return Airport{
		Code: clean,
		Name: clean + " Airport",
		City: clean + " City",
	}
}

func (a Airport) Place() models.Place {
	return models.Place{
		ID:          a.Code,
		Name:        a.Name,
		DisplayCode: a.Code,
		City:        a.City,
	}
}
