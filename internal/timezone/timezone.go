package timezone

import (
	"strings"
	"time"
)

var (
	IST *time.Location // UTC+5:30 - India
	GMT *time.Location // UTC+0 - UK and Ireland
	CET *time.Location // UTC+1 - Central Europe
	EST *time.Location // UTC-5 - US East Coast
	PST *time.Location // UTC-8 - US West Coast
)

func init() {
	IST = time.FixedZone("IST", 5*60*60+30*60)
	GMT = time.FixedZone("GMT", 0)
	CET = time.FixedZone("CET", 1*60*60)
	EST = time.FixedZone("EST", -5*60*60)
	PST = time.FixedZone("PST", -8*60*60)
}

var airportTimezones = map[string]string{
	// IST
	"BBI": "IST", // Bhubaneswar
	"BLR": "IST", // Bengaluru
	"DEL": "IST", // Delhi
	"BOM": "IST", // Mumbai
	"MAA": "IST", // Chennai
	"CCU": "IST", // Kolkata
	"HYD": "IST", // Hyderabad
	"PNQ": "IST", // Pune
	"GOI": "IST", // Goa

	// GMT
	"LHR": "GMT", // London Heathrow
	"LON": "GMT", // London (all airports)
	"DUB": "GMT", // Dublin

	// CET
	"CDG": "CET", // Paris Charles de Gaulle
	"FRA": "CET", // Frankfurt

	// EST
	"JFK": "EST", // New York JFK
	"NYC": "EST", // New York (all airports)

	// PST
	"LAX": "PST", // Los Angeles
}

// TimezoneByAirport returns the zone abbreviation for an airport, defaulting to IST.
func TimezoneByAirport(code string) string {
	code = strings.ToUpper(code)
	if tz, ok := airportTimezones[code]; ok {
		return tz
	}
	return "IST"
}

func LocationByAirport(code string) *time.Location {
	return LocationByName(TimezoneByAirport(code))
}

func LocationByName(name string) *time.Location {
	switch strings.ToUpper(name) {
	case "GMT", "UTC", "UTC+0":
		return GMT
	case "CET", "UTC+1":
		return CET
	case "EST", "UTC-5":
		return EST
	case "PST", "UTC-8":
		return PST
	case "IST", "UTC+5:30":
		return IST
	default:
		if loc, err := time.LoadLocation(name); err == nil {
			return loc
		}
		return IST
	}
}

// ParseDate parses a YYYY-MM-DD date as midnight at the airport.
func ParseDate(date, airportCode string) (time.Time, error) {
	return time.ParseInLocation("2006-01-02", date, LocationByAirport(airportCode))
}

func ConvertToTimezone(t time.Time, airportCode string) time.Time {
	return t.In(LocationByAirport(airportCode))
}
