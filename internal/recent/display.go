package recent

import (
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
)

const displayDateLayout = "Jan 02"

type Display struct {
	ID           string `json:"id"`
	Route        string `json:"route"`
	Dates        string `json:"dates"`
	Passengers   string `json:"passengers"`
	Class        string `json:"class"`
	TripType     string `json:"tripType"`
	SearchCount  int    `json:"searchCount"`
	LastSearched string `json:"lastSearched"`
}

// FormatDisplay renders an entry for the recent searches list.
func FormatDisplay(e Entry, now time.Time) Display {
	dates := formatDate(e.DepartureDate)
	if e.TripType == "roundtrip" {
		dates = formatDate(e.DepartureDate) + " - " + formatDate(e.ReturnDate)
	}

	class := "Economy"
	if e.Class != nil && e.Class.Name != "" {
		class = e.Class.Name
	}

	return Display{
		ID:           e.ID,
		Route:        e.Route,
		Dates:        dates,
		Passengers:   formatPassengers(e.Passengers),
		Class:        class,
		TripType:     e.TripType,
		SearchCount:  e.SearchCount,
		LastSearched: humanize.RelTime(e.Timestamp, now, "ago", "from now"),
	}
}

func formatDate(date string) string {
	t, err := time.Parse("2006-01-02", date)
	if err != nil {
		return date
	}
	return t.Format(displayDateLayout)
}

func formatPassengers(p *Passengers) string {
	if p == nil {
		return "1 passenger"
	}

	result := plural(p.Adults, "adult", "adults")
	if p.Children > 0 {
		result += ", " + plural(p.Children, "child", "children")
	}
	if p.Infants > 0 {
		result += ", " + plural(p.Infants, "infant", "infants")
	}
	return result
}

func plural(n int, one, many string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, one)
	}
	return fmt.Sprintf("%d %s", n, many)
}
