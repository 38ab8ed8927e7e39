package ranking

import (
	"sort"
	"strings"

	"github.com/dharmasatrya/flightfinder/internal/models"
)

type SortMode string

const (
	SortCheapest SortMode = "cheapest"
	SortBest     SortMode = "best"
)

const (
	PricePerPoint   = 1000.0 // price counted in thousands
	MinutesPerPoint = 60.0   // duration counted in hours
	StopPenalty     = 2.0    // each stop weighs like two hours
)

// ParseSortMode maps empty or unknown input to SortBest.
func ParseSortMode(s string) SortMode {
	if SortMode(strings.ToLower(strings.TrimSpace(s))) == SortCheapest {
		return SortCheapest
	}
	return SortBest
}

// Score is the "best" ranking value. Lower is better.
func Score(it models.Itinerary) float64 {
	score := it.Price.Raw / PricePerPoint
	if leg, ok := it.FirstLeg(); ok {
		score += float64(leg.DurationInMinutes)/MinutesPerPoint + float64(leg.StopCount)*StopPenalty
	}
	return score
}

// Sort returns a new slice ordered by mode. Equal keys keep their input order.
func Sort(itineraries []models.Itinerary, mode SortMode) []models.Itinerary {
	result := make([]models.Itinerary, len(itineraries))
	copy(result, itineraries)

	if len(result) <= 1 {
		return result
	}

	switch mode {
	case SortCheapest:
		sort.SliceStable(result, func(i, j int) bool {
			return result[i].Price.Raw < result[j].Price.Raw
		})

	default:
		sort.SliceStable(result, func(i, j int) bool {
			return Score(result[i]) < Score(result[j])
		})
	}

	return result
}
