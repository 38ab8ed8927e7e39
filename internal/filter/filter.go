package filter

import (
	"github.com/dharmasatrya/flightfinder/internal/models"
	"github.com/dharmasatrya/flightfinder/internal/ranking"
)

const (
	DefaultPriceMax    = 2000.0
	DefaultDurationMax = 24.0
	HoursInDay         = 24.0

	// Emission thresholds in kg CO2e.
	LowEmissionsMax    = 120.0
	MediumEmissionsMax = 200.0
)

type predicate func(it models.Itinerary) bool

// ApplyAndSort narrows itineraries with fs and then orders the survivors by mode.
func ApplyAndSort(itineraries []models.Itinerary, fs models.FilterState, mode ranking.SortMode) []models.Itinerary {
	return ranking.Sort(Apply(itineraries, fs), mode)
}

// Apply returns the itineraries that pass every active dimension of fs,
// in their input order. Neither argument is modified.
func Apply(itineraries []models.Itinerary, fs models.FilterState) []models.Itinerary {
	result := make([]models.Itinerary, 0, len(itineraries))
	if len(itineraries) == 0 {
		return result
	}

	predicates := buildPredicates(fs)
	for _, it := range itineraries {
		if matchesAll(it, predicates) {
			result = append(result, it)
		}
	}

	return result
}

func matchesAll(it models.Itinerary, predicates []predicate) bool {
	for _, p := range predicates {
		if !p(it) {
			return false
		}
	}
	return true
}

// buildPredicates returns one predicate per restricting dimension, in the
// order stops, airlines, price, times, duration, emissions.
func buildPredicates(fs models.FilterState) []predicate {
	var predicates []predicate

	if !fs.Stops.Any && fs.Stops.HasActive() {
		predicates = append(predicates, stopsPredicate(fs.Stops))
	}

	if selected := fs.SelectedAirlines(); len(selected) > 0 {
		predicates = append(predicates, airlinesPredicate(selected))
	}

	if fs.PriceRange != nil {
		predicates = append(predicates, pricePredicate(*fs.PriceRange))
	}

	if fs.Times != nil && (fs.Times.Departure != nil || fs.Times.Arrival != nil) {
		predicates = append(predicates, timesPredicate(*fs.Times))
	}

	if fs.Duration != nil {
		predicates = append(predicates, durationPredicate(*fs.Duration))
	}

	if !fs.Emissions.Any && fs.Emissions.HasActive() {
		predicates = append(predicates, emissionsPredicate(fs.Emissions))
	}

	return predicates
}

// oneStop is "one stop or fewer" and overlaps nonstop.
func stopsPredicate(stops models.StopsFilter) predicate {
	return func(it models.Itinerary) bool {
		leg, _ := it.FirstLeg()
		n := leg.StopCount

		if stops.Nonstop && n == 0 {
			return true
		}
		if stops.OneStop && n <= 1 {
			return true
		}
		if stops.TwoPlus && n >= 2 {
			return true
		}
		return false
	}
}

func airlinesPredicate(selected []string) predicate {
	enabled := make(map[string]struct{}, len(selected))
	for _, id := range selected {
		enabled[id] = struct{}{}
	}

	return func(it models.Itinerary) bool {
		for _, leg := range it.Legs {
			for _, c := range leg.Carriers.Marketing {
				if _, ok := enabled[c.ID]; ok {
					return true
				}
			}
		}
		return false
	}
}

func pricePredicate(r models.Range) predicate {
	return func(it models.Itinerary) bool {
		return r.Contains(it.Price.Raw)
	}
}

func timesPredicate(w models.TimeWindows) predicate {
	return func(it models.Itinerary) bool {
		leg, ok := it.FirstLeg()
		if !ok {
			return true
		}
		if w.Departure != nil && !w.Departure.Contains(DecimalHour(leg.Departure.Hour(), leg.Departure.Minute())) {
			return false
		}
		if w.Arrival != nil && !w.Arrival.Contains(DecimalHour(leg.Arrival.Hour(), leg.Arrival.Minute())) {
			return false
		}
		return true
	}
}

func durationPredicate(r models.Range) predicate {
	return func(it models.Itinerary) bool {
		leg, ok := it.FirstLeg()
		if !ok {
			return true
		}
		return r.Contains(float64(leg.DurationInMinutes) / 60)
	}
}

func emissionsPredicate(e models.EmissionsFilter) predicate {
	return func(it models.Itinerary) bool {
		return e.Allows(EmissionLevelFor(it.TotalEmissions()))
	}
}

// DecimalHour converts a wall-clock time to fractional hours, e.g. 13:30 -> 13.5.
func DecimalHour(hour, minute int) float64 {
	return float64(hour) + float64(minute)/60
}

// EmissionLevelFor buckets total emissions (kg CO2e) into a level.
func EmissionLevelFor(kg float64) models.EmissionLevel {
	switch {
	case kg <= LowEmissionsMax:
		return models.EmissionLow
	case kg <= MediumEmissionsMax:
		return models.EmissionMedium
	default:
		return models.EmissionHigh
	}
}
