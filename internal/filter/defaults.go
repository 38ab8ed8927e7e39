package filter

import "github.com/dharmasatrya/flightfinder/internal/models"

// Defaults returns the untouched filter state shown when results first load.
// Note the price ceiling: itineraries above DefaultPriceMax are excluded even
// when the user never opens the price filter.
func Defaults() models.FilterState {
	return models.FilterState{
		Stops:      models.StopsFilter{Any: true},
		Airlines:   map[string]bool{},
		PriceRange: &models.Range{0, DefaultPriceMax},
		Times: &models.TimeWindows{
			Departure: &models.Range{0, HoursInDay},
			Arrival:   &models.Range{0, HoursInDay},
		},
		Duration:  &models.Range{0, DefaultDurationMax},
		Emissions: models.EmissionsFilter{Any: true},
		Bags:      models.BagsFilter{},
	}
}

// ActiveCount is the number shown on the filter badge.
func ActiveCount(fs models.FilterState) int {
	count := fs.Stops.ActiveCount()
	count += len(fs.SelectedAirlines())

	if narrowed(fs.PriceRange, DefaultPriceMax) {
		count++
	}

	if fs.Times != nil && (narrowed(fs.Times.Departure, HoursInDay) || narrowed(fs.Times.Arrival, HoursInDay)) {
		count++
	}

	if narrowed(fs.Duration, DefaultDurationMax) {
		count++
	}

	count += fs.Emissions.ActiveCount()

	return count
}

func narrowed(r *models.Range, ceiling float64) bool {
	if r == nil {
		return false
	}
	return r.Min() > 0 || r.Max() < ceiling
}

// Airlines lists the distinct marketing carriers across all legs, in the
// order they are first seen.
func Airlines(itineraries []models.Itinerary) []models.Carrier {
	seen := make(map[string]bool)
	carriers := make([]models.Carrier, 0)

	for _, it := range itineraries {
		for _, leg := range it.Legs {
			for _, c := range leg.Carriers.Marketing {
				if seen[c.ID] {
					continue
				}
				seen[c.ID] = true
				carriers = append(carriers, c)
			}
		}
	}

	return carriers
}
