package ranking_test

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dharmasatrya/flightfinder/internal/models"
	"github.com/dharmasatrya/flightfinder/internal/ranking"
)

func itinerary(id string, price float64, minutes, stops int) models.Itinerary {
	return models.Itinerary{
		ID:    id,
		Price: models.Price{Raw: price},
		Legs:  []models.Leg{{DurationInMinutes: minutes, StopCount: stops}},
	}
}

func ids(its []models.Itinerary) []string {
	out := make([]string, 0, len(its))
	for _, it := range its {
		out = append(out, it.ID)
	}
	return out
}

func TestParseSortMode(t *testing.T) {
	assert.Equal(t, ranking.SortCheapest, ranking.ParseSortMode("cheapest"))
	assert.Equal(t, ranking.SortCheapest, ranking.ParseSortMode(" Cheapest "))
	assert.Equal(t, ranking.SortBest, ranking.ParseSortMode("best"))
	assert.Equal(t, ranking.SortBest, ranking.ParseSortMode(""))
	assert.Equal(t, ranking.SortBest, ranking.ParseSortMode("fastest"))
}

func TestScore(t *testing.T) {
	// 500/1000 + 150/60 + 1*2
	assert.InDelta(t, 5.0, ranking.Score(itinerary("x", 500, 150, 1)), 1e-9)

	noLegs := models.Itinerary{Price: models.Price{Raw: 1500}}
	assert.InDelta(t, 1.5, ranking.Score(noLegs), 1e-9)
}

func TestScore_UsesOutboundLegOnly(t *testing.T) {
	it := itinerary("rt", 1000, 120, 0)
	it.Legs = append(it.Legs, models.Leg{DurationInMinutes: 600, StopCount: 2})

	assert.InDelta(t, 3.0, ranking.Score(it), 1e-9)
}

func TestSort_Cheapest(t *testing.T) {
	list := []models.Itinerary{
		itinerary("b", 700, 100, 0),
		itinerary("a", 300, 600, 2),
		itinerary("c", 900, 60, 0),
	}

	got := ranking.Sort(list, ranking.SortCheapest)

	assert.Equal(t, []string{"a", "b", "c"}, ids(got))
}

func TestSort_Best(t *testing.T) {
	// Scores: 0.3+10+4 = 14.3, 0.7+3 = 3.7, 1.5+2 = 3.5
	list := []models.Itinerary{
		itinerary("cheap-slow", 300, 600, 2),
		itinerary("mid", 700, 180, 0),
		itinerary("pricey-fast", 1500, 120, 0),
	}

	got := ranking.Sort(list, ranking.SortBest)

	assert.Equal(t, []string{"pricey-fast", "mid", "cheap-slow"}, ids(got))
}

func TestSort_UnknownModeFallsBackToBest(t *testing.T) {
	list := []models.Itinerary{
		itinerary("cheap-slow", 300, 600, 2),
		itinerary("pricey-fast", 1500, 120, 0),
	}

	got := ranking.Sort(list, ranking.SortMode("departure"))

	assert.Equal(t, []string{"pricey-fast", "cheap-slow"}, ids(got))
}

func TestSort_IsStable(t *testing.T) {
	list := []models.Itinerary{
		itinerary("first", 500, 120, 0),
		itinerary("cheaper", 400, 120, 0),
		itinerary("second", 500, 120, 0),
		itinerary("third", 500, 120, 0),
	}

	assert.Equal(t, []string{"cheaper", "first", "second", "third"}, ids(ranking.Sort(list, ranking.SortCheapest)))
	assert.Equal(t, []string{"cheaper", "first", "second", "third"}, ids(ranking.Sort(list, ranking.SortBest)))
}

func TestSort_DoesNotReorderInput(t *testing.T) {
	list := []models.Itinerary{
		itinerary("b", 700, 100, 0),
		itinerary("a", 300, 600, 2),
	}

	_ = ranking.Sort(list, ranking.SortCheapest)

	assert.Equal(t, []string{"b", "a"}, ids(list))
}

func TestSort_Empty(t *testing.T) {
	got := ranking.Sort(nil, ranking.SortBest)
	require.NotNil(t, got)
	assert.Empty(t, got)
}

func TestSort_OrderingHoldsForRandomInput(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	list := make([]models.Itinerary, 200)
	for i := range list {
		list[i] = itinerary("", float64(rng.Intn(2000)), 60+rng.Intn(600), rng.Intn(3))
	}

	cheapest := ranking.Sort(list, ranking.SortCheapest)
	for i := 1; i < len(cheapest); i++ {
		assert.LessOrEqual(t, cheapest[i-1].Price.Raw, cheapest[i].Price.Raw)
	}

	best := ranking.Sort(list, ranking.SortBest)
	for i := 1; i < len(best); i++ {
		assert.LessOrEqual(t, ranking.Score(best[i-1]), ranking.Score(best[i]))
	}
}
