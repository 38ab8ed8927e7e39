package providers

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/dharmasatrya/flightfinder/internal/models"
	"github.com/dharmasatrya/flightfinder/internal/timezone"
	"github.com/dharmasatrya/flightfinder/pkg/currency"
)

const (
	averageEmissions  = 150.0
	nonstopRatio      = 0.6
	minItineraries    = 8
	extraItineraries  = 5
	shortFlightMax    = 180
	emissionTagCutoff = -10.0
)

type MockConfig struct {
	Seed       int64 // 0 seeds from the clock
	MinLatency time.Duration
	MaxLatency time.Duration
}

func DefaultMockConfig() MockConfig {
	return MockConfig{
		MinLatency: 50 * time.Millisecond,
		MaxLatency: 100 * time.Millisecond,
	}
}

// MockProvider generates plausible itineraries for any route from a fixed
// carrier catalogue.
type MockProvider struct {
	name     string
	carriers []models.Carrier
	config   MockConfig

	mu  sync.Mutex
	rng *rand.Rand
}

func NewMockProvider(name string, carriers []models.Carrier, cfg MockConfig) (*MockProvider, error) {
	if len(carriers) == 0 {
		return nil, fmt.Errorf("provider %s: no carriers configured", name)
	}
	if cfg.MaxLatency < cfg.MinLatency {
		cfg.MaxLatency = cfg.MinLatency
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	return &MockProvider{
		name:     name,
		carriers: carriers,
		config:   cfg,
		rng:      rand.New(rand.NewSource(seed)),
	}, nil
}

func (p *MockProvider) Name() string {
	return p.name
}

func (p *MockProvider) Search(ctx context.Context, req models.SearchRequest) ([]models.Itinerary, error) {
	if delay := p.latency(); delay > 0 {
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	origin := LookupAirport(req.Origin)
	destination := LookupAirport(req.Destination)

	outboundDate, err := timezone.ParseDate(req.DepartureDate, origin.Code)
	if err != nil {
		return nil, NewPermanentError(p.name, models.ErrInvalidDate)
	}

	var returnDate *time.Time
	if req.IsRoundTrip() {
		d, err := timezone.ParseDate(*req.ReturnDate, destination.Code)
		if err != nil {
			return nil, NewPermanentError(p.name, models.ErrInvalidDate)
		}
		returnDate = &d
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	count := minItineraries + p.rng.Intn(extraItineraries)
	itineraries := make([]models.Itinerary, 0, count)
	for i := 0; i < count; i++ {
		itineraries = append(itineraries, p.generate(i, origin, destination, outboundDate, returnDate, req.DepartureDate))
	}

	sort.SliceStable(itineraries, func(i, j int) bool {
		return itineraries[i].Price.Raw < itineraries[j].Price.Raw
	})
	tagCheapest(itineraries)

	return itineraries, nil
}

func (p *MockProvider) latency() time.Duration {
	spread := p.config.MaxLatency - p.config.MinLatency
	if spread <= 0 {
		return p.config.MinLatency
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	return p.config.MinLatency + time.Duration(p.rng.Int63n(int64(spread)))
}

// generate must be called with p.mu held.
func (p *MockProvider) generate(i int, origin, destination Airport, outbound time.Time, inbound *time.Time, dateLabel string) models.Itinerary {
	airline := p.carriers[p.rng.Intn(len(p.carriers))]
	nonstop := p.rng.Float64() < nonstopRatio

	stops := 0
	duration := 120 + p.rng.Intn(180)
	if !nonstop {
		stops = 1 + p.rng.Intn(2)
		duration = 240 + p.rng.Intn(360)
	}

	depHour := p.rng.Intn(24)
	depMinute := p.rng.Intn(4) * 15

	price := float64(200 + p.rng.Intn(800))
	if !nonstop {
		price *= 0.8
	}
	if premiumCarriers[airline.ID] {
		price *= 1.2
	}
	if depHour >= 6 && depHour <= 9 {
		price *= 1.1
	}
	price = math.Floor(price)

	emissions := float64(80 + p.rng.Intn(200))
	emissionDiff := (emissions - averageEmissions) / averageEmissions * 100

	legs := []models.Leg{
		p.leg(fmt.Sprintf("%s-%s-%s-%d", origin.Code, destination.Code, dateLabel, i),
			origin, destination, atClock(outbound, depHour, depMinute), duration, stops, airline),
	}

	if inbound != nil {
		retHour := p.rng.Intn(24)
		retMinute := p.rng.Intn(4) * 15
		legs = append(legs, p.leg(fmt.Sprintf("%s-%s-%s-%d", destination.Code, origin.Code, inbound.Format("2006-01-02"), i),
			destination, origin, atClock(*inbound, retHour, retMinute), duration, stops, airline))
	}

	var tags []string
	if nonstop && duration < shortFlightMax {
		tags = append(tags, "shortest")
	}
	if emissionDiff < emissionTagCutoff {
		tags = append(tags, "low_emissions")
	}

	return models.Itinerary{
		ID: fmt.Sprintf("flight-%s-%s-%s-%d", origin.Code, destination.Code, p.name, i),
		Price: models.Price{
			Raw:       price,
			Formatted: currency.FormatINR(price),
		},
		Legs: legs,
		SustainabilityData: &models.Sustainability{
			TotalEmissions:     emissions,
			EmissionPercentage: math.Round(emissionDiff),
			EmissionCategory:   emissionCategory(emissionDiff),
		},
		Tags: tags,
	}
}

func (p *MockProvider) leg(id string, from, to Airport, departure time.Time, minutes, stops int, airline models.Carrier) models.Leg {
	arrival := timezone.ConvertToTimezone(departure.Add(time.Duration(minutes)*time.Minute), to.Code)

	return models.Leg{
		ID:                id,
		Origin:            from.Place(),
		Destination:       to.Place(),
		Departure:         departure,
		Arrival:           arrival,
		DurationInMinutes: minutes,
		StopCount:         stops,
		Carriers:          models.Carriers{Marketing: []models.Carrier{airline}},
		Segments: []models.Segment{{
			ID:                fmt.Sprintf("%s-%s-%d", from.Code, to.Code, departure.UnixMilli()),
			Origin:            from.Place(),
			Destination:       to.Place(),
			Departure:         departure,
			Arrival:           arrival,
			DurationInMinutes: minutes,
			FlightNumber:      strconv.Itoa(1000 + p.rng.Intn(9000)),
			MarketingCarrier:  airline,
			OperatingCarrier:  airline,
		}},
	}
}

func atClock(day time.Time, hour, minute int) time.Time {
	return time.Date(day.Year(), day.Month(), day.Day(), hour, minute, 0, 0, day.Location())
}

func emissionCategory(diff float64) string {
	switch {
	case diff < emissionTagCutoff:
		return string(models.EmissionLow)
	case diff > -emissionTagCutoff:
		return string(models.EmissionHigh)
	default:
		return string(models.EmissionMedium)
	}
}

// tagCheapest marks the first three itineraries of a price-sorted list.
func tagCheapest(itineraries []models.Itinerary) {
	labels := []string{"cheapest", "second_cheapest", "third_cheapest"}
	for i := 0; i < len(labels) && i < len(itineraries); i++ {
		itineraries[i].Tags = append([]string{labels[i]}, itineraries[i].Tags...)
	}
}

// DefaultProviders returns one mock provider per regional carrier group.
// A non-zero seed makes every provider deterministic.
func DefaultProviders(cfg MockConfig) ([]Provider, error) {
	groups := []struct {
		name     string
		carriers []models.Carrier
	}{
		{"indian-carriers", IndianCarriers},
		{"european-carriers", EuropeanCarriers},
		{"american-carriers", AmericanCarriers},
	}

	var providerList []Provider
	for i, g := range groups {
		c := cfg
		if c.Seed != 0 {
			c.Seed += int64(i)
		}
		p, err := NewMockProvider(g.name, g.carriers, c)
		if err != nil {
			return nil, err
		}
		providerList = append(providerList, p)
	}
	return providerList, nil
}
