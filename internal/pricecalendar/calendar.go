// Package pricecalendar produces day-by-day fare estimates for a route,
// short-term price trends and user price alerts.
package pricecalendar

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/dharmasatrya/flightfinder/internal/storage"
	"github.com/dharmasatrya/flightfinder/pkg/currency"
)

const (
	DateLayout       = "2006-01-02"
	DefaultBasePrice = 500000.0
	CacheTTL         = 24 * time.Hour
	MaxRangeDays     = 366
)

const (
	weekendMultiplier  = 1.2
	holidayMultiplier  = 1.4
	shoulderMultiplier = 1.1
	minVariation       = 0.85
	variationSpread    = 0.3
	availability       = 0.95
)

var roundingStep = decimal.NewFromInt(100)

var (
	ErrInvalidRange = errors.New("invalid date range")
	ErrInvalidAlert = errors.New("invalid price alert")
)

type Category string

const (
	CategoryLow      Category = "low"
	CategoryNormal   Category = "normal"
	CategoryHigh     Category = "high"
	CategoryVeryHigh Category = "very-high"
)

type DayPrice struct {
	Price     float64  `json:"price"`
	Formatted string   `json:"formatted"`
	Category  Category `json:"category"`
	Available bool     `json:"available"`
}

type Config struct {
	Seed      int64 // 0 seeds from the clock
	BasePrice float64
}

func DefaultConfig() Config {
	return Config{BasePrice: DefaultBasePrice}
}

type Service struct {
	store     storage.Store
	log       zerolog.Logger
	basePrice float64
	now       func() time.Time

	mu  sync.Mutex
	rng *rand.Rand

	// alertsMu serializes read-modify-write cycles on the stored alerts.
	alertsMu sync.Mutex
}

type Option func(*Service)

func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func NewService(store storage.Store, log zerolog.Logger, cfg Config, opts ...Option) *Service {
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	base := cfg.BasePrice
	if base <= 0 {
		base = DefaultBasePrice
	}

	s := &Service{
		store:     store,
		log:       log,
		basePrice: base,
		now:       time.Now,
		rng:       rand.New(rand.NewSource(seed)),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Generate prices every day from start to end inclusive, keyed by
// YYYY-MM-DD.
func (s *Service) Generate(start, end time.Time, base float64) (map[string]DayPrice, error) {
	start = truncateDay(start)
	end = truncateDay(end)
	if end.Before(start) {
		return nil, fmt.Errorf("%w: %s is before %s", ErrInvalidRange, end.Format(DateLayout), start.Format(DateLayout))
	}
	if days := int(end.Sub(start).Hours()/24) + 1; days > MaxRangeDays {
		return nil, fmt.Errorf("%w: %d days exceeds %d", ErrInvalidRange, days, MaxRangeDays)
	}
	if base <= 0 {
		base = s.basePrice
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	prices := make(map[string]DayPrice)
	for day := start; !day.After(end); day = day.AddDate(0, 0, 1) {
		variation := minVariation + s.rng.Float64()*variationSpread
		price := decimal.NewFromFloat(base).
			Mul(decimal.NewFromFloat(Multiplier(day))).
			Mul(decimal.NewFromFloat(variation)).
			Div(roundingStep).
			Round(0).
			Mul(roundingStep).
			InexactFloat64()

		prices[day.Format(DateLayout)] = DayPrice{
			Price:     price,
			Formatted: currency.Compact(price),
			Category:  CategoryFor(price, base),
			Available: s.rng.Float64() < availability,
		}
	}
	return prices, nil
}

// Prices returns the calendar for route between two YYYY-MM-DD dates,
// serving a stored copy when one was generated within CacheTTL.
func (s *Service) Prices(ctx context.Context, route, start, end string) (map[string]DayPrice, error) {
	from, err := time.Parse(DateLayout, start)
	if err != nil {
		return nil, fmt.Errorf("%w: start %q", ErrInvalidRange, start)
	}
	to, err := time.Parse(DateLayout, end)
	if err != nil {
		return nil, fmt.Errorf("%w: end %q", ErrInvalidRange, end)
	}

	key := fmt.Sprintf("prices_%s_%s_%s", route, start, end)

	var cached map[string]DayPrice
	err = storage.GetJSON(ctx, s.store, key, &cached)
	switch {
	case err == nil:
		return cached, nil
	case !errors.Is(err, storage.ErrNotFound):
		s.log.Warn().Err(err).Str("key", key).Msg("price calendar cache read failed")
	}

	prices, err := s.Generate(from, to, s.basePrice)
	if err != nil {
		return nil, err
	}

	if err := storage.SetJSON(ctx, s.store, key, prices, CacheTTL); err != nil {
		s.log.Warn().Err(err).Str("key", key).Msg("price calendar cache write failed")
	}
	return prices, nil
}

// Multiplier is the deterministic demand factor for a day, before random
// variation.
func Multiplier(day time.Time) float64 {
	m := 1.0
	switch day.Weekday() {
	case time.Saturday, time.Sunday:
		m *= weekendMultiplier
	case time.Monday, time.Friday:
		m *= shoulderMultiplier
	}
	if IsPeakPeriod(day) {
		m *= holidayMultiplier
	}
	return m
}

// IsPeakPeriod reports whether day falls in an Indian holiday travel peak.
func IsPeakPeriod(day time.Time) bool {
	d := day.Day()
	switch day.Month() {
	case time.December:
		return d >= 20
	case time.January:
		return d <= 5
	case time.March:
		return d >= 15 && d <= 25
	case time.August:
		return d == 15
	case time.October:
		return d == 2 || (d >= 15 && d <= 25)
	}
	return false
}

func CategoryFor(price, base float64) Category {
	ratio := price / base
	switch {
	case ratio <= 0.9:
		return CategoryLow
	case ratio <= 1.1:
		return CategoryNormal
	case ratio <= 1.3:
		return CategoryHigh
	default:
		return CategoryVeryHigh
	}
}

func truncateDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
