package pricecalendar

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/dharmasatrya/flightfinder/internal/storage"
)

const AlertsKey = "priceAlerts"

type Trend struct {
	Direction  string `json:"direction"`
	Percentage int    `json:"percentage"`
	Prediction string `json:"prediction"`
	Confidence int    `json:"confidence"`
}

type Alert struct {
	ID            string    `json:"id"`
	Route         string    `json:"route"`
	Date          string    `json:"date"`
	TargetPrice   float64   `json:"targetPrice"`
	OriginalPrice float64   `json:"originalPrice"`
	CreatedAt     time.Time `json:"createdAt"`
	IsActive      bool      `json:"isActive"`
}

type TriggeredAlert struct {
	Alert
	CurrentPrice float64 `json:"currentPrice"`
	Savings      float64 `json:"savings"`
}

// Trends returns a short-term outlook for route.
func (s *Service) Trends(route string) Trend {
	s.mu.Lock()
	defer s.mu.Unlock()

	t := Trend{
		Direction:  "down",
		Percentage: s.rng.Intn(20) + 5,
		Prediction: "stable",
		Confidence: s.rng.Intn(30) + 70,
	}
	if s.rng.Float64() > 0.5 {
		t.Direction = "up"
	}
	if s.rng.Float64() > 0.6 {
		t.Prediction = "increase"
	}

	s.log.Debug().Str("route", route).Str("direction", t.Direction).Msg("price trend")
	return t
}

func (s *Service) AddAlert(ctx context.Context, a Alert) (Alert, error) {
	if a.Route == "" || a.Date == "" {
		return Alert{}, fmt.Errorf("%w: route and date are required", ErrInvalidAlert)
	}
	if _, err := time.Parse(DateLayout, a.Date); err != nil {
		return Alert{}, fmt.Errorf("%w: date %q is not YYYY-MM-DD", ErrInvalidAlert, a.Date)
	}

	s.alertsMu.Lock()
	defer s.alertsMu.Unlock()

	alerts, err := s.Alerts(ctx)
	if err != nil {
		return Alert{}, err
	}

	a.ID = uuid.NewString()
	a.CreatedAt = s.now().UTC()
	a.IsActive = true
	alerts = append(alerts, a)

	if err := s.saveAlerts(ctx, alerts); err != nil {
		return Alert{}, err
	}
	return a, nil
}

func (s *Service) Alerts(ctx context.Context) ([]Alert, error) {
	var alerts []Alert
	err := storage.GetJSON(ctx, s.store, AlertsKey, &alerts)
	switch {
	case errors.Is(err, storage.ErrNotFound):
		return []Alert{}, nil
	case err != nil:
		return nil, fmt.Errorf("load price alerts: %w", err)
	}
	return alerts, nil
}

// CheckAlerts matches active alerts against current prices, keyed by route
// then date. An alert fires when the current price is at or below target.
func (s *Service) CheckAlerts(ctx context.Context, current map[string]map[string]DayPrice) ([]TriggeredAlert, error) {
	alerts, err := s.Alerts(ctx)
	if err != nil {
		return nil, err
	}

	triggered := make([]TriggeredAlert, 0)
	for _, a := range alerts {
		if !a.IsActive {
			continue
		}
		day, ok := current[a.Route][a.Date]
		if !ok || day.Price <= 0 || day.Price > a.TargetPrice {
			continue
		}
		triggered = append(triggered, TriggeredAlert{
			Alert:        a,
			CurrentPrice: day.Price,
			Savings:      decimal.NewFromFloat(a.OriginalPrice).Sub(decimal.NewFromFloat(day.Price)).InexactFloat64(),
		})
	}
	return triggered, nil
}

func (s *Service) saveAlerts(ctx context.Context, alerts []Alert) error {
	if err := storage.SetJSON(ctx, s.store, AlertsKey, alerts, 0); err != nil {
		return fmt.Errorf("save price alerts: %w", err)
	}
	return nil
}
