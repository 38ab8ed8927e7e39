package aggregator

import (
	"time"

	"github.com/sony/gobreaker/v2"

	"github.com/dharmasatrya/flightfinder/internal/models"
	"github.com/dharmasatrya/flightfinder/internal/providers"
)

type BreakerConfig struct {
	// MaxRequests allowed through while half-open.
	MaxRequests uint32
	// OpenTimeout is how long the breaker stays open before probing again.
	OpenTimeout time.Duration
	// ConsecutiveFailures trips the breaker.
	ConsecutiveFailures uint32
}

func DefaultBreakerConfig() BreakerConfig {
	return BreakerConfig{
		MaxRequests:         1,
		OpenTimeout:         30 * time.Second,
		ConsecutiveFailures: 5,
	}
}

type ProviderHealth struct {
	Name                string `json:"name"`
	State               string `json:"state"`
	Requests            uint32 `json:"requests"`
	ConsecutiveFailures uint32 `json:"consecutiveFailures"`
}

func (a *Aggregator) newBreaker(name string) *gobreaker.CircuitBreaker[[]models.Itinerary] {
	cfg := *a.config.Breaker
	return gobreaker.NewCircuitBreaker[[]models.Itinerary](gobreaker.Settings{
		Name:        name,
		MaxRequests: cfg.MaxRequests,
		Timeout:     cfg.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.ConsecutiveFailures
		},
		// A rejected request says nothing about the provider's health.
		IsSuccessful: func(err error) bool {
			return err == nil || providers.IsPermanent(err)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			a.config.Logger.Warn().
				Str("provider", name).
				Str("from", from.String()).
				Str("to", to.String()).
				Msg("provider circuit changed state")
		},
	})
}

// Health reports breaker state per provider, in registration order.
// Without breakers every provider reports closed.
func (a *Aggregator) Health() []ProviderHealth {
	health := make([]ProviderHealth, 0, len(a.providers))
	for _, p := range a.providers {
		h := ProviderHealth{Name: p.Name(), State: gobreaker.StateClosed.String()}
		if cb, ok := a.breakers[p.Name()]; ok {
			counts := cb.Counts()
			h.State = cb.State().String()
			h.Requests = counts.Requests
			h.ConsecutiveFailures = counts.ConsecutiveFailures
		}
		health = append(health, h)
	}
	return health
}
