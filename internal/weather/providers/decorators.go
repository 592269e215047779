package providers

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"

	"github.com/i474232898/city-weather/internal/weather"
)

// ErrCircuitOpen is returned while the breaker rejects calls. It is a
// network-level failure from the caller's point of view.
var ErrCircuitOpen = fmt.Errorf("%w: circuit breaker open", weather.ErrNetwork)

// BreakerSettings configures the circuit breaker decorators.
type BreakerSettings struct {
	MaxRequests  uint32
	Interval     time.Duration
	Timeout      time.Duration
	MinRequests  uint32
	FailureRatio float64
}

// DefaultBreakerSettings mirrors the provider defaults used elsewhere.
func DefaultBreakerSettings() BreakerSettings {
	return BreakerSettings{
		MaxRequests:  5,
		Interval:     1 * time.Minute,
		Timeout:      2 * time.Minute,
		MinRequests:  5,
		FailureRatio: 0.8,
	}
}

func newBreaker(name string, s BreakerSettings, logger *zap.Logger) *gobreaker.CircuitBreaker {
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        name,
		MaxRequests: s.MaxRequests,
		Interval:    s.Interval,
		Timeout:     s.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < s.MinRequests {
				return false
			}
			return float64(counts.TotalFailures)/float64(counts.Requests) >= s.FailureRatio
		},
		IsSuccessful: countsAsSuccess,
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			logger.Warn("circuit breaker state changed",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()))
		},
	})
}

// countsAsSuccess keeps caller-side outcomes out of the failure ratio: a
// request cancelled by its session or rejected as bad input says nothing
// about the upstream's health.
func countsAsSuccess(err error) bool {
	return err == nil ||
		errors.Is(err, context.Canceled) ||
		errors.Is(err, weather.ErrInvalidCoordinates) ||
		errors.Is(err, weather.ErrInvalidQuery)
}

func breakerErr(err error) error {
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return fmt.Errorf("%w: %v", ErrCircuitOpen, err)
	}
	return err
}

type breakerGeocoder struct {
	next    weather.Geocoder
	circuit *gobreaker.CircuitBreaker
}

// GeocoderWithBreaker wraps g in a circuit breaker. Calls are never retried.
func GeocoderWithBreaker(g weather.Geocoder, s BreakerSettings, logger *zap.Logger) weather.Geocoder {
	return &breakerGeocoder{next: g, circuit: newBreaker(g.Name(), s, logger)}
}

func (b *breakerGeocoder) Name() string { return b.next.Name() }

func (b *breakerGeocoder) Search(ctx context.Context, query string) ([]weather.Candidate, error) {
	result, err := b.circuit.Execute(func() (interface{}, error) {
		return b.next.Search(ctx, query)
	})
	if err != nil {
		return nil, breakerErr(err)
	}
	candidates, ok := result.([]weather.Candidate)
	if !ok {
		return nil, fmt.Errorf("unexpected result type from circuit breaker")
	}
	return candidates, nil
}

type breakerFetcher struct {
	next    weather.Fetcher
	circuit *gobreaker.CircuitBreaker
}

// FetcherWithBreaker wraps f in a circuit breaker. Calls are never retried.
func FetcherWithBreaker(f weather.Fetcher, s BreakerSettings, logger *zap.Logger) weather.Fetcher {
	return &breakerFetcher{next: f, circuit: newBreaker(f.Name(), s, logger)}
}

func (b *breakerFetcher) Name() string { return b.next.Name() }

func (b *breakerFetcher) FetchCurrent(ctx context.Context, at weather.Coordinates) (weather.Snapshot, error) {
	result, err := b.circuit.Execute(func() (interface{}, error) {
		return b.next.FetchCurrent(ctx, at)
	})
	if err != nil {
		return weather.Snapshot{}, breakerErr(err)
	}
	snap, ok := result.(weather.Snapshot)
	if !ok {
		return weather.Snapshot{}, fmt.Errorf("unexpected result type from circuit breaker")
	}
	return snap, nil
}

type timeoutGeocoder struct {
	next weather.Geocoder
	d    time.Duration
}

// GeocoderWithTimeout bounds every Search by d. A zero d returns g unchanged.
func GeocoderWithTimeout(g weather.Geocoder, d time.Duration) weather.Geocoder {
	if d <= 0 {
		return g
	}
	return &timeoutGeocoder{next: g, d: d}
}

func (t *timeoutGeocoder) Name() string { return t.next.Name() }

func (t *timeoutGeocoder) Search(ctx context.Context, query string) ([]weather.Candidate, error) {
	ctx, cancel := context.WithTimeout(ctx, t.d)
	defer cancel()
	return t.next.Search(ctx, query)
}

type timeoutFetcher struct {
	next weather.Fetcher
	d    time.Duration
}

// FetcherWithTimeout bounds every FetchCurrent by d. A zero d returns f unchanged.
func FetcherWithTimeout(f weather.Fetcher, d time.Duration) weather.Fetcher {
	if d <= 0 {
		return f
	}
	return &timeoutFetcher{next: f, d: d}
}

func (t *timeoutFetcher) Name() string { return t.next.Name() }

func (t *timeoutFetcher) FetchCurrent(ctx context.Context, at weather.Coordinates) (weather.Snapshot, error) {
	ctx, cancel := context.WithTimeout(ctx, t.d)
	defer cancel()
	return t.next.FetchCurrent(ctx, at)
}
