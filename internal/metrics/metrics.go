package metrics

import (
	"context"
	"errors"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/i474232898/city-weather/internal/weather"
)

const namespace = "cityweather"

// Collector holds the Prometheus metrics of the service.
type Collector struct {
	registry *prometheus.Registry

	GeocodingRequests *prometheus.CounterVec
	WeatherRequests   *prometheus.CounterVec
	StaleResponses    *prometheus.CounterVec
}

// NewCollector creates a collector with its own registry.
func NewCollector() *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		GeocodingRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "geocoding_requests_total",
			Help:      "Geocoding requests by outcome",
		}, []string{"outcome"}),
		WeatherRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "weather_requests_total",
			Help:      "Current weather requests by outcome",
		}, []string{"outcome"}),
		StaleResponses: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "stale_responses_total",
			Help:      "Responses discarded because a newer request superseded them",
		}, []string{"source"}),
	}

	c.registry.MustRegister(c.GeocodingRequests, c.WeatherRequests, c.StaleResponses)
	return c
}

// TrackSessions exposes the number of live widget sessions as a gauge.
func (c *Collector) TrackSessions(count func() int) {
	c.registry.MustRegister(prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "sessions_active",
		Help:      "Live widget sessions",
	}, func() float64 { return float64(count()) }))
}

// StaleDiscarded implements widget.Observer.
func (c *Collector) StaleDiscarded(source string) {
	c.StaleResponses.WithLabelValues(source).Inc()
}

// Registry returns the underlying registry.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// Handler serves the registry in the Prometheus text format.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

// Outcome classifies err into a metric label.
func Outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, weather.ErrNetwork), errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return "network"
	case errors.Is(err, weather.ErrResponse):
		return "response"
	case errors.Is(err, weather.ErrDecode):
		return "decode"
	case errors.Is(err, weather.ErrInvalidQuery), errors.Is(err, weather.ErrInvalidCoordinates):
		return "invalid"
	default:
		return "other"
	}
}

type instrumentedGeocoder struct {
	next    weather.Geocoder
	counter *prometheus.CounterVec
}

// Geocoder counts the outcome of every Search made through g.
func (c *Collector) Geocoder(g weather.Geocoder) weather.Geocoder {
	return &instrumentedGeocoder{next: g, counter: c.GeocodingRequests}
}

func (i *instrumentedGeocoder) Name() string { return i.next.Name() }

func (i *instrumentedGeocoder) Search(ctx context.Context, query string) ([]weather.Candidate, error) {
	out, err := i.next.Search(ctx, query)
	i.counter.WithLabelValues(Outcome(err)).Inc()
	return out, err
}

type instrumentedFetcher struct {
	next    weather.Fetcher
	counter *prometheus.CounterVec
}

// Fetcher counts the outcome of every FetchCurrent made through f.
func (c *Collector) Fetcher(f weather.Fetcher) weather.Fetcher {
	return &instrumentedFetcher{next: f, counter: c.WeatherRequests}
}

func (i *instrumentedFetcher) Name() string { return i.next.Name() }

func (i *instrumentedFetcher) FetchCurrent(ctx context.Context, at weather.Coordinates) (weather.Snapshot, error) {
	snap, err := i.next.FetchCurrent(ctx, at)
	i.counter.WithLabelValues(Outcome(err)).Inc()
	return snap, err
}
