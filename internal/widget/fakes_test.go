package widget

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/i474232898/city-weather/internal/weather"
)

type geoReply struct {
	out []weather.Candidate
	err error
}

type geoCall struct {
	query string
	reply chan geoReply
}

// fakeGeocoder hands every call to the test, which answers it whenever it likes.
type fakeGeocoder struct {
	calls chan *geoCall
}

func newFakeGeocoder() *fakeGeocoder {
	return &fakeGeocoder{calls: make(chan *geoCall, 64)}
}

func (f *fakeGeocoder) Name() string { return "fake-geocoder" }

func (f *fakeGeocoder) Search(ctx context.Context, query string) ([]weather.Candidate, error) {
	c := &geoCall{query: query, reply: make(chan geoReply, 1)}
	f.calls <- c
	select {
	case r := <-c.reply:
		return r.out, r.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (f *fakeGeocoder) next(t *testing.T) *geoCall {
	t.Helper()
	select {
	case c := <-f.calls:
		return c
	case <-time.After(2 * time.Second):
		t.Fatal("expected a geocoding request")
		return nil
	}
}

type fetchReply struct {
	snap weather.Snapshot
	err  error
}

type fetchCall struct {
	at    weather.Coordinates
	reply chan fetchReply
}

type fakeFetcher struct {
	calls chan *fetchCall
}

func newFakeFetcher() *fakeFetcher {
	return &fakeFetcher{calls: make(chan *fetchCall, 64)}
}

func (f *fakeFetcher) Name() string { return "fake-fetcher" }

func (f *fakeFetcher) FetchCurrent(ctx context.Context, at weather.Coordinates) (weather.Snapshot, error) {
	c := &fetchCall{at: at, reply: make(chan fetchReply, 1)}
	f.calls <- c
	select {
	case r := <-c.reply:
		return r.snap, r.err
	case <-ctx.Done():
		return weather.Snapshot{}, ctx.Err()
	}
}

func (f *fakeFetcher) next(t *testing.T) *fetchCall {
	t.Helper()
	select {
	case c := <-f.calls:
		return c
	case <-time.After(2 * time.Second):
		t.Fatal("expected a weather request")
		return nil
	}
}

// snapshotFor encodes the coordinates in the reading so tests can tell which
// city a snapshot belongs to.
func snapshotFor(at weather.Coordinates) weather.Snapshot {
	return weather.Snapshot{
		TemperatureC:     at.Latitude,
		WindDirectionDeg: at.Longitude,
		ObservedAt:       "2024-01-01T12:00",
		WeatherCode:      1,
		WindSpeedKmh:     10,
	}
}

type countingObserver struct {
	mu     sync.Mutex
	counts map[string]int
}

func (o *countingObserver) StaleDiscarded(source string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.counts == nil {
		o.counts = map[string]int{}
	}
	o.counts[source]++
}

func (o *countingObserver) get(source string) int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.counts[source]
}

var warszawa = weather.City{Name: "Warszawa", Latitude: 52.2297, Longitude: 21.0122}

func candidatesFor(names ...string) []weather.Candidate {
	out := make([]weather.Candidate, 0, len(names))
	for i, n := range names {
		out = append(out, weather.Candidate{Name: n, Country: "PL", Latitude: float64(i + 1), Longitude: float64(i + 1)})
	}
	return out
}
