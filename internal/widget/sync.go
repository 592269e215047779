package widget

import (
	"context"

	"go.uber.org/zap"

	"github.com/i474232898/city-weather/internal/weather"
)

// State is the phase of the weather for the active city.
type State int

const (
	StateLoading State = iota
	StateReady
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateReady:
		return "ready"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Status is one of Loading, Ready(snapshot) or Failed(message).
// Snapshot is only meaningful when State is StateReady.
type Status struct {
	State    State
	Snapshot weather.Snapshot
	Message  string
}

func Loading() Status { return Status{State: StateLoading} }

func Ready(s weather.Snapshot) Status { return Status{State: StateReady, Snapshot: s} }

func Failed(message string) Status { return Status{State: StateFailed, Message: message} }

// WeatherSync fetches weather whenever the selected city moves and keeps only
// the result tagged with the selection epoch current when it arrives.
// There is no retry and no polling.
type WeatherSync struct {
	loop      *loop
	fetcher   weather.Fetcher
	selection *CitySelection
	logger    *zap.Logger
	observer  Observer

	started bool
	status  Status
	fetches int
}

func newWeatherSync(l *loop, f weather.Fetcher, sel *CitySelection, logger *zap.Logger, obs Observer) *WeatherSync {
	w := &WeatherSync{
		loop:      l,
		fetcher:   f,
		selection: sel,
		logger:    logger,
		observer:  obs,
		status:    Loading(),
	}
	sel.Subscribe(w.onChange)
	return w
}

// Start issues the fetch for the city active at startup. Later calls do nothing.
func (w *WeatherSync) Start() {
	w.loop.do(func() {
		if w.started {
			return
		}
		w.started = true
		w.fetch(w.selection.city, w.selection.epoch)
	})
}

// onChange fetches when the city moved. Reselecting the same place retries
// only after a failure; a loading or ready status is left alone.
func (w *WeatherSync) onChange(ch Change) {
	if !w.started {
		return
	}
	if !ch.Moved && w.status.State != StateFailed {
		return
	}
	w.fetch(ch.City, ch.Epoch)
}

func (w *WeatherSync) fetch(city weather.City, tag Epoch) {
	w.status = Loading()
	w.fetches++
	w.loop.spawn(func(ctx context.Context) func() {
		snap, err := w.fetcher.FetchCurrent(ctx, city.Coordinates())
		return func() { w.complete(tag, city, snap, err) }
	})
}

func (w *WeatherSync) complete(tag Epoch, city weather.City, snap weather.Snapshot, err error) {
	if tag != w.selection.epoch {
		w.observer.StaleDiscarded("weather")
		w.logger.Debug("discarding stale weather response",
			zap.String("city", city.Name),
			zap.Uint64("tag", uint64(tag)),
			zap.Uint64("current", uint64(w.selection.epoch)))
		return
	}

	if err != nil {
		w.logger.Warn("weather fetch failed", zap.String("city", city.Name), zap.Error(err))
		w.status = Failed(err.Error())
		return
	}
	w.status = Ready(snap)
}

// Status returns the current weather status.
func (w *WeatherSync) Status() Status {
	w.loop.mu.Lock()
	defer w.loop.mu.Unlock()
	return w.status
}

// Fetches returns how many weather requests have been issued.
func (w *WeatherSync) Fetches() int {
	w.loop.mu.Lock()
	defer w.loop.mu.Unlock()
	return w.fetches
}
