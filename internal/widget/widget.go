// Package widget implements the search, selection and weather synchronization
// core of the city weather widget.
//
// Control flow: query text -> SearchSession -> candidates -> Select ->
// CitySelection -> WeatherSync -> Status -> Projector -> DisplayModel.
// All transitions run serially on one event loop; network calls run
// concurrently and complete in any order, so every response is checked
// against the latest epoch before it may change state.
package widget

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/i474232898/city-weather/internal/weather"
)

// ErrNoSuchCandidate is returned by SelectIndex for an index outside the list.
var ErrNoSuchCandidate = errors.New("no such candidate")

// Options configures a Widget. Logger and Observer may be nil.
type Options struct {
	DefaultCity weather.City
	Logger      *zap.Logger
	Observer    Observer
}

// Widget wires the components together for one user.
type Widget struct {
	loop      *loop
	search    *SearchSession
	selection *CitySelection
	sync      *WeatherSync
	projector Projector
}

// New builds a widget showing opts.DefaultCity. No request is issued until Start.
func New(geo weather.Geocoder, fetcher weather.Fetcher, codes weather.Describer, opts Options) (*Widget, error) {
	if geo == nil || fetcher == nil {
		return nil, fmt.Errorf("widget: geocoder and fetcher are required")
	}
	if err := opts.DefaultCity.Coordinates().Validate(); err != nil {
		return nil, fmt.Errorf("widget: default city: %w", err)
	}

	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	var obs Observer = nopObserver{}
	if opts.Observer != nil {
		obs = opts.Observer
	}

	l := newLoop()
	search := newSearchSession(l, geo, logger, obs)
	selection := newCitySelection(l, search, opts.DefaultCity)
	sync := newWeatherSync(l, fetcher, selection, logger, obs)

	return &Widget{
		loop:      l,
		search:    search,
		selection: selection,
		sync:      sync,
		projector: NewProjector(codes),
	}, nil
}

// Start issues the weather fetch for the default city.
func (w *Widget) Start() { w.sync.Start() }

// SetQueryText replaces the search box text and starts a lookup for it.
func (w *Widget) SetQueryText(text string) { w.search.SetQueryText(text) }

// QueryText returns the search box text as last set.
func (w *Widget) QueryText() string { return w.search.QueryText() }

// Candidates returns a copy of the dropdown list.
func (w *Widget) Candidates() []weather.Candidate { return w.search.Candidates() }

// Searching reports whether a lookup for the current text is in flight.
func (w *Widget) Searching() bool { return w.search.Searching() }

// SearchView is a consistent read of the search box and its dropdown.
type SearchView struct {
	Query      string              `json:"query"`
	Candidates []weather.Candidate `json:"candidates"`
	Searching  bool                `json:"searching"`
}

// SearchView reads the query, candidates and searching flag in one event.
func (w *Widget) SearchView() SearchView {
	w.loop.mu.Lock()
	defer w.loop.mu.Unlock()
	return SearchView{
		Query:      w.search.query,
		Candidates: w.search.snapshot(),
		Searching:  w.search.searching,
	}
}

// Select makes candidate the active city.
func (w *Widget) Select(candidate weather.Candidate) error { return w.selection.Select(candidate) }

// SelectIndex selects the i-th entry of the current candidate list.
// The lookup and the selection happen in one event.
func (w *Widget) SelectIndex(i int) (weather.City, error) {
	var (
		city weather.City
		err  error
	)
	w.loop.do(func() {
		if i < 0 || i >= len(w.search.candidates) {
			err = fmt.Errorf("%w: %d", ErrNoSuchCandidate, i)
			return
		}
		city, err = w.search.candidates[i].City()
		if err != nil {
			return
		}
		w.selection.selectCity(city)
	})
	return city, err
}

// City returns the active city.
func (w *Widget) City() weather.City { return w.selection.Current() }

// Status returns the weather status of the active city.
func (w *Widget) Status() Status { return w.sync.Status() }

// Display projects the active city and its weather status in one consistent read.
func (w *Widget) Display() DisplayModel {
	w.loop.mu.Lock()
	city, status := w.selection.city, w.sync.status
	w.loop.mu.Unlock()
	return w.projector.Project(city, status)
}

// Search exposes the search component.
func (w *Widget) Search() *SearchSession { return w.search }

// Selection exposes the selection component.
func (w *Widget) Selection() *CitySelection { return w.selection }

// Weather exposes the weather synchronization component.
func (w *Widget) Weather() *WeatherSync { return w.sync }

// Wait blocks until every issued request has completed and been applied.
func (w *Widget) Wait() { w.loop.wait() }

// Close cancels outstanding requests and discards anything that still arrives.
func (w *Widget) Close() { w.loop.close() }
