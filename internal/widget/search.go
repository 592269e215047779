package widget

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/i474232898/city-weather/internal/weather"
)

// SearchSession owns the query text and the candidate list built from it.
//
// Every SetQueryText supersedes the previous geocoding request; only the
// response tagged with the latest epoch may replace the candidate list.
type SearchSession struct {
	loop     *loop
	geocoder weather.Geocoder
	logger   *zap.Logger
	observer Observer

	query      string
	epoch      Epoch
	candidates []weather.Candidate
	searching  bool
	lastErr    error
}

func newSearchSession(l *loop, g weather.Geocoder, logger *zap.Logger, obs Observer) *SearchSession {
	return &SearchSession{loop: l, geocoder: g, logger: logger, observer: obs}
}

// SetQueryText records text and issues a geocoding request for it.
// Blank text clears the candidates without touching the network.
func (s *SearchSession) SetQueryText(text string) {
	s.loop.do(func() { s.setQueryText(text) })
}

func (s *SearchSession) setQueryText(text string) {
	s.query = text
	s.epoch++
	epoch := s.epoch

	if strings.TrimSpace(text) == "" {
		s.candidates = nil
		s.searching = false
		s.lastErr = nil
		return
	}

	s.searching = true
	s.loop.spawn(func(ctx context.Context) func() {
		candidates, err := s.geocoder.Search(ctx, text)
		return func() { s.complete(epoch, text, candidates, err) }
	})
}

func (s *SearchSession) complete(epoch Epoch, text string, candidates []weather.Candidate, err error) {
	if epoch != s.epoch {
		s.observer.StaleDiscarded("geocoding")
		s.logger.Debug("discarding stale geocoding response",
			zap.String("query", text),
			zap.Uint64("epoch", uint64(epoch)),
			zap.Uint64("current", uint64(s.epoch)))
		return
	}

	s.searching = false
	if err != nil {
		s.logger.Warn("geocoding failed", zap.String("query", text), zap.Error(err))
		s.candidates = nil
		s.lastErr = err
		return
	}

	s.candidates = candidates
	s.lastErr = nil
}

// reset clears the query and candidates and supersedes any pending request.
func (s *SearchSession) reset() {
	s.query = ""
	s.epoch++
	s.candidates = nil
	s.searching = false
	s.lastErr = nil
}

// QueryText returns the raw text last typed.
func (s *SearchSession) QueryText() string {
	s.loop.mu.Lock()
	defer s.loop.mu.Unlock()
	return s.query
}

// Candidates returns a copy of the current candidate list, never nil.
func (s *SearchSession) Candidates() []weather.Candidate {
	s.loop.mu.Lock()
	defer s.loop.mu.Unlock()
	return s.snapshot()
}

func (s *SearchSession) snapshot() []weather.Candidate {
	out := make([]weather.Candidate, len(s.candidates))
	copy(out, s.candidates)
	return out
}

// Searching reports whether the latest request is still outstanding.
func (s *SearchSession) Searching() bool {
	s.loop.mu.Lock()
	defer s.loop.mu.Unlock()
	return s.searching
}

// Err returns the failure of the latest request, if any.
func (s *SearchSession) Err() error {
	s.loop.mu.Lock()
	defer s.loop.mu.Unlock()
	return s.lastErr
}

// Epoch returns the epoch of the most recently issued request.
func (s *SearchSession) Epoch() Epoch {
	s.loop.mu.Lock()
	defer s.loop.mu.Unlock()
	return s.epoch
}
