package providers

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/kelvins/geocoder"

	"github.com/i474232898/city-weather/internal/common"
	"github.com/i474232898/city-weather/internal/weather"
)

// GoogleGeocoder resolves a query through the Google Geocoding API.
// Google answers with a single best match, so at most one candidate is returned.
// Country and region come from a reverse lookup of the matched point.
type GoogleGeocoder struct {
	name string
	// geocode and reverse are swapped in tests.
	geocode func(geocoder.Address) (geocoder.Location, error)
	reverse func(geocoder.Location) ([]geocoder.Address, error)
}

// NewGoogleGeocoder configures the package-level API key of kelvins/geocoder.
func NewGoogleGeocoder(apiKey string) *GoogleGeocoder {
	geocoder.ApiKey = apiKey
	return &GoogleGeocoder{
		name:    "google-geocoding",
		geocode: geocoder.Geocoding,
		reverse: geocoder.GeocodingReverse,
	}
}

func (g *GoogleGeocoder) Name() string {
	return g.name
}

func (g *GoogleGeocoder) Search(ctx context.Context, query string) ([]weather.Candidate, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, weather.ErrInvalidQuery
	}

	type result struct {
		loc   geocoder.Location
		place geocoder.Address
		err   error
	}
	// The library takes no context; the call is abandoned, not aborted, on cancel.
	done := make(chan result, 1)
	go func() {
		loc, err := g.geocode(geocoder.Address{City: query})
		if err != nil {
			done <- result{err: err}
			return
		}
		place, err := g.placeOf(loc)
		done <- result{loc: loc, place: place, err: err}
	}()

	var r result
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%w: %w", weather.ErrNetwork, ctx.Err())
	case r = <-done:
	}

	if r.err != nil {
		msg := r.err.Error()
		switch {
		case common.HasAny(msg, "ZERO_RESULTS"):
			return []weather.Candidate{}, nil
		case common.HasAny(msg, "REQUEST_DENIED", "OVER_QUERY_LIMIT", "INVALID_REQUEST", "UNKNOWN_ERROR"):
			return nil, fmt.Errorf("%w: %s", weather.ErrResponse, msg)
		case errors.Is(r.err, weather.ErrDecode):
			return nil, r.err
		default:
			return nil, fmt.Errorf("%w: %v", weather.ErrNetwork, r.err)
		}
	}

	at := weather.Coordinates{Latitude: r.loc.Latitude, Longitude: r.loc.Longitude}
	if err := at.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", weather.ErrDecode, err)
	}

	name := r.place.City
	if name == "" {
		name = query
	}
	return []weather.Candidate{{
		Name:      name,
		Country:   r.place.Country,
		Region:    r.place.State,
		Latitude:  at.Latitude,
		Longitude: at.Longitude,
	}}, nil
}

// placeOf returns the first reverse-geocoded address that names a country.
func (g *GoogleGeocoder) placeOf(loc geocoder.Location) (geocoder.Address, error) {
	addresses, err := g.reverse(loc)
	if err != nil {
		return geocoder.Address{}, err
	}
	for _, a := range addresses {
		if a.Country != "" {
			return a, nil
		}
	}
	return geocoder.Address{}, fmt.Errorf("%w: no country for %v,%v", weather.ErrDecode, loc.Latitude, loc.Longitude)
}
