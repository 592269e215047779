package providers

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/i474232898/city-weather/internal/weather"
)

// DefaultGeocodingEndpoint is the Open-Meteo place name search API.
const DefaultGeocodingEndpoint = "https://geocoding-api.open-meteo.com/v1/search"

// GeocodingOptions tunes the Open-Meteo search.
type GeocodingOptions struct {
	BaseURL  string
	Count    int
	Language string
}

// OpenMeteoGeocoder implements weather.Geocoder against Open-Meteo geocoding.
type OpenMeteoGeocoder struct {
	name     string
	baseURL  string
	count    int
	language string
	client   *http.Client
}

func NewOpenMeteoGeocoder(client *http.Client, opts GeocodingOptions) *OpenMeteoGeocoder {
	g := &OpenMeteoGeocoder{
		name:     "openmeteo-geocoding",
		baseURL:  opts.BaseURL,
		count:    opts.Count,
		language: opts.Language,
		client:   client,
	}
	if g.baseURL == "" {
		g.baseURL = DefaultGeocodingEndpoint
	}
	if g.count <= 0 {
		g.count = 10
	}
	if g.language == "" {
		g.language = "en"
	}
	return g
}

func (g *OpenMeteoGeocoder) Name() string {
	return g.name
}

// Search returns candidates in the order the API ranks them.
func (g *OpenMeteoGeocoder) Search(ctx context.Context, query string) ([]weather.Candidate, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, weather.ErrInvalidQuery
	}

	buildRequest := func(ctx context.Context) (*http.Request, error) {
		return getRequest(ctx, g.baseURL, map[string]string{
			"name":     query,
			"count":    strconv.Itoa(g.count),
			"language": g.language,
			"format":   "json",
		})
	}

	resp, err := doRequest(ctx, g.client, buildRequest)
	if err != nil {
		return nil, err
	}

	// "results" is omitted entirely when nothing matches.
	var payload struct {
		Results []struct {
			Name      string   `json:"name"`
			Country   string   `json:"country"`
			Admin1    string   `json:"admin1"`
			Latitude  *float64 `json:"latitude"`
			Longitude *float64 `json:"longitude"`
		} `json:"results"`
	}

	if err := decodeJSON(resp, &payload); err != nil {
		return nil, err
	}

	candidates := make([]weather.Candidate, 0, len(payload.Results))
	for i, r := range payload.Results {
		if r.Name == "" || r.Latitude == nil || r.Longitude == nil {
			return nil, fmt.Errorf("%w: result %d lacks name or coordinates", weather.ErrDecode, i)
		}
		at := weather.Coordinates{Latitude: *r.Latitude, Longitude: *r.Longitude}
		if err := at.Validate(); err != nil {
			return nil, fmt.Errorf("%w: result %d: %v", weather.ErrDecode, i, err)
		}
		candidates = append(candidates, weather.Candidate{
			Name:      r.Name,
			Country:   r.Country,
			Region:    r.Admin1,
			Latitude:  at.Latitude,
			Longitude: at.Longitude,
		})
	}

	return candidates, nil
}
