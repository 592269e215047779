package providers

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/i474232898/city-weather/internal/weather"
)

// DefaultWeatherEndpoint is the Open-Meteo forecast API.
const DefaultWeatherEndpoint = "https://api.open-meteo.com/v1/forecast"

// OpenMeteoProvider implements weather.Fetcher for Open-Meteo's current_weather mode.
type OpenMeteoProvider struct {
	name    string
	baseURL string
	client  *http.Client
}

// NewOpenMeteoProvider returns a provider for baseURL, or the public endpoint when empty.
func NewOpenMeteoProvider(client *http.Client, baseURL string) *OpenMeteoProvider {
	if baseURL == "" {
		baseURL = DefaultWeatherEndpoint
	}
	return &OpenMeteoProvider{
		name:    "openmeteo",
		baseURL: baseURL,
		client:  client,
	}
}

func (p *OpenMeteoProvider) Name() string {
	return p.name
}

func (p *OpenMeteoProvider) FetchCurrent(ctx context.Context, at weather.Coordinates) (weather.Snapshot, error) {
	if err := at.Validate(); err != nil {
		return weather.Snapshot{}, err
	}

	buildRequest := func(ctx context.Context) (*http.Request, error) {
		return getRequest(ctx, p.baseURL, map[string]string{
			"latitude":        strconv.FormatFloat(at.Latitude, 'f', -1, 64),
			"longitude":       strconv.FormatFloat(at.Longitude, 'f', -1, 64),
			"current_weather": "true",
		})
	}

	resp, err := doRequest(ctx, p.client, buildRequest)
	if err != nil {
		return weather.Snapshot{}, err
	}

	var payload struct {
		CurrentWeather *struct {
			Temperature   *float64 `json:"temperature"`
			WindSpeed     *float64 `json:"windspeed"`
			WindDirection *float64 `json:"winddirection"`
			WeatherCode   *int     `json:"weathercode"`
			Time          string   `json:"time"`
		} `json:"current_weather"`
	}

	if err := decodeJSON(resp, &payload); err != nil {
		return weather.Snapshot{}, err
	}

	cw := payload.CurrentWeather
	if cw == nil {
		return weather.Snapshot{}, fmt.Errorf("%w: missing current_weather", weather.ErrDecode)
	}
	if cw.Temperature == nil || cw.WindSpeed == nil || cw.WindDirection == nil || cw.WeatherCode == nil || cw.Time == "" {
		return weather.Snapshot{}, fmt.Errorf("%w: incomplete current_weather", weather.ErrDecode)
	}

	return weather.Snapshot{
		TemperatureC:     *cw.Temperature,
		ObservedAt:       cw.Time,
		WeatherCode:      *cw.WeatherCode,
		WindDirectionDeg: *cw.WindDirection,
		WindSpeedKmh:     *cw.WindSpeed,
	}, nil
}
