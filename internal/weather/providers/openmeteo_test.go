package providers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/i474232898/city-weather/internal/weather"
)

const currentWeatherBody = `{
	"latitude": 52.23,
	"longitude": 21.01,
	"current_weather": {
		"temperature": 5.4,
		"windspeed": 10.2,
		"winddirection": 90,
		"weathercode": 1,
		"time": "2024-01-01T12:00"
	}
}`

func TestFetchCurrentSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "52.2297", q.Get("latitude"))
		assert.Equal(t, "21.0122", q.Get("longitude"))
		assert.Equal(t, "true", q.Get("current_weather"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(currentWeatherBody))
	}))
	defer srv.Close()

	p := NewOpenMeteoProvider(srv.Client(), srv.URL)
	snap, err := p.FetchCurrent(context.Background(), weather.Coordinates{Latitude: 52.2297, Longitude: 21.0122})
	require.NoError(t, err)

	assert.Equal(t, weather.Snapshot{
		TemperatureC:     5.4,
		ObservedAt:       "2024-01-01T12:00",
		WeatherCode:      1,
		WindDirectionDeg: 90,
		WindSpeedKmh:     10.2,
	}, snap)
}

func TestFetchCurrentRejectsOutOfRange(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
	}))
	defer srv.Close()

	p := NewOpenMeteoProvider(srv.Client(), srv.URL)
	_, err := p.FetchCurrent(context.Background(), weather.Coordinates{Latitude: 91})
	require.Error(t, err)
	assert.True(t, errors.Is(err, weather.ErrInvalidCoordinates))
	assert.Zero(t, atomic.LoadInt32(&calls))
}

func TestFetchCurrentResponseError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":true,"reason":"Latitude must be in range of -90 to 90°."}`))
	}))
	defer srv.Close()

	_, err := NewOpenMeteoProvider(srv.Client(), srv.URL).FetchCurrent(context.Background(), weather.Coordinates{})
	require.Error(t, err)

	var re *weather.ResponseError
	require.True(t, errors.As(err, &re))
	assert.Equal(t, http.StatusBadRequest, re.StatusCode)
	assert.Contains(t, re.Body, "Latitude must be in range")
	assert.True(t, errors.Is(err, weather.ErrResponse))
}

func TestFetchCurrentDecodeErrors(t *testing.T) {
	bodies := map[string]string{
		"not json":           `<html>oops</html>`,
		"no current_weather": `{"latitude": 1, "longitude": 2}`,
		"missing fields":     `{"current_weather": {"temperature": 1}}`,
	}
	for name, body := range bodies {
		t.Run(name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(body))
			}))
			defer srv.Close()

			_, err := NewOpenMeteoProvider(srv.Client(), srv.URL).FetchCurrent(context.Background(), weather.Coordinates{})
			require.Error(t, err)
			assert.True(t, errors.Is(err, weather.ErrDecode), "got %v", err)
		})
	}
}

func TestFetchCurrentNetworkError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	_, err := NewOpenMeteoProvider(&http.Client{Timeout: time.Second}, url).FetchCurrent(context.Background(), weather.Coordinates{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, weather.ErrNetwork), "got %v", err)
}

func TestFetchCurrentContextCancelled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(500 * time.Millisecond)
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewOpenMeteoProvider(srv.Client(), srv.URL).FetchCurrent(ctx, weather.Coordinates{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, weather.ErrNetwork))
}
