package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/i474232898/city-weather/internal/weather"
	"github.com/i474232898/city-weather/internal/weather/providers"
)

var validate = validator.New()

type AppConfig struct {
	Port string `validate:"required,numeric"`

	// Endpoint overrides; the public Open-Meteo APIs by default.
	GeocodingEndpoint string `validate:"required,url"`
	WeatherEndpoint   string `validate:"required,url"`

	GeocodingResultCount int    `validate:"gte=1,lte=100"`
	GeocodingLanguage    string `validate:"required"`

	// GeocoderAPIKey switches geocoding to Google when set.
	GeocoderAPIKey string

	HTTPTimeout    time.Duration `validate:"gt=0"`
	RequestTimeout time.Duration `validate:"gte=0"` // 0 disables the timeout decorator
	BreakerEnabled bool

	WeatherCodesFile string

	DefaultCity weather.City

	SessionIdleTTL       time.Duration `validate:"gt=0"`
	SessionSweepInterval time.Duration `validate:"gt=0"`

	LogLevel string `validate:"oneof=debug info warn error"`
}

// Load reads configuration from environment with sensible defaults.
func Load() (*AppConfig, error) {
	cfg := &AppConfig{}
	var err error

	cfg.Port = getenvDefault("PORT", "8080")
	cfg.GeocodingEndpoint = getenvDefault("GEOCODING_ENDPOINT", providers.DefaultGeocodingEndpoint)
	cfg.WeatherEndpoint = getenvDefault("WEATHER_ENDPOINT", providers.DefaultWeatherEndpoint)
	cfg.GeocodingResultCount = getenvInt("GEOCODING_RESULT_COUNT", 10)
	cfg.GeocodingLanguage = getenvDefault("GEOCODING_LANGUAGE", "en")
	cfg.GeocoderAPIKey = os.Getenv("GEOCODER_API_KEY")
	cfg.WeatherCodesFile = os.Getenv("WEATHER_CODES_FILE")
	cfg.LogLevel = strings.ToLower(getenvDefault("LOG_LEVEL", "info"))

	if cfg.HTTPTimeout, err = getenvDuration("HTTP_TIMEOUT", "10s"); err != nil {
		return nil, err
	}
	if cfg.RequestTimeout, err = getenvDuration("REQUEST_TIMEOUT", "0s"); err != nil {
		return nil, err
	}
	if cfg.SessionIdleTTL, err = getenvDuration("SESSION_IDLE_TTL", "30m"); err != nil {
		return nil, err
	}
	if cfg.SessionSweepInterval, err = getenvDuration("SESSION_SWEEP_INTERVAL", "5m"); err != nil {
		return nil, err
	}

	cfg.BreakerEnabled, err = strconv.ParseBool(getenvDefault("BREAKER_ENABLED", "true"))
	if err != nil {
		return nil, fmt.Errorf("invalid BREAKER_ENABLED: %w", err)
	}

	city, err := loadDefaultCity()
	if err != nil {
		return nil, err
	}
	cfg.DefaultCity = city

	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// loadDefaultCity reads the city shown before the user picks one.
func loadDefaultCity() (weather.City, error) {
	name := getenvDefault("DEFAULT_CITY_NAME", "Warszawa")

	lat, err := strconv.ParseFloat(getenvDefault("DEFAULT_CITY_LAT", "52.2297"), 64)
	if err != nil {
		return weather.City{}, fmt.Errorf("invalid DEFAULT_CITY_LAT: %w", err)
	}
	lon, err := strconv.ParseFloat(getenvDefault("DEFAULT_CITY_LON", "21.0122"), 64)
	if err != nil {
		return weather.City{}, fmt.Errorf("invalid DEFAULT_CITY_LON: %w", err)
	}

	city, err := weather.NewCity(name, lat, lon)
	if err != nil {
		return weather.City{}, fmt.Errorf("invalid default city: %w", err)
	}
	return city, nil
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		n, err := strconv.Atoi(v)
		if err == nil {
			return n
		}
	}
	return def
}

func getenvDuration(key, def string) (time.Duration, error) {
	d, err := time.ParseDuration(getenvDefault(key, def))
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}
