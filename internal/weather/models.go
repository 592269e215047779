package weather

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// Coordinates is a point on the globe in decimal degrees.
type Coordinates struct {
	Latitude  float64 `json:"latitude" validate:"gte=-90,lte=90"`
	Longitude float64 `json:"longitude" validate:"gte=-180,lte=180"`
}

// Validate reports ErrInvalidCoordinates when the point is outside the valid range.
func (c Coordinates) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidCoordinates, err)
	}
	return nil
}

// City is the place the widget shows weather for. Values are never mutated;
// a new selection replaces the whole value.
type City struct {
	Name      string  `json:"name"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// NewCity builds a City, rejecting out-of-range coordinates.
func NewCity(name string, lat, lon float64) (City, error) {
	c := City{Name: name, Latitude: lat, Longitude: lon}
	if err := c.Coordinates().Validate(); err != nil {
		return City{}, err
	}
	return c, nil
}

func (c City) Coordinates() Coordinates {
	return Coordinates{Latitude: c.Latitude, Longitude: c.Longitude}
}

// SamePlace compares two cities by coordinates only.
func (c City) SamePlace(other City) bool {
	return c.Latitude == other.Latitude && c.Longitude == other.Longitude
}

// Candidate is one geocoding match for a query. The same name can repeat with
// different countries and coordinates.
type Candidate struct {
	Name      string  `json:"name"`
	Country   string  `json:"country"`
	Region    string  `json:"region,omitempty"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// City converts the candidate into a validated City.
func (c Candidate) City() (City, error) {
	return NewCity(c.Name, c.Latitude, c.Longitude)
}

// Snapshot is a single point-in-time reading. It is always replaced as a whole.
type Snapshot struct {
	TemperatureC     float64 `json:"temperatureC"`
	ObservedAt       string  `json:"observedAt"`
	WeatherCode      int     `json:"weatherCode"`
	WindDirectionDeg float64 `json:"windDirectionDeg"`
	WindSpeedKmh     float64 `json:"windSpeedKmh"`
}
