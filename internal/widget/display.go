package widget

import (
	"strings"

	"github.com/i474232898/city-weather/internal/common"
	"github.com/i474232898/city-weather/internal/weather"
)

// UnknownDescription is shown when a weather code has no entry in the table.
const UnknownDescription = "unknown"

// DisplayModel is what presentation receives. Absent data is an empty string,
// never an error.
type DisplayModel struct {
	CityName       string            `json:"cityName"`
	State          string            `json:"state"`
	Error          string            `json:"error,omitempty"`
	Date           string            `json:"date"`
	Time           string            `json:"time"`
	Description    string            `json:"description"`
	UnknownWeather bool              `json:"unknownWeather"`
	Condition      weather.Condition `json:"condition,omitempty"`
	Temperature    string            `json:"temperature"`
	WindDirection  string            `json:"windDirection"`
	WindSpeed      string            `json:"windSpeed"`
}

// Projector maps widget state to a DisplayModel.
type Projector struct {
	codes weather.Describer
}

func NewProjector(codes weather.Describer) Projector {
	return Projector{codes: codes}
}

// Project is pure and never fails.
func (p Projector) Project(city weather.City, status Status) DisplayModel {
	m := DisplayModel{
		CityName: city.Name,
		State:    status.State.String(),
	}

	switch status.State {
	case StateFailed:
		m.Error = status.Message
		return m
	case StateReady:
	default:
		return m
	}

	snap := status.Snapshot
	m.Date, m.Time = splitTimestamp(snap.ObservedAt)
	m.Description, m.UnknownWeather = p.describe(snap.WeatherCode)
	if !m.UnknownWeather {
		m.Condition = weather.ConditionFor(snap.WeatherCode)
	}
	m.Temperature = common.FormatNumber(snap.TemperatureC) + "°C"
	m.WindDirection = common.FormatNumber(snap.WindDirectionDeg) + "°"
	m.WindSpeed = common.FormatNumber(snap.WindSpeedKmh) + " km/h"
	return m
}

func (p Projector) describe(code int) (string, bool) {
	if p.codes == nil {
		return UnknownDescription, true
	}
	d, err := p.codes.Describe(code)
	if err != nil {
		return UnknownDescription, true
	}
	return d, false
}

// splitTimestamp splits an ISO-8601 timestamp on the literal "T".
func splitTimestamp(ts string) (date, clock string) {
	date, clock, _ = strings.Cut(ts, "T")
	return date, clock
}
