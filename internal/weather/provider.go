package weather

import (
	"context"
)

// Geocoder turns free text into a ranked list of place candidates.
// Implementations issue exactly one outbound request per call and never retry.
type Geocoder interface {
	Name() string
	Search(ctx context.Context, query string) ([]Candidate, error)
}

// Fetcher returns the current conditions at a point.
// Implementations issue exactly one outbound request per call and never retry.
type Fetcher interface {
	Name() string
	FetchCurrent(ctx context.Context, at Coordinates) (Snapshot, error)
}

// Describer maps a weather code to a human readable description.
type Describer interface {
	Describe(code int) (string, error)
}
