package weather

import (
	_ "embed"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed codes.yaml
var defaultCodes string

// Condition represents a normalized high-level weather condition.
type Condition string

const (
	ConditionUnknown Condition = "unknown"
	ConditionClear   Condition = "clear"
	ConditionCloudy  Condition = "cloudy"
	ConditionRain    Condition = "rain"
	ConditionSnow    Condition = "snow"
	ConditionStorm   Condition = "storm"
	ConditionMist    Condition = "mist"
)

// ConditionFor buckets a WMO code into a Condition.
func ConditionFor(code int) Condition {
	switch {
	case code == 0:
		return ConditionClear
	case code >= 1 && code <= 3:
		return ConditionCloudy
	case code == 45 || code == 48:
		return ConditionMist
	case (code >= 51 && code <= 67) || (code >= 80 && code <= 82):
		return ConditionRain
	case (code >= 71 && code <= 77) || code == 85 || code == 86:
		return ConditionSnow
	case code >= 95 && code <= 99:
		return ConditionStorm
	default:
		return ConditionUnknown
	}
}

type codeEntry struct {
	Code        int    `yaml:"code"`
	Description string `yaml:"description"`
}

// CodeTable is the read-only mapping from weather code to description.
// It is loaded once and never modified afterwards.
type CodeTable struct {
	entries map[int]string
}

// LoadCodeTable parses a YAML list of {code, description} entries.
// Codes must be unique.
func LoadCodeTable(r io.Reader) (*CodeTable, error) {
	var raw []codeEntry
	if err := yaml.NewDecoder(r).Decode(&raw); err != nil {
		return nil, fmt.Errorf("decode weather codes: %w", err)
	}

	t := &CodeTable{entries: make(map[int]string, len(raw))}
	for _, e := range raw {
		if _, dup := t.entries[e.Code]; dup {
			return nil, fmt.Errorf("duplicate weather code %d", e.Code)
		}
		if strings.TrimSpace(e.Description) == "" {
			return nil, fmt.Errorf("weather code %d has no description", e.Code)
		}
		t.entries[e.Code] = e.Description
	}
	return t, nil
}

// DefaultCodeTable returns the embedded WMO table.
func DefaultCodeTable() *CodeTable {
	t, err := LoadCodeTable(strings.NewReader(defaultCodes))
	if err != nil {
		panic(fmt.Sprintf("embedded weather codes: %v", err))
	}
	return t
}

// LoadCodeTableFile loads the table at path, or the embedded one when path is empty.
func LoadCodeTableFile(path string) (*CodeTable, error) {
	if path == "" {
		return DefaultCodeTable(), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return LoadCodeTable(f)
}

// Describe returns the description for code or ErrLookupMiss.
func (t *CodeTable) Describe(code int) (string, error) {
	d, ok := t.entries[code]
	if !ok {
		return "", fmt.Errorf("%w: %d", ErrLookupMiss, code)
	}
	return d, nil
}

// Len returns the number of known codes.
func (t *CodeTable) Len() int {
	return len(t.entries)
}
