package weather

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultCodeTable(t *testing.T) {
	table := DefaultCodeTable()

	d, err := table.Describe(1)
	require.NoError(t, err)
	assert.Equal(t, "Mainly clear", d)
	assert.Equal(t, 28, table.Len())
}

func TestDescribeMiss(t *testing.T) {
	table := DefaultCodeTable()

	_, err := table.Describe(42)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrLookupMiss))
}

func TestLoadCodeTableRejectsDuplicates(t *testing.T) {
	src := `
- code: 1
  description: One
- code: 1
  description: Uno
`
	_, err := LoadCodeTable(strings.NewReader(src))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate weather code 1")
}

func TestLoadCodeTableRejectsEmptyDescription(t *testing.T) {
	_, err := LoadCodeTable(strings.NewReader("- code: 3\n  description: \"\"\n"))
	require.Error(t, err)
}

func TestLoadCodeTableFileEmptyPathUsesEmbedded(t *testing.T) {
	table, err := LoadCodeTableFile("")
	require.NoError(t, err)
	assert.Equal(t, DefaultCodeTable().Len(), table.Len())
}

func TestConditionFor(t *testing.T) {
	cases := map[int]Condition{
		0:  ConditionClear,
		2:  ConditionCloudy,
		45: ConditionMist,
		63: ConditionRain,
		81: ConditionRain,
		75: ConditionSnow,
		86: ConditionSnow,
		96: ConditionStorm,
		42: ConditionUnknown,
	}
	for code, want := range cases {
		assert.Equal(t, want, ConditionFor(code), "code %d", code)
	}
}
