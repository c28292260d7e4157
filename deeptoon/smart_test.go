package deeptoon

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSmartEncode_PrefersCompactForTabularData(t *testing.T) {
	got, err := SmartEncode(usersValue(), DefaultSmartThreshold, nil)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(got, "items[3]{"), "expected compact form, got:\n%s", got)
}

func TestSmartEncode_PrefersBaselineForSmallData(t *testing.T) {
	// A short scalar list costs more line-based than inline JSON.
	v := Array(Int(1), Int(2), Int(3))
	got, err := SmartEncode(v, DefaultSmartThreshold, nil)
	require.NoError(t, err)
	assert.Equal(t, `[1,2,3]`, got)
}

// Savings exactly at the threshold select the compact form: the comparison
// is inclusive.
func TestSmartEncode_ThresholdBoundary(t *testing.T) {
	v := usersValue()

	// Fix costs so savings are exactly 0.1: baseline 100, compact 90.
	cost := func(s string) int {
		if strings.HasPrefix(s, "{") {
			return 100
		}
		return 90
	}

	got, err := SmartEncode(v, 0.1, cost)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(got, "items[3]{"), "expected compact form at exact threshold")

	// One hair past the threshold flips to baseline.
	got, err = SmartEncode(v, 0.1000001, cost)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(got, "{"), "expected baseline above threshold")
}

func TestSmartEncode_ZeroCostBaselinePrefersBaseline(t *testing.T) {
	// Zero-cost baseline defines the ratio as 0 and keeps the baseline.
	zero := func(string) int { return 0 }
	got, err := SmartEncode(usersValue(), 0, zero)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(got, "{"))
}

func TestSmartEncodeWithOptions_CustomDelimiter(t *testing.T) {
	got, err := SmartEncodeWithOptions(usersValue(), 0, nil, EncodeOptions{Delimiter: '|'})
	require.NoError(t, err)
	assert.Contains(t, got, "items[3]{id|name|age|active}:")
	assert.Contains(t, got, "  1|Alice|25|true")
}

func TestSmartEncode_CostFunctionReceivesBothTexts(t *testing.T) {
	var seen []string
	cost := func(s string) int {
		seen = append(seen, s)
		return len(s)
	}
	_, err := SmartEncode(usersValue(), 0.5, cost)
	require.NoError(t, err)
	require.Len(t, seen, 2)
	assert.True(t, strings.HasPrefix(seen[0], "{"))
	assert.True(t, strings.HasPrefix(seen[1], "items[3]{"))
}
