package utils

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatFloat(t *testing.T) {
	assert.Equal(t, "0.123", FormatFloat(0.12345, 3))
	assert.Equal(t, Undefined, FormatFloat(math.NaN(), 2))
	assert.Equal(t, "+0.50", FormatSigned(0.5, 2))
	assert.Equal(t, "-0.50", FormatSigned(-0.5, 2))
}

func TestFormatPercent(t *testing.T) {
	assert.Equal(t, "+5.00%", FormatPercent(0.05))
	assert.Equal(t, "-1.25%", FormatPercent(-0.0125))
	assert.Equal(t, "0.00%", FormatPercent(0))
	assert.Equal(t, Undefined, FormatPercent(math.NaN()))
}

func TestFormatVolume(t *testing.T) {
	assert.Equal(t, "1,234,567", FormatVolume(1234567))
	assert.Equal(t, "12", FormatCount(12))
	assert.Equal(t, "1,234.50", FormatPrice(1234.5))
}

func TestFormatCompact(t *testing.T) {
	assert.Equal(t, "1.5M", FormatCompact(1500000))
	assert.Equal(t, Undefined, FormatCompact(math.NaN()))
}

func TestFormatPValue(t *testing.T) {
	assert.Equal(t, "0.1041", FormatPValue(0.10408))
	assert.Equal(t, "1.00e-06", FormatPValue(0.000001))
	assert.Equal(t, "0.0000", FormatPValue(0))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", Truncate("short", 10))
	assert.Equal(t, "abcde...", Truncate("abcdefghijkl", 8))
	assert.Equal(t, "ab", Truncate("abcdef", 2))
}
