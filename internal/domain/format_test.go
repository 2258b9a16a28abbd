package domain

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatNumber(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{1234.5, "1,234.50"},
		{0, "0"},
		{1234.567, "1,234.57"},
		{1, "1.00"},
		{7, "7.00"},
		{1000, "1,000.00"},
		{10000, "10,000.00"},
		{1234567.891, "1,234,567.89"},
		{-2500.25, "-2,500.25"},
		{0.001, "0"},
		{math.NaN(), "NaN"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatNumber(tt.in), "FormatNumber(%v)", tt.in)
	}
}

func TestFormatFixed(t *testing.T) {
	assert.Equal(t, "123.46", FormatFixed(123.456))
	assert.Equal(t, "0.00", FormatFixed(0))
	assert.Equal(t, "36000.00", FormatFixed(36000))
}

func TestImageStyle(t *testing.T) {
	assert.Equal(t, "scale: 0.2 0.2", string(ImageStyle(100)))
	assert.Equal(t, "scale: 1 1", string(ImageStyle(500)))
	assert.Equal(t, "scale: 1 1", string(ImageStyle(math.NaN())))
}
