package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoundWithTwoDecimalPlace(t *testing.T) {
	assert.Equal(t, 19.7, RoundWithTwoDecimalPlace(19.700000000000003))
	assert.Equal(t, 0.0, RoundWithTwoDecimalPlace(0))
	assert.Equal(t, 10.01, RoundWithTwoDecimalPlace(10.006))
}

func TestSafeRatio(t *testing.T) {
	assert.Equal(t, 0.0, SafeRatio(3, 0))
	assert.Equal(t, 0.75, SafeRatio(3, 4))
}

func TestParseDate(t *testing.T) {
	date, err := ParseDate("")
	require.NoError(t, err)
	assert.Nil(t, date)

	date, err = ParseDate("2025-03-10")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC), *date)

	_, err = ParseDate("10/03/2025")
	assert.Error(t, err)
}

func TestParseDateTime(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected time.Time
	}{
		{"RFC3339", "2025-03-10T14:30:00Z", time.Date(2025, 3, 10, 14, 30, 0, 0, time.UTC)},
		{"Data e hora com espaço", "2025-03-10 14:30:00", time.Date(2025, 3, 10, 14, 30, 0, 0, time.UTC)},
		{"Formato brasileiro", "10/03/2025 14:30:00", time.Date(2025, 3, 10, 14, 30, 0, 0, time.UTC)},
		{"Somente data", "2025-03-10", time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			date, err := ParseDateTime(tt.input)
			require.NoError(t, err)
			assert.True(t, tt.expected.Equal(*date))
		})
	}

	_, err := ParseDateTime("ontem")
	assert.Error(t, err)
}
