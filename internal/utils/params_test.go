package utils

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPeriodFromRequest(t *testing.T) {
	tests := []struct {
		name          string
		target        string
		expectedYear  int
		expectedMonth int
		expectErrors  []string
	}{
		{
			name:          "valid period",
			target:        "/api/dashboard/kpis?year=2024&month=10",
			expectedYear:  2024,
			expectedMonth: 10,
		},
		{
			name:         "missing year",
			target:       "/api/dashboard/kpis?month=10",
			expectErrors: []string{"year"},
		},
		{
			name:         "missing both",
			target:       "/api/dashboard/kpis",
			expectErrors: []string{"year", "month"},
		},
		{
			name:         "non-numeric month",
			target:       "/api/dashboard/kpis?year=2024&month=October",
			expectErrors: []string{"month"},
		},
		{
			name:         "month out of range",
			target:       "/api/dashboard/kpis?year=2024&month=13",
			expectErrors: []string{"month"},
		},
		{
			name:         "month zero",
			target:       "/api/dashboard/kpis?year=2024&month=0",
			expectErrors: []string{"month"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest("GET", tt.target, nil)
			year, month, fieldErrors := PeriodFromRequest(r)

			if len(tt.expectErrors) == 0 {
				require.Nil(t, fieldErrors)
				assert.Equal(t, tt.expectedYear, year)
				assert.Equal(t, tt.expectedMonth, month)
				return
			}

			require.NotNil(t, fieldErrors)
			for _, field := range tt.expectErrors {
				assert.Contains(t, fieldErrors, field)
			}
		})
	}
}

func TestTrainTypesFromRequest(t *testing.T) {
	defaults := []string{"ICE", "IC", "RE"}

	tests := []struct {
		name     string
		target   string
		expected []string
	}{
		{
			name:     "absent parameter uses defaults",
			target:   "/x",
			expected: defaults,
		},
		{
			name:     "explicit selection",
			target:   "/x?types=RE,RB",
			expected: []string{"RE", "RB"},
		},
		{
			name:     "whitespace and empties are dropped",
			target:   "/x?types=%20ICE%20,,RE%20",
			expected: []string{"ICE", "RE"},
		},
		{
			name:     "duplicates are removed",
			target:   "/x?types=RE,RE,ICE",
			expected: []string{"RE", "ICE"},
		},
		{
			name:     "present but empty yields empty list",
			target:   "/x?types=",
			expected: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest("GET", tt.target, nil)
			assert.Equal(t, tt.expected, TrainTypesFromRequest(r, defaults))
		})
	}
}

func TestLimitFromRequest(t *testing.T) {
	assert.Equal(t, 100, LimitFromRequest(httptest.NewRequest("GET", "/x", nil), 100))
	assert.Equal(t, 25, LimitFromRequest(httptest.NewRequest("GET", "/x?limit=25", nil), 100))
	assert.Equal(t, 100, LimitFromRequest(httptest.NewRequest("GET", "/x?limit=lots", nil), 100))
}
