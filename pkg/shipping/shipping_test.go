package shipping

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func newCalc() *WeightBasedCalculator {
	return NewWeightBasedCalculator(15.00, 2.50, 100.00)
}

func TestQuoteBaseRateFloor(t *testing.T) {
	q := newCalc().Quote([]Item{{WeightKg: 0.2, Quantity: 1}}, "01001000")
	require.Equal(t, 15.00, q.Cost)
	require.Equal(t, 0.2, q.TotalWeightKg)
}

func TestQuoteWeightDominates(t *testing.T) {
	// 10kg * 2.50 = 25.00 beats the 15.00 base rate
	q := newCalc().Quote([]Item{{WeightKg: 2.5, Quantity: 4}}, "01001000")
	require.Equal(t, 25.00, q.Cost)
	require.Equal(t, 10.0, q.TotalWeightKg)
}

func TestQuoteVolumeDominates(t *testing.T) {
	// bulky but light: 0.5 m3 * 100 = 50.00
	q := newCalc().Quote([]Item{{WeightKg: 1, VolumeM3: 0.25, Quantity: 2}}, "01001000")
	require.Equal(t, 50.00, q.Cost)
	require.Equal(t, 0.5, q.TotalVolumeM3)
}

func TestQuoteSumsQuantities(t *testing.T) {
	q := newCalc().Quote([]Item{
		{WeightKg: 1.5, Quantity: 2},
		{WeightKg: 0.5, Quantity: 3},
	}, "01001000")
	require.Equal(t, 4.5, q.TotalWeightKg)
}

func TestEstimatedDaysByRegion(t *testing.T) {
	cases := []struct {
		postal   string
		min, max int
	}{
		{"01001000", 2, 4},
		{"30100000", 2, 4},
		{"40010000", 3, 6},
		{"80010000", 3, 6},
		{"90010000", 3, 6},
		{"60010000", 5, 11},
		{"", 7, 7},
	}
	calc := newCalc()
	for _, tc := range cases {
		for i := 0; i < 20; i++ {
			q := calc.Quote([]Item{{WeightKg: 1, Quantity: 1}}, tc.postal)
			require.GreaterOrEqual(t, q.EstimatedDays, tc.min, "postal %q", tc.postal)
			require.LessOrEqual(t, q.EstimatedDays, tc.max, "postal %q", tc.postal)
		}
	}
}
