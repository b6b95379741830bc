// Package shipping quotes delivery cost and ETA for an order. The order
// processor treats the quote as an input; it never computes shipping itself.
package shipping

import (
	"math"
	"math/rand"
)

// Item is one shippable line: per-unit weight and volume times quantity.
type Item struct {
	WeightKg float64
	VolumeM3 float64
	Quantity int
}

type Quote struct {
	Cost          float64 `json:"cost"`
	EstimatedDays int     `json:"estimated_days"`
	TotalWeightKg float64 `json:"total_weight_kg"`
	TotalVolumeM3 float64 `json:"total_volume_m3"`
}

// Calculator produces a shipping quote for a set of items going to a postal code.
type Calculator interface {
	Quote(items []Item, postalCode string) Quote
}

// WeightBasedCalculator charges the maximum of a flat base rate, a per-kg rate
// and a volumetric rate, mirroring the carrier's pricing table.
type WeightBasedCalculator struct {
	BaseRate  float64
	PerKg     float64
	PerCubicM float64
}

func NewWeightBasedCalculator(baseRate, perKg, perCubicM float64) *WeightBasedCalculator {
	return &WeightBasedCalculator{BaseRate: baseRate, PerKg: perKg, PerCubicM: perCubicM}
}

func (c *WeightBasedCalculator) Quote(items []Item, postalCode string) Quote {
	var weight, volume float64
	for _, it := range items {
		weight += it.WeightKg * float64(it.Quantity)
		volume += it.VolumeM3 * float64(it.Quantity)
	}
	cost := math.Max(c.BaseRate, math.Max(weight*c.PerKg, volume*c.PerCubicM))
	return Quote{
		Cost:          math.Round(cost*100) / 100,
		EstimatedDays: estimatedDays(postalCode),
		TotalWeightKg: math.Round(weight*1000) / 1000,
		TotalVolumeM3: volume,
	}
}

// estimatedDays simulates carrier ETAs by postal region: the southeast is
// fastest, the south close behind, everywhere else slower.
func estimatedDays(postalCode string) int {
	if postalCode == "" {
		return 7
	}
	switch postalCode[0] {
	case '0', '1', '2', '3':
		return rand.Intn(3) + 2 // 2-4 days
	case '4', '8', '9':
		return rand.Intn(4) + 3 // 3-6 days
	default:
		return rand.Intn(7) + 5 // 5-11 days
	}
}
