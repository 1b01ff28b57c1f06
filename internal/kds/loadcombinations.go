package kds

import "math"

// LoadCombination represents a strength design load combination
// Based on KDS 41 10 15 - Load Combinations for Strength Design
type LoadCombination struct {
	ID          string
	Description string
	// Load factors for each load type
	Dead       float64 // D - Dead load
	Live       float64 // L - Live load
	Roof       float64 // Lr - Roof live load
	Snow       float64 // S - Snow load
	Rain       float64 // R - Rain load
	Wind       float64 // W - Wind load
	Earthquake float64 // E - Earthquake load
}

// StrengthCombinations are the basic strength design combinations.
// Where a combination reads "(Lr or S or R)" the factor is applied to
// whichever of the three moments is largest in magnitude.
var StrengthCombinations = []LoadCombination{
	{
		ID:          "1",
		Description: "1.4D",
		Dead:        1.4,
	},
	{
		ID:          "2",
		Description: "1.2D + 1.6L + 0.5(Lr or S or R)",
		Dead:        1.2,
		Live:        1.6,
		Roof:        0.5,
		Snow:        0.5,
		Rain:        0.5,
	},
	{
		ID:          "3a",
		Description: "1.2D + 1.6(Lr or S or R) + 1.0L",
		Dead:        1.2,
		Live:        1.0,
		Roof:        1.6,
		Snow:        1.6,
		Rain:        1.6,
	},
	{
		ID:          "3b",
		Description: "1.2D + 1.6(Lr or S or R) + 0.65W",
		Dead:        1.2,
		Roof:        1.6,
		Snow:        1.6,
		Rain:        1.6,
		Wind:        0.65,
	},
	{
		ID:          "4",
		Description: "1.2D + 1.3W + 1.0L + 0.5(Lr or S or R)",
		Dead:        1.2,
		Live:        1.0,
		Wind:        1.3,
		Roof:        0.5,
		Snow:        0.5,
		Rain:        0.5,
	},
	{
		ID:          "5",
		Description: "1.2D + 1.0E + 1.0L + 0.2S",
		Dead:        1.2,
		Live:        1.0,
		Earthquake:  1.0,
		Snow:        0.2,
	},
	{
		ID:          "6",
		Description: "0.9D + 1.3W",
		Dead:        0.9,
		Wind:        1.3,
	},
	{
		ID:          "7",
		Description: "0.9D + 1.0E",
		Dead:        0.9,
		Earthquake:  1.0,
	},
}

// ServiceCombination gives the unfactored moment used for the
// serviceability (crack control) check.
var ServiceCombination = LoadCombination{
	ID:          "S",
	Description: "1.0D + 1.0L",
	Dead:        1.0,
	Live:        1.0,
}

// LoadMoments holds unfactored moments from different load types
type LoadMoments struct {
	Dead       float64 // Moment due to dead load (kN-m)
	Live       float64 // Moment due to live load (kN-m)
	Roof       float64 // Moment due to roof live load (kN-m)
	Snow       float64 // Moment due to snow load (kN-m)
	Rain       float64 // Moment due to rain load (kN-m)
	Wind       float64 // Moment due to wind load (kN-m)
	Earthquake float64 // Moment due to earthquake load (kN-m)
}

// IsZero reports whether no moment was given.
func (m LoadMoments) IsZero() bool {
	return m == LoadMoments{}
}

// CalculateFactoredMoment calculates the factored moment for a given load combination
func (lc LoadCombination) CalculateFactoredMoment(moments LoadMoments) float64 {
	mu := lc.Dead*moments.Dead +
		lc.Live*moments.Live +
		lc.Wind*moments.Wind +
		lc.Earthquake*moments.Earthquake

	if lc.Roof != 0 && lc.Roof == lc.Snow && lc.Snow == lc.Rain {
		// (Lr or S or R): only the largest of the three acts
		return mu + lc.Roof*largest(moments.Roof, moments.Snow, moments.Rain)
	}
	return mu + lc.Roof*moments.Roof + lc.Snow*moments.Snow + lc.Rain*moments.Rain
}

// GoverningMoment finds the factored moment of largest magnitude over all
// combinations. Ties keep the earlier combination.
func GoverningMoment(moments LoadMoments, combinations []LoadCombination) (float64, LoadCombination) {
	var maxMoment float64
	var governingCombo LoadCombination

	for i, combo := range combinations {
		mu := combo.CalculateFactoredMoment(moments)
		if i == 0 || math.Abs(mu) > math.Abs(maxMoment) {
			maxMoment = mu
			governingCombo = combo
		}
	}

	return maxMoment, governingCombo
}

// ServiceMoment returns the unfactored service moment Ms.
func ServiceMoment(moments LoadMoments) float64 {
	return ServiceCombination.CalculateFactoredMoment(moments)
}

func largest(values ...float64) float64 {
	var m float64
	for _, v := range values {
		if math.Abs(v) > math.Abs(m) {
			m = v
		}
	}
	return m
}
