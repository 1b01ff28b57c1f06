package kds

import "math"

// BarSizes lists the deformed bar diameters (mm) offered for
// flexural bars and stirrups.
var BarSizes = []int{10, 13, 16, 19, 22, 25, 29, 32, 35}

// IsBarSize reports whether d is one of BarSizes.
func IsBarSize(d int) bool {
	for _, s := range BarSizes {
		if s == d {
			return true
		}
	}
	return false
}

// BarArea returns the nominal area (mm²) of a bar of diameter d (mm), π·d²/4.
func BarArea(d int) float64 {
	dia := float64(d)
	return math.Pi * dia * dia / 4
}
