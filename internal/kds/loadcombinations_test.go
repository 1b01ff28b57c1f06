package kds

import (
	"math"
	"testing"
)

func TestGoverningMoment(t *testing.T) {
	tests := []struct {
		name    string
		moments LoadMoments
		wantMu  float64
		wantID  string
	}{
		{"gravity", LoadMoments{Dead: 50, Live: 30}, 108, "2"},
		{"dead only", LoadMoments{Dead: 100}, 140, "1"},
		{"wind", LoadMoments{Dead: 10, Wind: 100}, 142, "4"},
		{"negative moment", LoadMoments{Dead: -50}, -70, "1"},
		{"tie keeps first", LoadMoments{Earthquake: 10}, 10, "5"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mu, combo := GoverningMoment(tt.moments, StrengthCombinations)
			if math.Abs(mu-tt.wantMu) > 1e-9 {
				t.Errorf("Mu = %v, want %v", mu, tt.wantMu)
			}
			if combo.ID != tt.wantID {
				t.Errorf("governing combination = %s, want %s", combo.ID, tt.wantID)
			}
		})
	}
}

func TestRoofSnowRainGroup(t *testing.T) {
	moments := LoadMoments{Roof: 10, Snow: 20, Rain: 5}

	// 1.6(Lr or S or R) takes the largest of the three
	if got := StrengthCombinations[2].CalculateFactoredMoment(moments); math.Abs(got-32) > 1e-9 {
		t.Errorf("combination 3a = %v, want 32", got)
	}
	// 0.2S alone is not a group
	if got := StrengthCombinations[5].CalculateFactoredMoment(moments); math.Abs(got-4) > 1e-9 {
		t.Errorf("combination 5 = %v, want 4", got)
	}
}

func TestServiceMoment(t *testing.T) {
	got := ServiceMoment(LoadMoments{Dead: 50, Live: 30, Wind: 100})
	if got != 80 {
		t.Errorf("ServiceMoment() = %v, want 80", got)
	}
	if !(LoadMoments{}).IsZero() {
		t.Error("IsZero() = false for empty moments")
	}
}
