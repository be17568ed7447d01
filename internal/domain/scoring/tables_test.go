package scoring

import "testing"

func TestClamp(t *testing.T) {
	cases := []struct{ in, want float64 }{
		{-5, 0},
		{0, 0},
		{42, 42},
		{100, 100},
		{130, 100},
	}
	for _, tc := range cases {
		if got := Clamp(tc.in); got != tc.want {
			t.Fatalf("Clamp(%f) = %f, want %f", tc.in, got, tc.want)
		}
	}
}

func TestClampSigned(t *testing.T) {
	cases := []struct{ in, want float64 }{
		{-2, -1},
		{-0.5, -0.5},
		{0, 0},
		{1.5, 1},
	}
	for _, tc := range cases {
		if got := ClampSigned(tc.in); got != tc.want {
			t.Fatalf("ClampSigned(%f) = %f, want %f", tc.in, got, tc.want)
		}
	}
}

func TestMapAnalystRating(t *testing.T) {
	cases := []struct{ share, want float64 }{
		{0.80, 1.0},
		{0.75, 1.0},
		{0.60, 0.5},
		{0.30, 0.0},
		{0.15, -0.5},
		{0.05, -1.0},
	}
	for _, tc := range cases {
		if got := MapAnalystRating(tc.share); got != tc.want {
			t.Fatalf("MapAnalystRating(%f) = %f, want %f", tc.share, got, tc.want)
		}
	}
}

func TestNormalizeVIX(t *testing.T) {
	cases := []struct{ vix, want float64 }{
		{10, 100},
		{30, 50},
		{50, 0},
		{80, 0},
		{5, 100},
	}
	for _, tc := range cases {
		if got := NormalizeVIX(tc.vix); got != tc.want {
			t.Fatalf("NormalizeVIX(%f) = %f, want %f", tc.vix, got, tc.want)
		}
	}
}

func TestNormalizePutCall(t *testing.T) {
	if got := NormalizePutCall(0.7); got != 50 {
		t.Fatalf("NormalizePutCall(0.7) = %f, want 50", got)
	}
	if got := NormalizePutCall(1.2); got != 0 {
		t.Fatalf("NormalizePutCall(1.2) = %f, want 0", got)
	}
}

func TestNormalizeJunkBond(t *testing.T) {
	if got := NormalizeJunkBond(3.0); got != 100 {
		t.Fatalf("NormalizeJunkBond(3.0) = %f, want 100", got)
	}
	if got := NormalizeJunkBond(8.0); got != 0 {
		t.Fatalf("NormalizeJunkBond(8.0) = %f, want 0", got)
	}
}

func TestNormalizeBreadthAndSigned(t *testing.T) {
	if got := NormalizeBreadth(0.65); got != 65 {
		t.Fatalf("NormalizeBreadth(0.65) = %f, want 65", got)
	}
	if got := NormalizeSigned(0); got != 50 {
		t.Fatalf("NormalizeSigned(0) = %f, want 50", got)
	}
	if got := NormalizeSigned(1); got != 100 {
		t.Fatalf("NormalizeSigned(1) = %f, want 100", got)
	}
	if got := NormalizeSigned(-3); got != 0 {
		t.Fatalf("NormalizeSigned(-3) = %f, want 0", got)
	}
}

func TestFearGreedLabel(t *testing.T) {
	cases := []struct {
		composite float64
		want      string
	}{
		{80, "extreme greed"},
		{75, "extreme greed"},
		{60, "greed"},
		{50, "neutral"},
		{45, "fear"},
		{30, "fear"},
		{25, "extreme fear"},
		{10, "extreme fear"},
	}
	for _, tc := range cases {
		if got := FearGreedLabel(tc.composite); got != tc.want {
			t.Fatalf("FearGreedLabel(%f) = %q, want %q", tc.composite, got, tc.want)
		}
	}
}

func TestBlendWeightsSumToOne(t *testing.T) {
	sum := WeightFinancialHealth + WeightValuation + WeightGrowth + WeightQuality + WeightMomentum
	if sum != 1.0 {
		t.Fatalf("blend weights sum to %f", sum)
	}
}

func TestProviderWeightsInRange(t *testing.T) {
	for name, w := range ProviderWeights {
		if w <= 0 || w > 1 {
			t.Fatalf("weight for %s out of range: %f", name, w)
		}
		if w < DefaultProviderWeight {
			t.Fatalf("named provider %s ranks below the default weight", name)
		}
	}
}
