package domain

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestToCents(t *testing.T) {
	tests := []struct {
		amount string
		want   int64
	}{
		{"0", 0},
		{"45.50", 4550},
		{"91.00", 9100},
		{"0.01", 1},
		{"0.005", 1},    // half-up at the cents boundary
		{"10.004", 1000},
		{"10.005", 1001},
		{"123.456", 12346},
		{"999999.99", 99999999},
	}

	for _, tt := range tests {
		amount := decimal.RequireFromString(tt.amount)
		if got := ToCents(amount); got != tt.want {
			t.Errorf("ToCents(%s) = %d, want %d", tt.amount, got, tt.want)
		}
	}
}

func TestCentsToMajor(t *testing.T) {
	tests := []struct {
		cents int64
		want  float64
	}{
		{0, 0},
		{4550, 45.50},
		{9100, 91.00},
		{1, 0.01},
		{12346, 123.46},
	}

	for _, tt := range tests {
		if got := CentsToMajor(tt.cents); got != tt.want {
			t.Errorf("CentsToMajor(%d) = %v, want %v", tt.cents, got, tt.want)
		}
	}
}

// Two-decimal amounts must survive the cents round trip without loss.
func TestCentsRoundTrip(t *testing.T) {
	for _, raw := range []string{"0.01", "0.99", "45.50", "91.00", "100.10", "12345.67"} {
		amount := decimal.RequireFromString(raw)
		cents := ToCents(amount)
		back := decimal.NewFromFloat(CentsToMajor(cents))
		if !back.Equal(amount) {
			t.Errorf("round trip %s -> %d -> %s", raw, cents, back)
		}
	}
}

func TestToWholeUnits(t *testing.T) {
	tests := []struct {
		amount string
		want   int64
	}{
		{"45", 45},
		{"45.4", 45},
		{"45.5", 46},
		{"0", 0},
	}

	for _, tt := range tests {
		amount := decimal.RequireFromString(tt.amount)
		if got := ToWholeUnits(amount); got != tt.want {
			t.Errorf("ToWholeUnits(%s) = %d, want %d", tt.amount, got, tt.want)
		}
	}
}

func TestQuantizeMajor(t *testing.T) {
	got := QuantizeMajor(decimal.RequireFromString("5.005"))
	if got.String() != "5.01" {
		t.Errorf("QuantizeMajor(5.005) = %s, want 5.01", got)
	}
	got = QuantizeMajor(decimal.RequireFromString("5"))
	if !got.Equal(decimal.RequireFromString("5.00")) {
		t.Errorf("QuantizeMajor(5) = %s, want 5.00", got)
	}
}
