package store

import "testing"

func TestClampPercent(t *testing.T) {
	tests := []struct {
		name string
		in   float64
		want float64
	}{
		{"fraction passes through", 0.5, 0.5},
		{"percentage scale normalized", 85, 0.85},
		{"over one hundred percent clamped to one", 150, 1},
		{"negative clamped to zero", -0.2, 0},
		{"rounded to four decimals", 0.123456, 0.1235},
		{"zero stays zero", 0, 0},
		{"one stays one", 1, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ClampPercent(tt.in, "advance_percent", "1001"); got != tt.want {
				t.Errorf("ClampPercent(%v) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestRoundMoney(t *testing.T) {
	tests := []struct{ in, want float64 }{
		{3.14159, 3.14},
		{2.675, 2.68},
		{-1.005, -1.01},
		{100, 100},
	}
	for _, tt := range tests {
		if got := RoundMoney(tt.in); got != tt.want {
			t.Errorf("RoundMoney(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
