package service

import "testing"

func TestRound2(t *testing.T) {
	cases := []struct{ in, want float64 }{
		{1.234, 1.23},
		{1.236, 1.24},
		{0.1 + 0.2, 0.3},
		{-1.236, -1.24},
		{300, 300},
	}
	for _, c := range cases {
		if got := round2(c.in); got != c.want {
			t.Fatalf("round2(%v) = %v, want %v", c.in, got, c.want)
		}
	}
}
