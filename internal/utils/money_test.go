package utils

import "testing"

func TestFormatAmount(t *testing.T) {
	cases := []struct {
		amount   int64
		currency string
		want     string
	}{
		{45000, "XOF", "45 000 FCFA"},
		{0, "XOF", "0 FCFA"},
		{1250000, "eur", "1 250 000 EUR"},
		{-15000, "", "-15 000"},
		{999, "XOF", "999 FCFA"},
	}
	for _, tc := range cases {
		if got := FormatAmount(tc.amount, tc.currency); got != tc.want {
			t.Fatalf("FormatAmount(%d, %q) = %q, want %q", tc.amount, tc.currency, got, tc.want)
		}
	}
}
