package core

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestParseAmount(t *testing.T) {
	cases := []struct {
		in  string
		out string
		ok  bool
	}{
		{"1", "1", true},
		{"1.0", "1", true},
		{"1.23", "1.23", true},
		{"1,23", "1.23", true},
		{"0.01", "0.01", true},
		{" 2.50 ", "2.5", true},
		{"-1", "", false},
		{"+1", "", false},
		{"0", "", false},
		{"abc", "", false},
		{"1.2.3", "", false},
		{"", "", false},
	}
	for _, tc := range cases {
		got, err := ParseAmount(tc.in)
		if tc.ok {
			if err != nil {
				t.Fatalf("%q expected %s, got error %v", tc.in, tc.out, err)
			}
			want, _ := decimal.NewFromString(tc.out)
			if !got.Equal(want) {
				t.Fatalf("%q expected %s, got %s", tc.in, tc.out, got)
			}
		} else {
			if err == nil {
				t.Fatalf("%q expected error", tc.in)
			}
		}
	}
}

func TestPercent(t *testing.T) {
	cases := []struct {
		part, whole string
		want        float64
	}{
		{"50", "200", 25},
		{"1", "3", 33.3},
		{"2", "3", 66.7},
		{"150", "100", 150},
		{"10", "0", 0},  // no divide-by-zero fault
		{"10", "-5", 0}, // negative whole degrades to zero
	}
	for _, tc := range cases {
		part, _ := decimal.NewFromString(tc.part)
		whole, _ := decimal.NewFromString(tc.whole)
		if got := Percent(part, whole); got != tc.want {
			t.Fatalf("Percent(%s, %s) = %v, want %v", tc.part, tc.whole, got, tc.want)
		}
	}
}
