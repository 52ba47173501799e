package core

import "testing"

func TestSanitizeAmount(t *testing.T) {
	cases := []struct {
		in, out string
	}{
		{"12.5", "12.5"},
		{"0.00", "0.00"},
		{"12", "12"},
		{".5", ".5"},
		{"12.", "12."},
		{".", "."},
		{"", ""},
		{"12.5.6", ""},
		{"abc", ""},
		{"-1", ""},
		{"1,5", ""},
		{" 12", ""},
		{"12\n", ""},
	}
	for _, tc := range cases {
		if got := SanitizeAmount(tc.in); got != tc.out {
			t.Errorf("SanitizeAmount(%q) = %q, want %q", tc.in, got, tc.out)
		}
	}
}
