package money

import "testing"

func TestParseBRL(t *testing.T) {
	tests := []struct {
		in   string
		want int
		ok   bool
	}{
		{"R$ 32.000,00", 32000, true},
		{"R$ 32.000,50", 32001, true}, // cents round half up
		{"32.000,49", 32000, true},
		{"R$ 1.234", 1234, true}, // non-breaking space after R$
		{"89.424", 89424, true},
		{"1234", 1234, true},
		{"R$ 15.900", 15900, true},
		{"abc", 0, false},
		{"", 0, false},
		{",50", 0, false}, // no integer digits
		{"R$", 0, false},
		{"9999999999999999", 0, false}, // too many digits
	}
	for _, tt := range tests {
		got, ok := ParseBRL(tt.in)
		if got != tt.want || ok != tt.ok {
			t.Errorf("ParseBRL(%q) = (%d, %v); want (%d, %v)", tt.in, got, ok, tt.want, tt.ok)
		}
	}
}

func TestFormatBRL(t *testing.T) {
	tests := []struct {
		in   int
		want string
	}{
		{0, "R$ 0,00"},
		{999, "R$ 999,00"},
		{32000, "R$ 32.000,00"},
		{1234567, "R$ 1.234.567,00"},
		{-5000, "R$ -5.000,00"},
	}
	for _, tt := range tests {
		if got := FormatBRL(tt.in); got != tt.want {
			t.Errorf("FormatBRL(%d) = %q; want %q", tt.in, got, tt.want)
		}
	}
}

func TestFormatParseRoundTrip(t *testing.T) {
	for _, n := range []int{0, 1, 12, 123, 1234, 89424, 999999, 1234567} {
		got, ok := ParseBRL(FormatBRL(n))
		if !ok || got != n {
			t.Errorf("round trip %d -> %q -> (%d, %v)", n, FormatBRL(n), got, ok)
		}
	}
}

func TestParseAny(t *testing.T) {
	tests := []struct {
		in   any
		want int
		ok   bool
	}{
		{42, 42, true},
		{int64(7), 7, true},
		{41.5, 42, true}, // half up
		{41.4, 41, true},
		{"R$ 10", 10, true},
		{nil, 0, false},
		{true, 0, false},
	}
	for _, tt := range tests {
		got, ok := Parse(tt.in)
		if got != tt.want || ok != tt.ok {
			t.Errorf("Parse(%v) = (%d, %v); want (%d, %v)", tt.in, got, ok, tt.want, tt.ok)
		}
	}
}
