package text

import "testing"

func TestNormalize(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Citroën C4", "citroen c4"},
		{"  Café-Preto!!  ", "cafe preto"},
		{"VW - VolksWagen", "vw volkswagen"},
		{"Onix Premier 1.0", "onix premier 1 0"},
		{"GOL   1.6", "gol 1 6"},
		{"", ""},
		{"---", ""},
	}
	for _, tt := range tests {
		if got := Normalize(tt.in); got != tt.want {
			t.Errorf("Normalize(%q) = %q; want %q", tt.in, got, tt.want)
		}
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	inputs := []string{"Citroën C4", "Uno Mille 1.0 Fire", "peугeot"}
	for _, in := range inputs {
		once := Normalize(in)
		if twice := Normalize(once); twice != once {
			t.Errorf("Normalize not idempotent for %q: %q != %q", in, once, twice)
		}
	}
}

func TestTokens(t *testing.T) {
	got := Tokens(" Onix, Premier! 1.0 ")
	want := []string{"onix", "premier", "1", "0"}
	if len(got) != len(want) {
		t.Fatalf("Tokens = %v; want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Tokens[%d] = %q; want %q", i, got[i], want[i])
		}
	}
}

func TestJaccard(t *testing.T) {
	tests := []struct {
		a, b []string
		want float64
	}{
		{[]string{"a", "b"}, []string{"a", "b"}, 1},
		{[]string{"a", "b"}, []string{"b", "c"}, 1.0 / 3.0},
		{[]string{"a"}, []string{"b"}, 0},
		{nil, []string{"a"}, 0},
		{[]string{"a"}, nil, 0},
		{[]string{"a", "a", "b"}, []string{"a"}, 0.5}, // duplicates collapse
	}
	for _, tt := range tests {
		if got := Jaccard(tt.a, tt.b); got != tt.want {
			t.Errorf("Jaccard(%v, %v) = %v; want %v", tt.a, tt.b, got, tt.want)
		}
	}
}
