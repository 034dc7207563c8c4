package match

import (
	"testing"

	"carhunt-engine/internal/domain"
)

var testBrands = []domain.Brand{
	{Code: "21", Name: "Fiat"},
	{Code: "23", Name: "GM - Chevrolet"},
	{Code: "59", Name: "Volkswagen"},
}

func TestResolveBrandSubstring(t *testing.T) {
	brand, score := ResolveBrand("Fiat Uno Mille 2010 completo", testBrands, nil)
	if brand == nil || brand.Code != "21" {
		t.Fatalf("ResolveBrand = %+v; want Fiat", brand)
	}
	if score < DefaultBrandCutoff {
		t.Errorf("score = %v; want >= %v", score, DefaultBrandCutoff)
	}
}

func TestResolveBrandAlias(t *testing.T) {
	tests := []struct {
		freeText string
		wantCode string
	}{
		{"vw gol 1.6 2015", "59"},
		{"volks fox 2012", "59"},
		{"chevy onix premier", "23"},
	}
	for _, tt := range tests {
		brand, score := ResolveBrand(tt.freeText, testBrands, nil)
		if brand == nil || brand.Code != tt.wantCode {
			t.Errorf("ResolveBrand(%q) = %+v; want code %s", tt.freeText, brand, tt.wantCode)
			continue
		}
		if score != 1 {
			t.Errorf("ResolveBrand(%q) score = %v; want 1", tt.freeText, score)
		}
	}
}

func TestResolveBrandFirstToken(t *testing.T) {
	// "chevrolet" is neither a full catalog name nor an alias, but shares
	// a token with "GM - Chevrolet"
	brand, score := ResolveBrand("chevrolet onix 2020", testBrands, nil)
	if brand == nil || brand.Code != "23" {
		t.Fatalf("ResolveBrand = %+v; want GM - Chevrolet", brand)
	}
	if score != 0.5 {
		t.Errorf("score = %v; want 0.5", score)
	}
}

func TestResolveBrandNoMatch(t *testing.T) {
	brand, score := ResolveBrand("ford ka 2018", testBrands, nil)
	if brand != nil && score >= DefaultBrandCutoff {
		t.Errorf("expected score below cutoff, got %+v score %v", brand, score)
	}

	if b, _ := ResolveBrand("", testBrands, nil); b != nil {
		t.Errorf("empty text resolved to %+v", b)
	}
	if b, _ := ResolveBrand("fiat uno", nil, nil); b != nil {
		t.Errorf("empty catalog resolved to %+v", b)
	}
}

func TestResolveModel(t *testing.T) {
	models := []domain.Model{
		{Code: "1", Name: "Onix Premier 1.0"},
		{Code: "2", Name: "Onix 1.0"},
		{Code: "3", Name: "Prisma"},
	}

	cands := ResolveModel("onix premier", models, DefaultModelCandidates, DefaultModelCutoff)
	if len(cands) != 2 {
		t.Fatalf("got %d candidates; want 2", len(cands))
	}
	if cands[0].Model.Code != "1" || cands[1].Model.Code != "2" {
		t.Errorf("candidate order = %s, %s; want 1, 2", cands[0].Model.Code, cands[1].Model.Code)
	}
	if cands[0].Score <= cands[1].Score {
		t.Errorf("scores not descending: %v, %v", cands[0].Score, cands[1].Score)
	}

	// cap applies after sorting
	if capped := ResolveModel("onix premier", models, 1, DefaultModelCutoff); len(capped) != 1 || capped[0].Model.Code != "1" {
		t.Errorf("maxCandidates=1 returned %+v", capped)
	}

	if got := ResolveModel("", models, 4, 0.25); got != nil {
		t.Errorf("empty text returned %+v", got)
	}
	if got := ResolveModel("onix", nil, 4, 0.25); got != nil {
		t.Errorf("empty catalog returned %+v", got)
	}
}

func TestResolveYearVariant(t *testing.T) {
	variants := []domain.YearVariant{
		{Code: "2012-1", Label: "2012 Gasolina"},
		{Code: "2014-1", Label: "2014 Gasolina"},
		{Code: "2016-1", Label: "2016 Gasolina"},
	}

	tests := []struct {
		yearText string
		wantCode string
	}{
		{"2014", "2014-1"},
		{"ano 2016 flex", "2016-1"},
		{"2015", "2014-1"}, // tie between 2014 and 2016 keeps catalog order
		{"2030", "2016-1"},
		{"sem ano", "2012-1"}, // unparseable falls back to first
	}
	for _, tt := range tests {
		v := ResolveYearVariant(tt.yearText, variants)
		if v == nil || v.Code != tt.wantCode {
			t.Errorf("ResolveYearVariant(%q) = %+v; want %s", tt.yearText, v, tt.wantCode)
		}
	}

	// labels without a year are skipped, not matched
	mixed := []domain.YearVariant{
		{Code: "32000-0", Label: "Zero KM"},
		{Code: "2014-1", Label: "2014 Gasolina"},
	}
	if v := ResolveYearVariant("2014", mixed); v == nil || v.Code != "2014-1" {
		t.Errorf("mixed labels: got %+v; want 2014-1", v)
	}
	if v := ResolveYearVariant("2014", mixed[:1]); v == nil || v.Code != "32000-0" {
		t.Errorf("no year labels: got %+v; want first variant", v)
	}

	if v := ResolveYearVariant("2014", nil); v != nil {
		t.Errorf("empty variants: got %+v; want nil", v)
	}
}

func TestExtractYear(t *testing.T) {
	tests := []struct {
		in   string
		want int
		ok   bool
	}{
		{"ano 2015 completo", 2015, true},
		{"2022", 2022, true},
		{"fiat uno 1999", 1999, true},
		{"2014/2015", 2014, true},
		{"civic 19992 km", 0, false}, // five-digit run is not a year
		{"1899", 0, false},
		{"km 123.456", 0, false},
		{"", 0, false},
	}
	for _, tt := range tests {
		got, ok := ExtractYear(tt.in)
		if got != tt.want || ok != tt.ok {
			t.Errorf("ExtractYear(%q) = (%d, %v); want (%d, %v)", tt.in, got, ok, tt.want, tt.ok)
		}
	}
}
