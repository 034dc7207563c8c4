// Package match resolves free-text brand/model/year descriptions against
// catalog entries using normalized token-set similarity.
package match

import (
	"sort"
	"strings"

	"carhunt-engine/internal/domain"
	"carhunt-engine/internal/text"
)

// Default thresholds; callers may override via config.
const (
	DefaultBrandCutoff     = 0.3
	DefaultModelCutoff     = 0.25
	DefaultModelCandidates = 4
)

// ModelCandidate is one ranked model match.
type ModelCandidate struct {
	Model domain.Model
	Score float64
}

// ResolveBrand finds the catalog brand best matching the free text.
// Resolution order: literal substring containment of a brand name in the
// text, then the alias table on whole-word boundaries, then first-token
// Jaccard similarity against every candidate. Returns the best candidate
// and its score; the caller decides whether the score clears its cutoff.
func ResolveBrand(freeText string, brands []domain.Brand, aliases map[string]string) (*domain.Brand, float64) {
	norm := text.Normalize(freeText)
	if norm == "" || len(brands) == 0 {
		return nil, 0
	}

	// 1) brand name appears verbatim in the text
	for i := range brands {
		name := text.Normalize(brands[i].Name)
		if name != "" && strings.Contains(norm, name) {
			return &brands[i], 1
		}
	}

	// 2) alias table, whole-word
	if aliases == nil {
		aliases = defaultBrandAliases
	}
	for _, tok := range strings.Fields(norm) {
		canonical, ok := aliases[tok]
		if !ok {
			continue
		}
		for i := range brands {
			if text.Normalize(brands[i].Name) == canonical {
				return &brands[i], 1
			}
		}
	}

	// 3) first-token similarity
	toks := strings.Fields(norm)
	first := []string{toks[0]}
	var best *domain.Brand
	bestScore := 0.0
	for i := range brands {
		score := text.Jaccard(first, text.Tokens(brands[i].Name))
		if best == nil || score > bestScore {
			best = &brands[i]
			bestScore = score
		}
	}
	return best, bestScore
}

// ResolveModel ranks catalog models by full-text Jaccard similarity and
// returns up to maxCandidates with score >= cutoff, best first. Ties keep
// catalog order (stable sort).
func ResolveModel(freeText string, models []domain.Model, maxCandidates int, cutoff float64) []ModelCandidate {
	toks := text.Tokens(freeText)
	if len(toks) == 0 || len(models) == 0 {
		return nil
	}
	if maxCandidates <= 0 {
		maxCandidates = DefaultModelCandidates
	}

	cands := make([]ModelCandidate, 0, len(models))
	for _, m := range models {
		score := text.Jaccard(toks, text.Tokens(m.Name))
		if score >= cutoff && score > 0 {
			cands = append(cands, ModelCandidate{Model: m, Score: score})
		}
	}
	sort.SliceStable(cands, func(i, j int) bool { return cands[i].Score > cands[j].Score })
	if len(cands) > maxCandidates {
		cands = cands[:maxCandidates]
	}
	return cands
}

// ResolveYearVariant picks the variant whose label year is closest to the
// year found in yearText; ties and unparseable input fall back toward
// catalog order. Returns nil only for an empty variant list.
func ResolveYearVariant(yearText string, variants []domain.YearVariant) *domain.YearVariant {
	if len(variants) == 0 {
		return nil
	}

	want, ok := ExtractYear(yearText)
	if !ok {
		return &variants[0]
	}

	var best *domain.YearVariant
	bestDiff := 0
	for i := range variants {
		y, ok := ExtractYear(variants[i].Label)
		if !ok {
			continue
		}
		diff := want - y
		if diff < 0 {
			diff = -diff
		}
		if best == nil || diff < bestDiff {
			best = &variants[i]
			bestDiff = diff
		}
	}
	if best == nil {
		return &variants[0]
	}
	return best
}

// ExtractYear returns the first run of exactly four digits starting with
// "19" or "20" found in s.
func ExtractYear(s string) (int, bool) {
	runStart := -1
	flush := func(end int) (int, bool) {
		n := end - runStart
		if runStart < 0 || n != 4 {
			return 0, false
		}
		head := s[runStart : runStart+2]
		if head != "19" && head != "20" {
			return 0, false
		}
		y := 0
		for i := runStart; i < end; i++ {
			y = y*10 + int(s[i]-'0')
		}
		return y, true
	}

	for i := 0; i < len(s); i++ {
		if s[i] >= '0' && s[i] <= '9' {
			if runStart < 0 {
				runStart = i
			}
			continue
		}
		if y, ok := flush(i); ok {
			return y, true
		}
		runStart = -1
	}
	return flush(len(s))
}
