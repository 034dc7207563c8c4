package text

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var stripAccents = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Normalize lowercases, folds accents to ASCII (Citroën -> citroen) and
// collapses runs of non-alphanumeric characters to single spaces.
// Normalizing an already-normalized string returns it unchanged.
func Normalize(s string) string {
	folded, _, _ := transform.String(stripAccents, strings.ToLower(s))

	var b strings.Builder
	b.Grow(len(folded))
	pendingSpace := false
	for _, r := range folded {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			if pendingSpace && b.Len() > 0 {
				b.WriteByte(' ')
			}
			pendingSpace = false
			b.WriteRune(r)
		} else {
			pendingSpace = true
		}
	}
	return b.String()
}

// Tokens returns the whitespace tokens of the normalized input.
func Tokens(s string) []string {
	return strings.Fields(Normalize(s))
}

// Jaccard is token-set similarity: |A∩B| / |A∪B|. Zero when either
// token set is empty.
func Jaccard(a, b []string) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	as := make(map[string]struct{}, len(a))
	for _, t := range a {
		as[t] = struct{}{}
	}
	bs := make(map[string]struct{}, len(b))
	inter := 0
	for _, t := range b {
		if _, dup := bs[t]; dup {
			continue
		}
		bs[t] = struct{}{}
		if _, ok := as[t]; ok {
			inter++
		}
	}
	union := len(as) + len(bs) - inter
	if union == 0 {
		return 0
	}
	return float64(inter) / float64(union)
}
