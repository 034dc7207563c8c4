package util

import "strings"

func CleanText(s string) string {
	s = strings.ReplaceAll(s, " ", " ")
	s = strings.Join(strings.Fields(s), " ")
	return strings.TrimSpace(s)
}

// Slugify turns a state/city name into the path segment classifieds sites
// use: trimmed, lowercased, spaces to hyphens.
func Slugify(s string) string {
	s = strings.ToLower(CleanText(s))
	s = strings.Trim(s, "/")
	return strings.ReplaceAll(s, " ", "-")
}

// Truncate caps a string at n bytes; card titles can be arbitrary blobs.
func Truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
