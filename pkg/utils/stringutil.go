package utils

import (
	"strings"
	"unicode/utf8"
)

// Coalesce returns the first non-empty string among candidates.
func Coalesce(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

// NormalizeBaseURL trims surrounding space and all trailing slashes from u,
// then appends exactly one. An empty input stays empty.
func NormalizeBaseURL(u string) string {
	u = strings.TrimRight(strings.TrimSpace(u), "/")
	if u == "" {
		return ""
	}
	return u + "/"
}

// RelativePath strips every leading slash so p resolves against a base URL.
func RelativePath(p string) string {
	return strings.TrimLeft(p, "/")
}

// Truncate returns a string not exceeding maxRunes runes. Adds ellipsis if truncated and addEllipsis is true.
func Truncate(s string, maxRunes int, addEllipsis bool) string {
	if maxRunes <= 0 || utf8.RuneCountInString(s) <= maxRunes {
		return s
	}
	var b strings.Builder
	count := 0
	for _, r := range s {
		if count == maxRunes {
			break
		}
		b.WriteRune(r)
		count++
	}
	out := b.String()
	if addEllipsis {
		out += "…"
	}
	return out
}

// Mask keeps the first keep runes of s and replaces the rest with '*'.
func Mask(s string, keep int) string {
	n := utf8.RuneCountInString(s)
	if n == 0 {
		return ""
	}
	if keep < 0 {
		keep = 0
	}
	if keep >= n {
		keep = n / 2
	}
	runes := []rune(s)
	return string(runes[:keep]) + strings.Repeat("*", n-keep)
}
