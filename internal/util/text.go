package util

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"flowerboard/internal"
)

var (
	reSeparators = regexp.MustCompile(`[\s_\-.']`)
	reNonAlnum   = regexp.MustCompile(`[^a-z0-9]`)
	reSpaces     = regexp.MustCompile(`\s+`)
)

// CanonicalKey folds a display name to lowercase ASCII letters and digits:
// accents are stripped, separators dropped, anything else removed.
func CanonicalKey(input string) string {
	s := strings.ToLower(input)
	s = stripMarks(s)
	s = reSeparators.ReplaceAllString(s, "")
	return reNonAlnum.ReplaceAllString(s, "")
}

// Variants returns the alternate spellings of a name used for matching,
// deduplicated and in a fixed order: trimmed original, lowercase, then
// {original, lowercase} with whitespace removed, replaced by "_" and by "-",
// and finally the canonical key.
func Variants(input string) []string {
	raw := strings.TrimSpace(input)
	lc := strings.ToLower(raw)

	candidates := []string{
		raw, lc,
		reSpaces.ReplaceAllString(raw, ""), reSpaces.ReplaceAllString(lc, ""),
		reSpaces.ReplaceAllString(raw, "_"), reSpaces.ReplaceAllString(lc, "_"),
		reSpaces.ReplaceAllString(raw, "-"), reSpaces.ReplaceAllString(lc, "-"),
		CanonicalKey(raw),
	}

	seen := make(map[string]struct{}, len(candidates))
	out := make([]string, 0, len(candidates))
	for _, c := range candidates {
		if _, ok := seen[c]; ok {
			continue
		}
		seen[c] = struct{}{}
		out = append(out, c)
	}
	return out
}

// LowerKey is the price book key form of a name.
func LowerKey(input string) string {
	return strings.ToLower(strings.TrimSpace(input))
}

// NormalizeKind lowercases a kind label and folds "fruits" into "fruit".
func NormalizeKind(input string) internal.Kind {
	v := strings.ToLower(strings.TrimSpace(input))
	if v == "fruits" {
		v = "fruit"
	}
	return internal.Kind(v)
}

func stripMarks(s string) string {
	t := transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)))
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}
