package dedup

import (
	"strings"
	"unicode"

	"github.com/pmezard/go-difflib/difflib"
)

// Similarity scores how alike two finding descriptions are, in [0, 1].
// Descriptions are lowercased and split into words before diffing, so a
// reworded report of the same issue still scores high while unrelated
// findings stay near zero.
func Similarity(a, b string) float64 {
	ta, tb := tokenize(a), tokenize(b)
	switch {
	case len(ta) == 0 && len(tb) == 0:
		return 1
	case len(ta) == 0 || len(tb) == 0:
		return 0
	}
	return difflib.NewMatcher(ta, tb).Ratio()
}

// tokenize lowercases s and splits it into words, trimming punctuation and
// symbols so "`userID`" and "userID" compare equal.
func tokenize(s string) []string {
	fields := strings.Fields(strings.ToLower(s))
	tokens := make([]string, 0, len(fields))
	for _, field := range fields {
		token := strings.TrimFunc(field, func(r rune) bool {
			return unicode.IsPunct(r) || unicode.IsSymbol(r)
		})
		if token != "" {
			tokens = append(tokens, token)
		}
	}
	return tokens
}
