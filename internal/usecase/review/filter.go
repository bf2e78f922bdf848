package review

import (
	"regexp"
	"strings"
)

// excludeMatcher matches file paths against exclude globs. The patterns use
// fnmatch semantics rather than path.Match: * matches any run of characters
// including /, so "dist/*" excludes the whole tree and "*.pb.go" excludes
// generated files at any depth. ? matches one character and [seq] matches a
// character class, with [!seq] negated.
type excludeMatcher struct {
	res []*regexp.Regexp
}

func compileExcludes(patterns []string) *excludeMatcher {
	m := &excludeMatcher{}
	for _, p := range patterns {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		re, err := globToRegexp(p)
		if err != nil {
			// An unparseable pattern still excludes its literal spelling.
			re = regexp.MustCompile("^" + regexp.QuoteMeta(p) + "$")
		}
		m.res = append(m.res, re)
	}
	return m
}

func (m *excludeMatcher) matches(path string) bool {
	if m == nil {
		return false
	}
	for _, re := range m.res {
		if re.MatchString(path) {
			return true
		}
	}
	return false
}

// SplitExcludePatterns parses a comma-separated exclude list as supplied via
// the action input, trimming whitespace and dropping empty entries.
func SplitExcludePatterns(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	var patterns []string
	for _, p := range strings.Split(raw, ",") {
		p = strings.TrimSpace(p)
		if p != "" {
			patterns = append(patterns, p)
		}
	}
	return patterns
}

func globToRegexp(pattern string) (*regexp.Regexp, error) {
	var b strings.Builder
	b.WriteString("^")
	runes := []rune(pattern)
	for i := 0; i < len(runes); i++ {
		switch r := runes[i]; r {
		case '*':
			b.WriteString(".*")
		case '?':
			b.WriteString(".")
		case '[':
			j := i + 1
			if j < len(runes) && (runes[j] == '!' || runes[j] == '^') {
				j++
			}
			// A ] directly after the opening bracket is a literal member.
			if j < len(runes) && runes[j] == ']' {
				j++
			}
			for j < len(runes) && runes[j] != ']' {
				j++
			}
			if j >= len(runes) {
				// Unterminated class matches a literal bracket.
				b.WriteString(`\[`)
				continue
			}
			class := string(runes[i+1 : j])
			if strings.HasPrefix(class, "!") {
				class = "^" + class[1:]
			}
			b.WriteString("[" + class + "]")
			i = j
		default:
			b.WriteString(regexp.QuoteMeta(string(r)))
		}
	}
	b.WriteString("$")
	return regexp.Compile(b.String())
}
