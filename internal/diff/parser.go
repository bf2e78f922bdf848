package diff

import (
	"strconv"
	"strings"
)

// LineType represents the type of a line in a diff.
type LineType int

const (
	// LineContext represents an unchanged context line (starts with ' ').
	LineContext LineType = iota
	// LineAddition represents an added line (starts with '+').
	LineAddition
	// LineDeletion represents a deleted line (starts with '-').
	LineDeletion
)

// Line represents a single line in a diff hunk.
type Line struct {
	Type     LineType // The type of change
	Content  string   // The line content (without the prefix)
	NewLine  *int     // Line number in new file (nil for deletions)
	Position int      // Position in diff (1-indexed from first @@)
}

// Hunk represents a single @@ hunk in a unified diff.
type Hunk struct {
	OldStart int    // Starting line in old file
	OldLines int    // Number of lines from old file
	NewStart int    // Starting line in new file
	NewLines int    // Number of lines in new file
	Lines    []Line // The lines in this hunk
}

// ParsedDiff represents a parsed unified diff for a single file.
type ParsedDiff struct {
	Hunks []Hunk
}

// Parse parses a unified diff string into a ParsedDiff.
// It tolerates full git diff output for a single file: the diff --git,
// index, ---, +++ and extended header lines before the first @@ are
// ignored, as are "\ No newline at end of file" markers.
func Parse(patch string) (ParsedDiff, error) {
	p := &parser{}
	for _, line := range strings.Split(patch, "\n") {
		p.feed(line)
	}
	p.flush()
	return ParsedDiff{Hunks: p.hunks}, nil
}

// parser accumulates hunks while scanning a patch line by line.
type parser struct {
	hunks    []Hunk
	current  *Hunk
	position int // running position counter, shared across hunks
	newLine  int // next new-side line number
}

func (p *parser) feed(line string) {
	switch {
	case line == "":
		return
	case strings.HasPrefix(line, `\ `):
		// "\ No newline at end of file"
		return
	case strings.HasPrefix(line, "@@"):
		p.flush()
		hunk := parseHunkHeader(line)
		p.current = &hunk
		p.newLine = hunk.NewStart
		return
	case p.current == nil:
		// File headers and anything else before the first hunk
		return
	}

	p.position++
	p.current.Lines = append(p.current.Lines, p.classify(line))
}

func (p *parser) flush() {
	if p.current != nil {
		p.hunks = append(p.hunks, *p.current)
		p.current = nil
	}
}

func (p *parser) classify(line string) Line {
	l := Line{Position: p.position}

	switch line[0] {
	case '+':
		l.Type = LineAddition
		l.Content = line[1:]
		l.NewLine = IntPtr(p.newLine)
		p.newLine++
	case '-':
		l.Type = LineDeletion
		l.Content = line[1:]
		// Deletions don't have new-side line numbers
	case ' ':
		l.Type = LineContext
		l.Content = line[1:]
		l.NewLine = IntPtr(p.newLine)
		p.newLine++
	default:
		// Unknown prefixes count as context so positions stay aligned
		l.Type = LineContext
		l.Content = line
		l.NewLine = IntPtr(p.newLine)
		p.newLine++
	}

	return l
}

// FindPosition returns the diff position for a given new-side line number.
// Returns nil if the line is not in the diff (context-only file regions,
// deleted lines, or lines outside the diff).
// Position is 1-indexed from the first @@ hunk header.
func (pd ParsedDiff) FindPosition(newLineNumber int) *int {
	if newLineNumber <= 0 {
		return nil
	}

	for _, hunk := range pd.Hunks {
		for _, line := range hunk.Lines {
			if line.NewLine != nil && *line.NewLine == newLineNumber {
				return IntPtr(line.Position)
			}
		}
	}

	return nil
}

// parseHunkHeader parses a header like "@@ -10,7 +10,8 @@ optional context".
// Malformed headers yield a zero-valued hunk rather than an error.
func parseHunkHeader(line string) Hunk {
	var hunk Hunk

	body := line
	if _, after, ok := strings.Cut(body, "@@"); ok {
		body = after
	}
	if before, _, ok := strings.Cut(body, "@@"); ok {
		body = before
	}

	for _, field := range strings.Fields(body) {
		switch {
		case strings.HasPrefix(field, "-"):
			hunk.OldStart, hunk.OldLines = parseRange(field[1:])
		case strings.HasPrefix(field, "+"):
			hunk.NewStart, hunk.NewLines = parseRange(field[1:])
		}
	}

	return hunk
}

// parseRange parses "start,count" or "start" format.
func parseRange(s string) (start, count int) {
	if before, after, ok := strings.Cut(s, ","); ok {
		start, _ = strconv.Atoi(before)
		count, _ = strconv.Atoi(after)
		return start, count
	}
	start, _ = strconv.Atoi(s)
	return start, 1
}

// IntPtr returns a pointer to the given int value.
// Exported for use in tests across packages.
func IntPtr(n int) *int {
	return &n
}
