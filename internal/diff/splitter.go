package diff

import (
	"strings"

	"github.com/reviewbotdev/reviewbot/internal/domain"
)

// SplitFiles parses a multi-file unified diff (git diff output, or the
// GitHub API's application/vnd.github.diff media type) into per-file
// diffs. Each returned FileDiff carries the complete section for that
// file, including the diff --git header, so the patch can be re-parsed
// with Parse for position mapping.
func SplitFiles(raw string) ([]domain.FileDiff, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}

	var files []domain.FileDiff
	var section *fileSection

	flush := func() {
		if section != nil {
			files = append(files, section.toFileDiff())
			section = nil
		}
	}

	for _, line := range strings.Split(raw, "\n") {
		if strings.HasPrefix(line, "diff --git ") {
			flush()
			section = &fileSection{header: line}
			section.lines = append(section.lines, line)
			continue
		}

		// Ignore anything before the first file header
		if section == nil {
			continue
		}

		section.lines = append(section.lines, line)

		switch {
		case strings.HasPrefix(line, "new file mode"):
			section.added = true
		case strings.HasPrefix(line, "deleted file mode"):
			section.deleted = true
		case strings.HasPrefix(line, "rename from "):
			section.renameFrom = strings.TrimPrefix(line, "rename from ")
		case strings.HasPrefix(line, "rename to "):
			section.renameTo = strings.TrimPrefix(line, "rename to ")
		case strings.HasPrefix(line, "Binary files ") || line == "GIT binary patch":
			section.binary = true
		case strings.HasPrefix(line, "--- "):
			section.oldHeader = strings.TrimPrefix(line, "--- ")
		case strings.HasPrefix(line, "+++ "):
			section.newHeader = strings.TrimPrefix(line, "+++ ")
		}
	}
	flush()

	return files, nil
}

// fileSection accumulates the lines and extended header facts for one
// file while scanning a multi-file diff.
type fileSection struct {
	header     string
	lines      []string
	oldHeader  string
	newHeader  string
	renameFrom string
	renameTo   string
	added      bool
	deleted    bool
	binary     bool
}

func (s *fileSection) toFileDiff() domain.FileDiff {
	fd := domain.FileDiff{
		Patch:    strings.Join(s.lines, "\n"),
		IsBinary: s.binary,
	}

	switch {
	case s.renameTo != "":
		fd.Status = domain.FileStatusRenamed
		fd.Path = s.renameTo
		fd.OldPath = s.renameFrom
	case s.added:
		fd.Status = domain.FileStatusAdded
		fd.Path = s.newPath()
	case s.deleted:
		fd.Status = domain.FileStatusDeleted
		fd.Path = s.oldPath()
	default:
		fd.Status = domain.FileStatusModified
		fd.Path = s.newPath()
	}

	return fd
}

// newPath resolves the post-change path, preferring the +++ header and
// falling back to the diff --git line (binary diffs have no +++ line).
func (s *fileSection) newPath() string {
	if p := stripPathPrefix(s.newHeader); p != "" {
		return p
	}
	_, newPath := parseGitHeader(s.header)
	return newPath
}

// oldPath resolves the pre-change path, preferring the --- header.
func (s *fileSection) oldPath() string {
	if p := stripPathPrefix(s.oldHeader); p != "" {
		return p
	}
	oldPath, _ := parseGitHeader(s.header)
	return oldPath
}

// parseGitHeader extracts the a/ and b/ paths from a "diff --git a/X b/Y"
// line. Paths containing the literal sequence " b/" are ambiguous in this
// format; the ---/+++ headers take precedence when present.
func parseGitHeader(header string) (oldPath, newPath string) {
	rest := strings.TrimPrefix(header, "diff --git ")

	if strings.HasPrefix(rest, `"`) {
		// Quoted paths: "a/old" "b/new"
		parts := strings.SplitN(rest, `" "`, 2)
		if len(parts) == 2 {
			oldPath = stripPathPrefix(strings.Trim(parts[0], `"`))
			newPath = stripPathPrefix(strings.Trim(parts[1], `"`))
			return oldPath, newPath
		}
		rest = strings.ReplaceAll(rest, `"`, "")
	}

	idx := strings.Index(rest, " b/")
	if idx < 0 {
		return "", ""
	}
	oldPath = stripPathPrefix(rest[:idx])
	newPath = rest[idx+3:]
	return oldPath, newPath
}

// stripPathPrefix removes the a/ or b/ prefix, surrounding quotes, and
// trailing metadata from a diff header path. "/dev/null" maps to "".
func stripPathPrefix(s string) string {
	s = strings.TrimSpace(s)
	s = strings.Trim(s, `"`)

	// "+++ b/path\t(timestamp)" variants: drop anything after a tab
	if idx := strings.IndexByte(s, '\t'); idx >= 0 {
		s = s[:idx]
	}

	if s == "/dev/null" || s == "" {
		return ""
	}
	if strings.HasPrefix(s, "a/") || strings.HasPrefix(s, "b/") {
		return s[2:]
	}
	return s
}
