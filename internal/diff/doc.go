// Package diff parses unified diff format: splitting multi-file diffs
// (as returned by the GitHub API's diff media type) into per-file
// patches, and mapping file line numbers to diff positions for GitHub
// PR review comments.
//
// Position in GitHub's API is 1-indexed from the first @@ hunk header
// of each file, counting all lines in the diff (context, additions,
// and deletions).
package diff
