package review

import "testing"

func TestExcludeMatcher(t *testing.T) {
	tests := []struct {
		name     string
		patterns []string
		path     string
		want     bool
	}{
		{"exact match", []string{"go.sum"}, "go.sum", true},
		{"exact no match", []string{"go.sum"}, "go.mod", false},
		{"star matches within segment", []string{"*.pb.go"}, "api.pb.go", true},
		{"star crosses separators", []string{"*.pb.go"}, "internal/rpc/api.pb.go", true},
		{"directory star crosses separators", []string{"dist/*"}, "dist/js/app.min.js", true},
		{"directory star needs prefix", []string{"dist/*"}, "src/dist.go", false},
		{"question mark single char", []string{"v?.go"}, "v1.go", true},
		{"question mark not two chars", []string{"v?.go"}, "v10.go", false},
		{"character class", []string{"file[0-9].txt"}, "file7.txt", true},
		{"character class no match", []string{"file[0-9].txt"}, "filex.txt", false},
		{"negated class", []string{"file[!0-9].txt"}, "filex.txt", true},
		{"dot is literal", []string{"*.min.js"}, "app_min_js", false},
		{"second pattern wins", []string{"*.lock", "vendor/*"}, "vendor/modules.txt", true},
		{"no patterns", nil, "anything.go", false},
		{"blank patterns ignored", []string{"  ", ""}, "anything.go", false},
		{"unterminated class is literal bracket", []string{"file[.txt"}, "file[.txt", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := compileExcludes(tt.patterns)
			if got := m.matches(tt.path); got != tt.want {
				t.Errorf("patterns %v against %q = %v, want %v", tt.patterns, tt.path, got, tt.want)
			}
		})
	}
}

func TestExcludeMatcher_NilReceiver(t *testing.T) {
	var m *excludeMatcher
	if m.matches("main.go") {
		t.Error("nil matcher should match nothing")
	}
}

func TestSplitExcludePatterns(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want []string
	}{
		{"empty", "", nil},
		{"whitespace only", "   ", nil},
		{"single", "*.md", []string{"*.md"}},
		{"multiple with spaces", "*.md, dist/*,  go.sum", []string{"*.md", "dist/*", "go.sum"}},
		{"trailing comma", "*.md,", []string{"*.md"}},
		{"consecutive commas", "*.md,,go.sum", []string{"*.md", "go.sum"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SplitExcludePatterns(tt.raw)
			if len(got) != len(tt.want) {
				t.Fatalf("SplitExcludePatterns(%q) = %v, want %v", tt.raw, got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("pattern %d = %q, want %q", i, got[i], tt.want[i])
				}
			}
		})
	}
}
