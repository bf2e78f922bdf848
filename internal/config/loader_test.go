package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpandEnvString(t *testing.T) {
	t.Setenv("RVB_SECRET", "fake-secret-0042")
	t.Setenv("RVB_DATA_DIR", "/srv/reviewbot")

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"braced reference", "${RVB_SECRET}", "fake-secret-0042"},
		{"bare reference", "$RVB_SECRET", "fake-secret-0042"},
		{"reference inside text", "key:${RVB_SECRET}:end", "key:fake-secret-0042:end"},
		{"bare reference after punctuation", "dir=$RVB_DATA_DIR", "dir=/srv/reviewbot"},
		{"two references", "${RVB_SECRET}@${RVB_DATA_DIR}", "fake-secret-0042@/srv/reviewbot"},
		{"unset variable kept literal", "${RVB_NO_SUCH_VAR}", "${RVB_NO_SUCH_VAR}"},
		{"lowercase name not a reference", "${rvb_secret}", "${rvb_secret}"},
		{"dollar amount untouched", "costs $5 per run", "costs $5 per run"},
		{"empty string", "", ""},
		{"plain text", "plain-text", "plain-text"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, expandEnvString(tt.input))
		})
	}
}

func TestExpandEnvString_Tilde(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"leading tilde with path", "~/.config/reviewbot/reviews.db", home + "/.config/reviewbot/reviews.db"},
		{"bare tilde", "~", home},
		{"tilde with trailing slash", "~/", home + "/"},
		{"tilde in the middle stays", "/path/~/file", "/path/~/file"},
		{"user form stays", "~alice/.config", "~alice/.config"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, expandEnvString(tt.input))
		})
	}
}

// One fixture touching every expanded section proves the walk reaches
// provider entries, credentials, globs, and the store path alike.
func TestExpandEnvVars_WalksAllSections(t *testing.T) {
	t.Setenv("RVB_OPENAI_KEY", "sk-proj-fakeexpand00")
	t.Setenv("RVB_GH_TOKEN", "ghp_fakeexpandtoken")
	t.Setenv("RVB_PEM", "/secrets/app.pem")
	t.Setenv("RVB_OUT", "/custom/output")
	t.Setenv("RVB_GLOB", "*.lock")

	home, err := os.UserHomeDir()
	require.NoError(t, err)

	cfg := Config{
		Providers: map[string]ProviderConfig{
			"openai": {Enabled: true, Model: "gpt-4", APIKey: "${RVB_OPENAI_KEY}"},
		},
		GitHub: GitHubConfig{
			Token:          "${RVB_GH_TOKEN}",
			APIBaseURL:     "https://ghe.example.com/api/v3",
			PrivateKeyPath: "${RVB_PEM}",
		},
		Output: OutputConfig{Directory: "${RVB_OUT}"},
		Review: ReviewConfig{
			Exclude:      []string{"${RVB_GLOB}", "dist/**"},
			Instructions: "focus on error handling",
		},
		Store: StoreConfig{Enabled: true, Path: "~/.config/reviewbot/reviews.db"},
	}

	got := expandEnvVars(cfg)

	assert.Equal(t, "sk-proj-fakeexpand00", got.Providers["openai"].APIKey)
	assert.Equal(t, "ghp_fakeexpandtoken", got.GitHub.Token)
	assert.Equal(t, "/secrets/app.pem", got.GitHub.PrivateKeyPath)
	assert.Equal(t, "https://ghe.example.com/api/v3", got.GitHub.APIBaseURL, "values without references pass through")
	assert.Equal(t, "/custom/output", got.Output.Directory)
	assert.Equal(t, []string{"*.lock", "dist/**"}, got.Review.Exclude)
	assert.Equal(t, "focus on error handling", got.Review.Instructions)
	assert.Equal(t, home+"/.config/reviewbot/reviews.db", got.Store.Path)
}

func TestExpandEnvVars_ProviderHTTPOverrides(t *testing.T) {
	t.Setenv("RVB_ANTHROPIC_TIMEOUT", "180s")

	timeout := "${RVB_ANTHROPIC_TIMEOUT}"
	maxRetries := 3

	cfg := Config{
		Providers: map[string]ProviderConfig{
			"anthropic": {
				Enabled:    true,
				Model:      "claude-3-5-sonnet-20241022",
				Timeout:    &timeout,
				MaxRetries: &maxRetries,
			},
		},
	}

	got := expandEnvVars(cfg).Providers["anthropic"]

	require.NotNil(t, got.Timeout)
	assert.Equal(t, "180s", *got.Timeout)
	require.NotNil(t, got.MaxRetries)
	assert.Equal(t, 3, *got.MaxRetries)
}

func TestExpandEnvStringSlice(t *testing.T) {
	t.Setenv("RVB_PATTERN", "*.secret")

	t.Run("expands each element", func(t *testing.T) {
		got := expandEnvStringSlice([]string{"plain", "${RVB_PATTERN}"})
		assert.Equal(t, []string{"plain", "*.secret"}, got)
	})

	t.Run("nil stays nil", func(t *testing.T) {
		assert.Nil(t, expandEnvStringSlice(nil))
	})

	t.Run("empty stays empty", func(t *testing.T) {
		assert.Equal(t, []string{}, expandEnvStringSlice([]string{}))
	})
}

func TestExpandOptional(t *testing.T) {
	t.Setenv("RVB_OPT", "45s")

	assert.Nil(t, expandOptional(nil))

	in := "${RVB_OPT}"
	out := expandOptional(&in)
	require.NotNil(t, out)
	assert.Equal(t, "45s", *out)
	assert.Equal(t, "${RVB_OPT}", in, "input string must not be mutated")
}

func TestLocateConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "reviewbot.yaml")
	require.NoError(t, os.WriteFile(path, []byte("provider: openai\n"), 0o600))

	assert.Equal(t, path, locateConfigFile("reviewbot", []string{dir}))
	assert.Equal(t, "", locateConfigFile("missing", []string{dir}))

	// A directory that happens to carry the file name is not a config.
	decoy := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(decoy, "reviewbot.yaml"), 0o755))
	assert.Equal(t, "", locateConfigFile("reviewbot", []string{decoy}))

	// Earlier search paths win.
	second := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(second, "reviewbot.yaml"), []byte("provider: static\n"), 0o600))
	assert.Equal(t, path, locateConfigFile("reviewbot", []string{dir, second}))
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(LoaderOptions{FileName: "no-such-config", EnvPrefix: "RVB_TEST_DEFAULTS"})
	require.NoError(t, err)

	assert.Equal(t, HTTPConfig{
		Timeout:           "60s",
		MaxRetries:        5,
		InitialBackoff:    "2s",
		MaxBackoff:        "32s",
		BackoffMultiplier: 2.0,
	}, cfg.HTTP)

	assert.Equal(t, "openai", cfg.Provider)
	assert.True(t, cfg.Providers["openai"].Enabled)
	assert.Equal(t, "gpt-4", cfg.Providers["openai"].Model)
	assert.False(t, cfg.Providers["anthropic"].Enabled)
	assert.True(t, cfg.Providers["static"].Enabled)

	assert.Equal(t, 3, cfg.Review.Workers)
	assert.Equal(t, 6000, cfg.Review.ChunkTokenBudget)
	assert.Equal(t, "github-actions[bot]", cfg.Review.BotUsername)
	assert.Equal(t, "request_changes", cfg.Review.Actions.OnCritical)
	assert.Equal(t, "approve", cfg.Review.Actions.OnClean)

	assert.True(t, cfg.Determinism.Enabled)
	assert.Zero(t, cfg.Determinism.Temperature)
	assert.True(t, cfg.Determinism.UseSeed)

	assert.True(t, cfg.Store.Enabled)
	assert.NotEmpty(t, cfg.Store.Path)
}

func TestFromEnvironment(t *testing.T) {
	t.Setenv("GITHUB_TOKEN", "ghp_faketokenenv000")
	t.Setenv("OPENAI_API_KEY", "sk-proj-fakeenv00000")
	t.Setenv("OPENAI_API_MODEL", "gpt-4-turbo")
	t.Setenv("ANTHROPIC_API_KEY", "sk-ant-fakeenv000000")
	t.Setenv("INPUT_EXCLUDE", "*.md, dist/**")

	cfg := FromEnvironment()

	assert.Equal(t, "ghp_faketokenenv000", cfg.GitHub.Token)
	assert.Equal(t, "sk-proj-fakeenv00000", cfg.Providers["openai"].APIKey)
	assert.Equal(t, "gpt-4-turbo", cfg.Providers["openai"].Model)
	assert.Equal(t, "sk-ant-fakeenv000000", cfg.Providers["anthropic"].APIKey)
	assert.Equal(t, []string{"*.md", "dist/**"}, cfg.Review.Exclude)
}

func TestFromEnvironment_Empty(t *testing.T) {
	for _, key := range []string{
		"GITHUB_TOKEN", "GITHUB_API_URL",
		"OPENAI_API_KEY", "OPENAI_API_MODEL", "ANTHROPIC_API_KEY",
		"INPUT_EXCLUDE",
	} {
		t.Setenv(key, "")
	}

	cfg := FromEnvironment()

	assert.Empty(t, cfg.GitHub.Token)
	assert.Nil(t, cfg.Providers, "no provider entries without any provider env vars")
	assert.Nil(t, cfg.Review.Exclude)
}

func TestFromEnvironment_OverlaysFileConfig(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "sk-proj-fakefromenv0")

	fileCfg := Config{
		Providers: map[string]ProviderConfig{
			"openai": {Enabled: true, Model: "gpt-4-turbo", APIKey: "sk-proj-fakefromfile"},
		},
	}

	got := Merge(fileCfg, FromEnvironment()).Providers["openai"]

	assert.Equal(t, "sk-proj-fakefromenv0", got.APIKey, "environment key wins")
	assert.Equal(t, "gpt-4-turbo", got.Model, "file model survives")
	assert.True(t, got.Enabled)
}

func TestSplitPatterns(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"comma separated with spaces", "*.md, dist/**, vendor/*", []string{"*.md", "dist/**", "vendor/*"}},
		{"single pattern", "*.lock", []string{"*.lock"}},
		{"trailing comma", "*.md,", []string{"*.md"}},
		{"only separators", " , , ", nil},
		{"empty input", "", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SplitPatterns(tt.input))
		})
	}
}
