package config

import (
	"cmp"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/spf13/viper"
)

// LoaderOptions describes how configuration should be discovered.
type LoaderOptions struct {
	ConfigPaths []string
	FileName    string
	EnvPrefix   string
}

// defaultSettings sit beneath file and environment values in viper's
// precedence order. store.path is computed at load time.
var defaultSettings = map[string]any{
	"output.directory": "out",

	"http.timeout":           "60s",
	"http.maxRetries":        5,
	"http.initialBackoff":    "2s",
	"http.maxBackoff":        "32s",
	"http.backoffMultiplier": 2.0,

	"determinism.enabled":     true,
	"determinism.temperature": 0.0,
	"determinism.useSeed":     true,

	"redaction.enabled": true,
	"store.enabled":     true,

	"observability.logging.enabled":       true,
	"observability.logging.level":         "info",
	"observability.logging.format":        "human",
	"observability.logging.redactAPIKeys": true,
	"observability.metrics.enabled":       true,

	"review.workers":          3,
	"review.chunkTokenBudget": 6000,
	"review.botUsername":      "github-actions[bot]",

	"review.actions.onCritical":    "request_changes",
	"review.actions.onHigh":        "request_changes",
	"review.actions.onMedium":      "comment",
	"review.actions.onLow":         "comment",
	"review.actions.onClean":       "approve",
	"review.actions.onNonBlocking": "comment",

	// The openai model default matches the OPENAI_API_MODEL contract
	// default.
	"provider":                    "openai",
	"providers.openai.enabled":    true,
	"providers.openai.model":      "gpt-4",
	"providers.anthropic.enabled": false,
	"providers.anthropic.model":   "claude-3-5-sonnet-20241022",
	"providers.static.enabled":    true,
	"providers.static.model":      "static-v1",
}

// Load returns the merged configuration from files and environment
// variables.
func Load(opts LoaderOptions) (Config, error) {
	v := viper.New()

	name := cmp.Or(opts.FileName, "reviewbot")
	configFile := locateConfigFile(name, opts.ConfigPaths)
	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName(name)
	}

	v.SetEnvPrefix(cmp.Or(opts.EnvPrefix, "REVIEWBOT"))
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AllowEmptyEnv(true)

	setDefaults(v)

	if configFile != "" {
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", configFile, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}

	return expandEnvVars(cfg), nil
}

func setDefaults(v *viper.Viper) {
	for key, value := range defaultSettings {
		v.SetDefault(key, value)
	}
	v.SetDefault("store.path", defaultStorePath())
}

func defaultStorePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "./reviews.db"
	}
	return filepath.Join(home, ".config", "reviewbot", "reviews.db")
}

func locateConfigFile(name string, paths []string) string {
	searchPaths := append(append([]string{}, paths...), ".")
	for _, dir := range searchPaths {
		if dir == "" {
			continue
		}
		candidate := filepath.Join(dir, name+".yaml")
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate
		}
	}
	return ""
}

// FromEnvironment builds a config overlay from the well-known variables
// of the GitHub Actions container contract. Values here take precedence
// over the config file; merge with Merge(fileCfg, FromEnvironment()).
func FromEnvironment() Config {
	cfg := Config{}
	cfg.GitHub.Token = os.Getenv("GITHUB_TOKEN")
	cfg.GitHub.APIBaseURL = os.Getenv("GITHUB_API_URL")

	openai := ProviderConfig{
		APIKey: os.Getenv("OPENAI_API_KEY"),
		Model:  os.Getenv("OPENAI_API_MODEL"),
	}
	anthropic := ProviderConfig{
		APIKey: os.Getenv("ANTHROPIC_API_KEY"),
	}
	if openai != (ProviderConfig{}) || anthropic != (ProviderConfig{}) {
		cfg.Providers = map[string]ProviderConfig{}
		if openai != (ProviderConfig{}) {
			cfg.Providers["openai"] = openai
		}
		if anthropic != (ProviderConfig{}) {
			cfg.Providers["anthropic"] = anthropic
		}
	}

	// INPUT_EXCLUDE is the Actions input passthrough: "*.md, dist/**"
	cfg.Review.Exclude = SplitPatterns(os.Getenv("INPUT_EXCLUDE"))

	return cfg
}

// SplitPatterns splits a comma-separated glob list, trimming whitespace
// and dropping empty entries.
func SplitPatterns(s string) []string {
	var patterns []string
	for _, part := range strings.Split(s, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			patterns = append(patterns, trimmed)
		}
	}
	return patterns
}

// expandEnvVars expands ${VAR}, $VAR, and a leading ~ in every
// user-supplied string of the configuration.
func expandEnvVars(cfg Config) Config {
	for _, field := range []*string{
		&cfg.HTTP.Timeout, &cfg.HTTP.InitialBackoff, &cfg.HTTP.MaxBackoff,
		&cfg.GitHub.Token, &cfg.GitHub.APIBaseURL, &cfg.GitHub.PrivateKeyPath,
		&cfg.Git.RepositoryDir,
		&cfg.Output.Directory,
		&cfg.Review.Instructions, &cfg.Review.BotUsername,
		&cfg.Store.Path,
		&cfg.Observability.Logging.Level, &cfg.Observability.Logging.Format,
	} {
		*field = expandEnvString(*field)
	}

	cfg.Review.Exclude = expandEnvStringSlice(cfg.Review.Exclude)
	cfg.Redaction.DenyGlobs = expandEnvStringSlice(cfg.Redaction.DenyGlobs)
	cfg.Redaction.AllowGlobs = expandEnvStringSlice(cfg.Redaction.AllowGlobs)

	for name, provider := range cfg.Providers {
		provider.APIKey = expandEnvString(provider.APIKey)
		provider.Model = expandEnvString(provider.Model)
		provider.Timeout = expandOptional(provider.Timeout)
		provider.InitialBackoff = expandOptional(provider.InitialBackoff)
		provider.MaxBackoff = expandOptional(provider.MaxBackoff)
		cfg.Providers[name] = provider
	}

	return cfg
}

func expandOptional(p *string) *string {
	if p == nil {
		return nil
	}
	s := expandEnvString(*p)
	return &s
}

// envVarPattern matches ${NAME} and $NAME references. Names are
// uppercase with underscores, which keeps strings like "pa$$word" or
// "cost: $5" literal.
var envVarPattern = regexp.MustCompile(`\$(\{[A-Z_][A-Z0-9_]*\}|[A-Z_][A-Z0-9_]*)`)

// expandEnvString substitutes environment variable references and a
// leading ~ in a config value. References to unset variables are left
// as written so the problem stays visible downstream.
func expandEnvString(s string) string {
	if s == "" {
		return s
	}
	s = expandTilde(s)
	return envVarPattern.ReplaceAllStringFunc(s, func(ref string) string {
		name := strings.Trim(ref[1:], "{}")
		if val := os.Getenv(name); val != "" {
			return val
		}
		return ref
	})
}

// expandTilde expands a leading ~ to the user's home directory. Only
// the bare "~" and "~/" forms are expanded; "~user" is left alone.
func expandTilde(s string) string {
	if s == "" || s[0] != '~' {
		return s
	}
	if len(s) > 1 && s[1] != '/' {
		return s
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return s
	}
	return home + s[1:]
}

func expandEnvStringSlice(ss []string) []string {
	if len(ss) == 0 {
		return ss
	}
	out := make([]string, len(ss))
	for i, s := range ss {
		out[i] = expandEnvString(s)
	}
	return out
}
