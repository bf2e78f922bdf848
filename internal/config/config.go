// Package config defines the application configuration and the layered
// merge that combines defaults, file values, and environment values.
package config

import "cmp"

// Config is the full application configuration.
type Config struct {
	// Provider selects the active LLM provider for reviews. Exactly
	// one provider reviews a run; the others stay configured but idle.
	Provider  string                    `yaml:"provider"`
	Providers map[string]ProviderConfig `yaml:"providers"`

	GitHub GitHubConfig `yaml:"github"`
	Review ReviewConfig `yaml:"review"`

	HTTP      HTTPConfig      `yaml:"http"`
	Git       GitConfig       `yaml:"git"`
	Output    OutputConfig    `yaml:"output"`
	Redaction RedactionConfig `yaml:"redaction"`

	Determinism   DeterminismConfig   `yaml:"determinism"`
	Store         StoreConfig         `yaml:"store"`
	Observability ObservabilityConfig `yaml:"observability"`
}

// ProviderConfig configures a single LLM provider. The pointer fields
// override the global HTTP settings for this provider only and fall
// back to HTTPConfig when nil.
type ProviderConfig struct {
	Enabled bool   `yaml:"enabled"`
	Model   string `yaml:"model"`
	APIKey  string `yaml:"apiKey"`

	Timeout        *string `yaml:"timeout,omitempty"`
	MaxRetries     *int    `yaml:"maxRetries,omitempty"`
	InitialBackoff *string `yaml:"initialBackoff,omitempty"`
	MaxBackoff     *string `yaml:"maxBackoff,omitempty"`
}

// HTTPConfig holds the HTTP client settings shared by all providers.
// Durations are strings in time.ParseDuration syntax ("60s", "2m").
type HTTPConfig struct {
	Timeout           string  `yaml:"timeout"`
	MaxRetries        int     `yaml:"maxRetries"`
	InitialBackoff    string  `yaml:"initialBackoff"`
	MaxBackoff        string  `yaml:"maxBackoff"`
	BackoffMultiplier float64 `yaml:"backoffMultiplier"`
}

// GitHubConfig configures access to the GitHub API. Token auth is the
// default; when AppID, InstallationID, and PrivateKeyPath are all set,
// GitHub App installation auth is used instead.
type GitHubConfig struct {
	Token          string `yaml:"token"`
	APIBaseURL     string `yaml:"apiBaseURL"`
	AppID          int64  `yaml:"appID"`
	InstallationID int64  `yaml:"installationID"`
	PrivateKeyPath string `yaml:"privateKeyPath"`
}

// UsesAppAuth reports whether GitHub App installation credentials are
// fully configured.
func (g GitHubConfig) UsesAppAuth() bool {
	return g.AppID != 0 && g.InstallationID != 0 && g.PrivateKeyPath != ""
}

type GitConfig struct {
	RepositoryDir string `yaml:"repositoryDir"`
}

type OutputConfig struct {
	Directory string `yaml:"directory"`
}

type RedactionConfig struct {
	Enabled    bool     `yaml:"enabled"`
	DenyGlobs  []string `yaml:"denyGlobs"`
	AllowGlobs []string `yaml:"allowGlobs"`
}

type DeterminismConfig struct {
	Enabled     bool    `yaml:"enabled"`
	Temperature float64 `yaml:"temperature"`
	UseSeed     bool    `yaml:"useSeed"`
}

// StoreConfig configures the review history database.
type StoreConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}

// ObservabilityConfig groups logging and metrics settings.
type ObservabilityConfig struct {
	Logging LoggingConfig `yaml:"logging"`
	Metrics MetricsConfig `yaml:"metrics"`
}

// LoggingConfig configures request and response logging.
type LoggingConfig struct {
	Enabled       bool   `yaml:"enabled"`
	Level         string `yaml:"level"`  // debug, info, error
	Format        string `yaml:"format"` // json, human
	RedactAPIKeys bool   `yaml:"redactAPIKeys"`
}

// MetricsConfig configures latency and cost tracking.
type MetricsConfig struct {
	Enabled bool `yaml:"enabled"`
}

// ReviewConfig configures what gets reviewed and how the result is
// posted.
type ReviewConfig struct {
	// Instructions are custom instructions prepended to every review
	// prompt, steering what the LLM looks for.
	Instructions string `yaml:"instructions"`

	// Exclude lists fnmatch-style glob patterns for files to skip.
	// Patterns match the full path and * crosses directory separators,
	// so "**/*.md" and "*.md" both exclude docs/readme.md.
	Exclude []string `yaml:"exclude"`

	// MaxFilesPerReview caps how many changed files are reviewed per
	// run. Zero means no cap.
	MaxFilesPerReview int `yaml:"maxFilesPerReview"`

	// ChunkTokenBudget is the approximate input-token budget for one
	// LLM request. Files are grouped into chunks under this budget;
	// a single oversized file becomes its own chunk.
	ChunkTokenBudget int `yaml:"chunkTokenBudget"`

	// Workers bounds how many chunk reviews run concurrently.
	Workers int `yaml:"workers"`

	// Actions picks the GitHub review event from finding severity.
	Actions ReviewActions `yaml:"actions"`

	// BotUsername is the GitHub login whose stale reviews are
	// dismissed after the new review posts successfully, so the PR
	// never loses review signal in between. "none" disables the
	// dismissal. Defaults to "github-actions[bot]".
	BotUsername string `yaml:"botUsername"`
}

// ReviewActions maps finding severities to GitHub review events. Each
// value is one of approve, comment, or request_changes (case
// insensitive). The action for the highest severity present wins.
type ReviewActions struct {
	OnCritical string `yaml:"onCritical"`
	OnHigh     string `yaml:"onHigh"`
	OnMedium   string `yaml:"onMedium"`
	OnLow      string `yaml:"onLow"`

	// OnClean applies when no findings land in the diff at all.
	OnClean string `yaml:"onClean"`

	// OnNonBlocking applies when findings exist but none of them
	// resolve to request_changes, allowing an approve with
	// informational comments.
	OnNonBlocking string `yaml:"onNonBlocking"`
}

// Merge layers configs left to right, later values winning. Sections
// that commonly arrive split across sources (provider entries, GitHub
// credentials, review settings) merge field by field, so an overlay
// carrying only an API key does not clobber the model next to it.
// The remaining sections replace wholesale once an overlay touches any
// of their fields.
func Merge(configs ...Config) Config {
	var merged Config
	for _, overlay := range configs {
		merged = overlayConfig(merged, overlay)
	}
	return merged
}

func overlayConfig(base, overlay Config) Config {
	out := base
	out.Provider = cmp.Or(overlay.Provider, base.Provider)
	out.Providers = overlayProviders(base.Providers, overlay.Providers)
	out.GitHub = overlayGitHub(base.GitHub, overlay.GitHub)
	out.Review = overlayReview(base.Review, overlay.Review)
	out.HTTP = cmp.Or(overlay.HTTP, base.HTTP)
	out.Git = cmp.Or(overlay.Git, base.Git)
	out.Output = cmp.Or(overlay.Output, base.Output)
	out.Redaction = overlayRedaction(base.Redaction, overlay.Redaction)
	out.Determinism = cmp.Or(overlay.Determinism, base.Determinism)
	out.Store = cmp.Or(overlay.Store, base.Store)
	out.Observability = ObservabilityConfig{
		Logging: cmp.Or(overlay.Observability.Logging, base.Observability.Logging),
		Metrics: cmp.Or(overlay.Observability.Metrics, base.Observability.Metrics),
	}
	return out
}

func overlayProviders(base, overlay map[string]ProviderConfig) map[string]ProviderConfig {
	if len(base) == 0 && len(overlay) == 0 {
		return nil
	}
	out := make(map[string]ProviderConfig, len(base)+len(overlay))
	for name, p := range base {
		out[name] = p
	}
	for name, p := range overlay {
		out[name] = overlayProvider(out[name], p)
	}
	return out
}

func overlayProvider(base, overlay ProviderConfig) ProviderConfig {
	return ProviderConfig{
		Enabled:        base.Enabled || overlay.Enabled,
		Model:          cmp.Or(overlay.Model, base.Model),
		APIKey:         cmp.Or(overlay.APIKey, base.APIKey),
		Timeout:        orPtr(overlay.Timeout, base.Timeout),
		MaxRetries:     orPtr(overlay.MaxRetries, base.MaxRetries),
		InitialBackoff: orPtr(overlay.InitialBackoff, base.InitialBackoff),
		MaxBackoff:     orPtr(overlay.MaxBackoff, base.MaxBackoff),
	}
}

func overlayGitHub(base, overlay GitHubConfig) GitHubConfig {
	return GitHubConfig{
		Token:          cmp.Or(overlay.Token, base.Token),
		APIBaseURL:     cmp.Or(overlay.APIBaseURL, base.APIBaseURL),
		AppID:          cmp.Or(overlay.AppID, base.AppID),
		InstallationID: cmp.Or(overlay.InstallationID, base.InstallationID),
		PrivateKeyPath: cmp.Or(overlay.PrivateKeyPath, base.PrivateKeyPath),
	}
}

func overlayReview(base, overlay ReviewConfig) ReviewConfig {
	out := ReviewConfig{
		Instructions:      cmp.Or(overlay.Instructions, base.Instructions),
		Exclude:           base.Exclude,
		MaxFilesPerReview: cmp.Or(overlay.MaxFilesPerReview, base.MaxFilesPerReview),
		ChunkTokenBudget:  cmp.Or(overlay.ChunkTokenBudget, base.ChunkTokenBudget),
		Workers:           cmp.Or(overlay.Workers, base.Workers),
		BotUsername:       cmp.Or(overlay.BotUsername, base.BotUsername),
		Actions: ReviewActions{
			OnCritical:    cmp.Or(overlay.Actions.OnCritical, base.Actions.OnCritical),
			OnHigh:        cmp.Or(overlay.Actions.OnHigh, base.Actions.OnHigh),
			OnMedium:      cmp.Or(overlay.Actions.OnMedium, base.Actions.OnMedium),
			OnLow:         cmp.Or(overlay.Actions.OnLow, base.Actions.OnLow),
			OnClean:       cmp.Or(overlay.Actions.OnClean, base.Actions.OnClean),
			OnNonBlocking: cmp.Or(overlay.Actions.OnNonBlocking, base.Actions.OnNonBlocking),
		},
	}
	if len(overlay.Exclude) > 0 {
		out.Exclude = overlay.Exclude
	}
	return out
}

func overlayRedaction(base, overlay RedactionConfig) RedactionConfig {
	if overlay.Enabled || len(overlay.DenyGlobs) > 0 || len(overlay.AllowGlobs) > 0 {
		return overlay
	}
	return base
}

// orPtr returns overlay when set, base otherwise.
func orPtr[T any](overlay, base *T) *T {
	if overlay != nil {
		return overlay
	}
	return base
}
