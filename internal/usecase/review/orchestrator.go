package review

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/reviewbotdev/reviewbot/internal/domain"
	"github.com/reviewbotdev/reviewbot/internal/usecase/dedup"
	"github.com/reviewbotdev/reviewbot/internal/usecase/skip"
)

// Provider defines the outbound port for LLM reviews.
type Provider interface {
	Review(ctx context.Context, req ProviderRequest) (domain.Review, error)
}

// ProviderRequest describes the payload the LLM provider expects.
type ProviderRequest struct {
	Prompt  string
	Seed    uint64
	MaxSize int
}

// PullRequestFetcher retrieves pull request data from the hosting API.
type PullRequestFetcher interface {
	// FetchDiff returns the full diff of the pull request.
	FetchDiff(ctx context.Context, pr domain.PullRequest) (domain.Diff, error)

	// FetchDiffSince returns the changes between a previously reviewed commit
	// and the current head. Fails when sinceSHA no longer exists, for example
	// after a force push.
	FetchDiffSince(ctx context.Context, pr domain.PullRequest, sinceSHA string) (domain.Diff, error)

	// FetchExistingFindings returns findings the bot has already posted on the
	// pull request as inline review comments. Used to suppress repeat feedback.
	FetchExistingFindings(ctx context.Context, pr domain.PullRequest) ([]dedup.ExistingFinding, error)
}

// ReviewPoster submits a finished review to the pull request.
type ReviewPoster interface {
	PostReview(ctx context.Context, req PostRequest) (PostResult, error)
}

// PostRequest carries the reviewed diff and surviving findings to the poster.
type PostRequest struct {
	PR     domain.PullRequest
	Review domain.Review

	// Diff is the reviewed diff, used to map findings to diff positions and
	// to list binary files in the review body.
	Diff domain.Diff

	// SkippedFiles lists files dropped by the max-files cap so the review
	// body can disclose what was not looked at.
	SkippedFiles []string
}

// PostResult reports what the poster submitted.
type PostResult struct {
	ReviewID        int64
	Event           string
	CommentsPosted  int
	CommentsSkipped int
	DismissedCount  int
	HTMLURL         string
}

// GitEngine abstracts local git operations for branch reviews.
type GitEngine interface {
	// GetCumulativeDiff returns the diff between two refs (branches or commits).
	GetCumulativeDiff(ctx context.Context, baseRef, targetRef string, includeUncommitted bool) (domain.Diff, error)

	// CurrentBranch returns the name of the checked-out branch.
	CurrentBranch(ctx context.Context) (string, error)
}

// MarkdownWriter persists review output to disk.
type MarkdownWriter interface {
	Write(ctx context.Context, artifact domain.MarkdownArtifact) (string, error)
}

// JSONWriter persists review output to disk.
type JSONWriter interface {
	Write(ctx context.Context, artifact domain.JSONArtifact) (string, error)
}

// Redactor defines the outbound port for secret redaction.
type Redactor interface {
	Redact(input string) (string, error)
}

// Store defines the outbound port for persisting review history.
type Store interface {
	CreateRun(ctx context.Context, run StoreRun) error
	UpdateRunCost(ctx context.Context, runID string, totalCost float64) error
	SaveReview(ctx context.Context, review StoreReview) error
	SaveFindings(ctx context.Context, findings []StoreFinding) error
	Close() error
}

// StoreRun represents a review run for persistence.
type StoreRun struct {
	RunID      string
	Timestamp  time.Time
	Scope      string
	ConfigHash string
	TotalCost  float64
	BaseRef    string
	TargetRef  string
	Repository string
}

// StoreReview represents a review record for persistence.
type StoreReview struct {
	ReviewID  string
	RunID     string
	Provider  string
	Model     string
	Summary   string
	CreatedAt time.Time
}

// StoreFinding represents a finding record for persistence.
type StoreFinding struct {
	FindingID   string
	ReviewID    string
	FindingHash string
	File        string
	LineStart   int
	LineEnd     int
	Category    string
	Severity    string
	Description string
	Suggestion  string
	Evidence    bool
}

// PullRequestSeedFunc derives the deterministic seed for a PR review run.
type PullRequestSeedFunc func(repository string, number int, headSHA string) uint64

// BranchSeedFunc derives the deterministic seed for a local branch review.
type BranchSeedFunc func(baseRef, targetRef string) uint64

// TokenEstimator reports the approximate token count of a prompt fragment.
type TokenEstimator func(text string) int

// OrchestratorDeps captures the outbound dependencies for the orchestrator.
// Provider is always required. Fetcher, Poster, and PRSeed are required for
// pull request reviews; Git, Markdown, JSON, and BranchSeed for local reviews.
// Everything else is optional and degrades gracefully when absent.
type OrchestratorDeps struct {
	Provider Provider
	Fetcher  PullRequestFetcher
	Poster   ReviewPoster
	Git      GitEngine
	Markdown MarkdownWriter
	JSON     JSONWriter

	Redactor Redactor      // Optional: secret redaction before prompting
	Tracking TrackingStore // Optional: per-PR state for incremental reviews and dedup
	Store    Store         // Optional: persistence layer for review history
	Logger   Logger        // Optional: structured logging for warnings and info

	Estimator  TokenEstimator
	PRSeed     PullRequestSeedFunc
	BranchSeed BranchSeedFunc

	DiffComputer *DiffComputer // Auto-created from Fetcher when nil
}

// Options tunes the review pipeline. Zero values fall back to defaults.
type Options struct {
	// Exclude holds glob patterns for files to drop before review. Unlike
	// path.Match, a * here crosses directory separators.
	Exclude []string

	// MaxFilesPerReview caps how many files a single run reviews.
	// Zero means no cap.
	MaxFilesPerReview int

	// ChunkTokenBudget bounds the estimated prompt tokens per provider call.
	ChunkTokenBudget int

	// Workers is the number of concurrent provider calls.
	Workers int

	// CustomInstructions is appended to every chunk prompt.
	CustomInstructions string

	// Dedup tunes duplicate suppression against already-posted findings.
	Dedup dedup.Config
}

const (
	defaultWorkers          = 3
	defaultChunkTokenBudget = 6000
)

func (o Options) withDefaults() Options {
	if o.Workers <= 0 {
		o.Workers = defaultWorkers
	}
	if o.ChunkTokenBudget <= 0 {
		o.ChunkTokenBudget = defaultChunkTokenBudget
	}
	if o.Dedup == (dedup.Config{}) {
		o.Dedup = dedup.DefaultConfig()
	}
	return o
}

// PullRequestRequest describes an action-mode review of a pull request.
type PullRequestRequest struct {
	PR domain.PullRequest

	// OutputDir receives markdown and JSON artifacts. Empty disables them.
	OutputDir string
}

// LocalRequest describes a branch review against a local checkout.
type LocalRequest struct {
	// Repository labels artifacts and history records, e.g. "owner/repo".
	Repository string

	BaseRef   string
	TargetRef string // empty resolves to the current branch
	OutputDir string

	// IncludeUncommitted reviews working tree changes on top of the branch.
	IncludeUncommitted bool
}

// Result reports the outcome of a review run.
type Result struct {
	// Skipped is true when a skip trigger suppressed the review.
	Skipped    bool
	SkipReason string

	// NoChanges is true when the head commit was already reviewed or the
	// diff had nothing reviewable left after filtering.
	NoChanges bool

	// Review is the merged review with duplicates removed.
	Review            domain.Review
	DuplicatesSkipped int
	SkippedFiles      []string

	// Posted is set when the review was submitted to the pull request.
	Posted *PostResult

	MarkdownPath string
	JSONPath     string
}

// Orchestrator drives the review pipeline end to end.
type Orchestrator struct {
	deps    OrchestratorDeps
	opts    Options
	exclude *excludeMatcher
}

// NewOrchestrator wires the pipeline with the given dependencies and options.
func NewOrchestrator(deps OrchestratorDeps, opts Options) *Orchestrator {
	if deps.DiffComputer == nil && deps.Fetcher != nil {
		dc := NewDiffComputer(deps.Fetcher)
		if deps.Logger != nil {
			dc = dc.WithLogger(deps.Logger)
		}
		deps.DiffComputer = dc
	}
	if deps.Estimator == nil {
		deps.Estimator = func(text string) int { return len(text) / 4 }
	}
	opts = opts.withDefaults()
	return &Orchestrator{
		deps:    deps,
		opts:    opts,
		exclude: compileExcludes(opts.Exclude),
	}
}

// ReviewPullRequest runs the action pipeline for a pull request: diff,
// chunked provider review, deduplication, posting, and state tracking.
// Optional subsystems (tracking, history store, artifacts) log failures and
// continue; the call errors only when the review itself cannot be produced
// or posted.
func (o *Orchestrator) ReviewPullRequest(ctx context.Context, req PullRequestRequest) (Result, error) {
	if err := o.validatePullRequestDeps(); err != nil {
		return Result{}, err
	}
	if err := validatePullRequest(req.PR); err != nil {
		return Result{}, fmt.Errorf("invalid pull request: %w", err)
	}
	pr := req.PR

	// Honor skip triggers before spending provider tokens.
	if check := skip.Check(skip.CheckRequest{PRTitle: pr.Title, PRDescription: pr.Description}); check.ShouldSkip {
		o.logInfo(ctx, "skip trigger found, not reviewing", map[string]interface{}{
			"repository": pr.FullName(),
			"pr":         pr.Number,
			"reason":     check.Reason,
		})
		return Result{Skipped: true, SkipReason: check.Reason}, nil
	}

	// Prior state narrows synchronize diffs and feeds fingerprint dedup.
	// Losing it only costs a larger review, so load failures degrade to a
	// full one.
	var prevState *domain.ReviewState
	if o.deps.Tracking != nil {
		state, found, err := o.deps.Tracking.Load(ctx, pr)
		switch {
		case err != nil:
			o.logWarning(ctx, "failed to load tracking state, running full review", map[string]interface{}{
				"repository": pr.FullName(),
				"pr":         pr.Number,
				"error":      err.Error(),
			})
		case found:
			prevState = &state
		}
	}

	diff, err := o.deps.DiffComputer.ComputeDiff(ctx, pr, prevState)
	if err != nil {
		return Result{}, fmt.Errorf("failed to fetch diff: %w", err)
	}

	files, skippedFiles := o.selectFiles(diff.Files)
	if len(files) == 0 {
		o.logInfo(ctx, "no reviewable changes", map[string]interface{}{
			"repository": pr.FullName(),
			"pr":         pr.Number,
		})
		return Result{NoChanges: true, SkippedFiles: skippedFiles}, nil
	}

	chunks := ChunkDiff(files, o.opts.ChunkTokenBudget, o.deps.Estimator)
	seed := o.deps.PRSeed(pr.FullName(), pr.Number, pr.HeadSHA)
	promptIn := PromptInput{
		Title:              pr.Title,
		Description:        pr.Description,
		CustomInstructions: o.opts.CustomInstructions,
	}

	o.logInfo(ctx, "reviewing pull request", map[string]interface{}{
		"repository": pr.FullName(),
		"pr":         pr.Number,
		"files":      len(files),
		"chunks":     len(chunks),
	})

	chunkReviews, err := o.reviewChunks(ctx, chunks, promptIn, seed)
	if err != nil {
		return Result{}, err
	}
	merged := MergeChunkReviews(chunkReviews)

	known := map[domain.FindingFingerprint]bool{}
	if prevState != nil {
		known = prevState.KnownFingerprints()
	}
	existing, err := o.deps.Fetcher.FetchExistingFindings(ctx, pr)
	if err != nil {
		o.logWarning(ctx, "failed to list existing review comments, similarity dedup disabled for this run", map[string]interface{}{
			"repository": pr.FullName(),
			"pr":         pr.Number,
			"error":      err.Error(),
		})
		existing = nil
	}
	dedupRes := dedup.Deduplicate(merged.Findings, known, existing, o.opts.Dedup)
	final := merged
	final.Findings = dedupRes.Unique

	posted, err := o.deps.Poster.PostReview(ctx, PostRequest{
		PR:           pr,
		Review:       final,
		Diff:         diff,
		SkippedFiles: skippedFiles,
	})
	if err != nil {
		return Result{}, fmt.Errorf("failed to post review: %w", err)
	}

	if o.deps.Tracking != nil {
		o.saveTrackingState(ctx, pr, prevState, final.Findings)
	}

	res := Result{
		Review:            final,
		DuplicatesSkipped: len(dedupRes.Duplicates),
		SkippedFiles:      skippedFiles,
		Posted:            &posted,
	}
	if req.OutputDir != "" {
		mdPath, jsonPath, err := o.writeArtifacts(ctx, req.OutputDir, pr.FullName(), pr.BaseSHA, pr.HeadSHA, diff, final)
		if err != nil {
			o.logWarning(ctx, "failed to write artifacts", map[string]interface{}{"error": err.Error()})
		}
		res.MarkdownPath, res.JSONPath = mdPath, jsonPath
	}
	o.recordRun(ctx, runRecord{
		Scope:      fmt.Sprintf("%s#%d", pr.FullName(), pr.Number),
		BaseRef:    pr.BaseSHA,
		TargetRef:  pr.HeadSHA,
		Repository: pr.FullName(),
		Review:     final,
	})
	return res, nil
}

// ReviewLocal reviews a branch in a local checkout and writes artifacts.
// Nothing is posted anywhere. Unlike action mode, artifact failures are
// fatal here because the files are the only output.
func (o *Orchestrator) ReviewLocal(ctx context.Context, req LocalRequest) (Result, error) {
	if err := o.validateLocalDeps(); err != nil {
		return Result{}, err
	}
	if req.BaseRef == "" {
		return Result{}, errors.New("base ref is required")
	}

	targetRef := req.TargetRef
	if targetRef == "" {
		branch, err := o.deps.Git.CurrentBranch(ctx)
		if err != nil {
			return Result{}, fmt.Errorf("failed to resolve current branch: %w", err)
		}
		targetRef = branch
	}

	diff, err := o.deps.Git.GetCumulativeDiff(ctx, req.BaseRef, targetRef, req.IncludeUncommitted)
	if err != nil {
		return Result{}, fmt.Errorf("failed to compute diff: %w", err)
	}

	files, skippedFiles := o.selectFiles(diff.Files)
	if len(files) == 0 {
		o.logInfo(ctx, "no reviewable changes", map[string]interface{}{
			"base":   req.BaseRef,
			"target": targetRef,
		})
		return Result{NoChanges: true, SkippedFiles: skippedFiles}, nil
	}

	chunks := ChunkDiff(files, o.opts.ChunkTokenBudget, o.deps.Estimator)
	seed := o.deps.BranchSeed(req.BaseRef, targetRef)
	promptIn := PromptInput{CustomInstructions: o.opts.CustomInstructions}

	o.logInfo(ctx, "reviewing local changes", map[string]interface{}{
		"base":   req.BaseRef,
		"target": targetRef,
		"files":  len(files),
		"chunks": len(chunks),
	})

	chunkReviews, err := o.reviewChunks(ctx, chunks, promptIn, seed)
	if err != nil {
		return Result{}, err
	}
	merged := MergeChunkReviews(chunkReviews)

	// No posted findings to compare against locally, but the repeat stage
	// still collapses findings the provider reported in multiple chunks.
	dedupRes := dedup.Deduplicate(merged.Findings, nil, nil, o.opts.Dedup)
	final := merged
	final.Findings = dedupRes.Unique

	mdPath, jsonPath, err := o.writeArtifacts(ctx, req.OutputDir, req.Repository, req.BaseRef, targetRef, diff, final)
	if err != nil {
		return Result{}, err
	}
	o.recordRun(ctx, runRecord{
		Scope:      fmt.Sprintf("%s..%s", req.BaseRef, targetRef),
		BaseRef:    req.BaseRef,
		TargetRef:  targetRef,
		Repository: req.Repository,
		Review:     final,
	})
	return Result{
		Review:            final,
		DuplicatesSkipped: len(dedupRes.Duplicates),
		SkippedFiles:      skippedFiles,
		MarkdownPath:      mdPath,
		JSONPath:          jsonPath,
	}, nil
}

func (o *Orchestrator) validatePullRequestDeps() error {
	var missing []string
	if o.deps.Provider == nil {
		missing = append(missing, "Provider")
	}
	if o.deps.Fetcher == nil {
		missing = append(missing, "Fetcher")
	}
	if o.deps.Poster == nil {
		missing = append(missing, "Poster")
	}
	if o.deps.PRSeed == nil {
		missing = append(missing, "PRSeed")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required dependencies: %s", strings.Join(missing, ", "))
	}
	return nil
}

func (o *Orchestrator) validateLocalDeps() error {
	var missing []string
	if o.deps.Provider == nil {
		missing = append(missing, "Provider")
	}
	if o.deps.Git == nil {
		missing = append(missing, "Git")
	}
	if o.deps.Markdown == nil {
		missing = append(missing, "Markdown")
	}
	if o.deps.JSON == nil {
		missing = append(missing, "JSON")
	}
	if o.deps.BranchSeed == nil {
		missing = append(missing, "BranchSeed")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required dependencies: %s", strings.Join(missing, ", "))
	}
	return nil
}

func validatePullRequest(pr domain.PullRequest) error {
	if pr.Owner == "" || pr.Repo == "" {
		return errors.New("repository owner and name are required")
	}
	if pr.Number <= 0 {
		return errors.New("pull request number must be positive")
	}
	if pr.HeadSHA == "" {
		return errors.New("head SHA is required")
	}
	return nil
}

// selectFiles drops what the provider should not see: deletions, binaries,
// and excluded paths. The max-files cap trims the tail and reports the
// dropped paths so the posted review can disclose them.
func (o *Orchestrator) selectFiles(files []domain.FileDiff) (kept []domain.FileDiff, skipped []string) {
	eligible := make([]domain.FileDiff, 0, len(files))
	for _, f := range files {
		if f.Status == domain.FileStatusDeleted || f.IsBinary {
			continue
		}
		if o.exclude.matches(f.Path) {
			continue
		}
		eligible = append(eligible, f)
	}
	if o.opts.MaxFilesPerReview > 0 && len(eligible) > o.opts.MaxFilesPerReview {
		for _, f := range eligible[o.opts.MaxFilesPerReview:] {
			skipped = append(skipped, f.Path)
		}
		eligible = eligible[:o.opts.MaxFilesPerReview]
	}
	return eligible, skipped
}

type chunkResult struct {
	index  int
	review domain.Review
	err    error
}

// reviewChunks fans chunk reviews out to a bounded worker pool and collects
// them back in chunk order so merged output stays deterministic.
func (o *Orchestrator) reviewChunks(ctx context.Context, chunks []Chunk, in PromptInput, seed uint64) ([]domain.Review, error) {
	workers := o.opts.Workers
	if workers > len(chunks) {
		workers = len(chunks)
	}

	jobs := make(chan int)
	results := make(chan chunkResult, len(chunks))
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				review, err := o.reviewChunk(ctx, chunks[idx], in, seed)
				results <- chunkResult{index: idx, review: review, err: err}
			}
		}()
	}

feed:
	for i := range chunks {
		select {
		case jobs <- i:
		case <-ctx.Done():
			break feed
		}
	}
	close(jobs)
	wg.Wait()
	close(results)

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	reviews := make([]domain.Review, len(chunks))
	errs := make([]error, 0, len(chunks))
	for res := range results {
		if res.err != nil {
			errs = append(errs, fmt.Errorf("chunk %d: %w", res.index+1, res.err))
			continue
		}
		reviews[res.index] = res.review
	}
	if len(errs) > 0 {
		return nil, fmt.Errorf("%d of %d chunk review(s) failed: %w", len(errs), len(chunks), errors.Join(errs...))
	}
	return reviews, nil
}

// reviewChunk builds the prompt for one chunk and calls the provider.
// A panicking provider surfaces as a chunk error instead of killing the pool.
func (o *Orchestrator) reviewChunk(ctx context.Context, chunk Chunk, in PromptInput, seed uint64) (review domain.Review, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("provider panicked: %v", r)
		}
	}()

	in.Files = chunk.Files
	prompt := BuildPrompt(in)
	if o.deps.Redactor != nil {
		redacted, rerr := o.deps.Redactor.Redact(prompt)
		if rerr != nil {
			o.logWarning(ctx, "redaction failed, prompting with unredacted diff", map[string]interface{}{
				"error": rerr.Error(),
			})
		} else {
			prompt = redacted
		}
	}

	return o.deps.Provider.Review(ctx, ProviderRequest{
		Prompt:  prompt,
		Seed:    seed,
		MaxSize: defaultMaxTokens,
	})
}

// saveTrackingState records the reviewed head and the union of previously
// known and newly posted fingerprints.
func (o *Orchestrator) saveTrackingState(ctx context.Context, pr domain.PullRequest, prev *domain.ReviewState, posted []domain.Finding) {
	fps := make([]domain.FindingFingerprint, 0, len(posted))
	for _, f := range posted {
		fps = append(fps, f.Fingerprint())
	}
	state := domain.NewReviewState(pr, fps, time.Now().UTC())
	if prev != nil {
		state.Fingerprints = prev.MergeFingerprints(fps)
	}
	if err := o.deps.Tracking.Save(ctx, pr, state); err != nil {
		o.logWarning(ctx, "failed to save tracking state", map[string]interface{}{
			"repository": pr.FullName(),
			"pr":         pr.Number,
			"error":      err.Error(),
		})
	}
}

func (o *Orchestrator) writeArtifacts(ctx context.Context, dir, repository, baseRef, targetRef string, diff domain.Diff, review domain.Review) (string, string, error) {
	var mdPath, jsonPath string
	if o.deps.Markdown != nil {
		p, err := o.deps.Markdown.Write(ctx, domain.MarkdownArtifact{
			OutputDir:    dir,
			Repository:   repository,
			BaseRef:      baseRef,
			TargetRef:    targetRef,
			Diff:         diff,
			Review:       review,
			ProviderName: review.ProviderName,
		})
		if err != nil {
			return "", "", fmt.Errorf("failed to write markdown artifact: %w", err)
		}
		mdPath = p
	}
	if o.deps.JSON != nil {
		p, err := o.deps.JSON.Write(ctx, domain.JSONArtifact{
			OutputDir:    dir,
			Repository:   repository,
			BaseRef:      baseRef,
			TargetRef:    targetRef,
			Review:       review,
			ProviderName: review.ProviderName,
		})
		if err != nil {
			return mdPath, "", fmt.Errorf("failed to write JSON artifact: %w", err)
		}
		jsonPath = p
	}
	return mdPath, jsonPath, nil
}

type runRecord struct {
	Scope      string
	BaseRef    string
	TargetRef  string
	Repository string
	Review     domain.Review
}

// recordRun persists the run to the history store. History is best-effort;
// failures are logged and the review result stands.
func (o *Orchestrator) recordRun(ctx context.Context, rec runRecord) {
	if o.deps.Store == nil {
		return
	}
	now := time.Now()
	runID := generateRunID(now, rec.BaseRef, rec.TargetRef)
	run := StoreRun{
		RunID:      runID,
		Timestamp:  now,
		Scope:      rec.Scope,
		ConfigHash: calculateConfigHash(o.opts, rec.BaseRef, rec.TargetRef),
		BaseRef:    rec.BaseRef,
		TargetRef:  rec.TargetRef,
		Repository: rec.Repository,
	}
	if err := o.deps.Store.CreateRun(ctx, run); err != nil {
		o.logWarning(ctx, "failed to record run", map[string]interface{}{"error": err.Error()})
		return
	}
	if err := o.SaveReviewToStore(ctx, runID, rec.Review); err != nil {
		o.logWarning(ctx, "failed to save review history", map[string]interface{}{
			"runID": runID,
			"error": err.Error(),
		})
	}
	if rec.Review.Cost > 0 {
		if err := o.deps.Store.UpdateRunCost(ctx, runID, rec.Review.Cost); err != nil {
			o.logWarning(ctx, "failed to update run cost", map[string]interface{}{
				"runID": runID,
				"error": err.Error(),
			})
		}
	}
}

func (o *Orchestrator) logWarning(ctx context.Context, message string, fields map[string]interface{}) {
	if o.deps.Logger != nil {
		o.deps.Logger.LogWarning(ctx, message, fields)
		return
	}
	log.Printf("warning: %s %v", message, fields)
}

func (o *Orchestrator) logInfo(ctx context.Context, message string, fields map[string]interface{}) {
	if o.deps.Logger != nil {
		o.deps.Logger.LogInfo(ctx, message, fields)
		return
	}
	log.Printf("%s %v", message, fields)
}
