package patch

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/rshade/adpatch/internal/batch"
	"github.com/rshade/adpatch/internal/logging"
)

// Sentinel errors returned by New and Run.
var (
	ErrEmptyBasePath = errors.New("base path must not be empty")
	ErrInvalidUTF8   = errors.New("invalid UTF-8")
)

// Outcome classifies what happened to one target file.
type Outcome int

// Per-file outcomes.
const (
	OutcomeNotFound Outcome = iota
	OutcomeAlreadyPatched
	OutcomeUpdated
	OutcomeSkipped
	OutcomeWouldUpdate
)

// String returns a lower-case name used in logs.
func (o Outcome) String() string {
	switch o {
	case OutcomeNotFound:
		return "not_found"
	case OutcomeAlreadyPatched:
		return "already_patched"
	case OutcomeUpdated:
		return "updated"
	case OutcomeSkipped:
		return "skipped"
	case OutcomeWouldUpdate:
		return "would_update"
	default:
		return "unknown"
	}
}

// Result describes one processed target.
type Result struct {
	// Path is the target as listed, relative to the base path.
	Path string

	// FullPath is the joined on-disk path.
	FullPath string

	Outcome Outcome

	// Matched lists the rules whose anchor was found.
	Matched []string

	// MissingRule names the Required rule that caused OutcomeSkipped.
	MissingRule string
}

// Summary aggregates the results of a Run.
type Summary struct {
	Total   int
	Counts  map[Outcome]int
	Elapsed time.Duration
}

// Count returns the number of results with outcome o.
func (s Summary) Count(o Outcome) int {
	return s.Counts[o]
}

// Options configures a Patcher.
type Options struct {
	// BasePath is the directory the target paths are relative to.
	BasePath string

	// Files are the target paths, slash separated, in processing order.
	Files []string

	// Rules are applied to every target that is not already patched.
	Rules RuleSet

	// DryRun computes results without writing any file.
	DryRun bool

	// Reporter receives one Report per target and a final Done. Nil
	// discards output.
	Reporter Reporter
}

// Patcher applies a RuleSet to a fixed list of files under a base path.
type Patcher struct {
	basePath string
	files    []string
	rules    RuleSet
	dryRun   bool
	reporter Reporter
}

// New validates opts and returns a Patcher.
func New(opts Options) (*Patcher, error) {
	if opts.BasePath == "" {
		return nil, ErrEmptyBasePath
	}
	reporter := opts.Reporter
	if reporter == nil {
		reporter = discardReporter{}
	}
	files := make([]string, len(opts.Files))
	copy(files, opts.Files)

	return &Patcher{
		basePath: opts.BasePath,
		files:    files,
		rules:    opts.Rules,
		dryRun:   opts.DryRun,
		reporter: reporter,
	}, nil
}

// Files returns the target list in processing order.
func (p *Patcher) Files() []string {
	out := make([]string, len(p.files))
	copy(out, p.files)
	return out
}

// FullPath joins rel onto the base path.
func (p *Patcher) FullPath(rel string) string {
	return filepath.Join(p.basePath, filepath.FromSlash(rel))
}

// Run processes every target in order and reports each result. A missing
// file is reported and skipped; any other I/O failure aborts the run and is
// returned. Files written before the failure stay written.
func (p *Patcher) Run(ctx context.Context) (Summary, error) {
	lc := logging.FromContext(ctx).With().
		Str("component", "patch").
		Str("profile", p.rules.Name).
		Str("base_path", p.basePath).
		Bool("dry_run", p.dryRun)
	if id := logging.RunIDFromContext(ctx); id != "" {
		lc = lc.Str("run_id", id)
	}
	log := lc.Logger()

	summary := Summary{Counts: make(map[Outcome]int)}
	start := time.Now()

	proc, err := batch.NewProcessor[string](1)
	if err != nil {
		return summary, err
	}
	proc.WithProgressCallback(func(progress *batch.Progress) {
		log.Debug().
			Int("processed", progress.ProcessedItems).
			Int("total", progress.TotalItems).
			Float64("percent", progress.PercentComplete()).
			Dur("elapsed", progress.ElapsedTime()).
			Bool("complete", progress.IsComplete()).
			Msg("patch progress")
	})

	log.Info().Int("files", len(p.files)).Msg("patch run started")

	err = proc.Process(ctx, p.files, func(ctx context.Context, targets []string, _ int) error {
		for _, rel := range targets {
			res, fileErr := p.PatchFile(ctx, rel)
			if fileErr != nil {
				return fileErr
			}
			summary.Total++
			summary.Counts[res.Outcome]++
			p.reporter.Report(res)
		}
		return nil
	})
	summary.Elapsed = time.Since(start)
	if err != nil {
		log.Error().Err(err).Msg("patch run aborted")
		return summary, err
	}

	log.Info().
		Int("updated", summary.Count(OutcomeUpdated)).
		Int("already_patched", summary.Count(OutcomeAlreadyPatched)).
		Int("not_found", summary.Count(OutcomeNotFound)).
		Int("skipped", summary.Count(OutcomeSkipped)).
		Dur("elapsed", summary.Elapsed).
		Msg("patch run finished")
	p.reporter.Done(summary)
	return summary, nil
}

// PatchFile processes a single target. It does not call the reporter.
func (p *Patcher) PatchFile(ctx context.Context, rel string) (Result, error) {
	log := logging.FromContext(ctx)
	res := Result{Path: rel, FullPath: p.FullPath(rel)}

	info, err := os.Stat(res.FullPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			res.Outcome = OutcomeNotFound
			return res, nil
		}
		return res, fmt.Errorf("checking %s: %w", res.FullPath, err)
	}
	if !info.Mode().IsRegular() {
		res.Outcome = OutcomeNotFound
		return res, nil
	}

	data, err := os.ReadFile(res.FullPath)
	if err != nil {
		return res, fmt.Errorf("reading %s: %w", res.FullPath, err)
	}
	if !utf8.Valid(data) {
		return res, fmt.Errorf("decoding %s: %w", res.FullPath, ErrInvalidUTF8)
	}
	content, crlf := normalizeNewlines(string(data))

	if p.rules.Patched(content) {
		res.Outcome = OutcomeAlreadyPatched
		return res, nil
	}

	tr := p.rules.Apply(content)
	res.Matched = tr.Matched
	if tr.MissingRequired != "" {
		res.Outcome = OutcomeSkipped
		res.MissingRule = tr.MissingRequired
		log.Warn().Str("file", rel).Str("rule", tr.MissingRequired).Msg("required anchor not found")
		return res, nil
	}

	log.Debug().Str("file", rel).Strs("matched", tr.Matched).Msg("rules applied")

	if p.dryRun {
		res.Outcome = OutcomeWouldUpdate
		return res, nil
	}

	out := tr.Content
	if crlf {
		out = strings.ReplaceAll(out, "\n", "\r\n")
	}
	//nolint:gosec // Page sources keep their existing permissions.
	if err := os.WriteFile(res.FullPath, []byte(out), info.Mode().Perm()); err != nil {
		return res, fmt.Errorf("writing %s: %w", res.FullPath, err)
	}
	res.Outcome = OutcomeUpdated
	return res, nil
}

// normalizeNewlines converts a CRLF file to LF so the rules see one line
// ending. It reports whether the file was CRLF, which is the case when most
// of its line breaks are CRLF; the rewritten file then uses CRLF throughout.
func normalizeNewlines(content string) (string, bool) {
	crlf := strings.Count(content, "\r\n")
	if crlf == 0 || crlf*2 < strings.Count(content, "\n") {
		return content, false
	}
	return strings.ReplaceAll(content, "\r\n", "\n"), true
}
