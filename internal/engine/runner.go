package engine

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// Engine executes a hydraulic and water quality analysis of a model.
// Implementations write whatever intermediate files they need under
// workDir, which the Runner creates fresh and removes afterwards.
type Engine interface {
	Name() string
	Run(ctx context.Context, m *Model, workDir string, progress func(pct int)) (*Results, error)
}

// EngineError is a failed run with the solver's own diagnostics
// preserved line by line for display.
type EngineError struct {
	Engine  string
	Stage   string // "setup", "hydraulics", "quality", "report"
	Lines   []string
	wrapped error
}

func (e *EngineError) Error() string {
	msg := fmt.Sprintf("engine %s failed during %s", e.Engine, e.Stage)
	if len(e.Lines) > 0 {
		msg += ": " + e.Lines[0]
	}
	return msg
}

func (e *EngineError) Unwrap() error { return e.wrapped }

// NewEngineError builds an EngineError from a raw diagnostic blob,
// splitting it into trimmed, non-empty lines.
func NewEngineError(engine, stage, diagnostics string, wrapped error) *EngineError {
	var lines []string
	for _, ln := range strings.Split(diagnostics, "\n") {
		if ln = strings.TrimSpace(ln); ln != "" {
			lines = append(lines, ln)
		}
	}
	return &EngineError{Engine: engine, Stage: stage, Lines: lines, wrapped: wrapped}
}

// Runner executes engines in isolated scratch directories. Each run gets
// its own directory under Root, named by a fresh UUID, and the directory
// is removed on every exit path.
type Runner struct {
	Root     string          // scratch parent, defaults to os.TempDir()
	Progress func(pct int)   // optional, called with milestones 0..100
	Keep     bool            // keep scratch dirs, for debugging a solver
}

// Run executes eng against m. The progress callback, when set, is
// invoked at least with 0 and 100 on success.
func (r *Runner) Run(ctx context.Context, eng Engine, m *Model) (*Results, error) {
	root := r.Root
	if root == "" {
		root = os.TempDir()
	}
	workDir := filepath.Join(root, "run-"+uuid.NewString())
	if err := os.MkdirAll(workDir, 0o755); err != nil {
		return nil, fmt.Errorf("create scratch dir: %w", err)
	}
	if !r.Keep {
		defer func() {
			if err := os.RemoveAll(workDir); err != nil {
				log.Printf("runner: scratch dir %s not removed: %v", workDir, err)
			}
		}()
	}

	progress := r.Progress
	if progress == nil {
		progress = func(int) {}
	}
	progress(0)

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	res, err := eng.Run(ctx, m, workDir, progress)
	if err != nil {
		return nil, err
	}
	progress(100)
	return res, nil
}
