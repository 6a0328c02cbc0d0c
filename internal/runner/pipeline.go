package runner

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/shlex"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/sync/semaphore"
	"mvdan.cc/sh/v3/syntax"

	"github.com/stateful/runpad/internal/bridge"
	"github.com/stateful/runpad/internal/ulid"
)

// ErrRunInProgress is returned by Run while another run is outstanding.
var ErrRunInProgress = errors.New("a run is already in progress")

// IOError means the source could not be saved. Nothing was executed.
type IOError struct {
	Filename string
	Reason   string
}

func (e *IOError) Error() string {
	return fmt.Sprintf("failed to save %s: %s", e.Filename, e.Reason)
}

// ExecutionError describes a command that failed or wrote to stderr.
type ExecutionError struct {
	Command string
	Failed  bool
	Stderr  string
}

func (e *ExecutionError) Error() string {
	if e.Failed {
		return fmt.Sprintf("command %q failed: %s", e.Command, e.Stderr)
	}
	return fmt.Sprintf("command %q wrote to stderr: %s", e.Command, e.Stderr)
}

type Result struct {
	ID      string
	Path    string
	Command string
	Success bool
	Stdout  string
	Stderr  string

	// StdoutMIME is the detected MIME type of Stdout, if any.
	StdoutMIME string
	Duration   time.Duration
}

// Err returns an *ExecutionError when the command failed or produced
// output on stderr, and nil otherwise.
func (r *Result) Err() error {
	if r.Success && r.Stderr == "" {
		return nil
	}
	return &ExecutionError{Command: r.Command, Failed: !r.Success, Stderr: r.Stderr}
}

type Options struct {
	// Filename is the base name the source is saved under.
	Filename string
	// Interpreter is the command the saved path is appended to, for
	// example "python3 -u". It is split into words like a shell would.
	Interpreter string
}

// Pipeline saves source through a bridge and, only once the save
// succeeded, runs the interpreter on the saved file. At most one run is in
// flight at a time.
type Pipeline struct {
	bridge      bridge.Bridge
	filename    string
	interpreter []string
	logger      *zap.Logger
	inFlight    *semaphore.Weighted
}

func NewPipeline(b bridge.Bridge, opts Options, logger *zap.Logger) (*Pipeline, error) {
	if b == nil {
		return nil, errors.New("bridge is required")
	}
	if opts.Filename == "" {
		return nil, errors.New("filename is required")
	}
	interpreter, err := shlex.Split(opts.Interpreter)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid interpreter %q", opts.Interpreter)
	}
	if len(interpreter) == 0 {
		return nil, errors.New("interpreter is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Pipeline{
		bridge:      b,
		filename:    opts.Filename,
		interpreter: interpreter,
		logger:      logger,
		inFlight:    semaphore.NewWeighted(1),
	}, nil
}

// Run saves source and executes it. A failed save returns an *IOError and
// the command is never run. A command that ran is reported through Result,
// even when it failed; see [Result.Err].
func (p *Pipeline) Run(ctx context.Context, source string) (*Result, error) {
	if !p.inFlight.TryAcquire(1) {
		return nil, ErrRunInProgress
	}
	defer p.inFlight.Release(1)

	id := ulid.New()
	logger := p.logger.With(zap.String("id", id))
	started := time.Now()

	saved := p.bridge.SaveFile(ctx, p.filename, source)
	if !saved.Success {
		err := &IOError{Filename: p.filename, Reason: saved.Error}
		logger.Error("failed to save, not running", zap.Error(err))
		return nil, err
	}
	logger.Debug("saved source", zap.String("path", saved.Path))

	command, err := p.command(saved.Path)
	if err != nil {
		return nil, err
	}

	out := p.bridge.RunCommand(ctx, command)
	result := &Result{
		ID:       id,
		Path:     saved.Path,
		Command:  command,
		Success:  out.Success,
		Stdout:   out.Stdout,
		Stderr:   out.Stderr,
		Duration: time.Since(started),
	}
	if out.Stdout != "" {
		result.StdoutMIME = mimetype.Detect([]byte(out.Stdout)).String()
	}

	logger.Info(
		"run finished",
		zap.String("command", command),
		zap.Bool("success", result.Success),
		zap.Int("stdout", len(result.Stdout)),
		zap.Int("stderr", len(result.Stderr)),
		zap.String("mime", result.StdoutMIME),
		zap.Duration("duration", result.Duration),
	)
	return result, nil
}

// command quotes the interpreter words and the path into a shell command.
func (p *Pipeline) command(path string) (string, error) {
	words := append(append([]string(nil), p.interpreter...), path)
	quoted := make([]string, 0, len(words))
	for _, w := range words {
		q, err := syntax.Quote(w, syntax.LangBash)
		if err != nil {
			return "", errors.Wrapf(err, "failed to quote %q", w)
		}
		quoted = append(quoted, q)
	}
	return strings.Join(quoted, " "), nil
}
