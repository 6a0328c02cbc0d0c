// Package explorer browses the host filesystem through a bridge and opens
// text files for the editor.
package explorer

import (
	"context"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/gabriel-vasile/mimetype"
	"github.com/go-git/go-git/v5/plumbing/format/gitignore"
	"github.com/gobwas/glob"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/stateful/runpad/internal/bridge"
)

var (
	ErrBinaryFile = errors.New("binary file")
	ErrNotUTF8    = errors.New("text is not UTF-8 encoded")
	ErrNotFolder  = errors.New("not a folder")
	ErrNotFile    = errors.New("not a file")
)

const gitignoreFile = ".gitignore"

// Filter reports whether an entry should be listed.
type Filter func(bridge.FileEntry) (bool, error)

type Options struct {
	// Ignore hides entries whose name matches any of the glob patterns.
	Ignore []string
	// RespectGitignore hides entries matched by .gitignore files of the
	// listed folders.
	RespectGitignore bool
	// Filters hide entries for which any filter returns false.
	Filters []Filter
}

// Selection is an opened file.
type Selection struct {
	Entry    bridge.FileEntry
	Content  string
	MIMEType string
}

type Explorer struct {
	bridge    bridge.Bridge
	ignore    []glob.Glob
	gitignore bool
	filters   []Filter
	logger    *zap.Logger

	mu       sync.Mutex
	root     string
	children map[string][]bridge.FileEntry
	patterns map[string][]gitignore.Pattern
}

func New(b bridge.Bridge, opts Options, logger *zap.Logger) (*Explorer, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	globs := make([]glob.Glob, 0, len(opts.Ignore))
	for _, pattern := range opts.Ignore {
		g, err := glob.Compile(pattern)
		if err != nil {
			return nil, errors.Wrapf(err, "invalid ignore pattern %q", pattern)
		}
		globs = append(globs, g)
	}

	return &Explorer{
		bridge:    b,
		ignore:    globs,
		gitignore: opts.RespectGitignore,
		filters:   opts.Filters,
		logger:    logger,
		children:  make(map[string][]bridge.FileEntry),
		patterns:  make(map[string][]gitignore.Pattern),
	}, nil
}

// Root lists path, or the home directory when path is empty, and makes it
// the root of the tree. Previously expanded folders are forgotten.
func (e *Explorer) Root(ctx context.Context, path string) ([]bridge.FileEntry, error) {
	if path == "" {
		path = e.bridge.HomePath()
	}

	e.mu.Lock()
	e.root = path
	e.children = make(map[string][]bridge.FileEntry)
	e.patterns = make(map[string][]gitignore.Pattern)
	e.mu.Unlock()

	return e.list(ctx, path)
}

// Expand returns the children of a folder. They are read once and cached.
func (e *Explorer) Expand(ctx context.Context, entry bridge.FileEntry) ([]bridge.FileEntry, error) {
	if !entry.IsFolder() {
		return nil, errors.Wrap(ErrNotFolder, entry.Path)
	}

	e.mu.Lock()
	cached, ok := e.children[entry.Path]
	e.mu.Unlock()
	if ok {
		return cached, nil
	}

	return e.list(ctx, entry.Path)
}

// Open reads a text file. Binary content is refused with ErrBinaryFile
// and text in another encoding than UTF-8 with ErrNotUTF8.
func (e *Explorer) Open(ctx context.Context, entry bridge.FileEntry) (*Selection, error) {
	if entry.IsFolder() {
		return nil, errors.Wrap(ErrNotFile, entry.Path)
	}

	result := e.bridge.ReadFile(ctx, entry.Path)
	if !result.Success {
		return nil, errors.Errorf("failed to read %s: %s", entry.Path, result.Error)
	}

	mtype := mimetype.Detect(result.Content)
	if !isText(mtype) {
		e.logger.Info("refusing to open binary file", zap.String("path", entry.Path), zap.String("mime", mtype.String()))
		return nil, errors.Wrapf(ErrBinaryFile, "%s (%s)", entry.Path, mtype.String())
	}
	if !utf8.Valid(result.Content) {
		e.logger.Info("refusing to open non-UTF-8 file", zap.String("path", entry.Path), zap.String("mime", mtype.String()))
		return nil, errors.Wrapf(ErrNotUTF8, "%s (%s)", entry.Path, mtype.String())
	}

	return &Selection{
		Entry:    entry,
		Content:  string(result.Content),
		MIMEType: mtype.String(),
	}, nil
}

func isText(mtype *mimetype.MIME) bool {
	for m := mtype; m != nil; m = m.Parent() {
		if m.Is("text/plain") {
			return true
		}
	}
	return false
}

func (e *Explorer) list(ctx context.Context, dir string) ([]bridge.FileEntry, error) {
	result := e.bridge.ReadDirectory(ctx, dir)
	if !result.Success {
		return nil, errors.Errorf("failed to read directory %s: %s", dir, result.Error)
	}

	var patterns []gitignore.Pattern
	if e.gitignore {
		patterns = e.loadPatterns(ctx, dir)
	}
	matcher := gitignore.NewMatcher(patterns)

	entries := make([]bridge.FileEntry, 0, len(result.Files))
	for _, entry := range result.Files {
		if e.ignored(entry, matcher) {
			continue
		}
		keep, err := e.filter(entry)
		if err != nil {
			return nil, err
		}
		if keep {
			entries = append(entries, entry)
		}
	}
	sortEntries(entries)

	e.mu.Lock()
	e.children[dir] = entries
	e.mu.Unlock()

	e.logger.Debug("listed directory", zap.String("path", dir), zap.Int("entries", len(entries)), zap.Int("hidden", len(result.Files)-len(entries)))
	return entries, nil
}

func (e *Explorer) ignored(entry bridge.FileEntry, matcher gitignore.Matcher) bool {
	for _, g := range e.ignore {
		if g.Match(entry.Name) {
			return true
		}
	}
	if rel, ok := e.relative(entry.Path); ok && matcher.Match(rel, entry.IsFolder()) {
		return true
	}
	return false
}

func (e *Explorer) filter(entry bridge.FileEntry) (bool, error) {
	for _, f := range e.filters {
		keep, err := f(entry)
		if err != nil {
			return false, errors.WithMessagef(err, "failed to filter %s", entry.Path)
		}
		if !keep {
			return false, nil
		}
	}
	return true, nil
}

// loadPatterns returns the .gitignore patterns in effect for dir: those of
// its parent, when it was listed before, plus the ones of dir itself.
func (e *Explorer) loadPatterns(ctx context.Context, dir string) []gitignore.Pattern {
	e.mu.Lock()
	inherited := e.patterns[filepath.Dir(dir)]
	e.mu.Unlock()

	patterns := append([]gitignore.Pattern(nil), inherited...)

	domain, _ := e.relative(dir)
	result := e.bridge.ReadFile(ctx, filepath.Join(dir, gitignoreFile))
	if result.Success {
		for _, line := range strings.Split(string(result.Content), "\n") {
			line = strings.TrimRight(line, "\r")
			if line == "" || strings.HasPrefix(line, "#") {
				continue
			}
			patterns = append(patterns, gitignore.ParsePattern(line, domain))
		}
	}

	e.mu.Lock()
	e.patterns[dir] = patterns
	e.mu.Unlock()

	return patterns
}

// relative splits path into components relative to the root.
func (e *Explorer) relative(path string) ([]string, bool) {
	e.mu.Lock()
	root := e.root
	e.mu.Unlock()

	rel, err := filepath.Rel(root, path)
	if err != nil || rel == ".." || strings.HasPrefix(rel, "../") {
		return nil, false
	}
	if rel == "." {
		return []string{}, true
	}
	return strings.Split(filepath.ToSlash(rel), "/"), true
}

// sortEntries orders folders before files, then by name.
func sortEntries(entries []bridge.FileEntry) {
	sort.SliceStable(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if a.IsFolder() != b.IsFolder() {
			return a.IsFolder()
		}
		return strings.ToLower(a.Name) < strings.ToLower(b.Name)
	})
}
