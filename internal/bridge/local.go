package bridge

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/osfs"
	"github.com/go-git/go-billy/v5/util"
	"github.com/pkg/errors"
	"github.com/stateful/godotenv"
	"go.uber.org/zap"
	"mvdan.cc/sh/v3/expand"
	"mvdan.cc/sh/v3/interp"
	"mvdan.cc/sh/v3/syntax"

	runenv "github.com/stateful/runpad/internal/env"
)

type Options struct {
	// WritableRoot is where files are saved and commands run. Required.
	WritableRoot string
	// Home is returned by HomePath. Defaults to the user's home directory.
	Home string
	// Browse is the filesystem read by ReadDirectory and ReadFile.
	// Defaults to the host filesystem.
	Browse billy.Filesystem
	// Env is the environment of commands. Defaults to os.Environ().
	Env []string
	// EnvFiles are dotenv files, relative to WritableRoot, read before
	// every command. Later files override earlier ones and Env.
	EnvFiles []string
}

// Local is a Bridge backed by the local machine.
type Local struct {
	root     string
	writable billy.Filesystem
	browse   billy.Filesystem
	home     string
	env      []string
	envFiles []string
	logger   *zap.Logger
}

var _ Bridge = (*Local)(nil)

func NewLocal(opts Options, logger *zap.Logger) (*Local, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.WritableRoot == "" {
		return nil, errors.New("writable root is required")
	}

	root, err := filepath.Abs(opts.WritableRoot)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	if err := os.MkdirAll(root, 0o700); err != nil {
		return nil, errors.Wrapf(err, "failed to create %s", root)
	}

	home := opts.Home
	if home == "" {
		home, err = os.UserHomeDir()
		if err != nil {
			return nil, errors.WithMessage(err, "failed to resolve home directory")
		}
	}

	browse := opts.Browse
	if browse == nil {
		browse = osfs.New("/")
	}

	env := opts.Env
	if env == nil {
		env = os.Environ()
	}

	return &Local{
		root:     root,
		writable: osfs.New(root),
		browse:   browse,
		home:     home,
		env:      env,
		envFiles: opts.EnvFiles,
		logger:   logger,
	}, nil
}

// Root returns the absolute writable root.
func (l *Local) Root() string { return l.root }

func (l *Local) HomePath() string { return l.home }

func (l *Local) SaveFile(ctx context.Context, filename, content string) SaveResult {
	if err := ctx.Err(); err != nil {
		return SaveResult{Error: err.Error()}
	}
	if err := validateFilename(filename); err != nil {
		return SaveResult{Error: err.Error()}
	}

	if err := util.WriteFile(l.writable, filename, []byte(content), 0o600); err != nil {
		l.logger.Error("failed to save file", zap.String("filename", filename), zap.Error(err))
		return SaveResult{Error: err.Error()}
	}

	path := filepath.Join(l.root, filename)
	l.logger.Info("saved file", zap.String("path", path), zap.Int("size", len(content)))
	return SaveResult{Success: true, Path: path}
}

func validateFilename(filename string) error {
	if filename == "" || filename == "." || filename == ".." {
		return errors.Errorf("invalid filename %q", filename)
	}
	if filepath.Base(filename) != filename || strings.ContainsRune(filename, '/') {
		return errors.Errorf("filename %q must not contain a directory", filename)
	}
	return nil
}

func (l *Local) RunCommand(ctx context.Context, command string) CommandResult {
	logger := l.logger.With(zap.String("command", command))

	file, err := syntax.NewParser().Parse(strings.NewReader(command), "")
	if err != nil {
		logger.Info("failed to parse command", zap.Error(err))
		return CommandResult{Stderr: err.Error()}
	}

	env, err := l.loadEnv()
	if err != nil {
		logger.Info("failed to load env files", zap.Error(err))
		return CommandResult{Stderr: err.Error()}
	}

	var stdout, stderr bytes.Buffer
	runner, err := interp.New(
		interp.Dir(l.root),
		interp.Env(expand.ListEnviron(env...)),
		interp.StdIO(nil, &stdout, &stderr),
	)
	if err != nil {
		logger.Error("failed to create interpreter", zap.Error(err))
		return CommandResult{Stderr: err.Error()}
	}

	err = runner.Run(ctx, file)
	result := CommandResult{
		Success: err == nil,
		Stdout:  stdout.String(),
		Stderr:  stderr.String(),
	}
	if err != nil {
		if status, ok := interp.IsExitStatus(err); ok {
			logger.Info("command failed", zap.Uint8("exitCode", status))
		} else {
			logger.Info("command failed", zap.Error(err))
			if result.Stderr == "" {
				result.Stderr = err.Error()
			}
		}
		return result
	}

	logger.Info("command executed", zap.Int("stdout", stdout.Len()), zap.Int("stderr", stderr.Len()))
	return result
}

// loadEnv returns the base environment followed by the variables of the
// env files. Missing files are skipped.
func (l *Local) loadEnv() ([]string, error) {
	env := append([]string(nil), l.env...)

	for _, name := range l.envFiles {
		data, err := util.ReadFile(l.writable, name)
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				continue
			}
			return nil, errors.Wrapf(err, "failed to read %s", name)
		}

		parsed, _, err := godotenv.UnmarshalBytesWithComments(data)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to parse %s", name)
		}

		env = append(env, runenv.ConvertMapEnv(parsed)...)
	}

	return env, nil
}

func (l *Local) ReadDirectory(ctx context.Context, path string) DirectoryResult {
	if err := ctx.Err(); err != nil {
		return DirectoryResult{Error: err.Error()}
	}

	infos, err := l.browse.ReadDir(path)
	if err != nil {
		l.logger.Info("failed to read directory", zap.String("path", path), zap.Error(err))
		return DirectoryResult{Error: err.Error()}
	}

	files := make([]FileEntry, 0, len(infos))
	for _, info := range infos {
		typ := EntryFile
		if info.IsDir() {
			typ = EntryFolder
		}
		files = append(files, FileEntry{
			Name: info.Name(),
			Type: typ,
			Path: l.browse.Join(path, info.Name()),
		})
	}
	return DirectoryResult{Success: true, Files: files}
}

func (l *Local) ReadFile(ctx context.Context, path string) FileResult {
	if err := ctx.Err(); err != nil {
		return FileResult{Error: err.Error()}
	}

	data, err := util.ReadFile(l.browse, path)
	if err != nil {
		l.logger.Info("failed to read file", zap.String("path", path), zap.Error(err))
		return FileResult{Error: err.Error()}
	}
	return FileResult{Success: true, Content: data}
}
