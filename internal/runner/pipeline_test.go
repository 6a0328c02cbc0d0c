package runner

import (
	"context"
	"path/filepath"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"golang.org/x/sync/errgroup"

	"github.com/stateful/runpad/internal/bridge"
	"github.com/stateful/runpad/internal/ulid"
)

type call struct {
	Method string
	Arg    string
}

type fakeBridge struct {
	bridge.Bridge

	mu      sync.Mutex
	calls   []call
	save    bridge.SaveResult
	run     bridge.CommandResult
	release chan struct{}
	started chan struct{}
}

func (b *fakeBridge) record(method, arg string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.calls = append(b.calls, call{Method: method, Arg: arg})
}

func (b *fakeBridge) Calls() []call {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]call(nil), b.calls...)
}

func (b *fakeBridge) SaveFile(_ context.Context, filename, content string) bridge.SaveResult {
	b.record("SaveFile", filename+"="+content)
	return b.save
}

func (b *fakeBridge) RunCommand(_ context.Context, command string) bridge.CommandResult {
	b.record("RunCommand", command)
	if b.started != nil {
		close(b.started)
	}
	if b.release != nil {
		<-b.release
	}
	return b.run
}

func newTestPipeline(t *testing.T, b bridge.Bridge) *Pipeline {
	t.Helper()
	p, err := NewPipeline(b, Options{Filename: "script.py", Interpreter: "python3"}, zaptest.NewLogger(t))
	require.NoError(t, err)
	return p
}

func TestPipeline_Run(t *testing.T) {
	restore := ulid.SetGenerator(func() string { return "01HF7BT3HBDTRGQAQMH51RDQEC" })
	defer restore()

	b := &fakeBridge{
		save: bridge.SaveResult{Success: true, Path: "/data/user dir/script.py"},
		run:  bridge.CommandResult{Success: true, Stdout: "1\n"},
	}
	p := newTestPipeline(t, b)

	result, err := p.Run(context.Background(), "print(1)")
	require.NoError(t, err)
	require.NoError(t, result.Err())

	expected := []call{
		{Method: "SaveFile", Arg: "script.py=print(1)"},
		{Method: "RunCommand", Arg: "python3 '/data/user dir/script.py'"},
	}
	if diff := cmp.Diff(expected, b.Calls()); diff != "" {
		t.Fatalf("unexpected calls (-want +got):\n%s", diff)
	}

	assert.Equal(t, "01HF7BT3HBDTRGQAQMH51RDQEC", result.ID)
	assert.Equal(t, "/data/user dir/script.py", result.Path)
	assert.Equal(t, "1\n", result.Stdout)
	assert.Equal(t, "text/plain; charset=utf-8", result.StdoutMIME)
}

func TestPipeline_SaveFailure(t *testing.T) {
	b := &fakeBridge{save: bridge.SaveResult{Error: "permission denied"}}
	p := newTestPipeline(t, b)

	result, err := p.Run(context.Background(), "print(1)")
	require.Nil(t, result)

	var ioErr *IOError
	require.ErrorAs(t, err, &ioErr)
	assert.Equal(t, "script.py", ioErr.Filename)
	assert.Equal(t, "permission denied", ioErr.Reason)

	calls := b.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, "SaveFile", calls[0].Method)
}

func TestPipeline_ExecutionFailure(t *testing.T) {
	b := &fakeBridge{
		save: bridge.SaveResult{Success: true, Path: "/data/script.py"},
		run:  bridge.CommandResult{Stderr: "NameError: name 'x' is not defined\n"},
	}
	p := newTestPipeline(t, b)

	result, err := p.Run(context.Background(), "print(x)")
	require.NoError(t, err)
	assert.False(t, result.Success)

	var execErr *ExecutionError
	require.ErrorAs(t, result.Err(), &execErr)
	assert.True(t, execErr.Failed)
	assert.Contains(t, execErr.Error(), "NameError")
}

func TestPipeline_StderrOnSuccess(t *testing.T) {
	b := &fakeBridge{
		save: bridge.SaveResult{Success: true, Path: "/data/script.py"},
		run:  bridge.CommandResult{Success: true, Stdout: "ok\n", Stderr: "DeprecationWarning\n"},
	}
	p := newTestPipeline(t, b)

	result, err := p.Run(context.Background(), "")
	require.NoError(t, err)

	var execErr *ExecutionError
	require.ErrorAs(t, result.Err(), &execErr)
	assert.False(t, execErr.Failed)
}

func TestPipeline_RunInProgress(t *testing.T) {
	b := &fakeBridge{
		save:    bridge.SaveResult{Success: true, Path: "/data/script.py"},
		run:     bridge.CommandResult{Success: true},
		started: make(chan struct{}),
		release: make(chan struct{}),
	}
	p := newTestPipeline(t, b)

	var g errgroup.Group
	g.Go(func() error {
		_, err := p.Run(context.Background(), "first")
		return err
	})

	<-b.started
	_, err := p.Run(context.Background(), "second")
	require.ErrorIs(t, err, ErrRunInProgress)

	close(b.release)
	require.NoError(t, g.Wait())

	// The slot is free again.
	b.started, b.release = nil, nil
	_, err = p.Run(context.Background(), "third")
	require.NoError(t, err)

	var saves int
	for _, c := range b.Calls() {
		if c.Method == "SaveFile" {
			saves++
		}
	}
	assert.Equal(t, 2, saves)
}

func TestPipeline_LocalBridge(t *testing.T) {
	local, err := bridge.NewLocal(bridge.Options{
		WritableRoot: filepath.Join(t.TempDir(), "user data"),
		Home:         t.TempDir(),
		Env:          []string{},
	}, zaptest.NewLogger(t))
	require.NoError(t, err)

	p, err := NewPipeline(local, Options{Filename: "script.sh", Interpreter: "source"}, zaptest.NewLogger(t))
	require.NoError(t, err)

	result, err := p.Run(context.Background(), "echo one\necho two >&2\n")
	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Equal(t, "one\n", result.Stdout)
	assert.Equal(t, "two\n", result.Stderr)
	assert.Equal(t, filepath.Join(local.Root(), "script.sh"), result.Path)
}

func TestNewPipeline_Invalid(t *testing.T) {
	_, err := NewPipeline(nil, Options{Filename: "a", Interpreter: "b"}, nil)
	require.Error(t, err)
	_, err = NewPipeline(&fakeBridge{}, Options{Interpreter: "b"}, nil)
	require.Error(t, err)
	_, err = NewPipeline(&fakeBridge{}, Options{Filename: "a"}, nil)
	require.Error(t, err)
	_, err = NewPipeline(&fakeBridge{}, Options{Filename: "a", Interpreter: `"unterminated`}, nil)
	require.Error(t, err)
}

func TestPipeline_InterpreterArgs(t *testing.T) {
	b := &fakeBridge{
		save: bridge.SaveResult{Success: true, Path: "/data/script.py"},
		run:  bridge.CommandResult{Success: true},
	}
	p, err := NewPipeline(b, Options{Filename: "script.py", Interpreter: `"/opt/my python/bin/python3" -u -W ignore`}, zaptest.NewLogger(t))
	require.NoError(t, err)

	result, err := p.Run(context.Background(), "pass")
	require.NoError(t, err)
	assert.Equal(t, `'/opt/my python/bin/python3' -u -W ignore /data/script.py`, result.Command)
	assert.Empty(t, result.StdoutMIME)
}
