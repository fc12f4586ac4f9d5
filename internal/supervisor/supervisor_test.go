package supervisor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/6686-repos/dsmodinstaller/internal/config"
	"github.com/6686-repos/dsmodinstaller/internal/install"
)

type fakeHandle struct {
	pid        int
	events     *[]string
	mu         *sync.Mutex
	done       chan struct{}
	terminated int
}

func (h *fakeHandle) PID() int              { return h.pid }
func (h *fakeHandle) Done() <-chan struct{} { return h.done }
func (h *fakeHandle) ExitCode() int         { return 0 }

func (h *fakeHandle) Terminate(time.Duration) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.terminated++
	*h.events = append(*h.events, fmt.Sprintf("terminate %d", h.pid))
	return nil
}

func (h *fakeHandle) exit() { close(h.done) }

type fakeSpawner struct {
	mu      sync.Mutex
	events  []string
	handles []*fakeHandle
	err     error
}

func (f *fakeSpawner) Spawn(config.CommandConfig, string, *slog.Logger) (Handle, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	h := &fakeHandle{pid: 100 + len(f.handles), events: &f.events, mu: &f.mu, done: make(chan struct{})}
	f.handles = append(f.handles, h)
	f.events = append(f.events, fmt.Sprintf("spawn %d", h.pid))
	return h, nil
}

func (f *fakeSpawner) log() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.events...)
}

func TestStart_TerminatesPreviousBeforeHoldingNew(t *testing.T) {
	sp := &fakeSpawner{}
	s := New(config.CommandConfig{Command: "node"}, t.TempDir(), time.Second, nil, WithSpawner(sp))

	require.NoError(t, s.Start(context.Background()))
	require.Equal(t, 100, s.PID())
	require.NoError(t, s.Start(context.Background()))
	require.Equal(t, 101, s.PID())

	require.Equal(t, []string{"spawn 100", "terminate 100", "spawn 101"}, sp.log())
}

func TestStop_SignalsEvenAfterExit(t *testing.T) {
	sp := &fakeSpawner{}
	s := New(config.CommandConfig{Command: "node"}, t.TempDir(), time.Second, nil, WithSpawner(sp))
	require.NoError(t, s.Start(context.Background()))

	sp.handles[0].exit()
	require.Eventually(t, func() bool { return !s.Running() }, time.Second, 10*time.Millisecond)

	s.Stop()
	require.Equal(t, []string{"spawn 100", "terminate 100"}, sp.log())
	require.Equal(t, 0, s.PID())

	// Nothing held any more.
	s.Stop()
	require.Len(t, sp.log(), 2)
}

func TestStart_SpawnFailureHoldsNothing(t *testing.T) {
	sp := &fakeSpawner{}
	s := New(config.CommandConfig{Command: "node"}, t.TempDir(), time.Second, nil, WithSpawner(sp))
	require.NoError(t, s.Start(context.Background()))

	sp.err = &install.SpawnError{Command: "node", Err: errors.New("not found")}
	err := s.Start(context.Background())
	var se *install.SpawnError
	require.ErrorAs(t, err, &se)
	require.False(t, s.Running())
	require.Equal(t, 0, s.PID())
	require.Equal(t, []string{"spawn 100", "terminate 100"}, sp.log())
}

func TestExitFuncCalledOnChildExit(t *testing.T) {
	sp := &fakeSpawner{}
	exited := make(chan int, 1)
	s := New(config.CommandConfig{Command: "node"}, t.TempDir(), time.Second, nil,
		WithSpawner(sp), WithExitFunc(func(pid, _ int) { exited <- pid }))
	require.NoError(t, s.Start(context.Background()))

	sp.handles[0].exit()
	select {
	case pid := <-exited:
		require.Equal(t, 100, pid)
	case <-time.After(time.Second):
		t.Fatal("exit callback not called")
	}
}

// TestHelperProcess is not a real test. It is re-executed as the supervised child.
func TestHelperProcess(t *testing.T) {
	if os.Getenv("GO_WANT_HELPER_PROCESS") != "1" {
		return
	}
	args := os.Args
	for len(args) > 0 && args[0] != "--" {
		args = args[1:]
	}
	if len(args) < 2 {
		os.Exit(2)
	}
	switch args[1] {
	case "serve":
		fmt.Println("listening")
		time.Sleep(time.Minute)
		os.Exit(0)
	case "stubborn":
		ignoreTermination()
		fmt.Println("ignoring termination")
		time.Sleep(time.Minute)
		os.Exit(0)
	case "exit":
		os.Exit(7)
	}
	os.Exit(2)
}

func helperCommand(t *testing.T, mode string) config.CommandConfig {
	t.Helper()
	t.Setenv("GO_WANT_HELPER_PROCESS", "1")
	return config.CommandConfig{Command: os.Args[0], Args: []string{"-test.run=TestHelperProcess", "--", mode}}
}

func TestExecSpawner_StopTerminatesChild(t *testing.T) {
	exited := make(chan int, 1)
	s := New(helperCommand(t, "serve"), t.TempDir(), 5*time.Second, nil,
		WithExitFunc(func(_, code int) { exited <- code }))
	require.NoError(t, s.Start(context.Background()))
	require.True(t, s.Running())

	s.Stop()
	select {
	case <-exited:
	case <-time.After(5 * time.Second):
		t.Fatal("child did not exit after Stop")
	}
}

func TestExecSpawner_ReportsExitCode(t *testing.T) {
	exited := make(chan int, 1)
	s := New(helperCommand(t, "exit"), t.TempDir(), time.Second, nil,
		WithExitFunc(func(_, code int) { exited <- code }))
	require.NoError(t, s.Start(context.Background()))

	select {
	case code := <-exited:
		require.Equal(t, 7, code)
	case <-time.After(5 * time.Second):
		t.Fatal("child did not exit")
	}
	s.Stop()
}

func TestExecSpawner_MissingExecutable(t *testing.T) {
	s := New(config.CommandConfig{Command: "/nonexistent/node-binary"}, t.TempDir(), time.Second, nil)
	err := s.Start(context.Background())
	var se *install.SpawnError
	require.ErrorAs(t, err, &se)
	require.False(t, s.Running())
}

func TestExecSpawner_ShellCommandNotOnPath(t *testing.T) {
	cfg := config.CommandConfig{Command: "no-such-node-xyz", Args: []string{"src/index.js"}, Shell: true}
	s := New(cfg, t.TempDir(), time.Second, nil)
	err := s.Start(context.Background())
	var se *install.SpawnError
	require.ErrorAs(t, err, &se)
	require.False(t, s.Running())
}
