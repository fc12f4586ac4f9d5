package commands

import (
	"bytes"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/alecthomas/kong"
	"github.com/stretchr/testify/require"

	ferrors "github.com/6686-repos/dsmodinstaller/internal/foundation/errors"
)

func newParser(t *testing.T, cli *CLI, g *Global) *kong.Kong {
	t.Helper()
	parser, err := kong.New(cli,
		kong.Name("dsmodinstaller"),
		kong.Bind(g),
		kong.Vars{"version": "test", "config_path": filepath.Join(t.TempDir(), "config.yaml")},
		kong.Exit(func(int) { t.Fatal("unexpected exit") }),
	)
	require.NoError(t, err)
	return parser
}

// writeTestConfig keeps data and logs inside the test's temp dir.
func writeTestConfig(t *testing.T, extra string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := fmt.Sprintf("app:\n  data_dir: %s\nlogging:\n  file: \"-\"\n%s", filepath.Join(dir, "data"), extra)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestRunIsDefaultCommand(t *testing.T) {
	cli := &CLI{}
	kctx, err := newParser(t, cli, &Global{}).Parse([]string{})
	require.NoError(t, err)
	require.Equal(t, "run", kctx.Command())
}

func TestGlobalFlags(t *testing.T) {
	cli := &CLI{}
	kctx, err := newParser(t, cli, &Global{}).Parse([]string{"-v", "--config", "/tmp/custom.yaml", "sync"})
	require.NoError(t, err)
	require.Equal(t, "sync", kctx.Command())
	require.True(t, cli.Verbose)
	require.Equal(t, "/tmp/custom.yaml", cli.Config)
}

func TestInitWritesConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	cli := &CLI{}
	g := &Global{}
	kctx, err := newParser(t, cli, g).Parse([]string{"--config", path, "init"})
	require.NoError(t, err)
	require.NoError(t, kctx.Run(g, cli))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(data), "sheltupdate6686")

	kctx, err = newParser(t, cli, g).Parse([]string{"--config", path, "init"})
	require.NoError(t, err)
	require.Error(t, kctx.Run(g, cli))
}

func TestCheckUpdate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = fmt.Fprint(w, "version: 9.9.9\npath: app.exe\nsha512: abc\n")
	}))
	defer srv.Close()

	cli := &CLI{}
	g := &Global{}
	cfgPath := writeTestConfig(t, "update:\n  feed_url: "+srv.URL+"/latest.yml\n")
	kctx, err := newParser(t, cli, g).Parse([]string{"--config", cfgPath, "check-update"})
	require.NoError(t, err)
	defer g.Close()

	var out bytes.Buffer
	cli.CheckUpdate.out = &out
	require.NoError(t, kctx.Run(g, cli))
	require.Contains(t, out.String(), "Update available: 9.9.9")
}

func TestCheckUpdateWithoutFeed(t *testing.T) {
	cli := &CLI{}
	g := &Global{}
	cfgPath := writeTestConfig(t, "")
	kctx, err := newParser(t, cli, g).Parse([]string{"--config", cfgPath, "check-update"})
	require.NoError(t, err)
	defer g.Close()

	err = kctx.Run(g, cli)
	require.Error(t, err)
	requireCategory(t, err, ferrors.CategoryConfig)
	require.Equal(t, 7, ferrors.NewCLIErrorAdapter(false, nil).ExitCodeFor(err))
}

func TestCheckUpdateRejectsNonPositiveTimeout(t *testing.T) {
	cli := &CLI{}
	g := &Global{}
	cfgPath := writeTestConfig(t, "")
	kctx, err := newParser(t, cli, g).Parse([]string{"--config", cfgPath, "check-update", "--feed-url", "http://127.0.0.1/latest.yml", "--timeout", "0s"})
	require.NoError(t, err)
	defer g.Close()

	err = kctx.Run(g, cli)
	requireCategory(t, err, ferrors.CategoryValidation)
	require.Equal(t, 2, ferrors.NewCLIErrorAdapter(false, nil).ExitCodeFor(err))
}

func TestCheckUpdateFeedFailureIsUpdateError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()

	cli := &CLI{}
	g := &Global{}
	cfgPath := writeTestConfig(t, "")
	kctx, err := newParser(t, cli, g).Parse([]string{"--config", cfgPath, "check-update", "--feed-url", srv.URL + "/latest.yml"})
	require.NoError(t, err)
	defer g.Close()

	err = kctx.Run(g, cli)
	requireCategory(t, err, ferrors.CategoryUpdate)
	ce, _ := ferrors.AsClassified(err)
	require.Equal(t, srv.URL+"/latest.yml", ce.Context()["feed_url"])
}

func TestExitError(t *testing.T) {
	err := &ExitError{Code: 8}
	require.Equal(t, "exit status 8", err.Error())
}

func requireCategory(t *testing.T, err error, category ferrors.ErrorCategory) {
	t.Helper()
	ce, ok := ferrors.AsClassified(err)
	require.True(t, ok, "unclassified error: %v", err)
	require.Equal(t, category, ce.Category(), "got %v", err)
}
