package update

import (
	"context"
	"crypto/sha512"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"

	ferrors "github.com/6686-repos/dsmodinstaller/internal/foundation/errors"
)

const feedTemplate = `version: %s
files:
  - url: %s
    sha512: %s
    size: %d
path: %s
sha512: %s
releaseDate: '2024-05-01T10:00:00.000Z'
`

type recordingEvents struct {
	mu         sync.Mutex
	available  []string
	downloaded []string
	paths      []string
	errs       []error
}

func (r *recordingEvents) UpdateAvailable(rel *Release) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.available = append(r.available, rel.Version)
}

func (r *recordingEvents) UpdateDownloaded(rel *Release, path string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.downloaded = append(r.downloaded, rel.Version)
	r.paths = append(r.paths, path)
}

func (r *recordingEvents) Error(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.errs = append(r.errs, err)
}

type feedServer struct {
	*httptest.Server
	artifactHits atomic.Int32
}

func newFeedServer(t *testing.T, version string, artifact []byte, checksum string) *feedServer {
	t.Helper()
	if checksum == "" {
		sum := sha512.Sum512(artifact)
		checksum = base64.StdEncoding.EncodeToString(sum[:])
	}
	fs := &feedServer{}
	mux := http.NewServeMux()
	mux.HandleFunc("/updates/latest.yml", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = fmt.Fprintf(w, feedTemplate, version, "app-"+version+".bin", checksum, len(artifact), "app-"+version+".bin", checksum)
	})
	mux.HandleFunc("/updates/app-"+version+".bin", func(w http.ResponseWriter, _ *http.Request) {
		fs.artifactHits.Add(1)
		_, _ = w.Write(artifact)
	})
	fs.Server = httptest.NewServer(mux)
	t.Cleanup(fs.Close)
	return fs
}

func TestParseFeed(t *testing.T) {
	rel, err := ParseFeed([]byte(fmt.Sprintf(feedTemplate, "1.2.0", "a.exe", "abc", 3, "a.exe", "abc")))
	require.NoError(t, err)
	require.Equal(t, "1.2.0", rel.Version)
	require.Len(t, rel.Files, 1)
	require.Equal(t, int64(3), rel.Files[0].Size)
	require.Equal(t, "2024-05-01T10:00:00.000Z", rel.ReleaseDate)

	_, err = ParseFeed([]byte("path: a.exe\n"))
	require.Error(t, err)
	_, err = ParseFeed([]byte("version: latest\n"))
	require.Error(t, err)
	_, err = ParseFeed([]byte("version: [\n"))
	require.Error(t, err)
}

func TestArtifactFallsBackToPath(t *testing.T) {
	rel := &Release{Version: "1.0.0", Path: "a.exe", SHA512: "abc"}
	f, err := rel.Artifact()
	require.NoError(t, err)
	require.Equal(t, "a.exe", f.URL)

	_, err = (&Release{Version: "1.0.0"}).Artifact()
	require.Error(t, err)
}

func TestIsNewer(t *testing.T) {
	require.True(t, IsNewer("1.2.0", "1.1.9"))
	require.True(t, IsNewer("v1.0.0", "0.0.0-dev"))
	require.True(t, IsNewer("1.0.0", "1.0.0-beta.1"))
	require.False(t, IsNewer("1.0.0", "1.0.0"))
	require.False(t, IsNewer("0.9.0", "1.0.0"))
	require.False(t, IsNewer("garbage", "1.0.0"))
}

func TestCheck_UpToDate(t *testing.T) {
	srv := newFeedServer(t, "1.0.0", []byte("binary"), "")
	ev := &recordingEvents{}
	c := NewChecker(srv.URL+"/updates/latest.yml", "1.0.0", ev)

	require.NoError(t, c.Check(context.Background()))
	require.Empty(t, ev.available)
	require.Empty(t, ev.downloaded)
	require.Zero(t, srv.artifactHits.Load())
}

func TestCheck_DownloadsAndVerifiesNewerVersion(t *testing.T) {
	payload := []byte("new binary contents")
	srv := newFeedServer(t, "1.1.0", payload, "")
	ev := &recordingEvents{}
	c := NewChecker(srv.URL+"/updates/latest.yml", "1.0.0", ev)

	require.NoError(t, c.Check(context.Background()))
	require.Equal(t, []string{"1.1.0"}, ev.available)
	require.Equal(t, []string{"1.1.0"}, ev.downloaded)
	t.Cleanup(func() { _ = os.Remove(ev.paths[0]) })

	data, err := os.ReadFile(ev.paths[0])
	require.NoError(t, err)
	require.Equal(t, payload, data)

	// The same version is not downloaded twice.
	require.NoError(t, c.Check(context.Background()))
	require.Equal(t, int32(1), srv.artifactHits.Load())
	require.Len(t, ev.downloaded, 1)
}

func TestCheck_ChecksumMismatchReportsError(t *testing.T) {
	bad := base64.StdEncoding.EncodeToString(make([]byte, sha512.Size))
	srv := newFeedServer(t, "2.0.0", []byte("tampered"), bad)
	ev := &recordingEvents{}
	c := NewChecker(srv.URL+"/updates/latest.yml", "1.0.0", ev)

	err := c.Check(context.Background())
	require.Error(t, err)
	require.Contains(t, err.Error(), "sha512 mismatch")
	require.Equal(t, []string{"2.0.0"}, ev.available)
	require.Empty(t, ev.downloaded)
	require.Len(t, ev.errs, 1)
}

func TestCheck_FeedUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()
	ev := &recordingEvents{}
	c := NewChecker(srv.URL+"/latest.yml", "1.0.0", ev)

	err := c.Check(context.Background())
	require.Error(t, err)
	require.Len(t, ev.errs, 1)

	ce, ok := ferrors.AsClassified(err)
	require.True(t, ok)
	require.Equal(t, ferrors.CategoryUpdate, ce.Category())
	require.Equal(t, ferrors.SeverityWarning, ce.Severity())
	require.Equal(t, srv.URL+"/latest.yml", ce.Context()["feed_url"])
}

func TestCheck_DisabledWithoutFeed(t *testing.T) {
	ev := &recordingEvents{}
	c := NewChecker("", "1.0.0", ev)
	require.False(t, c.Enabled())
	require.NoError(t, c.Check(context.Background()))
	require.Empty(t, ev.errs)

	_, err := c.Latest(context.Background())
	require.Error(t, err)
}

func TestLatest_DoesNotDownload(t *testing.T) {
	srv := newFeedServer(t, "3.0.0", []byte("x"), "")
	c := NewChecker(srv.URL+"/updates/latest.yml", "1.0.0", nil)

	st, err := c.Latest(context.Background())
	require.NoError(t, err)
	require.True(t, st.Newer)
	require.Equal(t, "3.0.0", st.Latest.Version)
	require.Zero(t, srv.artifactHits.Load())
}

type fakeDialogs struct {
	mu     sync.Mutex
	shown  []string
	button []string
	err    error
}

func (f *fakeDialogs) Info(title, _, button string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.shown = append(f.shown, title)
	f.button = append(f.button, button)
	return f.err
}

type fakeApplier struct {
	applied []string
	err     error
}

func (f *fakeApplier) Apply(path string) error {
	f.applied = append(f.applied, path)
	return f.err
}

func TestDialogEvents(t *testing.T) {
	dialogs := &fakeDialogs{}
	applier := &fakeApplier{}
	ev := NewDialogEvents(dialogs, applier, nil)
	ev.async = func(fn func()) { fn() }

	rel := &Release{Version: "1.1.0"}
	ev.UpdateAvailable(rel)
	require.Equal(t, []string{"Update Available"}, dialogs.shown)
	require.Empty(t, applier.applied)

	ev.UpdateDownloaded(rel, "/tmp/update.bin")
	require.Equal(t, []string{"Update Available", "Update Ready"}, dialogs.shown)
	require.Equal(t, []string{"OK", "Restart"}, dialogs.button)
	require.Equal(t, []string{"/tmp/update.bin"}, applier.applied)

	ev.Error(errors.New("boom"))
}

func TestDialogEvents_AppliesEvenWhenDialogFails(t *testing.T) {
	dialogs := &fakeDialogs{err: errors.New("no display")}
	applier := &fakeApplier{}
	ev := NewDialogEvents(dialogs, applier, nil)
	ev.async = func(fn func()) { fn() }

	ev.UpdateDownloaded(&Release{Version: "1.1.0"}, "/tmp/update.bin")
	require.Len(t, applier.applied, 1)
}
