package update

import (
	"context"
	"crypto/sha512"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"hash"
	"io"
	"net/http"
	"os"
	"strings"
)

// fetch GETs url and returns the body for a 200 response.
func fetch(ctx context.Context, client *http.Client, url string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", url, err)
	}
	if resp.StatusCode != http.StatusOK {
		_ = resp.Body.Close()
		return nil, fmt.Errorf("get %s: unexpected status %s", url, resp.Status)
	}
	return resp.Body, nil
}

// download writes the artifact to a temporary file and verifies its size and sha512.
// The file is removed when verification fails.
func download(ctx context.Context, client *http.Client, url string, want File) (string, error) {
	body, err := fetch(ctx, client, url)
	if err != nil {
		return "", err
	}
	defer func() { _ = body.Close() }()

	f, err := os.CreateTemp("", "dsmodinstaller-update-*")
	if err != nil {
		return "", fmt.Errorf("create download file: %w", err)
	}
	path := f.Name()
	fail := func(err error) (string, error) {
		_ = f.Close()
		_ = os.Remove(path)
		return "", err
	}

	h := sha512.New()
	n, err := io.Copy(io.MultiWriter(f, h), body)
	if err != nil {
		return fail(fmt.Errorf("download %s: %w", url, err))
	}
	if want.Size > 0 && n != want.Size {
		return fail(fmt.Errorf("download %s: size %d, expected %d", url, n, want.Size))
	}
	if err := verifyChecksum(h, want.SHA512); err != nil {
		return fail(err)
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(path)
		return "", fmt.Errorf("close download file: %w", err)
	}
	return path, nil
}

// verifyChecksum accepts the base64 digests written by electron-builder and hex digests.
func verifyChecksum(h hash.Hash, expected string) error {
	sum := h.Sum(nil)
	expected = strings.TrimSpace(expected)
	if base64.StdEncoding.EncodeToString(sum) == expected || strings.EqualFold(hex.EncodeToString(sum), expected) {
		return nil
	}
	return fmt.Errorf("sha512 mismatch: got %s", base64.StdEncoding.EncodeToString(sum))
}
