package update

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"golang.org/x/mod/semver"
	"gopkg.in/yaml.v3"
)

// File is one downloadable artifact of a release.
type File struct {
	URL    string `yaml:"url"`
	SHA512 string `yaml:"sha512"`
	Size   int64  `yaml:"size,omitempty"`
}

// Release is the parsed feed document.
type Release struct {
	Version     string `yaml:"version"`
	Files       []File `yaml:"files,omitempty"`
	Path        string `yaml:"path,omitempty"`
	SHA512      string `yaml:"sha512,omitempty"`
	ReleaseDate string `yaml:"releaseDate,omitempty"`
}

// ParseFeed decodes a latest.yml document.
func ParseFeed(data []byte) (*Release, error) {
	var rel Release
	if err := yaml.Unmarshal(data, &rel); err != nil {
		return nil, fmt.Errorf("parse update feed: %w", err)
	}
	if rel.Version == "" {
		return nil, errors.New("update feed has no version")
	}
	if !semver.IsValid(canonical(rel.Version)) {
		return nil, fmt.Errorf("update feed version %q is not a semantic version", rel.Version)
	}
	return &rel, nil
}

// Artifact returns the file to download. The first files entry wins; the legacy
// top-level path/sha512 pair is used when files is empty.
func (r *Release) Artifact() (File, error) {
	if len(r.Files) > 0 {
		f := r.Files[0]
		if f.URL == "" || f.SHA512 == "" {
			return File{}, errors.New("update feed file entry is missing url or sha512")
		}
		return f, nil
	}
	if r.Path == "" || r.SHA512 == "" {
		return File{}, errors.New("update feed lists no artifact")
	}
	return File{URL: r.Path, SHA512: r.SHA512}, nil
}

// IsNewer reports whether candidate is a strictly higher semantic version than current.
// Unparseable versions are never newer.
func IsNewer(candidate, current string) bool {
	c, cur := canonical(candidate), canonical(current)
	if !semver.IsValid(c) || !semver.IsValid(cur) {
		return false
	}
	return semver.Compare(c, cur) > 0
}

func canonical(v string) string {
	v = strings.TrimSpace(v)
	if !strings.HasPrefix(v, "v") {
		v = "v" + v
	}
	return v
}

// resolveURL resolves an artifact reference against the feed location.
func resolveURL(feedURL, ref string) (string, error) {
	base, err := url.Parse(feedURL)
	if err != nil {
		return "", fmt.Errorf("parse feed url: %w", err)
	}
	rel, err := url.Parse(ref)
	if err != nil {
		return "", fmt.Errorf("parse artifact url: %w", err)
	}
	return base.ResolveReference(rel).String(), nil
}
