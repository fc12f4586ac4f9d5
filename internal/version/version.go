package version

// Version is the running utility's release version, compared against the update feed.
// Production builds set it via ldflags:
// go build -ldflags "-X github.com/6686-repos/dsmodinstaller/internal/version.Version=1.4.0".
var Version = "0.0.0-dev"

// BuildInfo contains additional build metadata.
var (
	BuildTime = "unknown"
	GitCommit = "unknown"
)

// IsDev reports whether the binary was built without a release version.
func IsDev() bool {
	return Version == "" || Version == "0.0.0-dev"
}
