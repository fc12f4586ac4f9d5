package git

import (
	"fmt"

	"github.com/go-git/go-git/v5/plumbing/transport"
	"github.com/go-git/go-git/v5/plumbing/transport/http"

	"github.com/6686-repos/dsmodinstaller/internal/config"
)

// authMethod converts repository auth settings to a go-git AuthMethod.
// A nil config means anonymous access.
func authMethod(cfg *config.AuthConfig) (transport.AuthMethod, error) {
	if cfg == nil {
		return nil, nil
	}
	switch cfg.Type {
	case "token":
		if cfg.Token == "" {
			return nil, fmt.Errorf("token authentication requires a token")
		}
		// Most Git hosting services accept any non-empty username with a token.
		username := cfg.Username
		if username == "" {
			username = "token"
		}
		return &http.BasicAuth{Username: username, Password: cfg.Token}, nil
	case "basic":
		if cfg.Username == "" || cfg.Password == "" {
			return nil, fmt.Errorf("basic authentication requires username and password")
		}
		return &http.BasicAuth{Username: cfg.Username, Password: cfg.Password}, nil
	default:
		return nil, fmt.Errorf("unsupported authentication type: %s", cfg.Type)
	}
}
