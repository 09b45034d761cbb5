package git

import (
	"github.com/go-git/go-git/v5/plumbing/transport"
	"github.com/go-git/go-git/v5/plumbing/transport/http"

	"git.home.luguber.info/inful/folio/internal/config"
)

// authFor returns token-based HTTP basic auth, or nil for anonymous access.
// Forges accept any non-empty username alongside a token.
func authFor(repo config.RepositoryConfig) transport.AuthMethod {
	if repo.Token == "" {
		return nil
	}
	username := repo.Username
	if username == "" {
		username = "token"
	}
	return &http.BasicAuth{Username: username, Password: repo.Token}
}
