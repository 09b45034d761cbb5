package git

import (
	"strings"

	ferrors "git.home.luguber.info/inful/folio/internal/foundation/errors"
)

// classifyGitError translates go-git errors into ClassifiedErrors.
func classifyGitError(err error, op, url string) error {
	if err == nil {
		return nil
	}
	if _, ok := ferrors.AsClassified(err); ok {
		return err
	}

	l := strings.ToLower(err.Error())
	var builder *ferrors.ErrorBuilder
	switch {
	case strings.Contains(l, "authentication") || strings.Contains(l, "authorization") || strings.Contains(l, "invalid credentials"):
		builder = ferrors.ConfigError("git authentication failed")
	case strings.Contains(l, "repository not found") || strings.Contains(l, "couldn't find remote ref") || strings.Contains(l, "reference not found"):
		builder = ferrors.NotFoundError("git repository or branch not found")
	case strings.Contains(l, "connection") || strings.Contains(l, "timeout") || strings.Contains(l, "no such host") || strings.Contains(l, "remote hung up"):
		builder = ferrors.NetworkError("git remote unreachable")
	default:
		builder = ferrors.GitError("git operation failed")
	}
	return builder.WithCause(err).
		WithContext("op", op).
		WithContext("url", url).
		Build()
}
