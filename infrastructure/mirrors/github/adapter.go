// Package github mirrors notes to a GitHub repository as markdown commits.
package github

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/google/go-github/v60/github"
	"go.uber.org/zap"

	"notemap-backend/application/ports"
	"notemap-backend/domain/core/entities"
	"notemap-backend/domain/services"
	pkgerrors "notemap-backend/pkg/errors"
)

// Adapter implements ports.GitHubMirror via the contents API. Each write is
// one commit; updates fetch the prior blob SHA first because the contents
// API rejects updates without it.
type Adapter struct {
	renderer *services.MarkdownRenderer
	logger   *zap.Logger
	// baseURL overrides the API endpoint in tests; empty in production.
	baseURL *url.URL
}

// NewAdapter creates a GitHub mirror adapter
func NewAdapter(renderer *services.MarkdownRenderer, logger *zap.Logger) *Adapter {
	return &Adapter{renderer: renderer, logger: logger}
}

// NewAdapterWithBaseURL creates an adapter pointed at a custom API endpoint
func NewAdapterWithBaseURL(renderer *services.MarkdownRenderer, logger *zap.Logger, baseURL *url.URL) *Adapter {
	return &Adapter{renderer: renderer, logger: logger, baseURL: baseURL}
}

// NotePath maps a note title to its deterministic repository path. Every
// character outside [a-zA-Z0-9] becomes an underscore so the same title
// always lands on the same file.
func NotePath(title string) string {
	var b strings.Builder
	for _, r := range title {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		} else {
			b.WriteByte('_')
		}
	}
	return "notes/" + b.String() + ".md"
}

func (a *Adapter) client(cred entities.GitHubCredential) *github.Client {
	client := github.NewClient(nil).WithAuthToken(cred.Token)
	if a.baseURL != nil {
		client.BaseURL = a.baseURL
	}
	return client
}

// contentSHA returns the blob SHA of the file at path, or nil when the file
// does not exist yet.
func (a *Adapter) contentSHA(ctx context.Context, client *github.Client, owner, repo, path string) (*string, error) {
	content, _, resp, err := client.Repositories.GetContents(ctx, owner, repo, path, nil)
	if err != nil {
		if resp != nil && resp.StatusCode == http.StatusNotFound {
			return nil, nil
		}
		return nil, pkgerrors.NewExternalError("github", err)
	}
	if content == nil {
		return nil, pkgerrors.NewExternalError("github", fmt.Errorf("path %s is a directory", path))
	}
	return content.SHA, nil
}

// Upsert commits the rendered note. Missing file means a create commit,
// existing file means an update commit against its current SHA.
func (a *Adapter) Upsert(ctx context.Context, note *entities.Note, cred entities.GitHubCredential, owner, repo string) (ports.ExternalRef, error) {
	client := a.client(cred)
	path := NotePath(note.Title())
	body := []byte(a.renderer.RenderGitHub(note))

	sha, err := a.contentSHA(ctx, client, owner, repo, path)
	if err != nil {
		return "", err
	}

	opts := &github.RepositoryContentFileOptions{
		Content: body,
		SHA:     sha,
	}
	if sha == nil {
		opts.Message = github.String(fmt.Sprintf("Add note: %s", note.Title()))
		_, _, err = client.Repositories.CreateFile(ctx, owner, repo, path, opts)
	} else {
		opts.Message = github.String(fmt.Sprintf("Update note: %s", note.Title()))
		_, _, err = client.Repositories.UpdateFile(ctx, owner, repo, path, opts)
	}
	if err != nil {
		return "", pkgerrors.NewExternalError("github", err)
	}

	a.logger.Debug("committed note",
		zap.String("noteID", note.ID()),
		zap.String("path", path),
	)
	return ports.ExternalRef(path), nil
}

// Delete removes the mirrored file by path. A path that no longer exists is
// treated as already deleted.
func (a *Adapter) Delete(ctx context.Context, ref ports.ExternalRef, cred entities.GitHubCredential, owner, repo string) error {
	client := a.client(cred)
	path := string(ref)

	sha, err := a.contentSHA(ctx, client, owner, repo, path)
	if err != nil {
		return err
	}
	if sha == nil {
		return nil
	}

	_, _, err = client.Repositories.DeleteFile(ctx, owner, repo, path, &github.RepositoryContentFileOptions{
		Message: github.String(fmt.Sprintf("Remove note file %s", path)),
		SHA:     sha,
	})
	if err != nil {
		return pkgerrors.NewExternalError("github", err)
	}
	return nil
}

var _ ports.GitHubMirror = (*Adapter)(nil)
