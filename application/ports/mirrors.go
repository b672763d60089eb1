package ports

import (
	"context"
	"time"

	"notemap-backend/domain/core/entities"
)

// ExternalRef is the opaque identifier a mirror hands back after an upsert:
// a Drive file id or a GitHub repo path.
type ExternalRef string

// DriveMirror mirrors notes to Google Drive as markdown files
type DriveMirror interface {
	// Upsert creates the file when the note has no DriveFileID yet, else
	// updates the existing file in place. Never retries internally.
	Upsert(ctx context.Context, note *entities.Note, cred entities.DriveCredential) (ExternalRef, error)

	// Delete removes the mirrored file. A not-found response from Drive is
	// treated as success.
	Delete(ctx context.Context, ref ExternalRef, cred entities.DriveCredential) error
}

// GitHubMirror mirrors notes to a GitHub repository as markdown commits
type GitHubMirror interface {
	// Upsert commits the note under its deterministic path, fetching the
	// prior content SHA first when the file already exists.
	Upsert(ctx context.Context, note *entities.Note, cred entities.GitHubCredential, owner, repo string) (ExternalRef, error)

	// Delete removes the mirrored file by path. Not-found is success.
	Delete(ctx context.Context, ref ExternalRef, cred entities.GitHubCredential, owner, repo string) error
}

// TokenRefresher performs the OAuth refresh exchange for an expired Drive
// credential. Injected so the orchestration can be tested without Google.
type TokenRefresher interface {
	Refresh(ctx context.Context, cred entities.DriveCredential) (entities.DriveCredential, error)
}

// OAuthExchanger swaps an authorization code for a Drive credential and
// produces the consent URL the client redirects to.
type OAuthExchanger interface {
	AuthURL(state string) string
	Exchange(ctx context.Context, code string) (entities.DriveCredential, error)
}

// Clock abstracts time for credential-expiry decisions
type Clock interface {
	Now() time.Time
}

// SystemClock is the production Clock
type SystemClock struct{}

// Now returns the current time
func (SystemClock) Now() time.Time { return time.Now() }
