// Package drive mirrors notes to Google Drive as markdown files.
package drive

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/oauth2"
	drive "google.golang.org/api/drive/v3"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"

	"notemap-backend/application/ports"
	"notemap-backend/domain/core/entities"
	"notemap-backend/domain/services"
	pkgerrors "notemap-backend/pkg/errors"
)

const mimeMarkdown = "text/markdown"

// Adapter implements ports.DriveMirror on the Drive v3 API. A fresh service
// is built per call because each call may carry a different user's token.
type Adapter struct {
	renderer *services.MarkdownRenderer
	logger   *zap.Logger
	// extra options appended to every service build; tests point these at a
	// local fake server.
	opts []option.ClientOption
}

// NewAdapter creates a Drive mirror adapter
func NewAdapter(renderer *services.MarkdownRenderer, logger *zap.Logger, opts ...option.ClientOption) *Adapter {
	return &Adapter{
		renderer: renderer,
		logger:   logger,
		opts:     opts,
	}
}

func (a *Adapter) service(ctx context.Context, cred entities.DriveCredential) (*drive.Service, error) {
	source := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: cred.AccessToken})
	opts := append([]option.ClientOption{option.WithTokenSource(source)}, a.opts...)
	svc, err := drive.NewService(ctx, opts...)
	if err != nil {
		return nil, pkgerrors.NewExternalError("drive", err)
	}
	return svc, nil
}

// Upsert creates the markdown file when the note has never been mirrored,
// otherwise updates the tracked file in place.
func (a *Adapter) Upsert(ctx context.Context, note *entities.Note, cred entities.DriveCredential) (ports.ExternalRef, error) {
	svc, err := a.service(ctx, cred)
	if err != nil {
		return "", err
	}

	name := note.Title() + ".md"
	body := strings.NewReader(a.renderer.RenderDrive(note))

	if note.DriveFileID() == "" {
		file, err := svc.Files.Create(&drive.File{Name: name, MimeType: mimeMarkdown}).
			Media(body).
			Fields("id").
			Context(ctx).
			Do()
		if err != nil {
			return "", pkgerrors.NewExternalError("drive", err)
		}
		a.logger.Debug("created drive file",
			zap.String("noteID", note.ID()),
			zap.String("fileID", file.Id),
		)
		return ports.ExternalRef(file.Id), nil
	}

	fileID := note.DriveFileID()
	_, err = svc.Files.Update(fileID, &drive.File{Name: name}).
		Media(body).
		Context(ctx).
		Do()
	if err != nil {
		return "", pkgerrors.NewExternalError("drive", err)
	}
	a.logger.Debug("updated drive file",
		zap.String("noteID", note.ID()),
		zap.String("fileID", fileID),
	)
	return ports.ExternalRef(fileID), nil
}

// Delete removes the mirrored file. Drive answering 404 means the file is
// already gone, which is the state we wanted.
func (a *Adapter) Delete(ctx context.Context, ref ports.ExternalRef, cred entities.DriveCredential) error {
	svc, err := a.service(ctx, cred)
	if err != nil {
		return err
	}

	if err := svc.Files.Delete(string(ref)).Context(ctx).Do(); err != nil {
		var gerr *googleapi.Error
		if errors.As(err, &gerr) && gerr.Code == 404 {
			return nil
		}
		return pkgerrors.NewExternalError("drive", err)
	}
	return nil
}

var _ ports.DriveMirror = (*Adapter)(nil)
