package services

import (
	"fmt"
	"strings"
	"time"

	"notemap-backend/domain/core/entities"
)

// MarkdownFormatVersion is embedded in every rendered document so future
// readers can detect the layout they are parsing.
const MarkdownFormatVersion = "1"

// MarkdownRenderer converts notes into their canonical markdown mirror form.
// Rendering is pure and deterministic given the note and the format version.
type MarkdownRenderer struct{}

// NewMarkdownRenderer creates a markdown renderer
func NewMarkdownRenderer() *MarkdownRenderer {
	return &MarkdownRenderer{}
}

// RenderDrive renders the Drive file form: heading, body, tags, then the
// canvas provenance (position and color).
func (r *MarkdownRenderer) RenderDrive(note *entities.Note) string {
	var b strings.Builder
	r.renderCommon(&b, note)
	fmt.Fprintf(&b, "Position: (%.2f, %.2f)\n", note.X(), note.Y())
	fmt.Fprintf(&b, "Color: %s\n", note.Color())
	r.renderFooter(&b)
	return b.String()
}

// RenderGitHub renders the commit file form: heading, body, tags, then the
// timestamp provenance.
func (r *MarkdownRenderer) RenderGitHub(note *entities.Note) string {
	var b strings.Builder
	r.renderCommon(&b, note)
	fmt.Fprintf(&b, "Created: %s\n", note.CreatedAt().UTC().Format(time.RFC3339))
	fmt.Fprintf(&b, "Modified: %s\n", note.LastModified().UTC().Format(time.RFC3339))
	r.renderFooter(&b)
	return b.String()
}

func (r *MarkdownRenderer) renderCommon(b *strings.Builder, note *entities.Note) {
	fmt.Fprintf(b, "# %s\n\n", note.Title())
	if note.Content() != "" {
		fmt.Fprintf(b, "%s\n\n", note.Content())
	}
	fmt.Fprintf(b, "Tags: %s\n", strings.Join(note.Tags(), ", "))
}

func (r *MarkdownRenderer) renderFooter(b *strings.Builder) {
	fmt.Fprintf(b, "\n<!-- notemap:format=%s -->\n", MarkdownFormatVersion)
}
