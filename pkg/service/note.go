package service

import (
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/mattsolo1/kettle/pkg/frontmatter"
	"github.com/mattsolo1/kettle/pkg/models"
	"github.com/mattsolo1/kettle/pkg/momentfmt"
	"github.com/mattsolo1/kettle/pkg/vault"
)

// ErrUnsafeName is returned when the configured format renders a name that
// cannot be used as a single file name.
var ErrUnsafeName = errors.New("unsafe note name")

// invalidNameChars cannot appear in a note name on at least one common
// filesystem, or would split the name into folders.
const invalidNameChars = `\/:*?"<>|`

// RenderName renders the note name for now using format. An empty format
// uses models.DefaultFormat.
func RenderName(format string, now time.Time) string {
	if format == "" {
		format = models.DefaultFormat
	}
	return momentfmt.Format(now.UTC(), format)
}

// ValidateName rejects names that are empty, dot segments, or contain path
// separators, reserved characters, or control characters.
func ValidateName(name string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("%w: name is empty", ErrUnsafeName)
	}
	if name == "." || name == ".." {
		return fmt.Errorf("%w: %q", ErrUnsafeName, name)
	}
	if i := strings.IndexAny(name, invalidNameChars); i >= 0 {
		return fmt.Errorf("%w: %q contains %q", ErrUnsafeName, name, name[i])
	}
	for _, r := range name {
		if unicode.IsControl(r) {
			return fmt.Errorf("%w: %q contains a control character", ErrUnsafeName, name)
		}
	}
	return nil
}

// NotePath returns the normalized vault path for a note called name in folder.
func NotePath(folder, name string) string {
	return vault.Join(folder, name)
}

// NoteContent returns the initial document for a note created at now.
func NoteContent(now time.Time, body string, tags []string) string {
	fm := &frontmatter.Frontmatter{
		Created: frontmatter.FormatTimestamp(now),
		Tags:    tags,
	}
	return frontmatter.BuildContent(fm, body)
}

// ParseNote reads the created time and tags back out of a note's content.
// ok is false when the content has no created field.
func ParseNote(path, content string) (note *models.Note, ok bool) {
	fm, _, err := frontmatter.Parse(content)
	if err != nil || fm == nil || fm.Created == "" {
		return nil, false
	}
	created, err := frontmatter.ParseTimestamp(fm.Created)
	if err != nil {
		return nil, false
	}
	name := path[strings.LastIndex(path, "/")+1:]
	return &models.Note{
		Path:    path,
		Name:    strings.TrimSuffix(name, ".md"),
		Created: created,
		Content: content,
		Tags:    fm.Tags,
	}, true
}
