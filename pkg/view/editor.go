// Package view opens created notes for the user.
package view

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"

	"github.com/mattsolo1/kettle/pkg/models"
)

// Opener displays a note in the active view and returns once it is shown.
type Opener interface {
	Open(ctx context.Context, note *models.Note) error
}

// Resolver maps a vault-relative note path to a host path.
type Resolver interface {
	Abs(path string) string
}

// Editor opens notes in a terminal editor attached to the current terminal,
// so the note replaces what the user is looking at instead of spawning a new
// window.
type Editor struct {
	Command  string
	Resolver Resolver

	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// NewEditor returns an Editor using command, falling back to $EDITOR and
// then vim.
func NewEditor(command string, resolver Resolver) *Editor {
	return &Editor{
		Command:  command,
		Resolver: resolver,
		Stdin:    os.Stdin,
		Stdout:   os.Stdout,
		Stderr:   os.Stderr,
	}
}

// Program returns the editor that Open will run.
func (e *Editor) Program() string {
	editor := e.Command
	if editor == "" {
		editor = os.Getenv("EDITOR")
	}
	if editor == "" {
		editor = "vim" // fallback
	}
	return editor
}

func (e *Editor) Open(ctx context.Context, note *models.Note) error {
	target := note.Path
	if e.Resolver != nil {
		target = e.Resolver.Abs(note.Path)
	}

	cmd := exec.CommandContext(ctx, e.Program(), target)
	cmd.Stdin = e.Stdin
	cmd.Stdout = e.Stdout
	cmd.Stderr = e.Stderr

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("open %s: %w", note.Path, err)
	}
	return nil
}

// Nop opens nothing.
type Nop struct{}

func (Nop) Open(context.Context, *models.Note) error { return nil }
