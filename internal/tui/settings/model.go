// Package settings is the interactive settings panel: one text field for the
// note folder and one for the name format, each saved as soon as it changes.
package settings

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/mattsolo1/kettle/pkg/models"
)

// Backend is what the panel edits.
type Backend interface {
	Settings() models.Settings
	SetLocation(location string) error
	SetFormat(format string) error
	FormatExample() string
}

type field int

const (
	fieldLocation field = iota
	fieldFormat
	fieldCount
)

// Model is the settings panel.
type Model struct {
	backend  Backend
	inputs   [fieldCount]textinput.Model
	focus    field
	example  string
	err      error
	keys     keyMap
	quitting bool
}

// New creates a panel showing the backend's current settings.
func New(b Backend) Model {
	current := b.Settings()

	location := textinput.New()
	location.Prompt = "> "
	location.Placeholder = ""
	location.SetValue(current.Location)
	location.CursorEnd()

	format := textinput.New()
	format.Prompt = "> "
	format.Placeholder = models.DefaultFormat
	format.SetValue(current.Format)
	format.CursorEnd()

	m := Model{
		backend: b,
		inputs:  [fieldCount]textinput.Model{location, format},
		example: b.FormatExample(),
		keys:    defaultKeyMap,
	}
	m.inputs[fieldLocation].Focus()
	return m
}

func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Err returns the last error from saving a field.
func (m Model) Err() error {
	return m.err
}

// Example returns the rendered format example currently shown.
func (m Model) Example() string {
	return m.example
}
