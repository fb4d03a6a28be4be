// Package notify shows short-lived, user-visible messages.
package notify

import (
	"fmt"
	"io"
	"os/exec"
	"runtime"
	"sync"

	"github.com/charmbracelet/lipgloss"
	"github.com/sirupsen/logrus"
)

var log = logrus.WithField("component", "kettle.notify")

// Sink shows a message to the user. Show never blocks on the user and never
// fails the caller.
type Sink interface {
	Show(message string)
}

var noticeStyle = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder()).
	BorderForeground(lipgloss.Color("208")).
	Padding(0, 1)

// Terminal renders messages as a bordered notice on w.
type Terminal struct {
	w     io.Writer
	style lipgloss.Style
}

// NewTerminal returns a Terminal sink writing to w.
func NewTerminal(w io.Writer) *Terminal {
	return &Terminal{w: w, style: noticeStyle}
}

func (t *Terminal) Show(message string) {
	fmt.Fprintln(t.w, t.style.Render(message))
}

// Desktop sends an OS notification titled with the application name.
type Desktop struct {
	Title string

	// run is swapped in tests.
	run func(name string, args ...string) error
}

// NewDesktop returns a Desktop sink.
func NewDesktop(title string) *Desktop {
	return &Desktop{
		Title: title,
		run: func(name string, args ...string) error {
			return exec.Command(name, args...).Start()
		},
	}
}

func (d *Desktop) Show(message string) {
	name, args := desktopCommand(runtime.GOOS, d.Title, message)
	if name == "" {
		return
	}
	if err := d.run(name, args...); err != nil {
		log.WithError(err).Debug("desktop notification failed")
	}
}

func desktopCommand(goos, title, message string) (string, []string) {
	switch goos {
	case "darwin":
		script := fmt.Sprintf(`display notification %q with title %q`, message, title)
		return "osascript", []string{"-e", script}
	case "linux", "freebsd", "openbsd":
		return "notify-send", []string{title, message}
	}
	return "", nil
}

// Multi shows every message on each of its sinks.
type Multi []Sink

func (m Multi) Show(message string) {
	for _, s := range m {
		s.Show(message)
	}
}

// Recorder keeps shown messages in memory.
type Recorder struct {
	mu       sync.Mutex
	messages []string
}

func (r *Recorder) Show(message string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.messages = append(r.messages, message)
}

// Messages returns a copy of everything shown so far.
func (r *Recorder) Messages() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.messages))
	copy(out, r.messages)
	return out
}
