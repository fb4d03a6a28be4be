package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/mattsolo1/kettle/pkg/frontmatter"
	"github.com/mattsolo1/kettle/pkg/history"
	"github.com/mattsolo1/kettle/pkg/models"
	"github.com/mattsolo1/kettle/pkg/notify"
	"github.com/mattsolo1/kettle/pkg/settings"
	"github.com/mattsolo1/kettle/pkg/vault"
	"github.com/mattsolo1/kettle/pkg/view"
)

var log = logrus.WithField("component", "kettle.service")

// ErrAlreadyExists is the cause of a create that found an entry at the
// target path.
var ErrAlreadyExists = errors.New("already exists")

// Clock supplies the current instant.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the wall clock.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

// Index records created notes.
type Index interface {
	Record(note *models.Note) error
	List(limit int) ([]*history.Entry, error)
	Clear() error
}

// Deps are the collaborators a Service works through. Storage and Settings
// are required.
type Deps struct {
	Clock    Clock
	Storage  vault.Storage
	Viewer   view.Opener
	Notifier notify.Sink
	Settings settings.Store
	Index    Index
}

// Service creates uniquely named notes and owns the settings record.
type Service struct {
	clock    Clock
	storage  vault.Storage
	viewer   view.Opener
	notifier notify.Sink
	store    settings.Store
	index    Index

	mu       sync.RWMutex
	settings models.Settings
}

// New creates a service and loads the settings once. Unreadable settings are
// reported and replaced by the defaults.
func New(deps Deps) (*Service, error) {
	if deps.Storage == nil {
		return nil, errors.New("service: storage is required")
	}
	if deps.Settings == nil {
		return nil, errors.New("service: settings store is required")
	}

	s := &Service{
		clock:    deps.Clock,
		storage:  deps.Storage,
		viewer:   deps.Viewer,
		notifier: deps.Notifier,
		store:    deps.Settings,
		index:    deps.Index,
	}
	if s.clock == nil {
		s.clock = SystemClock{}
	}
	if s.viewer == nil {
		s.viewer = view.Nop{}
	}
	if s.notifier == nil {
		s.notifier = notify.Multi{}
	}

	loaded, err := s.store.Load()
	if err != nil {
		log.WithError(err).Warn("could not load settings, using defaults")
	}
	s.settings = loaded

	return s, nil
}

// Status is the outcome of a create attempt.
type Status int

const (
	StatusCreated Status = iota
	StatusAlreadyExists
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusCreated:
		return "created"
	case StatusAlreadyExists:
		return "already exists"
	case StatusFailed:
		return "failed"
	}
	return fmt.Sprintf("Status(%d)", int(s))
}

// Result describes a create attempt. Err is nil only for StatusCreated.
// Note is set whenever the document was written, including when opening it
// failed afterwards.
type Result struct {
	Status Status
	Path   string
	Note   *models.Note
	Err    error
}

// CreationError is the single error kind surfaced to the user when a note
// could not be created or opened.
type CreationError struct {
	Path string
	Op   string
	Err  error
}

func (e *CreationError) Error() string {
	if errors.Is(e.Err, ErrAlreadyExists) {
		return fmt.Sprintf("%s already exists", e.Path)
	}
	return e.Err.Error()
}

func (e *CreationError) Unwrap() error {
	return e.Err
}

// CreateUniqueNote renders the note name from the current UTC time and the
// configured format, refuses to touch an existing entry, writes the
// frontmatter document and opens it.
//
// The existence check and the create are separate storage calls; the
// storage's create never overwrites, so a note that appears in between is
// reported as StatusAlreadyExists as well.
func (s *Service) CreateUniqueNote(ctx context.Context, options ...CreateOption) Result {
	opts := &createOptions{open: true}
	for _, opt := range options {
		opt(opts)
	}

	cfg := s.Settings()
	now := s.clock.Now().UTC()

	name := RenderName(cfg.Format, now)
	if err := ValidateName(name); err != nil {
		return failed("", "name", err)
	}
	p := NotePath(cfg.Location, name)
	entry := log.WithField("path", p)

	exists, err := s.storage.Exists(ctx, p)
	if err != nil {
		return failed(p, "exists", err)
	}
	if exists {
		entry.Debug("note already exists")
		return alreadyExists(p)
	}

	note, err := s.storage.Create(ctx, p, NoteContent(now, opts.body, opts.tags))
	if err != nil {
		if errors.Is(err, vault.ErrExist) {
			entry.Debug("note appeared before create")
			return alreadyExists(p)
		}
		return failed(p, "create", err)
	}
	note.Created = now
	note.Tags = opts.tags
	entry.Info("created note")

	if s.index != nil {
		if err := s.index.Record(note); err != nil {
			entry.WithError(err).Warn("failed to index note")
		}
	}

	if opts.open {
		if err := s.viewer.Open(ctx, note); err != nil {
			res := failed(p, "open", err)
			res.Note = note
			return res
		}
	}

	return Result{Status: StatusCreated, Path: p, Note: note}
}

// Run is the user-facing entry point: it creates a unique note and, when
// that does not succeed, shows exactly one notification with the error text.
func (s *Service) Run(ctx context.Context, options ...CreateOption) (*models.Note, error) {
	res := s.CreateUniqueNote(ctx, options...)
	if res.Err != nil {
		log.WithFields(logrus.Fields{
			"path":   res.Path,
			"status": res.Status.String(),
		}).WithError(res.Err).Warn("note creation failed")
		s.notifier.Show(res.Err.Error())
		return res.Note, res.Err
	}
	return res.Note, nil
}

// Settings returns a copy of the current settings.
func (s *Service) Settings() models.Settings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.settings
}

// UpdateSettings applies fn to a copy of the settings and persists it. The
// change only takes effect if it was saved.
func (s *Service) UpdateSettings(fn func(*models.Settings)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.settings
	fn(&next)
	if err := s.store.Save(next); err != nil {
		return fmt.Errorf("save settings: %w", err)
	}
	s.settings = next
	return nil
}

// SetLocation changes and persists the folder new notes are created in.
func (s *Service) SetLocation(location string) error {
	return s.UpdateSettings(func(st *models.Settings) { st.Location = location })
}

// SetFormat changes and persists the note name format.
func (s *Service) SetFormat(format string) error {
	return s.UpdateSettings(func(st *models.Settings) { st.Format = format })
}

// FormatExample renders the current format at the current time.
func (s *Service) FormatExample() string {
	return RenderName(s.Settings().Format, s.clock.Now())
}

// History lists recently created notes, newest first.
func (s *Service) History(limit int) ([]*history.Entry, error) {
	if s.index == nil {
		return nil, errors.New("history index is not configured")
	}
	return s.index.List(limit)
}

// ClearHistory forgets every recorded note. The notes themselves are not
// touched.
func (s *Service) ClearHistory() error {
	if s.index == nil {
		return errors.New("history index is not configured")
	}
	return s.index.Clear()
}

// Reindex rebuilds the history from the vault: the index is cleared, then
// every note that carries a created timestamp is recorded. It returns the
// number of notes recorded.
func (s *Service) Reindex(ctx context.Context) (int, error) {
	if s.index == nil {
		return 0, errors.New("history index is not configured")
	}
	if err := s.index.Clear(); err != nil {
		return 0, fmt.Errorf("clear index: %w", err)
	}

	count := 0
	err := s.storage.Walk(ctx, func(p string) error {
		content, err := s.storage.Read(ctx, p)
		if err != nil {
			log.WithError(err).WithField("path", p).Debug("skipping unreadable note")
			return nil
		}
		note, ok := ParseNote(p, content)
		if !ok {
			return nil
		}
		if err := s.index.Record(note); err != nil {
			return fmt.Errorf("index %s: %w", p, err)
		}
		count++
		return nil
	})
	return count, err
}

// Close releases the history index if it holds resources.
func (s *Service) Close() error {
	if c, ok := s.index.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

func alreadyExists(p string) Result {
	return Result{
		Status: StatusAlreadyExists,
		Path:   p,
		Err:    &CreationError{Path: p, Op: "exists", Err: ErrAlreadyExists},
	}
}

func failed(p, op string, err error) Result {
	return Result{
		Status: StatusFailed,
		Path:   p,
		Err:    &CreationError{Path: p, Op: op, Err: err},
	}
}

// Options for CreateUniqueNote
type createOptions struct {
	open bool
	body string
	tags []string
}

type CreateOption func(*createOptions)

// WithoutOpen skips opening the note after it is created.
func WithoutOpen() CreateOption {
	return func(o *createOptions) {
		o.open = false
	}
}

// WithBody places body after the frontmatter.
func WithBody(body string) CreateOption {
	return func(o *createOptions) {
		o.body = body
	}
}

// WithTags adds a tags field to the frontmatter.
func WithTags(tags ...string) CreateOption {
	return func(o *createOptions) {
		o.tags = frontmatter.MergeTags(o.tags, tags)
	}
}
