package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mattsolo1/kettle/pkg/history"
	"github.com/mattsolo1/kettle/pkg/models"
	"github.com/mattsolo1/kettle/pkg/notify"
	"github.com/mattsolo1/kettle/pkg/settings"
	"github.com/mattsolo1/kettle/pkg/vault"
)

var noon = time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

type fixedClock struct{ t time.Time }

func (c *fixedClock) Now() time.Time { return c.t }

type recordingOpener struct {
	opened []*models.Note
	err    error
}

func (o *recordingOpener) Open(_ context.Context, note *models.Note) error {
	o.opened = append(o.opened, note)
	return o.err
}

type memIndex struct {
	notes []*models.Note
	err   error
}

func (i *memIndex) Record(note *models.Note) error {
	if i.err != nil {
		return i.err
	}
	i.notes = append(i.notes, note)
	return nil
}

func (i *memIndex) Clear() error {
	i.notes = nil
	return nil
}

func (i *memIndex) List(limit int) ([]*history.Entry, error) {
	var out []*history.Entry
	for _, n := range i.notes {
		out = append(out, &history.Entry{Path: n.Path, Name: n.Name, CreatedAt: n.Created})
	}
	return out, nil
}

type failingStore struct{}

func (failingStore) Load() (models.Settings, error) { return models.DefaultSettings(), nil }
func (failingStore) Save(models.Settings) error     { return errors.New("disk full") }

// racyStorage reports that nothing exists, then finds the note on create.
type racyStorage struct {
	*vault.FS
}

func (r racyStorage) Exists(context.Context, string) (bool, error) { return false, nil }

type fixture struct {
	svc      *Service
	vault    *vault.FS
	store    *settings.FileStore
	clock    *fixedClock
	opener   *recordingOpener
	notifier *notify.Recorder
	index    *memIndex
}

func newFixture(t *testing.T, cfg models.Settings) *fixture {
	t.Helper()

	v := vault.NewMemFS("/vault")
	require.NoError(t, v.Afero().MkdirAll("/Notes", 0755))

	store := settings.NewFileStore(afero.NewMemMapFs(), "/vault/.kettle/settings.yml")
	require.NoError(t, store.Save(cfg))

	f := &fixture{
		vault:    v,
		store:    store,
		clock:    &fixedClock{t: noon},
		opener:   &recordingOpener{},
		notifier: &notify.Recorder{},
		index:    &memIndex{},
	}
	svc, err := New(Deps{
		Clock:    f.clock,
		Storage:  v,
		Viewer:   f.opener,
		Notifier: f.notifier,
		Settings: store,
		Index:    f.index,
	})
	require.NoError(t, err)
	f.svc = svc
	return f
}

func (f *fixture) markdownFiles(t *testing.T) []string {
	t.Helper()
	var paths []string
	require.NoError(t, f.vault.Walk(context.Background(), func(p string) error {
		paths = append(paths, p)
		return nil
	}))
	return paths
}

func TestCreateUniqueNote(t *testing.T) {
	f := newFixture(t, models.Settings{Location: "Notes", Format: "YYYYMMDD_kkmmss"})

	res := f.svc.CreateUniqueNote(context.Background())
	require.NoError(t, res.Err)
	assert.Equal(t, StatusCreated, res.Status)
	assert.Equal(t, "Notes/20240101_120000.md", res.Path)

	content, err := f.vault.Read(context.Background(), "Notes/20240101_120000.md")
	require.NoError(t, err)
	assert.Equal(t, "---\ncreated: 2024-01-01T12:00:00Z\n---\n\n", content)

	require.Len(t, f.opener.opened, 1)
	assert.Equal(t, "Notes/20240101_120000.md", f.opener.opened[0].Path)
	assert.Equal(t, "20240101_120000", f.opener.opened[0].Name)
	assert.True(t, f.opener.opened[0].Created.Equal(noon))
	assert.Empty(t, f.notifier.Messages())

	require.Len(t, f.index.notes, 1)
	assert.Equal(t, "Notes/20240101_120000.md", f.index.notes[0].Path)
}

func TestCreateAtVaultRoot(t *testing.T) {
	f := newFixture(t, models.Settings{Location: "", Format: "[X]"})

	res := f.svc.CreateUniqueNote(context.Background())
	require.NoError(t, res.Err)
	assert.Equal(t, "X.md", res.Path)

	ok, err := f.vault.Exists(context.Background(), "X.md")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestCreateUsesUTC(t *testing.T) {
	f := newFixture(t, models.Settings{Location: "Notes", Format: "YYYYMMDD_kkmmss"})
	f.clock.t = time.Date(2024, 1, 1, 14, 0, 0, 0, time.FixedZone("UTC+2", 2*60*60))

	res := f.svc.CreateUniqueNote(context.Background())
	require.NoError(t, res.Err)
	assert.Equal(t, "Notes/20240101_120000.md", res.Path)
	assert.Equal(t, "---\ncreated: 2024-01-01T12:00:00Z\n---\n\n", res.Note.Content)
}

func TestRunTwiceWithCoarseFormatFailsSecondTime(t *testing.T) {
	f := newFixture(t, models.Settings{Location: "Notes", Format: "YYYYMMDD"})
	ctx := context.Background()

	note, err := f.svc.Run(ctx)
	require.NoError(t, err)
	require.NotNil(t, note)

	f.clock.t = noon.Add(time.Second)
	note, err = f.svc.Run(ctx)
	require.Error(t, err)
	assert.Nil(t, note)
	assert.True(t, errors.Is(err, ErrAlreadyExists))

	var cerr *CreationError
	require.True(t, errors.As(err, &cerr))
	assert.Equal(t, "Notes/20240101.md", cerr.Path)

	assert.Equal(t, []string{"Notes/20240101.md already exists"}, f.notifier.Messages())
	assert.Len(t, f.opener.opened, 1)
	assert.Equal(t, []string{"Notes/20240101.md"}, f.markdownFiles(t))

	content, err := f.vault.Read(ctx, "Notes/20240101.md")
	require.NoError(t, err)
	assert.Equal(t, "---\ncreated: 2024-01-01T12:00:00Z\n---\n\n", content)
}

func TestCreateRaceIsReportedAsAlreadyExists(t *testing.T) {
	f := newFixture(t, models.Settings{Location: "Notes", Format: "YYYYMMDD"})
	ctx := context.Background()
	_, err := f.vault.Create(ctx, "Notes/20240101.md", "existing")
	require.NoError(t, err)

	svc, err := New(Deps{Clock: f.clock, Storage: racyStorage{f.vault}, Viewer: f.opener, Settings: f.store})
	require.NoError(t, err)

	res := svc.CreateUniqueNote(ctx)
	assert.Equal(t, StatusAlreadyExists, res.Status)
	assert.ErrorIs(t, res.Err, ErrAlreadyExists)
	assert.Empty(t, f.opener.opened)

	content, err := f.vault.Read(ctx, "Notes/20240101.md")
	require.NoError(t, err)
	assert.Equal(t, "existing", content)
}

func TestCreateFailsWhenFolderMissing(t *testing.T) {
	f := newFixture(t, models.Settings{Location: "Missing", Format: "YYYYMMDD_kkmmss"})

	_, err := f.svc.Run(context.Background())
	require.Error(t, err)

	var cerr *CreationError
	require.True(t, errors.As(err, &cerr))
	assert.Equal(t, "create", cerr.Op)
	assert.False(t, errors.Is(err, ErrAlreadyExists))

	msgs := f.notifier.Messages()
	require.Len(t, msgs, 1)
	assert.Contains(t, msgs[0], "Missing")
	assert.Empty(t, f.markdownFiles(t))
	assert.Empty(t, f.opener.opened)
	assert.Empty(t, f.index.notes)
}

func TestOpenFailureIsNotified(t *testing.T) {
	f := newFixture(t, models.Settings{Location: "Notes", Format: "YYYYMMDD_kkmmss"})
	f.opener.err = errors.New("editor crashed")

	res := f.svc.CreateUniqueNote(context.Background())
	assert.Equal(t, StatusFailed, res.Status)
	require.NotNil(t, res.Note)
	assert.Equal(t, "Notes/20240101_120000.md", res.Note.Path)

	var cerr *CreationError
	require.True(t, errors.As(res.Err, &cerr))
	assert.Equal(t, "open", cerr.Op)

	_, err := f.svc.Run(context.Background())
	require.Error(t, err)
}

func TestUnsafeFormatIsRejected(t *testing.T) {
	for _, format := range []string{"YYYY/MM", "YYYY:MM", "[..]", "[ ]"} {
		t.Run(format, func(t *testing.T) {
			f := newFixture(t, models.Settings{Location: "Notes", Format: format})

			_, err := f.svc.Run(context.Background())
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrUnsafeName)
			assert.Len(t, f.notifier.Messages(), 1)
			assert.Empty(t, f.markdownFiles(t))
		})
	}
}

func TestEmptyFormatUsesDefault(t *testing.T) {
	f := newFixture(t, models.Settings{Location: "Notes", Format: ""})

	res := f.svc.CreateUniqueNote(context.Background())
	require.NoError(t, res.Err)
	assert.Equal(t, "Notes/20240101_120000.md", res.Path)
}

func TestCreateOptions(t *testing.T) {
	f := newFixture(t, models.Settings{Location: "Notes", Format: "YYYYMMDD_kkmmss"})

	res := f.svc.CreateUniqueNote(context.Background(),
		WithoutOpen(),
		WithBody("Remember the milk\n"),
		WithTags("inbox", "errand", "inbox"),
	)
	require.NoError(t, res.Err)
	assert.Empty(t, f.opener.opened)
	assert.Equal(t, []string{"inbox", "errand"}, res.Note.Tags)
	assert.Equal(t,
		"---\ncreated: 2024-01-01T12:00:00Z\ntags: [inbox, errand]\n---\n\nRemember the milk\n",
		res.Note.Content)
}

func TestIndexFailureDoesNotFailCreate(t *testing.T) {
	f := newFixture(t, models.Settings{Location: "Notes", Format: "YYYYMMDD_kkmmss"})
	f.index.err = errors.New("database locked")

	res := f.svc.CreateUniqueNote(context.Background())
	require.NoError(t, res.Err)
	assert.Equal(t, StatusCreated, res.Status)
	assert.Empty(t, f.notifier.Messages())
}

// Every invocation either creates and opens exactly one note, or notifies
// exactly once and creates nothing.
func TestExactlyOneOutcome(t *testing.T) {
	cases := []struct {
		name     string
		settings models.Settings
		preexist string
	}{
		{"fresh", models.Settings{Location: "Notes", Format: "YYYYMMDD_kkmmss"}, ""},
		{"collision", models.Settings{Location: "Notes", Format: "YYYYMMDD_kkmmss"}, "Notes/20240101_120000.md"},
		{"missing folder", models.Settings{Location: "Nope", Format: "YYYYMMDD_kkmmss"}, ""},
		{"unsafe", models.Settings{Location: "Notes", Format: "YYYY/MM"}, ""},
		{"root", models.Settings{Location: "", Format: "YYYY"}, ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture(t, tc.settings)
			if tc.preexist != "" {
				_, err := f.vault.Create(context.Background(), tc.preexist, "x")
				require.NoError(t, err)
			}
			before := len(f.markdownFiles(t))

			_, err := f.svc.Run(context.Background())

			created := len(f.markdownFiles(t)) - before
			notified := len(f.notifier.Messages())
			if err == nil {
				assert.Equal(t, 1, created)
				assert.Equal(t, 1, len(f.opener.opened))
				assert.Equal(t, 0, notified)
			} else {
				assert.Equal(t, 0, created)
				assert.Equal(t, 0, len(f.opener.opened))
				assert.Equal(t, 1, notified)
			}
		})
	}
}

func TestSettingsUpdateAndPersist(t *testing.T) {
	f := newFixture(t, models.DefaultSettings())

	assert.Equal(t, "20240101_120000", f.svc.FormatExample())

	require.NoError(t, f.svc.SetFormat("YYYY-MM-DD"))
	assert.Equal(t, "2024-01-01", f.svc.FormatExample())

	require.NoError(t, f.svc.SetLocation("Inbox"))
	assert.Equal(t, models.Settings{Location: "Inbox", Format: "YYYY-MM-DD"}, f.svc.Settings())

	saved, err := f.store.Load()
	require.NoError(t, err)
	assert.Equal(t, models.Settings{Location: "Inbox", Format: "YYYY-MM-DD"}, saved)
}

func TestSettingsUnchangedWhenSaveFails(t *testing.T) {
	svc, err := New(Deps{Storage: vault.NewMemFS("/vault"), Settings: failingStore{}})
	require.NoError(t, err)

	err = svc.SetFormat("YYYY")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
	assert.Equal(t, models.DefaultFormat, svc.Settings().Format)
}

func TestNewLoadsDefaultsFromEmptyStore(t *testing.T) {
	store := settings.NewFileStore(afero.NewMemMapFs(), "/s.yml")
	svc, err := New(Deps{Storage: vault.NewMemFS("/vault"), Settings: store})
	require.NoError(t, err)
	assert.Equal(t, models.DefaultSettings(), svc.Settings())
}

func TestNewFallsBackOnCorruptSettings(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/s.yml", []byte("format: [broken\n"), 0644))

	svc, err := New(Deps{Storage: vault.NewMemFS("/vault"), Settings: settings.NewFileStore(fs, "/s.yml")})
	require.NoError(t, err)
	assert.Equal(t, models.DefaultSettings(), svc.Settings())
}

func TestNewRequiresCollaborators(t *testing.T) {
	_, err := New(Deps{Settings: failingStore{}})
	assert.Error(t, err)

	_, err = New(Deps{Storage: vault.NewMemFS("/vault")})
	assert.Error(t, err)
}

func TestHistoryAndReindex(t *testing.T) {
	f := newFixture(t, models.Settings{Location: "Notes", Format: "YYYYMMDD_kkmmss"})
	ctx := context.Background()

	fs := f.vault.Afero()
	require.NoError(t, afero.WriteFile(fs, "/Notes/a.md", []byte("---\ncreated: 2023-05-06T07:08:09Z\n---\n\n"), 0644))
	require.NoError(t, afero.WriteFile(fs, "/Notes/plain.md", []byte("# no frontmatter\n"), 0644))
	require.NoError(t, afero.WriteFile(fs, "/Notes/bad.md", []byte("---\ncreated: yesterday\n---\n"), 0644))

	count, err := f.svc.Reindex(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	entries, err := f.svc.History(10)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "Notes/a.md", entries[0].Path)
	assert.Equal(t, "a", entries[0].Name)
	assert.True(t, entries[0].CreatedAt.Equal(time.Date(2023, 5, 6, 7, 8, 9, 0, time.UTC)))
}

func TestReindexDropsDeletedNotes(t *testing.T) {
	f := newFixture(t, models.Settings{Location: "Notes", Format: "YYYYMMDD_kkmmss"})
	ctx := context.Background()

	_, err := f.svc.Run(ctx, WithoutOpen())
	require.NoError(t, err)
	require.NoError(t, f.vault.Afero().Remove("/Notes/20240101_120000.md"))

	count, err := f.svc.Reindex(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, count)

	entries, err := f.svc.History(10)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestClearHistory(t *testing.T) {
	f := newFixture(t, models.Settings{Location: "Notes", Format: "YYYYMMDD_kkmmss"})

	_, err := f.svc.Run(context.Background(), WithoutOpen())
	require.NoError(t, err)
	require.Len(t, f.index.notes, 1)

	require.NoError(t, f.svc.ClearHistory())
	assert.Empty(t, f.index.notes)
	exists, err := f.vault.Exists(context.Background(), "Notes/20240101_120000.md")
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestHistoryWithoutIndex(t *testing.T) {
	svc, err := New(Deps{Storage: vault.NewMemFS("/vault"), Settings: failingStore{}})
	require.NoError(t, err)

	_, err = svc.History(10)
	assert.Error(t, err)
	_, err = svc.Reindex(context.Background())
	assert.Error(t, err)
	assert.Error(t, svc.ClearHistory())
	assert.NoError(t, svc.Close())
}

func TestStatusString(t *testing.T) {
	assert.Equal(t, "created", StatusCreated.String())
	assert.Equal(t, "already exists", StatusAlreadyExists.String())
	assert.Equal(t, "failed", StatusFailed.String())
	assert.Equal(t, "Status(9)", fmt.Sprint(Status(9)))
}
