package models

// DefaultFormat is the timestamp pattern used for new note names when none
// has been configured.
const DefaultFormat = "YYYYMMDD_kkmmss"

// Settings is the persisted configuration for unique note creation.
type Settings struct {
	// Location is the vault folder new notes are created in. Empty means the
	// vault root. It is not validated against existing folders.
	Location string `yaml:"location" json:"location"`

	// Format is a moment-style timestamp pattern rendered in UTC to produce
	// the note name.
	Format string `yaml:"format" json:"format"`
}

// DefaultSettings returns the settings used when nothing has been saved.
func DefaultSettings() Settings {
	return Settings{
		Location: "",
		Format:   DefaultFormat,
	}
}
