// Package settings persists the note creation settings record.
package settings

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"

	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"

	"github.com/mattsolo1/kettle/pkg/models"
)

var log = logrus.WithField("component", "kettle.settings")

// Store loads and saves Settings.
type Store interface {
	// Load returns the saved settings merged over the defaults. A store with
	// nothing saved yields models.DefaultSettings.
	Load() (models.Settings, error)
	Save(models.Settings) error
}

// FileStore keeps settings in a yaml file.
type FileStore struct {
	fs   afero.Fs
	path string
}

// NewFileStore returns a Store backed by the yaml file at path on fsys.
func NewFileStore(fsys afero.Fs, path string) *FileStore {
	return &FileStore{fs: fsys, path: path}
}

func (s *FileStore) Load() (models.Settings, error) {
	settings := models.DefaultSettings()

	data, err := afero.ReadFile(s.fs, s.path)
	if errors.Is(err, fs.ErrNotExist) {
		log.WithField("path", s.path).Debug("no saved settings, using defaults")
		return settings, nil
	}
	if err != nil {
		return settings, fmt.Errorf("read settings: %w", err)
	}

	// Keys absent from the file keep their default values.
	if err := yaml.Unmarshal(data, &settings); err != nil {
		return models.DefaultSettings(), fmt.Errorf("parse settings %s: %w", s.path, err)
	}
	return settings, nil
}

func (s *FileStore) Save(settings models.Settings) error {
	data, err := yaml.Marshal(&settings)
	if err != nil {
		return fmt.Errorf("marshal settings: %w", err)
	}
	if err := s.fs.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return fmt.Errorf("create settings dir: %w", err)
	}
	if err := afero.WriteFile(s.fs, s.path, data, 0644); err != nil {
		return fmt.Errorf("write settings: %w", err)
	}
	log.WithFields(logrus.Fields{
		"path":     s.path,
		"location": settings.Location,
		"format":   settings.Format,
	}).Debug("saved settings")
	return nil
}
