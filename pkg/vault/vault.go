// Package vault is the storage layer notes are created in: a folder tree of
// markdown documents addressed by slash-delimited, vault-relative paths.
package vault

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"

	"github.com/mattsolo1/kettle/pkg/models"
)

var log = logrus.WithField("component", "kettle.vault")

// ErrExist is returned by Create when an entry already exists at the path.
var ErrExist = fs.ErrExist

// Storage is the vault abstraction the note creator works against.
type Storage interface {
	// Exists reports whether any entry, file or folder, is present at p.
	Exists(ctx context.Context, p string) (bool, error)
	// Create writes a new document at p. It never overwrites: if p already
	// exists the error wraps ErrExist.
	Create(ctx context.Context, p, content string) (*models.Note, error)
	// Read returns the content of the document at p.
	Read(ctx context.Context, p string) (string, error)
	// Walk calls fn for every markdown document in the vault.
	Walk(ctx context.Context, fn func(p string) error) error
	// Abs returns the host path for p, for handing to external programs.
	Abs(p string) string
}

// FS is a Storage backed by an afero filesystem rooted at the vault folder.
type FS struct {
	fs   afero.Fs
	root string
}

// NewFS returns a Storage for the vault at root on the host filesystem.
func NewFS(root string) (*FS, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve vault dir: %w", err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("open vault: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("open vault: %s is not a directory", abs)
	}
	return &FS{fs: afero.NewBasePathFs(afero.NewOsFs(), abs), root: abs}, nil
}

// NewMemFS returns an in-memory vault. root is only used by Abs.
func NewMemFS(root string) *FS {
	return &FS{fs: afero.NewMemMapFs(), root: root}
}

// Afero exposes the underlying filesystem.
func (v *FS) Afero() afero.Fs {
	return v.fs
}

func (v *FS) Exists(ctx context.Context, p string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	ok, err := afero.Exists(v.fs, v.hostPath(p))
	if err != nil {
		return false, fmt.Errorf("check %s: %w", p, err)
	}
	return ok, nil
}

func (v *FS) Create(ctx context.Context, p, content string) (*models.Note, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	p = NormalizePath(p)
	if p == "/" {
		return nil, fmt.Errorf("create: %q is the vault root", p)
	}

	dir := path.Dir(p)
	if dir != "." {
		info, err := v.fs.Stat(v.hostPath(dir))
		if err != nil {
			return nil, fmt.Errorf("create %s: folder %s does not exist", p, dir)
		}
		if !info.IsDir() {
			return nil, fmt.Errorf("create %s: %s is not a folder", p, dir)
		}
	}

	f, err := v.fs.OpenFile(v.hostPath(p), os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		if errors.Is(err, fs.ErrExist) {
			return nil, fmt.Errorf("create %s: %w", p, ErrExist)
		}
		return nil, fmt.Errorf("create %s: %w", p, err)
	}
	if _, err := f.WriteString(content); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("write %s: %w", p, err)
	}
	if err := f.Close(); err != nil {
		return nil, fmt.Errorf("close %s: %w", p, err)
	}

	log.WithField("path", p).Debug("created document")
	return &models.Note{
		Path:    p,
		Name:    strings.TrimSuffix(path.Base(p), ".md"),
		Content: content,
	}, nil
}

func (v *FS) Read(ctx context.Context, p string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	data, err := afero.ReadFile(v.fs, v.hostPath(p))
	if err != nil {
		return "", fmt.Errorf("read %s: %w", p, err)
	}
	return string(data), nil
}

func (v *FS) Walk(ctx context.Context, fn func(p string) error) error {
	return afero.Walk(v.fs, string(filepath.Separator), func(hp string, info os.FileInfo, err error) error {
		if err != nil {
			return nil // Skip unreadable entries
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if info.IsDir() {
			if strings.HasPrefix(info.Name(), ".") && hp != string(filepath.Separator) {
				return filepath.SkipDir
			}
			return nil
		}
		if !strings.HasSuffix(hp, ".md") {
			return nil
		}
		return fn(NormalizePath(filepath.ToSlash(hp)))
	})
}

func (v *FS) Abs(p string) string {
	return filepath.Join(v.root, filepath.FromSlash(NormalizePath(p)))
}

func (v *FS) hostPath(p string) string {
	p = NormalizePath(p)
	if p == "/" {
		return string(filepath.Separator)
	}
	return string(filepath.Separator) + filepath.FromSlash(p)
}
