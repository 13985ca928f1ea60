// Package uploads stores user images on local disk under random names.
package uploads

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

var ErrInvalidName = errors.New("invalid upload name")

type Storage struct {
	dir string
}

func New(dir string) (*Storage, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, errors.Wrap(err, "error creating upload folder")
	}
	return &Storage{dir: dir}, nil
}

// Save writes src under a fresh UUID name that keeps the lower-cased
// extension of originalName, and returns that name.
func (s *Storage) Save(src io.Reader, originalName string) (string, error) {
	name := strings.ReplaceAll(uuid.NewString(), "-", "") + strings.ToLower(filepath.Ext(originalName))

	f, err := os.OpenFile(filepath.Join(s.dir, name), os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0644)
	if err != nil {
		return "", errors.Wrap(err, "error creating upload")
	}
	if _, err := io.Copy(f, src); err != nil {
		f.Close()
		os.Remove(f.Name())
		return "", errors.Wrap(err, "error writing upload")
	}
	if err := f.Close(); err != nil {
		return "", errors.Wrap(err, "error closing upload")
	}
	return name, nil
}

// Path returns where name is stored. Names with path components are
// rejected.
func (s *Storage) Path(name string) (string, error) {
	if name == "" || name == "." || name == ".." || filepath.Base(name) != name || strings.ContainsAny(name, `/\`) {
		return "", ErrInvalidName
	}
	return filepath.Join(s.dir, name), nil
}

// Remove deletes name. A file that is already gone is not an error.
func (s *Storage) Remove(name string) error {
	path, err := s.Path(name)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return errors.Wrap(err, "error removing upload")
	}
	return nil
}
