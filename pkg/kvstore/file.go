package kvstore

import (
	"context"
	"os"
	"path/filepath"

	"github.com/go-faster/errors"
)

// File keeps one file per slot in a directory. Writes go through a temporary
// file and a rename so a reader never sees a partial value.
type File struct {
	dir string
}

func NewFile(dir string) (*File, error) {
	if dir == "" {
		return nil, errors.New("file store: empty directory")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.Wrap(err, "create store directory")
	}
	return &File{dir: dir}, nil
}

func (f *File) path(slot Slot) string {
	return filepath.Join(f.dir, string(slot)+".json")
}

func (f *File) Get(_ context.Context, slot Slot) ([]byte, bool, error) {
	b, err := os.ReadFile(f.path(slot))
	if errors.Is(err, os.ErrNotExist) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, errors.Wrapf(err, "read slot %s", slot)
	}
	return b, true, nil
}

func (f *File) Put(_ context.Context, slot Slot, value []byte) error {
	tmp, err := os.CreateTemp(f.dir, string(slot)+".*.tmp")
	if err != nil {
		return errors.Wrapf(err, "write slot %s", slot)
	}
	if _, err := tmp.Write(value); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return errors.Wrapf(err, "write slot %s", slot)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return errors.Wrapf(err, "write slot %s", slot)
	}
	if err := os.Rename(tmp.Name(), f.path(slot)); err != nil {
		_ = os.Remove(tmp.Name())
		return errors.Wrapf(err, "write slot %s", slot)
	}
	return nil
}
