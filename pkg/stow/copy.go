package stow

import (
	"path/filepath"

	"github.com/arthur-debert/stor/pkg/errors"
)

// copyEntry copies a module entry to target: byte-for-byte for regular
// files, recursively for directories. Modes are preserved; symlinks
// inside the module are followed, so the copy holds real content.
func (s *Stower) copyEntry(source, target string) error {
	info, err := s.fs.Stat(source)
	if err != nil {
		return errors.Wrapf(err, errors.ErrFileCopy, "cannot stat %s", source)
	}

	if info.IsDir() {
		if err := s.fs.MkdirAll(target, info.Mode().Perm()); err != nil {
			return errors.Wrapf(err, errors.ErrFileCopy, "cannot create directory %s", target)
		}
		entries, err := s.fs.ReadDir(source)
		if err != nil {
			return errors.Wrapf(err, errors.ErrFileCopy, "cannot read directory %s", source)
		}
		for _, entry := range entries {
			child := filepath.Join(source, entry.Name())
			if err := s.copyEntry(child, filepath.Join(target, entry.Name())); err != nil {
				return err
			}
		}
		return nil
	}

	data, err := s.fs.ReadFile(source)
	if err != nil {
		return errors.Wrapf(err, errors.ErrFileCopy, "cannot read %s", source)
	}
	if err := s.fs.WriteFile(target, data, info.Mode().Perm()); err != nil {
		return errors.Wrapf(err, errors.ErrFileCopy, "cannot write %s", target)
	}
	return nil
}
