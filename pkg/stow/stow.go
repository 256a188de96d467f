package stow

import (
	"io/fs"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/arthur-debert/stor/pkg/errors"
	"github.com/arthur-debert/stor/pkg/logging"
	"github.com/arthur-debert/stor/pkg/paths"
	"github.com/arthur-debert/stor/pkg/types"
)

// targetState enumerates what currently occupies a target path.
type targetState int

const (
	stateAbsent targetState = iota
	stateSymlink
	stateFile
	stateDir
)

// Stower applies, removes, and reapplies module mirrors against a
// target tree. All filesystem access goes through the FS it carries.
type Stower struct {
	fs     types.FS
	policy Policy
	logger zerolog.Logger
}

// New creates a Stower operating on fs under the given policy.
func New(fsys types.FS, policy Policy) *Stower {
	return &Stower{
		fs:     fsys,
		policy: policy,
		logger: logging.GetLogger("stow.engine"),
	}
}

// Stow mirrors moduleRoot into targetRoot, creating one link (or copy)
// per leaf entry. Both roots must be absolute, existing directories;
// the caller validates them once before any recursion.
func (s *Stower) Stow(moduleRoot, targetRoot string) error {
	return s.stow(moduleRoot, targetRoot, moduleRoot)
}

// Unstow removes a previously applied mirror of moduleRoot from
// targetRoot, pruning directories its removals leave empty.
func (s *Stower) Unstow(moduleRoot, targetRoot string) error {
	return s.unstow(moduleRoot, targetRoot, moduleRoot)
}

// Restow is Unstow followed immediately by Stow over the same roots.
func (s *Stower) Restow(moduleRoot, targetRoot string) error {
	if err := s.unstow(moduleRoot, targetRoot, moduleRoot); err != nil {
		return err
	}
	return s.stow(moduleRoot, targetRoot, moduleRoot)
}

func (s *Stower) stow(moduleRoot, targetRoot, current string) error {
	entries, err := s.fs.ReadDir(current)
	if err != nil {
		return errors.Wrapf(err, errors.ErrFileAccess, "cannot read module directory %s", current)
	}

	for _, entry := range entries {
		source := filepath.Join(current, entry.Name())
		target, err := paths.TargetPath(source, moduleRoot, targetRoot)
		if err != nil {
			return err
		}

		st, err := s.state(target)
		if err != nil {
			return err
		}

		// removed records that the conflicting target was deleted (or
		// would have been, under simulate) earlier in this iteration.
		removed := false

		if st == stateSymlink {
			if s.policy.Copy {
				// Copy mode cannot cheaply verify that an existing link
				// already represents an equivalent copy, so any link at
				// the target needs the overwrite flag.
				if !s.policy.Overwrite {
					s.logger.Warn().Str("target", target).Msg("Skip: not overwritten")
					continue
				}
				s.logger.Info().Str("target", target).Msg("Unlink")
				if err := s.remove(target); err != nil {
					return err
				}
				removed = true
			} else {
				origin, err := s.fs.Readlink(target)
				if err != nil {
					return errors.Wrapf(err, errors.ErrSymlinkRead, "cannot read link %s", target)
				}
				if origin == source {
					s.logger.Info().Str("target", target).Msg("Skip: already stowed")
					continue
				}
				if !s.policy.Overwrite {
					s.logger.Warn().Str("target", target).Msg("Skip: not overwritten")
					continue
				}
				s.logger.Info().Str("target", target).Msg("Delete")
				if err := s.remove(target); err != nil {
					return err
				}
				removed = true
			}
		}

		srcIsFile, srcIsDir := s.sourceKind(source)

		// A plain module file colliding with existing target content.
		if srcIsFile && !removed && st != stateAbsent {
			if !s.policy.Overwrite {
				s.logger.Warn().Str("target", target).Msg("Skip: not overwritten")
				continue
			}
			s.logger.Warn().Str("target", target).Msg("Delete")
			if err := s.remove(target); err != nil {
				return err
			}
			removed = true
		}

		if removed || st == stateAbsent {
			if srcIsDir && !s.policy.Copy {
				// Materialize the directory and link its contents one
				// by one, so other modules can merge into it later and
				// unstow can prune it once empty.
				if err := s.makeDir(source, target); err != nil {
					return err
				}
				if err := s.stow(moduleRoot, targetRoot, source); err != nil {
					return err
				}
				continue
			}
			if err := s.create(source, target); err != nil {
				return err
			}
			continue
		}

		if st == stateDir {
			if srcIsDir {
				// Merge into the existing directory entry by entry,
				// never replace it wholesale.
				if err := s.stow(moduleRoot, targetRoot, source); err != nil {
					return err
				}
				continue
			}
			s.logger.Warn().Str("target", target).Msg("Skip: target is a directory")
		}
	}
	return nil
}

func (s *Stower) unstow(moduleRoot, targetRoot, current string) error {
	entries, err := s.fs.ReadDir(current)
	if err != nil {
		return errors.Wrapf(err, errors.ErrFileAccess, "cannot read module directory %s", current)
	}

	for _, entry := range entries {
		source := filepath.Join(current, entry.Name())
		target, err := paths.TargetPath(source, moduleRoot, targetRoot)
		if err != nil {
			return err
		}

		st, err := s.state(target)
		if err != nil {
			return err
		}

		switch st {
		case stateSymlink:
			s.logger.Info().Str("target", target).Msg("Unlink")
			if err := s.remove(target); err != nil {
				return err
			}
			if err := s.pruneIfEmpty(filepath.Dir(target), targetRoot); err != nil {
				return err
			}
		case stateFile:
			s.logger.Info().Str("target", target).Msg("Delete")
			if err := s.remove(target); err != nil {
				return err
			}
			if err := s.pruneIfEmpty(filepath.Dir(target), targetRoot); err != nil {
				return err
			}
		case stateDir:
			if err := s.unstow(moduleRoot, targetRoot, source); err != nil {
				return err
			}
			if err := s.pruneIfEmpty(target, targetRoot); err != nil {
				return err
			}
		case stateAbsent:
			// Nothing to undo for this entry.
			s.logger.Debug().Str("target", target).Msg("Skip: target does not exist")
		}
	}
	return nil
}

// state classifies what occupies path right now, without following a
// final symlink.
func (s *Stower) state(path string) (targetState, error) {
	info, err := s.fs.Lstat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return stateAbsent, nil
		}
		return stateAbsent, errors.Wrapf(err, errors.ErrFileAccess, "cannot inspect %s", path)
	}
	switch {
	case info.Mode()&fs.ModeSymlink != 0:
		return stateSymlink, nil
	case info.IsDir():
		return stateDir, nil
	default:
		return stateFile, nil
	}
}

// sourceKind classifies a module entry, following symlinks the way the
// decision table expects. A dangling link is neither file nor dir.
func (s *Stower) sourceKind(source string) (isFile, isDir bool) {
	info, err := s.fs.Stat(source)
	if err != nil {
		return false, false
	}
	return info.Mode().IsRegular(), info.IsDir()
}

// create places the module entry at target, as a symlink or, under the
// copy policy, as a recursive copy.
func (s *Stower) create(source, target string) error {
	if s.policy.Copy {
		s.logger.Info().Str("source", source).Str("target", target).Msg("Copy")
		if s.policy.Simulate {
			return nil
		}
		return s.copyEntry(source, target)
	}
	s.logger.Info().Str("source", source).Str("target", target).Msg("Link")
	if s.policy.Simulate {
		return nil
	}
	if err := s.fs.Symlink(source, target); err != nil {
		return errors.Wrapf(err, errors.ErrSymlinkCreate, "cannot link %s to %s", target, source)
	}
	return nil
}

// makeDir creates a real directory at target carrying source's mode.
func (s *Stower) makeDir(source, target string) error {
	s.logger.Info().Str("target", target).Msg("Mkdir")
	if s.policy.Simulate {
		return nil
	}
	perm := fs.FileMode(0755)
	if info, err := s.fs.Stat(source); err == nil {
		perm = info.Mode().Perm()
	}
	if err := s.fs.MkdirAll(target, perm); err != nil {
		return errors.Wrapf(err, errors.ErrFileAccess, "cannot create directory %s", target)
	}
	return nil
}

func (s *Stower) remove(target string) error {
	if s.policy.Simulate {
		return nil
	}
	if err := s.fs.RemoveAll(target); err != nil {
		return errors.Wrapf(err, errors.ErrFileDelete, "cannot remove %s", target)
	}
	return nil
}

// pruneIfEmpty removes dir when a removal has left it empty. The target
// root itself is never pruned. Simulated removals leave directories
// populated, so pruning is skipped under simulate.
func (s *Stower) pruneIfEmpty(dir, targetRoot string) error {
	if s.policy.Simulate || dir == targetRoot {
		return nil
	}
	remaining, err := s.fs.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return errors.Wrapf(err, errors.ErrFileAccess, "cannot read directory %s", dir)
	}
	if len(remaining) > 0 {
		return nil
	}
	s.logger.Debug().Str("path", dir).Msg("Pruning empty directory")
	if err := s.fs.RemoveAll(dir); err != nil {
		return errors.Wrapf(err, errors.ErrFileDelete, "cannot prune %s", dir)
	}
	return nil
}
