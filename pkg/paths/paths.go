// Package paths provides path handling for stor: mapping module
// entries onto the target tree, root validation, and resolution of
// the default target directory.
package paths

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"

	"github.com/arthur-debert/stor/pkg/errors"
)

// TargetPath maps an absolute path inside moduleRoot onto targetRoot by
// re-rooting the component suffix after moduleRoot. It is a pure
// function and never touches the filesystem.
//
// path must lie within moduleRoot; every caller derives path from
// walking moduleRoot itself, so a violation is a programming error and
// is reported with ErrPathMapping.
func TargetPath(path, moduleRoot, targetRoot string) (string, error) {
	rel, err := filepath.Rel(moduleRoot, path)
	if err != nil {
		return "", errors.Wrapf(err, errors.ErrPathMapping,
			"cannot express %s relative to module root %s", path, moduleRoot)
	}
	if rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", errors.Newf(errors.ErrPathMapping,
			"path %s lies outside module root %s", path, moduleRoot)
	}
	return filepath.Join(targetRoot, rel), nil
}

// Resolve turns a user-supplied path into absolute, cleaned form.
// Roots are resolved exactly once, before any recursion, so symlink
// idempotence checks compare like with like.
func Resolve(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", errors.Wrapf(err, errors.ErrInvalidInput, "cannot resolve %s", path)
	}
	return abs, nil
}

// IsDir reports whether path exists and is a directory.
func IsDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

// DefaultTarget returns the directory stor mirrors into when no target
// is given: the invoking user's home directory.
func DefaultTarget() string {
	return xdg.Home
}
