package utils

import (
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
)

// SafeJoinDir joins name onto dir, failing when the result is dir itself or escapes it.
func SafeJoinDir(dir, name string) (string, error) {
	joined := filepath.Join(dir, name)
	rel, err := filepath.Rel(dir, joined)
	if err != nil || rel == "." || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return joined, errors.Errorf("%q is not inside %q", name, dir)
	}
	return joined, nil
}

// TrimExtension returns the base name of path without ext, and whether path had a non-empty
// name carrying ext.
func TrimExtension(path, ext string) (string, bool) {
	name, found := strings.CutSuffix(filepath.Base(path), ext)
	return name, found && name != ""
}
