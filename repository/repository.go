// Package repository stores recorded paths as files in a single directory.
package repository

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/fsnotify/fsnotify"
	"github.com/pkg/errors"
	"github.com/samber/lo"
	goutils "go.viam.com/utils"

	"go.viam.com/pathfollower/logging"
	"go.viam.com/pathfollower/route"
	"go.viam.com/pathfollower/spatialmath"
	"go.viam.com/pathfollower/utils"
)

// ErrInvalidName is returned for names that are empty or would escape the repository directory.
var ErrInvalidName = errors.New("invalid path name")

// Repository is a directory of path files.
type Repository struct {
	dir string
}

// New opens the repository at dir, creating the directory if it does not exist.
func New(dir string) (*Repository, error) {
	if dir == "" {
		return nil, errors.New("repository directory is required")
	}
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, errors.Wrapf(err, "creating repository %q", dir)
	}
	return &Repository{dir: dir}, nil
}

// Dir returns the repository directory.
func (r *Repository) Dir() string {
	return r.dir
}

// Path returns the file backing name.
func (r *Repository) Path(name string) (string, error) {
	if name == "" || filepath.Base(name) != name {
		return "", errors.Wrapf(ErrInvalidName, "%q", name)
	}
	p, err := utils.SafeJoinDir(r.dir, name+route.FileExtension)
	if err != nil {
		return "", errors.Wrapf(ErrInvalidName, "%q", name)
	}
	return p, nil
}

// List returns the names of all stored paths, sorted.
func (r *Repository) List() ([]string, error) {
	entries, err := os.ReadDir(r.dir)
	if err != nil {
		return nil, errors.Wrapf(err, "listing %q", r.dir)
	}
	names := lo.FilterMap(entries, func(e fs.DirEntry, _ int) (string, bool) {
		if !e.Type().IsRegular() {
			return "", false
		}
		return utils.TrimExtension(e.Name(), route.FileExtension)
	})
	sort.Strings(names)
	return names, nil
}

// Read loads the waypoints of name.
func (r *Repository) Read(name string) ([]spatialmath.Pose, error) {
	p, err := r.Path(name)
	if err != nil {
		return nil, err
	}
	poses, err := route.Load(p)
	if err != nil {
		return nil, errors.Wrapf(err, "reading path %q", name)
	}
	return poses, nil
}

// Create truncates or creates the file for name and returns it for writing.
func (r *Repository) Create(name string) (*os.File, error) {
	p, err := r.Path(name)
	if err != nil {
		return nil, err
	}
	//nolint:gosec
	f, err := os.Create(p)
	if err != nil {
		return nil, errors.Wrapf(err, "creating path %q", name)
	}
	return f, nil
}

// Append adds poses to the end of name, creating it if needed.
func (r *Repository) Append(name string, poses []spatialmath.Pose) (err error) {
	p, err := r.Path(name)
	if err != nil {
		return err
	}
	//nolint:gosec
	f, err := os.OpenFile(p, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o640)
	if err != nil {
		return errors.Wrapf(err, "opening path %q", name)
	}
	defer func() {
		if closeErr := f.Close(); err == nil {
			err = closeErr
		}
	}()
	return route.Write(f, poses)
}

// Delete removes name.
func (r *Repository) Delete(name string) error {
	p, err := r.Path(name)
	if err != nil {
		return err
	}
	return os.Remove(p)
}

// Change reports a path file that was written, created, renamed or removed.
type Change struct {
	Name    string
	Removed bool
}

// Watch calls onChange for every path file change in the repository until ctx is done.
func (r *Repository) Watch(ctx context.Context, logger logging.Logger, onChange func(Change)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.Wrap(err, "creating watcher")
	}
	defer goutils.UncheckedErrorFunc(watcher.Close)
	if err := watcher.Add(r.dir); err != nil {
		return errors.Wrapf(err, "watching %q", r.dir)
	}
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			name, ok := utils.TrimExtension(ev.Name, route.FileExtension)
			if !ok || ev.Op == fsnotify.Chmod {
				continue
			}
			onChange(Change{Name: name, Removed: ev.Has(fsnotify.Remove) || ev.Has(fsnotify.Rename)})
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warnw("repository watcher error", "dir", r.dir, "error", err)
		}
	}
}
