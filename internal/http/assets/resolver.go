// Package assets maps logical static asset names to their fingerprinted files.
package assets

import (
	"encoding/json"
	"errors"
	"io/fs"
	"log/slog"
	"path"
	"sync"
)

// ManifestName is the manifest file at the root of the static filesystem.
const ManifestName = "manifest.json"

// Resolver resolves logical asset names to hashed filenames using manifest.json.
// Concurrency: methods are safe for concurrent use.
type Resolver struct {
	fsys     fs.FS
	prefix   string
	reload   bool
	logger   *slog.Logger
	mu       sync.RWMutex
	manifest map[string]string
}

// Options configures a Resolver.
type Options struct {
	// FS holds the manifest and the built assets.
	FS fs.FS
	// Prefix is the URL path the assets are served under.
	Prefix string
	// Reload re-reads the manifest on every Resolve (dev mode).
	Reload bool
	Logger *slog.Logger
}

// New loads the manifest from opts.FS. A missing manifest is not an error:
// assets then resolve to their logical names.
func New(opts Options) (*Resolver, error) {
	r := &Resolver{
		fsys:     opts.FS,
		prefix:   opts.Prefix,
		reload:   opts.Reload,
		logger:   opts.Logger,
		manifest: map[string]string{},
	}
	if r.logger == nil {
		r.logger = slog.Default()
	}
	return r, r.Reload()
}

// Reload re-reads the manifest.
func (r *Resolver) Reload() error {
	if r.fsys == nil {
		return nil
	}
	data, err := fs.ReadFile(r.fsys, ManifestName)
	if errors.Is(err, fs.ErrNotExist) {
		r.swap(map[string]string{})
		return nil
	}
	if err != nil {
		return err
	}
	m := map[string]string{}
	if err = json.Unmarshal(data, &m); err != nil {
		return err
	}
	r.swap(m)
	return nil
}

func (r *Resolver) swap(m map[string]string) {
	r.mu.Lock()
	r.manifest = m
	r.mu.Unlock()
}

// Resolve returns the URL path for a logical asset name, falling back to the
// logical name when the manifest has no entry.
func (r *Resolver) Resolve(logicalName string) string {
	if r == nil {
		return logicalName
	}
	if r.reload {
		if err := r.Reload(); err != nil {
			r.logger.Error("failed to reload asset manifest", slog.Any("error", err))
		}
	}
	r.mu.RLock()
	name, ok := r.manifest[logicalName]
	r.mu.RUnlock()
	if !ok {
		name = logicalName
	}
	return path.Join("/", r.prefix, name)
}
