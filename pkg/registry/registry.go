// SPDX-License-Identifier: MPL-2.0

package registry

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/charmbracelet/log"
	"github.com/pelletier/go-toml/v2"

	"github.com/flox/flox-go/internal/issue"
	"github.com/flox/flox-go/pkg/nix"
)

// FileName is the registry file name inside the data directory.
const FileName = "registry.toml"

// fileVersion is the registry file format version written by this package.
const fileVersion = 1

var (
	// ErrDuplicateEnvironment is returned when registering a name that is
	// already present.
	ErrDuplicateEnvironment = errors.New("environment already registered")
	// ErrUnknownEnvironment is returned when looking up a name that is not
	// registered.
	ErrUnknownEnvironment = errors.New("environment not registered")
)

type (
	// Entry records one environment known to flox.
	Entry struct {
		// Name is the user-chosen environment name, unique per registry.
		Name string `toml:"name"`
		// Installable is the reference the environment was created from.
		Installable nix.Installable `toml:"installable"`
		// CreatedAt is when the environment was registered.
		CreatedAt time.Time `toml:"created_at"`
	}

	// file is the on-disk registry layout.
	file struct {
		Version      int     `toml:"version"`
		Environments []Entry `toml:"environments"`
	}

	// Registry reads and writes the environment registry of one context.
	Registry struct {
		path   string
		logger *log.Logger
	}

	// Option configures a Registry.
	Option func(*Registry)
)

// WithLogger sets the logger used for registry writes.
func WithLogger(logger *log.Logger) Option {
	return func(r *Registry) { r.logger = logger }
}

// Open returns the registry handle for the given session's data directory.
// Nothing is read or created until the first operation.
func Open(s nix.Session, opts ...Option) *Registry {
	r := &Registry{
		path: filepath.Join(s.DataDir(), FileName),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.logger == nil {
		r.logger = log.NewWithOptions(os.Stderr, log.Options{Prefix: "registry"})
	}
	return r
}

// Path returns the registry file location.
func (r *Registry) Path() string { return r.path }

// List returns all registered environments sorted by name. A missing
// registry file is an empty registry.
func (r *Registry) List() ([]Entry, error) {
	f, err := r.load()
	if err != nil {
		return nil, err
	}
	entries := append([]Entry(nil), f.Environments...)
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name < entries[j].Name })
	return entries, nil
}

// Get returns the entry registered under name, or ErrUnknownEnvironment.
func (r *Registry) Get(name string) (Entry, error) {
	f, err := r.load()
	if err != nil {
		return Entry{}, err
	}
	for _, e := range f.Environments {
		if e.Name == name {
			return e, nil
		}
	}
	return Entry{}, fmt.Errorf("%q: %w", name, ErrUnknownEnvironment)
}

// Register adds an entry. The name must not already be registered.
// A zero CreatedAt is stamped with the current time.
func (r *Registry) Register(entry Entry) error {
	if entry.Name == "" {
		return errors.New("environment name must be non-empty")
	}

	f, err := r.load()
	if err != nil {
		return err
	}
	for _, e := range f.Environments {
		if e.Name == entry.Name {
			return fmt.Errorf("%q: %w", entry.Name, ErrDuplicateEnvironment)
		}
	}

	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}
	f.Environments = append(f.Environments, entry)

	r.logger.Debug("registering environment", "name", entry.Name, "installable", entry.Installable)
	return r.store(f)
}

// Remove deletes the entry registered under name. Removing an unknown name
// reports false with no error.
func (r *Registry) Remove(name string) (bool, error) {
	f, err := r.load()
	if err != nil {
		return false, err
	}

	kept := f.Environments[:0]
	removed := false
	for _, e := range f.Environments {
		if e.Name == name {
			removed = true
			continue
		}
		kept = append(kept, e)
	}
	if !removed {
		return false, nil
	}
	f.Environments = kept

	r.logger.Debug("removing environment", "name", name)
	return true, r.store(f)
}

func (r *Registry) load() (*file, error) {
	data, err := os.ReadFile(r.path)
	if os.IsNotExist(err) {
		return &file{Version: fileVersion}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read registry: %w", err)
	}

	var f file
	if err := toml.Unmarshal(data, &f); err != nil {
		return nil, issue.NewErrorContext().
			WithOperation("read environment registry").
			WithResource(r.path).
			WithSuggestion("Move the file aside to start from an empty registry").
			Wrap(err).
			BuildError()
	}
	return &f, nil
}

func (r *Registry) store(f *file) error {
	data, err := toml.Marshal(f)
	if err != nil {
		return fmt.Errorf("encode registry: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(r.path), 0o755); err != nil {
		return fmt.Errorf("create data directory: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(r.path), FileName+".*")
	if err != nil {
		return fmt.Errorf("write registry: %w", err)
	}
	tmpPath := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("write registry: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("write registry: %w", err)
	}
	if err := os.Rename(tmpPath, r.path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("write registry: %w", err)
	}
	return nil
}
