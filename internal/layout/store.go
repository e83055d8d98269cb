// Package layout loads the read-only HTML skeletons templates render against.
package layout

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed builtin/*.html
var builtin embed.FS

var (
	ErrNotFound    = errors.New("layout not found")
	ErrInvalidName = errors.New("invalid layout name")
)

// Entry describes one layout in the registry.
type Entry struct {
	ID          string `yaml:"id" json:"id"`
	File        string `yaml:"file" json:"file"`
	Description string `yaml:"description,omitempty" json:"description,omitempty"`
}

type registry struct {
	Layouts []Entry `yaml:"layouts"`
}

// Store resolves layout ids to skeleton text. Lookups go through the
// registry when one is loaded, then the layouts directory, then the layouts
// compiled into the binary.
type Store struct {
	dir     string
	entries map[string]Entry
}

// NewStore opens a layout store rooted at dir. registryFile may be empty; a
// relative path is resolved against dir.
func NewStore(dir, registryFile string) (*Store, error) {
	s := &Store{dir: dir, entries: map[string]Entry{}}
	if registryFile == "" {
		return s, nil
	}
	p := registryFile
	if !filepath.IsAbs(p) && dir != "" {
		p = filepath.Join(dir, p)
	}
	b, err := os.ReadFile(p)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return s, nil
		}
		return nil, fmt.Errorf("read layout registry: %w", err)
	}
	if err := s.loadRegistry(b); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Store) loadRegistry(b []byte) error {
	var reg registry
	if err := yaml.Unmarshal(b, &reg); err != nil {
		return fmt.Errorf("parse layout registry: %w", err)
	}
	for _, e := range reg.Layouts {
		id := normalize(e.ID)
		if err := validName(id); err != nil {
			return fmt.Errorf("layout registry entry %q: %w", e.ID, err)
		}
		if e.File == "" {
			e.File = id
		}
		if err := validName(e.File); err != nil {
			return fmt.Errorf("layout registry entry %q: %w", e.ID, err)
		}
		e.ID = id
		s.entries[id] = e
	}
	return nil
}

func normalize(name string) string {
	name = strings.TrimSpace(name)
	if name != "" && path.Ext(name) == "" {
		name += ".html"
	}
	return name
}

// validName keeps lookups inside the layouts directory.
func validName(name string) error {
	if name == "" || strings.ContainsAny(name, `/\`) || strings.Contains(name, "..") {
		return fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	return nil
}

// Get returns the skeleton for a layout id such as "default.html" or "default".
func (s *Store) Get(name string) (string, error) {
	id := normalize(name)
	if err := validName(id); err != nil {
		return "", err
	}
	file := id
	if e, ok := s.entries[id]; ok {
		file = e.File
	}
	if s.dir != "" {
		b, err := os.ReadFile(filepath.Join(s.dir, file))
		if err == nil {
			return string(b), nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("read layout %q: %w", id, err)
		}
	}
	b, err := builtin.ReadFile("builtin/" + file)
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrNotFound, id)
	}
	return string(b), nil
}

// List returns the registered layouts plus the built-in ones, by id.
func (s *Store) List() []Entry {
	seen := map[string]Entry{}
	if files, err := fs.ReadDir(builtin, "builtin"); err == nil {
		for _, f := range files {
			seen[f.Name()] = Entry{ID: f.Name(), File: f.Name(), Description: "built-in"}
		}
	}
	if s.dir != "" {
		if files, err := os.ReadDir(s.dir); err == nil {
			for _, f := range files {
				if !f.IsDir() && strings.EqualFold(path.Ext(f.Name()), ".html") {
					seen[f.Name()] = Entry{ID: f.Name(), File: f.Name()}
				}
			}
		}
	}
	for id, e := range s.entries {
		seen[id] = e
	}
	out := make([]Entry, 0, len(seen))
	for _, e := range seen {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
