// Package catalog lists, creates and deletes the plain-text files in one flat
// documents directory.
package catalog

import (
	stderrors "errors"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/hpungsan/jot/internal/errors"
)

// Entry is a file in the catalog, identified by its name within the directory.
type Entry struct {
	Name string `json:"name"`
	Path string `json:"path"`
}

// Catalog is a view of a single documents directory.
//
// Names passed to Create are remembered as pending until their file appears
// on disk, so a created entry is listed before its first save. The catalog
// does not lock anything; the directory itself enforces name uniqueness.
type Catalog struct {
	dir     string
	entries []Entry
	pending map[string]Entry
}

// Open returns a Catalog for dir, creating the directory if it is missing.
func Open(dir string) (*Catalog, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, errors.NewIO("resolve", dir, err)
	}
	if err := os.MkdirAll(abs, 0700); err != nil {
		return nil, errors.NewIO("create directory", abs, err)
	}
	return &Catalog{
		dir:     abs,
		pending: make(map[string]Entry),
	}, nil
}

// Dir returns the absolute documents directory.
func (c *Catalog) Dir() string {
	return c.dir
}

// List scans the directory (non-recursively) and returns its entries sorted
// by name. Directories, non-regular files and dot-files are skipped. Pending
// entries not yet on disk are included.
func (c *Catalog) List() ([]Entry, error) {
	dirents, err := os.ReadDir(c.dir)
	if err != nil {
		return nil, errors.NewIO("list", c.dir, err)
	}

	seen := make(map[string]bool, len(dirents))
	entries := make([]Entry, 0, len(dirents)+len(c.pending))
	for _, de := range dirents {
		if !de.Type().IsRegular() || strings.HasPrefix(de.Name(), ".") {
			continue
		}
		seen[de.Name()] = true
		entries = append(entries, c.entry(de.Name()))
	}

	for name, e := range c.pending {
		if seen[name] {
			// Materialized by a save; no longer pending.
			delete(c.pending, name)
			continue
		}
		entries = append(entries, e)
	}

	sortEntries(entries)
	c.entries = entries
	return slices.Clone(entries), nil
}

// Entries returns the listing from the last List call, updated by Create
// and Delete since.
func (c *Catalog) Entries() []Entry {
	return slices.Clone(c.entries)
}

// Create registers a new entry called name. Nothing is written: the file
// materializes on its first save. Creating a name that already exists
// returns the existing entry.
func (c *Catalog) Create(name string) (Entry, error) {
	e, err := c.Lookup(name)
	if err != nil {
		return Entry{}, err
	}
	if _, err := os.Lstat(e.Path); stderrors.Is(err, fs.ErrNotExist) {
		c.pending[e.Name] = e
	}
	if !slices.Contains(c.entries, e) {
		c.entries = append(c.entries, e)
		sortEntries(c.entries)
	}
	return e, nil
}

// Lookup validates name and resolves it to an entry without registering it.
func (c *Catalog) Lookup(name string) (Entry, error) {
	clean, err := ValidateName(name)
	if err != nil {
		return Entry{}, err
	}
	return c.entry(clean), nil
}

// IsPending reports whether e was created but has no file yet.
func (c *Catalog) IsPending(e Entry) bool {
	p, ok := c.pending[e.Name]
	if !ok {
		return false
	}
	if _, err := os.Lstat(p.Path); err == nil {
		delete(c.pending, e.Name)
		return false
	}
	return true
}

// Delete removes the entry's file and drops it from the listing.
// A pending entry with no file is simply forgotten.
func (c *Catalog) Delete(e Entry) error {
	resolved, err := c.Lookup(e.Name)
	if err != nil {
		return err
	}

	if info, err := os.Lstat(resolved.Path); err == nil && !info.Mode().IsRegular() {
		return errors.NewIO("delete", resolved.Path, fs.ErrInvalid)
	}

	_, wasPending := c.pending[resolved.Name]
	delete(c.pending, resolved.Name)

	if err := os.Remove(resolved.Path); err != nil {
		if !(wasPending && stderrors.Is(err, fs.ErrNotExist)) {
			return errors.NewIO("delete", resolved.Path, err)
		}
	}

	c.entries = slices.DeleteFunc(c.entries, func(x Entry) bool { return x.Name == resolved.Name })
	return nil
}

func (c *Catalog) entry(name string) Entry {
	return Entry{Name: name, Path: filepath.Join(c.dir, name)}
}

func sortEntries(entries []Entry) {
	slices.SortFunc(entries, func(a, b Entry) int { return strings.Compare(a.Name, b.Name) })
}
