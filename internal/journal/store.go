// Package journal manages the flat directory of dated journal entries.
package journal

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// Store reads and creates entries inside one journal directory. Entries are
// plain files named "YYYY-MM-DD-title-slug<ext>"; everything else in the
// directory is ignored.
type Store struct {
	dir string
	ext string
}

// NewStore returns a Store for the given directory and entry extension.
func NewStore(dir, ext string) *Store {
	return &Store{dir: dir, ext: ext}
}

// Dir returns the journal directory.
func (s *Store) Dir() string {
	return s.dir
}

// EntryPath returns the full path for an entry basename. The file does not
// need to exist; callers creating entries rely on that.
func (s *Store) EntryPath(name string) string {
	return filepath.Join(s.dir, name)
}

// Entries returns the basenames of all journal entries, most recent first.
// Names start with the ISO date, so reverse-lexicographic order is reverse
// chronological order.
func (s *Store) Entries() ([]string, error) {
	dirEntries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read journal directory %s: %w", s.dir, err)
	}

	var names []string
	for _, e := range dirEntries {
		if e.IsDir() || strings.HasPrefix(e.Name(), ".") {
			continue
		}
		if s.ext != "" && !strings.HasSuffix(e.Name(), s.ext) {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Sort(sort.Reverse(sort.StringSlice(names)))
	return names, nil
}

// FindByName returns the entries whose filename contains every keyword,
// case-insensitively, most recent first. This backs the edit command: entry
// filenames carry the date and title, which is usually enough to find one.
func (s *Store) FindByName(keywords []string) ([]string, error) {
	entries, err := s.Entries()
	if err != nil {
		return nil, err
	}

	var matches []string
	for _, entry := range entries {
		lower := strings.ToLower(entry)
		all := true
		for _, word := range keywords {
			if !strings.Contains(lower, strings.ToLower(word)) {
				all = false
				break
			}
		}
		if all {
			matches = append(matches, entry)
		}
	}
	return matches, nil
}

// Filename builds the entry basename for a title on a given day.
func (s *Store) Filename(ctx context.Context, title string, day time.Time) string {
	return fmt.Sprintf("%s-%s%s", day.Format("2006-01-02"), Slug(ctx, title), s.ext)
}

// Create writes a new entry with Jekyll front matter and returns its
// basename. It refuses to overwrite an existing entry.
func (s *Store) Create(ctx context.Context, title, layout string, day time.Time) (string, error) {
	if strings.TrimSpace(title) == "" {
		return "", fmt.Errorf("entry title must not be empty")
	}

	name := s.Filename(ctx, title, day)
	path := s.EntryPath(name)
	if _, err := os.Stat(path); err == nil {
		return "", fmt.Errorf("entry %s already exists", name)
	}

	if err := os.MkdirAll(s.dir, 0o750); err != nil {
		return "", fmt.Errorf("failed to create journal directory: %w", err)
	}

	content := fmt.Sprintf("---\nlayout: %s\ntitle: %q\ndate: %s\n---\n\n",
		layout, title, day.Format("2006-01-02"))
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		return "", fmt.Errorf("failed to write entry: %w", err)
	}
	return name, nil
}

// Title extracts the front matter title of an entry, falling back to the
// filename when there is none.
func (s *Store) Title(name string) string {
	// #nosec G304 -- entry names come from the journal directory listing
	data, err := os.ReadFile(s.EntryPath(name))
	if err != nil {
		return name
	}
	for _, line := range strings.Split(string(data), "\n") {
		if after, ok := strings.CutPrefix(line, "title:"); ok {
			return strings.Trim(strings.TrimSpace(after), `"`)
		}
	}
	return name
}
