package journal

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sort"
)

// ErrNoSearchTerms is returned when search or edit is invoked without any
// keywords. It exits the process with code 1.
var ErrNoSearchTerms = errors.New("no search terms")

// Matcher reports which of the given entries contain a keyword. The git
// service implements it by delegating to grep; tests use a fake.
type Matcher interface {
	MatchingEntries(ctx context.Context, keyword string, names []string) []string
}

// Search returns the entries whose content contains every keyword, most
// recent first. Globs, when given, restrict the candidate entries by
// filename before any content matching happens.
func Search(ctx context.Context, m Matcher, store *Store, keywords, globs []string) ([]string, error) {
	if len(keywords) == 0 {
		return nil, fmt.Errorf("%w: give at least one keyword", ErrNoSearchTerms)
	}

	candidates, err := store.Entries()
	if err != nil {
		return nil, err
	}
	candidates, err = filterByGlobs(candidates, globs)
	if err != nil {
		return nil, err
	}

	// Intersect per-keyword matches: an entry counts only when every
	// keyword appears somewhere in its text.
	for _, keyword := range keywords {
		if len(candidates) == 0 {
			return nil, nil
		}
		matched := m.MatchingEntries(ctx, keyword, candidates)
		candidates = intersect(candidates, matched)
	}

	sort.Sort(sort.Reverse(sort.StringSlice(candidates)))
	return candidates, nil
}

func filterByGlobs(names, globs []string) ([]string, error) {
	if len(globs) == 0 {
		return names, nil
	}

	var kept []string
	for _, name := range names {
		for _, glob := range globs {
			ok, err := filepath.Match(glob, name)
			if err != nil {
				return nil, fmt.Errorf("bad entry glob %q: %w", glob, err)
			}
			if ok {
				kept = append(kept, name)
				break
			}
		}
	}
	return kept, nil
}

func intersect(names, matched []string) []string {
	set := make(map[string]struct{}, len(matched))
	for _, m := range matched {
		set[m] = struct{}{}
	}
	var kept []string
	for _, n := range names {
		if _, ok := set[n]; ok {
			kept = append(kept, n)
		}
	}
	return kept
}
