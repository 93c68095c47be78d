// Package cli implements the jctl subcommand operations: creating, finding,
// editing and recording journal entries.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"golang.org/x/term"

	"github.com/chmouel/jctl/internal/commit"
	"github.com/chmouel/jctl/internal/config"
	"github.com/chmouel/jctl/internal/git"
	"github.com/chmouel/jctl/internal/journal"
	"github.com/chmouel/jctl/internal/picker"
	"github.com/chmouel/jctl/internal/watch"
)

// ErrNoMatches is returned when a search or edit finds no entries. It exits
// the process with code 1.
var ErrNoMatches = errors.New("no matching entries")

// Package-level seams so tests can run without a real terminal, clock or
// filesystem watcher.
var (
	timeNow      = time.Now
	choosePicker = picker.Choose
	newWatcher   = watch.New
	isTerminal   = func() bool {
		return term.IsTerminal(int(os.Stdin.Fd())) && term.IsTerminal(int(os.Stdout.Fd()))
	}
)

type gitService interface {
	NewFiles(ctx context.Context) []string
	Record(ctx context.Context, file, message string) bool
	StatusShort(ctx context.Context) string
	Push(ctx context.Context) bool
	MatchingEntries(ctx context.Context, keyword string, names []string) []string
	OpenInEditor(ctx context.Context, editor, path string) error
}

var _ gitService = (*git.Service)(nil)

// NewEntry creates a dated journal entry with the given layout and opens it
// in the editor. The entry path is printed to stdout so shell pipelines can
// pick it up.
func NewEntry(ctx context.Context, gitSvc gitService, store *journal.Store, cfg *config.AppConfig, title, layout string, noEdit bool, stdout io.Writer) error {
	name, err := store.Create(ctx, title, layout, timeNow())
	if err != nil {
		return err
	}

	fmt.Fprintln(stdout, store.EntryPath(name))

	if noEdit {
		return nil
	}
	return gitSvc.OpenInEditor(ctx, cfg.Editor, name)
}

// Search finds entries whose content matches every keyword and opens the
// chosen one in the editor.
func Search(ctx context.Context, gitSvc gitService, store *journal.Store, cfg *config.AppConfig, keywords, globs []string, stdout io.Writer) error {
	matches, err := journal.Search(ctx, gitSvc, store, keywords, globs)
	if err != nil {
		return err
	}
	return openMatch(ctx, gitSvc, store, cfg, matches, "Entries matching your search", stdout)
}

// Edit finds entries whose filename contains every keyword and opens the
// chosen one in the editor. Filenames carry the date and title slug, which
// is usually enough to pin down an entry without a content search.
func Edit(ctx context.Context, gitSvc gitService, store *journal.Store, cfg *config.AppConfig, keywords []string, stdout io.Writer) error {
	if len(keywords) == 0 {
		return fmt.Errorf("%w: give at least one keyword", journal.ErrNoSearchTerms)
	}

	matches, err := store.FindByName(keywords)
	if err != nil {
		return err
	}
	return openMatch(ctx, gitSvc, store, cfg, matches, "Entries matching your keywords", stdout)
}

// openMatch dispatches on the number of matches: none is an error, one opens
// directly, several go through the picker when a terminal is attached and
// are listed on stdout otherwise.
func openMatch(ctx context.Context, gitSvc gitService, store *journal.Store, cfg *config.AppConfig, matches []string, title string, stdout io.Writer) error {
	switch len(matches) {
	case 0:
		return fmt.Errorf("%w: nothing in %s matched", ErrNoMatches, store.Dir())
	case 1:
		return gitSvc.OpenInEditor(ctx, cfg.Editor, matches[0])
	}

	if !isTerminal() {
		for _, name := range matches {
			fmt.Fprintln(stdout, name)
		}
		return nil
	}

	items := make([]picker.Item, 0, len(matches))
	for _, name := range matches {
		items = append(items, picker.Item{Name: name, Detail: store.Title(name)})
	}
	selected, err := choosePicker(title, items, cfg.ShowIcons)
	if err != nil {
		return err
	}
	if selected == picker.Cancelled {
		return nil
	}
	return gitSvc.OpenInEditor(ctx, cfg.Editor, matches[selected])
}

// Commit records new journal entries. The tokens are the raw arguments after
// the commit subcommand; see the commit package for the resolution rules.
func Commit(ctx context.Context, gitSvc gitService, tokens []string, stdout, stderr io.Writer) error {
	request, err := commit.Resolve(gitSvc.NewFiles(ctx), tokens)
	if err != nil {
		return err
	}

	for _, file := range request.Unresolved {
		fmt.Fprintf(stderr, "Warning: %s has no -f/-m pair, not recorded\n", file)
	}

	for _, file := range request.Files() {
		message := request.Messages[file]
		if !gitSvc.Record(ctx, file, message) {
			return fmt.Errorf("failed to record %s", file)
		}
		fmt.Fprintf(stdout, "Recorded %s (%s)\n", file, message)
	}
	return nil
}

// Status prints the short repository status of the journal. With watching
// enabled it re-prints on every change to the journal directory until the
// context is cancelled.
func Status(ctx context.Context, gitSvc gitService, dir string, watchChanges bool, stdout io.Writer) error {
	printStatus := func() {
		out := gitSvc.StatusShort(ctx)
		if out == "" {
			return
		}
		fmt.Fprintln(stdout, out)
	}
	printStatus()

	if !watchChanges {
		return nil
	}

	watcher, err := newWatcher(dir)
	if err != nil {
		return fmt.Errorf("failed to watch %s: %w", dir, err)
	}
	defer watcher.Stop()

	for watcher.Wait(ctx) {
		fmt.Fprintln(stdout, "---")
		printStatus()
	}
	return nil
}

// Push pushes recorded entries to the journal's remote.
func Push(ctx context.Context, gitSvc gitService) error {
	if !gitSvc.Push(ctx) {
		return fmt.Errorf("push failed")
	}
	return nil
}
