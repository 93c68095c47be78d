package cli

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chmouel/jctl/internal/commit"
	"github.com/chmouel/jctl/internal/config"
	"github.com/chmouel/jctl/internal/journal"
	"github.com/chmouel/jctl/internal/picker"
)

type fakeGit struct {
	newFiles  []string
	recorded  map[string]string
	recordOK  bool
	status    string
	pushOK    bool
	hits      map[string][]string
	opened    []string
	editorErr error
}

func newFakeGit() *fakeGit {
	return &fakeGit{recorded: map[string]string{}, recordOK: true, pushOK: true}
}

func (f *fakeGit) NewFiles(_ context.Context) []string { return f.newFiles }

func (f *fakeGit) Record(_ context.Context, file, message string) bool {
	if !f.recordOK {
		return false
	}
	f.recorded[file] = message
	return true
}

func (f *fakeGit) StatusShort(_ context.Context) string { return f.status }

func (f *fakeGit) Push(_ context.Context) bool { return f.pushOK }

func (f *fakeGit) MatchingEntries(_ context.Context, keyword string, names []string) []string {
	set := make(map[string]struct{})
	for _, h := range f.hits[keyword] {
		set[h] = struct{}{}
	}
	var out []string
	for _, n := range names {
		if _, ok := set[n]; ok {
			out = append(out, n)
		}
	}
	return out
}

func (f *fakeGit) OpenInEditor(_ context.Context, _, path string) error {
	if f.editorErr != nil {
		return f.editorErr
	}
	f.opened = append(f.opened, path)
	return nil
}

func stubTerminal(t *testing.T, on bool) {
	t.Helper()
	prev := isTerminal
	isTerminal = func() bool { return on }
	t.Cleanup(func() { isTerminal = prev })
}

func stubPicker(t *testing.T, selection int) {
	t.Helper()
	prev := choosePicker
	choosePicker = func(_ string, _ []picker.Item, _ bool) (int, error) {
		return selection, nil
	}
	t.Cleanup(func() { choosePicker = prev })
}

func stubClock(t *testing.T, day string) {
	t.Helper()
	parsed, err := time.Parse("2006-01-02", day)
	require.NoError(t, err)
	prev := timeNow
	timeNow = func() time.Time { return parsed }
	t.Cleanup(func() { timeNow = prev })
}

func stubNoEzstring(t *testing.T) {
	t.Helper()
	prev := journal.LookupPath
	journal.LookupPath = func(string) (string, error) { return "", errors.New("not found") }
	t.Cleanup(func() { journal.LookupPath = prev })
}

func testStore(t *testing.T, names ...string) *journal.Store {
	t.Helper()
	dir := t.TempDir()
	for _, name := range names {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("x\n"), 0o600))
	}
	return journal.NewStore(dir, ".md")
}

func testConfig() *config.AppConfig {
	cfg := config.DefaultConfig()
	cfg.Editor = "vi"
	return cfg
}

func TestNewEntry(t *testing.T) {
	stubNoEzstring(t)
	stubClock(t, "2024-01-15")
	gitSvc := newFakeGit()
	store := testStore(t)
	var stdout bytes.Buffer

	err := NewEntry(context.Background(), gitSvc, store, testConfig(), "A Day at the Sea", "entry", false, &stdout)
	require.NoError(t, err)

	assert.Contains(t, stdout.String(), "2024-01-15-a-day-at-the-sea.md")
	assert.Equal(t, []string{"2024-01-15-a-day-at-the-sea.md"}, gitSvc.opened)
}

func TestNewEntryNoEdit(t *testing.T) {
	stubNoEzstring(t)
	stubClock(t, "2024-01-15")
	gitSvc := newFakeGit()
	var stdout bytes.Buffer

	err := NewEntry(context.Background(), gitSvc, testStore(t), testConfig(), "quiet day", "scan", true, &stdout)
	require.NoError(t, err)
	assert.Empty(t, gitSvc.opened)
}

func TestNewEntryEmptyTitle(t *testing.T) {
	var stdout bytes.Buffer
	err := NewEntry(context.Background(), newFakeGit(), testStore(t), testConfig(), "  ", "entry", true, &stdout)
	assert.Error(t, err)
}

func TestEditSingleMatchOpensEditor(t *testing.T) {
	gitSvc := newFakeGit()
	store := testStore(t, "2024-01-01-sea-trip.md", "2024-01-02-groceries.md")
	var stdout bytes.Buffer

	err := Edit(context.Background(), gitSvc, store, testConfig(), []string{"sea"}, &stdout)
	require.NoError(t, err)
	assert.Equal(t, []string{"2024-01-01-sea-trip.md"}, gitSvc.opened)
}

func TestEditNoKeywords(t *testing.T) {
	var stdout bytes.Buffer
	err := Edit(context.Background(), newFakeGit(), testStore(t), testConfig(), nil, &stdout)
	assert.ErrorIs(t, err, journal.ErrNoSearchTerms)
}

func TestEditNoMatches(t *testing.T) {
	store := testStore(t, "2024-01-01-sea-trip.md")
	var stdout bytes.Buffer
	err := Edit(context.Background(), newFakeGit(), store, testConfig(), []string{"volcano"}, &stdout)
	assert.ErrorIs(t, err, ErrNoMatches)
}

func TestEditMultipleWithoutTerminalListsMatches(t *testing.T) {
	stubTerminal(t, false)
	gitSvc := newFakeGit()
	store := testStore(t, "2024-01-01-sea-trip.md", "2024-01-02-sea-again.md")
	var stdout bytes.Buffer

	err := Edit(context.Background(), gitSvc, store, testConfig(), []string{"sea"}, &stdout)
	require.NoError(t, err)
	assert.Empty(t, gitSvc.opened)
	assert.Contains(t, stdout.String(), "2024-01-01-sea-trip.md")
	assert.Contains(t, stdout.String(), "2024-01-02-sea-again.md")
}

func TestEditMultipleWithPicker(t *testing.T) {
	stubTerminal(t, true)
	stubPicker(t, 1)
	gitSvc := newFakeGit()
	store := testStore(t, "2024-01-01-sea-trip.md", "2024-01-02-sea-again.md")
	var stdout bytes.Buffer

	err := Edit(context.Background(), gitSvc, store, testConfig(), []string{"sea"}, &stdout)
	require.NoError(t, err)
	// Matches are most recent first; index 1 is the older entry.
	assert.Equal(t, []string{"2024-01-01-sea-trip.md"}, gitSvc.opened)
}

func TestEditPickerCancelled(t *testing.T) {
	stubTerminal(t, true)
	stubPicker(t, picker.Cancelled)
	gitSvc := newFakeGit()
	store := testStore(t, "2024-01-01-sea-trip.md", "2024-01-02-sea-again.md")
	var stdout bytes.Buffer

	err := Edit(context.Background(), gitSvc, store, testConfig(), []string{"sea"}, &stdout)
	require.NoError(t, err)
	assert.Empty(t, gitSvc.opened)
}

func TestSearchOpensSingleContentMatch(t *testing.T) {
	gitSvc := newFakeGit()
	gitSvc.hits = map[string][]string{"whale": {"2024-01-01-sea-trip.md"}}
	store := testStore(t, "2024-01-01-sea-trip.md", "2024-01-02-groceries.md")
	var stdout bytes.Buffer

	err := Search(context.Background(), gitSvc, store, testConfig(), []string{"whale"}, nil, &stdout)
	require.NoError(t, err)
	assert.Equal(t, []string{"2024-01-01-sea-trip.md"}, gitSvc.opened)
}

func TestSearchNoKeywords(t *testing.T) {
	var stdout bytes.Buffer
	err := Search(context.Background(), newFakeGit(), testStore(t), testConfig(), nil, nil, &stdout)
	assert.ErrorIs(t, err, journal.ErrNoSearchTerms)
}

func TestSearchNoMatches(t *testing.T) {
	store := testStore(t, "2024-01-01-sea-trip.md")
	var stdout bytes.Buffer
	err := Search(context.Background(), newFakeGit(), store, testConfig(), []string{"volcano"}, nil, &stdout)
	assert.ErrorIs(t, err, ErrNoMatches)
}

func TestCommitSingleNewFile(t *testing.T) {
	gitSvc := newFakeGit()
	gitSvc.newFiles = []string{"2024-01-15-sea.md"}
	var stdout, stderr bytes.Buffer

	err := Commit(context.Background(), gitSvc, nil, &stdout, &stderr)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"2024-01-15-sea.md": "2024-01-15-sea.md: new entry"}, gitSvc.recorded)
	assert.Contains(t, stdout.String(), "Recorded 2024-01-15-sea.md")
}

func TestCommitWithPairsWarnsUnresolved(t *testing.T) {
	gitSvc := newFakeGit()
	gitSvc.newFiles = []string{"a.md", "b.md", "c.md"}
	var stdout, stderr bytes.Buffer

	err := Commit(context.Background(), gitSvc, []string{"-f", "a.md", "-m", "first"}, &stdout, &stderr)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"a.md": "first"}, gitSvc.recorded)
	assert.Contains(t, stderr.String(), "b.md")
	assert.Contains(t, stderr.String(), "c.md")
}

func TestCommitNothingToCommit(t *testing.T) {
	var stdout, stderr bytes.Buffer
	err := Commit(context.Background(), newFakeGit(), nil, &stdout, &stderr)
	assert.ErrorIs(t, err, commit.ErrNothingToCommit)
}

func TestCommitRecordFailure(t *testing.T) {
	gitSvc := newFakeGit()
	gitSvc.newFiles = []string{"a.md"}
	gitSvc.recordOK = false
	var stdout, stderr bytes.Buffer

	err := Commit(context.Background(), gitSvc, nil, &stdout, &stderr)
	assert.ErrorContains(t, err, "failed to record a.md")
}

func TestStatus(t *testing.T) {
	gitSvc := newFakeGit()
	gitSvc.status = "## main\n?? 2024-01-15-sea.md"
	var stdout bytes.Buffer

	err := Status(context.Background(), gitSvc, t.TempDir(), false, &stdout)
	require.NoError(t, err)
	assert.Contains(t, stdout.String(), "?? 2024-01-15-sea.md")
}

func TestStatusWatchMissingDir(t *testing.T) {
	var stdout bytes.Buffer
	err := Status(context.Background(), newFakeGit(), filepath.Join(t.TempDir(), "nope"), true, &stdout)
	assert.ErrorContains(t, err, "failed to watch")
}

func TestPush(t *testing.T) {
	assert.NoError(t, Push(context.Background(), newFakeGit()))

	gitSvc := newFakeGit()
	gitSvc.pushOK = false
	assert.ErrorContains(t, Push(context.Background(), gitSvc), "push failed")
}
