package journal

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func stubNoEzstring(t *testing.T) {
	t.Helper()
	orig := LookupPath
	LookupPath = func(string) (string, error) { return "", fmt.Errorf("not found") }
	t.Cleanup(func() { LookupPath = orig })
}

func TestSlugFallback(t *testing.T) {
	stubNoEzstring(t)

	for title, want := range map[string]string{
		"A Day at the Sea!":       "a-day-at-the-sea",
		"hello":                   "hello",
		"  spaces   everywhere  ": "spaces-everywhere",
		"C'est l'été":             "c-est-l-été",
		"1234":                    "1234",
		"!!!":                     "",
	} {
		assert.Equal(t, want, Slug(context.Background(), title), "title: %q", title)
	}
}

func TestSlugUsesEzstringWhenAvailable(t *testing.T) {
	origLookup := LookupPath
	origRun := runEzstring
	t.Cleanup(func() {
		LookupPath = origLookup
		runEzstring = origRun
	})

	LookupPath = func(name string) (string, error) { return "/usr/bin/" + name, nil }
	runEzstring = func(_ context.Context, title string) (string, error) {
		return "ez-" + slugify(title), nil
	}

	assert.Equal(t, "ez-some-title", Slug(context.Background(), "Some Title"))
}

func TestSlugEzstringFailureFallsBack(t *testing.T) {
	origLookup := LookupPath
	origRun := runEzstring
	t.Cleanup(func() {
		LookupPath = origLookup
		runEzstring = origRun
	})

	LookupPath = func(name string) (string, error) { return "/usr/bin/" + name, nil }
	runEzstring = func(context.Context, string) (string, error) {
		return "", fmt.Errorf("boom")
	}

	assert.Equal(t, "some-title", Slug(context.Background(), "Some Title"))
}
