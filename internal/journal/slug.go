package journal

import (
	"context"
	"os/exec"
	"strings"
	"unicode"
)

// LookupPath is swappable in tests, mirroring the git package.
var LookupPath = exec.LookPath

// runEzstring shells out to the external normalization utility; swappable in
// tests so they don't need the binary installed.
var runEzstring = func(ctx context.Context, title string) (string, error) {
	out, err := exec.CommandContext(ctx, "ezstring", title).Output()
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(out)), nil
}

// Slug converts an entry title into its filesystem-safe filename part. The
// external ezstring utility is used when present on PATH so filenames stay
// consistent with entries created outside jctl; otherwise a built-in
// normalization applies: lowercase, runs of anything non-alphanumeric
// collapse to a single hyphen.
func Slug(ctx context.Context, title string) string {
	if _, err := LookupPath("ezstring"); err == nil {
		if out, err := runEzstring(ctx, title); err == nil && out != "" {
			return out
		}
	}
	return slugify(title)
}

func slugify(title string) string {
	var b strings.Builder
	hyphen := false
	for _, r := range strings.ToLower(title) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
			hyphen = false
		default:
			if b.Len() > 0 && !hyphen {
				b.WriteByte('-')
				hyphen = true
			}
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}
