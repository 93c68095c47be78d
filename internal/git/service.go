// Package git wraps the git and grep commands jctl delegates to.
package git

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"slices"
	"sort"
	"strings"

	log "github.com/chmouel/jctl/internal/log"
)

// LookupPath is used to find executables in PATH. It's exposed as a package
// variable so tests can mock it and avoid depending on system binaries being
// installed.
var LookupPath = exec.LookPath

// NotifyFn receives user-facing notifications.
type NotifyFn func(message string, severity string)

// Service runs git and grep inside the journal directory. One invocation of
// jctl performs a single synchronous pass; there is no shared state between
// runs beyond what git itself stores.
type Service struct {
	notify NotifyFn
	dir    string
}

// NewService constructs a Service rooted at the journal directory.
func NewService(dir string, notify NotifyFn) *Service {
	return &Service{dir: dir, notify: notify}
}

// Dir returns the journal directory the service operates in.
func (s *Service) Dir() string {
	return s.dir
}

func (s *Service) debugf(format string, args ...any) {
	log.Printf(format, args...)
}

func prepareAllowedCommand(ctx context.Context, args []string) (*exec.Cmd, error) {
	if len(args) == 0 {
		return nil, fmt.Errorf("no command provided")
	}

	switch args[0] {
	case "git":
		// #nosec G204 -- arguments for git come from internal logic and are not shell interpolated
		return exec.CommandContext(ctx, "git", args[1:]...), nil
	case "grep":
		// #nosec G204 -- grep arguments are fixed flags plus user keywords passed as argv, not through a shell
		return exec.CommandContext(ctx, "grep", args[1:]...), nil
	default:
		return nil, fmt.Errorf("unsupported command %q", args[0])
	}
}

// Run executes an allow-listed command in the journal directory and
// optionally trims its output. Exit codes listed in okReturncodes are not
// treated as failures; with silent set, failures are logged but not shown.
func (s *Service) Run(ctx context.Context, args []string, okReturncodes []int, strip, silent bool) string {
	command := strings.Join(args, " ")
	if command == "" {
		command = "<empty>"
	}
	s.debugf("run: %s (cwd=%s)", command, s.dir)

	cmd, err := prepareAllowedCommand(ctx, args)
	if err != nil {
		s.notify(fmt.Sprintf("Unsupported command: %s", command), "error")
		s.debugf("error: %s (unsupported command)", command)
		return ""
	}
	cmd.Dir = s.dir

	output, err := cmd.Output()
	if err != nil {
		if exitError, ok := err.(*exec.ExitError); ok {
			returnCode := exitError.ExitCode()
			if !slices.Contains(okReturncodes, returnCode) {
				if silent {
					s.debugf("error: %s (exit %d, silenced)", command, returnCode)
					return ""
				}
				suffix := fmt.Sprintf(" (exit %d)", returnCode)
				if stderr := strings.TrimSpace(string(exitError.Stderr)); stderr != "" {
					suffix = ": " + stderr
				}
				s.notify(fmt.Sprintf("Command failed: %s%s", command, suffix), "error")
				s.debugf("error: %s%s", command, suffix)
				return ""
			}
		} else {
			if !silent {
				s.notify(fmt.Sprintf("Command not found: %s", args[0]), "error")
				s.debugf("error: command not found: %s", args[0])
			}
			return ""
		}
	}

	out := string(output)
	if strip {
		out = strings.TrimSpace(out)
	}
	s.debugf("ok: %s", command)
	return out
}

// RunChecked runs an allow-listed command and reports failures through the
// notify callback with the given prefix. It returns whether the command
// succeeded.
func (s *Service) RunChecked(ctx context.Context, args []string, errorPrefix string) bool {
	command := strings.Join(args, " ")
	s.debugf("run: %s (cwd=%s)", command, s.dir)

	cmd, err := prepareAllowedCommand(ctx, args)
	if err != nil {
		s.notify(fmt.Sprintf("%s: %v", errorPrefix, err), "error")
		return false
	}
	cmd.Dir = s.dir

	output, err := cmd.CombinedOutput()
	if err != nil {
		detail := strings.TrimSpace(string(output))
		if detail == "" {
			detail = err.Error()
		}
		s.notify(fmt.Sprintf("%s: %s", errorPrefix, detail), "error")
		s.debugf("error: %s: %s", errorPrefix, detail)
		return false
	}

	s.debugf("ok: %s", command)
	return true
}

// NewFiles returns the journal entries the repository does not track yet:
// untracked files plus files staged for the first time.
func (s *Service) NewFiles(ctx context.Context) []string {
	raw := s.Run(ctx, []string{"git", "status", "--porcelain"}, []int{0}, false, false)
	return ParseNewFiles(raw)
}

// ParseNewFiles extracts untracked ("??") and newly added ("A ") paths from
// git status --porcelain output.
func ParseNewFiles(raw string) []string {
	var files []string
	for _, line := range strings.Split(raw, "\n") {
		if len(line) < 4 {
			continue
		}
		status := line[:2]
		path := strings.TrimSpace(line[3:])
		if path == "" {
			continue
		}
		if status == "??" || status[0] == 'A' {
			files = append(files, path)
		}
	}
	sort.Strings(files)
	return files
}

// Record stages one entry and commits it with the given message. Each entry
// gets its own commit so the history reads one line per journal entry.
func (s *Service) Record(ctx context.Context, file, message string) bool {
	if !s.RunChecked(ctx, []string{"git", "add", "--", file}, fmt.Sprintf("Failed to add %s", file)) {
		return false
	}
	return s.RunChecked(ctx, []string{"git", "commit", "-m", message, "--", file}, fmt.Sprintf("Failed to commit %s", file))
}

// StatusShort returns the short-format status of the journal repository.
func (s *Service) StatusShort(ctx context.Context) string {
	return s.Run(ctx, []string{"git", "status", "--short", "--branch"}, []int{0}, true, false)
}

// Push pushes recorded entries to the default remote.
func (s *Service) Push(ctx context.Context) bool {
	return s.RunChecked(ctx, []string{"git", "push"}, "Failed to push journal")
}

// MatchingEntries returns the subset of names whose file content contains
// keyword, case-insensitively. Search is delegated to grep; exit code 1
// (no match anywhere) is not an error.
func (s *Service) MatchingEntries(ctx context.Context, keyword string, names []string) []string {
	if keyword == "" || len(names) == 0 {
		return nil
	}
	args := append([]string{"grep", "-l", "-i", "-F", "--", keyword}, names...)
	out := s.Run(ctx, args, []int{0, 1}, true, false)
	if out == "" {
		return nil
	}
	matches := strings.Split(out, "\n")
	sort.Strings(matches)
	return matches
}

// OpenInEditor runs the configured editor on path with the terminal
// attached, blocking until the editor exits.
func (s *Service) OpenInEditor(ctx context.Context, editor, path string) error {
	if strings.TrimSpace(editor) == "" {
		return fmt.Errorf("no editor configured; set $EDITOR or the editor config key")
	}
	if _, err := LookupPath(editor); err != nil {
		return fmt.Errorf("editor %q not found in PATH", editor)
	}

	s.debugf("edit: %s %s", editor, path)
	// #nosec G204 -- the editor comes from the user's own config or $EDITOR
	cmd := exec.CommandContext(ctx, editor, path)
	cmd.Dir = s.dir
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}
