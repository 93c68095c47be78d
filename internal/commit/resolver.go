// Package commit resolves which new journal entries to record and with what
// messages, from the raw tokens given to the commit subcommand.
package commit

import (
	"errors"
	"fmt"
	"path/filepath"
	"sort"
)

// Error kinds surfaced to the user. Each maps to a process exit code via
// ExitCode.
var (
	// ErrNothingToCommit is returned when the journal has no new entries.
	ErrNothingToCommit = errors.New("nothing to commit")
	// ErrAmbiguousTarget is returned when several new entries exist and the
	// arguments do not say which ones to record.
	ErrAmbiguousTarget = errors.New("ambiguous commit target")
	// ErrUnknownFile is returned when a -f flag names a file that is not new.
	ErrUnknownFile = errors.New("unknown file")
	// ErrMalformedArguments is returned when the -f/-m pairing is broken.
	ErrMalformedArguments = errors.New("malformed arguments")
)

// Exit codes for resolver failures. Usage errors follow the argparse
// convention of exiting 2.
const (
	ExitOK              = 0
	ExitNothingToCommit = 1
	ExitUsage           = 2
)

// ExitCode maps a resolver error to the process exit code.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return ExitOK
	case errors.Is(err, ErrNothingToCommit):
		return ExitNothingToCommit
	case errors.Is(err, ErrAmbiguousTarget),
		errors.Is(err, ErrUnknownFile),
		errors.Is(err, ErrMalformedArguments):
		return ExitUsage
	default:
		return 1
	}
}

// FlagPair is an explicit file/message association from a `-f <file> -m
// <message>` flag pair.
type FlagPair struct {
	File    string
	Message string
}

// Args is the structured form of the commit token list: an optional leading
// free-text message followed by zero or more flag pairs.
type Args struct {
	FreeText string
	Pairs    []FlagPair
}

// Request maps each entry to record onto its commit message. Entries that
// had no matching flag pair end up in Unresolved and are reported as a
// warning, not committed.
type Request struct {
	Messages   map[string]string
	Unresolved []string
}

// Files returns the resolved entry names in a stable order.
func (r *Request) Files() []string {
	files := make([]string, 0, len(r.Messages))
	for f := range r.Messages {
		files = append(files, f)
	}
	sort.Strings(files)
	return files
}

// ParseArgs turns the raw token list into an Args value. The grammar is a
// single optional free-text message (any tokens before the first flag)
// followed by `-f value -m value` pairs. Every -f must be immediately
// followed by its -m; anything else is ErrMalformedArguments.
func ParseArgs(tokens []string) (Args, error) {
	args := Args{}
	i := 0

	// Leading free text: everything up to the first flag.
	for i < len(tokens) && tokens[i] != "-f" && tokens[i] != "-m" {
		if args.FreeText != "" {
			args.FreeText += " "
		}
		args.FreeText += tokens[i]
		i++
	}

	for i < len(tokens) {
		switch tokens[i] {
		case "-f":
			if i+1 >= len(tokens) {
				return Args{}, fmt.Errorf("%w: -f is missing its file value", ErrMalformedArguments)
			}
			file := tokens[i+1]
			if file == "" || file == "-f" || file == "-m" {
				return Args{}, fmt.Errorf("%w: -f is missing its file value", ErrMalformedArguments)
			}
			if i+2 >= len(tokens) || tokens[i+2] != "-m" {
				return Args{}, fmt.Errorf("%w: -f %s has no following -m message", ErrMalformedArguments, file)
			}
			if i+3 >= len(tokens) || tokens[i+3] == "" || tokens[i+3] == "-f" || tokens[i+3] == "-m" {
				return Args{}, fmt.Errorf("%w: -m after -f %s is missing its message", ErrMalformedArguments, file)
			}
			args.Pairs = append(args.Pairs, FlagPair{File: file, Message: tokens[i+3]})
			i += 4
		case "-m":
			return Args{}, fmt.Errorf("%w: -m without a preceding -f", ErrMalformedArguments)
		default:
			return Args{}, fmt.Errorf("%w: unexpected argument %q after flag pairs", ErrMalformedArguments, tokens[i])
		}
	}

	return args, nil
}

// Resolve decides which new entries to record and the message for each. It
// is a pure, single synchronous pass: newFiles is the injected list of
// entries the version-control tool does not know about, tokens is the raw
// argument list after the commit subcommand.
func Resolve(newFiles, tokens []string) (*Request, error) {
	if len(newFiles) == 0 {
		return nil, fmt.Errorf("%w: every journal entry is already recorded", ErrNothingToCommit)
	}

	args, err := ParseArgs(tokens)
	if err != nil {
		return nil, err
	}

	if len(newFiles) == 1 {
		return resolveSingle(newFiles[0], args)
	}
	return resolveMany(newFiles, args)
}

// DefaultMessage is the auto-generated message used when a single new entry
// is committed without any arguments.
func DefaultMessage(file string) string {
	return file + ": new entry"
}

func resolveSingle(file string, args Args) (*Request, error) {
	message := DefaultMessage(file)
	if args.FreeText != "" {
		message = args.FreeText
	}

	// A flag pair is optional here, but when given it must name the one new
	// file; its message overrides the free-text one. Duplicate pairs for the
	// same file are last-write-wins.
	for _, pair := range args.Pairs {
		if !refersTo(pair.File, file) {
			return nil, fmt.Errorf("%w: %s is not a new entry (only %s is uncommitted)", ErrUnknownFile, pair.File, file)
		}
		message = pair.Message
	}

	return &Request{Messages: map[string]string{file: message}}, nil
}

func resolveMany(newFiles []string, args Args) (*Request, error) {
	if len(args.Pairs) == 0 {
		return nil, fmt.Errorf("%w: %d new entries; pick file(s) with -f and message(s) with -m", ErrAmbiguousTarget, len(newFiles))
	}

	messages := make(map[string]string, len(args.Pairs))
	for _, pair := range args.Pairs {
		target, ok := findTarget(pair.File, newFiles)
		if !ok {
			return nil, fmt.Errorf("%w: %s is not among the new entries", ErrUnknownFile, pair.File)
		}
		messages[target] = pair.Message
	}

	var unresolved []string
	for _, f := range newFiles {
		if _, ok := messages[f]; !ok {
			unresolved = append(unresolved, f)
		}
	}
	sort.Strings(unresolved)

	return &Request{Messages: messages, Unresolved: unresolved}, nil
}

// findTarget matches a -f value against the new-file list, first by exact
// path, then by unique basename.
func findTarget(name string, newFiles []string) (string, bool) {
	for _, f := range newFiles {
		if f == name {
			return f, true
		}
	}
	match := ""
	for _, f := range newFiles {
		if filepath.Base(f) == filepath.Base(name) {
			if match != "" {
				return "", false
			}
			match = f
		}
	}
	return match, match != ""
}

func refersTo(name, file string) bool {
	return name == file || filepath.Base(name) == filepath.Base(file)
}
