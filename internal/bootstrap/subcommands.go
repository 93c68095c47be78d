package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	urfavecli "github.com/urfave/cli/v3"

	"github.com/chmouel/jctl/internal/cli"
	"github.com/chmouel/jctl/internal/commit"
	"github.com/chmouel/jctl/internal/config"
	"github.com/chmouel/jctl/internal/git"
	"github.com/chmouel/jctl/internal/journal"
	"github.com/chmouel/jctl/internal/log"
)

type (
	newEntryFuncType func(ctx context.Context, gitSvc *git.Service, store *journal.Store, cfg *config.AppConfig, title, layout string, noEdit bool, stdout io.Writer) error
	findFuncType     func(ctx context.Context, gitSvc *git.Service, store *journal.Store, cfg *config.AppConfig, keywords, globs []string, stdout io.Writer) error
	editFuncType     func(ctx context.Context, gitSvc *git.Service, store *journal.Store, cfg *config.AppConfig, keywords []string, stdout io.Writer) error
	commitFuncType   func(ctx context.Context, gitSvc *git.Service, tokens []string, stdout, stderr io.Writer) error
	statusFuncType   func(ctx context.Context, gitSvc *git.Service, dir string, watchChanges bool, stdout io.Writer) error
	pushFuncType     func(ctx context.Context, gitSvc *git.Service) error
)

// Operation seams so tests can run command actions without a journal,
// editor or git repository.
var (
	loadCLIConfigFunc = loadCLIConfig

	newEntryFunc newEntryFuncType = func(ctx context.Context, gitSvc *git.Service, store *journal.Store, cfg *config.AppConfig, title, layout string, noEdit bool, stdout io.Writer) error {
		return cli.NewEntry(ctx, gitSvc, store, cfg, title, layout, noEdit, stdout)
	}
	searchFunc findFuncType = func(ctx context.Context, gitSvc *git.Service, store *journal.Store, cfg *config.AppConfig, keywords, globs []string, stdout io.Writer) error {
		return cli.Search(ctx, gitSvc, store, cfg, keywords, globs, stdout)
	}
	editFunc editFuncType = func(ctx context.Context, gitSvc *git.Service, store *journal.Store, cfg *config.AppConfig, keywords []string, stdout io.Writer) error {
		return cli.Edit(ctx, gitSvc, store, cfg, keywords, stdout)
	}
	commitFunc commitFuncType = func(ctx context.Context, gitSvc *git.Service, tokens []string, stdout, stderr io.Writer) error {
		return cli.Commit(ctx, gitSvc, tokens, stdout, stderr)
	}
	statusFunc statusFuncType = func(ctx context.Context, gitSvc *git.Service, dir string, watchChanges bool, stdout io.Writer) error {
		return cli.Status(ctx, gitSvc, dir, watchChanges, stdout)
	}
	pushFunc pushFuncType = func(ctx context.Context, gitSvc *git.Service) error {
		return cli.Push(ctx, gitSvc)
	}
)

// Commands returns the jctl subcommand tree.
func Commands() []*urfavecli.Command {
	return []*urfavecli.Command{
		newCommand(),
		newElectronicCommand(),
		newScanCommand(),
		searchCommand(),
		editCommand(),
		commitCommand(),
		statusCommand(),
		pushCommand(),
	}
}

// loadCLIConfig loads the configuration and wires up debug logging from the
// global flags. The flag values take precedence over the config file.
func loadCLIConfig(cmd *urfavecli.Command) (*config.AppConfig, error) {
	cfg, err := config.LoadConfig(cmd.String("config-file"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		cfg = config.DefaultConfig()
	}

	if journalDir := cmd.String("journal-dir"); journalDir != "" {
		cfg.JournalDir = journalDir
	}
	expanded, err := config.ExpandPath(cfg.JournalDir)
	if err != nil {
		return nil, fmt.Errorf("error expanding journal-dir: %w", err)
	}
	cfg.JournalDir = expanded

	if cmd.Bool("verbose") {
		cfg.Verbose = true
	}
	log.SetVerbose(cfg.Verbose)

	debugLog := cmd.String("debug-log")
	if debugLog == "" {
		debugLog = cfg.DebugLog
	}
	if debugLog != "" {
		path := debugLog
		if expanded, err := config.ExpandPath(debugLog); err == nil {
			path = expanded
		}
		if err := log.SetFile(path); err != nil {
			fmt.Fprintf(os.Stderr, "Error opening debug log file %q: %v\n", path, err)
		}
		cfg.DebugLog = path
	} else {
		// No debug log configured, discard any buffered logs.
		_ = log.SetFile("")
	}

	return cfg, nil
}

// newCLIGitService creates a git service rooted at the journal directory.
func newCLIGitService(cfg *config.AppConfig) *git.Service {
	return git.NewService(cfg.JournalDir, cliNotify)
}

// cliNotify is the notification callback for git operations in CLI mode.
func cliNotify(message, severity string) {
	if severity == "error" {
		fmt.Fprintf(os.Stderr, "Error: %s\n", message)
		return
	}
	fmt.Fprintf(os.Stderr, "%s\n", message)
}

func newStore(cfg *config.AppConfig) *journal.Store {
	return journal.NewStore(cfg.JournalDir, cfg.Extension)
}

// exitCode maps an operation error to the process exit code: usage errors
// exit 2, empty results exit 1.
func exitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, journal.ErrNoSearchTerms), errors.Is(err, cli.ErrNoMatches):
		return 1
	default:
		return commit.ExitCode(err)
	}
}

// exitErr wraps an operation error so urfave/cli exits with the right code.
func exitErr(err error) error {
	if err == nil {
		return nil
	}
	return urfavecli.Exit(fmt.Sprintf("jctl: %v", err), exitCode(err))
}

func validLayout(layout string) bool {
	switch layout {
	case config.LayoutEntry, config.LayoutElectronic, config.LayoutScan:
		return true
	}
	return false
}

// runNew handles the new* subcommands. forcedLayout pins the layout for
// new-electronic and new-scan; the plain new command takes it from the -l
// flag or the configuration.
func runNew(ctx context.Context, cmd *urfavecli.Command, forcedLayout string) error {
	cfg, err := loadCLIConfigFunc(cmd)
	if err != nil {
		return exitErr(err)
	}
	defer func() { _ = log.Close() }()

	layout := forcedLayout
	if layout == "" {
		layout = cmd.String("layout")
	}
	if layout == "" {
		layout = cfg.DefaultLayout
	}
	if !validLayout(layout) {
		return urfavecli.Exit(fmt.Sprintf("jctl: unknown layout %q (expected entry, electronic or scan)", layout), commit.ExitUsage)
	}

	title := strings.Join(cmd.Args().Slice(), " ")
	gitSvc := newCLIGitService(cfg)
	return exitErr(newEntryFunc(ctx, gitSvc, newStore(cfg), cfg, title, layout, cmd.Bool("no-edit"), os.Stdout))
}

func newCommand() *urfavecli.Command {
	return &urfavecli.Command{
		Name:      "new",
		Aliases:   []string{"n"},
		Usage:     "Create a dated journal entry and open it in the editor",
		ArgsUsage: "<title text>",
		Flags: []urfavecli.Flag{
			&urfavecli.StringFlag{
				Name:    "layout",
				Aliases: []string{"l"},
				Usage:   "Front matter layout (entry, electronic or scan)",
			},
			noEditFlag(),
		},
		Action: func(ctx context.Context, cmd *urfavecli.Command) error {
			return runNew(ctx, cmd, "")
		},
	}
}

func newElectronicCommand() *urfavecli.Command {
	return &urfavecli.Command{
		Name:      "new-electronic",
		Aliases:   []string{"ne"},
		Usage:     "Create an entry for an electronic document",
		ArgsUsage: "<title text>",
		Flags:     []urfavecli.Flag{noEditFlag()},
		Action: func(ctx context.Context, cmd *urfavecli.Command) error {
			return runNew(ctx, cmd, config.LayoutElectronic)
		},
	}
}

func newScanCommand() *urfavecli.Command {
	return &urfavecli.Command{
		Name:      "new-scan",
		Aliases:   []string{"ns"},
		Usage:     "Create an entry for a scanned document",
		ArgsUsage: "<title text>",
		Flags:     []urfavecli.Flag{noEditFlag()},
		Action: func(ctx context.Context, cmd *urfavecli.Command) error {
			return runNew(ctx, cmd, config.LayoutScan)
		},
	}
}

func noEditFlag() urfavecli.Flag {
	return &urfavecli.BoolFlag{
		Name:  "no-edit",
		Usage: "Create the entry without opening the editor",
	}
}

func searchCommand() *urfavecli.Command {
	return &urfavecli.Command{
		Name:      "search",
		Aliases:   []string{"f"},
		Usage:     "Full-text search across entries and open the match",
		ArgsUsage: "\"<keywords>\" [entry-glob ...]",
		Action: func(ctx context.Context, cmd *urfavecli.Command) error {
			cfg, err := loadCLIConfigFunc(cmd)
			if err != nil {
				return exitErr(err)
			}
			defer func() { _ = log.Close() }()

			args := cmd.Args().Slice()
			var keywords, globs []string
			if len(args) > 0 {
				keywords = strings.Fields(args[0])
				globs = args[1:]
			}

			gitSvc := newCLIGitService(cfg)
			return exitErr(searchFunc(ctx, gitSvc, newStore(cfg), cfg, keywords, globs, os.Stdout))
		},
	}
}

func editCommand() *urfavecli.Command {
	return &urfavecli.Command{
		Name:      "edit",
		Aliases:   []string{"e"},
		Usage:     "Find an entry by filename keywords and open it",
		ArgsUsage: "\"<keywords>\"",
		Action: func(ctx context.Context, cmd *urfavecli.Command) error {
			cfg, err := loadCLIConfigFunc(cmd)
			if err != nil {
				return exitErr(err)
			}
			defer func() { _ = log.Close() }()

			keywords := strings.Fields(strings.Join(cmd.Args().Slice(), " "))
			gitSvc := newCLIGitService(cfg)
			return exitErr(editFunc(ctx, gitSvc, newStore(cfg), cfg, keywords, os.Stdout))
		},
	}
}

func commitCommand() *urfavecli.Command {
	return &urfavecli.Command{
		Name:      "commit",
		Aliases:   []string{"c"},
		Usage:     "Record new entries with git",
		ArgsUsage: "[\"<message>\"] [-f <file> -m <message>]...",
		// The -f/-m pairs are resolved by the commit package, not by the
		// flag parser.
		SkipFlagParsing: true,
		Action: func(ctx context.Context, cmd *urfavecli.Command) error {
			cfg, err := loadCLIConfigFunc(cmd)
			if err != nil {
				return exitErr(err)
			}
			defer func() { _ = log.Close() }()

			gitSvc := newCLIGitService(cfg)
			return exitErr(commitFunc(ctx, gitSvc, cmd.Args().Slice(), os.Stdout, os.Stderr))
		},
	}
}

func statusCommand() *urfavecli.Command {
	return &urfavecli.Command{
		Name:    "status",
		Aliases: []string{"s"},
		Usage:   "Show the short git status of the journal",
		Flags: []urfavecli.Flag{
			&urfavecli.BoolFlag{
				Name:    "watch",
				Aliases: []string{"w"},
				Usage:   "Re-print the status when the journal changes",
			},
		},
		Action: func(ctx context.Context, cmd *urfavecli.Command) error {
			cfg, err := loadCLIConfigFunc(cmd)
			if err != nil {
				return exitErr(err)
			}
			defer func() { _ = log.Close() }()

			gitSvc := newCLIGitService(cfg)
			return exitErr(statusFunc(ctx, gitSvc, cfg.JournalDir, cmd.Bool("watch"), os.Stdout))
		},
	}
}

func pushCommand() *urfavecli.Command {
	return &urfavecli.Command{
		Name:    "push",
		Aliases: []string{"p"},
		Usage:   "Push recorded entries to the journal remote",
		Action: func(ctx context.Context, cmd *urfavecli.Command) error {
			cfg, err := loadCLIConfigFunc(cmd)
			if err != nil {
				return exitErr(err)
			}
			defer func() { _ = log.Close() }()

			gitSvc := newCLIGitService(cfg)
			return exitErr(pushFunc(ctx, gitSvc))
		},
	}
}
