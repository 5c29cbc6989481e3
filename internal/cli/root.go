// Package cli implements the biblecheck command tree.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/designbible/biblecheck/internal/log"
	"github.com/designbible/biblecheck/internal/report"
	"github.com/designbible/biblecheck/internal/types"
	"github.com/designbible/biblecheck/internal/version"
)

// options are the values of the persistent flags.
type options struct {
	root       string
	configPath string
	format     string
	checks     []string
	verbose    bool
}

// exitError carries a process exit status out of a command. err is nil
// when the report already told the user what went wrong.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string {
	if e.err != nil {
		return e.err.Error()
	}
	return fmt.Sprintf("exit status %d", e.code)
}

func (e *exitError) Unwrap() error { return e.err }

func systemError(err error) error {
	return &exitError{code: types.ExitSystemError, err: err}
}

// NewRootCmd creates the root command. Invoked without a subcommand it
// behaves like "run".
func NewRootCmd() *cobra.Command {
	opts := &options{}

	rootCmd := &cobra.Command{
		Use:   "biblecheck",
		Short: "Design bible compliance checks for iOS source trees",
		Long: `biblecheck scans an iOS source tree for design bible violations:
forbidden layout and API patterns, component usage rules, screen registry
and traceability matrix coverage, shell composition and the pull request
declaration.

Exit status is 0 when every executed check passes, 20 on violations and
50 when the run itself could not complete.`,
		Version: version.Version,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			if opts.verbose {
				log.SetLevel(slog.LevelDebug)
			}
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runOnce(cmd, opts)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.SetVersionTemplate("{{.Name}} {{.Version}}\n")

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&opts.root, "root", defaultRoot(), "source tree to scan (env SRC_ROOT)")
	pf.StringVar(&opts.configPath, "config", "", "config document (default $BIBLE_CHECK_CONFIG or <root>/ci/bible_check_config.json)")
	pf.StringVarP(&opts.format, "format", "f", report.FormatText, "report format (text|json|sarif)")
	pf.StringSliceVarP(&opts.checks, "check", "c", nil, "run only the named checks (repeatable, see 'biblecheck checks')")
	pf.BoolVarP(&opts.verbose, "verbose", "v", false, "debug logging on stderr")

	// Config overrides, layered over the config document.
	pf.StringSlice("ignore-path", nil, "path prefix excluded from every check (repeatable)")
	pf.String("allowlist-mode", "", "primitive allowlist enforcement (warn|fail)")
	pf.Bool("require-pr-declaration", false, "require the PR declaration file to be updated")
	pf.String("screen-suffix", "", "file name suffix that marks a screen")

	_ = rootCmd.RegisterFlagCompletionFunc("format", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return report.Formats, cobra.ShellCompDirectiveNoFileComp
	})
	_ = rootCmd.RegisterFlagCompletionFunc("allowlist-mode", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{"warn", "fail"}, cobra.ShellCompDirectiveNoFileComp
	})

	rootCmd.AddCommand(newRunCommand(opts))
	rootCmd.AddCommand(newChecksCommand())
	rootCmd.AddCommand(newConfigCommand(opts))
	rootCmd.AddCommand(newWatchCommand(opts))
	rootCmd.AddCommand(newVersionCommand())

	return rootCmd
}

// Execute runs the command tree with args and returns the exit status.
func Execute(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	rootCmd := NewRootCmd()
	rootCmd.SetArgs(args)
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)

	err := rootCmd.ExecuteContext(ctx)
	if err == nil {
		return types.ExitSuccess
	}

	var exit *exitError
	if errors.As(err, &exit) {
		if exit.err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", exit.err)
		}
		return exit.code
	}
	fmt.Fprintf(stderr, "Error: %v\n", err)
	return types.ExitSystemError
}

func defaultRoot() string {
	if v := strings.TrimSpace(os.Getenv("SRC_ROOT")); v != "" {
		return v
	}
	return "."
}
