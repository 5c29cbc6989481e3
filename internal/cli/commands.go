package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/designbible/biblecheck/internal/config"
	"github.com/designbible/biblecheck/internal/log"
	"github.com/designbible/biblecheck/internal/policy"
	"github.com/designbible/biblecheck/internal/report"
	"github.com/designbible/biblecheck/internal/rules"
	"github.com/designbible/biblecheck/internal/scan"
	"github.com/designbible/biblecheck/internal/types"
	"github.com/designbible/biblecheck/internal/version"
	"github.com/designbible/biblecheck/internal/watch"
)

func newRunCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Run the compliance checks once",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runOnce(cmd, opts)
		},
	}
}

// runOnce runs the selected checks, writes the report and maps the verdict
// onto the exit status.
func runOnce(cmd *cobra.Command, opts *options) error {
	v, err := evaluate(cmd, opts)
	if err != nil {
		return err
	}
	if code := report.ExitCode(v); code != types.ExitSuccess {
		return &exitError{code: code}
	}
	return nil
}

func evaluate(cmd *cobra.Command, opts *options) (types.Verdict, error) {
	checks, err := policy.Select(opts.checks)
	if err != nil {
		return types.Verdict{}, systemError(err)
	}

	cfg := loadConfig(cmd, opts)
	log.Info("Starting compliance run", "root", opts.root, "checks", len(checks))

	results := policy.Run(cmd.Context(), newEnv(opts.root, cfg), checks)
	v := report.Aggregate(results)
	if err := report.Write(cmd.OutOrStdout(), opts.format, v); err != nil {
		return v, systemError(err)
	}
	return v, nil
}

func loadConfig(cmd *cobra.Command, opts *options) config.Config {
	path := config.Path(opts.root, opts.configPath)
	log.Debug("Loading configuration", "path", path)
	return config.OrDefault(config.Load(path, cmd.Flags()))
}

func newEnv(root string, cfg config.Config) policy.Env {
	workspace := strings.TrimSpace(os.Getenv("GITHUB_WORKSPACE"))
	if workspace == "" {
		workspace = root
	}
	return policy.Env{Root: root, Config: cfg, Workspace: workspace}
}

func newChecksCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "checks",
		Short: "List the available checks and built-in rules",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			renderChecks(cmd.OutOrStdout())
			return nil
		},
	}
}

func renderChecks(w io.Writer) {
	builtin := map[string][]string{
		"components": {rules.LabelFormLayout, rules.LabelSeparators, rules.LabelGestureButton},
	}
	for _, r := range rules.Compliance().Rules {
		builtin["compliance"] = append(builtin["compliance"], r.Label)
	}

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"ID", "Check", "Description", "Built-in rules"})
	for _, c := range policy.All() {
		t.AppendRow(table.Row{c.ID, c.Name, c.Description, strings.Join(builtin[c.ID], "\n")})
	}
	t.Render()
}

func newConfigCommand(opts *options) *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration",
		Long: `Print the configuration the checks would run with: built-in defaults,
overlaid by the config document, BIBLE_CHECK_* environment variables and
command-line flags.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := loadConfig(cmd, opts)
			return writeConfig(cmd.OutOrStdout(), output, cfg)
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "yaml", "output format (yaml|json)")
	return cmd
}

func writeConfig(w io.Writer, format string, cfg config.Config) error {
	switch strings.ToLower(format) {
	case "yaml", "yml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(cfg); err != nil {
			return systemError(err)
		}
		return enc.Close()
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(cfg); err != nil {
			return systemError(err)
		}
		return nil
	default:
		return systemError(fmt.Errorf("unsupported config output %q (want yaml or json)", format))
	}
}

func newWatchCommand(opts *options) *cobra.Command {
	var debounce time.Duration
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Re-run the checks whenever the source tree changes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			cmd.SetContext(ctx)

			if _, err := evaluate(cmd, opts); err != nil {
				return err
			}

			cfg := loadConfig(cmd, opts)
			w, err := watch.New(opts.root, scan.NewMatcher(cfg.IgnorePaths))
			if err != nil {
				return systemError(fmt.Errorf("unable to watch %s: %w", opts.root, err))
			}
			defer w.Close()

			fmt.Fprintf(cmd.ErrOrStderr(), "Watching %s for changes (Ctrl+C to stop)\n", opts.root)
			return w.Run(ctx, debounce, func(context.Context) {
				fmt.Fprintln(cmd.OutOrStdout())
				if _, err := evaluate(cmd, opts); err != nil {
					log.Error("Compliance run failed", "error", err)
				}
			})
		},
	}
	cmd.Flags().DurationVar(&debounce, "debounce", watch.DefaultDebounce, "quiet period before re-running")
	return cmd
}

func newVersionCommand() *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			info := version.BuildInfo()
			switch strings.ToLower(output) {
			case "", "text":
				fmt.Fprintln(cmd.OutOrStdout(), version.String())
				fmt.Fprintf(cmd.OutOrStdout(), "go: %s\n", info["go_version"])
				return nil
			case "json":
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(info)
			default:
				return fmt.Errorf("unsupported output %q (want text or json)", output)
			}
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "text", "output format: text or json")
	return cmd
}
