package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/beaconpush/beaconpush-go/beacon"
	"github.com/beaconpush/beaconpush-go/internal/debug"
	"github.com/beaconpush/beaconpush-go/internal/dryrun"
	"github.com/beaconpush/beaconpush-go/internal/iocontext"
	"github.com/beaconpush/beaconpush-go/internal/outfmt"
)

// rootFlags holds global CLI flags
type rootFlags struct {
	Output    string
	JSON      bool
	Query     string
	JQ        string
	Compact   bool
	Debug     bool
	LogFormat string
	DryRun    bool
	Quiet     bool
	Timeout   time.Duration
	Profile   string
}

// flags is reset at the start of every Execute call; tests rely on that.
var flags = defaultFlags()

func defaultFlags() rootFlags {
	return rootFlags{
		Output:    defaultOutput(),
		LogFormat: string(debug.LogText),
		Timeout:   beacon.DefaultTimeout,
	}
}

func defaultOutput() string {
	if value := strings.TrimSpace(os.Getenv("BEACONPUSH_OUTPUT")); value != "" {
		return value
	}
	return "text"
}

// loadDefaultEnv loads ~/.beaconpush/.env when present. Variables already in
// the environment win.
func loadDefaultEnv() {
	home, err := os.UserHomeDir()
	if err != nil {
		return
	}
	path := filepath.Join(home, ".beaconpush", ".env")
	if _, err := os.Stat(path); err != nil {
		return
	}
	_ = godotenv.Load(path)
}

// Execute runs the root command
func Execute(ctx context.Context, args []string) error {
	loadDefaultEnv()
	flags = defaultFlags()

	root := newRootCmd()
	root.SetContext(ctx)
	root.SetArgs(args)

	streams := iocontext.GetIO(ctx)
	root.SetOut(streams.Out)
	root.SetErr(streams.ErrOut)

	targetCmd, err := root.ExecuteC()
	if err != nil {
		if !errors.Is(err, errAlreadyHandled) {
			_, _ = fmt.Fprintln(root.ErrOrStderr(), enhanceUnknownError(err, root, targetCmd))
		}
		return err
	}
	return nil
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "beacon",
		Short: "CLI for the Beaconpush push-messaging service",
		Long: strings.TrimSpace(`
Send messages to Beaconpush users and channels, check who is online and
manage stored credentials.

Credentials come from BEACONPUSH_API_KEY / BEACONPUSH_SECRET_KEY (hosted),
BEACONPUSH_OPERATOR_ID + BEACONPUSH_BASE_URL (on-site), or a profile saved
with 'beacon auth login'.`),
		SilenceUsage:       true,
		SilenceErrors:      true,
		DisableSuggestions: true,
		PersistentPreRunE:  setupContext,
	}

	pf := root.PersistentFlags()
	pf.StringVarP(&flags.Output, "output", "o", flags.Output, "Output format: text|json|jsonl|yaml (env BEACONPUSH_OUTPUT)")
	pf.BoolVarP(&flags.JSON, "json", "j", false, "Shorthand for --output json")
	pf.StringVar(&flags.Query, "query", "", "JQ expression to filter JSON output")
	pf.StringVar(&flags.JQ, "jq", "", "Alias for --query")
	pf.BoolVar(&flags.Compact, "compact-json", false, "Compact JSON output (no indentation)")
	pf.BoolVar(&flags.Debug, "debug", false, "Enable debug logging")
	pf.StringVar(&flags.LogFormat, "log-format", flags.LogFormat, "Log format: text|json")
	pf.BoolVar(&flags.DryRun, "dry-run", false, "Print requests instead of sending them")
	pf.BoolVarP(&flags.Quiet, "quiet", "Q", false, "Suppress non-essential output")
	pf.DurationVar(&flags.Timeout, "timeout", flags.Timeout, "HTTP request timeout (e.g., 10s, 1m)")
	pf.StringVar(&flags.Profile, "profile", "", "Credential profile to use (env BEACONPUSH_PROFILE)")

	flagAlias(pf, "compact-json", "cj")
	flagAlias(pf, "dry-run", "dr")
	flagAlias(pf, "timeout", "to")

	root.AddCommand(newAuthCmd())
	root.AddCommand(newStatusCmd())
	root.AddCommand(newCountCmd())
	root.AddCommand(newChannelCmd())
	root.AddCommand(newUserCmd())
	root.AddCommand(newMockCmd())
	root.AddCommand(newVersionCmd())

	return root
}

func setupContext(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	if flags.JSON {
		if flagOrAliasChanged(cmd, "output") && flags.Output != "json" {
			return fmt.Errorf("--json conflicts with --output %s", flags.Output)
		}
		flags.Output = "json"
	}
	query := getJQQuery()
	if query != "" && flags.Output == "text" {
		if flagOrAliasChanged(cmd, "output") {
			return fmt.Errorf("--jq/--query require --output json, jsonl or yaml (or --json)")
		}
		flags.Output = "json"
	}

	mode, err := outfmt.Parse(flags.Output)
	if err != nil {
		return err
	}
	ctx = outfmt.WithMode(ctx, mode)
	ctx = outfmt.WithCompact(ctx, flags.Compact)
	if query != "" {
		ctx = outfmt.WithQuery(ctx, query)
	}

	if flags.Timeout <= 0 {
		return fmt.Errorf("--timeout must be > 0")
	}

	streams := *iocontext.GetIO(ctx)
	if flags.Quiet {
		streams.ErrOut = io.Discard
		if mode == outfmt.Text {
			streams.Out = io.Discard
		}
	}
	ctx = iocontext.WithIO(ctx, &streams)
	cmd.SetOut(streams.Out)
	cmd.SetErr(streams.ErrOut)

	logFormat, err := debug.ParseLogFormat(flags.LogFormat)
	if err != nil {
		return err
	}
	debug.SetupLogger(streams.ErrOut, logFormat, flags.Debug)
	ctx = debug.WithDebug(ctx, flags.Debug)
	ctx = dryrun.WithDryRun(ctx, flags.DryRun)

	cmd.SetContext(ctx)
	return nil
}

// getJQQuery returns --jq, falling back to --query.
func getJQQuery() string {
	if flags.JQ != "" {
		return flags.JQ
	}
	return flags.Query
}

// enhanceUnknownError adds "did you mean?" suggestions to unknown command/flag errors.
func enhanceUnknownError(err error, root *cobra.Command, targetCmd *cobra.Command) string {
	msg := err.Error()

	if strings.Contains(msg, "unknown command") {
		if unknown := extractQuoted(msg); unknown != "" {
			scope := root
			if targetCmd != nil {
				scope = targetCmd
			}
			var names []string
			for _, c := range scope.Commands() {
				if c.IsAvailableCommand() {
					names = append(names, c.Name())
					names = append(names, c.Aliases...)
				}
			}
			if suggestion := suggestCommand(unknown, names); suggestion != "" {
				return fmt.Sprintf("%s\n\nDid you mean %q?", msg, suggestion)
			}
		}
	}

	if strings.Contains(msg, "unknown flag") || strings.Contains(msg, "unknown shorthand flag") {
		if unknown := extractFlag(msg); unknown != "" {
			if targetCmd == nil {
				targetCmd = root
			}
			var names []string
			collect := func(fs *pflag.FlagSet) {
				fs.VisitAll(func(f *pflag.Flag) {
					if !f.Hidden {
						names = append(names, "--"+f.Name)
					}
				})
			}
			collect(targetCmd.Flags())
			collect(targetCmd.InheritedFlags())
			helpCmd := targetCmd.CommandPath() + " --help"
			if suggestion := suggestFlag(unknown, names); suggestion != "" {
				return fmt.Sprintf("%s\n\nDid you mean %q?\nRun %q to see supported flags.", msg, suggestion, helpCmd)
			}
			return fmt.Sprintf("%s\n\nRun %q to see supported flags.", msg, helpCmd)
		}
	}

	return msg
}

func extractQuoted(s string) string {
	start := strings.IndexByte(s, '"')
	if start < 0 {
		return ""
	}
	end := strings.IndexByte(s[start+1:], '"')
	if end < 0 {
		return ""
	}
	return s[start+1 : start+1+end]
}

// extractFlag pulls "--name" out of a pflag error message.
func extractFlag(s string) string {
	idx := strings.Index(s, "--")
	if idx < 0 {
		return ""
	}
	rest := s[idx:]
	if end := strings.IndexByte(rest, ' '); end >= 0 {
		rest = rest[:end]
	}
	return strings.TrimRight(rest, ".,;:!?\"'")
}
