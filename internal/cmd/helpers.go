package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/beaconpush/beaconpush-go/beacon"
	"github.com/beaconpush/beaconpush-go/internal/dryrun"
	"github.com/beaconpush/beaconpush-go/internal/iocontext"
	"github.com/beaconpush/beaconpush-go/internal/outfmt"
	"github.com/beaconpush/beaconpush-go/internal/validation"
)

// printJSON writes v honouring --jq, --compact-json and the jsonl and yaml modes.
func printJSON(cmd *cobra.Command, v any) error {
	return outfmt.WriteJSON(cmd.Context(), iocontext.GetIO(cmd.Context()).Out, v)
}

// printJSONErr writes a structured error to stderr, unfiltered.
func printJSONErr(cmd *cobra.Command, v any) error {
	ctx := outfmt.WithQuery(cmd.Context(), "")
	return outfmt.WriteJSON(ctx, iocontext.GetIO(cmd.Context()).ErrOut, v)
}

// isStructured checks if the command context wants JSON or YAML output
func isStructured(cmd *cobra.Command) bool {
	return outfmt.IsStructured(cmd.Context())
}

// printAction prints a one-line confirmation in text mode.
func printAction(cmd *cobra.Command, format string, args ...any) {
	if flags.Quiet || isStructured(cmd) {
		return
	}
	_, _ = fmt.Fprintf(iocontext.GetIO(cmd.Context()).Out, format+"\n", args...)
}

// maybeDryRun prints req instead of sending it when --dry-run is set.
func maybeDryRun(cmd *cobra.Command, operation string, req *beacon.Request) (bool, error) {
	if !dryrun.IsEnabled(cmd.Context()) {
		return false, nil
	}
	preview := dryrun.FromRequest(operation, req)
	if isStructured(cmd) {
		return true, printJSON(cmd, map[string]any{"dry_run": true, "request": preview})
	}
	preview.Write(iocontext.GetIO(cmd.Context()).Out)
	return true, nil
}

// readMessage returns the message body from --message, --data or stdin.
// --message wraps plain text as {"message": TEXT}.
func readMessage(cmd *cobra.Command, coder beacon.JSONCoder, text, data string) (string, error) {
	textSet := flagOrAliasChanged(cmd, "message")
	dataSet := flagOrAliasChanged(cmd, "data")
	if textSet && dataSet {
		return "", fmt.Errorf("--message and --data cannot be used together")
	}

	var body string
	switch {
	case textSet:
		if strings.TrimSpace(text) == "" {
			return "", fmt.Errorf("--message must not be empty")
		}
		encoded, err := coder.Marshal(map[string]string{"message": text})
		if err != nil {
			return "", err
		}
		body = string(encoded)
	case dataSet:
		body = data
	default:
		streams := iocontext.GetIO(cmd.Context())
		if streams.InputIsTerminal() {
			return "", fmt.Errorf("one of --message or --data is required (or pipe JSON on stdin)")
		}
		input, err := streams.ReadInput(validation.MaxMessagePayload)
		if err != nil {
			return "", err
		}
		body = strings.TrimSpace(input)
	}

	if err := validation.ValidateMessagePayload(body); err != nil {
		return "", err
	}
	return body, nil
}

// RunE wraps a command so failures are printed once, as a structured JSON
// error in JSON mode or with suggestions otherwise.
func RunE(fn func(cmd *cobra.Command, args []string) error) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) error {
		err := fn(cmd, args)
		if err == nil {
			return nil
		}
		if isStructured(cmd) {
			if structured := beacon.StructuredErrorFromError(err); structured != nil {
				_ = printJSONErr(cmd, structured)
			}
		} else {
			_, _ = fmt.Fprint(cmd.ErrOrStderr(), HandleError(err))
		}
		return &handledError{err: err, exitCode: ExitCode(err)}
	}
}

// errAlreadyHandled marks errors RunE has already printed.
var errAlreadyHandled = errors.New("error already handled")

type handledError struct {
	err      error
	exitCode int
}

func (e *handledError) Error() string {
	return e.err.Error()
}

func (e *handledError) Unwrap() []error {
	return []error{errAlreadyHandled, e.err}
}

// aliasBridgeValue marks the canonical flag as changed when its alias is set.
type aliasBridgeValue struct {
	pflag.Value
	canonical *pflag.Flag
}

func (v *aliasBridgeValue) Set(s string) error {
	if err := v.Value.Set(s); err != nil {
		return err
	}
	v.canonical.Changed = true
	return nil
}

// flagAlias registers a hidden alias sharing the value of an existing flag.
func flagAlias(fs *pflag.FlagSet, name, alias string) {
	f := fs.Lookup(name)
	if f == nil {
		panic(fmt.Sprintf("flagAlias: flag %q not found", name))
	}
	a := *f
	a.Name = alias
	a.Shorthand = ""
	a.Usage = ""
	a.Hidden = true
	a.Value = &aliasBridgeValue{Value: f.Value, canonical: f}
	a.Annotations = map[string][]string{"alias-of": {name}}
	fs.AddFlag(&a)
}

// flagOrAliasChanged reports whether name was set directly or through an alias.
func flagOrAliasChanged(cmd *cobra.Command, name string) bool {
	return cmd.Flags().Changed(name) || cmd.InheritedFlags().Changed(name)
}
