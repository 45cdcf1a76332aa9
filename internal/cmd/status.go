package cmd

import (
	"fmt"
	"runtime"
	"time"

	"github.com/spf13/cobra"

	"github.com/beaconpush/beaconpush-go/internal/outfmt"
	"github.com/beaconpush/beaconpush-go/internal/validation"
)

// StatusInfo holds configuration and connectivity status.
type StatusInfo struct {
	AuthStatus
	APIVersion  string `json:"api_version,omitempty"`
	CLIVersion  string `json:"cli_version"`
	GoVersion   string `json:"go_version"`
	Platform    string `json:"platform"`
	Reachable   *bool  `json:"reachable,omitempty"`
	Online      *int64 `json:"online,omitempty"`
	LatencyMS   *int64 `json:"latency_ms,omitempty"`
	PingFailure string `json:"ping_error,omitempty"`
}

func newStatusCmd() *cobra.Command {
	var ping bool

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show configuration and, with --ping, service reachability",
		Example: `  beacon status
  beacon status --ping --json`,
		Args: cobra.NoArgs,
		RunE: RunE(func(cmd *cobra.Command, _ []string) error {
			info := StatusInfo{
				AuthStatus: currentAuthStatus(),
				CLIVersion: version,
				GoVersion:  runtime.Version(),
				Platform:   runtime.GOOS + "/" + runtime.GOARCH,
			}
			var pingErr error
			if v, ok := validation.APIVersion(info.BaseURL); ok {
				info.APIVersion = v
			}

			if ping && info.Configured {
				client, err := getClient(cmd)
				if err != nil {
					return err
				}
				start := time.Now()
				var online int64
				online, pingErr = client.OnlineUserCount(cmd.Context())
				latency := time.Since(start).Milliseconds()
				reachable := pingErr == nil
				info.Reachable = &reachable
				if pingErr != nil {
					info.PingFailure = pingErr.Error()
				} else {
					info.Online = &online
					info.LatencyMS = &latency
				}
			}

			if isStructured(cmd) {
				return printJSON(cmd, info)
			}

			table := outfmt.NewTable(cmd.OutOrStdout())
			if info.Configured {
				table.Row("Configured:", "yes ("+info.Source+")")
				if info.Profile != "" {
					table.Row("Profile:", info.Profile)
				}
				table.Row("Mode:", info.Mode)
				table.Row("Base URL:", info.BaseURL)
				if info.APIVersion != "" {
					table.Row("API version:", info.APIVersion)
				}
			} else {
				table.Row("Configured:", "no ("+info.Error+")")
			}
			if info.Reachable != nil {
				if *info.Reachable {
					table.Row("Reachable:", fmt.Sprintf("yes (%dms, %d online)", *info.LatencyMS, *info.Online))
				} else {
					table.Row("Reachable:", "no ("+info.PingFailure+")")
				}
			}
			table.Row("CLI version:", info.CLIVersion)
			table.Row("Platform:", info.Platform+" "+info.GoVersion)
			if err := table.Flush(); err != nil {
				return err
			}

			if pingErr != nil {
				return fmt.Errorf("service unreachable: %w", pingErr)
			}
			return nil
		}),
	}

	cmd.Flags().BoolVar(&ping, "ping", false, "Query the online user count to check connectivity")
	return cmd
}

func newCountCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "count",
		Short: "Print the number of users online",
		Args:  cobra.NoArgs,
		RunE: RunE(func(cmd *cobra.Command, _ []string) error {
			client, err := getClient(cmd)
			if err != nil {
				return err
			}
			req, err := client.RequestBuilder().OnlineUserCountRequest()
			if err != nil {
				return err
			}
			if done, err := maybeDryRun(cmd, "count online users", req); done {
				return err
			}

			online, err := client.OnlineUserCount(cmd.Context())
			if err != nil {
				return err
			}
			if isStructured(cmd) {
				return printJSON(cmd, map[string]int64{"online": online})
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), online)
			return nil
		}),
	}
}
