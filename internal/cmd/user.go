package cmd

import (
	"context"
	"fmt"
	"strconv"

	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"github.com/beaconpush/beaconpush-go/beacon"
	"github.com/beaconpush/beaconpush-go/internal/dryrun"
	"github.com/beaconpush/beaconpush-go/internal/outfmt"
)

func newUserCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "user",
		Aliases: []string{"users", "u"},
		Short:   "Check, sign out and message individual users",
	}
	cmd.PersistentFlags().Int64("concurrency", DefaultConcurrency, "Maximum concurrent requests when several users are given")
	cmd.AddCommand(newUserOnlineCmd())
	cmd.AddCommand(newUserSignOutCmd())
	cmd.AddCommand(newUserSendCmd())
	return cmd
}

func concurrencyFlag(cmd *cobra.Command) (int64, error) {
	n, err := cmd.Flags().GetInt64("concurrency")
	if err != nil {
		return 0, err
	}
	if n <= 0 {
		return 0, fmt.Errorf("--concurrency must be > 0")
	}
	return n, nil
}

// forEachUser previews or runs op once for every distinct username.
func forEachUser[T any](
	cmd *cobra.Command,
	usernames []string,
	operation string,
	build func(b *beacon.RequestBuilder, username string) (*beacon.Request, error),
	op func(ctx context.Context, u *beacon.User) (T, error),
) ([]BulkResult[T], bool, error) {
	client, err := getClient(cmd)
	if err != nil {
		return nil, false, err
	}
	concurrency, err := concurrencyFlag(cmd)
	if err != nil {
		return nil, false, err
	}

	usernames = lo.Uniq(usernames)
	users := make(map[string]*beacon.User, len(usernames))
	for _, name := range usernames {
		u, err := client.User(name)
		if err != nil {
			return nil, false, err
		}
		users[name] = u

		req, err := build(client.RequestBuilder(), name)
		if err != nil {
			return nil, false, err
		}
		if _, err := maybeDryRun(cmd, fmt.Sprintf("%s %s", operation, name), req); err != nil {
			return nil, true, err
		}
	}
	if dryrun.IsEnabled(cmd.Context()) {
		return nil, true, nil
	}

	results := runBulkOperation(cmd.Context(), usernames, concurrency, func(ctx context.Context, username string) (T, error) {
		return op(ctx, users[username])
	})
	return results, false, nil
}

// finishBulk prints results in JSON mode and turns failures into an error.
func finishBulk[T any](cmd *cobra.Command, results []BulkResult[T], text func(r BulkResult[T])) error {
	if isStructured(cmd) {
		if err := printJSON(cmd, results); err != nil {
			return err
		}
	} else {
		for _, r := range results {
			if r.Success {
				text(r)
			} else {
				_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "%s: %s\n", r.Username, r.Error)
			}
		}
	}

	_, failed := countResults(results)
	if failed == 0 {
		return nil
	}
	if len(results) == 1 {
		return firstFailure(results)
	}
	return fmt.Errorf("%d of %d users failed: %w", failed, len(results), firstFailure(results))
}

func newUserOnlineCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "online USER...",
		Short: "Report whether users are connected",
		Args:  cobra.MinimumNArgs(1),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			results, dry, err := forEachUser(cmd, args, "check whether online:",
				(*beacon.RequestBuilder).IsUserOnlineRequest,
				func(ctx context.Context, u *beacon.User) (bool, error) { return u.IsOnline(ctx) },
			)
			if err != nil || dry {
				return err
			}

			if !isStructured(cmd) {
				table := outfmt.NewTable(cmd.OutOrStdout())
				table.Header("USER", "ONLINE")
				for _, r := range results {
					if r.Success {
						table.Row(r.Username, strconv.FormatBool(r.Data))
					}
				}
				if err := table.Flush(); err != nil {
					return err
				}
			}
			return finishBulk(cmd, results, func(BulkResult[bool]) {})
		}),
	}
}

func newUserSignOutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "signout USER...",
		Short: "Force users to disconnect",
		Args:  cobra.MinimumNArgs(1),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			results, dry, err := forEachUser(cmd, args, "sign out",
				(*beacon.RequestBuilder).ForceUserSignOutRequest,
				func(ctx context.Context, u *beacon.User) (struct{}, error) {
					return struct{}{}, u.ForceSignOut(ctx)
				},
			)
			if err != nil || dry {
				return err
			}
			return finishBulk(cmd, results, func(r BulkResult[struct{}]) {
				printAction(cmd, "Signed out %s", r.Username)
			})
		}),
	}
}

func newUserSendCmd() *cobra.Command {
	var message, data string

	cmd := &cobra.Command{
		Use:   "send USER...",
		Short: "Send a message to users",
		Example: `  beacon user send alice bob --message "hello"
  echo '{"type":"ping"}' | beacon user send alice`,
		Args: cobra.MinimumNArgs(1),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			body, err := readMessage(cmd, beacon.DefaultJSONCoder{}, message, data)
			if err != nil {
				return err
			}
			results, dry, err := forEachUser(cmd, args, "send message to user",
				func(b *beacon.RequestBuilder, username string) (*beacon.Request, error) {
					return b.SendMessageToUserRequest(username, body)
				},
				func(ctx context.Context, u *beacon.User) (struct{}, error) {
					return struct{}{}, u.SendRaw(ctx, body)
				},
			)
			if err != nil || dry {
				return err
			}
			return finishBulk(cmd, results, func(r BulkResult[struct{}]) {
				printAction(cmd, "Sent message to %s", r.Username)
			})
		}),
	}

	cmd.Flags().StringVarP(&message, "message", "m", "", `Text to send as {"message": TEXT}`)
	cmd.Flags().StringVarP(&data, "data", "d", "", "Raw JSON message")
	return cmd
}
