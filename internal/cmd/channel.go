package cmd

import (
	"fmt"
	"strings"

	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"github.com/beaconpush/beaconpush-go/beacon"
	"github.com/beaconpush/beaconpush-go/internal/resolve"
)

func newChannelCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "channel",
		Aliases: []string{"ch"},
		Short:   "Broadcast to channels and list their members",
	}
	cmd.AddCommand(newChannelSendCmd())
	cmd.AddCommand(newChannelUsersCmd())
	return cmd
}

func newChannelSendCmd() *cobra.Command {
	var message, data string

	cmd := &cobra.Command{
		Use:   "send NAME",
		Short: "Send a message to every user in a channel",
		Example: `  beacon channel send lobby --message "hello"
  beacon channel send lobby --data '{"type":"refresh"}'
  echo '{"n":1}' | beacon channel send lobby`,
		Args: cobra.ExactArgs(1),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			client, err := getClient(cmd)
			if err != nil {
				return err
			}
			body, err := readMessage(cmd, beacon.DefaultJSONCoder{}, message, data)
			if err != nil {
				return err
			}
			channel, err := client.Channel(args[0])
			if err != nil {
				return err
			}

			req, err := client.RequestBuilder().SendMessageToChannelRequest(channel.Name(), body)
			if err != nil {
				return err
			}
			if done, err := maybeDryRun(cmd, fmt.Sprintf("send message to channel %s", channel.Name()), req); done {
				return err
			}

			if err := channel.SendRaw(cmd.Context(), body); err != nil {
				return err
			}
			if isStructured(cmd) {
				return printJSON(cmd, map[string]any{"channel": channel.Name(), "sent": true})
			}
			printAction(cmd, "Sent message to channel %s", channel.Name())
			return nil
		}),
	}

	cmd.Flags().StringVarP(&message, "message", "m", "", `Text to send as {"message": TEXT}`)
	cmd.Flags().StringVarP(&data, "data", "d", "", "Raw JSON message")
	return cmd
}

func newChannelUsersCmd() *cobra.Command {
	var match string
	var limit int

	cmd := &cobra.Command{
		Use:   "users NAME",
		Short: "List the users in a channel",
		Example: `  beacon channel users lobby
  beacon channel users lobby --match ali --json`,
		Args: cobra.ExactArgs(1),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			client, err := getClient(cmd)
			if err != nil {
				return err
			}
			channel, err := client.Channel(args[0])
			if err != nil {
				return err
			}

			req, err := client.RequestBuilder().UsersInChannelRequest(channel.Name())
			if err != nil {
				return err
			}
			if done, err := maybeDryRun(cmd, fmt.Sprintf("list users in channel %s", channel.Name()), req); done {
				return err
			}

			users, err := channel.Users(cmd.Context())
			if err != nil {
				return err
			}
			names := lo.Map(users, func(u *beacon.User, _ int) string { return u.Username() })

			if match = strings.TrimSpace(match); match != "" {
				names = lo.Map(resolve.Rank(match, names, limit), func(m resolve.Match, _ int) string { return m.Name })
			} else if limit > 0 && len(names) > limit {
				names = names[:limit]
			}

			if isStructured(cmd) {
				return printJSON(cmd, names)
			}
			if len(names) == 0 {
				_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "No users in channel %s\n", channel.Name())
				return nil
			}
			for _, name := range names {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), name)
			}
			return nil
		}),
	}

	cmd.Flags().StringVar(&match, "match", "", "Fuzzy-filter usernames, best match first")
	cmd.Flags().IntVar(&limit, "limit", 0, "Maximum number of users to print (0 = all)")
	return cmd
}
