package cmd

import (
	"fmt"
	"log/slog"
	"net"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/beaconpush/beaconpush-go/internal/mockserver"
)

func newMockCmd() *cobra.Command {
	var (
		addr      string
		prefix    string
		apiKey    string
		secretKey string
		users     []string
	)

	cmd := &cobra.Command{
		Use:   "mock",
		Short: "Run an in-memory Beaconpush server for local testing",
		Long: strings.TrimSpace(`
Serve the Beaconpush REST API from memory until interrupted. Users given
with --user start online; "alice:lobby,news" also joins alice to the lobby
and news channels. Messages are accepted and logged at debug level.`),
		Example: `  beacon mock --addr 127.0.0.1:6053 --api-key test --secret-key s3cret --user alice:lobby
  BEACONPUSH_API_KEY=test BEACONPUSH_SECRET_KEY=s3cret \
    BEACONPUSH_BASE_URL=http://127.0.0.1:6053/1.0.0 beacon count`,
		Args: cobra.NoArgs,
		RunE: RunE(func(cmd *cobra.Command, _ []string) error {
			server := mockserver.New(mockserver.Options{
				Prefix:    prefix,
				APIKey:    apiKey,
				SecretKey: secretKey,
				Logger:    slog.Default(),
			})
			for _, entry := range users {
				name, channels, _ := strings.Cut(entry, ":")
				if name == "" {
					return fmt.Errorf("invalid --user %q: username must not be empty", entry)
				}
				var joined []string
				for _, ch := range strings.Split(channels, ",") {
					if ch = strings.TrimSpace(ch); ch != "" {
						joined = append(joined, ch)
					}
				}
				server.Connect(name, joined...)
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			return server.ListenAndServe(ctx, addr, func(bound net.Addr) {
				_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Mock Beaconpush listening on http://%s%s\n", bound, server.Prefix())
			})
		}),
	}

	cmd.Flags().StringVar(&addr, "addr", "127.0.0.1:6053", "Listen address")
	cmd.Flags().StringVar(&prefix, "prefix", mockserver.DefaultPrefix, "Path prefix (API version)")
	cmd.Flags().StringVar(&apiKey, "api-key", "", "Accept only this account (default: any)")
	cmd.Flags().StringVar(&secretKey, "secret-key", "", "Require this X-Beacon-Secret-Key (default: none)")
	cmd.Flags().StringArrayVar(&users, "user", nil, "Connected user, optionally with channels (NAME[:CH1,CH2])")
	return cmd
}
