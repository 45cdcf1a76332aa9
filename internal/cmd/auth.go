package cmd

import (
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/beaconpush/beaconpush-go/beacon"
	"github.com/beaconpush/beaconpush-go/internal/config"
	"github.com/beaconpush/beaconpush-go/internal/dryrun"
	"github.com/beaconpush/beaconpush-go/internal/outfmt"
)

func newAuthCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Manage stored credentials",
		Long:  "Store Beaconpush credentials as named profiles in your OS keychain.",
	}

	cmd.AddCommand(newAuthLoginCmd())
	cmd.AddCommand(newAuthLogoutCmd())
	cmd.AddCommand(newAuthStatusCmd())
	cmd.AddCommand(newAuthProfilesCmd())
	cmd.AddCommand(newAuthSwitchCmd())

	return cmd
}

func newAuthLoginCmd() *cobra.Command {
	var (
		apiKey     string
		secretKey  string
		operatorID string
		baseURL    string
		envFile    string
		verify     bool
	)

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Save credentials to a profile",
		Long: strings.TrimSpace(`
Save Beaconpush credentials to your OS keychain.

Hosted accounts need an API key and secret key; the base URL defaults to
the public service. On-site installations need an operator id and the
base URL of the installation.`),
		Example: strings.TrimSpace(`
  # Hosted service
  beacon auth login --api-key KEY --secret-key SECRET

  # On-site installation, saved as profile "local"
  beacon auth login --operator-id op --url http://localhost:6053/api --profile local

  # Load BEACONPUSH_* values from a .env file
  beacon auth login --env-file .env`),
		Args: cobra.NoArgs,
		RunE: RunE(func(cmd *cobra.Command, _ []string) error {
			profile := flags.Profile
			if envFile != "" {
				envVars, err := loadAuthEnvFile(envFile)
				if err != nil {
					return err
				}
				applyAuthEnvFileRuntimeVars(envVars)
				apiKey = firstNonEmpty(apiKey, envVars[config.EnvAPIKey])
				secretKey = firstNonEmpty(secretKey, envVars[config.EnvSecretKey])
				operatorID = firstNonEmpty(operatorID, envVars[config.EnvOperatorID])
				baseURL = firstNonEmpty(baseURL, envVars[config.EnvBaseURL])
				profile = firstNonEmpty(profile, envVars[config.EnvProfile])
			}
			if profile == "" {
				profile = "default"
			}

			var account config.Account
			switch {
			case apiKey != "" && operatorID != "":
				return fmt.Errorf("--api-key and --operator-id cannot be used together")
			case apiKey != "":
				account = config.Account{Mode: beacon.Hosted.String(), APIKey: apiKey, SecretKey: secretKey, BaseURL: baseURL}
			case operatorID != "":
				account = config.Account{Mode: beacon.OnSite.String(), OperatorID: operatorID, BaseURL: baseURL}
			default:
				return fmt.Errorf("--api-key (hosted) or --operator-id (on-site) is required")
			}

			cfg, err := account.BeaconConfig()
			if err != nil {
				return err
			}

			if verify {
				client, err := newClient(cfg)
				if err != nil {
					return err
				}
				if _, err := client.OnlineUserCount(cmd.Context()); err != nil {
					return fmt.Errorf("credentials rejected: %w", err)
				}
			}

			if err := config.SaveProfile(profile, account); err != nil {
				return err
			}

			if isStructured(cmd) {
				return printJSON(cmd, map[string]any{
					"profile":  profile,
					"mode":     account.Mode,
					"base_url": cfg.BaseURL,
					"verified": verify,
				})
			}
			printAction(cmd, "Saved %s credentials to profile %q", account.Mode, profile)
			return nil
		}),
	}

	cmd.Flags().StringVar(&apiKey, "api-key", "", "Hosted API key")
	cmd.Flags().StringVar(&secretKey, "secret-key", "", "Hosted secret key")
	cmd.Flags().StringVar(&operatorID, "operator-id", "", "On-site operator id")
	cmd.Flags().StringVar(&baseURL, "url", "", "Base URL (required on-site; defaults to "+beacon.DefaultBaseURL+" when hosted)")
	cmd.Flags().StringVar(&envFile, "env-file", "", "Load BEACONPUSH_* (and BEACONPUSH_KEYRING_*) values from a .env file")
	cmd.Flags().BoolVar(&verify, "verify", false, "Check the credentials against the service before saving")
	flagAlias(cmd.Flags(), "env-file", "env")

	return cmd
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}

func loadAuthEnvFile(path string) (map[string]string, error) {
	envVars, err := godotenv.Read(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read --env-file %q: %w", path, err)
	}
	return envVars, nil
}

// applyAuthEnvFileRuntimeVars exports keyring settings from --env-file that
// are not already set, so the keychain opens the same way later.
func applyAuthEnvFileRuntimeVars(envVars map[string]string) {
	for _, key := range []string{
		"BEACONPUSH_KEYRING_BACKEND",
		"BEACONPUSH_KEYRING_PASSWORD",
		"BEACONPUSH_CREDENTIALS_DIR",
	} {
		if _, exists := os.LookupEnv(key); exists {
			continue
		}
		if value := strings.TrimSpace(envVars[key]); value != "" {
			_ = os.Setenv(key, value)
		}
	}
}

func newAuthLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout [PROFILE]",
		Short: "Remove a stored profile",
		Args:  cobra.MaximumNArgs(1),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			profile := flags.Profile
			if len(args) == 1 {
				profile = args[0]
			}
			if profile == "" {
				current, err := config.CurrentProfile()
				if err != nil {
					return err
				}
				profile = current
			}

			if err := config.DeleteProfile(profile); err != nil {
				return err
			}
			if isStructured(cmd) {
				return printJSON(cmd, map[string]any{"profile": profile, "removed": true})
			}
			printAction(cmd, "Removed profile %q", profile)
			return nil
		}),
	}
}

// AuthStatus describes the credentials a command would use.
type AuthStatus struct {
	Configured bool   `json:"configured"`
	Source     string `json:"source,omitempty"`
	Profile    string `json:"profile,omitempty"`
	Mode       string `json:"mode,omitempty"`
	AccountID  string `json:"account_id,omitempty"`
	BaseURL    string `json:"base_url,omitempty"`
	HasSecret  bool   `json:"has_secret"`
	Error      string `json:"error,omitempty"`
}

func currentAuthStatus() AuthStatus {
	resolved, err := resolveConfig()
	if err != nil {
		return AuthStatus{Error: err.Error()}
	}
	builder, err := beacon.NewRequestBuilder(resolved.Config)
	if err != nil {
		return AuthStatus{Error: err.Error()}
	}
	return AuthStatus{
		Configured: true,
		Source:     string(resolved.Source),
		Profile:    resolved.Profile,
		Mode:       resolved.Config.Mode.String(),
		AccountID:  dryrun.MaskSecret(resolved.Config.AccountID()),
		BaseURL:    builder.BaseURL(),
		HasSecret:  resolved.Config.Secret() != "",
	}
}

func newAuthStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show which credentials are in use",
		Args:  cobra.NoArgs,
		RunE: RunE(func(cmd *cobra.Command, _ []string) error {
			status := currentAuthStatus()
			if isStructured(cmd) {
				return printJSON(cmd, status)
			}

			out := cmd.OutOrStdout()
			if !status.Configured {
				_, _ = fmt.Fprintf(out, "Not configured: %s\n", status.Error)
				return nil
			}
			table := outfmt.NewTable(out)
			table.Row("Source:", status.Source)
			if status.Profile != "" {
				table.Row("Profile:", status.Profile)
			}
			table.Row("Mode:", status.Mode)
			table.Row("Account:", status.AccountID)
			table.Row("Base URL:", status.BaseURL)
			table.Row("Secret key:", fmt.Sprintf("%t", status.HasSecret))
			return table.Flush()
		}),
	}
}

func newAuthProfilesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "profiles",
		Short: "List stored profiles",
		Args:  cobra.NoArgs,
		RunE: RunE(func(cmd *cobra.Command, _ []string) error {
			profiles, err := config.ListProfiles()
			if err != nil {
				return err
			}
			current, err := config.CurrentProfile()
			if err != nil {
				return err
			}

			if isStructured(cmd) {
				return printJSON(cmd, map[string]any{"current": current, "profiles": profiles})
			}
			if len(profiles) == 0 {
				_, _ = fmt.Fprintln(cmd.ErrOrStderr(), "No profiles stored")
				return nil
			}
			for _, p := range profiles {
				marker := " "
				if p == current {
					marker = "*"
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", marker, p)
			}
			return nil
		}),
	}
}

func newAuthSwitchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "switch PROFILE",
		Short: "Make a stored profile current",
		Args:  cobra.ExactArgs(1),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			profiles, err := config.ListProfiles()
			if err != nil {
				return err
			}
			if !slices.Contains(profiles, args[0]) {
				return fmt.Errorf("profile %q is not stored (see 'beacon auth profiles')", args[0])
			}
			if err := config.SetCurrentProfile(args[0]); err != nil {
				return err
			}
			printAction(cmd, "Switched to profile %q", args[0])
			return nil
		}),
	}
}
