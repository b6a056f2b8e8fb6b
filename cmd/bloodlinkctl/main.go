// Command bloodlinkctl holds operator tasks that must never be reachable from
// the web: granting the admin flag and generating secrets.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/bloodlink-dev/bloodlink/shared/config"
	"github.com/bloodlink-dev/bloodlink/shared/domain"
	"github.com/bloodlink-dev/bloodlink/shared/logger"
	"github.com/bloodlink-dev/bloodlink/shared/storage"
	"github.com/bloodlink-dev/bloodlink/shared/utils"
)

const defaultSecretBytes = 32

// AdminStore flips the admin flag on a profile.
type AdminStore interface {
	SetAdmin(ctx context.Context, email domain.Email, admin bool) error
	Cleanup()
}

// openStore is swapped in tests.
var openStore = func(ctx context.Context, configFolder string) (AdminStore, error) {
	cfg := config.MustLoad(configFolder)
	logger.Initialize(cfg.Public.LogLevel, cfg.Public.LogJSON)
	return storage.New(ctx, cfg)
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configFolder string

	root := &cobra.Command{
		Use:          "bloodlinkctl",
		Short:        "Operator tools for BloodLink",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&configFolder, "config_folder", "config", "path to folder with configs")

	admin := &cobra.Command{
		Use:   "admin",
		Short: "Grant or revoke the admin flag",
	}
	admin.AddCommand(
		setAdminCmd("promote", "Make the user with this email an admin", true, &configFolder),
		setAdminCmd("demote", "Remove the admin flag from the user with this email", false, &configFolder),
	)

	secret := &cobra.Command{
		Use:   "secret",
		Short: "Generate secrets for private.yaml",
	}
	secret.AddCommand(jwtSecretCmd())

	root.AddCommand(admin, secret)
	return root
}

func setAdminCmd(use, short string, value bool, configFolder *string) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <email>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			email := domain.Email(args[0])

			store, err := openStore(cmd.Context(), *configFolder)
			if err != nil {
				return fmt.Errorf("failed to open storage: %w", err)
			}
			defer store.Cleanup()

			if err := store.SetAdmin(cmd.Context(), email, value); err != nil {
				return fmt.Errorf("failed to update %s: %w", email, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: admin=%t (takes effect on next sign-in or token refresh)\n", email, value)
			return nil
		},
	}
}

func jwtSecretCmd() *cobra.Command {
	var size int
	cmd := &cobra.Command{
		Use:   "jwt",
		Short: "Print a random base64 key for jwt_key",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if size < 16 {
				return fmt.Errorf("key must be at least 16 bytes, got %d", size)
			}
			key, err := utils.GenerateSecret(size)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), key)
			return nil
		},
	}
	cmd.Flags().IntVar(&size, "bytes", defaultSecretBytes, "key size in bytes")
	return cmd
}
