package commands

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/idcscan/idcscan/internal/printer"
	"github.com/idcscan/idcscan/internal/screening"
)

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Clear the stored session and the last analysis result",
	Long: `Log out of the current profile.

Every session field is cleared together, and the held analysis result is
discarded. The very next guarded command will require a fresh login.`,
	RunE: runLogout,
}

func init() {
	rootCmd.AddCommand(logoutCmd)
}

func runLogout(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	store, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	if err := store.Clear(ctx); err != nil {
		return err
	}
	if err := screening.ClearOutcome(cfg.ProfileDir()); err != nil {
		return err
	}

	printer.Success("Logged out.\n")
	return nil
}
