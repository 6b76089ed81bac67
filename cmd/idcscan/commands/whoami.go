package commands

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/idcscan/idcscan/internal/printer"
	"github.com/idcscan/idcscan/internal/session"
)

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the current session",
	RunE:  runWhoami,
}

func init() {
	rootCmd.AddCommand(whoamiCmd)
}

func runWhoami(cmd *cobra.Command, args []string) error {
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

	sess, err := store.Get(ctx)
	if err != nil {
		return err
	}

	switch {
	case sess.Verified:
		printer.Printf("Logged in as %s (%s)\n", sess.Username, sess.Email)
		if sess.Phone != "" {
			printer.Printf("Phone: %s\n", sess.Phone)
		}
	case sess.Email != "":
		printer.Printf("Pending verification for %s\n", session.MaskEmail(sess.Email))
		printer.Info("Complete it: idcscan verify --code <code from your inbox>\n")
	default:
		printer.Println("Not logged in.")
	}
	return nil
}
