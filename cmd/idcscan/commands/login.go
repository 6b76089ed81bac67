package commands

import (
	"context"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/idcscan/idcscan/internal/printer"
)

var (
	loginUsername string
	loginPassword string
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Log in to an existing, verified account",
	Long: `Log in with username and password.

The service only accepts logins for accounts whose email was verified, so a
successful login restores a verified session.

Examples:
  idcscan login --username jo`,
	RunE: runLogin,
}

func init() {
	loginCmd.Flags().StringVarP(&loginUsername, "username", "u", "", "Account username (required)")
	loginCmd.Flags().StringVar(&loginPassword, "password", "", "Account password (prompted when omitted)")
	loginCmd.MarkFlagRequired("username")
	rootCmd.AddCommand(loginCmd)
}

func runLogin(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	password := loginPassword
	if password == "" {
		printer.Printf("Password: ")
		raw, err := term.ReadPassword(int(syscall.Stdin))
		printer.Println()
		if err != nil {
			return printer.Error(
				"could not read password",
				err.Error(),
				[]string{"Pass it non-interactively:\n  idcscan login --password <password> ..."},
			)
		}
		password = string(raw)
	}

	client, err := newAPIClient(cfg)
	if err != nil {
		return err
	}

	printer.Step("Logging in as %s...\n", loginUsername)
	resp, err := client.Login(ctx, loginUsername, password)
	if err != nil {
		return renderAPIError(err, "login failed", []string{
			"Check username and password.",
			"No account yet? Register first:\n  idcscan register --username <name> --email <you@example.com>",
		})
	}

	store, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	// Keep a phone number captured at registration time, if any; the login
	// response does not echo it.
	prev, err := store.Get(ctx)
	if err != nil {
		return err
	}
	if err := store.SetVerified(ctx, resp.Username, resp.Email, prev.Phone); err != nil {
		return err
	}

	printer.Success("%s\n", resp.Message)
	printer.Info("Next: idcscan analyze --image <50x50 tile>\n")
	return nil
}
