package commands

import (
	"context"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/idcscan/idcscan/internal/printer"
)

var (
	registerUsername string
	registerEmail    string
	registerPhone    string
	registerPassword string
)

var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "Create an account and receive a one-time code by email",
	Long: `Create an account on the screening service.

On success the service emails a one-time verification code to the given
address. Complete registration with 'idcscan verify'.

Examples:
  idcscan register --username jo --email jo@example.com
  idcscan register --username jo --email jo@example.com --phone +919999999999`,
	RunE: runRegister,
}

func init() {
	registerCmd.Flags().StringVarP(&registerUsername, "username", "u", "", "Account username (required)")
	registerCmd.Flags().StringVarP(&registerEmail, "email", "e", "", "Email address to verify (required)")
	registerCmd.Flags().StringVarP(&registerPhone, "phone", "p", "", "Phone number with country code (optional)")
	registerCmd.Flags().StringVar(&registerPassword, "password", "", "Account password (prompted when omitted)")
	registerCmd.MarkFlagRequired("username")
	registerCmd.MarkFlagRequired("email")
	rootCmd.AddCommand(registerCmd)
}

func runRegister(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	password := registerPassword
	if password == "" {
		printer.Printf("Password: ")
		raw, err := term.ReadPassword(int(syscall.Stdin))
		printer.Println()
		if err != nil {
			return printer.Error(
				"could not read password",
				err.Error(),
				[]string{"Pass it non-interactively:\n  idcscan register --password <password> ..."},
			)
		}
		password = string(raw)
	}
	if password == "" {
		return printer.Error("password required", "An empty password is not allowed.", nil)
	}

	client, err := newAPIClient(cfg)
	if err != nil {
		return err
	}

	printer.Step("Registering %s...\n", registerUsername)
	msg, err := client.Register(ctx, registerUsername, password, registerEmail)
	if err != nil {
		return renderAPIError(err, "registration failed", []string{
			"Check the server address in idcscan.yml and try again.",
		})
	}

	// The pending identity carries the target email to the verify step.
	// Verified stays false until the OTP exchange succeeds.
	store, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeStore()
	if err := store.SetPending(ctx, registerUsername, registerEmail, registerPhone); err != nil {
		return err
	}

	printer.Success("%s\n", msg)
	printer.Info("Next: idcscan verify --code <code from your inbox>\n")
	return nil
}
