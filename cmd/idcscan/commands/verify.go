package commands

import (
	"context"
	"errors"
	"time"

	"github.com/spf13/cobra"

	"github.com/idcscan/idcscan/internal/otp"
	"github.com/idcscan/idcscan/internal/printer"
	"github.com/idcscan/idcscan/internal/session"
)

var (
	verifyCode  string
	verifyEmail string
)

var verifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Verify your email with the one-time code",
	Long: `Exchange the one-time code sent to your email for a verified session.

The target email is taken from the pending registration or login; pass
--email to override.

Examples:
  idcscan verify --code 123456
  idcscan verify --email jo@example.com --code 123456`,
	RunE: runVerify,
}

func init() {
	verifyCmd.Flags().StringVarP(&verifyCode, "code", "c", "", "The verification code from your inbox (required)")
	verifyCmd.Flags().StringVarP(&verifyEmail, "email", "e", "", "Target email (default: the pending registration's email)")
	verifyCmd.MarkFlagRequired("code")
	rootCmd.AddCommand(verifyCmd)
}

func runVerify(cmd *cobra.Command, args []string) error {
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

	pending, err := store.Get(ctx)
	if err != nil {
		return err
	}

	email := verifyEmail
	if email == "" {
		email = pending.Email
	}
	if email == "" {
		// No pending registration on this profile; the server will match
		// the code against whatever email it was issued for.
		printer.Warning("No pending registration found on this profile. Pass --email if verification fails.\n")
	}

	client, err := newAPIClient(cfg)
	if err != nil {
		return err
	}

	flow := otp.NewFlow(client, email)
	printer.Info("We've sent a verification code to %s\n", session.MaskEmail(email))
	printer.Step("Verifying...\n")

	if err := flow.Submit(ctx, verifyCode); err != nil {
		if errors.Is(err, otp.ErrEmptyCode) {
			return printer.Error("verification code required", err.Error(), nil)
		}
		// Server detail (e.g. "code expired") is surfaced verbatim; the
		// flow is back at AwaitingCode, so retrying with a new code works.
		return renderAPIError(err, "verification failed", []string{
			"Re-run with a fresh code:\n  idcscan verify --code <code>",
			"Didn't get a code? Register again to resend:\n  idcscan register --username <name> --email <you@example.com>",
		})
	}

	if err := store.SetVerified(ctx, pending.Username, email, pending.Phone); err != nil {
		return err
	}

	printer.Success("Email verified successfully.\n")

	// Brief pause before pointing at the next step, mirroring the service's
	// post-verification handoff. Nothing else is blocked by it.
	time.Sleep(otp.SuccessPause)
	printer.Info("Next: idcscan analyze --image <50x50 tile>\n")
	return nil
}
