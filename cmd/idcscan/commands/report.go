package commands

import (
	"context"
	"path/filepath"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"github.com/idcscan/idcscan/internal/api"
	"github.com/idcscan/idcscan/internal/config"
	"github.com/idcscan/idcscan/internal/distribute"
	"github.com/idcscan/idcscan/internal/printer"
	"github.com/idcscan/idcscan/internal/screening"
)

var (
	reportSendEmail    string
	reportSendWhatsApp string
	downloadOutput     string
	previewOutput      string
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "View, download, and share the latest analysis report",
	Long: `Work with the report generated by the most recent 'idcscan analyze'.

The result of an analysis is kept only until the next analysis or logout;
if there is none, these commands render an empty state.`,
}

var reportShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the latest analysis result",
	RunE:  runReportShow,
}

var reportDownloadCmd = &cobra.Command{
	Use:   "download",
	Short: "Download the report PDF",
	RunE:  runReportDownload,
}

var reportPreviewCmd = &cobra.Command{
	Use:   "preview",
	Short: "Download the report's PNG preview image",
	RunE:  runReportPreview,
}

var reportSendCmd = &cobra.Command{
	Use:   "send",
	Short: "Share the report via email and/or WhatsApp",
	Long: `Forward the generated report over one or both distribution channels.

The two channels are independent: when both are given they are dispatched
concurrently and one failing does not stop the other.

Examples:
  idcscan report send --email doctor@example.com
  idcscan report send --whatsapp +919999999999
  idcscan report send --email doctor@example.com --whatsapp +919999999999`,
	RunE: runReportSend,
}

func init() {
	reportSendCmd.Flags().StringVar(&reportSendEmail, "email", "", "Recipient email address")
	reportSendCmd.Flags().StringVar(&reportSendWhatsApp, "whatsapp", "", "Recipient phone number with country code (e.g. +91XXXXXXXXXX)")
	reportDownloadCmd.Flags().StringVarP(&downloadOutput, "output", "o", "", "Destination file (default: report file name)")
	reportPreviewCmd.Flags().StringVarP(&previewOutput, "output", "o", "", "Destination file (default: preview file name)")

	reportCmd.AddCommand(reportShowCmd)
	reportCmd.AddCommand(reportDownloadCmd)
	reportCmd.AddCommand(reportPreviewCmd)
	reportCmd.AddCommand(reportSendCmd)
	rootCmd.AddCommand(reportCmd)
}

// loadReportContext runs the guard and loads the outcome handoff. A nil
// outcome with nil error means the empty state was already rendered.
func loadReportContext(ctx context.Context) (*config.Config, *screening.Outcome, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, err
	}
	store, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}
	defer closeStore()

	if _, err := requireVerified(ctx, store); err != nil {
		return nil, nil, err
	}

	outcome, err := screening.LoadOutcome(cfg.ProfileDir())
	if err != nil {
		return nil, nil, err
	}
	return cfg, outcome, nil
}

func runReportShow(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	_, outcome, err := loadReportContext(ctx)
	if err != nil {
		return err
	}
	if outcome == nil {
		printer.Info("No results available. Please perform an analysis first:\n  idcscan analyze --image <50x50 tile>\n")
		return nil
	}

	printer.Println("Analysis Results")
	printer.Println()
	printer.Printf("  Verdict:    %s\n", outcome.Verdict)
	if outcome.Confidence != "" {
		printer.Printf("  Confidence: %s\n", outcome.Confidence)
	}
	printer.Printf("  Report:     %s\n", outcome.Report)
	printer.Printf("  Preview:    %s\n", api.PreviewPath(outcome.Report))
	if len(outcome.Symptoms) > 0 {
		printer.Println("  Reported symptoms:")
		for _, s := range outcome.Symptoms {
			printer.Printf("    - %s\n", s)
		}
	}
	printer.Println()
	printer.Info("Share it: idcscan report send --email <address> | --whatsapp <number>\n")
	return nil
}

func runReportDownload(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	cfg, outcome, err := loadReportContext(ctx)
	if err != nil {
		return err
	}
	if outcome == nil {
		return printer.Error(
			"no report to download",
			"No analysis results are available.",
			[]string{"Run an analysis first:\n  idcscan analyze --image <50x50 tile>"},
		)
	}

	client, err := newAPIClient(cfg)
	if err != nil {
		return err
	}

	dest := downloadOutput
	if dest == "" {
		dest = filepath.Base(outcome.Report)
	}

	printer.Step("Downloading report...\n")
	if err := client.DownloadReport(ctx, outcome.Report, dest); err != nil {
		return renderAPIError(err, "download failed", nil)
	}
	printer.Success("Report saved to %s\n", dest)
	return nil
}

func runReportPreview(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	cfg, outcome, err := loadReportContext(ctx)
	if err != nil {
		return err
	}
	if outcome == nil {
		return printer.Error(
			"no report preview to download",
			"No analysis results are available.",
			[]string{"Run an analysis first:\n  idcscan analyze --image <50x50 tile>"},
		)
	}

	client, err := newAPIClient(cfg)
	if err != nil {
		return err
	}

	dest := previewOutput
	if dest == "" {
		dest = filepath.Base(api.PreviewPath(outcome.Report))
	}

	printer.Step("Downloading preview...\n")
	if err := client.DownloadPreview(ctx, outcome.Report, dest); err != nil {
		return renderAPIError(err, "preview download failed", nil)
	}
	printer.Success("Preview saved to %s\n", dest)
	return nil
}

func runReportSend(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	if reportSendEmail == "" && reportSendWhatsApp == "" {
		return printer.Error(
			"no destination given",
			"Provide at least one channel.",
			[]string{
				"Email:\n  idcscan report send --email <address>",
				"WhatsApp:\n  idcscan report send --whatsapp <number with country code>",
			},
		)
	}

	cfg, outcome, err := loadReportContext(ctx)
	if err != nil {
		return err
	}
	if outcome == nil {
		return printer.Error(
			"no report to send",
			"No analysis results are available.",
			[]string{"Run an analysis first:\n  idcscan analyze --image <50x50 tile>"},
		)
	}

	client, err := newAPIClient(cfg)
	if err != nil {
		return err
	}
	svc := distribute.NewService(client)

	// Channels are independent; dispatch both at once when both are given.
	// Completions may interleave; the shared status line is last-writer-wins.
	var wg sync.WaitGroup
	var failures []string
	var mu sync.Mutex

	dispatch := func(name string, send func() (string, error)) {
		defer wg.Done()
		msg, err := send()
		if err != nil {
			mu.Lock()
			failures = append(failures, err.Error())
			mu.Unlock()
			return
		}
		printer.Success("%s: %s\n", name, msg)
	}

	if reportSendEmail != "" {
		wg.Add(1)
		go dispatch("email", func() (string, error) {
			return svc.SendEmail(ctx, reportSendEmail, outcome.Report)
		})
	}
	if reportSendWhatsApp != "" {
		wg.Add(1)
		go dispatch("whatsapp", func() (string, error) {
			return svc.SendWhatsApp(ctx, reportSendWhatsApp, outcome.Report)
		})
	}
	wg.Wait()

	printer.Status(svc.Status())

	if len(failures) > 0 {
		return printer.Error(
			"report delivery incomplete",
			strings.Join(failures, "\n"),
			[]string{"The report is unchanged; re-run the failed channel to retry."},
		)
	}
	return nil
}
