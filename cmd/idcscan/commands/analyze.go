package commands

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"github.com/idcscan/idcscan/internal/imagecheck"
	"github.com/idcscan/idcscan/internal/printer"
	"github.com/idcscan/idcscan/internal/screening"
)

var (
	analyzeImage    string
	analyzeSymptoms []string
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Submit a 50x50 tile for cancer detection analysis",
	Long: `Submit a medical image for breast cancer detection.

The image must be exactly 50x50 pixels (PNG or JPEG); the inference service
expects a fixed-size tile and the client refuses anything else before making
a network call. Optional symptoms are passed by number or full label; run
'idcscan symptoms' for the list.

Requires a verified session.

Examples:
  idcscan analyze --image tile.png
  idcscan analyze --image tile.png --symptom 1 --symptom "Persistent fatigue"`,
	RunE: runAnalyze,
}

func init() {
	analyzeCmd.Flags().StringVarP(&analyzeImage, "image", "i", "", "Path to the 50x50 image tile (required)")
	analyzeCmd.Flags().StringArrayVarP(&analyzeSymptoms, "symptom", "s", nil, "Symptom, by number or full label (repeatable)")
	analyzeCmd.MarkFlagRequired("image")
	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, args []string) error {
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

	sess, err := requireVerified(ctx, store)
	if err != nil {
		return err
	}

	labels := make([]string, 0, len(analyzeSymptoms))
	for _, s := range analyzeSymptoms {
		labels = append(labels, screening.ResolveLabel(s))
	}
	symptoms, err := screening.NewSelection(labels)
	if err != nil {
		return printer.Error("invalid symptom selection", err.Error(), []string{
			"List the valid options:\n  idcscan symptoms",
		})
	}

	candidate, err := imagecheck.Validate(analyzeImage)
	if err != nil {
		switch {
		case errors.Is(err, imagecheck.ErrNotImage):
			return printer.Error("not an image", err.Error(), nil)
		case errors.Is(err, imagecheck.ErrWrongDimensions):
			return printer.Error("wrong image size", err.Error(), []string{
				"The screening model expects an exact 50x50 pixel tile; it is never cropped or resized client-side.",
			})
		case errors.Is(err, imagecheck.ErrUndecodable):
			return printer.Error("invalid image file", err.Error(), nil)
		default:
			return err
		}
	}

	client, err := newAPIClient(cfg)
	if err != nil {
		return err
	}
	controller := screening.NewController(client)

	printer.Step("Analyzing image...\n")
	outcome, err := controller.Submit(ctx, candidate, symptoms, sess.Username, sess.Phone)
	if err != nil {
		return renderAPIError(err, "analysis failed", []string{
			"Your image and symptom selection are unchanged; re-run the same command to retry.",
		})
	}

	if err := screening.SaveOutcome(cfg.ProfileDir(), outcome); err != nil {
		return err
	}

	printer.Success("%s\n", outcome.Verdict)
	if outcome.Confidence != "" {
		printer.Info("Confidence: %s\n", outcome.Confidence)
	}
	printer.Info("View and share the detailed report: idcscan report show\n")
	return nil
}
