package commands

import (
	"github.com/spf13/cobra"

	"github.com/idcscan/idcscan/internal/printer"
	"github.com/idcscan/idcscan/internal/screening"
)

var symptomsCmd = &cobra.Command{
	Use:   "symptoms",
	Short: "List the symptoms that can accompany an analysis",
	Long: `List the canonical symptom options.

Pass symptoms to 'idcscan analyze' by number or full label:
  idcscan analyze --image tile.png --symptom 1 --symptom 6`,
	RunE: runSymptoms,
}

func init() {
	rootCmd.AddCommand(symptomsCmd)
}

func runSymptoms(cmd *cobra.Command, args []string) error {
	printer.Println("Symptoms commonly associated with breast cancer:")
	printer.Println()
	for i, s := range screening.CanonicalSymptoms {
		printer.Printf("  %2d. %s\n", i+1, s)
	}
	printer.Println()
	printer.Info("Selecting symptoms is optional and never replaces a medical consultation.\n")
	return nil
}
