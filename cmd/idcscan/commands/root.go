package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	version string
	commit  string
	date    string
)

var configPath string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "idcscan",
	Short: "idcscan - terminal client for the IDC screening service",
	Long: `idcscan is a terminal client for a breast-cancer (IDC) screening service.

Register or log in, verify the one-time code sent to your email, then submit
a 50x50 histopathology tile for analysis and share the generated report via
email or WhatsApp.

Typical flow:
  idcscan register --username jo --email jo@example.com
  idcscan verify --code 123456
  idcscan analyze --image tile.png --symptom 1 --symptom 6
  idcscan report send --email doctor@example.com`,
	Version: version,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	// Silence Cobra's default error and usage printing
	// We print formatted colored errors directly in the printer package
	rootCmd.SilenceErrors = true
	rootCmd.SilenceUsage = true
	return rootCmd.Execute()
}

// SetVersionInfo sets the version information for the CLI
func SetVersionInfo(v, c, d string) {
	version = v
	commit = c
	date = d
	rootCmd.Version = fmt.Sprintf("%s (commit: %s, built: %s)", v, c, d)
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to idcscan.yml (default: ~/.config/idcscan/idcscan.yml)")
}
