package screening

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Outcome is one analysis result. It is navigation-scoped state, not
// session state: analyze writes it for the report commands to pick up,
// logout discards it, and a missing file renders the "no results" view.
type Outcome struct {
	Prediction int       `yaml:"prediction"`
	Confidence string    `yaml:"confidence"`
	Report     string    `yaml:"report"`
	Verdict    string    `yaml:"verdict"`
	Symptoms   Selection `yaml:"symptoms,omitempty"`
}

const outcomeFile = "last_analysis.yml"

// SaveOutcome hands the outcome off to the report commands via a file under
// the profile directory.
func SaveOutcome(profileDir string, o *Outcome) error {
	data, err := yaml.Marshal(o)
	if err != nil {
		return fmt.Errorf("failed to serialize analysis outcome: %w", err)
	}
	if err := os.MkdirAll(profileDir, 0o700); err != nil {
		return fmt.Errorf("failed to create profile directory: %w", err)
	}

	path := filepath.Join(profileDir, outcomeFile)
	tmp, err := os.CreateTemp(profileDir, ".analysis-*.yml")
	if err != nil {
		return fmt.Errorf("failed to create temp outcome file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write analysis outcome: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to close temp outcome file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to replace analysis outcome: %w", err)
	}
	return nil
}

// LoadOutcome reads the most recent analysis outcome. An absent outcome is
// returned as (nil, nil): the report commands render the empty state.
func LoadOutcome(profileDir string) (*Outcome, error) {
	data, err := os.ReadFile(filepath.Join(profileDir, outcomeFile))
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read analysis outcome: %w", err)
	}
	var o Outcome
	if err := yaml.Unmarshal(data, &o); err != nil {
		return nil, fmt.Errorf("failed to parse analysis outcome: %w", err)
	}
	return &o, nil
}

// ClearOutcome discards the handoff, e.g. on logout.
func ClearOutcome(profileDir string) error {
	if err := os.Remove(filepath.Join(profileDir, outcomeFile)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to clear analysis outcome: %w", err)
	}
	return nil
}
