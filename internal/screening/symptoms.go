package screening

import "fmt"

// CanonicalSymptoms is the fixed option set a user may select from.
// Selections are validated against this list; free-text symptoms are not
// accepted.
var CanonicalSymptoms = []string{
	"Lump or mass in the breast",
	"Change in breast size or shape",
	"Nipple discharge (other than breast milk)",
	"Nipple inversion or retraction",
	"Skin changes (redness, dimpling, puckering)",
	"Breast pain or tenderness",
	"Swelling in the armpit or around the collarbone",
	"Nipple rash or crusting",
	"Unexplained weight loss",
	"Persistent fatigue",
}

// Selection is a set of zero or more canonical symptom labels. Order is
// insignificant; duplicates never occur.
type Selection []string

// NewSelection validates the given labels against the canonical list and
// rejects duplicates. Labels may be given by 1-based index ("3") as a CLI
// convenience; NewSelection only handles full labels, see ResolveLabel.
func NewSelection(labels []string) (Selection, error) {
	seen := make(map[string]bool, len(labels))
	sel := make(Selection, 0, len(labels))
	for _, label := range labels {
		if !isCanonical(label) {
			return nil, fmt.Errorf("unknown symptom: %q (run 'idcscan symptoms' to list valid options)", label)
		}
		if seen[label] {
			return nil, fmt.Errorf("duplicate symptom: %q", label)
		}
		seen[label] = true
		sel = append(sel, label)
	}
	return sel, nil
}

// ResolveLabel maps a 1-based index string to its canonical label, or
// returns the input unchanged when it is not an index.
func ResolveLabel(s string) string {
	var idx int
	if _, err := fmt.Sscanf(s, "%d", &idx); err == nil && idx >= 1 && idx <= len(CanonicalSymptoms) {
		return CanonicalSymptoms[idx-1]
	}
	return s
}

func isCanonical(label string) bool {
	for _, s := range CanonicalSymptoms {
		if s == label {
			return true
		}
	}
	return false
}
