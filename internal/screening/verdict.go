package screening

import "github.com/idcscan/idcscan/internal/api"

// Verdict messages shown to the user. The pairing of model prediction with
// symptom presence is deliberate: a benign image with reported symptoms
// still warrants a consultation.
const (
	VerdictBenign                = "No Cancer (Benign)"
	VerdictBenignWithSymptoms    = "No Cancer detected in image, but symptoms present. Please consult a doctor."
	VerdictMalignant             = "IDC Present (Malignant)"
	VerdictMalignantWithSymptoms = "IDC Present (Malignant) with symptoms. Urgent consultation recommended."
	VerdictError                 = "Error in prediction"
)

// Verdict derives the human-readable composite result from the model
// prediction and whether any symptoms were selected. A prediction outside
// {0, 1} is an unexpected response shape and maps to VerdictError rather
// than failing hard.
func Verdict(prediction int, symptomsPresent bool) string {
	switch prediction {
	case api.PredictionBenign:
		if symptomsPresent {
			return VerdictBenignWithSymptoms
		}
		return VerdictBenign
	case api.PredictionMalignant:
		if symptomsPresent {
			return VerdictMalignantWithSymptoms
		}
		return VerdictMalignant
	default:
		return VerdictError
	}
}
