package api

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Known prediction classes returned by the inference service.
const (
	PredictionBenign    = 0
	PredictionMalignant = 1
)

// registerRequest is the POST /auth/register payload.
type registerRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Email    string `json:"email"`
}

// loginRequest is the POST /auth/login payload.
type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResponse carries the identity the backend echoes on successful login.
type LoginResponse struct {
	Message  string `json:"message"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// verifyOTPRequest is the POST /auth/verify-otp payload.
type verifyOTPRequest struct {
	Email string `json:"email"`
	OTP   string `json:"otp"`
}

// PredictResponse is the inference result for one submitted tile.
// Prediction is 0 (benign) or 1 (malignant-indicative); any other value is
// an unexpected response shape and is mapped to an error verdict downstream,
// never propagated as a hard failure. Report is a server-relative path to
// the generated PDF artifact.
type PredictResponse struct {
	Prediction int        `json:"prediction"`
	Confidence Confidence `json:"confidence"`
	Report     string     `json:"report"`
}

// Confidence is opaque and display-only: the backend sends it sometimes as
// a string ("92%"), sometimes as a bare number.
type Confidence string

func (c *Confidence) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*c = Confidence(s)
		return nil
	}
	var n float64
	if err := json.Unmarshal(data, &n); err == nil {
		*c = Confidence(strconv.FormatFloat(n, 'f', -1, 64))
		return nil
	}
	return fmt.Errorf("confidence is neither string nor number: %s", string(data))
}

func (c Confidence) String() string { return string(c) }

// sendEmailRequest is the POST /send-email payload.
type sendEmailRequest struct {
	Email  string `json:"email"`
	Report string `json:"report"`
}

// sendWhatsAppRequest is the POST /send-whatsapp payload.
type sendWhatsAppRequest struct {
	Phone  string `json:"phone"`
	Report string `json:"report"`
}

// messageResponse is the generic {message} success envelope.
type messageResponse struct {
	Message string `json:"message"`
}

// PreviewPath maps a report artifact path to its same-named PNG preview.
func PreviewPath(reportPath string) string {
	return strings.TrimSuffix(reportPath, ".pdf") + ".png"
}
