// Package api is the typed HTTP client for the screening backend. It owns
// the request/response contract: JSON bodies, the multipart prediction
// upload, structured {detail} rejections, and per-call timeouts so a call
// that never resolves cannot leave a control disabled forever.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ErrTimeout marks a call that exceeded its deadline. Callers surface it as
// a distinct "timed out" condition and reset their in-flight flag.
var ErrTimeout = errors.New("request timed out")

// APIError is a structured rejection from the backend, carrying the
// server-provided detail message when one is present.
type APIError struct {
	StatusCode int
	Detail     string
}

func (e *APIError) Error() string {
	if e.Detail != "" {
		return e.Detail
	}
	return fmt.Sprintf("server returned status %d", e.StatusCode)
}

// Client issues calls against one backend base URL. It is safe for
// concurrent use; each call applies its own timeout via context.
type Client struct {
	baseURL        string
	httpClient     *http.Client
	requestTimeout time.Duration
	predictTimeout time.Duration
}

// NewClient creates a backend client. requestTimeout bounds the bookkeeping
// calls (auth, distribution); predictTimeout bounds the inference call,
// which runs a model server-side and needs a longer window.
func NewClient(baseURL string, requestTimeout, predictTimeout time.Duration) (*Client, error) {
	if baseURL == "" {
		return nil, fmt.Errorf("base URL cannot be empty")
	}
	return &Client{
		baseURL:        strings.TrimRight(baseURL, "/"),
		httpClient:     &http.Client{},
		requestTimeout: requestTimeout,
		predictTimeout: predictTimeout,
	}, nil
}

// Register submits a registration, which triggers OTP issuance to the email.
func (c *Client) Register(ctx context.Context, username, password, email string) (string, error) {
	var resp messageResponse
	err := c.postJSON(ctx, "/auth/register", registerRequest{
		Username: username,
		Password: password,
		Email:    email,
	}, &resp, c.requestTimeout)
	if err != nil {
		return "", err
	}
	return resp.Message, nil
}

// Login authenticates with username/password and returns the stored identity.
func (c *Client) Login(ctx context.Context, username, password string) (*LoginResponse, error) {
	var resp LoginResponse
	err := c.postJSON(ctx, "/auth/login", loginRequest{Username: username, Password: password}, &resp, c.requestTimeout)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// VerifyOTP exchanges a one-time code for verified status. A rejection
// surfaces the server's {detail} via *APIError.
func (c *Client) VerifyOTP(ctx context.Context, email, otp string) error {
	return c.postJSON(ctx, "/auth/verify-otp", verifyOTPRequest{Email: email, OTP: otp}, nil, c.requestTimeout)
}

// Predict uploads the tile plus identity and symptoms as one multipart
// request and returns the classification. Symptoms are a structured slice
// internally; serialization to a JSON-encoded form field happens here, at
// the wire boundary.
func (c *Client) Predict(ctx context.Context, filePath, username, phone string, symptoms []string) (*PredictResponse, error) {
	f, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}
	defer f.Close()

	var body bytes.Buffer
	w := multipart.NewWriter(&body)

	part, err := w.CreateFormFile("file", filepath.Base(filePath))
	if err != nil {
		return nil, fmt.Errorf("failed to build upload: %w", err)
	}
	if _, err := io.Copy(part, f); err != nil {
		return nil, fmt.Errorf("failed to read image: %w", err)
	}

	if symptoms == nil {
		symptoms = []string{}
	}
	symptomsJSON, err := json.Marshal(symptoms)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize symptoms: %w", err)
	}

	fields := map[string]string{
		"username": username,
		"phone":    phone,
		"symptoms": string(symptomsJSON),
	}
	for name, value := range fields {
		if err := w.WriteField(name, value); err != nil {
			return nil, fmt.Errorf("failed to write form field %s: %w", name, err)
		}
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("failed to finalize upload: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, c.predictTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/predict", &body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", w.FormDataContentType())

	var resp PredictResponse
	if err := c.do(req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// SendEmail forwards an existing report to an email address.
func (c *Client) SendEmail(ctx context.Context, email, reportPath string) (string, error) {
	var resp messageResponse
	err := c.postJSON(ctx, "/send-email", sendEmailRequest{Email: email, Report: reportPath}, &resp, c.requestTimeout)
	if err != nil {
		return "", err
	}
	return resp.Message, nil
}

// SendWhatsApp forwards an existing report to a WhatsApp number.
func (c *Client) SendWhatsApp(ctx context.Context, phone, reportPath string) (string, error) {
	var resp messageResponse
	err := c.postJSON(ctx, "/send-whatsapp", sendWhatsAppRequest{Phone: phone, Report: reportPath}, &resp, c.requestTimeout)
	if err != nil {
		return "", err
	}
	return resp.Message, nil
}

// DownloadReport streams the report artifact to the given local path.
func (c *Client) DownloadReport(ctx context.Context, reportPath, destPath string) error {
	u := c.baseURL + "/download-report?report=" + url.QueryEscape(reportPath)
	return c.downloadTo(ctx, u, destPath)
}

// DownloadPreview streams the report's PNG preview to the given local path.
func (c *Client) DownloadPreview(ctx context.Context, reportPath, destPath string) error {
	return c.downloadTo(ctx, c.baseURL+PreviewPath(reportPath), destPath)
}

func (c *Client) downloadTo(ctx context.Context, rawURL, destPath string) error {
	ctx, cancel := context.WithTimeout(ctx, c.requestTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return err
	}
	req.Header.Set("X-Request-ID", uuid.New().String())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return mapTransportError(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return decodeAPIError(resp)
	}

	out, err := os.Create(destPath)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", destPath, err)
	}
	defer out.Close()

	if _, err := io.Copy(out, resp.Body); err != nil {
		return fmt.Errorf("failed to write %s: %w", destPath, err)
	}
	return nil
}

// postJSON issues a JSON POST with the call timeout applied and decodes the
// success body into out (out may be nil when only the status matters).
func (c *Client) postJSON(ctx context.Context, path string, payload any, out any, timeout time.Duration) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to encode request: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out any) error {
	req.Header.Set("X-Request-ID", uuid.New().String())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return mapTransportError(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return decodeAPIError(resp)
	}

	if out == nil {
		// Drain so the connection can be reused.
		io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// decodeAPIError extracts the server's structured {detail} rejection when
// present, otherwise reports the bare status.
func decodeAPIError(resp *http.Response) error {
	var payload struct {
		Detail string `json:"detail"`
	}
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<16))
	_ = json.Unmarshal(body, &payload)
	return &APIError{StatusCode: resp.StatusCode, Detail: payload.Detail}
}

func mapTransportError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %v", ErrTimeout, err)
	}
	var urlErr *url.Error
	if errors.As(err, &urlErr) && urlErr.Timeout() {
		return fmt.Errorf("%w: %v", ErrTimeout, err)
	}
	return err
}
