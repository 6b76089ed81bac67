// Package imagecheck gates files before they are eligible for analysis
// submission. The inference service expects a fixed-size 50×50 tile, so the
// gate is exact-match on dimensions with no cropping, scaling, or resizing.
package imagecheck

import (
	"errors"
	"fmt"
	"image"
	"io"
	"net/http"
	"os"
	"strings"

	// Codecs the screening service accepts. Registration makes
	// image.DecodeConfig able to probe their dimensions.
	_ "image/jpeg"
	_ "image/png"
)

// Required tile dimensions, a contract of the inference service.
const (
	RequiredWidth  = 50
	RequiredHeight = 50
)

// Validation failures. Each carries the user-facing reason; callers branch
// with errors.Is.
var (
	// ErrNotImage: the file's content type is not image/*. Dimension
	// decoding is never attempted in this case.
	ErrNotImage = errors.New("please select an image file (PNG, JPG, JPEG)")

	// ErrUndecodable: the data claims to be an image but cannot be decoded.
	ErrUndecodable = errors.New("invalid image file")

	// ErrWrongDimensions: decoded fine but is not exactly 50×50.
	ErrWrongDimensions = errors.New("invalid image, upload a clear picture")
)

// Candidate is a file that passed validation and is eligible for submission.
type Candidate struct {
	Path        string
	MIMEType    string
	PixelWidth  int
	PixelHeight int
}

// Validate inspects the file at path and returns a Candidate iff it is an
// image of exactly 50×50 pixels.
//
// Order matters: the MIME gate runs first and rejects non-images without
// attempting a dimension decode.
func Validate(path string) (*Candidate, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	// Sniff the content type from the first 512 bytes, the same signal a
	// browser file input reports.
	header := make([]byte, 512)
	n, err := f.Read(header)
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	// An empty file sniffs as text/plain and falls through to the MIME gate.
	mimeType := http.DetectContentType(header[:n])
	if !strings.HasPrefix(mimeType, "image/") {
		return nil, ErrNotImage
	}

	if _, err := f.Seek(0, 0); err != nil {
		return nil, fmt.Errorf("failed to rewind %s: %w", path, err)
	}

	cfg, _, err := image.DecodeConfig(f)
	if err != nil {
		return nil, ErrUndecodable
	}

	if cfg.Width != RequiredWidth || cfg.Height != RequiredHeight {
		return nil, fmt.Errorf("%w (got %dx%d, need %dx%d)",
			ErrWrongDimensions, cfg.Width, cfg.Height, RequiredWidth, RequiredHeight)
	}

	return &Candidate{
		Path:        path,
		MIMEType:    mimeType,
		PixelWidth:  cfg.Width,
		PixelHeight: cfg.Height,
	}, nil
}
