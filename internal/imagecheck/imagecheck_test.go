package imagecheck

import (
	"image"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writePNG(t *testing.T, width, height int) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "tile.png")
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, png.Encode(f, image.NewRGBA(image.Rect(0, 0, width, height))))
	return path
}

func writeJPEG(t *testing.T, width, height int) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "tile.jpg")
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, jpeg.Encode(f, image.NewRGBA(image.Rect(0, 0, width, height)), nil))
	return path
}

func writeFile(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, data, 0o600))
	return path
}

func TestValidateAccepts50x50(t *testing.T) {
	t.Run("png", func(t *testing.T) {
		candidate, err := Validate(writePNG(t, 50, 50))
		require.NoError(t, err)
		assert.Equal(t, 50, candidate.PixelWidth)
		assert.Equal(t, 50, candidate.PixelHeight)
		assert.Equal(t, "image/png", candidate.MIMEType)
	})

	t.Run("jpeg", func(t *testing.T) {
		candidate, err := Validate(writeJPEG(t, 50, 50))
		require.NoError(t, err)
		assert.Equal(t, "image/jpeg", candidate.MIMEType)
	})
}

func TestValidateRejectsWrongDimensions(t *testing.T) {
	tests := []struct {
		name   string
		width  int
		height int
	}{
		{name: "one short on width", width: 49, height: 50},
		{name: "one over on height", width: 50, height: 51},
		{name: "square but wrong size", width: 100, height: 100},
		{name: "tiny", width: 1, height: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			candidate, err := Validate(writePNG(t, tt.width, tt.height))
			assert.ErrorIs(t, err, ErrWrongDimensions)
			assert.Nil(t, candidate, "a rejected file must not leave an accepted candidate behind")
		})
	}
}

func TestValidateRejectsNonImage(t *testing.T) {
	path := writeFile(t, "notes.txt", []byte("definitely not pixels"))

	candidate, err := Validate(path)
	assert.ErrorIs(t, err, ErrNotImage)
	assert.Nil(t, candidate)
}

func TestValidateRejectsEmptyFile(t *testing.T) {
	// Zero bytes sniff as text/plain, so this is a MIME rejection, not an
	// I/O error.
	path := writeFile(t, "empty.png", nil)

	candidate, err := Validate(path)
	assert.ErrorIs(t, err, ErrNotImage)
	assert.Nil(t, candidate)
}

func TestValidateRejectsCorruptImage(t *testing.T) {
	// A valid PNG signature followed by garbage: passes the MIME gate,
	// fails the decode.
	data := append([]byte("\x89PNG\r\n\x1a\n"), []byte("corrupt body")...)
	path := writeFile(t, "broken.png", data)

	candidate, err := Validate(path)
	assert.ErrorIs(t, err, ErrUndecodable)
	assert.Nil(t, candidate)
}

func TestValidateMissingFile(t *testing.T) {
	_, err := Validate(filepath.Join(t.TempDir(), "nope.png"))
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotImage)
}
