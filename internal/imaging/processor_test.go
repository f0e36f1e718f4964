package imaging

import (
	"bytes"
	"image"
	"image/jpeg"
	"image/png"
	"testing"

	"github.com/stretchr/testify/require"
)

func encodePNG(t *testing.T, width, height int) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, width, height))))
	return buf.Bytes()
}

func encodeJPEG(t *testing.T, width, height int) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, image.NewRGBA(image.Rect(0, 0, width, height)), nil))
	return buf.Bytes()
}

func decodeSize(t *testing.T, data []byte) (int, int) {
	t.Helper()
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	require.NoError(t, err)
	return cfg.Width, cfg.Height
}

func TestProcess_ReencodesToJPEG(t *testing.T) {
	p := NewProcessor(1600, "jpeg", 82)

	result, err := p.Process(encodePNG(t, 100, 50))
	require.NoError(t, err)
	require.Equal(t, ".jpg", result.Ext)
	require.Equal(t, "image/jpeg", result.ContentType)

	w, h := decodeSize(t, result.Data)
	require.Equal(t, 100, w)
	require.Equal(t, 50, h)
}

func TestProcess_CapsWidth(t *testing.T) {
	p := NewProcessor(64, "jpeg", 82)

	result, err := p.Process(encodeJPEG(t, 256, 128))
	require.NoError(t, err)

	w, h := decodeSize(t, result.Data)
	require.Equal(t, 64, w)
	// Aspect ratio preserved.
	require.Equal(t, 32, h)
}

func TestProcess_SmallImagesUntouched(t *testing.T) {
	p := NewProcessor(1600, "jpeg", 82)

	result, err := p.Process(encodeJPEG(t, 40, 40))
	require.NoError(t, err)

	w, _ := decodeSize(t, result.Data)
	require.Equal(t, 40, w)
}

func TestProcess_OrigKeepsPNG(t *testing.T) {
	p := NewProcessor(1600, "orig", 82)

	result, err := p.Process(encodePNG(t, 10, 10))
	require.NoError(t, err)
	require.Equal(t, ".png", result.Ext)
	require.Equal(t, "image/png", result.ContentType)

	result, err = p.Process(encodeJPEG(t, 10, 10))
	require.NoError(t, err)
	require.Equal(t, ".jpg", result.Ext)
}

func TestProcess_RejectsNonImages(t *testing.T) {
	p := NewProcessor(1600, "jpeg", 82)

	for _, data := range [][]byte{
		nil,
		[]byte("not an image"),
		{0x47, 0x49, 0x46}, // truncated GIF header
	} {
		_, err := p.Process(data)
		require.ErrorIs(t, err, ErrUnsupportedFormat)
	}
}

func TestProcess_RejectsGIF(t *testing.T) {
	// GIF decodes with the right import, but this processor only
	// accepts jpeg/png/webp, so a real GIF must still be rejected.
	gif := []byte("GIF89a\x01\x00\x01\x00\x00\x00\x00;")
	p := NewProcessor(1600, "jpeg", 82)

	_, err := p.Process(gif)
	require.ErrorIs(t, err, ErrUnsupportedFormat)
}
