package imaging

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/png"

	"github.com/disintegration/imaging"

	// Register decoders for the accepted input formats. WebP can be
	// decoded but not re-encoded without cgo, so webp input is
	// transcoded to the configured output format.
	_ "golang.org/x/image/webp"
	_ "image/jpeg"
	_ "image/png"
)

// ErrUnsupportedFormat is returned for input that is not JPEG, PNG or WebP.
var ErrUnsupportedFormat = errors.New("unsupported image format")

// Processor re-encodes uploaded images: decode, auto-orient, cap the width,
// and encode to the configured output format.
type Processor struct {
	maxWidth int
	format   string
	quality  int
}

// Result is the re-encoded image ready for object storage.
type Result struct {
	Data        []byte
	Ext         string
	ContentType string
}

// NewProcessor builds a processor. format is "jpeg", "png", or "orig"
// (keep the source family; webp sources fall back to jpeg).
func NewProcessor(maxWidth int, format string, quality int) *Processor {
	return &Processor{
		maxWidth: maxWidth,
		format:   format,
		quality:  quality,
	}
}

// Process validates and re-encodes data. Non-image or unsupported input
// yields ErrUnsupportedFormat.
func (p *Processor) Process(data []byte) (*Result, error) {
	_, srcFormat, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedFormat, err)
	}
	switch srcFormat {
	case "jpeg", "png", "webp":
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, srcFormat)
	}

	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedFormat, err)
	}

	if p.maxWidth > 0 && img.Bounds().Dx() > p.maxWidth {
		img = imaging.Resize(img, p.maxWidth, 0, imaging.Lanczos)
	}

	return p.encode(img, srcFormat)
}

func (p *Processor) encode(img image.Image, srcFormat string) (*Result, error) {
	outFormat := p.format
	if outFormat == "orig" {
		// Keep the source family where we can encode it.
		if srcFormat == "png" {
			outFormat = "png"
		} else {
			outFormat = "jpeg"
		}
	}

	var buf bytes.Buffer
	switch outFormat {
	case "png":
		err := imaging.Encode(&buf, img, imaging.PNG,
			imaging.PNGCompressionLevel(png.BestCompression))
		if err != nil {
			return nil, fmt.Errorf("failed to encode png: %w", err)
		}
		return &Result{Data: buf.Bytes(), Ext: ".png", ContentType: "image/png"}, nil
	default:
		err := imaging.Encode(&buf, img, imaging.JPEG,
			imaging.JPEGQuality(p.quality))
		if err != nil {
			return nil, fmt.Errorf("failed to encode jpeg: %w", err)
		}
		return &Result{Data: buf.Bytes(), Ext: ".jpg", ContentType: "image/jpeg"}, nil
	}
}
