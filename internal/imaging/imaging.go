package imaging

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"net/http"

	"golang.org/x/image/draw"

	"github.com/erazemk/shramba/internal/model"
)

// MaxDimension is the maximum width or height for stored images.
const MaxDimension = 1024

// ThumbDimension is the maximum width or height of thumbnails.
const ThumbDimension = 256

// MaxUploadSize is the largest accepted upload in bytes.
const MaxUploadSize = 5 << 20

// JPEGQuality is the compression quality for JPEG output.
const JPEGQuality = 85

// OutputMIME is the MIME type of every processed variant.
const OutputMIME = "image/jpeg"

// AllowedMIME lists the accepted input MIME types.
var AllowedMIME = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
}

// ProcessResult contains the processed image variants.
type ProcessResult struct {
	Full  []byte
	Thumb []byte
	MIME  string
}

// Process reads image data, validates the format by sniffing bytes, and
// produces a full-size variant bounded by MaxDimension and a thumbnail bounded
// by ThumbDimension. Both are JPEG.
func Process(r io.Reader) (*ProcessResult, error) {
	data, err := io.ReadAll(io.LimitReader(r, MaxUploadSize+1))
	if err != nil {
		return nil, fmt.Errorf("reading image data: %w", err)
	}
	if len(data) > MaxUploadSize {
		return nil, fmt.Errorf("%w: image larger than %d bytes", model.ErrValidationFailed, MaxUploadSize)
	}

	// Sniff actual MIME type from bytes (not trusting client headers).
	detected := http.DetectContentType(data)
	if !AllowedMIME[detected] {
		return nil, fmt.Errorf("%w: unsupported image format: %s (only JPEG and PNG accepted)", model.ErrValidationFailed, detected)
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: decoding image: %v", model.ErrValidationFailed, err)
	}

	full, err := encode(downscale(img, MaxDimension))
	if err != nil {
		return nil, err
	}
	thumb, err := encode(downscale(img, ThumbDimension))
	if err != nil {
		return nil, err
	}

	return &ProcessResult{Full: full, Thumb: thumb, MIME: OutputMIME}, nil
}

func encode(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: JPEGQuality}); err != nil {
		return nil, fmt.Errorf("encoding JPEG: %w", err)
	}
	return buf.Bytes(), nil
}

// downscale resizes the image so neither dimension exceeds maxDim, keeping the
// aspect ratio. Returns the original image if already within bounds.
func downscale(img image.Image, maxDim int) image.Image {
	bounds := img.Bounds()
	w := bounds.Dx()
	h := bounds.Dy()

	if w <= maxDim && h <= maxDim {
		return img
	}

	newW, newH := w, h
	if w > h {
		newW = maxDim
		newH = int(float64(h) * float64(maxDim) / float64(w))
	} else {
		newH = maxDim
		newW = int(float64(w) * float64(maxDim) / float64(h))
	}
	newW = max(newW, 1)
	newH = max(newH, 1)

	dst := image.NewRGBA(image.Rect(0, 0, newW, newH))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)
	return dst
}

func init() {
	image.RegisterFormat("jpeg", "\xff\xd8", jpeg.Decode, jpeg.DecodeConfig)
	image.RegisterFormat("png", "\x89PNG", png.Decode, png.DecodeConfig)
}
