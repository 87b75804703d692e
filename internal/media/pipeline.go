// Package media normalizes uploaded images into web-ready renditions.
package media

import (
	"bytes"
	"image"
	"image/jpeg"
	"net/http"
	"strings"

	// Register decoders.
	_ "image/gif"
	_ "image/png"

	"nightlife/internal/models"

	"github.com/chai2010/webp"
	xdraw "golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

const (
	MaxDimension = 1440
	JPEGQuality  = 82
	WebPQuality  = 70
)

// Rendition is the processed image in both output formats.
type Rendition struct {
	JPEG   []byte
	WebP   []byte
	Width  int
	Height int
}

// Process validates the upload, scales it to fit MaxDimension and encodes
// JPEG and WebP copies.
func Process(content []byte, maxBytes int64) (*Rendition, error) {
	if len(content) == 0 {
		return nil, models.NewValidationError("No file uploaded")
	}
	if maxBytes > 0 && int64(len(content)) > maxBytes {
		return nil, models.NewValidationError("File too large")
	}
	if !allowedMIME(http.DetectContentType(content)) {
		return nil, models.NewValidationError("Invalid image type")
	}

	decoded, _, err := image.Decode(bytes.NewReader(content))
	if err != nil {
		return nil, models.NewValidationError("Invalid image file")
	}

	scaled := resizeToFit(decoded, MaxDimension, MaxDimension)

	var jpg bytes.Buffer
	if err := jpeg.Encode(&jpg, scaled, &jpeg.Options{Quality: JPEGQuality}); err != nil {
		return nil, err
	}
	var wp bytes.Buffer
	if err := webp.Encode(&wp, scaled, &webp.Options{Quality: WebPQuality}); err != nil {
		return nil, err
	}

	b := scaled.Bounds()
	return &Rendition{JPEG: jpg.Bytes(), WebP: wp.Bytes(), Width: b.Dx(), Height: b.Dy()}, nil
}

func allowedMIME(contentType string) bool {
	ct, _, _ := strings.Cut(strings.ToLower(contentType), ";")
	switch strings.TrimSpace(ct) {
	case "image/jpeg", "image/png", "image/gif", "image/webp":
		return true
	}
	return false
}

func resizeToFit(src image.Image, maxWidth, maxHeight int) image.Image {
	bounds := src.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w <= 0 || h <= 0 || (w <= maxWidth && h <= maxHeight) {
		return src
	}

	scale := min(float64(maxWidth)/float64(w), float64(maxHeight)/float64(h))
	newW := max(int(float64(w)*scale), 1)
	newH := max(int(float64(h)*scale), 1)

	dst := image.NewRGBA(image.Rect(0, 0, newW, newH))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), src, bounds, xdraw.Over, nil)
	return dst
}
