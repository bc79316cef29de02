// Package ocr captures the primary screen and recognizes words with
// Tesseract.
package ocr

import (
	"context"
	"errors"
	"fmt"
	"image"
	"strings"
	"sync"

	"github.com/kbinani/screenshot"
	"github.com/otiai10/gosseract/v2"
	"gocv.io/x/gocv"

	"github.com/jask/ocrclick/internal/config"
	"github.com/jask/ocrclick/internal/logging"
	"github.com/jask/ocrclick/internal/screen"
)

// ErrNoDisplay is returned when no active display can be captured.
var ErrNoDisplay = errors.New("no active display")

// Engine captures the screen and returns word-level text regions.
type Engine struct {
	mu        sync.Mutex
	client    *gosseract.Client
	grayscale bool
	log       *logging.Logger
}

// NewEngine creates a new OCR engine.
func NewEngine(cfg config.OCRConfig, log *logging.Logger) (*Engine, error) {
	client := gosseract.NewClient()

	if cfg.TessdataPrefix != "" {
		if err := client.SetTessdataPrefix(cfg.TessdataPrefix); err != nil {
			client.Close()
			return nil, fmt.Errorf("failed to set tessdata prefix: %w", err)
		}
	}
	if err := client.SetLanguage(cfg.Language); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to set OCR language: %w", err)
	}
	// Full page layout analysis; screens are not a single text block.
	if err := client.SetPageSegMode(gosseract.PSM_AUTO); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to set PSM: %w", err)
	}

	return &Engine{client: client, grayscale: cfg.Grayscale, log: log}, nil
}

// Close releases OCR resources.
func (e *Engine) Close() error {
	if e.client != nil {
		return e.client.Close()
	}
	return nil
}

// Bounds returns the primary display rectangle.
func (e *Engine) Bounds(context.Context) (screen.Rect, error) {
	if screenshot.NumActiveDisplays() == 0 {
		return screen.Rect{}, ErrNoDisplay
	}
	return screen.RectFromImage(screenshot.GetDisplayBounds(0)), nil
}

// CaptureRegions captures area (or the whole primary display when nil) and
// returns the recognized words in Tesseract's reading order, in absolute
// screen coordinates. Whitespace-only words are dropped.
func (e *Engine) CaptureRegions(ctx context.Context, area *screen.Rect) ([]screen.TextRegion, error) {
	bounds, err := e.Bounds(ctx)
	if err != nil {
		return nil, err
	}
	target := bounds
	if area != nil {
		target = bounds.Intersect(*area)
		if target.Empty() {
			return nil, nil
		}
	}

	img, err := screenshot.CaptureRect(target.Image())
	if err != nil {
		return nil, fmt.Errorf("capture %s: %w", target, err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	png, err := e.encode(img)
	if err != nil {
		return nil, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.client.SetImageFromBytes(png); err != nil {
		return nil, fmt.Errorf("failed to set image: %w", err)
	}
	boxes, err := e.client.GetBoundingBoxes(gosseract.RIL_WORD)
	if err != nil {
		return nil, fmt.Errorf("OCR failed: %w", err)
	}

	origin := screen.Point{X: target.X, Y: target.Y}
	regions := make([]screen.TextRegion, 0, len(boxes))
	for _, b := range boxes {
		text := strings.TrimSpace(b.Word)
		if text == "" {
			continue
		}
		regions = append(regions, screen.TextRegion{
			Text:   text,
			Bounds: screen.RectFromImage(b.Box).Offset(origin),
		})
	}
	e.log.Debug("ocr snapshot", "area", target.String(), "words", len(regions))
	return regions, nil
}

// encode converts the capture to PNG bytes for Tesseract, optionally in
// grayscale. Dimensions are unchanged so word boxes stay in capture pixels.
func (e *Engine) encode(img image.Image) ([]byte, error) {
	mat, err := gocv.ImageToMatRGB(img)
	if err != nil {
		return nil, fmt.Errorf("failed to convert capture: %w", err)
	}
	defer mat.Close()

	src := mat
	if e.grayscale {
		gray := gocv.NewMat()
		defer gray.Close()
		gocv.CvtColor(mat, &gray, gocv.ColorBGRToGray)
		src = gray
	}

	buf, err := gocv.IMEncode(gocv.PNGFileExt, src)
	if err != nil {
		return nil, fmt.Errorf("failed to encode image: %w", err)
	}
	defer buf.Close()

	// GetBytes aliases native memory freed by Close.
	out := make([]byte, len(buf.GetBytes()))
	copy(out, buf.GetBytes())
	return out, nil
}
