//go:build ocr

package ocr

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/png"
	"strings"
	"sync"

	"github.com/otiai10/gosseract/v2"

	"github.com/tsawler/pagelayout/model"
)

// Client wraps Tesseract for OCR operations. A Client is safe for concurrent
// use; calls are serialized.
type Client struct {
	mu            sync.Mutex
	client        *gosseract.Client
	minConfidence float64
}

// New creates a new OCR client with default configuration.
// The client should be closed when no longer needed to release resources.
func New() (*Client, error) {
	return NewWithConfig(DefaultConfig())
}

// NewWithConfig creates a new OCR client with custom configuration
func NewWithConfig(config Config) (*Client, error) {
	c := &Client{
		client:        gosseract.NewClient(),
		minConfidence: config.MinConfidence,
	}

	if len(config.Languages) > 0 {
		langs, err := TesseractLanguages(config.Languages...)
		if err != nil {
			c.Close()
			return nil, err
		}
		if err := c.SetLanguage(langs); err != nil {
			c.Close()
			return nil, fmt.Errorf("failed to set language %q: %w", langs, err)
		}
	}
	if config.PageSegMode != 0 {
		if err := c.SetPageSegMode(config.PageSegMode); err != nil {
			c.Close()
			return nil, fmt.Errorf("failed to set page segmentation mode: %w", err)
		}
	}
	return c, nil
}

// Close releases OCR resources.
func (c *Client) Close() error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Close()
}

// SetLanguage sets the language(s) for OCR recognition.
// Multiple languages are given as a "+" separated string (e.g., "eng+fra").
func (c *Client) SetLanguage(lang string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.client.SetLanguage(strings.Split(lang, "+")...)
}

// SetPageSegMode sets the page segmentation mode.
func (c *Client) SetPageSegMode(mode PageSegMode) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.client.SetPageSegMode(gosseract.PageSegMode(mode))
}

// Recognize implements Engine. Each recognized text line becomes one
// axis-aligned fragment; Tesseract's confidence is scaled to 0..1.
func (c *Client) Recognize(ctx context.Context, img image.Image) ([]model.OCRFragment, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("failed to encode image: %w", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.client.SetImageFromBytes(buf.Bytes()); err != nil {
		return nil, fmt.Errorf("failed to set image: %w", err)
	}
	boxes, err := c.client.GetBoundingBoxes(gosseract.RIL_TEXTLINE)
	if err != nil {
		return nil, fmt.Errorf("OCR failed: %w", err)
	}

	fragments := make([]model.OCRFragment, 0, len(boxes))
	for _, b := range boxes {
		text := strings.TrimSpace(b.Word)
		rank := b.Confidence / 100
		if text == "" || rank < c.minConfidence {
			continue
		}
		r := b.Box
		fragments = append(fragments, model.OCRFragment{
			Order: len(fragments),
			Text:  text,
			Rank:  rank,
			Rect:  model.NewRect(float64(r.Min.X), float64(r.Min.Y), float64(r.Max.X), float64(r.Max.Y)),
		})
	}
	return fragments, nil
}
