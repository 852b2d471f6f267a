// File: media.go
package main

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"math"
	"sync"
	"time"

	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

// MediaSource is the live camera feed. The core never looks at pixels;
// it only needs one still frame per capture.
type MediaSource interface {
	AcquireStillImage(ctx context.Context) (image.Image, error)
	Close() error
}

// FrameSource is a MediaSource fed by frames the browser uploads while the
// camera step is showing. A capture takes the newest frame.
type FrameSource struct {
	mu     sync.Mutex
	frame  image.Image
	at     time.Time
	maxAge time.Duration
	closed bool
	now    func() time.Time
}

func NewFrameSource(maxAge time.Duration) *FrameSource {
	return &FrameSource{maxAge: maxAge, now: time.Now}
}

// Push replaces the current live frame.
func (f *FrameSource) Push(img image.Image) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return ErrSessionClosed
	}
	f.frame = img
	f.at = f.now()
	return nil
}

func (f *FrameSource) AcquireStillImage(ctx context.Context) (image.Image, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	switch {
	case f.closed:
		return nil, fmt.Errorf("%w: media source released", ErrCapabilityUnavailable)
	case f.frame == nil:
		return nil, fmt.Errorf("%w: no camera frame received", ErrCapabilityUnavailable)
	case f.maxAge > 0 && f.now().Sub(f.at) > f.maxAge:
		return nil, fmt.Errorf("%w: camera frame is %s old", ErrCapabilityUnavailable, f.now().Sub(f.at).Round(time.Millisecond))
	}
	return f.frame, nil
}

// Close drops the frame; later captures fail.
func (f *FrameSource) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	f.frame = nil
	return nil
}

func (f *FrameSource) Closed() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.closed
}

// DecodeFrame decodes an uploaded png, jpeg or webp frame. The header is
// checked first so a frame wider or taller than maxSide is rejected before
// any pixel buffer is allocated. maxSide <= 0 disables the check.
func DecodeFrame(r io.Reader, maxSide int) (image.Image, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read frame: %w", err)
	}
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode frame: %w", err)
	}
	if cfg.Width == 0 || cfg.Height == 0 {
		return nil, fmt.Errorf("decode frame: empty %s image", format)
	}
	if maxSide > 0 && (cfg.Width > maxSide || cfg.Height > maxSide) {
		return nil, fmt.Errorf("%w: %s frame %dx%d exceeds %d px", ErrFrameTooLarge, format, cfg.Width, cfg.Height, maxSide)
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode frame: %w", err)
	}
	return img, nil
}

// FitToContainer scales src to cover a w×h canvas, keeping the aspect ratio
// and cropping the overflow evenly on both sides.
func FitToContainer(src image.Image, w, h int) *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	sb := src.Bounds()
	if sb.Dx() == 0 || sb.Dy() == 0 || w == 0 || h == 0 {
		return dst
	}
	videoRatio := float64(sb.Dx()) / float64(sb.Dy())
	canvasRatio := float64(w) / float64(h)

	var drawW, drawH, x, y float64
	if videoRatio > canvasRatio {
		drawH = float64(h)
		drawW = drawH * videoRatio
		x = (float64(w) - drawW) / 2
	} else {
		drawW = float64(w)
		drawH = drawW / videoRatio
		y = (float64(h) - drawH) / 2
	}
	rect := image.Rect(
		int(math.Round(x)), int(math.Round(y)),
		int(math.Round(x+drawW)), int(math.Round(y+drawH)),
	)
	draw.CatmullRom.Scale(dst, rect, src, sb, draw.Src, nil)
	return dst
}
