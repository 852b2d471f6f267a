package main

import (
	"context"
	"image"
	"image/color"
	"sync"
	"time"
)

// scriptedRand replays fixed draws; once exhausted it returns 0.
type scriptedRand struct {
	ints   []int
	floats []float64
}

func (r *scriptedRand) Intn(n int) int {
	if len(r.ints) == 0 {
		return 0
	}
	v := r.ints[0]
	r.ints = r.ints[1:]
	return v % n
}

func (r *scriptedRand) Float64() float64 {
	if len(r.floats) == 0 {
		return 0
	}
	v := r.floats[0]
	r.floats = r.floats[1:]
	return v
}

type fakeMedia struct {
	mu     sync.Mutex
	img    image.Image
	err    error
	closed bool
	calls  int

	closeErr error
}

func (m *fakeMedia) AcquireStillImage(ctx context.Context) (image.Image, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	return m.img, nil
}

func (m *fakeMedia) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return m.closeErr
}

func (m *fakeMedia) isClosed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed
}

func testFrame(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 128, A: 255})
		}
	}
	return img
}

func testCaptchaConfig() CaptchaConfig {
	cfg := DefaultConfig().Captcha
	cfg.MoveInterval = 5 * time.Millisecond
	return cfg
}
