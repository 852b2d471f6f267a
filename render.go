// File: render.go
package main

import (
	"bytes"
	"fmt"
	"image"
	"math"
	"sync"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
)

// RenderOptions 输出图片参数
type RenderOptions struct {
	Width, Height int
	DrawLabels    bool
	// Grid 是网格所在的方块（输出像素坐标），为空时铺满整张图
	Grid *Marker
}

// gridRect returns the square the sectors are laid out in.
func (o RenderOptions) gridRect() (left, top, w, h float64) {
	if o.Grid == nil || o.Grid.Size <= 0 {
		return 0, 0, float64(o.Width), float64(o.Height)
	}
	return o.Grid.Left, o.Grid.Top, o.Grid.Size, o.Grid.Size
}

var watermarkRGB = map[Color][3]float64{
	ColorRed:   {0.937, 0.267, 0.267},
	ColorGreen: {0.133, 0.773, 0.369},
	ColorBlue:  {0.231, 0.510, 0.965},
}

var (
	fontOnce sync.Once
	tagFont  *truetype.Font
	fontErr  error
)

func labelFace(size float64) (font.Face, error) {
	fontOnce.Do(func() {
		tagFont, fontErr = truetype.Parse(goregular.TTF)
	})
	if fontErr != nil {
		return nil, fontErr
	}
	return truetype.NewFace(tagFont, &truetype.Options{Size: size}), nil
}

// RenderChallenge draws the captured frame, the grid, every watermark and the
// current selection, and returns PNG bytes.
func RenderChallenge(img image.Image, ch *GridChallenge, sel Selection, opts RenderOptions) ([]byte, error) {
	if ch == nil || ch.Size < 1 {
		return nil, fmt.Errorf("render: no challenge")
	}
	if opts.Width <= 0 || opts.Height <= 0 {
		return nil, fmt.Errorf("render: invalid size %dx%d", opts.Width, opts.Height)
	}

	dc := gg.NewContext(opts.Width, opts.Height)
	dc.SetRGB(1, 1, 1)
	dc.Clear()
	if img != nil {
		b := img.Bounds()
		if b.Dx() != opts.Width || b.Dy() != opts.Height {
			img = FitToContainer(img, opts.Width, opts.Height)
		}
		dc.DrawImage(img, 0, 0)
	}

	left, top, gw, gh := opts.gridRect()
	unitX := gw / float64(ch.Size)
	unitY := gh / float64(ch.Size)

	for _, s := range ch.Sectors {
		col, row := s.ID%ch.Size, s.ID/ch.Size
		x, y := left+float64(col)*unitX, top+float64(row)*unitY
		if s.Watermark != nil {
			drawWatermark(dc, *s.Watermark, x+unitX/2, y+unitY/2, math.Min(unitX, unitY)*0.3)
		}
		if sel.Has(s.ID) {
			dc.SetRGBA(1, 1, 1, 0.35)
			dc.DrawRectangle(x, y, unitX, unitY)
			dc.Fill()
			dc.SetRGB(0.953, 0.408, 0.878)
			dc.SetLineWidth(4)
			dc.DrawRectangle(x+2, y+2, unitX-4, unitY-4)
			dc.Stroke()
		}
	}

	drawGridLines(dc, ch.Size, left, top, gw, gh, opts.Grid != nil)

	if opts.DrawLabels {
		labelSize := math.Min(unitX, unitY) / 5
		face, err := labelFace(labelSize)
		if err != nil {
			return nil, fmt.Errorf("render: load font: %w", err)
		}
		dc.SetFontFace(face)
		dc.SetRGBA(1, 1, 1, 0.8)
		for _, s := range ch.Sectors {
			col, row := s.ID%ch.Size, s.ID/ch.Size
			x := left + float64(col)*unitX + labelSize*0.25
			y := top + float64(row+1)*unitY - labelSize*0.4
			dc.DrawString(SectorLabel(s.ID, ch.Size), x, y)
		}
	}

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func drawGridLines(dc *gg.Context, n int, left, top, w, h float64, border bool) {
	unitX, unitY := w/float64(n), h/float64(n)
	dc.SetRGBA(1, 1, 1, 0.7)
	dc.SetLineWidth(1.5)
	for i := 1; i < n; i++ {
		x, y := left+float64(i)*unitX, top+float64(i)*unitY
		dc.DrawLine(x, top, x, top+h)
		dc.DrawLine(left, y, left+w, y)
	}
	if border {
		dc.DrawRectangle(left, top, w, h)
	}
	dc.Stroke()
}

// drawWatermark 半透明填充，保证底下的自拍仍然可见
func drawWatermark(dc *gg.Context, wm Watermark, cx, cy, r float64) {
	rgb, ok := watermarkRGB[wm.Color]
	if !ok {
		rgb = [3]float64{0.5, 0.5, 0.5}
	}
	switch wm.Shape {
	case ShapeTriangle:
		dc.DrawRegularPolygon(3, cx, cy, r, 0)
	case ShapeSquare:
		dc.DrawRectangle(cx-r*0.85, cy-r*0.85, r*1.7, r*1.7)
	case ShapeCircle:
		dc.DrawCircle(cx, cy, r)
	default:
		return
	}
	dc.SetRGBA(rgb[0], rgb[1], rgb[2], 0.55)
	dc.FillPreserve()
	dc.SetRGBA(rgb[0], rgb[1], rgb[2], 0.95)
	dc.SetLineWidth(math.Max(1, r/8))
	dc.Stroke()
}
