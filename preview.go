// File: preview.go
package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	previewColors = map[Color]lipgloss.Color{
		ColorRed:   lipgloss.Color("#ef4444"),
		ColorGreen: lipgloss.Color("#22c55e"),
		ColorBlue:  lipgloss.Color("#3b82f6"),
	}
	previewGlyphs = map[Shape]string{
		ShapeTriangle: "▲",
		ShapeSquare:   "■",
		ShapeCircle:   "●",
	}
	styleCell   = lipgloss.NewStyle().Width(5).Align(lipgloss.Center).Border(lipgloss.NormalBorder())
	styleAnswer = lipgloss.NewStyle().Bold(true)
)

// RenderPreview lays the challenge out as a terminal grid. With reveal set the
// correct sectors are highlighted.
func RenderPreview(ch *GridChallenge, reveal bool) string {
	correct := make(map[int]bool)
	for _, id := range ch.CorrectSectors() {
		correct[id] = true
	}

	rows := make([]string, 0, ch.Size+2)
	rows = append(rows, "Select every sector with: "+watermarkGlyph(ch.Target)+" "+string(ch.Target.Color)+" "+string(ch.Target.Shape))
	for r := 0; r < ch.Size; r++ {
		cells := make([]string, 0, ch.Size)
		for c := 0; c < ch.Size; c++ {
			s := ch.Sectors[r*ch.Size+c]
			content := " "
			if s.Watermark != nil {
				content = watermarkGlyph(*s.Watermark)
			}
			style := styleCell
			if reveal && correct[s.ID] {
				style = style.BorderForeground(lipgloss.Color("#f368e0"))
			}
			cells = append(cells, style.Render(content))
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cells...))
	}
	if reveal {
		labels := make([]string, 0, len(correct))
		for _, id := range ch.CorrectSectors() {
			labels = append(labels, SectorLabel(id, ch.Size))
		}
		rows = append(rows, styleAnswer.Render(fmt.Sprintf("answers: %s", strings.Join(labels, " "))))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func watermarkGlyph(wm Watermark) string {
	glyph, ok := previewGlyphs[wm.Shape]
	if !ok {
		glyph = "?"
	}
	fg, ok := previewColors[wm.Color]
	if !ok {
		return glyph
	}
	return lipgloss.NewStyle().Foreground(fg).Render(glyph)
}
