// File: mover.go
package main

import "math"

const (
	defaultMarkerSize = 200
	defaultMarkerPos  = 10
)

// RandomMover jumps the marker square to a random spot inside the container
// on every Tick until movement is disabled. It holds no timer itself; the
// session drives Tick from its ticker goroutine.
type RandomMover struct {
	rnd          Rand
	sizeFraction float64

	container Size
	measured  bool
	marker    Marker
	enabled   bool
}

func NewRandomMover(rnd Rand, sizeFraction float64) *RandomMover {
	return &RandomMover{
		rnd:          rnd,
		sizeFraction: sizeFraction,
		marker:       Marker{Top: defaultMarkerPos, Left: defaultMarkerPos, Size: defaultMarkerSize},
		enabled:      true,
	}
}

// Measure records the container dimensions and recomputes the marker size.
func (m *RandomMover) Measure(s Size) {
	m.container = s
	m.measured = true
	m.marker.Size = math.Min(s.Width, s.Height) * m.sizeFraction
}

// Tick moves the marker. It returns false when frozen or not yet measured.
func (m *RandomMover) Tick() bool {
	if !m.enabled || !m.measured {
		return false
	}
	maxX := math.Max(0, m.container.Width-m.marker.Size)
	maxY := math.Max(0, m.container.Height-m.marker.Size)
	m.marker.Top = m.rnd.Float64() * maxY
	m.marker.Left = m.rnd.Float64() * maxX
	return true
}

// DisableMovement freezes the marker at its last position.
func (m *RandomMover) DisableMovement() {
	m.enabled = false
}

func (m *RandomMover) Enabled() bool { return m.enabled }

func (m *RandomMover) Marker() Marker { return m.marker }
