package main

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRandomMover_Measure(t *testing.T) {
	m := NewRandomMover(&scriptedRand{}, 0.8)
	assert.Equal(t, Marker{Top: 10, Left: 10, Size: 200}, m.Marker())

	m.Measure(Size{Width: 640, Height: 480})
	assert.InDelta(t, 384, m.Marker().Size, 1e-9)

	m.Measure(Size{Width: 300, Height: 500})
	assert.InDelta(t, 240, m.Marker().Size, 1e-9)
}

func TestRandomMover_TickWithinBounds(t *testing.T) {
	m := NewRandomMover(rand.New(rand.NewSource(9)), 0.8)
	m.Measure(Size{Width: 640, Height: 480})
	size := m.Marker().Size
	for i := 0; i < 200; i++ {
		assert.True(t, m.Tick())
		mk := m.Marker()
		assert.GreaterOrEqual(t, mk.Top, 0.0)
		assert.GreaterOrEqual(t, mk.Left, 0.0)
		assert.LessOrEqual(t, mk.Top, 480-size)
		assert.LessOrEqual(t, mk.Left, 640-size)
	}
}

func TestRandomMover_TickScalesDraws(t *testing.T) {
	m := NewRandomMover(&scriptedRand{floats: []float64{0.5, 0.25}}, 0.5)
	m.Measure(Size{Width: 400, Height: 200})
	// size 100, top range 100, left range 300
	assert.True(t, m.Tick())
	assert.Equal(t, Marker{Top: 50, Left: 75, Size: 100}, m.Marker())
}

func TestRandomMover_DisableFreezes(t *testing.T) {
	m := NewRandomMover(rand.New(rand.NewSource(2)), 0.8)
	m.Measure(Size{Width: 640, Height: 480})
	m.Tick()
	frozen := m.Marker()

	m.DisableMovement()
	assert.False(t, m.Enabled())
	for i := 0; i < 10; i++ {
		assert.False(t, m.Tick())
	}
	assert.Equal(t, frozen, m.Marker())
}

func TestRandomMover_UnmeasuredDoesNotMove(t *testing.T) {
	m := NewRandomMover(&scriptedRand{floats: []float64{0.9, 0.9}}, 0.8)
	assert.False(t, m.Tick())
	assert.Equal(t, Marker{Top: 10, Left: 10, Size: 200}, m.Marker())
}
