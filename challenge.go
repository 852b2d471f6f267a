// File: challenge.go
package main

import (
	"fmt"
	"math"
	"math/rand"
	"time"
)

// maxGridSize bounds N so n*n stays small; config enforces the same limit.
const maxGridSize = 16

// Rand is the random source used by the generator and the mover.
// *math/rand.Rand satisfies it.
type Rand interface {
	Intn(n int) int
	Float64() float64
}

func newRand() Rand {
	src := rand.NewSource(time.Now().UnixNano())
	return rand.New(src)
}

// GenerateChallenge partitions an n×n grid, marks floor(n*n*fraction) random
// sectors with a watermark and picks the target among the placed watermarks.
func GenerateChallenge(rnd Rand, n int, shapes []Shape, colors []Color, fraction float64) (*GridChallenge, error) {
	if n < 1 || n > maxGridSize {
		return nil, fmt.Errorf("%w: grid size %d outside 1..%d", ErrConfiguration, n, maxGridSize)
	}
	if fraction < 0 || fraction > 1 || math.IsNaN(fraction) {
		return nil, fmt.Errorf("%w: watermark fraction %v out of [0,1]", ErrConfiguration, fraction)
	}
	if len(shapes) == 0 || len(colors) == 0 {
		return nil, fmt.Errorf("%w: empty watermark palette", ErrConfiguration)
	}

	total := n * n
	count := WatermarkCount(n, fraction)
	if count == 0 {
		return nil, fmt.Errorf("%w: %dx%d grid with fraction %v yields no watermark", ErrConfiguration, n, n, fraction)
	}

	// Fisher–Yates
	ids := make([]int, total)
	for i := range ids {
		ids[i] = i
	}
	for i := total - 1; i > 0; i-- {
		j := rnd.Intn(i + 1)
		ids[i], ids[j] = ids[j], ids[i]
	}
	marked := make(map[int]bool, count)
	for _, id := range ids[:count] {
		marked[id] = true
	}

	sectors := make([]Sector, total)
	used := make([]Watermark, 0, count)
	for id := 0; id < total; id++ {
		sectors[id] = Sector{ID: id}
		if !marked[id] {
			continue
		}
		wm := Watermark{
			Shape: shapes[rnd.Intn(len(shapes))],
			Color: colors[rnd.Intn(len(colors))],
		}
		sectors[id].Watermark = &wm
		used = append(used, wm)
	}

	// 从实际出现过的水印中抽取目标，重复出现的组合概率更高
	target := used[rnd.Intn(len(used))]

	return &GridChallenge{Size: n, Sectors: sectors, Target: target}, nil
}

// WatermarkCount returns floor(n*n*fraction).
func WatermarkCount(n int, fraction float64) int {
	if n < 1 || fraction <= 0 {
		return 0
	}
	return int(math.Floor(float64(n*n) * fraction))
}

// CorrectSectors returns the ids whose watermark equals the target, ascending.
func (c *GridChallenge) CorrectSectors() []int {
	var ids []int
	for _, s := range c.Sectors {
		if s.Watermark != nil && *s.Watermark == c.Target {
			ids = append(ids, s.ID)
		}
	}
	return ids
}

// Watermarked returns the number of sectors carrying a watermark.
func (c *GridChallenge) Watermarked() int {
	cnt := 0
	for _, s := range c.Sectors {
		if s.Watermark != nil {
			cnt++
		}
	}
	return cnt
}
