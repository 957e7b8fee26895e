package boids

import (
	"math"
	"sort"
)

// Neighbors returns every other boid, from both channels, within Visibility
// of b. Results are ordered left channel first, then right, by band.
// Outside Advance the query always scans the current positions.
func (s *Swarm) Neighbors(b *Boid) []*Boid {
	if s.indexed {
		return s.grid.query(b, s.params.Visibility)
	}
	visible := make([]*Boid, 0, 8)
	for _, other := range s.all {
		if other != b && b.position.DistanceTo(other.position) <= s.params.Visibility {
			visible = append(visible, other)
		}
	}
	return visible
}

type cell struct{ x, y int }

// grid buckets boids into square cells of side Visibility so a query only
// inspects the 3x3 block around the boid. Candidates are still filtered by
// exact distance and sorted by population index, so the result matches the
// brute-force scan.
type grid struct {
	size  float64
	cells map[cell][]*Boid
}

func newGrid(size float64) *grid {
	return &grid{size: size, cells: make(map[cell][]*Boid)}
}

func (g *grid) key(b *Boid) cell {
	pt := b.position.Point()
	return cell{int(math.Floor(pt.X / g.size)), int(math.Floor(pt.Y / g.size))}
}

func (g *grid) rebuild(boids []*Boid) {
	for k, v := range g.cells {
		g.cells[k] = v[:0]
	}
	for _, b := range boids {
		k := g.key(b)
		g.cells[k] = append(g.cells[k], b)
	}
}

func (g *grid) query(b *Boid, visibility float64) []*Boid {
	c := g.key(b)
	visible := make([]*Boid, 0, 8)
	for dy := -1; dy <= 1; dy++ {
		for dx := -1; dx <= 1; dx++ {
			for _, other := range g.cells[cell{c.x + dx, c.y + dy}] {
				if other != b && b.position.DistanceTo(other.position) <= visibility {
					visible = append(visible, other)
				}
			}
		}
	}
	sort.Slice(visible, func(i, j int) bool { return visible[i].index < visible[j].index })
	return visible
}
