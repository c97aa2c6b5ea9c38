// Package lighting tracks light emitted by particles and overrides the
// host's own light lookups with it.
package lighting

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// MaxLevel is the brightest representable block light.
const MaxLevel int32 = 15

// Cell is a discrete block coordinate.
type Cell struct {
	X, Y, Z int32
}

// CellOf floors a world position to its cell.
func CellOf(pos r3.Vec) Cell {
	return Cell{
		X: int32(math.Floor(pos.X)),
		Y: int32(math.Floor(pos.Y)),
		Z: int32(math.Floor(pos.Z)),
	}
}

// Index maps cells to particle-emitted light levels.
// Each owner holds at most one cell; writing at a new cell moves it. Several
// owners may light the same cell, which then reports the brightest of them.
//
// With falloff enabled, light also spreads to neighbouring cells, decaying
// by one per unit of Manhattan distance. Spread values are only valid after
// Rebuild (run by the runtime at end of tick): Set leaves the previous spread
// in place, and any release drops all spread until the next rebuild.
type Index[O comparable] struct {
	maxLevel int32
	falloff  bool

	owners map[Cell]map[O]int32
	lit    map[Cell]int32 // brightest owner level per cell
	owned  map[O]Cell
	spread map[Cell]int32
	dirty  bool
}

// NewIndex creates an empty index. maxLevel <= 0 selects MaxLevel.
func NewIndex[O comparable](maxLevel int32, falloff bool) *Index[O] {
	if maxLevel <= 0 || maxLevel > MaxLevel {
		maxLevel = MaxLevel
	}
	return &Index[O]{
		maxLevel: maxLevel,
		falloff:  falloff,
		owners:   make(map[Cell]map[O]int32),
		lit:      make(map[Cell]int32),
		owned:    make(map[O]Cell),
		spread:   make(map[Cell]int32),
	}
}

// Clamp limits level to the index's maximum. Negative levels pass through.
func (ix *Index[O]) Clamp(level int32) int32 {
	return min(level, ix.maxLevel)
}

// Set records owner emitting level at cell. A negative level clears the owner.
func (ix *Index[O]) Set(owner O, cell Cell, level int32) {
	if level < 0 {
		ix.Clear(owner)
		return
	}
	level = ix.Clamp(level)

	if prev, ok := ix.owned[owner]; ok {
		if prev == cell {
			if ix.owners[cell][owner] == level {
				return
			}
		} else {
			ix.release(owner, prev)
		}
	}

	set := ix.owners[cell]
	if set == nil {
		set = make(map[O]int32)
		ix.owners[cell] = set
	}
	set[owner] = level
	ix.owned[owner] = cell
	ix.refresh(cell)
	ix.dirty = true
}

// Clear removes owner's light. Returns false if owner had none.
func (ix *Index[O]) Clear(owner O) bool {
	cell, ok := ix.owned[owner]
	if !ok {
		return false
	}
	delete(ix.owned, owner)
	ix.release(owner, cell)
	return true
}

// release drops owner's contribution to cell and invalidates spread.
func (ix *Index[O]) release(owner O, cell Cell) {
	if set, ok := ix.owners[cell]; ok {
		delete(set, owner)
		if len(set) == 0 {
			delete(ix.owners, cell)
		}
		ix.refresh(cell)
	}
	clear(ix.spread)
	ix.dirty = true
}

// refresh recomputes the brightest level at cell.
func (ix *Index[O]) refresh(cell Cell) {
	set, ok := ix.owners[cell]
	if !ok {
		delete(ix.lit, cell)
		return
	}
	best := int32(-1)
	for _, l := range set {
		best = max(best, l)
	}
	ix.lit[cell] = best
}

// Level returns the light at cell, or false when nothing emits there.
func (ix *Index[O]) Level(cell Cell) (int32, bool) {
	level := int32(-1)
	if l, ok := ix.lit[cell]; ok {
		level = l
	}
	if s, ok := ix.spread[cell]; ok && s > level {
		level = s
	}
	return level, level >= 0
}

// CellOf returns the cell owner currently lights.
func (ix *Index[O]) CellOf(owner O) (Cell, bool) {
	c, ok := ix.owned[owner]
	return c, ok
}

// Len returns the number of lit cells (excluding spread).
func (ix *Index[O]) Len() int {
	return len(ix.lit)
}

// Dirty reports whether emitters changed since the last Rebuild.
func (ix *Index[O]) Dirty() bool {
	return ix.dirty
}

// Rebuild recomputes falloff spread if any emitter changed.
func (ix *Index[O]) Rebuild() {
	if !ix.dirty {
		return
	}
	ix.dirty = false
	clear(ix.spread)
	if !ix.falloff {
		return
	}
	for cell, level := range ix.lit {
		ix.propagate(cell, level)
	}
}

func (ix *Index[O]) propagate(origin Cell, level int32) {
	for dx := -level; dx <= level; dx++ {
		ax := abs32(dx)
		ry := level - ax
		for dy := -ry; dy <= ry; dy++ {
			ay := abs32(dy)
			rz := level - ax - ay
			for dz := -rz; dz <= rz; dz++ {
				dist := ax + ay + abs32(dz)
				if dist == 0 {
					continue
				}
				c := Cell{X: origin.X + dx, Y: origin.Y + dy, Z: origin.Z + dz}
				if l := level - dist; l > ix.spread[c] {
					ix.spread[c] = l
				}
			}
		}
	}
}

// Reset drops every entry.
func (ix *Index[O]) Reset() {
	clear(ix.owners)
	clear(ix.lit)
	clear(ix.owned)
	clear(ix.spread)
	ix.dirty = false
}

func abs32(v int32) int32 {
	if v < 0 {
		return -v
	}
	return v
}
