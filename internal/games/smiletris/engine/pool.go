package engine

import "github.com/kamstrup/intmap"

// Pool is a fixed-capacity arena of elements. Insert uses the first free
// slot and slots are stable for the element's lifetime, so a slot number
// can serve as the fused-partner reference. A coordinate index gives
// O(1) lookup from grid position to slot.
type Pool struct {
	slots []Element
	live  []bool
	count int
	width int
	index *intmap.Map[int, int]
}

// NewPool creates an empty pool for a grid of the given width.
func NewPool(capacity, width int) *Pool {
	return &Pool{
		slots: make([]Element, capacity),
		live:  make([]bool, capacity),
		width: width,
		index: intmap.New[int, int](max(capacity, 1)),
	}
}

func (p *Pool) key(x, y int) int {
	return y*p.width + x
}

// Cap returns the number of slots.
func (p *Pool) Cap() int { return len(p.slots) }

// Len returns the number of live elements.
func (p *Pool) Len() int { return p.count }

// Free returns the number of empty slots.
func (p *Pool) Free() int { return len(p.slots) - p.count }

// Insert stores e in the first free slot and returns the slot.
// A full pool is an invariant violation.
func (p *Pool) Insert(e Element) int {
	for i, used := range p.live {
		if used {
			continue
		}
		p.slots[i] = e
		p.live[i] = true
		p.count++
		p.index.Put(p.key(e.X, e.Y), i)
		return i
	}
	panic("smiletris: element pool exhausted")
}

// Get returns the element in slot i, or nil when the slot is empty.
func (p *Pool) Get(i int) *Element {
	if i < 0 || i >= len(p.slots) || !p.live[i] {
		return nil
	}
	return &p.slots[i]
}

// At returns the slot holding the element at (x, y).
func (p *Pool) At(x, y int) (int, bool) {
	return p.index.Get(p.key(x, y))
}

// Remove empties slot i.
func (p *Pool) Remove(i int) {
	if p.Get(i) == nil {
		return
	}
	e := &p.slots[i]
	if slot, ok := p.index.Get(p.key(e.X, e.Y)); ok && slot == i {
		p.index.Del(p.key(e.X, e.Y))
	}
	p.slots[i] = Element{}
	p.live[i] = false
	p.count--
}

// Shift moves the elements in slots by (dx, dy). The index is updated in
// two passes so elements moving into each other's old positions keep
// their entries.
func (p *Pool) Shift(slots []int, dx, dy int) {
	for _, i := range slots {
		e := &p.slots[i]
		if slot, ok := p.index.Get(p.key(e.X, e.Y)); ok && slot == i {
			p.index.Del(p.key(e.X, e.Y))
		}
	}
	for _, i := range slots {
		e := &p.slots[i]
		e.X += dx
		e.Y += dy
		p.index.Put(p.key(e.X, e.Y), i)
	}
}

// Each calls fn for every live element in slot order.
func (p *Pool) Each(fn func(slot int, e *Element)) {
	for i := range p.slots {
		if p.live[i] {
			fn(i, &p.slots[i])
		}
	}
}

// Slots returns the live slot numbers in order.
func (p *Pool) Slots() []int {
	out := make([]int, 0, p.count)
	for i, used := range p.live {
		if used {
			out = append(out, i)
		}
	}
	return out
}

// Elements returns a copy of the live elements in slot order.
func (p *Pool) Elements() []Element {
	out := make([]Element, 0, p.count)
	p.Each(func(_ int, e *Element) {
		out = append(out, *e)
	})
	return out
}

// Reset empties the pool.
func (p *Pool) Reset() {
	for i := range p.slots {
		p.slots[i] = Element{}
		p.live[i] = false
	}
	p.count = 0
	p.index.Clear()
}
