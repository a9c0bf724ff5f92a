package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPoolInsertUsesFirstFreeSlot(t *testing.T) {
	p := NewPool(4, 8)

	assert.Equal(t, 0, p.Insert(newElement(0, 0, ColorYellow, KindCell)))
	assert.Equal(t, 1, p.Insert(newElement(1, 0, ColorYellow, KindCell)))
	assert.Equal(t, 2, p.Insert(newElement(2, 0, ColorYellow, KindCell)))

	p.Remove(1)
	assert.Equal(t, 1, p.Insert(newElement(5, 5, ColorBlue, KindCell)))
	assert.Equal(t, 3, p.Len())
	assert.Equal(t, 1, p.Free())
}

func TestPoolIndex(t *testing.T) {
	p := NewPool(4, 8)
	slot := p.Insert(newElement(3, 7, ColorGreen, KindSmiley))

	got, ok := p.At(3, 7)
	require.True(t, ok)
	assert.Equal(t, slot, got)

	_, ok = p.At(7, 3)
	assert.False(t, ok)

	p.Remove(slot)
	_, ok = p.At(3, 7)
	assert.False(t, ok)
	assert.Nil(t, p.Get(slot))
}

func TestPoolShiftKeepsIndexConsistent(t *testing.T) {
	p := NewPool(8, 8)
	a := p.Insert(newElement(2, 3, ColorYellow, KindCell))
	b := p.Insert(newElement(2, 4, ColorBlue, KindCell))

	// b moves into a's old square in the same shift.
	p.Shift([]int{a, b}, 0, 1)

	got, ok := p.At(2, 4)
	require.True(t, ok)
	assert.Equal(t, a, got)
	got, ok = p.At(2, 5)
	require.True(t, ok)
	assert.Equal(t, b, got)
	_, ok = p.At(2, 3)
	assert.False(t, ok)
}

func TestPoolExhaustedPanics(t *testing.T) {
	p := NewPool(1, 8)
	p.Insert(newElement(0, 0, ColorYellow, KindCell))

	assert.PanicsWithValue(t, "smiletris: element pool exhausted", func() {
		p.Insert(newElement(1, 0, ColorYellow, KindCell))
	})
}

func TestPoolZeroCapacity(t *testing.T) {
	p := NewPool(0, 8)
	assert.Equal(t, 0, p.Len())
	assert.Equal(t, 0, p.Free())
	assert.Empty(t, p.Elements())
}

func TestPoolReset(t *testing.T) {
	p := NewPool(3, 8)
	p.Insert(newElement(0, 0, ColorYellow, KindCell))
	p.Insert(newElement(1, 0, ColorYellow, KindCell))

	p.Reset()
	assert.Equal(t, 0, p.Len())
	_, ok := p.At(0, 0)
	assert.False(t, ok)
	assert.Equal(t, 0, p.Insert(newElement(2, 2, ColorBlue, KindCell)))
}
