package once

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTwoEndedGroveBothSides(t *testing.T) {
	g := NewTwoEndedGrove[string]()
	g.Insert(0, "zero")
	g.Insert(-5, "minus-five")
	g.Insert(12, "twelve")

	v, ok := g.Get(0)
	require.True(t, ok)
	require.Equal(t, "zero", v)

	v, ok = g.Get(-5)
	require.True(t, ok)
	require.Equal(t, "minus-five", v)

	v, ok = g.Get(12)
	require.True(t, ok)
	require.Equal(t, "twelve", v)

	_, ok = g.Get(-1)
	require.False(t, ok)

	min, max, ok := g.Bounds()
	require.True(t, ok)
	require.Equal(t, -5, min)
	require.Equal(t, 12, max)
}

func TestTwoEndedGroveBoundsEmpty(t *testing.T) {
	g := NewTwoEndedGrove[int]()
	_, _, ok := g.Bounds()
	require.False(t, ok)
}

func TestTwoEndedGroveTryInsertDuplicate(t *testing.T) {
	g := NewTwoEndedGrove[int]()
	g.Insert(-3, 1)
	err := g.TryInsert(-3, 2)
	require.Error(t, err)
}
