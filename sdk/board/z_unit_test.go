// Copyright 2025 Zintix Labs
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package board

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const E = Empty

func TestNewBoardIsEmpty(t *testing.T) {
	b := New(4, 3)
	assert.Equal(t, 4, b.Rows())
	assert.Equal(t, 3, b.Cols())
	assert.Equal(t, 0, b.Count())
	for c := 0; c < 3; c++ {
		assert.Equal(t, NoBlock, b.TopRow(c))
		assert.Equal(t, 4, b.LandingRow(c, 0))
	}
	assert.False(t, b.Overflow())
}

func TestAbsorbTracksTopRow(t *testing.T) {
	b := New(10, 6)
	b.Absorb(b.LandingRow(3, 2), 3, []Color{1, 2})
	assert.Equal(t, Color(1), b.At(8, 3))
	assert.Equal(t, Color(2), b.At(9, 3))
	assert.Equal(t, 8, b.TopRow(3))
	assert.Equal(t, 2, b.Height(3))
	assert.Equal(t, 5, b.LandingRow(3, 3))
}

func TestOutOfBoundsPanics(t *testing.T) {
	b := New(2, 2)
	assert.Panics(t, func() { b.At(2, 0) })
	assert.Panics(t, func() { b.Set(0, -1, 1) })
	assert.Panics(t, func() { b.Absorb(1, 0, []Color{1, 2}) })
	assert.Panics(t, func() { New(0, 3) })
}

func TestCompactKeepsOrderAndTop(t *testing.T) {
	b := FromRows([][]Color{
		{1, E, E},
		{E, 2, E},
		{3, E, E},
		{E, E, 4},
	})
	assert.False(t, b.IsCompact())
	b.Compact()
	require.True(t, b.IsCompact())
	assert.Equal(t, [][]Color{
		{E, E, E},
		{E, E, E},
		{1, E, E},
		{3, 2, 4},
	}, b.Grid())
	assert.Equal(t, 2, b.TopRow(0))
	assert.Equal(t, 3, b.TopRow(1))
	assert.Equal(t, 3, b.TopRow(2))
}

func TestClearCellsAndRow(t *testing.T) {
	b := FromRows([][]Color{
		{E, E, E},
		{1, 1, E},
		{2, 3, 4},
	})
	n := b.ClearCells([]int{b.Index(1, 0), b.Index(1, 1)})
	assert.Equal(t, 2, n)
	assert.Equal(t, 2, b.TopRow(0))

	hits := b.RowHits(nil, 2)
	assert.Equal(t, []int{6, 7, 8}, hits)
	assert.Equal(t, 3, b.ClearRow(2))
	assert.Equal(t, 0, b.Count())
	assert.Equal(t, NoBlock, b.TopRow(1))
}

func TestOverflowAndClone(t *testing.T) {
	b := New(3, 2)
	b.Absorb(0, 1, []Color{5, 5, 5})
	assert.True(t, b.Overflow())
	assert.Equal(t, -3, b.LandingRow(1, 3))

	c := b.Clone()
	c.ClearRow(0)
	assert.True(t, b.Overflow(), "clone must not share cells")
	assert.False(t, c.Overflow())

	c.CopyFrom(b)
	assert.Equal(t, b.String(), c.String())
	assert.Equal(t, ".F\n.F\n.F\n", b.String())
}
