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

// Package board 定義井 (well) 的格子盤面與每欄最上方方塊的追蹤。
//
// 座標：row 0 為最上方，col 0 為最左方。盤面 row-major 平鋪。
package board

import (
	"fmt"
	"strings"

	"github.com/zintix-labs/coloris/sdk/ops"
)

// Color 為格子顏色索引，Empty 表示空格
type Color int8

const (
	Empty Color = -1
	// NoBlock : 該欄沒有任何方塊
	NoBlock = -1
)

// Board 持有格子與每欄最上方方塊的 row。
//
// 不變量：top[c] 永遠等於第 c 欄最上方非空格的 row (整欄為空時為 NoBlock)。
// Board 本身不做併發保護，由持有者 (engine) 序列化存取。
type Board struct {
	rows  int
	cols  int
	cells []Color
	top   []int
}

// New 建立全空盤面；rows、cols 必須為正
func New(rows int, cols int) *Board {
	if rows <= 0 || cols <= 0 {
		panic(fmt.Sprintf("board: invalid dimensions rows=%d cols=%d", rows, cols))
	}
	b := &Board{
		rows:  rows,
		cols:  cols,
		cells: make([]Color, rows*cols),
		top:   make([]int, cols),
	}
	b.Reset()
	return b
}

// FromRows 以二維陣列建立盤面 (測試與存檔還原使用)，最後會重算 top
func FromRows(grid [][]Color) *Board {
	if len(grid) == 0 {
		panic("board: empty grid")
	}
	b := New(len(grid), len(grid[0]))
	for r, line := range grid {
		if len(line) != b.cols {
			panic(fmt.Sprintf("board: ragged grid at row %d", r))
		}
		copy(b.cells[r*b.cols:(r+1)*b.cols], line)
	}
	b.recomputeTop()
	return b
}

func (b *Board) Rows() int { return b.rows }
func (b *Board) Cols() int { return b.cols }

// Cells 回傳底層 row-major 切片，呼叫端不得改變長度
func (b *Board) Cells() []Color { return b.cells }

// Reset 清空盤面
func (b *Board) Reset() {
	for i := range b.cells {
		b.cells[i] = Empty
	}
	for c := range b.top {
		b.top[c] = NoBlock
	}
}

func (b *Board) mustInBounds(row int, col int) {
	if row < 0 || row >= b.rows || col < 0 || col >= b.cols {
		panic(fmt.Sprintf("board: cell (%d,%d) out of bounds %dx%d", row, col, b.rows, b.cols))
	}
}

// Index 回傳 flat index
func (b *Board) Index(row int, col int) int {
	b.mustInBounds(row, col)
	return row*b.cols + col
}

// At 回傳格子顏色，越界 panic
func (b *Board) At(row int, col int) Color {
	return b.cells[b.Index(row, col)]
}

// IsEmpty 越界 panic
func (b *Board) IsEmpty(row int, col int) bool {
	return b.At(row, col) == Empty
}

// Set 寫入格子並維護 top
func (b *Board) Set(row int, col int, color Color) {
	b.cells[b.Index(row, col)] = color
	b.recomputeColumn(col)
}

// TopRow 回傳欄位最上方方塊的 row，或 NoBlock
func (b *Board) TopRow(col int) int {
	b.mustInBounds(0, col)
	return b.top[col]
}

// HasBlock 該欄是否有方塊
func (b *Board) HasBlock(col int) bool {
	return b.TopRow(col) != NoBlock
}

// Height 回傳欄位堆疊高度 (格數)
func (b *Board) Height(col int) int {
	t := b.TopRow(col)
	if t == NoBlock {
		return 0
	}
	return b.rows - t
}

// LandingRow 回傳長度 n 的方塊落在該欄時最上方那格的 row；可能為負 (溢出)
func (b *Board) LandingRow(col int, n int) int {
	t := b.TopRow(col)
	if t == NoBlock {
		return b.rows - n
	}
	return t - n
}

// Absorb 將方塊顏色由上而下寫入 (row, col) 起的連續格子，並更新 top。
// 寫入範圍必須完全在盤面內。
func (b *Board) Absorb(row int, col int, colors []Color) {
	b.mustInBounds(row, col)
	b.mustInBounds(row+len(colors)-1, col)
	for i, color := range colors {
		b.cells[(row+i)*b.cols+col] = color
	}
	b.recomputeColumn(col)
}

// Overflow 最上方那一列是否有任何方塊
func (b *Board) Overflow() bool {
	for c := 0; c < b.cols; c++ {
		if b.cells[c] != Empty {
			return true
		}
	}
	return false
}

// Compact 逐欄重力壓縮並重算 top，回傳被移動的格子數
func (b *Board) Compact() int {
	return ops.Gravity(b.cells, b.cols, b.rows, Empty, b.top)
}

// ClearCells 清除 flat index 指定的格子 (不壓縮)，回傳實際清除數
func (b *Board) ClearCells(hits []int) int {
	n := ops.Clear(b.cells, hits, Empty)
	b.recomputeTop()
	return n
}

// RowHits 回傳指定列非空格的 flat index
func (b *Board) RowHits(dst []int, row int) []int {
	b.mustInBounds(row, 0)
	return ops.RowHits(dst, b.cells, b.cols, row, Empty)
}

// ClearRow 清除整列 (不壓縮)，回傳被清除的非空格數
func (b *Board) ClearRow(row int) int {
	b.mustInBounds(row, 0)
	n := ops.ClearRow(b.cells, b.cols, row, Empty)
	b.recomputeTop()
	return n
}

// Count 盤面上的方塊總數
func (b *Board) Count() int {
	n := 0
	for _, v := range b.cells {
		if v != Empty {
			n++
		}
	}
	return n
}

// IsCompact 是否沒有任何空格位於非空格下方
func (b *Board) IsCompact() bool {
	for c := 0; c < b.cols; c++ {
		seen := false
		for r := 0; r < b.rows; r++ {
			if b.cells[r*b.cols+c] != Empty {
				seen = true
			} else if seen {
				return false
			}
		}
	}
	return true
}

// Clone 深拷貝
func (b *Board) Clone() *Board {
	n := &Board{
		rows:  b.rows,
		cols:  b.cols,
		cells: make([]Color, len(b.cells)),
		top:   make([]int, len(b.top)),
	}
	copy(n.cells, b.cells)
	copy(n.top, b.top)
	return n
}

// CopyFrom 以另一個同尺寸盤面覆寫自身，不配置記憶體
func (b *Board) CopyFrom(src *Board) {
	if src.rows != b.rows || src.cols != b.cols {
		panic("board: copy between different dimensions")
	}
	copy(b.cells, src.cells)
	copy(b.top, src.top)
}

// Grid 輸出二維陣列
func (b *Board) Grid() [][]Color {
	g := make([][]Color, b.rows)
	for r := 0; r < b.rows; r++ {
		g[r] = make([]Color, b.cols)
		copy(g[r], b.cells[r*b.cols:(r+1)*b.cols])
	}
	return g
}

// String 以 '.' 表示空格，顏色以 'A' 起算的字母表示
func (b *Board) String() string {
	var sb strings.Builder
	sb.Grow((b.cols + 1) * b.rows)
	for r := 0; r < b.rows; r++ {
		for c := 0; c < b.cols; c++ {
			v := b.cells[r*b.cols+c]
			if v == Empty {
				sb.WriteByte('.')
			} else {
				sb.WriteByte(byte('A' + int(v)%26))
			}
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

func (b *Board) recomputeColumn(col int) {
	b.top[col] = NoBlock
	for r := 0; r < b.rows; r++ {
		if b.cells[r*b.cols+col] != Empty {
			b.top[col] = r
			return
		}
	}
}

func (b *Board) recomputeTop() {
	for c := 0; c < b.cols; c++ {
		b.recomputeColumn(c)
	}
}
