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

// Package piece 實作落下中的直立方塊：水平移動、加速、下落與顏色循環。
//
// 垂直位置以「單位」表示 (與格子邊長 CellSize 同一量綱)，Y 為方塊上緣，負值代表仍在井口上方。
package piece

import (
	"github.com/zintix-labs/coloris/sdk/board"
	"github.com/zintix-labs/coloris/sdk/core"
	"github.com/zintix-labs/coloris/sdk/sampler"
)

// Direction 水平移動方向
type Direction int

const (
	Left  Direction = -1
	Right Direction = 1
)

// Params 方塊的物理參數
type Params struct {
	Length           int     // 方塊格數
	CellSize         float64 // 格子邊長 (單位)
	BaseSpeed        float64 // 初始速度 (單位/秒)
	SpeedUpFactor    float64 // 加速倍率
	CriticalDistance float64 // 碰撞判定距離 (單位)
	RefreshRate      float64 // 參考刷新率 (Hz)，Step 以 1/RefreshRate 秒前進
}

// MaxSpeed 加速上限
func (p Params) MaxSpeed() float64 {
	return p.BaseSpeed * p.SpeedUpFactor
}

// Height 方塊高度 (單位)
func (p Params) Height() float64 {
	return float64(p.Length) * p.CellSize
}

// Piece 一個直立方塊；colors[0] 為最上方那格
type Piece struct {
	params Params
	colors []board.Color
	col    int
	y      float64
	speed  float64
}

// New 建立方塊，顏色初始為 Empty，需再呼叫 Randomize 或 Reset
func New(p Params) *Piece {
	pc := &Piece{
		params: p,
		colors: make([]board.Color, p.Length),
		speed:  p.BaseSpeed,
	}
	for i := range pc.colors {
		pc.colors[i] = board.Empty
	}
	return pc
}

func (p *Piece) Params() Params        { return p.params }
func (p *Piece) Colors() []board.Color { return p.colors }
func (p *Piece) Len() int              { return len(p.colors) }
func (p *Piece) Column() int           { return p.col }
func (p *Piece) Y() float64            { return p.y }
func (p *Piece) Speed() float64        { return p.speed }

// Bottom 方塊下緣
func (p *Piece) Bottom() float64 {
	return p.y + p.params.Height()
}

// Randomize 由 picker 為每格抽顏色
func (p *Piece) Randomize(c *core.Core, picker sampler.Picker) {
	for i := range p.colors {
		p.colors[i] = board.Color(picker.Pick(c))
	}
}

// SetColors 直接指定顏色 (長度必須一致)
func (p *Piece) SetColors(colors []board.Color) {
	if len(colors) != len(p.colors) {
		panic("piece: color length mismatch")
	}
	copy(p.colors, colors)
}

// Place 直接指定欄位與位置 (存檔還原與測試使用)
func (p *Piece) Place(col int, y float64, speed float64) {
	p.col, p.y, p.speed = col, y, speed
}

// Reset 回到井口中央：速度歸位、欄位 = cols/2、上緣在井口上方一個方塊高。
// 顏色由 next 接手，next 重新抽色。
func (p *Piece) Reset(cols int, next *Piece, c *core.Core, picker sampler.Picker) {
	p.speed = p.params.BaseSpeed
	p.col = cols / 2
	p.y = -p.params.Height()
	copy(p.colors, next.colors)
	next.Randomize(c, picker)
}

// MoveHorizontally 往 dir 移動一欄。
// 目標欄越界，或方塊下緣已在目標欄最上方方塊的碰撞距離內時不動作，回傳 false。
func (p *Piece) MoveHorizontally(dir Direction, b *board.Board) bool {
	target := p.col + int(dir)
	if target < 0 || target >= b.Cols() {
		return false
	}
	if top := b.TopRow(target); top != board.NoBlock {
		if p.Bottom()+p.params.CriticalDistance >= float64(top)*p.params.CellSize {
			return false
		}
	}
	p.col = target
	return true
}

// SpeedUp 速度乘上倍率，達上限後不再變化
func (p *Piece) SpeedUp() {
	limit := p.params.MaxSpeed()
	if p.speed < limit {
		p.speed = min(p.speed*p.params.SpeedUpFactor, limit)
	}
}

// Advance 依經過秒數下落
func (p *Piece) Advance(dt float64) {
	p.y += p.speed * dt
}

// Step 以參考刷新率前進一個 tick
func (p *Piece) Step() {
	p.Advance(1 / p.params.RefreshRate)
}

// Reorder 顏色循環位移：最下方那格移到最上方
func (p *Piece) Reorder() {
	n := len(p.colors)
	if n < 2 {
		return
	}
	last := p.colors[n-1]
	copy(p.colors[1:], p.colors[:n-1])
	p.colors[0] = last
}
