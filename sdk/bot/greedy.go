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

package bot

import (
	"github.com/zintix-labs/coloris/sdk/board"
	"github.com/zintix-labs/coloris/sdk/calc"
	"github.com/zintix-labs/coloris/sdk/core"
	"github.com/zintix-labs/coloris/sdk/engine"
)

const (
	NameGreedy = "greedy"
	NameRandom = "random"
)

// 評分權重
const (
	matchWeight  = 100 // 每個會被消除的格子
	heightWeight = 4   // 落點後該欄高度
	centerWeight = 1   // 離中央的距離 (中央欄是出生欄，堆高最危險)
)

// Greedy 嘗試每一欄 × 每一種顏色循環，在盤面副本上落子並計算立即消除數。
// 只看一步；同分取先找到的 (欄位由左至右、循環次數由少至多)。
type Greedy struct {
	scratch *board.Board
	scanner *calc.Scanner
	colors  []board.Color
}

func NewGreedy() *Greedy {
	return &Greedy{}
}

func (g *Greedy) Name() string { return NameGreedy }

func (g *Greedy) ensure(b *board.Board, n int, minRun int) {
	if g.scratch == nil || g.scratch.Rows() != b.Rows() || g.scratch.Cols() != b.Cols() {
		g.scratch = b.Clone()
		g.scanner = calc.NewScanner(b.Rows(), b.Cols(), minRun)
	}
	if cap(g.colors) < n {
		g.colors = make([]board.Color, n)
	}
	g.colors = g.colors[:n]
}

func (g *Greedy) Plan(e *engine.Engine) Plan {
	b := e.Board()
	fall := e.Falling()
	src := fall.Colors()
	n := len(src)
	g.ensure(b, n, e.Config().MinRun)

	center := b.Cols() / 2
	best := Plan{Column: fall.Column()}
	bestScore := -1 << 31

	for rot := 0; rot < max(1, n); rot++ {
		// 循環 rot 次後的顏色：最下方移到最上方
		for i := 0; i < n; i++ {
			g.colors[(i+rot)%n] = src[i]
		}
		for col := 0; col < b.Cols(); col++ {
			row := b.LandingRow(col, n)
			if row < 0 {
				continue
			}
			g.scratch.CopyFrom(b)
			g.scratch.Absorb(row, col, g.colors)
			hits := calc.CountMatches(g.scanner, g.scratch.Cells(), board.Empty)

			dist := col - center
			if dist < 0 {
				dist = -dist
			}
			score := hits*matchWeight - g.scratch.Height(col)*heightWeight + dist*centerWeight
			if score > bestScore {
				bestScore = score
				best = Plan{Column: col, Rotations: rot}
			}
		}
	}
	return best
}

// Random 隨機欄位與循環次數
type Random struct {
	core *core.Core
}

func NewRandom(c *core.Core) *Random {
	return &Random{core: c}
}

func (r *Random) Name() string { return NameRandom }

func (r *Random) Plan(e *engine.Engine) Plan {
	return Plan{
		Column:    r.core.IntN(e.Board().Cols()),
		Rotations: r.core.IntN(max(1, e.Falling().Len())),
	}
}
