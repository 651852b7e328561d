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

package engine

import (
	"log/slog"
	"slices"

	"github.com/zintix-labs/coloris/sdk/board"
)

// checkCollision 方塊下落後呼叫。
//
//  1. 該欄有方塊：下緣 + 碰撞距離 >= 最上方方塊上緣，落在其上方。
//  2. 該欄為空：下緣 + 碰撞距離 >= 井底，落在井底。
//
// 落點最上方那格 row 為負時方塊無法進入，遊戲結束。
func (e *Engine) checkCollision() bool {
	p := e.cfg.Piece
	col := e.falling.Column()
	n := e.falling.Len()
	reach := e.falling.Bottom() + p.CriticalDistance

	var landing int
	if top := e.board.TopRow(col); top != board.NoBlock {
		if reach < float64(top)*p.CellSize {
			return false
		}
		landing = top - n
	} else {
		if reach < float64(e.cfg.Rows)*p.CellSize {
			return false
		}
		landing = e.cfg.Rows - n
	}

	if landing < 0 {
		e.gameOver("piece cannot enter the well")
		return false
	}

	colors := slices.Clone(e.falling.Colors())
	e.board.Absorb(landing, col, colors)
	e.stats.Pieces++
	e.log.Debug("piece merged", slog.Int("row", landing), slog.Int("col", col))
	e.falling.Reset(e.cfg.Cols, e.next, e.core, e.picker)
	e.emitMerge(MergeEvent{Row: landing, Col: col, Colors: colors})

	e.resolve()
	return true
}
