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

	"github.com/zintix-labs/coloris/errs"
	"github.com/zintix-labs/coloris/sdk/board"
	"github.com/zintix-labs/coloris/sdk/calc"
)

// Resolve 由外部觸發一次消除解析 (例如載入盤面後)。
// 特效進行中回傳 ErrEffectPending；遊戲結束回傳 ErrGameOver。
func (e *Engine) Resolve() error {
	switch e.phase {
	case PhaseAwaitingEffect:
		return errs.ErrEffectPending
	case PhaseGameOver:
		return errs.ErrGameOver
	}
	e.resolve()
	return nil
}

// CompleteEffect 宿主通知特效播放完畢。
// 沒有進行中的特效回傳 ErrNoEffect；編號不符回傳 ErrEffectMismatch，狀態不變。
func (e *Engine) CompleteEffect(id uint64) error {
	if e.phase != PhaseAwaitingEffect {
		return errs.ErrNoEffect
	}
	if id != e.pending.ID {
		return errs.ErrEffectMismatch
	}
	e.completePending()
	return nil
}

// resolve 掃描連線：有消除就發出特效，否則進入連鎖結束判定
func (e *Engine) resolve() {
	hits := calc.Matches(e.scanner, e.board.Cells(), board.Empty)
	if len(hits) == 0 {
		e.settle()
		return
	}

	cells := slices.Clone(hits)
	for range cells {
		e.destroyed++
		e.score++
		e.registerCombo()
	}
	e.chain++
	e.stats.MatchPasses++
	if e.chain == 1 {
		e.stats.Cascades++
	}
	e.stats.MaxChain = max(e.stats.MaxChain, e.chain)
	e.beginEffect(EffectMatch, cells, -1)
}

func (e *Engine) registerCombo() {
	if e.combo.Register() {
		e.stats.SpecialPowers++
		e.log.Info("special power triggered", slog.Int("score", e.score))
	}
}

// settle 沒有連線時的判定順序：
//
//  1. 佇列中的特殊能力：爆破底列
//  2. 最上方列有方塊：遊戲結束
//  3. 本段連鎖消除數達門檻：強制清除底列
//  4. 連鎖結束：消除數與 combo 歸零
func (e *Engine) settle() {
	if e.combo.take() {
		e.beginRowClear(EffectSpecialRow)
		return
	}
	if e.board.Overflow() {
		e.gameOver("column overflow")
		return
	}
	if e.destroyed >= e.cfg.MercyThreshold {
		e.stats.MercyClears++
		e.beginRowClear(EffectMercyRow)
		return
	}
	ev := SettleEvent{Chain: e.chain, Destroyed: e.destroyed}
	e.destroyed = 0
	e.chain = 0
	e.combo.Reset()
	e.phase = PhaseFalling
	if ev.Chain > 0 {
		e.log.Debug("cascade settled", slog.Int("chain", ev.Chain), slog.Int("score", e.score))
	}
	e.emitSettle(ev)
}

// beginRowClear 清除底列：每個非空格計分，combo 只登記一次
func (e *Engine) beginRowClear(kind EffectKind) {
	row := e.cfg.Rows - 1
	cells := e.board.RowHits(nil, row)
	e.destroyed += len(cells)
	e.score += len(cells)
	e.registerCombo()
	e.log.Info("row clear", slog.String("kind", kind.String()), slog.Int("cells", len(cells)))
	e.beginEffect(kind, cells, row)
}

func (e *Engine) beginEffect(kind EffectKind, cells []int, row int) {
	e.effectSeq++
	id := e.effectSeq
	e.pending = Effect{ID: id, Kind: kind, Cells: cells, Row: row}
	e.phase = PhaseAwaitingEffect
	e.emitScore()
	e.emitEffect(e.pending)
	// OnEffect 回呼可能已同步完成特效
	if e.autoComplete && e.phase == PhaseAwaitingEffect && e.pending.ID == id {
		e.completePending()
	}
}

// completePending 特效完成：清除、壓縮、重新掃描
func (e *Engine) completePending() {
	eff := e.pending
	e.pending = Effect{}
	e.phase = PhaseFalling

	switch eff.Kind {
	case EffectMatch:
		e.board.ClearCells(eff.Cells)
		e.board.Compact()
	case EffectMercyRow, EffectSpecialRow:
		e.board.ClearRow(eff.Row)
		e.board.Compact()
		e.destroyed = 0
		e.combo.Reset()
		if eff.Kind == EffectSpecialRow {
			e.combo.finish()
		}
	}
	e.resolve()
}

func (e *Engine) gameOver(reason string) {
	e.phase = PhaseGameOver
	e.log.Info("game over", slog.String("reason", reason), slog.Int("score", e.score))
	e.emitGameOver(reason)
}
