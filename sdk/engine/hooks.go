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

import "github.com/zintix-labs/coloris/sdk/board"

// MergeEvent 方塊併入盤面
type MergeEvent struct {
	Row    int           `json:"row"` // 最上方那格的 row
	Col    int           `json:"col"`
	Colors []board.Color `json:"colors"`
}

// SettleEvent 一次連鎖結束 (沒有更多消除且未觸發整列清除)
type SettleEvent struct {
	Chain     int `json:"chain"`     // 本次連鎖的連線消除輪數
	Destroyed int `json:"destroyed"` // 本次連鎖最後一段累計消除格數
}

// Hooks 引擎事件回呼；未設定的欄位忽略。
// 回呼在引擎內同步執行，不可在回呼中再呼叫會改變狀態的方法 (OnEffect 除外，可立即 CompleteEffect)。
type Hooks struct {
	OnMerge    func(MergeEvent)
	OnEffect   func(Effect)
	OnScore    func(score int)
	OnSettle   func(SettleEvent)
	OnGameOver func(reason string)
}

func (e *Engine) emitMerge(ev MergeEvent) {
	for _, h := range e.hooks {
		if h.OnMerge != nil {
			h.OnMerge(ev)
		}
	}
}

func (e *Engine) emitEffect(ev Effect) {
	for _, h := range e.hooks {
		if h.OnEffect != nil {
			h.OnEffect(ev)
		}
	}
}

func (e *Engine) emitScore() {
	for _, h := range e.hooks {
		if h.OnScore != nil {
			h.OnScore(e.score)
		}
	}
}

func (e *Engine) emitSettle(ev SettleEvent) {
	for _, h := range e.hooks {
		if h.OnSettle != nil {
			h.OnSettle(ev)
		}
	}
}

func (e *Engine) emitGameOver(reason string) {
	for _, h := range e.hooks {
		if h.OnGameOver != nil {
			h.OnGameOver(reason)
		}
	}
}
