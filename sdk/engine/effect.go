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

// EffectKind 消除特效種類
type EffectKind uint8

const (
	EffectNone EffectKind = iota
	// EffectMatch 連線消除
	EffectMatch
	// EffectMercyRow 單次連鎖消除數達門檻後，強制清除底列
	EffectMercyRow
	// EffectSpecialRow 特殊能力清除底列
	EffectSpecialRow
)

var effectKindName = map[EffectKind]string{
	EffectNone:       "none",
	EffectMatch:      "match",
	EffectMercyRow:   "mercy_row",
	EffectSpecialRow: "special_row",
}

func (k EffectKind) String() string {
	if s, ok := effectKindName[k]; ok {
		return s
	}
	return "unknown"
}

// IsRowClear 是否為整列清除
func (k EffectKind) IsRowClear() bool {
	return k == EffectMercyRow || k == EffectSpecialRow
}

// Effect 一次待完成的消除特效。
// 引擎發出後凍結盤面，直到宿主以相同 ID 呼叫 CompleteEffect。
type Effect struct {
	ID    uint64     `json:"id"`
	Kind  EffectKind `json:"kind"`
	Cells []int      `json:"cells"` // flat index (row*cols + col)
	Row   int        `json:"row"`   // 整列清除的目標列；連線消除為 -1
}

// Point 格子座標
type Point struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// Points 將 Cells 轉為座標
func (e Effect) Points(cols int) []Point {
	pts := make([]Point, len(e.Cells))
	for i, idx := range e.Cells {
		pts[i] = Point{Row: idx / cols, Col: idx % cols}
	}
	return pts
}

// Phase 引擎狀態
type Phase uint8

const (
	// PhaseFalling 方塊落下中，接受輸入與 tick
	PhaseFalling Phase = iota
	// PhaseAwaitingEffect 等待宿主完成消除特效，盤面與方塊凍結
	PhaseAwaitingEffect
	// PhaseGameOver 遊戲結束
	PhaseGameOver
)

func (p Phase) String() string {
	switch p {
	case PhaseFalling:
		return "falling"
	case PhaseAwaitingEffect:
		return "awaiting_effect"
	case PhaseGameOver:
		return "game_over"
	default:
		return "unknown"
	}
}
