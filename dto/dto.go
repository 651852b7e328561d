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

// Package dto 對外 (HTTP / 回放檔) 的序列化結構。
// 所有切片皆為深拷貝，離開 Session 臨界區後仍可安全持有。
package dto

import (
	"github.com/zintix-labs/coloris/corefmt"
	"github.com/zintix-labs/coloris/sdk/board"
	"github.com/zintix-labs/coloris/sdk/engine"
	"github.com/zintix-labs/coloris/spec"
)

// SessionState 一個對局的完整可視狀態
type SessionState struct {
	SessionID    uint64          `json:"session_id"`
	GameName     string          `json:"game"`
	GameID       spec.GID        `json:"gid"`
	Phase        string          `json:"phase"`
	Board        [][]int         `json:"board"` // board[row][col]，-1 為空格
	Piece        PieceDTO        `json:"piece"`
	Next         []int           `json:"next"`
	Score        int             `json:"score"`
	Destroyed    int             `json:"destroyed"`     // 本段連鎖已消除格數
	Combo        int             `json:"combo"`         // 距離特殊能力的累計
	SpecialPower bool            `json:"special_power"` // 特殊能力已觸發，等待爆破底列
	Pending      *EffectDTO      `json:"pending,omitempty"`
	Geometry     engine.Geometry `json:"geometry"`
	Stats        engine.Stats    `json:"stats"`
	Inputs       int             `json:"inputs"` // 已紀錄的輸入數 (回放用)
	CoreB64U     string          `json:"core_b64u"`
}

// PieceDTO 落下中的方塊；colors[0] 為最上方
type PieceDTO struct {
	Column int     `json:"column"`
	Y      float64 `json:"y"`
	Speed  float64 `json:"speed"`
	Colors []int   `json:"colors"`
}

// EffectDTO 等待完成的消除特效
type EffectDTO struct {
	ID    uint64         `json:"id"`
	Kind  string         `json:"kind"`
	Row   int            `json:"row"`
	Cells []engine.Point `json:"cells"`
}

// NewSessionState 由引擎目前狀態建立 DTO；coreSnap 為亂數核心快照
func NewSessionState(id uint64, gs *spec.GameSetting, e *engine.Engine, coreSnap []byte, inputs int) SessionState {
	st := SessionState{
		SessionID:    id,
		GameName:     gs.GameName,
		GameID:       gs.GameID,
		Phase:        e.Phase().String(),
		Board:        boardDTO(e.Board()),
		Piece:        pieceDTO(e),
		Next:         colorsDTO(e.Next().Colors()),
		Score:        e.Score(),
		Destroyed:    e.Destroyed(),
		Combo:        e.Combo().Count(),
		SpecialPower: e.SpecialPowerActive(),
		Geometry:     e.Geometry(),
		Stats:        e.Stats(),
		Inputs:       inputs,
		CoreB64U:     corefmt.EncodeBase64URL(coreSnap),
	}
	if eff, ok := e.Pending(); ok {
		st.Pending = NewEffectDTO(eff, e.Board().Cols())
	}
	return st
}

func NewEffectDTO(eff engine.Effect, cols int) *EffectDTO {
	return &EffectDTO{
		ID:    eff.ID,
		Kind:  eff.Kind.String(),
		Row:   eff.Row,
		Cells: eff.Points(cols),
	}
}

func boardDTO(b *board.Board) [][]int {
	rows := b.Rows()
	cols := b.Cols()
	flat := make([]int, rows*cols) // 一次配置
	out := make([][]int, rows)
	cells := b.Cells()
	for i, c := range cells {
		flat[i] = int(c)
	}
	for r := 0; r < rows; r++ {
		out[r] = flat[r*cols : (r+1)*cols : (r+1)*cols]
	}
	return out
}

func pieceDTO(e *engine.Engine) PieceDTO {
	p := e.Falling()
	return PieceDTO{
		Column: p.Column(),
		Y:      p.Y(),
		Speed:  p.Speed(),
		Colors: colorsDTO(p.Colors()),
	}
}

func colorsDTO(src []board.Color) []int {
	out := make([]int, len(src))
	for i, c := range src {
		out[i] = int(c)
	}
	return out
}
