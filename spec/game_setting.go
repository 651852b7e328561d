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

package spec

import (
	"fmt"

	"github.com/zintix-labs/coloris/errs"
)

// GID 遊戲變體 ID (Catalog 內唯一)
type GID uint

// 預設值 (經典版本)
const (
	DefaultRows             = 12
	DefaultColumns          = 6
	DefaultCellSize         = 40.0
	DefaultPieceLength      = 3
	DefaultColors           = 6
	DefaultRefreshRate      = 60.0
	DefaultBaseSpeed        = 100.0
	DefaultSpeedUpFactor    = 3.0
	DefaultCriticalDistance = 5.0
	DefaultMinRun           = 3
	DefaultComboThreshold   = 3
	DefaultMercyThreshold   = 5
)

// MaxColors 顏色數上限 (Color 為 int8)
const MaxColors = 26

// GameSetting 一個遊戲變體的完整設定
type GameSetting struct {
	GameName string         `yaml:"game_name"  json:"game_name"`
	GameID   GID            `yaml:"game_id"    json:"game_id"`
	Board    BoardSetting   `yaml:"board"      json:"board"`
	Piece    PieceSetting   `yaml:"piece"      json:"piece"`
	Timing   TimingSetting  `yaml:"timing"     json:"timing"`
	Rules    RuleSetting    `yaml:"rules"      json:"rules"`
	RNG      string         `yaml:"rng"        json:"rng"`
	Extra    map[string]any `yaml:"extra"      json:"extra,omitempty"`
}

// BoardSetting 井的尺寸
type BoardSetting struct {
	Rows     int     `yaml:"rows"       json:"rows"`
	Columns  int     `yaml:"columns"    json:"columns"`
	CellSize float64 `yaml:"cell_size"  json:"cell_size"`
}

// PieceSetting 方塊長度與顏色分布
type PieceSetting struct {
	Length       int   `yaml:"length"         json:"length"`
	Colors       int   `yaml:"colors"         json:"colors"`
	ColorWeights []int `yaml:"color_weights"  json:"color_weights,omitempty"`
}

// TimingSetting 下落速度與碰撞距離
type TimingSetting struct {
	RefreshRate      float64 `yaml:"refresh_rate"       json:"refresh_rate"`
	BaseSpeed        float64 `yaml:"base_speed"         json:"base_speed"`
	SpeedUpFactor    float64 `yaml:"speed_up_factor"    json:"speed_up_factor"`
	CriticalDistance float64 `yaml:"critical_distance"  json:"critical_distance"`
}

// RuleSetting 消除規則
type RuleSetting struct {
	MinRun         int `yaml:"min_run"          json:"min_run"`
	ComboThreshold int `yaml:"combo_threshold"  json:"combo_threshold"`
	MercyThreshold int `yaml:"mercy_threshold"  json:"mercy_threshold"`
}

// Default 回傳經典版本設定
func Default() *GameSetting {
	gs := &GameSetting{GameName: "classic", GameID: 1}
	gs.applyDefaults()
	return gs
}

func (gs *GameSetting) init() error {
	gs.applyDefaults()
	return gs.valid()
}

// applyDefaults 未填寫 (零值) 的欄位套用經典版本的值
func (gs *GameSetting) applyDefaults() {
	setDefault(&gs.Board.Rows, DefaultRows)
	setDefault(&gs.Board.Columns, DefaultColumns)
	setDefault(&gs.Board.CellSize, DefaultCellSize)
	setDefault(&gs.Piece.Length, DefaultPieceLength)
	setDefault(&gs.Piece.Colors, DefaultColors)
	setDefault(&gs.Timing.RefreshRate, DefaultRefreshRate)
	setDefault(&gs.Timing.BaseSpeed, DefaultBaseSpeed)
	setDefault(&gs.Timing.SpeedUpFactor, DefaultSpeedUpFactor)
	setDefault(&gs.Timing.CriticalDistance, DefaultCriticalDistance)
	setDefault(&gs.Rules.MinRun, DefaultMinRun)
	setDefault(&gs.Rules.ComboThreshold, DefaultComboThreshold)
	setDefault(&gs.Rules.MercyThreshold, DefaultMercyThreshold)
}

func setDefault[T int | float64](v *T, d T) {
	if *v == 0 {
		*v = d
	}
}

func (gs *GameSetting) valid() error {
	name := gs.GameName
	b := gs.Board
	if b.Rows < 2 || b.Columns < 1 {
		return errs.NewFatal(fmt.Sprintf("game_name: %s err:invalid board dimensions rows=%d columns=%d", name, b.Rows, b.Columns))
	}
	if b.CellSize <= 0 {
		return errs.NewFatal(fmt.Sprintf("game_name: %s err:cell_size must be positive", name))
	}

	p := gs.Piece
	if p.Length < 1 || p.Length > b.Rows {
		return errs.NewFatal(fmt.Sprintf("game_name: %s err:piece length %d out of range [1,%d]", name, p.Length, b.Rows))
	}
	if p.Colors < 1 || p.Colors > MaxColors {
		return errs.NewFatal(fmt.Sprintf("game_name: %s err:colors %d out of range [1,%d]", name, p.Colors, MaxColors))
	}
	if len(p.ColorWeights) != 0 {
		if len(p.ColorWeights) != p.Colors {
			return errs.NewFatal(fmt.Sprintf("game_name: %s err:len(color_weights)=%d != colors=%d", name, len(p.ColorWeights), p.Colors))
		}
		total := 0
		for _, w := range p.ColorWeights {
			if w < 0 {
				return errs.NewFatal(fmt.Sprintf("game_name: %s err:negative color weight", name))
			}
			total += w
		}
		if total == 0 {
			return errs.NewFatal(fmt.Sprintf("game_name: %s err:all color weights are zero", name))
		}
	}

	t := gs.Timing
	if t.RefreshRate <= 0 || t.BaseSpeed <= 0 || t.CriticalDistance < 0 {
		return errs.NewFatal(fmt.Sprintf("game_name: %s err:invalid timing", name))
	}
	if t.SpeedUpFactor < 1 {
		return errs.NewFatal(fmt.Sprintf("game_name: %s err:speed_up_factor must be >= 1", name))
	}

	r := gs.Rules
	if r.MinRun < 2 {
		return errs.NewFatal(fmt.Sprintf("game_name: %s err:min_run must be >= 2", name))
	}
	if r.ComboThreshold < 1 || r.MercyThreshold < 1 {
		return errs.NewFatal(fmt.Sprintf("game_name: %s err:thresholds must be positive", name))
	}
	switch gs.RNG {
	case "", "pcg64", "pcg32":
	default:
		return errs.NewFatal(fmt.Sprintf("game_name: %s err:unknown rng %q", name, gs.RNG))
	}
	return nil
}
