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

package dto

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/zintix-labs/coloris/errs"
	"github.com/zintix-labs/coloris/spec"
)

// maxBody POST body 上限
const maxBody = 1 << 20

// 輸入操作名稱
const (
	OpLeft    = "left"
	OpRight   = "right"
	OpSpeedUp = "speed"
	OpReorder = "reorder"
	OpTick    = "tick"
	OpDrop    = "drop"
	OpEffect  = "effect"
	OpRestore = "restore"
	OpRestart = "restart"
)

// CreateSessionRequest 開新局。
//   - game / gid 擇一；兩者皆有時以 gid 為準
//   - seed 省略時由伺服器以 crypto/rand 產生
//   - auto_effects 為 true 時，消除特效於發出當下自動完成 (無動畫前端使用)
type CreateSessionRequest struct {
	GameName    string   `json:"game,omitempty"`
	GameId      spec.GID `json:"gid,omitempty"`
	Seed        *int64   `json:"seed,omitempty"`
	AutoEffects bool     `json:"auto_effects,omitempty"`
}

// InputRequest 玩家操作；repeat 省略視為 1
type InputRequest struct {
	Op     string `json:"op"`
	Repeat int    `json:"repeat,omitempty"`
}

// Normalize 檢查 op 並套用預設值
func (r *InputRequest) Normalize() error {
	r.Op = strings.ToLower(strings.TrimSpace(r.Op))
	switch r.Op {
	case OpLeft, OpRight, OpSpeedUp, OpReorder, OpDrop, OpRestart:
	default:
		return errs.NewWarn(fmt.Sprintf("invalid op: %q", r.Op))
	}
	if r.Repeat < 0 || r.Repeat > MaxRepeat {
		return errs.NewWarn(fmt.Sprintf("invalid repeat: %d", r.Repeat))
	}
	if r.Repeat == 0 {
		r.Repeat = 1
	}
	return nil
}

// TickRequest 推進時間：dt 省略時以刷新率為準 (即 Step)
type TickRequest struct {
	Dt    float64 `json:"dt,omitempty"`
	Steps int     `json:"steps,omitempty"`
}

// 單次輸入的上限；HTTP 請求與回放檔共用
const (
	MaxRepeat    = 64     // 移動 / 加速 / 重排 / 落下 的重複次數
	MaxTickSteps = 10_000 // 一次 tick 輸入可推進的步數
	MaxTickDt    = 1.0    // 單步秒數
)

func (r *TickRequest) Normalize() error {
	if r.Dt < 0 || r.Dt > MaxTickDt {
		return errs.NewWarn(fmt.Sprintf("invalid dt: %v", r.Dt))
	}
	if r.Steps < 0 || r.Steps > MaxTickSteps {
		return errs.NewWarn(fmt.Sprintf("invalid steps: %d", r.Steps))
	}
	if r.Steps == 0 {
		r.Steps = 1
	}
	return nil
}

// EffectRequest 通知特效播放完畢
type EffectRequest struct {
	ID uint64 `json:"id"`
}

// SimRequest 模擬請求
type SimRequest struct {
	GameName string   `json:"game,omitempty"`
	GameId   spec.GID `json:"gid"`
	Bot      string   `json:"bot,omitempty"`
	Games    int      `json:"games"`
	Players  int      `json:"players,omitempty"` // >0 時改跑玩家體驗估計：每位玩家一局，games 忽略
	Seed     *int64   `json:"seed,omitempty"`
}

// SimByCfgRequest 以臨時設定檔模擬 (不需註冊進 catalog)。
// cfg 為 JSON 物件；若 body 為 YAML，參數改由 query string 帶入。
type SimByCfgRequest struct {
	Cfg   json.RawMessage `json:"cfg"`
	Bot   string          `json:"bot,omitempty"`
	Games int             `json:"games"`
	Seed  *int64          `json:"seed,omitempty"`
}

// AutoplayRequest 由策略代打 pieces 塊
type AutoplayRequest struct {
	Bot    string `json:"bot,omitempty"`
	Pieces int    `json:"pieces"`
	Seed   *int64 `json:"seed,omitempty"`
}

// RestoreRequest 還原亂數核心
type RestoreRequest struct {
	CoreB64U string `json:"core_b64u"`
}

// InputResponse 操作結果；applied 為 false 表示引擎忽略了這次輸入
type InputResponse struct {
	Applied bool         `json:"applied"`
	State   SessionState `json:"state"`
}

// DecodeJSON 解碼 POST JSON body：限制 1MiB 並拒絕未知欄位
func DecodeJSON(r *http.Request, dst any) error {
	if r == nil || r.Body == nil {
		return errs.NewWarn("empty request body")
	}
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBody))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		if err == io.EOF {
			return errs.NewWarn("empty request body")
		}
		return errs.WrapWarn(err, "invalid json")
	}
	return nil
}

// DecodeSimRequest 會把 HTTP 請求解碼成 SimRequest。
//
// 支援：
//   - GET：從 query string 讀取參數（game/gid/bot/games/players/seed）。
//   - POST：從 JSON body 反序列化。
//
// 這裡只負責解碼與型別轉換；gid 是否存在、bot 是否註冊由上層決定。
func DecodeSimRequest(r *http.Request) (*SimRequest, error) {
	if r == nil {
		return nil, errs.NewWarn("nil request")
	}

	req := new(SimRequest)

	switch r.Method {
	case http.MethodGet:
		q := r.URL.Query()
		req.GameName = q.Get("game")
		req.Bot = q.Get("bot")

		if s := q.Get("gid"); s != "" {
			u, err := strconv.ParseUint(s, 10, 0)
			if err != nil {
				return nil, errs.NewWarn(fmt.Sprintf("invalid gid: %v", err))
			}
			req.GameId = spec.GID(u)
		}

		if s := q.Get("games"); s != "" {
			v, err := strconv.Atoi(s)
			if err != nil {
				return nil, errs.NewWarn(fmt.Sprintf("invalid games: %v", err))
			}
			req.Games = v
		}

		if s := q.Get("players"); s != "" {
			v, err := strconv.Atoi(s)
			if err != nil {
				return nil, errs.NewWarn(fmt.Sprintf("invalid players: %v", err))
			}
			req.Players = v
		}

		if s := q.Get("seed"); s != "" {
			v, err := strconv.ParseInt(s, 10, 64)
			if err != nil {
				return nil, errs.NewWarn(fmt.Sprintf("invalid seed: %v", err))
			}
			req.Seed = &v
		}
		return req, nil

	case http.MethodPost:
		if err := DecodeJSON(r, req); err != nil {
			return nil, err
		}
		return req, nil

	default:
		return nil, errs.NewWarn("method not allowed")
	}
}
