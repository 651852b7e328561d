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

package v1

import (
	"net/http"

	"github.com/zintix-labs/coloris/dto"
	"github.com/zintix-labs/coloris/errs"
	"github.com/zintix-labs/coloris/recorder"
	"github.com/zintix-labs/coloris/spec"
	"github.com/zintix-labs/coloris/stats"
)

// MaxStatGames 單次上傳的局數上限 (受 body 1MiB 限制)
const MaxStatGames = 10_000

// StatRequest 外部對局結果 (例如真人玩家的回放驗證後)
type StatRequest struct {
	GameName string             `json:"game,omitempty"`
	GameId   spec.GID           `json:"gid,omitempty"`
	Source   string             `json:"source,omitempty"` // 例如 human / greedy；預設 external
	Games    []recorder.Outcome `json:"games"`
	Reach    []int              `json:"reach,omitempty"`
}

// StatResponse 統計報表與分位數估計
type StatResponse struct {
	Stats    *stats.StatReport   `json:"stats"`
	Estimate *stats.GameEstimate `json:"est"`
}

// Stat POST /v1/stat
//
// 以模擬器同一套報表彙整外部上傳的每局結果。
func (h *Handler) Stat(w http.ResponseWriter, r *http.Request) {
	req := new(StatRequest)
	if err := dto.DecodeJSON(r, req); err != nil {
		h.fail(w, r, "stat", err)
		return
	}
	if len(req.Games) < 1 || len(req.Games) > MaxStatGames {
		h.fail(w, r, "stat", errs.Warnf("games must be between 1 and %d", MaxStatGames))
		return
	}
	for i, g := range req.Games {
		if g.Score < 0 || g.Stats.Pieces < 0 || g.Stats.MaxChain < 0 {
			h.fail(w, r, "stat", errs.Warnf("games[%d]: negative value", i))
			return
		}
	}
	gs, err := h.settingOf(req.GameId, req.GameName)
	if err != nil {
		h.fail(w, r, "stat", err)
		return
	}
	src := req.Source
	if src == "" {
		src = "external"
	}
	rec, err := recorder.NewGameRecorder(gs.GameName, gs.GameID, src, true)
	if err != nil {
		h.fail(w, r, "stat", err)
		return
	}
	for _, g := range req.Games {
		rec.RecordOutcome(g)
		rec.RecordChain(g.Stats.MaxChain)
	}
	rep := rec.Done()
	h.ok(w, StatResponse{
		Stats:    rep,
		Estimate: stats.EstimateGames([]*stats.StatReport{rep}, req.Reach),
	})
}
