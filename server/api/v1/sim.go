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
	"fmt"
	"net/http"
	"runtime"

	"github.com/zintix-labs/coloris"
	"github.com/zintix-labs/coloris/dto"
	"github.com/zintix-labs/coloris/errs"
	"github.com/zintix-labs/coloris/stats"
)

// SimResponse 模擬結果；est 只在玩家體驗估計模式出現
type SimResponse struct {
	Seed     int64               `json:"seed"`
	Stats    *stats.StatReport   `json:"stats"`
	Estimate *stats.GameEstimate `json:"est,omitempty"`
	UsedTime int64               `json:"used_ms"`
}

// Sim GET|POST /v1/sim
//
// 參數：game / gid 擇一、bot (預設 greedy)、games、players、seed。
// players > 0 時每位玩家玩一局，額外輸出分位數與達標率估計。
func (h *Handler) Sim(w http.ResponseWriter, r *http.Request) {
	req, err := dto.DecodeSimRequest(r)
	if err != nil {
		h.fail(w, r, "sim", err)
		return
	}
	gid, err := h.lab.Resolve(req.GameId, req.GameName)
	if err != nil {
		h.fail(w, r, "sim", err)
		return
	}
	games := req.Games
	if req.Players > 0 {
		games = req.Players
	}
	if err := h.checkGames(games); err != nil {
		h.fail(w, r, "sim", err)
		return
	}
	seed, err := seedOrCrypto(req.Seed)
	if err != nil {
		h.fail(w, r, "sim", err)
		return
	}
	sim, err := h.lab.NewSimulatorWithSeed(gid, req.Bot, seed)
	if err != nil {
		h.fail(w, r, "sim", errs.Wrap(err, fmt.Sprintf("build simulator err: %d", gid)))
		return
	}
	h.runSim(w, r, sim, seed, games, req.Players > 0)
}

// SimByCfg POST /v1/simbycfg
//
// JSON body：{"cfg": {...}, "bot", "games", "seed"}。
// YAML body (Content-Type application/yaml)：整份為設定檔，bot / games / seed 由 query string 帶入。
func (h *Handler) SimByCfg(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 5<<20)
	var (
		sim  *coloris.Simulator
		req  = new(dto.SimByCfgRequest)
		seed int64
		err  error
	)
	if isYAML(r) {
		raw, rerr := readAll(r)
		if rerr != nil {
			h.fail(w, r, "simbycfg", rerr)
			return
		}
		q, qerr := simQuery(r)
		if qerr != nil {
			h.fail(w, r, "simbycfg", qerr)
			return
		}
		req.Bot, req.Games, req.Seed = q.Bot, q.Games, q.Seed
		if seed, err = seedOrCrypto(req.Seed); err == nil {
			sim, err = h.lab.NewSimulatorByYAML(raw, req.Bot, seed)
		}
	} else {
		if err = dto.DecodeJSON(r, req); err == nil {
			if len(req.Cfg) == 0 {
				err = errs.NewWarn("cfg is required")
			} else if seed, err = seedOrCrypto(req.Seed); err == nil {
				sim, err = h.lab.NewSimulatorByJSON(req.Cfg, req.Bot, seed)
			}
		}
	}
	if err != nil {
		h.fail(w, r, "simbycfg", err)
		return
	}
	if err := h.checkGames(req.Games); err != nil {
		h.fail(w, r, "simbycfg", err)
		return
	}
	h.runSim(w, r, sim, seed, req.Games, false)
}

func (h *Handler) checkGames(games int) error {
	if games < 1 || games > h.maxSim {
		return errs.Warnf("games must be between 1 and %d", h.maxSim)
	}
	return nil
}

func (h *Handler) runSim(w http.ResponseWriter, r *http.Request, sim *coloris.Simulator, seed int64, games int, estimate bool) {
	mp := max(1, min(runtime.GOMAXPROCS(0), games))
	resp := SimResponse{Seed: seed}
	if estimate {
		st, est, used, err := sim.SimGames(games, mp, nil, false)
		if err != nil {
			h.fail(w, r, "sim", errs.Wrap(err, "simulate err"))
			return
		}
		resp.Stats, resp.Estimate, resp.UsedTime = st, est, used.Milliseconds()
	} else {
		st, used, err := sim.SimMP(games, mp, false)
		if err != nil {
			h.fail(w, r, "sim", errs.Wrap(err, "simulate err"))
			return
		}
		resp.Stats, resp.UsedTime = st, used.Milliseconds()
	}
	h.ok(w, resp)
}
