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

// Package v1 對局 / 模擬 / 統計的 HTTP handler。
//
// 所有 handler 只做解碼、驗證與回寫；遊戲邏輯都在 coloris.Runtime / coloris.Lab。
// 錯誤一律經 httperr 依 errs 分級映射狀態碼。
package v1

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/zintix-labs/coloris"
	"github.com/zintix-labs/coloris/errs"
	"github.com/zintix-labs/coloris/server/httperr"
	"github.com/zintix-labs/coloris/server/netsvr/middleware"
	"github.com/zintix-labs/coloris/server/svrcfg"
	"github.com/zintix-labs/coloris/spec"
)

// Handler 持有 Runtime 與伺服器設定
type Handler struct {
	rt     *coloris.Runtime
	lab    *coloris.Lab
	log    *slog.Logger
	maxSim int
}

func NewHandler(rt *coloris.Runtime, sCfg *svrcfg.SvrCfg) (*Handler, error) {
	if rt == nil {
		return nil, errs.NewFatal("runtime is required")
	}
	if sCfg == nil || sCfg.Lab == nil {
		return nil, errs.NewFatal("server config with lab is required")
	}
	return &Handler{
		rt:     rt,
		lab:    sCfg.Lab,
		log:    sCfg.Log,
		maxSim: sCfg.MaxSimGames,
	}, nil
}

// fail 記錄 (5xx / 逾時) 並回寫錯誤
func (h *Handler) fail(w http.ResponseWriter, r *http.Request, msg string, err error) {
	httperr.Log(middleware.Logger(h.log, r), msg, err)
	httperr.Errs(w, err)
}

func (h *Handler) ok(w http.ResponseWriter, v any) {
	httperr.JSON(w, http.StatusOK, v)
}

// sessionID 解析路徑上的 {id}
func sessionID(r *http.Request) (uint64, error) {
	raw := chi.URLParam(r, "id")
	if raw == "" {
		return 0, errs.NewWarn("session id is required")
	}
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, errs.Warnf("invalid session id: %q", raw)
	}
	return id, nil
}

func formatID(id uint64) string {
	return strconv.FormatUint(id, 10)
}

func (h *Handler) settingOf(gid spec.GID, name string) (*spec.GameSetting, error) {
	id, err := h.lab.Resolve(gid, name)
	if err != nil {
		return nil, err
	}
	return h.lab.GameSetting(id)
}
