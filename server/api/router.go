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

// Package api 把 middleware 與各版本 handler 掛到 NetSvr 上。
package api

import (
	"log/slog"

	"github.com/zintix-labs/coloris"
	v1 "github.com/zintix-labs/coloris/server/api/v1"
	"github.com/zintix-labs/coloris/server/netsvr"
	"github.com/zintix-labs/coloris/server/netsvr/middleware"
	"github.com/zintix-labs/coloris/server/svrcfg"
)

// RegisterRoutes 註冊
func RegisterRoutes(svr netsvr.NetRouter, rt *coloris.Runtime, sCfg *svrcfg.SvrCfg) error {
	registerMiddleware(svr, sCfg.Log)   // 1. 註冊 middleware
	registerIndex(svr, sCfg)            // 2. 註冊主頁
	return registerV1API(svr, rt, sCfg) // 3. 註冊 v1 api
}

// 註冊 middleware；Recover 在 AccessLog 內層，panic 也會留下 500 的存取紀錄
func registerMiddleware(svr netsvr.NetRouter, log *slog.Logger) {
	svr.Use(middleware.RequestID)
	svr.Use(middleware.AccessLog(log))
	svr.Use(middleware.Recover(log))
	svr.Use(middleware.Compression)
}

// 註冊主頁
func registerIndex(svr netsvr.NetRouter, sCfg *svrcfg.SvrCfg) {
	svr.Get("/", newIndex(sCfg.Lab).Serve)
}

// 註冊 v1 api
func registerV1API(svr netsvr.NetRouter, rt *coloris.Runtime, sCfg *svrcfg.SvrCfg) error {
	h, err := v1.NewHandler(rt, sCfg)
	if err != nil {
		return err
	}
	svr.Group("/v1", func(vOne netsvr.NetRouter) {
		vOne.Get("/games", h.Games)
		vOne.Get("/metrics", h.Metrics)

		vOne.Get("/sessions", h.ListSessions)
		vOne.Post("/sessions", h.CreateSession)
		vOne.Get("/sessions/{id}", h.GetSession)
		vOne.Delete("/sessions/{id}", h.DeleteSession)
		vOne.Post("/sessions/{id}/input", h.Input)
		vOne.Post("/sessions/{id}/tick", h.Tick)
		vOne.Post("/sessions/{id}/effect", h.Effect)
		vOne.Post("/sessions/{id}/restore", h.Restore)
		vOne.Post("/sessions/{id}/autoplay", h.Autoplay)
		vOne.Get("/sessions/{id}/replay", h.Replay)
		vOne.Post("/replays", h.ImportReplay)

		vOne.Get("/sim", h.Sim)
		vOne.Post("/sim", h.Sim)
		vOne.Post("/simbycfg", h.SimByCfg)
		vOne.Post("/stat", h.Stat)
	})
	return nil
}
