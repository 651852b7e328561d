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

package server

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/zintix-labs/coloris"
	"github.com/zintix-labs/coloris/errs"
	"github.com/zintix-labs/coloris/server/api"
	"github.com/zintix-labs/coloris/server/app"
	"github.com/zintix-labs/coloris/server/netsvr"
	"github.com/zintix-labs/coloris/server/svrcfg"
)

// Run 是 server 套件的「組裝器（assembler）」與「啟動入口（runtime entry）」。
//
// 它負責：
//  1. 驗證輸入的 SvrCfg（包含必要依賴，例如 logger、Lab）。
//  2. 由 Lab 建立 session Runtime。
//  3. 建立 HTTP server（netsvr）並註冊路由與 middleware。
//  4. 以 app 同時運行 HTTP server 與閒置 session 清理器，直到收到終止信號。
//
// Run 不綁定任何檔案路徑或環境變數；所有依賴都透過 SvrCfg 注入。
func Run(sCfg *svrcfg.SvrCfg) {
	if err := sCfg.Valid(); err != nil {
		// 防止外層傳入的logger不可用
		fmt.Fprintln(os.Stderr, err)
		return
	}
	RunWithSvr(sCfg, netsvr.NewChiServer(sCfg.Addr))
}

// RunWithSvr 與 Run 相同，但允許呼叫端注入自訂的 NetSvr
// (自訂 listener、timeout、或掛到既有服務上)。
//
// svr 必須非 nil；若是 ChiAdapter 會要求 Ready() 為 true。
func RunWithSvr(sCfg *svrcfg.SvrCfg, svr netsvr.NetSvr) {
	if err := sCfg.Valid(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return
	}
	a, rt, err := Assemble(sCfg, svr)
	if err != nil {
		sCfg.Log.Error("assemble server failed", slog.Any("err", err))
		return
	}
	defer rt.Close()

	if c, ok := svr.(*netsvr.ChiAdapter); ok {
		sCfg.Log.Info("[coloris] listening on http://localhost" + c.Address())
	} else {
		sCfg.Log.Info("[coloris] listening")
	}
	if err := a.Run(); err != nil {
		sCfg.Log.Error("app stopped:", slog.Any("err", err))
	}
}

// Assemble 建立 Runtime、註冊路由，回傳尚未啟動的 App (HTTP server + session 清理器)。
// 測試或自訂啟動流程可直接使用。
func Assemble(sCfg *svrcfg.SvrCfg, svr netsvr.NetSvr) (*app.App, *coloris.Runtime, error) {
	if svr == nil {
		return nil, nil, errs.NewFatal("svr is required")
	}
	if s, ok := svr.(*netsvr.ChiAdapter); ok && !s.Ready() {
		return nil, nil, errs.NewFatal("default server is not ready")
	}
	sCfg.Lab.SetLogger(sCfg.Log)
	rt, err := sCfg.Lab.BuildRuntime(sCfg.MaxSessions)
	if err != nil {
		return nil, nil, err
	}
	if err := api.RegisterRoutes(svr, rt, sCfg); err != nil {
		rt.Close()
		return nil, nil, err
	}
	sweeper := app.NewComponentFunc(func(ctx context.Context) error {
		rt.RunSweeper(ctx, sCfg.SweepEvery, sCfg.SessionIdle)
		return nil
	})
	return app.NewWith(svr, sweeper), rt, nil
}
