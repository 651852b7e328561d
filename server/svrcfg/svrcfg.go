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

// Package svrcfg 伺服器組裝所需的依賴與參數。
package svrcfg

import (
	"log/slog"
	"time"

	"github.com/zintix-labs/coloris"
	"github.com/zintix-labs/coloris/errs"
	"github.com/zintix-labs/coloris/server/logger"
)

const (
	DefaultSessionIdle = 30 * time.Minute
	DefaultSweepEvery  = time.Minute
	DefaultMaxSimGames = 1_000_000
)

// SvrCfg 伺服器設定；Lab 為必要依賴，其餘皆有預設值
type SvrCfg struct {
	Log         *slog.Logger
	Addr        string        // 監聽位址，空值為 :5808
	MaxSessions int           // 同時存活 session 上限
	SessionIdle time.Duration // 閒置多久後清除
	SweepEvery  time.Duration // 清理週期
	MaxSimGames int           // 單次模擬局數上限
	Lab         *coloris.Lab
}

// Valid 檢查並補上預設值
func (sc *SvrCfg) Valid() error {
	if sc.Log != nil {
		if ah, ok := sc.Log.Handler().(*logger.AsyncHandler); ok && !ah.Ready() {
			return errs.NewFatal("nil default log handler: async handler is nil")
		}
	} else {
		sc.Log, _ = logger.NewAsync(1024, logger.ModeDev)
	}
	if sc.MaxSessions <= 0 {
		sc.MaxSessions = coloris.DefaultMaxSessions
	}
	if sc.SessionIdle <= 0 {
		sc.SessionIdle = DefaultSessionIdle
	}
	if sc.SweepEvery <= 0 {
		sc.SweepEvery = DefaultSweepEvery
	}
	sc.SweepEvery = min(sc.SweepEvery, sc.SessionIdle)
	if sc.MaxSimGames <= 0 {
		sc.MaxSimGames = DefaultMaxSimGames
	}
	if sc.Lab == nil {
		return errs.NewFatal("lab is required")
	}
	return nil
}
