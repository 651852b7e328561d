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

// svr 啟動 HTTP 服務 (內建變體)。
//
//	go run ./cmd/svr -addr :5808 -log-mode prod -idle 10m
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/zintix-labs/coloris/demo"
	"github.com/zintix-labs/coloris/server"
	"github.com/zintix-labs/coloris/server/logger"
	"github.com/zintix-labs/coloris/server/svrcfg"
)

func main() {
	cfg, err := loadConfigFromFlags()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	server.Run(cfg)
}

type config struct {
	LogMode     string
	Addr        string
	MaxSessions int
	Idle        time.Duration
	MaxSimGames int
}

func loadConfigFromFlags() (*svrcfg.SvrCfg, error) {
	cfg := new(config)
	flag.StringVar(&cfg.LogMode, "log-mode", "dev", "log mode: dev | prod | silence")
	flag.StringVar(&cfg.Addr, "addr", ":5808", "listen address")
	flag.IntVar(&cfg.MaxSessions, "max-sessions", 0, "max live sessions (0 = default)")
	flag.DurationVar(&cfg.Idle, "idle", svrcfg.DefaultSessionIdle, "drop sessions idle longer than this")
	flag.IntVar(&cfg.MaxSimGames, "max-sim", svrcfg.DefaultMaxSimGames, "max games per sim request")

	flag.Parse()

	mode, err := logger.ParseMode(cfg.LogMode)
	if err != nil {
		return nil, err
	}
	log, _ := logger.NewAsync(4096, mode)

	lab, err := demo.NewLab()
	if err != nil {
		return nil, err
	}
	sCfg := &svrcfg.SvrCfg{
		Log:         log,
		Addr:        cfg.Addr,
		MaxSessions: cfg.MaxSessions,
		SessionIdle: cfg.Idle,
		MaxSimGames: cfg.MaxSimGames,
		Lab:         lab,
	}
	return sCfg, nil
}
