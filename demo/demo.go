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

// Package demo 以內建的三個變體 (classic / tinted / quad) 組裝 Lab 與伺服器設定，
// 供 cmd 與測試直接使用。
package demo

import (
	"github.com/zintix-labs/coloris"
	"github.com/zintix-labs/coloris/catalog"
	"github.com/zintix-labs/coloris/demo/demo_configs"
	"github.com/zintix-labs/coloris/errs"
	"github.com/zintix-labs/coloris/sdk/bot"
	"github.com/zintix-labs/coloris/sdk/core"
	"github.com/zintix-labs/coloris/server/logger"
	"github.com/zintix-labs/coloris/server/svrcfg"
)

func New() (*catalog.Catalog, error) {
	return catalog.New(demo_configs.FS)
}

// NewLab 內建變體 + 預設策略，已封存
func NewLab() (*coloris.Lab, error) {
	return coloris.NewAuto(
		core.Default(),
		coloris.Configs(demo_configs.FS),
		bot.Default(),
	)
}

func NewServerConfig() (*svrcfg.SvrCfg, error) {
	lab, err := NewLab()
	if err != nil {
		return nil, errs.NewFatal("new lab failed:" + err.Error())
	}
	log, _ := logger.NewAsync(8192, logger.ModeDev)
	scfg := &svrcfg.SvrCfg{
		Log: log,
		Lab: lab,
	}
	return scfg, nil
}
