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

// Package bot 提供自動遊玩策略，供模擬器與伺服器的 autoplay 使用。
package bot

import (
	"fmt"
	"sort"

	"github.com/zintix-labs/coloris/errs"
	"github.com/zintix-labs/coloris/sdk/core"
	"github.com/zintix-labs/coloris/sdk/engine"
)

// Plan 一次落子決策：先循環 Rotations 次，再移動到 Column
type Plan struct {
	Column    int `json:"column"`
	Rotations int `json:"rotations"`
}

// Strategy 根據引擎目前狀態決定落點；不得修改引擎
type Strategy interface {
	Name() string
	Plan(e *engine.Engine) Plan
}

// Builder 以專屬亂數核心建立策略
type Builder func(c *core.Core) Strategy

// Apply 執行 Plan 並直接落下。
// 移動受阻時停在目前欄位落下。回傳是否有合併發生。
func Apply(e *engine.Engine, p Plan) bool {
	for i := 0; i < p.Rotations; i++ {
		e.Reorder()
	}
	for e.Falling().Column() < p.Column {
		if !e.MoveRight() {
			break
		}
	}
	for e.Falling().Column() > p.Column {
		if !e.MoveLeft() {
			break
		}
	}
	return e.DropToLanding()
}

// Registry 策略名稱 -> 建構函數
type Registry struct {
	builders map[string]Builder
}

func NewRegistry() *Registry {
	return &Registry{builders: make(map[string]Builder, 8)}
}

// Default 內建 greedy 與 random
func Default() *Registry {
	r := NewRegistry()
	_ = r.Register(NameGreedy, func(*core.Core) Strategy { return NewGreedy() })
	_ = r.Register(NameRandom, func(c *core.Core) Strategy { return NewRandom(c) })
	return r
}

func (r *Registry) Register(name string, b Builder) error {
	if name == "" || b == nil {
		return errs.NewFatal("bot name and builder required")
	}
	if _, ok := r.builders[name]; ok {
		return errs.NewFatal(fmt.Sprintf("duplicate bot: %s", name))
	}
	r.builders[name] = b
	return nil
}

func (r *Registry) Build(name string, c *core.Core) (Strategy, error) {
	b, ok := r.builders[name]
	if !ok {
		return nil, errs.NewWarn(fmt.Sprintf("bot is not exist: %s", name))
	}
	return b(c), nil
}

func (r *Registry) IsExist(name string) bool {
	_, ok := r.builders[name]
	return ok
}

// Names 排序後的策略名稱
func (r *Registry) Names() []string {
	out := make([]string, 0, len(r.builders))
	for k := range r.builders {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
