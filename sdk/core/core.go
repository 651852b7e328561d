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

// Package core 提供可重現的亂數核心：方塊顏色、下一塊預覽與自動遊玩皆由此取樣。
package core

import (
	"strings"

	"github.com/zintix-labs/coloris/errs"
)

// PRNG 定義 Core 所需的亂數來源，需同時支援取樣與狀態保存/還原。
type PRNG interface {
	RAND
	Restorable
}

// Restorable 定義可快照與還原的狀態介面。
type Restorable interface {
	// Snapshot 回傳可用於還原的序列化狀態。
	Snapshot() ([]byte, error)
	// Restore 依序列化狀態還原 PRNG 內部狀態。
	Restore([]byte) error
}

// RAND 定義核心亂數取樣能力。
type RAND interface {
	// Uint64 回傳 uint64 亂數。
	Uint64() uint64
	// IntN 回傳 [0,max) 的 int 亂數，若 max <= 0 回傳 -1。
	IntN(int) int
}

// PRNGFactory 以 seed 建立 PRNG。
//
// 合約：同一實作下 New(seed) 必須是決定性的，相同 seed 產生相同序列。
// 對局重播與多工模擬的子 seed 派生都依賴這一點。
type PRNGFactory interface {
	New(int64) PRNG
}

const (
	NamePCG64 = "pcg64"
	NamePCG32 = "pcg32"
)

// PCG64Factory 為預設工廠
type PCG64Factory struct{}

func (PCG64Factory) New(seed int64) PRNG {
	return newPCG64WithSeed(seed)
}

// PCG32Factory 產生 32-bit 輸出的 PCG
type PCG32Factory struct{}

func (PCG32Factory) New(seed int64) PRNG {
	return newPCG32WithSeed(seed)
}

func Default() PRNGFactory {
	return PCG64Factory{}
}

// FactoryByName 依設定檔中的名稱取得工廠，空字串回傳預設。
func FactoryByName(name string) (PRNGFactory, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", NamePCG64:
		return PCG64Factory{}, nil
	case NamePCG32:
		return PCG32Factory{}, nil
	default:
		return nil, errs.Fatalf("unknown rng: %q", name)
	}
}

// Core 封裝 PRNG，並提供常用取樣與工具方法。
type Core struct {
	PRNG
}

// New 允許使用外部自實現的 PRNG 建立 Core。
func New(rng PRNG) *Core {
	return &Core{rng}
}

// Pick 從列表中隨機選取一個元素，若列表為空回傳 -1
func (c *Core) Pick(src []int) int {
	if len(src) == 0 {
		return -1
	}
	return src[c.IntN(len(src))]
}

// ShuffleInts Fisher-Yates 就地重排。
func (c *Core) ShuffleInts(src []int) {
	if len(src) <= 1 {
		return
	}
	for i := len(src) - 1; i > 0; i-- {
		j := c.IntN(i + 1)
		src[i], src[j] = src[j], src[i]
	}
}
