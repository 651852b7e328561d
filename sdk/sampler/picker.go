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

// Package sampler 方塊顏色的加權抽樣：均勻、展開表 (LUT)、Vose alias table。
package sampler

import (
	"fmt"
	"math"

	"github.com/zintix-labs/coloris/errs"
	"github.com/zintix-labs/coloris/sdk/core"
)

// lutThreshold : 權重總和在此以下使用 LUT，其餘使用 AliasTable
const lutThreshold = 100_000

// Picker 為加權抽樣的共同介面
type Picker interface {
	Pick(c *core.Core) int
}

// Uniform 均勻抽樣 [0,n)
type Uniform int

func (u Uniform) Pick(c *core.Core) int {
	return c.IntN(int(u))
}

// NewPicker 建立 n 種顏色的抽樣器。weights 為空時均勻抽樣；
// 否則長度須為 n、非負且總和大於零，依總和選擇 LUT 或 AliasTable。
func NewPicker(n int, weights []int) (Picker, error) {
	if n <= 0 {
		return nil, errs.NewFatal(fmt.Sprintf("picker: invalid color count %d", n))
	}
	if len(weights) == 0 {
		return Uniform(n), nil
	}
	if len(weights) != n {
		return nil, errs.NewFatal(fmt.Sprintf("picker: len(weights)=%d != colors=%d", len(weights), n))
	}
	total, err := sumWeights(weights)
	if err != nil {
		return nil, err
	}
	if total <= lutThreshold && n <= maxLUTColors {
		lut, err := BuildLUT(weights)
		if err != nil {
			return nil, err
		}
		return lut, nil
	}
	return BuildAliasTable(weights), nil
}

func sumWeights(weights []int) (int, error) {
	total := 0
	for i, w := range weights {
		if w < 0 {
			return 0, errs.NewFatal(fmt.Sprintf("picker: negative weight %d at %d", w, i))
		}
		if total > math.MaxInt-w {
			return 0, errs.NewFatal("picker: total weight overflow")
		}
		total += w
	}
	if total == 0 {
		return 0, errs.NewFatal("picker: all weights are zero")
	}
	return total, nil
}
