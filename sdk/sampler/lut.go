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

package sampler

import (
	"fmt"

	"github.com/zintix-labs/coloris/errs"
	"github.com/zintix-labs/coloris/sdk/core"
)

// maxLUTColors LUT 以 uint8 存索引
const maxLUTColors = 256

// LUT 顏色權重展開表：顏色 i 重複 weights[i] 次，抽樣只做一次 IntN。
//
// 例：權重 [3,5,0] 展開為 [0,0,0,1,1,1,1,1]，抽到 0 號色的機率為 3/8，2 號色永遠不出現。
// 記憶體與權重總和成正比，總和大時 NewPicker 會改用 AliasTable。
type LUT []uint8

// BuildLUT 依顏色權重建表；權重需非負且總和大於零
func BuildLUT(weights []int) (LUT, error) {
	if len(weights) > maxLUTColors {
		return nil, errs.NewFatal(fmt.Sprintf("lut: %d colors exceeds %d", len(weights), maxLUTColors))
	}
	total, err := sumWeights(weights)
	if err != nil {
		return nil, err
	}
	lut := make(LUT, 0, total)
	for color, w := range weights {
		for range w {
			lut = append(lut, uint8(color))
		}
	}
	return lut, nil
}

// Pick 抽一個顏色；空表回傳 -1
func (l LUT) Pick(c *core.Core) int {
	if len(l) == 0 {
		return -1
	}
	return int(l[c.IntN(len(l))])
}
