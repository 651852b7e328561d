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

package stats

import "fmt"

// Buckets 以下界切分的整數分桶，小值走 LUT 反查。
//
//	bounds = [0, 1, 10] => "[0,0]" "[1,10)" "[10,+inf)"
//
// bounds 必須遞增且 bounds[0] == 0。
type Buckets struct {
	bounds []int
	labels []string
	lut    []int // lut[v] = idx，v < lutMax
	lutMax int
}

// 分數分桶 (每局總分)
var ScoreBuckets = NewBuckets([]int{0, 1, 10, 25, 50, 100, 200, 500, 1000, 5000})

// 連鎖分桶 (每次連鎖的連線消除輪數)
var ChainBuckets = NewBuckets([]int{0, 1, 2, 3, 4, 5, 8})

// NewBuckets bounds 不合法時 panic (僅用於套件層級常數)
func NewBuckets(bounds []int) *Buckets {
	if len(bounds) == 0 || bounds[0] != 0 {
		panic("stats: bucket bounds must start at 0")
	}
	for i := 1; i < len(bounds); i++ {
		if bounds[i] <= bounds[i-1] {
			panic("stats: bucket bounds must be increasing")
		}
	}

	labels := make([]string, len(bounds))
	for i := range bounds {
		switch {
		case i == len(bounds)-1:
			labels[i] = fmt.Sprintf("[%d,+inf)", bounds[i])
		case bounds[i+1] == bounds[i]+1:
			labels[i] = fmt.Sprintf("[%d,%d]", bounds[i], bounds[i])
		default:
			labels[i] = fmt.Sprintf("[%d,%d)", bounds[i], bounds[i+1])
		}
	}

	// 只建到最後一個邊界
	lutMax := bounds[len(bounds)-1]
	lut := make([]int, lutMax)
	idx := 0
	for v := 0; v < lutMax; v++ {
		for idx < len(bounds)-1 && v >= bounds[idx+1] {
			idx++
		}
		lut[v] = idx
	}

	return &Buckets{bounds: bounds, labels: labels, lut: lut, lutMax: lutMax}
}

func (b *Buckets) Labels() []string { return b.labels }

func (b *Buckets) Len() int { return len(b.bounds) }

// Index 負值歸入第一桶
func (b *Buckets) Index(v int) int {
	if v < 0 {
		return 0
	}
	if v >= b.lutMax {
		return len(b.bounds) - 1
	}
	return b.lut[v]
}
