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

package engine

// DefaultComboThreshold : combo 累積到 3 觸發特殊能力
const DefaultComboThreshold = 3

// ComboTracker 追蹤 combo 與特殊能力。
//
// 特殊能力觸發後先排入佇列 (queued)，等當前連鎖結束才執行底列爆破；
// 從觸發到爆破完成之間 active 為 true，期間再次達標不會重複觸發。
type ComboTracker struct {
	threshold int
	count     int
	active    bool
	queued    bool
	fired     int
}

func NewComboTracker(threshold int) ComboTracker {
	if threshold <= 0 {
		threshold = DefaultComboThreshold
	}
	return ComboTracker{threshold: threshold}
}

// Register combo +1；達門檻且特殊能力未啟動時排入特殊能力並歸零，回傳 true
func (c *ComboTracker) Register() bool {
	c.count++
	if c.count >= c.threshold && !c.active {
		c.active = true
		c.queued = true
		c.count = 0
		c.fired++
		return true
	}
	return false
}

// Reset 歸零 combo (不影響特殊能力狀態)
func (c *ComboTracker) Reset() {
	c.count = 0
}

// take 取出佇列中的特殊能力
func (c *ComboTracker) take() bool {
	if !c.queued {
		return false
	}
	c.queued = false
	return true
}

// finish 特殊能力執行完畢
func (c *ComboTracker) finish() {
	c.active = false
}

func (c *ComboTracker) Count() int     { return c.count }
func (c *ComboTracker) Threshold() int { return c.threshold }
func (c *ComboTracker) Active() bool   { return c.active }
func (c *ComboTracker) Queued() bool   { return c.queued }

// Fired 累計觸發次數
func (c *ComboTracker) Fired() int { return c.fired }
