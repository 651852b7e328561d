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

package main

import (
	"time"

	"github.com/zintix-labs/coloris/dto"
)

const (
	DefaultBlink = 360 * time.Millisecond
	blinkPeriod  = 60 * time.Millisecond
)

// blinker 消除特效：在 duration 內讓待消除的格子閃爍，時間到才通知引擎完成。
// 一次只處理一個特效；引擎在特效完成前不會發出下一個。
type blinker struct {
	duration time.Duration
	active   bool
	id       uint64
	start    time.Time
	cells    map[[2]int]struct{}
}

func newBlinker(d time.Duration) *blinker {
	if d <= 0 {
		d = DefaultBlink
	}
	return &blinker{duration: d, cells: make(map[[2]int]struct{})}
}

// Start 開始播放；同一個特效重複呼叫不會重置計時
func (b *blinker) Start(eff *dto.EffectDTO, now time.Time) {
	if eff == nil || (b.active && b.id == eff.ID) {
		return
	}
	clear(b.cells)
	for _, p := range eff.Cells {
		b.cells[[2]int{p.Row, p.Col}] = struct{}{}
	}
	b.id = eff.ID
	b.start = now
	b.active = true
}

func (b *blinker) Active() bool { return b.active }

// Hidden 該格此刻是否要畫成空白
func (b *blinker) Hidden(row, col int, now time.Time) bool {
	if !b.active {
		return false
	}
	if _, ok := b.cells[[2]int{row, col}]; !ok {
		return false
	}
	return (now.Sub(b.start)/blinkPeriod)%2 == 1
}

// Done 播放結束時回傳特效編號並回到閒置
func (b *blinker) Done(now time.Time) (uint64, bool) {
	if !b.active || now.Sub(b.start) < b.duration {
		return 0, false
	}
	b.active = false
	clear(b.cells)
	return b.id, true
}

// Reset 重新開局時丟棄播放中的特效
func (b *blinker) Reset() {
	b.active = false
	clear(b.cells)
}
