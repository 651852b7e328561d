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

// Package calc 負責盤面的連線判定：找出橫向或縱向同色連續達門檻的格子。
package calc

import "github.com/zintix-labs/coloris/sdk/ops"

// DefaultMinRun : 同色連續 3 格以上即消除
const DefaultMinRun = 3

// Run 一段達門檻的同色連線 (只記錄最長段的起點)
type Run struct {
	Row      int  `json:"row"`
	Col      int  `json:"col"`
	Len      int  `json:"len"`
	Vertical bool `json:"vertical"`
}

// Scanner 持有可重用的掃描緩衝，單一 goroutine 使用
type Scanner struct {
	rows, cols int
	minRun     int

	// mark 記錄格子在本次掃描是否已被標記，配合 epoch 使用避免每次清零
	mark  []int
	epoch int

	hits []int
	runs []Run
}

// NewScanner 建立掃描器；minRun < 2 時使用 DefaultMinRun
func NewScanner(rows int, cols int, minRun int) *Scanner {
	if minRun < 2 {
		minRun = DefaultMinRun
	}
	n := rows * cols
	return &Scanner{
		rows:   rows,
		cols:   cols,
		minRun: minRun,
		mark:   make([]int, n),
		hits:   make([]int, 0, n),
		runs:   make([]Run, 0, 16),
	}
}

func (s *Scanner) MinRun() int { return s.minRun }

// Runs 回傳上一次掃描找到的連線 (下一次掃描前有效)
func (s *Scanner) Runs() []Run { return s.runs }

func (s *Scanner) nextEpoch() {
	s.epoch++
	if s.epoch < 0 { // handle overflow
		s.epoch = 1
		for i := range s.mark {
			s.mark[i] = 0
		}
	}
}

func (s *Scanner) hit(idx int) {
	if s.mark[idx] == s.epoch {
		return
	}
	s.mark[idx] = s.epoch
	s.hits = append(s.hits, idx)
}

// Matches 以 row-major 順序掃描盤面，從每個非空格往右、往下計算同色長度，
// 長度達 minRun 者整段標記。回傳去重後的 flat index，順序為首次被標記的順序。
//
// 回傳的 slice 指向內部緩衝，下一次呼叫前有效。
func Matches[T ops.Cell](s *Scanner, screen []T, empty T) []int {
	rows, cols := s.rows, s.cols
	s.nextEpoch()
	s.hits = s.hits[:0]
	s.runs = s.runs[:0]

	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			idx := r*cols + c
			color := screen[idx]
			if color == empty {
				continue
			}

			// 往右
			n := 1
			for c+n < cols && screen[idx+n] == color {
				n++
			}
			if n >= s.minRun {
				for k := 0; k < n; k++ {
					s.hit(idx + k)
				}
				if c == 0 || screen[idx-1] != color {
					s.runs = append(s.runs, Run{Row: r, Col: c, Len: n})
				}
			}

			// 往下
			n = 1
			for r+n < rows && screen[idx+n*cols] == color {
				n++
			}
			if n >= s.minRun {
				for k := 0; k < n; k++ {
					s.hit(idx + k*cols)
				}
				if r == 0 || screen[idx-cols] != color {
					s.runs = append(s.runs, Run{Row: r, Col: c, Len: n, Vertical: true})
				}
			}
		}
	}
	return s.hits
}

// CountMatches 僅回傳會被消除的格子數，供自動遊玩評估使用
func CountMatches[T ops.Cell](s *Scanner, screen []T, empty T) int {
	return len(Matches(s, screen, empty))
}
