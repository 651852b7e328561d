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

// Package ops 提供盤面原地操作：重力壓縮與消除。
//
// 盤面以 row-major 平鋪 (idx = r*cols + c)，row 0 為最上方。
package ops

// Cell 為可放入盤面的格子型別
type Cell interface {
	~int8 | ~int16 | ~int32 | ~int | ~uint8 | ~uint16
}

// Gravity 逐欄壓縮 (Column-wise compact)，非空格保持原相對順序往下落，上方補 empty。
//
//   - screen: 盤面數據 (將被原地修改)
//   - cols, rows: 盤面維度
//   - empty: 空格哨兵值
//   - topBuf: (選用) 回傳每欄最上方非空格的 row，整欄為空時寫入 -1
//
// 回傳被移動的格子數量，0 表示盤面原本已經緊密。
func Gravity[T Cell](screen []T, cols int, rows int, empty T, topBuf []int) int {
	moved := 0
	for c := 0; c < cols; c++ {
		wp := (rows-1)*cols + c // Write Pointer (寫入位置，從底開始)
		filled := 0

		// 自底向上掃描
		for r := rows - 1; r >= 0; r-- {
			rp := r*cols + c // Read Pointer
			if screen[rp] != empty {
				if rp != wp {
					screen[wp] = screen[rp]
					moved++
				}
				wp -= cols
				filled++
			}
		}

		if topBuf != nil && c < len(topBuf) {
			topBuf[c] = -1
			if filled > 0 {
				topBuf[c] = rows - filled
			}
		}

		// 上方剩餘空間補 empty
		for w := wp; w >= 0; w -= cols {
			screen[w] = empty
		}
	}
	return moved
}
