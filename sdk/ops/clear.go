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

package ops

// Clear 消除標記位置的格子(改為 empty)，回傳實際被清除的非空格數
//
//   - screen: 盤面數據 (將被原地修改)
//   - hitmap: 消除位置 (flat index)，越界索引會被略過
func Clear[T Cell](screen []T, hitmap []int, empty T) int {
	n := 0
	for _, v := range hitmap {
		if v >= 0 && v < len(screen) && screen[v] != empty {
			screen[v] = empty
			n++
		}
	}
	return n
}

// ClearRow 清除整列，回傳被清除的非空格數
func ClearRow[T Cell](screen []T, cols int, row int, empty T) int {
	n := 0
	base := row * cols
	for c := 0; c < cols; c++ {
		if screen[base+c] != empty {
			screen[base+c] = empty
			n++
		}
	}
	return n
}

// RowHits 將某列的非空格 flat index 附加到 dst
func RowHits[T Cell](dst []int, screen []T, cols int, row int, empty T) []int {
	base := row * cols
	for c := 0; c < cols; c++ {
		if screen[base+c] != empty {
			dst = append(dst, base+c)
		}
	}
	return dst
}
