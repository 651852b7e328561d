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

import (
	"slices"
	"testing"
)

func TestClear(t *testing.T) {
	screen := []int8{1, 2, 3}
	n := Clear(screen, []int{0, 2, 10, -1}, -1)
	if n != 2 || screen[0] != -1 || screen[1] != 2 || screen[2] != -1 {
		t.Fatalf("unexpected clear result: n=%d %v", n, screen)
	}
	if n := Clear(screen, []int{0}, -1); n != 0 {
		t.Fatalf("clearing an empty cell must not count, got %d", n)
	}
}

func TestClearRowAndRowHits(t *testing.T) {
	screen := []int8{
		1, 0, 2,
		0, 3, 0,
	}
	hits := RowHits(nil, screen, 3, 0, 0)
	if !slices.Equal(hits, []int{0, 2}) {
		t.Fatalf("unexpected row hits: %v", hits)
	}
	if n := ClearRow(screen, 3, 0, 0); n != 2 {
		t.Fatalf("expected 2 cleared, got %d", n)
	}
	if !slices.Equal(screen, []int8{0, 0, 0, 0, 3, 0}) {
		t.Fatalf("unexpected screen: %v", screen)
	}
}

func TestGravity(t *testing.T) {
	cols, rows := 3, 4
	screen := []int8{
		1, -1, 2,
		-1, 3, -1,
		4, -1, -1,
		-1, -1, 5,
	}
	top := make([]int, cols)
	moved := Gravity(screen, cols, rows, -1, top)
	want := []int8{
		-1, -1, -1,
		-1, -1, -1,
		1, -1, 2,
		4, 3, 5,
	}
	if !slices.Equal(screen, want) {
		t.Fatalf("unexpected gravity result: %v", screen)
	}
	if !slices.Equal(top, []int{2, 3, 2}) {
		t.Fatalf("unexpected top rows: %v", top)
	}
	if moved != 4 {
		t.Fatalf("expected 4 moved cells, got %d", moved)
	}
}

func TestGravityCompactAndEmptyColumn(t *testing.T) {
	screen := []int8{
		-1, -1,
		-1, 7,
	}
	top := []int{9, 9}
	if moved := Gravity(screen, 2, 2, -1, top); moved != 0 {
		t.Fatalf("expected no movement, got %d", moved)
	}
	if !slices.Equal(top, []int{-1, 1}) {
		t.Fatalf("unexpected top rows: %v", top)
	}
}
