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
	"math"
	"testing"

	"github.com/zintix-labs/coloris/errs"
	"github.com/zintix-labs/coloris/sdk/core"
)

// assertPanic 驗證函數是否如預期觸發 panic
func assertPanic(t *testing.T, f func(), msg string) {
	t.Helper()
	defer func() {
		if r := recover(); r == nil {
			t.Errorf("expected panic for %s, but got none", msg)
		}
	}()
	f()
}

// checkDistribution 驗證抽樣結果的分佈是否符合預期權重
func checkDistribution(t *testing.T, name string, weights []int, p Picker, n int, tolerance float64) {
	t.Helper()
	c := core.New(core.Default().New(2025))
	totalW := 0
	for _, w := range weights {
		totalW += w
	}
	counts := make([]int, len(weights))
	for i := 0; i < n; i++ {
		idx := p.Pick(c)
		if idx < 0 || idx >= len(weights) {
			t.Fatalf("%s: index out of range: %d", name, idx)
		}
		counts[idx]++
	}
	for i, w := range weights {
		want := float64(w) / float64(totalW)
		got := float64(counts[i]) / float64(n)
		if w == 0 && counts[i] != 0 {
			t.Fatalf("%s: zero weight index %d was picked", name, i)
		}
		if math.Abs(want-got) > tolerance {
			t.Fatalf("%s: idx %d want %.3f got %.3f", name, i, want, got)
		}
	}
}

func TestAliasTableDistribution(t *testing.T) {
	weights := []int{10, 0, 30, 60}
	checkDistribution(t, "alias", weights, BuildAliasTable(weights), 200_000, 0.01)
}

func TestLUTDistribution(t *testing.T) {
	weights := []int{1, 0, 1, 2}
	lut, err := BuildLUT(weights)
	if err != nil {
		t.Fatalf("build lut: %v", err)
	}
	if len(lut) != 4 {
		t.Fatalf("expected 4 entries, got %d", len(lut))
	}
	checkDistribution(t, "lut", weights, lut, 200_000, 0.01)
}

func TestNewPickerSelectsStructure(t *testing.T) {
	pick := func(n int, w []int) Picker {
		t.Helper()
		p, err := NewPicker(n, w)
		if err != nil {
			t.Fatalf("new picker: %v", err)
		}
		return p
	}
	if _, ok := pick(6, nil).(Uniform); !ok {
		t.Fatalf("expected uniform picker without weights")
	}
	if _, ok := pick(3, []int{1, 2, 3}).(LUT); !ok {
		t.Fatalf("expected lut for small totals")
	}
	if _, ok := pick(2, []int{lutThreshold, 1}).(*AliasTable); !ok {
		t.Fatalf("expected alias table for large totals")
	}
	checkDistribution(t, "uniform", []int{1, 1, 1, 1, 1, 1}, Uniform(6), 120_000, 0.01)
}

func TestNewPickerRejectsBadWeights(t *testing.T) {
	cases := []struct {
		name    string
		n       int
		weights []int
	}{
		{"no colors", 0, nil},
		{"negative", 2, []int{-1, 3}},
		{"all zero", 2, []int{0, 0}},
		{"length mismatch", 3, []int{1, 2}},
		{"overflow", 2, []int{math.MaxInt, 1}},
	}
	for _, c := range cases {
		p, err := NewPicker(c.n, c.weights)
		if err == nil || p != nil {
			t.Fatalf("%s: expected error, got picker %v", c.name, p)
		}
		if errs.Level(err) != errs.Fatal {
			t.Fatalf("%s: expected fatal, got %v", c.name, err)
		}
	}
	if _, err := BuildLUT(make([]int, maxLUTColors+1)); err == nil {
		t.Fatalf("expected error for too many lut colors")
	}
}

func TestAliasTablePanics(t *testing.T) {
	assertPanic(t, func() { BuildAliasTable([]int{0, 0}) }, "alias all zero")
	assertPanic(t, func() { BuildAliasTable([]int{1, -1}) }, "alias negative")
}

func TestEmptyTables(t *testing.T) {
	c := core.New(core.Default().New(1))
	if got := BuildAliasTable(nil).Pick(c); got != -1 {
		t.Fatalf("expected -1, got %d", got)
	}
	if got := LUT(nil).Pick(c); got != -1 {
		t.Fatalf("expected -1, got %d", got)
	}
}
