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

package calc

import (
	"slices"
	"testing"
)

const e = -1

func TestMatchesTable(t *testing.T) {
	cases := []struct {
		name   string
		rows   int
		cols   int
		screen []int8
		want   []int
		runs   int
	}{
		{
			name: "run of two is kept",
			rows: 2, cols: 3,
			screen: []int8{
				e, e, e,
				1, 1, 2,
			},
			want: []int{},
		},
		{
			name: "horizontal three",
			rows: 2, cols: 4,
			screen: []int8{
				e, e, e, e,
				3, 3, 3, 1,
			},
			want: []int{4, 5, 6},
			runs: 1,
		},
		{
			name: "vertical four",
			rows: 4, cols: 2,
			screen: []int8{
				2, e,
				2, e,
				2, e,
				2, 1,
			},
			want: []int{0, 2, 4, 6},
			runs: 1,
		},
		{
			name: "cross shares a cell once",
			rows: 3, cols: 3,
			screen: []int8{
				e, 5, e,
				5, 5, 5,
				e, 5, e,
			},
			want: []int{1, 4, 7, 3, 5},
			runs: 2,
		},
		{
			name: "empty cells never match",
			rows: 1, cols: 4,
			screen: []int8{e, e, e, e},
			want:   []int{},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s := NewScanner(tc.rows, tc.cols, DefaultMinRun)
			got := Matches(s, tc.screen, e)
			if !slices.Equal(got, tc.want) {
				t.Fatalf("want %v got %v", tc.want, got)
			}
			if len(s.Runs()) != tc.runs {
				t.Fatalf("want %d runs got %v", tc.runs, s.Runs())
			}
		})
	}
}

func TestScannerReuse(t *testing.T) {
	s := NewScanner(1, 3, 0)
	if s.MinRun() != DefaultMinRun {
		t.Fatalf("expected default min run")
	}
	if n := CountMatches(s, []int8{4, 4, 4}, e); n != 3 {
		t.Fatalf("expected 3, got %d", n)
	}
	// 第二次掃描不得殘留上一次的標記
	if n := CountMatches(s, []int8{4, 4, 4}, e); n != 3 {
		t.Fatalf("expected 3 on reuse, got %d", n)
	}
	if n := CountMatches(s, []int8{4, 1, 4}, e); n != 0 {
		t.Fatalf("expected 0, got %d", n)
	}
}

func TestCustomMinRun(t *testing.T) {
	s := NewScanner(1, 5, 4)
	if n := CountMatches(s, []int8{2, 2, 2, e, e}, e); n != 0 {
		t.Fatalf("expected no match below min run, got %d", n)
	}
	if n := CountMatches(s, []int8{2, 2, 2, 2, e}, e); n != 4 {
		t.Fatalf("expected 4, got %d", n)
	}
}
