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

package core

import (
	"slices"
	"testing"
)

func TestCoreDeterminism(t *testing.T) {
	for _, name := range []string{NamePCG64, NamePCG32} {
		f, err := FactoryByName(name)
		if err != nil {
			t.Fatalf("factory %s: %v", name, err)
		}
		c1 := New(f.New(7))
		c2 := New(f.New(7))
		for i := 0; i < 5; i++ {
			if c1.Uint64() != c2.Uint64() {
				t.Fatalf("%s: Uint64 mismatch at %d", name, i)
			}
		}
		if c1.IntN(10) != c2.IntN(10) {
			t.Fatalf("%s: IntN mismatch", name)
		}
	}
}

func TestSnapshotRestore(t *testing.T) {
	for _, f := range []PRNGFactory{PCG64Factory{}, PCG32Factory{}} {
		c := New(f.New(42))
		c.Uint64()
		snap, err := c.Snapshot()
		if err != nil {
			t.Fatalf("snapshot: %v", err)
		}
		want := []int{c.IntN(6), c.IntN(6), c.IntN(6), c.IntN(6)}
		if err := c.Restore(snap); err != nil {
			t.Fatalf("restore: %v", err)
		}
		got := []int{c.IntN(6), c.IntN(6), c.IntN(6), c.IntN(6)}
		if !slices.Equal(want, got) {
			t.Fatalf("restore diverged: want %v got %v", want, got)
		}
	}
}

func TestPCG32RestoreRejectsBadInput(t *testing.T) {
	r := newPCG32WithSeed(1)
	if err := r.Restore([]byte{1, 2, 3}); err == nil {
		t.Fatalf("expected error for short snapshot")
	}
	if err := r.Restore(make([]byte, 16)); err == nil {
		t.Fatalf("expected error for even increment")
	}
}

func TestFactoryByNameUnknown(t *testing.T) {
	if _, err := FactoryByName("mt19937"); err == nil {
		t.Fatalf("expected error")
	}
	f, err := FactoryByName("")
	if err != nil {
		t.Fatalf("default factory: %v", err)
	}
	if _, ok := f.(PCG64Factory); !ok {
		t.Fatalf("expected pcg64 as default")
	}
}

func TestCorePickAndShuffle(t *testing.T) {
	c := New(Default().New(9))
	if got := c.Pick(nil); got != -1 {
		t.Fatalf("expected -1 for empty pick, got %d", got)
	}
	src := []int{1, 2, 3, 4}
	c.ShuffleInts(src)
	got := slices.Clone(src)
	slices.Sort(got)
	if !slices.Equal([]int{1, 2, 3, 4}, got) {
		t.Fatalf("shuffle changed elements: %v", src)
	}
}

func TestIntNBounds(t *testing.T) {
	for _, f := range []PRNGFactory{PCG64Factory{}, PCG32Factory{}} {
		c := New(f.New(3))
		if got := c.IntN(0); got != -1 {
			t.Fatalf("IntN(0) = %d, want -1", got)
		}
		if got := c.IntN(-5); got != -1 {
			t.Fatalf("IntN(-5) = %d, want -1", got)
		}
		for i := 0; i < 1000; i++ {
			if v := c.IntN(7); v < 0 || v >= 7 {
				t.Fatalf("IntN(7) out of range: %d", v)
			}
		}
	}
}

func TestPCG64RestoreKeepsStateOnError(t *testing.T) {
	a := newPCG64WithSeed(9)
	b := newPCG64WithSeed(9)
	if err := a.Restore([]byte{1, 2, 3}); err == nil {
		t.Fatalf("expected error for short snapshot")
	}
	if a.Uint64() != b.Uint64() {
		t.Fatalf("failed restore changed state")
	}
}
