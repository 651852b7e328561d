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

package catalog

import (
	"errors"
	"testing"
	"testing/fstest"

	"github.com/zintix-labs/coloris/errs"
)

const classicYAML = `
game_name: classic
game_id: 1
board:
  rows: 12
  columns: 6
`

const wideJSON = `{"game_name":"wide","game_id":2,"board":{"rows":10,"columns":8},"piece":{"length":4,"colors":5},"rng":"pcg32"}`

func testFS() fstest.MapFS {
	return fstest.MapFS{
		"classic.yaml": {Data: []byte(classicYAML)},
		"wide.json":    {Data: []byte(wideJSON)},
		"README.md":    {Data: []byte("ignored")},
	}
}

func TestRegisterAndLookup(t *testing.T) {
	c, err := New(testFS())
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	err = c.Register(
		Entry{GID: 2, Name: " Wide ", ConfigName: "wide.json"},
		Entry{GID: 1, Name: "classic", ConfigName: "classic.yaml"},
	)
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	ids := c.IDs()
	if len(ids) != 2 || ids[0] != 1 || ids[1] != 2 {
		t.Fatalf("ids not sorted: %v", ids)
	}
	if e, ok := c.GetByName("WIDE"); !ok || e.GID != 2 {
		t.Fatalf("lookup by name failed: %+v", e)
	}

	gs, err := c.GameSettingById(2)
	if err != nil {
		t.Fatalf("setting: %v", err)
	}
	sum := NewSummary(gs)
	if sum.Columns != 8 || sum.PieceLength != 4 || sum.Colors != 5 || sum.RNG != "pcg32" {
		t.Fatalf("unexpected summary: %+v", sum)
	}
	gs, err = c.GameSettingByName("classic")
	if err != nil {
		t.Fatalf("setting: %v", err)
	}
	if NewSummary(gs).RNG != "pcg64" {
		t.Fatalf("default rng should be pcg64")
	}

	_, err = c.GameSettingById(99)
	if !errors.Is(err, errs.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestRegisterRejects(t *testing.T) {
	c, _ := New(testFS())
	if err := c.Register(Entry{GID: 1, Name: "a", ConfigName: "missing.yaml"}); err == nil {
		t.Fatalf("expected missing file error")
	}
	if err := c.Register(Entry{GID: 1, Name: "a", ConfigName: "../classic.yaml"}); err == nil {
		t.Fatalf("expected path error")
	}
	if err := c.Register(
		Entry{GID: 1, Name: "a", ConfigName: "classic.yaml"},
		Entry{GID: 1, Name: "b", ConfigName: "wide.json"},
	); !errors.Is(err, ErrDupID) {
		t.Fatalf("expected dup id, got %v", err)
	}
	// 整批失敗時不寫入
	if len(c.IDs()) != 0 {
		t.Fatalf("failed batch must not register")
	}
	if err := c.Register(Entry{GID: 1, Name: "a", ConfigName: "classic.yaml"}); err != nil {
		t.Fatalf("register: %v", err)
	}
	if err := c.Register(Entry{GID: 3, Name: "b", ConfigName: "classic.yaml"}); err == nil {
		t.Fatalf("expected dup config error")
	}
	c.Freeze()
	if err := c.Register(Entry{GID: 4, Name: "c", ConfigName: "wide.json"}); err == nil {
		t.Fatalf("expected frozen error")
	}
}

func TestMultiFSRejectsSubdirAndDup(t *testing.T) {
	if _, err := New(fstest.MapFS{"sub/a.yaml": {Data: []byte(classicYAML)}}); err == nil {
		t.Fatalf("expected flat fs error")
	}
	if _, err := New(testFS(), testFS()); err == nil {
		t.Fatalf("expected duplicate across fs error")
	}
	if _, err := New(); err == nil {
		t.Fatalf("expected no fs error")
	}
}
