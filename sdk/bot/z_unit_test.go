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

package bot

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zintix-labs/coloris/sdk/board"
	"github.com/zintix-labs/coloris/sdk/core"
	"github.com/zintix-labs/coloris/sdk/engine"
	"github.com/zintix-labs/coloris/sdk/piece"
)

func newEngine(t *testing.T, seed int64) *engine.Engine {
	t.Helper()
	cfg := engine.Config{
		Rows: 10,
		Cols: 6,
		Piece: piece.Params{
			Length: 2, CellSize: 40, BaseSpeed: 100, SpeedUpFactor: 3,
			CriticalDistance: 5, RefreshRate: 60,
		},
		Colors:         4,
		MinRun:         3,
		ComboThreshold: 3,
		MercyThreshold: 5,
	}
	e, err := engine.New(cfg, core.New(core.Default().New(seed)), engine.WithAutoComplete())
	require.NoError(t, err)
	return e
}

func TestGreedyCompletesRun(t *testing.T) {
	e := newEngine(t, 1)
	e.Board().Set(9, 0, 0)
	e.Board().Set(9, 1, 0)
	e.Falling().SetColors([]board.Color{1, 0})

	g := NewGreedy()
	p := g.Plan(e)
	assert.Equal(t, Plan{Column: 2, Rotations: 0}, p)
	require.True(t, Apply(e, p))
	// 3 格消除觸發特殊能力，落下的綠色格接著被底列爆破
	assert.Equal(t, 4, e.Score())
	assert.Equal(t, 0, e.Board().Count())
}

func TestGreedyUsesRotation(t *testing.T) {
	e := newEngine(t, 2)
	e.Board().Set(9, 4, 2)
	e.Board().Set(9, 5, 2)
	e.Falling().SetColors([]board.Color{2, 1})

	p := NewGreedy().Plan(e)
	assert.Equal(t, Plan{Column: 3, Rotations: 1}, p)
	Apply(e, p)
	assert.Equal(t, 4, e.Score())
}

func TestRandomStaysInBounds(t *testing.T) {
	e := newEngine(t, 3)
	r := NewRandom(core.New(core.Default().New(5)))
	for i := 0; i < 50; i++ {
		p := r.Plan(e)
		assert.True(t, p.Column >= 0 && p.Column < 6)
		assert.True(t, p.Rotations >= 0 && p.Rotations < 2)
	}
}

func TestBotsKeepBoardConsistent(t *testing.T) {
	reg := Default()
	for _, name := range reg.Names() {
		e := newEngine(t, 7)
		s, err := reg.Build(name, core.New(core.Default().New(8)))
		require.NoError(t, err)
		for i := 0; i < 2000 && !e.IsGameOver(); i++ {
			Apply(e, s.Plan(e))
			require.True(t, e.Board().IsCompact(), name)
			require.Equal(t, engine.PhaseFalling == e.Phase() || e.IsGameOver(), true, name)
		}
		assert.Positive(t, e.Stats().Pieces, name)
	}
}

func TestRegistry(t *testing.T) {
	reg := Default()
	assert.Equal(t, []string{NameGreedy, NameRandom}, reg.Names())
	assert.Error(t, reg.Register(NameGreedy, func(*core.Core) Strategy { return NewGreedy() }))
	_, err := reg.Build("oracle", nil)
	assert.Error(t, err)
	assert.True(t, reg.IsExist(NameRandom))
}
