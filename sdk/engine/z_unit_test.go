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

package engine

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zintix-labs/coloris/errs"
	"github.com/zintix-labs/coloris/sdk/board"
	"github.com/zintix-labs/coloris/sdk/core"
	"github.com/zintix-labs/coloris/sdk/piece"
)

const (
	red   board.Color = 0
	green board.Color = 1
	blue  board.Color = 2
	gold  board.Color = 3
)

func testConfig() Config {
	return Config{
		Rows: 10,
		Cols: 6,
		Piece: piece.Params{
			Length:           2,
			CellSize:         40,
			BaseSpeed:        100,
			SpeedUpFactor:    3,
			CriticalDistance: 5,
			RefreshRate:      60,
		},
		Colors:         4,
		MinRun:         3,
		ComboThreshold: 3,
		MercyThreshold: 5,
	}
}

func newTestEngine(t *testing.T, mut func(*Config), opts ...Option) *Engine {
	t.Helper()
	cfg := testConfig()
	if mut != nil {
		mut(&cfg)
	}
	e, err := New(cfg, core.New(core.Default().New(11)), opts...)
	require.NoError(t, err)
	return e
}

// effectLog 收集特效，不自動完成
type effectLog struct {
	effects []Effect
}

func (l *effectLog) hooks() Hooks {
	return Hooks{OnEffect: func(e Effect) { l.effects = append(l.effects, e) }}
}

func (l *effectLog) kinds() []EffectKind {
	out := make([]EffectKind, len(l.effects))
	for i, e := range l.effects {
		out[i] = e.Kind
	}
	return out
}

func TestFallingPieceMergesOnFloor(t *testing.T) {
	var merges []MergeEvent
	e := newTestEngine(t, nil, WithHooks(Hooks{OnMerge: func(m MergeEvent) { merges = append(merges, m) }}))
	e.Falling().SetColors([]board.Color{red, green})
	e.Falling().Place(1, 0, 100)

	merged := false
	for i := 0; i < 1000 && !merged; i++ {
		merged = e.Step()
	}
	require.True(t, merged)

	b := e.Board()
	assert.Equal(t, red, b.At(8, 1))
	assert.Equal(t, green, b.At(9, 1))
	assert.Equal(t, 8, b.TopRow(1))
	assert.Equal(t, 2, b.Count())
	require.Len(t, merges, 1)
	assert.Equal(t, MergeEvent{Row: 8, Col: 1, Colors: []board.Color{red, green}}, merges[0])

	// 下一個方塊回到中央欄、盤面上方
	assert.Equal(t, e.Config().Cols/2, e.Falling().Column())
	assert.Equal(t, 3, e.Falling().Column())
	assert.Equal(t, board.NoBlock, b.TopRow(3))
	assert.Equal(t, -80.0, e.Falling().Y())
	assert.Equal(t, 100.0, e.Falling().Speed())
	assert.Equal(t, PhaseFalling, e.Phase())
	assert.Equal(t, 1, e.Stats().Pieces)
}

func TestPieceStacksOnColumnTop(t *testing.T) {
	e := newTestEngine(t, nil)
	e.Board().Absorb(7, 1, []board.Color{blue, gold, blue})
	e.Falling().SetColors([]board.Color{red, green})
	e.Falling().Place(1, 0, 300)

	// 上緣 280，下緣 + 5 >= 280 才合併
	for !e.Step() {
		require.Less(t, e.Falling().Bottom()+5, 280.0+300.0/60)
	}
	assert.Equal(t, red, e.Board().At(5, 1))
	assert.Equal(t, green, e.Board().At(6, 1))
	assert.Equal(t, 5, e.Board().TopRow(1))
}

func TestDropToLanding(t *testing.T) {
	e := newTestEngine(t, nil)
	e.Falling().SetColors([]board.Color{red, green})
	e.Falling().Place(0, -80, 100)
	require.True(t, e.DropToLanding())
	assert.Equal(t, green, e.Board().At(9, 0))
}

func TestRunOfTwoIsKept(t *testing.T) {
	log := &effectLog{}
	e := newTestEngine(t, nil, WithHooks(log.hooks()))
	e.Board().Set(9, 0, red)
	e.Board().Set(9, 1, red)

	require.NoError(t, e.Resolve())
	assert.Empty(t, log.effects)
	assert.Equal(t, 0, e.Score())
	assert.Equal(t, PhaseFalling, e.Phase())
	assert.Equal(t, 2, e.Board().Count())
}

func TestRunOfThreeScoresAndFiresSpecialPower(t *testing.T) {
	log := &effectLog{}
	e := newTestEngine(t, nil, WithHooks(log.hooks()))
	b := e.Board()
	b.Set(9, 0, red)
	b.Set(9, 1, red)
	b.Set(9, 2, red)

	require.NoError(t, e.Resolve())
	require.Len(t, log.effects, 1)
	first := log.effects[0]
	assert.Equal(t, EffectMatch, first.Kind)
	assert.Equal(t, []int{54, 55, 56}, first.Cells)
	assert.Equal(t, []Point{{9, 0}, {9, 1}, {9, 2}}, first.Points(6))
	assert.Equal(t, 3, e.Score())
	assert.Equal(t, 3, e.Destroyed())

	// 每格登記一次 combo：3 格即達門檻，特殊能力排入佇列，combo 歸零
	assert.True(t, e.SpecialPowerActive())
	assert.True(t, e.Combo().Queued())
	assert.Equal(t, 0, e.Combo().Count())

	// 特效進行中：凍結
	assert.True(t, e.IsDestructionInProgress())
	y := e.Falling().Y()
	assert.False(t, e.Step())
	assert.Equal(t, y, e.Falling().Y())
	assert.False(t, e.MoveLeft())
	assert.False(t, e.Reorder())
	assert.True(t, errors.Is(e.Resolve(), errs.ErrEffectPending))
	assert.True(t, errors.Is(e.CompleteEffect(first.ID+7), errs.ErrEffectMismatch))
	assert.Equal(t, 3, b.Count(), "mismatched completion must not touch the board")

	require.NoError(t, e.CompleteEffect(first.ID))
	assert.Equal(t, 0, b.Count())

	// 連鎖結束後執行特殊能力 (底列已空)
	require.Len(t, log.effects, 2)
	special := log.effects[1]
	assert.Equal(t, EffectSpecialRow, special.Kind)
	assert.Equal(t, 9, special.Row)
	assert.Empty(t, special.Cells)

	require.NoError(t, e.CompleteEffect(special.ID))
	assert.Equal(t, PhaseFalling, e.Phase())
	assert.False(t, e.SpecialPowerActive())
	assert.Equal(t, 3, e.Score())
	assert.Equal(t, 0, e.Destroyed())
	assert.Equal(t, 0, e.Combo().Count())
	assert.Equal(t, 1, e.Stats().SpecialPowers)
	assert.True(t, errors.Is(e.CompleteEffect(special.ID), errs.ErrNoEffect))
}

func TestSpecialPowerClearsBottomRow(t *testing.T) {
	log := &effectLog{}
	e := newTestEngine(t, nil, WithAutoComplete(), WithHooks(log.hooks()))
	b := e.Board()
	// 底列：藍金藍金 + 上方紅色三連
	b.Absorb(8, 0, []board.Color{red, blue})
	b.Absorb(8, 1, []board.Color{red, gold})
	b.Absorb(8, 2, []board.Color{red, blue})
	b.Set(9, 3, gold)

	require.NoError(t, e.Resolve())
	assert.Equal(t, []EffectKind{EffectMatch, EffectSpecialRow}, log.kinds())
	assert.Equal(t, []int{54, 55, 56, 57}, log.effects[1].Cells)
	assert.Equal(t, 3+4, e.Score())
	assert.Equal(t, 0, b.Count())
	assert.True(t, b.IsCompact())
	assert.Equal(t, PhaseFalling, e.Phase())
}

func TestCascadeChainTerminates(t *testing.T) {
	log := &effectLog{}
	var settled []SettleEvent
	e := newTestEngine(t, func(c *Config) {
		c.ComboThreshold = 100
		c.MercyThreshold = 100
	}, WithAutoComplete(), WithHooks(log.hooks()), WithHooks(Hooks{OnSettle: func(s SettleEvent) { settled = append(settled, s) }}))
	b := e.Board()
	b.Set(9, 0, red)
	b.Set(9, 1, red)
	b.Set(9, 2, red)
	b.Set(9, 3, blue)
	b.Set(9, 4, blue)
	b.Set(8, 2, blue)

	require.NoError(t, e.Resolve())
	assert.Equal(t, []EffectKind{EffectMatch, EffectMatch}, log.kinds())
	assert.Equal(t, []int{56, 57, 58}, log.effects[1].Cells)
	assert.Equal(t, 6, e.Score())
	assert.Equal(t, 0, b.Count())
	assert.Equal(t, 2, e.Stats().MaxChain)
	assert.Equal(t, 1, e.Stats().Cascades)
	require.Len(t, settled, 1)
	assert.Equal(t, SettleEvent{Chain: 2, Destroyed: 6}, settled[0])
	assert.Equal(t, 0, e.Destroyed())
}

func TestMercyRuleClearsBottomRow(t *testing.T) {
	log := &effectLog{}
	e := newTestEngine(t, func(c *Config) { c.ComboThreshold = 100 }, WithAutoComplete(), WithHooks(log.hooks()))
	b := e.Board()
	for c, col := range []board.Color{red, red, red, green, blue, gold} {
		b.Set(9, c, col)
	}
	b.Absorb(6, 5, []board.Color{gold, gold, gold})

	require.NoError(t, e.Resolve())
	assert.Equal(t, []EffectKind{EffectMatch, EffectMercyRow}, log.kinds())
	assert.Len(t, log.effects[0].Cells, 7)
	assert.Equal(t, []int{57, 58}, log.effects[1].Cells)
	assert.Equal(t, 9, e.Score())
	assert.Equal(t, 0, b.Count())
	assert.Equal(t, 1, e.Stats().MercyClears)
	assert.Equal(t, 0, e.Destroyed())
	assert.Equal(t, PhaseFalling, e.Phase())
}

func fillNoMatch(b *board.Board, fromRow int, col int) {
	for r := fromRow; r < b.Rows(); r++ {
		b.Set(r, col, board.Color((r%2)*2+col%2))
	}
}

func TestFullBoardWithoutMatchesIsGameOver(t *testing.T) {
	reason := ""
	e := newTestEngine(t, nil, WithHooks(Hooks{OnGameOver: func(r string) { reason = r }}))
	for c := 0; c < 6; c++ {
		fillNoMatch(e.Board(), 0, c)
	}
	require.NoError(t, e.Resolve())
	assert.True(t, e.IsGameOver())
	assert.Equal(t, "column overflow", reason)
	assert.Equal(t, 0, e.Score())
	assert.False(t, e.Step())
	assert.False(t, e.SpeedUp())
	assert.True(t, errors.Is(e.Resolve(), errs.ErrGameOver))
}

func TestPieceThatCannotEnterEndsGame(t *testing.T) {
	e := newTestEngine(t, nil)
	fillNoMatch(e.Board(), 1, 3)
	require.Equal(t, 3, e.Falling().Column())
	for i := 0; i < 100 && !e.IsGameOver(); i++ {
		e.Step()
	}
	assert.True(t, e.IsGameOver())
	assert.Equal(t, 9, e.Board().Count())
}

func TestSynchronousHostCompletesInsideHook(t *testing.T) {
	var e *Engine
	done := 0
	e = newTestEngine(t, nil, WithHooks(Hooks{OnEffect: func(ef Effect) {
		done++
		require.NoError(t, e.CompleteEffect(ef.ID))
	}}))
	e.Board().Set(9, 0, green)
	e.Board().Set(8, 0, green)
	e.Board().Set(7, 0, green)
	require.NoError(t, e.Resolve())
	assert.Equal(t, 2, done)
	assert.Equal(t, PhaseFalling, e.Phase())
	assert.Equal(t, 3, e.Score())
}

func TestRestart(t *testing.T) {
	e := newTestEngine(t, nil, WithAutoComplete())
	e.Board().Set(9, 0, red)
	e.Board().Set(9, 1, red)
	e.Board().Set(9, 2, red)
	require.NoError(t, e.Resolve())
	require.Equal(t, 3, e.Score())
	e.Restart()
	assert.Equal(t, 0, e.Score())
	assert.Equal(t, 0, e.Board().Count())
	assert.Equal(t, Stats{}, e.Stats())
	assert.Equal(t, PhaseFalling, e.Phase())
}

func TestInvalidConfig(t *testing.T) {
	cfg := testConfig()
	cfg.Piece.Length = 11
	_, err := New(cfg, core.New(core.Default().New(1)))
	require.Error(t, err)
	_, err = New(testConfig(), nil)
	require.Error(t, err)
}

func TestComboFiresOncePerActivation(t *testing.T) {
	c := NewComboTracker(3)
	assert.False(t, c.Register())
	assert.False(t, c.Register())
	assert.True(t, c.Register())
	assert.Equal(t, 0, c.Count())
	assert.True(t, c.Active())

	// 特殊能力未完成前，再次達標不觸發
	for i := 0; i < 5; i++ {
		assert.False(t, c.Register())
	}
	assert.Equal(t, 5, c.Count())
	assert.True(t, c.take())
	assert.False(t, c.take())

	c.finish()
	c.Reset()
	assert.False(t, c.Active())
	assert.False(t, c.Register())
	assert.False(t, c.Register())
	assert.True(t, c.Register())
	assert.Equal(t, 2, c.Fired())
}

func TestComboDefaultThreshold(t *testing.T) {
	c := NewComboTracker(0)
	assert.Equal(t, DefaultComboThreshold, c.Threshold())
}

func TestEffectKindNames(t *testing.T) {
	assert.Equal(t, "match", EffectMatch.String())
	assert.Equal(t, "special_row", EffectSpecialRow.String())
	assert.True(t, EffectMercyRow.IsRowClear())
	assert.False(t, EffectMatch.IsRowClear())
	assert.Equal(t, "awaiting_effect", PhaseAwaitingEffect.String())
}

func TestConfigRejectsBadColorWeights(t *testing.T) {
	cases := []struct {
		name string
		mut  func(*Config)
	}{
		{"negative weight", func(c *Config) { c.ColorWeights = []int{1, -1, 1, 1} }},
		{"length mismatch", func(c *Config) { c.ColorWeights = []int{1, 2} }},
		{"all zero", func(c *Config) { c.ColorWeights = []int{0, 0, 0, 0} }},
		{"too many colors", func(c *Config) { c.Colors = 27 }},
	}
	for _, tc := range cases {
		cfg := testConfig()
		tc.mut(&cfg)
		assert.NotPanics(t, func() {
			e, err := New(cfg, core.New(core.Default().New(1)))
			assert.Nil(t, e, tc.name)
			assert.Equal(t, errs.Fatal, errs.Level(err), tc.name)
		}, tc.name)
	}

	cfg := testConfig()
	cfg.ColorWeights = []int{0, 1, 0, 0}
	e, err := New(cfg, core.New(core.Default().New(1)))
	require.NoError(t, err)
	for _, c := range e.Falling().Colors() {
		assert.Equal(t, green, c)
	}
}
