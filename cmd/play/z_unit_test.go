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

package main

import (
	"strings"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zintix-labs/coloris"
	"github.com/zintix-labs/coloris/demo"
	"github.com/zintix-labs/coloris/dto"
	"github.com/zintix-labs/coloris/errs"
	"github.com/zintix-labs/coloris/sdk/engine"
)

func newSimScreen(t *testing.T) tcell.SimulationScreen {
	t.Helper()
	s := tcell.NewSimulationScreen("UTF-8")
	require.NoError(t, s.Init())
	s.SetSize(80, 30)
	t.Cleanup(s.Fini)
	return s
}

func newTestGame(t *testing.T, screen tcell.Screen) *game {
	t.Helper()
	lab, err := demo.NewLab()
	require.NoError(t, err)
	gid, err := lab.Resolve(0, "classic")
	require.NoError(t, err)
	s, err := lab.NewSessionWithSeed(gid, 7)
	require.NoError(t, err)
	g, err := newGame(s, screen, 40*time.Millisecond)
	require.NoError(t, err)
	return g
}

func rowText(s tcell.SimulationScreen, y int) string {
	w, _ := s.Size()
	var sb strings.Builder
	for x := 0; x < w; x++ {
		ch, _, _, _ := s.GetContent(x, y)
		sb.WriteRune(ch)
	}
	return sb.String()
}

func TestKeyToInput(t *testing.T) {
	cases := []struct {
		ev  *tcell.EventKey
		op  string
		act action
	}{
		{tcell.NewEventKey(tcell.KeyLeft, 0, tcell.ModNone), dto.OpLeft, actInput},
		{tcell.NewEventKey(tcell.KeyRune, 'd', tcell.ModNone), dto.OpRight, actInput},
		{tcell.NewEventKey(tcell.KeyDown, 0, tcell.ModNone), dto.OpSpeedUp, actInput},
		{tcell.NewEventKey(tcell.KeyRune, ' ', tcell.ModNone), dto.OpReorder, actInput},
		{tcell.NewEventKey(tcell.KeyEnter, 0, tcell.ModNone), dto.OpDrop, actInput},
		{tcell.NewEventKey(tcell.KeyRune, 'r', tcell.ModNone), dto.OpRestart, actInput},
		{tcell.NewEventKey(tcell.KeyRune, 'p', tcell.ModNone), "", actPause},
		{tcell.NewEventKey(tcell.KeyEscape, 0, tcell.ModNone), "", actQuit},
		{tcell.NewEventKey(tcell.KeyRune, 'z', tcell.ModNone), "", actNone},
	}
	for _, c := range cases {
		in, act := keyToInput(c.ev)
		assert.Equal(t, c.act, act, c.ev.Name())
		assert.Equal(t, c.op, in.Op, c.ev.Name())
	}
}

func TestBlinker(t *testing.T) {
	b := newBlinker(100 * time.Millisecond)
	t0 := time.Unix(0, 0)
	eff := &dto.EffectDTO{ID: 3, Cells: []engine.Point{{Row: 5, Col: 1}}}

	b.Start(eff, t0)
	assert.True(t, b.Active())
	assert.False(t, b.Hidden(5, 1, t0))
	assert.True(t, b.Hidden(5, 1, t0.Add(blinkPeriod)))
	assert.False(t, b.Hidden(4, 1, t0.Add(blinkPeriod)))

	// 同一特效不重置計時
	b.Start(eff, t0.Add(50*time.Millisecond))
	_, ok := b.Done(t0.Add(99 * time.Millisecond))
	assert.False(t, ok)
	id, ok := b.Done(t0.Add(100 * time.Millisecond))
	assert.True(t, ok)
	assert.Equal(t, uint64(3), id)
	assert.False(t, b.Active())
	assert.False(t, b.Hidden(5, 1, t0.Add(blinkPeriod)))
}

func TestGameHandleAndFrame(t *testing.T) {
	screen := newSimScreen(t)
	g := newTestGame(t, screen)
	col := g.st.Piece.Column

	require.NoError(t, g.handle(tcell.NewEventKey(tcell.KeyLeft, 0, tcell.ModNone)))
	assert.Equal(t, col-1, g.st.Piece.Column)

	y := g.st.Piece.Y
	require.NoError(t, g.frame(time.Now()))
	assert.Greater(t, g.st.Piece.Y, y)
	assert.Equal(t, 1, g.st.Stats.Ticks)

	// 暫停時不推進也不接受移動
	require.NoError(t, g.handle(tcell.NewEventKey(tcell.KeyRune, 'p', tcell.ModNone)))
	require.True(t, g.paused)
	require.NoError(t, g.frame(time.Now()))
	require.NoError(t, g.handle(tcell.NewEventKey(tcell.KeyRight, 0, tcell.ModNone)))
	assert.Equal(t, 1, g.st.Stats.Ticks)
	assert.Equal(t, col-1, g.st.Piece.Column)

	require.NoError(t, g.handle(tcell.NewEventKey(tcell.KeyRune, 'q', tcell.ModNone)))
	assert.True(t, g.stopped)
}

func TestGameCompletesEffects(t *testing.T) {
	screen := newSimScreen(t)
	g := newTestGame(t, screen)
	now := time.Unix(0, 0)
	// 持續直落並推進時間，直到有一個消除特效播完並交回引擎
	var watching uint64
	completed := false
	for i := 0; i < 20000 && !completed && !g.sess.IsGameOver(); i++ {
		now = now.Add(g.period)
		if g.st.Phase == "falling" {
			// 輪流落在各欄
			require.NoError(t, g.apply(coloris.Input{Op: dto.OpLeft, N: g.st.Geometry.Cols}))
			if n := i % g.st.Geometry.Cols; n > 0 {
				require.NoError(t, g.apply(coloris.Input{Op: dto.OpRight, N: n}))
			}
			require.NoError(t, g.apply(coloris.Input{Op: dto.OpDrop}))
		}
		if g.st.Pending != nil && watching == 0 {
			watching = g.st.Pending.ID
		}
		require.NoError(t, g.frame(now))
		if watching != 0 && (g.st.Pending == nil || g.st.Pending.ID != watching) {
			completed = true
		}
	}
	if !completed {
		t.Skip("no destruction happened before game over")
	}
	assert.GreaterOrEqual(t, g.st.Stats.Pieces, 1)
}

func TestViewDraw(t *testing.T) {
	screen := newSimScreen(t)
	g := newTestGame(t, screen)
	g.draw(time.Now())

	found := false
	_, h := screen.Size()
	for y := 0; y < h; y++ {
		if strings.Contains(rowText(screen, y), "score  0") {
			found = true
			break
		}
	}
	assert.True(t, found, "score line not rendered")

	// 盤面底框
	bottom := rowText(screen, g.st.Geometry.Rows+1)
	assert.True(t, strings.HasPrefix(bottom, "└"))

	g.paused = true
	g.draw(time.Now())
	paused := false
	for y := 0; y < h; y++ {
		if strings.Contains(rowText(screen, y), "PAUSED") {
			paused = true
		}
	}
	assert.True(t, paused)
}

func TestCellGlyph(t *testing.T) {
	g, _ := cellGlyph(0)
	assert.Equal(t, '█', g[0])
	g, _ = cellGlyph(len(palette) + 1)
	assert.Equal(t, rune('A'+len(palette)+1), g[0])
}

func TestPieceRows(t *testing.T) {
	st := &dto.SessionState{
		Geometry: engine.Geometry{CellSize: 40},
		Piece:    dto.PieceDTO{Y: -120, Colors: []int{0, 1, 2}},
	}
	assert.Equal(t, []int{-3, -2, -1}, pieceRows(st))
	st.Piece.Y = 41
	assert.Equal(t, []int{1, 2, 3}, pieceRows(st))
}

func TestGameStopsWhenInputLogIsFull(t *testing.T) {
	screen := newSimScreen(t)
	lab, err := demo.NewLab()
	require.NoError(t, err)
	s, err := lab.NewSessionWithSeed(1, 7, coloris.WithInputLogLimit(2))
	require.NoError(t, err)
	g, err := newGame(s, screen, 40*time.Millisecond)
	require.NoError(t, err)

	// 連續 tick 併成一筆，不會很快塞滿
	now := time.Unix(0, 0)
	for range 10 {
		now = now.Add(g.period)
		require.NoError(t, g.frame(now))
	}
	require.NoError(t, g.handle(tcell.NewEventKey(tcell.KeyLeft, 0, tcell.ModNone)))
	assert.Len(t, s.Replay().Inputs, 2)

	err = g.frame(now.Add(g.period))
	assert.ErrorIs(t, err, errs.ErrInputLogFull)
}
