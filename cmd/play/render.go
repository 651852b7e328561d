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
	"fmt"
	"math"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"
	"github.com/zintix-labs/coloris/dto"
)

const cellWidth = 2 // 一格畫成兩個字元寬，視覺上接近正方形

var palette = []tcell.Color{
	tcell.ColorRed,
	tcell.ColorGreen,
	tcell.ColorBlue,
	tcell.ColorYellow,
	tcell.ColorPurple,
	tcell.ColorAqua,
	tcell.ColorOrange,
	tcell.ColorWhite,
}

var (
	styleFrame = tcell.StyleDefault.Foreground(tcell.ColorGray)
	styleText  = tcell.StyleDefault.Foreground(tcell.ColorWhite)
	styleAlert = tcell.StyleDefault.Foreground(tcell.ColorRed).Bold(true)
	styleHint  = tcell.StyleDefault.Foreground(tcell.ColorGray)
)

var help = []string{
	"←/→ a/d  move",
	"↓ s      speed up",
	"↑ w spc  reorder",
	"enter    drop",
	"p pause  r restart",
	"q esc    quit",
}

type view struct {
	screen tcell.Screen
}

func newView(screen tcell.Screen) *view {
	return &view{screen: screen}
}

// cellGlyph 顏色超過色盤時改以字母區分
func cellGlyph(color int) ([cellWidth]rune, tcell.Style) {
	st := tcell.StyleDefault.Foreground(palette[color%len(palette)])
	if color < len(palette) {
		return [cellWidth]rune{'█', '█'}, st
	}
	ch := rune('A' + color)
	return [cellWidth]rune{ch, ch}, st.Reverse(true)
}

// pieceRows 落下中方塊各格所在的列 (可能為負，表示尚在盤面上方)
func pieceRows(st *dto.SessionState) []int {
	size := float64(st.Geometry.CellSize)
	if size <= 0 {
		return nil
	}
	top := int(math.Floor(st.Piece.Y / size))
	rows := make([]int, len(st.Piece.Colors))
	for i := range rows {
		rows[i] = top + i
	}
	return rows
}

// Draw 重繪整個畫面；盤面左上角固定在 (1,1)
func (v *view) Draw(st *dto.SessionState, b *blinker, now time.Time, paused bool) {
	s := v.screen
	s.Clear()
	rows, cols := st.Geometry.Rows, st.Geometry.Cols
	v.frame(rows, cols)

	for r := 0; r < rows && r < len(st.Board); r++ {
		for c := 0; c < cols && c < len(st.Board[r]); c++ {
			color := st.Board[r][c]
			if color < 0 || b.Hidden(r, c, now) {
				continue
			}
			v.cell(r, c, color)
		}
	}
	if st.Phase == "falling" {
		for i, r := range pieceRows(st) {
			if r < 0 || r >= rows {
				continue
			}
			v.cell(r, st.Piece.Column, st.Piece.Colors[i])
		}
	}

	x := 1 + cols*cellWidth + 3
	y := 1
	drawText(s, x, y, styleText, st.GameName)
	y += 2
	drawText(s, x, y, styleText, "next")
	for i, color := range st.Next {
		g, style := cellGlyph(color)
		for k, ch := range g {
			s.SetContent(x+6+k, y+i, ch, nil, style)
		}
	}
	y += max(len(st.Next), 1) + 1
	drawText(s, x, y, styleText, fmt.Sprintf("score  %d", st.Score))
	y++
	drawText(s, x, y, styleText, fmt.Sprintf("combo  %d", st.Combo))
	y++
	drawText(s, x, y, styleText, fmt.Sprintf("chain  %d", st.Stats.MaxChain))
	y += 2
	switch {
	case st.Phase == "game_over":
		drawText(s, x, y, styleAlert, "GAME OVER  (r to restart)")
	case paused:
		drawText(s, x, y, styleAlert, "PAUSED")
	case st.SpecialPower:
		drawText(s, x, y, styleAlert, "SPECIAL POWER")
	}
	y += 2
	for i, line := range help {
		drawText(s, x, y+i, styleHint, line)
	}
	s.Show()
}

func (v *view) cell(row, col, color int) {
	g, style := cellGlyph(color)
	x := 1 + col*cellWidth
	for k, ch := range g {
		v.screen.SetContent(x+k, 1+row, ch, nil, style)
	}
}

func (v *view) frame(rows, cols int) {
	s := v.screen
	w := cols*cellWidth + 1
	for y := 0; y <= rows+1; y++ {
		s.SetContent(0, y, '│', nil, styleFrame)
		s.SetContent(w, y, '│', nil, styleFrame)
	}
	for x := 0; x <= w; x++ {
		s.SetContent(x, rows+1, '─', nil, styleFrame)
	}
	s.SetContent(0, rows+1, '└', nil, styleFrame)
	s.SetContent(w, rows+1, '┘', nil, styleFrame)
}

// drawText 依字元實際寬度排版 (CJK 佔兩格)
func drawText(s tcell.Screen, x, y int, style tcell.Style, text string) int {
	for _, ch := range text {
		s.SetContent(x, y, ch, nil, style)
		x += max(runewidth.RuneWidth(ch), 1)
	}
	return x
}
