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
	"errors"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/zintix-labs/coloris"
	"github.com/zintix-labs/coloris/dto"
	"github.com/zintix-labs/coloris/errs"
)

// action 鍵盤事件轉換後的動作
type action int

const (
	actNone action = iota
	actInput
	actPause
	actQuit
)

// keyToInput 鍵位對應；actInput 時 Input 有效
func keyToInput(ev *tcell.EventKey) (coloris.Input, action) {
	switch ev.Key() {
	case tcell.KeyLeft:
		return coloris.Input{Op: dto.OpLeft}, actInput
	case tcell.KeyRight:
		return coloris.Input{Op: dto.OpRight}, actInput
	case tcell.KeyDown:
		return coloris.Input{Op: dto.OpSpeedUp}, actInput
	case tcell.KeyUp:
		return coloris.Input{Op: dto.OpReorder}, actInput
	case tcell.KeyEnter:
		return coloris.Input{Op: dto.OpDrop}, actInput
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return coloris.Input{}, actQuit
	case tcell.KeyRune:
		switch ev.Rune() {
		case 'a', 'A':
			return coloris.Input{Op: dto.OpLeft}, actInput
		case 'd', 'D':
			return coloris.Input{Op: dto.OpRight}, actInput
		case 's', 'S':
			return coloris.Input{Op: dto.OpSpeedUp}, actInput
		case 'w', 'W', ' ':
			return coloris.Input{Op: dto.OpReorder}, actInput
		case 'r', 'R':
			return coloris.Input{Op: dto.OpRestart}, actInput
		case 'p', 'P':
			return coloris.Input{}, actPause
		case 'q', 'Q':
			return coloris.Input{}, actQuit
		}
	}
	return coloris.Input{}, actNone
}

// game 終端機主迴圈：事件 goroutine 收鍵盤，ticker 以刷新率推進引擎
type game struct {
	sess    *coloris.Session
	screen  tcell.Screen
	view    *view
	blink   *blinker
	st      dto.SessionState
	period  time.Duration
	paused  bool
	stopped bool
}

func newGame(s *coloris.Session, screen tcell.Screen, blink time.Duration) (*game, error) {
	st, err := s.State()
	if err != nil {
		return nil, err
	}
	rate := s.Setting().Timing.RefreshRate
	if rate <= 0 {
		return nil, errs.NewFatal("refresh rate must be positive")
	}
	return &game{
		sess:   s,
		screen: screen,
		view:   newView(screen),
		blink:  newBlinker(blink),
		st:     st,
		period: time.Duration(float64(time.Second) / rate),
	}, nil
}

func (g *game) loop() error {
	events := make(chan tcell.Event, 16)
	quit := make(chan struct{})
	defer close(quit)
	go func() {
		for {
			ev := g.screen.PollEvent()
			if ev == nil {
				return
			}
			select {
			case events <- ev:
			case <-quit:
				return
			}
		}
	}()

	ticker := time.NewTicker(g.period)
	defer ticker.Stop()
	g.draw(time.Now())
	for !g.stopped {
		select {
		case ev := <-events:
			if err := g.handle(ev); err != nil {
				return err
			}
		case now := <-ticker.C:
			if err := g.frame(now); err != nil {
				return err
			}
		}
		g.draw(time.Now())
	}
	return nil
}

func (g *game) handle(ev tcell.Event) error {
	switch ev := ev.(type) {
	case *tcell.EventResize:
		g.screen.Sync()
	case *tcell.EventKey:
		in, act := keyToInput(ev)
		switch act {
		case actQuit:
			g.stopped = true
		case actPause:
			g.paused = !g.paused
		case actInput:
			if in.Op == dto.OpRestart {
				g.blink.Reset()
				g.paused = false
			} else if g.paused {
				return nil
			}
			return g.apply(in)
		}
	}
	return nil
}

// frame 每個刷新週期呼叫一次：有特效時先播完，完成後才繼續推進
func (g *game) frame(now time.Time) error {
	if g.paused || g.sess.IsGameOver() {
		return nil
	}
	if id, ok := g.blink.Done(now); ok {
		return g.apply(coloris.Input{Op: dto.OpEffect, Effect: id})
	}
	if g.st.Pending != nil {
		g.blink.Start(g.st.Pending, now)
		return nil
	}
	return g.apply(coloris.Input{Op: dto.OpTick})
}

func (g *game) apply(in coloris.Input) error {
	st, _, err := g.sess.ApplyState(in)
	if err != nil {
		// 紀錄滿了再玩下去回放就不完整，結束並交給 main 寫出回放
		if errors.Is(err, errs.ErrInputLogFull) {
			return err
		}
		// 特效相關的 Warn 只代表前端與引擎不同步，以最新狀態為準
		if errs.Level(err) != errs.Warn {
			return err
		}
		if st, err = g.sess.State(); err != nil {
			return err
		}
	}
	g.st = st
	return nil
}

func (g *game) draw(now time.Time) {
	g.view.Draw(&g.st, g.blink, now, g.paused)
}
