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

// play 終端機版 Coloris。
//
//	go run ./cmd/play -name classic
//	go run ./cmd/play -game 3 -seed 42 -replay ./last.replay
//
// 操作：←/→ 或 a/d 移動、↓ 或 s 加速、↑/空白 或 w 轉換顏色順序、Enter 直接落下、
// p 暫停、r 重新開始、q / Esc 離開。
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/zintix-labs/coloris"
	"github.com/zintix-labs/coloris/demo"
	"github.com/zintix-labs/coloris/errs"
	"github.com/zintix-labs/coloris/spec"
)

type options struct {
	id     uint
	name   string
	seed   int64
	auto   bool
	blink  time.Duration
	replay string
}

func main() {
	opt := options{}
	flag.UintVar(&opt.id, "game", 0, "target game id")
	flag.StringVar(&opt.name, "name", "classic", "target game name (used when -game is not set)")
	flag.Int64Var(&opt.seed, "seed", -1, "int64 seed; negative for a random seed")
	flag.BoolVar(&opt.auto, "auto", false, "complete destruction effects instantly (no blinking)")
	flag.DurationVar(&opt.blink, "blink", DefaultBlink, "destruction blink duration")
	flag.StringVar(&opt.replay, "replay", "", "write the replay file here on exit")
	flag.Parse()

	if err := run(opt); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(opt options) error {
	lab, err := demo.NewLab()
	if err != nil {
		return err
	}
	gid, err := lab.Resolve(spec.GID(opt.id), opt.name)
	if err != nil {
		return err
	}
	var sopts []coloris.SessionOption
	if opt.auto {
		sopts = append(sopts, coloris.WithAutoEffects())
	}
	var s *coloris.Session
	if opt.seed < 0 {
		s, err = lab.NewSession(gid, sopts...)
	} else {
		s, err = lab.NewSessionWithSeed(gid, opt.seed, sopts...)
	}
	if err != nil {
		return err
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		return errs.Wrap(err, "new screen failed")
	}
	if err := screen.Init(); err != nil {
		return errs.Wrap(err, "init screen failed")
	}
	g, err := newGame(s, screen, opt.blink)
	if err != nil {
		screen.Fini()
		return err
	}
	loopErr := g.loop()
	screen.Fini()

	if opt.replay != "" {
		if err := writeReplay(opt.replay, s); err != nil {
			return err
		}
	}
	if loopErr != nil {
		return loopErr
	}
	st, err := s.State()
	if err != nil {
		return err
	}
	fmt.Printf("%s  score %d  pieces %d  max chain %d  seed %d\n", st.GameName, st.Score, st.Stats.Pieces, st.Stats.MaxChain, s.Seed())
	return nil
}

func writeReplay(path string, s *coloris.Session) error {
	f, err := os.Create(path)
	if err != nil {
		return errs.Wrap(err, "create replay file failed")
	}
	defer f.Close()
	return s.Replay().Encode(f)
}
