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

package coloris

import (
	"io"
	"sync"
	"sync/atomic"
	"time"

	"github.com/cheggaaa/pb/v3"
	"github.com/zintix-labs/coloris/errs"
	"github.com/zintix-labs/coloris/recorder"
	"github.com/zintix-labs/coloris/sdk/bot"
	"github.com/zintix-labs/coloris/sdk/core"
	"github.com/zintix-labs/coloris/sdk/engine"
	"github.com/zintix-labs/coloris/spec"
	"github.com/zintix-labs/coloris/stats"
)

// DefaultMaxPieces 單局落子上限；強的策略可能永遠不溢出
const DefaultMaxPieces = 5_000

// Simulator 以自動遊玩策略大量模擬，產出分數與存活統計。
//
// 每個 worker 持有自己的 engine、策略與紀錄員，互不共享；seed 由 seedMaker 依序派生，
// 因此相同 seed + 相同 worker 數的結果完全相同。
type Simulator struct {
	GameName  string
	GameId    spec.GID
	Bot       string
	MaxPieces int
	gs        *spec.GameSetting
	bots      *bot.Registry
	cf        core.PRNGFactory
	initSeed  int64
	seedmaker *seedMaker
}

func newSimulatorWithSeed(gs *spec.GameSetting, bots *bot.Registry, botName string, cf core.PRNGFactory, seed int64) *Simulator {
	return &Simulator{
		GameName:  gs.GameName,
		GameId:    gs.GameID,
		Bot:       botName,
		MaxPieces: DefaultMaxPieces,
		gs:        gs,
		bots:      bots,
		cf:        cf,
		initSeed:  seed,
		seedmaker: newSeedMaker(seed),
	}
}

// simWorker 一條模擬線
type simWorker struct {
	eng   *engine.Engine
	strat bot.Strategy
	rec   *recorder.GameRecorder
}

func (s *Simulator) newWorker(seed int64, keep bool) (*simWorker, error) {
	rec, err := recorder.NewGameRecorder(s.GameName, s.GameId, s.Bot, keep)
	if err != nil {
		return nil, err
	}
	eng, err := engine.NewFromSetting(s.gs, core.New(s.cf.New(seed)),
		engine.WithAutoComplete(),
		engine.WithHooks(rec.Hooks()),
	)
	if err != nil {
		return nil, err
	}
	// 策略使用獨立的亂數流，不干擾方塊顏色序列
	strat, err := s.bots.Build(s.Bot, core.New(s.cf.New(int64(mix63(uint64(seed)+1)))))
	if err != nil {
		return nil, err
	}
	return &simWorker{eng: eng, strat: strat, rec: rec}, nil
}

// play 一局：落子直到溢出或達上限，紀錄後重開
func (w *simWorker) play(maxPieces int) {
	e := w.eng
	for !e.IsGameOver() && e.Stats().Pieces < maxPieces {
		if !bot.Apply(e, w.strat.Plan(e)) {
			break
		}
	}
	w.rec.Record(e)
	e.Restart()
}

// Sim 單線模擬 games 局，回傳統計結果與用時
func (s *Simulator) Sim(games int, showpb bool) (*stats.StatReport, time.Duration, error) {
	return s.run(games, 1, false, showpb)
}

// SimMP 以 mp 條 worker 平行模擬共 games 局 (平均分配)，合併統計後回傳
func (s *Simulator) SimMP(games int, mp int, showpb bool) (*stats.StatReport, time.Duration, error) {
	return s.run(games, mp, false, showpb)
}

// SimGames 同 SimMP，並保留每局樣本產出分位數與達標率估計
func (s *Simulator) SimGames(games int, mp int, reach []int, showpb bool) (*stats.StatReport, *stats.GameEstimate, time.Duration, error) {
	rep, used, err := s.run(games, mp, true, showpb)
	if err != nil {
		return nil, nil, 0, err
	}
	return rep, stats.EstimateGames([]*stats.StatReport{rep}, reach), used, nil
}

func (s *Simulator) run(games int, mp int, keep bool, showpb bool) (*stats.StatReport, time.Duration, error) {
	if games < 1 {
		return nil, 0, errs.NewWarn("games must > 0")
	}
	if mp < 1 {
		return nil, 0, errs.NewWarn("workers must > 0")
	}
	mp = min(mp, games)
	maxPieces := s.MaxPieces
	if maxPieces <= 0 {
		maxPieces = DefaultMaxPieces
	}

	// 第一條 worker 沿用 initSeed，其餘依序派生
	ws := make([]*simWorker, mp)
	for i := range ws {
		seed := s.initSeed
		if i > 0 {
			seed = s.seedmaker.next()
		}
		w, err := s.newWorker(seed, keep)
		if err != nil {
			return nil, 0, err
		}
		ws[i] = w
	}

	bar := pb.New(games)
	if !showpb {
		bar.SetWriter(io.Discard)
	}
	bar.Start()
	wg := new(sync.WaitGroup)
	wg.Add(mp)
	for i, w := range ws {
		n := games / mp
		if i < games%mp {
			n++
		}
		go func(w *simWorker, n int) {
			defer wg.Done()
			for range n {
				w.play(maxPieces)
				bar.Increment()
			}
		}(w, n)
	}
	wg.Wait()
	used := time.Since(bar.StartTime())
	bar.Finish()

	recs := make([]*recorder.GameRecorder, mp)
	for i, w := range ws {
		recs[i] = w.rec
	}
	merged, err := recorder.MergeGameRecorder(recs)
	if err != nil {
		return nil, 0, err
	}
	return merged.Done(), used, nil
}

const mask63 = uint64(1<<63) - 1

type seedMaker struct {
	state atomic.Uint64 // always in [0, 2^63)
}

func newSeedMaker(seed int64) *seedMaker {
	s := &seedMaker{}
	s.state.Store(uint64(seed) & mask63)
	return s
}

// next 走全週期 LCG (mod 2^63) 再以可逆 mix63 打散；以 CAS 推進，可併發呼叫
func (s *seedMaker) next() int64 {
	for {
		old := s.state.Load()
		next := (old*6364136223846793005 + 1442695040888963407) & mask63
		if s.state.CompareAndSwap(old, next) {
			return int64(mix63(next))
		}
	}
}

// mix63 只用可逆的 bit 操作與乘奇數 (mod 2^63)
func mix63(x uint64) uint64 {
	x &= mask63
	x ^= x >> 30
	x = (x * 0xBF58476D1CE4E5B9) & mask63
	x ^= x >> 27
	x = (x * 0x94D049BB133111EB) & mask63
	x ^= x >> 31
	return x & mask63
}
