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

package recorder

import (
	"fmt"
	"slices"

	"github.com/zintix-labs/coloris/errs"
	"github.com/zintix-labs/coloris/sdk/engine"
	"github.com/zintix-labs/coloris/spec"
	"github.com/zintix-labs/coloris/stats"
)

// GameRecorder 對局紀錄員
//
// GameRecorder 以 Hooks 收集連鎖事件，每局結束時以 Record 收集整局數據，並透過 Done 輸出統計報表。
// 非併發安全；每個 worker 一個，最後以 MergeGameRecorder 合併。
type GameRecorder struct {
	GameName   string
	GameId     spec.GID
	Bot        string
	KeepSample bool
	Basic      *BasicRecord
	Dist       *DistRecord
	Sample     *stats.SampleReport
}

// BasicRecord 基本對局資料紀錄
type BasicRecord struct {
	Games         int
	GameOvers     int
	Pieces        int
	Ticks         int
	TotalScore    int
	MaxScore      int
	ScoreSqSum    float64 // 平方和
	PiecesSqSum   float64 // 平方和
	Cascades      int
	MaxChain      int
	SpecialPowers int
	MercyClears   int
}

// DistRecord 區間落點統計
type DistRecord struct {
	ScoreCollect []int
	ChainCollect []int
}

func NewGameRecorder(name string, id spec.GID, bot string, keepSample bool) (*GameRecorder, error) {
	if name == "" {
		return nil, errs.NewFatal("recorder: game name required")
	}
	if bot == "" {
		return nil, errs.NewFatal(fmt.Sprintf("recorder: bot required for %s", name))
	}
	r := &GameRecorder{
		GameName:   name,
		GameId:     id,
		Bot:        bot,
		KeepSample: keepSample,
		Basic:      new(BasicRecord),
		Dist: &DistRecord{
			ScoreCollect: make([]int, stats.ScoreBuckets.Len()),
			ChainCollect: make([]int, stats.ChainBuckets.Len()),
		},
		Sample: &stats.SampleReport{},
	}
	return r, nil
}

// Hooks 掛在引擎上收集每次連鎖長度
func (r *GameRecorder) Hooks() engine.Hooks {
	return engine.Hooks{
		OnSettle: func(ev engine.SettleEvent) {
			r.RecordChain(ev.Chain)
		},
	}
}

// Outcome 一局的結果；外部上傳的對局 (例如回放驗證後) 也以此格式記錄
type Outcome struct {
	Score    int          `json:"score"`
	GameOver bool         `json:"game_over"`
	Stats    engine.Stats `json:"stats"`
}

// Record 一局結束 (溢出或達到落子上限) 時呼叫
func (r *GameRecorder) Record(e *engine.Engine) {
	r.RecordOutcome(Outcome{Score: e.Score(), GameOver: e.IsGameOver(), Stats: e.Stats()})
}

// RecordOutcome 記錄一局結果。連鎖分布不在此記錄 (見 Hooks / RecordChain)。
func (r *GameRecorder) RecordOutcome(o Outcome) {
	st := o.Stats
	score := o.Score

	b := r.Basic
	b.Games++
	if o.GameOver {
		b.GameOvers++
	}
	b.Pieces += st.Pieces
	b.Ticks += st.Ticks
	b.TotalScore += score
	b.MaxScore = max(b.MaxScore, score)
	b.ScoreSqSum += float64(score) * float64(score)
	b.PiecesSqSum += float64(st.Pieces) * float64(st.Pieces)
	b.Cascades += st.Cascades
	b.MaxChain = max(b.MaxChain, st.MaxChain)
	b.SpecialPowers += st.SpecialPowers
	b.MercyClears += st.MercyClears

	r.Dist.ScoreCollect[stats.ScoreBuckets.Index(score)]++
	if r.KeepSample {
		r.Sample.Scores = append(r.Sample.Scores, float64(score))
		r.Sample.Pieces = append(r.Sample.Pieces, float64(st.Pieces))
	}
}

// RecordChain 補記一次連鎖長度 (不經 Hooks 時使用)
func (r *GameRecorder) RecordChain(chain int) {
	if chain > 0 {
		r.Dist.ChainCollect[stats.ChainBuckets.Index(chain)]++
	}
}

func MergeGameRecorder(r []*GameRecorder) (*GameRecorder, error) {
	if len(r) == 0 {
		return nil, errs.NewFatal("merge game record err : empty input")
	}
	r0 := r[0]
	s, err := NewGameRecorder(r0.GameName, r0.GameId, r0.Bot, r0.KeepSample)
	if err != nil {
		return s, err
	}
	for _, v := range r {
		if v.GameName != r0.GameName || v.GameId != r0.GameId {
			return s, errs.NewFatal("merge game record err : different game")
		}
		if v.Bot != r0.Bot {
			return s, errs.NewFatal("merge game record err : different bot")
		}
		s.Basic.Games += v.Basic.Games
		s.Basic.GameOvers += v.Basic.GameOvers
		s.Basic.Pieces += v.Basic.Pieces
		s.Basic.Ticks += v.Basic.Ticks
		s.Basic.TotalScore += v.Basic.TotalScore
		s.Basic.MaxScore = max(s.Basic.MaxScore, v.Basic.MaxScore)
		s.Basic.ScoreSqSum += v.Basic.ScoreSqSum
		s.Basic.PiecesSqSum += v.Basic.PiecesSqSum
		s.Basic.Cascades += v.Basic.Cascades
		s.Basic.MaxChain = max(s.Basic.MaxChain, v.Basic.MaxChain)
		s.Basic.SpecialPowers += v.Basic.SpecialPowers
		s.Basic.MercyClears += v.Basic.MercyClears

		// 整合Dist
		for i := range v.Dist.ScoreCollect {
			s.Dist.ScoreCollect[i] += v.Dist.ScoreCollect[i]
		}
		for i := range v.Dist.ChainCollect {
			s.Dist.ChainCollect[i] += v.Dist.ChainCollect[i]
		}
		s.Sample.Scores = append(s.Sample.Scores, v.Sample.Scores...)
		s.Sample.Pieces = append(s.Sample.Pieces, v.Sample.Pieces...)
	}
	return s, nil
}

func (r *GameRecorder) Done() *stats.StatReport {
	report := &stats.StatReport{
		Summary: &stats.SummaryReport{
			GameName:      r.GameName,
			GameId:        r.GameId,
			Bot:           r.Bot,
			Games:         r.Basic.Games,
			GameOvers:     r.Basic.GameOvers,
			Pieces:        r.Basic.Pieces,
			Ticks:         r.Basic.Ticks,
			TotalScore:    r.Basic.TotalScore,
			MaxScore:      r.Basic.MaxScore,
			Cascades:      r.Basic.Cascades,
			MaxChain:      r.Basic.MaxChain,
			SpecialPowers: r.Basic.SpecialPowers,
			MercyClears:   r.Basic.MercyClears,
		},
		Sums: &stats.SumReport{
			ScoreSqSum:  r.Basic.ScoreSqSum,
			PiecesSqSum: r.Basic.PiecesSqSum,
		},
		Dist: &stats.DistReport{
			ScoreBucket:  stats.ScoreBuckets.Labels(),
			ScoreCollect: slices.Clone(r.Dist.ScoreCollect),
			ChainBucket:  stats.ChainBuckets.Labels(),
			ChainCollect: slices.Clone(r.Dist.ChainCollect),
		},
	}
	if r.KeepSample {
		report.Samples = &stats.SampleReport{
			Scores: slices.Clone(r.Sample.Scores),
			Pieces: slices.Clone(r.Sample.Pieces),
		}
	}
	report.Done()
	return report
}
