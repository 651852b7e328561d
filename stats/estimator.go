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

package stats

import (
	"fmt"
	"io"
	"slices"

	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

// ============================================================
// ** 結構宣告 **
// ============================================================

// 玩法體驗評估 (以每局為樣本)
type GameEstimate struct {
	Games      int          `json:"Games"`
	ScoreMean  float64      `json:"ScoreMean"`
	ScoreStd   float64      `json:"ScoreStd"`
	ScoreStat  QuantileStat `json:"ScoreStat"`  // 每局分數分位數
	PieceStat  QuantileStat `json:"PieceStat"`  // 每局存活落子數分位數
	ScoreReach ReachStat    `json:"ScoreReach"` // 分數達標比例
	GameOver   PointStat    `json:"GameOver"`   // 溢出結束比例
}

// 分位數視角：最差 10% 的局拿到多少分 ...
type QuantileStat struct {
	Median PointStat `json:"Median"`
	P10    PointStat `json:"P10"`
	P33    PointStat `json:"P33"`
	P67    PointStat `json:"P67"`
	P90    PointStat `json:"P90"`
}

// 門檻視角：有多少比例的局分數 ≥ 門檻
type ReachStat struct {
	Thresholds []int       `json:"Thresholds"`
	Reach      []PointStat `json:"Reach"`
}

// PointStat 點估計 回傳 估計值 以及信賴區間
type PointStat struct {
	Hat float64 `json:"Hat"`
	CI  CI      `json:"CI"`
}

// 預設分數門檻
var DefaultReach = []int{10, 50, 100, 500}

// EstimateGames 合併多份報表的每局樣本後估計：
//
// 1. 分數與落子數的分位數 (點估計 + 95% CI)
//
// 2. 分數達到各門檻的比例 (Clopper-Pearson 95% CI)
//
// 3. 溢出結束的比例
func EstimateGames(sts []*StatReport, reach []int) *GameEstimate {
	out := &GameEstimate{}
	var scores, pieces []float64
	overs := 0
	for _, s := range sts {
		if s == nil || s.Samples == nil {
			continue
		}
		scores = append(scores, s.Samples.Scores...)
		pieces = append(pieces, s.Samples.Pieces...)
		overs += s.Summary.GameOvers
	}
	n := len(scores)
	out.Games = n
	if n == 0 {
		return out
	}
	if len(reach) == 0 {
		reach = DefaultReach
	}

	out.ScoreMean, out.ScoreStd = stat.MeanStdDev(scores, nil)
	slices.Sort(scores)
	slices.Sort(pieces)
	out.ScoreStat = quantileStat(scores)
	out.PieceStat = quantileStat(pieces)

	out.ScoreReach = ReachStat{Thresholds: slices.Clone(reach), Reach: make([]PointStat, len(reach))}
	for i, th := range reach {
		// P(X >= th) = 1 - P(X < th)
		below := 0
		for _, v := range scores {
			if v >= float64(th) {
				break
			}
			below++
		}
		hat, ci := proportionCICP(n-below, n, 0.95)
		out.ScoreReach.Reach[i] = PointStat{Hat: hat, CI: ci}
	}

	hat, ci := proportionCICP(overs, n, 0.95)
	out.GameOver = PointStat{Hat: hat, CI: ci}
	return out
}

func quantileStat(sorted []float64) QuantileStat {
	at := func(q float64) PointStat {
		lo, hi := quantileCI(sorted, q, 0.95)
		return PointStat{Hat: quantilePoint(sorted, q), CI: CI{Lo: lo, Hi: hi}}
	}
	return QuantileStat{
		Median: at(0.5),
		P10:    at(0.10),
		P33:    at(1.0 / 3.0),
		P67:    at(2.0 / 3.0),
		P90:    at(0.90),
	}
}

// ============================================================
// ** 內部統計函數 **
// ============================================================

// Clopper–Pearson exact CI for binomial proportion (k successes out of n)
func proportionCICP(k int, n int, confidence float64) (pHat float64, ci CI) {
	if n == 0 {
		return 0, CI{0, 1}
	}
	alpha := 1 - confidence
	pHat = float64(k) / float64(n)

	if k == 0 {
		ci.Lo = 0
	} else {
		b := distuv.Beta{Alpha: float64(k), Beta: float64(n - k + 1)}
		ci.Lo = b.Quantile(alpha / 2)
	}
	if k == n {
		ci.Hi = 1
	} else {
		b := distuv.Beta{Alpha: float64(k + 1), Beta: float64(n - k)}
		ci.Hi = b.Quantile(1 - alpha/2)
	}
	return
}

// 第 q 分位的上下界：order statistic 的秩視為二項，以 Beta 反推 p 範圍再轉回樣本索引。
// sorted 必須已排序。
func quantileCI(sorted []float64, q, confidence float64) (float64, float64) {
	n := len(sorted)
	if n == 0 {
		return 0, 0
	}
	if n == 1 {
		return sorted[0], sorted[0]
	}

	alpha := 1 - confidence
	k := int(q * float64(n))
	if k < 1 {
		k = 1
	} else if k > n-1 {
		k = n - 1
	}

	bLo := distuv.Beta{Alpha: float64(k), Beta: float64(n - k + 1)}
	bHi := distuv.Beta{Alpha: float64(k + 1), Beta: float64(n - k)}
	pLo := bLo.Quantile(alpha / 2)
	pHi := bHi.Quantile(1 - alpha/2)

	li := min(max(int(pLo*float64(n)), 0), n-1)
	ui := int(pHi * float64(n))
	if ui > 0 {
		ui -= 1
	}
	ui = min(max(ui, 0), n-1)
	return sorted[li], sorted[ui]
}

// quantilePoint 經驗分位數；sorted 必須已排序
func quantilePoint(sorted []float64, q float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	return stat.Quantile(q, stat.Empirical, sorted, nil)
}

// ============================================================
// ** 輸出函數 **
// ============================================================

func (est *GameEstimate) WriteWith(w io.Writer, rep EstimatorRender) error {
	return rep.Write(w, est)
}

func (est *GameEstimate) Out(w io.Writer) {
	qKeys := []string{"Median", "P10", "P33", "P67", "P90"}
	qMsg := func(s QuantileStat) map[string]string {
		return map[string]string{
			"Median": fmtHatCI(s.Median),
			"P10":    fmtHatCI(s.P10),
			"P33":    fmtHatCI(s.P33),
			"P67":    fmtHatCI(s.P67),
			"P90":    fmtHatCI(s.P90),
		}
	}
	fmt.Fprint(w, fmtTable("Score per game", qKeys, qMsg(est.ScoreStat)))
	fmt.Fprint(w, fmtTable("Pieces per game", qKeys, qMsg(est.PieceStat)))

	rKeys := make([]string, 0, len(est.ScoreReach.Thresholds)+1)
	rMsg := make(map[string]string, len(est.ScoreReach.Thresholds)+1)
	for i, th := range est.ScoreReach.Thresholds {
		k := fmt.Sprintf("score >= %d", th)
		rKeys = append(rKeys, k)
		rMsg[k] = fmtHatCIPct(est.ScoreReach.Reach[i])
	}
	rKeys = append(rKeys, "game over")
	rMsg["game over"] = fmtHatCIPct(est.GameOver)
	fmt.Fprint(w, fmtTable("Outcome", rKeys, rMsg))
}

func fmtHatCI(p PointStat) string {
	return fmt.Sprintf("%.1f [%.1f, %.1f]", p.Hat, p.CI.Lo, p.CI.Hi)
}

func fmtHatCIPct(p PointStat) string {
	return fmt.Sprintf("%.2f%% [%.2f%%, %.2f%%]", p.Hat*100, p.CI.Lo*100, p.CI.Hi*100)
}
