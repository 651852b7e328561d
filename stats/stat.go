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

// Package stats 模擬結果報表：彙總、分布、信賴區間與輸出格式。
package stats

import (
	"fmt"
	"io"
	"math"
	"strings"
	"time"

	"github.com/mattn/go-runewidth"
	"github.com/zintix-labs/coloris/spec"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"gonum.org/v1/gonum/stat/distuv"
)

var lang language.Tag = language.English

// 信賴區間
type CI struct {
	Lo float64 `json:"Lo"`
	Hi float64 `json:"Hi"`
}

type StatReport struct {
	Summary *SummaryReport `json:"Summary"`
	Sums    *SumReport     `json:"Sums"`
	Dist    *DistReport    `json:"Dist"`
	Samples *SampleReport  `json:"-" yaml:"-"`
	isDone  bool
}

type SummaryReport struct {
	GameName      string   `json:"GameName"`
	GameId        spec.GID `json:"GameId"`
	Bot           string   `json:"Bot"`
	Games         int      `json:"Games"`
	GameOvers     int      `json:"GameOvers"` // 溢出結束的局數 (其餘為達到落子上限)
	GameOverRate  float64  `json:"GameOverRate"`
	GameOverCI    CI       `json:"GameOverCI"`
	Pieces        int      `json:"Pieces"`
	Ticks         int      `json:"Ticks"`
	TotalScore    int      `json:"TotalScore"`
	MeanScore     float64  `json:"MeanScore"`
	ScoreCI       CI       `json:"ScoreCI"`
	Std           float64  `json:"Std"`
	Cv            float64  `json:"Cv"`
	MaxScore      int      `json:"MaxScore"`
	MeanPieces    float64  `json:"MeanPieces"`
	Cascades      int      `json:"Cascades"`
	MaxChain      int      `json:"MaxChain"`
	SpecialPowers int      `json:"SpecialPowers"`
	MercyClears   int      `json:"MercyClears"`
}

// SumReport 用於合併後重算變異數
type SumReport struct {
	ScoreSqSum  float64 `json:"ScoreSqSum"`  // 平方和
	PiecesSqSum float64 `json:"PiecesSqSum"` // 平方和
}

type DistReport struct {
	ScoreBucket  []string  `json:"ScoreBucket"`
	ScoreCollect []int     `json:"ScoreCollect"`
	ScoreDist    []float64 `json:"ScoreDist"`
	ChainBucket  []string  `json:"ChainBucket"`
	ChainCollect []int     `json:"ChainCollect"`
	ChainDist    []float64 `json:"ChainDist"`
}

// SampleReport 每局樣本，供分位數估計；不輸出
type SampleReport struct {
	Scores []float64
	Pieces []float64
}

// ============================================================
// ** 計算 **
// ============================================================

func (s *StatReport) Done() {
	if s.isDone {
		return
	}
	s.Summary.MeanScore = s.Mean()
	s.Summary.Std = s.Std()
	s.Summary.Cv = s.Cv()
	s.Summary.ScoreCI = s.Ci()
	if s.Summary.Games > 0 {
		s.Summary.MeanPieces = float64(s.Summary.Pieces) / float64(s.Summary.Games)
	}
	s.Summary.GameOverRate, s.Summary.GameOverCI = proportionCICP(s.Summary.GameOvers, s.Summary.Games, 0.95)
	s.Dist.ScoreDist = normalize(s.Dist.ScoreCollect)
	s.Dist.ChainDist = normalize(s.Dist.ChainCollect)
	s.isDone = true
}

func (s *StatReport) Mean() float64 {
	if s.Summary.Games == 0 {
		return 0
	}
	return float64(s.Summary.TotalScore) / float64(s.Summary.Games)
}

// Std 每局分數的樣本標準差
func (s *StatReport) Std() float64 {
	games := float64(s.Summary.Games)
	if games < 2 {
		return 0
	}
	total := float64(s.Summary.TotalScore)
	variance := (s.Sums.ScoreSqSum - total*total/games) / (games - 1)
	if variance < 0 {
		variance = 0
	}
	return math.Sqrt(variance)
}

func (s *StatReport) Cv() float64 {
	mean := s.Mean()
	if mean <= 0 {
		return 0
	}
	return s.Std() / mean
}

// Ci 平均分數的 95% t 區間
func (s *StatReport) Ci() CI {
	mean := s.Mean()
	n := s.Summary.Games
	if n < 2 {
		return CI{Lo: mean, Hi: mean}
	}
	se := s.Std() / math.Sqrt(float64(n))
	t := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: float64(n - 1)}.Quantile(0.975)
	return CI{
		Lo: max(mean-t*se, 0.0),
		Hi: mean + t*se,
	}
}

func normalize(collect []int) []float64 {
	total := 0
	for _, c := range collect {
		total += c
	}
	out := make([]float64, len(collect))
	if total == 0 {
		return out
	}
	for i, c := range collect {
		out[i] = float64(c) / float64(total)
	}
	return out
}

// ============================================================
// ** 輸出 **
// ============================================================

func (s *StatReport) WriteWith(w io.Writer, rep StatReportRender) error {
	s.Done()
	return rep.Write(w, s)
}

func (s *StatReport) StdOut(ut time.Duration) {
	s.Done()
	fmt.Print(formatDuration(ut, s.Summary.Pieces))
	sk, sm := s.fmtBasic()
	fmt.Println(fmtTable(s.Summary.GameName, sk, sm))
}

func formatDuration(d time.Duration, pieces int) string {
	p := message.NewPrinter(lang)
	if d < 0 {
		d = -d
	}
	sec := d.Seconds()
	if sec <= 0 {
		sec = 1e-9
	}
	pps := int(float64(pieces) / sec)
	if sec < 60.0 {
		return p.Sprintf("used: %.2f seconds\npps : %d pieces/sec\n", sec, pps)
	}
	sc := int(d.Seconds()) % 60
	m := int(d.Minutes()) % 60
	h := int(d.Hours())
	if h == 0 {
		return p.Sprintf("used: %dm %ds\npps : %d pieces/sec\n", m, sc, pps)
	}
	return p.Sprintf("used: %dh:%dm:%ds\npps : %d pieces/sec\n", h, m, sc, pps)
}

func (s *StatReport) fmtBasic() ([]string, map[string]string) {
	p := message.NewPrinter(lang)
	basic := map[string]string{
		"Game Name":      p.Sprintf("%s", s.Summary.GameName),
		"Game ID":        fmt.Sprintf("%d", s.Summary.GameId),
		"Bot":            s.Summary.Bot,
		"Games":          p.Sprintf("%d", s.Summary.Games),
		"Game Over Rate": p.Sprintf("%.2f %% [%.2f%%,%.2f%%]", 100.0*s.Summary.GameOverRate, 100.0*s.Summary.GameOverCI.Lo, 100.0*s.Summary.GameOverCI.Hi),
		"Pieces":         p.Sprintf("%d", s.Summary.Pieces),
		"Mean Pieces":    p.Sprintf("%.2f", s.Summary.MeanPieces),
		"Total Score":    p.Sprintf("%d", s.Summary.TotalScore),
		"Mean Score":     p.Sprintf("%.3f", s.Summary.MeanScore),
		"Score 95% CI":   p.Sprintf("[%.3f,%.3f]", s.Summary.ScoreCI.Lo, s.Summary.ScoreCI.Hi),
		"Max Score":      p.Sprintf("%d", s.Summary.MaxScore),
		"Cascades":       p.Sprintf("%d", s.Summary.Cascades),
		"Max Chain":      p.Sprintf("%d", s.Summary.MaxChain),
		"Special Powers": p.Sprintf("%d", s.Summary.SpecialPowers),
		"Mercy Clears":   p.Sprintf("%d", s.Summary.MercyClears),
		"STD":            p.Sprintf("%.3f", s.Summary.Std),
		"CV":             p.Sprintf("%.3f", s.Summary.Cv),
	}
	keys := []string{
		"Game Name", "Game ID", "Bot", "Games", "Game Over Rate", "Pieces", "Mean Pieces",
		"Total Score", "Mean Score", "Score 95% CI", "Max Score",
		"Cascades", "Max Chain", "Special Powers", "Mercy Clears", "STD", "CV",
	}
	return keys, basic
}

func fmtTable(title string, keys []string, msg map[string]string) string {
	p := message.NewPrinter(lang)
	maxKeyLen := 0
	maxValLen := 0
	for k, m := range msg {
		if w := runewidth.StringWidth(k); w > maxKeyLen {
			maxKeyLen = w
		}
		if w := runewidth.StringWidth(m); w > maxValLen {
			maxValLen = w
		}
	}
	maxKeyLen += 2
	maxValLen += 2

	divider := "+" + strings.Repeat("-", maxKeyLen) + "+" + strings.Repeat("-", maxValLen) + "+\n"
	top := "+" + strings.Repeat("-", maxKeyLen+1+maxValLen) + "+\n"

	totalInner := maxKeyLen + maxValLen + 1
	titleW := runewidth.StringWidth(title)
	left := (totalInner - titleW) / 2
	right := totalInner - titleW - left

	var sb strings.Builder
	sb.WriteString(top)
	sb.WriteString(p.Sprintf("|%s%s%s|\n", blank(left), title, blank(right)))
	sb.WriteString(divider)
	for _, k := range keys {
		sb.WriteString(p.Sprintf("| %s%s | %s%s |\n", k, blank(maxKeyLen-2-runewidth.StringWidth(k)), msg[k], blank(maxValLen-2-runewidth.StringWidth(msg[k]))))
	}
	sb.WriteString(divider)
	return sb.String()
}

func blank(w int) string {
	if w < 1 {
		return ""
	}
	return strings.Repeat(" ", w)
}
