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
	"crypto/rand"
	"flag"
	"fmt"
	"io"
	"math"
	"math/big"
	"os"
	"strconv"
	"strings"

	"github.com/zintix-labs/coloris"
	"github.com/zintix-labs/coloris/demo"
	"github.com/zintix-labs/coloris/errs"
	"github.com/zintix-labs/coloris/sdk/bot"
	"github.com/zintix-labs/coloris/spec"
	"github.com/zintix-labs/coloris/stats"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var cfg *config = new(config)

type config struct {
	name      string
	id        spec.GID
	bot       string
	worker    int
	players   int
	games     int
	maxPieces int
	reach     string
	cfgPath   string
	format    string
	seed      int64
	pprofmode string
}

type gidFlag struct{ p *spec.GID }

func (f gidFlag) String() string {
	if f.p == nil {
		return "0"
	}
	return fmt.Sprint(uint(*f.p))
}

func (f gidFlag) Set(s string) error {
	u, err := strconv.ParseUint(s, 10, 0)
	if err != nil {
		return err
	}
	*f.p = spec.GID(uint(u))
	return nil
}

func bindVar() error {
	// 綁定 Flag 到本地變數的指標 (&)
	flag.Var(gidFlag{&cfg.id}, "game", "target game id")
	flag.StringVar(&cfg.name, "name", "", "target game name (used when -game is not set)")
	flag.StringVar(&cfg.bot, "bot", bot.NameGreedy, "strategy: greedy | random")
	flag.IntVar(&cfg.worker, "worker", 1, "number of workers")
	flag.IntVar(&cfg.players, "players", 0, "players > 0: one game per player with quantile estimates")
	flag.IntVar(&cfg.games, "games", 1000, "number of games")
	flag.IntVar(&cfg.maxPieces, "max-pieces", coloris.DefaultMaxPieces, "piece cap per game")
	flag.StringVar(&cfg.reach, "reach", "", "comma separated score thresholds, e.g. 10,50,100")
	flag.StringVar(&cfg.cfgPath, "cfg", "", "yaml setting overriding a built-in game (same game_id/game_name)")
	flag.StringVar(&cfg.format, "format", "table", "output: table | json | yaml")
	flag.Int64Var(&cfg.seed, "seed", -1, "int64 seed for random number generator")
	flag.StringVar(&cfg.pprofmode, "p", "", "pprof: '', cpu, heap, allocs, trace")

	flag.Parse()

	// 未指定 seed 時以 crypto/rand 產生
	if cfg.seed < 0 {
		seed, err := rand.Int(rand.Reader, big.NewInt(math.MaxInt64))
		if err != nil {
			return errs.Wrap(err, "seed generate failed")
		}
		cfg.seed = seed.Int64()
	}
	return cfg.valid()
}

func (cfg *config) valid() error {
	if cfg.worker < 1 {
		return errs.NewWarn("value err : workers must > 0")
	}
	if cfg.players < 0 {
		return errs.NewWarn("value err : players must >= 0")
	}
	if cfg.players == 0 && cfg.games < 1 {
		return errs.NewWarn("value err : games must > 0")
	}
	if cfg.maxPieces < 1 {
		return errs.NewWarn("value err : max-pieces must > 0")
	}
	switch cfg.format {
	case "table", "json", "yaml":
	default:
		return errs.Warnf("value err : unknown format %q", cfg.format)
	}
	if cfg.cfgPath == "" && cfg.id == 0 && cfg.name == "" {
		cfg.id = 1
	}
	return nil
}

func (cfg *config) thresholds() ([]int, error) {
	if cfg.reach == "" {
		return nil, nil
	}
	parts := strings.Split(cfg.reach, ",")
	out := make([]int, 0, len(parts))
	for _, p := range parts {
		v, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil || v < 0 {
			return nil, errs.Warnf("value err : invalid reach %q", p)
		}
		out = append(out, v)
	}
	return out, nil
}

func newSimulator(lab *coloris.Lab) (*coloris.Simulator, error) {
	if cfg.cfgPath != "" {
		raw, err := os.ReadFile(cfg.cfgPath)
		if err != nil {
			return nil, errs.Wrap(err, "read cfg failed")
		}
		return lab.NewSimulatorByYAML(raw, cfg.bot, cfg.seed)
	}
	gid, err := lab.Resolve(cfg.id, cfg.name)
	if err != nil {
		return nil, err
	}
	return lab.NewSimulatorWithSeed(gid, cfg.bot, cfg.seed)
}

func executeSimulator() error {
	lab, err := demo.NewLab()
	if err != nil {
		return err
	}
	s, err := newSimulator(lab)
	if err != nil {
		return err
	}
	s.MaxPieces = cfg.maxPieces
	reach, err := cfg.thresholds()
	if err != nil {
		return err
	}

	// 至此確保可執行
	green := "\033[1;32m"
	reset := "\033[0m"
	p := message.NewPrinter(language.English)
	out := os.Stdout
	table := cfg.format == "table"
	showpb := table

	if cfg.players > 0 { // 玩家體驗估計
		if table {
			p.Printf("%s[WORKERS:%d] [GAME:%s] [BOT:%s] [PLAYERS:%d] [SEED:%d]%s\n", green, cfg.worker, s.GameName, s.Bot, cfg.players, cfg.seed, reset)
		}
		st, est, used, err := s.SimGames(cfg.players, cfg.worker, reach, showpb)
		if err != nil {
			return err
		}
		if table {
			st.StdOut(used)
			est.Out(out)
			return nil
		}
		if err := render(out, st); err != nil {
			return err
		}
		return renderEst(out, est)
	}

	if table {
		p.Printf("%s[WORKERS:%d] [GAME:%s] [BOT:%s] [GAMES:%d] [SEED:%d]%s\n", green, cfg.worker, s.GameName, s.Bot, cfg.games, cfg.seed, reset)
	}
	st, used, err := s.SimMP(cfg.games, cfg.worker, showpb)
	if err != nil {
		return err
	}
	if table {
		st.StdOut(used)
		return nil
	}
	return render(out, st)
}

func render(w io.Writer, st *stats.StatReport) error {
	switch cfg.format {
	case "json":
		return st.WriteWith(w, &stats.JsonStatReportRender{})
	case "yaml":
		return st.WriteWith(w, &stats.YAMLStatReportRender{})
	}
	return st.WriteWith(w, &stats.TableStatReportRender{})
}

func renderEst(w io.Writer, est *stats.GameEstimate) error {
	switch cfg.format {
	case "json":
		return est.WriteWith(w, &stats.JsonEstimatorRender{})
	case "yaml":
		return est.WriteWith(w, &stats.YAMLEstimatorRender{})
	}
	return est.WriteWith(w, &stats.TableEstimatorRender{})
}
