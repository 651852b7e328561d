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

// ops 開發用任務：go run ./scripts <task>
//
//	test         全部測試，只列出 ok / FAIL
//	test-detail  verbose 測試，略過沒有測試檔的套件
//	race         以 -race 跑 runtime / server / engine
//	cover        產生 coverage.out 並印出總覆蓋率
//	play         開啟終端機版
//	svr          以開發模式啟動 HTTP 服務
package main

import (
	"fmt"
	"os"
	"slices"
	"strings"
)

type task struct {
	name string
	desc string
	run  func(args []string) error
}

var tasks = []task{
	{"test", "run all tests (summary)", runTest},
	{"test-detail", "run all tests verbosely", runTestDetail},
	{"race", "race detector on concurrent packages", runRace},
	{"cover", "write coverage.out and print total", runCover},
	{"play", "terminal frontend", runPlay},
	{"svr", "dev http server", runSvr},
}

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}
	name := os.Args[1]
	i := slices.IndexFunc(tasks, func(t task) bool { return t.name == name })
	if i < 0 {
		PrintYellow(fmt.Sprintf("Unknown task: %s", name))
		usage()
		os.Exit(1)
	}
	if err := tasks[i].run(os.Args[2:]); err != nil {
		PrintRed(err.Error())
		os.Exit(1)
	}
}

func usage() {
	PrintDefault("Usage: go run ./scripts [task] [args...]")
	width := 0
	for _, t := range tasks {
		width = max(width, len(t.name))
	}
	for _, t := range tasks {
		PrintDefault(fmt.Sprintf("  %s%s  %s", t.name, strings.Repeat(" ", width-len(t.name)), t.desc))
	}
}
