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

// run 以自動策略批量模擬內建變體，輸出統計報表。
//
//	go run ./cmd/run -game 1 -games 10000 -worker 8
//	go run ./cmd/run -name quad -bot random -players 2000 -format json
//	go run ./cmd/run -cfg ./tuned.yaml -games 5000 -p cpu
package main

import (
	"fmt"
	"os"

	"github.com/zintix-labs/coloris/sdk/perf"
)

func main() {
	if err := bindVar(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	var runErr error
	if err := perf.RunPProf(func() { runErr = executeSimulator() }, cfg.pprofmode); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if runErr != nil {
		fmt.Fprintln(os.Stderr, runErr)
		os.Exit(1)
	}
}
