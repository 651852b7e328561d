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
	"bufio"
	"fmt"
	"os"
	"os/exec"
	"strings"
)

// lineFilter 回傳 false 表示略過該行
type lineFilter func(line string) bool

// goCmd 執行 go 子命令；filter 為 nil 時直接接到終端機
func goCmd(filter lineFilter, args ...string) error {
	cmd := exec.Command("go", args...)
	cmd.Stdin = os.Stdin
	if filter == nil {
		cmd.Stdout = os.Stdout
		cmd.Stderr = os.Stderr
		if err := cmd.Run(); err != nil {
			return fmt.Errorf("go %s: %w", args[0], err)
		}
		return nil
	}

	out, err := cmd.StdoutPipe()
	if err != nil {
		return err
	}
	// 編譯錯誤在 stderr，一併過濾
	cmd.Stderr = cmd.Stdout
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start go %s: %w", args[0], err)
	}
	sc := bufio.NewScanner(out)
	for sc.Scan() {
		line := sc.Text()
		if !filter(line) {
			continue
		}
		switch {
		case strings.HasPrefix(line, "ok"):
			PrintGreen(line)
		case strings.HasPrefix(line, "FAIL"), strings.HasPrefix(line, "--- FAIL"):
			PrintRed(line)
		default:
			PrintDefault(line)
		}
	}
	if err := cmd.Wait(); err != nil {
		return fmt.Errorf("go %s finished with errors", args[0])
	}
	return nil
}

func cleanTestCache() error {
	return goCmd(nil, "clean", "-testcache")
}

func runTest(args []string) error {
	PrintGreen("running tests")
	if err := cleanTestCache(); err != nil {
		return err
	}
	summary := func(line string) bool {
		return strings.HasPrefix(line, "ok") || strings.HasPrefix(line, "FAIL") ||
			strings.Contains(line, "build failed") || strings.Contains(line, "setup failed")
	}
	return goCmd(summary, append([]string{"test", "./...", "-cover", "-count=1"}, args...)...)
}

func runTestDetail(args []string) error {
	PrintGreen("running tests (detail)")
	if err := cleanTestCache(); err != nil {
		return err
	}
	skipEmpty := func(line string) bool { return !strings.Contains(line, "[no test files]") }
	return goCmd(skipEmpty, append([]string{"test", "./...", "-v", "-count=1"}, args...)...)
}

func runRace(args []string) error {
	PrintGreen("running race tests")
	pkgs := []string{"test", "-race", "-count=1", ".", "./server/...", "./sdk/engine/..."}
	return goCmd(nil, append(pkgs, args...)...)
}

func runCover(args []string) error {
	PrintGreen("running coverage")
	if err := goCmd(nil, append([]string{"test", "./...", "-coverprofile=coverage.out"}, args...)...); err != nil {
		return err
	}
	total := func(line string) bool { return strings.HasPrefix(line, "total:") }
	return goCmd(total, "tool", "cover", "-func=coverage.out")
}

func runPlay(args []string) error {
	return goCmd(nil, append([]string{"run", "./cmd/play"}, args...)...)
}

func runSvr(args []string) error {
	return goCmd(nil, append([]string{"run", "./cmd/svr", "-log-mode", "dev"}, args...)...)
}
