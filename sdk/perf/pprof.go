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

// Package perf 命令列工具的 profiling 包裝：執行 exe 並依模式寫出 pprof / trace 檔。
package perf

import (
	"os"
	"path/filepath"
	"runtime"
	"runtime/pprof"
	"runtime/trace"

	"github.com/zintix-labs/coloris/errs"
)

// Dir pprof 檔案寫入路徑
var Dir = "build/profiling"

// Modes 支援的模式；空字串表示不做 profiling
var Modes = []string{"", "cpu", "heap", "allocs", "trace"}

// RunPProf 依 mode 決定執行哪種 profiling；未知模式回傳 Warn 且不執行 exe
func RunPProf(exe func(), mode string) error {
	switch mode {
	case "":
		exe()
		return nil
	case "cpu":
		return PProfCPU(exe)
	case "heap":
		return PProfHeap(exe)
	case "allocs":
		return PProfAllocs(exe)
	case "trace":
		return Trace(exe)
	}
	return errs.Warnf("unknown pprof mode: %q", mode)
}

func create(name string) (*os.File, error) {
	if err := os.MkdirAll(Dir, 0o755); err != nil {
		return nil, errs.Wrap(err, "create profiling dir failed")
	}
	f, err := os.Create(filepath.Join(Dir, name))
	if err != nil {
		return nil, errs.Wrap(err, "create "+name+" failed")
	}
	return f, nil
}

// PProfCPU 對 exe 做 CPU profiling，可作性能分析，也可作為 pgo 的 profile。
//
//	go run ./cmd/run -p cpu
func PProfCPU(exe func()) error {
	f, err := create("cpu.pprof")
	if err != nil {
		return err
	}
	defer f.Close()
	if err := pprof.StartCPUProfile(f); err != nil {
		return errs.Wrap(err, "start cpu profile failed")
	}
	defer pprof.StopCPUProfile()
	exe()
	return nil
}

// PProfHeap 在 exe 結束後寫出一次 Heap 快照 (in-use memory)。
// 寫出前先 GC，讓快照貼近存活物件。
func PProfHeap(exe func()) error {
	exe()
	f, err := create("heap.pprof")
	if err != nil {
		return err
	}
	defer f.Close()
	runtime.GC()
	if err := pprof.WriteHeapProfile(f); err != nil {
		return errs.Wrap(err, "write heap profile failed")
	}
	return nil
}

// PProfAllocs 在 exe 結束後寫出累積配置 (allocs)；搭配 -alloc_space / -alloc_objects 查看
func PProfAllocs(exe func()) error {
	exe()
	f, err := create("allocs.pprof")
	if err != nil {
		return err
	}
	defer f.Close()
	if prof := pprof.Lookup("allocs"); prof != nil {
		if err := prof.WriteTo(f, 0); err != nil {
			return errs.Wrap(err, "write allocs profile failed")
		}
	}
	return nil
}

// Trace 以 runtime/trace 記錄 exe，觀察模擬 worker 的排程
func Trace(exe func()) error {
	f, err := create("trace.out")
	if err != nil {
		return err
	}
	defer f.Close()
	if err := trace.Start(f); err != nil {
		return errs.Wrap(err, "start trace failed")
	}
	defer trace.Stop()
	exe()
	return nil
}
