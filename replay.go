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
	"encoding/json"
	"fmt"
	"io"

	"github.com/zintix-labs/coloris/corefmt"
	"github.com/zintix-labs/coloris/errs"
	"github.com/zintix-labs/coloris/sdk/engine"
	"github.com/zintix-labs/coloris/spec"
)

const (
	// ReplayVersion 回放檔格式版本
	ReplayVersion = 1
	// MaxReplaySteps 一份回放展開後 (每筆輸入乘上重複次數) 的總步數上限
	MaxReplaySteps = 1 << 24
)

// Replay 一局的完整重現資料：變體 + seed + 輸入序列。
// Score / Stats 為錄製當下的結果，回放後用來驗證。
type Replay struct {
	Version  int          `json:"v"`
	GameName string       `json:"game"`
	GameID   spec.GID     `json:"gid"`
	RNG      string       `json:"rng,omitempty"`
	Seed     int64        `json:"seed"`
	Auto     bool         `json:"auto"`
	Inputs   []Input      `json:"inputs"`
	Score    int          `json:"score"`
	Stats    engine.Stats `json:"stats"`
}

// Encode 寫出 uvarint(len) || zstd(json)
func (r *Replay) Encode(w io.Writer) error {
	raw, err := json.Marshal(r)
	if err != nil {
		return errs.Wrap(err, "marshal replay failed")
	}
	return corefmt.WriteFrame(w, raw)
}

// DecodeReplay 讀取 Encode 的輸出；內容不可信，錯誤一律為 Warn
func DecodeReplay(rd io.Reader) (*Replay, error) {
	raw, err := corefmt.ReadFrame(rd, 0)
	if err != nil {
		return nil, err
	}
	r := new(Replay)
	if err := json.Unmarshal(raw, r); err != nil {
		return nil, errs.WrapWarn(err, "unmarshal replay failed")
	}
	if r.Version != ReplayVersion {
		return nil, errs.NewWarn(fmt.Sprintf("unsupported replay version: %d", r.Version))
	}
	if err := r.check(); err != nil {
		return nil, err
	}
	return r, nil
}

// check 重播前先驗證全部輸入，避免不可信的回放在持鎖期間跑過久
func (r *Replay) check() error {
	if len(r.Inputs) > MaxInputLog {
		return errs.NewWarn(fmt.Sprintf("replay has too many inputs: %d", len(r.Inputs)))
	}
	steps := 0
	for i, in := range r.Inputs {
		if err := checkInput(in); err != nil {
			return errs.WrapWithExtra(err, "invalid replay input", fmt.Sprintf("index=%d", i))
		}
		steps += max(in.N, 1)
		if steps > MaxReplaySteps {
			return errs.NewWarn(fmt.Sprintf("replay exceeds %d steps", MaxReplaySteps))
		}
	}
	return nil
}

// ReplaySession 依回放資料重建一局並逐一套用輸入，最後比對分數與統計。
// 變體的 rng 與錄製時不同、或結果不一致時回傳 Warn。
func (l *Lab) ReplaySession(r *Replay, opts ...SessionOption) (*Session, error) {
	if r == nil {
		return nil, errs.NewWarn("nil replay")
	}
	if err := r.check(); err != nil {
		return nil, err
	}
	gs, err := l.GameSetting(r.GameID)
	if err != nil {
		return nil, err
	}
	if gs.GameName != r.GameName {
		return nil, errs.NewWarn(fmt.Sprintf("replay game mismatch: %s != %s", r.GameName, gs.GameName))
	}
	if gs.RNG != r.RNG {
		return nil, errs.NewWarn(fmt.Sprintf("replay rng mismatch: %q != %q", r.RNG, gs.RNG))
	}
	if r.Auto {
		opts = append(opts, WithAutoEffects())
	}
	s, err := l.NewSessionWithSeed(r.GameID, r.Seed, opts...)
	if err != nil {
		return nil, err
	}
	for i, in := range r.Inputs {
		if _, err := s.Apply(in); err != nil {
			return nil, errs.WrapWithExtra(err, "replay input failed", fmt.Sprintf("index=%d op=%s", i, in.Op))
		}
	}
	var score int
	var st engine.Stats
	s.Do(func(e *engine.Engine) {
		score = e.Score()
		st = e.Stats()
	})
	if score != r.Score || st != r.Stats {
		return s, errs.NewWarn(fmt.Sprintf("replay diverged: score %d != %d", score, r.Score))
	}
	return s, nil
}
