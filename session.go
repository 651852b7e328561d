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
	"crypto/rand"
	"fmt"
	"log/slog"
	"math"
	"math/big"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/zintix-labs/coloris/corefmt"
	"github.com/zintix-labs/coloris/dto"
	"github.com/zintix-labs/coloris/errs"
	"github.com/zintix-labs/coloris/sdk/core"
	"github.com/zintix-labs/coloris/sdk/engine"
	"github.com/zintix-labs/coloris/spec"
)

// MaxInputLog 單局輸入紀錄上限；超過後不再接受輸入 (回放檔需完整)
const MaxInputLog = 1 << 20

// Input 一次對引擎的操作，也是回放檔的最小單位。
//   - tick：Dt 為 0 時以刷新率推進 (Step)
//   - effect：Effect 為完成的特效編號
//   - restore：Snap 為亂數核心快照
//   - N 為重複次數，0 視為 1
type Input struct {
	Op     string  `json:"op"`
	N      int     `json:"n,omitempty"`
	Dt     float64 `json:"dt,omitempty"`
	Effect uint64  `json:"effect,omitempty"`
	Snap   []byte  `json:"snap,omitempty"`
}

// Session 封裝一局互動遊戲。
//
// 對外：以 Apply 送入輸入，以 State 取得可序列化狀態。
// 對內：持有 engine 與 亂數核心，並紀錄所有輸入以供回放。
//
// 並發語意：所有公開方法皆以 mu 序列化，engine 本身不做併發保護。
// State 回傳的 DTO 為深拷貝，離開臨界區後仍可安全持有。
type Session struct {
	id       uint64
	gs       *spec.GameSetting
	rng      string
	eng      *engine.Engine
	seed     int64 // 出生 seed；完整重現以 seed + inputs 為準
	auto     bool
	mu       sync.Mutex
	inputs   []Input
	logLimit int
	touched  atomic.Int64 // 最後操作時間 (unix nano)，供 Runtime 清理閒置 session
	log      *slog.Logger
	gameOver atomic.Bool
}

// SessionOption Session 選項
type SessionOption func(*Session)

// WithAutoEffects 消除特效發出當下即完成 (無動畫的前端或測試)
func WithAutoEffects() SessionOption {
	return func(s *Session) { s.auto = true }
}

// WithInputLogLimit 輸入紀錄上限，不超過 MaxInputLog
func WithInputLogLimit(n int) SessionOption {
	return func(s *Session) {
		if n > 0 && n < MaxInputLog {
			s.logLimit = n
		}
	}
}

func WithSessionLogger(l *slog.Logger) SessionOption {
	return func(s *Session) {
		if l != nil {
			s.log = l
		}
	}
}

func withSessionID(id uint64) SessionOption {
	return func(s *Session) { s.id = id }
}

func cryptoSeed() (int64, error) {
	seed, err := rand.Int(rand.Reader, big.NewInt(math.MaxInt64))
	if err != nil {
		return 0, errs.Wrap(err, "new crypto seed error in go std lib")
	}
	return seed.Int64(), nil
}

func newSession(gs *spec.GameSetting, cf core.PRNGFactory, seed int64, opts ...SessionOption) (*Session, error) {
	s := &Session{
		gs:       gs,
		rng:      gs.RNG,
		seed:     seed,
		inputs:   make([]Input, 0, 256),
		logLimit: MaxInputLog,
		log:      slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.log = s.log.With(slog.String("game", gs.GameName), slog.Uint64("session", s.id))

	eopts := []engine.Option{
		engine.WithLogger(s.log),
		engine.WithHooks(engine.Hooks{
			OnGameOver: func(reason string) {
				s.gameOver.Store(true)
				s.log.Info("game over", slog.String("reason", reason))
			},
		}),
	}
	if s.auto {
		eopts = append(eopts, engine.WithAutoComplete())
	}
	eng, err := engine.NewFromSetting(gs, core.New(cf.New(seed)), eopts...)
	if err != nil {
		return nil, err
	}
	s.eng = eng
	s.touch()
	return s, nil
}

func (s *Session) touch() {
	s.touched.Store(time.Now().UnixNano())
}

func (s *Session) ID() uint64                 { return s.id }
func (s *Session) Seed() int64                { return s.seed }
func (s *Session) GameID() spec.GID           { return s.gs.GameID }
func (s *Session) GameName() string           { return s.gs.GameName }
func (s *Session) Setting() *spec.GameSetting { return s.gs }
func (s *Session) AutoEffects() bool          { return s.auto }

// IsGameOver 不需取鎖
func (s *Session) IsGameOver() bool { return s.gameOver.Load() }

// LastTouch 最後一次操作時間
func (s *Session) LastTouch() time.Time {
	return time.Unix(0, s.touched.Load())
}

// Apply 執行一次輸入並回傳是否生效 (至少一次重複生效即為 true)。
//
// 落下階段以外的移動、加速與重排會被引擎忽略 (回傳 false，不算錯誤)。
// tick 的回傳值為期間是否有方塊落地。
// 特效編號不符或沒有進行中的特效時回傳對應的 Warn 錯誤。
func (s *Session) Apply(in Input) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.apply(in)
}

// checkInput 重複次數與步長上限；回放檔內容不可信，與 HTTP 請求同一套限制
func checkInput(in Input) error {
	limit := dto.MaxRepeat
	if in.Op == dto.OpTick {
		limit = dto.MaxTickSteps
		if !(in.Dt >= 0 && in.Dt <= dto.MaxTickDt) {
			return errs.NewWarn(fmt.Sprintf("invalid dt: %v", in.Dt))
		}
	}
	if in.N < 0 || in.N > limit {
		return errs.NewWarn(fmt.Sprintf("invalid repeat for %s: %d (max %d)", in.Op, in.N, limit))
	}
	return nil
}

func (s *Session) apply(in Input) (bool, error) {
	s.touch()
	if err := checkInput(in); err != nil {
		return false, err
	}
	n := max(in.N, 1)
	if len(s.inputs) >= s.logLimit && s.mergeTarget(in, n) == nil {
		return false, errs.ErrInputLogFull
	}
	applied := false
	switch in.Op {
	case dto.OpLeft:
		applied = repeat(n, s.eng.MoveLeft)
	case dto.OpRight:
		applied = repeat(n, s.eng.MoveRight)
	case dto.OpSpeedUp:
		applied = repeat(n, s.eng.SpeedUp)
	case dto.OpReorder:
		applied = repeat(n, s.eng.Reorder)
	case dto.OpDrop:
		applied = repeat(n, s.eng.DropToLanding)
	case dto.OpTick:
		if in.Dt == 0 {
			applied = repeat(n, s.eng.Step)
		} else {
			applied = repeat(n, func() bool { return s.eng.Tick(in.Dt) })
		}
	case dto.OpEffect:
		if err := s.eng.CompleteEffect(in.Effect); err != nil {
			return false, err
		}
		applied = true
	case dto.OpRestore:
		if err := s.eng.Core().Restore(in.Snap); err != nil {
			return false, errs.WrapWarn(err, "restore core failed")
		}
		in.Snap = slices.Clone(in.Snap)
		applied = true
	case dto.OpRestart:
		s.eng.Restart()
		s.gameOver.Store(false)
		applied = true
	default:
		return false, errs.NewWarn(fmt.Sprintf("unknown op: %q", in.Op))
	}
	s.record(in, n)
	return applied, nil
}

// record 寫入輸入紀錄；連續且步長相同的 tick 併成一筆，
// 以刷新率驅動的前端才不會一個 frame 佔一筆。
func (s *Session) record(in Input, n int) {
	if last := s.mergeTarget(in, n); last != nil {
		last.N = max(last.N, 1) + n
		return
	}
	s.inputs = append(s.inputs, in)
}

// mergeTarget 可併入的上一筆 tick；沒有時回傳 nil
func (s *Session) mergeTarget(in Input, n int) *Input {
	if in.Op != dto.OpTick || len(s.inputs) == 0 {
		return nil
	}
	last := &s.inputs[len(s.inputs)-1]
	if last.Op != dto.OpTick || last.Dt != in.Dt || max(last.N, 1)+n > dto.MaxTickSteps {
		return nil
	}
	return last
}

// repeat 執行 n 次，任一次成功即回傳 true
func repeat(n int, f func() bool) bool {
	ok := false
	for range n {
		if f() {
			ok = true
		}
	}
	return ok
}

// Do 在鎖內以 engine 執行 fn (唯讀查詢或測試用)；fn 內的變更不會被紀錄到回放
func (s *Session) Do(fn func(e *engine.Engine)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(s.eng)
}

// State 取得可序列化狀態
func (s *Session) State() (dto.SessionState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state()
}

func (s *Session) state() (dto.SessionState, error) {
	snap, err := s.eng.Core().Snapshot()
	if err != nil {
		return dto.SessionState{}, errs.Wrap(err, "snapshot core failed")
	}
	return dto.NewSessionState(s.id, s.gs, s.eng, snap, len(s.inputs)), nil
}

// ApplyState Apply 後立即取得狀態 (單次取鎖)
func (s *Session) ApplyState(in Input) (dto.SessionState, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ok, err := s.apply(in)
	if err != nil {
		return dto.SessionState{}, false, err
	}
	st, err := s.state()
	return st, ok, err
}

// SnapshotCore 取得亂數核心快照
func (s *Session) SnapshotCore() ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.eng.Core().Snapshot()
}

// RestoreCore 還原亂數核心 (會紀錄為 restore 輸入，回放時重現)
func (s *Session) RestoreCore(snap []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := s.apply(Input{Op: dto.OpRestore, Snap: snap})
	if err == nil {
		s.log.Debug("core restored", slog.String("snap", corefmt.EncodeHex(snap)))
	}
	return err
}

// Replay 目前為止的回放資料
func (s *Session) Replay() *Replay {
	s.mu.Lock()
	defer s.mu.Unlock()
	return &Replay{
		Version:  ReplayVersion,
		GameName: s.gs.GameName,
		GameID:   s.gs.GameID,
		RNG:      s.rng,
		Seed:     s.seed,
		Auto:     s.auto,
		Inputs:   slices.Clone(s.inputs),
		Score:    s.eng.Score(),
		Stats:    s.eng.Stats(),
	}
}
