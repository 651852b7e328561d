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
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/kamstrup/intmap"
	"github.com/zintix-labs/coloris/errs"
	"github.com/zintix-labs/coloris/spec"
)

// DefaultMaxSessions 同時存活的 session 上限
const DefaultMaxSessions = 4096

// Runtime 伺服器用的 session 表。
//
// sessions 以 uint64 id 為 key 存在 intmap；order 保留建立順序供列舉與清理。
// 單一 session 的操作由 Session 自己的鎖序列化，Runtime 的鎖只保護表本身。
//
// 若 session 在操作中 panic，視為狀態不可信：回傳 Fatal 錯誤並將其移出表 (不重建)。
type Runtime struct {
	lab *Lab

	mu       sync.RWMutex
	sessions *intmap.Map[uint64, *Session]
	order    []uint64
	nextID   atomic.Uint64
	max      int

	// metrics
	created atomic.Int64
	removed atomic.Int64
	swept   atomic.Int64
	panics  atomic.Int64

	// lifecycle
	done      chan struct{}
	closeOnce sync.Once
	closed    atomic.Bool
	reason    atomic.Value // string
}

func newRuntime(lab *Lab, maxSessions int) *Runtime {
	if maxSessions <= 0 {
		maxSessions = DefaultMaxSessions
	}
	rt := &Runtime{
		lab:      lab,
		sessions: intmap.New[uint64, *Session](min(maxSessions, 1024)),
		order:    make([]uint64, 0, min(maxSessions, 1024)),
		max:      maxSessions,
		done:     make(chan struct{}),
	}
	rt.reason.Store("")
	return rt
}

func (rt *Runtime) Lab() *Lab {
	return rt.lab
}

// check ctx 與 lifecycle；done 為唯一真實來源
func (rt *Runtime) check(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return errs.WrapWarn(ctx.Err(), "request canceled/timeout")
	case <-rt.done:
		rt.closed.Store(true)
		return errs.WrapWithExtra(errs.ErrClosed, "runtime closed", rt.ClosedReason())
	default:
	}
	return nil
}

// Create 開新局。seed 為 nil 時以 crypto/rand 產生
func (rt *Runtime) Create(ctx context.Context, id spec.GID, seed *int64, auto bool) (*Session, error) {
	if err := rt.check(ctx); err != nil {
		return nil, err
	}
	if err := rt.hasRoom(); err != nil {
		return nil, err
	}

	sid := rt.nextID.Add(1)
	opts := []SessionOption{withSessionID(sid)}
	if auto {
		opts = append(opts, WithAutoEffects())
	}
	var (
		s   *Session
		err error
	)
	if seed != nil {
		s, err = rt.lab.NewSessionWithSeed(id, *seed, opts...)
	} else {
		s, err = rt.lab.NewSession(id, opts...)
	}
	if err != nil {
		return nil, err
	}

	if err := rt.put(sid, s); err != nil {
		return nil, err
	}
	rt.lab.log.Info("session created",
		slog.Uint64("session", sid),
		slog.String("game", s.GameName()),
		slog.Int64("seed", s.Seed()),
	)
	return s, nil
}

// Import 以回放檔重建一局並放入表中；回放不一致時不放入。
// 表已滿時不重播，直接回傳 Warn。
func (rt *Runtime) Import(ctx context.Context, r *Replay) (*Session, error) {
	if err := rt.check(ctx); err != nil {
		return nil, err
	}
	if err := rt.hasRoom(); err != nil {
		return nil, err
	}
	sid := rt.nextID.Add(1)
	s, err := rt.lab.ReplaySession(r, withSessionID(sid))
	if err != nil {
		return nil, err
	}
	if err := rt.put(sid, s); err != nil {
		return nil, err
	}
	rt.lab.log.Info("session imported",
		slog.Uint64("session", sid),
		slog.String("game", s.GameName()),
		slog.Int("inputs", len(r.Inputs)),
	)
	return s, nil
}

// hasRoom 建局前的容量檢查；put 時會再檢查一次
func (rt *Runtime) hasRoom() error {
	rt.mu.RLock()
	full := rt.sessions.Len() >= rt.max
	rt.mu.RUnlock()
	if full {
		return errs.NewWarn(fmt.Sprintf("too many sessions (max %d)", rt.max))
	}
	return nil
}

func (rt *Runtime) put(sid uint64, s *Session) error {
	rt.mu.Lock()
	defer rt.mu.Unlock()
	if rt.sessions.Len() >= rt.max {
		return errs.NewWarn(fmt.Sprintf("too many sessions (max %d)", rt.max))
	}
	rt.sessions.Put(sid, s)
	rt.order = append(rt.order, sid)
	rt.created.Add(1)
	return nil
}

// Get 取得 session；不存在回傳 errs.ErrNotFound
func (rt *Runtime) Get(ctx context.Context, id uint64) (*Session, error) {
	if err := rt.check(ctx); err != nil {
		return nil, err
	}
	rt.mu.RLock()
	s, ok := rt.sessions.Get(id)
	rt.mu.RUnlock()
	if !ok {
		return nil, errs.WrapWithExtra(errs.ErrNotFound, "session not found", fmt.Sprintf("session=%d", id))
	}
	return s, nil
}

// Delete 移除 session；不存在回傳 errs.ErrNotFound
func (rt *Runtime) Delete(ctx context.Context, id uint64) error {
	if err := rt.check(ctx); err != nil {
		return err
	}
	if !rt.remove(id) {
		return errs.WrapWithExtra(errs.ErrNotFound, "session not found", fmt.Sprintf("session=%d", id))
	}
	return nil
}

func (rt *Runtime) remove(id uint64) bool {
	rt.mu.Lock()
	defer rt.mu.Unlock()
	if _, ok := rt.sessions.Get(id); !ok {
		return false
	}
	rt.sessions.Del(id)
	if i := slices.Index(rt.order, id); i >= 0 {
		rt.order = slices.Delete(rt.order, i, i+1)
	}
	rt.removed.Add(1)
	return true
}

// Do 取得 session 後執行 fn。fn panic 時 session 被移除並回傳 Fatal。
func (rt *Runtime) Do(ctx context.Context, id uint64, fn func(s *Session) error) (err error) {
	s, err := rt.Get(ctx, id)
	if err != nil {
		return err
	}
	defer func() {
		if r := recover(); r != nil {
			rt.panics.Add(1)
			rt.remove(id)
			rt.lab.log.Error("session panic", slog.Uint64("session", id), slog.Any("panic", r))
			err = errs.NewFatal(fmt.Sprintf("session %d panic : %v", id, r))
		}
	}()
	return fn(s)
}

// Sweep 移除閒置超過 idle 的 session，回傳移除數量
func (rt *Runtime) Sweep(idle time.Duration) int {
	cutoff := time.Now().Add(-idle)
	rt.mu.Lock()
	defer rt.mu.Unlock()
	kept := rt.order[:0]
	n := 0
	for _, id := range rt.order {
		s, ok := rt.sessions.Get(id)
		if ok && s.LastTouch().Before(cutoff) {
			rt.sessions.Del(id)
			n++
			continue
		}
		if ok {
			kept = append(kept, id)
		}
	}
	clear(rt.order[len(kept):])
	rt.order = kept
	rt.swept.Add(int64(n))
	rt.removed.Add(int64(n))
	return n
}

// RunSweeper 每隔 every 清理一次閒置 session，直到 ctx 結束或 runtime 關閉
func (rt *Runtime) RunSweeper(ctx context.Context, every time.Duration, idle time.Duration) {
	t := time.NewTicker(every)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-rt.done:
			return
		case <-t.C:
			if n := rt.Sweep(idle); n > 0 {
				rt.lab.log.Info("idle sessions swept", slog.Int("count", n))
			}
		}
	}
}

// IDs 依建立順序
func (rt *Runtime) IDs() []uint64 {
	rt.mu.RLock()
	defer rt.mu.RUnlock()
	return slices.Clone(rt.order)
}

func (rt *Runtime) Len() int {
	rt.mu.RLock()
	defer rt.mu.RUnlock()
	return rt.sessions.Len()
}

// RuntimeMetrics 拉取式觀測快照，不綁任何 metrics SDK
type RuntimeMetrics struct {
	Sessions    int    `json:"sessions"`
	MaxSessions int    `json:"max_sessions"`
	Created     int64  `json:"created"`
	Removed     int64  `json:"removed"`
	Swept       int64  `json:"swept"`
	Panics      int64  `json:"panics"`
	Closed      bool   `json:"closed"`
	CloseReason string `json:"close_reason"`
}

func (rt *Runtime) Metrics() RuntimeMetrics {
	return RuntimeMetrics{
		Sessions:    rt.Len(),
		MaxSessions: rt.max,
		Created:     rt.created.Load(),
		Removed:     rt.removed.Load(),
		Swept:       rt.swept.Load(),
		Panics:      rt.panics.Load(),
		Closed:      rt.Closed(),
		CloseReason: rt.ClosedReason(),
	}
}

// Close 進入關閉狀態並清空 session 表；可重複呼叫
func (rt *Runtime) Close() {
	rt.closeWithReason("closed")
}

// closeWithReason 原因只寫入一次
func (rt *Runtime) closeWithReason(reason string) {
	rt.closeOnce.Do(func() {
		if reason == "" {
			reason = "closed"
		}
		rt.reason.Store(reason)
		rt.closed.Store(true)
		close(rt.done)

		rt.mu.Lock()
		rt.sessions.Clear()
		rt.order = rt.order[:0]
		rt.mu.Unlock()
	})
}

func (rt *Runtime) Closed() bool {
	return rt.closed.Load()
}

func (rt *Runtime) ClosedReason() string {
	if v := rt.reason.Load(); v != nil {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}
