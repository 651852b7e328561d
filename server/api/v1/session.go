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

package v1

import (
	"net/http"

	"github.com/zintix-labs/coloris"
	"github.com/zintix-labs/coloris/corefmt"
	"github.com/zintix-labs/coloris/dto"
	"github.com/zintix-labs/coloris/errs"
	"github.com/zintix-labs/coloris/server/httperr"
)

// CreateSession POST /v1/sessions
func (h *Handler) CreateSession(w http.ResponseWriter, r *http.Request) {
	req := new(dto.CreateSessionRequest)
	if err := dto.DecodeJSON(r, req); err != nil {
		h.fail(w, r, "create session", err)
		return
	}
	gid, err := h.lab.Resolve(req.GameId, req.GameName)
	if err != nil {
		h.fail(w, r, "create session", err)
		return
	}
	s, err := h.rt.Create(r.Context(), gid, req.Seed, req.AutoEffects)
	if err != nil {
		h.fail(w, r, "create session", err)
		return
	}
	st, err := s.State()
	if err != nil {
		h.fail(w, r, "create session", err)
		return
	}
	w.Header().Set("Location", "/v1/sessions/"+formatID(s.ID()))
	httperr.JSON(w, http.StatusCreated, st)
}

// ListSessions GET /v1/sessions
func (h *Handler) ListSessions(w http.ResponseWriter, r *http.Request) {
	type item struct {
		ID       uint64 `json:"id"`
		GameName string `json:"game"`
		GameOver bool   `json:"game_over"`
	}
	ids := h.rt.IDs()
	out := make([]item, 0, len(ids))
	for _, id := range ids {
		s, err := h.rt.Get(r.Context(), id)
		if err != nil {
			// 列舉期間被清除
			if errs.Level(err) == errs.Warn {
				continue
			}
			h.fail(w, r, "list sessions", err)
			return
		}
		out = append(out, item{ID: id, GameName: s.GameName(), GameOver: s.IsGameOver()})
	}
	h.ok(w, out)
}

// GetSession GET /v1/sessions/{id}
func (h *Handler) GetSession(w http.ResponseWriter, r *http.Request) {
	h.withSession(w, r, "get session", func(s *coloris.Session) (any, error) {
		return s.State()
	})
}

// DeleteSession DELETE /v1/sessions/{id}
func (h *Handler) DeleteSession(w http.ResponseWriter, r *http.Request) {
	id, err := sessionID(r)
	if err != nil {
		h.fail(w, r, "delete session", err)
		return
	}
	if err := h.rt.Delete(r.Context(), id); err != nil {
		h.fail(w, r, "delete session", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Input POST /v1/sessions/{id}/input
func (h *Handler) Input(w http.ResponseWriter, r *http.Request) {
	req := new(dto.InputRequest)
	if err := dto.DecodeJSON(r, req); err != nil {
		h.fail(w, r, "input", err)
		return
	}
	if err := req.Normalize(); err != nil {
		h.fail(w, r, "input", err)
		return
	}
	h.apply(w, r, "input", coloris.Input{Op: req.Op, N: req.Repeat})
}

// Tick POST /v1/sessions/{id}/tick
func (h *Handler) Tick(w http.ResponseWriter, r *http.Request) {
	req := new(dto.TickRequest)
	if err := dto.DecodeJSON(r, req); err != nil {
		h.fail(w, r, "tick", err)
		return
	}
	if err := req.Normalize(); err != nil {
		h.fail(w, r, "tick", err)
		return
	}
	h.apply(w, r, "tick", coloris.Input{Op: dto.OpTick, N: req.Steps, Dt: req.Dt})
}

// Effect POST /v1/sessions/{id}/effect
func (h *Handler) Effect(w http.ResponseWriter, r *http.Request) {
	req := new(dto.EffectRequest)
	if err := dto.DecodeJSON(r, req); err != nil {
		h.fail(w, r, "effect", err)
		return
	}
	h.apply(w, r, "effect", coloris.Input{Op: dto.OpEffect, Effect: req.ID})
}

// Restore POST /v1/sessions/{id}/restore
func (h *Handler) Restore(w http.ResponseWriter, r *http.Request) {
	req := new(dto.RestoreRequest)
	if err := dto.DecodeJSON(r, req); err != nil {
		h.fail(w, r, "restore", err)
		return
	}
	snap, err := corefmt.DecodeBase64URL(req.CoreB64U)
	if err != nil {
		h.fail(w, r, "restore", err)
		return
	}
	h.apply(w, r, "restore", coloris.Input{Op: dto.OpRestore, Snap: snap})
}

func (h *Handler) apply(w http.ResponseWriter, r *http.Request, msg string, in coloris.Input) {
	h.withSession(w, r, msg, func(s *coloris.Session) (any, error) {
		st, ok, err := s.ApplyState(in)
		if err != nil {
			return nil, err
		}
		return dto.InputResponse{Applied: ok, State: st}, nil
	})
}

// withSession 取得 {id} 對應的 session，在 Runtime.Do 內執行 fn 並回寫結果
func (h *Handler) withSession(w http.ResponseWriter, r *http.Request, msg string, fn func(s *coloris.Session) (any, error)) {
	id, err := sessionID(r)
	if err != nil {
		h.fail(w, r, msg, err)
		return
	}
	var out any
	err = h.rt.Do(r.Context(), id, func(s *coloris.Session) error {
		v, err := fn(s)
		out = v
		return err
	})
	if err != nil {
		h.fail(w, r, msg, err)
		return
	}
	h.ok(w, out)
}
