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

package dto

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/zintix-labs/coloris/sdk/core"
	"github.com/zintix-labs/coloris/sdk/engine"
	"github.com/zintix-labs/coloris/spec"
)

func TestDecodeSimRequestGET(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/v1/sim?game=classic&gid=7&bot=greedy&games=100&players=3&seed=42", nil)
	req, err := DecodeSimRequest(r)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if req.GameName != "classic" || req.GameId != 7 || req.Bot != "greedy" {
		t.Fatalf("unexpected request: %+v", req)
	}
	if req.Games != 100 || req.Players != 3 {
		t.Fatalf("unexpected request: %+v", req)
	}
	if req.Seed == nil || *req.Seed != 42 {
		t.Fatalf("unexpected seed: %v", req.Seed)
	}
}

func TestDecodeSimRequestPOST(t *testing.T) {
	payload := map[string]any{
		"gid":   9,
		"bot":   "random",
		"games": 5,
	}
	data, _ := json.Marshal(payload)
	r := httptest.NewRequest(http.MethodPost, "/v1/sim", bytes.NewReader(data))
	req, err := DecodeSimRequest(r)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if req.GameId != 9 || req.Games != 5 || req.Seed != nil {
		t.Fatalf("unexpected request: %+v", req)
	}
}

func TestDecodeSimRequestErrors(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/v1/sim?gid=abc", nil)
	if _, err := DecodeSimRequest(r); err == nil {
		t.Fatalf("expected gid error")
	}
	r = httptest.NewRequest(http.MethodPost, "/v1/sim", strings.NewReader(`{"gid":1,"bet":3}`))
	if _, err := DecodeSimRequest(r); err == nil {
		t.Fatalf("expected unknown field error")
	}
	r = httptest.NewRequest(http.MethodPut, "/v1/sim", nil)
	if _, err := DecodeSimRequest(r); err == nil {
		t.Fatalf("expected method error")
	}
}

func TestInputRequestNormalize(t *testing.T) {
	in := InputRequest{Op: " Left "}
	if err := in.Normalize(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if in.Op != OpLeft || in.Repeat != 1 {
		t.Fatalf("unexpected normalize: %+v", in)
	}
	bad := InputRequest{Op: "rotate"}
	if err := bad.Normalize(); err == nil {
		t.Fatalf("expected op error")
	}
	bad = InputRequest{Op: OpRight, Repeat: 1000}
	if err := bad.Normalize(); err == nil {
		t.Fatalf("expected repeat error")
	}
}

func TestTickRequestNormalize(t *testing.T) {
	tr := TickRequest{}
	if err := tr.Normalize(); err != nil || tr.Steps != 1 {
		t.Fatalf("unexpected normalize: %+v %v", tr, err)
	}
	tr = TickRequest{Dt: 2}
	if err := tr.Normalize(); err == nil {
		t.Fatalf("expected dt error")
	}
	tr = TickRequest{Steps: MaxTickSteps + 1}
	if err := tr.Normalize(); err == nil {
		t.Fatalf("expected steps error")
	}
}

func TestDecodeJSONEmptyBody(t *testing.T) {
	r := httptest.NewRequest(http.MethodPost, "/v1/sessions", strings.NewReader(""))
	var req CreateSessionRequest
	if err := DecodeJSON(r, &req); err == nil {
		t.Fatalf("expected empty body error")
	}
}

func TestNewSessionState(t *testing.T) {
	gs := spec.Default()
	e, err := engine.NewFromSetting(gs, core.New(core.Default().New(3)))
	if err != nil {
		t.Fatalf("engine: %v", err)
	}
	e.Board().Set(gs.Board.Rows-1, 2, 4)
	snap, _ := e.Core().Snapshot()

	st := NewSessionState(11, gs, e, snap, 5)
	if st.SessionID != 11 || st.GameName != gs.GameName || st.Inputs != 5 {
		t.Fatalf("unexpected header: %+v", st)
	}
	if st.Phase != "falling" || st.Pending != nil {
		t.Fatalf("unexpected phase: %s", st.Phase)
	}
	if len(st.Board) != gs.Board.Rows || len(st.Board[0]) != gs.Board.Columns {
		t.Fatalf("unexpected board dims %dx%d", len(st.Board), len(st.Board[0]))
	}
	if st.Board[gs.Board.Rows-1][2] != 4 || st.Board[0][0] != -1 {
		t.Fatalf("unexpected board cells")
	}
	if len(st.Piece.Colors) != gs.Piece.Length || len(st.Next) != gs.Piece.Length {
		t.Fatalf("unexpected piece colors")
	}
	if st.CoreB64U == "" {
		t.Fatalf("missing core snapshot")
	}

	// 修改 DTO 不影響引擎
	st.Board[gs.Board.Rows-1][2] = 0
	if e.Board().At(gs.Board.Rows-1, 2) != 4 {
		t.Fatalf("board dto must be a copy")
	}

	data, err := json.Marshal(st)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if !bytes.Contains(data, []byte(`"phase":"falling"`)) {
		t.Fatalf("unexpected json: %s", data)
	}
}
