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
	"bytes"
	"encoding/json"
	"io"
	"mime"
	"net/http"

	"github.com/zintix-labs/coloris"
	"github.com/zintix-labs/coloris/corefmt"
	"github.com/zintix-labs/coloris/errs"
	"github.com/zintix-labs/coloris/server/httperr"
)

// ReplayContentType 回放檔為 uvarint(len) || zstd(json)
const ReplayContentType = "application/zstd"

// Replay GET /v1/sessions/{id}/replay
//
// 預設回傳壓縮回放檔；?format=json 回傳明文 JSON (除錯用)。
func (h *Handler) Replay(w http.ResponseWriter, r *http.Request) {
	id, err := sessionID(r)
	if err != nil {
		h.fail(w, r, "replay", err)
		return
	}
	var rep *coloris.Replay
	err = h.rt.Do(r.Context(), id, func(s *coloris.Session) error {
		rep = s.Replay()
		return nil
	})
	if err != nil {
		h.fail(w, r, "replay", err)
		return
	}
	if r.URL.Query().Get("format") == "json" {
		h.ok(w, rep)
		return
	}
	// 先寫進 buffer，失敗時仍能回 JSON 錯誤
	var buf bytes.Buffer
	if err := rep.Encode(&buf); err != nil {
		h.fail(w, r, "replay", err)
		return
	}
	w.Header().Set("Content-Type", ReplayContentType)
	w.Header().Set("Content-Disposition", "attachment; filename=coloris-"+formatID(id)+".replay")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

// ImportReplay POST /v1/replays
//
// body 為回放檔 (application/zstd) 或 JSON。回放重現後與紀錄不一致時回 400，session 不保留。
func (h *Handler) ImportReplay(w http.ResponseWriter, r *http.Request) {
	rep, err := decodeReplay(r)
	if err != nil {
		h.fail(w, r, "import replay", err)
		return
	}
	s, err := h.rt.Import(r.Context(), rep)
	if err != nil {
		h.fail(w, r, "import replay", err)
		return
	}
	st, err := s.State()
	if err != nil {
		h.fail(w, r, "import replay", err)
		return
	}
	w.Header().Set("Location", "/v1/sessions/"+formatID(s.ID()))
	httperr.JSON(w, http.StatusCreated, st)
}

func decodeReplay(r *http.Request) (*coloris.Replay, error) {
	if r.Body == nil {
		return nil, errs.NewWarn("empty request body")
	}
	body := io.LimitReader(r.Body, int64(corefmt.DefaultMaxFrame)+16)
	ct, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if ct != "application/json" {
		return coloris.DecodeReplay(body)
	}
	rep := new(coloris.Replay)
	if err := json.NewDecoder(body).Decode(rep); err != nil {
		return nil, errs.WrapWarn(err, "invalid replay json")
	}
	if rep.Version != coloris.ReplayVersion {
		return nil, errs.Warnf("unsupported replay version: %d", rep.Version)
	}
	return rep, nil
}
