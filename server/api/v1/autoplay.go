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
	"github.com/zintix-labs/coloris/dto"
)

// Autoplay POST /v1/sessions/{id}/autoplay
//
// 由策略代打；所有操作都紀錄進回放檔。seed 只影響策略本身的亂數。
func (h *Handler) Autoplay(w http.ResponseWriter, r *http.Request) {
	req := new(dto.AutoplayRequest)
	if err := dto.DecodeJSON(r, req); err != nil {
		h.fail(w, r, "autoplay", err)
		return
	}
	seed := int64(0)
	if req.Seed != nil {
		seed = *req.Seed
	}
	h.withSession(w, r, "autoplay", func(s *coloris.Session) (any, error) {
		if req.Seed == nil {
			seed = s.Seed()
		}
		return h.lab.Autoplay(s, req.Bot, seed, req.Pieces)
	})
}
