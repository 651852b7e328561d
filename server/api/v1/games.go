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

	"github.com/zintix-labs/coloris/catalog"
)

// Games GET /v1/games
func (h *Handler) Games(w http.ResponseWriter, r *http.Request) {
	type gamesResponse struct {
		Games []catalog.Summary `json:"games"`
		Bots  []string          `json:"bots"`
	}
	sum, err := h.lab.Summary()
	if err != nil {
		h.fail(w, r, "games", err)
		return
	}
	h.ok(w, gamesResponse{Games: sum, Bots: h.lab.Bots()})
}

// Metrics GET /v1/metrics
func (h *Handler) Metrics(w http.ResponseWriter, r *http.Request) {
	h.ok(w, h.rt.Metrics())
}
