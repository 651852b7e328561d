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

package api

import (
	"net/http"

	"github.com/zintix-labs/coloris"
	"github.com/zintix-labs/coloris/server/httperr"
	"github.com/zintix-labs/coloris/spec"
)

var endpoints = []string{
	"GET    /v1/games",
	"GET    /v1/metrics",
	"GET    /v1/sessions",
	"POST   /v1/sessions",
	"GET    /v1/sessions/{id}",
	"DELETE /v1/sessions/{id}",
	"POST   /v1/sessions/{id}/input",
	"POST   /v1/sessions/{id}/tick",
	"POST   /v1/sessions/{id}/effect",
	"POST   /v1/sessions/{id}/restore",
	"POST   /v1/sessions/{id}/autoplay",
	"GET    /v1/sessions/{id}/replay",
	"POST   /v1/replays",
	"GET    /v1/sim",
	"POST   /v1/sim",
	"POST   /v1/simbycfg",
	"POST   /v1/stat",
}

type index struct {
	Service   string     `json:"service"`
	Games     []spec.GID `json:"games"`
	Bots      []string   `json:"bots"`
	Endpoints []string   `json:"endpoints"`
}

func newIndex(lab *coloris.Lab) *index {
	return &index{
		Service:   "coloris",
		Games:     lab.IDs(),
		Bots:      lab.Bots(),
		Endpoints: endpoints,
	}
}

func (i *index) Serve(w http.ResponseWriter, r *http.Request) {
	httperr.JSON(w, http.StatusOK, i)
}
