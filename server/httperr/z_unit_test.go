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

package httperr

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/zintix-labs/coloris/errs"
)

func TestStatusCode(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{context.DeadlineExceeded, http.StatusGatewayTimeout},
		{errs.WrapWarn(context.Canceled, "canceled"), http.StatusRequestTimeout},
		{errs.Wrap(errs.ErrNotFound, "session not found"), http.StatusNotFound},
		{errs.Wrap(errs.ErrClosed, "runtime closed"), http.StatusServiceUnavailable},
		{errs.ErrEffectMismatch, http.StatusConflict},
		{errs.NewWarn("bad"), http.StatusBadRequest},
		{errs.NewFatal("boom"), http.StatusInternalServerError},
	}
	for i, c := range cases {
		if got := StatusCode(c.err); got != c.want {
			t.Fatalf("case %d: got %d want %d (%v)", i, got, c.want, c.err)
		}
	}
}

func TestErrsWritesJSON(t *testing.T) {
	rec := httptest.NewRecorder()
	Errs(rec, errs.NewWarn("invalid op"))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("unexpected status %d", rec.Code)
	}
	var b Body
	if err := json.Unmarshal(rec.Body.Bytes(), &b); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if b.Level != "warn" || b.Status != http.StatusBadRequest {
		t.Fatalf("unexpected body: %+v", b)
	}
}
