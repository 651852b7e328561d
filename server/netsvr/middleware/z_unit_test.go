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

package middleware

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func serve(h http.Handler, method, accept string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, "/", nil)
	if accept != "" {
		req.Header.Set("Accept-Encoding", accept)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestCompressionGzip(t *testing.T) {
	body := strings.Repeat(`{"score":12}`, 64)
	h := Compression(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, body)
	}))
	rec := serve(h, http.MethodGet, "gzip")
	require.Equal(t, "gzip", rec.Header().Get("Content-Encoding"))

	zr, err := gzip.NewReader(rec.Body)
	require.NoError(t, err)
	raw, err := io.ReadAll(zr)
	require.NoError(t, err)
	assert.Equal(t, body, string(raw))
}

func TestCompressionSkips(t *testing.T) {
	frame := Compression(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/zstd")
		_, _ = w.Write([]byte{1, 2, 3})
	}))
	rec := serve(frame, http.MethodGet, "zstd, gzip")
	assert.Empty(t, rec.Header().Get("Content-Encoding"))
	assert.Equal(t, []byte{1, 2, 3}, rec.Body.Bytes())

	empty := Compression(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	rec = serve(empty, http.MethodGet, "gzip")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, rec.Header().Get("Content-Encoding"))
	assert.Zero(t, rec.Body.Len())

	plain := Compression(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, "ok")
	}))
	rec = serve(plain, http.MethodGet, "")
	assert.Equal(t, "ok", rec.Body.String())
}

func TestRecover(t *testing.T) {
	h := RequestID(Recover(slog.New(slog.DiscardHandler))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	})))
	rec := serve(h, http.MethodPost, "")
	require.Equal(t, http.StatusInternalServerError, rec.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "fatal", body["level"])

	abort := Recover(nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic(http.ErrAbortHandler)
	}))
	assert.PanicsWithValue(t, http.ErrAbortHandler, func() { serve(abort, http.MethodGet, "") })
}

func TestAccessLogAndRequestID(t *testing.T) {
	var sb strings.Builder
	log := slog.New(slog.NewJSONHandler(&sb, nil))
	h := RequestID(AccessLog(log)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.NotEmpty(t, GetReqId(r))
		w.WriteHeader(http.StatusConflict)
		_, _ = io.WriteString(w, "busy")
	})))
	rec := serve(h, http.MethodGet, "")
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, sb.String(), `"status":409`)
	assert.Contains(t, sb.String(), `"bytes":4`)
	assert.Contains(t, sb.String(), `"level":"WARN"`)

	assert.Equal(t, slog.LevelError, levelByStatus(503))
	assert.Equal(t, slog.LevelInfo, levelByStatus(201))
}
