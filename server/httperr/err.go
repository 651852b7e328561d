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

// Package httperr 把 errs 的錯誤分級映射到 HTTP 狀態碼並以 JSON 回寫。
package httperr

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/zintix-labs/coloris/errs"
)

// StatusCode 將錯誤映射成 HTTP status code。
//
//   - ctx timeout/cancel → 504/408
//   - errs.ErrNotFound  → 404
//   - errs.ErrClosed    → 503
//   - errs.Warn         → 400
//   - errs.Fatal        → 500
//
// 哨兵錯誤先判斷，因為被 Wrap 之後仍保留 Warn / Fatal 分級。
func StatusCode(err error) int {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case errors.Is(err, context.Canceled):
		return http.StatusRequestTimeout
	case errors.Is(err, errs.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, errs.ErrClosed):
		return http.StatusServiceUnavailable
	case errors.Is(err, errs.ErrEffectPending), errors.Is(err, errs.ErrEffectMismatch), errors.Is(err, errs.ErrNoEffect):
		return http.StatusConflict
	}

	var e *errs.E
	if errors.As(err, &e) {
		switch e.ErrLv {
		case errs.Warn:
			return http.StatusBadRequest
		case errs.Log:
			return http.StatusOK
		}
	}
	return http.StatusInternalServerError
}

// Body 錯誤回應
type Body struct {
	Status int    `json:"status"`
	Level  string `json:"level"`
	Error  string `json:"error"`
}

// Errs 寫回 JSON 錯誤
func Errs(w http.ResponseWriter, err error) {
	if err == nil {
		return
	}
	status := StatusCode(err)
	JSON(w, status, Body{
		Status: status,
		Level:  errs.ErrLv(errs.Level(err)),
		Error:  err.Error(),
	})
}

// JSON 寫回 JSON 回應
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// Log 只紀錄伺服器端需要關注的錯誤：逾時類為 Warn，5xx 為 Error
func Log(log *slog.Logger, msg string, err error) {
	if err == nil || log == nil {
		return
	}
	status := StatusCode(err)
	switch {
	case status == http.StatusRequestTimeout || status == http.StatusConflict || status == http.StatusTooManyRequests:
		log.Warn(msg, slog.Int("status", status), slog.Any("err", err))
	case status >= 500:
		log.Error(msg, slog.Int("status", status), slog.Any("err", err))
	}
}
