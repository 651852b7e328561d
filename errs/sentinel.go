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

package errs

// 引擎與執行期共用的哨兵錯誤，呼叫端以 errors.Is 比對。
var (
	// ErrEffectPending : 消除特效尚未完成時，拒絕再次觸發消除解析
	ErrEffectPending = NewWarn("destruction effect still pending")
	// ErrNoEffect : 沒有進行中的特效，卻收到完成通知
	ErrNoEffect = NewWarn("no destruction effect pending")
	// ErrEffectMismatch : 完成通知的特效編號與進行中的不符
	ErrEffectMismatch = NewWarn("destruction effect id mismatch")
	// ErrGameOver : 遊戲已結束
	ErrGameOver = NewWarn("game is over")
	// ErrNotFound : 查無資源（session / game）
	ErrNotFound = NewWarn("resource not found")
	// ErrInputLogFull : 單局輸入紀錄已達上限，回放檔無法再延長
	ErrInputLogFull = NewWarn("session input log is full")
	// ErrClosed : runtime 已關閉
	ErrClosed = NewFatal("runtime is closed")
)
