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

// Package netsvr HTTP 服務的路由與啟停抽象，實作以 chi 為主。
package netsvr

import (
	"net/http"

	"github.com/zintix-labs/coloris/server/app"
)

// NetSvr 路由 + 啟停，只交給 server.Assemble 使用；
// 本身即為 app.Component，由 app.App 管理生命週期。
type NetSvr interface {
	NetRouter
	app.Component
}

// NetRouter 只有路由行為。api 層拿到的是這個介面，碰不到 Run/Shutdown。
type NetRouter interface {
	Use(middleware func(http.Handler) http.Handler)

	Get(path string, h http.HandlerFunc)
	Post(path string, h http.HandlerFunc)
	Delete(path string, h http.HandlerFunc)

	// Group 子路由共用 path 前綴與其後註冊的 middleware
	Group(path string, fn func(NetRouter))
}
