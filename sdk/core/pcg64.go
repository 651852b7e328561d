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

package core

import (
	r2 "math/rand/v2"
)

// PCG64 以 math/rand/v2 的 PCG 為狀態來源，有界取樣交給 rand.Rand。
// 狀態只存在 src，rnd 不持有額外狀態，因此 Snapshot/Restore 只需處理 src。
type PCG64 struct {
	src *r2.PCG
	rnd *r2.Rand
}

// newPCG64WithSeed 以 splitmix64 把單一 seed 展開成 PCG 的兩個 64-bit 狀態。
func newPCG64WithSeed(seed int64) *PCG64 {
	x := uint64(seed) ^ 0x9e3779b97f4a7c15
	src := r2.NewPCG(splitmix64(x), splitmix64(x^0xDA942042E4DD58B5))
	return &PCG64{src: src, rnd: r2.New(src)}
}

func (r *PCG64) Uint64() uint64 {
	return r.src.Uint64()
}

// IntN 回傳 [0,max)，max <= 0 時回傳 -1。
func (r *PCG64) IntN(max int) int {
	if max <= 0 {
		return -1
	}
	return r.rnd.IntN(max)
}

func (r *PCG64) Snapshot() ([]byte, error) {
	return r.src.MarshalBinary()
}

// Restore 格式錯誤時保留原狀態。
func (r *PCG64) Restore(data []byte) error {
	return r.src.UnmarshalBinary(data)
}

func splitmix64(x uint64) uint64 {
	x += 0x9e3779b97f4a7c15
	x = (x ^ (x >> 30)) * 0xbf58476d1ce4e5b9
	x = (x ^ (x >> 27)) * 0x94d049bb133111eb
	return x ^ (x >> 31)
}
