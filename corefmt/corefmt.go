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

// Package corefmt 亂數核心快照與回放檔的傳輸格式。
//
//   - JSON / HTTP：Base64URL 文字
//   - 日誌：Hex
//   - 檔案：uvarint(len) || zstd(payload)
package corefmt

import (
	"bufio"
	"encoding/base64"
	"encoding/binary"
	"encoding/hex"
	"io"
	"sync"

	"github.com/klauspost/compress/zstd"
	"github.com/zintix-labs/coloris/errs"
)

// DefaultMaxFrame 讀取不可信輸入時的預設上限
const DefaultMaxFrame uint64 = 16 << 20

func EncodeBase64URL(b []byte) string {
	return base64.RawURLEncoding.EncodeToString(b)
}

func DecodeBase64URL(s string) ([]byte, error) {
	b, err := base64.RawURLEncoding.DecodeString(s)
	if err != nil {
		return nil, errs.WrapWarn(err, "decode base64url failed")
	}
	return b, nil
}

func EncodeHex(b []byte) string {
	return hex.EncodeToString(b)
}

func DecodeHex(s string) ([]byte, error) {
	b, err := hex.DecodeString(s)
	if err != nil {
		return nil, errs.WrapWarn(err, "decode hex failed")
	}
	return b, nil
}

// ============================================================
// ** zstd **
// ============================================================

var (
	encOnce sync.Once
	enc     *zstd.Encoder
	decOnce sync.Once
	dec     *zstd.Decoder
)

// EncodeAll / DecodeAll 可併發呼叫，共用單一實例
func encoder() *zstd.Encoder {
	encOnce.Do(func() {
		enc, _ = zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	})
	return enc
}

func decoder() *zstd.Decoder {
	decOnce.Do(func() {
		dec, _ = zstd.NewReader(nil, zstd.WithDecoderMaxMemory(DefaultMaxFrame))
	})
	return dec
}

func Compress(payload []byte) []byte {
	return encoder().EncodeAll(payload, make([]byte, 0, len(payload)/2+16))
}

func Decompress(b []byte) ([]byte, error) {
	out, err := decoder().DecodeAll(b, nil)
	if err != nil {
		return nil, errs.WrapWarn(err, "zstd decode failed")
	}
	return out, nil
}

// ============================================================
// ** frame **
// ============================================================

// WriteFrame 寫入 uvarint(len) || zstd(payload)
func WriteFrame(w io.Writer, payload []byte) error {
	z := Compress(payload)
	var hdr [binary.MaxVarintLen64]byte
	n := binary.PutUvarint(hdr[:], uint64(len(z)))
	if _, err := w.Write(hdr[:n]); err != nil {
		return errs.Wrap(err, "write frame header failed")
	}
	if _, err := w.Write(z); err != nil {
		return errs.Wrap(err, "write frame payload failed")
	}
	return nil
}

// ReadFrame 讀取 WriteFrame 的輸出。maxBytes 為壓縮後長度上限，0 表示 DefaultMaxFrame。
func ReadFrame(r io.Reader, maxBytes uint64) ([]byte, error) {
	if maxBytes == 0 {
		maxBytes = DefaultMaxFrame
	}
	br := bufio.NewReader(r)
	ln, err := binary.ReadUvarint(br)
	if err != nil {
		return nil, errs.WrapWarn(err, "read frame header failed")
	}
	if ln > maxBytes {
		return nil, errs.NewWarn("read frame failed: payload exceeds maxBytes")
	}
	buf := make([]byte, ln)
	if _, err := io.ReadFull(br, buf); err != nil {
		return nil, errs.WrapWarn(err, "read frame payload failed")
	}
	return Decompress(buf)
}
