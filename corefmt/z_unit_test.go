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

package corefmt

import (
	"bytes"
	"testing"

	"github.com/zintix-labs/coloris/errs"
)

func TestFrameRoundTrip(t *testing.T) {
	payload := bytes.Repeat([]byte("move-left;tick;"), 200)
	var buf bytes.Buffer
	if err := WriteFrame(&buf, payload); err != nil {
		t.Fatalf("write: %v", err)
	}
	if buf.Len() >= len(payload) {
		t.Fatalf("expected compression, got %d >= %d", buf.Len(), len(payload))
	}
	got, err := ReadFrame(&buf, 0)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if !bytes.Equal(got, payload) {
		t.Fatalf("payload mismatch")
	}
}

func TestReadFrameLimits(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteFrame(&buf, []byte("hello coloris")); err != nil {
		t.Fatal(err)
	}
	full := buf.Bytes()

	if _, err := ReadFrame(bytes.NewReader(full), 1); err == nil {
		t.Fatalf("expected maxBytes error")
	}
	_, err := ReadFrame(bytes.NewReader(full[:len(full)-2]), 0)
	if err == nil {
		t.Fatalf("expected truncated error")
	}
	if errs.Level(err) != errs.Warn {
		t.Fatalf("truncated frame should be Warn, got %v", errs.Level(err))
	}
}

func TestTextCodecs(t *testing.T) {
	b := []byte{0x00, 0xff, 0x10, 0x80}
	s := EncodeBase64URL(b)
	got, err := DecodeBase64URL(s)
	if err != nil || !bytes.Equal(got, b) {
		t.Fatalf("base64url round trip failed: %v", err)
	}
	h := EncodeHex(b)
	if h != "00ff1080" {
		t.Fatalf("hex got %s", h)
	}
	if _, err := DecodeHex("zz"); err == nil {
		t.Fatalf("expected hex error")
	}
	if _, err := DecodeBase64URL("***"); err == nil {
		t.Fatalf("expected base64 error")
	}
}
