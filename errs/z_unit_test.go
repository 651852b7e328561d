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

import (
	"errors"
	"io"
	"strings"
	"testing"
)

func TestWrapKeepsLevel(t *testing.T) {
	w := Wrap(ErrEffectMismatch, "complete effect")
	if w.ErrLv != Warn {
		t.Fatalf("expected warn level, got %s", ErrLv(w.ErrLv))
	}
	if !errors.Is(w, ErrEffectMismatch) {
		t.Fatalf("expected errors.Is to unwrap sentinel")
	}
}

func TestWrapForeignIsFatal(t *testing.T) {
	w := WrapWithExtra(io.EOF, "read config", "demo.yaml")
	if w.ErrLv != Fatal {
		t.Fatalf("expected fatal level for foreign cause")
	}
	msg := w.Error()
	if !strings.Contains(msg, "extra: demo.yaml") || !strings.Contains(msg, "cause: EOF") {
		t.Fatalf("unexpected message: %s", msg)
	}
}

func TestLevel(t *testing.T) {
	cases := []struct {
		err  error
		want ErrLevel
	}{
		{nil, None},
		{io.EOF, Fatal},
		{NewLog("x"), Log},
		{Warnf("bad %d", 1), Warn},
		{Wrap(Fatalf("boom"), "outer"), Fatal},
	}
	for i, c := range cases {
		if got := Level(c.err); got != c.want {
			t.Fatalf("case %d: want %d got %d", i, c.want, got)
		}
	}
}
