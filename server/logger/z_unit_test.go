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

package logger

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMode(t *testing.T) {
	cases := map[string]LogMode{
		"dev":     ModeDev,
		" PROD ":  ModeProd,
		"silence": ModeSilence,
		"silent":  ModeSilence,
	}
	for in, want := range cases {
		got, err := ParseMode(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	m, err := ParseMode("verbose")
	require.Error(t, err)
	assert.Equal(t, ModeDev, m)
	assert.Equal(t, "prod", ModeProd.String())
}

func TestAsyncHandlerDrainsOnClose(t *testing.T) {
	var buf bytes.Buffer
	ah := NewAsyncHandler(slog.NewTextHandler(&buf, nil), 64)
	log := slog.New(ah).With("game", 1)
	for i := 0; i < 10; i++ {
		log.Info("combo", "n", i)
	}
	ah.Close()
	ah.Close()

	out := buf.String()
	assert.Equal(t, 10, bytes.Count([]byte(out), []byte("msg=combo")))
	assert.Contains(t, out, "game=1")
	assert.Zero(t, ah.Dropped())

	log.Info("late")
	assert.Equal(t, uint64(1), ah.Dropped())
	assert.NotContains(t, buf.String(), "late")
}

// blockingHandler 在第一筆紀錄進入時通知，並等待 release 才返回。
type blockingHandler struct {
	slog.Handler
	entered chan struct{}
	release chan struct{}
}

func (b *blockingHandler) Handle(ctx context.Context, r slog.Record) error {
	select {
	case b.entered <- struct{}{}:
	default:
	}
	<-b.release
	return nil
}

func TestAsyncHandlerDropsWhenFull(t *testing.T) {
	bh := &blockingHandler{
		Handler: slog.NewTextHandler(&bytes.Buffer{}, nil),
		entered: make(chan struct{}, 1),
		release: make(chan struct{}),
	}
	ah := NewAsyncHandler(bh, 1)
	log := slog.New(ah)

	log.Info("first")
	<-bh.entered
	log.Info("queued")
	log.Info("dropped")
	assert.Equal(t, uint64(1), ah.Dropped())

	close(bh.release)
	ah.Close()
	assert.True(t, ah.Ready())
}
