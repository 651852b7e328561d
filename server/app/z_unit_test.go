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

package app

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestRunContextStopsComponents(t *testing.T) {
	ticks := make(chan struct{}, 1)
	c := NewComponentFunc(func(ctx context.Context) error {
		ticks <- struct{}{}
		<-ctx.Done()
		return ctx.Err()
	})
	a := NewWith(c)
	a.SetShutdownTimeout(time.Second)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- a.RunContext(ctx) }()

	<-ticks
	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("unexpected err: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("app did not stop")
	}
}

func TestRunContextReturnsComponentError(t *testing.T) {
	boom := errors.New("boom")
	a := NewWith(
		NewComponentFunc(func(ctx context.Context) error { return boom }),
		NewComponentFunc(func(ctx context.Context) error {
			<-ctx.Done()
			return ctx.Err()
		}),
	)
	err := a.RunContext(context.Background())
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}
}
