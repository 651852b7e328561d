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

package svrcfg

import (
	"testing"
	"time"

	"github.com/zintix-labs/coloris"
)

func TestValidRequiresLab(t *testing.T) {
	sc := &SvrCfg{}
	if err := sc.Valid(); err == nil {
		t.Fatalf("expected error without lab")
	}
	if sc.Log == nil {
		t.Fatalf("default logger should be installed")
	}
}

func TestValidDefaults(t *testing.T) {
	sc := &SvrCfg{Lab: &coloris.Lab{}, SessionIdle: 10 * time.Second}
	if err := sc.Valid(); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if sc.MaxSessions != coloris.DefaultMaxSessions {
		t.Fatalf("max sessions default: %d", sc.MaxSessions)
	}
	if sc.SweepEvery != 10*time.Second {
		t.Fatalf("sweep every should be capped by idle: %v", sc.SweepEvery)
	}
	if sc.MaxSimGames != DefaultMaxSimGames {
		t.Fatalf("max sim games default: %d", sc.MaxSimGames)
	}
}
