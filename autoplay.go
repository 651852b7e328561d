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

package coloris

import (
	"github.com/zintix-labs/coloris/corefmt"
	"github.com/zintix-labs/coloris/dto"
	"github.com/zintix-labs/coloris/errs"
	"github.com/zintix-labs/coloris/sdk/bot"
	"github.com/zintix-labs/coloris/sdk/core"
)

// MaxAutoplayPieces 單次 autoplay 落子上限
const MaxAutoplayPieces = 5_000

// AutoplayReport 一段自動遊玩的結果。
// Before / After 為亂數核心快照 (Base64URL)，搭配回放檔可審計整段過程。
type AutoplayReport struct {
	Before   string           `json:"before"`
	After    string           `json:"after"`
	Bot      string           `json:"bot"`
	Pieces   int              `json:"pieces"`
	Gained   int              `json:"gained"` // 本段得分
	GameOver bool             `json:"game_over"`
	State    dto.SessionState `json:"state"`
}

// Autoplay 由策略代打至多 pieces 塊。
//
// 與 Simulator 不同，所有操作都以 Input 送入 session 並紀錄，事後可用回放檔完整重現。
// 非自動特效的 session 會在每次落子後直接完成所有待處理特效。
// 策略的亂數核心以 seed 建立，與方塊顏色序列無關。
func (l *Lab) Autoplay(s *Session, botName string, seed int64, pieces int) (AutoplayReport, error) {
	if pieces < 1 || pieces > MaxAutoplayPieces {
		return AutoplayReport{}, errs.Warnf("pieces must be between 1 and %d", MaxAutoplayPieces)
	}
	if botName == "" {
		botName = bot.NameGreedy
	}
	strat, err := l.bots.Build(botName, core.New(l.cf.New(seed)))
	if err != nil {
		return AutoplayReport{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	be, err := s.eng.Core().Snapshot()
	if err != nil {
		return AutoplayReport{}, errs.Wrap(err, "snapshot core failed")
	}
	start := s.eng.Score()
	placed := 0
	for placed < pieces && !s.eng.IsGameOver() {
		if err := s.completePending(); err != nil {
			return AutoplayReport{}, err
		}
		if s.eng.IsGameOver() {
			break
		}
		before := s.eng.Stats().Pieces
		if err := s.applyPlan(strat.Plan(s.eng)); err != nil {
			return AutoplayReport{}, err
		}
		if s.eng.Stats().Pieces == before {
			break
		}
		placed++
	}
	if err := s.completePending(); err != nil {
		return AutoplayReport{}, err
	}

	af, err := s.eng.Core().Snapshot()
	if err != nil {
		return AutoplayReport{}, errs.Wrap(err, "snapshot core failed")
	}
	st, err := s.state()
	if err != nil {
		return AutoplayReport{}, err
	}
	return AutoplayReport{
		Before:   corefmt.EncodeBase64URL(be),
		After:    corefmt.EncodeBase64URL(af),
		Bot:      strat.Name(),
		Pieces:   placed,
		Gained:   s.eng.Score() - start,
		GameOver: s.eng.IsGameOver(),
		State:    st,
	}, nil
}

// applyPlan 將 bot.Plan 拆成紀錄得到的輸入；須持有 mu
func (s *Session) applyPlan(p bot.Plan) error {
	if err := s.applyN(dto.OpReorder, p.Rotations); err != nil {
		return err
	}
	if d := p.Column - s.eng.Falling().Column(); d != 0 {
		op := dto.OpRight
		if d < 0 {
			op, d = dto.OpLeft, -d
		}
		if err := s.applyN(op, d); err != nil {
			return err
		}
	}
	_, err := s.apply(Input{Op: dto.OpDrop})
	return err
}

// applyN 重複 n 次；超過單筆上限時拆成多筆
func (s *Session) applyN(op string, n int) error {
	for n > 0 {
		k := min(n, dto.MaxRepeat)
		if _, err := s.apply(Input{Op: op, N: k}); err != nil {
			return err
		}
		n -= k
	}
	return nil
}

// completePending 完成所有待處理特效 (整列清除可能接續連鎖)；須持有 mu
func (s *Session) completePending() error {
	for {
		eff, ok := s.eng.Pending()
		if !ok {
			return nil
		}
		if _, err := s.apply(Input{Op: dto.OpEffect, Effect: eff.ID}); err != nil {
			return err
		}
	}
}
