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

// Package engine 是遊戲邏輯核心：方塊落下、碰撞合併、連線消除、重力壓縮、連鎖與特殊能力。
//
// 引擎為顯式狀態機 (Phase)。每次消除都會發出一個 Effect 並進入 PhaseAwaitingEffect，
// 宿主 (渲染/動畫) 播放完畢後以 CompleteEffect(id) 通知，引擎才繼續清除、壓縮與重新掃描。
// 等待期間 Tick 與輸入一律忽略，盤面只有單一擁有者。
//
// Engine 不做併發保護；多 goroutine 存取由外層 (coloris.Session) 加鎖。
package engine

import (
	"log/slog"

	"github.com/zintix-labs/coloris/errs"
	"github.com/zintix-labs/coloris/sdk/board"
	"github.com/zintix-labs/coloris/sdk/calc"
	"github.com/zintix-labs/coloris/sdk/core"
	"github.com/zintix-labs/coloris/sdk/piece"
	"github.com/zintix-labs/coloris/sdk/sampler"
	"github.com/zintix-labs/coloris/spec"
)

// DefaultMercyThreshold : 單次連鎖消除 5 格以上，連鎖結束時清除底列
const DefaultMercyThreshold = 5

// Config 引擎參數
type Config struct {
	Rows           int
	Cols           int
	Piece          piece.Params
	Colors         int
	ColorWeights   []int
	MinRun         int
	ComboThreshold int
	MercyThreshold int
}

// ConfigFromSetting 由遊戲設定轉換
func ConfigFromSetting(gs *spec.GameSetting) Config {
	return Config{
		Rows: gs.Board.Rows,
		Cols: gs.Board.Columns,
		Piece: piece.Params{
			Length:           gs.Piece.Length,
			CellSize:         gs.Board.CellSize,
			BaseSpeed:        gs.Timing.BaseSpeed,
			SpeedUpFactor:    gs.Timing.SpeedUpFactor,
			CriticalDistance: gs.Timing.CriticalDistance,
			RefreshRate:      gs.Timing.RefreshRate,
		},
		Colors:         gs.Piece.Colors,
		ColorWeights:   gs.Piece.ColorWeights,
		MinRun:         gs.Rules.MinRun,
		ComboThreshold: gs.Rules.ComboThreshold,
		MercyThreshold: gs.Rules.MercyThreshold,
	}
}

func (c Config) valid() error {
	if c.Rows <= 0 || c.Cols <= 0 {
		return errs.Fatalf("engine: invalid board %dx%d", c.Rows, c.Cols)
	}
	if c.Piece.Length <= 0 || c.Piece.Length > c.Rows {
		return errs.Fatalf("engine: invalid piece length %d", c.Piece.Length)
	}
	if c.Piece.CellSize <= 0 || c.Piece.BaseSpeed <= 0 || c.Piece.RefreshRate <= 0 {
		return errs.NewFatal("engine: invalid piece params")
	}
	if c.Colors <= 0 || c.Colors > spec.MaxColors {
		return errs.Fatalf("engine: colors %d out of range [1,%d]", c.Colors, spec.MaxColors)
	}
	if len(c.ColorWeights) == 0 {
		return nil
	}
	if len(c.ColorWeights) != c.Colors {
		return errs.Fatalf("engine: len(color weights)=%d != colors=%d", len(c.ColorWeights), c.Colors)
	}
	total := 0
	for i, w := range c.ColorWeights {
		if w < 0 {
			return errs.Fatalf("engine: negative weight %d for color %d", w, i)
		}
		total += w
	}
	if total == 0 {
		return errs.NewFatal("engine: all color weights are zero")
	}
	return nil
}

// Stats 對局累計數據
type Stats struct {
	Ticks         int `json:"ticks"`
	Pieces        int `json:"pieces"`
	MatchPasses   int `json:"match_passes"`
	Cascades      int `json:"cascades"`
	MaxChain      int `json:"max_chain"`
	SpecialPowers int `json:"special_powers"`
	MercyClears   int `json:"mercy_clears"`
}

// Engine 單局遊戲狀態
type Engine struct {
	cfg     Config
	board   *board.Board
	falling *piece.Piece
	next    *piece.Piece
	core    *core.Core
	picker  sampler.Picker
	scanner *calc.Scanner
	combo   ComboTracker

	score     int
	destroyed int
	chain     int

	phase        Phase
	pending      Effect
	effectSeq    uint64
	autoComplete bool

	hooks []Hooks
	log   *slog.Logger
	stats Stats
}

// Option 引擎選項
type Option func(*Engine)

// WithLogger 指定 logger；未指定時丟棄所有紀錄
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.log = l
		}
	}
}

// WithHooks 訂閱引擎事件，可重複指定
func WithHooks(h Hooks) Option {
	return func(e *Engine) { e.hooks = append(e.hooks, h) }
}

// WithAutoComplete 特效發出後立即完成 (無畫面的模擬使用)
func WithAutoComplete() Option {
	return func(e *Engine) { e.autoComplete = true }
}

// New 建立引擎；c 為此局專屬的亂數核心
func New(cfg Config, c *core.Core, opts ...Option) (*Engine, error) {
	if err := cfg.valid(); err != nil {
		return nil, err
	}
	if c == nil {
		return nil, errs.NewFatal("engine: core required")
	}
	if cfg.MercyThreshold <= 0 {
		cfg.MercyThreshold = DefaultMercyThreshold
	}
	picker, err := sampler.NewPicker(cfg.Colors, cfg.ColorWeights)
	if err != nil {
		return nil, errs.Wrap(err, "engine: color picker")
	}
	e := &Engine{
		cfg:     cfg,
		board:   board.New(cfg.Rows, cfg.Cols),
		falling: piece.New(cfg.Piece),
		next:    piece.New(cfg.Piece),
		core:    c,
		picker:  picker,
		scanner: calc.NewScanner(cfg.Rows, cfg.Cols, cfg.MinRun),
		combo:   NewComboTracker(cfg.ComboThreshold),
		log:     slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.next.Randomize(e.core, e.picker)
	e.falling.Reset(cfg.Cols, e.next, e.core, e.picker)
	return e, nil
}

// NewFromSetting 由遊戲設定建立引擎
func NewFromSetting(gs *spec.GameSetting, c *core.Core, opts ...Option) (*Engine, error) {
	return New(ConfigFromSetting(gs), c, opts...)
}

// Restart 清空盤面與計分，重新發牌 (沿用同一個亂數核心)
func (e *Engine) Restart() {
	e.board.Reset()
	e.combo = NewComboTracker(e.cfg.ComboThreshold)
	e.score, e.destroyed, e.chain = 0, 0, 0
	e.phase = PhaseFalling
	e.pending = Effect{}
	e.stats = Stats{}
	e.next.Randomize(e.core, e.picker)
	e.falling.Reset(e.cfg.Cols, e.next, e.core, e.picker)
}

// ---------------------------------------
// 查詢
// ---------------------------------------

func (e *Engine) Config() Config        { return e.cfg }
func (e *Engine) Board() *board.Board   { return e.board }
func (e *Engine) Falling() *piece.Piece { return e.falling }
func (e *Engine) Next() *piece.Piece    { return e.next }
func (e *Engine) Core() *core.Core      { return e.core }
func (e *Engine) Score() int            { return e.score }
func (e *Engine) Destroyed() int        { return e.destroyed }
func (e *Engine) Combo() *ComboTracker  { return &e.combo }
func (e *Engine) Phase() Phase          { return e.phase }
func (e *Engine) Stats() Stats          { return e.stats }
func (e *Engine) IsGameOver() bool      { return e.phase == PhaseGameOver }

// SpecialPowerActive 特殊能力已觸發但底列爆破尚未完成
func (e *Engine) SpecialPowerActive() bool { return e.combo.Active() }

// IsDestructionInProgress 是否正在等待消除特效
func (e *Engine) IsDestructionInProgress() bool {
	return e.phase == PhaseAwaitingEffect
}

// Pending 回傳進行中的特效
func (e *Engine) Pending() (Effect, bool) {
	if e.phase != PhaseAwaitingEffect {
		return Effect{}, false
	}
	return e.pending, true
}

// Geometry 供渲染端計算方塊像素位置
type Geometry struct {
	Rows        int     `json:"rows"`
	Cols        int     `json:"cols"`
	CellSize    float64 `json:"cell_size"`
	PieceColumn int     `json:"piece_column"`
	PieceY      float64 `json:"piece_y"`
	PieceLen    int     `json:"piece_len"`
}

func (e *Engine) Geometry() Geometry {
	return Geometry{
		Rows:        e.cfg.Rows,
		Cols:        e.cfg.Cols,
		CellSize:    e.cfg.Piece.CellSize,
		PieceColumn: e.falling.Column(),
		PieceY:      e.falling.Y(),
		PieceLen:    e.falling.Len(),
	}
}

// ---------------------------------------
// 輸入：只在 PhaseFalling 接受，回傳是否生效
// ---------------------------------------

func (e *Engine) MoveLeft() bool {
	if e.phase != PhaseFalling {
		return false
	}
	return e.falling.MoveHorizontally(piece.Left, e.board)
}

func (e *Engine) MoveRight() bool {
	if e.phase != PhaseFalling {
		return false
	}
	return e.falling.MoveHorizontally(piece.Right, e.board)
}

func (e *Engine) SpeedUp() bool {
	if e.phase != PhaseFalling {
		return false
	}
	e.falling.SpeedUp()
	return true
}

func (e *Engine) Reorder() bool {
	if e.phase != PhaseFalling {
		return false
	}
	e.falling.Reorder()
	return true
}

// ---------------------------------------
// 時間推進
// ---------------------------------------

// Tick 推進 dt 秒：方塊下落後檢查碰撞。等待特效或遊戲結束時不動作。
// 回傳本次 tick 是否發生合併。
func (e *Engine) Tick(dt float64) bool {
	if e.phase != PhaseFalling {
		return false
	}
	e.stats.Ticks++
	e.falling.Advance(dt)
	return e.checkCollision()
}

// Step 以參考刷新率推進一個 tick
func (e *Engine) Step() bool {
	return e.Tick(1 / e.cfg.Piece.RefreshRate)
}

// DropToLanding 直接落到碰撞點並合併 (自動遊玩使用)；非 PhaseFalling 時回傳 false
func (e *Engine) DropToLanding() bool {
	if e.phase != PhaseFalling {
		return false
	}
	p := e.cfg.Piece
	col := e.falling.Column()
	limit := float64(e.cfg.Rows) * p.CellSize
	if top := e.board.TopRow(col); top != board.NoBlock {
		limit = float64(top) * p.CellSize
	}
	// 下緣 + 碰撞距離剛好到達 limit
	y := limit - p.CriticalDistance - p.Height()
	if y > e.falling.Y() {
		e.falling.Place(col, y, e.falling.Speed())
	}
	e.stats.Ticks++
	return e.checkCollision()
}
