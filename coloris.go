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

// Package coloris 提供 Coloris 引擎的組裝入口 (Lab) 與運行入口 (Session / Runtime / Simulator)。
//
// Lab 把三個地基組裝在一起：
//  1. Catalog：遊戲變體目錄，gid / 名稱 對應到設定檔。
//  2. bot.Registry：自動遊玩策略，供模擬器使用。
//  3. PRNGFactory：亂數核心工廠，保證對局可重現、可回放。
//
// 設定檔來源一律以 fs.FS 注入 (go:embed 或 os.DirFS)，Lab 不處理路徑。
//
// 使用流程分兩階段：
//   - 註冊階段：New 建立 catalog，Register / RegisterAll 寫入變體，Freeze 封存。
//   - 執行階段：NewSession 開局 (互動)、NewSimulator 模擬 (批量)、BuildRuntime 給伺服器使用。
//
// 最小範例：
//
//	lab, _ := coloris.NewAuto(core.Default(), coloris.Configs(cfgFS), bot.Default())
//	s, _ := lab.NewSession(1)
//	s.Apply(coloris.Input{Op: dto.OpLeft})
package coloris

import (
	"fmt"
	"io/fs"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/zintix-labs/coloris/catalog"
	"github.com/zintix-labs/coloris/errs"
	"github.com/zintix-labs/coloris/sdk/bot"
	"github.com/zintix-labs/coloris/sdk/core"
	"github.com/zintix-labs/coloris/spec"
)

// Configs 把一或多個設定檔來源打包成 New 需要的參數
func Configs(cfgs ...fs.FS) []fs.FS {
	return cfgs
}

// Lab 組裝器與運行入口。
//
// Catalog 的 gid 唯一性只保證在同一個 Lab 內。
// 進入執行階段 (已建立 Session 並對外服務) 後不應再變更 Catalog。
type Lab struct {
	cat  *catalog.Catalog
	bots *bot.Registry
	cf   core.PRNGFactory
	log  *slog.Logger
	sum  []catalog.Summary
}

// New 建立 Lab (註冊階段)。
//   - cf 不能為 nil：設定檔未指定 rng 時使用
//   - cfgs 至少一個
//   - bots 為 nil 時使用 bot.Default()
func New(cf core.PRNGFactory, cfgs []fs.FS, bots *bot.Registry) (*Lab, error) {
	if cf == nil {
		return nil, errs.NewFatal("prng factory required")
	}
	if len(cfgs) == 0 {
		return nil, errs.NewFatal("configs required")
	}
	cata, err := catalog.New(cfgs...)
	if err != nil {
		return nil, err
	}
	if bots == nil {
		bots = bot.Default()
	}
	return &Lab{
		cat:  cata,
		bots: bots,
		cf:   cf,
		log:  slog.New(slog.DiscardHandler),
	}, nil
}

// NewAuto 註冊所有設定檔並封存，直接進入執行階段
func NewAuto(cf core.PRNGFactory, cfgs []fs.FS, bots *bot.Registry) (*Lab, error) {
	lab, err := New(cf, cfgs, bots)
	if err != nil {
		return nil, err
	}
	if err := lab.RegisterAll(); err != nil {
		return nil, err
	}
	lab.Freeze()
	return lab, nil
}

// SetLogger 指定 Session 與 Runtime 使用的 logger
func (l *Lab) SetLogger(log *slog.Logger) {
	if log != nil {
		l.log = log
	}
}

func (l *Lab) Logger() *slog.Logger {
	return l.log
}

func (l *Lab) Register(ents ...catalog.Entry) error {
	return l.cat.Register(ents...)
}

// RegisterAll 掃描所有設定檔來源，以設定檔內宣告的 game_id / game_name 批次註冊。
//
//  1. Fail-fast：任一檔案讀取或解析失敗立即回傳。
//  2. 原子性：全部解析成功才一次寫入 catalog。
//  3. 依 fs.WalkDir 的字典序處理，結果可重現。
func (l *Lab) RegisterAll() error {
	sources := l.cat.Cfg().Sources()
	if len(sources) == 0 {
		return errs.NewFatal("configs required")
	}

	entries := make([]catalog.Entry, 0, 16)
	seenID := map[spec.GID]string{}
	seenName := map[string]string{}

	for _, src := range sources {
		walkErr := fs.WalkDir(src, ".", func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				if path == "." {
					return nil
				}
				return errs.Fatalf("configs must be flat (no subdir): %q", path)
			}
			base := filepath.Base(path)
			if strings.HasPrefix(base, ".") {
				return nil
			}
			switch strings.ToLower(filepath.Ext(base)) {
			case ".yaml", ".yml", ".json":
			default:
				return nil
			}

			raw, rerr := fs.ReadFile(src, path)
			if rerr != nil {
				return errs.Wrap(rerr, "read config failed: "+base)
			}
			gs, gerr := catalog.ParseGameSetting(base, raw)
			if gerr != nil {
				return errs.Wrap(gerr, "parse game setting failed: "+base)
			}

			name := strings.TrimSpace(gs.GameName)
			if name == "" {
				return errs.Fatalf("game name required: %s", base)
			}
			if prev, ok := seenID[gs.GameID]; ok {
				return errs.Fatalf("duplicate game id: %d (config=%s and %s)", gs.GameID, prev, base)
			}
			if _, ok := l.cat.GetByID(gs.GameID); ok {
				return errs.Fatalf("game id already registered: %d (config=%s)", gs.GameID, base)
			}
			seenID[gs.GameID] = base

			key := strings.ToLower(name)
			if prev, ok := seenName[key]; ok {
				return errs.Fatalf("duplicate game name: %s (config=%s and %s)", key, prev, base)
			}
			if _, ok := l.cat.GetByName(name); ok {
				return errs.Fatalf("game name already registered: %s (config=%s)", name, base)
			}
			seenName[key] = base

			entries = append(entries, catalog.Entry{GID: gs.GameID, Name: name, ConfigName: base})
			return nil
		})
		if walkErr != nil {
			return walkErr
		}
	}

	if len(entries) == 0 {
		return errs.NewFatal("no config files found to register")
	}
	return l.cat.Register(entries...)
}

func (l *Lab) Freeze() {
	l.cat.Freeze()
}

func (l *Lab) EntryById(id spec.GID) (catalog.Entry, bool) {
	return l.cat.GetByID(id)
}

func (l *Lab) EntryByName(name string) (catalog.Entry, bool) {
	return l.cat.GetByName(name)
}

func (l *Lab) IDs() []spec.GID {
	return l.cat.IDs()
}

func (l *Lab) All() []catalog.Entry {
	return l.cat.All()
}

// Bots 可用的自動遊玩策略名稱
func (l *Lab) Bots() []string {
	return l.bots.Names()
}

// Summary 所有變體的摘要；封存後才可呼叫，結果快取
func (l *Lab) Summary() ([]catalog.Summary, error) {
	if !l.cat.IsFrozen() {
		return nil, errs.NewFatal("catalog is not frozen yet")
	}
	if l.sum != nil {
		return l.sum, nil
	}
	ids := l.cat.IDs()
	cs := make([]catalog.Summary, 0, len(ids))
	for _, id := range ids {
		gs, err := l.cat.GameSettingById(id)
		if err != nil {
			return nil, errs.Wrap(err, "parse game setting failed")
		}
		cs = append(cs, catalog.NewSummary(gs))
	}
	l.sum = cs
	return l.sum, nil
}

// GameSetting 取得變體設定 (每次重新解析，呼叫端可自由修改)
func (l *Lab) GameSetting(id spec.GID) (*spec.GameSetting, error) {
	if !l.cat.IsFrozen() {
		return nil, errs.NewFatal("catalog is not frozen yet")
	}
	return l.cat.GameSettingById(id)
}

// Resolve 依 gid 或名稱找出 gid；gid 非零時優先
func (l *Lab) Resolve(id spec.GID, name string) (spec.GID, error) {
	if id != 0 {
		if _, ok := l.cat.GetByID(id); !ok {
			return 0, errs.WrapWithExtra(errs.ErrNotFound, "game id not in catalog", fmt.Sprintf("gid=%d", id))
		}
		return id, nil
	}
	if name == "" {
		return 0, errs.NewWarn("gid or game name required")
	}
	e, ok := l.cat.GetByName(name)
	if !ok {
		return 0, errs.WrapWithExtra(errs.ErrNotFound, "game name not in catalog", "name="+name)
	}
	return e.GID, nil
}

// factoryFor 設定檔的 rng 優先，未指定時用 Lab 的工廠
func (l *Lab) factoryFor(gs *spec.GameSetting) (core.PRNGFactory, error) {
	if gs.RNG == "" {
		return l.cf, nil
	}
	return core.FactoryByName(gs.RNG)
}

// validCfg 外部帶入的設定 (sim by yaml/json) 必須對應到已註冊的同一個變體
func (l *Lab) validCfg(cfg *spec.GameSetting) error {
	ent, ok := l.cat.GetByID(cfg.GameID)
	if !ok {
		return errs.WrapWithExtra(errs.ErrNotFound, "gid not exist", fmt.Sprintf("gid=%d", cfg.GameID))
	}
	ent2, ok := l.cat.GetByName(cfg.GameName)
	if !ok {
		return errs.WrapWithExtra(errs.ErrNotFound, "game name not exist", "name="+cfg.GameName)
	}
	if ent.GID != ent2.GID {
		return errs.NewWarn("game id is not matched game name")
	}
	return nil
}

// ============================================================
// ** Session **
// ============================================================

// NewSession 以 crypto/rand 種子開局
func (l *Lab) NewSession(id spec.GID, opts ...SessionOption) (*Session, error) {
	seed, err := cryptoSeed()
	if err != nil {
		return nil, err
	}
	return l.NewSessionWithSeed(id, seed, opts...)
}

// NewSessionWithSeed 同一個變體 + 同一個 seed + 同一串輸入，結果完全相同
func (l *Lab) NewSessionWithSeed(id spec.GID, seed int64, opts ...SessionOption) (*Session, error) {
	gs, err := l.GameSetting(id)
	if err != nil {
		return nil, err
	}
	cf, err := l.factoryFor(gs)
	if err != nil {
		return nil, err
	}
	opts = append([]SessionOption{WithSessionLogger(l.log)}, opts...)
	return newSession(gs, cf, seed, opts...)
}

// ============================================================
// ** Simulator **
// ============================================================

func (l *Lab) NewSimulator(id spec.GID, botName string) (*Simulator, error) {
	seed, err := cryptoSeed()
	if err != nil {
		return nil, err
	}
	return l.NewSimulatorWithSeed(id, botName, seed)
}

func (l *Lab) NewSimulatorWithSeed(id spec.GID, botName string, seed int64) (*Simulator, error) {
	gs, err := l.GameSetting(id)
	if err != nil {
		return nil, err
	}
	return l.newSimulator(gs, botName, seed)
}

// NewSimulatorByYAML 以調整過的設定模擬 (例如改 combo_threshold 觀察分數分布)；gid 與名稱必須已註冊
func (l *Lab) NewSimulatorByYAML(raw []byte, botName string, seed int64) (*Simulator, error) {
	if !l.cat.IsFrozen() {
		return nil, errs.NewFatal("catalog is not frozen yet")
	}
	cfg, err := spec.GetGameSettingByYAML(raw)
	if err != nil {
		return nil, errs.WrapWarn(err, "invalid yaml config")
	}
	if err := l.validCfg(cfg); err != nil {
		return nil, err
	}
	return l.newSimulator(cfg, botName, seed)
}

func (l *Lab) NewSimulatorByJSON(raw []byte, botName string, seed int64) (*Simulator, error) {
	if !l.cat.IsFrozen() {
		return nil, errs.NewFatal("catalog is not frozen yet")
	}
	cfg, err := spec.GetGameSettingByJSON(raw)
	if err != nil {
		return nil, errs.WrapWarn(err, "invalid json config")
	}
	if err := l.validCfg(cfg); err != nil {
		return nil, err
	}
	return l.newSimulator(cfg, botName, seed)
}

func (l *Lab) newSimulator(gs *spec.GameSetting, botName string, seed int64) (*Simulator, error) {
	if botName == "" {
		botName = bot.NameGreedy
	}
	if !l.bots.IsExist(botName) {
		return nil, errs.NewWarn(fmt.Sprintf("bot is not exist: %s", botName))
	}
	cf, err := l.factoryFor(gs)
	if err != nil {
		return nil, err
	}
	return newSimulatorWithSeed(gs, l.bots, botName, cf, seed), nil
}

// ============================================================
// ** Runtime **
// ============================================================

// BuildRuntime 封存 catalog 並建立伺服器用的 session 表；maxSessions <= 0 時使用 DefaultMaxSessions
func (l *Lab) BuildRuntime(maxSessions int) (*Runtime, error) {
	l.Freeze()
	if len(l.cat.IDs()) == 0 {
		return nil, errs.NewFatal("no games registered")
	}
	// 先解析一次全部設定，設定錯誤在啟動時就失敗
	if _, err := l.Summary(); err != nil {
		return nil, err
	}
	return newRuntime(l, maxSessions), nil
}
