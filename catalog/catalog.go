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

// Package catalog 遊戲變體目錄：gid / 名稱 對應到設定檔。
// 設定檔來源為一或多個扁平 fs.FS (embed 或 os.DirFS)。
package catalog

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"slices"
	"strings"

	"github.com/zintix-labs/coloris/errs"
	"github.com/zintix-labs/coloris/spec"
)

var (
	ErrDupID   = errs.NewFatal("duplicate game id")
	ErrDupName = errs.NewFatal("duplicate game name")
)

// Entry 一個已註冊的變體
type Entry struct {
	GID        spec.GID
	Name       string
	ConfigName string
}

// Summary 對外列表用的變體摘要
type Summary struct {
	GID         spec.GID `json:"gid"`
	Name        string   `json:"name"`
	Rows        int      `json:"rows"`
	Columns     int      `json:"columns"`
	PieceLength int      `json:"piece_length"`
	Colors      int      `json:"colors"`
	RNG         string   `json:"rng"`
}

// NewSummary 由設定建立摘要
func NewSummary(gs *spec.GameSetting) Summary {
	rng := gs.RNG
	if rng == "" {
		rng = "pcg64"
	}
	return Summary{
		GID:         gs.GameID,
		Name:        gs.GameName,
		Rows:        gs.Board.Rows,
		Columns:     gs.Board.Columns,
		PieceLength: gs.Piece.Length,
		Colors:      gs.Piece.Colors,
		RNG:         rng,
	}
}

type Catalog struct {
	byID   map[spec.GID]Entry
	byName map[string]Entry
	ids    []spec.GID          // 穩定排序
	unique map[string]struct{} // 設定檔只能被註冊一次
	config *multiFS
	frozen bool
}

func New(cfg ...fs.FS) (*Catalog, error) {
	mfs, err := newMultiFS(cfg...)
	if err != nil {
		return nil, errs.Wrap(err, "can not create catalog")
	}
	return &Catalog{
		byID:   map[spec.GID]Entry{},
		byName: map[string]Entry{},
		ids:    make([]spec.GID, 0, 16),
		unique: map[string]struct{}{},
		config: mfs,
	}, nil
}

func normName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// Register 整批檢查後才寫入；任一筆不合法則整批不生效
func (c *Catalog) Register(entries ...Entry) error {
	if c.frozen {
		return errs.NewWarn("can not register when catalog already frozen")
	}
	seenID := map[spec.GID]struct{}{}
	seenName := map[string]struct{}{}
	seenCfg := map[string]struct{}{}
	for i := range entries {
		e := &entries[i]
		e.Name = normName(e.Name)
		if e.Name == "" {
			return errs.NewFatal("game name required")
		}
		if err := validFileName(e.ConfigName); err != nil {
			return err
		}
		if _, ok := c.config.index[e.ConfigName]; !ok {
			return errs.Fatalf("config file not found: %s", e.ConfigName)
		}
		if _, ok := c.byID[e.GID]; ok {
			return ErrDupID
		}
		if _, ok := seenID[e.GID]; ok {
			return ErrDupID
		}
		if _, ok := c.byName[e.Name]; ok {
			return ErrDupName
		}
		if _, ok := seenName[e.Name]; ok {
			return ErrDupName
		}
		_, used := c.unique[e.ConfigName]
		_, seen := seenCfg[e.ConfigName]
		if used || seen {
			return errs.Fatalf("duplicate config name: %s", e.ConfigName)
		}
		seenID[e.GID] = struct{}{}
		seenName[e.Name] = struct{}{}
		seenCfg[e.ConfigName] = struct{}{}
	}
	for _, e := range entries {
		c.unique[e.ConfigName] = struct{}{}
		c.byID[e.GID] = e
		c.byName[e.Name] = e
		c.ids = append(c.ids, e.GID)
	}
	slices.Sort(c.ids)
	return nil
}

func (c *Catalog) GetByID(id spec.GID) (Entry, bool) {
	e, ok := c.byID[id]
	return e, ok
}

func (c *Catalog) GetByName(name string) (Entry, bool) {
	e, ok := c.byName[normName(name)]
	return e, ok
}

func (c *Catalog) IDs() []spec.GID {
	if len(c.ids) == 0 {
		return nil
	}
	return slices.Clone(c.ids)
}

// All 依 gid 排序
func (c *Catalog) All() []Entry {
	out := make([]Entry, 0, len(c.ids))
	for _, id := range c.ids {
		out = append(out, c.byID[id])
	}
	return out
}

func (c *Catalog) Cfg() *multiFS {
	return c.config
}

func (c *Catalog) Freeze() {
	c.frozen = true
}

func (c *Catalog) IsFrozen() bool {
	return c.frozen
}

func validFileName(file string) error {
	if file == "" {
		return errs.NewFatal("empty config filename")
	}
	if strings.ContainsAny(file, `/\:`) {
		return errs.Fatalf("invalid config filename: %q (must be a basename)", file)
	}
	if !isConfigFile(file) {
		return errs.Fatalf("invalid config filename: %q (must end with .yaml, .yml, or .json)", file)
	}
	if strings.HasPrefix(file, ".") {
		return errs.Fatalf("invalid config filename: %q (cannot start with '.')", file)
	}
	return nil
}

func isConfigFile(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".yaml", ".yml", ".json":
		return true
	}
	return false
}

// ParseGameSetting 依副檔名選擇 YAML / JSON 解析
func ParseGameSetting(filename string, raw []byte) (*spec.GameSetting, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".yaml", ".yml":
		return spec.GetGameSettingByYAML(raw)
	case ".json":
		return spec.GetGameSettingByJSON(raw)
	default:
		return nil, errs.Fatalf("unsupported config format: %q", filename)
	}
}

// GameSettingById 讀取並解析該 gid 的設定檔；查無回傳 errs.ErrNotFound
func (c *Catalog) GameSettingById(id spec.GID) (*spec.GameSetting, error) {
	e, ok := c.GetByID(id)
	if !ok {
		return nil, errs.WrapWithExtra(errs.ErrNotFound, "game id not in catalog", fmt.Sprintf("gid=%d", id))
	}
	return c.load(e)
}

// GameSettingByName 同 GameSettingById，以名稱查詢 (不分大小寫)
func (c *Catalog) GameSettingByName(name string) (*spec.GameSetting, error) {
	e, ok := c.GetByName(name)
	if !ok {
		return nil, errs.WrapWithExtra(errs.ErrNotFound, "game name not in catalog", "name="+name)
	}
	return c.load(e)
}

func (c *Catalog) load(e Entry) (*spec.GameSetting, error) {
	src, ok := c.config.GetFS(e.ConfigName)
	if !ok {
		return nil, errs.Fatalf("config %s missing from catalog fs", e.ConfigName)
	}
	raw, err := fs.ReadFile(src, e.ConfigName)
	if err != nil {
		return nil, errs.Wrap(err, "catalog read file error")
	}
	return ParseGameSetting(e.ConfigName, raw)
}

// ============================================================
// ** multiFS **
// ============================================================

type multiFS struct {
	src   []fs.FS
	index map[string]int // 檔名 -> src 索引
}

func newMultiFS(src ...fs.FS) (*multiFS, error) {
	if len(src) == 0 {
		return nil, errs.NewFatal("no fs provided")
	}
	for i, s := range src {
		if s == nil {
			return nil, errs.Fatalf("fs[%d] is nil", i)
		}
	}

	m := &multiFS{
		src:   src,
		index: make(map[string]int, 32),
	}

	// 建立索引時一併檢查：必須扁平、跨來源不得重名
	for i := range src {
		err := fs.WalkDir(src[i], ".", func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				if path == "." {
					return nil
				}
				return errs.Fatalf("config FS must be flat (no subdirectories): %q", path)
			}
			if !isConfigFile(path) {
				return nil
			}
			if prev, ok := m.index[path]; ok {
				return errs.Fatalf("duplicate config %q in fs[%d] and fs[%d]", path, prev, i)
			}
			m.index[path] = i
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (m *multiFS) GetFS(name string) (fs.FS, bool) {
	if i, ok := m.index[name]; ok {
		return m.src[i], true
	}
	return nil, false
}

// Sources 供唯讀走訪
func (m *multiFS) Sources() []fs.FS {
	if m == nil || len(m.src) == 0 {
		return nil
	}
	return slices.Clone(m.src)
}
