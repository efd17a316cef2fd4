// Package catalog 保存一次目录加载得到的不可变条目集合
package catalog

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"kdrama_recommend/internal/model"
)

var (
	// ErrUnknownItem 目录中不存在的 ID 或名称
	ErrUnknownItem = errors.New("unknown item")
	// ErrCatalogUnavailable 尚未成功加载任何目录
	ErrCatalogUnavailable = errors.New("catalog unavailable")
)

// Warning 加载时被跳过的源数据行
// Reason 是 Err 的文本形式，供 JSON 输出使用
type Warning struct {
	Row    int    `json:"row"`
	Name   string `json:"name,omitempty"`
	Reason string `json:"reason"`
	Err    error  `json:"-"`
}

func (w Warning) String() string {
	return fmt.Sprintf("skipped row %d: %v", w.Row, w.Err)
}

// Store 按 ID 索引的只读目录快照
// ID 是连续的位置 0..Len()-1
type Store struct {
	items     []model.Item
	nameIndex map[string][]int // 小写名称 -> 按目录顺序的 ID
}

// NewStore 校验记录并用合法记录构建目录
// 缺少属性的行被跳过并记录为 Warning，保留的行重新编号以保证 ID 连续
// 输入记录的 ID 视为源数据行号
func NewStore(records []model.Item) (*Store, []Warning) {
	s := &Store{
		items:     make([]model.Item, 0, len(records)),
		nameIndex: make(map[string][]int, len(records)),
	}
	var warnings []Warning

	for _, rec := range records {
		if err := rec.Validate(); err != nil {
			warnings = append(warnings, Warning{Row: rec.ID, Name: rec.Name, Reason: err.Error(), Err: err})
			continue
		}
		rec.ID = len(s.items)
		s.items = append(s.items, rec)
		key := nameKey(rec.Name)
		s.nameIndex[key] = append(s.nameIndex[key], rec.ID)
	}

	return s, warnings
}

func nameKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// Len 条目数量
func (s *Store) Len() int { return len(s.items) }

// Item 按 ID 返回条目
func (s *Store) Item(id int) (model.Item, error) {
	if id < 0 || id >= len(s.items) {
		return model.Item{}, fmt.Errorf("%w: id %d", ErrUnknownItem, id)
	}
	return s.items[id], nil
}

// Items 按 ID 顺序返回全部条目的副本
func (s *Store) Items() []model.Item {
	out := make([]model.Item, len(s.items))
	copy(out, s.items)
	return out
}

// ResolveIdentifier 返回名称匹配 (忽略大小写) 的全部 ID，按目录顺序
// 名称不唯一
func (s *Store) ResolveIdentifier(name string) []int {
	ids := s.nameIndex[nameKey(name)]
	if len(ids) == 0 {
		return nil
	}
	out := make([]int, len(ids))
	copy(out, ids)
	return out
}

// ResolveFirst 返回名称的第一个匹配 ID，按名称查询时总是使用它
func (s *Store) ResolveFirst(name string) (int, error) {
	ids := s.nameIndex[nameKey(name)]
	if len(ids) == 0 {
		return 0, fmt.Errorf("%w: %q", ErrUnknownItem, name)
	}
	return ids[0], nil
}

// ResolveName 返回指定 ID 的名称
func (s *Store) ResolveName(id int) (string, error) {
	it, err := s.Item(id)
	if err != nil {
		return "", err
	}
	return it.Name, nil
}

// Trending 按发行年份降序返回最多 n 个条目，年份相同按 ID 升序
func (s *Store) Trending(n int) []model.Item {
	out := s.Items()
	sort.SliceStable(out, func(i, j int) bool {
		yi, yj := out[i].ReleaseYear(), out[j].ReleaseYear()
		if yi != yj {
			return yi > yj
		}
		return out[i].ID < out[j].ID
	})
	if n >= 0 && len(out) > n {
		out = out[:n]
	}
	return out
}

// Genres 返回目录中去重并排序后的类型标签
func (s *Store) Genres() []string {
	seen := make(map[string]struct{})
	var genres []string
	for _, it := range s.items {
		for _, g := range it.Genres() {
			if _, ok := seen[g]; ok {
				continue
			}
			seen[g] = struct{}{}
			genres = append(genres, g)
		}
	}
	sort.Strings(genres)
	return genres
}
