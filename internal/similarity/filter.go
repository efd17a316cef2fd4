package similarity

import (
	"strings"

	"kdrama_recommend/internal/model"
)

// Filter 决定候选条目能否被推荐，nil 表示全部接受
type Filter func(it model.Item) bool

// NoFilter 接受所有条目
func NoFilter() Filter { return nil }

// GenreFilter 只接受带有该类型标签的条目 (忽略大小写)
// 空字符串或 "All" 表示不过滤
func GenreFilter(genre string) Filter {
	genre = strings.TrimSpace(genre)
	if genre == "" || strings.EqualFold(genre, "all") {
		return nil
	}
	return func(it model.Item) bool { return it.HasGenre(genre) }
}

// ExcludeNames 排除名称在 names 中的条目 (忽略大小写)
func ExcludeNames(names []string) Filter {
	if len(names) == 0 {
		return nil
	}
	set := make(map[string]struct{}, len(names))
	for _, n := range names {
		set[strings.ToLower(strings.TrimSpace(n))] = struct{}{}
	}
	return func(it model.Item) bool {
		_, found := set[strings.ToLower(strings.TrimSpace(it.Name))]
		return !found
	}
}

// AllOf 只接受所有非 nil 过滤器都接受的条目
func AllOf(filters ...Filter) Filter {
	var active []Filter
	for _, f := range filters {
		if f != nil {
			active = append(active, f)
		}
	}
	switch len(active) {
	case 0:
		return nil
	case 1:
		return active[0]
	}
	return func(it model.Item) bool {
		for _, f := range active {
			if !f(it) {
				return false
			}
		}
		return true
	}
}

func (f Filter) accept(it model.Item) bool {
	return f == nil || f(it)
}
