package model

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrMissingAttribute 条目缺少必填属性
var ErrMissingAttribute = errors.New("missing attribute")

// 属性名，与目录 CSV 的列名一致
const (
	AttrName          = "Name"
	AttrYear          = "Year of release"
	AttrNetwork       = "Original Network"
	AttrAiredOn       = "Aired On"
	AttrDuration      = "Duration"
	AttrContentRating = "Content Rating"
	AttrGenre         = "Genre"
	AttrRating        = "Rating"
)

// Attributes 按特征签名的拼接顺序列出所有必填属性
var Attributes = []string{
	AttrName,
	AttrYear,
	AttrNetwork,
	AttrAiredOn,
	AttrDuration,
	AttrContentRating,
	AttrGenre,
	AttrRating,
}

// MissingAttributeError 描述某个条目缺失的具体属性
type MissingAttributeError struct {
	Row       int // 源数据中的行号 (从 0 开始，不含表头)
	Name      string
	Attribute string
}

func (e *MissingAttributeError) Error() string {
	if e.Name == "" {
		return fmt.Sprintf("row %d: missing attribute %q", e.Row, e.Attribute)
	}
	return fmt.Sprintf("row %d (%s): missing attribute %q", e.Row, e.Name, e.Attribute)
}

func (e *MissingAttributeError) Unwrap() error { return ErrMissingAttribute }

// Item 代表目录中的一部剧集，加载后不可变
// 属性保留目录中的原始文本，特征签名直接使用原文
type Item struct {
	ID            int    `json:"id"` // 在目录中的位置 (从 0 开始)
	Name          string `json:"name"`
	Year          string `json:"year"`
	Network       string `json:"network"`
	AiredOn       string `json:"aired_on"`
	Duration      string `json:"duration"`
	ContentRating string `json:"content_rating"`
	Genre         string `json:"genre"` // 逗号分隔的类型标签
	Rating        string `json:"rating"`
}

// Attribute 按属性名返回原始值
func (it Item) Attribute(name string) string {
	switch name {
	case AttrName:
		return it.Name
	case AttrYear:
		return it.Year
	case AttrNetwork:
		return it.Network
	case AttrAiredOn:
		return it.AiredOn
	case AttrDuration:
		return it.Duration
	case AttrContentRating:
		return it.ContentRating
	case AttrGenre:
		return it.Genre
	case AttrRating:
		return it.Rating
	}
	return ""
}

// Validate 检查所有必填属性，返回第一个缺失的属性
// 只含空白字符的值视为缺失
func (it Item) Validate() error {
	for _, attr := range Attributes {
		if strings.TrimSpace(it.Attribute(attr)) == "" {
			return &MissingAttributeError{Row: it.ID, Name: it.Name, Attribute: attr}
		}
	}
	return nil
}

// Genres 拆分类型标签
func (it Item) Genres() []string {
	var genres []string
	for _, g := range strings.Split(it.Genre, ",") {
		if g = strings.TrimSpace(g); g != "" {
			genres = append(genres, g)
		}
	}
	return genres
}

// HasGenre 判断是否包含指定类型 (忽略大小写)
func (it Item) HasGenre(genre string) bool {
	genre = strings.TrimSpace(genre)
	for _, g := range it.Genres() {
		if strings.EqualFold(g, genre) {
			return true
		}
	}
	return false
}

// ReleaseYear 解析发行年份，无法解析时返回 0
func (it Item) ReleaseYear() int {
	y, err := strconv.Atoi(strings.TrimSpace(it.Year))
	if err != nil {
		return 0
	}
	return y
}
