package catalog

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"kdrama_recommend/internal/model"
)

// Loader 提供目录的有序记录
// 记录的 ID 为源数据行号
type Loader interface {
	Load(ctx context.Context) ([]model.Item, error)
}

// LoaderFunc 将函数适配为 Loader
type LoaderFunc func(ctx context.Context) ([]model.Item, error)

func (f LoaderFunc) Load(ctx context.Context) ([]model.Item, error) { return f(ctx) }

// CSVLoader 从带表头的 CSV 文件读取目录
// 列名与 model.Attributes 一致，多余的列被忽略
type CSVLoader struct {
	path string
}

// NewCSVLoader 创建读取 path 的加载器
func NewCSVLoader(path string) *CSVLoader {
	return &CSVLoader{path: path}
}

// Load 打开并解析文件，任何失败都包装为 ErrCatalogUnavailable
func (l *CSVLoader) Load(ctx context.Context) ([]model.Item, error) {
	f, err := os.Open(l.path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCatalogUnavailable, err)
	}
	defer f.Close()

	items, err := ReadCSV(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrCatalogUnavailable, l.path, err)
	}
	return items, nil
}

// ReadCSV 从 r 解析目录行
// 缺失的单元格为空属性，由 NewStore 拒绝
func ReadCSV(ctx context.Context, r io.Reader) ([]model.Item, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("empty catalog file")
		}
		return nil, fmt.Errorf("read header: %w", err)
	}

	columns := make(map[string]int, len(header))
	for i, h := range header {
		columns[strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))] = i
	}
	if _, ok := columns[model.AttrName]; !ok {
		return nil, fmt.Errorf("header has no %q column", model.AttrName)
	}

	cell := func(row []string, attr string) string {
		i, ok := columns[attr]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	var items []model.Item
	for n := 0; ; n++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row %d: %w", n, err)
		}
		items = append(items, model.Item{
			ID:            n,
			Name:          cell(row, model.AttrName),
			Year:          cell(row, model.AttrYear),
			Network:       cell(row, model.AttrNetwork),
			AiredOn:       cell(row, model.AttrAiredOn),
			Duration:      cell(row, model.AttrDuration),
			ContentRating: cell(row, model.AttrContentRating),
			Genre:         cell(row, model.AttrGenre),
			Rating:        cell(row, model.AttrRating),
		})
	}
	return items, nil
}
