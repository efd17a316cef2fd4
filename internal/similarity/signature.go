package similarity

import (
	"strings"

	"kdrama_recommend/internal/model"
)

// SignatureSeparator 特征签名中属性之间的分隔符
// 分隔符和属性顺序 (model.Attributes) 决定词表，修改任一项都会使已计算的矩阵失效
const SignatureSeparator = " "

// BuildSignature 依次拼接名称、年份、电视台、播出日、时长、分级、类型和评分
// 缺少属性时返回 model.ErrMissingAttribute，而不是拼入空字符串
func BuildSignature(it model.Item) (string, error) {
	if err := it.Validate(); err != nil {
		return "", err
	}
	parts := make([]string, len(model.Attributes))
	for i, attr := range model.Attributes {
		parts[i] = it.Attribute(attr)
	}
	return strings.Join(parts, SignatureSeparator), nil
}

// BuildSignatures 按顺序为每个条目生成签名
func BuildSignatures(items []model.Item) ([]string, error) {
	out := make([]string, len(items))
	for i, it := range items {
		sig, err := BuildSignature(it)
		if err != nil {
			return nil, err
		}
		out[i] = sig
	}
	return out, nil
}
