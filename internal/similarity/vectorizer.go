package similarity

import (
	"errors"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"
)

// ErrEmptyCorpus 没有任何签名可供向量化
var ErrEmptyCorpus = errors.New("empty corpus")

// minTokenLen 丢弃单字符词，例如 "8.7" 中的 "8"
const minTokenLen = 2

// Tokenize 将 s 转为小写，按字母、数字、下划线的连续片段切词
// 少于两个字符的片段被丢弃
func Tokenize(s string) []string {
	fields := strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '_'
	})
	tokens := fields[:0]
	for _, f := range fields {
		if utf8.RuneCountInString(f) >= minTokenLen {
			tokens = append(tokens, f)
		}
	}
	return tokens
}

// Vocabulary 词到列号的映射，列按词的字典序排列
type Vocabulary struct {
	terms []string
	index map[string]int
}

// Len 不同词的数量
func (v *Vocabulary) Len() int { return len(v.terms) }

// Index 返回词所在的列
func (v *Vocabulary) Index(term string) (int, bool) {
	i, ok := v.index[term]
	return i, ok
}

// Terms 按列顺序返回全部词
func (v *Vocabulary) Terms() []string {
	out := make([]string, len(v.terms))
	copy(out, v.terms)
	return out
}

// Entry 词频行中的一个非零单元
type Entry struct {
	Col   int
	Count int
}

// CountMatrix 每个签名一行稀疏词频，行内按列号排序
type CountMatrix struct {
	rows [][]Entry
	cols int
}

// Rows 签名数量
func (m *CountMatrix) Rows() int { return len(m.rows) }

// Cols 词表大小
func (m *CountMatrix) Cols() int { return m.cols }

// At 返回签名 i 中词 j 的出现次数
func (m *CountMatrix) At(i, j int) int {
	row := m.rows[i]
	k := sort.Search(len(row), func(k int) bool { return row[k].Col >= j })
	if k < len(row) && row[k].Col == j {
		return row[k].Count
	}
	return 0
}

// Row 返回第 i 行的非零单元
func (m *CountMatrix) Row(i int) []Entry {
	out := make([]Entry, len(m.rows[i]))
	copy(out, m.rows[i])
	return out
}

// FitTransform 学习词表并返回词频矩阵，行顺序与输入一致
// 相同输入总是得到相同输出
func FitTransform(signatures []string) (*Vocabulary, *CountMatrix, error) {
	if len(signatures) == 0 {
		return nil, nil, ErrEmptyCorpus
	}

	tokenized := make([][]string, len(signatures))
	seen := make(map[string]struct{})
	for i, sig := range signatures {
		tokenized[i] = Tokenize(sig)
		for _, tok := range tokenized[i] {
			seen[tok] = struct{}{}
		}
	}

	vocab := &Vocabulary{
		terms: make([]string, 0, len(seen)),
		index: make(map[string]int, len(seen)),
	}
	for tok := range seen {
		vocab.terms = append(vocab.terms, tok)
	}
	sort.Strings(vocab.terms)
	for i, tok := range vocab.terms {
		vocab.index[tok] = i
	}

	m := &CountMatrix{rows: make([][]Entry, len(signatures)), cols: len(vocab.terms)}
	for i, tokens := range tokenized {
		counts := make(map[int]int, len(tokens))
		for _, tok := range tokens {
			counts[vocab.index[tok]]++
		}
		row := make([]Entry, 0, len(counts))
		for col, n := range counts {
			row = append(row, Entry{Col: col, Count: n})
		}
		sort.Slice(row, func(a, b int) bool { return row[a].Col < row[b].Col })
		m.rows[i] = row
	}

	return vocab, m, nil
}
