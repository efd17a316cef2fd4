package similarity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{"punctuation and case", "Netflix, tvN 1 hr. 30 min. 9.1", []string{"netflix", "tvn", "hr", "30", "min"}},
		{"plus signs", "15+ - Teens 15 or older", []string{"15", "teens", "15", "or", "older"}},
		{"underscore kept", "sci_fi", []string{"sci_fi"}},
		{"hangul", "시그널 2016", []string{"시그널", "2016"}},
		{"only short", "a b 1", []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Tokenize(tt.in)
			if len(tt.want) == 0 {
				assert.Empty(t, got)
				return
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFitTransformEmptyCorpus(t *testing.T) {
	_, _, err := FitTransform(nil)
	assert.ErrorIs(t, err, ErrEmptyCorpus)
}

func TestFitTransform(t *testing.T) {
	vocab, m, err := FitTransform([]string{
		"Drama drama Life",
		"Thriller life",
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"drama", "life", "thriller"}, vocab.Terms())
	assert.Equal(t, 3, vocab.Len())
	assert.Equal(t, 2, m.Rows())
	assert.Equal(t, 3, m.Cols())

	drama, ok := vocab.Index("drama")
	require.True(t, ok)
	life, _ := vocab.Index("life")
	thriller, _ := vocab.Index("thriller")

	assert.Equal(t, 2, m.At(0, drama))
	assert.Equal(t, 1, m.At(0, life))
	assert.Equal(t, 0, m.At(0, thriller))
	assert.Equal(t, 1, m.At(1, thriller))
	assert.Equal(t, []Entry{{Col: life, Count: 1}, {Col: thriller, Count: 1}}, m.Row(1))

	_, ok = vocab.Index("missing")
	assert.False(t, ok)
}

func TestFitTransformIsIdempotent(t *testing.T) {
	corpus := []string{
		"Move to Heaven 2021 Netflix Friday 52 min. Life, Drama 9.2",
		"Hospital Playlist 2020 Netflix, tvN Thursday 1 hr. 30 min. Romance, Life 9.1",
		"Signal 2016 tvN Friday, Saturday 1 hr. 15 min. Thriller 9.0",
	}
	v1, m1, err := FitTransform(corpus)
	require.NoError(t, err)
	v2, m2, err := FitTransform(corpus)
	require.NoError(t, err)

	assert.Equal(t, v1, v2)
	assert.Equal(t, m1, m2)
}
