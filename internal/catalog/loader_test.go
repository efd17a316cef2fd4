package catalog

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleCSV = `Name,Year of release,Aired Date,Aired On,Number of Episode,Original Network,Duration,Content Rating,Synopsis,Cast,Genre,Tags,Rank,Rating
Move to Heaven,2021,"May 14, 2021",Friday,10,Netflix,52 min.,18+ Restricted (violence & profanity),...,Lee Je Hoon,"Life, Drama, Family",Autism,#1,9.2
Hospital Playlist,2020,"Mar 12, 2020 - May 28, 2020",Thursday,12,"Netflix, tvN",1 hr. 30 min.,15+ - Teens 15 or older,...,Jo Jung Suk,"Friendship, Romance, Life, Medical",Doctor,#2,9.1
Broken Row,2019,,Monday,16,KBS2,1 hr.,15+ - Teens 15 or older,...,Nobody,,None,#3,8.0
`

func TestReadCSV(t *testing.T) {
	items, err := ReadCSV(context.Background(), strings.NewReader(sampleCSV))
	require.NoError(t, err)
	require.Len(t, items, 3)

	assert.Equal(t, "Hospital Playlist", items[1].Name)
	assert.Equal(t, "Netflix, tvN", items[1].Network)
	assert.Equal(t, "Friendship, Romance, Life, Medical", items[1].Genre)
	assert.Equal(t, "9.1", items[1].Rating)
	assert.Equal(t, 1, items[1].ID)

	// 缺失的类型保持为空，由 NewStore 负责跳过
	assert.Empty(t, items[2].Genre)

	s, warnings := NewStore(items)
	assert.Equal(t, 2, s.Len())
	require.Len(t, warnings, 1)
	assert.Equal(t, 2, warnings[0].Row)
}

func TestReadCSVRejectsHeaderWithoutName(t *testing.T) {
	_, err := ReadCSV(context.Background(), strings.NewReader("Title,Genre\nx,y\n"))
	assert.Error(t, err)

	_, err = ReadCSV(context.Background(), strings.NewReader(""))
	assert.Error(t, err)
}

func TestCSVLoaderUnavailable(t *testing.T) {
	l := NewCSVLoader(filepath.Join(t.TempDir(), "missing.csv"))
	_, err := l.Load(context.Background())
	assert.ErrorIs(t, err, ErrCatalogUnavailable)
}

func TestCSVLoaderLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "kdrama.csv")
	require.NoError(t, os.WriteFile(path, []byte(sampleCSV), 0644))

	items, err := NewCSVLoader(path).Load(context.Background())
	require.NoError(t, err)
	assert.Len(t, items, 3)
}
