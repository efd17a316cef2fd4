package catalog

import (
	"errors"
	"testing"

	"kdrama_recommend/internal/model"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func item(row int, name, year, genre string) model.Item {
	return model.Item{
		ID:            row,
		Name:          name,
		Year:          year,
		Network:       "tvN",
		AiredOn:       "Saturday, Sunday",
		Duration:      "1 hr. 10 min.",
		ContentRating: "15+ - Teens 15 or older",
		Genre:         genre,
		Rating:        "8.8",
	}
}

func TestNewStoreSkipsRowsWithMissingAttributes(t *testing.T) {
	records := []model.Item{
		item(0, "Signal", "2016", "Thriller, Mystery"),
		item(1, "Broken", "2019", ""),
		item(2, "Mother", "2018", "Drama"),
	}

	s, warnings := NewStore(records)

	require.Equal(t, 2, s.Len())
	require.Len(t, warnings, 1)
	assert.Equal(t, 1, warnings[0].Row)
	assert.Equal(t, "Broken", warnings[0].Name)

	var missing *model.MissingAttributeError
	require.True(t, errors.As(warnings[0].Err, &missing))
	assert.Equal(t, model.AttrGenre, missing.Attribute)

	// 标识符在保留的行上连续编号
	mother, err := s.Item(1)
	require.NoError(t, err)
	assert.Equal(t, "Mother", mother.Name)
	assert.Equal(t, 1, mother.ID)
}

func TestWarningJSONKeepsReason(t *testing.T) {
	_, warnings := NewStore([]model.Item{item(4, "Broken", "2019", "")})
	require.Len(t, warnings, 1)
	assert.Equal(t, warnings[0].Err.Error(), warnings[0].Reason)

	data, err := json.Marshal(warnings)
	require.NoError(t, err)
	var decoded []map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &decoded))
	require.Len(t, decoded, 1)
	assert.Equal(t, float64(4), decoded[0]["row"])
	assert.Contains(t, decoded[0]["reason"], `missing attribute "Genre"`)
}

func TestResolveIdentifierReturnsAllMatches(t *testing.T) {
	s, _ := NewStore([]model.Item{
		item(0, "Mother", "2018", "Drama"),
		item(1, "Signal", "2016", "Thriller"),
		item(2, "mother", "2023", "Thriller"),
	})

	assert.Equal(t, []int{0, 2}, s.ResolveIdentifier("MOTHER"))
	assert.Nil(t, s.ResolveIdentifier("Kingdom"))

	first, err := s.ResolveFirst(" mother ")
	require.NoError(t, err)
	assert.Equal(t, 0, first)

	_, err = s.ResolveFirst("Kingdom")
	assert.ErrorIs(t, err, ErrUnknownItem)
}

func TestResolveName(t *testing.T) {
	s, _ := NewStore([]model.Item{item(0, "Signal", "2016", "Thriller")})

	name, err := s.ResolveName(0)
	require.NoError(t, err)
	assert.Equal(t, "Signal", name)

	_, err = s.ResolveName(1)
	assert.ErrorIs(t, err, ErrUnknownItem)
	_, err = s.ResolveName(-1)
	assert.ErrorIs(t, err, ErrUnknownItem)
}

func TestTrending(t *testing.T) {
	s, _ := NewStore([]model.Item{
		item(0, "A", "2016", "Drama"),
		item(1, "B", "2021", "Drama"),
		item(2, "C", "2018", "Drama"),
		item(3, "D", "2021", "Drama"),
	})

	var names []string
	for _, it := range s.Trending(3) {
		names = append(names, it.Name)
	}
	assert.Equal(t, []string{"B", "D", "C"}, names)
	assert.Len(t, s.Trending(10), 4)
}

func TestGenres(t *testing.T) {
	s, _ := NewStore([]model.Item{
		item(0, "A", "2016", "Thriller, Mystery"),
		item(1, "B", "2021", "Drama,Thriller"),
	})
	assert.Equal(t, []string{"Drama", "Mystery", "Thriller"}, s.Genres())
}

func TestItemsReturnsCopy(t *testing.T) {
	s, _ := NewStore([]model.Item{item(0, "A", "2016", "Drama")})
	items := s.Items()
	items[0].Name = "changed"

	it, err := s.Item(0)
	require.NoError(t, err)
	assert.Equal(t, "A", it.Name)
}
