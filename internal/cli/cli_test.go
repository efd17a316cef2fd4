package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"kdrama_recommend/internal/catalog"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testCSV = `Name,Year of release,Aired On,Original Network,Duration,Content Rating,Genre,Rating
Signal,2016,"Friday, Saturday",tvN,1 hr. 15 min.,15+ - Teens 15 or older,"Thriller, Mystery",9.0
Stranger,2017,"Saturday, Sunday",tvN,1 hr. 15 min.,15+ - Teens 15 or older,"Thriller, Mystery",9.0
Mother,2018,"Wednesday, Thursday",tvN,1 hr. 15 min.,15+ - Teens 15 or older,Drama,9.0
Broken,2019,Monday,,1 hr.,15+ - Teens 15 or older,Drama,8.0
`

func run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "kdrama.csv")
	require.NoError(t, os.WriteFile(path, []byte(testCSV), 0644))

	var out, errOut bytes.Buffer
	cmd := NewRootCommand(&out, &errOut)
	cmd.SetArgs(append([]string{"--catalog", path}, args...))
	err := cmd.Execute()
	return out.String(), errOut.String(), err
}

func TestRecommendCommand(t *testing.T) {
	out, errOut, err := run(t, "recommend", "signal", "--limit", "1")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, " 1. Stranger (2017)"), out)
	assert.Contains(t, errOut, "Warning: skipped row 3")

	out, _, err = run(t, "recommend", "Signal", "--genre", "Drama")
	require.NoError(t, err)
	assert.Contains(t, out, "Mother")
	assert.NotContains(t, out, "Stranger")

	_, _, err = run(t, "recommend", "Nope")
	assert.ErrorIs(t, err, catalog.ErrUnknownItem)
}

func TestLookupCommand(t *testing.T) {
	out, _, err := run(t, "lookup", "MOTHER")
	require.NoError(t, err)
	assert.Contains(t, out, "#2 Mother")
	assert.Contains(t, out, "Genre:    Drama")

	_, _, err = run(t, "lookup", "Broken")
	assert.ErrorIs(t, err, catalog.ErrUnknownItem)
}

func TestTrendingCommand(t *testing.T) {
	out, _, err := run(t, "--quiet", "trending", "-n", "2")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "Mother")
	assert.Contains(t, lines[1], "Stranger")
}

func TestMissingCatalog(t *testing.T) {
	var out, errOut bytes.Buffer
	cmd := NewRootCommand(&out, &errOut)
	cmd.SetArgs([]string{"--catalog", filepath.Join(t.TempDir(), "none.csv"), "trending"})
	assert.ErrorIs(t, cmd.Execute(), catalog.ErrCatalogUnavailable)
}
