package changelog

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/icinga/icinga-changelog/internal/filter"
	"github.com/icinga/icinga-changelog/internal/testutils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testChangelog = `
changesets:
  - id: "1"
    author: alice
    comment: create schema
  - id: "2"
    author: alice
    context: dev, test
    labels: seed
  - id: "3"
    author: bob
    context: "!prod and @eu"
    labels: "feature-x, db"
  - id: "4"
    author: bob
    context: "(dev or test) and !(ci)"
    labels: feature-y
`

func TestLoad(t *testing.T) {
	t.Parallel()

	t.Run("Valid", func(t *testing.T) {
		t.Parallel()

		c, err := Load(strings.NewReader(testChangelog))
		require.NoError(t, err)
		require.Len(t, c.Changesets, 4)

		assert.Equal(t, "1::alice", c.Changesets[0].Key())
		assert.Equal(t, "create schema", c.Changesets[0].Comment)
		assert.True(t, c.Changesets[0].Context.IsEmpty())
		assert.Equal(t, filter.Expression("!prod and @eu"), c.Changesets[2].Context)
		assert.Equal(t, filter.Items{"db", "feature-x"}, c.Changesets[2].LabelItems())
	})

	t.Run("Empty", func(t *testing.T) {
		t.Parallel()

		c, err := Load(strings.NewReader(""))
		require.NoError(t, err)
		assert.Empty(t, c.Changesets)
	})

	t.Run("Invalid", func(t *testing.T) {
		t.Parallel()

		testdata := []struct {
			Name string
			Yaml string
			Err  string
		}{
			{"MissingID", "changesets:\n  - author: alice\n", "invalid changelog: changeset is missing an id"},
			{"MissingAuthor", "changesets:\n  - id: \"1\"\n", `invalid changelog: changeset "1" is missing an author`},
			{
				"Duplicate",
				"changesets:\n  - id: \"1\"\n    author: a\n  - id: \"1\"\n    author: a\n",
				`invalid changelog: duplicate changeset "1::a"`,
			},
			{
				"UnbalancedContext",
				"changesets:\n  - id: \"1\"\n    author: a\n    context: \"(dev\"\n",
				`invalid changelog: changeset "1::a": cannot evaluate context expression: invalid filter '(dev', unbalanced or empty parentheses`,
			},
		}

		for _, td := range testdata {
			t.Run(td.Name, func(t *testing.T) {
				_, err := Load(strings.NewReader(td.Yaml))
				assert.EqualError(t, err, td.Err)
			})
		}

		_, err := Load(strings.NewReader("changesets:\n  - id: \"1\"\n    author: a\n    unknown: x\n"))
		assert.Error(t, err, "unknown fields should be rejected")

		_, err = Load(strings.NewReader("changesets:\n  - id: \"1\"\n    author: a\n    context: \"a or ()\"\n"))
		assert.ErrorIs(t, err, filter.ErrSyntax)
	})

	t.Run("DistinctAuthors", func(t *testing.T) {
		t.Parallel()

		id := testutils.MakeRandomString(t)
		c := &Changelog{Changesets: []*Changeset{{ID: id, Author: "alice"}, {ID: id, Author: "bob"}}}
		assert.NoError(t, c.Validate(), "same id by different authors is allowed")

		c.Changesets = append(c.Changesets, &Changeset{ID: id, Author: "alice"})
		assert.EqualError(t, c.Validate(), `duplicate changeset "`+id+`::alice"`)
	})
}

func TestLoadFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "changelog.yml")
	require.NoError(t, os.WriteFile(path, []byte(testChangelog), 0o600))

	c, err := LoadFile(path)
	require.NoError(t, err)
	assert.Len(t, c.Changesets, 4)

	_, err = LoadFile(filepath.Join(t.TempDir(), "missing.yml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
