package filter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestItems(t *testing.T) {
	t.Parallel()

	t.Run("NewItems", func(t *testing.T) {
		t.Parallel()

		items := NewItems("test", " Dev", "dev", "prod ", "TEST")
		assert.Equal(t, Items{"Dev", "prod", "test"}, items)
		assert.Equal(t, 3, items.Len())
		assert.Equal(t, "Dev, prod, test", items.String())
	})

	t.Run("ParseItems", func(t *testing.T) {
		t.Parallel()

		assert.Empty(t, ParseItems(""))
		assert.Empty(t, ParseItems(" , ,"))
		assert.Equal(t, Items{"a", "b", "c"}, ParseItems("c,b, a ,,"))
		assert.Equal(t, ParseItems("a, b"), ParseItems(ParseItems("b,a").String()))
	})

	t.Run("Contains", func(t *testing.T) {
		t.Parallel()

		items := Items{"@Dev", "test"}
		assert.True(t, items.Contains("dev"))
		assert.True(t, items.Contains("@TEST"))
		assert.True(t, items.Contains(" @ dev "))
		assert.False(t, items.Contains("prod"))
		assert.False(t, Items(nil).Contains("dev"))
	})
}

func TestExpression(t *testing.T) {
	t.Parallel()

	assert.True(t, Expression("").IsEmpty())
	assert.True(t, Expression(" \t").IsEmpty())
	assert.False(t, Expression("dev").IsEmpty())
	assert.Equal(t, "dev or test", Expression("dev or test").String())

	matched, err := Expression("dev or test").Matches(ParseItems("test"))
	require.NoError(t, err)
	assert.True(t, matched)

	matched, err = Expression("@dev").Matches(nil)
	require.NoError(t, err)
	assert.False(t, matched)

	_, err = Expression("dev and (test").Matches(nil)
	assert.ErrorIs(t, err, ErrSyntax)
}
