package validator_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sheetwise/sheetwise/pkg/validator"
)

func TestApply(t *testing.T) {
	t.Parallel()

	t.Run("all rules pass", func(t *testing.T) {
		t.Parallel()

		err := validator.Apply(
			validator.RequiredString("input", "hello"),
			validator.MaxLenString("input", "hello", 10),
		)
		assert.NoError(t, err)
	})

	t.Run("collects every failing rule", func(t *testing.T) {
		t.Parallel()

		err := validator.Apply(
			validator.RequiredString("input", "  "),
			validator.BetweenInt("rating", 9, 0, 5),
		)
		require.Error(t, err)

		var verrs validator.ValidationErrors
		require.ErrorAs(t, err, &verrs)
		assert.True(t, verrs.Has("input"))
		assert.True(t, verrs.Has("rating"))
		assert.ElementsMatch(t, []string{"input", "rating"}, verrs.Fields())
	})
}

func TestRules(t *testing.T) {
	t.Parallel()

	t.Run("InList", func(t *testing.T) {
		t.Parallel()

		kinds := []string{"formula", "vba", "chart"}
		assert.NoError(t, validator.Apply(validator.InList("outputType", "vba", kinds)))
		assert.Error(t, validator.Apply(validator.InList("outputType", "slide", kinds)))
	})

	t.Run("BetweenInt is inclusive", func(t *testing.T) {
		t.Parallel()

		assert.NoError(t, validator.Apply(validator.BetweenInt("rating", 0, 0, 5)))
		assert.NoError(t, validator.Apply(validator.BetweenInt("rating", 5, 0, 5)))
		assert.Error(t, validator.Apply(validator.BetweenInt("rating", 6, 0, 5)))
		assert.Error(t, validator.Apply(validator.BetweenInt("rating", -1, 0, 5)))
	})

	t.Run("ValidUUID", func(t *testing.T) {
		t.Parallel()

		assert.NoError(t, validator.Apply(validator.ValidUUID("queryId", "5f0b7fb4-9b3e-4f8e-9a7f-0a1b2c3d4e5f")))
		assert.Error(t, validator.Apply(validator.ValidUUID("queryId", "not-a-uuid")))
	})
}
