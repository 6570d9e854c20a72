package billing

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCatalog(t *testing.T) {
	t.Parallel()

	t.Run("valid catalog resolves plans and the default", func(t *testing.T) {
		t.Parallel()

		c, err := ParseCatalog([]byte(`
default: PLN_monthly
plans:
  - code: PLN_monthly
    amount: 130000
    currency: KES
    equivalent: USD 10 (KES 1300 at ~130 KES/USD)
  - code: PLN_yearly
    amount: 1300000
    currency: KES
`))
		require.NoError(t, err)

		assert.Equal(t, "PLN_monthly", c.Default().Code)

		p, err := c.Get("PLN_yearly")
		require.NoError(t, err)
		assert.Equal(t, int64(1300000), p.Amount)

		p, err = c.Get("")
		require.NoError(t, err)
		assert.Equal(t, "PLN_monthly", p.Code, "empty code selects the default plan")
	})

	t.Run("unknown plan code fails", func(t *testing.T) {
		t.Parallel()

		c, err := ParseCatalog([]byte("default: PLN_a\nplans:\n  - code: PLN_a\n    amount: 1\n    currency: KES\n"))
		require.NoError(t, err)

		_, err = c.Get("PLN_missing")
		require.ErrorIs(t, err, ErrUnknownPlan)
	})

	t.Run("rejects invalid catalogs", func(t *testing.T) {
		t.Parallel()

		for name, raw := range map[string]string{
			"empty":             "",
			"no default":        "plans:\n  - code: PLN_a\n    amount: 1\n    currency: KES\n",
			"missing default":   "default: PLN_b\nplans:\n  - code: PLN_a\n    amount: 1\n    currency: KES\n",
			"zero amount":       "default: PLN_a\nplans:\n  - code: PLN_a\n    amount: 0\n    currency: KES\n",
			"no currency":       "default: PLN_a\nplans:\n  - code: PLN_a\n    amount: 1\n",
			"duplicate code":    "default: PLN_a\nplans:\n  - code: PLN_a\n    amount: 1\n    currency: KES\n  - code: PLN_a\n    amount: 2\n    currency: KES\n",
			"not yaml at all":   "{{{{",
			"plan without code": "default: PLN_a\nplans:\n  - amount: 1\n    currency: KES\n",
		} {
			raw := raw
			t.Run(name, func(t *testing.T) {
				t.Parallel()

				_, err := ParseCatalog([]byte(raw))
				require.ErrorIs(t, err, ErrInvalidCatalog)
			})
		}
	})
}

func TestLoadCatalog(t *testing.T) {
	t.Parallel()

	t.Run("loads from disk", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "billing.yml")
		require.NoError(t, os.WriteFile(path, []byte(`
default: PLN_monthly
plans:
  - code: PLN_monthly
    amount: 130000
    currency: KES
`), 0o600))

		c, err := LoadCatalog(path)
		require.NoError(t, err)
		assert.Equal(t, int64(130000), c.Default().Amount)
	})

	t.Run("missing file fails", func(t *testing.T) {
		t.Parallel()

		_, err := LoadCatalog(filepath.Join(t.TempDir(), "nope.yml"))
		require.ErrorIs(t, err, ErrInvalidCatalog)
	})
}
