package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	c := Default()

	packages := c.List()
	require.Len(t, packages, 6)
	assert.Equal(t, "LAPORAN_UMUM_10", packages[0].Code)

	pkg, ok := c.Get("PELATIHAN_TATAP_MUKA")
	require.True(t, ok)
	assert.True(t, pkg.Price.Equal(decimal.NewFromInt(100000)))
}

func TestCatalog_PricePerPerson(t *testing.T) {
	c := Default()

	price, err := c.PricePerPerson([]string{"LAPORAN_UMUM_10", "LENGKAP_35_KARAKTER"})
	require.NoError(t, err)
	assert.True(t, price.Equal(decimal.NewFromInt(45000)))

	_, err = c.PricePerPerson([]string{"UNKNOWN"})
	assert.Error(t, err)
}

func TestLoad(t *testing.T) {
	t.Run("reads override file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "packages.yaml")
		require.NoError(t, os.WriteFile(path, []byte("packages:\n  - code: basic\n    name: Basic\n    price: 5000\n"), 0o600))

		c, err := Load(path)
		require.NoError(t, err)

		pkg, ok := c.Get("BASIC")
		require.True(t, ok)
		assert.True(t, pkg.Price.Equal(decimal.NewFromInt(5000)))
	})

	t.Run("rejects invalid entries", func(t *testing.T) {
		_, err := Parse([]byte("packages:\n  - code: basic\n    price: 0\n"))
		assert.Error(t, err)

		_, err = Parse([]byte("packages:\n  - code: a\n    price: 1\n  - code: A\n    price: 2\n"))
		assert.Error(t, err)

		_, err = Parse([]byte(""))
		assert.Error(t, err)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
		assert.Error(t, err)
	})
}
