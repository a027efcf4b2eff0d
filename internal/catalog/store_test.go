package catalog

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStoreCachesAndReloadsOnChange(t *testing.T) {
	path := writeCSV(t, "id,name,price,category\n1,A,10,X\n")
	s := NewStore(path)

	c1, err := s.Catalog()
	require.NoError(t, err)
	assert.Equal(t, 1, c1.Len())

	c2, err := s.Catalog()
	require.NoError(t, err)
	assert.Same(t, c1, c2)

	require.NoError(t, os.WriteFile(path, []byte("id,name,price,category\n1,A,10,X\n2,B,20,Y\n"), 0o644))
	later := time.Now().Add(time.Minute)
	require.NoError(t, os.Chtimes(path, later, later))

	c3, err := s.Catalog()
	require.NoError(t, err)
	assert.Equal(t, 2, c3.Len())
	assert.Equal(t, 1, c1.Len(), "old snapshot is unchanged")
}

func TestStoreReload(t *testing.T) {
	path := writeCSV(t, "id,name,price,category\n1,A,10,X\n")
	s := NewStore(path)

	c1, err := s.Catalog()
	require.NoError(t, err)

	c2, err := s.Reload()
	require.NoError(t, err)
	assert.NotSame(t, c1, c2)
	assert.Equal(t, c1.Len(), c2.Len())
}

func TestStoreMissingFile(t *testing.T) {
	s := NewStore(filepath.Join(t.TempDir(), "missing.csv"))

	c, err := s.Catalog()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrSourceUnavailable))
	require.NotNil(t, c)
	assert.Equal(t, 0, c.Len())

	_, err = s.Catalog()
	assert.True(t, errors.Is(err, ErrSourceUnavailable))
}
