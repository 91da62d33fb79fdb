package migration

import (
	"testing"
	"testing/fstest"

	"github.com/erp/pricesync/migrations"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestList(t *testing.T) {
	t.Run("embedded migrations", func(t *testing.T) {
		names, err := List(migrations.FS)
		require.NoError(t, err)
		assert.Equal(t, []string{
			"000001_create_catalog",
			"000002_create_sync_outbox",
		}, names)
	})

	t.Run("sorted and ignores down files", func(t *testing.T) {
		source := fstest.MapFS{
			"000002_b.up.sql":   {Data: []byte("SELECT 1;")},
			"000002_b.down.sql": {Data: []byte("SELECT 1;")},
			"000001_a.up.sql":   {Data: []byte("SELECT 1;")},
			"README.md":         {Data: []byte("notes")},
		}
		names, err := List(source)
		require.NoError(t, err)
		assert.Equal(t, []string{"000001_a", "000002_b"}, names)
	})
}

func TestValidate(t *testing.T) {
	t.Run("embedded migrations are paired", func(t *testing.T) {
		assert.NoError(t, Validate(migrations.FS))
	})

	t.Run("missing down", func(t *testing.T) {
		source := fstest.MapFS{
			"000001_a.up.sql": {Data: []byte("SELECT 1;")},
		}
		err := Validate(source)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "000001_a has no down file")
	})

	t.Run("missing up", func(t *testing.T) {
		source := fstest.MapFS{
			"000001_a.up.sql":   {Data: []byte("SELECT 1;")},
			"000001_a.down.sql": {Data: []byte("SELECT 1;")},
			"000002_b.down.sql": {Data: []byte("SELECT 1;")},
		}
		err := Validate(source)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "000002_b has no up file")
	})

	t.Run("empty source", func(t *testing.T) {
		assert.Error(t, Validate(fstest.MapFS{}))
	})
}
