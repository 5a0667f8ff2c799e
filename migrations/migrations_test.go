package migrations

import (
	"io/fs"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrationsArePaired(t *testing.T) {
	names, err := fs.Glob(FS, "*.sql")
	require.NoError(t, err)
	require.NotEmpty(t, names)

	ups := map[string]bool{}
	downs := map[string]bool{}
	for _, name := range names {
		switch {
		case strings.HasSuffix(name, ".up.sql"):
			ups[strings.TrimSuffix(name, ".up.sql")] = true
		case strings.HasSuffix(name, ".down.sql"):
			downs[strings.TrimSuffix(name, ".down.sql")] = true
		default:
			t.Errorf("unexpected migration file %s", name)
		}
	}
	assert.Equal(t, ups, downs)
}

func TestApplicationsSchema(t *testing.T) {
	up, err := FS.ReadFile("000001_create_applications.up.sql")
	require.NoError(t, err)

	sql := string(up)
	for _, status := range []string{"interested", "applied", "interviewing", "offer", "rejected", "accepted"} {
		assert.Contains(t, sql, "'"+status+"'")
	}
	assert.Contains(t, sql, "user_id        TEXT NOT NULL")
	assert.Contains(t, sql, "applied_date   DATE")
}
