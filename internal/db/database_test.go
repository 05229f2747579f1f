package db

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openSQLite(t *testing.T) *Database {
	t.Helper()
	d, err := NewDatabase(DriverSQLite, filepath.Join(t.TempDir(), "profiles.db"))
	require.NoError(t, err)
	t.Cleanup(func() { d.Close() })
	return d
}

func TestNewDatabaseRejectsUnknownDriver(t *testing.T) {
	_, err := NewDatabase("mysql", "whatever")
	assert.Error(t, err)
}

func TestRebind(t *testing.T) {
	pg := &Database{driver: DriverPostgres}
	lite := &Database{driver: DriverSQLite}

	q := "UPDATE profiles SET username = ? WHERE id = ?"
	assert.Equal(t, "UPDATE profiles SET username = $1 WHERE id = $2", pg.rebind(q))
	assert.Equal(t, q, lite.rebind(q))
}

func TestProfileLifecycle(t *testing.T) {
	d := openSQLite(t)
	now := time.Now().Truncate(time.Millisecond)

	p := &Profile{ID: "p1", Username: "alice", CreatedAt: now, LastSeen: now}
	require.NoError(t, d.SaveProfile(p))

	got, err := d.GetProfile("p1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "alice", got.Username)
	assert.True(t, got.CreatedAt.Equal(now))

	byName, err := d.GetProfileByName("alice")
	require.NoError(t, err)
	require.NotNil(t, byName)
	assert.Equal(t, "p1", byName.ID)

	later := now.Add(time.Hour)
	p.LastSeen = later
	require.NoError(t, d.SaveProfile(p))
	got, err = d.GetProfile("p1")
	require.NoError(t, err)
	assert.True(t, got.LastSeen.Equal(later))
	assert.True(t, got.CreatedAt.Equal(now))

	removed, err := d.DeleteProfile("p1")
	require.NoError(t, err)
	assert.True(t, removed)

	got, err = d.GetProfile("p1")
	require.NoError(t, err)
	assert.Nil(t, got)

	removed, err = d.DeleteProfile("p1")
	require.NoError(t, err)
	assert.False(t, removed)
}

func TestListProfilesOrdersByName(t *testing.T) {
	d := openSQLite(t)
	now := time.Now()

	for id, name := range map[string]string{"1": "carol", "2": "alice", "3": "bob"} {
		require.NoError(t, d.SaveProfile(&Profile{ID: id, Username: name, CreatedAt: now, LastSeen: now}))
	}

	profiles, err := d.ListProfiles()
	require.NoError(t, err)
	require.Len(t, profiles, 3)
	assert.Equal(t, "alice", profiles[0].Username)
	assert.Equal(t, "bob", profiles[1].Username)
	assert.Equal(t, "carol", profiles[2].Username)
}

func TestUsernameIsUnique(t *testing.T) {
	d := openSQLite(t)
	now := time.Now()

	require.NoError(t, d.SaveProfile(&Profile{ID: "1", Username: "alice", CreatedAt: now, LastSeen: now}))
	assert.Error(t, d.SaveProfile(&Profile{ID: "2", Username: "alice", CreatedAt: now, LastSeen: now}))
}

func TestPostgres(t *testing.T) {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		t.Skip("DATABASE_URL not set")
	}

	d, err := NewDatabase(DriverPostgres, dsn)
	require.NoError(t, err)
	defer d.Close()

	now := time.Now()
	p := &Profile{ID: "pg-test", Username: "pg-test-user", CreatedAt: now, LastSeen: now}
	require.NoError(t, d.SaveProfile(p))
	defer d.DeleteProfile(p.ID)

	got, err := d.GetProfileByName("pg-test-user")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "pg-test", got.ID)
}
