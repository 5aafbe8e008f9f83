package tokenstore

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) *SQLite {
	t.Helper()
	s, err := OpenSQLite(filepath.Join(t.TempDir(), "tokens.db"))
	require.NoError(t, err)
	return s
}

func TestSQLiteSaveLoad(t *testing.T) {
	s := openTestDB(t)

	require.NoError(t, s.Save(TokenName, "tok-1", time.Now().Add(time.Hour)))
	v, ok, err := s.Load(TokenName)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "tok-1", v)
}

func TestSQLiteSaveOverwrites(t *testing.T) {
	s := openTestDB(t)

	require.NoError(t, s.Save(TokenName, "tok-1", time.Now().Add(time.Hour)))
	require.NoError(t, s.Save(TokenName, "tok-2", time.Now().Add(time.Hour)))

	v, ok, err := s.Load(TokenName)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "tok-2", v)
}

func TestSQLiteExpiredTokenIsReaped(t *testing.T) {
	s := openTestDB(t)

	require.NoError(t, s.Save(TokenName, "stale", time.Now().Add(-time.Minute)))
	_, ok, err := s.Load(TokenName)
	require.NoError(t, err)
	require.False(t, ok)

	// The reaped row stays gone.
	_, ok, err = s.Load(TokenName)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestSQLiteDeleteAbsentIsNoError(t *testing.T) {
	s := openTestDB(t)
	require.NoError(t, s.Delete(TokenName))
}

func TestMemoryExpiry(t *testing.T) {
	m := NewMemory()
	require.NoError(t, m.Save(TokenName, "stale", time.Now().Add(-time.Minute)))
	_, ok, err := m.Load(TokenName)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestSourceReadsFreshValue(t *testing.T) {
	m := NewMemory()
	src := Source{Store: m}
	require.Empty(t, src.Token())

	require.NoError(t, m.Save(TokenName, "tok", time.Now().Add(time.Hour)))
	require.Equal(t, "tok", src.Token())

	require.NoError(t, m.Delete(TokenName))
	require.Empty(t, src.Token())
}
