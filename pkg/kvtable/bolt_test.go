package kvtable

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func openBoltStore(t *testing.T) *BoltStore {
	t.Helper()
	s, err := NewBoltStore(t.TempDir(), "parceltrack.db")
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestBoltStorePutGetDelete(t *testing.T) {
	s := openBoltStore(t)

	require.NoError(t, s.Put("package-attributes", "pkg-1", []byte(`{"origin":"A"}`)))

	v, err := s.Get("package-attributes", "pkg-1")
	require.NoError(t, err)
	require.Equal(t, []byte(`{"origin":"A"}`), v)

	require.NoError(t, s.Delete("package-attributes", "pkg-1"))
	_, err = s.Get("package-attributes", "pkg-1")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestBoltStoreGetMissingTableReturnsErrNotFound(t *testing.T) {
	s := openBoltStore(t)
	_, err := s.Get("never-written", "k")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestBoltStorePurgeTableKeepsItUsable(t *testing.T) {
	s := openBoltStore(t)
	require.NoError(t, s.Put("package-events", "pkg-1", []byte("one")))

	require.NoError(t, s.PurgeTable("package-events"))

	_, err := s.Get("package-events", "pkg-1")
	require.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, s.Put("package-events", "pkg-2", []byte("two")))
	v, err := s.Get("package-events", "pkg-2")
	require.NoError(t, err)
	require.Equal(t, []byte("two"), v)
}
