package kvtable

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMemStoreGetMissingReturnsErrNotFound(t *testing.T) {
	s := NewMemStore()
	_, err := s.Get("t", "missing")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestMemStorePutGetDelete(t *testing.T) {
	s := NewMemStore()
	require.NoError(t, s.Put("t", "k", []byte("v1")))

	v, err := s.Get("t", "k")
	require.NoError(t, err)
	require.Equal(t, []byte("v1"), v)

	require.NoError(t, s.Delete("t", "k"))
	_, err = s.Get("t", "k")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestMemStoreGetReturnsACopy(t *testing.T) {
	s := NewMemStore()
	original := []byte("v1")
	require.NoError(t, s.Put("t", "k", original))
	original[0] = 'X'

	v, err := s.Get("t", "k")
	require.NoError(t, err)
	require.Equal(t, []byte("v1"), v)
}

func TestMemStorePurgeTableRemovesOnlyThatTable(t *testing.T) {
	s := NewMemStore()
	require.NoError(t, s.Put("t1", "k", []byte("v")))
	require.NoError(t, s.Put("t2", "k", []byte("v")))

	require.NoError(t, s.PurgeTable("t1"))

	_, err := s.Get("t1", "k")
	require.ErrorIs(t, err, ErrNotFound)
	v, err := s.Get("t2", "k")
	require.NoError(t, err)
	require.Equal(t, []byte("v"), v)
}

func TestMemStoreDeleteMissingKeyIsNotAnError(t *testing.T) {
	s := NewMemStore()
	require.NoError(t, s.Delete("t", "missing"))
}
