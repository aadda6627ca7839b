package rejectlog

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteRead(t *testing.T) {
	var buf bytes.Buffer
	w, err := NewWriter(&buf)
	require.NoError(t, err)

	entries := []Entry{
		{Line: 3, Type: "deposit", Client: "1", Tx: "1", Amount: "5", Reason: "duplicate transaction: 1 5"},
		{Line: 9, Type: "withdrawal", Client: "2", Tx: "7", Amount: "1,000", Reason: `needs "quotes"`},
	}
	for _, e := range entries {
		require.NoError(t, w.Write(e))
	}
	require.NoError(t, w.Close())

	got, err := Read(&buf)
	require.NoError(t, err)
	assert.Equal(t, entries, got)
}

func TestReadEmpty(t *testing.T) {
	got, err := Read(bytes.NewBufferString(Header + "\n"))
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestCreate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rejects.csv")
	w, err := Create(path)
	require.NoError(t, err)
	require.NoError(t, w.Write(Entry{Line: 2, Type: "deposit", Reason: "bad"}))
	require.NoError(t, w.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, Header+"\n2,deposit,,,,bad\n", string(data))
}

func TestCreateMissingDir(t *testing.T) {
	_, err := Create(filepath.Join(t.TempDir(), "missing", "rejects.csv"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestFromRecord(t *testing.T) {
	e := FromRecord(4, []string{" deposit", " 1 ", "2"}, errors.New("boom"))
	assert.Equal(t, Entry{Line: 4, Type: "deposit", Client: "1", Tx: "2", Reason: "boom"}, e)
}

func TestUnmarshalEntryErrors(t *testing.T) {
	_, err := UnmarshalEntry([]string{"1"})
	require.Error(t, err)

	_, err = UnmarshalEntry([]string{"x", "", "", "", "", ""})
	require.Error(t, err)
}
