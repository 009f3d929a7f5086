package journal

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type entry struct {
	Seq  int    `json:"seq"`
	Note string `json:"note"`
}

func TestJournal_AppendReadAll(t *testing.T) {
	path := filepath.Join(t.TempDir(), "journal.log")
	j, err := Open(path)
	require.NoError(t, err)
	defer j.Close()

	for i := 1; i <= 3; i++ {
		require.NoError(t, j.Append(entry{Seq: i, Note: "op"}))
	}

	var got []entry
	err = j.ReadAll(func(raw []byte) error {
		var e entry
		if err := json.Unmarshal(raw, &e); err != nil {
			return err
		}
		got = append(got, e)
		return nil
	})
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, 1, got[0].Seq)
	assert.Equal(t, 3, got[2].Seq)

	// 讀取後繼續寫入仍在檔尾
	require.NoError(t, j.Append(entry{Seq: 4}))
	count := 0
	require.NoError(t, j.ReadAll(func([]byte) error { count++; return nil }))
	assert.Equal(t, 4, count)
}

func TestJournal_ReopenKeepsEntries(t *testing.T) {
	path := filepath.Join(t.TempDir(), "journal.log")
	j, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, j.Append(entry{Seq: 1}))
	require.NoError(t, j.Close())

	j, err = Open(path)
	require.NoError(t, err)
	defer j.Close()
	require.NoError(t, j.Append(entry{Seq: 2}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "{\"seq\":1,\"note\":\"\"}\n{\"seq\":2,\"note\":\"\"}\n", string(data))
}

func TestJournal_CallbackError(t *testing.T) {
	j, err := Open(filepath.Join(t.TempDir(), "journal.log"))
	require.NoError(t, err)
	defer j.Close()
	require.NoError(t, j.Append(entry{Seq: 1}))

	stop := errors.New("stop")
	err = j.ReadAll(func([]byte) error { return stop })
	assert.ErrorIs(t, err, stop)
}
