package bootstrap

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JoeShih716/go-bank-ledger/internal/config"
)

func TestNew_FileBackendWithJournal(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	cfg := config.Default()
	cfg.Store.DataFile = filepath.Join(dir, "Bank.data")
	cfg.Journal.Enabled = true
	cfg.Journal.Path = filepath.Join(dir, "journal.log")

	app, err := New(ctx, cfg, nil)
	require.NoError(t, err)
	_, err = app.Core.OpenAccount(ctx, "Jane", "Doe", decimal.NewFromInt(1000))
	require.NoError(t, err)
	require.NoError(t, app.Close(ctx))

	data, err := os.ReadFile(cfg.Store.DataFile)
	require.NoError(t, err)
	assert.Equal(t, "1\nJane\nDoe\n1000\n", string(data))

	// 重新啟動後可讀回資料與歷史
	app, err = New(ctx, cfg, nil)
	require.NoError(t, err)
	defer app.Close(ctx)
	assert.Equal(t, int64(1), app.Store.LastNumber())
	ops, err := app.Core.History(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, ops, 1)
}

func TestNew_MalformedDataFile(t *testing.T) {
	cfg := config.Default()
	cfg.Store.DataFile = filepath.Join(t.TempDir(), "Bank.data")
	cfg.Journal.Enabled = false
	require.NoError(t, os.WriteFile(cfg.Store.DataFile, []byte("one\nJane\nDoe\n1000\n"), 0644))

	_, err := New(context.Background(), cfg, nil)
	assert.Error(t, err)
}
