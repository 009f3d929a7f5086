// Package bootstrap 依設定組裝 repository、帳本、journal 與 use case
package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/JoeShih716/go-bank-ledger/internal/app/core/adapter/out/file"
	"github.com/JoeShih716/go-bank-ledger/internal/app/core/adapter/out/memory"
	mysql_adapter "github.com/JoeShih716/go-bank-ledger/internal/app/core/adapter/out/mysql"
	"github.com/JoeShih716/go-bank-ledger/internal/app/core/usecase"
	"github.com/JoeShih716/go-bank-ledger/internal/config"
	"github.com/JoeShih716/go-bank-ledger/pkg/journal"
	"github.com/JoeShih716/go-bank-ledger/pkg/mysql"
)

// App 組裝完成的帳本
type App struct {
	Core    *usecase.CoreUseCase
	Store   *memory.AccountStore
	logger  *slog.Logger
	closers []func() error
}

// New 依設定建立 App
//
// 參數:
//
//	ctx: 上下文
//	cfg: 設定
//	log: logger
//
// 回傳:
//
//	*App: App 實例
//	error: 初始化錯誤 (連線失敗、資料檔格式錯誤)
func New(ctx context.Context, cfg config.Config, log *slog.Logger) (*App, error) {
	if log == nil {
		log = slog.Default()
	}
	app := &App{logger: log}

	repo, err := app.newRepository(ctx, cfg)
	if err != nil {
		app.closeAll()
		return nil, err
	}

	store, err := memory.NewAccountStore(ctx, repo, log)
	if err != nil {
		app.closeAll()
		return nil, err
	}
	app.Store = store

	opts := []usecase.Option{usecase.WithLogger(log)}
	if cfg.Journal.Enabled {
		j, err := journal.Open(cfg.Journal.Path)
		if err != nil {
			app.closeAll()
			return nil, fmt.Errorf("open journal: %w", err)
		}
		app.closers = append(app.closers, j.Close)
		opts = append(opts, usecase.WithJournal(j))
	}
	app.Core = usecase.NewCoreUseCase(store, opts...)
	return app, nil
}

func (a *App) newRepository(ctx context.Context, cfg config.Config) (usecase.Repository, error) {
	switch cfg.Store.Backend {
	case config.BackendMySQL:
		client, err := mysql.NewClient(cfg.MySQL, a.logger)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, client.Close)
		a.logger.Info("connected to mysql", "host", cfg.MySQL.Host, "db", cfg.MySQL.DBName)

		repo := mysql_adapter.NewRepository(client.DB())
		if cfg.MySQL.AutoMigrate {
			if err := repo.Migrate(ctx); err != nil {
				return nil, fmt.Errorf("migrate accounts: %w", err)
			}
		}
		return repo, nil
	case config.BackendFile:
		return file.NewRepository(cfg.Store.DataFile), nil
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.Store.Backend)
	}
}

// Close 保存所有帳戶並釋放資源
func (a *App) Close(ctx context.Context) error {
	var err error
	if a.Core != nil {
		err = a.Core.Close(ctx)
	}
	return errors.Join(err, a.closeAll())
}

func (a *App) closeAll() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		errs = append(errs, a.closers[i]())
	}
	a.closers = nil
	return errors.Join(errs...)
}
