package mysql

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/JoeShih716/go-bank-ledger/internal/app/core/domain"
)

func newMockRepo(t *testing.T) (*Repository, sqlmock.Sqlmock) {
	t.Helper()
	mockDb, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { mockDb.Close() })

	dialector := mysql.New(mysql.Config{
		Conn:                      mockDb,
		SkipInitializeWithVersion: true,
	})
	db, err := gorm.Open(dialector, &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	return NewRepository(db), mock
}

func TestRepository_LoadAll(t *testing.T) {
	repo, mock := newMockRepo(t)

	rows := sqlmock.NewRows([]string{"id", "first_name", "last_name", "balance", "updated_at"}).
		AddRow(1, "Jane", "Doe", "1000.5000", 0).
		AddRow(4, "Mary Ann", "Lee", "600.0000", 0)
	mock.ExpectQuery("SELECT \\* FROM `accounts` ORDER BY id").WillReturnRows(rows)

	accounts, err := repo.LoadAll(context.Background())
	require.NoError(t, err)
	require.Len(t, accounts, 2)
	assert.Equal(t, int64(1), accounts[0].Number())
	assert.Equal(t, "Doe", accounts[0].LastName())
	assert.True(t, accounts[0].Balance().Equal(decimal.RequireFromString("1000.5")))
	assert.Equal(t, "Mary Ann", accounts[1].FirstName())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_LoadAllError(t *testing.T) {
	repo, mock := newMockRepo(t)
	mock.ExpectQuery("SELECT \\* FROM `accounts`").WillReturnError(errors.New("connection reset"))

	_, err := repo.LoadAll(context.Background())
	require.Error(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_SaveAllRewritesSnapshot(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM `accounts` WHERE 1 = 1").WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectExec("INSERT INTO `accounts` (.+) VALUES (.+)").WillReturnResult(sqlmock.NewResult(2, 2))
	mock.ExpectCommit()

	err := repo.SaveAll(context.Background(), []domain.Account{
		*domain.NewAccount(1, "Jane", "Doe", decimal.NewFromInt(600)),
		*domain.NewAccount(2, "John", "Roe", decimal.NewFromInt(900)),
	})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_SaveAllEmpty(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM `accounts` WHERE 1 = 1").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, repo.SaveAll(context.Background(), nil))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_SaveAllRollsBack(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM `accounts` WHERE 1 = 1").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO `accounts` (.+) VALUES (.+)").WillReturnError(errors.New("duplicate key"))
	mock.ExpectRollback()

	err := repo.SaveAll(context.Background(), []domain.Account{
		*domain.NewAccount(1, "Jane", "Doe", decimal.NewFromInt(600)),
	})
	require.Error(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}
