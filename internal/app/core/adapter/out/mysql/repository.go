package mysql

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/JoeShih716/go-bank-ledger/internal/app/core/domain"
	"github.com/JoeShih716/go-bank-ledger/internal/app/core/usecase"
)

// sqlAccount 對應資料庫的 accounts 表
type sqlAccount struct {
	ID        int64           `gorm:"primaryKey;autoIncrement:false"`
	FirstName string          `gorm:"column:first_name;size:255"`
	LastName  string          `gorm:"column:last_name;size:255"`
	Balance   decimal.Decimal `gorm:"type:decimal(20,4)"`
	UpdatedAt int64           `gorm:"autoUpdateTime:milli"` // 自動更新時間
}

func (*sqlAccount) TableName() string {
	return "accounts"
}

// Repository 以 MySQL 保存帳戶快照
// SaveAll 與檔案版相同採整批覆寫，在單一 Transaction 內刪除後重新寫入
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		db: db,
	}
}

// Migrate 建立或更新 accounts 表
func (r *Repository) Migrate(ctx context.Context) error {
	return r.db.WithContext(ctx).AutoMigrate(&sqlAccount{})
}

// LoadAll 依帳號順序載入所有帳戶
func (r *Repository) LoadAll(ctx context.Context) ([]domain.Account, error) {
	var rows []sqlAccount
	if err := r.db.WithContext(ctx).Order("id").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("select accounts: %w", err)
	}
	accounts := make([]domain.Account, 0, len(rows))
	for _, row := range rows {
		accounts = append(accounts, *domain.NewAccount(row.ID, row.FirstName, row.LastName, row.Balance))
	}
	return accounts, nil
}

// SaveAll 以快照覆寫 accounts 表
func (r *Repository) SaveAll(ctx context.Context, accounts []domain.Account) error {
	rows := make([]sqlAccount, 0, len(accounts))
	for _, acc := range accounts {
		rows = append(rows, sqlAccount{
			ID:        acc.Number(),
			FirstName: acc.FirstName(),
			LastName:  acc.LastName(),
			Balance:   acc.Balance(),
		})
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(&sqlAccount{}).Error; err != nil {
			return fmt.Errorf("delete accounts: %w", err)
		}
		if len(rows) == 0 {
			return nil
		}
		if err := tx.Create(&rows).Error; err != nil {
			return fmt.Errorf("insert accounts: %w", err)
		}
		return nil
	})
}

var _ usecase.Repository = (*Repository)(nil)
