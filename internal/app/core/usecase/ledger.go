package usecase

import (
	"context"
	"iter"

	"github.com/shopspring/decimal"

	"github.com/JoeShih716/go-bank-ledger/internal/app/core/domain"
)

// Ledger 是帳務系統的介面
type Ledger interface {
	// OpenAccount 開戶，分配下一個帳號
	OpenAccount(ctx context.Context, firstName, lastName string, initialBalance decimal.Decimal) (domain.Account, error)
	// BalanceEnquiry 查詢帳戶
	BalanceEnquiry(ctx context.Context, accountNumber int64) (domain.Account, error)
	// Deposit 存款
	Deposit(ctx context.Context, accountNumber int64, amount decimal.Decimal) (domain.Account, error)
	// Withdraw 提款
	Withdraw(ctx context.Context, accountNumber int64, amount decimal.Decimal) (domain.Account, error)
	// CloseAccount 結清帳戶，回傳刪除前的最後狀態
	CloseAccount(ctx context.Context, accountNumber int64) (domain.Account, error)
	// ShowAllAccounts 依帳號遞增順序列出所有帳戶
	ShowAllAccounts(ctx context.Context) iter.Seq[domain.Account]
	// Close 結束前保存所有帳戶
	Close(ctx context.Context) error
}

// Repository 帳戶快照的持久化介面
type Repository interface {
	// LoadAll 載入所有帳戶，資料不存在時回傳空集合
	LoadAll(ctx context.Context) ([]domain.Account, error)
	// SaveAll 以快照覆寫所有帳戶
	SaveAll(ctx context.Context, accounts []domain.Account) error
}

// Journal 帳戶異動紀錄
type Journal interface {
	Append(v any) error
	ReadAll(callback func(jsonRaw []byte) error) error
}
