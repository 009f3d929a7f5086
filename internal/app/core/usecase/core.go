package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"iter"
	"log/slog"

	"github.com/shopspring/decimal"

	"github.com/JoeShih716/go-bank-ledger/internal/app/core/domain"
)

// CoreUseCase 是核心業務邏輯層
//
// 所有呼叫端 (CLI、gRPC) 都經由此層操作 Ledger；
// 每筆成功的異動會另外寫入 journal (若有設定)。
type CoreUseCase struct {
	ledger  Ledger
	journal Journal
	logger  *slog.Logger
}

// Option 設定 CoreUseCase 的選項
type Option func(*CoreUseCase)

// WithJournal 啟用異動紀錄
func WithJournal(j Journal) Option {
	return func(c *CoreUseCase) {
		c.journal = j
	}
}

// WithLogger 設定 logger
func WithLogger(logger *slog.Logger) Option {
	return func(c *CoreUseCase) {
		c.logger = logger
	}
}

func NewCoreUseCase(ledger Ledger, opts ...Option) *CoreUseCase {
	c := &CoreUseCase{
		ledger: ledger,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// OpenAccount 開戶
func (c *CoreUseCase) OpenAccount(ctx context.Context, firstName, lastName string, initialBalance decimal.Decimal) (domain.Account, error) {
	acc, err := c.ledger.OpenAccount(ctx, firstName, lastName, initialBalance)
	if err != nil {
		return acc, err
	}
	return acc, c.record(domain.OperationTypeOpen, acc, initialBalance)
}

// BalanceEnquiry 查詢帳戶
func (c *CoreUseCase) BalanceEnquiry(ctx context.Context, accountNumber int64) (domain.Account, error) {
	return c.ledger.BalanceEnquiry(ctx, accountNumber)
}

// Deposit 存款
func (c *CoreUseCase) Deposit(ctx context.Context, accountNumber int64, amount decimal.Decimal) (domain.Account, error) {
	acc, err := c.ledger.Deposit(ctx, accountNumber, amount)
	if err != nil {
		return acc, err
	}
	return acc, c.record(domain.OperationTypeDeposit, acc, amount)
}

// Withdraw 提款
func (c *CoreUseCase) Withdraw(ctx context.Context, accountNumber int64, amount decimal.Decimal) (domain.Account, error) {
	acc, err := c.ledger.Withdraw(ctx, accountNumber, amount)
	if err != nil {
		return acc, err
	}
	return acc, c.record(domain.OperationTypeWithdraw, acc, amount)
}

// CloseAccount 結清帳戶，回傳結清前的帳戶狀態
func (c *CoreUseCase) CloseAccount(ctx context.Context, accountNumber int64) (domain.Account, error) {
	acc, err := c.ledger.CloseAccount(ctx, accountNumber)
	if err != nil {
		return acc, err
	}
	return acc, c.record(domain.OperationTypeClose, acc, acc.Balance())
}

// ShowAllAccounts 列出所有帳戶
func (c *CoreUseCase) ShowAllAccounts(ctx context.Context) iter.Seq[domain.Account] {
	return c.ledger.ShowAllAccounts(ctx)
}

// History 回傳指定帳號的所有異動紀錄 (依寫入順序)
// 未啟用 journal 時回傳空集合
func (c *CoreUseCase) History(ctx context.Context, accountNumber int64) ([]domain.Operation, error) {
	ops := make([]domain.Operation, 0)
	if c.journal == nil {
		return ops, nil
	}
	err := c.journal.ReadAll(func(jsonRaw []byte) error {
		var op domain.Operation
		if err := json.Unmarshal(jsonRaw, &op); err != nil {
			return err
		}
		if op.AccountNumber == accountNumber {
			ops = append(ops, op)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("read journal: %w", err)
	}
	return ops, nil
}

// Close 結束前保存
func (c *CoreUseCase) Close(ctx context.Context) error {
	return c.ledger.Close(ctx)
}

// record 寫入異動紀錄；帳戶異動已經保存，失敗時僅回報錯誤
func (c *CoreUseCase) record(t domain.OperationType, acc domain.Account, amount decimal.Decimal) error {
	c.logger.Debug("account operation",
		"type", t.String(),
		"account", acc.Number(),
		"amount", amount.String(),
		"balance", acc.Balance().String(),
	)
	if c.journal == nil {
		return nil
	}
	op := domain.NewOperation(t, acc, amount)
	if err := c.journal.Append(op); err != nil {
		return fmt.Errorf("append journal: %w", err)
	}
	return nil
}
