package memory

import (
	"context"
	"fmt"
	"iter"
	"log/slog"
	"math"
	"slices"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/JoeShih716/go-bank-ledger/internal/app/core/domain"
	"github.com/JoeShih716/go-bank-ledger/internal/app/core/usecase"
)

// AccountStore 持有所有帳戶的記憶體帳本
//
// 結構:
//
//	accounts: 帳號 -> 帳戶
//	lastNumber: 最後分配的帳號，只增不減
//	repo: 快照持久化，每次異動後整批覆寫
//	mu: 保護 accounts 與 lastNumber
type AccountStore struct {
	accounts   map[int64]*domain.Account
	lastNumber int64
	repo       usecase.Repository
	mu         sync.Mutex
	logger     *slog.Logger
}

// NewAccountStore 從 repo 載入帳戶並建立 AccountStore
//
// 參數:
//
//	ctx: 上下文
//	repo: 帳戶快照持久化
//	logger: 可為 nil，預設 slog.Default()
//
// 回傳:
//
//	*AccountStore: AccountStore 實例
//	error: 載入錯誤 (如資料格式錯誤)
func NewAccountStore(ctx context.Context, repo usecase.Repository, logger *slog.Logger) (*AccountStore, error) {
	if logger == nil {
		logger = slog.Default()
	}
	s := &AccountStore{
		accounts: make(map[int64]*domain.Account),
		repo:     repo,
		logger:   logger,
	}
	if err := s.load(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

// load 載入所有帳戶，並以最大帳號作為計數器起點
// 只有 NewAccountStore 呼叫，無需 Lock
func (s *AccountStore) load(ctx context.Context) error {
	accounts, err := s.repo.LoadAll(ctx)
	if err != nil {
		return fmt.Errorf("load accounts: %w", err)
	}
	for _, acc := range accounts {
		s.accounts[acc.Number()] = domain.NewAccount(acc.Number(), acc.FirstName(), acc.LastName(), acc.Balance())
		s.lastNumber = max(s.lastNumber, acc.Number())
	}
	s.logger.Info("accounts loaded", "count", len(s.accounts), "last_number", s.lastNumber)
	return nil
}

// LastNumber 回傳最後分配的帳號
func (s *AccountStore) LastNumber() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastNumber
}

// Len 目前的帳戶數
func (s *AccountStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.accounts)
}

// OpenAccount 分配下一個帳號並建立帳戶
func (s *AccountStore) OpenAccount(ctx context.Context, firstName, lastName string, initialBalance decimal.Decimal) (domain.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.lastNumber == math.MaxInt64 {
		return domain.Account{}, domain.ErrAccountNumbersExhausted
	}
	s.lastNumber++
	acc := domain.NewAccount(s.lastNumber, firstName, lastName, initialBalance)
	s.accounts[acc.Number()] = acc

	return *acc, s.saveAllLocked(ctx)
}

// BalanceEnquiry 查詢帳戶
func (s *AccountStore) BalanceEnquiry(ctx context.Context, accountNumber int64) (domain.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	acc, ok := s.accounts[accountNumber]
	if !ok {
		return domain.Account{}, domain.ErrAccountNotFound
	}
	return *acc, nil
}

// Deposit 存款
func (s *AccountStore) Deposit(ctx context.Context, accountNumber int64, amount decimal.Decimal) (domain.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	acc, ok := s.accounts[accountNumber]
	if !ok {
		return domain.Account{}, domain.ErrAccountNotFound
	}
	acc.Deposit(amount)
	return *acc, s.saveAllLocked(ctx)
}

// Withdraw 提款，餘額不足時帳戶不變且不寫檔
func (s *AccountStore) Withdraw(ctx context.Context, accountNumber int64, amount decimal.Decimal) (domain.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	acc, ok := s.accounts[accountNumber]
	if !ok {
		return domain.Account{}, domain.ErrAccountNotFound
	}
	if err := acc.Withdraw(amount); err != nil {
		return *acc, err
	}
	return *acc, s.saveAllLocked(ctx)
}

// CloseAccount 刪除帳戶，回傳刪除前的最後狀態
func (s *AccountStore) CloseAccount(ctx context.Context, accountNumber int64) (domain.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	acc, ok := s.accounts[accountNumber]
	if !ok {
		return domain.Account{}, domain.ErrAccountNotFound
	}
	delete(s.accounts, accountNumber)
	return *acc, s.saveAllLocked(ctx)
}

// ShowAllAccounts 依帳號遞增順序列出帳戶
// 每次迭代重新取快照，可重複使用
func (s *AccountStore) ShowAllAccounts(ctx context.Context) iter.Seq[domain.Account] {
	return func(yield func(domain.Account) bool) {
		for _, acc := range s.snapshot() {
			if !yield(acc) {
				return
			}
		}
	}
}

// SaveAll 將所有帳戶整批覆寫至 repo
func (s *AccountStore) SaveAll(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saveAllLocked(ctx)
}

// Close 結束前保存
func (s *AccountStore) Close(ctx context.Context) error {
	return s.SaveAll(ctx)
}

func (s *AccountStore) saveAllLocked(ctx context.Context) error {
	if err := s.repo.SaveAll(ctx, s.sortedLocked()); err != nil {
		s.logger.Error("save accounts failed", "error", err)
		return fmt.Errorf("save accounts: %w", err)
	}
	return nil
}

func (s *AccountStore) snapshot() []domain.Account {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sortedLocked()
}

// sortedLocked 回傳依帳號排序的值拷貝
func (s *AccountStore) sortedLocked() []domain.Account {
	numbers := make([]int64, 0, len(s.accounts))
	for n := range s.accounts {
		numbers = append(numbers, n)
	}
	slices.Sort(numbers)

	out := make([]domain.Account, 0, len(numbers))
	for _, n := range numbers {
		out = append(out, *s.accounts[n])
	}
	return out
}

var _ usecase.Ledger = (*AccountStore)(nil)
