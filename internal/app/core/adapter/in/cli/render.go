package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"iter"
	"strconv"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/shopspring/decimal"

	"github.com/JoeShih716/go-bank-ledger/internal/app/core/domain"
)

// Ledger CLI 需要的帳本操作，由 usecase.CoreUseCase 實作
type Ledger interface {
	OpenAccount(ctx context.Context, firstName, lastName string, initialBalance decimal.Decimal) (domain.Account, error)
	BalanceEnquiry(ctx context.Context, accountNumber int64) (domain.Account, error)
	Deposit(ctx context.Context, accountNumber int64, amount decimal.Decimal) (domain.Account, error)
	Withdraw(ctx context.Context, accountNumber int64, amount decimal.Decimal) (domain.Account, error)
	CloseAccount(ctx context.Context, accountNumber int64) (domain.Account, error)
	ShowAllAccounts(ctx context.Context) iter.Seq[domain.Account]
	History(ctx context.Context, accountNumber int64) ([]domain.Operation, error)
}

const separator = "----------------------------"

var errorColor = color.New(color.FgRed)

// PrintAccount 輸出單一帳戶的四行資料
func PrintAccount(w io.Writer, acc domain.Account) {
	fmt.Fprintf(w, "First Name: %s\n", acc.FirstName())
	fmt.Fprintf(w, "Last Name : %s\n", acc.LastName())
	fmt.Fprintf(w, "Account No: %d\n", acc.Number())
	fmt.Fprintf(w, "Balance   : %s\n", acc.Balance().String())
}

// PrintAccounts 依序輸出帳戶，每筆前加分隔線
func PrintAccounts(w io.Writer, accounts iter.Seq[domain.Account]) {
	for acc := range accounts {
		fmt.Fprintln(w, separator)
		PrintAccount(w, acc)
	}
}

func printHistory(w io.Writer, ops []domain.Operation) {
	if len(ops) == 0 {
		fmt.Fprintln(w, "No operations recorded.")
		return
	}
	for _, op := range ops {
		fmt.Fprintf(w, "%s  %-8s  %12s  %12s  %s\n",
			time.UnixMilli(op.CreatedAt).Format(time.DateTime),
			op.Type.String(),
			op.Amount.String(),
			op.Balance.String(),
			op.ID.String(),
		)
	}
}

// PrintError 以紅色輸出錯誤；餘額不足與找不到帳戶使用固定訊息
func PrintError(w io.Writer, err error) {
	msg := err.Error()
	switch {
	case errors.Is(err, domain.ErrInsufficientFunds):
		msg = "Insufficient balance to withdraw."
	case errors.Is(err, domain.ErrAccountNotFound):
		msg = "Account not found."
	}
	errorColor.Fprintf(w, "Error: %s\n", msg)
}

// ParseAccountNumber 解析正整數帳號
func ParseAccountNumber(s string) (int64, error) {
	n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil || n < 1 {
		return 0, fmt.Errorf("%w: account number %q", domain.ErrInvalidInput, s)
	}
	return n, nil
}

// ParseAmount 解析十進位金額
func ParseAmount(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: amount %q", domain.ErrInvalidInput, s)
	}
	return d, nil
}
