package domain

import "github.com/shopspring/decimal"

// MinBalance 提款後帳戶必須保留的最低餘額
var MinBalance = decimal.NewFromInt(500)

// Account 客戶帳戶
//
// 帳號與姓名建立後不可變更，餘額只能透過 Deposit / Withdraw 改變。
// 欄位不匯出，Store 對外一律回傳值拷貝。
type Account struct {
	number    int64
	firstName string
	lastName  string
	balance   decimal.Decimal
}

// NewAccount 建立帳戶 (帳號由呼叫端分配)
func NewAccount(number int64, firstName, lastName string, balance decimal.Decimal) *Account {
	return &Account{
		number:    number,
		firstName: firstName,
		lastName:  lastName,
		balance:   balance,
	}
}

func (a Account) Number() int64            { return a.number }
func (a Account) FirstName() string        { return a.firstName }
func (a Account) LastName() string         { return a.lastName }
func (a Account) Balance() decimal.Decimal { return a.balance }

// Deposit 存款，不檢查金額正負與上限
func (a *Account) Deposit(amount decimal.Decimal) {
	a.balance = a.balance.Add(amount)
}

// Withdraw 提款
//
// 提款後餘額低於 MinBalance 時回傳 ErrInsufficientFunds，餘額不變。
func (a *Account) Withdraw(amount decimal.Decimal) error {
	if a.balance.Sub(amount).LessThan(MinBalance) {
		return ErrInsufficientFunds
	}
	a.balance = a.balance.Sub(amount)
	return nil
}
