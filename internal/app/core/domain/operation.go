package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OperationType 帳戶異動類型
type OperationType uint8

const (
	// 開戶
	OperationTypeOpen OperationType = 1
	// 存款
	OperationTypeDeposit OperationType = 2
	// 提款
	OperationTypeWithdraw OperationType = 3
	// 結清
	OperationTypeClose OperationType = 4
)

func (t OperationType) String() string {
	switch t {
	case OperationTypeOpen:
		return "open"
	case OperationTypeDeposit:
		return "deposit"
	case OperationTypeWithdraw:
		return "withdraw"
	case OperationTypeClose:
		return "close"
	default:
		return "unknown"
	}
}

// Operation 一筆成功的帳戶異動，寫入 journal 供查詢歷史
type Operation struct {
	// ID: 追蹤號 (UUID)
	ID uuid.UUID `json:"id"`
	// AccountNumber: 帳號
	AccountNumber int64 `json:"account_number"`
	// Amount: 異動金額 (開戶為初始餘額，結清為結清時餘額)
	Amount decimal.Decimal `json:"amount"`
	// Balance: 異動後餘額
	Balance decimal.Decimal `json:"balance"`
	// CreatedAt: 異動時間 (unix milli)
	CreatedAt int64 `json:"created_at"`
	// Type: 異動類型
	Type OperationType `json:"type"`
}

// NewOperation 以新的 UUID 與當前時間建立 Operation
func NewOperation(t OperationType, acc Account, amount decimal.Decimal) Operation {
	return Operation{
		ID:            uuid.New(),
		AccountNumber: acc.Number(),
		Amount:        amount,
		Balance:       acc.Balance(),
		CreatedAt:     time.Now().UnixMilli(),
		Type:          t,
	}
}
