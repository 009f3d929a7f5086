package domain

import "errors"

var (
	// ErrInsufficientFunds 提款後餘額將低於最低餘額
	ErrInsufficientFunds = errors.New("insufficient balance to withdraw")

	// ErrAccountNotFound 找不到帳戶
	ErrAccountNotFound = errors.New("account not found")

	// ErrAccountNumbersExhausted 帳號已達 int64 上限，無法再開戶
	ErrAccountNumbersExhausted = errors.New("account numbers exhausted")

	// ErrMalformedRecord 帳戶資料檔格式錯誤
	ErrMalformedRecord = errors.New("malformed account record")

	// ErrInvalidInput 輸入參數無法解析 (帳號、金額)
	ErrInvalidInput = errors.New("invalid input")
)
