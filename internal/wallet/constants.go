package wallet

import "errors"

const (
	ErrMsgWalletNotFound      = "wallet not found"
	ErrMsgInsufficientBalance = "insufficient balance"
	ErrMsgInvalidAmount       = "amount must not be negative"
)

var (
	ErrWalletNotFound      = errors.New(ErrMsgWalletNotFound)
	ErrInsufficientBalance = errors.New(ErrMsgInsufficientBalance)
	ErrInvalidAmount       = errors.New(ErrMsgInvalidAmount)
)
