package service

import "errors"

var (
	ErrZeroSupply  = errors.New("smart token has zero supply")
	ErrZeroReserve = errors.New("converter reserve is empty")
)
