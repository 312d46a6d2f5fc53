package models

import "errors"

// Repository sentinels. Repositories map driver errors onto these.
var (
	ErrNotFound            = errors.New("record not found")
	ErrDuplicate           = errors.New("record already exists")
	ErrVersionConflict     = errors.New("record was modified by another request")
	ErrInsufficientBalance = errors.New("insufficient wallet balance")
)
