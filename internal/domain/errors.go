package domain

import "errors"

var (
	// ErrNotFound indicates the requested entity was not found.
	ErrNotFound = errors.New("not found")
	// ErrConflict indicates the entity already exists.
	ErrConflict = errors.New("already exists")
	// ErrOutOfStock indicates the requested quantity exceeds available stock.
	ErrOutOfStock = errors.New("out of stock")
)
