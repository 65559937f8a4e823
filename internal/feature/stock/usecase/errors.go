package usecase

import "errors"

// ErrStockNotFound is returned when no stock has the requested id or symbol.
var ErrStockNotFound = errors.New("stock not found")
