package usecase

import "errors"

var (
	// ErrPortfolioExists is returned when the user already holds the stock.
	ErrPortfolioExists = errors.New("stock already in portfolio")

	// ErrPortfolioNotFound is returned when the user does not hold the stock.
	ErrPortfolioNotFound = errors.New("stock not in portfolio")

	// ErrStockNotFound is returned when the symbol is neither stored nor known to the profile provider.
	ErrStockNotFound = errors.New("stock not found")

	// ErrUserNotFound is returned when the authenticated user name has no account.
	ErrUserNotFound = errors.New("user not found")
)
