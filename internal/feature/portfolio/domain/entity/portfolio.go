// Package entity defines the domain entities for the portfolio feature.
package entity

import (
	accountentity "stock_tracker/internal/feature/account/domain/entity"
	stockentity "stock_tracker/internal/feature/stock/domain/entity"
)

// Portfolio is a user's holding of one stock. The (AppUserID, StockID) pair is its identity.
type Portfolio struct {
	AppUserID string `gorm:"primaryKey;size:36"`
	StockID   uint   `gorm:"primaryKey"`

	AppUser *accountentity.AppUser `gorm:"foreignKey:AppUserID;constraint:OnDelete:CASCADE"`
	Stock   *stockentity.Stock     `gorm:"foreignKey:StockID;constraint:OnDelete:CASCADE"`
}
