// Package entity defines the domain entities for the comment feature.
package entity

import (
	"time"

	accountentity "stock_tracker/internal/feature/account/domain/entity"
)

// Comment is a user's note on a stock.
// StockID and AppUserID are required foreign keys.
type Comment struct {
	ID        uint      `gorm:"primaryKey"`
	Title     string    `gorm:"size:280;not null"`
	Content   string    `gorm:"size:280;not null"`
	CreatedOn time.Time `gorm:"not null"`
	StockID   uint      `gorm:"index;not null"`
	AppUserID string    `gorm:"size:36;index;not null"`

	// AppUser is the author, populated only by queries that preload it.
	AppUser *accountentity.AppUser `gorm:"foreignKey:AppUserID;constraint:OnDelete:CASCADE"`
}

// AuthorName returns the author's user name, or "" when the author was not loaded.
func (c *Comment) AuthorName() string {
	if c.AppUser == nil {
		return ""
	}
	return c.AppUser.UserName
}
