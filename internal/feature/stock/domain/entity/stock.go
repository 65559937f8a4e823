// Package entity defines the domain entities for the stock feature.
package entity

import (
	"github.com/shopspring/decimal"

	commententity "stock_tracker/internal/feature/comment/domain/entity"
)

// Stock is a tracked security.
type Stock struct {
	ID          uint            `gorm:"primaryKey"`
	Symbol      string          `gorm:"size:10;index;not null"`
	CompanyName string          `gorm:"size:100;not null"`
	Purchase    decimal.Decimal `gorm:"type:numeric(18,2);not null"`
	LastDiv     decimal.Decimal `gorm:"type:numeric(18,2);not null"`
	Industry    string          `gorm:"size:50"`
	MarketCap   int64           `gorm:"not null"`

	// Comments are populated only by queries that preload them.
	Comments []commententity.Comment `gorm:"foreignKey:StockID;constraint:OnDelete:CASCADE"`
}

// Fields holds the scalar columns replaced by a full update.
type Fields struct {
	Symbol      string
	CompanyName string
	Purchase    decimal.Decimal
	LastDiv     decimal.Decimal
	Industry    string
	MarketCap   int64
}

// Apply overwrites every scalar field of s with f.
func (s *Stock) Apply(f Fields) {
	s.Symbol = f.Symbol
	s.CompanyName = f.CompanyName
	s.Purchase = f.Purchase
	s.LastDiv = f.LastDiv
	s.Industry = f.Industry
	s.MarketCap = f.MarketCap
}
