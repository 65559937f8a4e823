// Package adapters はportfolioフィーチャーのリポジトリ実装を提供します。
package adapters

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"stock_tracker/internal/feature/portfolio/domain/entity"
	"stock_tracker/internal/feature/portfolio/usecase"
	stockentity "stock_tracker/internal/feature/stock/domain/entity"
	"stock_tracker/internal/platform/db"
)

type portfolioRepository struct {
	db *gorm.DB
}

var _ usecase.PortfolioRepository = (*portfolioRepository)(nil)

// NewPortfolioRepository は指定されたgorm.DB接続でportfolioRepositoryを生成します。
func NewPortfolioRepository(db *gorm.DB) *portfolioRepository {
	return &portfolioRepository{db: db}
}

func (r *portfolioRepository) ListStocksByUser(ctx context.Context, userID string) ([]stockentity.Stock, error) {
	var rows []stockentity.Stock
	err := r.db.WithContext(ctx).
		Table("portfolios").
		Select("stocks.id, stocks.symbol, stocks.company_name, stocks.purchase, stocks.last_div, stocks.industry, stocks.market_cap").
		Joins("JOIN stocks ON stocks.id = portfolios.stock_id").
		Where("portfolios.app_user_id = ?", userID).
		Order("stocks.id ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *portfolioRepository) Create(ctx context.Context, p *entity.Portfolio) error {
	if p == nil {
		return errors.New("portfolio is nil")
	}
	if err := r.db.WithContext(ctx).Omit("AppUser", "Stock").Create(p).Error; err != nil {
		if db.IsUniqueViolation(err) {
			return usecase.ErrPortfolioExists
		}
		return err
	}
	return nil
}

func (r *portfolioRepository) DeleteBySymbol(ctx context.Context, userID, symbol string) (*entity.Portfolio, error) {
	var p entity.Portfolio
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.
			Joins("JOIN stocks ON stocks.id = portfolios.stock_id").
			Where("portfolios.app_user_id = ? AND stocks.symbol = ?", userID, symbol).
			Take(&p).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return usecase.ErrPortfolioNotFound
			}
			return err
		}
		return tx.Where("app_user_id = ? AND stock_id = ?", p.AppUserID, p.StockID).Delete(&entity.Portfolio{}).Error
	})
	if err != nil {
		return nil, err
	}
	return &p, nil
}
