// Package adapters はstockフィーチャーのリポジトリ実装を提供します。
package adapters

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"stock_tracker/internal/feature/stock/domain/entity"
	"stock_tracker/internal/feature/stock/usecase"
	"stock_tracker/internal/shared/query"
)

// sortColumns は sortBy クエリで指定できるキーと列の対応です。
var sortColumns = map[string]string{
	"Symbol": "symbol",
}

// scalarColumns は全置換更新の対象列です。
var scalarColumns = []string{"symbol", "company_name", "purchase", "last_div", "industry", "market_cap"}

type stockRepository struct {
	db *gorm.DB
}

var _ usecase.StockRepository = (*stockRepository)(nil)

// NewStockRepository は指定されたgorm.DB接続でstockRepositoryを生成します。
func NewStockRepository(db *gorm.DB) *stockRepository {
	return &stockRepository{db: db}
}

// withComments はコメントと投稿者を読み込みます。投稿者はIDとユーザー名のみ取得します。
func withComments(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Comments", func(tx *gorm.DB) *gorm.DB { return tx.Order("id ASC") }).
		Preload("Comments.AppUser", func(tx *gorm.DB) *gorm.DB { return tx.Select("id", "user_name") })
}

func (r *stockRepository) List(ctx context.Context, q query.StockQuery) ([]entity.Stock, error) {
	q = q.Normalize()
	var rows []entity.Stock
	err := r.db.WithContext(ctx).
		Scopes(
			withComments,
			query.Contains("company_name", q.CompanyName),
			query.Contains("symbol", q.Symbol),
			query.OrderBy(q.SortBy, q.IsDescending, sortColumns),
			query.Paginate(q.PageNumber, q.PageSize),
		).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *stockRepository) FindByID(ctx context.Context, id uint) (*entity.Stock, error) {
	var s entity.Stock
	if err := r.db.WithContext(ctx).Scopes(withComments).First(&s, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, usecase.ErrStockNotFound
		}
		return nil, err
	}
	return &s, nil
}

func (r *stockRepository) FindBySymbol(ctx context.Context, symbol string) (*entity.Stock, error) {
	var s entity.Stock
	err := r.db.WithContext(ctx).
		Scopes(withComments).
		Where("symbol = ?", symbol).
		Order("id ASC").
		First(&s).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, usecase.ErrStockNotFound
		}
		return nil, err
	}
	return &s, nil
}

func (r *stockRepository) Exists(ctx context.Context, id uint) (bool, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&entity.Stock{}).Where("id = ?", id).Count(&n).Error; err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *stockRepository) Create(ctx context.Context, s *entity.Stock) error {
	if s == nil {
		return errors.New("stock is nil")
	}
	return r.db.WithContext(ctx).Omit("Comments").Create(s).Error
}

// Update はSelectで列を明示し、ゼロ値（空のIndustry等）も書き込みます。
func (r *stockRepository) Update(ctx context.Context, id uint, f entity.Fields) (*entity.Stock, error) {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var s entity.Stock
		if err := tx.First(&s, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return usecase.ErrStockNotFound
			}
			return err
		}
		s.Apply(f)
		return tx.Model(&s).Select(scalarColumns).Updates(&s).Error
	})
	if err != nil {
		return nil, err
	}
	return r.FindByID(ctx, id)
}

func (r *stockRepository) Delete(ctx context.Context, id uint) (*entity.Stock, error) {
	var s entity.Stock
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&s, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return usecase.ErrStockNotFound
			}
			return err
		}
		return tx.Delete(&s).Error
	})
	if err != nil {
		return nil, err
	}
	return &s, nil
}
