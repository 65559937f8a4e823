package adapters

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	accountentity "stock_tracker/internal/feature/account/domain/entity"
	"stock_tracker/internal/feature/portfolio/domain/entity"
	"stock_tracker/internal/feature/portfolio/usecase"
	stockentity "stock_tracker/internal/feature/stock/domain/entity"
	"stock_tracker/internal/platform/db/dbtest"
)

func seed(t *testing.T, db *gorm.DB, symbols ...string) (*accountentity.AppUser, []*stockentity.Stock) {
	t.Helper()
	u := &accountentity.AppUser{UserName: "alice", Email: "alice@example.com", PasswordHash: "hash"}
	require.NoError(t, db.Create(u).Error)

	stocks := make([]*stockentity.Stock, 0, len(symbols))
	for _, sym := range symbols {
		s := &stockentity.Stock{
			Symbol: sym, CompanyName: sym + " Corp",
			Purchase: decimal.RequireFromString("12.34"), LastDiv: decimal.NewFromInt(1), MarketCap: 10,
		}
		require.NoError(t, db.Omit("Comments").Create(s).Error)
		stocks = append(stocks, s)
	}
	return u, stocks
}

func TestPortfolioRepository_CreateAndList(t *testing.T) {
	t.Parallel()

	db := dbtest.New(t)
	u, stocks := seed(t, db, "AAPL", "MSFT", "TSLA")
	repo := NewPortfolioRepository(db)

	require.NoError(t, repo.Create(context.Background(), &entity.Portfolio{AppUserID: u.ID, StockID: stocks[2].ID}))
	require.NoError(t, repo.Create(context.Background(), &entity.Portfolio{AppUserID: u.ID, StockID: stocks[0].ID}))

	got, err := repo.ListStocksByUser(context.Background(), u.ID)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "AAPL", got[0].Symbol)
	assert.Equal(t, "TSLA", got[1].Symbol)
	assert.Equal(t, "TSLA Corp", got[1].CompanyName)
	assert.True(t, got[0].Purchase.Equal(decimal.RequireFromString("12.34")))
	assert.Empty(t, got[0].Comments)

	other, err := repo.ListStocksByUser(context.Background(), "someone-else")
	require.NoError(t, err)
	assert.Empty(t, other)
}

func TestPortfolioRepository_Create_Duplicate(t *testing.T) {
	t.Parallel()

	db := dbtest.New(t)
	u, stocks := seed(t, db, "AAPL")
	repo := NewPortfolioRepository(db)
	p := entity.Portfolio{AppUserID: u.ID, StockID: stocks[0].ID}
	require.NoError(t, repo.Create(context.Background(), &p))

	dup := p
	err := repo.Create(context.Background(), &dup)

	assert.ErrorIs(t, err, usecase.ErrPortfolioExists)
}

func TestPortfolioRepository_Create_Nil(t *testing.T) {
	t.Parallel()

	assert.Error(t, NewPortfolioRepository(dbtest.New(t)).Create(context.Background(), nil))
}

func TestPortfolioRepository_DeleteBySymbol(t *testing.T) {
	t.Parallel()

	db := dbtest.New(t)
	u, stocks := seed(t, db, "AAPL", "MSFT")
	repo := NewPortfolioRepository(db)
	for _, s := range stocks {
		require.NoError(t, repo.Create(context.Background(), &entity.Portfolio{AppUserID: u.ID, StockID: s.ID}))
	}

	deleted, err := repo.DeleteBySymbol(context.Background(), u.ID, "AAPL")
	require.NoError(t, err)
	assert.Equal(t, stocks[0].ID, deleted.StockID)

	got, err := repo.ListStocksByUser(context.Background(), u.ID)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "MSFT", got[0].Symbol)

	_, err = repo.DeleteBySymbol(context.Background(), u.ID, "AAPL")
	assert.ErrorIs(t, err, usecase.ErrPortfolioNotFound)

	// 銘柄自体は削除されない
	var n int64
	require.NoError(t, db.Model(&stockentity.Stock{}).Count(&n).Error)
	assert.Equal(t, int64(2), n)
}
