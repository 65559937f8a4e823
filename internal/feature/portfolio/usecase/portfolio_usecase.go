// Package usecase はポートフォリオ操作のビジネスロジックを実装します。
package usecase

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	accountentity "stock_tracker/internal/feature/account/domain/entity"
	accountusecase "stock_tracker/internal/feature/account/usecase"
	"stock_tracker/internal/feature/portfolio/domain/entity"
	stockentity "stock_tracker/internal/feature/stock/domain/entity"
	stockusecase "stock_tracker/internal/feature/stock/usecase"
)

// PortfolioRepository はポートフォリオの永続化層を抽象化します。
type PortfolioRepository interface {
	// ListStocksByUser は保有銘柄のスカラー項目のみを返します（コメントは含みません）。
	ListStocksByUser(ctx context.Context, userID string) ([]stockentity.Stock, error)
	// Create は重複時にErrPortfolioExistsを返します。
	Create(ctx context.Context, p *entity.Portfolio) error
	// DeleteBySymbol は銘柄シンボルで保有行を探して削除します。見つからない場合はErrPortfolioNotFound。
	DeleteBySymbol(ctx context.Context, userID, symbol string) (*entity.Portfolio, error)
}

// StockStore はシンボルによる銘柄の検索と、外部から取得した銘柄の保存に使います。
type StockStore interface {
	FindBySymbol(ctx context.Context, symbol string) (*stockentity.Stock, error)
	Create(ctx context.Context, s *stockentity.Stock) error
}

// UserFinder は認証済みユーザー名からユーザーを引きます。
type UserFinder interface {
	FindByUserName(ctx context.Context, userName string) (*accountentity.AppUser, error)
}

// ProfileProvider は未登録のシンボルについて外部の市場データから銘柄を組み立てます。
// 該当する銘柄がない場合はErrStockNotFoundを返します。
type ProfileProvider interface {
	FetchProfile(ctx context.Context, symbol string) (*stockentity.Stock, error)
}

type portfolioUsecase struct {
	portfolios PortfolioRepository
	stocks     StockStore
	users      UserFinder
	profiles   ProfileProvider
}

// NewPortfolioUsecase はportfolioUsecaseを生成します。
// profilesがnilの場合、未登録のシンボルはErrStockNotFoundになります。
func NewPortfolioUsecase(portfolios PortfolioRepository, stocks StockStore, users UserFinder, profiles ProfileProvider) *portfolioUsecase {
	return &portfolioUsecase{portfolios: portfolios, stocks: stocks, users: users, profiles: profiles}
}

// List はユーザーの保有銘柄を返します。
func (u *portfolioUsecase) List(ctx context.Context, userName string) ([]stockentity.Stock, error) {
	user, err := u.user(ctx, userName)
	if err != nil {
		return nil, err
	}
	return u.portfolios.ListStocksByUser(ctx, user.ID)
}

// Add はシンボルの銘柄をユーザーのポートフォリオに追加し、追加した銘柄を返します。
func (u *portfolioUsecase) Add(ctx context.Context, userName, symbol string) (*stockentity.Stock, error) {
	user, err := u.user(ctx, userName)
	if err != nil {
		return nil, err
	}

	stock, err := u.stock(ctx, strings.TrimSpace(symbol))
	if err != nil {
		return nil, err
	}

	held, err := u.portfolios.ListStocksByUser(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	for _, s := range held {
		if strings.EqualFold(s.Symbol, stock.Symbol) {
			return nil, ErrPortfolioExists
		}
	}

	if err := u.portfolios.Create(ctx, &entity.Portfolio{AppUserID: user.ID, StockID: stock.ID}); err != nil {
		return nil, err
	}
	return stock, nil
}

// Remove はシンボルの銘柄をユーザーのポートフォリオから外します。
func (u *portfolioUsecase) Remove(ctx context.Context, userName, symbol string) error {
	user, err := u.user(ctx, userName)
	if err != nil {
		return err
	}
	_, err = u.portfolios.DeleteBySymbol(ctx, user.ID, symbol)
	return err
}

func (u *portfolioUsecase) user(ctx context.Context, userName string) (*accountentity.AppUser, error) {
	user, err := u.users.FindByUserName(ctx, userName)
	if err != nil {
		if errors.Is(err, accountusecase.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

// stock は保存済みの銘柄を探し、なければ外部から取得して保存します。
func (u *portfolioUsecase) stock(ctx context.Context, symbol string) (*stockentity.Stock, error) {
	s, err := u.stocks.FindBySymbol(ctx, symbol)
	if err == nil {
		return s, nil
	}
	if !errors.Is(err, stockusecase.ErrStockNotFound) {
		return nil, err
	}
	if u.profiles == nil {
		return nil, ErrStockNotFound
	}

	fetched, err := u.profiles.FetchProfile(ctx, symbol)
	if err != nil {
		return nil, err
	}
	// 外部APIは正規化したシンボル（大文字）を返すため、保存前にそのシンボルで再検索する
	if fetched.Symbol != symbol {
		s, err := u.stocks.FindBySymbol(ctx, fetched.Symbol)
		if err == nil {
			return s, nil
		}
		if !errors.Is(err, stockusecase.ErrStockNotFound) {
			return nil, err
		}
	}
	s = fetched
	if err := u.stocks.Create(ctx, s); err != nil {
		return nil, err
	}
	slog.Info("stock imported from market data", "id", s.ID, "symbol", s.Symbol)
	return s, nil
}
