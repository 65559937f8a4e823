// Package usecase は銘柄（Stock）操作のビジネスロジックを実装します。
package usecase

import (
	"context"

	"stock_tracker/internal/feature/stock/domain/entity"
	"stock_tracker/internal/shared/query"
)

// StockRepository は銘柄データの永続化層を抽象化します。
// Goの慣例に従い、インターフェースは利用者（usecase）側で定義します。
type StockRepository interface {
	// List はフィルタ・ソート・ページングを適用した銘柄一覧をコメント付きで返します。
	List(ctx context.Context, q query.StockQuery) ([]entity.Stock, error)
	// FindByID は銘柄をコメントと投稿者付きで返します。存在しない場合はErrStockNotFound。
	FindByID(ctx context.Context, id uint) (*entity.Stock, error)
	// FindBySymbol はシンボルが完全一致する銘柄を返します。存在しない場合はErrStockNotFound。
	FindBySymbol(ctx context.Context, symbol string) (*entity.Stock, error)
	Exists(ctx context.Context, id uint) (bool, error)
	Create(ctx context.Context, s *entity.Stock) error
	// Update は6つのスカラー項目をすべて置き換えます。
	Update(ctx context.Context, id uint, f entity.Fields) (*entity.Stock, error)
	// Delete は削除した行を返します。関連するコメントとポートフォリオも削除されます。
	Delete(ctx context.Context, id uint) (*entity.Stock, error)
}

// stockUsecase は銘柄操作のユースケースを定義します。
type stockUsecase struct {
	stocks StockRepository
}

// NewStockUsecase はstockUsecaseの新しいインスタンスを生成します。
func NewStockUsecase(stocks StockRepository) *stockUsecase {
	return &stockUsecase{stocks: stocks}
}

// List はページ番号とページサイズを正規化してから銘柄一覧を取得します。
func (u *stockUsecase) List(ctx context.Context, q query.StockQuery) ([]entity.Stock, error) {
	return u.stocks.List(ctx, q.Normalize())
}

// Get は指定IDの銘柄を取得します。
func (u *stockUsecase) Get(ctx context.Context, id uint) (*entity.Stock, error) {
	return u.stocks.FindByID(ctx, id)
}

// Create は新しい銘柄を登録します。作成直後の銘柄にコメントはありません。
func (u *stockUsecase) Create(ctx context.Context, f entity.Fields) (*entity.Stock, error) {
	s := &entity.Stock{}
	s.Apply(f)
	if err := u.stocks.Create(ctx, s); err != nil {
		return nil, err
	}
	return s, nil
}

// Update は銘柄のスカラー項目を置き換え、更新後の銘柄を返します。
func (u *stockUsecase) Update(ctx context.Context, id uint, f entity.Fields) (*entity.Stock, error) {
	return u.stocks.Update(ctx, id, f)
}

// Delete は銘柄を削除します。
func (u *stockUsecase) Delete(ctx context.Context, id uint) error {
	_, err := u.stocks.Delete(ctx, id)
	return err
}
