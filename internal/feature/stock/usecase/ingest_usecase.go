package usecase

import (
	"context"
	"errors"
	"log/slog"

	"stock_tracker/internal/feature/stock/domain/entity"
)

// ProfileFetcher は外部の市場データから銘柄のプロフィールを取得します。
// 外部 API の実装を抽象化します。
type ProfileFetcher interface {
	FetchProfile(ctx context.Context, symbol string) (*entity.Stock, error)
}

// IngestResult は取り込み結果の件数と失敗したシンボルです。
type IngestResult struct {
	Created int
	Updated int
	Failed  []string
}

// IngestUsecase は外部APIから銘柄プロフィールを取得し、データベースに登録・更新します。
type IngestUsecase struct {
	profiles ProfileFetcher
	stocks   StockRepository
}

// NewIngestUsecase は新しい IngestUsecase を作成します。
func NewIngestUsecase(profiles ProfileFetcher, stocks StockRepository) *IngestUsecase {
	return &IngestUsecase{profiles: profiles, stocks: stocks}
}

// ingestOne は1銘柄を取り込みます。登録済みの場合はスカラー項目を上書きします。
func (iu *IngestUsecase) ingestOne(ctx context.Context, symbol string) (created bool, err error) {
	fetched, err := iu.profiles.FetchProfile(ctx, symbol)
	if err != nil {
		return false, err
	}

	existing, err := iu.stocks.FindBySymbol(ctx, fetched.Symbol)
	switch {
	case err == nil:
		_, err = iu.stocks.Update(ctx, existing.ID, entity.Fields{
			Symbol:      fetched.Symbol,
			CompanyName: fetched.CompanyName,
			Purchase:    fetched.Purchase,
			LastDiv:     fetched.LastDiv,
			Industry:    fetched.Industry,
			MarketCap:   fetched.MarketCap,
		})
		return false, err
	case errors.Is(err, ErrStockNotFound):
		return true, iu.stocks.Create(ctx, fetched)
	default:
		return false, err
	}
}

// IngestAll は指定された全シンボルを取り込みます。
// 1つのシンボルで失敗しても処理を止めずに記録し、次のシンボルへ進みます。
// ctx がキャンセルされた場合は残りを処理せずに ctx のエラーを返します。
func (iu *IngestUsecase) IngestAll(ctx context.Context, symbols []string) (IngestResult, error) {
	var res IngestResult
	for _, s := range symbols {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		created, err := iu.ingestOne(ctx, s)
		if err != nil {
			slog.Error("failed to ingest stock profile", "symbol", s, "error", err)
			res.Failed = append(res.Failed, s)
			continue
		}
		if created {
			res.Created++
		} else {
			res.Updated++
		}
	}
	return res, nil
}
