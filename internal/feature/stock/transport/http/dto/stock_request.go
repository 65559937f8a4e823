// Package dto はstockフィーチャーのHTTPトランスポート層のデータ転送オブジェクトを定義します。
package dto

import (
	"fmt"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/shopspring/decimal"

	"stock_tracker/internal/feature/stock/domain/entity"
)

const (
	maxMarketCap int64 = 5_000_000_000_000
	// priceScale は numeric(18,2) 列の小数桁数です。
	priceScale int32 = 2
)

var (
	minPurchase = decimal.NewFromInt(1)
	maxPurchase = decimal.NewFromInt(1_000_000_000)
	minLastDiv  = decimal.RequireFromString("0.01")
	maxLastDiv  = decimal.NewFromInt(100)
)

// StockReq は銘柄の作成・更新リクエストボディです。
// purchase と lastDiv は数値・文字列どちらのJSONも受け付けます。
type StockReq struct {
	Symbol      string          `json:"symbol"`
	CompanyName string          `json:"companyName"`
	Purchase    decimal.Decimal `json:"purchase"`
	LastDiv     decimal.Decimal `json:"lastDiv"`
	Industry    string          `json:"industry"`
	MarketCap   int64           `json:"marketCap"`
}

// Validate checks required fields and numeric ranges.
func (r *StockReq) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Symbol, validation.Required, validation.RuneLength(1, 10)),
		validation.Field(&r.CompanyName, validation.Required, validation.RuneLength(1, 100)),
		validation.Field(&r.Purchase, validation.By(decimalBetween(minPurchase, maxPurchase)), validation.By(maxDecimalPlaces(priceScale))),
		validation.Field(&r.LastDiv, validation.By(decimalBetween(minLastDiv, maxLastDiv)), validation.By(maxDecimalPlaces(priceScale))),
		validation.Field(&r.Industry, validation.RuneLength(0, 50)),
		validation.Field(&r.MarketCap, validation.Required, validation.Min(int64(1)), validation.Max(maxMarketCap)),
	)
}

// Fields converts the request into the scalar fields of a stock.
func (r *StockReq) Fields() entity.Fields {
	return entity.Fields{
		Symbol:      r.Symbol,
		CompanyName: r.CompanyName,
		Purchase:    r.Purchase,
		LastDiv:     r.LastDiv,
		Industry:    r.Industry,
		MarketCap:   r.MarketCap,
	}
}

func decimalBetween(lo, hi decimal.Decimal) validation.RuleFunc {
	return func(value interface{}) error {
		d, ok := value.(decimal.Decimal)
		if !ok {
			return fmt.Errorf("must be a number")
		}
		if d.LessThan(lo) || d.GreaterThan(hi) {
			return fmt.Errorf("must be between %s and %s", lo.String(), hi.String())
		}
		return nil
	}
}

// maxDecimalPlaces は列に保存できない桁を持つ値を拒否します。
// DB側で黙って丸められるのを防ぐため、150.125 のような値はエラーにします。
func maxDecimalPlaces(places int32) validation.RuleFunc {
	return func(value interface{}) error {
		d, ok := value.(decimal.Decimal)
		if !ok {
			return fmt.Errorf("must be a number")
		}
		if !d.Equal(d.Truncate(places)) {
			return fmt.Errorf("must have at most %d decimal places", places)
		}
		return nil
	}
}

// ListStocksQuery は GET /api/stock のクエリパラメータです。
type ListStocksQuery struct {
	CompanyName  string `form:"companyName"`
	Symbol       string `form:"symbol"`
	SortBy       string `form:"sortBy"`
	IsDescending bool   `form:"isDescending"`
	PageNumber   int    `form:"pageNumber"`
	PageSize     int    `form:"pageSize"`
}
