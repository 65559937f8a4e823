// Package dto はFMP APIレスポンスのデータ転送オブジェクトを定義します。
package dto

import "github.com/shopspring/decimal"

// ProfileResponse は /profile エンドポイントが返す配列の1要素です。
type ProfileResponse struct {
	Symbol       string          `json:"symbol"`
	CompanyName  string          `json:"companyName"`
	Price        decimal.Decimal `json:"price"`
	LastDividend decimal.Decimal `json:"lastDividend"`
	Industry     string          `json:"industry"`
	MarketCap    decimal.Decimal `json:"marketCap"`
}

// ErrorResponse はAPIキー不正などの場合に返されるボディです。
type ErrorResponse struct {
	ErrorMessage string `json:"Error Message"`
}
