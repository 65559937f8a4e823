package dto

import (
	commentdto "stock_tracker/internal/feature/comment/transport/http/dto"
	"stock_tracker/internal/feature/stock/domain/entity"
)

// StockRes は銘柄のレスポンスDTOです。
type StockRes struct {
	ID          uint                    `json:"id"`
	Symbol      string                  `json:"symbol"`
	CompanyName string                  `json:"companyName"`
	Purchase    float64                 `json:"purchase"`
	LastDiv     float64                 `json:"lastDiv"`
	Industry    string                  `json:"industry"`
	MarketCap   int64                   `json:"marketCap"`
	Comments    []commentdto.CommentRes `json:"comments"`
}

// FromEntity converts a stock and its loaded comments.
func FromEntity(s *entity.Stock) StockRes {
	return StockRes{
		ID:          s.ID,
		Symbol:      s.Symbol,
		CompanyName: s.CompanyName,
		Purchase:    s.Purchase.InexactFloat64(),
		LastDiv:     s.LastDiv.InexactFloat64(),
		Industry:    s.Industry,
		MarketCap:   s.MarketCap,
		Comments:    commentdto.FromEntities(s.Comments),
	}
}

// FromEntities converts stocks in order. The result is never nil.
func FromEntities(ss []entity.Stock) []StockRes {
	out := make([]StockRes, 0, len(ss))
	for i := range ss {
		out = append(out, FromEntity(&ss[i]))
	}
	return out
}
