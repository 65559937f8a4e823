// Package handler はstockフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"stock_tracker/internal/feature/stock/domain/entity"
	"stock_tracker/internal/feature/stock/transport/http/dto"
	"stock_tracker/internal/feature/stock/usecase"
	"stock_tracker/internal/platform/http/response"
	"stock_tracker/internal/shared/query"
)

const stockNotFoundMessage = "Stock doesn't exist."

// StockUsecase は銘柄操作のユースケースインターフェースを定義します。
// Goの慣例に従い、インターフェースは利用者（handler）側で定義します。
type StockUsecase interface {
	List(ctx context.Context, q query.StockQuery) ([]entity.Stock, error)
	Get(ctx context.Context, id uint) (*entity.Stock, error)
	Create(ctx context.Context, f entity.Fields) (*entity.Stock, error)
	Update(ctx context.Context, id uint, f entity.Fields) (*entity.Stock, error)
	Delete(ctx context.Context, id uint) error
}

// StockHandler は /api/stock のHTTPリクエストを処理します。
type StockHandler struct {
	uc StockUsecase
}

// NewStockHandler は指定されたusecaseでStockHandlerを生成します。
func NewStockHandler(uc StockUsecase) *StockHandler {
	return &StockHandler{uc: uc}
}

// List は銘柄一覧を返します。
//
// エンドポイント例:
// GET /api/stock?companyName=Apple&sortBy=Symbol&isDescending=true&pageNumber=1&pageSize=20
func (h *StockHandler) List(c *gin.Context) {
	var q dto.ListStocksQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		slog.Warn("invalid stock query", "error", err, "remote_addr", c.ClientIP())
		c.JSON(http.StatusBadRequest, response.InvalidRequest(err))
		return
	}

	stocks, err := h.uc.List(c.Request.Context(), query.StockQuery{
		CompanyName:  q.CompanyName,
		Symbol:       q.Symbol,
		SortBy:       q.SortBy,
		IsDescending: q.IsDescending,
		PageNumber:   q.PageNumber,
		PageSize:     q.PageSize,
	})
	if err != nil {
		slog.Error("failed to list stocks", "error", err)
		response.Internal(c)
		return
	}
	c.JSON(http.StatusOK, dto.FromEntities(stocks))
}

// Get は GET /api/stock/:stockId を処理します。
func (h *StockHandler) Get(c *gin.Context) {
	id, ok := stockID(c)
	if !ok {
		return
	}
	s, err := h.uc.Get(c.Request.Context(), id)
	if err != nil {
		h.fail(c, "get", id, err)
		return
	}
	c.JSON(http.StatusOK, dto.FromEntity(s))
}

// Create は POST /api/stock を処理し、201とLocationヘッダーを返します。
func (h *StockHandler) Create(c *gin.Context) {
	req, ok := bindStock(c)
	if !ok {
		return
	}
	s, err := h.uc.Create(c.Request.Context(), req.Fields())
	if err != nil {
		slog.Error("failed to create stock", "error", err, "symbol", req.Symbol)
		response.Internal(c)
		return
	}
	slog.Info("stock created", "id", s.ID, "symbol", s.Symbol, "remote_addr", c.ClientIP())
	c.Header("Location", fmt.Sprintf("/api/stock/%d", s.ID))
	c.JSON(http.StatusCreated, dto.FromEntity(s))
}

// Update は PUT /api/stock/:stockId を処理します。
func (h *StockHandler) Update(c *gin.Context) {
	id, ok := stockID(c)
	if !ok {
		return
	}
	req, ok := bindStock(c)
	if !ok {
		return
	}
	s, err := h.uc.Update(c.Request.Context(), id, req.Fields())
	if err != nil {
		h.fail(c, "update", id, err)
		return
	}
	c.JSON(http.StatusOK, dto.FromEntity(s))
}

// Delete は DELETE /api/stock/:stockId を処理し、成功時は204を返します。
func (h *StockHandler) Delete(c *gin.Context) {
	id, ok := stockID(c)
	if !ok {
		return
	}
	if err := h.uc.Delete(c.Request.Context(), id); err != nil {
		h.fail(c, "delete", id, err)
		return
	}
	slog.Info("stock deleted", "id", id, "remote_addr", c.ClientIP())
	c.Status(http.StatusNoContent)
}

func (h *StockHandler) fail(c *gin.Context, op string, id uint, err error) {
	if errors.Is(err, usecase.ErrStockNotFound) {
		response.NotFound(c, stockNotFoundMessage)
		return
	}
	slog.Error("stock operation failed", "op", op, "id", id, "error", err)
	response.Internal(c)
}

// stockID はパスパラメータを符号なし整数として解釈します。失敗時は400を書き込みます。
func stockID(c *gin.Context) (uint, bool) {
	raw := c.Param("stockId")
	id, err := strconv.ParseUint(raw, 10, 0)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.ErrorResponse{Error: "invalid stock id"})
		return 0, false
	}
	return uint(id), true
}

func bindStock(c *gin.Context) (*dto.StockReq, bool) {
	var req dto.StockReq
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Warn("stock binding failed", "error", err, "remote_addr", c.ClientIP())
		c.JSON(http.StatusBadRequest, response.InvalidRequest(err))
		return nil, false
	}
	if err := req.Validate(); err != nil {
		slog.Warn("stock validation failed", "error", err, "remote_addr", c.ClientIP())
		c.JSON(http.StatusBadRequest, response.InvalidRequest(err))
		return nil, false
	}
	return &req, true
}
