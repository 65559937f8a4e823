// Package handler はportfolioフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"stock_tracker/internal/feature/portfolio/usecase"
	stockentity "stock_tracker/internal/feature/stock/domain/entity"
	stockdto "stock_tracker/internal/feature/stock/transport/http/dto"
	"stock_tracker/internal/platform/http/response"
	jwtmw "stock_tracker/internal/platform/jwt"
)

// PortfolioUsecase はポートフォリオ操作のユースケースインターフェースを定義します。
type PortfolioUsecase interface {
	List(ctx context.Context, userName string) ([]stockentity.Stock, error)
	Add(ctx context.Context, userName, symbol string) (*stockentity.Stock, error)
	Remove(ctx context.Context, userName, symbol string) error
}

// PortfolioHandler は /api/portfolio のHTTPリクエストを処理します。すべて認証が必要です。
type PortfolioHandler struct {
	uc PortfolioUsecase
}

func NewPortfolioHandler(uc PortfolioUsecase) *PortfolioHandler {
	return &PortfolioHandler{uc: uc}
}

// List は GET /api/portfolio を処理します。
func (h *PortfolioHandler) List(c *gin.Context) {
	userName, _ := jwtmw.UserName(c)
	stocks, err := h.uc.List(c.Request.Context(), userName)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, stockdto.FromEntities(stocks))
}

// Add は POST /api/portfolio?symbol=AAPL を処理します。
func (h *PortfolioHandler) Add(c *gin.Context) {
	symbol, ok := symbolQuery(c)
	if !ok {
		return
	}
	userName, _ := jwtmw.UserName(c)

	s, err := h.uc.Add(c.Request.Context(), userName, symbol)
	if err != nil {
		h.fail(c, err)
		return
	}
	slog.Info("portfolio entry added", "username", userName, "symbol", s.Symbol, "remote_addr", c.ClientIP())
	c.JSON(http.StatusCreated, stockdto.FromEntity(s))
}

// Remove は DELETE /api/portfolio?symbol=AAPL を処理します。
func (h *PortfolioHandler) Remove(c *gin.Context) {
	symbol, ok := symbolQuery(c)
	if !ok {
		return
	}
	userName, _ := jwtmw.UserName(c)

	if err := h.uc.Remove(c.Request.Context(), userName, symbol); err != nil {
		h.fail(c, err)
		return
	}
	slog.Info("portfolio entry removed", "username", userName, "symbol", symbol, "remote_addr", c.ClientIP())
	c.Status(http.StatusNoContent)
}

func (h *PortfolioHandler) fail(c *gin.Context, err error) {
	switch {
	case errors.Is(err, usecase.ErrStockNotFound):
		response.NotFound(c, "Stock not found")
	case errors.Is(err, usecase.ErrPortfolioNotFound):
		response.NotFound(c, "Stock not in portfolio")
	case errors.Is(err, usecase.ErrPortfolioExists):
		c.JSON(http.StatusBadRequest, response.ErrorResponse{Error: "Cannot add same stock to portfolio"})
	case errors.Is(err, usecase.ErrUserNotFound):
		c.JSON(http.StatusUnauthorized, response.ErrorResponse{Error: "unknown user"})
	default:
		slog.Error("portfolio operation failed", "error", err)
		response.Internal(c)
	}
}

func symbolQuery(c *gin.Context) (string, bool) {
	symbol := strings.TrimSpace(c.Query("symbol"))
	if symbol == "" {
		c.JSON(http.StatusBadRequest, response.ErrorResponse{
			Error:  "invalid request",
			Fields: map[string]string{"symbol": "cannot be blank"},
		})
		return "", false
	}
	return symbol, true
}
