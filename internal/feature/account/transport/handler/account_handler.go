// Package handler はaccountフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"stock_tracker/internal/feature/account/transport/http/dto"
	"stock_tracker/internal/feature/account/usecase"
	"stock_tracker/internal/platform/http/response"
)

// AccountUsecase はアカウント操作のユースケースを定義します。
// インターフェースはプロバイダー（usecase）ではなくコンシューマー（handler）が定義します。
type AccountUsecase interface {
	Register(ctx context.Context, userName, email, password string) (*usecase.Session, error)
	Login(ctx context.Context, userName, password string) (*usecase.Session, error)
}

// AccountHandler はアカウント操作のHTTPリクエストを処理します。
type AccountHandler struct {
	accounts AccountUsecase
}

// NewAccountHandler はAccountHandlerの新しいインスタンスを生成します。
func NewAccountHandler(accounts AccountUsecase) *AccountHandler {
	return &AccountHandler{accounts: accounts}
}

// Register はユーザー登録APIエンドポイントを処理します。
// - バリデーションエラー時は400を返却
// - ユーザー名/メール重複時は409を返却
// - 成功時はトークン付きで201を返却
func (h *AccountHandler) Register(c *gin.Context) {
	var req dto.RegisterReq
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Warn("register binding failed", "error", err, "remote_addr", c.ClientIP())
		c.JSON(http.StatusBadRequest, response.InvalidRequest(err))
		return
	}
	if err := req.Validate(); err != nil {
		slog.Warn("register validation failed", "error", err, "remote_addr", c.ClientIP())
		c.JSON(http.StatusBadRequest, response.InvalidRequest(err))
		return
	}

	s, err := h.accounts.Register(c.Request.Context(), req.UserName, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, usecase.ErrUserAlreadyExists) {
			slog.Warn("register conflict", "username", req.UserName, "remote_addr", c.ClientIP())
			c.JSON(http.StatusConflict, response.ErrorResponse{Error: "user already exists"})
			return
		}
		slog.Error("register failed", "error", err, "remote_addr", c.ClientIP())
		response.Internal(c)
		return
	}
	slog.Info("user registered", "username", s.UserName, "remote_addr", c.ClientIP())
	c.JSON(http.StatusCreated, dto.NewUserRes{UserName: s.UserName, Email: s.Email, Token: s.Token})
}

// Login はユーザーログインAPIエンドポイントを処理します。
// 認証失敗時は理由を区別せず401を返却します。
func (h *AccountHandler) Login(c *gin.Context) {
	var req dto.LoginReq
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Warn("login validation failed", "error", err, "remote_addr", c.ClientIP())
		c.JSON(http.StatusBadRequest, response.InvalidRequest(err))
		return
	}

	s, err := h.accounts.Login(c.Request.Context(), req.UserName, req.Password)
	if err != nil {
		if errors.Is(err, usecase.ErrInvalidCredentials) {
			slog.Warn("login failed", "username", req.UserName, "remote_addr", c.ClientIP())
			c.JSON(http.StatusUnauthorized, response.ErrorResponse{Error: "invalid user name or password"})
			return
		}
		slog.Error("login failed", "error", err, "remote_addr", c.ClientIP())
		response.Internal(c)
		return
	}
	slog.Info("user login successful", "username", s.UserName, "remote_addr", c.ClientIP())
	c.JSON(http.StatusOK, dto.NewUserRes{UserName: s.UserName, Email: s.Email, Token: s.Token})
}
