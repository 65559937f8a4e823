// Package handler はcommentフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"stock_tracker/internal/feature/comment/domain/entity"
	"stock_tracker/internal/feature/comment/transport/http/dto"
	"stock_tracker/internal/feature/comment/usecase"
	"stock_tracker/internal/platform/http/response"
	jwtmw "stock_tracker/internal/platform/jwt"
)

const (
	stockNotFoundMessage         = "Stock doesn't exist."
	commentNotFoundMessage       = "Comment does not exist."
	commentNotFoundDeleteMessage = "Comment does not exist!"
)

// CommentUsecase はコメント操作のユースケースインターフェースを定義します。
type CommentUsecase interface {
	List(ctx context.Context) ([]entity.Comment, error)
	Get(ctx context.Context, id uint) (*entity.Comment, error)
	Create(ctx context.Context, stockID uint, userName, title, content string) (*entity.Comment, error)
	Update(ctx context.Context, id uint, userName, title, content string) (*entity.Comment, error)
	Delete(ctx context.Context, id uint, userName string) error
}

// CommentHandler は /api/comments のHTTPリクエストを処理します。
type CommentHandler struct {
	uc CommentUsecase
}

func NewCommentHandler(uc CommentUsecase) *CommentHandler {
	return &CommentHandler{uc: uc}
}

// List は GET /api/comments を処理します。
func (h *CommentHandler) List(c *gin.Context) {
	comments, err := h.uc.List(c.Request.Context())
	if err != nil {
		slog.Error("failed to list comments", "error", err)
		response.Internal(c)
		return
	}
	c.JSON(http.StatusOK, dto.FromEntities(comments))
}

// Get は GET /api/comments/:id を処理します。
func (h *CommentHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	cm, err := h.uc.Get(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err, commentNotFoundMessage)
		return
	}
	c.JSON(http.StatusOK, dto.FromEntity(cm))
}

// Create は POST /api/comments/:stockId を処理します。
// 銘柄が存在しない場合は404 "Stock doesn't exist." を返します。
func (h *CommentHandler) Create(c *gin.Context) {
	stockID, ok := pathID(c, "stockId")
	if !ok {
		return
	}
	req, ok := bindComment(c)
	if !ok {
		return
	}
	userName, _ := jwtmw.UserName(c)

	cm, err := h.uc.Create(c.Request.Context(), stockID, userName, req.Title, req.Content)
	if err != nil {
		h.fail(c, err, commentNotFoundMessage)
		return
	}
	slog.Info("comment created", "id", cm.ID, "stock_id", stockID, "username", userName, "remote_addr", c.ClientIP())
	c.Header("Location", fmt.Sprintf("/api/comments/%d", cm.ID))
	c.JSON(http.StatusCreated, dto.FromEntity(cm))
}

// Update は PUT /api/comments/:id を処理します。
func (h *CommentHandler) Update(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	req, ok := bindComment(c)
	if !ok {
		return
	}
	userName, _ := jwtmw.UserName(c)

	cm, err := h.uc.Update(c.Request.Context(), id, userName, req.Title, req.Content)
	if err != nil {
		h.fail(c, err, commentNotFoundMessage)
		return
	}
	c.JSON(http.StatusOK, dto.FromEntity(cm))
}

// Delete は DELETE /api/comments/:id を処理し、成功時は204を返します。
func (h *CommentHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	userName, _ := jwtmw.UserName(c)

	if err := h.uc.Delete(c.Request.Context(), id, userName); err != nil {
		h.fail(c, err, commentNotFoundDeleteMessage)
		return
	}
	slog.Info("comment deleted", "id", id, "username", userName, "remote_addr", c.ClientIP())
	c.Status(http.StatusNoContent)
}

// fail はユースケースのエラーをHTTPステータスに変換します。
func (h *CommentHandler) fail(c *gin.Context, err error, notFoundMessage string) {
	switch {
	case errors.Is(err, usecase.ErrCommentNotFound):
		response.NotFound(c, notFoundMessage)
	case errors.Is(err, usecase.ErrStockNotFound):
		response.NotFound(c, stockNotFoundMessage)
	case errors.Is(err, usecase.ErrForbidden):
		slog.Warn("comment ownership check failed", "error", err, "remote_addr", c.ClientIP())
		c.JSON(http.StatusForbidden, response.ErrorResponse{Error: "forbidden"})
	case errors.Is(err, usecase.ErrAuthorNotFound):
		c.JSON(http.StatusUnauthorized, response.ErrorResponse{Error: "unknown user"})
	default:
		slog.Error("comment operation failed", "error", err)
		response.Internal(c)
	}
}

func pathID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 0)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.ErrorResponse{Error: "invalid " + name})
		return 0, false
	}
	return uint(id), true
}

func bindComment(c *gin.Context) (*dto.CommentReq, bool) {
	var req dto.CommentReq
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Warn("comment binding failed", "error", err, "remote_addr", c.ClientIP())
		c.JSON(http.StatusBadRequest, response.InvalidRequest(err))
		return nil, false
	}
	if err := req.Validate(); err != nil {
		slog.Warn("comment validation failed", "error", err, "remote_addr", c.ClientIP())
		c.JSON(http.StatusBadRequest, response.InvalidRequest(err))
		return nil, false
	}
	return &req, true
}
