// Package usecase はコメント操作のビジネスロジックを実装します。
package usecase

import (
	"context"
	"errors"
	"log/slog"
	"time"

	accountentity "stock_tracker/internal/feature/account/domain/entity"
	accountusecase "stock_tracker/internal/feature/account/usecase"
	"stock_tracker/internal/feature/comment/domain/entity"
)

// CommentRepository はコメントの永続化層を抽象化します。
type CommentRepository interface {
	List(ctx context.Context) ([]entity.Comment, error)
	FindByID(ctx context.Context, id uint) (*entity.Comment, error)
	// CreateForStock は銘柄の存在確認と挿入を1つのトランザクションで行います。
	// 銘柄が存在しない場合はErrStockNotFoundを返し、何も挿入しません。
	CreateForStock(ctx context.Context, c *entity.Comment) error
	// Update はタイトルと本文のみを更新します。
	Update(ctx context.Context, id uint, title, content string) (*entity.Comment, error)
	Delete(ctx context.Context, id uint) (*entity.Comment, error)
}

// UserFinder は認証済みユーザー名から投稿者を引きます。
type UserFinder interface {
	FindByUserName(ctx context.Context, userName string) (*accountentity.AppUser, error)
}

// StockCache は銘柄のキャッシュを破棄します。コメントは銘柄レスポンスに含まれるため、
// コメントの変更時に呼び出します。
type StockCache interface {
	Invalidate(ctx context.Context, stockID uint) error
}

type commentUsecase struct {
	comments CommentRepository
	users    UserFinder
	cache    StockCache
	now      func() time.Time
}

// NewCommentUsecase はcommentUsecaseを生成します。cacheはnilでも構いません。
func NewCommentUsecase(comments CommentRepository, users UserFinder, cache StockCache) *commentUsecase {
	return &commentUsecase{
		comments: comments,
		users:    users,
		cache:    cache,
		now:      time.Now,
	}
}

func (u *commentUsecase) List(ctx context.Context) ([]entity.Comment, error) {
	return u.comments.List(ctx)
}

func (u *commentUsecase) Get(ctx context.Context, id uint) (*entity.Comment, error) {
	return u.comments.FindByID(ctx, id)
}

// Create は userName を投稿者として stockID の銘柄にコメントを追加します。
func (u *commentUsecase) Create(ctx context.Context, stockID uint, userName, title, content string) (*entity.Comment, error) {
	author, err := u.author(ctx, userName)
	if err != nil {
		return nil, err
	}

	c := &entity.Comment{
		Title:     title,
		Content:   content,
		CreatedOn: u.now().UTC(),
		StockID:   stockID,
		AppUserID: author.ID,
	}
	if err := u.comments.CreateForStock(ctx, c); err != nil {
		return nil, err
	}
	c.AppUser = author
	u.invalidate(ctx, stockID)
	return c, nil
}

// Update は投稿者本人の場合のみコメントを更新します。
func (u *commentUsecase) Update(ctx context.Context, id uint, userName, title, content string) (*entity.Comment, error) {
	existing, err := u.owned(ctx, id, userName)
	if err != nil {
		return nil, err
	}
	c, err := u.comments.Update(ctx, id, title, content)
	if err != nil {
		return nil, err
	}
	u.invalidate(ctx, existing.StockID)
	return c, nil
}

// Delete は投稿者本人の場合のみコメントを削除します。
func (u *commentUsecase) Delete(ctx context.Context, id uint, userName string) error {
	existing, err := u.owned(ctx, id, userName)
	if err != nil {
		return err
	}
	if _, err := u.comments.Delete(ctx, id); err != nil {
		return err
	}
	u.invalidate(ctx, existing.StockID)
	return nil
}

func (u *commentUsecase) author(ctx context.Context, userName string) (*accountentity.AppUser, error) {
	user, err := u.users.FindByUserName(ctx, userName)
	if err != nil {
		if errors.Is(err, accountusecase.ErrUserNotFound) {
			return nil, ErrAuthorNotFound
		}
		return nil, err
	}
	return user, nil
}

// owned は存在確認を所有者確認より先に行います。他人のコメントでも存在しなければ404になります。
func (u *commentUsecase) owned(ctx context.Context, id uint, userName string) (*entity.Comment, error) {
	existing, err := u.comments.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	author, err := u.author(ctx, userName)
	if err != nil {
		return nil, err
	}
	if existing.AppUserID != author.ID {
		return nil, ErrForbidden
	}
	return existing, nil
}

func (u *commentUsecase) invalidate(ctx context.Context, stockID uint) {
	if u.cache == nil {
		return
	}
	if err := u.cache.Invalidate(ctx, stockID); err != nil {
		slog.Warn("failed to invalidate stock cache", "stock_id", stockID, "error", err)
	}
}
