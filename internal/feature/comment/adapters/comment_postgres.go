// Package adapters はcommentフィーチャーのリポジトリ実装を提供します。
package adapters

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"stock_tracker/internal/feature/comment/domain/entity"
	"stock_tracker/internal/feature/comment/usecase"
	stockentity "stock_tracker/internal/feature/stock/domain/entity"
	"stock_tracker/internal/platform/db"
)

type commentRepository struct {
	db *gorm.DB
}

var _ usecase.CommentRepository = (*commentRepository)(nil)

// NewCommentRepository は指定されたgorm.DB接続でcommentRepositoryを生成します。
func NewCommentRepository(db *gorm.DB) *commentRepository {
	return &commentRepository{db: db}
}

// withAuthor は投稿者のIDとユーザー名のみを読み込みます。
func withAuthor(db *gorm.DB) *gorm.DB {
	return db.Preload("AppUser", func(tx *gorm.DB) *gorm.DB { return tx.Select("id", "user_name") })
}

func (r *commentRepository) List(ctx context.Context) ([]entity.Comment, error) {
	var rows []entity.Comment
	if err := r.db.WithContext(ctx).Scopes(withAuthor).Order("id ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *commentRepository) FindByID(ctx context.Context, id uint) (*entity.Comment, error) {
	return findByID(r.db.WithContext(ctx), id)
}

func findByID(tx *gorm.DB, id uint) (*entity.Comment, error) {
	var c entity.Comment
	if err := tx.Scopes(withAuthor).First(&c, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, usecase.ErrCommentNotFound
		}
		return nil, err
	}
	return &c, nil
}

// CreateForStock は存在確認と挿入の間に銘柄が削除された場合も、
// 外部キー違反をErrStockNotFoundに変換して同じ結果にします。
func (r *commentRepository) CreateForStock(ctx context.Context, c *entity.Comment) error {
	if c == nil {
		return errors.New("comment is nil")
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var n int64
		if err := tx.Model(&stockentity.Stock{}).Where("id = ?", c.StockID).Count(&n).Error; err != nil {
			return err
		}
		if n == 0 {
			return usecase.ErrStockNotFound
		}
		if err := tx.Omit("AppUser").Create(c).Error; err != nil {
			if db.IsForeignKeyViolation(err) {
				return usecase.ErrStockNotFound
			}
			return err
		}
		return nil
	})
}

func (r *commentRepository) Update(ctx context.Context, id uint, title, content string) (*entity.Comment, error) {
	var out *entity.Comment
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&entity.Comment{}).Where("id = ?", id).
			Updates(map[string]any{"title": title, "content": content})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return usecase.ErrCommentNotFound
		}
		c, err := findByID(tx, id)
		if err != nil {
			return err
		}
		out = c
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *commentRepository) Delete(ctx context.Context, id uint) (*entity.Comment, error) {
	var out *entity.Comment
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		c, err := findByID(tx, id)
		if err != nil {
			return err
		}
		if err := tx.Delete(&entity.Comment{}, id).Error; err != nil {
			return err
		}
		out = c
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
