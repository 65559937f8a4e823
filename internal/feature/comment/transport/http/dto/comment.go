// Package dto はcommentフィーチャーのHTTPトランスポート層のデータ転送オブジェクトを定義します。
package dto

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation"

	"stock_tracker/internal/feature/comment/domain/entity"
)

// CommentReq はコメントの作成・更新リクエストボディです。
type CommentReq struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// Validate checks that title and content are 5 to 280 characters.
func (r *CommentReq) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Title, validation.Required, validation.RuneLength(5, 280)),
		validation.Field(&r.Content, validation.Required, validation.RuneLength(5, 280)),
	)
}

// CommentRes はコメントのレスポンスDTOです。CreatedByは投稿者のユーザー名です。
type CommentRes struct {
	ID        uint      `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	CreatedOn time.Time `json:"createdOn"`
	CreatedBy string    `json:"createdBy"`
	StockID   uint      `json:"stockId"`
}

// FromEntity converts a comment to its response form.
func FromEntity(c *entity.Comment) CommentRes {
	return CommentRes{
		ID:        c.ID,
		Title:     c.Title,
		Content:   c.Content,
		CreatedOn: c.CreatedOn,
		CreatedBy: c.AuthorName(),
		StockID:   c.StockID,
	}
}

// FromEntities converts comments in order. The result is never nil.
func FromEntities(cs []entity.Comment) []CommentRes {
	out := make([]CommentRes, 0, len(cs))
	for i := range cs {
		out = append(out, FromEntity(&cs[i]))
	}
	return out
}
