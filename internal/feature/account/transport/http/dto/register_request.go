// Package dto はaccountフィーチャーのHTTPトランスポート層のデータ転送オブジェクトを定義します。
package dto

import (
	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
)

// RegisterReq は/api/account/registerのリクエストボディを表します。
type RegisterReq struct {
	UserName string `json:"username" binding:"required"`
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Validate checks field lengths and the email format.
func (r *RegisterReq) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.UserName, validation.Required, validation.Length(3, 50)),
		validation.Field(&r.Email, validation.Required, is.Email),
		validation.Field(&r.Password, validation.Required, validation.Length(8, 0)),
	)
}

// LoginReq は/api/account/loginのリクエストボディを表します。
type LoginReq struct {
	UserName string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// NewUserRes is returned by register and login.
type NewUserRes struct {
	UserName string `json:"userName"`
	Email    string `json:"email"`
	Token    string `json:"token"`
}
