package usecase

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"stock_tracker/internal/feature/account/domain/entity"
)

const (
	// minPasswordLength はパスワードの最低文字数を定義します。
	minPasswordLength = 8

	// dummyHash はユーザーが存在しない場合にも比較処理を実行するためのハッシュです。
	dummyHash = "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"
)

// UserRepository はユーザーエンティティの永続化層を抽象化します。
// インターフェースはプロバイダー（adapters）ではなくコンシューマー（usecase）が定義します。
type UserRepository interface {
	// Create は新しいユーザーを永続化します。
	// ユーザー名またはメールアドレスが重複する場合、ErrUserAlreadyExistsを返します。
	Create(ctx context.Context, user *entity.AppUser) error

	// FindByUserName はユーザー名に一致するユーザーを取得します。
	FindByUserName(ctx context.Context, userName string) (*entity.AppUser, error)
}

// TokenGenerator はアクセストークン生成のインターフェースを定義します。
type TokenGenerator interface {
	GenerateToken(userID, userName string) (string, error)
}

// Session is what a successful register or login hands back to the client.
type Session struct {
	UserName string
	Email    string
	Token    string
}

// accountUsecase はアカウント登録とログインを実装します。
type accountUsecase struct {
	users  UserRepository
	tokens TokenGenerator
	cost   int
}

// NewAccountUsecase はaccountUsecaseの新しいインスタンスを生成します。
func NewAccountUsecase(users UserRepository, tokens TokenGenerator) *accountUsecase {
	return &accountUsecase{users: users, tokens: tokens, cost: bcrypt.DefaultCost}
}

// Register はハッシュ化されたパスワードで新規ユーザーを登録し、アクセストークンを返します。
func (u *accountUsecase) Register(ctx context.Context, userName, email, password string) (*Session, error) {
	if len(password) < minPasswordLength {
		return nil, fmt.Errorf("password must be at least %d characters long", minPasswordLength)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), u.cost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &entity.AppUser{UserName: userName, Email: email, PasswordHash: string(hashed)}
	if err := u.users.Create(ctx, user); err != nil {
		return nil, err
	}
	return u.session(user)
}

// Login はユーザーを認証し、成功時にアクセストークンを返します。
// ユーザーが存在しない場合でもbcrypt比較を実行し、応答時間からユーザーの有無が推測されないようにします。
func (u *accountUsecase) Login(ctx context.Context, userName, password string) (*Session, error) {
	user, err := u.users.FindByUserName(ctx, userName)
	if err != nil && !errors.Is(err, ErrUserNotFound) {
		return nil, err
	}

	passwordHash := dummyHash
	if err == nil {
		passwordHash = user.PasswordHash
	}
	compareErr := bcrypt.CompareHashAndPassword([]byte(passwordHash), []byte(password))
	if err != nil || compareErr != nil {
		return nil, ErrInvalidCredentials
	}

	return u.session(user)
}

func (u *accountUsecase) session(user *entity.AppUser) (*Session, error) {
	token, err := u.tokens.GenerateToken(user.ID, user.UserName)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}
	return &Session{UserName: user.UserName, Email: user.Email, Token: token}, nil
}
