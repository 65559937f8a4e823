package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	accountentity "stock_tracker/internal/feature/account/domain/entity"
	accountusecase "stock_tracker/internal/feature/account/usecase"
	"stock_tracker/internal/feature/comment/domain/entity"
)

// mockCommentRepository is a mock implementation of the CommentRepository interface.
type mockCommentRepository struct {
	ListFunc           func(ctx context.Context) ([]entity.Comment, error)
	FindByIDFunc       func(ctx context.Context, id uint) (*entity.Comment, error)
	CreateForStockFunc func(ctx context.Context, c *entity.Comment) error
	UpdateFunc         func(ctx context.Context, id uint, title, content string) (*entity.Comment, error)
	DeleteFunc         func(ctx context.Context, id uint) (*entity.Comment, error)
}

func (m *mockCommentRepository) List(ctx context.Context) ([]entity.Comment, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx)
	}
	return nil, nil
}

func (m *mockCommentRepository) FindByID(ctx context.Context, id uint) (*entity.Comment, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, id)
	}
	return nil, ErrCommentNotFound
}

func (m *mockCommentRepository) CreateForStock(ctx context.Context, c *entity.Comment) error {
	if m.CreateForStockFunc != nil {
		return m.CreateForStockFunc(ctx, c)
	}
	c.ID = 1
	return nil
}

func (m *mockCommentRepository) Update(ctx context.Context, id uint, title, content string) (*entity.Comment, error) {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, id, title, content)
	}
	return &entity.Comment{ID: id, Title: title, Content: content}, nil
}

func (m *mockCommentRepository) Delete(ctx context.Context, id uint) (*entity.Comment, error) {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	return &entity.Comment{ID: id}, nil
}

// mockUserFinder resolves "alice" and "bob"; everyone else is unknown.
type mockUserFinder struct{}

func (mockUserFinder) FindByUserName(_ context.Context, userName string) (*accountentity.AppUser, error) {
	switch userName {
	case "alice":
		return &accountentity.AppUser{ID: "id-alice", UserName: "alice"}, nil
	case "bob":
		return &accountentity.AppUser{ID: "id-bob", UserName: "bob"}, nil
	}
	return nil, accountusecase.ErrUserNotFound
}

// mockStockCache records invalidated stock ids.
type mockStockCache struct {
	invalidated []uint
	err         error
}

func (m *mockStockCache) Invalidate(_ context.Context, stockID uint) error {
	m.invalidated = append(m.invalidated, stockID)
	return m.err
}

func aliceComment(id uint) func(context.Context, uint) (*entity.Comment, error) {
	return func(context.Context, uint) (*entity.Comment, error) {
		return &entity.Comment{ID: id, StockID: 9, AppUserID: "id-alice"}, nil
	}
}

func TestCommentUsecase_Create(t *testing.T) {
	t.Parallel()

	fixed := time.Date(2024, 6, 1, 9, 0, 0, 0, time.FixedZone("JST", 9*3600))
	var stored *entity.Comment
	repo := &mockCommentRepository{CreateForStockFunc: func(_ context.Context, c *entity.Comment) error {
		c.ID = 5
		stored = c
		return nil
	}}
	cache := &mockStockCache{}
	uc := NewCommentUsecase(repo, mockUserFinder{}, cache)
	uc.now = func() time.Time { return fixed }

	c, err := uc.Create(context.Background(), 9, "alice", "title", "content")

	require.NoError(t, err)
	assert.Equal(t, uint(5), c.ID)
	assert.Equal(t, "id-alice", stored.AppUserID)
	assert.Equal(t, uint(9), stored.StockID)
	assert.Equal(t, time.UTC, c.CreatedOn.Location())
	assert.True(t, c.CreatedOn.Equal(fixed))
	assert.Equal(t, "alice", c.AuthorName())
	assert.Equal(t, []uint{9}, cache.invalidated)
}

func TestCommentUsecase_Create_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		userName    string
		create      func(ctx context.Context, c *entity.Comment) error
		expectedErr error
	}{
		{
			name:     "missing stock",
			userName: "alice",
			create: func(context.Context, *entity.Comment) error {
				return ErrStockNotFound
			},
			expectedErr: ErrStockNotFound,
		},
		{
			name:        "unknown author",
			userName:    "mallory",
			expectedErr: ErrAuthorNotFound,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cache := &mockStockCache{}
			uc := NewCommentUsecase(&mockCommentRepository{CreateForStockFunc: tt.create}, mockUserFinder{}, cache)

			c, err := uc.Create(context.Background(), 9, tt.userName, "title", "content")

			assert.ErrorIs(t, err, tt.expectedErr)
			assert.Nil(t, c)
			assert.Empty(t, cache.invalidated)
		})
	}
}

func TestCommentUsecase_Update(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name            string
		userName        string
		findByID        func(ctx context.Context, id uint) (*entity.Comment, error)
		expectedErr     error
		wantInvalidated []uint
	}{
		{
			name:            "owner updates",
			userName:        "alice",
			findByID:        aliceComment(3),
			wantInvalidated: []uint{9},
		},
		{
			name:        "other user is forbidden",
			userName:    "bob",
			findByID:    aliceComment(3),
			expectedErr: ErrForbidden,
		},
		{
			name:        "missing comment is reported before ownership",
			userName:    "bob",
			expectedErr: ErrCommentNotFound,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			updated := false
			repo := &mockCommentRepository{
				FindByIDFunc: tt.findByID,
				UpdateFunc: func(_ context.Context, id uint, title, content string) (*entity.Comment, error) {
					updated = true
					return &entity.Comment{ID: id, Title: title, Content: content}, nil
				},
			}
			cache := &mockStockCache{}

			c, err := NewCommentUsecase(repo, mockUserFinder{}, cache).
				Update(context.Background(), 3, tt.userName, "new title", "new content")

			if tt.expectedErr != nil {
				assert.ErrorIs(t, err, tt.expectedErr)
				assert.False(t, updated)
			} else {
				require.NoError(t, err)
				assert.Equal(t, "new title", c.Title)
				assert.True(t, updated)
			}
			assert.Equal(t, tt.wantInvalidated, cache.invalidated)
		})
	}
}

func TestCommentUsecase_Delete(t *testing.T) {
	t.Parallel()

	t.Run("owner deletes", func(t *testing.T) {
		t.Parallel()
		cache := &mockStockCache{}
		repo := &mockCommentRepository{FindByIDFunc: aliceComment(3)}

		err := NewCommentUsecase(repo, mockUserFinder{}, cache).Delete(context.Background(), 3, "alice")

		require.NoError(t, err)
		assert.Equal(t, []uint{9}, cache.invalidated)
	})

	t.Run("other user is forbidden", func(t *testing.T) {
		t.Parallel()
		deleted := false
		repo := &mockCommentRepository{
			FindByIDFunc: aliceComment(3),
			DeleteFunc: func(context.Context, uint) (*entity.Comment, error) {
				deleted = true
				return nil, nil
			},
		}

		err := NewCommentUsecase(repo, mockUserFinder{}, nil).Delete(context.Background(), 3, "bob")

		assert.ErrorIs(t, err, ErrForbidden)
		assert.False(t, deleted)
	})

	t.Run("cache failure does not fail the delete", func(t *testing.T) {
		t.Parallel()
		cache := &mockStockCache{err: errors.New("redis down")}
		repo := &mockCommentRepository{FindByIDFunc: aliceComment(3)}

		err := NewCommentUsecase(repo, mockUserFinder{}, cache).Delete(context.Background(), 3, "alice")

		assert.NoError(t, err)
	})
}
