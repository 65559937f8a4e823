package router

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	accountadapters "stock_tracker/internal/feature/account/adapters"
	accounthandler "stock_tracker/internal/feature/account/transport/handler"
	accountusecase "stock_tracker/internal/feature/account/usecase"
	commentadapters "stock_tracker/internal/feature/comment/adapters"
	commenthandler "stock_tracker/internal/feature/comment/transport/handler"
	commentusecase "stock_tracker/internal/feature/comment/usecase"
	portfolioadapters "stock_tracker/internal/feature/portfolio/adapters"
	portfoliohandler "stock_tracker/internal/feature/portfolio/transport/handler"
	portfoliousecase "stock_tracker/internal/feature/portfolio/usecase"
	stockadapters "stock_tracker/internal/feature/stock/adapters"
	stockhandler "stock_tracker/internal/feature/stock/transport/handler"
	stockusecase "stock_tracker/internal/feature/stock/usecase"
	"stock_tracker/internal/platform/db/dbtest"
	infrahandler "stock_tracker/internal/platform/http/handler"
	jwtmw "stock_tracker/internal/platform/jwt"
)

const testSecret = "router-test-secret"

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

// newTestRouter はインメモリDBに接続した本番同様のルーターを組み立てます。
func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	db := dbtest.New(t)

	users := accountadapters.NewUserRepository(db)
	stocks := stockadapters.NewStockRepository(db)

	return NewRouter(Options{JWTSecret: testSecret, AllowedOrigins: []string{"*"}}, Handlers{
		Account: accounthandler.NewAccountHandler(
			accountusecase.NewAccountUsecase(users, jwtmw.NewGenerator(testSecret, time.Hour))),
		Stock: stockhandler.NewStockHandler(stockusecase.NewStockUsecase(stocks)),
		Comment: commenthandler.NewCommentHandler(
			commentusecase.NewCommentUsecase(commentadapters.NewCommentRepository(db), users, nil)),
		Portfolio: portfoliohandler.NewPortfolioHandler(
			portfoliousecase.NewPortfolioUsecase(portfolioadapters.NewPortfolioRepository(db), stocks, users, nil)),
		Health: infrahandler.NewHealth(nil),
	})
}

func send(t *testing.T, r http.Handler, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var raw []byte
	if body != nil {
		var err error
		raw, err = json.Marshal(body)
		require.NoError(t, err)
	}
	req := httptest.NewRequest(method, path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func register(t *testing.T, r http.Handler, name string) string {
	t.Helper()
	w := send(t, r, http.MethodPost, "/api/account/register", "", gin.H{
		"username": name, "email": name + "@example.com", "password": "password123",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var res struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	require.NotEmpty(t, res.Token)
	return res.Token
}

var appleBody = gin.H{
	"symbol": "AAPL", "companyName": "Apple", "purchase": 150.25, "lastDiv": 0.96,
	"industry": "Technology", "marketCap": 2500000000000,
}

func TestRouter_AuthRequiredOnWrites(t *testing.T) {
	t.Parallel()

	r := newTestRouter(t)

	tests := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/api/stock"},
		{http.MethodPost, "/api/stock"},
		{http.MethodPut, "/api/stock/1"},
		{http.MethodDelete, "/api/stock/1"},
		{http.MethodPost, "/api/comments/1"},
		{http.MethodPut, "/api/comments/1"},
		{http.MethodDelete, "/api/comments/1"},
		{http.MethodGet, "/api/portfolio"},
		{http.MethodPost, "/api/portfolio?symbol=AAPL"},
		{http.MethodDelete, "/api/portfolio?symbol=AAPL"},
	}
	for _, tt := range tests {
		w := send(t, r, tt.method, tt.path, "", nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code, "%s %s", tt.method, tt.path)
	}
}

func TestRouter_PublicReads(t *testing.T) {
	t.Parallel()

	r := newTestRouter(t)

	assert.Equal(t, http.StatusOK, send(t, r, http.MethodGet, "/healthz", "", nil).Code)
	assert.Equal(t, http.StatusNotFound, send(t, r, http.MethodGet, "/api/stock/1", "", nil).Code)
	assert.Equal(t, http.StatusOK, send(t, r, http.MethodGet, "/api/comments", "", nil).Code)
	assert.Equal(t, http.StatusNotFound, send(t, r, http.MethodGet, "/api/comments/1", "", nil).Code)
}

func TestRouter_RequestIDHeader(t *testing.T) {
	t.Parallel()

	w := send(t, newTestRouter(t), http.MethodGet, "/healthz", "", nil)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

func TestRouter_StockLifecycle(t *testing.T) {
	t.Parallel()

	r := newTestRouter(t)
	token := register(t, r, "alice")

	w := send(t, r, http.MethodPost, "/api/stock", token, appleBody)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	location := w.Header().Get("Location")
	require.NotEmpty(t, location)

	w = send(t, r, http.MethodGet, location, "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var stock map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &stock))
	assert.Equal(t, "AAPL", stock["symbol"])
	assert.Equal(t, 150.25, stock["purchase"])
	assert.Equal(t, []any{}, stock["comments"])

	w = send(t, r, http.MethodPost, "/api/comments/1", token, gin.H{"title": "Great stock", "content": "Holding long term"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = send(t, r, http.MethodGet, location, "", nil)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &stock))
	comments, ok := stock["comments"].([]any)
	require.True(t, ok)
	require.Len(t, comments, 1)
	assert.Equal(t, "alice", comments[0].(map[string]any)["createdBy"])

	w = send(t, r, http.MethodDelete, location, token, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = send(t, r, http.MethodGet, location, "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"error":"Stock doesn't exist."}`, w.Body.String())

	w = send(t, r, http.MethodGet, "/api/comments", "", nil)
	assert.JSONEq(t, "[]", w.Body.String())
}

func TestRouter_CommentOwnership(t *testing.T) {
	t.Parallel()

	r := newTestRouter(t)
	alice := register(t, r, "alice")
	bob := register(t, r, "bob")

	require.Equal(t, http.StatusCreated, send(t, r, http.MethodPost, "/api/stock", alice, appleBody).Code)
	require.Equal(t, http.StatusCreated,
		send(t, r, http.MethodPost, "/api/comments/1", alice, gin.H{"title": "Great stock", "content": "Holding long term"}).Code)

	w := send(t, r, http.MethodPut, "/api/comments/1", bob, gin.H{"title": "Hijacked!", "content": "Not my comment"})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = send(t, r, http.MethodDelete, "/api/comments/1", bob, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = send(t, r, http.MethodDelete, "/api/comments/99", bob, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"error":"Comment does not exist!"}`, w.Body.String())

	w = send(t, r, http.MethodPut, "/api/comments/1", alice, gin.H{"title": "Edited title", "content": "Edited content"})
	require.Equal(t, http.StatusOK, w.Code)

	w = send(t, r, http.MethodPost, "/api/comments/42", alice, gin.H{"title": "Great stock", "content": "Holding long term"})
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"error":"Stock doesn't exist."}`, w.Body.String())
}

func TestRouter_Portfolio(t *testing.T) {
	t.Parallel()

	r := newTestRouter(t)
	token := register(t, r, "alice")
	require.Equal(t, http.StatusCreated, send(t, r, http.MethodPost, "/api/stock", token, appleBody).Code)

	w := send(t, r, http.MethodPost, "/api/portfolio?symbol=AAPL", token, nil)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = send(t, r, http.MethodPost, "/api/portfolio?symbol=AAPL", token, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"Cannot add same stock to portfolio"}`, w.Body.String())

	w = send(t, r, http.MethodPost, "/api/portfolio?symbol=ZZZZ", token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = send(t, r, http.MethodGet, "/api/portfolio", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var held []map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &held))
	require.Len(t, held, 1)
	assert.Equal(t, "AAPL", held[0]["symbol"])

	assert.Equal(t, http.StatusNoContent, send(t, r, http.MethodDelete, "/api/portfolio?symbol=AAPL", token, nil).Code)
	assert.Equal(t, http.StatusNotFound, send(t, r, http.MethodDelete, "/api/portfolio?symbol=AAPL", token, nil).Code)
}

func TestCorsConfig(t *testing.T) {
	t.Parallel()

	assert.True(t, corsConfig(nil).AllowAllOrigins)
	assert.True(t, corsConfig([]string{"https://a.example", "*"}).AllowAllOrigins)

	cfg := corsConfig([]string{"https://a.example"})
	assert.False(t, cfg.AllowAllOrigins)
	assert.Equal(t, []string{"https://a.example"}, cfg.AllowOrigins)
	assert.Contains(t, cfg.AllowHeaders, "Authorization")
}
