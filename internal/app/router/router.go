// Package router はHTTPルーティングとミドルウェアを組み立てます。
package router

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"

	accounthandler "stock_tracker/internal/feature/account/transport/handler"
	commenthandler "stock_tracker/internal/feature/comment/transport/handler"
	portfoliohandler "stock_tracker/internal/feature/portfolio/transport/handler"
	stockhandler "stock_tracker/internal/feature/stock/transport/handler"
	jwtmw "stock_tracker/internal/platform/jwt"
)

// Handlers はルーターに登録するハンドラー一式です。
type Handlers struct {
	Account   *accounthandler.AccountHandler
	Stock     *stockhandler.StockHandler
	Comment   *commenthandler.CommentHandler
	Portfolio *portfoliohandler.PortfolioHandler
	Health    gin.HandlerFunc
}

// Options はミドルウェアの設定です。
type Options struct {
	JWTSecret      string
	AllowedOrigins []string
}

func NewRouter(opts Options, h Handlers) *gin.Engine {
	r := gin.New()
	r.Use(requestid.New())
	r.Use(requestLogger())
	r.Use(gin.Recovery())
	r.Use(cors.New(corsConfig(opts.AllowedOrigins)))

	// 認証不要
	// 導通確認用
	r.GET("/healthz", h.Health)
	r.HEAD("/healthz", h.Health)
	r.OPTIONS("/healthz", h.Health)

	api := r.Group("/api")
	api.POST("/account/register", h.Account.Register)
	api.POST("/account/login", h.Account.Login)
	api.GET("/stock/:stockId", h.Stock.Get)
	api.GET("/comments", h.Comment.List)
	api.GET("/comments/:id", h.Comment.Get)

	// 認証必須のルート
	auth := api.Group("/")
	auth.Use(jwtmw.AuthRequired(opts.JWTSecret))
	{
		auth.GET("/stock", h.Stock.List)
		auth.POST("/stock", h.Stock.Create)
		auth.PUT("/stock/:stockId", h.Stock.Update)
		auth.DELETE("/stock/:stockId", h.Stock.Delete)

		auth.POST("/comments/:stockId", h.Comment.Create)
		auth.PUT("/comments/:id", h.Comment.Update)
		auth.DELETE("/comments/:id", h.Comment.Delete)

		auth.GET("/portfolio", h.Portfolio.List)
		auth.POST("/portfolio", h.Portfolio.Add)
		auth.DELETE("/portfolio", h.Portfolio.Remove)
	}

	return r
}

// corsConfig は "*" を含む場合すべてのオリジンを許可します。
func corsConfig(origins []string) cors.Config {
	cfg := cors.DefaultConfig()
	cfg.AllowHeaders = append(cfg.AllowHeaders, "Authorization")
	cfg.ExposeHeaders = []string{"Location", "X-Request-ID"}
	for _, o := range origins {
		if o == "*" {
			cfg.AllowAllOrigins = true
			return cfg
		}
	}
	if len(origins) == 0 {
		cfg.AllowAllOrigins = true
		return cfg
	}
	cfg.AllowOrigins = origins
	return cfg
}
