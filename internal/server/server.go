// Package server はHTTPサーバーの組み立てを行う。
// ミドルウェアチェーンの適用順と2つのリソースルーターの登録を担う。
package server

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nao1215/blogapi/internal/blog"
	"github.com/nao1215/blogapi/internal/gateway"
	"github.com/nao1215/blogapi/internal/user"
	"github.com/nao1215/blogapi/pkg/middleware"
)

// Server はブログAPIのHTTPサーバー。
type Server struct {
	// router はGinのHTTPルーター。
	router *gin.Engine
	// port はサーバーのリッスンポート。
	port string
}

// New は新しいサーバーを生成する。
// ゲートウェイは呼び出し側が構築して注入する。テストではインメモリ
// SQLite実装を渡す。
//
// ミドルウェアの適用順序: Recovery → CORS → RequestLogger
func New(port string, store gateway.DocumentStore, identity gateway.IdentityProvider) *Server {
	router := gin.New()
	router.Use(middleware.Recovery())
	router.Use(middleware.CORS())
	router.Use(middleware.RequestLogger())

	blog.NewHandler(store).Routes(router.Group("/blogs"), middleware.InsecureBearerGate())
	user.NewHandler(store, identity).Routes(router.Group("/users"))

	// ヘルスチェック
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "service": "blogapi"})
	})

	return &Server{router: router, port: port}
}

// Run はHTTPリスナーを起動する。
func (s *Server) Run() error {
	return s.router.Run(fmt.Sprintf(":%s", s.port))
}

// Handler はリクエストハンドラを返す。
// リスナーを自前で持つ実行環境（テストや外部のサービングレイヤ）が使う。
func (s *Server) Handler() http.Handler {
	return s.router
}
