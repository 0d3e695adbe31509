package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// CORS は全オリジンからのクロスオリジンリクエストを許可するGinミドルウェアを返す。
// このAPIは公開ブログのバックエンドであり、オリジン制限を行わない。
// OPTIONSプリフライトリクエストには204で応答する。
func CORS() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Authorization, Content-Type")
		c.Header("Access-Control-Max-Age", "86400")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
