package middleware

import (
	"log"
	"time"

	"github.com/gin-gonic/gin"
)

// RequestLogger はリクエストごとに1行のログを出力するGinミドルウェアを返す。
// 形式: [ISO-8601タイムスタンプ] メソッド パス
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		log.Printf("[%s] %s %s",
			time.Now().Format(time.RFC3339),
			c.Request.Method,
			c.Request.URL.Path,
		)
		c.Next()
	}
}
