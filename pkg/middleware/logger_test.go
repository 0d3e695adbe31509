package middleware

import (
	"bytes"
	"log"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
)

// TestRequestLogger はリクエストログミドルウェアを検証する。
// 標準ロガーの出力先を差し替えるため並列実行しない。
func TestRequestLogger(t *testing.T) {
	orig := log.Writer()
	var buf bytes.Buffer
	log.SetOutput(&buf)
	defer log.SetOutput(orig)

	router := gin.New()
	router.Use(RequestLogger())
	router.GET("/blogs", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	req := httptest.NewRequest(http.MethodGet, "/blogs", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	line := buf.String()
	if !strings.Contains(line, "GET /blogs") {
		t.Errorf("ログにメソッドとパスが含まれていません: %q", line)
	}
	// RFC 3339のタイムスタンプ（日付と時刻の区切りのT）を含むこと
	if !strings.Contains(line, "T") || !strings.Contains(line, "[") {
		t.Errorf("ログにタイムスタンプが含まれていません: %q", line)
	}
}
