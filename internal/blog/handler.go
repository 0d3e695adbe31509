// Package blog はブログ記事リソースのHTTPハンドラを提供する。
// 各ハンドラはコラボレータゲートウェイへの1往復とレスポンス変換のみを行う。
package blog

import (
	"errors"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/nao1215/blogapi/internal/gateway"
)

// collection はブログ記事を保存するコレクション名。
const collection = "blogs"

// summaryLimit は一覧表示で返す本文の最大文字数（ルーン数）。
const summaryLimit = 100

// Handler はブログ記事のリソースルーター。
type Handler struct {
	// store はドキュメントストアへのゲートウェイ。
	store gateway.DocumentStore
}

// NewHandler は新しいブログハンドラを生成する。
func NewHandler(store gateway.DocumentStore) *Handler {
	return &Handler{store: store}
}

// Routes はブログのルーティングを設定する。
// authGateは作成・更新・削除・著者別一覧に適用する保護ミドルウェア。
func (h *Handler) Routes(rg *gin.RouterGroup, authGate gin.HandlerFunc) {
	// 公開ルート
	rg.GET("", h.handleList())
	rg.GET("/:id", h.handleGetByID())

	// 保護ルート
	rg.POST("", authGate, h.handleCreate())
	rg.PUT("/:id", authGate, h.handleUpdate())
	rg.DELETE("/:id", authGate, h.handleDelete())
	rg.GET("/author/:authorId", authGate, h.handleListByAuthor())
}

// createBlogRequest はブログ作成リクエストのJSON構造。
// 必須フィールドは無く、欠けたフィールドは空文字列として保存される。
type createBlogRequest struct {
	// Title は記事タイトル。
	Title string `json:"title"`
	// Content は記事本文。
	Content string `json:"content"`
	// Author は著者の識別子。
	Author string `json:"author"`
}

// updateBlogRequest はブログ更新リクエストのJSON構造。
// titleとcontentのみを上書きし、authorとdateには触れない。
type updateBlogRequest struct {
	// Title は記事タイトル。
	Title string `json:"title"`
	// Content は記事本文。
	Content string `json:"content"`
}

// blogResponse はブログ記事のJSONレスポンス構造。
type blogResponse struct {
	// ID は記事の一意識別子。
	ID string `json:"id"`
	// Title は記事タイトル。
	Title string `json:"title"`
	// Content は記事本文。一覧表示では切り詰めた値が入る。
	Content string `json:"content"`
	// Author は著者の識別子。
	Author string `json:"author"`
	// Date は記事の作成日（M/D/YYYY形式）。
	Date string `json:"date"`
}

// toBlogResponse はドキュメントをJSONレスポンスに変換する。
func toBlogResponse(doc gateway.Document) blogResponse {
	return blogResponse{
		ID:      doc.ID,
		Title:   stringField(doc.Data, "title"),
		Content: stringField(doc.Data, "content"),
		Author:  stringField(doc.Data, "author"),
		Date:    stringField(doc.Data, "date"),
	}
}

// handleList は全記事の一覧取得を処理するハンドラを返す。
// ホーム画面向けに本文を先頭100文字+省略記号に切り詰める。
func (h *Handler) handleList() gin.HandlerFunc {
	return func(c *gin.Context) {
		docs, err := h.store.GetAll(c.Request.Context(), collection)
		if err != nil {
			c.String(http.StatusInternalServerError, "Error retrieving blogs")
			log.Printf("ブログ一覧取得エラー: %v", err)
			return
		}

		blogs := make([]blogResponse, 0, len(docs))
		for _, doc := range docs {
			b := toBlogResponse(doc)
			b.Content = truncate(b.Content, summaryLimit)
			blogs = append(blogs, b)
		}

		c.JSON(http.StatusOK, blogs)
	}
}

// handleGetByID は記事の詳細取得を処理するハンドラを返す。本文は切り詰めない。
func (h *Handler) handleGetByID() gin.HandlerFunc {
	return func(c *gin.Context) {
		blogID := c.Param("id")
		doc, err := h.store.Get(c.Request.Context(), collection, blogID)
		if errors.Is(err, gateway.ErrNotFound) {
			c.String(http.StatusNotFound, "Blog not found")
			return
		}
		if err != nil {
			c.String(http.StatusInternalServerError, "Error retrieving blog")
			log.Printf("ブログ取得エラー: %v", err)
			return
		}

		c.JSON(http.StatusOK, toBlogResponse(doc))
	}
}

// handleCreate は記事の新規作成を処理するハンドラを返す。
// dateには挿入時点の作成日を割り当てる。更新操作で再計算されることはない。
func (h *Handler) handleCreate() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req createBlogRequest
		if err := bindOptionalJSON(c, &req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
			return
		}

		date := time.Now().Format("1/2/2006")
		id, err := h.store.Add(c.Request.Context(), collection, map[string]any{
			"title":   req.Title,
			"content": req.Content,
			"author":  req.Author,
			"date":    date,
		})
		if err != nil {
			c.String(http.StatusInternalServerError, "Error adding blog")
			log.Printf("ブログ作成エラー: %v", err)
			return
		}

		c.String(http.StatusCreated, "Blog added with ID: %s", id)
	}
}

// handleUpdate は記事の更新を処理するハンドラを返す。
// titleとcontentのみを上書きする。存在しないIDはゲートウェイエラーとして
// 500になる（404との区別はしない）。
func (h *Handler) handleUpdate() gin.HandlerFunc {
	return func(c *gin.Context) {
		blogID := c.Param("id")

		var req updateBlogRequest
		if err := bindOptionalJSON(c, &req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
			return
		}

		if err := h.store.Update(c.Request.Context(), collection, blogID, map[string]any{
			"title":   req.Title,
			"content": req.Content,
		}); err != nil {
			c.String(http.StatusInternalServerError, "Error updating blog")
			log.Printf("ブログ更新エラー: id=%s, %v", blogID, err)
			return
		}

		c.String(http.StatusOK, "Blog updated successfully")
	}
}

// handleDelete は記事の削除を処理するハンドラを返す。
func (h *Handler) handleDelete() gin.HandlerFunc {
	return func(c *gin.Context) {
		blogID := c.Param("id")
		if err := h.store.Delete(c.Request.Context(), collection, blogID); err != nil {
			c.String(http.StatusInternalServerError, "Error deleting blog")
			log.Printf("ブログ削除エラー: id=%s, %v", blogID, err)
			return
		}

		c.String(http.StatusOK, "Blog deleted successfully")
	}
}

// handleListByAuthor は著者別の記事一覧取得を処理するハンドラを返す。
// 管理画面向けのため本文は切り詰めない。
func (h *Handler) handleListByAuthor() gin.HandlerFunc {
	return func(c *gin.Context) {
		authorID := c.Param("authorId")
		docs, err := h.store.QueryEqual(c.Request.Context(), collection, "author", authorID)
		if err != nil {
			c.String(http.StatusInternalServerError, "Error fetching blogs by author")
			log.Printf("著者別ブログ取得エラー: author=%s, %v", authorID, err)
			return
		}

		blogs := make([]blogResponse, 0, len(docs))
		for _, doc := range docs {
			blogs = append(blogs, toBlogResponse(doc))
		}

		c.JSON(http.StatusOK, blogs)
	}
}

// truncate は文字列を先頭limitルーンに切り詰め、省略記号を付加する。
// 元の文字列がlimitより短い場合でも省略記号は常に付く。
func truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) > limit {
		runes = runes[:limit]
	}
	return string(runes) + "..."
}

// stringField はドキュメントから文字列フィールドを取り出す。
// 存在しない、または文字列でない場合は空文字列を返す。
func stringField(data map[string]any, key string) string {
	if v, ok := data[key].(string); ok {
		return v
	}
	return ""
}

// bindOptionalJSON はJSONボディをリクエスト構造体に読み込む。
// ボディが空または無い場合は空のリクエストとして扱い、不正なJSONのみエラーとする。
func bindOptionalJSON(c *gin.Context, obj any) error {
	if err := c.ShouldBindJSON(obj); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}
