// Package user はユーザーアカウントリソースのHTTPハンドラを提供する。
// サインアップ・ログイン・プロフィール取得の3操作を持つ。
package user

import (
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/nao1215/blogapi/internal/gateway"
)

// collection はユーザープロフィールを保存するコレクション名。
// ドキュメントIDには認証プロバイダが採番したUIDをそのまま使う。
const collection = "users"

// Handler はユーザーアカウントのリソースルーター。
type Handler struct {
	// store はプロフィールドキュメントの保存先。
	store gateway.DocumentStore
	// identity はアカウント管理とトークン発行を行う認証プロバイダ。
	identity gateway.IdentityProvider
}

// NewHandler は新しいユーザーハンドラを生成する。
func NewHandler(store gateway.DocumentStore, identity gateway.IdentityProvider) *Handler {
	return &Handler{store: store, identity: identity}
}

// Routes はユーザーのルーティングを設定する。
func (h *Handler) Routes(rg *gin.RouterGroup) {
	rg.POST("/signup", h.handleSignup())
	rg.POST("/login", h.handleLogin())
	rg.GET("/:uid", h.handleGetProfile())
}

// signupRequest はサインアップリクエストのJSON構造。全フィールド必須。
type signupRequest struct {
	// Email はメールアドレス。プロバイダ内で一意。
	Email string `json:"email"`
	// Password はパスワード。ハッシュ化して保存されるが、ログイン時の照合は行われない。
	Password string `json:"password"`
	// Name は表示名。
	Name string `json:"name"`
}

// loginRequest はログインリクエストのJSON構造。
type loginRequest struct {
	// Email はメールアドレス。
	Email string `json:"email"`
	// Password はパスワード。受け取るだけで検証には使われない（下記参照）。
	Password string `json:"password"`
}

// handleSignup はサインアップを処理するハンドラを返す。
// 認証プロバイダにアカウントを作成し、UIDをキーにプロフィールドキュメントを
// 書き込み、即時ログイン用のトークンを発行する。
//
// プロフィールの書き込みに失敗した場合、作成済みのアカウントは残る
// （補償トランザクションは行わない）。呼び出し側はサインアップを再試行し、
// 重複メールエラーを処理することで回復する。
func (h *Handler) handleSignup() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req signupRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
			return
		}
		if req.Email == "" || req.Password == "" || req.Name == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Email, password, and name are required"})
			return
		}

		account, err := h.identity.CreateAccount(c.Request.Context(), req.Email, req.Password, req.Name)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": signupErrorMessage(err)})
			log.Printf("サインアップエラー: %v", err)
			return
		}

		if err := h.store.Set(c.Request.Context(), collection, account.UID, map[string]any{
			"name":      req.Name,
			"email":     req.Email,
			"createdAt": time.Now().Format(time.RFC3339),
		}); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": signupErrorMessage(err)})
			log.Printf("プロフィール作成エラー: uid=%s, %v", account.UID, err)
			return
		}

		token, err := h.identity.CustomToken(c.Request.Context(), account.UID, account.Email)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": signupErrorMessage(err)})
			log.Printf("トークン発行エラー: uid=%s, %v", account.UID, err)
			return
		}

		c.JSON(http.StatusCreated, gin.H{
			"uid":   account.UID,
			"email": account.Email,
			"token": token,
		})
	}
}

// handleLogin はログインを処理するハンドラを返す。
// メールアドレスでアカウントを検索し、新しいトークンを発行する。
//
// パスワードは受け取るが認証プロバイダとの照合は行わない。つまり
// メールアドレスの存在のみで認証が成立する。この挙動を変更する場合は
// ここにパスワード検証を追加すること（保存側はbcryptハッシュ済み）。
func (h *Handler) handleLogin() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req loginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
			return
		}

		account, err := h.identity.AccountByEmail(c.Request.Context(), req.Email)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
			log.Printf("ログインエラー: %v", err)
			return
		}

		token, err := h.identity.CustomToken(c.Request.Context(), account.UID, account.Email)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
			log.Printf("トークン発行エラー: uid=%s, %v", account.UID, err)
			return
		}

		log.Printf("ユーザーがログインしました: uid=%s", account.UID)
		c.JSON(http.StatusOK, gin.H{"token": token, "uid": account.UID})
	}
}

// handleGetProfile はプロフィール取得を処理するハンドラを返す。
func (h *Handler) handleGetProfile() gin.HandlerFunc {
	return func(c *gin.Context) {
		uid := c.Param("uid")
		doc, err := h.store.Get(c.Request.Context(), collection, uid)
		if errors.Is(err, gateway.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
			log.Printf("プロフィール取得エラー: uid=%s, %v", uid, err)
			return
		}

		c.JSON(http.StatusOK, doc.Data)
	}
}

// signupErrorMessage はサインアップ失敗時にクライアントへ返すメッセージを決める。
// 既知のプロバイダエラーはそのメッセージを、それ以外は汎用メッセージを返す。
func signupErrorMessage(err error) string {
	if errors.Is(err, gateway.ErrEmailTaken) {
		return gateway.ErrEmailTaken.Error()
	}
	return "Signup failed"
}
