// Package postgres はPostgreSQLを使用したコラボレータゲートウェイの実装。
// ドキュメントはJSONBカラムに保存し、フィールド検索は->>演算子で行う。
package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"golang.org/x/crypto/bcrypt"

	"github.com/nao1215/blogapi/internal/gateway"
	"github.com/nao1215/blogapi/pkg/token"
)

// スキーマ定義。SQLite実装と同じ2テーブル構成。
const schema = `
CREATE TABLE IF NOT EXISTS documents (
    seq BIGSERIAL,
    collection TEXT NOT NULL,
    id TEXT NOT NULL,
    data JSONB NOT NULL,
    PRIMARY KEY (collection, id)
);

CREATE TABLE IF NOT EXISTS accounts (
    uid TEXT PRIMARY KEY,
    email TEXT NOT NULL UNIQUE,
    password_hash TEXT NOT NULL,
    display_name TEXT NOT NULL,
    created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);
`

// uniqueViolation はPostgreSQLの一意制約違反のSQLSTATEコード。
const uniqueViolation = "23505"

// Gateway はPostgreSQLバックエンドのドキュメントストア兼認証プロバイダ。
type Gateway struct {
	// db はPostgreSQLデータベース接続。
	db *sql.DB
	// tokenSecret はベアラートークン署名用の秘密鍵。
	tokenSecret string
}

// インターフェースの実装確認。
var (
	_ gateway.DocumentStore    = (*Gateway)(nil)
	_ gateway.IdentityProvider = (*Gateway)(nil)
)

// Open はPostgreSQLに接続し、スキーマを適用してゲートウェイを生成する。
func Open(url, tokenSecret string) (*Gateway, error) {
	db, err := sql.Open("postgres", url)
	if err != nil {
		return nil, fmt.Errorf("データベース接続に失敗: %w", err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("データベースへの疎通確認に失敗: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("スキーマの適用に失敗: %w", err)
	}
	return &Gateway{db: db, tokenSecret: tokenSecret}, nil
}

// Close はデータベース接続を閉じる。
func (g *Gateway) Close() error {
	return g.db.Close()
}

// GetAll はコレクション内の全ドキュメントを挿入順で返す。
func (g *Gateway) GetAll(ctx context.Context, collection string) ([]gateway.Document, error) {
	rows, err := g.db.QueryContext(ctx,
		`SELECT id, data FROM documents WHERE collection = $1 ORDER BY seq`,
		collection,
	)
	if err != nil {
		return nil, fmt.Errorf("ドキュメント一覧の取得に失敗: %w", err)
	}
	defer rows.Close()
	return scanDocuments(rows)
}

// Get は指定IDのドキュメントを返す。
func (g *Gateway) Get(ctx context.Context, collection, id string) (gateway.Document, error) {
	var raw []byte
	err := g.db.QueryRowContext(ctx,
		`SELECT data FROM documents WHERE collection = $1 AND id = $2`,
		collection, id,
	).Scan(&raw)
	if err == sql.ErrNoRows {
		return gateway.Document{}, gateway.ErrNotFound
	}
	if err != nil {
		return gateway.Document{}, fmt.Errorf("ドキュメントの取得に失敗: %w", err)
	}
	return decodeDocument(id, raw)
}

// QueryEqual は指定フィールドが値に一致するドキュメントを返す。
func (g *Gateway) QueryEqual(ctx context.Context, collection, field, value string) ([]gateway.Document, error) {
	rows, err := g.db.QueryContext(ctx,
		`SELECT id, data FROM documents
		 WHERE collection = $1 AND data ->> $2 = $3
		 ORDER BY seq`,
		collection, field, value,
	)
	if err != nil {
		return nil, fmt.Errorf("ドキュメントの検索に失敗: %w", err)
	}
	defer rows.Close()
	return scanDocuments(rows)
}

// Add はIDを自動採番して新しいドキュメントを挿入する。
func (g *Gateway) Add(ctx context.Context, collection string, data map[string]any) (string, error) {
	id := uuid.New().String()
	raw, err := json.Marshal(data)
	if err != nil {
		return "", fmt.Errorf("ドキュメントのエンコードに失敗: %w", err)
	}
	if _, err := g.db.ExecContext(ctx,
		`INSERT INTO documents (collection, id, data) VALUES ($1, $2, $3)`,
		collection, id, raw,
	); err != nil {
		return "", fmt.Errorf("ドキュメントの挿入に失敗: %w", err)
	}
	return id, nil
}

// Set は指定IDでドキュメントを書き込む。既に存在する場合は上書きする。
func (g *Gateway) Set(ctx context.Context, collection, id string, data map[string]any) error {
	raw, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("ドキュメントのエンコードに失敗: %w", err)
	}
	if _, err := g.db.ExecContext(ctx,
		`INSERT INTO documents (collection, id, data) VALUES ($1, $2, $3)
		 ON CONFLICT (collection, id) DO UPDATE SET data = EXCLUDED.data`,
		collection, id, raw,
	); err != nil {
		return fmt.Errorf("ドキュメントの書き込みに失敗: %w", err)
	}
	return nil
}

// Update は指定フィールドのみを既存ドキュメントにマージする。
func (g *Gateway) Update(ctx context.Context, collection, id string, fields map[string]any) error {
	raw, err := json.Marshal(fields)
	if err != nil {
		return fmt.Errorf("フィールドのエンコードに失敗: %w", err)
	}
	res, err := g.db.ExecContext(ctx,
		`UPDATE documents SET data = data || $3::jsonb
		 WHERE collection = $1 AND id = $2`,
		collection, id, raw,
	)
	if err != nil {
		return fmt.Errorf("ドキュメントの更新に失敗: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("更新件数の取得に失敗: %w", err)
	}
	if n == 0 {
		return gateway.ErrNotFound
	}
	return nil
}

// Delete は指定IDのドキュメントを削除する。存在しないIDの削除は成功扱い。
func (g *Gateway) Delete(ctx context.Context, collection, id string) error {
	if _, err := g.db.ExecContext(ctx,
		`DELETE FROM documents WHERE collection = $1 AND id = $2`,
		collection, id,
	); err != nil {
		return fmt.Errorf("ドキュメントの削除に失敗: %w", err)
	}
	return nil
}

// CreateAccount は新しいアカウントを作成する。
func (g *Gateway) CreateAccount(ctx context.Context, email, password, displayName string) (gateway.Account, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return gateway.Account{}, fmt.Errorf("パスワードのハッシュ化に失敗: %w", err)
	}

	uid := uuid.New().String()
	if _, err := g.db.ExecContext(ctx,
		`INSERT INTO accounts (uid, email, password_hash, display_name) VALUES ($1, $2, $3, $4)`,
		uid, email, hash, displayName,
	); err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return gateway.Account{}, gateway.ErrEmailTaken
		}
		return gateway.Account{}, fmt.Errorf("アカウントの作成に失敗: %w", err)
	}

	return gateway.Account{UID: uid, Email: email, DisplayName: displayName}, nil
}

// AccountByEmail はメールアドレスでアカウントを検索する。
func (g *Gateway) AccountByEmail(ctx context.Context, email string) (gateway.Account, error) {
	var a gateway.Account
	err := g.db.QueryRowContext(ctx,
		`SELECT uid, email, display_name FROM accounts WHERE email = $1`,
		email,
	).Scan(&a.UID, &a.Email, &a.DisplayName)
	if err == sql.ErrNoRows {
		return gateway.Account{}, gateway.ErrAccountNotFound
	}
	if err != nil {
		return gateway.Account{}, fmt.Errorf("アカウントの検索に失敗: %w", err)
	}
	return a, nil
}

// CustomToken は指定アカウントのベアラートークンを発行する。
func (g *Gateway) CustomToken(_ context.Context, uid, email string) (string, error) {
	return token.Generate(g.tokenSecret, uid, email)
}

// scanDocuments は検索結果の全行をDocumentスライスに変換する。
func scanDocuments(rows *sql.Rows) ([]gateway.Document, error) {
	docs := []gateway.Document{}
	for rows.Next() {
		var id string
		var raw []byte
		if err := rows.Scan(&id, &raw); err != nil {
			return nil, fmt.Errorf("行の読み取りに失敗: %w", err)
		}
		doc, err := decodeDocument(id, raw)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("行の走査に失敗: %w", err)
	}
	return docs, nil
}

// decodeDocument はJSONBの生バイト列をDocumentに変換する。
func decodeDocument(id string, raw []byte) (gateway.Document, error) {
	var data map[string]any
	if err := json.Unmarshal(raw, &data); err != nil {
		return gateway.Document{}, fmt.Errorf("ドキュメントのデコードに失敗: %w", err)
	}
	return gateway.Document{ID: id, Data: data}, nil
}
