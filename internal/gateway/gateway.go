// Package gateway は外部コラボレータ（ドキュメントストアと認証プロバイダ）への
// ケイパビリティインターフェースを定義する。
// 実装はサブパッケージ（sqlite, postgres）が提供し、ハンドラはこの
// インターフェースのみに依存する。テストではインメモリSQLite実装を注入する。
package gateway

import (
	"context"
	"errors"
)

var (
	// ErrNotFound は指定IDのドキュメントが存在しないことを示す。
	ErrNotFound = errors.New("document not found")
	// ErrEmailTaken は同一メールアドレスのアカウントが既に存在することを示す。
	ErrEmailTaken = errors.New("email already in use")
	// ErrAccountNotFound は指定メールアドレスのアカウントが存在しないことを示す。
	ErrAccountNotFound = errors.New("account not found")
)

// Document はコレクション内の1レコード。IDはストアが割り当てる不透明な文字列。
type Document struct {
	// ID はドキュメントの一意識別子。
	ID string
	// Data はドキュメントの本体。スキーマレスなフィールドの集合。
	Data map[string]any
}

// DocumentStore はコレクション単位でドキュメントを操作する外部ストアの契約。
type DocumentStore interface {
	// GetAll はコレクション内の全ドキュメントを返す。
	GetAll(ctx context.Context, collection string) ([]Document, error)
	// Get は指定IDのドキュメントを返す。存在しない場合はErrNotFound。
	Get(ctx context.Context, collection, id string) (Document, error)
	// QueryEqual は指定フィールドが値に一致するドキュメントを返す。
	QueryEqual(ctx context.Context, collection, field, value string) ([]Document, error)
	// Add はIDを自動採番して新しいドキュメントを挿入し、採番したIDを返す。
	Add(ctx context.Context, collection string, data map[string]any) (string, error)
	// Set は指定IDでドキュメントを書き込む（存在すれば上書き）。
	Set(ctx context.Context, collection, id string, data map[string]any) error
	// Update は指定フィールドのみを既存ドキュメントにマージする。
	// ドキュメントが存在しない場合はErrNotFound。
	Update(ctx context.Context, collection, id string, fields map[string]any) error
	// Delete は指定IDのドキュメントを削除する。存在しない場合は何もしない。
	Delete(ctx context.Context, collection, id string) error
}

// Account は認証プロバイダが管理するアカウント情報。
type Account struct {
	// UID はアカウントの一意識別子。サインアップ時にプロバイダが割り当てる。
	UID string
	// Email はアカウントのメールアドレス。プロバイダ内で一意。
	Email string
	// DisplayName は表示名。
	DisplayName string
}

// IdentityProvider はアカウント管理とトークン発行を行う外部プロバイダの契約。
type IdentityProvider interface {
	// CreateAccount は新しいアカウントを作成する。
	// メールアドレスが既に使われている場合はErrEmailTaken。
	CreateAccount(ctx context.Context, email, password, displayName string) (Account, error)
	// AccountByEmail はメールアドレスでアカウントを検索する。
	// 存在しない場合はErrAccountNotFound。
	AccountByEmail(ctx context.Context, email string) (Account, error)
	// CustomToken は指定アカウントのベアラートークンを発行する。
	CustomToken(ctx context.Context, uid, email string) (string, error)
}
