package postgres

import (
	"context"
	"errors"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/nao1215/blogapi/internal/gateway"
)

// openTestGateway は環境変数BLOGAPI_TEST_DATABASE_URLで指定された
// PostgreSQLに接続する。未設定の場合はテストをスキップする。
func openTestGateway(t *testing.T) *Gateway {
	t.Helper()

	url := os.Getenv("BLOGAPI_TEST_DATABASE_URL")
	if url == "" {
		t.Skip("BLOGAPI_TEST_DATABASE_URLが未設定のためスキップ")
	}

	g, err := Open(url, "test-secret")
	if err != nil {
		t.Fatalf("ゲートウェイの作成に失敗: %v", err)
	}
	t.Cleanup(func() { g.Close() })
	return g
}

// testCollection はテストごとに一意なコレクション名を生成する。
// 共有データベース上で他のテスト実行と衝突しないようにするため。
func testCollection(t *testing.T) string {
	t.Helper()
	return fmt.Sprintf("test_%s_%d", t.Name(), time.Now().UnixNano())
}

// TestDocumentCRUD はPostgreSQLバックエンドのドキュメント操作を検証する。
func TestDocumentCRUD(t *testing.T) {
	g := openTestGateway(t)
	col := testCollection(t)

	id, err := g.Add(context.Background(), col, map[string]any{"title": "初投稿", "author": "alice"})
	if err != nil {
		t.Fatalf("Addに失敗: %v", err)
	}

	doc, err := g.Get(context.Background(), col, id)
	if err != nil {
		t.Fatalf("Getに失敗: %v", err)
	}
	if doc.Data["title"] != "初投稿" {
		t.Errorf("title: got %v, want 初投稿", doc.Data["title"])
	}

	if err := g.Update(context.Background(), col, id, map[string]any{"title": "改題"}); err != nil {
		t.Fatalf("Updateに失敗: %v", err)
	}
	doc, err = g.Get(context.Background(), col, id)
	if err != nil {
		t.Fatalf("更新後のGetに失敗: %v", err)
	}
	if doc.Data["title"] != "改題" {
		t.Errorf("title: got %v, want 改題", doc.Data["title"])
	}
	if doc.Data["author"] != "alice" {
		t.Errorf("authorが変更されています: got %v", doc.Data["author"])
	}

	docs, err := g.QueryEqual(context.Background(), col, "author", "alice")
	if err != nil {
		t.Fatalf("QueryEqualに失敗: %v", err)
	}
	if len(docs) != 1 {
		t.Errorf("件数: got %d, want 1", len(docs))
	}

	if err := g.Update(context.Background(), col, "missing", map[string]any{"title": "x"}); !errors.Is(err, gateway.ErrNotFound) {
		t.Errorf("存在しないIDのUpdate: got %v, want ErrNotFound", err)
	}

	if err := g.Delete(context.Background(), col, id); err != nil {
		t.Fatalf("Deleteに失敗: %v", err)
	}
	if _, err := g.Get(context.Background(), col, id); !errors.Is(err, gateway.ErrNotFound) {
		t.Errorf("削除後のGet: got %v, want ErrNotFound", err)
	}
}

// TestAccountLifecycle はPostgreSQLバックエンドのアカウント操作を検証する。
func TestAccountLifecycle(t *testing.T) {
	g := openTestGateway(t)
	email := fmt.Sprintf("user%d@example.com", time.Now().UnixNano())

	created, err := g.CreateAccount(context.Background(), email, "password123", "Alice")
	if err != nil {
		t.Fatalf("アカウント作成に失敗: %v", err)
	}

	if _, err := g.CreateAccount(context.Background(), email, "other", "二人目"); !errors.Is(err, gateway.ErrEmailTaken) {
		t.Errorf("重複メール: got %v, want ErrEmailTaken", err)
	}

	found, err := g.AccountByEmail(context.Background(), email)
	if err != nil {
		t.Fatalf("アカウント検索に失敗: %v", err)
	}
	if found.UID != created.UID {
		t.Errorf("UID: got %q, want %q", found.UID, created.UID)
	}
}
