// ブログAPIサービスのエントリポイント。
// ブログ記事とユーザーアカウントのCRUDを提供する。
// 永続化と認証は設定で選択したゲートウェイ（SQLiteまたはPostgreSQL）が担う。
package main

import (
	"log"

	"github.com/nao1215/blogapi/internal/config"
	"github.com/nao1215/blogapi/internal/gateway"
	"github.com/nao1215/blogapi/internal/gateway/postgres"
	"github.com/nao1215/blogapi/internal/gateway/sqlite"
	"github.com/nao1215/blogapi/internal/server"
)

func main() {
	cfg := config.Load()

	gw, err := openGateway(cfg)
	if err != nil {
		log.Fatalf("ゲートウェイの初期化に失敗: %v", err)
	}

	srv := server.New(cfg.Port, gw, gw)

	log.Printf("ブログAPIサービスを起動します: :%s", cfg.Port)
	if err := srv.Run(); err != nil {
		log.Fatalf("ブログAPIサービスの起動に失敗: %v", err)
	}
}

// combinedGateway はドキュメントストアと認証プロバイダの両方を提供する
// ゲートウェイ実装の共通形。
type combinedGateway interface {
	gateway.DocumentStore
	gateway.IdentityProvider
}

// openGateway は接続URLのスキームに応じたゲートウェイを構築する。
func openGateway(cfg config.Config) (combinedGateway, error) {
	if cfg.IsPostgres() {
		return postgres.Open(cfg.DatabaseURL, cfg.TokenSecret)
	}
	return sqlite.Open(cfg.DatabaseURL, cfg.TokenSecret)
}
