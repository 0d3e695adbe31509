// Package config は環境変数からのサービス設定の読み込みを提供する。
package config

import (
	"os"
	"strings"
)

// Config はサービスの起動設定。
type Config struct {
	// Port はHTTPリスナーのポート番号。
	Port string
	// DatabaseURL はデータベースの接続先。
	// postgres://スキームの場合はPostgreSQL、それ以外はSQLiteのファイルパスとして扱う。
	DatabaseURL string
	// TokenSecret はベアラートークン署名用の秘密鍵。
	TokenSecret string
}

// Load は環境変数から設定を読み込む。未設定の項目は開発用デフォルト値になる。
func Load() Config {
	return Config{
		Port:        envString("PORT", "3000"),
		DatabaseURL: envString("BLOGAPI_DATABASE_URL", "blogapi.db"),
		TokenSecret: envString("BLOGAPI_TOKEN_SECRET", "dev-secret-key"),
	}
}

// IsPostgres はDatabaseURLがPostgreSQLの接続URLかどうかを返す。
func (c Config) IsPostgres() bool {
	return strings.HasPrefix(c.DatabaseURL, "postgres://") ||
		strings.HasPrefix(c.DatabaseURL, "postgresql://")
}

// envString は環境変数を取得し、設定されていない場合はデフォルト値を返す。
func envString(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
