// Package middleware はGinベースのHTTP APIで使用する共通ミドルウェアを提供する。
//
// CORS設定、リクエストログ、パニックリカバリ、および保護ルート用の
// Authorizationヘッダーゲートを含む。
package middleware
