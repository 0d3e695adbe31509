// Package token はベアラートークン（JWT）の発行と解析を提供する。
// このAPIはトークンを発行するだけで検証は行わないため、Parseは主にテストと
// 将来の認可強化のために存在する。
package token

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims はトークンのクレーム（ペイロード）を表す。
type Claims struct {
	jwt.RegisteredClaims
	// UserID はアカウントの一意識別子。
	UserID string `json:"user_id"`
	// Email はアカウントのメールアドレス。
	Email string `json:"email"`
}

// issuer はこのサービスが発行するトークンのiss値。
const issuer = "blogapi"

// tokenTTL はトークンの有効期限。
const tokenTTL = 24 * time.Hour

// Generate はアカウント情報からHS256署名のトークンを生成する。
// サインアップとログインのハンドラが呼び出す。
func Generate(secret, userID, email string) (string, error) {
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(tokenTTL)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			Issuer:    issuer,
		},
		UserID: userID,
		Email:  email,
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString([]byte(secret))
	if err != nil {
		return "", fmt.Errorf("トークンの署名に失敗: %w", err)
	}
	return signed, nil
}

// Parse はトークンを検証してクレームを返す。
func Parse(secret, tokenString string) (*Claims, error) {
	claims := &Claims{}
	t, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("予期しない署名方式: %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, fmt.Errorf("トークンの解析に失敗: %w", err)
	}
	if !t.Valid {
		return nil, fmt.Errorf("トークンが無効です")
	}
	return claims, nil
}
