// Package middleware はHTTPミドルウェアを提供する。
package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/uuid"
)

const userCookieName = "book_finder_user_id"

// userIDPrefix は匿名ユーザーIDの接頭辞。
const userIDPrefix = "user_"

// contextKey はコンテキストに値を格納するための型安全なキー。
type contextKey string

// userIDContextKey はリクエストコンテキストにユーザーIDを格納するためのキー。
var userIDContextKey = contextKey("user_id")

// IdentityConfig は匿名ユーザーCookieの属性を保持する。
type IdentityConfig struct {
	CookieSecure bool
	CookieDomain string
}

// NewIdentityMiddleware は匿名ユーザーIDをCookieで管理するミドルウェアを返す。
// Cookieが存在しない場合は新しいユーザーIDを発行してSet-Cookieで返す。
// ログインは不要で、ユーザーIDをリクエストコンテキストに注入する。
func NewIdentityMiddleware(config IdentityConfig) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID := ""

			if cookie, err := r.Cookie(userCookieName); err == nil && isValidUserID(cookie.Value) {
				userID = cookie.Value
			}

			if userID == "" {
				userID = userIDPrefix + uuid.New().String()
				http.SetCookie(w, &http.Cookie{
					Name:     userCookieName,
					Value:    userID,
					Path:     "/",
					Domain:   config.CookieDomain,
					MaxAge:   60 * 60 * 24 * 365,
					HttpOnly: true,
					Secure:   config.CookieSecure,
					SameSite: http.SameSiteLaxMode,
				})
			}

			ctx := ContextWithUserID(r.Context(), userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// isValidUserID はCookie値が発行済みユーザーIDの形式かを検証する。
// 形式外の値は捨てて再発行する。
func isValidUserID(value string) bool {
	if !strings.HasPrefix(value, userIDPrefix) {
		return false
	}
	_, err := uuid.Parse(strings.TrimPrefix(value, userIDPrefix))
	return err == nil
}

// UserIDFromContext はリクエストコンテキストからユーザーIDを取得する。
// 識別ミドルウェアを通過したリクエストでのみ有効。
func UserIDFromContext(ctx context.Context) (string, error) {
	userID, ok := ctx.Value(userIDContextKey).(string)
	if !ok || userID == "" {
		return "", fmt.Errorf("user ID not found in context")
	}
	return userID, nil
}

// ContextWithUserID はコンテキストにユーザーIDを注入する。
// テストやミドルウェア以外のコンテキスト生成で使用する。
func ContextWithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDContextKey, userID)
}
