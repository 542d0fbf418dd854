// Package dto はauthフィーチャーのHTTPトランスポート層のデータ転送オブジェクトを定義します。
package dto

// LoginReq は/auth/loginエンドポイントのフォームエンコードされたリクエストボディを表します。
// OAuth2パスワードフロー互換のため、usernameフィールドがメールアドレスを運びます。
type LoginReq struct {
	Username string `form:"username" binding:"required"`
	Password string `form:"password" binding:"required"`
}
