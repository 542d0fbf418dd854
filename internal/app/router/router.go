package router

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	authhandler "github.com/micvant/TimeCheck-backend/internal/feature/auth/transport/handler"
	synchandler "github.com/micvant/TimeCheck-backend/internal/feature/sync/transport/handler"
	"github.com/micvant/TimeCheck-backend/internal/platform/http/handler"
	jwtmw "github.com/micvant/TimeCheck-backend/internal/platform/jwt"
)

func NewRouter(authHandler *authhandler.AuthHandler, sync *synchandler.SyncHandler,
	verifier jwtmw.Verifier) *gin.Engine {
	r := gin.Default()
	// CORS のデフォルト設定を有効
	r.Use(cors.Default())

	// 認証不要
	// 導通確認用
	r.GET("/health", handler.Health)
	// 新規ユーザー登録（JWT 発行）
	r.POST("/auth/register", authHandler.Register)
	// ログイン（JWT 発行）
	r.POST("/auth/login", authHandler.Login)

	// 認証必須のルート
	// r.Group("/") でルートグループを作成
	auth := r.Group("/")
	// jwtmw.AuthRequired() ミドルウェアを適用
	// → リクエストヘッダーに JWT が必要になる
	auth.Use(jwtmw.AuthRequired(verifier))
	{
		auth.POST("/sync", sync.Sync)
	}

	return r
}
