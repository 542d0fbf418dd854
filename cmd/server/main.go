package main

import (
	"log"

	redisv9 "github.com/redis/go-redis/v9"

	"github.com/micvant/TimeCheck-backend/internal/app/di"
	"github.com/micvant/TimeCheck-backend/internal/app/router"
	"github.com/micvant/TimeCheck-backend/internal/config"
	authadapters "github.com/micvant/TimeCheck-backend/internal/feature/auth/adapters"
	authhandler "github.com/micvant/TimeCheck-backend/internal/feature/auth/transport/handler"
	authusecase "github.com/micvant/TimeCheck-backend/internal/feature/auth/usecase"
	syncadapters "github.com/micvant/TimeCheck-backend/internal/feature/sync/adapters"
	synchandler "github.com/micvant/TimeCheck-backend/internal/feature/sync/transport/handler"
	syncusecase "github.com/micvant/TimeCheck-backend/internal/feature/sync/usecase"
	"github.com/micvant/TimeCheck-backend/internal/platform/db"
	jwtmw "github.com/micvant/TimeCheck-backend/internal/platform/jwt"
	platformredis "github.com/micvant/TimeCheck-backend/internal/platform/redis"
)

func main() {
	// 設定読み込み（.env対応）
	cfg := config.Load()

	// JWT_SECRETチェック（開発中の注意喚起）
	if cfg.JWTSecret == "" {
		log.Println("[WARN] JWT_SECRET is not set. Set a strong secret in production.")
	}

	// db
	gormDB := db.OpenDB(*cfg)

	// Redis（未設定なら素通し、接続失敗でも起動は続行）
	var rdb *redisv9.Client
	if cfg.RedisEnabled() {
		if tmp, err := platformredis.NewRedisClient(*cfg); err != nil {
			log.Println("[WARN] Redis unavailable. Running without cache.")
		} else {
			rdb = tmp
			defer func() {
				if err := rdb.Close(); err != nil {
					log.Println("[ERROR] Failed to close Redis client:", err)
				}
			}()
		}
	}

	// トークン発行・検証サービス
	tokens := jwtmw.NewService(cfg.JWTSecret, cfg.TokenTTL)

	// Repository
	userRepo := authadapters.NewUserGorm(gormDB)
	taskRepo := syncadapters.NewTaskGorm(gormDB)
	// エントリ差分はRedisキャッシュでラップ
	entryRepo := di.NewEntryRepository(rdb, gormDB)

	// Usecase
	authUC := authusecase.NewAuthUsecase(userRepo, tokens)
	syncUC := syncusecase.NewSyncUsecase(taskRepo, entryRepo)

	// Handler
	authH := authhandler.NewAuthHandler(authUC)
	syncH := synchandler.NewSyncHandler(syncUC)

	// ルータ生成
	r := router.NewRouter(authH, syncH, tokens)

	if err := r.Run(cfg.Addr); err != nil {
		log.Fatal(err)
	}
}
