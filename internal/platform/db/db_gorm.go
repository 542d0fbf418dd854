// Package db はGORMによるデータベース接続とマイグレーションを提供します。
package db

import (
	"fmt"
	"log"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/micvant/TimeCheck-backend/internal/config"
	authentity "github.com/micvant/TimeCheck-backend/internal/feature/auth/domain/entity"
	syncentity "github.com/micvant/TimeCheck-backend/internal/feature/sync/domain/entity"
)

// Opener はダイアレクタからgormセッションを確立します。テストで差し替えます。
type Opener func(dialector gorm.Dialector) (*gorm.DB, error)

// retryInterval は接続リトライの間隔。テストから短縮できるようvarにしています。
var retryInterval = 3 * time.Second

// DialectorFor は設定から接続先を選択します。
// DATABASE_URLが設定されていればPostgreSQL、なければローカルのSQLiteファイルです。
func DialectorFor(cfg config.Config) gorm.Dialector {
	if cfg.DatabaseURL != "" {
		return postgres.Open(cfg.DatabaseURL)
	}
	return sqlite.Open(cfg.SQLitePath)
}

// defaultOpener は本番用のオープナーです。
// TranslateError: 重複キー等をgorm.ErrDuplicatedKeyへ正規化する（authアダプターが依存）。
func defaultOpener(dialector gorm.Dialector) (*gorm.DB, error) {
	return gorm.Open(dialector, &gorm.Config{TranslateError: true})
}

// ConnectWithRetry はtimeoutまで接続を試行し続けます。
// コンテナ起動直後などDBが未準備の間のリトライを想定しています。
func ConnectWithRetry(dialector gorm.Dialector, timeout time.Duration, open Opener) (*gorm.DB, error) {
	deadline := time.Now().Add(timeout)
	for {
		db, err := open(dialector)
		if err == nil {
			return db, nil
		}
		if time.Now().After(deadline) {
			return nil, fmt.Errorf("database connect failed after %s: %w", timeout, err)
		}
		log.Printf("database connect failed, retrying...: %v", err)
		time.Sleep(retryInterval)
	}
}

// Migrate は全テーブルのスキーマを作成・更新します。
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&authentity.User{},
		&syncentity.Task{},
		&syncentity.TimeEntry{},
		&syncentity.SyncState{},
	)
}

// OpenDB は設定に従って接続を確立し、RUN_MIGRATIONS=trueならマイグレーションを実行します。
func OpenDB(cfg config.Config) *gorm.DB {
	db, err := ConnectWithRetry(DialectorFor(cfg), 60*time.Second, defaultOpener)
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}

	if cfg.RunMigrations {
		if err := Migrate(db); err != nil {
			log.Fatalf("failed to migrate: %v", err)
		}
	}

	return db
}
