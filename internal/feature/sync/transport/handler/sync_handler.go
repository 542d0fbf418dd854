// Package handler はsyncフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/micvant/TimeCheck-backend/internal/api"
	"github.com/micvant/TimeCheck-backend/internal/feature/sync/domain/entity"
	"github.com/micvant/TimeCheck-backend/internal/feature/sync/transport/http/dto"
	"github.com/micvant/TimeCheck-backend/internal/feature/sync/usecase"
	jwtmw "github.com/micvant/TimeCheck-backend/internal/platform/jwt"
)

// SyncUsecase は同期操作のユースケースを定義します。
// Goの慣例に従い、インターフェースはプロバイダー（usecase）ではなくコンシューマー（handler）が定義します。
type SyncUsecase interface {
	// Sync はクライアント変更を取り込み、サーバー確定状態の差分と新しいカーソルを返します。
	Sync(ctx context.Context, userID uint, cursor int64, tasks []entity.Task, entries []entity.TimeEntry) (*usecase.SyncResult, error)
}

// SyncHandler は同期操作のHTTPリクエストを処理します。
type SyncHandler struct {
	sync SyncUsecase
}

// NewSyncHandler はSyncHandlerの新しいインスタンスを生成します。
// 依存性注入用のコンストラクタで、外部からSyncUsecaseを注入します。
func NewSyncHandler(sync SyncUsecase) *SyncHandler {
	return &SyncHandler{sync: sync}
}

// Sync は同期APIエンドポイントを処理します。
// - 認証ミドルウェアが設定したユーザーIDをコンテキストから取得
// - リクエストJSONをSyncReqにバインド（不正時は422）
// - 検証エラー（カーソル負値・不正ペイロード）は422、それ以外の失敗は500
// - 成功時は確定済み差分と新カーソルを200で返却
func (h *SyncHandler) Sync(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "unauthorized"})
		return
	}

	var req dto.SyncReq
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Warn("sync validation failed", "error", err, "user_id", userID)
		c.JSON(http.StatusUnprocessableEntity, api.ErrorResponse{Error: "invalid request"})
		return
	}

	tasks := make([]entity.Task, 0, len(req.Changes.Tasks))
	for _, p := range req.Changes.Tasks {
		tasks = append(tasks, p.ToEntity())
	}
	entries := make([]entity.TimeEntry, 0, len(req.Changes.TimeEntries))
	for _, p := range req.Changes.TimeEntries {
		entries = append(entries, p.ToEntity())
	}

	result, err := h.sync.Sync(c.Request.Context(), userID, req.LastSyncRev, tasks, entries)
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrInvalidCursor),
			errors.Is(err, usecase.ErrInvalidTask),
			errors.Is(err, usecase.ErrInvalidEntry):
			slog.Warn("sync rejected", "error", err, "user_id", userID)
			c.JSON(http.StatusUnprocessableEntity, api.ErrorResponse{Error: err.Error()})
		default:
			slog.Error("sync failed", "error", err, "user_id", userID)
			c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "internal server error"})
		}
		return
	}

	res := dto.SyncRes{
		ServerTime:  result.ServerTime,
		NewCursor:   result.NewCursor,
		Tasks:       make([]dto.TaskPayload, 0, len(result.Tasks)),
		TimeEntries: make([]dto.TimeEntryPayload, 0, len(result.Entries)),
	}
	for _, t := range result.Tasks {
		res.Tasks = append(res.Tasks, dto.FromTask(t))
	}
	for _, e := range result.Entries {
		res.TimeEntries = append(res.TimeEntries, dto.FromTimeEntry(e))
	}

	slog.Info("sync completed", "user_id", userID,
		"submitted_tasks", len(tasks), "submitted_entries", len(entries),
		"merged_tasks", len(res.Tasks), "merged_entries", len(res.TimeEntries),
		"new_cursor", res.NewCursor)
	c.JSON(http.StatusOK, res)
}

// currentUserID は認証ミドルウェアがコンテキストに設定したユーザーIDを取り出します。
func currentUserID(c *gin.Context) (uint, bool) {
	v, exists := c.Get(jwtmw.ContextUserID)
	if !exists {
		return 0, false
	}
	id, ok := v.(uint)
	return id, ok
}
