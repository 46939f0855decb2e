package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rushteam/shopkit/core"
)

// KVHistory 是基于 KeyValueStore 的推荐历史实现。
// 每个用户一条有序集合时间线：score = 记录时间戳（纳秒），member = JSON 记录。
// Memory/Redis 后端均可承载。
type KVHistory struct {
	kv        core.KeyValueStore
	keyPrefix string // 默认 "rec:history"
}

func NewKVHistory(kv core.KeyValueStore, keyPrefix string) *KVHistory {
	if keyPrefix == "" {
		keyPrefix = "rec:history"
	}
	return &KVHistory{kv: kv, keyPrefix: keyPrefix}
}

var _ core.HistoryStore = (*KVHistory)(nil)

func (h *KVHistory) key(userID string) string {
	return h.keyPrefix + ":" + userID
}

func (h *KVHistory) Record(ctx context.Context, rec *core.HistoryRecord) error {
	if rec == nil || rec.UserID == "" {
		return core.NewDomainError(core.ModuleStore, core.ErrorCodeInvalidInput, "history: empty record")
	}
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("history: marshal record: %w", err)
	}
	score := float64(rec.Timestamp.UnixNano())
	if err := h.kv.ZAdd(ctx, h.key(rec.UserID), score, string(data)); err != nil {
		return fmt.Errorf("history: zadd: %w", err)
	}
	return nil
}

func (h *KVHistory) ListByUser(ctx context.Context, userID string, limit int) ([]*core.HistoryRecord, error) {
	if limit <= 0 {
		limit = 10
	}
	members, err := h.kv.ZRange(ctx, h.key(userID), 0, int64(limit-1))
	if err != nil {
		return nil, fmt.Errorf("history: zrange: %w", err)
	}
	out := make([]*core.HistoryRecord, 0, len(members))
	for _, m := range members {
		var rec core.HistoryRecord
		if err := json.Unmarshal([]byte(m), &rec); err != nil {
			// 脏数据跳过，不中断读取
			continue
		}
		out = append(out, &rec)
	}
	return out, nil
}
