package core

import (
	"context"
	"time"
)

// CatalogStore 是商品目录与行为日志的领域接口。
//
// 设计原则：
//   - 定义在领域层（core），由基础设施层（store）或业务方实现
//   - 本模块只读：目录/行为数据的写入与持久化由外部系统负责
//
// 实现：
//   - store.MemoryCatalog 实现此接口（测试/开发/原型）
//   - 业务方可用任意数据库实现此接口接入生产目录
type CatalogStore interface {
	// ListProducts 返回所有在售商品，按目录录入顺序排列。
	ListProducts(ctx context.Context) ([]*Product, error)

	// GetProducts 将一组商品 ID 解析为在售商品记录。
	// 不存在或已下架的 ID 被静默跳过，返回 map 只含解析成功的。
	GetProducts(ctx context.Context, ids []string) (map[string]*Product, error)

	// ListInteractions 返回全量行为事件，按写入顺序排列。
	ListInteractions(ctx context.Context) ([]*Interaction, error)

	// ListUserInteractions 返回某个用户的行为事件，按写入顺序排列。
	ListUserInteractions(ctx context.Context, userID string) ([]*Interaction, error)

	// CountInteractions 返回每个商品的行为事件总数（热度排序的末位键）。
	CountInteractions(ctx context.Context) (map[string]int64, error)
}

// HistoryRecord 是一次成功推荐的审计记录：谁、用了什么算法、推了哪些商品。
// 写入后不可变。
type HistoryRecord struct {
	UserID     string    `json:"user_id"`
	Algorithm  string    `json:"algorithm"`
	ProductIDs []string  `json:"product_ids"`
	Timestamp  time.Time `json:"timestamp"`
}

// HistoryStore 负责持久化推荐历史。
//
// 实现：
//   - store.KVHistory 基于 KeyValueStore（Memory/Redis 均可）
type HistoryStore interface {
	// Record 追加一条推荐历史。
	Record(ctx context.Context, rec *HistoryRecord) error

	// ListByUser 返回某个用户最近的 limit 条历史，按时间倒序。
	ListByUser(ctx context.Context, userID string, limit int) ([]*HistoryRecord, error)
}
