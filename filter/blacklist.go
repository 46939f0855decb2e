package filter

import (
	"context"

	"github.com/rushteam/shopkit/core"
)

// BlacklistFilter 是基于静态名单或 KV 存储的商品黑名单过滤器。
// 运营侧临时下线、召回商品等场景使用。
//
// 判定顺序：
//  1. 内存名单 IDs
//  2. Store 不为空时查 key 的 Hash 字段（field = 商品 ID）
type BlacklistFilter struct {
	ids   map[string]struct{}
	store core.KeyValueStore
	key   string
}

func NewBlacklistFilter(ids []string, store core.KeyValueStore, key string) *BlacklistFilter {
	set := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return &BlacklistFilter{ids: set, store: store, key: key}
}

func (f *BlacklistFilter) Name() string {
	return "filter.blacklist"
}

func (f *BlacklistFilter) ShouldFilter(
	ctx context.Context,
	rctx *core.RecommendContext,
	item *core.Item,
) (bool, error) {
	if item == nil {
		return false, nil
	}
	if _, ok := f.ids[item.ID]; ok {
		return true, nil
	}
	if f.store != nil && f.key != "" {
		if _, err := f.store.HGet(ctx, f.key, item.ID); err == nil {
			return true, nil
		} else if !core.IsStoreNotFound(err) {
			return false, err
		}
	}
	return false, nil
}
