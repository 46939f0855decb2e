package filter

import (
	"context"

	"github.com/rushteam/shopkit/core"
	"github.com/rushteam/shopkit/pipeline"
)

// AvailableNode 把候选 ID 批量解析为在售商品记录。
//
// 解析成功的候选把商品记录挂到 Meta["product"]；
// 解析失败的候选（商品已下架/已删除）被静默跳过，不中断整次排序。
// 这是候选离开推荐链路前的最后一道解析，下游直接消费商品记录。
type AvailableNode struct {
	Catalog core.CatalogStore
}

func (n *AvailableNode) Name() string {
	return "filter.available"
}

func (n *AvailableNode) Kind() pipeline.Kind {
	return pipeline.KindFilter
}

func (n *AvailableNode) Process(
	ctx context.Context,
	rctx *core.RecommendContext,
	items []*core.Item,
) ([]*core.Item, error) {
	if n.Catalog == nil || len(items) == 0 {
		return items, nil
	}

	ids := make([]string, 0, len(items))
	for _, it := range items {
		if it != nil {
			ids = append(ids, it.ID)
		}
	}

	resolved, err := n.Catalog.GetProducts(ctx, ids)
	if err != nil {
		return nil, err
	}

	out := make([]*core.Item, 0, len(items))
	for _, it := range items {
		if it == nil {
			continue
		}
		p, ok := resolved[it.ID]
		if !ok {
			continue
		}
		if it.Meta == nil {
			it.Meta = make(map[string]any)
		}
		it.Meta["product"] = p
		out = append(out, it)
	}
	return out, nil
}
