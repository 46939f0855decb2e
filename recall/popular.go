package recall

import (
	"context"
	"sort"

	"github.com/rushteam/shopkit/core"
	"github.com/rushteam/shopkit/pkg/utils"
)

// Popular 是热度兜底召回源：按 (热度分 desc, 评分 desc, 行为次数 desc) 排序，
// 平局保持目录录入顺序。
//
// 个性化信号缺失的所有场景都落到这里：冷启动用户、未训练模型、
// 空行为历史；混排时它也作为常驻输入参与加权。
// 不依赖训练状态，目录非空即可用。
type Popular struct {
	Catalog core.CatalogStore
}

func (r *Popular) Name() string { return "recall.popular" }

func (r *Popular) Recall(
	ctx context.Context,
	rctx *core.RecommendContext,
) ([]*core.Item, error) {
	if r.Catalog == nil {
		return nil, nil
	}

	products, err := r.Catalog.ListProducts(ctx)
	if err != nil {
		return nil, err
	}
	if len(products) == 0 {
		return nil, nil
	}

	counts, err := r.Catalog.CountInteractions(ctx)
	if err != nil {
		return nil, err
	}

	ordered := make([]*core.Product, len(products))
	copy(ordered, products)
	sort.SliceStable(ordered, func(i, j int) bool {
		a, b := ordered[i], ordered[j]
		if a.Popularity != b.Popularity {
			return a.Popularity > b.Popularity
		}
		if a.Rating != b.Rating {
			return a.Rating > b.Rating
		}
		return counts[a.ID] > counts[b.ID]
	})

	limit := limitOf(rctx)
	if len(ordered) > limit {
		ordered = ordered[:limit]
	}

	out := make([]*core.Item, 0, len(ordered))
	for _, p := range ordered {
		it := core.NewItem(p.ID)
		it.Score = p.Popularity
		it.PutLabel("recall_source", utils.Label{Value: "popular", Source: "recall"})
		out = append(out, it)
	}
	return out, nil
}
