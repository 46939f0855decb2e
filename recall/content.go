package recall

import (
	"context"
	"sort"

	"github.com/rushteam/shopkit/core"
	"github.com/rushteam/shopkit/engine"
	"github.com/rushteam/shopkit/pkg/utils"
)

// Content 是基于内容的召回源（Content-Based Recommendation）。
//
// 核心思想："用户正向交互过某些商品，推荐文本特征相似的其他商品"
//
// 算法流程：
//  1. 离线：商品文本 TF-IDF 向量化 + 全量两两余弦相似度矩阵
//  2. 在线：取用户 like / purchase / add_to_cart 过的商品
//  3. 对每个这样的商品查相似度行，把相似度累加到用户未正向交互
//     的其他商品上（与多个源商品相似的候选获得多次累加）
//
// 平局规则：累计分相同按相似度矩阵行序（目录录入序）。
// 兜底：模型未训练或用户无正向行为时转热度召回。
type Content struct {
	Engine  *engine.Engine
	Catalog core.CatalogStore

	// Fallback 个性化不可用时的兜底召回源（通常为 Popular）。
	Fallback Source
}

func (r *Content) Name() string { return "recall.content" }

func (r *Content) Recall(
	ctx context.Context,
	rctx *core.RecommendContext,
) ([]*core.Item, error) {
	if r.Engine == nil || r.Catalog == nil || rctx == nil || rctx.UserID == "" {
		return nil, nil
	}

	snap := r.Engine.Snapshot()
	if !snap.HasContent() {
		return r.fallback(ctx, rctx)
	}

	interactions, err := r.Catalog.ListUserInteractions(ctx, rctx.UserID)
	if err != nil {
		return nil, err
	}

	// 用户正向交互过的商品（保持首次出现序）
	owned := make(map[string]struct{})
	sources := make([]string, 0)
	for _, in := range interactions {
		if !in.Kind.Positive() {
			continue
		}
		if _, ok := owned[in.ProductID]; ok {
			continue
		}
		owned[in.ProductID] = struct{}{}
		sources = append(sources, in.ProductID)
	}
	if len(sources) == 0 {
		return r.fallback(ctx, rctx)
	}

	// 相似度行累加
	scores := make(map[string]float64)
	for _, src := range sources {
		row, ok := snap.SimRow(src)
		if !ok {
			// 商品训练后下架/新上架，跳过该源
			continue
		}
		for j, sim := range row {
			pid := snap.SimProducts[j]
			if pid == src {
				continue
			}
			if _, ok := owned[pid]; ok {
				continue
			}
			scores[pid] += sim
		}
	}
	if len(scores) == 0 {
		// 正向商品全部不在训练集（训练后才产生的行为），无候选可给
		return nil, nil
	}

	// 候选按行序枚举，稳定排序后平局即行序
	candidates := make([]string, 0, len(scores))
	for _, pid := range snap.SimProducts {
		if _, ok := scores[pid]; ok {
			candidates = append(candidates, pid)
		}
	}
	sort.SliceStable(candidates, func(a, b int) bool {
		return scores[candidates[a]] > scores[candidates[b]]
	})

	limit := limitOf(rctx)
	if len(candidates) > limit {
		candidates = candidates[:limit]
	}

	out := make([]*core.Item, 0, len(candidates))
	for _, pid := range candidates {
		it := core.NewItem(pid)
		it.Score = scores[pid]
		it.PutLabel("recall_source", utils.Label{Value: "content", Source: "recall"})
		out = append(out, it)
	}
	return out, nil
}

func (r *Content) fallback(
	ctx context.Context,
	rctx *core.RecommendContext,
) ([]*core.Item, error) {
	if r.Fallback == nil {
		return nil, nil
	}
	return r.Fallback.Recall(ctx, rctx)
}
