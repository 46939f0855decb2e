package rerank

import (
	"context"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/rushteam/shopkit/core"
	"github.com/rushteam/shopkit/pkg/utils"
	"github.com/rushteam/shopkit/recall"
)

// 位置加权的默认权重：协同 0.4、内容 0.4、热门 0.2。
const (
	DefaultCollaborativeWeight = 0.4
	DefaultContentWeight       = 0.4
	DefaultPopularWeight       = 0.2
)

// Hybrid 是混排器：把协同、内容、热门三路有序列表融合为一路。
//
// 算法（位置加权融合）：
//  1. 向协同与内容各请求 2n 条，向热门请求 n 条（并发）
//  2. 列表内第 i 位的位置分 = (列表长度 - i) × 该路权重
//  3. 同一商品跨列表累加位置分
//  4. 按总分降序；平局按商品首次出现的顺序（协同 → 内容 → 热门）
//
// 融合是三路输入与权重的纯函数：输入列表固定时输出确定可复现。
// 取前 n 后由下游解析为在售商品，失效 ID 被跳过，结果可能不足 n。
type Hybrid struct {
	Collaborative recall.Source
	Content       recall.Source
	Popular       recall.Source

	// 三路权重；<= 0 的分量取默认值。
	CollaborativeWeight float64
	ContentWeight       float64
	PopularWeight       float64
}

func (r *Hybrid) Name() string { return "rerank.hybrid" }

var _ recall.Source = (*Hybrid)(nil)

func (r *Hybrid) Recall(
	ctx context.Context,
	rctx *core.RecommendContext,
) ([]*core.Item, error) {
	if rctx == nil {
		return nil, nil
	}
	limit := rctx.Limit
	if limit <= 0 {
		limit = recall.DefaultLimit
	}

	// 三路并发取数；单路失败让错误冒泡，由服务层统一兜底
	var collab, content, popular []*core.Item
	eg, egCtx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		var err error
		collab, err = r.fetch(egCtx, rctx, r.Collaborative, limit*2)
		return err
	})
	eg.Go(func() error {
		var err error
		content, err = r.fetch(egCtx, rctx, r.Content, limit*2)
		return err
	})
	eg.Go(func() error {
		var err error
		popular, err = r.fetch(egCtx, rctx, r.Popular, limit)
		return err
	})
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	// 固定顺序累加，保证平局序（首次出现序）可复现
	scores := make(map[string]float64)
	order := make([]string, 0, len(collab)+len(content)+len(popular))
	accumulate := func(list []*core.Item, weight float64) {
		for i, it := range list {
			if it == nil {
				continue
			}
			if _, ok := scores[it.ID]; !ok {
				order = append(order, it.ID)
			}
			scores[it.ID] += float64(len(list)-i) * weight
		}
	}
	accumulate(collab, r.weight(r.CollaborativeWeight, DefaultCollaborativeWeight))
	accumulate(content, r.weight(r.ContentWeight, DefaultContentWeight))
	accumulate(popular, r.weight(r.PopularWeight, DefaultPopularWeight))

	sortByScoreStable(order, scores)
	if len(order) > limit {
		order = order[:limit]
	}

	out := make([]*core.Item, 0, len(order))
	for _, id := range order {
		it := core.NewItem(id)
		it.Score = scores[id]
		it.PutLabel("recall_source", utils.Label{Value: "hybrid", Source: "rerank"})
		out = append(out, it)
	}
	return out, nil
}

// fetch 以指定条数调用一路召回源。
func (r *Hybrid) fetch(
	ctx context.Context,
	rctx *core.RecommendContext,
	src recall.Source,
	limit int,
) ([]*core.Item, error) {
	if src == nil {
		return nil, nil
	}
	sub := *rctx
	sub.Limit = limit
	items, err := src.Recall(ctx, &sub)
	if err != nil {
		return nil, err
	}
	if len(items) > limit {
		items = items[:limit]
	}
	return items, nil
}

func (r *Hybrid) weight(w, def float64) float64 {
	if w <= 0 {
		return def
	}
	return w
}

// sortByScoreStable 按分数降序稳定排序，平局保持切片原有顺序。
func sortByScoreStable(ids []string, scores map[string]float64) {
	sort.SliceStable(ids, func(a, b int) bool {
		return scores[ids[a]] > scores[ids[b]]
	})
}
