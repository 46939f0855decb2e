// Package service 是推荐引擎的公共入口：算法分发、历史落档、错误兜底。
package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/rushteam/shopkit/core"
	"github.com/rushteam/shopkit/engine"
	"github.com/rushteam/shopkit/filter"
	"github.com/rushteam/shopkit/pipeline"
	"github.com/rushteam/shopkit/pkg/utils"
	"github.com/rushteam/shopkit/recall"
	"github.com/rushteam/shopkit/rerank"
)

// Algorithm 是可选的推荐算法。
type Algorithm string

const (
	AlgorithmCollaborative Algorithm = "collaborative"
	AlgorithmContent       Algorithm = "content"
	AlgorithmPopular       Algorithm = "popular"
	AlgorithmHybrid        Algorithm = "hybrid"
)

// NormalizeAlgorithm 解析算法名；未识别的名称回落到 hybrid。
func NormalizeAlgorithm(name string) Algorithm {
	switch Algorithm(name) {
	case AlgorithmCollaborative, AlgorithmContent, AlgorithmPopular, AlgorithmHybrid:
		return Algorithm(name)
	}
	return AlgorithmHybrid
}

// Result 是一次推荐请求的结果。
// Degraded 表示所选算法路径失败、结果已被热度兜底替换——
// 兜底对调用方可见，而不是静默吞掉一切失败。
type Result struct {
	Products  []*core.Product
	Algorithm Algorithm
	Degraded  bool
	Reason    string
}

// Recommender 是推荐服务：持有引擎实例与目录接口，对外提供
// GetRecommendations / SimilarProducts / Retrain 三个操作。
//
// 并发约定：查询只读引擎快照，可任意并发；Retrain 预期由离线/
// 管理路径调用，与查询并发安全（快照原子替换）。
type Recommender struct {
	catalog core.CatalogStore
	engine  *engine.Engine
	history core.HistoryStore
	filters []filter.Filter

	sources map[Algorithm]recall.Source

	now func() time.Time
}

// Option 配置 Recommender。
type Option func(*Recommender)

// WithHistory 启用推荐历史落档。
func WithHistory(h core.HistoryStore) Option {
	return func(r *Recommender) { r.history = h }
}

// WithFilters 追加服务级过滤器（黑名单、规则等），作用于所有算法路径。
func WithFilters(filters ...filter.Filter) Option {
	return func(r *Recommender) { r.filters = append(r.filters, filters...) }
}

// WithHybridWeights 覆盖混排三路权重。
func WithHybridWeights(collaborative, content, popular float64) Option {
	return func(r *Recommender) {
		if h, ok := r.sources[AlgorithmHybrid].(*rerank.Hybrid); ok {
			h.CollaborativeWeight = collaborative
			h.ContentWeight = content
			h.PopularWeight = popular
		}
	}
}

// WithNeighbors 覆盖协同召回的相似用户数。
func WithNeighbors(n int) Option {
	return func(r *Recommender) {
		if c, ok := r.sources[AlgorithmCollaborative].(*recall.Collaborative); ok {
			c.Neighbors = n
		}
	}
}

func New(catalog core.CatalogStore, eng *engine.Engine, opts ...Option) *Recommender {
	popular := &recall.Popular{Catalog: catalog}
	collaborative := &recall.Collaborative{Engine: eng, Fallback: popular}
	content := &recall.Content{Engine: eng, Catalog: catalog, Fallback: popular}
	hybrid := &rerank.Hybrid{
		Collaborative: collaborative,
		Content:       content,
		Popular:       popular,
	}

	r := &Recommender{
		catalog: catalog,
		engine:  eng,
		sources: map[Algorithm]recall.Source{
			AlgorithmCollaborative: collaborative,
			AlgorithmContent:       content,
			AlgorithmPopular:       popular,
			AlgorithmHybrid:        hybrid,
		},
		now: time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// GetRecommendations 为用户生成至多 limit 条推荐。
//
// 行为约定：
//   - algorithm ∈ {collaborative, content, popular, hybrid}，其他值按 hybrid
//   - limit <= 0 按默认条数处理
//   - 所选算法路径出错时，结果替换为热度兜底并标记 Degraded，不向上抛错；
//     只有兜底路径本身也失败（目录不可用）才返回错误
//   - 仅非空且未降级的结果写推荐历史；历史写失败不影响返回
//   - 候选不足 limit 时返回实际数量，不凑数
func (r *Recommender) GetRecommendations(
	ctx context.Context,
	userID string,
	algorithm string,
	limit int,
) (*Result, error) {
	return r.Recommend(ctx, &core.RecommendContext{UserID: userID, Limit: limit}, algorithm)
}

// Recommend 是 GetRecommendations 的完整形态：接受整个请求上下文，
// 场景、请求级参数（如 Params["exclude_products"]）随链路透传。
func (r *Recommender) Recommend(
	ctx context.Context,
	rctx *core.RecommendContext,
	algorithm string,
) (*Result, error) {
	alg := NormalizeAlgorithm(algorithm)
	if rctx.Limit <= 0 {
		rctx.Limit = recall.DefaultLimit
	}

	products, err := r.run(ctx, rctx, r.sources[alg], alg)
	if err != nil {
		// 热度兜底：推荐请求不向用户侧硬失败
		fallback, ferr := r.run(ctx, rctx, r.sources[AlgorithmPopular], AlgorithmPopular)
		if ferr != nil {
			return nil, fmt.Errorf("service: fallback after %q failed: %w", alg, ferr)
		}
		return &Result{
			Products:  fallback,
			Algorithm: alg,
			Degraded:  true,
			Reason:    err.Error(),
		}, nil
	}

	res := &Result{Products: products, Algorithm: alg}
	if len(products) > 0 && r.history != nil {
		rec := &core.HistoryRecord{
			UserID:    rctx.UserID,
			Algorithm: string(alg),
			Timestamp: r.now(),
		}
		for _, p := range products {
			rec.ProductIDs = append(rec.ProductIDs, p.ID)
		}
		// 历史是审计旁路，写失败不影响本次返回
		_ = r.history.Record(ctx, rec)
	}
	return res, nil
}

// run 执行一条算法路径：召回 → 可用性解析 → 服务级过滤 → 截断。
func (r *Recommender) run(
	ctx context.Context,
	rctx *core.RecommendContext,
	src recall.Source,
	alg Algorithm,
) ([]*core.Product, error) {
	items, err := src.Recall(ctx, rctx)
	if err != nil {
		return nil, err
	}
	for _, it := range items {
		it.PutLabel("algorithm", utils.Label{Value: string(alg), Source: "service"})
	}

	filters := make([]filter.Filter, 0, 1+len(r.filters))
	filters = append(filters, &filter.ExcludeFilter{})
	filters = append(filters, r.filters...)

	serve := &pipeline.Pipeline{Nodes: []pipeline.Node{
		&filter.AvailableNode{Catalog: r.catalog},
		&filter.FilterNode{Filters: filters},
		&rerank.TopNNode{N: rctx.Limit},
	}}
	items, err = serve.Run(ctx, rctx, items)
	if err != nil {
		return nil, err
	}

	products := make([]*core.Product, 0, len(items))
	for _, it := range items {
		if p := it.Product(); p != nil {
			products = append(products, p)
		}
	}
	return products, nil
}

// SimilarProducts 返回与指定商品最相似的至多 limit 个在售商品。
// 内容模型已训练且覆盖该商品时用相似度行；否则退化为同类目商品
// （目录序，排除自身）。
func (r *Recommender) SimilarProducts(
	ctx context.Context,
	productID string,
	limit int,
) ([]*core.Product, error) {
	if limit <= 0 {
		limit = recall.DefaultLimit
	}

	snap := r.engine.Snapshot()
	if row, ok := snap.SimRow(productID); ok {
		return r.similarByRow(ctx, productID, row, snap, limit)
	}
	return r.similarByCategory(ctx, productID, limit)
}

func (r *Recommender) similarByRow(
	ctx context.Context,
	productID string,
	row []float64,
	snap *engine.Snapshot,
	limit int,
) ([]*core.Product, error) {
	ids := make([]string, 0, len(row))
	for j := range row {
		if snap.SimProducts[j] == productID {
			continue
		}
		ids = append(ids, snap.SimProducts[j])
	}
	simOf := make(map[string]float64, len(ids))
	for j, id := range snap.SimProducts {
		simOf[id] = row[j]
	}
	sort.SliceStable(ids, func(a, b int) bool {
		return simOf[ids[a]] > simOf[ids[b]]
	})
	if len(ids) > limit {
		ids = ids[:limit]
	}

	resolved, err := r.catalog.GetProducts(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("service: resolve similar products: %w", err)
	}
	out := make([]*core.Product, 0, len(ids))
	for _, id := range ids {
		if p, ok := resolved[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *Recommender) similarByCategory(
	ctx context.Context,
	productID string,
	limit int,
) ([]*core.Product, error) {
	seed, err := r.catalog.GetProducts(ctx, []string{productID})
	if err != nil {
		return nil, fmt.Errorf("service: resolve product %q: %w", productID, err)
	}
	p, ok := seed[productID]
	if !ok {
		return nil, nil
	}

	products, err := r.catalog.ListProducts(ctx)
	if err != nil {
		return nil, fmt.Errorf("service: list products: %w", err)
	}
	out := make([]*core.Product, 0, limit)
	for _, cand := range products {
		if cand.ID == productID || cand.Category != p.Category {
			continue
		}
		out = append(out, cand)
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

// Retrain 全量重训协同与内容模型。同步阻塞，预期由离线任务触发；
// 训练失败向调用方返回错误，已有快照保持可查。幂等，可重复调用。
func (r *Recommender) Retrain(ctx context.Context) error {
	return r.engine.Train(ctx)
}
