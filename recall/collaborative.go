package recall

import (
	"context"
	"sort"

	"github.com/rushteam/shopkit/core"
	"github.com/rushteam/shopkit/engine"
	"github.com/rushteam/shopkit/matrix"
	"github.com/rushteam/shopkit/pkg/utils"
)

// Collaborative 是基于用户的协同过滤召回源（User-CF，隐空间版）。
//
// 核心思想："兴趣相似的用户，喜欢相似的商品"
//
// 算法流程：
//  1. 离线：评分矩阵做截断 SVD，每个用户一条隐向量
//  2. 在线：目标用户隐向量 vs 全体用户隐向量的余弦相似度
//  3. 取 TopK 相似用户（排除自己）
//  4. 候选分 = Σ(邻居对该商品的原始评分 × 邻居相似度)，
//     只计邻居评分为正的商品，排除目标用户已正向交互的商品
//
// 平局规则：候选分相同按矩阵列序（商品首次出现序）。
// 兜底：模型未训练或用户不在矩阵中时转热度召回。
type Collaborative struct {
	Engine *engine.Engine

	// Fallback 个性化不可用时的兜底召回源（通常为 Popular）。
	Fallback Source

	// Neighbors 参与评分累加的相似用户数；<= 0 时取 20。
	Neighbors int
}

func (r *Collaborative) Name() string { return "recall.collaborative" }

func (r *Collaborative) Recall(
	ctx context.Context,
	rctx *core.RecommendContext,
) ([]*core.Item, error) {
	if r.Engine == nil || rctx == nil || rctx.UserID == "" {
		return nil, nil
	}

	snap := r.Engine.Snapshot()
	if !snap.HasCollaborative() {
		return r.fallback(ctx, rctx)
	}

	uidx, ok := snap.Matrix.UserIndex(rctx.UserID)
	if !ok {
		return r.fallback(ctx, rctx)
	}

	target := snap.Latent[uidx]
	targetRow := snap.Matrix.Scores[uidx]

	// 与全体用户的隐空间余弦相似度
	sims := make([]float64, len(snap.Latent))
	for i, vec := range snap.Latent {
		sims[i] = matrix.CosineSimilarity(target, vec)
	}

	// TopK 相似用户，显式排除自己；相似度相同按行序
	order := make([]int, 0, len(sims)-1)
	for i := range sims {
		if i == uidx {
			continue
		}
		order = append(order, i)
	}
	sort.SliceStable(order, func(a, b int) bool {
		return sims[order[a]] > sims[order[b]]
	})
	topK := r.Neighbors
	if topK <= 0 {
		topK = 20
	}
	if len(order) > topK {
		order = order[:topK]
	}

	// 候选分累加：邻居原始评分 × 邻居相似度
	scores := make([]float64, len(snap.Matrix.Products))
	touched := make([]bool, len(snap.Matrix.Products))
	for _, i := range order {
		row := snap.Matrix.Scores[i]
		sim := sims[i]
		for j, raw := range row {
			if raw <= 0 {
				continue
			}
			if targetRow[j] > 0 {
				// 目标用户已正向交互，不再推荐
				continue
			}
			scores[j] += raw * sim
			touched[j] = true
		}
	}

	// 按分数降序排序，平局保持列序
	cols := make([]int, 0)
	for j := range scores {
		if touched[j] {
			cols = append(cols, j)
		}
	}
	sort.SliceStable(cols, func(a, b int) bool {
		return scores[cols[a]] > scores[cols[b]]
	})

	limit := limitOf(rctx)
	if len(cols) > limit {
		cols = cols[:limit]
	}

	out := make([]*core.Item, 0, len(cols))
	for _, j := range cols {
		it := core.NewItem(snap.Matrix.Products[j])
		it.Score = scores[j]
		it.PutLabel("recall_source", utils.Label{Value: "collaborative", Source: "recall"})
		out = append(out, it)
	}
	return out, nil
}

func (r *Collaborative) fallback(
	ctx context.Context,
	rctx *core.RecommendContext,
) ([]*core.Item, error) {
	if r.Fallback == nil {
		return nil, nil
	}
	return r.Fallback.Recall(ctx, rctx)
}
