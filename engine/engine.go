// Package engine 持有推荐引擎的进程级训练状态：
// 评分矩阵、低秩分解、商品相似度矩阵与向量化器。
//
// 并发模型：查询方通过 Snapshot() 拿到不可变快照，任意并发读；
// Train 在旁路构建完整的新快照后做一次原子指针替换，
// 读方要么看到全旧、要么看到全新状态，不会读到撕裂的组合。
// 训练失败时旧快照原样保留（从未训练成功则保持未训练态）。
package engine

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/rushteam/shopkit/core"
	"github.com/rushteam/shopkit/feature"
	"github.com/rushteam/shopkit/matrix"
)

// Snapshot 是一次训练的完整产物，训练后只读。
type Snapshot struct {
	TrainedAt time.Time

	// 协同部分；零事件时 Matrix 为 nil，SVD 退化时为 nil
	Matrix *matrix.Matrix
	SVD    *matrix.TruncatedSVD
	Latent [][]float64 // 与 Matrix 行对齐的用户隐向量

	// 内容部分；零商品时 SimProducts/Sim 为空
	Vectorizer  *feature.Vectorizer
	SimProducts []string // 相似度矩阵的行/列商品序（目录序）
	Sim         [][]float64

	simIndex map[string]int
}

// HasCollaborative 返回协同模型是否可用。
func (s *Snapshot) HasCollaborative() bool {
	return s != nil && s.Matrix != nil && s.SVD != nil && s.SVD.Fitted()
}

// HasContent 返回内容模型是否可用。
func (s *Snapshot) HasContent() bool {
	return s != nil && len(s.Sim) > 0
}

// SimRow 返回某商品的相似度行；商品不在训练集时返回 (nil, false)。
func (s *Snapshot) SimRow(productID string) ([]float64, bool) {
	if s == nil || s.simIndex == nil {
		return nil, false
	}
	i, ok := s.simIndex[productID]
	if !ok {
		return nil, false
	}
	return s.Sim[i], true
}

// Engine 是引擎实例：显式构造、显式训练，不做隐式全局单例。
// 调用方持有一个长生命周期实例，并把它注入服务层。
type Engine struct {
	catalog     core.CatalogStore
	latentDim   int
	maxFeatures int
	kernel      feature.Kernel
	stopwords   map[string]struct{}

	snap atomic.Pointer[Snapshot]
}

// Option 配置 Engine。
type Option func(*Engine)

// WithLatentDim 设置协同分解的隐空间维度上限（默认 50）。
func WithLatentDim(k int) Option {
	return func(e *Engine) { e.latentDim = k }
}

// WithMaxFeatures 设置 TF-IDF 词表大小上限（默认 1000）。
func WithMaxFeatures(n int) Option {
	return func(e *Engine) { e.maxFeatures = n }
}

// WithKernel 设置两两相似度的计算核（默认快路径核）。
func WithKernel(k feature.Kernel) Option {
	return func(e *Engine) { e.kernel = k }
}

// WithStopwords 覆盖内置停用词表。
func WithStopwords(words map[string]struct{}) Option {
	return func(e *Engine) { e.stopwords = words }
}

func New(catalog core.CatalogStore, opts ...Option) *Engine {
	e := &Engine{
		catalog:     catalog,
		latentDim:   matrix.DefaultLatentDim,
		maxFeatures: feature.DefaultMaxFeatures,
		kernel:      feature.DefaultKernel(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Snapshot 返回当前训练快照；未训练时返回 nil。
func (e *Engine) Snapshot() *Snapshot {
	return e.snap.Load()
}

// Train 全量重训协同与内容模型，成功后原子替换快照。
// 幂等：底层数据不变时重复调用产出等价快照。
// 读取目录/行为数据失败时返回错误且不替换旧快照；
// 退化输入（零事件/零商品）不是错误，对应部分训练为空模型。
func (e *Engine) Train(ctx context.Context) error {
	snap := &Snapshot{TrainedAt: time.Now()}

	if err := e.trainCollaborative(ctx, snap); err != nil {
		return fmt.Errorf("engine: train collaborative: %w", err)
	}
	if err := e.trainContent(ctx, snap); err != nil {
		return fmt.Errorf("engine: train content: %w", err)
	}

	e.snap.Store(snap)
	return nil
}

// trainCollaborative 聚合评分矩阵并训练截断 SVD。
func (e *Engine) trainCollaborative(ctx context.Context, snap *Snapshot) error {
	interactions, err := e.catalog.ListInteractions(ctx)
	if err != nil {
		return err
	}

	m := matrix.Build(interactions)
	if m == nil {
		// 零事件：无矩阵，协同查询走热门兜底
		return nil
	}
	snap.Matrix = m

	svd := &matrix.TruncatedSVD{NComponents: e.latentDim}
	if err := svd.Fit(m.Scores); err != nil {
		if core.IsUntrained(err) {
			// 商品列数不足以分解，按未训练协同模型处理
			return nil
		}
		return err
	}
	snap.SVD = svd
	snap.Latent = svd.TransformAll(m.Scores)
	return nil
}

// trainContent 向量化商品文本并计算全量两两相似度。
func (e *Engine) trainContent(ctx context.Context, snap *Snapshot) error {
	products, err := e.catalog.ListProducts(ctx)
	if err != nil {
		return err
	}
	if len(products) == 0 {
		// 零商品：空内容模型
		return nil
	}

	docs := make([]string, len(products))
	ids := make([]string, len(products))
	for i, p := range products {
		docs[i] = p.FeatureText()
		ids[i] = p.ID
	}

	vec := &feature.Vectorizer{
		MaxFeatures: e.maxFeatures,
		Stopwords:   e.stopwords,
	}
	vectors := vec.FitTransform(docs)
	if vectors == nil {
		return nil
	}

	snap.Vectorizer = vec
	snap.SimProducts = ids
	snap.Sim = e.kernel.Pairwise(vectors)
	snap.simIndex = make(map[string]int, len(ids))
	for i, id := range ids {
		snap.simIndex[id] = i
	}
	return nil
}
