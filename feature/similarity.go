package feature

import "math"

// Kernel 是"稠密向量集两两相似度"的计算策略。
// O(P²·F) 的热点计算，允许替换实现：
//   - NaiveKernel：通用参考实现，逐对余弦
//   - BlockedKernel：快路径实现，预归一化 + 对称点积
//
// 两种实现的数值结果在浮点容差内必须一致（similarity_test.go 校验）。
type Kernel interface {
	Name() string

	// Pairwise 返回对称相似度矩阵，sim[i][j] ∈ [0,1]，对角线 = 1。
	Pairwise(vectors [][]float64) [][]float64
}

// DefaultKernel 返回默认的相似度核（快路径实现）。
func DefaultKernel() Kernel { return &BlockedKernel{} }

// KernelByName 按配置名选择相似度核；未知名称返回默认核。
func KernelByName(name string) Kernel {
	if name == "naive" {
		return &NaiveKernel{}
	}
	return DefaultKernel()
}

// NaiveKernel 是参考实现：对每一对向量独立计算余弦相似度。
type NaiveKernel struct{}

func (k *NaiveKernel) Name() string { return "naive" }

func (k *NaiveKernel) Pairwise(vectors [][]float64) [][]float64 {
	n := len(vectors)
	sim := newSimMatrix(n)
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			s := cosine(vectors[i], vectors[j])
			sim[i][j] = s
			sim[j][i] = s
		}
	}
	return sim
}

// BlockedKernel 是快路径实现：先一次性 L2 归一化所有向量，
// 之后每对相似度退化为一次点积，且只算上三角。
type BlockedKernel struct{}

func (k *BlockedKernel) Name() string { return "blocked" }

func (k *BlockedKernel) Pairwise(vectors [][]float64) [][]float64 {
	n := len(vectors)
	normed := make([][]float64, n)
	for i, v := range vectors {
		cp := make([]float64, len(v))
		copy(cp, v)
		l2Normalize(cp)
		normed[i] = cp
	}

	sim := newSimMatrix(n)
	for i := 0; i < n; i++ {
		vi := normed[i]
		for j := i + 1; j < n; j++ {
			var s float64
			vj := normed[j]
			for f := range vi {
				s += vi[f] * vj[f]
			}
			sim[i][j] = s
			sim[j][i] = s
		}
	}
	return sim
}

// newSimMatrix 分配 n×n 矩阵并把对角线置 1。
func newSimMatrix(n int) [][]float64 {
	sim := make([][]float64, n)
	for i := range sim {
		sim[i] = make([]float64, n)
		sim[i][i] = 1
	}
	return sim
}

func cosine(a, b []float64) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
