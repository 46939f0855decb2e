package matrix

import (
	"math"

	"github.com/rushteam/shopkit/core"
)

// DefaultLatentDim 是隐空间维度的默认上限。
// 实际维度取 min(DefaultLatentDim, 商品列数-1)，避免小目录下分解退化。
const DefaultLatentDim = 50

// ErrNotFitted 表示分解尚未训练。
var ErrNotFitted = core.NewDomainError(core.ModuleEngine, core.ErrorCodeUntrained, "svd: model not fitted")

// TruncatedSVD 是评分矩阵的截断奇异值分解。
//
// 实现方式：对 Gram 矩阵 XᵀX 做带收缩（deflation）的幂迭代，
// 依次提取前 k 个右奇异向量作为投影基。
// 初始向量固定，整个过程确定性，重复训练产出逐位一致的投影。
//
// Transform 把任意评分行投影到隐空间：latent = row · Vᵀ。
type TruncatedSVD struct {
	// NComponents 期望的隐空间维度；<= 0 时取 DefaultLatentDim。
	NComponents int

	components [][]float64 // k × P，右奇异向量
}

// Fit 在评分矩阵上训练分解。
// 列数不足（P < 2）时返回 ErrNotFitted，调用方按未训练处理。
func (s *TruncatedSVD) Fit(scores [][]float64) error {
	if len(scores) == 0 || len(scores[0]) == 0 {
		return ErrNotFitted
	}
	p := len(scores[0])

	k := s.NComponents
	if k <= 0 {
		k = DefaultLatentDim
	}
	if p-1 < k {
		k = p - 1
	}
	if k < 1 {
		return ErrNotFitted
	}

	gram := gramMatrix(scores)
	s.components = make([][]float64, 0, k)

	for c := 0; c < k; c++ {
		v, lambda, ok := powerIterate(gram, c)
		if !ok {
			// 矩阵秩已耗尽，提前结束
			break
		}
		s.components = append(s.components, v)
		deflate(gram, v, lambda)
	}

	if len(s.components) == 0 {
		return ErrNotFitted
	}
	return nil
}

// Fitted 返回分解是否已训练。
func (s *TruncatedSVD) Fitted() bool {
	return len(s.components) > 0
}

// Dim 返回实际提取出的隐空间维度。
func (s *TruncatedSVD) Dim() int {
	return len(s.components)
}

// Transform 把一个评分行投影到隐空间。
func (s *TruncatedSVD) Transform(row []float64) []float64 {
	out := make([]float64, len(s.components))
	for c, comp := range s.components {
		out[c] = dot(row, comp)
	}
	return out
}

// TransformAll 批量投影（训练后对整个矩阵做一次，查询只读投影结果）。
func (s *TruncatedSVD) TransformAll(scores [][]float64) [][]float64 {
	out := make([][]float64, len(scores))
	for i, row := range scores {
		out[i] = s.Transform(row)
	}
	return out
}

// gramMatrix 计算 XᵀX（P×P，对称）。
func gramMatrix(scores [][]float64) [][]float64 {
	p := len(scores[0])
	g := make([][]float64, p)
	for i := range g {
		g[i] = make([]float64, p)
	}
	for _, row := range scores {
		for i := 0; i < p; i++ {
			if row[i] == 0 {
				continue
			}
			for j := i; j < p; j++ {
				g[i][j] += row[i] * row[j]
			}
		}
	}
	for i := 0; i < p; i++ {
		for j := 0; j < i; j++ {
			g[i][j] = g[j][i]
		}
	}
	return g
}

const (
	maxPowerIters = 300
	convergeTol   = 1e-12
	rankTol       = 1e-10
)

// powerIterate 对对称矩阵做幂迭代，返回主特征向量与特征值。
// 初始向量由分量序号 seed 确定性生成；特征值接近 0 时视为秩耗尽。
func powerIterate(g [][]float64, seed int) (vec []float64, lambda float64, ok bool) {
	p := len(g)
	v := make([]float64, p)
	for j := range v {
		v[j] = 1.0
	}
	v[seed%p] += 0.5
	normalize(v)

	w := make([]float64, p)
	for iter := 0; iter < maxPowerIters; iter++ {
		matVec(g, v, w)
		n := norm(w)
		if n < rankTol {
			return nil, 0, false
		}
		for j := range w {
			w[j] /= n
		}
		// |cos| 收敛判定：特征向量符号不定
		if math.Abs(1-math.Abs(dot(v, w))) < convergeTol {
			copy(v, w)
			break
		}
		copy(v, w)
	}

	matVec(g, v, w)
	lambda = dot(v, w)
	if lambda < rankTol {
		return nil, 0, false
	}
	return v, lambda, true
}

// deflate 收缩已提取的分量：G -= λ·vvᵀ。
func deflate(g [][]float64, v []float64, lambda float64) {
	for i := range g {
		if v[i] == 0 {
			continue
		}
		for j := range g[i] {
			g[i][j] -= lambda * v[i] * v[j]
		}
	}
}

func matVec(g [][]float64, v, out []float64) {
	for i := range g {
		var sum float64
		for j, gij := range g[i] {
			sum += gij * v[j]
		}
		out[i] = sum
	}
}

func dot(a, b []float64) float64 {
	var sum float64
	for i := range a {
		sum += a[i] * b[i]
	}
	return sum
}

func norm(v []float64) float64 {
	return math.Sqrt(dot(v, v))
}

func normalize(v []float64) {
	n := norm(v)
	if n == 0 {
		return
	}
	for i := range v {
		v[i] /= n
	}
}

// CosineSimilarity 计算两个向量的余弦相似度；零向量相似度为 0。
func CosineSimilarity(a, b []float64) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dotAB, normA, normB float64
	for i := range a {
		dotAB += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dotAB / (math.Sqrt(normA) * math.Sqrt(normB))
}
