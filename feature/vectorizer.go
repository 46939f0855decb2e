// Package feature 负责商品文本特征：TF-IDF 向量化与全量两两相似度计算
// （内容模型的离线训练部分）。
package feature

import (
	"math"
	"sort"
	"strings"
)

// DefaultMaxFeatures 是词表大小的默认上限。
const DefaultMaxFeatures = 1000

// Vectorizer 把商品特征文档转为 TF-IDF 加权的稠密向量。
//
// 处理流程：
//  1. 小写化，按非字母数字切分，丢弃单字符 token 与停用词
//  2. 取 unigram + 相邻 bigram 作为候选词项
//  3. 词表按语料词频截断到 MaxFeatures（频次相同按字典序）
//  4. idf = ln((1+N)/(1+df)) + 1（平滑），行向量做 L2 归一化
//
// L2 归一化后，两行的余弦相似度等于点积，相似度核依赖这一点。
type Vectorizer struct {
	// MaxFeatures 词表大小上限；<= 0 时取 DefaultMaxFeatures。
	MaxFeatures int

	// Stopwords 停用词表；nil 时使用内置英文停用词。
	Stopwords map[string]struct{}

	terms []string
	vocab map[string]int
	idf   []float64
}

// Terms 返回训练后的词表（字典序）。
func (v *Vectorizer) Terms() []string { return v.terms }

// FitTransform 在文档集上训练词表并返回每个文档的 TF-IDF 向量。
// 空文档集返回 nil。
func (v *Vectorizer) FitTransform(docs []string) [][]float64 {
	if len(docs) == 0 {
		return nil
	}

	stop := v.Stopwords
	if stop == nil {
		stop = englishStopwords
	}

	// 每个文档的词项序列与词频
	docTerms := make([]map[string]int, len(docs))
	corpusCount := make(map[string]int) // 语料总词频，用于词表截断
	docFreq := make(map[string]int)     // 文档频次，用于 idf
	for i, doc := range docs {
		counts := make(map[string]int)
		for _, term := range ngrams(tokenize(doc, stop)) {
			counts[term]++
			corpusCount[term]++
		}
		for term := range counts {
			docFreq[term]++
		}
		docTerms[i] = counts
	}

	maxFeatures := v.MaxFeatures
	if maxFeatures <= 0 {
		maxFeatures = DefaultMaxFeatures
	}

	// 按语料词频截断词表，频次相同按字典序
	all := make([]string, 0, len(corpusCount))
	for term := range corpusCount {
		all = append(all, term)
	}
	sort.Slice(all, func(i, j int) bool {
		if corpusCount[all[i]] != corpusCount[all[j]] {
			return corpusCount[all[i]] > corpusCount[all[j]]
		}
		return all[i] < all[j]
	})
	if len(all) > maxFeatures {
		all = all[:maxFeatures]
	}
	sort.Strings(all)

	v.terms = all
	v.vocab = make(map[string]int, len(all))
	for idx, term := range all {
		v.vocab[term] = idx
	}

	// 平滑 idf
	n := float64(len(docs))
	v.idf = make([]float64, len(all))
	for idx, term := range all {
		v.idf[idx] = math.Log((1+n)/(1+float64(docFreq[term]))) + 1
	}

	out := make([][]float64, len(docs))
	for i, counts := range docTerms {
		out[i] = v.vector(counts)
	}
	return out
}

// Transform 用已训练的词表向量化单个文档；未训练时返回 nil。
func (v *Vectorizer) Transform(doc string) []float64 {
	if v.vocab == nil {
		return nil
	}
	stop := v.Stopwords
	if stop == nil {
		stop = englishStopwords
	}
	counts := make(map[string]int)
	for _, term := range ngrams(tokenize(doc, stop)) {
		counts[term]++
	}
	return v.vector(counts)
}

func (v *Vectorizer) vector(counts map[string]int) []float64 {
	row := make([]float64, len(v.terms))
	for term, count := range counts {
		idx, ok := v.vocab[term]
		if !ok {
			continue
		}
		row[idx] = float64(count) * v.idf[idx]
	}
	l2Normalize(row)
	return row
}

// tokenize 小写化并切分文档，丢弃单字符 token 与停用词。
func tokenize(doc string, stop map[string]struct{}) []string {
	lower := strings.ToLower(doc)
	fields := strings.FieldsFunc(lower, func(r rune) bool {
		return !(r >= 'a' && r <= 'z' || r >= '0' && r <= '9')
	})
	out := make([]string, 0, len(fields))
	for _, tok := range fields {
		if len(tok) < 2 {
			continue
		}
		if _, ok := stop[tok]; ok {
			continue
		}
		out = append(out, tok)
	}
	return out
}

// ngrams 生成 unigram + 相邻 bigram 词项。
func ngrams(tokens []string) []string {
	out := make([]string, 0, len(tokens)*2)
	out = append(out, tokens...)
	for i := 0; i+1 < len(tokens); i++ {
		out = append(out, tokens[i]+" "+tokens[i+1])
	}
	return out
}

func l2Normalize(row []float64) {
	var sum float64
	for _, x := range row {
		sum += x * x
	}
	if sum == 0 {
		return
	}
	n := math.Sqrt(sum)
	for i := range row {
		row[i] /= n
	}
}
