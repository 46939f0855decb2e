package core

import "time"

// Product 是商品目录中的一条可推荐记录。
// 目录本身由外部系统维护；本模块只读取推荐所需的字段。
type Product struct {
	ID          string
	Name        string
	Description string
	Category    string
	Tags        string // 空格分隔的自由文本标签
	Rating      float64
	Popularity  float64 // 目录侧预计算的热度分
	Available   bool
}

// FeatureText 拼接商品的文本特征文档（名称 + 描述 + 类目 + 标签），
// 供内容模型做 TF-IDF 向量化使用。
func (p *Product) FeatureText() string {
	return p.Name + " " + p.Description + " " + p.Category + " " + p.Tags
}

// InteractionKind 是用户对商品的行为类型。
type InteractionKind string

const (
	KindView      InteractionKind = "view"
	KindLike      InteractionKind = "like"
	KindDislike   InteractionKind = "dislike"
	KindAddToCart InteractionKind = "add_to_cart"
	KindPurchase  InteractionKind = "purchase"
)

// interactionWeights 是行为类型到评分权重的固定映射。
// 同一 (user, product) 的多次行为按权重累加。
var interactionWeights = map[InteractionKind]float64{
	KindView:      1.0,
	KindLike:      3.0,
	KindDislike:   -2.0,
	KindAddToCart: 2.0,
	KindPurchase:  5.0,
}

// Weight 返回行为类型的评分权重；未知类型按 1.0 处理。
func (k InteractionKind) Weight() float64 {
	if w, ok := interactionWeights[k]; ok {
		return w
	}
	return 1.0
}

// Positive 表示该行为是否是内容模型采信的正向信号
// （like / purchase / add_to_cart）。
func (k InteractionKind) Positive() bool {
	switch k {
	case KindLike, KindPurchase, KindAddToCart:
		return true
	}
	return false
}

// Interaction 是一条用户-商品行为事件。由上游埋点写入，写后不可变。
type Interaction struct {
	UserID    string
	ProductID string
	Kind      InteractionKind
	Timestamp time.Time
}
