package core

import "github.com/rushteam/shopkit/pkg/utils"

// Item 是推荐链路中的统一承载结构：候选商品的 ID、分数、元信息、标签。
// Labels 用于解释与策略驱动；Score 用于排序决策。
// Meta 在可用性过滤后会携带解析出的商品记录（key = "product"）。
type Item struct {
	ID     string
	Score  float64
	Meta   map[string]any
	Labels map[string]utils.Label
}

func NewItem(id string) *Item {
	return &Item{
		ID:     id,
		Score:  0,
		Meta:   make(map[string]any),
		Labels: make(map[string]utils.Label),
	}
}

// PutLabel 写入 Label；若已存在同名 key，则按默认 Merge 规则累积。
func (it *Item) PutLabel(key string, lbl utils.Label) {
	if it.Labels == nil {
		it.Labels = make(map[string]utils.Label)
	}
	if old, ok := it.Labels[key]; ok {
		it.Labels[key] = utils.MergeLabel(old, lbl)
		return
	}
	it.Labels[key] = lbl
}

// Product 返回可用性过滤阶段解析出的商品记录；未解析时返回 nil。
func (it *Item) Product() *Product {
	if it.Meta == nil {
		return nil
	}
	if p, ok := it.Meta["product"].(*Product); ok {
		return p
	}
	return nil
}
