package store

import (
	"context"
	"sync"

	"github.com/rushteam/shopkit/core"
)

// MemoryCatalog 是内存实现的 CatalogStore，用于测试/开发/原型。
// 生产目录（数据库/搜索引擎）由业务方实现 core.CatalogStore 接入。
//
// 排序约定：ListProducts / ListInteractions 保持录入顺序，
// 下游的"首次出现序"平局规则依赖这一点。
type MemoryCatalog struct {
	mu           sync.RWMutex
	products     []*core.Product
	productIndex map[string]*core.Product
	interactions []*core.Interaction
}

func NewMemoryCatalog() *MemoryCatalog {
	return &MemoryCatalog{
		productIndex: make(map[string]*core.Product),
	}
}

var _ core.CatalogStore = (*MemoryCatalog)(nil)

// AddProduct 录入商品；同 ID 重复录入时覆盖记录但保持原有顺位。
func (c *MemoryCatalog) AddProduct(p *core.Product) {
	if p == nil || p.ID == "" {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	if old, ok := c.productIndex[p.ID]; ok {
		*old = *p
		return
	}
	cp := *p
	c.products = append(c.products, &cp)
	c.productIndex[p.ID] = &cp
}

// AddInteraction 追加一条行为事件。
func (c *MemoryCatalog) AddInteraction(in *core.Interaction) {
	if in == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	cp := *in
	c.interactions = append(c.interactions, &cp)
}

func (c *MemoryCatalog) ListProducts(ctx context.Context) ([]*core.Product, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]*core.Product, 0, len(c.products))
	for _, p := range c.products {
		if !p.Available {
			continue
		}
		cp := *p
		out = append(out, &cp)
	}
	return out, nil
}

func (c *MemoryCatalog) GetProducts(ctx context.Context, ids []string) (map[string]*core.Product, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make(map[string]*core.Product, len(ids))
	for _, id := range ids {
		p, ok := c.productIndex[id]
		if !ok || !p.Available {
			continue
		}
		cp := *p
		out[id] = &cp
	}
	return out, nil
}

func (c *MemoryCatalog) ListInteractions(ctx context.Context) ([]*core.Interaction, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]*core.Interaction, 0, len(c.interactions))
	for _, in := range c.interactions {
		cp := *in
		out = append(out, &cp)
	}
	return out, nil
}

func (c *MemoryCatalog) ListUserInteractions(ctx context.Context, userID string) ([]*core.Interaction, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]*core.Interaction, 0)
	for _, in := range c.interactions {
		if in.UserID != userID {
			continue
		}
		cp := *in
		out = append(out, &cp)
	}
	return out, nil
}

func (c *MemoryCatalog) CountInteractions(ctx context.Context) (map[string]int64, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	counts := make(map[string]int64)
	for _, in := range c.interactions {
		counts[in.ProductID]++
	}
	return counts, nil
}
