package recall

import (
	"context"
	"testing"
	"time"

	"github.com/rushteam/shopkit/core"
	"github.com/rushteam/shopkit/store"
)

func rctxOf(userID string, limit int) *core.RecommendContext {
	return &core.RecommendContext{UserID: userID, Limit: limit}
}

func itemIDs(items []*core.Item) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		out = append(out, it.ID)
	}
	return out
}

func assertIDs(t *testing.T, got []*core.Item, want []string) {
	t.Helper()
	ids := itemIDs(got)
	if len(ids) != len(want) {
		t.Fatalf("ids = %v, want %v", ids, want)
	}
	for i := range want {
		if ids[i] != want[i] {
			t.Fatalf("ids = %v, want %v", ids, want)
		}
	}
}

func TestPopular_Ordering(t *testing.T) {
	catalog := store.NewMemoryCatalog()
	// 录入顺序：pA pB pC pD
	catalog.AddProduct(&core.Product{ID: "pA", Name: "A", Popularity: 10, Rating: 4.0, Available: true})
	catalog.AddProduct(&core.Product{ID: "pB", Name: "B", Popularity: 10, Rating: 5.0, Available: true})
	catalog.AddProduct(&core.Product{ID: "pC", Name: "C", Popularity: 10, Rating: 4.0, Available: true})
	catalog.AddProduct(&core.Product{ID: "pD", Name: "D", Popularity: 20, Rating: 1.0, Available: true})

	// pC 有行为记录，热度与评分和 pA 打平时靠行为次数领先
	catalog.AddInteraction(&core.Interaction{UserID: "u1", ProductID: "pC", Kind: core.KindView, Timestamp: time.Now()})

	r := &Popular{Catalog: catalog}
	items, err := r.Recall(context.Background(), rctxOf("u1", 10))
	if err != nil {
		t.Fatalf("Recall() error = %v", err)
	}
	// 热度 desc → 评分 desc → 行为次数 desc → 目录序
	assertIDs(t, items, []string{"pD", "pB", "pC", "pA"})

	for _, it := range items {
		if lb, ok := it.Labels["recall_source"]; !ok || lb.Value != "popular" {
			t.Errorf("item %s missing recall_source=popular label", it.ID)
		}
	}
}

func TestPopular_CatalogOrderTie(t *testing.T) {
	catalog := store.NewMemoryCatalog()
	catalog.AddProduct(&core.Product{ID: "p2", Popularity: 5, Rating: 3, Available: true})
	catalog.AddProduct(&core.Product{ID: "p1", Popularity: 5, Rating: 3, Available: true})

	r := &Popular{Catalog: catalog}
	items, err := r.Recall(context.Background(), rctxOf("u1", 10))
	if err != nil {
		t.Fatalf("Recall() error = %v", err)
	}
	// 全维度打平，保持目录录入顺序
	assertIDs(t, items, []string{"p2", "p1"})
}

func TestPopular_Limit(t *testing.T) {
	catalog := store.NewMemoryCatalog()
	for _, id := range []string{"a", "b", "c"} {
		catalog.AddProduct(&core.Product{ID: id, Available: true})
	}
	r := &Popular{Catalog: catalog}

	items, err := r.Recall(context.Background(), rctxOf("u1", 2))
	if err != nil {
		t.Fatalf("Recall() error = %v", err)
	}
	if len(items) != 2 {
		t.Errorf("len(items) = %d, want 2", len(items))
	}
}

func TestPopular_EmptyCatalog(t *testing.T) {
	r := &Popular{Catalog: store.NewMemoryCatalog()}
	items, err := r.Recall(context.Background(), rctxOf("u1", 10))
	if err != nil {
		t.Fatalf("Recall() error = %v", err)
	}
	if len(items) != 0 {
		t.Errorf("len(items) = %d, want 0", len(items))
	}
}
