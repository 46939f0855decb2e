package store

import (
	"context"
	"testing"
	"time"

	"github.com/rushteam/shopkit/core"
)

func TestMemoryCatalog_ListProducts(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCatalog()
	c.AddProduct(&core.Product{ID: "p2", Name: "B", Available: true})
	c.AddProduct(&core.Product{ID: "p1", Name: "A", Available: true})
	c.AddProduct(&core.Product{ID: "p3", Name: "C", Available: false})

	products, err := c.ListProducts(ctx)
	if err != nil {
		t.Fatalf("ListProducts() error = %v", err)
	}
	// 录入顺序保留，下架商品被跳过
	if len(products) != 2 || products[0].ID != "p2" || products[1].ID != "p1" {
		t.Fatalf("ListProducts() = %v, want [p2 p1]", products)
	}
}

func TestMemoryCatalog_AddProductOverwrite(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCatalog()
	c.AddProduct(&core.Product{ID: "p1", Name: "old", Available: true})
	c.AddProduct(&core.Product{ID: "p2", Name: "B", Available: true})
	c.AddProduct(&core.Product{ID: "p1", Name: "new", Available: true})

	products, err := c.ListProducts(ctx)
	if err != nil {
		t.Fatalf("ListProducts() error = %v", err)
	}
	// 覆盖录入不改变顺位
	if len(products) != 2 || products[0].ID != "p1" || products[0].Name != "new" {
		t.Fatalf("ListProducts() = %v, want p1(new) first", products)
	}
}

func TestMemoryCatalog_GetProducts(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCatalog()
	c.AddProduct(&core.Product{ID: "p1", Available: true})
	c.AddProduct(&core.Product{ID: "p2", Available: false})

	got, err := c.GetProducts(ctx, []string{"p1", "p2", "gone"})
	if err != nil {
		t.Fatalf("GetProducts() error = %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("GetProducts() = %v, want only p1", got)
	}
	if _, ok := got["p1"]; !ok {
		t.Error("p1 missing from result")
	}
}

func TestMemoryCatalog_Interactions(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCatalog()
	now := time.Now()
	c.AddInteraction(&core.Interaction{UserID: "u1", ProductID: "p1", Kind: core.KindView, Timestamp: now})
	c.AddInteraction(&core.Interaction{UserID: "u2", ProductID: "p1", Kind: core.KindLike, Timestamp: now})
	c.AddInteraction(&core.Interaction{UserID: "u1", ProductID: "p2", Kind: core.KindPurchase, Timestamp: now})

	all, err := c.ListInteractions(ctx)
	if err != nil {
		t.Fatalf("ListInteractions() error = %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("len(all) = %d, want 3", len(all))
	}

	mine, err := c.ListUserInteractions(ctx, "u1")
	if err != nil {
		t.Fatalf("ListUserInteractions() error = %v", err)
	}
	if len(mine) != 2 || mine[0].ProductID != "p1" || mine[1].ProductID != "p2" {
		t.Fatalf("ListUserInteractions(u1) = %v", mine)
	}

	counts, err := c.CountInteractions(ctx)
	if err != nil {
		t.Fatalf("CountInteractions() error = %v", err)
	}
	if counts["p1"] != 2 || counts["p2"] != 1 {
		t.Errorf("counts = %v, want p1=2 p2=1", counts)
	}
}

func TestMemoryCatalog_DefensiveCopies(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCatalog()
	c.AddProduct(&core.Product{ID: "p1", Name: "A", Available: true})

	products, _ := c.ListProducts(ctx)
	products[0].Name = "mutated"

	again, _ := c.ListProducts(ctx)
	if again[0].Name != "A" {
		t.Error("caller mutation leaked into catalog state")
	}
}
