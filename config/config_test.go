package config

import (
	"context"
	"testing"

	"github.com/rushteam/shopkit/core"
	"github.com/rushteam/shopkit/store"
)

func TestParse(t *testing.T) {
	cfg, err := Parse([]byte(`
engine:
  latent_dim: 30
  neighbors: 10
  max_features: 500
  kernel: naive
hybrid:
  collaborative_weight: 0.5
  content_weight: 0.3
  popular_weight: 0.2
redis:
  addr: "127.0.0.1:6379"
  db: 1
history:
  enabled: true
  key_prefix: "myapp:history"
blacklist:
  - "sku-1"
rules:
  - 'product.rating < 2.0'
`))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if cfg.Engine.LatentDim != 30 || cfg.Engine.Neighbors != 10 || cfg.Engine.MaxFeatures != 500 {
		t.Errorf("engine config = %+v", cfg.Engine)
	}
	if cfg.Engine.Kernel != "naive" {
		t.Errorf("Kernel = %q, want naive", cfg.Engine.Kernel)
	}
	if cfg.Hybrid.CollaborativeWeight != 0.5 || cfg.Hybrid.ContentWeight != 0.3 || cfg.Hybrid.PopularWeight != 0.2 {
		t.Errorf("hybrid config = %+v", cfg.Hybrid)
	}
	if cfg.Redis.Addr != "127.0.0.1:6379" || cfg.Redis.DB != 1 {
		t.Errorf("redis config = %+v", cfg.Redis)
	}
	if !cfg.History.Enabled || cfg.History.KeyPrefix != "myapp:history" {
		t.Errorf("history config = %+v", cfg.History)
	}
	if len(cfg.Blacklist) != 1 || cfg.Blacklist[0] != "sku-1" {
		t.Errorf("blacklist = %v", cfg.Blacklist)
	}
	if len(cfg.Rules) != 1 {
		t.Errorf("rules = %v", cfg.Rules)
	}
}

func TestParse_Invalid(t *testing.T) {
	if _, err := Parse([]byte("engine: [not a map")); err == nil {
		t.Error("Parse() error = nil, want yaml error")
	}
}

func TestParse_Empty(t *testing.T) {
	cfg, err := Parse([]byte(""))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if cfg.History.Enabled {
		t.Error("History.Enabled should default to false")
	}
}

func TestConfig_Build(t *testing.T) {
	cfg, err := Parse([]byte(`
engine:
  neighbors: 5
history:
  enabled: true
blacklist:
  - "p1"
rules:
  - 'product.category == "restricted"'
`))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	catalog := store.NewMemoryCatalog()
	catalog.AddProduct(&core.Product{ID: "p1", Name: "A", Popularity: 30, Available: true})
	catalog.AddProduct(&core.Product{ID: "p2", Name: "B", Popularity: 20, Available: true})
	catalog.AddProduct(&core.Product{ID: "p3", Name: "C", Popularity: 10, Category: "restricted", Available: true})

	rec, err := cfg.Build(catalog)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	ctx := context.Background()
	if err := rec.Retrain(ctx); err != nil {
		t.Fatalf("Retrain() error = %v", err)
	}

	res, err := rec.GetRecommendations(ctx, "u1", "popular", 10)
	if err != nil {
		t.Fatalf("GetRecommendations() error = %v", err)
	}
	// p1 被黑名单过滤，p3 被规则过滤
	if len(res.Products) != 1 || res.Products[0].ID != "p2" {
		ids := make([]string, 0, len(res.Products))
		for _, p := range res.Products {
			ids = append(ids, p.ID)
		}
		t.Errorf("ids = %v, want [p2]", ids)
	}
}

func TestConfig_BuildInvalidRule(t *testing.T) {
	cfg := &Config{Rules: []string{"product.category =="}}
	if _, err := cfg.Build(store.NewMemoryCatalog()); err == nil {
		t.Error("Build() error = nil, want rule compile error")
	}
}
