// Package config 提供 YAML 配置驱动的服务装配：
// 一份配置 → 一个装配完成的 service.Recommender。
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/rushteam/shopkit/core"
	"github.com/rushteam/shopkit/engine"
	"github.com/rushteam/shopkit/feature"
	"github.com/rushteam/shopkit/filter"
	"github.com/rushteam/shopkit/service"
	"github.com/rushteam/shopkit/store"
)

// Config 是推荐服务的完整配置。
//
// 示例：
//
//	engine:
//	  latent_dim: 50
//	  neighbors: 20
//	  max_features: 1000
//	  kernel: blocked
//	hybrid:
//	  collaborative_weight: 0.4
//	  content_weight: 0.4
//	  popular_weight: 0.2
//	redis:
//	  addr: "127.0.0.1:6379"
//	  db: 0
//	history:
//	  enabled: true
//	  key_prefix: "rec:history"
//	blacklist:
//	  - "sku-123"
//	rules:
//	  - 'product.category == "restricted"'
type Config struct {
	Engine    EngineConfig  `yaml:"engine"`
	Hybrid    HybridConfig  `yaml:"hybrid"`
	Redis     RedisConfig   `yaml:"redis"`
	History   HistoryConfig `yaml:"history"`
	Blacklist []string      `yaml:"blacklist"`
	Rules     []string      `yaml:"rules"`
}

// EngineConfig 是训练侧参数。
type EngineConfig struct {
	LatentDim   int    `yaml:"latent_dim"`   // 隐空间维度上限，默认 50
	Neighbors   int    `yaml:"neighbors"`    // 协同召回相似用户数，默认 20
	MaxFeatures int    `yaml:"max_features"` // TF-IDF 词表上限，默认 1000
	Kernel      string `yaml:"kernel"`       // naive / blocked，默认 blocked
}

// HybridConfig 是混排三路权重。
type HybridConfig struct {
	CollaborativeWeight float64 `yaml:"collaborative_weight"`
	ContentWeight       float64 `yaml:"content_weight"`
	PopularWeight       float64 `yaml:"popular_weight"`
}

// RedisConfig 是 KV 后端配置；Addr 为空时使用内存后端。
type RedisConfig struct {
	Addr string `yaml:"addr"`
	DB   int    `yaml:"db"`
}

// HistoryConfig 控制推荐历史落档。
type HistoryConfig struct {
	Enabled   bool   `yaml:"enabled"`
	KeyPrefix string `yaml:"key_prefix"`
}

// Load 从 YAML 文件加载配置。
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}
	return Parse(data)
}

// Parse 从 YAML 字节解析配置。
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse yaml: %w", err)
	}
	return &cfg, nil
}

// Build 按配置装配一个可用的 Recommender。
// 目录实现由调用方注入（生产目录在本模块之外）。
func (c *Config) Build(catalog core.CatalogStore) (*service.Recommender, error) {
	engineOpts := make([]engine.Option, 0, 4)
	if c.Engine.LatentDim > 0 {
		engineOpts = append(engineOpts, engine.WithLatentDim(c.Engine.LatentDim))
	}
	if c.Engine.MaxFeatures > 0 {
		engineOpts = append(engineOpts, engine.WithMaxFeatures(c.Engine.MaxFeatures))
	}
	if c.Engine.Kernel != "" {
		engineOpts = append(engineOpts, engine.WithKernel(feature.KernelByName(c.Engine.Kernel)))
	}
	eng := engine.New(catalog, engineOpts...)

	opts := make([]service.Option, 0, 4)
	if c.Engine.Neighbors > 0 {
		opts = append(opts, service.WithNeighbors(c.Engine.Neighbors))
	}
	if c.Hybrid != (HybridConfig{}) {
		opts = append(opts, service.WithHybridWeights(
			c.Hybrid.CollaborativeWeight,
			c.Hybrid.ContentWeight,
			c.Hybrid.PopularWeight,
		))
	}

	if c.History.Enabled {
		kv, err := c.keyValueStore()
		if err != nil {
			return nil, err
		}
		opts = append(opts, service.WithHistory(store.NewKVHistory(kv, c.History.KeyPrefix)))
	}

	filters := make([]filter.Filter, 0, 1+len(c.Rules))
	if len(c.Blacklist) > 0 {
		filters = append(filters, filter.NewBlacklistFilter(c.Blacklist, nil, ""))
	}
	for _, expr := range c.Rules {
		f, err := filter.NewRuleFilter(expr)
		if err != nil {
			return nil, fmt.Errorf("build rule filter: %w", err)
		}
		filters = append(filters, f)
	}
	if len(filters) > 0 {
		opts = append(opts, service.WithFilters(filters...))
	}

	return service.New(catalog, eng, opts...), nil
}

func (c *Config) keyValueStore() (core.KeyValueStore, error) {
	if c.Redis.Addr == "" {
		return store.NewMemoryStore(), nil
	}
	kv, err := store.NewRedisStore(c.Redis.Addr, c.Redis.DB)
	if err != nil {
		return nil, fmt.Errorf("connect redis: %w", err)
	}
	return kv, nil
}
