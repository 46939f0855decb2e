// Package shopkit 是电商商品推荐引擎（Shop Recommender Kit）。
//
// 设计要点：
// - Pipeline-first: 服务路径通过 Node 串联（Recall → Filter → ReRank）
// - Labels-first: labels 全链路透传与标准化 merge，支持 explain / 观测 / 策略驱动
// - 训练态快照化: 协同/内容模型离线训练，原子替换，查询只读并发
package shopkit

import "github.com/rushteam/shopkit/pipeline"

// 轻量 facade：便于用户直接 import "shopkit" 使用核心抽象。
type Pipeline = pipeline.Pipeline
type Node = pipeline.Node
type Kind = pipeline.Kind

const (
	KindRecall      = pipeline.KindRecall
	KindFilter      = pipeline.KindFilter
	KindReRank      = pipeline.KindReRank
	KindPostProcess = pipeline.KindPostProcess
)
