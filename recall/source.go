package recall

import (
	"context"

	"github.com/rushteam/shopkit/core"
)

// Source 表示一个可复用的召回源（热门/协同/内容/...）。
// 你可以把它理解为"可并发 fan-out 的策略单元"。
type Source interface {
	Name() string
	Recall(ctx context.Context, rctx *core.RecommendContext) ([]*core.Item, error)
}

// DefaultLimit 是请求未指定数量时的默认返回条数。
const DefaultLimit = 10

// limitOf 解析请求的期望条数；<= 0 时取默认值。
func limitOf(rctx *core.RecommendContext) int {
	if rctx != nil && rctx.Limit > 0 {
		return rctx.Limit
	}
	return DefaultLimit
}
