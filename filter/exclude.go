package filter

import (
	"context"

	"github.com/rushteam/shopkit/core"
	"github.com/rushteam/shopkit/pkg/conv"
)

// ExcludeFilter 按请求参数临时排除商品：
//
//	rctx.Params["exclude_products"] = []any{"p1", "p2"}
//
// 典型场景：调用方已在当前页面展示过的商品、购物车内商品。
// 与黑名单不同，排除集是请求级的，不落任何存储。
type ExcludeFilter struct{}

func (f *ExcludeFilter) Name() string {
	return "filter.exclude"
}

func (f *ExcludeFilter) ShouldFilter(
	_ context.Context,
	rctx *core.RecommendContext,
	item *core.Item,
) (bool, error) {
	if rctx == nil || rctx.Params == nil || item == nil {
		return false, nil
	}
	for _, id := range conv.SliceAnyToString(rctx.Params["exclude_products"]) {
		if id == item.ID {
			return true, nil
		}
	}
	return false, nil
}
