package filter

import (
	"context"

	"github.com/rushteam/shopkit/core"
	"github.com/rushteam/shopkit/pkg/dsl"
)

// RuleFilter 是表达式驱动的过滤器：CEL 表达式命中的候选被过滤掉。
// 规则通常来自配置，用于运营策略（屏蔽类目、低分商品等）：
//
//	rules:
//	  - 'product.category == "restricted"'
//	  - 'product.rating < 2.0'
//
// 表达式里的 product.* 字段在可用性解析之后才有值，
// RuleFilter 应排在 AvailableNode 之后。
type RuleFilter struct {
	rule *dsl.Rule
}

// NewRuleFilter 编译一条规则表达式；表达式非法时返回错误。
func NewRuleFilter(expr string) (*RuleFilter, error) {
	rule, err := dsl.Compile(expr)
	if err != nil {
		return nil, err
	}
	return &RuleFilter{rule: rule}, nil
}

func (f *RuleFilter) Name() string {
	return "filter.rule"
}

func (f *RuleFilter) ShouldFilter(
	ctx context.Context,
	rctx *core.RecommendContext,
	item *core.Item,
) (bool, error) {
	if item == nil {
		return false, nil
	}
	return f.rule.Match(item, rctx)
}
