package dsl

import (
	"fmt"
	"sync"

	"github.com/google/cel-go/cel"

	"github.com/rushteam/shopkit/core"
)

var (
	// celEnv 是全局的 CEL 环境，线程安全，可复用
	celEnv     *cel.Env
	celEnvOnce sync.Once
	celEnvErr  error
)

// initCELEnv 初始化 CEL 环境，定义变量
func initCELEnv() (*cel.Env, error) {
	return cel.NewEnv(
		cel.Variable("item", cel.DynType),
		cel.Variable("label", cel.DynType),
		cel.Variable("product", cel.DynType),
		cel.Variable("rctx", cel.DynType),
	)
}

// getCELEnv 获取或创建 CEL 环境
func getCELEnv() (*cel.Env, error) {
	celEnvOnce.Do(func() {
		celEnv, celEnvErr = initCELEnv()
	})
	return celEnv, celEnvErr
}

// Rule 是一条编译后的候选过滤规则，使用 CEL (Common Expression Language) 表达。
// 表达式编译一次，可并发执行多次。
//
// 表达式语法（CEL 标准语法）：
//   - 基础：label.recall_source == "popular" / label.algorithm != "hybrid"
//   - 数值：item.score > 0.7 / product.rating >= 4.0
//   - 逻辑：product.category == "A" && item.score > 0.8
//   - 包含：product.tags.contains("clearance")
//
// 示例：
//   - `product.category == "restricted"` → 屏蔽受限类目
//   - `product.rating < 2.0` → 屏蔽低分商品
type Rule struct {
	expr string
	prg  cel.Program
}

// Compile 编译一条规则表达式。
func Compile(expr string) (*Rule, error) {
	env, err := getCELEnv()
	if err != nil {
		return nil, fmt.Errorf("cel env: %w", err)
	}
	ast, issues := env.Compile(expr)
	if issues != nil && issues.Err() != nil {
		return nil, fmt.Errorf("compile %q: %w", expr, issues.Err())
	}
	prg, err := env.Program(ast)
	if err != nil {
		return nil, fmt.Errorf("program %q: %w", expr, err)
	}
	return &Rule{expr: expr, prg: prg}, nil
}

// Expr 返回规则的原始表达式文本。
func (r *Rule) Expr() string { return r.expr }

// Match 对单个候选执行规则，返回布尔结果。
// 表达式必须返回 bool；访问不存在的 key 会报错，
// 可用 `label.key != null` 先做存在性检查。
func (r *Rule) Match(item *core.Item, rctx *core.RecommendContext) (bool, error) {
	out, _, err := r.prg.Eval(buildInput(item, rctx))
	if err != nil {
		return false, fmt.Errorf("eval %q: %w", r.expr, err)
	}
	result, ok := out.Value().(bool)
	if !ok {
		return false, fmt.Errorf("expression %q must return boolean, got %T", r.expr, out.Value())
	}
	return result, nil
}

// buildInput 构建 CEL 表达式的输入数据
func buildInput(it *core.Item, rctx *core.RecommendContext) map[string]any {
	// label.recall_source 直接取 Value，便于书写
	labels := make(map[string]any, len(it.Labels))
	for k, v := range it.Labels {
		labels[k] = v.Value
	}

	item := map[string]any{
		"id":    it.ID,
		"score": it.Score,
	}

	// 可用性过滤之后，候选上挂有解析出的商品记录
	product := map[string]any{}
	if p := it.Product(); p != nil {
		product = map[string]any{
			"id":         p.ID,
			"name":       p.Name,
			"category":   p.Category,
			"tags":       p.Tags,
			"rating":     p.Rating,
			"popularity": p.Popularity,
		}
	}

	rc := map[string]any{}
	if rctx != nil {
		rc = map[string]any{
			"user_id": rctx.UserID,
			"scene":   rctx.Scene,
			"params":  rctx.Params,
		}
	}

	return map[string]any{
		"item":    item,
		"label":   labels,
		"product": product,
		"rctx":    rc,
	}
}
