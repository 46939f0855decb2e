package dsl

import (
	"testing"

	"github.com/rushteam/shopkit/core"
	"github.com/rushteam/shopkit/pkg/utils"
)

func sampleItem() *core.Item {
	it := core.NewItem("p1")
	it.Score = 0.9
	it.Meta["product"] = &core.Product{
		ID:         "p1",
		Name:       "Trail Running Shoes",
		Category:   "shoes",
		Tags:       "running clearance",
		Rating:     4.5,
		Popularity: 90,
	}
	it.PutLabel("recall_source", utils.Label{Value: "popular", Source: "recall"})
	return it
}

func TestRule_Match(t *testing.T) {
	rctx := &core.RecommendContext{UserID: "u1", Scene: "home"}
	tests := []struct {
		expr string
		want bool
	}{
		{expr: `product.category == "shoes"`, want: true},
		{expr: `product.category == "fitness"`, want: false},
		{expr: `product.rating >= 4.0`, want: true},
		{expr: `item.score > 0.95`, want: false},
		{expr: `label.recall_source == "popular"`, want: true},
		{expr: `product.tags.contains("clearance")`, want: true},
		{expr: `rctx.user_id == "u1" && product.popularity > 50.0`, want: true},
	}
	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			rule, err := Compile(tt.expr)
			if err != nil {
				t.Fatalf("Compile() error = %v", err)
			}
			got, err := rule.Match(sampleItem(), rctx)
			if err != nil {
				t.Fatalf("Match() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("Match(%q) = %v, want %v", tt.expr, got, tt.want)
			}
		})
	}
}

func TestCompile_Invalid(t *testing.T) {
	if _, err := Compile("product.category =="); err == nil {
		t.Error("Compile() error = nil, want syntax error")
	}
}

func TestRule_NonBooleanResult(t *testing.T) {
	rule, err := Compile("product.rating")
	if err != nil {
		t.Fatalf("Compile() error = %v", err)
	}
	if _, err := rule.Match(sampleItem(), nil); err == nil {
		t.Error("Match() error = nil, want non-boolean error")
	}
}

func TestRule_Expr(t *testing.T) {
	rule, err := Compile(`item.score > 0.5`)
	if err != nil {
		t.Fatalf("Compile() error = %v", err)
	}
	if rule.Expr() != `item.score > 0.5` {
		t.Errorf("Expr() = %q", rule.Expr())
	}
}
