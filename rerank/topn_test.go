package rerank

import (
	"context"
	"testing"

	"github.com/rushteam/shopkit/core"
)

func TestTopNNode(t *testing.T) {
	items := []*core.Item{core.NewItem("a"), core.NewItem("b"), core.NewItem("c")}
	rctx := &core.RecommendContext{UserID: "u1"}

	tests := []struct {
		name string
		n    int
		want int
	}{
		{name: "cut", n: 2, want: 2},
		{name: "exact", n: 3, want: 3},
		{name: "larger than input", n: 10, want: 3},
		{name: "zero keeps all", n: 0, want: 3},
		{name: "negative keeps all", n: -1, want: 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			node := &TopNNode{N: tt.n}
			out, err := node.Process(context.Background(), rctx, items)
			if err != nil {
				t.Fatalf("Process() error = %v", err)
			}
			if len(out) != tt.want {
				t.Errorf("len(out) = %d, want %d", len(out), tt.want)
			}
			for i := range out {
				if out[i].ID != items[i].ID {
					t.Errorf("out[%d] = %s, order must be preserved", i, out[i].ID)
				}
			}
		})
	}
}
