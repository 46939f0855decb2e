package feature

import (
	"math"
	"testing"
)

func testVectors() [][]float64 {
	docs := []string{
		"running shoes trail grip",
		"running shoes road cushion",
		"yoga mat non slip",
		"water bottle insulated sports",
		"running jacket windproof",
	}
	v := &Vectorizer{}
	return v.FitTransform(docs)
}

func TestKernel_Properties(t *testing.T) {
	vectors := testVectors()
	for _, k := range []Kernel{&NaiveKernel{}, &BlockedKernel{}} {
		t.Run(k.Name(), func(t *testing.T) {
			sim := k.Pairwise(vectors)
			n := len(vectors)
			if len(sim) != n {
				t.Fatalf("len(sim) = %d, want %d", len(sim), n)
			}
			for i := 0; i < n; i++ {
				if sim[i][i] != 1 {
					t.Errorf("sim[%d][%d] = %v, want 1", i, i, sim[i][i])
				}
				for j := 0; j < n; j++ {
					if sim[i][j] != sim[j][i] {
						t.Errorf("asymmetric: sim[%d][%d]=%v sim[%d][%d]=%v", i, j, sim[i][j], j, i, sim[j][i])
					}
					if sim[i][j] < -1e-9 || sim[i][j] > 1+1e-9 {
						t.Errorf("sim[%d][%d] = %v out of [0,1]", i, j, sim[i][j])
					}
				}
			}
		})
	}
}

func TestKernel_Equivalence(t *testing.T) {
	vectors := testVectors()
	naive := (&NaiveKernel{}).Pairwise(vectors)
	blocked := (&BlockedKernel{}).Pairwise(vectors)
	for i := range naive {
		for j := range naive[i] {
			if math.Abs(naive[i][j]-blocked[i][j]) > 1e-9 {
				t.Errorf("kernels disagree at [%d][%d]: naive=%v blocked=%v", i, j, naive[i][j], blocked[i][j])
			}
		}
	}
}

func TestKernel_ZeroVector(t *testing.T) {
	vectors := [][]float64{
		{1, 0},
		{0, 0}, // 词表外文档向量化后为零向量
	}
	for _, k := range []Kernel{&NaiveKernel{}, &BlockedKernel{}} {
		sim := k.Pairwise(vectors)
		if sim[0][1] != 0 {
			t.Errorf("%s: sim with zero vector = %v, want 0", k.Name(), sim[0][1])
		}
		if sim[1][1] != 1 {
			t.Errorf("%s: diagonal of zero vector = %v, want 1", k.Name(), sim[1][1])
		}
	}
}

func TestKernelByName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "naive", want: "naive"},
		{in: "blocked", want: "blocked"},
		{in: "", want: "blocked"},
		{in: "unknown", want: "blocked"},
	}
	for _, tt := range tests {
		if got := KernelByName(tt.in).Name(); got != tt.want {
			t.Errorf("KernelByName(%q).Name() = %q, want %q", tt.in, got, tt.want)
		}
	}
}
