package feature

import (
	"math"
	"testing"
)

func TestTokenize(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want []string
	}{
		{
			name: "lowercase and split on punctuation",
			doc:  "Trail-Running Shoes, v2!",
			want: []string{"trail", "running", "shoes", "v2"},
		},
		{
			name: "drop single char tokens",
			doc:  "a b cd",
			want: []string{"cd"},
		},
		{
			name: "drop stopwords",
			doc:  "the shoes for the run",
			want: []string{"shoes", "run"},
		},
		{
			name: "empty doc",
			doc:  "",
			want: []string{},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tokenize(tt.doc, englishStopwords)
			if len(got) != len(tt.want) {
				t.Fatalf("tokenize() = %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("tokenize()[%d] = %q, want %q", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestNgrams(t *testing.T) {
	got := ngrams([]string{"trail", "running", "shoes"})
	want := []string{"trail", "running", "shoes", "trail running", "running shoes"}
	if len(got) != len(want) {
		t.Fatalf("ngrams() = %v, want %v", got, want)
	}
	for i := range got {
		if got[i] != want[i] {
			t.Errorf("ngrams()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestVectorizer_FitTransform(t *testing.T) {
	docs := []string{
		"running shoes trail",
		"running shoes road",
		"yoga mat",
	}
	v := &Vectorizer{}
	rows := v.FitTransform(docs)
	if len(rows) != len(docs) {
		t.Fatalf("len(rows) = %d, want %d", len(rows), len(docs))
	}

	// 行向量 L2 归一化
	for i, row := range rows {
		var sum float64
		for _, x := range row {
			sum += x * x
		}
		if math.Abs(math.Sqrt(sum)-1) > 1e-9 {
			t.Errorf("row %d norm = %v, want 1", i, math.Sqrt(sum))
		}
	}

	// 共享词项让前两个文档比第三个更接近
	sim01 := cosine(rows[0], rows[1])
	sim02 := cosine(rows[0], rows[2])
	if sim01 <= sim02 {
		t.Errorf("sim(doc0,doc1) = %v should exceed sim(doc0,doc2) = %v", sim01, sim02)
	}
	if sim02 != 0 {
		t.Errorf("sim(doc0,doc2) = %v, want 0 (no shared terms)", sim02)
	}
}

func TestVectorizer_VocabCap(t *testing.T) {
	docs := []string{
		"alpha beta gamma",
		"alpha beta",
		"alpha",
	}
	v := &Vectorizer{MaxFeatures: 3}
	v.FitTransform(docs)
	terms := v.Terms()
	// 语料词频 alpha=3，"alpha beta"=2，beta=2，其余 1；
	// 截断保留前三，最终词表按字典序排列。
	want := []string{"alpha", "alpha beta", "beta"}
	if len(terms) != len(want) {
		t.Fatalf("terms = %v, want %v", terms, want)
	}
	for i := range want {
		if terms[i] != want[i] {
			t.Errorf("terms[%d] = %q, want %q", i, terms[i], want[i])
		}
	}
}

func TestVectorizer_VocabCapTiesAlphabetical(t *testing.T) {
	// 全部词项频次相同，截断按字典序保留
	docs := []string{"zebra apple mango"}
	v := &Vectorizer{MaxFeatures: 2}
	v.FitTransform(docs)
	terms := v.Terms()
	if len(terms) != 2 {
		t.Fatalf("len(terms) = %d, want 2", len(terms))
	}
	if terms[0] != "apple" || terms[1] != "apple mango" {
		t.Errorf("terms = %v, want alphabetical tie-break [apple, apple mango]", terms)
	}
}

func TestVectorizer_Transform(t *testing.T) {
	v := &Vectorizer{}
	if row := v.Transform("anything"); row != nil {
		t.Errorf("Transform before fit = %v, want nil", row)
	}

	docs := []string{"running shoes", "yoga mat"}
	rows := v.FitTransform(docs)

	// 同一文档的 Transform 结果与 FitTransform 一致
	again := v.Transform("running shoes")
	for i := range again {
		if math.Abs(again[i]-rows[0][i]) > 1e-12 {
			t.Fatalf("Transform mismatch at %d: %v vs %v", i, again[i], rows[0][i])
		}
	}

	// 词表外文档 → 零向量
	oov := v.Transform("bicycle helmet")
	for i, x := range oov {
		if x != 0 {
			t.Errorf("oov[%d] = %v, want 0", i, x)
		}
	}
}

func TestVectorizer_EmptyCorpus(t *testing.T) {
	v := &Vectorizer{}
	if rows := v.FitTransform(nil); rows != nil {
		t.Errorf("FitTransform(nil) = %v, want nil", rows)
	}
}
