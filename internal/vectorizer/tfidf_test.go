package vectorizer

import (
	"testing"
)

func TestTFIDF_FitTransform(t *testing.T) {
	v := NewTFIDF()
	err := v.Fit([]string{
		"cat dog pet",
		"dog pet animal",
		"stock market finance",
	})
	if err != nil {
		t.Fatal(err)
	}
	if v.Dimensions() == 0 {
		t.Fatal("empty vocabulary after fit")
	}

	vec, err := v.Transform("cat dog")
	if err != nil {
		t.Fatal(err)
	}
	if vec.NNZ() != 2 {
		t.Fatalf("expected 2 non-zero terms, got %d", vec.NNZ())
	}
	for i := 1; i < len(vec.Terms); i++ {
		if vec.Terms[i] <= vec.Terms[i-1] {
			t.Errorf("term IDs not sorted ascending: %v", vec.Terms)
		}
	}
	for _, w := range vec.Weights {
		if w <= 0 {
			t.Errorf("non-positive weight %v", w)
		}
	}
}

func TestTFIDF_Lowercasing(t *testing.T) {
	v := NewTFIDF()
	if err := v.Fit([]string{"Cat DOG"}); err != nil {
		t.Fatal(err)
	}
	upper, err := v.Transform("CAT")
	if err != nil {
		t.Fatal(err)
	}
	lower, err := v.Transform("cat")
	if err != nil {
		t.Fatal(err)
	}
	if upper.NNZ() != 1 || lower.NNZ() != 1 || upper.Terms[0] != lower.Terms[0] {
		t.Errorf("case folding broken: %v vs %v", upper, lower)
	}
}

func TestTFIDF_UnseenTermsDropped(t *testing.T) {
	v := NewTFIDF()
	if err := v.Fit([]string{"cat dog"}); err != nil {
		t.Fatal(err)
	}
	vec, err := v.Transform("zebra quagga")
	if err != nil {
		t.Fatal(err)
	}
	if vec.NNZ() != 0 {
		t.Errorf("unseen terms produced non-zero vector: %v", vec)
	}
}

func TestTFIDF_RarerTermWeighsMore(t *testing.T) {
	v := NewTFIDF()
	err := v.Fit([]string{
		"dog cat",
		"dog bird",
		"dog fish",
	})
	if err != nil {
		t.Fatal(err)
	}
	// "dog" appears in every document, "cat" in one; with equal term
	// frequency the rarer term must carry more weight.
	vec, err := v.Transform("dog cat")
	if err != nil {
		t.Fatal(err)
	}
	if vec.NNZ() != 2 {
		t.Fatalf("expected 2 terms, got %d", vec.NNZ())
	}
	weights := make(map[int]float64)
	for i, id := range vec.Terms {
		weights[id] = vec.Weights[i]
	}
	catVec, _ := v.Transform("cat")
	dogVec, _ := v.Transform("dog")
	catW := weights[catVec.Terms[0]]
	dogW := weights[dogVec.Terms[0]]
	if catW <= dogW {
		t.Errorf("cat weight %v should exceed dog weight %v", catW, dogW)
	}
}

func TestTFIDF_TokenlessTextsDoNotShiftWeights(t *testing.T) {
	// A text of pure stop words contributes no vocabulary and must not
	// inflate the document count, or idf weights change between a fit on
	// the full corpus and a fit on the corpus with such texts removed.
	full := NewTFIDF()
	if err := full.Fit([]string{"cat dog", "cat finance", "the and of"}); err != nil {
		t.Fatal(err)
	}
	kept := NewTFIDF()
	if err := kept.Fit([]string{"cat dog", "cat finance"}); err != nil {
		t.Fatal(err)
	}
	if full.Dimensions() != kept.Dimensions() {
		t.Fatalf("dimensions differ: %d vs %d", full.Dimensions(), kept.Dimensions())
	}

	a, err := full.Transform("cat dog")
	if err != nil {
		t.Fatal(err)
	}
	b, err := kept.Transform("cat dog")
	if err != nil {
		t.Fatal(err)
	}
	if len(a.Terms) != len(b.Terms) {
		t.Fatalf("term counts differ: %d vs %d", len(a.Terms), len(b.Terms))
	}
	for i := range a.Terms {
		if a.Terms[i] != b.Terms[i] || a.Weights[i] != b.Weights[i] {
			t.Errorf("component %d differs: (%d, %v) vs (%d, %v)",
				i, a.Terms[i], a.Weights[i], b.Terms[i], b.Weights[i])
		}
	}
}

func TestTFIDF_FitAllTokenlessTexts(t *testing.T) {
	if err := NewTFIDF().Fit([]string{"the and", "of"}); err == nil {
		t.Error("expected error when no text yields tokens")
	}
}

func TestTFIDF_TransformBeforeFit(t *testing.T) {
	if _, err := NewTFIDF().Transform("cat"); err == nil {
		t.Error("expected error before fit")
	}
}

func TestTFIDF_FitEmptyCorpus(t *testing.T) {
	if err := NewTFIDF().Fit(nil); err == nil {
		t.Error("expected error for empty corpus")
	}
}

func TestTFIDF_FitDeterministic(t *testing.T) {
	texts := []string{"cat dog pet", "stock market bank"}
	a, b := NewTFIDF(), NewTFIDF()
	if err := a.Fit(texts); err != nil {
		t.Fatal(err)
	}
	if err := b.Fit(texts); err != nil {
		t.Fatal(err)
	}
	va, _ := a.Transform("cat market")
	vb, _ := b.Transform("cat market")
	if len(va.Terms) != len(vb.Terms) {
		t.Fatalf("vocabularies differ")
	}
	for i := range va.Terms {
		if va.Terms[i] != vb.Terms[i] || va.Weights[i] != vb.Weights[i] {
			t.Errorf("term %d differs: (%d,%v) vs (%d,%v)", i, va.Terms[i], va.Weights[i], vb.Terms[i], vb.Weights[i])
		}
	}
}

func TestFake_MatchesInterface(t *testing.T) {
	var _ Vectorizer = NewFake()
	var _ Vectorizer = NewTFIDF()

	f := NewFake()
	if err := f.Fit([]string{"cat dog", "stock bank"}); err != nil {
		t.Fatal(err)
	}
	if f.Dimensions() != 4 {
		t.Errorf("Dimensions = %d, want 4", f.Dimensions())
	}
	vec, err := f.Transform("cat cat stock")
	if err != nil {
		t.Fatal(err)
	}
	if vec.NNZ() != 2 {
		t.Fatalf("NNZ = %d, want 2", vec.NNZ())
	}
}
