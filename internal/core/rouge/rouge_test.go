package rouge

import (
	"math"
	"reflect"
	"testing"
)

func TestTokenize(t *testing.T) {
	cases := []struct {
		name string
		text string
		want []string
	}{
		{"empty", "", []string{}},
		{"latin words", "Hello there", []string{"Hello", "there"}},
		{"cjk per character", "你好吗", []string{"你", "好", "吗"}},
		{"mixed scripts", "Go语言rocks", []string{"Go", "语", "言", "rocks"}},
		{"digit runs", "v2 beats v10", []string{"v", "2", "beats", "v", "10"}},
		{"punctuation dropped", "well, done!", []string{"well", "done"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Tokenize(tc.text); !reflect.DeepEqual(got, tc.want) {
				t.Fatalf("Tokenize(%q) = %v, want %v", tc.text, got, tc.want)
			}
		})
	}
}

func TestScoreIdenticalTextIsOne(t *testing.T) {
	texts := []string{"the quick brown fox", "这是一个测试句子", "Mixed 测试 text"}
	for _, text := range texts {
		if got := Score(text, text); math.Abs(got-1) > 1e-9 {
			t.Fatalf("Score(%q, same) = %v, want 1", text, got)
		}
	}
}

func TestScoreDisjointTextIsZero(t *testing.T) {
	if got := Score("alpha beta", "gamma delta"); got != 0 {
		t.Fatalf("disjoint score = %v, want 0", got)
	}
	if got := Score("", "reference"); got != 0 {
		t.Fatalf("empty candidate score = %v, want 0", got)
	}
	if got := Score("candidate", ""); got != 0 {
		t.Fatalf("empty reference score = %v, want 0", got)
	}
}

func TestScorePartialOverlap(t *testing.T) {
	// LCS = 2 ("a c"), candidate 3 tokens, reference 3 tokens:
	// P = R = 2/3, F = 2/3.
	got := Score("a b c", "a x c")
	if math.Abs(got-2.0/3.0) > 1e-9 {
		t.Fatalf("partial score = %v, want 2/3", got)
	}
}

func TestScoreRespectsOrder(t *testing.T) {
	// Same token multiset, reversed order: LCS shrinks to 1.
	got := Score("one two three", "three two one")
	want := 2 * (1.0 / 3.0) * (1.0 / 3.0) / (2.0 / 3.0)
	if math.Abs(got-want) > 1e-9 {
		t.Fatalf("reversed score = %v, want %v", got, want)
	}
}

func TestScoreIsSymmetricForEqualLengths(t *testing.T) {
	a, b := "shared words here now", "shared other here then"
	if s1, s2 := Score(a, b), Score(b, a); math.Abs(s1-s2) > 1e-9 {
		t.Fatalf("expected symmetry for equal lengths: %v vs %v", s1, s2)
	}
}
