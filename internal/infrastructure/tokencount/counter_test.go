package tokencount

import "testing"

func TestCountTokens(t *testing.T) {
	counter := New()
	cases := []struct {
		name string
		text string
		want int
	}{
		{"empty", "", 0},
		{"single short word", "hi", 1},
		{"long word splits", "internationalization", 5},
		{"cjk counts per character", "你好世界", 4},
		{"mixed scripts", "我用Go写代码", 6},
		{"punctuation counts", "end.", 2},
		{"whitespace separates runs", "one two", 2},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := counter.CountTokens(tc.text); got != tc.want {
				t.Fatalf("CountTokens(%q) = %d, want %d", tc.text, got, tc.want)
			}
		})
	}
}

func TestCountTokensIsDeterministic(t *testing.T) {
	counter := New()
	text := "Mixed 文本 with numbers 12345 and symbols!"
	first := counter.CountTokens(text)
	for i := 0; i < 5; i++ {
		if got := counter.CountTokens(text); got != first {
			t.Fatalf("expected stable count %d, got %d", first, got)
		}
	}
}
