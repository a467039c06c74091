package pipeline

import (
	"strings"
	"testing"
)

func TestFormulaRewriter_Rewrite(t *testing.T) {
	t.Parallel()

	const endpoint = "https://latex.codecogs.com/png.image?"

	tests := []struct {
		name  string
		input string
		want  string
		count int
	}{
		{
			name:  "no dollars",
			input: "plain text",
			want:  "plain text",
		},
		{
			name:  "currency with cents",
			input: "costs $10.50 today",
			want:  "costs $10.50 today",
		},
		{
			name:  "two prices",
			input: "between $5 and $10",
			want:  "between $5 and $10",
		},
		{
			name:  "dollar-wrapped price",
			input: "$5$",
			want:  "$5$",
		},
		{
			name:  "inline formula",
			input: "$E=mc^2$",
			want:  `<img class="math-inline" src="` + endpoint + `%5Cdpi%7B150%7D%20E%3Dmc%5E2" alt="E=mc^2" />`,
			count: 1,
		},
		{
			name:  "block formula",
			input: "$$x^2$$",
			want:  `<img class="math-block" src="` + endpoint + `%5Cdpi%7B300%7D%20%5Cdisplaystyle%20x%5E2" alt="x^2" />`,
			count: 1,
		},
		{
			name:  "multi-line block is joined",
			input: "$$\na\nb\n$$",
			want:  `<img class="math-block" src="` + endpoint + `%5Cdpi%7B300%7D%20%5Cdisplaystyle%20a%20b" alt="a b" />`,
			count: 1,
		},
		{
			name:  "empty block untouched",
			input: "$$ $$",
			want:  "$$ $$",
		},
		{
			name:  "escaped opening",
			input: `\$x$`,
			want:  `\$x$`,
		},
		{
			name:  "escaped closing",
			input: `$x\$`,
			want:  `$x\$`,
		},
		{
			name:  "leading space",
			input: "$ x$",
			want:  "$ x$",
		},
		{
			name:  "trailing space",
			input: "$x $",
			want:  "$x $",
		},
		{
			name:  "newline breaks inline",
			input: "$x\ny$",
			want:  "$x\ny$",
		},
		{
			name:  "alt is escaped",
			input: "$a<b$",
			want:  `<img class="math-inline" src="` + endpoint + `%5Cdpi%7B150%7D%20a%3Cb" alt="a&lt;b" />`,
			count: 1,
		},
	}

	f := NewFormulaRewriter("")
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, n := f.Rewrite(tt.input)
			if got != tt.want {
				t.Errorf("Rewrite(%q) = %q, want %q", tt.input, got, tt.want)
			}
			if n != tt.count {
				t.Errorf("Rewrite(%q) count = %d, want %d", tt.input, n, tt.count)
			}
		})
	}
}

func TestFormulaRewriter_BlockThenInline(t *testing.T) {
	t.Parallel()

	got, n := NewFormulaRewriter("").Rewrite("Let $a$ be\n$$a+b$$\nand $b$.")
	if n != 3 {
		t.Fatalf("count = %d, want 3", n)
	}
	if strings.Count(got, `class="math-inline"`) != 2 {
		t.Errorf("want 2 inline images in %q", got)
	}
	if strings.Count(got, `class="math-block"`) != 1 {
		t.Errorf("want 1 block image in %q", got)
	}
	if !strings.HasPrefix(got, "Let <img") || !strings.HasSuffix(got, "/>.") {
		t.Errorf("surrounding prose changed: %q", got)
	}
}

func TestFormulaRewriter_CustomEndpoint(t *testing.T) {
	t.Parallel()

	got, _ := NewFormulaRewriter("https://tex.example.com/render?").Rewrite("$y$")
	if !strings.Contains(got, `src="https://tex.example.com/render?%5Cdpi`) {
		t.Errorf("Rewrite() = %q, want custom endpoint", got)
	}
}

func TestFormulaRewriter_CodeIsProtected(t *testing.T) {
	t.Parallel()

	input := "inline `$x$` and\n```\n$$y$$\n```\nbut $z$"
	protected, v := Protect(input)
	rewritten, n := NewFormulaRewriter("").Rewrite(protected)
	got := v.Restore(rewritten)

	if n != 1 {
		t.Errorf("count = %d, want 1", n)
	}
	if !strings.HasPrefix(got, "inline `$x$` and\n```\n$$y$$\n```\nbut <img") {
		t.Errorf("code content was rewritten: %q", got)
	}
}

func TestEncodeURIComponent(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input string
		want  string
	}{
		{"a b", "a%20b"},
		{`\frac{1}{2}`, "%5Cfrac%7B1%7D%7B2%7D"},
		{"a+b", "a%2Bb"},
	}
	for _, tt := range tests {
		if got := encodeURIComponent(tt.input); got != tt.want {
			t.Errorf("encodeURIComponent(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}
