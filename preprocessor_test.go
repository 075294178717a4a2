package main

import "testing"

func TestPreprocessQuestionMarkPrint(t *testing.T) {
	got := Preprocess("?\"hello\"")
	if got != "print(\"hello\")" {
		t.Fatalf("got %q", got)
	}
}

func TestPreprocessBareQuestionMark(t *testing.T) {
	got := Preprocess("  ?")
	if got != "  print()" {
		t.Fatalf("got %q", got)
	}
}

func TestPreprocessNotEqual(t *testing.T) {
	got := Preprocess("if a != b then")
	if got != "if a ~= b then" {
		t.Fatalf("got %q", got)
	}
}

func TestPreprocessSlashCommentDialect(t *testing.T) {
	got := Preprocess("x = 1 // a comment")
	if got != "x = 1 -- a comment" {
		t.Fatalf("got %q", got)
	}
}

func TestPreprocessPeekSugars(t *testing.T) {
	cases := map[string]string{
		"x = @0x6000": "x = peek(0x6000)",
		"x = %addr":   "x = peek2(addr)",
		"x = $(a+1)":  "x = peek4(a+1)",
	}
	for in, want := range cases {
		if got := Preprocess(in); got != want {
			t.Errorf("Preprocess(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestPreprocessSugarIgnoredInsideString(t *testing.T) {
	got := Preprocess(`print("cost: $5 // not a comment")`)
	if got != `print("cost: $5 // not a comment")` {
		t.Fatalf("got %q, sugars/comments should not fire inside string literals", got)
	}
}

func TestPreprocessDashDashCommentUntouched(t *testing.T) {
	got := Preprocess("x = 1 -- already a comment // with slashes")
	if got != "x = 1 -- already a comment // with slashes" {
		t.Fatalf("got %q", got)
	}
}
