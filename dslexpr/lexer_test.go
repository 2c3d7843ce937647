package dslexpr

import "testing"

func kinds(tokens []Token) []TokenKind {
	out := make([]TokenKind, len(tokens))
	for i, t := range tokens {
		out[i] = t.Kind
	}
	return out
}

func TestTokenizeOperatorsAndLiterals(t *testing.T) {
	tokens, err := Tokenize(`hand_value("hand") >= 17 && !bust`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got := kinds(tokens)
	want := []TokenKind{
		TokenIdentifier, TokenLParen, TokenString, TokenRParen,
		TokenOperator, TokenNumber, TokenOperator, TokenOperator, TokenIdentifier,
		TokenEOF,
	}
	if len(got) != len(want) {
		t.Fatalf("got %d tokens, want %d: %v", len(got), len(want), tokens)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("token %d kind = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestTokenizeBooleanKeywords(t *testing.T) {
	tokens, err := Tokenize("true && false")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tokens[0].Kind != TokenBoolean || tokens[0].Bool != true {
		t.Fatalf("expected true boolean token, got %+v", tokens[0])
	}
	if tokens[2].Kind != TokenBoolean || tokens[2].Bool != false {
		t.Fatalf("expected false boolean token, got %+v", tokens[2])
	}
}

func TestTokenizeStringEscapes(t *testing.T) {
	tokens, err := Tokenize(`"a\nb\tc\\d\"e"`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "a\nb\tc\\d\"e"
	if tokens[0].Text != want {
		t.Fatalf("got %q, want %q", tokens[0].Text, want)
	}
}

func TestTokenizeUnterminatedStringFails(t *testing.T) {
	if _, err := Tokenize(`"unterminated`); err == nil {
		t.Fatal("expected error for unterminated string")
	}
}

func TestTokenizeSingleEqualsSuggestsDoubleEquals(t *testing.T) {
	_, err := Tokenize("a = b")
	if err == nil {
		t.Fatal("expected error for bare '='")
	}
	ee, ok := err.(*ExpressionError)
	if !ok {
		t.Fatalf("expected *ExpressionError, got %T", err)
	}
	if ee.Stage != "tokenize" {
		t.Fatalf("expected tokenize stage error, got %q", ee.Stage)
	}
}

func TestTokenizeMultiCharOperatorsPreferLongestMatch(t *testing.T) {
	tokens, err := Tokenize("a <= b")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tokens[1].Kind != TokenOperator || tokens[1].Text != "<=" {
		t.Fatalf("expected single '<=' operator token, got %+v", tokens[1])
	}
}

func TestTokenizeDotVsDecimalNumber(t *testing.T) {
	tokens, err := Tokenize("foo.bar 3.5")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tokens[1].Kind != TokenDot {
		t.Fatalf("expected dot token, got %+v", tokens[1])
	}
	if tokens[3].Kind != TokenNumber || tokens[3].Number != 3.5 {
		t.Fatalf("expected number 3.5, got %+v", tokens[3])
	}
}
