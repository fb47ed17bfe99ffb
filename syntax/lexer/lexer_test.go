// Copyright 2018 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package lexer

import (
	"testing"

	"github.com/namibj/zaia/syntax"
)

func scanAll(t *testing.T, src string) []Token {
	t.Helper()
	interner := syntax.NewInterner()
	l := New([]byte(src), interner)
	var toks []Token
	for {
		tok, err := l.Next()
		if err != nil {
			t.Fatalf("lex %q: %v", src, err)
		}
		if tok.Kind == EOF {
			return toks
		}
		toks = append(toks, tok)
	}
}

func TestLexKeywordsAndIdents(t *testing.T) {
	toks := scanAll(t, "local x = foo")
	want := []Kind{KwLocal, Ident, Assign, Ident}
	if len(toks) != len(want) {
		t.Fatalf("got %d tokens, want %d", len(toks), len(want))
	}
	for i, k := range want {
		if toks[i].Kind != k {
			t.Errorf("token %d kind = %v, want %v", i, toks[i].Kind, k)
		}
	}
}

func TestLexNumbers(t *testing.T) {
	toks := scanAll(t, "1 3.5 0x1F 0x1.8p3")
	if len(toks) != 4 {
		t.Fatalf("got %d tokens, want 4", len(toks))
	}
	if toks[0].Kind != Int || toks[0].IntVal != 1 {
		t.Errorf("token 0 = %+v, want Int(1)", toks[0])
	}
	if toks[1].Kind != Float || toks[1].FloatVal != 3.5 {
		t.Errorf("token 1 = %+v, want Float(3.5)", toks[1])
	}
	if toks[2].Kind != HexInt || toks[2].IntVal != 0x1F {
		t.Errorf("token 2 = %+v, want HexInt(31)", toks[2])
	}
	if toks[3].Kind != HexFloat || toks[3].FloatVal != 12.0 {
		t.Errorf("token 3 = %+v, want HexFloat(12.0)", toks[3])
	}
}

func TestLexStringEscapes(t *testing.T) {
	toks := scanAll(t, `"foo\nbar"`)
	if len(toks) != 1 || toks[0].Kind != String {
		t.Fatalf("got %+v, want a single String token", toks)
	}
	if string(toks[0].StrVal) != "foo\nbar" {
		t.Errorf("decoded = %q, want %q", toks[0].StrVal, "foo\nbar")
	}
}

func TestLexLineComment(t *testing.T) {
	toks := scanAll(t, "1 -- trailing comment\n+ 2")
	want := []Kind{Int, Plus, Int}
	if len(toks) != len(want) {
		t.Fatalf("got %d tokens, want %d", len(toks), len(want))
	}
}

func TestLexLongComment(t *testing.T) {
	toks := scanAll(t, "1 --[==[ a long\ncomment ]==] + 2")
	want := []Kind{Int, Plus, Int}
	if len(toks) != len(want) {
		t.Fatalf("got %d tokens, want %d", len(toks), len(want))
	}
}

func TestLexLongString(t *testing.T) {
	toks := scanAll(t, "[[hello\nworld]]")
	if len(toks) != 1 || toks[0].Kind != String {
		t.Fatalf("got %+v, want a single String token", toks)
	}
	if string(toks[0].StrVal) != "hello\nworld" {
		t.Errorf("decoded = %q, want %q", toks[0].StrVal, "hello\nworld")
	}
}
