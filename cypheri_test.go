package cypheri

import (
	"errors"
	"reflect"
	"strings"
	"testing"
)

func TestCompile(t *testing.T) {
	mod, err := Compile(`Function id(x) Return x; End`)
	if err != nil {
		t.Fatalf("Compile failed: %v", err)
	}
	if got := mod.FunctionNames(); !reflect.DeepEqual(got, []string{"id"}) {
		t.Errorf("FunctionNames = %v", got)
	}
	if mod.Source() == "" {
		t.Error("Source lost")
	}
}

func TestCompileSyntaxError(t *testing.T) {
	_, err := Compile("Function f() Return 1 End")
	if err == nil {
		t.Fatal("expected error")
	}
	var serr *SyntaxError
	if !errors.As(err, &serr) {
		t.Fatalf("error is %T, want *SyntaxError", err)
	}
	if serr.Line != 1 || serr.Column != 23 {
		t.Errorf("position = %d:%d, want 1:23", serr.Line, serr.Column)
	}
	if serr.Message != "expected ;, got End" {
		t.Errorf("message = %q", serr.Message)
	}
	if !strings.Contains(serr.Error(), "syntax error at 1:23") {
		t.Errorf("Error() = %q", serr.Error())
	}
}

func TestCompileLexicalError(t *testing.T) {
	_, err := Compile("Function f() Return @; End")
	if err == nil {
		t.Fatal("expected error")
	}
	var serr *SyntaxError
	if !errors.As(err, &serr) {
		t.Fatalf("error is %T, want *SyntaxError", err)
	}
	if serr.Message != "Unexpected character" {
		t.Errorf("message = %q", serr.Message)
	}
}

func TestDisassemble(t *testing.T) {
	mod := MustCompile(`Function id(x) Return x; End`)
	listing := mod.Disassemble()
	for _, want := range []string{
		"Function id(args = 1, locals = 1):",
		"+0000: LDLOCAL\t0",
		"+0001: RET",
	} {
		if !strings.Contains(listing, want) {
			t.Errorf("listing missing %q:\n%s", want, listing)
		}
	}
}

func TestDisassembleDeterministic(t *testing.T) {
	const src = `
Function b() Return 2; End
Function a() Return 1; End`
	first := MustCompile(src).Disassemble()
	for i := 0; i < 8; i++ {
		if got := MustCompile(src).Disassemble(); got != first {
			t.Fatal("disassembly varies between compilations")
		}
	}
}

func TestGlobalNames(t *testing.T) {
	mod := MustCompile(`
Function main()
	total = total + count;
	helper();
End
Function helper() End`)
	if got := mod.GlobalNames(); !reflect.DeepEqual(got, []string{"total", "count"}) {
		t.Errorf("GlobalNames = %v, want [total count]", got)
	}
}

func TestStringLiterals(t *testing.T) {
	mod := MustCompile(`Function f() Return "a\tb"; End`)
	if got := mod.StringLiterals(); !reflect.DeepEqual(got, []string{"a\tb"}) {
		t.Errorf("StringLiterals = %q", got)
	}
}

func TestMustCompilePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("MustCompile did not panic on bad source")
		}
	}()
	MustCompile("Function")
}

func TestParallelCompilations(t *testing.T) {
	const src = `Function f(n) Declare r = 1; If n Then r = n; End Return r; End`
	t.Run("group", func(t *testing.T) {
		for i := 0; i < 8; i++ {
			t.Run("", func(t *testing.T) {
				t.Parallel()
				if _, err := Compile(src); err != nil {
					t.Errorf("Compile failed: %v", err)
				}
			})
		}
	})
}
