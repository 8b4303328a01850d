package diag

import (
	"errors"
	"fmt"
	"testing"
)

type codedErr struct{ node string }

func (e *codedErr) Error() string    { return "boom" }
func (e *codedErr) DiagCode() Code   { return LowUnknownOperation }
func (e *codedErr) NodeRepr() string { return e.node }

func TestBagLimit(t *testing.T) {
	b := NewBag(2)
	for i := range 3 {
		added := b.Add(Diagnostic{Severity: SevWarning, Message: fmt.Sprint(i)})
		if want := i < 2; added != want {
			t.Fatalf("Add #%d = %v, want %v", i, added, want)
		}
	}
	if b.Len() != 2 {
		t.Fatalf("Len = %d, want 2", b.Len())
	}
	if b.HasErrors() {
		t.Fatalf("warnings reported as errors")
	}
}

func TestBagSort(t *testing.T) {
	b := NewBag(10)
	b.Add(Diagnostic{File: "b.json", Severity: SevError, Code: LowUnknownStmt})
	b.Add(Diagnostic{File: "a.json", Severity: SevWarning, Code: DocMalformed})
	b.Add(Diagnostic{File: "a.json", Severity: SevError, Code: LowUnknownOperation})
	b.Sort()
	items := b.Items()
	if items[0].Code != LowUnknownOperation || items[1].Code != DocMalformed || items[2].File != "b.json" {
		t.Fatalf("unexpected order: %+v", items)
	}
}

func TestFromError(t *testing.T) {
	err := fmt.Errorf("lower x.json: %w", &codedErr{node: "quux"})
	d := FromError("x.json", err)
	if d.Code != LowUnknownOperation || d.Node != "quux" || d.Severity != SevError {
		t.Fatalf("unexpected diagnostic %+v", d)
	}
	if got := d.String(); got != `x.json: ERROR LOW3001: lower x.json: boom (at "quux")` {
		t.Fatalf("String() = %q", got)
	}

	plain := FromError("", errors.New("plain"))
	if plain.Code != UnknownCode || plain.String() != "<input>: ERROR E0000: plain" {
		t.Fatalf("plain diagnostic %+v / %q", plain, plain.String())
	}
}
