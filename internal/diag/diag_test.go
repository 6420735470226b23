package diag

import "testing"

func TestOrderingIsEmissionOrderNotSourcePosition(t *testing.T) {
	l := NewLog()
	l.AddError(Loc{Line: 3, Column: 1}, "recorded first")
	l.AddWarning(Loc{Line: 1, Column: 5}, "recorded second")
	l.AddError(Loc{Line: 1, Column: 0}, "recorded third")

	msgs := l.Done()
	if len(msgs) != 3 {
		t.Fatalf("expected 3 messages, got %d", len(msgs))
	}
	if msgs[0].Text != "recorded first" || msgs[1].Text != "recorded second" || msgs[2].Text != "recorded third" {
		t.Fatalf("expected emission order regardless of source position, got: %+v", msgs)
	}
}

func TestHasErrors(t *testing.T) {
	l := NewLog()
	l.AddWarning(Loc{Line: 1}, "just a warning")
	if l.HasErrors() {
		t.Fatal("expected no errors")
	}
	l.AddError(Loc{Line: 2}, "boom")
	if !l.HasErrors() {
		t.Fatal("expected an error")
	}
}

func TestMsgFormat(t *testing.T) {
	m := Msg{Loc: Loc{Line: 4, Column: 10}, Severity: Error, Text: "cannot request address of register"}
	if got, want := m.String(), "[4:10] cannot request address of register"; got != want {
		t.Fatalf("got %q want %q", got, want)
	}
}
