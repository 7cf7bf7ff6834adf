package sets

import "testing"

func TestSetBasics(t *testing.T) {
	s := New("b", "a")
	s.Add("c")
	if !s.Has("a") || !s.Has("c") {
		t.Fatalf("expected members a and c, got %v", s)
	}
	if s.Has("d") {
		t.Fatal("d was never added")
	}
	s.Delete("a")
	if s.Has("a") {
		t.Fatal("a should have been deleted")
	}
	var nilSet Set[string]
	if nilSet.Has("x") {
		t.Fatal("nil set must be empty")
	}
}
