package lts

import "testing"

func TestLabelCompareOrdersTauFirst(t *testing.T) {
	tau := Label{}
	vis := Label{Channel: "a"}
	if tau.Compare(vis) >= 0 {
		t.Fatal("expected tau to sort before visible events")
	}
	if vis.Compare(tau) <= 0 {
		t.Fatal("expected visible event to sort after tau")
	}
}

func TestLabelCompareOrdersByChannelThenValue(t *testing.T) {
	a0 := Label{Channel: "a", HasValue: true, Value: 0}
	a1 := Label{Channel: "a", HasValue: true, Value: 1}
	b := Label{Channel: "b"}
	if a0.Compare(a1) >= 0 {
		t.Fatal("expected a.0 before a.1")
	}
	if a1.Compare(b) >= 0 {
		t.Fatal("expected a.1 before b")
	}
}

func TestLabelStringRoundTrip(t *testing.T) {
	cases := []Label{
		{},
		{Channel: "a"},
		{Channel: "a", HasValue: true, Value: 3},
	}
	for _, l := range cases {
		s := l.String()
		got, err := ParseLabel(s)
		if err != nil {
			t.Fatalf("ParseLabel(%q): %v", s, err)
		}
		if got != l {
			t.Fatalf("round trip mismatch: %+v -> %q -> %+v", l, s, got)
		}
	}
}
