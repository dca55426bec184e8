package types

import "testing"

func TestClusterIDStringParseRoundTrip(t *testing.T) {
	id := NewClusterID([5]uint32{1, 2, 3, 4, 5})
	parsed, err := ParseClusterID(id.String())
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if parsed != id {
		t.Errorf("parsed id = %v, want %v", parsed, id)
	}
}

func TestParseClusterIDRejectsWrongLength(t *testing.T) {
	if _, err := ParseClusterID("abcd"); err == nil {
		t.Fatal("expected error for short cluster id")
	}
}

func TestParseClusterIDRejectsNonHex(t *testing.T) {
	if _, err := ParseClusterID("zz" + string(make([]byte, 38))); err == nil {
		t.Fatal("expected error for non-hex cluster id")
	}
}

func TestClusterIDMarshalTextMatchesString(t *testing.T) {
	id := NewClusterID([5]uint32{10, 20, 30, 40, 50})
	text, err := id.MarshalText()
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(text) != id.String() {
		t.Errorf("marshaled text = %q, want %q", text, id.String())
	}

	var roundTrip ClusterID
	if err := roundTrip.UnmarshalText(text); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if roundTrip != id {
		t.Errorf("round trip = %v, want %v", roundTrip, id)
	}
}
