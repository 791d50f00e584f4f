package dictionary

import (
	"testing"
)

func TestLinkageDictionaryDefaultsUnrestricted(t *testing.T) {
	d := NewLinkageDictionary(nil)
	if d.MaxSharing("Si", "Al") != FaceSharing {
		t.Fatalf("expected unrestricted default, got %v", d.MaxSharing("Si", "Al"))
	}
	if !d.IsFeasibleSharing("Si", "Al", FaceSharing) {
		t.Fatal("expected face sharing to be feasible by default")
	}
}

func TestLinkageDictionaryRespectsOrderAndLimit(t *testing.T) {
	d := NewLinkageDictionary(map[[2]string]SharingKind{
		{"Si", "Si"}: CornerSharing,
	})
	if d.MaxSharing("Si", "Si") != CornerSharing {
		t.Fatalf("expected corner-sharing limit, got %v", d.MaxSharing("Si", "Si"))
	}
	if d.IsFeasibleSharing("Si", "Si", EdgeSharing) {
		t.Fatal("edge-sharing should violate a corner-sharing-only limit")
	}
	if !d.IsFeasibleSharing("Si", "Si", CornerSharing) {
		t.Fatal("corner-sharing should satisfy a corner-sharing-only limit")
	}
}

func TestSharingKindFromCount(t *testing.T) {
	cases := map[int]SharingKind{0: Unlinked, 1: CornerSharing, 2: EdgeSharing, 3: FaceSharing, 10: FaceSharing}
	for n, want := range cases {
		if got := SharingKindFromCount(n); got != want {
			t.Fatalf("count %d: expected %v, got %v", n, want, got)
		}
	}
}
