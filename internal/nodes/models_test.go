package nodes

import (
	"errors"
	"testing"
)

func TestEncodeDecodeStep(t *testing.T) {
	cases := map[int]string{
		1:  "0001",
		35: "000Z",
		36: "0010",
	}
	for position, want := range cases {
		got, err := encodeStep(position)
		if err != nil {
			t.Fatalf("encodeStep(%d) error = %v", position, err)
		}
		if got != want {
			t.Fatalf("encodeStep(%d) = %q, want %q", position, got, want)
		}
		back, err := decodeStep(got)
		if err != nil || back != position {
			t.Fatalf("decodeStep(%q) = %d, %v", got, back, err)
		}
	}

	if _, err := encodeStep(36 * 36 * 36 * 36); !errors.Is(err, ErrPathExhausted) {
		t.Fatalf("expected ErrPathExhausted, got %v", err)
	}
	if _, err := decodeStep("00-1"); !errors.Is(err, ErrInvalidPath) {
		t.Fatalf("expected ErrInvalidPath, got %v", err)
	}
}

func TestNextPath(t *testing.T) {
	got, err := nextPath("0001", "")
	if err != nil || got != "00010001" {
		t.Fatalf("nextPath first child = %q, %v", got, err)
	}
	got, err = nextPath("0001", "00010009")
	if err != nil || got != "0001000A" {
		t.Fatalf("nextPath after 0009 = %q, %v", got, err)
	}
}

func TestNodePathHelpers(t *testing.T) {
	root := &Node{Path: "0002", Depth: 1}
	child := &Node{Path: "00020001", Depth: 2}
	grandchild := &Node{Path: "000200010003", Depth: 3}

	if !root.IsRoot() || child.IsRoot() {
		t.Fatal("unexpected IsRoot results")
	}
	if grandchild.RootPath() != "0002" {
		t.Fatalf("expected root path 0002, got %q", grandchild.RootPath())
	}
	if grandchild.ParentPath() != "00020001" {
		t.Fatalf("expected parent path 00020001, got %q", grandchild.ParentPath())
	}
	if root.ParentPath() != "" {
		t.Fatalf("expected empty parent path for root, got %q", root.ParentPath())
	}
	if !grandchild.IsDescendantOf(root) || root.IsDescendantOf(grandchild) || root.IsDescendantOf(root) {
		t.Fatal("unexpected IsDescendantOf results")
	}
}
