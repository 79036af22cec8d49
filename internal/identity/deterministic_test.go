package identity

import (
	"testing"

	"github.com/google/uuid"
)

func TestUUIDIsStable(t *testing.T) {
	first := PageUUID("About-Us")
	second := PageUUID(" about-us ")
	if first == uuid.Nil {
		t.Fatal("expected non-nil uuid")
	}
	if first != second {
		t.Fatalf("expected normalized keys to match: %s != %s", first, second)
	}
}

func TestUUIDSeparatesDomains(t *testing.T) {
	if PageUUID("home") == TrackerUUID("home") {
		t.Fatal("page and tracker ids must not collide")
	}
	if NodeUUID("home", "root") == NodeUUID("about", "root") {
		t.Fatal("node ids must differ across trees")
	}
}

func TestUUIDEmptyKey(t *testing.T) {
	if got := UUID("   "); got != uuid.Nil {
		t.Fatalf("expected nil uuid for empty key, got %s", got)
	}
}
